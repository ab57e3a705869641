package epub

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
)

const opfMediaType = "application/oebps-package+xml"

// Reader gives access to the package document of an EPUB file.
type Reader struct {
	zipReader *zip.Reader
	closer    io.Closer

	// OpfPath is the location of the OPF file relative to root
	OpfPath string

	// Book holds the metadata read from the OPF
	Book *Book
}

// Open opens an EPUB file and reads its package metadata.
func Open(path string) (*Reader, error) {
	z, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open zip: %w", err)
	}

	r := &Reader{
		zipReader: &z.Reader,
		closer:    z,
	}

	if err := r.parseContainer(); err != nil {
		r.Close()
		return nil, fmt.Errorf("failed to parse container: %w", err)
	}

	if err := r.parseOPF(); err != nil {
		r.Close()
		return nil, fmt.Errorf("failed to parse OPF: %w", err)
	}

	r.Book.Path = path
	return r, nil
}

// ReadIdentifiers opens path, reads its title and identifiers and closes it.
func ReadIdentifiers(path string) (*Book, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return r.Book, nil
}

// Close closes the underlying zip file.
func (r *Reader) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

// parseContainer reads META-INF/container.xml to find the OPF file.
func (r *Reader) parseContainer() error {
	doc, err := r.readXML("META-INF/container.xml")
	if err != nil {
		return fmt.Errorf("container.xml: %w", err)
	}

	root := doc.Root()
	if root == nil || root.Tag != "container" {
		return fmt.Errorf("malformed container.xml")
	}

	var first string
	for _, rf := range root.FindElements("./rootfiles/rootfile") {
		full := rf.SelectAttrValue("full-path", "")
		if full == "" {
			continue
		}
		if rf.SelectAttrValue("media-type", "") == opfMediaType {
			r.OpfPath = full
			return nil
		}
		if first == "" {
			first = full
		}
	}
	if first == "" {
		return fmt.Errorf("no rootfile found in container.xml")
	}

	// Fallback: take the first one
	r.OpfPath = first
	return nil
}

// parseOPF reads the metadata section of the OPF file found in container.xml.
func (r *Reader) parseOPF() error {
	doc, err := r.readXML(r.OpfPath)
	if err != nil {
		return fmt.Errorf("OPF file %s: %w", r.OpfPath, err)
	}

	root := doc.Root()
	if root == nil || root.Tag != "package" {
		return fmt.Errorf("malformed OPF: missing package element")
	}

	book := &Book{OpfPath: r.OpfPath}
	if md := root.SelectElement("metadata"); md != nil {
		book.readMetadata(md)
	}
	r.Book = book
	return nil
}

// readXML parses a file of the archive. Documents declaring a legacy
// encoding are decoded to UTF-8 first.
func (r *Reader) readXML(name string) (*etree.Document, error) {
	f, err := r.openFile(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	doc.ReadSettings.Permissive = true
	if _, err := doc.ReadFrom(f); err != nil {
		return nil, fmt.Errorf("malformed XML: %w", err)
	}
	return doc, nil
}

// openFile helps find a file in the zip by name.
func (r *Reader) openFile(name string) (io.ReadCloser, error) {
	for _, f := range r.zipReader.File {
		if f.Name == name {
			return f.Open()
		}
	}
	return nil, fmt.Errorf("file not found: %s", name)
}

// Find recursively collects the .epub files below dir. A missing dir yields
// no files and no error.
func Find(dir string) ([]string, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(strings.ToLower(d.Name()), ".epub") {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
