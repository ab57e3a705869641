package commands

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// resetFlags restores every flag of cmd and its subcommands to its default,
// since the command tree is shared between tests.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// execute runs the CLI with args and returns what it printed to stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func mustContain(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Errorf("Expected output to contain %q, got:\n%s", want, output)
	}
}

// =============================================================================
// parse
// =============================================================================

func TestParseCommand(t *testing.T) {
	out, err := execute(t, "", "parse", "0-12-345678-9")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	mustContain(t, out, "ISBN-13:   9780123456786")
	mustContain(t, out, "ISBN-10:   0123456789")
	mustContain(t, out, "URN:       urn:isbn:9780123456786")
	mustContain(t, out, "Formatted: 978-0-12-345678-6")
}

func TestParseCommandJSON(t *testing.T) {
	out, err := execute(t, "", "parse", "--json", "9791090636071", "0123456780")
	if err == nil {
		t.Error("Expected error for invalid input")
	}

	var results []ParseResult
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("Failed to parse JSON output: %v\nOutput: %s", err, out)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].ISBN10 != "" || results[0].Formatted != "979-10-90636-07-1" {
		t.Errorf("Unexpected result: %+v", results[0])
	}
	if results[1].Error == "" || results[1].ISBN13 != "" {
		t.Errorf("Expected an error result, got %+v", results[1])
	}
}

// =============================================================================
// validate
// =============================================================================

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "", "validate", "0123456789", "0123456780")
	if err == nil {
		t.Error("Expected error when an ISBN fails")
	}
	mustContain(t, out, "[OK]   0123456789")
	mustContain(t, out, "[FAIL] 0123456780")
}

func TestValidateCommandStdin(t *testing.T) {
	out, err := execute(t, "0123456789\n\n  978-0-12-345678-6  \n", "validate")
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if strings.Count(out, "[OK]") != 2 {
		t.Errorf("Expected 2 OK lines, got:\n%s", out)
	}
}

// =============================================================================
// format
// =============================================================================

func TestFormatCommand(t *testing.T) {
	tests := []struct {
		args     []string
		expected string
	}{
		{[]string{"format", "9780321130020"}, "978-0-321-13002-0\n"},
		{[]string{"format", "--sep", "space", "9780321130020"}, "978 0 321 13002 0\n"},
		{[]string{"format", "--sep", "/", "0330284983"}, "0/330/28498/3\n"},
		{[]string{"format", "qwerty", "954430603x"}, "qwerty\n954-430-603-X\n"},
	}

	for _, tt := range tests {
		out, err := execute(t, "", tt.args...)
		if err != nil {
			t.Fatalf("%v failed: %v", tt.args, err)
		}
		if out != tt.expected {
			t.Errorf("%v: expected %q, got %q", tt.args, tt.expected, out)
		}
	}
}

func TestFormatCommandConfigSeparator(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("separator: \" \"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "", "--config", path, "format", "0330284983")
	if err != nil {
		t.Fatal(err)
	}
	if out != "0 330 28498 3\n" {
		t.Errorf("Expected separator from config, got %q", out)
	}

	out, err = execute(t, "", "--config", path, "format", "--sep", "hyphen", "0330284983")
	if err != nil {
		t.Fatal(err)
	}
	if out != "0-330-28498-3\n" {
		t.Errorf("Expected flag to override config, got %q", out)
	}
}

func TestSeparatorValue(t *testing.T) {
	var s separatorValue
	if err := s.Set("space"); err != nil || string(s) != " " || s.String() != "space" {
		t.Errorf("Unexpected value after Set(space): %q", string(s))
	}
	if err := s.Set("::"); err != nil || s.String() != "::" {
		t.Errorf("Unexpected value after Set(::): %q", string(s))
	}
	if err := s.Set(""); err == nil {
		t.Error("Expected error for empty separator")
	}
	if s.Type() != "separator" {
		t.Errorf("Unexpected type: %s", s.Type())
	}
}

// =============================================================================
// convert / check-digit
// =============================================================================

func TestConvertCommand(t *testing.T) {
	out, err := execute(t, "", "convert", "--to", "10", "9780321130020", "978-0-13-142542-2")
	if err != nil {
		t.Fatal(err)
	}
	if out != "0321130022\n0131425420\n" {
		t.Errorf("Unexpected output: %q", out)
	}

	out, err = execute(t, "", "convert", "0-12-345678-9")
	if err != nil {
		t.Fatal(err)
	}
	if out != "9780123456786\n" {
		t.Errorf("Unexpected output: %q", out)
	}

	out, err = execute(t, "", "convert", "--to", "10", "9791090636071")
	if err == nil {
		t.Error("Expected error for 979 number")
	}
	mustContain(t, out, "[FAIL] 9791090636071")

	if _, err := execute(t, "", "convert", "0123456780"); err == nil {
		t.Error("Expected error for bad check digit")
	}
	out, err = execute(t, "", "convert", "--lenient", "0123456780")
	if err != nil {
		t.Fatal(err)
	}
	if out != "9780123456786\n" {
		t.Errorf("Unexpected lenient output: %q", out)
	}

	if _, err := execute(t, "", "convert", "--to", "11", "0123456789"); err == nil {
		t.Error("Expected error for --to 11")
	}
}

func TestCheckDigitCommand(t *testing.T) {
	out, err := execute(t, "", "check-digit", "012345678", "978-0-12-345678", "111800759")
	if err != nil {
		t.Fatal(err)
	}
	expected := "012345678\t9\n978-0-12-345678\t6\n111800759\tX\n"
	if out != expected {
		t.Errorf("Expected %q, got %q", expected, out)
	}

	if _, err := execute(t, "", "check-digit", "1234"); err == nil {
		t.Error("Expected error for malformed input")
	}
}

// =============================================================================
// info / ranges
// =============================================================================

func TestInfoCommand(t *testing.T) {
	out, err := execute(t, "", "info", "0330284983", "0330284980")
	if err != nil {
		t.Fatal(err)
	}
	mustContain(t, out, "ISBN:        0-330-28498-3")
	mustContain(t, out, "Group:       0 (English language)")
	mustContain(t, out, "Registrant:  330")
	mustContain(t, out, "Status:      valid")
	mustContain(t, out, "Status:      invalid check digit")

	out, err = execute(t, "", "info", "9789999999999")
	if err != nil {
		t.Fatal(err)
	}
	mustContain(t, out, "Group:       (unknown)")

	if _, err := execute(t, "", "info", "qwerty"); err == nil {
		t.Error("Expected error for malformed input")
	}
}

func TestRangesCommand(t *testing.T) {
	out, err := execute(t, "", "ranges")
	if err != nil {
		t.Fatal(err)
	}
	mustContain(t, out, "Source:  International ISBN Agency")
	mustContain(t, out, "Groups:  263")
	if strings.Contains(out, "Serial:") || strings.Contains(out, "Date:") {
		t.Errorf("Bundled message carries no serial or date, got:\n%s", out)
	}

	out, err = execute(t, "", "ranges", "978-0", "978611")
	if err != nil {
		t.Fatal(err)
	}
	mustContain(t, out, "9780  English language")
	mustContain(t, out, "  00-19  length 2")
	mustContain(t, out, "  200-227  length 3")
	mustContain(t, out, "978611  Thailand\n  (no registrant ranges)")

	out, err = execute(t, "", "ranges", "978-99937")
	if err != nil {
		t.Fatal(err)
	}
	mustContain(t, out, "97899937  Macau")
	mustContain(t, out, "  600-999  length 3")

	if _, err := execute(t, "", "ranges", "978-42"); err == nil {
		t.Error("Expected error for unknown group")
	}
}

func TestRangesFlag(t *testing.T) {
	msg := `<?xml version="1.0" encoding="utf-8"?>
<ISBNRangeMessage>
  <MessageSource>Local Copy</MessageSource>
  <MessageSerialNumber>7</MessageSerialNumber>
  <RegistrationGroups>
    <Group>
      <Prefix>978-1</Prefix>
      <Agency>Test</Agency>
      <Rules><Rule><Range>0000000-9999999</Range><Length>3</Length></Rule></Rules>
    </Group>
  </RegistrationGroups>
</ISBNRangeMessage>`
	path := filepath.Join(t.TempDir(), "RangeMessage.xml")
	if err := os.WriteFile(path, []byte(msg), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "", "--ranges", path, "ranges")
	if err != nil {
		t.Fatal(err)
	}
	mustContain(t, out, "Source:  Local Copy")
	mustContain(t, out, "Serial:  7")
	mustContain(t, out, "Groups:  1")

	out, err = execute(t, "", "--ranges", path, "format", "1849693080", "0330284983")
	if err != nil {
		t.Fatal(err)
	}
	if out != "1-849-69308-0\n033028498-3\n" {
		t.Errorf("Unexpected output: %q", out)
	}

	if _, err := execute(t, "", "--ranges", filepath.Join(t.TempDir(), "missing.xml"), "ranges"); err == nil {
		t.Error("Expected error for missing range message")
	}
}

// =============================================================================
// audit / stress-test
// =============================================================================

func writeTestEPUB(t *testing.T, path, identifier string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	cw, _ := w.Create("META-INF/container.xml")
	cw.Write([]byte(`<?xml version="1.0"?><container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container"><rootfiles><rootfile full-path="content.opf" media-type="application/oebps-package+xml"/></rootfiles></container>`))
	ow, _ := w.Create("content.opf")
	ow.Write([]byte(`<?xml version="1.0" encoding="utf-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="2.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:opf="http://www.idpf.org/2007/opf">
    <dc:title>Audit Test</dc:title>
    ` + identifier + `
  </metadata>
</package>`))
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestAuditCommand(t *testing.T) {
	dir := t.TempDir()
	writeTestEPUB(t, filepath.Join(dir, "good.epub"), `<dc:identifier opf:scheme="ISBN">978-0-321-13002-0</dc:identifier>`)
	writeTestEPUB(t, filepath.Join(dir, "bad.epub"), `<dc:identifier>urn:isbn:9780321130021</dc:identifier>`)
	writeTestEPUB(t, filepath.Join(dir, "none.epub"), `<dc:identifier opf:scheme="uuid">1234-5678</dc:identifier>`)
	if err := os.WriteFile(filepath.Join(dir, "broken.epub"), []byte("not a zip"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "", "audit", "--workers", "2", dir)
	if err != nil {
		t.Fatalf("audit failed: %v", err)
	}
	mustContain(t, out, "Scanning 4 files...")
	mustContain(t, out, "[OK]   "+filepath.Join(dir, "good.epub")+": 9780321130020")
	mustContain(t, out, "[BAD]  "+filepath.Join(dir, "bad.epub"))
	mustContain(t, out, "[WARN] "+filepath.Join(dir, "none.epub")+": No ISBN")
	mustContain(t, out, "[FAIL] "+filepath.Join(dir, "broken.epub"))
	mustContain(t, out, "Files: 4, Valid ISBNs: 1, Invalid ISBNs: 1, Without ISBN: 1, Failed: 1")
}

func TestStressTestCommand(t *testing.T) {
	out, err := execute(t, "", "stress-test", "--count", "500", "--workers", "4", "--seed", "42")
	if err != nil {
		t.Fatalf("stress-test failed: %v", err)
	}
	mustContain(t, out, "Processed 500 ISBNs")
	mustContain(t, out, "Passed: 500, Failed: 0")
}

func TestGenerateISBNs(t *testing.T) {
	a, err := generateISBNs(10, 7)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := generateISBNs(10, 7)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Generator is not deterministic: %s vs %s", a[i], b[i])
		}
		if len(a[i]) != 13 {
			t.Errorf("Expected 13 digits, got %s", a[i])
		}
	}
	if !strings.HasPrefix(a[1], "979") {
		t.Errorf("Expected odd entries under 979, got %s", a[1])
	}
}
