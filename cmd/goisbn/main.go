package main

import "github.com/jianyun8023/goisbn/cmd/goisbn/commands"

func main() {
	commands.Execute()
}
