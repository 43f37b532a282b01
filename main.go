package main

import "github.com/lavigneer/cppquickfix-lsp/cmd"

func main() {
	cmd.Execute()
}
