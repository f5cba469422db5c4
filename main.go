package main

import "github.com/timvw/prompt-selector/cmd"

func main() {
	cmd.Execute()
}
