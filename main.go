package main

import "github.com/mwerner/flatkv/cmd"

func main() {
	cmd.Execute()
}
