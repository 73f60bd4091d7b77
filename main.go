package main

import "github.com/dumpersafety/dumperwatch/cmd"

func main() {
	cmd.Execute()
}
