package main

import "github.com/OpenTraceLab/keylayout/cmd/keylayout/cmd"

func main() {
	cmd.Execute()
}
