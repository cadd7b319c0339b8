package main

import "github.com/Daskott/rxlink/cmd"

func main() {
	cmd.Execute()
}
