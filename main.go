package main

import "serterm/cmd"

func main() {
	cmd.Execute()
}
