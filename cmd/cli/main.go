package main

import "commentshub/cmd/cli/command"

func main() {
	command.Execute()
}
