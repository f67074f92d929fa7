package main

import "bookreview-backend/cmd/catalogctl/commands"

func main() {
	commands.Execute()
}
