package main

import "github.com/ridoystarlord/schemashot/cmd"

func main() {
	cmd.Execute()
}
