package main

import "github.com/nextlevelbuilder/govac/cmd"

func main() {
	cmd.Execute()
}
