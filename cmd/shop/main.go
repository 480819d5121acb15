package main

import "github.com/01moynul/stitchshop/cmd/shop/commands"

func main() {
	commands.Execute()
}
