package main

import "github.com/Alturino/plantstore/cmd"

func main() {
	cmd.Start()
}
