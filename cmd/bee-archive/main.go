package main

import "github.com/pfrederiksen/bee-archive/internal/cli"

func main() {
	cli.Execute()
}
