package main

import "github.com/bloxpanel/bloxpanel/internal/cli"

func main() {
	cli.Execute()
}
