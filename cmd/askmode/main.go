package main

import "github.com/ppiankov/askmode/internal/cli"

func main() {
	cli.Execute()
}
