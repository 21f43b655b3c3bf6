package main

import "github.com/grendel/noprints/internal/cli"

func main() {
	cli.Execute()
}
