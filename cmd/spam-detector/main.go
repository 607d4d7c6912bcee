package main

import "github.com/mikey/spam-classifier/internal/cli"

func main() {
	cli.Execute()
}
