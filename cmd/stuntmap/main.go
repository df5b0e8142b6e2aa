package main

import "github.com/gizitrack/stuntmap/internal/interfaces/cli"

func main() {
	cli.Execute()
}
