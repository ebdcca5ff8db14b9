package main

import (
	"github.com/dyike/stocklyzer/internal/cli"
)

func main() {
	cli.Run()
}
