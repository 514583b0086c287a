// Package main is the entry point of the lfusim command.
package main

import (
	"github.com/sarchlab/lfusim/lfusim/cmd"
	"github.com/tebeka/atexit"
)

func main() {
	cmd.Execute()
	atexit.Exit(0)
}
