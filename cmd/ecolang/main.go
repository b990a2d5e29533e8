// Command ecolang runs programs from the command line.
package main

import (
	"os"

	"github.com/fatih/color"
)

var version = "dev"

func main() {
	if err := Execute(); err != nil {
		printError(err.Error())
		os.Exit(1)
	}
}

func printError(msg string) {
	color.New(color.FgRed).Fprintln(color.Error, msg)
}
