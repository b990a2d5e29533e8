package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ecolang-io/ecolang/sandbox"
)

// workerCmd is the child process half of the sandbox. The runner spawns
// this binary with the "worker" argument; it reads one request from
// stdin, writes one response to stdout, and exits.
var workerCmd = &cobra.Command{
	Use:    "worker",
	Short:  "Run a sandbox worker",
	Hidden: true,
	Args:   cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		sandbox.ApplyLimits()
		os.Exit(sandbox.Serve(os.Stdin, os.Stdout))
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
