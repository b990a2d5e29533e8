package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ecolang-io/ecolang"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRepl(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runRepl(ctx context.Context) error {
	historyFile := ""
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, ".ecolang_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            color.GreenString("eco> "),
		HistoryFile:       historyFile,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("readline init failed: %w", err)
	}
	defer rl.Close()

	fmt.Fprintf(rl.Stdout(), "EcoLang %s (type 'exit' or Ctrl+D to quit)\n", version)

	session := ecolang.NewSession()
	var accumulated strings.Builder
	depth := 0

	for {
		// Switch prompts while a block is still open
		if depth > 0 {
			rl.SetPrompt(color.New(color.Faint).Sprint("...> "))
		} else {
			rl.SetPrompt(color.GreenString("eco> "))
		}

		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				if depth > 0 {
					accumulated.Reset()
					depth = 0
					continue
				}
				fmt.Fprintln(rl.Stdout(), "(use 'exit' or Ctrl+D to quit)")
				continue
			}
			if err == io.EOF {
				fmt.Fprintln(rl.Stdout())
			}
			return nil
		}

		if depth == 0 && strings.TrimSpace(line) == "exit" {
			return nil
		}

		depth += blockDelta(line)
		if depth < 0 {
			depth = 0
		}
		accumulated.WriteString(line)
		accumulated.WriteString("\n")
		if depth > 0 {
			continue
		}

		source := accumulated.String()
		accumulated.Reset()
		if strings.TrimSpace(source) == "" {
			continue
		}

		printReplResult(rl, session.Eval(ctx, source))
	}
}

// blockDelta reports how a line changes the open-block depth. Statements
// are line oriented, so the first word is enough to tell.
func blockDelta(line string) int {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return 0
	}
	switch fields[0] {
	case "if", "while", "for", "repeat", "func":
		return 1
	case "end":
		return -1
	}
	return 0
}

func printReplResult(rl *readline.Instance, result *ecolang.Result) {
	for _, line := range result.Output {
		fmt.Fprintln(rl.Stdout(), line)
	}
	for _, warning := range result.Warnings {
		color.New(color.FgYellow).Fprintf(rl.Stderr(), "warning: %s\n", warning)
	}
	if result.Err != nil {
		color.New(color.FgRed).Fprint(rl.Stderr(), result.Err.FriendlyErrorMessage())
		return
	}
	if result.Eco != nil && result.Eco.TotalOps > 0 {
		color.New(color.Faint).Fprintf(rl.Stdout(), "(%d ops, %s J)\n",
			result.Eco.TotalOps, formatReading(result.Eco.EnergyJ))
	}
}
