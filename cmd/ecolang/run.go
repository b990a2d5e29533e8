package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/ecolang-io/ecolang"
	"github.com/ecolang-io/ecolang/sandbox"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Run a program",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runHandler,
	}
	f := cmd.Flags()
	f.StringP("code", "c", "", "Code to run")
	f.Bool("stdin", false, "Read code from stdin")
	f.StringArrayP("input", "i", nil, "Value for an ask statement, as name=value")
	f.Int64("max-steps", 0, "Statement budget (0 uses the default)")
	f.Int64("max-loop", 0, "Per-loop iteration cap (0 uses the default)")
	f.Duration("max-time", 0, "Wall-clock budget (0 uses the default)")
	f.Int64("max-output-chars", 0, "Output budget in characters (0 uses the default)")
	f.Bool("sandbox", false, "Evaluate expressions in the restricted sandbox worker")
	f.Bool("json", false, "Print the full result as JSON")
	f.Bool("timing", false, "Show execution time")
	return cmd
}

func init() {
	rootCmd.AddCommand(newRunCmd())
}

func runHandler(cmd *cobra.Command, args []string) error {
	source, err := getCode(cmd, args)
	if err != nil {
		return err
	}
	opts, err := collectRunOptions(cmd)
	if err != nil {
		return err
	}

	result := ecolang.Execute(cmd.Context(), source, opts...)

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		if err := printResultJSON(result); err != nil {
			return err
		}
	} else {
		printResultText(result)
	}
	if timing, _ := cmd.Flags().GetBool("timing"); timing {
		fmt.Fprintf(os.Stderr, "%v\n", result.Duration)
	}
	if result.Err != nil {
		os.Exit(1)
	}
	return nil
}

// getCode resolves the program text from --code, a file argument, or
// stdin, rejecting ambiguous combinations.
func getCode(cmd *cobra.Command, args []string) (string, error) {
	code, _ := cmd.Flags().GetString("code")
	useStdin, _ := cmd.Flags().GetBool("stdin")

	count := 0
	if code != "" {
		count++
	}
	if useStdin {
		count++
	}
	if len(args) > 0 {
		count++
	}
	if count > 1 {
		return "", errors.New("multiple code sources specified")
	}

	switch {
	case code != "":
		return code, nil
	case len(args) > 0:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", err
		}
		return string(data), nil
	case useStdin || !isTerminalStdin():
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		return string(data), nil
	default:
		return "", errors.New("no code provided; pass a file, use --code, or pipe to stdin")
	}
}

func isTerminalStdin() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func collectRunOptions(cmd *cobra.Command) ([]ecolang.Option, error) {
	var opts []ecolang.Option

	pairs, _ := cmd.Flags().GetStringArray("input")
	if len(pairs) > 0 {
		inputs := make(map[string]any, len(pairs))
		for _, pair := range pairs {
			name, raw, ok := strings.Cut(pair, "=")
			if !ok || name == "" {
				return nil, fmt.Errorf("invalid input %q, want name=value", pair)
			}
			inputs[name] = coerceInput(raw)
		}
		opts = append(opts, ecolang.WithInputs(inputs))
	}

	if n, _ := cmd.Flags().GetInt64("max-steps"); n > 0 {
		opts = append(opts, ecolang.WithMaxSteps(n))
	}
	if n, _ := cmd.Flags().GetInt64("max-loop"); n > 0 {
		opts = append(opts, ecolang.WithMaxLoop(n))
	}
	if d, _ := cmd.Flags().GetDuration("max-time"); d > 0 {
		opts = append(opts, ecolang.WithMaxTime(d))
	}
	if n, _ := cmd.Flags().GetInt64("max-output-chars"); n > 0 {
		opts = append(opts, ecolang.WithMaxOutputChars(n))
	}
	if useSandbox, _ := cmd.Flags().GetBool("sandbox"); useSandbox {
		opts = append(opts, ecolang.WithSandbox(sandbox.NewRunner()))
	}
	return opts, nil
}

// coerceInput types a command line value the way JSON would: numbers
// and booleans become typed values, everything else stays a string.
func coerceInput(raw string) any {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	switch raw {
	case "true":
		return true
	case "false":
		return false
	}
	return raw
}
