package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/chorus/internal/tools"
)

var flagCodeFile string

var askCmd = &cobra.Command{
	Use:   "ask <provider> <prompt>",
	Short: "Ask one provider a question",
	Long: "Ask sends a prompt, and optionally a code file, to one provider " +
		"(anthropic, openai or gemini) through the same tool used by serve.",
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.ToLower(args[0])
		if name == "google" {
			name = "gemini"
		}
		tool := tools.AskToolName(name)

		a, err := newApp(cmd.Context(), cmd.ErrOrStderr())
		if err != nil {
			return fail(cmd, ExitRuntimeError, err)
		}
		defer a.close()

		if _, ok := a.dispatcher.Registry().Resolve(tool); !ok {
			return fail(cmd, ExitUsageError, fmt.Errorf("unknown provider %q", args[0]))
		}

		toolArgs := map[string]any{"prompt": args[1]}
		if flagCodeFile != "" {
			code, err := readInput(cmd.InOrStdin(), flagCodeFile)
			if err != nil {
				return fail(cmd, ExitRuntimeError, err)
			}
			toolArgs["code"] = code
		}

		res := a.dispatcher.Invoke(cmd.Context(), tools.Request{Tool: tool, Arguments: toolArgs})
		return report(cmd, res)
	},
}

// report prints a tool result and sets the exit code from it.
func report(cmd *cobra.Command, res tools.Result) error {
	if res.IsError() {
		fmt.Fprintln(cmd.ErrOrStderr(), res.Text)
		exitCode = ExitToolError
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(res.Text, "\n"))
	return nil
}

// readInput reads path, or in when path is "-".
func readInput(in io.Reader, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(in)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

func init() {
	askCmd.Flags().StringVar(&flagCodeFile, "code-file", "", "File with code to include (- for stdin)")
}
