package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/chorus/internal/output"
	"github.com/dshills/chorus/internal/review"
	"github.com/dshills/chorus/internal/tools"
)

var (
	flagFocus  string
	flagFile   string
	flagFormat string
	flagOut    string
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review code with every provider in parallel",
	Long: "Review sends code to every provider at once, each with its own " +
		"review role, and prints one section per provider. Code is read from " +
		"--file or stdin.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		focus, err := review.ParseFocus(flagFocus)
		if err != nil {
			return fail(cmd, ExitUsageError, err)
		}
		if _, err := output.GetWriter(flagFormat); err != nil {
			return fail(cmd, ExitUsageError, err)
		}

		code, err := readInput(cmd.InOrStdin(), flagFile)
		if err != nil {
			return fail(cmd, ExitRuntimeError, err)
		}
		if strings.TrimSpace(code) == "" {
			return fail(cmd, ExitUsageError, fmt.Errorf("no code to review"))
		}

		a, err := newApp(cmd.Context(), cmd.ErrOrStderr())
		if err != nil {
			return fail(cmd, ExitRuntimeError, err)
		}
		defer a.close()

		// Plain text to stdout is exactly what the MCP tool returns.
		if strings.EqualFold(flagFormat, "text") && flagOut == "" {
			res := a.dispatcher.Invoke(cmd.Context(), tools.Request{
				Tool:      tools.MultiReviewTool,
				Arguments: map[string]any{"code": code, "focus": string(focus)},
			})
			return report(cmd, res)
		}

		rep := tools.ReviewReport(cmd.Context(), a.aggregator, a.policy, code, focus)
		a.logger.Info("review completed", "focus", rep.Focus, "succeeded", rep.Succeeded(),
			"failed", rep.Failed(), "elapsed", rep.Elapsed)
		if err := writeReport(cmd, rep); err != nil {
			return fail(cmd, ExitRuntimeError, err)
		}
		if rep.Succeeded() == 0 {
			exitCode = ExitToolError
		}
		return nil
	},
}

func writeReport(cmd *cobra.Command, rep *review.CompositeReport) error {
	if flagOut != "" {
		return output.WriteReport(rep, flagFormat, flagOut)
	}
	w, err := output.GetWriter(flagFormat)
	if err != nil {
		return err
	}
	return w.Write(cmd.OutOrStdout(), rep)
}

func init() {
	reviewCmd.Flags().StringVar(&flagFocus, "focus", "all", "Review focus (architecture, security, quality, all)")
	reviewCmd.Flags().StringVar(&flagFile, "file", "-", "File to review (- for stdin)")
	reviewCmd.Flags().StringVar(&flagFormat, "format", "text", "Output format (text, markdown, json)")
	reviewCmd.Flags().StringVar(&flagOut, "out", "", "Output file path (default: stdout)")
}
