package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X".
var version = "0.1.0"

// Exit codes.
const (
	ExitSuccess      = 0
	ExitToolError    = 1
	ExitUsageError   = 2
	ExitRuntimeError = 4
)

// Global flags feeding config overrides.
var (
	flagLogLevel      string
	flagMaxTokens     int
	flagMaxInputBytes int
	flagTimeout       int
	flagNoRedact      bool
)

var rootCmd = &cobra.Command{
	Use:   "chorus",
	Short: "Multi-provider AI review tool server",
	Long: "Chorus exposes Anthropic, OpenAI and Gemini as MCP tools over stdio, " +
		"plus a multi_ai_review tool that asks all of them at once.",
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print chorus version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "chorus version %s\n", version)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	pf.IntVar(&flagMaxTokens, "max-tokens", 0, "Maximum tokens per provider response")
	pf.IntVar(&flagMaxInputBytes, "max-input-bytes", 0, "Truncate code longer than this many bytes")
	pf.IntVar(&flagTimeout, "timeout", 0, "HTTP timeout per provider call in seconds")
	pf.BoolVar(&flagNoRedact, "no-redact", false, "Disable secret redaction (use with caution)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

// Run executes the root command and returns an exit code.
func Run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return execute(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

func execute(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	exitCode = ExitSuccess
	rootCmd.SetArgs(args)
	rootCmd.SetIn(in)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Cobra already prints the error
		return ExitUsageError
	}
	return exitCode
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagLogLevel != "" {
		m["logLevel"] = flagLogLevel
	}
	if flagMaxTokens > 0 {
		m["maxTokens"] = strconv.Itoa(flagMaxTokens)
	}
	if flagMaxInputBytes > 0 {
		m["maxInputBytes"] = strconv.Itoa(flagMaxInputBytes)
	}
	if flagTimeout > 0 {
		m["timeoutSeconds"] = strconv.Itoa(flagTimeout)
	}
	if flagNoRedact {
		m["privacy.redactSecrets"] = "false"
	}
	return m
}

// fail reports err on stderr and records the exit code.
func fail(cmd *cobra.Command, code int, err error) error {
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	exitCode = code
	return nil
}
