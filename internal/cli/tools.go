package cli

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/dshills/chorus/internal/mcpserver"
	"github.com/dshills/chorus/internal/tools"
)

var codec = jsoniter.ConfigCompatibleWithStandardLibrary

var flagToolsJSON bool

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools the server exposes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cmd.ErrOrStderr())
		if err != nil {
			return fail(cmd, ExitRuntimeError, err)
		}
		defer a.close()

		reg := a.dispatcher.Registry()
		out := cmd.OutOrStdout()
		if flagToolsJSON {
			data, err := codec.MarshalIndent(mcpserver.Tools(reg), "", "  ")
			if err != nil {
				return fail(cmd, ExitRuntimeError, err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		for _, def := range reg.List() {
			fmt.Fprintf(out, "%s\n  %s\n", def.Name, def.Description)
			for _, name := range def.Params.Names() {
				fmt.Fprintf(out, "    %s\n", describeParam(name, def.Params[name]))
			}
		}
		return nil
	},
}

func describeParam(name string, p tools.Param) string {
	s := fmt.Sprintf("%s (%s", name, p.Type)
	if p.Required {
		s += ", required"
	}
	if p.Default != "" {
		s += ", default " + p.Default
	}
	s += ")"
	if len(p.Enum) > 0 {
		s += fmt.Sprintf(" one of %v", p.Enum)
	}
	return s + ": " + p.Description
}

func init() {
	toolsCmd.Flags().BoolVar(&flagToolsJSON, "json", false, "Print MCP tool schemas as JSON")
}
