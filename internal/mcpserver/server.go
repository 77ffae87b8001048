package mcpserver

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/dshills/chorus/internal/tools"
)

// Name is the server name reported during MCP initialization.
const Name = "chorus"

// Server exposes a tool dispatcher over MCP.
type Server struct {
	mcp        *server.MCPServer
	dispatcher *tools.Dispatcher
	logger     *slog.Logger
}

// New registers every tool in the dispatcher's registry with a new MCP
// server.
func New(d *tools.Dispatcher, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		mcp: server.NewMCPServer(Name, version,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
		),
		dispatcher: d,
		logger:     logger,
	}
	for _, tool := range Tools(d.Registry()) {
		s.mcp.AddTool(tool, s.handler(tool.Name))
	}
	return s
}

// Tools converts every registered definition into an MCP tool, in
// registration order.
func Tools(reg *tools.Registry) []mcp.Tool {
	defs := reg.List()
	out := make([]mcp.Tool, len(defs))
	for i, def := range defs {
		out[i] = toolFor(def)
	}
	return out
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// Serve reads requests from in and writes responses to out until in is
// closed or ctx is cancelled. Both are treated as a clean shutdown.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelError))

	s.logger.Info("serving tools over stdio", "tools", len(s.dispatcher.Registry().List()))
	err := stdio.Listen(ctx, in, out)
	if err == nil || errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
		s.logger.Info("input closed, shutting down")
		return nil
	}
	return err
}

func (s *Server) handler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res := s.dispatcher.Invoke(ctx, tools.Request{
			Tool:      name,
			Arguments: req.GetArguments(),
		})
		if res.IsError() {
			return mcp.NewToolResultError(res.Text), nil
		}
		return mcp.NewToolResultText(res.Text), nil
	}
}

// toolFor converts a definition into an MCP tool with a JSON schema.
func toolFor(def tools.ToolDefinition) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(def.Description)}
	for _, name := range def.Params.Names() {
		p := def.Params[name]
		props := []mcp.PropertyOption{mcp.Description(p.Description)}
		if p.Required {
			props = append(props, mcp.Required())
		}
		switch p.Type {
		case tools.TypeNumber:
			opts = append(opts, mcp.WithNumber(name, props...))
		case tools.TypeBoolean:
			opts = append(opts, mcp.WithBoolean(name, props...))
		default:
			if len(p.Enum) > 0 {
				props = append(props, mcp.Enum(p.Enum...))
			}
			if p.Default != "" {
				props = append(props, mcp.DefaultString(p.Default))
			}
			opts = append(opts, mcp.WithString(name, props...))
		}
	}
	return mcp.NewTool(def.Name, opts...)
}
