// Package mcpserver exposes the tool dispatcher over the Model Context Protocol.
package mcpserver

import (
	"context"
	"fmt"

	"github.com/inovacc/git-pr-mcp/internal/application"
	"github.com/inovacc/git-pr-mcp/internal/tools"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const instructions = `Drive a clone -> branch -> edit -> commit -> push -> pull request workflow.
clone_repository sets the active repository; create_git_branch, write_file_in_repo,
read_file_in_repo, list_files_in_repo, git_commit_changes, git_push_branch and
create_github_pr act on it. The other tools inspect any local repository by path.`

// Caller runs a tool by name
type Caller interface {
	Call(ctx context.Context, name string, args map[string]any) (string, error)
}

// New creates an MCP server with every tool in tools.Definitions registered
func New(caller Caller) *server.MCPServer {
	s := server.NewMCPServer(
		application.AppName,
		application.Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	for _, def := range tools.Definitions {
		s.AddTool(NewTool(def), handler(caller, def.Name))
	}

	return s
}

// NewTool converts a tool definition into its MCP schema
func NewTool(def tools.Definition) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(def.Description)}

	if def.ReadOnly {
		opts = append(opts, mcp.WithReadOnlyHintAnnotation(true))
	}

	for _, p := range def.Params {
		propOpts := []mcp.PropertyOption{mcp.Description(p.Description)}
		if p.Required {
			propOpts = append(propOpts, mcp.Required())
		}

		switch p.Type {
		case tools.TypeBoolean:
			if v, ok := p.Default.(bool); ok {
				propOpts = append(propOpts, mcp.DefaultBool(v))
			}

			opts = append(opts, mcp.WithBoolean(p.Name, propOpts...))
		case tools.TypeNumber:
			if v, ok := p.Default.(int); ok {
				propOpts = append(propOpts, mcp.DefaultNumber(float64(v)))
			}

			opts = append(opts, mcp.WithNumber(p.Name, propOpts...))
		case tools.TypeString:
			if v, ok := p.Default.(string); ok {
				propOpts = append(propOpts, mcp.DefaultString(v))
			}

			opts = append(opts, mcp.WithString(p.Name, propOpts...))
		default:
			panic(fmt.Sprintf("tool %s: unsupported parameter type %q", def.Name, p.Type))
		}
	}

	return mcp.NewTool(def.Name, opts...)
}

// handler adapts the dispatcher to mcp-go. Tool failures become isError results.
func handler(caller Caller, name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		out, err := caller.Call(ctx, name, req.GetArguments())
		if err != nil {
			return mcp.NewToolResultError(tools.Text(err)), nil
		}

		return mcp.NewToolResultText(out), nil
	}
}
