// Package mcpserver exposes the resolver as Model Context Protocol tools
// over stdio.
package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ZaguanLabs/salin"
)

// Resolver is the part of salin.Resolver the tools need.
type Resolver interface {
	Resolve(ctx context.Context, phrase string) (*salin.Result, error)
	Memory() salin.Memory
}

// New builds an MCP server with the translate and memory-lookup tools.
func New(r Resolver) *server.MCPServer {
	s := server.NewMCPServer(
		salin.Name,
		salin.Version,
		server.WithRecovery(),
		server.WithToolCapabilities(false),
	)

	translate := mcp.NewTool("translate",
		mcp.WithDescription(multiline(
			"Translates an Ata Manobo phrase into English",
			"\nFunctionality:",
			"- Answers from the translation memory when the phrase is known",
			"- Otherwise composes known words or asks a translation model",
			"- New translations are remembered for later requests",
		)),
		mcp.WithString("phrase", mcp.Required(), mcp.Description("The Ata Manobo phrase to translate")),
	)
	s.AddTool(translate, TranslateHandler(r))

	lookup := mcp.NewTool("memory-lookup",
		mcp.WithDescription("Looks up a phrase in the translation memory without calling any model"),
		mcp.WithString("phrase", mcp.Required(), mcp.Description("The phrase to look up")),
	)
	s.AddTool(lookup, LookupHandler(r.Memory()))

	return s
}

// Serve runs the MCP server on stdio until stdin closes.
func Serve(r Resolver) error {
	return server.ServeStdio(New(r))
}

// TranslateHandler returns the MCP tool handler for the "translate" tool.
func TranslateHandler(r Resolver) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		phrase, err := req.RequireString("phrase")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		result, err := r.Resolve(ctx, phrase)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("%s\n(tier: %s)", result.Translation, result.Tier)), nil
	}
}

// LookupHandler returns the MCP tool handler for the "memory-lookup" tool.
func LookupHandler(m salin.Memory) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		phrase, err := req.RequireString("phrase")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		translation, ok := m.Lookup(phrase)
		if !ok {
			return mcp.NewToolResultText(fmt.Sprintf("%q is not in the translation memory.", salin.Normalize(phrase))), nil
		}
		return mcp.NewToolResultText(translation), nil
	}
}

// multiline joins lines with newlines for tool descriptions.
func multiline(lines ...string) string { return strings.Join(lines, "\n") }
