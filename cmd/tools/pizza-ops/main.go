// pizza-ops is a standalone MCP server exposing the pizza ordering tools
// over stdio, so external MCP hosts can drive the same menu and cart
// operations the in-process agent uses. The cart is local to the server
// process: one cart per connected host.
package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/lucaferri/pizzaiolo/internal/menu"
	"github.com/lucaferri/pizzaiolo/internal/session"
	"github.com/lucaferri/pizzaiolo/internal/tools"
)

func main() {
	catalog := menu.Default()
	registry, err := tools.NewPizzaRegistry(catalog)
	if err != nil {
		fmt.Printf("registry error: %v\n", err)
		return
	}

	sess := &session.Session{ID: "pizza-ops"}

	s := server.NewMCPServer("pizzaiolo-pizza-ops", "0.1.0")

	for _, def := range registry.Specs() {
		def := def
		s.AddTool(mcp.Tool{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: toInputSchema(def.Parameters),
		}, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return callTool(registry, sess, def.Name, request), nil
		})
	}

	if err := server.ServeStdio(s); err != nil {
		fmt.Printf("server error: %v\n", err)
	}
}

func callTool(registry *tools.Registry, sess *session.Session, name string, request mcp.CallToolRequest) *mcp.CallToolResult {
	args, _ := request.Params.Arguments.(map[string]any)
	raw, _ := json.Marshal(args)

	result, err := registry.Execute(name, string(raw), sess)
	if err != nil {
		return errResult(fmt.Sprintf("error: %v", err))
	}
	if !result.Success {
		return errResult(result.JSON())
	}
	return textResult(result.JSON())
}

func toInputSchema(params map[string]any) mcp.ToolInputSchema {
	schema := mcp.ToolInputSchema{Type: "object"}
	if props, ok := params["properties"].(map[string]any); ok {
		schema.Properties = props
	}
	if req, ok := params["required"].([]string); ok {
		schema.Required = req
	}
	return schema
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: text}},
	}
}

func errResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: text}},
		IsError: true,
	}
}
