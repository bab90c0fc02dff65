// Package tools declares the callable surface offered to the model and
// executes invocations by name.
package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lucaferri/pizzaiolo/internal/llm"
	"github.com/lucaferri/pizzaiolo/internal/session"
)

// ErrUnknownTool is returned when a tool name has no registered handler.
var ErrUnknownTool = errors.New("unknown tool")

// Registry maps tool names to local handlers and holds the spec set sent
// with every tool-enabled completion request.
type Registry struct {
	defs     []llm.ToolDef
	handlers map[string]Handler
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
	}
}

// Register adds a tool definition with its handler. Names must be unique.
func (r *Registry) Register(def llm.ToolDef, h Handler) error {
	if def.Name == "" {
		return fmt.Errorf("tool definition has no name")
	}
	if _, exists := r.handlers[def.Name]; exists {
		return fmt.Errorf("duplicate tool: %s", def.Name)
	}
	r.defs = append(r.defs, def)
	r.handlers[def.Name] = h
	return nil
}

// Validate cross-checks the declared specs against the handler map so the
// two can never drift apart. Call once at startup.
func (r *Registry) Validate() error {
	for _, def := range r.defs {
		if r.handlers[def.Name] == nil {
			return fmt.Errorf("tool %s declared without a handler", def.Name)
		}
	}
	if len(r.handlers) != len(r.defs) {
		return fmt.Errorf("registry has %d handlers for %d declared tools", len(r.handlers), len(r.defs))
	}
	return nil
}

// Specs returns the tool definitions in registration order.
func (r *Registry) Specs() []llm.ToolDef {
	return r.defs
}

// HasTools returns true if any tools are registered.
func (r *Registry) HasTools() bool {
	return len(r.defs) > 0
}

// Execute looks up a tool by exact name and runs it. rawArgs may be empty,
// whitespace, or malformed; any of those degrades to an empty argument map
// rather than an error, because upstream providers encode "no arguments"
// inconsistently.
func (r *Registry) Execute(name, rawArgs string, sess *session.Session) (Result, error) {
	h, ok := r.handlers[name]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return h(parseArgs(rawArgs), sess), nil
}

func parseArgs(raw string) map[string]any {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return map[string]any{}
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err != nil || args == nil {
		return map[string]any{}
	}
	return args
}

// stringArg reads a string argument, tolerating absence.
func stringArg(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return v
}

// intArg reads a numeric argument (JSON numbers arrive as float64),
// falling back to def when absent or not a number.
func intArg(args map[string]any, key string, def int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return def
	}
}
