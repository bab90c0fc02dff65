package tools

import (
	"encoding/json"

	"github.com/lucaferri/pizzaiolo/internal/session"
)

// Result is the outcome of one tool execution. Domain-level failures (an
// unknown pizza id, an empty cart) are carried here as Success=false with
// an Error string, never as Go errors, so the conversation can continue.
type Result struct {
	Success bool
	Message string
	Error   string
	Data    map[string]any // extra fields flattened into the serialized form
}

// JSON serializes the result for embedding into a tool-role message.
// Empty optional fields are omitted; Data entries are flattened to the top
// level, matching what the model is prompted against.
func (r Result) JSON() string {
	m := map[string]any{"success": r.Success}
	if r.Message != "" {
		m["message"] = r.Message
	}
	if r.Error != "" {
		m["error"] = r.Error
	}
	for k, v := range r.Data {
		m[k] = v
	}
	data, _ := json.Marshal(m)
	return string(data)
}

// Handler executes one tool invocation against a session. Mutating tools
// change the session's cart; read-only tools must not.
type Handler func(args map[string]any, sess *session.Session) Result
