package llm

// Role represents a chat message role.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Finish reasons reported by the completions endpoint. The value is treated
// as an opaque string; these are the two the orchestrator branches on.
const (
	FinishToolCalls = "tool_calls"
	FinishLength    = "length"
)

// Message is a single message in a conversation. Optional fields carry
// omitempty so that absent values are omitted on resend rather than sent
// as null, which the upstream endpoint rejects.
type Message struct {
	Role       Role       `json:"role"`
	Content    string     `json:"content,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"` // For tool result messages
	Name       string     `json:"name,omitempty"`         // Tool name on tool result messages
}

// ToolCall is a tool invocation requested by the model. Arguments is kept in
// its serialized wire form: providers disagree on how "no arguments" is
// encoded ("" vs "{}"), so parsing is deferred to the registry.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolDef defines a tool offered to the model.
type ToolDef struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"` // JSON Schema
}

// Choice is the normalized result of one completion call.
type Choice struct {
	FinishReason string
	Message      Message
}

// Helper constructors

func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

func ToolResultMessage(toolCallID, toolName, content string) Message {
	return Message{Role: RoleTool, Content: content, ToolCallID: toolCallID, Name: toolName}
}
