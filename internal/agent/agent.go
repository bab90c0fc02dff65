// Package agent implements the tool-use orchestration for one user turn:
// request a completion, execute any requested tools, request the final
// answer with the tool results appended.
package agent

import (
	"context"
	"strings"
	"time"

	"github.com/lucaferri/pizzaiolo/internal/llm"
	"github.com/lucaferri/pizzaiolo/internal/menu"
	"github.com/lucaferri/pizzaiolo/internal/session"
	"github.com/lucaferri/pizzaiolo/internal/tools"
)

// SystemPrompt is the default system message for the pizza assistant.
const SystemPrompt = `You are a pizza ordering assistant. Help customers browse the menu and add pizzas to their order. Use the provided tools when needed.`

// Orchestrator mediates between the completion client and the tool
// registry. A turn makes at most two completion calls: one with the tool
// specs, and one without them after tool execution.
type Orchestrator struct {
	llm      llm.Client
	registry *tools.Registry
	catalog  *menu.Catalog
	timeout  time.Duration

	// Optional observers, called as tools execute.
	OnToolCall   func(name, rawArgs string)
	OnToolResult func(name, result string)
}

// Turn is the outcome of one orchestrated user turn.
type Turn struct {
	Reply     string        // final assistant text
	Messages  []llm.Message // full conversation including this turn's additions
	UsedTools bool          // whether the tool path ran
}

// New creates an Orchestrator.
func New(client llm.Client, registry *tools.Registry, catalog *menu.Catalog) *Orchestrator {
	return &Orchestrator{
		llm:      client,
		registry: registry,
		catalog:  catalog,
	}
}

// SetCallTimeout bounds each completion call. Zero disables the bound.
func (o *Orchestrator) SetCallTimeout(d time.Duration) {
	o.timeout = d
}

// Respond runs one turn. The conversation must already end with the new
// user message. Any completion failure aborts the turn; nothing synthesized
// is committed on failure.
func (o *Orchestrator) Respond(ctx context.Context, conversation []llm.Message, sess *session.Session) (*Turn, error) {
	msgs := transmittable(conversation)

	choice, err := o.complete(ctx, msgs, o.registry.Specs())
	if err != nil {
		return nil, err
	}

	if choice.FinishReason != llm.FinishToolCalls || len(choice.Message.ToolCalls) == 0 {
		msgs = append(msgs, choice.Message)
		return &Turn{Reply: choice.Message.Content, Messages: msgs}, nil
	}

	// The assistant message is appended as returned; absent optional
	// fields are omitted on resend (see llm.Message).
	msgs = append(msgs, choice.Message)

	// Execute in the order received. Each invocation gets exactly one
	// tool-role message before the next completion call; the endpoint
	// matches results to invocations positionally.
	var lastName string
	var lastResult tools.Result
	for _, tc := range choice.Message.ToolCalls {
		if o.OnToolCall != nil {
			o.OnToolCall(tc.Name, tc.Arguments)
		}

		result, err := o.registry.Execute(tc.Name, tc.Arguments, sess)
		if err != nil {
			result = tools.Result{Error: err.Error()}
		}
		payload := result.JSON()

		if o.OnToolResult != nil {
			o.OnToolResult(tc.Name, payload)
		}

		msgs = append(msgs, llm.ToolResultMessage(tc.ID, tc.Name, payload))
		lastName, lastResult = tc.Name, result
	}

	// Second call without tool specs, forcing a natural-language answer.
	final, err := o.complete(ctx, msgs, nil)
	if err != nil {
		return nil, err
	}

	reply := final.Message.Content
	if strings.TrimSpace(reply) == "" || final.FinishReason == llm.FinishLength {
		reply = o.fallback(lastName, lastResult)
	}

	msgs = append(msgs, llm.AssistantMessage(reply))
	return &Turn{Reply: reply, Messages: msgs, UsedTools: true}, nil
}

func (o *Orchestrator) complete(ctx context.Context, msgs []llm.Message, specs []llm.ToolDef) (*llm.Choice, error) {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}
	return o.llm.Complete(ctx, msgs, specs)
}

// fallback deterministically synthesizes a reply from the last tool result
// when the final completion came back empty or length-truncated.
func (o *Orchestrator) fallback(toolName string, r tools.Result) string {
	if toolName == tools.ToolGetMenu {
		return menu.RenderList(o.catalog.Items())
	}
	if r.Error != "" {
		return "❌ " + r.Error
	}
	if r.Message != "" {
		return r.Message
	}
	return "Operation completed!"
}

// transmittable filters out entries with no content and no tool calls;
// some clients resend histories containing null-content placeholders the
// endpoint rejects.
func transmittable(msgs []llm.Message) []llm.Message {
	out := make([]llm.Message, 0, len(msgs))
	for _, m := range msgs {
		if m.Content == "" && len(m.ToolCalls) == 0 {
			continue
		}
		out = append(out, m)
	}
	return out
}
