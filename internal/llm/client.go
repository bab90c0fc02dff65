package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/shared"
)

// Client is the interface for completion calls.
type Client interface {
	// Complete sends the conversation and returns the first choice.
	// Pass a nil tools slice to force a plain-text answer.
	Complete(ctx context.Context, messages []Message, tools []ToolDef) (*Choice, error)
}

// Options are the sampling knobs attached to every completion request.
type Options struct {
	Temperature float64
	MaxTokens   int
}

// UnavailableError wraps any transport or protocol failure from the
// completions endpoint: network error, non-2xx status, malformed body,
// empty choice list. A failed call aborts the current turn; retry policy
// belongs to the caller.
type UnavailableError struct {
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("completion unavailable: %v", e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// OpenAICompatClient works against any OpenAI-compatible completions
// endpoint. Endpoint URL, bearer token, and model id are injected, never
// compiled in.
type OpenAICompatClient struct {
	client *openai.Client
	model  string
	opts   Options
}

// NewClient creates a completion client for the given endpoint.
func NewClient(baseURL, apiKey, model string, opts Options) *OpenAICompatClient {
	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)
	return &OpenAICompatClient{
		client: &client,
		model:  model,
		opts:   opts,
	}
}

func (c *OpenAICompatClient) Complete(ctx context.Context, messages []Message, tools []ToolDef) (*Choice, error) {
	params := openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: convertMessages(messages),
	}
	if c.opts.Temperature > 0 {
		params.Temperature = openai.Float(c.opts.Temperature)
	}
	if c.opts.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(c.opts.MaxTokens))
	}
	if len(tools) > 0 {
		params.Tools = convertTools(tools)
	}

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, &UnavailableError{Err: err}
	}
	if len(completion.Choices) == 0 {
		return nil, &UnavailableError{Err: fmt.Errorf("no choices returned")}
	}

	choice := completion.Choices[0]
	out := &Choice{
		FinishReason: choice.FinishReason,
		Message: Message{
			Role:    RoleAssistant,
			Content: choice.Message.Content,
		},
	}
	for _, tc := range choice.Message.ToolCalls {
		out.Message.ToolCalls = append(out.Message.ToolCalls, ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	return out, nil
}

func convertMessages(msgs []Message) []openai.ChatCompletionMessageParamUnion {
	var out []openai.ChatCompletionMessageParamUnion
	for _, m := range msgs {
		switch m.Role {
		case RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case RoleUser:
			out = append(out, openai.UserMessage(m.Content))
		case RoleAssistant:
			if len(m.ToolCalls) > 0 {
				toolCalls := make([]openai.ChatCompletionMessageToolCallParam, len(m.ToolCalls))
				for i, tc := range m.ToolCalls {
					toolCalls[i] = openai.ChatCompletionMessageToolCallParam{
						ID: tc.ID,
						Function: openai.ChatCompletionMessageToolCallFunctionParam{
							Name:      tc.Name,
							Arguments: tc.Arguments,
						},
					}
				}
				assistant := openai.ChatCompletionAssistantMessageParam{
					ToolCalls: toolCalls,
				}
				if m.Content != "" {
					assistant.Content.OfString = param.NewOpt(m.Content)
				}
				out = append(out, openai.ChatCompletionMessageParamUnion{
					OfAssistant: &assistant,
				})
			} else {
				out = append(out, openai.AssistantMessage(m.Content))
			}
		case RoleTool:
			out = append(out, openai.ToolMessage(m.Content, m.ToolCallID))
		}
	}
	return out
}

func convertTools(tools []ToolDef) []openai.ChatCompletionToolParam {
	var out []openai.ChatCompletionToolParam
	for _, t := range tools {
		out = append(out, openai.ChatCompletionToolParam{
			Function: shared.FunctionDefinitionParam{
				Name:        t.Name,
				Description: param.NewOpt(t.Description),
				Parameters:  shared.FunctionParameters(t.Parameters),
			},
		})
	}
	return out
}
