package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lucaferri/pizzaiolo/internal/config"
	"github.com/lucaferri/pizzaiolo/internal/llm"
	"github.com/lucaferri/pizzaiolo/internal/menu"
	"github.com/lucaferri/pizzaiolo/internal/session"
	"github.com/lucaferri/pizzaiolo/internal/tools"
)

// fakeClient plays back scripted completion responses in order.
type fakeClient struct {
	script []scripted
	n      int
}

type scripted struct {
	choice *llm.Choice
	err    error
}

func (f *fakeClient) Complete(ctx context.Context, messages []llm.Message, defs []llm.ToolDef) (*llm.Choice, error) {
	if f.n >= len(f.script) {
		return nil, errors.New("fakeClient: no more scripted responses")
	}
	s := f.script[f.n]
	f.n++
	return s.choice, s.err
}

func toolCallChoice(calls ...llm.ToolCall) *llm.Choice {
	return &llm.Choice{
		FinishReason: llm.FinishToolCalls,
		Message:      llm.Message{Role: llm.RoleAssistant, ToolCalls: calls},
	}
}

func textChoice(content string) *llm.Choice {
	return &llm.Choice{FinishReason: "stop", Message: llm.AssistantMessage(content)}
}

func newTestServer(t *testing.T, client llm.Client, heuristics bool) *Server {
	t.Helper()

	catalog := menu.Default()
	registry, err := tools.NewPizzaRegistry(catalog)
	if err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{}
	cfg.Server.Heuristics = heuristics

	store := session.NewStore(0)
	t.Cleanup(store.Close)

	return New(cfg, store, registry, catalog, client)
}

func postChat(t *testing.T, s *Server, body string) (int, chatResponse) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var resp chatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
	return rec.Code, resp
}

func TestChatMenuScenario(t *testing.T) {
	client := &fakeClient{script: []scripted{
		{choice: toolCallChoice(llm.ToolCall{ID: "c1", Name: "get_pizza_menu", Arguments: ""})},
		{choice: textChoice("")}, // empty final forces the synthesized listing
	}}
	s := newTestServer(t, client, true)

	code, resp := postChat(t, s, `{"messages":[{"role":"user","content":"Show me the pizza menu"}]}`)
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if resp.SessionID == "" {
		t.Error("no sessionId allocated")
	}
	for _, want := range []string{"Margherita", "18.99", "Pepperoni", "21.99", "Hawaiian", "22.99"} {
		if !strings.Contains(resp.Message, want) {
			t.Errorf("message missing %q:\n%s", want, resp.Message)
		}
	}
}

func TestChatSessionContinuity(t *testing.T) {
	client := &fakeClient{script: []scripted{
		// first request: add margherita
		{choice: toolCallChoice(llm.ToolCall{ID: "c1", Name: "add_to_order", Arguments: `{"pizza_id":"margherita"}`})},
		{choice: textChoice("Margherita added!")},
		// second request: view cart
		{choice: toolCallChoice(llm.ToolCall{ID: "c2", Name: "view_cart", Arguments: ""})},
		{choice: textChoice("")},
	}}
	s := newTestServer(t, client, true)

	code, first := postChat(t, s, `{"messages":[{"role":"user","content":"add margherita"}]}`)
	if code != http.StatusOK {
		t.Fatalf("first status = %d", code)
	}

	code, second := postChat(t, s,
		`{"messages":[{"role":"user","content":"view my cart"}],"sessionId":"`+first.SessionID+`"}`)
	if code != http.StatusOK {
		t.Fatalf("second status = %d", code)
	}
	if second.SessionID != first.SessionID {
		t.Errorf("session changed: %q -> %q", first.SessionID, second.SessionID)
	}

	// The cart endpoint shows the 18.99 total carried across requests.
	req := httptest.NewRequest(http.MethodGet, "/sessions/"+first.SessionID+"/cart", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var sum session.CartSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &sum); err != nil {
		t.Fatal(err)
	}
	if sum.Total != 18.99 {
		t.Errorf("cart total = %f, want 18.99", sum.Total)
	}
	if len(sum.Items) != 1 || sum.Items[0].Quantity != 1 {
		t.Errorf("cart items = %+v", sum.Items)
	}
}

func TestChatCompletionFailure(t *testing.T) {
	client := &fakeClient{script: []scripted{
		{err: &llm.UnavailableError{Err: errors.New("connection refused")}},
	}}
	s := newTestServer(t, client, true)

	code, resp := postChat(t, s, `{"messages":[{"role":"user","content":"hi"}]}`)
	if code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", code)
	}
	if resp.Error == "" {
		t.Error("no error in response")
	}
	if resp.SessionID == "" {
		t.Error("error response must still carry the session id")
	}
}

func TestChatHeuristicMenu(t *testing.T) {
	// Model answers directly without calling the menu tool; the heuristic
	// layer synthesizes the listing anyway.
	client := &fakeClient{script: []scripted{
		{choice: textChoice("We have many pizzas.")},
	}}
	s := newTestServer(t, client, true)

	code, resp := postChat(t, s, `{"messages":[{"role":"user","content":"what is on the menu?"}]}`)
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if !strings.Contains(resp.Message, "Margherita") {
		t.Errorf("heuristic did not synthesize the menu: %q", resp.Message)
	}
}

func TestChatHeuristicDisabled(t *testing.T) {
	client := &fakeClient{script: []scripted{
		{choice: textChoice("We have many pizzas.")},
	}}
	s := newTestServer(t, client, false)

	_, resp := postChat(t, s, `{"messages":[{"role":"user","content":"what is on the menu?"}]}`)
	if resp.Message != "We have many pizzas." {
		t.Errorf("direct reply was modified with heuristics off: %q", resp.Message)
	}
}

func TestChatHeuristicShorthand(t *testing.T) {
	client := &fakeClient{script: []scripted{
		{choice: textChoice("Did you mean something?")},
	}}
	s := newTestServer(t, client, true)

	code, resp := postChat(t, s, `{"messages":[{"role":"user","content":"2"}]}`)
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if resp.Message != "🍕 Pepperoni added to cart!" {
		t.Errorf("message = %q", resp.Message)
	}

	sess, ok := s.store.Get(resp.SessionID)
	if !ok || len(sess.Cart) != 1 {
		t.Errorf("cart not updated by shorthand heuristic")
	}
}

func TestChatToolResponsePassesHeuristicsUntouched(t *testing.T) {
	// A tool-initiated response must never be overridden even when the
	// user message matches a heuristic trigger.
	client := &fakeClient{script: []scripted{
		{choice: toolCallChoice(llm.ToolCall{ID: "c1", Name: "get_pizza_menu", Arguments: ""})},
		{choice: textChoice("Here is our menu, fresh from the oven.")},
	}}
	s := newTestServer(t, client, true)

	_, resp := postChat(t, s, `{"messages":[{"role":"user","content":"menu please"}]}`)
	if resp.Message != "Here is our menu, fresh from the oven." {
		t.Errorf("tool-initiated reply was overridden: %q", resp.Message)
	}
}

func TestChatValidation(t *testing.T) {
	s := newTestServer(t, &fakeClient{}, true)

	code, resp := postChat(t, s, `{"messages":[]}`)
	if code != http.StatusBadRequest || resp.Error == "" {
		t.Errorf("empty messages: code = %d, resp = %+v", code, resp)
	}
	if resp.SessionID == "" {
		t.Error("validation error must still carry a session id")
	}

	code, resp = postChat(t, s, `{not json`)
	if code != http.StatusBadRequest || resp.Error == "" {
		t.Errorf("bad json: code = %d, resp = %+v", code, resp)
	}
}

func TestCartNotFound(t *testing.T) {
	s := newTestServer(t, &fakeClient{}, true)

	req := httptest.NewRequest(http.MethodGet, "/sessions/nope/cart", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestDeleteSession(t *testing.T) {
	client := &fakeClient{script: []scripted{
		{choice: textChoice("hello")},
	}}
	s := newTestServer(t, client, false)

	_, resp := postChat(t, s, `{"messages":[{"role":"user","content":"hi"}]}`)

	req := httptest.NewRequest(http.MethodDelete, "/sessions/"+resp.SessionID, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/sessions/"+resp.SessionID+"/cart", nil)
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("cart after delete: status = %d, want 404", rec.Code)
	}
}
