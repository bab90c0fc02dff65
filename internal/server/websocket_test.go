package server

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/lucaferri/pizzaiolo/internal/llm"
)

func TestChatWS(t *testing.T) {
	client := &fakeClient{script: []scripted{
		{choice: toolCallChoice(llm.ToolCall{ID: "c1", Name: "add_to_order", Arguments: `{"pizza_id":"1"}`})},
		{choice: textChoice("One Margherita coming up!")},
	}}
	s := newTestServer(t, client, true)

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/chat/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	var frame wsOutgoing
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatal(err)
	}
	if frame.Type != "session" || frame.SessionID == "" {
		t.Fatalf("first frame = %+v", frame)
	}
	sessionID := frame.SessionID

	if err := conn.WriteJSON(wsIncoming{Type: "message", Content: "add a margherita"}); err != nil {
		t.Fatal(err)
	}

	var types []string
	for {
		if err := conn.ReadJSON(&frame); err != nil {
			t.Fatal(err)
		}
		types = append(types, frame.Type)
		if frame.Type == "done" || frame.Type == "error" {
			break
		}
	}

	want := []string{"tool_call", "tool_result", "done"}
	if len(types) != len(want) {
		t.Fatalf("frame types = %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("frame %d = %s, want %s", i, types[i], want[i])
		}
	}
	if frame.Content != "One Margherita coming up!" {
		t.Errorf("done content = %q", frame.Content)
	}

	sess, ok := s.store.Get(sessionID)
	if !ok || len(sess.Cart) != 1 {
		t.Errorf("cart not updated over websocket")
	}
}

func TestChatWSInvalidMessage(t *testing.T) {
	s := newTestServer(t, &fakeClient{}, true)

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/chat/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	var frame wsOutgoing
	if err := conn.ReadJSON(&frame); err != nil { // session frame
		t.Fatal(err)
	}

	if err := conn.WriteJSON(wsIncoming{Type: "message", Content: ""}); err != nil {
		t.Fatal(err)
	}
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatal(err)
	}
	if frame.Type != "error" {
		t.Errorf("frame = %+v, want error", frame)
	}
}
