package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/lucaferri/pizzaiolo/internal/agent"
	"github.com/lucaferri/pizzaiolo/internal/llm"
	"github.com/lucaferri/pizzaiolo/internal/session"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // demo service, no origin policy
	},
}

// wsIncoming is a message from the client.
type wsIncoming struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// wsOutgoing is a frame to the client: session, tool_call, tool_result,
// done, or error.
type wsOutgoing struct {
	Type      string `json:"type"`
	Content   string `json:"content,omitempty"`
	Name      string `json:"name,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
}

// handleChatWS holds the conversation for the socket's lifetime and streams
// tool activity as the orchestrator works through each turn.
func (s *Server) handleChatWS(w http.ResponseWriter, r *http.Request) {
	id := s.store.GetOrCreate(r.URL.Query().Get("sessionId"))

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	// Per-connection orchestrator: its callbacks write to this socket only.
	orch := s.newOrchestrator()
	orch.OnToolCall = func(name, rawArgs string) {
		wsWriteJSON(conn, wsOutgoing{Type: "tool_call", Name: name, Content: rawArgs})
	}
	orch.OnToolResult = func(name, result string) {
		wsWriteJSON(conn, wsOutgoing{Type: "tool_result", Name: name, Content: result})
	}

	wsWriteJSON(conn, wsOutgoing{Type: "session", SessionID: id})

	conversation := []llm.Message{llm.SystemMessage(agent.SystemPrompt)}

	for {
		var msg wsIncoming
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return
			}
			log.Printf("websocket read error: %v", err)
			return
		}

		if msg.Type != "message" || msg.Content == "" {
			wsWriteJSON(conn, wsOutgoing{Type: "error", Content: "invalid message"})
			continue
		}

		conversation = s.processWSMessage(r, conn, orch, id, conversation, msg.Content)
	}
}

func (s *Server) processWSMessage(r *http.Request, conn *websocket.Conn, orch *agent.Orchestrator, id string, conversation []llm.Message, content string) []llm.Message {
	conversation = append(conversation, llm.UserMessage(content))

	var reply string
	err := s.store.Mutate(id, func(sess *session.Session) error {
		turn, err := orch.Respond(r.Context(), conversation, sess)
		if err != nil {
			return err
		}
		conversation = turn.Messages
		reply = turn.Reply

		if !turn.UsedTools && s.heuristics != nil {
			if msg, ok := s.heuristics.Apply(content, sess); ok {
				reply = msg
				// keep the held conversation consistent with what was sent
				conversation[len(conversation)-1] = llm.AssistantMessage(reply)
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("websocket chat error (session %s): %v", id, err)
		wsWriteJSON(conn, wsOutgoing{Type: "error", Content: "Error processing request", SessionID: id})
		return conversation
	}

	wsWriteJSON(conn, wsOutgoing{Type: "done", Content: reply, SessionID: id})
	return conversation
}

func wsWriteJSON(conn *websocket.Conn, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("websocket marshal error: %v", err)
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Printf("websocket write error: %v", err)
	}
}
