package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lucaferri/pizzaiolo/internal/agent"
	"github.com/lucaferri/pizzaiolo/internal/llm"
	"github.com/lucaferri/pizzaiolo/internal/session"
)

// --- JSON helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// --- Chat ---

type chatRequest struct {
	Messages  []llm.Message `json:"messages"`
	SessionID string        `json:"sessionId"`
}

type chatResponse struct {
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	SessionID string `json:"sessionId"`
}

// handleChat runs one orchestrated turn. The session id is allocated and
// returned even on failure so the client can retry with continuity.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, chatResponse{
			Error:     "invalid JSON: " + err.Error(),
			SessionID: s.store.GetOrCreate(""),
		})
		return
	}

	id := s.store.GetOrCreate(req.SessionID)

	if len(req.Messages) == 0 {
		writeJSON(w, http.StatusBadRequest, chatResponse{Error: "messages is required", SessionID: id})
		return
	}

	orch := s.newOrchestrator()

	// The whole turn runs under the per-session mutex: tool execution and
	// the follow-up completion cannot interleave with another request for
	// the same session.
	var reply string
	err := s.store.Mutate(id, func(sess *session.Session) error {
		turn, err := orch.Respond(r.Context(), req.Messages, sess)
		if err != nil {
			return err
		}
		reply = turn.Reply

		if !turn.UsedTools && s.heuristics != nil {
			if msg, ok := s.heuristics.Apply(agent.LastUserContent(req.Messages), sess); ok {
				reply = msg
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("chat error (session %s): %v", id, err)
		writeJSON(w, http.StatusInternalServerError, chatResponse{
			Error:     "Error processing request",
			SessionID: id,
		})
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Message: reply, SessionID: id})
}

// --- Sessions ---

func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, ok := s.store.Get(id); !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}

	var sum session.CartSummary
	s.store.Mutate(id, func(sess *session.Session) error {
		sum = sess.Summary()
		return nil
	})

	if sum.Items == nil {
		sum.Items = []session.CartItem{}
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, ok := s.store.Get(id); !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}

	s.store.Remove(id)
	w.WriteHeader(http.StatusNoContent)
}
