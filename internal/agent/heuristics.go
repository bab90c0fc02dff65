package agent

import (
	"fmt"
	"strings"

	"github.com/lucaferri/pizzaiolo/internal/llm"
	"github.com/lucaferri/pizzaiolo/internal/menu"
	"github.com/lucaferri/pizzaiolo/internal/session"
	"github.com/lucaferri/pizzaiolo/internal/tools"
)

// Heuristics compensates for the model declining to call an obviously
// needed tool. It runs only on the direct (no-tool) path, after the
// orchestrator, so tool-initiated responses always pass through untouched.
// Kept separate from the orchestration loop so it can be disabled on its
// own.
type Heuristics struct {
	registry *tools.Registry
	catalog  *menu.Catalog
}

// NewHeuristics creates the compensating rule set.
func NewHeuristics(registry *tools.Registry, catalog *menu.Catalog) *Heuristics {
	return &Heuristics{registry: registry, catalog: catalog}
}

// Apply inspects the user's last message and returns a synthesized reply
// when a rule fires:
//   - the message mentions "menu": render the menu listing directly;
//   - the message is exactly a numeric menu shorthand: add that pizza.
func (h *Heuristics) Apply(lastUser string, sess *session.Session) (string, bool) {
	text := strings.ToLower(strings.TrimSpace(lastUser))

	if strings.Contains(text, "menu") {
		return menu.RenderList(h.catalog.Items()), true
	}

	if h.catalog.IsShorthand(text) {
		result, err := h.registry.Execute(tools.ToolAddToOrder, fmt.Sprintf(`{"pizza_id":%q}`, text), sess)
		if err != nil {
			return "", false
		}
		if result.Message != "" {
			return result.Message, true
		}
		return result.Error, true
	}

	return "", false
}

// LastUserContent returns the content of the last user-role message in the
// conversation, or "" when there is none.
func LastUserContent(msgs []llm.Message) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == llm.RoleUser {
			return msgs[i].Content
		}
	}
	return ""
}
