package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/lucaferri/pizzaiolo/internal/agent"
	"github.com/lucaferri/pizzaiolo/internal/config"
	"github.com/lucaferri/pizzaiolo/internal/llm"
	"github.com/lucaferri/pizzaiolo/internal/session"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive ordering session",
	Long: `Start an interactive conversation with the pizza agent.
The model can call the menu and cart tools while you order.

Examples:
  pizzaiolo chat
  pizzaiolo chat --model openai/gpt-4o-mini`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	catalog, registry, client, err := buildComponents(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("Pizzaiolo - Interactive Ordering\n")
	fmt.Printf("Endpoint: %s | Model: %s\n", cfg.LLM.BaseURL, cfg.LLM.Model)
	fmt.Printf("Type /help for commands, /quit to exit\n\n")

	orch := newOrchestrator(cfg, client, registry, catalog)
	orch.OnToolCall = func(name, rawArgs string) {
		fmt.Printf("  \033[33m⚡ Tool: %s(%s)\033[0m\n", name, rawArgs)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[36myou>\033[0m ",
		HistoryFile:     "/tmp/pizzaiolo_history",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("readline: %w", err)
	}
	defer rl.Close()

	sess := &session.Session{ID: "chat"}
	conversation := []llm.Message{llm.SystemMessage(agent.SystemPrompt)}

	for {
		input, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt || err == io.EOF {
				fmt.Println("\nGoodbye!")
				return nil
			}
			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			conversation = handleCommand(input, conversation, sess)
			continue
		}

		conversation = append(conversation, llm.UserMessage(input))
		turn, err := orch.Respond(context.Background(), conversation, sess)
		if err != nil {
			// Drop the failed user turn so a retry starts clean.
			conversation = conversation[:len(conversation)-1]
			fmt.Printf("\033[31merror: %s\033[0m\n\n", err)
			continue
		}
		conversation = turn.Messages

		fmt.Printf("\033[32m🍕 pizzaiolo>\033[0m %s\n\n", turn.Reply)
	}
}

func handleCommand(input string, conversation []llm.Message, sess *session.Session) []llm.Message {
	switch strings.ToLower(strings.Fields(input)[0]) {
	case "/quit", "/exit", "/q":
		fmt.Println("Goodbye!")
		os.Exit(0)
	case "/reset":
		sess.Clear()
		conversation = conversation[:1]
		fmt.Println("Conversation and cart reset.")
		fmt.Println()
	case "/cart":
		sum := sess.Summary()
		if len(sum.Items) == 0 {
			fmt.Println("Cart is empty")
		} else {
			for _, it := range sum.Items {
				fmt.Printf("  %dx %s ($%.2f each)\n", it.Quantity, it.Name, it.Price)
			}
			fmt.Printf("  Total: $%.2f\n", sum.Total)
		}
		fmt.Println()
	case "/help":
		fmt.Println("Commands:")
		fmt.Println("  /help   - Show this help")
		fmt.Println("  /cart   - Show the current cart")
		fmt.Println("  /reset  - Clear conversation and cart")
		fmt.Println("  /quit   - Exit")
		fmt.Println()
	default:
		fmt.Printf("Unknown command: %s (try /help)\n\n", input)
	}
	return conversation
}
