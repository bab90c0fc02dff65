package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lucaferri/pizzaiolo/internal/agent"
	"github.com/lucaferri/pizzaiolo/internal/config"
	"github.com/lucaferri/pizzaiolo/internal/llm"
	"github.com/lucaferri/pizzaiolo/internal/session"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the scripted ordering demo",
	Long: `Feed a fixed sequence of customer turns through the orchestrator once,
printing the conversation to the console. Stops at the first fatal error.`,
	RunE: runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

// The demo's customer turns, in order.
var demoTurns = []string{
	"Show me the pizza menu",
	"I want to order a Margherita pizza",
	"Do you have pepperoni pizza?",
}

func runDemo(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	catalog, registry, client, err := buildComponents(cfg)
	if err != nil {
		return err
	}

	fmt.Println("🍕 Pizzaiolo - Scripted Demo")
	fmt.Println("============================")
	fmt.Printf("🔧 Endpoint: %s\n", cfg.LLM.BaseURL)
	fmt.Printf("🔧 Model: %s\n", cfg.LLM.Model)
	fmt.Println()

	orch := newOrchestrator(cfg, client, registry, catalog)
	orch.OnToolCall = func(name, rawArgs string) {
		fmt.Printf("🔧 Executing: %s(%s)\n", name, rawArgs)
	}
	orch.OnToolResult = func(name, result string) {
		fmt.Printf("   → %s\n", result)
	}

	// One synchronous session, one conversation, three turns.
	sess := &session.Session{ID: "demo"}
	conversation := []llm.Message{llm.SystemMessage(agent.SystemPrompt)}

	for i, turn := range demoTurns {
		fmt.Printf("📋 Step %d: %s\n", i+1, turn)

		conversation = append(conversation, llm.UserMessage(turn))
		result, err := orch.Respond(context.Background(), conversation, sess)
		if err != nil {
			return fmt.Errorf("turn %d: %w", i+1, err)
		}
		conversation = result.Messages

		fmt.Printf("🍕 Assistant: %s\n\n", result.Reply)
	}

	fmt.Println("✅ Demo completed successfully!")
	return nil
}
