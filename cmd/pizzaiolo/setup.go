package main

import (
	"fmt"

	"github.com/lucaferri/pizzaiolo/internal/agent"
	"github.com/lucaferri/pizzaiolo/internal/config"
	"github.com/lucaferri/pizzaiolo/internal/llm"
	"github.com/lucaferri/pizzaiolo/internal/menu"
	"github.com/lucaferri/pizzaiolo/internal/tools"
)

// buildComponents assembles the catalog, registry, and completion client
// from config, honoring the --model override.
func buildComponents(cfg *config.Config) (*menu.Catalog, *tools.Registry, llm.Client, error) {
	catalog := menu.Default()
	if cfg.Menu.Path != "" {
		var err error
		catalog, err = menu.Load(cfg.Menu.Path)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("loading menu: %w", err)
		}
	}

	registry, err := tools.NewPizzaRegistry(catalog)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("building tool registry: %w", err)
	}

	model := cfg.LLM.Model
	if modelFlag != "" {
		model = modelFlag
	}

	client := llm.NewClient(cfg.LLM.BaseURL, cfg.LLM.APIKey, model, llm.Options{
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	})

	return catalog, registry, client, nil
}

// newOrchestrator wires an orchestrator with the configured call timeout.
func newOrchestrator(cfg *config.Config, client llm.Client, registry *tools.Registry, catalog *menu.Catalog) *agent.Orchestrator {
	o := agent.New(client, registry, catalog)
	o.SetCallTimeout(cfg.LLM.CallTimeout)
	return o
}
