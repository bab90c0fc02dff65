package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var modelFlag string

var rootCmd = &cobra.Command{
	Use:   "pizzaiolo",
	Short: "Pizzaiolo - Tool-calling pizza ordering agent",
	Long: `Pizzaiolo is a demonstration agent that relays chat messages to an
OpenAI-compatible completion endpoint and lets the model call local tools
(menu lookup, cart mutation) to take a pizza order.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&modelFlag, "model", "", "Model to use (overrides config)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
