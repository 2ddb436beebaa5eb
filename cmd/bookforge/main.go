// Package main provides the entry point for the bookforge service.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bookforge",
	Short: "BookForge AI book generation service",
	Long:  "BookForge generates long-form markdown books from a topic via external LLM providers, with tiered length targets, deterministic fallback content, PDF export, and a paid checkout flow.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
