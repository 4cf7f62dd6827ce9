// Package main provides the entry point for the AI resume service.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "airesume",
	Short: "Interview-driven resume and presentation generator",
	Long:  "airesume conducts a guided interview, turns the answers into structured resume documents via an LLM, and renders them as HTML, PDF and PPTX via REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
