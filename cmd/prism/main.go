// Package main provides the entry point for the prism screening orchestrator.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "prism",
	Short: "Stock screening batch orchestrator",
	Long:  "Prism runs the screening subprocess, broadcasts signal alerts, generates per-ticker analysis reports, and delivers them to Telegram channels.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
