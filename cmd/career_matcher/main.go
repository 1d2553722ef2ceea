// Package main provides the entry point for the Career Matcher HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "career_matcher",
	Short: "Career Matcher HTTP API Server",
	Long:  "Career Matcher connects university students with internship and junior job opportunities by scoring academic records against per-job subject requirements via REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
