// Package main provides a command line front end to the skill matrix and
// resume generation pipeline.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "skillmatrix",
	Short:        "Skill matrix ingestion and resume generation",
	Long:         "skillmatrix reads candidate competencies from an Excel skill matrix and generates a formatted resume PDF from an old resume.",
	SilenceUsage: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
