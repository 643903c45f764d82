// Package main provides the entry point for the pitch kit service.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pitchkit",
	Short: "Prototype pitch kit generator",
	Long:  "Pitch kit turns a company name or URL into a ranked set of prototype ideas with step-by-step build plans, themed to the company's brand.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
