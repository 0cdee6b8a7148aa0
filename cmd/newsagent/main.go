// Package main provides the newsagent CLI, which collects job-relevant news
// for job seekers and stores analyzed articles.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "newsagent",
	Short: "Job-relevant news collector",
	Long:  "newsagent searches news for a job profile, keeps hiring-relevant articles, summarizes and tags them with an LLM, and stores one record per owner and URL.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
