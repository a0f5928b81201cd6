package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	serverURL     string
	clientTimeout time.Duration
	outputJSON    bool
)

var rootCmd = &cobra.Command{
	Use:           "petctl",
	Short:         "Command line client for the petcare-ai API",
	Long:          `Ask pet-health questions and manage the knowledge base of a running petcare-ai server.`,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	defaultURL := os.Getenv("PETCARE_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:3001"
	}

	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", defaultURL, "petcare-ai base URL (env PETCARE_URL)")
	rootCmd.PersistentFlags().DurationVar(&clientTimeout, "timeout", 60*time.Second, "request timeout")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "print raw JSON responses")
}

func newClient() *apiClient {
	return newAPIClient(serverURL, clientTimeout)
}
