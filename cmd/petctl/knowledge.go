package main

import (
	"fmt"
	"net/http"

	"petcare-ai/internal/dto"

	"github.com/spf13/cobra"
)

var reloadHard bool

var knowledgeCmd = &cobra.Command{
	Use:   "knowledge",
	Short: "Inspect and reload the knowledge base",
}

var knowledgeInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the loaded knowledge base version and update history",
	RunE: func(cmd *cobra.Command, args []string) error {
		var info dto.KnowledgeInfoResponse
		if err := newClient().do(cmd.Context(), http.MethodGet, "/knowledge", nil, &info); err != nil {
			return err
		}
		return printInfo(&info)
	},
}

var knowledgeReloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Reload the knowledge base from its file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "/knowledge/reload"
		if reloadHard {
			path += "?hard=true"
		}
		var info dto.KnowledgeInfoResponse
		if err := newClient().do(cmd.Context(), http.MethodPost, path, nil, &info); err != nil {
			return err
		}
		return printInfo(&info)
	},
}

func printInfo(info *dto.KnowledgeInfoResponse) error {
	if outputJSON {
		return printJSON(info)
	}
	if !info.Available {
		fmt.Println("No knowledge base loaded")
		return nil
	}

	fmt.Printf("Version:     %s\n", info.Version)
	fmt.Printf("Last update: %s\n", info.LastUpdate)
	fmt.Printf("Entries:     %d\n", info.EntryCount)
	if info.Warning != "" {
		fmt.Printf("Warning:     %s\n", info.Warning)
	}
	for _, r := range info.UpdateRecords {
		fmt.Printf("\nv%s (%s)\n", r.Version, r.Date)
		for _, c := range r.Changes {
			fmt.Printf("  - %s\n", c)
		}
	}
	return nil
}

func init() {
	knowledgeReloadCmd.Flags().BoolVar(&reloadHard, "hard", false, "drop the cached snapshot before loading")

	knowledgeCmd.AddCommand(knowledgeInfoCmd)
	knowledgeCmd.AddCommand(knowledgeReloadCmd)
	rootCmd.AddCommand(knowledgeCmd)
}
