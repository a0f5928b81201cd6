package main

import (
	"fmt"
	"net/http"
	"strings"

	"petcare-ai/internal/dto"
	"petcare-ai/internal/models"

	"github.com/spf13/cobra"
)

var (
	chatSpecies string
	chatAge     float64
	chatWeight  float64
)

var chatCmd = &cobra.Command{
	Use:   "chat <question>",
	Short: "Ask a pet-health question",
	Long:  `Send a question, with an optional pet profile, to POST /chat and print the answer.`,
	Example: `  petctl chat "狗狗可以吃葡萄嗎？" --species dog --age 2 --weight 5
  petctl chat "my cat keeps vomiting" --species cat`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := dto.ChatRequest{
			Message: strings.Join(args, " "),
		}
		if chatSpecies != "" || cmd.Flags().Changed("age") || cmd.Flags().Changed("weight") {
			profile := &models.PetProfile{Species: models.ParseSpecies(chatSpecies)}
			if cmd.Flags().Changed("age") {
				profile.Age = models.NewMeasure(chatAge)
			}
			if cmd.Flags().Changed("weight") {
				profile.Weight = models.NewMeasure(chatWeight)
			}
			req.PetProfile = profile
		}

		var resp dto.ChatResponse
		if err := newClient().do(cmd.Context(), http.MethodPost, "/chat", req, &resp); err != nil {
			return err
		}

		if outputJSON {
			return printJSON(resp)
		}

		fmt.Println(resp.Answer)
		fmt.Println()
		fmt.Printf("Risk level: %s\n", resp.RiskLevel)
		if len(resp.Citations) > 0 {
			fmt.Printf("Citations:  %s\n", strings.Join(resp.Citations, ", "))
		}
		if len(resp.SuggestedNextActions) > 0 {
			fmt.Println("Next steps:")
			for _, a := range resp.SuggestedNextActions {
				fmt.Printf("  - %s\n", a)
			}
		}
		return nil
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Show server health",
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp dto.HealthResponse
		if err := newClient().do(cmd.Context(), http.MethodGet, "/health", nil, &resp); err != nil {
			return err
		}
		if outputJSON {
			return printJSON(resp)
		}
		fmt.Printf("Status:    %s\nKnowledge: v%s (%d entries)\nModel:     %s\nTime:      %s\n",
			resp.Status, resp.Version, resp.EntryCount, resp.Model, resp.Timestamp)
		return nil
	},
}

func init() {
	chatCmd.Flags().StringVar(&chatSpecies, "species", "", "pet species (dog, cat)")
	chatCmd.Flags().Float64Var(&chatAge, "age", 0, "pet age in years")
	chatCmd.Flags().Float64Var(&chatWeight, "weight", 0, "pet weight in kg")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(healthCmd)
}
