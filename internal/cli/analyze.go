package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/model/analysis"
	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/registry"
)

var analyzeDocID string

var analyzeCmd = &cobra.Command{
	Use:   "analyze [text...]",
	Short: "Run risk analysis over a document or inline text",
	RunE: func(cmd *cobra.Command, args []string) error {
		if analyzeDocID == "" && len(args) == 0 {
			return fmt.Errorf("provide --doc or inline text to analyze")
		}
		return withRegistry(cmd, func(ctx context.Context, reg *registry.Registry) error {
			report, err := reg.Analysis().Analyze(ctx, analysis.Request{
				DocumentID: analyzeDocID,
				Text:       strings.Join(args, " "),
			})
			if err != nil {
				return err
			}

			fmt.Printf("Risk level: %s\n", report.RiskLevel)
			for _, finding := range report.Findings {
				fmt.Printf("  %-22s score %2d", finding.Category, finding.Score)
				if len(finding.Terms) > 0 {
					fmt.Printf("  (%s)", strings.Join(finding.Terms, ", "))
				}
				fmt.Println()
			}
			return nil
		})
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeDocID, "doc", "", "ID of an uploaded document to analyze")
	rootCmd.AddCommand(analyzeCmd)
}
