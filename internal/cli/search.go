package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/model/research"
	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/registry"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Search the legal research library",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRegistry(cmd, func(ctx context.Context, reg *registry.Registry) error {
			result, err := reg.Research().Search(ctx, research.Query{
				Text:  strings.Join(args, " "),
				Limit: searchLimit,
			})
			if err != nil {
				return err
			}

			fmt.Printf("%d result(s) for %q\n\n", result.Total, result.Query)
			for _, hit := range result.Hits {
				fmt.Printf("%-20s  %s\n", hit.Reference.ID, hit.Reference.Title)
				fmt.Printf("  %s\n", hit.Reference.Citation)
				for _, fragment := range hit.Fragments {
					fmt.Printf("  … %s\n", fragment)
				}
				fmt.Println()
			}
			return nil
		})
	},
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "Maximum number of results")
	rootCmd.AddCommand(searchCmd)
}
