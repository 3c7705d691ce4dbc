package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/registry"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check daemon reachability and client health",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRegistry(cmd, func(ctx context.Context, reg *registry.Registry) error {
			info, err := reg.System().Health(ctx)
			if err != nil {
				return fmt.Errorf("daemon unreachable: %w", err)
			}
			fmt.Printf("Daemon: %s (LLM enabled: %v)\n", info.Status, info.LLM)
			if len(info.Activity) > 0 {
				fmt.Printf("Activity: %d commands, %d failed\n",
					info.Activity["total"], info.Activity["failed"])
			}

			health := reg.GetHealthStatus(ctx)
			fmt.Printf("Client: %s\n", health.Status)
			names := make([]string, 0, len(health.Checks))
			for name := range health.Checks {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Printf("  %-10s %s\n", name, health.Checks[name])
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
