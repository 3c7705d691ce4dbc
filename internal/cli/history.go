package cli

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/config"
	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/storage"
)

var historyLimit int

// history reads the daemon's activity log straight from the shared local
// database, so it works even while the daemon is down.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently dispatched commands",
	RunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		path := cfg.Storage.Path
		if storagePath != "" {
			path = storagePath
		}

		store, err := storage.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open local storage: %w", err)
		}
		defer store.Close()

		entries, err := store.RecentActivity(historyLimit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No activity recorded")
			return nil
		}

		for _, entry := range entries {
			fmt.Printf("%s  %-20s  %-15s  %4dms\n",
				entry.CreatedAt.Format("2006-01-02 15:04:05"),
				entry.Command, entry.Status, entry.DurationMs)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of entries")
	rootCmd.AddCommand(historyCmd)
}
