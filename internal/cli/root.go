package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/config"
	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/registry"
	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/storage"
)

var (
	verbose     bool
	apiURL      string
	storagePath string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bearctl",
	Short: "Command-line client for the BEAR AI legal assistant",
	Long: `bearctl talks to a running BEAR AI daemon (beard) over its loopback
WebSocket, falling back to the local HTTP API when the socket is
unavailable.

Quick Start:
  bearctl login --username admin        # Establish a session
  bearctl chat new "Contract review"    # Start a conversation
  bearctl search "liquidated damages"   # Search the research library`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		} else {
			logrus.SetLevel(logrus.WarnLevel)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Override the daemon base URL")
	rootCmd.PersistentFlags().StringVar(&storagePath, "storage", "", "Path to the local session database")
}

// withRegistry boots the client stack, runs fn, and tears everything down.
// The session persists across invocations through the local database, so
// shutdown must not revoke it.
func withRegistry(cmd *cobra.Command, fn func(ctx context.Context, reg *registry.Registry) error) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if apiURL != "" {
		cfg.Client.BaseURL = apiURL
	}
	if storagePath != "" {
		cfg.Storage.Path = storagePath
	}

	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("failed to open local storage: %w", err)
	}
	defer store.Close()

	reg := registry.New(registry.Options{Config: cfg, Store: store})
	ctx := cmd.Context()
	if err := reg.Initialize(ctx); err != nil {
		return err
	}
	defer reg.StopTransport()

	return fn(ctx, reg)
}
