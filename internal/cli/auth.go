package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	authmodel "github.com/KingOfTheAce2/BEAR-AI-sub007/internal/model/auth"
	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/registry"
)

var (
	loginUsername string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate against the daemon and persist the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRegistry(cmd, func(ctx context.Context, reg *registry.Registry) error {
			password := loginPassword
			if password == "" {
				fmt.Print("Password: ")
				line, err := bufio.NewReader(os.Stdin).ReadString('\n')
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
				password = strings.TrimSpace(line)
			}

			result := reg.Auth().Login(ctx, authmodel.Credentials{
				Username: loginUsername,
				Password: password,
			})
			if !result.Success {
				return fmt.Errorf("login failed: %s", result.Error)
			}

			fmt.Printf("Logged in as %s (session expires in %ds)\n",
				loginUsername, result.ExpiresIn/1000)
			return nil
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Revoke the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRegistry(cmd, func(ctx context.Context, reg *registry.Registry) error {
			if reg.Auth().Logout(ctx) {
				fmt.Println("Logged out")
			} else {
				fmt.Println("No active session")
			}
			return nil
		})
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show whether a valid session is held",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRegistry(cmd, func(ctx context.Context, reg *registry.Registry) error {
			if !reg.Auth().IsAuthenticated() {
				fmt.Println("Not logged in")
				return nil
			}
			if reg.Auth().Validate(ctx) {
				fmt.Println("Session is valid")
			} else {
				fmt.Println("Session has expired")
			}
			return nil
		})
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Password (prompted when omitted)")
	_ = loginCmd.MarkFlagRequired("username")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}
