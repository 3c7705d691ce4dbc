package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/registry"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Manage conversations with the assistant",
}

var chatNewCmd = &cobra.Command{
	Use:   "new [title]",
	Short: "Start a new conversation",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRegistry(cmd, func(ctx context.Context, reg *registry.Registry) error {
			title := ""
			if len(args) > 0 {
				title = args[0]
			}
			session, err := reg.Chat().Create(ctx, title)
			if err != nil {
				return err
			}
			fmt.Printf("Created conversation %s (%s)\n", session.ID, session.Title)
			return nil
		})
	},
}

var chatListCmd = &cobra.Command{
	Use:   "list",
	Short: "List conversations, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRegistry(cmd, func(ctx context.Context, reg *registry.Registry) error {
			sessions, err := reg.Chat().Sessions(ctx)
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				fmt.Println("No conversations yet")
				return nil
			}
			for _, s := range sessions {
				fmt.Printf("%s  %s  (updated %s)\n",
					s.ID, s.Title, s.UpdatedAt.Format("2006-01-02 15:04"))
			}
			return nil
		})
	},
}

var chatSendCmd = &cobra.Command{
	Use:   "send <session-id> <message...>",
	Short: "Send a message and print the assistant's reply",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRegistry(cmd, func(ctx context.Context, reg *registry.Registry) error {
			content := strings.Join(args[1:], " ")
			result, err := reg.Chat().Send(ctx, args[0], content)
			if err != nil {
				return err
			}
			fmt.Printf("you: %s\n", result.UserMessage.Content)
			fmt.Printf("assistant: %s\n", result.AssistantMessage.Content)
			return nil
		})
	},
}

var chatLogCmd = &cobra.Command{
	Use:   "log <session-id>",
	Short: "Print a conversation transcript",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRegistry(cmd, func(ctx context.Context, reg *registry.Registry) error {
			messages, err := reg.Chat().Messages(ctx, args[0])
			if err != nil {
				return err
			}
			for _, m := range messages {
				fmt.Printf("[%s] %s: %s\n",
					m.CreatedAt.Format("15:04:05"), m.Sender, m.Content)
			}
			return nil
		})
	},
}

func init() {
	chatCmd.AddCommand(chatNewCmd)
	chatCmd.AddCommand(chatListCmd)
	chatCmd.AddCommand(chatSendCmd)
	chatCmd.AddCommand(chatLogCmd)
	rootCmd.AddCommand(chatCmd)
}
