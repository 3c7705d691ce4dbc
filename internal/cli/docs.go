package cli

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/model/document"
	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/registry"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Manage documents held by the daemon",
}

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRegistry(cmd, func(ctx context.Context, reg *registry.Registry) error {
			docs, err := reg.Documents().List(ctx)
			if err != nil {
				return err
			}
			if len(docs) == 0 {
				fmt.Println("No documents uploaded")
				return nil
			}
			for _, d := range docs {
				fmt.Printf("%s  %-30s  %8d bytes  %s\n",
					d.ID, d.Name, d.Size, d.UploadedAt.Format("2006-01-02"))
			}
			return nil
		})
	},
}

var docsUploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a document from disk",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRegistry(cmd, func(ctx context.Context, reg *registry.Registry) error {
			content, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			name := filepath.Base(args[0])
			mimeType := mime.TypeByExtension(filepath.Ext(name))
			if mimeType == "" {
				mimeType = "application/octet-stream"
			}

			doc, err := reg.Documents().Upload(ctx, document.UploadRequest{
				Name:     name,
				MimeType: mimeType,
				Content:  string(content),
			})
			if err != nil {
				return err
			}
			fmt.Printf("Uploaded %s as %s\n", name, doc.ID)
			return nil
		})
	},
}

var docsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a document's content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRegistry(cmd, func(ctx context.Context, reg *registry.Registry) error {
			doc, err := reg.Documents().Get(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s (%s, %d bytes)\n\n", doc.Name, doc.MimeType, doc.Size)
			fmt.Println(doc.Content)
			return nil
		})
	},
}

var docsRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRegistry(cmd, func(ctx context.Context, reg *registry.Registry) error {
			if err := reg.Documents().Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Println("Deleted", args[0])
			return nil
		})
	},
}

func init() {
	docsCmd.AddCommand(docsListCmd)
	docsCmd.AddCommand(docsUploadCmd)
	docsCmd.AddCommand(docsShowCmd)
	docsCmd.AddCommand(docsRmCmd)
	rootCmd.AddCommand(docsCmd)
}
