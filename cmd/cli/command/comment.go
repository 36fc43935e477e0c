package command

import (
	"fmt"
	"strings"

	"yamdb/cmd/cli/command/client"

	"github.com/spf13/cobra"
)

var commentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Comment management commands",
	Long:  `List, post and delete comments on a review.`,
}

var listCommentsCmd = &cobra.Command{
	Use:   "list [title-id] [review-id]",
	Short: "List comments on a review",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		pageNum, _ := cmd.Flags().GetInt("page")

		c := GetClient()
		page, err := c.ListComments(ids[0], ids[1], pageNum)
		if err != nil {
			return fmt.Errorf("failed to list comments: %w", err)
		}

		if len(page.Data) == 0 {
			fmt.Println("No comments yet.")
			return nil
		}
		for _, cm := range page.Data {
			fmt.Printf("[%d] %s at %s: %s\n", cm.ID, cm.Author, cm.PubDate.Format("2006-01-02 15:04"), cm.Text)
		}
		return nil
	},
}

var addCommentCmd = &cobra.Command{
	Use:   "add [title-id] [review-id] [text]",
	Short: "Comment on a review",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args[:2])
		if err != nil {
			return err
		}

		c, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		cm, err := c.CreateComment(ids[0], ids[1], &client.CommentRequest{Text: strings.Join(args[2:], " ")})
		if err != nil {
			return fmt.Errorf("failed to create comment: %w", err)
		}

		fmt.Println("✓ Comment created successfully!")
		fmt.Printf("Comment ID: %d\n", cm.ID)
		return nil
	},
}

var deleteCommentCmd = &cobra.Command{
	Use:   "delete [title-id] [review-id] [comment-id]",
	Short: "Delete a comment",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}

		c, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		if err := c.DeleteComment(ids[0], ids[1], ids[2]); err != nil {
			return fmt.Errorf("failed to delete comment: %w", err)
		}
		fmt.Printf("✓ Comment %d deleted successfully!\n", ids[2])
		return nil
	},
}

func init() {
	commentCmd.AddCommand(listCommentsCmd, addCommentCmd, deleteCommentCmd)
	listCommentsCmd.Flags().Int("page", 1, "Page number")
}
