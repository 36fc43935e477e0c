package command

import (
	"fmt"
	"strconv"
	"strings"

	"yamdb/cmd/cli/command/client"

	"github.com/spf13/cobra"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Read and write reviews",
}

var listReviewsCmd = &cobra.Command{
	Use:   "list [title-id]",
	Short: "List reviews of a title, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		titleID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid title ID: %w", err)
		}
		pageNum, _ := cmd.Flags().GetInt("page")

		c := GetClient()
		page, err := c.ListReviews(titleID, pageNum)
		if err != nil {
			return fmt.Errorf("failed to list reviews: %w", err)
		}

		if len(page.Data) == 0 {
			fmt.Println("No reviews yet.")
			return nil
		}
		for _, r := range page.Data {
			fmt.Printf("[%d] %s  %d/10  %s\n", r.ID, r.Author, r.Score, r.PubDate.Format("2006-01-02 15:04"))
			fmt.Printf("    %s\n", r.Text)
		}
		return nil
	},
}

var addReviewCmd = &cobra.Command{
	Use:   "add [title-id] [score] [text]",
	Short: "Review a title with a score from 1 to 10",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		titleID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid title ID: %w", err)
		}
		score, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid score: %w", err)
		}

		c, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		r, err := c.CreateReview(titleID, &client.ReviewRequest{Text: strings.Join(args[2:], " "), Score: score})
		if err != nil {
			return fmt.Errorf("failed to post review: %w", err)
		}

		fmt.Printf("✓ Review %d posted\n", r.ID)
		return nil
	},
}

var deleteReviewCmd = &cobra.Command{
	Use:   "delete [title-id] [review-id]",
	Short: "Delete a review",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}

		c, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		if err := c.DeleteReview(ids[0], ids[1]); err != nil {
			return fmt.Errorf("failed to delete review: %w", err)
		}
		fmt.Printf("✓ Review %d deleted\n", ids[1])
		return nil
	},
}

// parseIDs parses every arg as a positive id.
func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, a := range args {
		id, err := strconv.ParseInt(a, 10, 64)
		if err != nil || id < 1 {
			return nil, fmt.Errorf("invalid ID %q", a)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func init() {
	reviewCmd.AddCommand(listReviewsCmd, addReviewCmd, deleteReviewCmd)
	listReviewsCmd.Flags().Int("page", 1, "Page number")
}
