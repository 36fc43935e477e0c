package command

import (
	"fmt"
	"strconv"
	"strings"

	"yamdb/cmd/cli/command/client"

	"github.com/spf13/cobra"
)

var titleCmd = &cobra.Command{
	Use:   "title",
	Short: "Browse titles",
}

var listTitlesCmd = &cobra.Command{
	Use:   "list",
	Short: "List titles, optionally filtered",
	RunE: func(cmd *cobra.Command, args []string) error {
		var filter client.TitleFilter
		filter.Genre, _ = cmd.Flags().GetString("genre")
		filter.Category, _ = cmd.Flags().GetString("category")
		filter.Year, _ = cmd.Flags().GetInt("year")
		filter.Name, _ = cmd.Flags().GetString("name")
		filter.Page, _ = cmd.Flags().GetInt("page")

		c := GetClient()
		page, err := c.ListTitles(filter)
		if err != nil {
			return fmt.Errorf("failed to list titles: %w", err)
		}

		if len(page.Data) == 0 {
			fmt.Println("No titles found.")
			return nil
		}
		for _, t := range page.Data {
			fmt.Printf("[%d] %s (%d)  rating: %s\n", t.ID, t.Name, t.Year, formatRating(t.Rating))
		}
		fmt.Printf("page %d of %d, %d titles\n", page.Page, page.TotalPages, page.Total)
		return nil
	},
}

var getTitleCmd = &cobra.Command{
	Use:   "get [title-id]",
	Short: "Show one title",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid title ID: %w", err)
		}

		c := GetClient()
		t, err := c.GetTitle(id)
		if err != nil {
			return fmt.Errorf("failed to get title: %w", err)
		}

		fmt.Printf("%s (%d)\n", t.Name, t.Year)
		fmt.Printf("Rating: %s\n", formatRating(t.Rating))
		if t.Category != nil {
			fmt.Printf("Category: %s\n", t.Category.Name)
		}
		if len(t.Genre) > 0 {
			names := make([]string, 0, len(t.Genre))
			for _, g := range t.Genre {
				names = append(names, g.Name)
			}
			fmt.Printf("Genres: %s\n", strings.Join(names, ", "))
		}
		if t.Description != "" {
			fmt.Println()
			fmt.Println(t.Description)
		}
		return nil
	},
}

func formatRating(r *float64) string {
	if r == nil {
		return "none"
	}
	return strconv.FormatFloat(*r, 'f', 1, 64)
}

func init() {
	titleCmd.AddCommand(listTitlesCmd, getTitleCmd)

	listTitlesCmd.Flags().String("genre", "", "Genre slug")
	listTitlesCmd.Flags().String("category", "", "Category slug")
	listTitlesCmd.Flags().Int("year", 0, "Release year")
	listTitlesCmd.Flags().String("name", "", "Part of the title name")
	listTitlesCmd.Flags().Int("page", 1, "Page number")
}
