package cmd

import (
	"errors"
	"fmt"

	"github.com/chrisdamba/foodiq/internal/models"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search [term]",
	Short: "Search restaurants by name or category",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		term := ""
		if len(args) == 1 {
			term = args[0]
		}
		location, _ := cmd.Flags().GetString("location")
		limit, _ := cmd.Flags().GetInt("limit")
		asJSON, _ := cmd.Flags().GetBool("json")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		svc, cleanup, err := newQueryService(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		results, err := svc.Search(cmd.Context(), term, location, limit)
		if err != nil {
			return errors.New(models.UserMessage(err))
		}
		if asJSON {
			return printJSON(cmd.OutOrStdout(), results)
		}
		printSummaries(cmd.OutOrStdout(), results)
		return nil
	},
}

var categoryCmd = &cobra.Command{
	Use:   "category <category>",
	Short: "Search restaurants in a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		location, _ := cmd.Flags().GetString("location")
		asJSON, _ := cmd.Flags().GetBool("json")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		svc, cleanup, err := newQueryService(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		results, err := svc.SearchByCategory(cmd.Context(), args[0], location)
		if err != nil {
			return errors.New(models.UserMessage(err))
		}
		if asJSON {
			return printJSON(cmd.OutOrStdout(), results)
		}
		printSummaries(cmd.OutOrStdout(), results)
		return nil
	},
}

var detailsCmd = &cobra.Command{
	Use:   "details <id>",
	Short: "Show the details of one restaurant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		svc, cleanup, err := newQueryService(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		detail, found, err := svc.GetByID(cmd.Context(), args[0])
		if err != nil {
			return errors.New(models.UserMessage(err))
		}
		if !found {
			return fmt.Errorf("no restaurant with id %q", args[0])
		}
		if asJSON {
			return printJSON(cmd.OutOrStdout(), detail)
		}
		printDetail(cmd.OutOrStdout(), detail)
		return nil
	},
}

func init() {
	searchCmd.Flags().String("location", "", "location to search near (default is the configured default location)")
	searchCmd.Flags().Int("limit", -1, "maximum number of results (default is the configured default limit)")
	searchCmd.Flags().Bool("json", false, "print results as JSON")

	categoryCmd.Flags().String("location", "", "location to search near")
	categoryCmd.Flags().Bool("json", false, "print results as JSON")

	detailsCmd.Flags().Bool("json", false, "print the record as JSON")

	rootCmd.AddCommand(searchCmd, categoryCmd, detailsCmd)
}
