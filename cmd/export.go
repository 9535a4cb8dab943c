package cmd

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/chrisdamba/foodiq/internal/export"
	"github.com/chrisdamba/foodiq/internal/models"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var exportCmd = &cobra.Command{
	Use:   "export [term]",
	Short: "Run a search and write the results as parquet, csv or json",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		term := ""
		if len(args) == 1 {
			term = args[0]
		}
		location, _ := cmd.Flags().GetString("location")
		limit, _ := cmd.Flags().GetInt("limit")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		svc, cleanup, err := newQueryService(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		exporter, err := export.New(cmd.Context(), cfg.Export)
		if err != nil {
			return err
		}

		results, err := svc.Search(cmd.Context(), term, location, limit)
		if err != nil {
			return errors.New(models.UserMessage(err))
		}

		bar := progressbar.Default(int64(len(results)), "exporting")
		out, err := exporter.Export(exportName(term, time.Now()), results, func() { bar.Add(1) })
		if err != nil {
			return err
		}
		bar.Finish()
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d restaurants to %s\n", len(results), out)
		return nil
	},
}

var unsafeName = regexp.MustCompile(`[^a-z0-9]+`)

// exportName builds a file name like "search_pizza_20240102T150405".
func exportName(term string, at time.Time) string {
	slug := strings.Trim(unsafeName.ReplaceAllString(strings.ToLower(term), "-"), "-")
	if slug == "" {
		slug = "all"
	}
	return fmt.Sprintf("search_%s_%s", slug, at.UTC().Format("20060102T150405"))
}

func init() {
	exportCmd.Flags().String("location", "", "location to search near")
	exportCmd.Flags().Int("limit", -1, "maximum number of results")
	exportCmd.Flags().String("format", "parquet", "output format: parquet, csv or json")
	exportCmd.Flags().String("destination", "local", "local or cloud")
	viper.BindPFlag("export.format", exportCmd.Flags().Lookup("format"))
	viper.BindPFlag("export.destination", exportCmd.Flags().Lookup("destination"))
	rootCmd.AddCommand(exportCmd)
}
