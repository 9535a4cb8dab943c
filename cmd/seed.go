package cmd

import (
	"context"
	"fmt"

	"github.com/chrisdamba/foodiq/internal/models"
	"github.com/chrisdamba/foodiq/internal/providers"
	"github.com/chrisdamba/foodiq/internal/repositories/postgres"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

const seedBatchSize = 100

var seedCmd = &cobra.Command{
	Use:   "seed <postgres|elasticsearch>",
	Short: "Load a business dataset into Postgres or Elasticsearch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reset, _ := cmd.Flags().GetBool("reset")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		businesses, err := readDataset(cmd)
		if err != nil {
			return err
		}

		switch args[0] {
		case models.ProviderPostgres:
			err = seedPostgres(cmd.Context(), cfg, businesses, reset)
		case models.ProviderElasticsearch:
			err = seedElasticsearch(cmd.Context(), cfg, businesses)
		default:
			return fmt.Errorf("unsupported seed target: %s", args[0])
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d businesses into %s\n", len(businesses), args[0])
		return nil
	},
}

func seedPostgres(ctx context.Context, cfg *models.Config, businesses []models.Business, reset bool) error {
	pool, err := postgres.Connect(ctx, cfg.Postgres.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	repo := postgres.NewBusinessRepository(pool)
	if err := repo.CreateSchema(ctx); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if reset {
		if err := repo.DeleteAll(ctx); err != nil {
			return fmt.Errorf("failed to clear businesses: %w", err)
		}
	}

	bar := progressbar.Default(int64(len(businesses)), "seeding postgres")
	for start := 0; start < len(businesses); start += seedBatchSize {
		end := min(start+seedBatchSize, len(businesses))
		if err := repo.BulkCreate(ctx, businesses[start:end]); err != nil {
			return err
		}
		bar.Add(end - start)
	}
	return bar.Finish()
}

func seedElasticsearch(ctx context.Context, cfg *models.Config, businesses []models.Business) error {
	p, err := providers.NewElasticsearchProviderFromConfig(cfg)
	if err != nil {
		return err
	}
	if err := p.EnsureIndex(ctx); err != nil {
		return err
	}

	bar := progressbar.Default(int64(len(businesses)), "indexing")
	if _, err := p.BulkIndex(ctx, businesses, func() { bar.Add(1) }); err != nil {
		return err
	}
	return bar.Finish()
}

func init() {
	seedCmd.Flags().String("input", "", "dataset file to load (default is the built-in fixtures)")
	seedCmd.Flags().Int("generate", 0, "generate this many fake businesses instead of reading a file")
	seedCmd.Flags().Bool("reset", false, "delete existing rows first (postgres only)")
	rootCmd.AddCommand(seedCmd)
}
