package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/chrisdamba/foodiq/internal/events"
	"github.com/chrisdamba/foodiq/internal/models"
	"github.com/chrisdamba/foodiq/internal/providers"
	"github.com/chrisdamba/foodiq/internal/service"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "foodiq",
	Short: "Searches restaurants across interchangeable data providers",
	Long: `foodiq searches restaurants and fetches restaurant details from a local mock dataset,
a Yelp-style business search API, Postgres or Elasticsearch, and normalizes every
record into the same summary and detail shapes.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./foodiq.yaml)")
	rootCmd.PersistentFlags().String("provider", models.ProviderLocal, "data provider: local, yelp, postgres or elasticsearch")
	rootCmd.PersistentFlags().String("default-location", models.DefaultLocation, "location used when none is given")

	viper.BindPFlag("provider", rootCmd.PersistentFlags().Lookup("provider"))
	viper.BindPFlag("default_location", rootCmd.PersistentFlags().Lookup("default-location"))
}

func initConfig() {
	// a missing .env file is fine
	if err := godotenv.Load(); err == nil {
		log.Printf("Loaded environment from .env")
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*models.Config, error) {
	cfg, err := models.LoadConfig(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	return cfg, nil
}

// newQueryService wires the configured provider and event publisher. The
// returned func releases both.
func newQueryService(ctx context.Context, cfg *models.Config) (*service.QueryService, func(), error) {
	provider, err := providers.New(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	publisher, err := events.New(ctx, cfg.Events)
	if err != nil {
		closeProvider(provider)
		return nil, nil, err
	}

	cleanup := func() {
		if err := publisher.Close(); err != nil {
			log.Printf("Error closing event publisher: %v", err)
		}
		closeProvider(provider)
	}
	return service.NewQueryService(cfg, provider, publisher), cleanup, nil
}

func closeProvider(p providers.Provider) {
	if c, ok := p.(providers.Closer); ok {
		if err := c.Close(); err != nil {
			log.Printf("Error closing provider %s: %v", p.Name(), err)
		}
	}
}
