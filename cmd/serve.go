package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/chrisdamba/foodiq/internal/api"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the restaurant search HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		svc, cleanup, err := newQueryService(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return api.NewServer(cfg.API, svc, svc.ProviderName()).Run(ctx)
	},
}

func init() {
	serveCmd.Flags().String("port", "3003", "port to listen on")
	viper.BindPFlag("api.port", serveCmd.Flags().Lookup("port"))
	rootCmd.AddCommand(serveCmd)
}
