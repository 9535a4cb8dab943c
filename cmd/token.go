package cmd

import (
	"fmt"

	"github.com/chrisdamba/foodiq/internal/api"
	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token <client>",
	Short: "Mint a bearer token for the HTTP API",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ttl, _ := cmd.Flags().GetDuration("ttl")
		if ttl <= 0 {
			ttl = cfg.API.TokenTTL
		}

		token, err := api.CreateToken([]byte(cfg.API.JWTSecret), args[0], ttl)
		if err != nil {
			return fmt.Errorf("could not create token (is api.jwt_secret set?): %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().Duration("ttl", 0, "token lifetime (default is api.token_ttl)")
	rootCmd.AddCommand(tokenCmd)
}
