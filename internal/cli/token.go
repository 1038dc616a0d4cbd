package cli

import (
	"fmt"

	"github.com/dafibh/huddle/huddle-backend/internal/auth"
	"github.com/dafibh/huddle/huddle-backend/internal/config"
	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a local HS256 token for development (AUTH_MODE=local)",
	Args:  cobra.NoArgs,
	RunE:  runToken,
}

func init() {
	tokenCmd.Flags().String("subject", "", "token subject (required)")
	tokenCmd.Flags().String("email", "", "email claim")
	tokenCmd.Flags().String("name", "", "name claim")
	_ = tokenCmd.MarkFlagRequired("subject")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadLocalAuth()
	if err != nil {
		return err
	}

	subject, _ := cmd.Flags().GetString("subject")
	email, _ := cmd.Flags().GetString("email")
	name, _ := cmd.Flags().GetString("name")

	token, err := auth.GenerateToken(subject, email, name, cfg.JWTIssuer, cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		return fmt.Errorf("generate token: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
