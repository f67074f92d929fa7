package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"bookreview-backend/pkg/jwt"
)

var subject string

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an admin bearer token signed with the configured secret",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		token, expiresAt, err := jwt.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL).
			GenerateAccessToken(subject, jwt.RoleAdmin)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)
		if verbose {
			fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", expiresAt.Format("2006-01-02 15:04:05 MST"))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().StringVar(&subject, "subject", "", "Token subject")
	_ = tokenCmd.MarkFlagRequired("subject")
}
