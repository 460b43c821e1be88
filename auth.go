package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/asanadoc/asanadoc/pkg/auth"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Store Asana credentials",
	Long: `Store the credential used for API access: either a personal access
token passed via --token, or an OAuth token obtained through the browser
authorization flow with --oauth. Any previously stored credential is
replaced.`,
	RunE: runAuth,
}

func init() {
	authCmd.Flags().String("token", "", "Personal access token to store")
	authCmd.Flags().Bool("oauth", false, "Run the browser OAuth authorization flow")
	authCmd.Flags().String("client-id", "", "OAuth app client ID (with --oauth)")
	authCmd.Flags().String("client-secret", "", "OAuth app client secret (with --oauth)")
	rootCmd.AddCommand(authCmd)
}

func runAuth(cmd *cobra.Command, args []string) error {
	token, _ := cmd.Flags().GetString("token")
	useOAuth, _ := cmd.Flags().GetBool("oauth")

	if token == "" && !useOAuth {
		return fmt.Errorf("nothing to do: pass --token or --oauth")
	}

	if err := auth.RemoveToken(); err != nil {
		return fmt.Errorf("could not remove existing token: %w", err)
	}

	if token != "" {
		if err := auth.SaveAccessToken(token); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Access token saved.")
		return nil
	}

	clientID, _ := cmd.Flags().GetString("client-id")
	clientSecret, _ := cmd.Flags().GetString("client-secret")
	if clientID == "" || clientSecret == "" {
		return fmt.Errorf("--oauth requires --client-id and --client-secret")
	}

	if _, err := auth.Authorize(cmd.Context(), clientID, clientSecret); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Authentication successful! Token saved.")
	return nil
}
