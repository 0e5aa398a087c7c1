package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	authToken string
	asUser    string
	apiURL    = "http://localhost:8787"
	output    = "text" // "text" or "json"
)

var rootCmd = &cobra.Command{
	Use:   "chirpline",
	Short: "chirpline CLI - read feeds and engage from the terminal",
	Long: `chirpline CLI talks to a running API server.
Authenticate with --token (or CHIRPLINE_TOKEN), or with --user against a
development server that trusts the X-User-ID header.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if authToken == "" {
			authToken = os.Getenv("CHIRPLINE_TOKEN")
		}
		if asUser == "" {
			asUser = os.Getenv("CHIRPLINE_USER")
		}
		if authToken == "" && asUser == "" && cmd.Name() != "help" {
			return fmt.Errorf("no credentials: set CHIRPLINE_TOKEN or pass --user")
		}
		initClient()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&authToken, "token", "", "Bearer token (defaults to CHIRPLINE_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&asUser, "user", "", "User id sent as X-User-ID (defaults to CHIRPLINE_USER)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", apiURL, "API server URL")
	rootCmd.PersistentFlags().StringVar(&output, "output", output, "Output format: text or json")

	rootCmd.AddCommand(feedCmd)
	rootCmd.AddCommand(followCmd, unfollowCmd, followersCmd, followingCmd)
	rootCmd.AddCommand(postCmd, likeCmd, unlikeCmd, bookmarkCmd, unbookmarkCmd, commentCmd, commentsCmd)
	rootCmd.AddCommand(notificationsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v", err)
		os.Exit(1)
	}
}
