package command

// root.go defines the root command for the commentshub CLI and the helpers
// shared by its subcommands.

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"commentshub/cmd/cli/authentication"
	"commentshub/cmd/cli/command/client"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var apiURL string // Global flag for API server URL

var (
	success = color.New(color.FgGreen).SprintFunc()
	faint   = color.New(color.Faint).SprintFunc()
	bold    = color.New(color.Bold).SprintFunc()
	warn    = color.New(color.FgYellow).SprintFunc()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "commentshub",
	Short: "commentshub - command line client for the comments API",
	Long: `commentshub talks to a commentshub API server. Use it to:
- Register an account and log in
- Browse users and edit your own profile
- Post, reply to, edit and delete comments
- Read reply notifications

Use "commentshub [command] --help" to see all available commands.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error:"), err)
		os.Exit(1)
	}
}

func init() {
	defaultAPI := os.Getenv("COMMENTSHUB_API")
	if defaultAPI == "" {
		defaultAPI = "http://localhost:8080"
	}

	// Global persistent flags = available to all subcommands
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", defaultAPI, "API server URL")
	rootCmd.PersistentFlags().BoolVar(&color.NoColor, "no-color", color.NoColor, "disable colored output")

	rootCmd.AddCommand(authCmd, userCmd, commentCmd, notificationCmd)
}

// withAuth runs fn with a client carrying the stored access token. A 401 is
// retried once after rotating the refresh token.
func withAuth(fn func(c *client.HTTPClient) error) error {
	creds, err := authentication.GetTokens()
	if err != nil {
		return err
	}

	httpClient := client.NewHTTPClient(apiURL)
	httpClient.SetToken(creds.AccessToken)

	err = fn(httpClient)
	if !errors.Is(err, client.ErrUnauthorized) || creds.RefreshToken == "" {
		return err
	}

	pair, refreshErr := client.NewHTTPClient(apiURL).RefreshToken(creds.RefreshToken)
	if refreshErr != nil {
		return fmt.Errorf("session expired, please log in again: %w", refreshErr)
	}
	creds.AccessToken, creds.RefreshToken = pair.Access, pair.Refresh
	if err := authentication.StoreTokens(creds); err != nil {
		return fmt.Errorf("store refreshed tokens: %w", err)
	}

	httpClient.SetToken(pair.Access)
	return fn(httpClient)
}

func parseID(raw, what string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s ID: %q", what, raw)
	}
	return id, nil
}

// optionalString returns the flag value when the user set it.
func optionalString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}
