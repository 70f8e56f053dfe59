package command

import (
	"fmt"

	"commentshub/cmd/cli/authentication"
	"commentshub/cmd/cli/command/client"
	clidto "commentshub/cmd/cli/dto"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
)

// auth.go handles account and token commands: register, login, logout,
// refresh and whoami.

// authCmd represents the auth command for authentication related subcommands
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  `Authenticate with the commentshub API server. Supports registration, login, logout and token refresh.`,
}

// registerCmd represents the register command
var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new account",
	RunE: func(cmd *cobra.Command, args []string) error {
		// get data from flags
		var r clidto.RegisterRequest
		r.Username, _ = cmd.Flags().GetString("username")
		r.Password, _ = cmd.Flags().GetString("password")
		r.Email, _ = cmd.Flags().GetString("email")
		r.FirstName, _ = cmd.Flags().GetString("first-name")
		r.LastName, _ = cmd.Flags().GetString("last-name")
		r.Confirm = r.Password

		user, err := client.NewHTTPClient(apiURL).Register(&r)
		if err != nil {
			return fmt.Errorf("registration failed: %w", err)
		}

		fmt.Println(success("✓ Registration successful! Please login to continue."))
		fmt.Printf("User ID: %d\n", user.ID)
		return nil
	},
}

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login and store the token pair in the OS keyring",
	RunE: func(cmd *cobra.Command, args []string) error {
		var r clidto.LoginRequest
		r.Username, _ = cmd.Flags().GetString("username")
		r.Password, _ = cmd.Flags().GetString("password")

		pair, err := client.NewHTTPClient(apiURL).Login(&r)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}

		creds := &authentication.StoredCredentials{
			AccessToken:  pair.Access,
			RefreshToken: pair.Refresh,
			Username:     r.Username,
		}
		if claims, err := readClaims(pair.Access); err == nil {
			creds.UserID = claims.UserID
		}
		if err := authentication.StoreTokens(creds); err != nil {
			return fmt.Errorf("store tokens: %w", err)
		}

		fmt.Println(success("✓ Successfully logged in as " + r.Username))
		return nil
	},
}

// logoutCmd revokes the refresh token and forgets the stored pair.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Logout and revoke the stored refresh token",
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := authentication.GetTokens()
		if err != nil {
			return err
		}
		if err := client.NewHTTPClient(apiURL).RevokeToken(creds.RefreshToken); err != nil {
			fmt.Println(warn("! could not revoke refresh token: " + err.Error()))
		}
		if err := authentication.DeleteTokens(); err != nil {
			return err
		}
		fmt.Println(success("✓ Successfully logged out."))
		return nil
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Rotate the stored token pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := authentication.GetTokens()
		if err != nil {
			return err
		}
		pair, err := client.NewHTTPClient(apiURL).RefreshToken(creds.RefreshToken)
		if err != nil {
			return fmt.Errorf("refresh failed: %w", err)
		}
		creds.AccessToken, creds.RefreshToken = pair.Access, pair.Refresh
		if err := authentication.StoreTokens(creds); err != nil {
			return err
		}
		fmt.Println(success("✓ Tokens refreshed."))
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in account",
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := authentication.GetTokens()
		if err != nil {
			return err
		}
		claims, err := readClaims(creds.AccessToken)
		if err != nil {
			return fmt.Errorf("stored token is unreadable: %w", err)
		}

		return withAuth(func(c *client.HTTPClient) error {
			user, err := c.GetUser(claims.UserID)
			if err != nil {
				return err
			}
			printUser(user)
			return nil
		})
	},
}

// tokenClaims mirrors the claims the server puts in access tokens.
type tokenClaims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// readClaims decodes an access token without checking its signature; the
// server stays the only judge of validity.
func readClaims(accessToken string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// init function to add auth commands to root command
func init() {
	authCmd.AddCommand(registerCmd, loginCmd, logoutCmd, refreshCmd, whoamiCmd)

	// add flags for register command
	registerCmd.Flags().StringP("username", "u", "", "Username for the new account")
	registerCmd.Flags().StringP("password", "p", "", "Password for the new account")
	registerCmd.Flags().StringP("email", "e", "", "Email address for the new account")
	registerCmd.Flags().String("first-name", "", "First name")
	registerCmd.Flags().String("last-name", "", "Last name")
	registerCmd.MarkFlagRequired("username")
	registerCmd.MarkFlagRequired("password")
	registerCmd.MarkFlagRequired("email")

	// add flags for login command
	loginCmd.Flags().StringP("username", "u", "", "Username for the account")
	loginCmd.Flags().StringP("password", "p", "", "Password for the account")
	loginCmd.MarkFlagRequired("username")
	loginCmd.MarkFlagRequired("password")
}
