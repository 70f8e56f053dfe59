package command

import (
	"fmt"
	"strings"

	"commentshub/cmd/cli/authentication"
	"commentshub/cmd/cli/command/client"
	clidto "commentshub/cmd/cli/dto"
	"commentshub/internal/microservices/http-api/dto"

	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "User commands",
	Long:  `List and view accounts, and update or delete your own.`,
}

var listUsersCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	RunE: func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetString("page")
		return withAuth(func(c *client.HTTPClient) error {
			result, err := c.ListUsers(page)
			if err != nil {
				return fmt.Errorf("failed to list users: %w", err)
			}
			if len(result.Results) == 0 {
				fmt.Println("No users found.")
				return nil
			}
			fmt.Printf("Found %d users:\n\n", result.Count)
			for i := range result.Results {
				printUser(&result.Results[i])
				fmt.Println(faint(strings.Repeat("-", 50)))
			}
			printPageLinks(result.Next, result.Previous)
			return nil
		})
	},
}

var getUserCmd = &cobra.Command{
	Use:   "get [user-id]",
	Short: "Get a user by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "user")
		if err != nil {
			return err
		}
		return withAuth(func(c *client.HTTPClient) error {
			user, err := c.GetUser(id)
			if err != nil {
				return fmt.Errorf("failed to get user: %w", err)
			}
			printUser(user)
			return nil
		})
	},
}

var updateUserCmd = &cobra.Command{
	Use:   "update [user-id]",
	Short: "Update your account; only the given flags change",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "user")
		if err != nil {
			return err
		}
		req := &clidto.UpdateUserRequest{
			Email:     optionalString(cmd, "email"),
			Username:  optionalString(cmd, "username"),
			FirstName: optionalString(cmd, "first-name"),
			LastName:  optionalString(cmd, "last-name"),
			Password:  optionalString(cmd, "password"),
		}
		req.Confirm = req.Password

		return withAuth(func(c *client.HTTPClient) error {
			user, err := c.UpdateUser(id, req)
			if err != nil {
				return fmt.Errorf("failed to update user: %w", err)
			}
			fmt.Println(success("✓ User updated successfully!"))
			printUser(user)
			return nil
		})
	},
}

var deleteUserCmd = &cobra.Command{
	Use:   "delete [user-id]",
	Short: "Delete your account and all of its comments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "user")
		if err != nil {
			return err
		}
		err = withAuth(func(c *client.HTTPClient) error {
			return c.DeleteUser(id)
		})
		if err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}

		// the stored tokens belong to a user that no longer exists
		if creds, err := authentication.GetTokens(); err == nil && creds.UserID == id {
			_ = authentication.DeleteTokens()
		}
		fmt.Println(success(fmt.Sprintf("✓ User %d deleted successfully!", id)))
		return nil
	},
}

func printUser(u *dto.UserResponse) {
	fmt.Printf("%s %s\n", bold(fmt.Sprintf("#%d", u.ID)), u.Username)
	fmt.Printf("Email: %s\n", u.Email)
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		fmt.Printf("Name: %s\n", name)
	}
}

func printPageLinks(next, previous *string) {
	if previous != nil {
		fmt.Println(faint("previous: " + *previous))
	}
	if next != nil {
		fmt.Println(faint("next: " + *next))
	}
}

func init() {
	userCmd.AddCommand(listUsersCmd, getUserCmd, updateUserCmd, deleteUserCmd)

	listUsersCmd.Flags().String("page", "", `Page number or "last" when the server paginates`)

	updateUserCmd.Flags().String("email", "", "New email address")
	updateUserCmd.Flags().String("username", "", "New username")
	updateUserCmd.Flags().String("first-name", "", "New first name")
	updateUserCmd.Flags().String("last-name", "", "New last name")
	updateUserCmd.Flags().String("password", "", "New password")
}
