package command

import (
	"fmt"

	"commentshub/cmd/cli/command/client"

	"github.com/spf13/cobra"
)

var notificationCmd = &cobra.Command{
	Use:     "notification",
	Aliases: []string{"notifications"},
	Short:   "Reply notifications",
}

var unreadCmd = &cobra.Command{
	Use:   "unread",
	Short: "List unread notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAuth(func(c *client.HTTPClient) error {
			ns, err := c.UnreadNotifications()
			if err != nil {
				return fmt.Errorf("failed to get notifications: %w", err)
			}
			if len(ns) == 0 {
				fmt.Println("No unread notifications.")
				return nil
			}
			for _, n := range ns {
				fmt.Printf("%s %s %s\n", bold(fmt.Sprintf("[%d]", n.ID)), n.Message, faint(n.CreatedAt.Format("2006-01-02 15:04:05")))
			}
			return nil
		})
	},
}

var readCmd = &cobra.Command{
	Use:   "read [notification-id]",
	Short: "Mark a notification as read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "notification")
		if err != nil {
			return err
		}
		if err := withAuth(func(c *client.HTTPClient) error { return c.MarkNotificationRead(id) }); err != nil {
			return fmt.Errorf("failed to mark notification: %w", err)
		}
		fmt.Println(success("✓ Marked as read."))
		return nil
	},
}

var readAllCmd = &cobra.Command{
	Use:   "read-all",
	Short: "Mark every notification as read",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := withAuth(func(c *client.HTTPClient) error { return c.MarkAllNotificationsRead() }); err != nil {
			return fmt.Errorf("failed to mark notifications: %w", err)
		}
		fmt.Println(success("✓ All notifications marked as read."))
		return nil
	},
}

func init() {
	notificationCmd.AddCommand(unreadCmd, readCmd, readAllCmd)
}
