package command

import (
	"fmt"
	"strings"

	"commentshub/cmd/cli/command/client"
	clidto "commentshub/cmd/cli/dto"
	"commentshub/internal/microservices/http-api/dto"

	"github.com/spf13/cobra"
)

var commentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Comment management commands",
	Long:  `Manage comments: list, view, create, reply, update and delete`,
}

var createCommentCmd = &cobra.Command{
	Use:   "create [text]",
	Short: "Post a new comment",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		req := &clidto.CommentRequest{Text: &text, Home: optionalString(cmd, "home")}
		return postComment(req)
	},
}

var replyCommentCmd = &cobra.Command{
	Use:   "reply [comment-id] [text]",
	Short: "Reply to a comment",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		parentID, err := parseID(args[0], "comment")
		if err != nil {
			return err
		}
		text := strings.Join(args[1:], " ")
		req := &clidto.CommentRequest{Text: &text, Home: optionalString(cmd, "home"), Reply: &parentID}
		return postComment(req)
	},
}

func postComment(req *clidto.CommentRequest) error {
	return withAuth(func(c *client.HTTPClient) error {
		result, err := c.CreateComment(req)
		if err != nil {
			return fmt.Errorf("failed to create comment: %w", err)
		}
		fmt.Println(success("✓ Comment created successfully!"))
		printComment(result)
		return nil
	})
}

var updateCommentCmd = &cobra.Command{
	Use:   "update [comment-id] [text]",
	Short: "Update your comment",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		commentID, err := parseID(args[0], "comment")
		if err != nil {
			return err
		}

		req := &clidto.CommentRequest{Home: optionalString(cmd, "home")}
		if len(args) > 1 {
			text := strings.Join(args[1:], " ")
			req.Text = &text
		}
		if req.Text == nil && req.Home == nil {
			return fmt.Errorf("nothing to update: pass new text or --home")
		}

		return withAuth(func(c *client.HTTPClient) error {
			result, err := c.UpdateComment(commentID, req)
			if err != nil {
				return fmt.Errorf("failed to update comment: %w", err)
			}
			fmt.Println(success("✓ Comment updated successfully!"))
			printComment(result)
			return nil
		})
	},
}

var deleteCommentCmd = &cobra.Command{
	Use:   "delete [comment-id]",
	Short: "Delete your comment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		commentID, err := parseID(args[0], "comment")
		if err != nil {
			return err
		}

		err = withAuth(func(c *client.HTTPClient) error {
			return c.DeleteComment(commentID)
		})
		if err != nil {
			return fmt.Errorf("failed to delete comment: %w", err)
		}

		fmt.Println(success(fmt.Sprintf("✓ Comment %d deleted successfully!", commentID)))
		return nil
	},
}

var getCommentCmd = &cobra.Command{
	Use:   "get [comment-id]",
	Short: "Get a specific comment by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		commentID, err := parseID(args[0], "comment")
		if err != nil {
			return err
		}

		return withAuth(func(c *client.HTTPClient) error {
			result, err := c.GetComment(commentID)
			if err != nil {
				return fmt.Errorf("failed to get comment: %w", err)
			}
			printComment(result)
			return nil
		})
	},
}

var listCommentsCmd = &cobra.Command{
	Use:   "list",
	Short: "List comments, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetString("page")

		return withAuth(func(c *client.HTTPClient) error {
			result, err := c.ListComments(page)
			if err != nil {
				return fmt.Errorf("failed to list comments: %w", err)
			}
			if len(result.Results) == 0 {
				fmt.Println("No comments found.")
				return nil
			}

			fmt.Printf("Comments (Total: %d):\n\n", result.Count)
			for i := range result.Results {
				printComment(&result.Results[i])
				fmt.Println(faint(strings.Repeat("-", 50)))
			}
			printPageLinks(result.Next, result.Previous)
			return nil
		})
	},
}

func printComment(c *dto.CommentResponse) {
	header := fmt.Sprintf("#%d by user %d", c.ID, c.User)
	if c.Reply != nil {
		header += fmt.Sprintf(" (reply to #%d)", *c.Reply)
	}
	fmt.Println(bold(header))
	fmt.Println(c.Text)
	if c.Home != "" {
		fmt.Println(faint("home: " + c.Home))
	}
	for _, r := range c.Replies {
		fmt.Printf("  ↳ #%d %s: %s\n", r.ID, r.User.Username, r.Text)
	}
}

func init() {
	commentCmd.AddCommand(listCommentsCmd, getCommentCmd, createCommentCmd, replyCommentCmd, updateCommentCmd, deleteCommentCmd)

	listCommentsCmd.Flags().String("page", "", `Page number or "last" when the server paginates`)
	createCommentCmd.Flags().String("home", "", "Home page URL to show with the comment")
	replyCommentCmd.Flags().String("home", "", "Home page URL to show with the reply")
	updateCommentCmd.Flags().String("home", "", "New home page URL")
}
