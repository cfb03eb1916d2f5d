package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	commentSelection selectionFlags
	commentText      string
	commentUnpin     bool
)

var commentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Manage comment threads",
	Long: `Anchor comment threads to ranges of a chapter and manage their comments.

A range is chosen with --start/--end rune offsets or with --find, which
selects the --occurrence'th match of a term:

  grimorium comment add ch-1 --find wolf --occurrence 2 --text "Which wolf?"`,
}

var commentAddCmd = &cobra.Command{
	Use:   "add [chapter-id]",
	Short: "Start a comment thread on a range",
	Args:  cobra.ExactArgs(1),
	RunE:  runCommentAdd,
}

var commentReplyCmd = &cobra.Command{
	Use:   "reply [chapter-id] [annotation-id]",
	Short: "Add a comment to an existing thread",
	Args:  cobra.ExactArgs(2),
	RunE:  runCommentReply,
}

var commentEditCmd = &cobra.Command{
	Use:   "edit [chapter-id] [comment-id]",
	Short: "Change a comment's text",
	Args:  cobra.ExactArgs(2),
	RunE:  runCommentEdit,
}

var commentDeleteCmd = &cobra.Command{
	Use:   "delete [chapter-id] [comment-id]",
	Short: "Delete one comment, keeping its thread",
	Args:  cobra.ExactArgs(2),
	RunE:  runCommentDelete,
}

var commentPinCmd = &cobra.Command{
	Use:   "pin [chapter-id] [comment-id]",
	Short: "Mark a comment as important",
	Args:  cobra.ExactArgs(2),
	RunE:  runCommentPin,
}

var commentListCmd = &cobra.Command{
	Use:   "list [chapter-id] [annotation-id]",
	Short: "Show a thread in timestamp order",
	Args:  cobra.ExactArgs(2),
	RunE:  runCommentList,
}

func init() {
	commentSelection.register(commentAddCmd)
	commentAddCmd.Flags().StringVar(&commentText, "text", "", "first comment of the thread")
	commentReplyCmd.Flags().StringVar(&commentText, "text", "", "comment text")
	commentEditCmd.Flags().StringVar(&commentText, "text", "", "new comment text")
	commentPinCmd.Flags().BoolVar(&commentUnpin, "unpin", false, "clear the important flag instead")

	commentCmd.AddCommand(commentAddCmd)
	commentCmd.AddCommand(commentReplyCmd)
	commentCmd.AddCommand(commentEditCmd)
	commentCmd.AddCommand(commentDeleteCmd)
	commentCmd.AddCommand(commentPinCmd)
	commentCmd.AddCommand(commentListCmd)
	rootCmd.AddCommand(commentCmd)
}

func runCommentAdd(cmd *cobra.Command, args []string) error {
	return withChapter(cmd.Context(), args[0], true, func() error {
		r, err := commentSelection.resolve()
		if err != nil {
			return err
		}
		a, err := chapterService.CommentSelection(r, commentText)
		if err != nil {
			return fmt.Errorf("failed to add comment: %w", err)
		}
		cmd.Printf("Added comment thread %s on %q [%d, %d)\n", a.ID, a.Text, a.Start, a.End)
		return nil
	})
}

func runCommentReply(cmd *cobra.Command, args []string) error {
	return withChapter(cmd.Context(), args[0], true, func() error {
		c, err := chapterService.Annotations().AddComment(args[1], commentText)
		if err != nil {
			return fmt.Errorf("failed to add comment: %w", err)
		}
		cmd.Printf("Added comment %s\n", c.ID)
		return nil
	})
}

func runCommentEdit(cmd *cobra.Command, args []string) error {
	return withChapter(cmd.Context(), args[0], true, func() error {
		if _, err := chapterService.Annotations().EditComment(args[1], commentText); err != nil {
			return fmt.Errorf("failed to edit comment: %w", err)
		}
		cmd.Printf("Updated comment %s\n", args[1])
		return nil
	})
}

func runCommentDelete(cmd *cobra.Command, args []string) error {
	return withChapter(cmd.Context(), args[0], true, func() error {
		if err := chapterService.Annotations().DeleteComment(args[1]); err != nil {
			return fmt.Errorf("failed to delete comment: %w", err)
		}
		cmd.Printf("Deleted comment %s\n", args[1])
		return nil
	})
}

func runCommentPin(cmd *cobra.Command, args []string) error {
	return withChapter(cmd.Context(), args[0], true, func() error {
		if _, err := chapterService.Annotations().SetCommentImportant(args[1], !commentUnpin); err != nil {
			return fmt.Errorf("failed to update comment: %w", err)
		}
		if commentUnpin {
			cmd.Printf("Unpinned comment %s\n", args[1])
		} else {
			cmd.Printf("Pinned comment %s\n", args[1])
		}
		return nil
	})
}

func runCommentList(cmd *cobra.Command, args []string) error {
	return withChapter(cmd.Context(), args[0], false, func() error {
		annotations := chapterService.Annotations()
		a, err := annotations.Get(args[1])
		if err != nil {
			return fmt.Errorf("failed to get annotation: %w", err)
		}
		comments, err := annotations.ListCommentsFor(args[1])
		if err != nil {
			return fmt.Errorf("failed to list comments: %w", err)
		}

		cmd.Printf("Thread on %q [%d, %d)\n", a.Text, a.Start, a.End)
		if len(comments) == 0 {
			cmd.Println("  (no comments)")
			return nil
		}
		for i := range comments {
			marker := " "
			if comments[i].Important {
				marker = "!"
			}
			cmd.Printf("  %s %s  %s  %s\n", marker, comments[i].Timestamp.Format("2006-01-02 15:04"),
				comments[i].ID, comments[i].Text)
		}
		return nil
	})
}
