package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	linkSelection  selectionFlags
	linkEntityType string
	linkEntityID   string
)

var linkCmd = &cobra.Command{
	Use:   "link",
	Short: "Link ranges to world-building entities",
}

var linkAddCmd = &cobra.Command{
	Use:   "add [chapter-id]",
	Short: "Link a range to an entity",
	Long: `Links a range of a chapter to a registered entity.

The entity must exist (see "grimorium entity add"). The range is chosen
the same way as for comments.`,
	Args: cobra.ExactArgs(1),
	RunE: runLinkAdd,
}

func init() {
	linkSelection.register(linkAddCmd)
	linkAddCmd.Flags().StringVar(&linkEntityType, "type", "", "entity type, e.g. character")
	linkAddCmd.Flags().StringVar(&linkEntityID, "entity", "", "entity ID")

	linkCmd.AddCommand(linkAddCmd)
	rootCmd.AddCommand(linkCmd)
}

func runLinkAdd(cmd *cobra.Command, args []string) error {
	return withChapter(cmd.Context(), args[0], true, func() error {
		r, err := linkSelection.resolve()
		if err != nil {
			return err
		}
		a, err := chapterService.LinkSelection(cmd.Context(), r, linkEntityType, linkEntityID)
		if err != nil {
			return fmt.Errorf("failed to add link: %w", err)
		}
		cmd.Printf("Linked %q [%d, %d) to %s/%s (%s)\n", a.Text, a.Start, a.End, linkEntityType, linkEntityID, a.ID)
		return nil
	})
}
