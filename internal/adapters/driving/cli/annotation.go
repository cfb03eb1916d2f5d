package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/grimorium/internal/core/domain"
	"github.com/custodia-labs/grimorium/internal/core/ports/driving"
	"github.com/custodia-labs/grimorium/internal/core/services"
)

var (
	annotationListJSON bool
	activateOffset     int
)

var annotationCmd = &cobra.Command{
	Use:     "annotation",
	Aliases: []string{"annotations"},
	Short:   "Inspect and remove annotations",
}

var annotationListCmd = &cobra.Command{
	Use:   "list [chapter-id]",
	Short: "List every annotation of a chapter",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnnotationList,
}

var annotationDeleteCmd = &cobra.Command{
	Use:   "delete [chapter-id] [annotation-id]",
	Short: "Delete an annotation with its thread or link",
	Args:  cobra.ExactArgs(2),
	RunE:  runAnnotationDelete,
}

var annotationActivateCmd = &cobra.Command{
	Use:   "activate [chapter-id]",
	Short: "Show what activating the text at an offset does",
	Long: `Reports the action a front end takes when the user clicks or presses
enter at --offset: open a comment thread, navigate to an entity, or nothing.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnnotationActivate,
}

// annotationSummary is one row of the annotation overview.
type annotationSummary struct {
	ID           string `json:"id"`
	Kind         string `json:"kind"`
	Start        int    `json:"start"`
	End          int    `json:"end"`
	Text         string `json:"text"`
	CommentCount int    `json:"comment_count,omitempty"`
	EntityType   string `json:"entity_type,omitempty"`
	EntityID     string `json:"entity_id,omitempty"`
}

func init() {
	annotationListCmd.Flags().BoolVar(&annotationListJSON, "json", false, "output annotations as JSON")
	annotationActivateCmd.Flags().IntVar(&activateOffset, "offset", 0, "rune offset to activate")

	annotationCmd.AddCommand(annotationListCmd)
	annotationCmd.AddCommand(annotationDeleteCmd)
	annotationCmd.AddCommand(annotationActivateCmd)
	rootCmd.AddCommand(annotationCmd)
}

func summarise(annotations driving.AnnotationService) []annotationSummary {
	list := annotations.List()
	out := make([]annotationSummary, 0, len(list))
	for i := range list {
		row := annotationSummary{
			ID:    list[i].ID,
			Kind:  list[i].Kind.String(),
			Start: list[i].Start,
			End:   list[i].End,
			Text:  list[i].Text,
		}
		switch list[i].Kind {
		case domain.KindComment:
			row.CommentCount = annotations.CommentCount(list[i].ID)
		case domain.KindLink:
			if link, ok := annotations.LinkFor(list[i].ID); ok {
				row.EntityType = link.EntityType
				row.EntityID = link.EntityID
			}
		}
		out = append(out, row)
	}
	return out
}

func runAnnotationList(cmd *cobra.Command, args []string) error {
	return withChapter(cmd.Context(), args[0], false, func() error {
		rows := summarise(chapterService.Annotations())

		if annotationListJSON {
			data, err := json.MarshalIndent(rows, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal annotations: %w", err)
			}
			cmd.Println(string(data))
			return nil
		}

		if len(rows) == 0 {
			cmd.Println("No annotations.")
			return nil
		}
		cmd.Println("Annotations:")
		for i := range rows {
			detail := fmt.Sprintf("%d comment(s)", rows[i].CommentCount)
			if rows[i].Kind == domain.KindLink.String() {
				detail = "-> " + rows[i].EntityType + "/" + rows[i].EntityID
			}
			cmd.Printf("  [%d, %d) %-7s %q  %s  %s\n", rows[i].Start, rows[i].End, rows[i].Kind, rows[i].Text,
				detail, rows[i].ID)
		}
		return nil
	})
}

func runAnnotationDelete(cmd *cobra.Command, args []string) error {
	return withChapter(cmd.Context(), args[0], true, func() error {
		if err := chapterService.Annotations().DeleteAnnotation(args[1]); err != nil {
			return fmt.Errorf("failed to delete annotation: %w", err)
		}
		cmd.Printf("Deleted annotation %s\n", args[1])
		return nil
	})
}

func runAnnotationActivate(cmd *cobra.Command, args []string) error {
	return withChapter(cmd.Context(), args[0], false, func() error {
		tree, err := chapterService.Render()
		if err != nil {
			return err
		}
		switch action := services.ActivateAt(tree, activateOffset).(type) {
		case domain.OpenThread:
			cmd.Printf("open thread %s\n", action.AnnotationID)
		case domain.NavigateToEntity:
			cmd.Printf("navigate to %s/%s\n", action.EntityType, action.EntityID)
		default:
			cmd.Println("no action")
		}
		return nil
	})
}
