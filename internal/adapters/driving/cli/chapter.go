package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/grimorium/internal/core/domain"
	"github.com/custodia-labs/grimorium/internal/core/ports/driven"
	"github.com/custodia-labs/grimorium/internal/normalisers/title"
)

var (
	chapterImportTitle string
	chapterImportID    string
	chapterListJSON    bool
	chapterReplaceText string
	chapterReplaceFrom int
	chapterReplaceTo   int
)

var chapterCmd = &cobra.Command{
	Use:   "chapter",
	Short: "Manage chapters",
	Long:  `Import, list, edit and remove chapters.`,
}

var chapterImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import a chapter from a file",
	Long: `Imports a file as a new chapter.

Plain text is imported as written. Markdown (.md), HTML (.html) and Word
(.docx) files are reduced to their text first. The title defaults to the
document's own title or heading, then to the file name.`,
	Args: cobra.ExactArgs(1),
	RunE: runChapterImport,
}

var chapterListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored chapters",
	RunE:  runChapterList,
}

var chapterShowCmd = &cobra.Command{
	Use:   "show [chapter-id]",
	Short: "Show a chapter's details and text",
	Args:  cobra.ExactArgs(1),
	RunE:  runChapterShow,
}

var chapterRemoveCmd = &cobra.Command{
	Use:   "remove [chapter-id]",
	Short: "Remove a chapter and its annotations",
	Args:  cobra.ExactArgs(1),
	RunE:  runChapterRemove,
}

var chapterReplaceCmd = &cobra.Command{
	Use:   "replace [chapter-id]",
	Short: "Replace a range of a chapter's text",
	Long: `Replaces the runes [--start, --end) with --text.

Annotations after the edit shift; annotations whose text is deleted
entirely are removed together with their threads.`,
	Args: cobra.ExactArgs(1),
	RunE: runChapterReplace,
}

var chapterSyncCmd = &cobra.Command{
	Use:   "sync [chapter-id] [file]",
	Short: "Replace a chapter's text with a file's contents",
	Long: `Replaces the whole chapter with the contents of a file.

Annotations are re-anchored through a diff of the old and new text, so
they follow their words when text elsewhere changes.`,
	Args: cobra.ExactArgs(2),
	RunE: runChapterSync,
}

func init() {
	chapterImportCmd.Flags().StringVarP(&chapterImportTitle, "title", "t", "", "chapter title")
	chapterImportCmd.Flags().StringVar(&chapterImportID, "id", "", "chapter ID (generated when empty)")
	chapterListCmd.Flags().BoolVar(&chapterListJSON, "json", false, "output chapters as JSON")
	chapterReplaceCmd.Flags().IntVar(&chapterReplaceFrom, "start", 0, "first rune offset to replace")
	chapterReplaceCmd.Flags().IntVar(&chapterReplaceTo, "end", 0, "rune offset one past the replaced text")
	chapterReplaceCmd.Flags().StringVar(&chapterReplaceText, "text", "", "replacement text")

	chapterCmd.AddCommand(chapterImportCmd)
	chapterCmd.AddCommand(chapterListCmd)
	chapterCmd.AddCommand(chapterShowCmd)
	chapterCmd.AddCommand(chapterRemoveCmd)
	chapterCmd.AddCommand(chapterReplaceCmd)
	chapterCmd.AddCommand(chapterSyncCmd)
	rootCmd.AddCommand(chapterCmd)
}

func runChapterImport(cmd *cobra.Command, args []string) error {
	if err := requireChapterService(); err != nil {
		return err
	}
	path := args[0]
	text, err := readChapterFile(cmd.Context(), path)
	if err != nil {
		return err
	}

	chapterTitle := chapterImportTitle
	if chapterTitle == "" {
		chapterTitle = text.Title
	}
	if chapterTitle == "" {
		chapterTitle = title.FromPath(path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	chapter := &domain.Chapter{
		ID:         chapterImportID,
		Title:      chapterTitle,
		Content:    text.Content,
		SourcePath: abs,
	}
	if err := chapterService.Import(cmd.Context(), chapter); err != nil {
		return fmt.Errorf("failed to import chapter: %w", err)
	}
	cmd.Printf("Imported chapter %q (%s)\n", chapter.Title, chapter.ID)
	return nil
}

func runChapterList(cmd *cobra.Command, _ []string) error {
	if err := requireChapterService(); err != nil {
		return err
	}
	chapters, err := chapterService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list chapters: %w", err)
	}

	if chapterListJSON {
		data, err := json.MarshalIndent(chapters, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal chapters: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(chapters) == 0 {
		cmd.Println("No chapters found.")
		return nil
	}
	cmd.Println("Chapters:")
	for i := range chapters {
		cmd.Printf("  %s  %s\n", chapters[i].ID, chapters[i].Title)
	}
	return nil
}

func runChapterShow(cmd *cobra.Command, args []string) error {
	return withChapter(cmd.Context(), args[0], false, func() error {
		chapter, err := chapterService.Active()
		if err != nil {
			return err
		}
		cmd.Printf("ID:          %s\n", chapter.ID)
		cmd.Printf("Title:       %s\n", chapter.Title)
		if chapter.SourcePath != "" {
			cmd.Printf("Source:      %s\n", chapter.SourcePath)
		}
		cmd.Printf("Length:      %d\n", chapterService.Length())
		cmd.Printf("Annotations: %d\n", len(chapterService.Annotations().List()))
		cmd.Printf("Updated:     %s\n", chapter.UpdatedAt.Format("2006-01-02 15:04"))
		cmd.Println()
		cmd.Println(chapter.Content)
		return nil
	})
}

func runChapterRemove(cmd *cobra.Command, args []string) error {
	if err := requireChapterService(); err != nil {
		return err
	}
	if err := chapterService.Remove(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to remove chapter: %w", err)
	}
	cmd.Printf("Removed chapter %s\n", args[0])
	return nil
}

func runChapterReplace(cmd *cobra.Command, args []string) error {
	return withChapter(cmd.Context(), args[0], true, func() error {
		result, err := chapterService.Replace(chapterReplaceFrom, chapterReplaceTo, chapterReplaceText)
		if err != nil {
			return fmt.Errorf("failed to replace text: %w", err)
		}
		printEditResult(cmd, result)
		return nil
	})
}

func runChapterSync(cmd *cobra.Command, args []string) error {
	text, err := readChapterFile(cmd.Context(), args[1])
	if err != nil {
		return err
	}
	return withChapter(cmd.Context(), args[0], true, func() error {
		result, err := chapterService.SetContent(text.Content)
		if err != nil {
			return fmt.Errorf("failed to update chapter: %w", err)
		}
		printEditResult(cmd, result)
		return nil
	})
}

func printEditResult(cmd *cobra.Command, result domain.EditResult) {
	cmd.Printf("Updated chapter: %d annotation(s) shifted, %d removed\n", len(result.Shifted), len(result.Removed))
	for i := range result.Removed {
		cmd.Printf("  removed %s %s %q\n", result.Removed[i].Kind, result.Removed[i].ID, result.Removed[i].Text)
	}
}

// readChapterFile reads path and reduces it to plain text.
// Without a normaliser the file is used verbatim.
func readChapterFile(ctx context.Context, path string) (*driven.NormaliseResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read chapter: %w", err)
	}
	if chapterNormaliser == nil {
		return &driven.NormaliseResult{Content: string(data)}, nil
	}
	text, err := chapterNormaliser.Normalise(ctx, &domain.RawChapter{Path: path, Content: data})
	if err != nil {
		return nil, fmt.Errorf("failed to read chapter: %w", err)
	}
	return text, nil
}
