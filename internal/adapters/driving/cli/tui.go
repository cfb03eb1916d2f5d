package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/grimorium/internal/adapters/driving/tui"
	"github.com/custodia-labs/grimorium/internal/logger"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive chapter editor",
	Long: `Launch the interactive terminal editor for Grimorium.

Pick a chapter, move the cursor through its text, select a range and
anchor a comment thread or an entity link to it.

Controls:
  ←/h, →/l, ↑/k, ↓/j - Move the cursor
  w, b               - Next / previous word
  v                  - Start or clear a selection
  c                  - Comment on the selection
  L                  - Link the selection to an entity (type:id)
  Enter              - Open the thread or entity under the cursor
  /, n               - Find text, next match
  ctrl+s             - Save
  Esc                - Back / Cancel
  ?                  - Help
  q                  - Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if err := requireChapterService(); err != nil {
		return err
	}

	app, err := tui.NewApp(tui.NewPorts(chapterService, entityService, settingsService))
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	// Flush whatever chapter is still open when the program exits
	defer func() {
		if _, aerr := chapterService.Active(); aerr != nil {
			return
		}
		if cerr := chapterService.Close(cmd.Context()); cerr != nil {
			logger.Warn("closing chapter: %v", cerr)
		}
	}()

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
