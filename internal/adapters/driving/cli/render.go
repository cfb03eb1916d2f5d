package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/grimorium/internal/adapters/driving/render"
	"github.com/custodia-labs/grimorium/internal/logger"
)

var (
	renderFormat   string
	renderSelected string
	renderWidth    int
)

var renderCmd = &cobra.Command{
	Use:   "render [chapter-id]",
	Short: "Render a chapter with its annotations",
	Long: `Renders a chapter with comment badges and entity links.

Formats:
  ansi   - styled terminal output (colour follows render.color)
  plain  - text with comment badges
  html   - HTML fragment with data-annotation-id attributes
  json   - segment list for tools`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	names := make([]string, 0, len(render.Formats()))
	for _, f := range render.Formats() {
		names = append(names, string(f))
	}
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", string(render.FormatANSI),
		"output format ("+strings.Join(names, ", ")+")")
	renderCmd.Flags().StringVar(&renderSelected, "selected", "", "annotation ID to highlight")
	renderCmd.Flags().IntVarP(&renderWidth, "width", "w", -1, "wrap width (0 disables, default from settings)")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	format, err := render.ParseFormat(renderFormat)
	if err != nil {
		return err
	}

	opts := renderOptions()
	opts.Selected = renderSelected
	if renderWidth >= 0 {
		opts.Width = renderWidth
	}
	if f, ok := cmd.OutOrStdout().(*os.File); ok {
		opts.Color = render.ColorEnabled(colorMode(), f)
	} else {
		opts.Color = render.ColorEnabled(colorMode(), nil)
	}

	return withChapter(cmd.Context(), args[0], false, func() error {
		tree, err := chapterService.Render()
		if err != nil {
			return err
		}
		logger.Debug("rendering %d segments as %s", len(tree), format)
		if err := render.Write(cmd.OutOrStdout(), format, tree, opts); err != nil {
			return err
		}
		for _, issue := range chapterService.Inconsistencies() {
			cmd.PrintErrf("warning: annotation %s [%d, %d): %s\n", issue.AnnotationID, issue.Start, issue.End, issue.Reason)
		}
		return nil
	})
}
