package cli

import (
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/grimorium/internal/adapters/driving/watch"
	"github.com/custodia-labs/grimorium/internal/core/domain"
)

var watchFile string

var watchCmd = &cobra.Command{
	Use:   "watch [chapter-id]",
	Short: "Follow a chapter's source file",
	Long: `Watches the text file a chapter was imported from and applies every saved
change to the chapter. Annotations follow their text; annotations whose
text is deleted are removed. Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchFile, "file", "", "file to watch (defaults to the chapter's source)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return withChapter(ctx, args[0], false, func() error {
		chapter, err := chapterService.Active()
		if err != nil {
			return err
		}
		path := watchFile
		if path == "" {
			path = chapter.SourcePath
		}
		if path == "" {
			return errors.New("chapter has no source file; pass --file")
		}

		w := watch.New(chapterService, path)
		w.SetNormaliser(chapterNormaliser)
		w.OnSync(func(result domain.EditResult) {
			printEditResult(cmd, result)
		})

		if _, err := w.Sync(ctx); err != nil {
			return err
		}
		cmd.Printf("Watching %s (Ctrl+C to stop)\n", w.Path())
		return w.Run(ctx)
	})
}
