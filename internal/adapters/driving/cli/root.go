// Package cli provides the grimorium command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/grimorium/internal/adapters/driving/render"
	"github.com/custodia-labs/grimorium/internal/core/domain"
	"github.com/custodia-labs/grimorium/internal/core/ports/driven"
	"github.com/custodia-labs/grimorium/internal/core/ports/driving"
	"github.com/custodia-labs/grimorium/internal/logger"
	"github.com/custodia-labs/grimorium/internal/normalisers"
)

// version is set at build time via SetVersion.
var version = "dev"

var (
	chapterService  driving.ChapterService
	entityService   driving.EntityService
	settingsService driving.SettingsService
)

// chapterNormaliser turns imported and watched files into chapter text.
var chapterNormaliser driven.NormaliserRegistry = normalisers.Default()

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "grimorium",
	Short: "Annotate manuscript chapters with comments and entity links",
	Long: `Grimorium keeps comment threads and world-building links anchored to the
exact characters of a chapter, even when the same words appear many times.

Import a chapter from a text file, anchor comments or entity links to a
range of it, and render the result for the terminal, a browser or a tool.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetVersion sets the version printed by the version command.
func SetVersion(v string) {
	version = v
}

// SetServices wires the services every command uses.
func SetServices(chapters driving.ChapterService, entities driving.EntityService, settings driving.SettingsService) {
	chapterService = chapters
	entityService = entities
	settingsService = settings
}

// SetNormaliser replaces the registry used to read chapter files.
// A nil registry imports files verbatim.
func SetNormaliser(registry driven.NormaliserRegistry) {
	chapterNormaliser = registry
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func requireChapterService() error {
	if chapterService == nil {
		return errors.New("chapter service not configured")
	}
	return nil
}

// withChapter opens chapterID, runs fn and closes the chapter again.
// When save is true the chapter is persisted after fn succeeds.
func withChapter(ctx context.Context, chapterID string, save bool, fn func() error) (err error) {
	if err := requireChapterService(); err != nil {
		return err
	}
	if err := chapterService.Open(ctx, chapterID); err != nil {
		return err
	}
	defer func() {
		if cerr := chapterService.Close(ctx); cerr != nil && err == nil {
			err = fmt.Errorf("close chapter: %w", cerr)
		}
	}()

	if err := fn(); err != nil {
		return err
	}
	if save {
		if err := chapterService.Save(ctx); err != nil {
			return err
		}
	}
	return nil
}

// renderOptions builds renderer options from the stored settings.
func renderOptions() render.Options {
	opts := render.DefaultOptions()
	if settingsService == nil {
		return opts
	}
	settings, err := settingsService.Get()
	if err != nil {
		logger.Warn("using default render settings: %v", err)
		return opts
	}
	opts.BadgeStyle = settings.Render.BadgeStyle
	opts.Width = settings.Render.Width
	return opts
}

// colorMode returns the configured colour mode.
func colorMode() domain.ColorMode {
	if settingsService == nil {
		return domain.ColorAuto
	}
	settings, err := settingsService.Get()
	if err != nil {
		return domain.ColorAuto
	}
	return settings.Render.Color
}
