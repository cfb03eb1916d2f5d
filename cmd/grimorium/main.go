// Package main is the grimorium entry point.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/custodia-labs/grimorium/internal/adapters/driven/config/file"
	"github.com/custodia-labs/grimorium/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/grimorium/internal/adapters/driving/cli"
	"github.com/custodia-labs/grimorium/internal/core/services"
	"github.com/custodia-labs/grimorium/internal/logger"
)

// version is set via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run())
}

// run wires the adapters and executes the command line. Deferred cleanup
// runs before main exits.
func run() int {
	if err := setup(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	defer teardown()

	// cobra has already printed the error
	if err := cli.Execute(); err != nil {
		return 1
	}
	return 0
}

var cleanups []func()

func teardown() {
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
}

func setup() error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("read settings: %w", err)
	}

	store, err := sqlite.NewStore(settings.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	cleanups = append(cleanups, func() {
		if err := store.Close(); err != nil {
			logger.Warn("closing storage: %v", err)
		}
	})

	chapterService := services.NewChapterService(store.ChapterStore(), store.EntityDirectory())
	if settings.Autosave.Enabled {
		autosaver := services.NewAutosaver(chapterService, settings.Autosave.Debounce)
		chapterService.SetAutosaver(autosaver)
		cleanups = append(cleanups, func() {
			if err := autosaver.Stop(context.Background()); err != nil {
				logger.Warn("final autosave failed: %v", err)
			}
		})
	}
	entityService := services.NewEntityService(store.EntityDirectory())

	cli.SetVersion(version)
	cli.SetServices(chapterService, entityService, settingsService)
	return nil
}
