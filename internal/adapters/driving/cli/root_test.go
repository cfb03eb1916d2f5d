package cli

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/grimorium/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/grimorium/internal/core/domain"
	"github.com/custodia-labs/grimorium/internal/core/services"
)

const testContent = "The wolf howled near the wolf den."

// testServices holds the memory-backed services installed for one test.
type testServices struct {
	chapters *services.ChapterService
	entities *services.EntityService
	settings *services.SettingsService
	store    *memory.ChapterStore
}

// setupTestServices installs memory-backed services with chapter ch-1
// holding testContent and the entity character/fenrir.
func setupTestServices(t *testing.T) *testServices {
	t.Helper()

	directory := memory.NewEntityDirectory()
	require.NoError(t, directory.Register(context.Background(),
		domain.Entity{Type: "character", ID: "fenrir", Name: "Fenrir"}))

	store := memory.NewChapterStore()
	chapters := services.NewChapterService(store, directory)
	n := 0
	chapters.SetIDGenerator(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	})
	require.NoError(t, chapters.Import(context.Background(),
		&domain.Chapter{ID: "ch-1", Title: "The Den", Content: testContent}))

	ts := &testServices{
		chapters: chapters,
		entities: services.NewEntityService(directory),
		settings: services.NewSettingsService(memory.NewConfigStore()),
		store:    store,
	}

	oldChapters, oldEntities, oldSettings := chapterService, entityService, settingsService
	SetServices(ts.chapters, ts.entities, ts.settings)
	resetFlags()
	t.Cleanup(func() {
		chapterService, entityService, settingsService = oldChapters, oldEntities, oldSettings
		resetFlags()
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	return ts
}

// resetFlags restores flag variables that outlive a single Execute.
func resetFlags() {
	commentSelection.reset()
	linkSelection.reset()
	commentText = ""
	commentUnpin = false
	linkEntityType = ""
	linkEntityID = ""
	annotationListJSON = false
	activateOffset = 0
	chapterImportTitle = ""
	chapterImportID = ""
	chapterListJSON = false
	chapterReplaceFrom = 0
	chapterReplaceTo = 0
	chapterReplaceText = ""
	entityListType = ""
	findCaseSensitive = false
	findWholeWord = false
	renderFormat = "ansi"
	renderSelected = ""
	renderWidth = -1
	watchFile = ""
}

// execute runs the root command with args and returns everything it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer resetFlags()
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "grimorium", rootCmd.Use)
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	names := make([]string, 0, len(rootCmd.Commands()))
	for _, cmd := range rootCmd.Commands() {
		names = append(names, cmd.Name())
	}

	for _, want := range []string{
		"chapter", "comment", "link", "annotation", "entity",
		"render", "find", "settings", "watch", "tui", "mcp", "version",
	} {
		assert.Contains(t, names, want)
	}
}

func TestWithChapter_RequiresService(t *testing.T) {
	oldChapters := chapterService
	chapterService = nil
	defer func() { chapterService = oldChapters }()

	err := withChapter(context.Background(), "ch-1", false, func() error { return nil })

	assert.EqualError(t, err, "chapter service not configured")
}

func TestWithChapter_ClosesAfterError(t *testing.T) {
	ts := setupTestServices(t)

	err := withChapter(context.Background(), "ch-1", false, func() error {
		return domain.ErrInvalidInput
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = ts.chapters.Active()
	assert.ErrorIs(t, err, domain.ErrNoActiveChapter)
}

func TestWithChapter_UnknownChapter(t *testing.T) {
	setupTestServices(t)

	err := withChapter(context.Background(), "missing", false, func() error { return nil })

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRenderOptions_FollowSettings(t *testing.T) {
	ts := setupTestServices(t)
	require.NoError(t, ts.settings.Set("render.badge_style", "bracket"))
	require.NoError(t, ts.settings.Set("render.width", "0"))

	opts := renderOptions()

	assert.Equal(t, domain.BadgeStyleBracket, opts.BadgeStyle)
	assert.Equal(t, 0, opts.Width)
}

func TestRenderOptions_DefaultsWithoutSettings(t *testing.T) {
	oldSettings := settingsService
	settingsService = nil
	defer func() { settingsService = oldSettings }()

	opts := renderOptions()

	assert.Equal(t, domain.BadgeStyleSuperscript, opts.BadgeStyle)
	assert.Equal(t, domain.ColorAuto, colorMode())
}
