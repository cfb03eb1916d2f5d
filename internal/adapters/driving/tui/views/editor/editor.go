// Package editor provides the chapter view: annotated prose with a cursor,
// keyboard selection, and commands to comment, link and follow annotations.
package editor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/grimorium/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/grimorium/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/grimorium/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/grimorium/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/grimorium/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/grimorium/internal/core/domain"
	"github.com/custodia-labs/grimorium/internal/core/ports/driving"
	"github.com/custodia-labs/grimorium/internal/core/services"
)

// mode selects what the prompt is collecting.
type mode int

const (
	modeNormal mode = iota
	modeComment
	modeLink
	modeFind
)

// chrome is the number of rows taken by the title, prompt and status bar.
const chrome = 4

// errNoSelection is shown when a command needs a selection.
var errNoSelection = errors.New("select text first (v)")

// View is the chapter editor.
type View struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	chapters driving.ChapterService
	entities driving.EntityService

	title      string
	tree       domain.RenderTree
	content    []rune
	badgeStyle domain.BadgeStyle

	cursor int
	// mark is the selection anchor, or -1.
	mark int

	matches []domain.Range
	match   int

	mode   mode
	prompt *input.Prompt
	status *status.Bar

	scroll int
	width  int
	height int
	ready  bool
}

// NewView creates a new editor view.
func NewView(s *styles.Styles, chapters driving.ChapterService, entities driving.EntityService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	km := keymap.DefaultKeyMap()
	bar := status.NewBar(s, km)
	bar.SetHints(km.EditorHelp())

	return &View{
		styles:     s,
		keymap:     km,
		chapters:   chapters,
		entities:   entities,
		badgeStyle: domain.BadgeStyleSuperscript,
		mark:       -1,
		prompt:     input.NewPrompt(s),
		status:     bar,
		width:      80,
		height:     24,
	}
}

// Init initialises the editor view.
func (v *View) Init() tea.Cmd {
	return nil
}

// SetBadgeStyle sets how comment counts are drawn.
func (v *View) SetBadgeStyle(style domain.BadgeStyle) {
	if style.IsValid() {
		v.badgeStyle = style
	}
}

// Load resets the view for a freshly opened chapter.
func (v *View) Load(chapter domain.Chapter) {
	v.title = chapter.Title
	v.cursor = 0
	v.mark = -1
	v.scroll = 0
	v.matches = nil
	v.mode = modeNormal
	v.prompt.Blur()
	v.status.Clear()
	v.Refresh()
}

// Refresh recomposes the open chapter. The cursor is kept in range.
func (v *View) Refresh() {
	if v.chapters == nil {
		return
	}
	tree, err := v.chapters.Render()
	if err != nil {
		v.status.Error(err)
		return
	}
	v.tree = tree
	v.content = []rune(v.chapters.Content())
	if v.cursor > len(v.content) {
		v.cursor = len(v.content)
	}
	if v.mark > len(v.content) {
		v.mark = -1
	}
	v.syncStatus()
	if issues := v.chapters.Inconsistencies(); len(issues) > 0 {
		v.status.Error(fmt.Errorf("%d annotation(s) could not be placed: %s", len(issues), issues[0].Reason))
	}
}

// Update handles messages for the editor view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.ChapterSaved:
		if msg.Err != nil {
			v.status.Error(msg.Err)
		} else {
			v.status.Info("Saved")
		}
		return v, nil

	case messages.EntityResolved:
		if msg.Err != nil {
			v.status.Error(msg.Err)
			return v, nil
		}
		if msg.Entity == nil {
			return v, nil
		}
		v.status.Info(fmt.Sprintf("%s: %s (%s/%s)", msg.Entity.Type, msg.Entity.Name, msg.Entity.Type, msg.Entity.ID))
		return v, nil

	case tea.KeyMsg:
		if v.mode != modeNormal {
			return v.handlePromptKey(msg)
		}
		return v.handleKey(msg)
	}

	if v.mode != modeNormal {
		var cmd tea.Cmd
		v.prompt, cmd = v.prompt.Update(msg)
		return v, cmd
	}
	return v, nil
}

//nolint:gocyclo // flat key dispatch
func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	v.status.Clear()

	switch {
	case keymap.Matches(k, v.keymap.Quit):
		return v, tea.Quit
	case keymap.Matches(k, v.keymap.Back):
		if v.mark >= 0 {
			v.mark = -1
			v.syncStatus()
			return v, nil
		}
		return v, v.close()
	case keymap.Matches(k, v.keymap.Help):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewHelp} }
	case keymap.Matches(k, v.keymap.Left):
		v.moveTo(v.cursor - 1)
	case keymap.Matches(k, v.keymap.Right):
		v.moveTo(v.cursor + 1)
	case keymap.Matches(k, v.keymap.Up):
		v.moveLine(-1)
	case keymap.Matches(k, v.keymap.Down):
		v.moveLine(1)
	case keymap.Matches(k, v.keymap.WordLeft):
		v.moveTo(v.wordStart(v.cursor))
	case keymap.Matches(k, v.keymap.WordRight):
		v.moveTo(v.nextWord(v.cursor))
	case keymap.Matches(k, v.keymap.Top):
		v.moveTo(0)
	case keymap.Matches(k, v.keymap.Bottom):
		v.moveTo(len(v.content))
	case keymap.Matches(k, v.keymap.Mark):
		if v.mark >= 0 {
			v.mark = -1
		} else if v.cursor < len(v.content) {
			v.mark = v.cursor
		}
	case keymap.Matches(k, v.keymap.Comment):
		if _, ok := v.Selection(); !ok {
			v.status.Error(errNoSelection)
			return v, nil
		}
		return v, v.ask(modeComment, "Comment", "Write the first comment...")
	case keymap.Matches(k, v.keymap.Link):
		if _, ok := v.Selection(); !ok {
			v.status.Error(errNoSelection)
			return v, nil
		}
		return v, v.ask(modeLink, "Link", "type:id")
	case keymap.Matches(k, v.keymap.Find):
		return v, v.ask(modeFind, "Find", "")
	case keymap.Matches(k, v.keymap.Next):
		v.nextMatch()
	case keymap.Matches(k, v.keymap.Activate):
		return v, v.activate()
	case keymap.Matches(k, v.keymap.Save):
		return v, v.save()
	}

	v.syncStatus()
	return v, nil
}

func (v *View) handlePromptKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // only submit and cancel are intercepted
	switch msg.Type {
	case tea.KeyEsc:
		v.endPrompt()
		return v, nil
	case tea.KeyEnter:
		value := strings.TrimSpace(v.prompt.Value())
		m := v.mode
		v.endPrompt()
		return v, v.submit(m, value)
	}

	var cmd tea.Cmd
	v.prompt, cmd = v.prompt.Update(msg)
	return v, cmd
}

func (v *View) ask(m mode, label, placeholder string) tea.Cmd {
	v.mode = m
	v.status.SetState(status.StateInput)
	v.status.SetMessage("enter: confirm | esc: cancel")
	return v.prompt.Ask(label, placeholder, "")
}

func (v *View) endPrompt() {
	v.mode = modeNormal
	v.prompt.Blur()
	v.status.Clear()
	v.syncStatus()
}

func (v *View) submit(m mode, value string) tea.Cmd {
	if value == "" {
		return nil
	}
	switch m {
	case modeComment:
		v.commentSelection(value)
	case modeLink:
		return v.linkSelection(value)
	case modeFind:
		v.find(value)
	case modeNormal:
	}
	return nil
}

// Selection returns the selected logical range. The rune under the cursor
// is included, so a mark on the same rune selects one rune.
func (v *View) Selection() (domain.Range, bool) {
	if v.mark < 0 {
		return domain.Range{}, false
	}
	start, end := v.mark, v.cursor
	if start > end {
		start, end = end, start
	}
	end++
	if end > len(v.content) {
		end = len(v.content)
	}
	if end <= start {
		return domain.Range{}, false
	}
	return domain.Range{Start: start, End: end}, true
}

// resolveSelection maps the keyboard selection through the rendered tree.
func (v *View) resolveSelection() (domain.Range, error) {
	sel, ok := v.Selection()
	if !ok {
		return domain.Range{}, errNoSelection
	}
	return services.SelectOffsets(services.BuildView(v.tree), sel.Start, sel.End)
}

func (v *View) commentSelection(text string) {
	r, err := v.resolveSelection()
	if err == nil {
		_, err = v.chapters.CommentSelection(r, text)
	}
	if err != nil {
		v.status.Error(err)
		return
	}
	v.mark = -1
	v.Refresh()
	v.status.Info(fmt.Sprintf("Added comment on [%d, %d)", r.Start, r.End))
}

func (v *View) linkSelection(value string) tea.Cmd {
	entityType, entityID, ok := strings.Cut(value, ":")
	entityType, entityID = strings.TrimSpace(entityType), strings.TrimSpace(entityID)
	if !ok || entityType == "" || entityID == "" {
		v.status.Error(fmt.Errorf("expected type:id, got %q", value))
		return nil
	}
	r, err := v.resolveSelection()
	if err == nil {
		_, err = v.chapters.LinkSelection(context.Background(), r, entityType, entityID)
	}
	if err != nil {
		v.status.Error(err)
		return nil
	}
	v.mark = -1
	v.Refresh()
	v.status.Info(fmt.Sprintf("Linked [%d, %d) to %s/%s", r.Start, r.End, entityType, entityID))
	return nil
}

func (v *View) find(term string) {
	v.matches = services.Find(string(v.content), term, services.FindOptions{})
	v.match = -1
	if len(v.matches) == 0 {
		v.status.Error(fmt.Errorf("%q not found", term))
		return
	}
	// Start from the first match at or after the cursor, wrapping to the top
	for i, m := range v.matches {
		if m.Start >= v.cursor {
			v.match = i - 1
			break
		}
	}
	v.nextMatch()
}

func (v *View) nextMatch() {
	if len(v.matches) == 0 {
		return
	}
	v.match = (v.match + 1) % len(v.matches)
	m := v.matches[v.match]
	v.mark = m.Start
	v.moveTo(m.End - 1)
	v.status.Info(fmt.Sprintf("Match %d/%d", v.match+1, len(v.matches)))
}

func (v *View) activate() tea.Cmd {
	switch action := services.ActivateAt(v.tree, v.cursor).(type) {
	case domain.OpenThread:
		return func() tea.Msg { return messages.ThreadOpened{AnnotationID: action.AnnotationID} }
	case domain.NavigateToEntity:
		if v.entities == nil {
			v.status.Info(fmt.Sprintf("Entity %s/%s", action.EntityType, action.EntityID))
			return nil
		}
		entities := v.entities
		return func() tea.Msg {
			entity, err := entities.Get(context.Background(), action.EntityType, action.EntityID)
			return messages.EntityResolved{Entity: entity, Err: err}
		}
	}
	return nil
}

func (v *View) save() tea.Cmd {
	chapters := v.chapters
	return func() tea.Msg {
		return messages.ChapterSaved{Err: chapters.Save(context.Background())}
	}
}

func (v *View) close() tea.Cmd {
	chapters := v.chapters
	return func() tea.Msg {
		return messages.ChapterClosed{Err: chapters.Close(context.Background())}
	}
}

func (v *View) moveTo(offset int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(v.content) {
		offset = len(v.content)
	}
	v.cursor = offset
}

func (v *View) moveLine(delta int) {
	lines := v.lines()
	li, col := locate(lines, v.cursor)
	target := li + delta
	if target < 0 || target >= len(lines) {
		return
	}
	if offset, ok := offsetNear(lines[target], col); ok {
		v.cursor = offset
		return
	}
	if target == len(lines)-1 {
		v.cursor = len(v.content)
	}
}

// wordStart returns the start of the word before offset.
func (v *View) wordStart(offset int) int {
	i := offset - 1
	for i > 0 && unicode.IsSpace(v.content[i]) {
		i--
	}
	for i > 0 && !unicode.IsSpace(v.content[i-1]) {
		i--
	}
	if i < 0 {
		return 0
	}
	return i
}

// nextWord returns the start of the word after offset.
func (v *View) nextWord(offset int) int {
	i := offset
	for i < len(v.content) && !unicode.IsSpace(v.content[i]) {
		i++
	}
	for i < len(v.content) && unicode.IsSpace(v.content[i]) {
		i++
	}
	return i
}

func (v *View) textWidth() int {
	if v.width < 20 {
		return 20
	}
	return v.width
}

func (v *View) lines() [][]cell {
	return wrapCells(buildCells(v.tree, v.badgeStyle), v.textWidth())
}

func (v *View) syncStatus() {
	v.status.SetPosition(v.cursor, len(v.content))
	state := v.status.State()
	if state != status.StateReady && state != status.StateSelecting {
		return
	}
	if sel, ok := v.Selection(); ok {
		v.status.SetState(status.StateSelecting)
		v.status.SetSelection(sel.Start, sel.End)
	} else {
		v.status.SetState(status.StateReady)
	}
}

// View renders the editor.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	lines := v.lines()
	li, _ := locate(lines, v.cursor)
	visible := v.height - chrome
	if visible < 1 {
		visible = 1
	}
	if li < v.scroll {
		v.scroll = li
	}
	if li >= v.scroll+visible {
		v.scroll = li - visible + 1
	}

	sel, _ := v.Selection()
	var b strings.Builder
	b.WriteString(v.styles.Title.Render(v.title))
	b.WriteString("\n\n")

	end := v.scroll + visible
	if end > len(lines) {
		end = len(lines)
	}
	for i := v.scroll; i < end; i++ {
		atEnd := i == len(lines)-1 && v.cursor == len(v.content)
		b.WriteString(paint(v.styles, lines[i], v.cursor, sel, atEnd))
		b.WriteString("\n")
	}

	if v.mode != modeNormal {
		b.WriteString(v.prompt.View())
		b.WriteString("\n")
	}
	b.WriteString(v.status.View())
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.prompt.SetWidth(width)
	v.status.SetWidth(width)
}

// Cursor returns the cursor's logical offset.
func (v *View) Cursor() int {
	return v.cursor
}

// SetCursor moves the cursor, clamped to the content.
func (v *View) SetCursor(offset int) {
	v.moveTo(offset)
	v.syncStatus()
}

// Prompting returns whether the prompt is collecting input.
func (v *View) Prompting() bool {
	return v.mode != modeNormal
}

// Status returns the status bar.
func (v *View) Status() *status.Bar {
	return v.status
}
