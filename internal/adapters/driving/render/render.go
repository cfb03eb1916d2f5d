package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/custodia-labs/grimorium/internal/core/domain"
)

// Format selects an output renderer.
type Format string

// Available formats.
const (
	FormatPlain Format = "plain"
	FormatANSI  Format = "ansi"
	FormatHTML  Format = "html"
	FormatJSON  Format = "json"
)

// Formats lists the supported formats in help order.
func Formats() []Format {
	return []Format{FormatPlain, FormatANSI, FormatHTML, FormatJSON}
}

// ParseFormat returns the format named s.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats() {
		if string(f) == strings.ToLower(s) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q: %w", s, domain.ErrInvalidInput)
}

// Options controls how segments are decorated.
type Options struct {
	// BadgeStyle selects how comment counts are drawn.
	BadgeStyle domain.BadgeStyle

	// Color enables ANSI styling. Only used by FormatANSI.
	Color bool

	// Width wraps ANSI and plain output. Zero disables wrapping.
	Width int

	// Selected highlights one annotation.
	Selected string
}

// DefaultOptions returns options derived from default settings.
func DefaultOptions() Options {
	defaults := domain.DefaultAppSettings()
	return Options{
		BadgeStyle: defaults.Render.BadgeStyle,
		Width:      defaults.Render.Width,
	}
}

// Write renders tree in the given format to w.
func Write(w io.Writer, format Format, tree domain.RenderTree, opts Options) error {
	var out string
	switch format {
	case FormatPlain:
		out = Plain(tree, opts)
	case FormatANSI:
		out = ANSI(tree, opts)
	case FormatHTML:
		out = HTML(tree, opts)
	case FormatJSON:
		data, err := JSON(tree)
		if err != nil {
			return err
		}
		out = string(data)
	default:
		return fmt.Errorf("unknown format %q: %w", format, domain.ErrInvalidInput)
	}
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	_, err := io.WriteString(w, out)
	return err
}

var superscripts = []rune("⁰¹²³⁴⁵⁶⁷⁸⁹")

// Badge formats a comment count in the given style.
func Badge(count int, style domain.BadgeStyle) string {
	switch style {
	case domain.BadgeStyleNone:
		return ""
	case domain.BadgeStyleBracket:
		return "[" + strconv.Itoa(count) + "]"
	default:
		digits := strconv.Itoa(count)
		var b strings.Builder
		for _, d := range digits {
			if d >= '0' && d <= '9' {
				b.WriteRune(superscripts[d-'0'])
			} else {
				b.WriteRune(d)
			}
		}
		return b.String()
	}
}
