package services

import (
	"fmt"
	"unicode"

	"github.com/custodia-labs/grimorium/internal/core/domain"
)

// FindOptions controls text search.
type FindOptions struct {
	CaseSensitive bool
	WholeWord     bool
}

// Find returns every non-overlapping occurrence of term in content as rune
// ranges, in document order. An empty term matches nothing.
func Find(content, term string, opts FindOptions) []domain.Range {
	hay := []rune(content)
	needle := []rune(term)
	if len(needle) == 0 || len(needle) > len(hay) {
		return nil
	}
	if !opts.CaseSensitive {
		hay = foldRunes(hay)
		needle = foldRunes(needle)
	}

	var out []domain.Range
	for i := 0; i+len(needle) <= len(hay); {
		if !matchAt(hay, needle, i) {
			i++
			continue
		}
		end := i + len(needle)
		if opts.WholeWord && !(isBoundary(hay, i-1) && isBoundary(hay, end)) {
			i++
			continue
		}
		out = append(out, domain.Range{Start: i, End: end})
		i = end
	}
	return out
}

// Occurrence returns the nth (1-based) occurrence of term in content.
// Returns domain.ErrNotFound when there are fewer than n matches.
func Occurrence(content, term string, n int, opts FindOptions) (domain.Range, error) {
	hits := Find(content, term, opts)
	if n < 1 || n > len(hits) {
		return domain.Range{}, fmt.Errorf("occurrence %d of %q (%d matches): %w", n, term, len(hits), domain.ErrNotFound)
	}
	return hits[n-1], nil
}

func matchAt(hay, needle []rune, at int) bool {
	for j, r := range needle {
		if hay[at+j] != r {
			return false
		}
	}
	return true
}

// isBoundary reports whether position i is outside a word.
func isBoundary(runes []rune, i int) bool {
	if i < 0 || i >= len(runes) {
		return true
	}
	r := runes[i]
	return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
}

func foldRunes(in []rune) []rune {
	out := make([]rune, len(in))
	for i, r := range in {
		out[i] = unicode.ToLower(r)
	}
	return out
}
