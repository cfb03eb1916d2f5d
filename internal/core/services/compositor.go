package services

import (
	"fmt"
	"sort"

	"github.com/custodia-labs/grimorium/internal/core/domain"
	"github.com/custodia-labs/grimorium/internal/logger"
)

// ThreadLookup supplies the decoration data the compositor needs for each
// annotation. AnnotationStore implements it.
type ThreadLookup interface {
	// CommentCount returns the thread length of an annotation.
	CommentCount(annotationID string) int

	// LinkFor returns the entity link of a link annotation.
	LinkFor(annotationID string) (domain.EntityLink, bool)
}

// Inconsistency reasons reported by Compose.
const (
	ReasonClamped     = "end clamped to content length"
	ReasonEmpty       = "empty range after clamping"
	ReasonOverlap     = "overlaps another annotation"
	ReasonUnknownKind = "unknown annotation kind"
)

// Compose splices annotations into content and returns the render tree.
//
// Annotations are applied highest start first, so splitting a plain segment
// never disturbs segments produced for later offsets. The result does not
// depend on the order of the annotations slice.
//
// Annotations that cannot be placed are dropped and reported; the tree
// always covers the full content. A negative start or a start past the end
// is a programming error and panics.
func Compose(content string, annotations []domain.Annotation, threads ThreadLookup) (domain.RenderTree, []domain.Inconsistency) {
	runes := []rune(content)
	total := len(runes)

	work := domain.RenderTree{{Text: content, Start: 0, End: total}}
	if len(annotations) == 0 {
		return work, nil
	}

	for _, a := range annotations {
		if a.Start < 0 || a.Start > a.End {
			panic(fmt.Sprintf("compose: annotation %s has invalid range [%d, %d)", a.ID, a.Start, a.End))
		}
	}

	sorted := append([]domain.Annotation(nil), annotations...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start > sorted[j].Start
		}
		if sorted[i].End != sorted[j].End {
			return sorted[i].End > sorted[j].End
		}
		return sorted[i].ID < sorted[j].ID
	})

	var issues []domain.Inconsistency
	report := func(a domain.Annotation, reason string) {
		logger.Warn("annotation %s [%d, %d): %s", a.ID, a.Start, a.End, reason)
		issues = append(issues, domain.Inconsistency{
			AnnotationID: a.ID,
			Start:        a.Start,
			End:          a.End,
			Reason:       reason,
		})
	}

	for _, a := range sorted {
		if !a.Kind.IsValid() {
			report(a, ReasonUnknownKind)
			continue
		}

		end := a.End
		if end > total {
			end = total
			if a.Start < end {
				report(a, ReasonClamped)
			}
		}
		if a.Start >= end {
			report(a, ReasonEmpty)
			continue
		}

		idx := containingPlain(work, a.Start, end)
		if idx < 0 {
			report(a, ReasonOverlap)
			continue
		}

		work = splice(work, idx, decorate(runes, a, end, threads), runes)
	}

	logger.Debug("composed %d segments from %d annotations", len(work), len(annotations))
	return work, issues
}

// containingPlain returns the index of the plain segment that fully
// contains [start, end), or -1.
func containingPlain(work domain.RenderTree, start, end int) int {
	for i := range work {
		seg := work[i]
		if seg.IsDecorated() {
			continue
		}
		if seg.Start <= start && end <= seg.End {
			return i
		}
	}
	return -1
}

// decorate builds the decorated segment for a over runes[a.Start:end).
func decorate(runes []rune, a domain.Annotation, end int, threads ThreadLookup) domain.Segment {
	seg := domain.Segment{
		Text:         string(runes[a.Start:end]),
		Start:        a.Start,
		End:          end,
		AnnotationID: a.ID,
		Kind:         a.Kind,
	}
	if threads == nil {
		return seg
	}

	switch a.Kind {
	case domain.KindComment:
		seg.CommentCount = threads.CommentCount(a.ID)
	case domain.KindLink:
		if link, ok := threads.LinkFor(a.ID); ok {
			seg.EntityType = link.EntityType
			seg.EntityID = link.EntityID
		} else {
			logger.Warn("link annotation %s has no entity link", a.ID)
		}
	}
	return seg
}

// splice replaces work[idx] with before, decorated and after parts.
func splice(work domain.RenderTree, idx int, decorated domain.Segment, runes []rune) domain.RenderTree {
	plain := work[idx]

	parts := make(domain.RenderTree, 0, 3)
	if decorated.Start > plain.Start {
		parts = append(parts, domain.Segment{
			Text:  string(runes[plain.Start:decorated.Start]),
			Start: plain.Start,
			End:   decorated.Start,
		})
	}
	parts = append(parts, decorated)
	if decorated.End < plain.End {
		parts = append(parts, domain.Segment{
			Text:  string(runes[decorated.End:plain.End]),
			Start: decorated.End,
			End:   plain.End,
		})
	}

	out := make(domain.RenderTree, 0, len(work)+len(parts)-1)
	out = append(out, work[:idx]...)
	out = append(out, parts...)
	out = append(out, work[idx+1:]...)
	return out
}
