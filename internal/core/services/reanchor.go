package services

import (
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Offset mapping rules shared by range edits and whole-content diffs:
// text inserted exactly at an annotation's start or end lands outside it,
// text inserted strictly inside grows it, and a replacement that rewrites
// the tail of an annotation from inside up to its end stays inside.

// replaceMapping maps offsets through content[start:end) being replaced by
// inserted runes.
func replaceMapping(start, end, inserted int) (mapStart, mapEnd func(int) int) {
	delta := inserted - (end - start)
	mapStart = func(p int) int {
		switch {
		case p < start:
			return p
		case p >= end:
			return p + delta
		default:
			return start
		}
	}
	mapEnd = func(p int) int {
		switch {
		case p <= start:
			return p
		case p >= end:
			return p + delta
		default:
			return start
		}
	}
	return mapStart, mapEnd
}

// diffMapping maps offsets from old to updated through a rune diff.
func diffMapping(old, updated []rune) (mapStart, mapEnd func(int) int) {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMainRunes(old, updated, false)

	mapStart = func(p int) int { return mapThroughDiff(diffs, p, true) }
	mapEnd = func(p int) int { return mapThroughDiff(diffs, p, false) }
	return mapStart, mapEnd
}

// mapThroughDiff translates old offset p. A start boundary moves past text
// inserted at p; an end boundary stays before it unless the insert replaces
// text deleted right up to p.
func mapThroughDiff(diffs []diffmatchpatch.Diff, p int, isStart bool) int {
	oldPos, newPos := 0, 0
	deletedTo := -1

	for _, d := range diffs {
		n := utf8.RuneCountInString(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			if p < oldPos+n {
				return newPos + (p - oldPos)
			}
			oldPos += n
			newPos += n
		case diffmatchpatch.DiffDelete:
			if p < oldPos+n {
				return newPos
			}
			oldPos += n
			deletedTo = oldPos
		case diffmatchpatch.DiffInsert:
			if p == oldPos && !isStart && deletedTo != p {
				return newPos
			}
			newPos += n
		}
	}
	return newPos + (p - oldPos)
}
