// Package domain defines the core entities of the Grimorium annotation engine.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Chapter: The canonical plain-text content of the open chapter
//   - Annotation: A logical [start, end) range carrying a comment thread or an entity link
//   - Comment: One entry in an annotation's thread
//   - EntityLink: A cross-reference from an annotated run to a world-building entity
//   - Segment / RenderTree: The composed, decorated view of a chapter
//   - ViewNode / Selection: The backend-neutral rendered tree and a selection within it
//   - Action: The tagged result of activating a decorated segment
//   - RawChapter: A chapter file before its markup is reduced to plain text
//
// # Coordinates
//
// Every offset in this package is a code-point (rune) index into the
// chapter content, never a byte or UTF-16 index.
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
