// Package services implements the driving port interfaces.
// Services contain the core business logic of the annotation engine and
// orchestrate calls to driven ports (adapters).
//
// The engine's pure functions live here too: Compose (the span compositor),
// ResolveSelection and BuildView (the two directions of the offset mapping),
// OnActivate (the interaction router) and Find.
//
// Services are pure Go; the only third-party imports are uuid for
// identifiers and go-diff for re-anchoring offsets after edits.
package services
