// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - ChapterStore: The persistence collaborator. Supplies the initial
//     snapshot when a chapter is opened and receives snapshots to persist.
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - EntityDirectory: Resolves entity references for link annotations.
//     Without it, links are created without checking the target exists.
//   - NormaliserRegistry: Reduces markdown, HTML and DOCX chapter files to
//     plain text on import. Without it, files are imported verbatim.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
