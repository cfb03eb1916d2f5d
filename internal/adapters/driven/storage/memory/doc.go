// Package memory provides in-memory implementations of the driven ports.
// They back tests and the --memory mode of the CLI; nothing is persisted.
package memory
