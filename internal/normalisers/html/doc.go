// Package html provides a Normaliser for HTML chapters. It strips tags,
// scripts and styles, decodes entities and keeps paragraph breaks.
package html
