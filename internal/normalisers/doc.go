// Package normalisers reduces chapter files to the plain text annotations
// are anchored to. Each subpackage handles one format; Registry picks the
// highest-priority normaliser for a file's MIME type.
package normalisers
