package domain

// RawChapter is a chapter file as read from disk, before its markup is
// reduced to the plain text annotations are anchored to.
type RawChapter struct {
	// Path is the file the bytes came from. Used for the fallback title.
	Path string

	// MIMEType selects the normaliser, e.g. "text/markdown".
	MIMEType string

	// Content is the raw bytes.
	Content []byte
}
