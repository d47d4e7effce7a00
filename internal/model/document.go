package model

import "path/filepath"

// Document is a documentation file produced by directory enumeration.
// The walker only emits regular, non-symlink files, so the entry type is
// not repeated here. A Document is consumed immediately by the pipeline.
type Document struct {
	// Path is the file path as built by the walker (root joined with
	// the relative entry names).
	Path string `json:"path"`

	// Format is the markup format derived from the file name.
	Format Format `json:"format"`

	// Digest is the hex SHA3-256 of the decoded content.
	// Empty until the document has been read successfully.
	Digest string `json:"digest,omitempty"`

	// LinkCount is the number of links extracted from the document.
	LinkCount int `json:"link_count"`
}

// Name returns the base name of the document.
func (d Document) Name() string {
	return filepath.Base(d.Path)
}
