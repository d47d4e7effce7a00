package model

import (
	"path/filepath"
	"time"
)

// Run is a finished check run as stored in the history database.
type Run struct {
	// ID is a random UUID assigned when the run is saved.
	ID string `json:"id"`

	// Root is the directory that was checked.
	Root string `json:"root"`

	// StartedAt is when the walk began.
	StartedAt time.Time `json:"started_at"`

	// Duration is the wall time of the whole run.
	Duration time.Duration `json:"duration"`

	// Policy is the status policy the run was checked with.
	Policy StatusPolicy `json:"policy"`

	Documents  []Document `json:"documents"`
	LinkCount  int        `json:"link_count"`
	Skipped    int        `json:"skipped"`
	Unreadable int        `json:"unreadable"`
	DeadLinks  []DeadLink `json:"dead_links"`
}

// NewRun builds a Run from a completed Summary.
// The root, document paths and dead link sources are stored as absolute
// paths so that runs over "docs" and "./docs/" pair up in history.
// The ID is left empty; the database assigns it on save.
func NewRun(root string, policy StatusPolicy, s *Summary) *Run {
	docs := s.Documents()
	for i := range docs {
		docs[i].Path = AbsPath(docs[i].Path)
	}
	dead := s.DeadLinks()
	for i := range dead {
		dead[i].Source = AbsPath(dead[i].Source)
	}

	return &Run{
		Root:       AbsPath(root),
		StartedAt:  s.StartedAt(),
		Duration:   time.Since(s.StartedAt()),
		Policy:     policy,
		Documents:  docs,
		LinkCount:  s.LinkCount(),
		Skipped:    s.SkippedCount(),
		Unreadable: s.UnreadableCount(),
		DeadLinks:  dead,
	}
}

// AbsPath returns the cleaned absolute form of path. If the working
// directory cannot be determined, the cleaned path is returned as is.
// An empty path stays empty.
func AbsPath(path string) string {
	if path == "" {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

// DeadCount returns the number of dead links in the run.
func (r *Run) DeadCount() int {
	return len(r.DeadLinks)
}
