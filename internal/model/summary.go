package model

import (
	"sync"
	"time"
)

// DeadLink records one dead link for history and exit-code decisions.
type DeadLink struct {
	URL        string `json:"url"`
	Source     string `json:"source"`
	StatusCode int    `json:"status_code,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// Summary accumulates counters for one run.
// All methods are safe for concurrent use because the links of one
// document are validated in parallel.
type Summary struct {
	mu sync.Mutex

	startedAt  time.Time
	documents  []Document
	links      int
	skipped    int
	unreadable int
	dead       []DeadLink
}

// NewSummary creates an empty Summary stamped with the current time.
func NewSummary() *Summary {
	return &Summary{startedAt: time.Now()}
}

// AddDocument records a document that was handed to the pipeline.
func (s *Summary) AddDocument(doc Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents = append(s.documents, doc)
	s.links += doc.LinkCount
}

// AddUnreadable records a document whose content could not be read.
func (s *Summary) AddUnreadable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unreadable++
}

// AddResult records a validation result under the given policy.
func (s *Summary) AddResult(r Result, policy StatusPolicy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.Skipped {
		s.skipped++
		return
	}
	if r.Dead(policy) {
		s.dead = append(s.dead, DeadLink{
			URL:        r.URL,
			Source:     r.Source,
			StatusCode: r.StatusCode,
			Reason:     r.Reason(),
		})
	}
}

// StartedAt returns the time the summary was created.
func (s *Summary) StartedAt() time.Time {
	return s.startedAt
}

// DocumentCount returns the number of documents processed.
func (s *Summary) DocumentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.documents)
}

// LinkCount returns the number of links extracted.
func (s *Summary) LinkCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.links
}

// SkippedCount returns the number of links matched by ignore patterns.
func (s *Summary) SkippedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.skipped
}

// UnreadableCount returns the number of documents that could not be read.
func (s *Summary) UnreadableCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unreadable
}

// DeadLinks returns a copy of the dead links recorded so far.
func (s *Summary) DeadLinks() []DeadLink {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]DeadLink, len(s.dead))
	copy(out, s.dead)
	return out
}

// Documents returns a copy of the processed documents.
func (s *Summary) Documents() []Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Document, len(s.documents))
	copy(out, s.documents)
	return out
}

// HasDeadLinks reports whether at least one dead link was recorded.
func (s *Summary) HasDeadLinks() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.dead) > 0
}
