package model

// Trend describes how the number of dead links moved between two runs.
type Trend string

const (
	TrendWorsened  Trend = "worsened"
	TrendImproved  Trend = "improved"
	TrendUnchanged Trend = "unchanged"
)

// RunDiff is the difference between two runs over the same tree.
type RunDiff struct {
	Previous *Run `json:"previous"`
	Current  *Run `json:"current"`

	// NewDead are dead links present in Current only.
	NewDead []DeadLink `json:"new_dead,omitempty"`

	// Fixed are dead links present in Previous only.
	Fixed []DeadLink `json:"fixed,omitempty"`

	// StillDead counts dead links present in both runs.
	StillDead int `json:"still_dead"`

	// ChangedDocuments are paths whose content digest differs, or that
	// exist in only one of the runs.
	ChangedDocuments []string `json:"changed_documents,omitempty"`

	Trend Trend `json:"trend"`
}

// deadKey identifies a dead link occurrence across runs.
type deadKey struct {
	url    string
	source string
}

// CompareRuns computes what changed from previous to current.
// Dead links are matched by URL and source document; a URL that is dead in
// two documents counts twice.
func CompareRuns(previous, current *Run) *RunDiff {
	diff := &RunDiff{
		Previous: previous,
		Current:  current,
	}

	prevDead := make(map[deadKey]int, len(previous.DeadLinks))
	for _, d := range previous.DeadLinks {
		prevDead[deadKey{d.URL, d.Source}]++
	}
	for _, d := range current.DeadLinks {
		k := deadKey{d.URL, d.Source}
		if prevDead[k] > 0 {
			prevDead[k]--
			diff.StillDead++
			continue
		}
		diff.NewDead = append(diff.NewDead, d)
	}
	for _, d := range previous.DeadLinks {
		k := deadKey{d.URL, d.Source}
		if prevDead[k] > 0 {
			prevDead[k]--
			diff.Fixed = append(diff.Fixed, d)
		}
	}

	prevDigest := make(map[string]string, len(previous.Documents))
	for _, doc := range previous.Documents {
		prevDigest[doc.Path] = doc.Digest
	}
	seen := make(map[string]bool, len(current.Documents))
	for _, doc := range current.Documents {
		seen[doc.Path] = true
		if digest, ok := prevDigest[doc.Path]; !ok || digest != doc.Digest {
			diff.ChangedDocuments = append(diff.ChangedDocuments, doc.Path)
		}
	}
	for _, doc := range previous.Documents {
		if !seen[doc.Path] {
			diff.ChangedDocuments = append(diff.ChangedDocuments, doc.Path)
		}
	}

	switch {
	case current.DeadCount() > previous.DeadCount():
		diff.Trend = TrendWorsened
	case current.DeadCount() < previous.DeadCount():
		diff.Trend = TrendImproved
	default:
		diff.Trend = TrendUnchanged
	}
	return diff
}
