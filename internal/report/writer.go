package report

import (
	"fmt"
	"io"

	"github.com/nao1215/doclinks/internal/model"
)

// Writer renders stored runs.
type Writer interface {
	// WriteRun outputs one run with its dead links.
	WriteRun(run *model.Run) (int, error)

	// WriteRuns outputs a list of runs, newest first, without dead links.
	WriteRuns(runs []*model.Run) (int, error)

	// WriteDiff outputs the comparison of two runs.
	WriteDiff(diff *model.RunDiff) (int, error)
}

// Format selects a Writer implementation.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// NewWriter returns the Writer for format.
func NewWriter(format Format, output io.Writer) (Writer, error) {
	switch format {
	case FormatText, "":
		return NewTextWriter(output), nil
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint()), nil
	case FormatMarkdown:
		return NewMarkdownWriter(output), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// timeLayout is used for run timestamps in text and Markdown output.
const timeLayout = "2006-01-02 15:04:05"

// statusOrReason describes why a link is dead in one short cell.
func statusOrReason(d model.DeadLink) string {
	if d.StatusCode != 0 {
		return fmt.Sprintf("%d %s", d.StatusCode, d.Reason)
	}
	if d.Reason == "" {
		return "unreachable"
	}
	return d.Reason
}
