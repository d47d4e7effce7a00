package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/nao1215/doclinks/internal/model"
)

// JSONWriter outputs runs in JSON format.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent       bool
	indentPrefix string
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteRun outputs one run as a JSON object.
func (w *JSONWriter) WriteRun(run *model.Run) (int, error) {
	return w.writeJSON(run)
}

// WriteRuns outputs the runs as a JSON array.
func (w *JSONWriter) WriteRuns(runs []*model.Run) (int, error) {
	if runs == nil {
		runs = []*model.Run{}
	}
	return w.writeJSON(runs)
}

// WriteDiff outputs the comparison as a JSON object.
func (w *JSONWriter) WriteDiff(diff *model.RunDiff) (int, error) {
	return w.writeJSON(diff)
}

func (w *JSONWriter) writeJSON(v any) (int, error) {
	var (
		data []byte
		err  error
	)
	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	data = append(data, '\n')
	return w.output.Write(data)
}
