package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/doclinks/internal/model"
)

// ruleWidth is the width of section separators.
const ruleWidth = 70

// TextWriter outputs human-readable text for the terminal.
type TextWriter struct {
	baseWriter
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer) *TextWriter {
	return &TextWriter{baseWriter: newBaseWriter(output)}
}

// WriteRun outputs one run.
func (w *TextWriter) WriteRun(run *model.Run) (int, error) {
	var sb strings.Builder

	writeSection(&sb, "RUN "+run.ID)
	writeRunHeader(&sb, run)

	writeSection(&sb, fmt.Sprintf("DEAD LINKS (%d)", run.DeadCount()))
	if run.DeadCount() == 0 {
		sb.WriteString("  No dead links\n")
	}
	for _, d := range run.DeadLinks {
		fmt.Fprintf(&sb, "  [-] %s\n", d.URL)
		fmt.Fprintf(&sb, "      in %s: %s\n", d.Source, statusOrReason(d))
	}
	sb.WriteString("\n")

	return io.WriteString(w.output, sb.String())
}

// WriteRuns outputs one line per run.
func (w *TextWriter) WriteRuns(runs []*model.Run) (int, error) {
	var sb strings.Builder

	if len(runs) == 0 {
		sb.WriteString("No recorded runs found.\n")
		sb.WriteString("\nUse 'doclinks --record <dir>' to record a run.\n")
		return io.WriteString(w.output, sb.String())
	}

	fmt.Fprintf(&sb, "Recorded runs (%d):\n\n", len(runs))
	fmt.Fprintf(&sb, "  %-36s  %-19s  %5s  %5s  %s\n", "ID", "Date", "Links", "Dead", "Root")
	sb.WriteString("  " + strings.Repeat("-", ruleWidth+20) + "\n")
	for _, r := range runs {
		fmt.Fprintf(&sb, "  %-36s  %-19s  %5d  %5d  %s\n",
			r.ID,
			r.StartedAt.Local().Format(timeLayout),
			r.LinkCount,
			r.DeadCount(),
			r.Root,
		)
	}
	sb.WriteString("\nUse 'doclinks history <id>' to see the dead links of a run.\n")

	return io.WriteString(w.output, sb.String())
}

// WriteDiff outputs what changed between two runs.
func (w *TextWriter) WriteDiff(diff *model.RunDiff) (int, error) {
	var sb strings.Builder

	writeSection(&sb, "RUN COMPARISON")
	fmt.Fprintf(&sb, "Root:      %s\n", diff.Current.Root)
	fmt.Fprintf(&sb, "Previous:  %s (%s, %d dead)\n", diff.Previous.ID, diff.Previous.StartedAt.Local().Format(timeLayout), diff.Previous.DeadCount())
	fmt.Fprintf(&sb, "Current:   %s (%s, %d dead)\n", diff.Current.ID, diff.Current.StartedAt.Local().Format(timeLayout), diff.Current.DeadCount())
	fmt.Fprintf(&sb, "Trend:     %s\n\n", strings.ToUpper(string(diff.Trend)))

	writeDeadList(&sb, "NEW DEAD LINKS", "[-]", diff.NewDead)
	writeDeadList(&sb, "FIXED", "[+]", diff.Fixed)

	fmt.Fprintf(&sb, "Still dead:        %d\n", diff.StillDead)
	fmt.Fprintf(&sb, "Changed documents: %d\n", len(diff.ChangedDocuments))
	for _, p := range diff.ChangedDocuments {
		fmt.Fprintf(&sb, "  * %s\n", p)
	}
	sb.WriteString("\n")

	return io.WriteString(w.output, sb.String())
}

func writeSection(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n\n")
}

func writeRunHeader(sb *strings.Builder, run *model.Run) {
	fmt.Fprintf(sb, "Root:        %s\n", run.Root)
	fmt.Fprintf(sb, "Started:     %s\n", run.StartedAt.Local().Format(timeLayout+" MST"))
	fmt.Fprintf(sb, "Duration:    %s\n", run.Duration.Round(time.Millisecond))
	fmt.Fprintf(sb, "Policy:      %s\n", run.Policy)
	fmt.Fprintf(sb, "Documents:   %d\n", len(run.Documents))
	fmt.Fprintf(sb, "Links:       %d\n", run.LinkCount)
	fmt.Fprintf(sb, "Skipped:     %d\n", run.Skipped)
	fmt.Fprintf(sb, "Unreadable:  %d\n\n", run.Unreadable)
}

func writeDeadList(sb *strings.Builder, title, marker string, links []model.DeadLink) {
	fmt.Fprintf(sb, "%s (%d)\n", title, len(links))
	for _, d := range links {
		fmt.Fprintf(sb, "  %s %s (%s)\n", marker, d.URL, d.Source)
	}
	sb.WriteString("\n")
}
