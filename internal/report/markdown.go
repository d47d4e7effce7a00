package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/nao1215/doclinks/internal/model"
)

// MarkdownWriter outputs runs in Markdown format.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// WriteRun outputs one run with a dead link table.
func (w *MarkdownWriter) WriteRun(run *model.Run) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Dead link report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Item", "Value"},
		Rows: [][]string{
			{"Run", markdown.Code(run.ID)},
			{"Root", markdown.Code(run.Root)},
			{"Started", run.StartedAt.Local().Format(timeLayout)},
			{"Policy", run.Policy.String()},
			{"Documents", strconv.Itoa(len(run.Documents))},
			{"Links", strconv.Itoa(run.LinkCount)},
			{"Skipped", strconv.Itoa(run.Skipped)},
			{"Unreadable", strconv.Itoa(run.Unreadable)},
			{"Dead", strconv.Itoa(run.DeadCount())},
		},
	})
	md.PlainText("")

	md.H2("Dead links")
	md.PlainText("")
	if run.DeadCount() == 0 {
		md.Tip("No dead links found.")
	} else {
		md.Cautionf("%d dead link(s) found.", run.DeadCount())
		md.PlainText("")
		writeDeadTable(md, run.DeadLinks)
	}
	md.PlainText("")

	return len(md.String()), md.Build()
}

// WriteRuns outputs the runs as a table.
func (w *MarkdownWriter) WriteRuns(runs []*model.Run) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Recorded runs")
	md.PlainText("")
	if len(runs) == 0 {
		md.PlainText("No recorded runs found.")
		return len(md.String()), md.Build()
	}

	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			markdown.Code(r.ID),
			r.StartedAt.Local().Format(timeLayout),
			markdown.Code(r.Root),
			strconv.Itoa(r.LinkCount),
			strconv.Itoa(r.DeadCount()),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"ID", "Date", "Root", "Links", "Dead"},
		Rows:   rows,
	})
	md.PlainText("")

	return len(md.String()), md.Build()
}

// WriteDiff outputs the comparison of two runs.
func (w *MarkdownWriter) WriteDiff(diff *model.RunDiff) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Run comparison")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"", "Previous", "Current"},
		Rows: [][]string{
			{"Run", markdown.Code(diff.Previous.ID), markdown.Code(diff.Current.ID)},
			{"Started", diff.Previous.StartedAt.Local().Format(timeLayout), diff.Current.StartedAt.Local().Format(timeLayout)},
			{"Dead", strconv.Itoa(diff.Previous.DeadCount()), strconv.Itoa(diff.Current.DeadCount())},
		},
	})
	md.PlainText("")

	switch diff.Trend {
	case model.TrendWorsened:
		md.Warningf("%d new dead link(s) since the previous run.", len(diff.NewDead))
	case model.TrendImproved:
		md.Note(fmt.Sprintf("%d dead link(s) fixed since the previous run.", len(diff.Fixed)))
	default:
		md.Note("The number of dead links did not change.")
	}
	md.PlainText("")

	md.H2(fmt.Sprintf("New dead links (%d)", len(diff.NewDead)))
	md.PlainText("")
	if len(diff.NewDead) > 0 {
		writeDeadTable(md, diff.NewDead)
		md.PlainText("")
	}

	md.H2(fmt.Sprintf("Fixed (%d)", len(diff.Fixed)))
	md.PlainText("")
	if len(diff.Fixed) > 0 {
		writeDeadTable(md, diff.Fixed)
		md.PlainText("")
	}

	if len(diff.ChangedDocuments) > 0 {
		md.H2("Changed documents")
		md.PlainText("")
		md.BulletList(diff.ChangedDocuments...)
		md.PlainText("")
	}

	return len(md.String()), md.Build()
}

func writeDeadTable(md *markdown.Markdown, links []model.DeadLink) {
	rows := make([][]string, 0, len(links))
	for _, d := range links {
		rows = append(rows, []string{d.URL, markdown.Code(d.Source), statusOrReason(d)})
	}
	md.Table(markdown.TableSet{
		Header: []string{"URL", "Document", "Reason"},
		Rows:   rows,
	})
}
