package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/doclinks/internal/extract"
	"github.com/nao1215/doclinks/internal/model"
	"github.com/nao1215/doclinks/internal/report"
)

// Pipeline is the per-document handler of a check run.
type Pipeline struct {
	console *report.Console
	summary *model.Summary
	batch   *LinkBatch
	logger  *slog.Logger
	policy  model.StatusPolicy
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithStatusPolicy sets which results count as dead links.
// The default is model.StatusTransportOnly.
func WithStatusPolicy(policy model.StatusPolicy) Option {
	return func(p *Pipeline) {
		p.policy = policy
	}
}

// WithSummary records documents and results into s.
func WithSummary(s *model.Summary) Option {
	return func(p *Pipeline) {
		p.summary = s
	}
}

// New creates a Pipeline that validates links with v and prints to console.
func New(v Validator, console *report.Console, opts ...Option) *Pipeline {
	p := &Pipeline{
		console: console,
		policy:  model.StatusTransportOnly,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	p.batch = NewLinkBatch(v, console, p.summary, p.policy, p.logger)
	return p
}

// HandleDocument implements walker.Handler.
//
// The document is read before its checking line is printed, so a read
// failure line precedes it. An unreadable document is counted and then
// handled as one without links. The only error returned is the context
// error when the run was cancelled while the document's links were being
// checked.
func (p *Pipeline) HandleDocument(ctx context.Context, doc model.Document) error {
	doc, links, err := extract.FromFile(doc)
	if err != nil {
		p.console.Unreadable(doc.Path, err)
		p.logger.Debug("document unreadable", "path", doc.Path, "error", err)
		if p.summary != nil {
			p.summary.AddUnreadable()
		}
	} else {
		p.logger.Debug("document read",
			"path", doc.Path,
			"format", doc.Format,
			"links", len(links),
		)
		if p.summary != nil {
			p.summary.AddDocument(doc)
		}
	}

	p.console.Checking(doc.Path)
	p.batch.Run(ctx, doc.Path, links)

	return ctx.Err()
}
