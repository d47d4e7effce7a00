package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/doclinks/internal/model"
	"github.com/nao1215/doclinks/internal/report"
)

// Validator checks a single link.
type Validator interface {
	Check(ctx context.Context, link string) model.Result
}

// LinkBatch validates the links of one document concurrently.
// There is no concurrency limit: a document with N links has N requests
// in flight.
type LinkBatch struct {
	validator Validator
	console   *report.Console
	summary   *model.Summary
	policy    model.StatusPolicy
	logger    *slog.Logger
}

// NewLinkBatch creates a LinkBatch. A nil summary is allowed.
func NewLinkBatch(v Validator, console *report.Console, summary *model.Summary, policy model.StatusPolicy, logger *slog.Logger) *LinkBatch {
	if logger == nil {
		logger = slog.Default()
	}
	return &LinkBatch{
		validator: v,
		console:   console,
		summary:   summary,
		policy:    policy,
		logger:    logger,
	}
}

// Run validates links found in source and blocks until all are done.
// Links whose request was interrupted by ctx are neither printed nor
// recorded in the summary. Dead links are printed as soon as their result
// arrives, so the order of dead-link lines follows completion, not
// position in the document.
// The returned results are in document order.
func (b *LinkBatch) Run(ctx context.Context, source string, links []string) []model.Result {
	results := make([]model.Result, len(links))

	var g errgroup.Group
	for i, link := range links {
		g.Go(func() error {
			r := b.validator.Check(ctx, link)
			r.Source = source
			results[i] = r

			// A request cut short by cancelling the run says nothing
			// about the link itself.
			if r.Err != nil && (ctx.Err() != nil || errors.Is(r.Err, context.Canceled)) {
				b.logger.Debug("link check interrupted", "url", link, "source", source)
				return nil
			}

			if b.summary != nil {
				b.summary.AddResult(r, b.policy)
			}
			if r.Dead(b.policy) {
				b.console.DeadLink(link)
				b.logger.Debug("dead link",
					"url", link,
					"source", source,
					"status", r.StatusCode,
					"reason", r.Reason(),
				)
			}
			return nil
		})
	}
	// Goroutines never return an error; Wait only joins them.
	_ = g.Wait() //nolint:errcheck

	return results
}
