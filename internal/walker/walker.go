package walker

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/nao1215/doclinks/internal/model"
)

// Handler processes one documentation file found by Walk.
// A returned error aborts the walk.
type Handler interface {
	HandleDocument(ctx context.Context, doc model.Document) error
}

// HandlerFunc adapts an ordinary function to the Handler interface.
type HandlerFunc func(ctx context.Context, doc model.Document) error

// HandleDocument calls f(ctx, doc).
func (f HandlerFunc) HandleDocument(ctx context.Context, doc model.Document) error {
	return f(ctx, doc)
}

// Classifier maps a file name to its markup format.
type Classifier func(name string) model.Format

// Option configures Walk.
type Option func(*walkOptions)

type walkOptions struct {
	excludeDirs []string
	classify    Classifier
	logger      *slog.Logger
}

// WithExcludeDirs skips directories whose base name is in names.
func WithExcludeDirs(names ...string) Option {
	return func(o *walkOptions) {
		o.excludeDirs = append(o.excludeDirs, names...)
	}
}

// WithClassifier sets the function that fills Document.Format.
// Without it every document is FormatPlainTextFallback.
func WithClassifier(c Classifier) Option {
	return func(o *walkOptions) {
		o.classify = c
	}
}

// WithLogger sets the logger used for skipped entries.
func WithLogger(logger *slog.Logger) Option {
	return func(o *walkOptions) {
		o.logger = logger
	}
}

// frame is one directory on the walk stack.
type frame struct {
	dir     string
	entries []os.DirEntry
	next    int
}

// Walk visits every documentation file under root and calls h for each.
//
// If root is not a directory, Walk returns nil without doing anything.
// A directory that cannot be read aborts the walk with an error naming it;
// nothing after it is visited. Entry order within a directory is the order
// returned by os.ReadDir.
func Walk(ctx context.Context, root string, h Handler, opts ...Option) error {
	o := &walkOptions{
		classify: func(string) model.Format { return model.FormatPlainTextFallback },
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", root, err)
	}
	stack := []*frame{{dir: root, entries: entries}}

	for len(stack) > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		top := stack[len(stack)-1]
		if top.next >= len(top.entries) {
			stack = stack[:len(stack)-1]
			continue
		}
		entry := top.entries[top.next]
		top.next++

		if entry.Type()&fs.ModeSymlink != 0 {
			continue
		}
		path := filepath.Join(top.dir, entry.Name())

		if entry.IsDir() {
			if slices.Contains(o.excludeDirs, entry.Name()) {
				o.logger.Debug("skipping excluded directory", "path", path)
				continue
			}
		} else if !IsDocFile(entry.Name()) {
			continue
		}

		// The entry may have been swapped for a symlink since its
		// directory was read.
		if fi, err := os.Lstat(path); err == nil && fi.Mode()&fs.ModeSymlink != 0 {
			o.logger.Warn("skipping entry that became a symlink", "path", path)
			continue
		}

		if entry.IsDir() {
			children, err := os.ReadDir(path)
			if err != nil {
				return fmt.Errorf("failed to read directory %s: %w", path, err)
			}
			stack = append(stack, &frame{dir: path, entries: children})
			continue
		}

		doc := model.Document{
			Path:   path,
			Format: o.classify(entry.Name()),
		}
		if err := h.HandleDocument(ctx, doc); err != nil {
			return err
		}
	}

	return nil
}
