package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/doclinks/internal/model"
)

// FileName is the SQLite file created inside the database directory.
const FileName = "doclinks.db"

// timeLayout is the fixed-width UTC layout used for stored timestamps, so
// that ordering by the text column is chronological.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// HistoryDB provides SQLite-based storage for recorded runs.
type HistoryDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the directory and database file if missing.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the options used when recording runs.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// ReadOnlyOptions returns options for reading existing history: the
// database must already exist.
func ReadOnlyOptions() Options {
	return Options{EnableWAL: true}
}

// Open opens or creates the history database inside dbDir.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	mode := "rw"
	if opts.CreateIfNotExists {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		mode = "rwc"
	} else if _, err := os.Stat(dbPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("no history database at %s (record a run with --record first)", dbPath)
		}
		return nil, fmt.Errorf("failed to check database path: %w", err)
	}

	dsn := dbPath + "?mode=" + mode + "&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite has a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	h := &HistoryDB{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := h.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return h, nil
}

// Close closes the database connection.
func (h *HistoryDB) Close() error {
	return h.db.Close()
}

// Path returns the database file path.
func (h *HistoryDB) Path() string {
	return h.dbPath
}

func (h *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		root TEXT NOT NULL,
		started_at TEXT NOT NULL,
		duration_ms INTEGER NOT NULL,
		policy TEXT NOT NULL,
		link_count INTEGER NOT NULL,
		skipped INTEGER NOT NULL DEFAULT 0,
		unreadable INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_runs_root ON runs(root);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	CREATE TABLE IF NOT EXISTS documents (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		path TEXT NOT NULL,
		format TEXT NOT NULL,
		digest TEXT,
		link_count INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_documents_run ON documents(run_id);

	CREATE TABLE IF NOT EXISTS dead_links (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		url TEXT NOT NULL,
		source TEXT NOT NULL,
		status_code INTEGER,
		reason TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_dead_links_run ON dead_links(run_id);
	`

	_, err := h.db.ExecContext(context.Background(), schema)
	return err
}

// SaveRun stores run with its documents and dead links in one transaction.
// An empty run.ID is replaced by a new random UUID.
func (h *HistoryDB) SaveRun(ctx context.Context, run *model.Run) (err error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
	INSERT INTO runs (id, root, started_at, duration_ms, policy, link_count, skipped, unreadable)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Root,
		run.StartedAt.UTC().Format(timeLayout),
		run.Duration.Milliseconds(),
		run.Policy.String(),
		run.LinkCount,
		run.Skipped,
		run.Unreadable,
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	for _, doc := range run.Documents {
		_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (run_id, path, format, digest, link_count)
		VALUES (?, ?, ?, ?, ?)
		`, run.ID, doc.Path, doc.Format.String(), doc.Digest, doc.LinkCount)
		if err != nil {
			return fmt.Errorf("failed to save document %s: %w", doc.Path, err)
		}
	}

	for _, d := range run.DeadLinks {
		_, err = tx.ExecContext(ctx, `
		INSERT INTO dead_links (run_id, url, source, status_code, reason)
		VALUES (?, ?, ?, ?, ?)
		`, run.ID, d.URL, d.Source, d.StatusCode, d.Reason)
		if err != nil {
			return fmt.Errorf("failed to save dead link %s: %w", d.URL, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// GetRun retrieves a run with its documents and dead links.
// id may be a unique prefix of the full run ID.
func (h *HistoryDB) GetRun(ctx context.Context, id string) (*model.Run, error) {
	if id == "" {
		return nil, ErrRunNotFound
	}

	rows, err := h.db.QueryContext(ctx, `
	SELECT id, root, started_at, duration_ms, policy, link_count, skipped, unreadable
	FROM runs
	WHERE id LIKE ? ESCAPE '\'
	LIMIT 2
	`, escapeLike(id)+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	runs, err := scanRuns(rows)
	if err != nil {
		return nil, err
	}

	switch len(runs) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	case 1:
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousRunID, id)
	}

	run := runs[0]
	if run.Documents, err = h.loadDocuments(ctx, run.ID); err != nil {
		return nil, err
	}
	if run.DeadLinks, err = h.loadDeadLinks(ctx, run.ID); err != nil {
		return nil, err
	}
	return run, nil
}

// ListRuns returns runs newest first, with their dead links but without
// documents. An empty root lists every root. A limit of zero or less means
// no limit.
func (h *HistoryDB) ListRuns(ctx context.Context, root string, limit int) ([]*model.Run, error) {
	query := `
	SELECT id, root, started_at, duration_ms, policy, link_count, skipped, unreadable
	FROM runs
	WHERE (? = '' OR root = ?)
	ORDER BY started_at DESC
	`
	args := []any{root, root}
	if limit > 0 {
		query += "LIMIT ?"
		args = append(args, limit)
	}

	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	runs, err := scanRuns(rows)
	if err != nil {
		return nil, err
	}

	for _, run := range runs {
		if run.DeadLinks, err = h.loadDeadLinks(ctx, run.ID); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

// LatestPair returns the two most recent runs over root, fully loaded,
// as (previous, current). An empty root means the root of the newest run.
func (h *HistoryDB) LatestPair(ctx context.Context, root string) (*model.Run, *model.Run, error) {
	if root == "" {
		latest, err := h.ListRuns(ctx, "", 1)
		if err != nil {
			return nil, nil, err
		}
		if len(latest) == 0 {
			return nil, nil, ErrRunNotFound
		}
		root = latest[0].Root
	}

	runs, err := h.ListRuns(ctx, root, 2)
	if err != nil {
		return nil, nil, err
	}
	if len(runs) < 2 {
		return nil, nil, fmt.Errorf("at least 2 recorded runs of %s are required for comparison (found %d)", root, len(runs))
	}

	current, err := h.GetRun(ctx, runs[0].ID)
	if err != nil {
		return nil, nil, err
	}
	previous, err := h.GetRun(ctx, runs[1].ID)
	if err != nil {
		return nil, nil, err
	}
	return previous, current, nil
}

// DeleteRunsBefore removes runs started before t and returns how many
// were removed. Documents and dead links go with them.
func (h *HistoryDB) DeleteRunsBefore(ctx context.Context, t time.Time) (int64, error) {
	res, err := h.db.ExecContext(ctx, `DELETE FROM runs WHERE started_at < ?`, t.UTC().Format(timeLayout))
	if err != nil {
		return 0, fmt.Errorf("failed to delete runs: %w", err)
	}
	return res.RowsAffected()
}

func scanRuns(rows *sql.Rows) ([]*model.Run, error) {
	defer rows.Close()

	var runs []*model.Run
	for rows.Next() {
		var (
			run        model.Run
			startedAt  string
			durationMS int64
			policy     string
		)
		if err := rows.Scan(&run.ID, &run.Root, &startedAt, &durationMS, &policy, &run.LinkCount, &run.Skipped, &run.Unreadable); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.StartedAt = parseTimestamp(startedAt)
		run.Duration = time.Duration(durationMS) * time.Millisecond
		run.Policy = model.ParseStatusPolicy(policy)
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}

func (h *HistoryDB) loadDocuments(ctx context.Context, runID string) ([]model.Document, error) {
	rows, err := h.db.QueryContext(ctx, `
	SELECT path, format, digest, link_count FROM documents
	WHERE run_id = ?
	ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load documents: %w", err)
	}
	defer rows.Close()

	var docs []model.Document
	for rows.Next() {
		var (
			doc    model.Document
			format string
			digest sql.NullString
		)
		if err := rows.Scan(&doc.Path, &format, &digest, &doc.LinkCount); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		doc.Format = model.ParseFormat(format)
		doc.Digest = digest.String
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (h *HistoryDB) loadDeadLinks(ctx context.Context, runID string) ([]model.DeadLink, error) {
	rows, err := h.db.QueryContext(ctx, `
	SELECT url, source, status_code, reason FROM dead_links
	WHERE run_id = ?
	ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load dead links: %w", err)
	}
	defer rows.Close()

	var dead []model.DeadLink
	for rows.Next() {
		var (
			d      model.DeadLink
			status sql.NullInt64
			reason sql.NullString
		)
		if err := rows.Scan(&d.URL, &d.Source, &status, &reason); err != nil {
			return nil, fmt.Errorf("failed to scan dead link: %w", err)
		}
		d.StatusCode = int(status.Int64)
		d.Reason = reason.String
		dead = append(dead, d)
	}
	return dead, rows.Err()
}

// escapeLike escapes LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// timestampFormats contains the timestamp formats that may be stored.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	timeLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// parseTimestamp parses s using the known formats and returns zero time
// if none matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
