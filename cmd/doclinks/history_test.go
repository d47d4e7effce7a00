package main

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/doclinks/internal/database"
	"github.com/nao1215/doclinks/internal/model"
)

// seedHistory records runs over root into a fresh database directory.
func seedHistory(t *testing.T, runs ...*model.Run) string {
	t.Helper()

	dbDir := t.TempDir()
	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	for _, r := range runs {
		if err := db.SaveRun(context.Background(), r); err != nil {
			t.Fatalf("failed to save run: %v", err)
		}
	}
	return dbDir
}

func historyRun(root string, startedAt time.Time, dead ...model.DeadLink) *model.Run {
	return &model.Run{
		Root:      root,
		StartedAt: startedAt,
		Duration:  time.Second,
		LinkCount: 10,
		DeadLinks: dead,
	}
}

// TestNewHistoryCmd tests the history command creation.
func TestNewHistoryCmd(t *testing.T) {
	t.Parallel()

	cmd := NewHistoryCmd()

	if cmd.Use != "history [run-id]" {
		t.Errorf("expected use 'history [run-id]', got %q", cmd.Use)
	}
	for _, name := range []string{"list", "compare", "root", "limit", "prune", "json", "markdown"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("expected %s flag", name)
		}
	}
}

func TestRunHistoryCmd(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	broken := model.DeadLink{URL: "https://broken.example", Source: "docs/a.md", Reason: "connection refused"}
	fixed := model.DeadLink{URL: "https://fixed.example", Source: "docs/b.md", StatusCode: 404, Reason: "Not Found"}

	t.Run("missing database is an error", func(t *testing.T) {
		t.Parallel()

		_, _, err := executeRoot(t, "history", "--db-dir", t.TempDir())
		if err == nil || !strings.Contains(err.Error(), "--record") {
			t.Errorf("expected hint to record a run, got %v", err)
		}
	})

	t.Run("lists runs as text", func(t *testing.T) {
		t.Parallel()

		dbDir := seedHistory(t,
			historyRun("docs", now.Add(-time.Hour), broken),
			historyRun("other", now),
		)

		stdout, _, err := executeRoot(t, "history", "--db-dir", dbDir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "Recorded runs (2)") {
			t.Errorf("unexpected output %q", stdout)
		}
	})

	t.Run("root and limit filter the list", func(t *testing.T) {
		t.Parallel()

		docsRoot := model.AbsPath("docs")
		dbDir := seedHistory(t,
			historyRun(docsRoot, now.Add(-2*time.Hour)),
			historyRun(docsRoot, now.Add(-time.Hour)),
			historyRun(model.AbsPath("other"), now),
		)

		for _, arg := range []string{"docs", "./docs/", docsRoot} {
			stdout, _, err := executeRoot(t, "history", "--db-dir", dbDir, "-R", arg, "-n", "1", "-j")
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", arg, err)
			}
			var runs []model.Run
			if err := json.Unmarshal([]byte(stdout), &runs); err != nil {
				t.Fatalf("%s: invalid JSON: %v", arg, err)
			}
			if len(runs) != 1 || runs[0].Root != docsRoot {
				t.Errorf("%s: unexpected runs %+v", arg, runs)
			}
		}
	})

	t.Run("compare shows new and fixed dead links", func(t *testing.T) {
		t.Parallel()

		dbDir := seedHistory(t,
			historyRun("docs", now.Add(-time.Hour), fixed),
			historyRun("docs", now, broken),
		)

		stdout, _, err := executeRoot(t, "history", "--db-dir", dbDir, "--compare", "--json")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var diff model.RunDiff
		if err := json.Unmarshal([]byte(stdout), &diff); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(diff.NewDead) != 1 || diff.NewDead[0].URL != broken.URL {
			t.Errorf("unexpected new dead links %+v", diff.NewDead)
		}
		if len(diff.Fixed) != 1 || diff.Fixed[0].URL != fixed.URL {
			t.Errorf("unexpected fixed links %+v", diff.Fixed)
		}
	})

	t.Run("compare as markdown", func(t *testing.T) {
		t.Parallel()

		dbDir := seedHistory(t,
			historyRun("docs", now.Add(-time.Hour)),
			historyRun("docs", now, broken),
		)

		stdout, _, err := executeRoot(t, "history", "--db-dir", dbDir, "-C", "-m")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.HasPrefix(stdout, "# ") || !strings.Contains(stdout, broken.URL) {
			t.Errorf("unexpected markdown %q", stdout)
		}
	})

	t.Run("compare needs two runs", func(t *testing.T) {
		t.Parallel()

		dbDir := seedHistory(t, historyRun("docs", now))
		if _, _, err := executeRoot(t, "history", "--db-dir", dbDir, "--compare"); err == nil {
			t.Error("expected error with a single run")
		}
	})

	t.Run("unknown run ID", func(t *testing.T) {
		t.Parallel()

		dbDir := seedHistory(t, historyRun("docs", now))
		_, _, err := executeRoot(t, "history", "--db-dir", dbDir, "ffffffff")
		if err == nil || !strings.Contains(err.Error(), "run not found") {
			t.Errorf("expected run not found, got %v", err)
		}
	})

	t.Run("json and markdown together are rejected", func(t *testing.T) {
		t.Parallel()

		_, _, err := executeRoot(t, "history", "--db-dir", t.TempDir(), "-j", "-m")
		if err == nil || !strings.Contains(err.Error(), "cannot be used together") {
			t.Errorf("expected flag conflict error, got %v", err)
		}
	})

	t.Run("run ID cannot be combined with compare", func(t *testing.T) {
		t.Parallel()

		_, _, err := executeRoot(t, "history", "--db-dir", t.TempDir(), "-C", "abc")
		if err == nil {
			t.Error("expected error")
		}
	})

	t.Run("prune deletes old runs", func(t *testing.T) {
		t.Parallel()

		dbDir := seedHistory(t,
			historyRun("docs", now.Add(-48*time.Hour)),
			historyRun("docs", now),
		)

		stdout, _, err := executeRoot(t, "history", "--db-dir", dbDir, "--prune", "24h")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "Deleted 1 run(s)") {
			t.Errorf("unexpected output %q", stdout)
		}

		stdout, _, err = executeRoot(t, "history", "--db-dir", dbDir, "--json")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var runs []model.Run
		if err := json.Unmarshal([]byte(stdout), &runs); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(runs) != 1 {
			t.Errorf("expected 1 run after prune, got %d", len(runs))
		}
	})
}
