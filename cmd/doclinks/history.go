package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/doclinks/internal/database"
	"github.com/nao1215/doclinks/internal/model"
	"github.com/nao1215/doclinks/internal/report"
)

// defaultHistoryLimit is the number of runs listed when --limit is not set.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
// This command reads runs saved with 'doclinks --record'.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show recorded check runs",
		Long: `History shows check runs saved with 'doclinks --record'.

Without arguments the most recent runs are listed. Given a run ID (or an
unambiguous prefix of one), the dead links of that run are printed.
With --compare, the two latest runs over the same directory are compared
and dead links that appeared or were fixed in between are shown.

Examples:
  # List recorded runs
  doclinks history

  # Show the dead links of one run
  doclinks history 3f2a9c

  # Compare the latest two runs of ./docs as Markdown
  doclinks history --compare --root ./docs --markdown

  # Delete runs older than 30 days
  doclinks history --prune 720h`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("list", "l", false,
		"List recorded runs (default when no run ID is given)")
	cmd.Flags().BoolP("compare", "C", false,
		"Compare the latest two runs over the same directory")
	cmd.Flags().StringP("root", "R", "",
		"Only consider runs over this directory")
	cmd.Flags().IntP("limit", "n", defaultHistoryLimit,
		"Maximum number of runs to list (0 lists all)")
	cmd.Flags().Duration("prune", 0,
		"Delete runs older than this duration and exit")

	// Output format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output in Markdown format")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	dbDir, err := flags.GetString("db-dir")
	if err != nil {
		return err
	}
	prune, err := flags.GetDuration("prune")
	if err != nil {
		return err
	}
	compare, err := flags.GetBool("compare")
	if err != nil {
		return err
	}
	list, err := flags.GetBool("list")
	if err != nil {
		return err
	}
	root, err := flags.GetString("root")
	if err != nil {
		return err
	}
	// Recorded roots are absolute.
	root = model.AbsPath(root)
	limit, err := flags.GetInt("limit")
	if err != nil {
		return err
	}
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	if prune < 0 {
		return errors.New("--prune must be a positive duration")
	}
	if limit < 0 {
		return errors.New("--limit must not be negative")
	}
	if len(args) == 1 && (compare || list) {
		return errors.New("a run ID cannot be combined with --list or --compare")
	}

	// Validate arguments before opening the database so a usage error
	// never creates or locks it.
	opts := database.ReadOnlyOptions()
	if prune > 0 {
		opts = database.DefaultOptions()
	}
	db, err := database.Open(dbDir, opts)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if prune > 0 {
		return pruneHistory(ctx, cmd, db, prune)
	}

	w, err := report.NewWriter(format, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	switch {
	case compare:
		return compareRuns(ctx, db, w, root)
	case len(args) == 1:
		return showRun(ctx, db, w, args[0])
	default:
		return listRuns(ctx, db, w, root, limit)
	}
}

// outputFormat picks the report format from --json and --markdown.
func outputFormat(cmd *cobra.Command) (report.Format, error) {
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return "", err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return "", err
	}

	switch {
	case jsonOutput && markdownOutput:
		return "", errors.New("--json and --markdown cannot be used together")
	case jsonOutput:
		return report.FormatJSON, nil
	case markdownOutput:
		return report.FormatMarkdown, nil
	default:
		return report.FormatText, nil
	}
}

// listRuns prints the most recent runs, newest first.
func listRuns(ctx context.Context, db *database.HistoryDB, w report.Writer, root string, limit int) error {
	runs, err := db.ListRuns(ctx, root, limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if _, err := w.WriteRuns(runs); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	return nil
}

// showRun prints one run with its dead links.
func showRun(ctx context.Context, db *database.HistoryDB, w report.Writer, id string) error {
	run, err := db.GetRun(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get run %s: %w", id, err)
	}
	if _, err := w.WriteRun(run); err != nil {
		return fmt.Errorf("failed to write run: %w", err)
	}
	return nil
}

// compareRuns prints the difference between the two latest runs over root.
func compareRuns(ctx context.Context, db *database.HistoryDB, w report.Writer, root string) error {
	previous, current, err := db.LatestPair(ctx, root)
	if err != nil {
		if errors.Is(err, database.ErrRunNotFound) {
			return errors.New("no recorded runs to compare")
		}
		return fmt.Errorf("failed to load runs: %w", err)
	}

	diff := model.CompareRuns(previous, current)
	if _, err := w.WriteDiff(diff); err != nil {
		return fmt.Errorf("failed to write comparison: %w", err)
	}
	return nil
}

// pruneHistory deletes runs older than age.
func pruneHistory(ctx context.Context, cmd *cobra.Command, db *database.HistoryDB, age time.Duration) error {
	deleted, err := db.DeleteRunsBefore(ctx, time.Now().Add(-age))
	if err != nil {
		return fmt.Errorf("failed to prune history: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d run(s) older than %s\n", deleted, age)
	return nil
}
