package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentic-research/autobake/api"
	"github.com/agentic-research/autobake/internal/history"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent bake runs",
	Long: `History lists the runs recorded in the local ledger, newest first.

The ledger lives at ~/.autobake/history.db unless AUTOBAKE_HISTORY
points somewhere else.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := historyPath()
		if err != nil {
			return err
		}
		ledger, err := history.Open(path)
		if err != nil {
			return err
		}
		defer func() { _ = ledger.Close() }()

		runs, err := ledger.List(historyLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No bake runs recorded.")
			return nil
		}
		for _, r := range runs {
			fmt.Printf("%s  %-9s  %s/%s  %dpx  %v  %s  (%dms, %d warnings)\n",
				r.StartedAt.Format(time.RFC3339), r.Status, r.Scene, r.Object,
				r.TextureSize, r.Maps, r.OutputDir, r.DurationMS, r.Warnings)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of runs to list")
	rootCmd.AddCommand(historyCmd)
}

func historyPath() (string, error) {
	if p := os.Getenv("AUTOBAKE_HISTORY"); p != "" {
		return p, nil
	}
	return history.DefaultPath()
}

// recordRun appends rec to the ledger. History is best-effort: a failure
// is logged, never surfaced as a command error.
func recordRun(rec api.RunRecord) {
	path, err := historyPath()
	if err != nil {
		slog.Warn("history disabled", "error", err)
		return
	}
	ledger, err := history.Open(path)
	if err != nil {
		slog.Warn("could not open history ledger", "error", err)
		return
	}
	defer func() { _ = ledger.Close() }()
	if err := ledger.Record(rec); err != nil {
		slog.Warn("could not record run", "error", err)
	}
}
