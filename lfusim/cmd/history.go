package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/sarchlab/lfusim/datarecording"
	"github.com/sarchlab/lfusim/mem/trace"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List the accesses recorded by `run --db`.",
	Run: func(cmd *cobra.Command, _ []string) {
		dbFile, _ := cmd.Flags().GetString("db")
		runID, _ := cmd.Flags().GetString("run")
		limit, _ := cmd.Flags().GetInt("limit")

		reader, err := datarecording.NewReader(dbFileName(dbFile))
		if err != nil {
			log.Fatalf("Error opening %s: %v", dbFile, err)
		}
		defer reader.Close()

		err = printHistory(os.Stdout, reader, runID, limit)
		if err != nil {
			log.Fatalf("Error reading history: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().String("db", "", "Database written by run --db.")
	historyCmd.Flags().String("run", "", "Only list accesses of this run.")
	historyCmd.Flags().Int("limit", 0, "Maximum number of accesses to list.")

	_ = historyCmd.MarkFlagRequired("db")
}

// dbFileName returns the file a recorder created for path. Both the bare path
// and the full file name are accepted.
func dbFileName(path string) string {
	if strings.HasSuffix(path, ".sqlite3") {
		return path
	}

	return path + ".sqlite3"
}

func printHistory(
	w io.Writer,
	reader datarecording.DataReader,
	runID string,
	limit int,
) error {
	reader.MapTable(trace.AccessTable, trace.AccessEntry{})

	params := datarecording.QueryParams{
		OrderBy: "RunID, Seq",
		Limit:   limit,
	}

	if runID != "" {
		params.Where = "RunID = ?"
		params.Args = []any{runID}
	}

	entries, total, err := reader.Query(
		context.Background(), trace.AccessTable, params)
	if err != nil {
		return err
	}

	for _, e := range entries {
		entry := e.(*trace.AccessEntry)

		outcome := "miss"
		if entry.Hit {
			outcome = "hit"
		}

		_, err := fmt.Fprintf(w,
			"%s %d %s 0x%04x set %d way %d value 0x%02x freq %d %s\n",
			entry.RunID, entry.Seq, entry.Kind, entry.Address,
			entry.SetIndex, entry.Way, entry.Value, entry.Frequency, outcome)
		if err != nil {
			return err
		}
	}

	_, err = fmt.Fprintf(w, "%d of %d accesses\n", len(entries), total)

	return err
}
