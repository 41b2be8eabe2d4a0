package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/kelsos/nft-snapshot/internal/census"
)

var tableHeader = []string{"Owner Address", "Token ID"}

// WriteTable persists the main owner table: one header row, then one row per
// owned or absent id ordered by token id ascending. Absent ids carry an
// empty owner field; failed ids are left to the diagnostic log. The table is
// written to a temp file and renamed into place so an interrupted run never
// leaves a truncated or unsorted file behind.
func WriteTable(path string, outcomes []census.Outcome) error {
	rows := make([]census.Outcome, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Status == census.StatusOwned || o.Status == census.StatusAbsent {
			rows = append(rows, o)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].TokenID < rows[j].TokenID
	})

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".owners-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create temp table: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(tableHeader); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, o := range rows {
		record := []string{o.Owner, strconv.FormatUint(o.TokenID, 10)}
		if err := w.Write(record); err != nil {
			tmp.Close()
			return fmt.Errorf("failed to write row for token id %d: %w", o.TokenID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to flush table: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync table: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close table: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move table into place: %w", err)
	}
	return nil
}

// AppendFailures appends one diagnostic line per failed outcome to the
// error log. The log is append-only across runs.
func AppendFailures(path string, outcomes []census.Outcome) error {
	failures := make([]census.Outcome, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Status == census.StatusFailed {
			failures = append(failures, o)
		}
	}
	if len(failures) == 0 {
		return nil
	}
	sort.Slice(failures, func(i, j int) bool {
		return failures[i].TokenID < failures[j].TokenID
	})

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open error log: %w", err)
	}
	defer f.Close()

	for _, o := range failures {
		if _, err := fmt.Fprintf(f, "Error fetching owner for token ID %d: %s\n", o.TokenID, o.Reason); err != nil {
			return fmt.Errorf("failed to append error log: %w", err)
		}
	}
	return nil
}
