package search

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/vmarkel/textcheck/internal/model"
)

var csvHeader = []string{"id", "uid", "score", "details", "ts", "text"}

// SaveCSV writes one row per stored record to path. Details are
// exported in their serialized string form and text is flattened to a
// single line. An empty row set still produces a file with the header.
func SaveCSV(rows []model.StoredCheck, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, r := range rows {
		text := strings.NewReplacer("\n", " ", "\r", " ").Replace(r.Text)
		record := []string{
			strconv.FormatInt(r.ID, 10),
			r.UID,
			strconv.FormatFloat(r.Score, 'f', -1, 64),
			r.Details,
			r.TS,
			text,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
