package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vmarkel/textcheck/internal/search"
	"github.com/vmarkel/textcheck/internal/storage"
)

var (
	exportMin   float64
	exportMax   float64
	exportLimit int
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <out.csv>",
	Short: "Export stored results to CSV",
	Long: `Export writes stored rows newest-first to a CSV file, optionally
filtered by inclusive score bounds.

Example:
  textcheck export all.csv
  textcheck export risky.csv --min 5 --max 10 --limit 500`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().Float64Var(&exportMin, "min", 0, "minimum score (inclusive)")
	exportCmd.Flags().Float64Var(&exportMax, "max", 0, "maximum score (inclusive)")
	exportCmd.Flags().IntVar(&exportLimit, "limit", 1000, "maximum rows to export")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	store, err := storage.New(cfg.Storage.Path, cfg.Storage.BusyTimeout, log)
	if err != nil {
		return err
	}

	var minScore, maxScore *float64
	if cmd.Flags().Changed("min") {
		minScore = &exportMin
	}
	if cmd.Flags().Changed("max") {
		maxScore = &exportMax
	}

	rows, err := search.ByScore(store, minScore, maxScore, exportLimit)
	if err != nil {
		return err
	}
	if err := search.SaveCSV(rows, args[0]); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Exported %d rows to %s\n", len(rows), args[0])
	return nil
}
