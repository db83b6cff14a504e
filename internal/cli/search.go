package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vmarkel/textcheck/internal/search"
	"github.com/vmarkel/textcheck/internal/storage"
)

var (
	searchRegex bool
	searchLimit int
	searchCSV   string
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search stored results by text or uid",
	Long: `Search scans recent stored rows for a case-insensitive substring
(or, with --regex, pattern) match over the text and uid fields.

Example:
  textcheck search refund
  textcheck search 'refund|delay' --regex --limit 200
  textcheck search refund --csv matches.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().BoolVar(&searchRegex, "regex", false, "treat the query as a regular expression")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 1000, "maximum rows to scan")
	searchCmd.Flags().StringVar(&searchCSV, "csv", "", "write matches to this CSV path")
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	store, err := storage.New(cfg.Storage.Path, cfg.Storage.BusyTimeout, log)
	if err != nil {
		return err
	}

	rows, err := search.Search(store, args[0], searchLimit, searchRegex, log)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "%d matches\n", len(rows))
	for _, r := range rows {
		fmt.Printf("#%-6d %-28s score=%8.3f ts=%s\n", r.ID, r.UID, r.Score, r.TS)
	}

	if searchCSV != "" {
		if err := search.SaveCSV(rows, searchCSV); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %d rows to %s\n", len(rows), searchCSV)
	}
	return nil
}
