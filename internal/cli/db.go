package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vmarkel/textcheck/internal/storage"
)

var (
	queryMin   float64
	queryMax   float64
	queryLimit int
	clearYes   bool
)

// queryCmd represents the query command
var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "List stored results, newest first",
	Long: `Query prints stored rows newest-first, optionally filtered by
inclusive score bounds.

Example:
  textcheck query --limit 20
  textcheck query --min 5 --max 10`,
	RunE: runQuery,
}

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <uid>",
	Short: "Delete all stored rows for a uid",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

// clearCmd represents the clear command
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every stored row",
	RunE:  runClear,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(clearCmd)

	queryCmd.Flags().Float64Var(&queryMin, "min", 0, "minimum score (inclusive)")
	queryCmd.Flags().Float64Var(&queryMax, "max", 0, "maximum score (inclusive)")
	queryCmd.Flags().IntVar(&queryLimit, "limit", 100, "maximum rows to list")

	clearCmd.Flags().BoolVar(&clearYes, "yes", false, "skip confirmation")
}

func openStore() (*storage.Store, error) {
	cfg, err := buildConfig()
	if err != nil {
		return nil, err
	}
	return storage.New(cfg.Storage.Path, cfg.Storage.BusyTimeout, newLogger(cfg))
}

func runQuery(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	var minScore, maxScore *float64
	if cmd.Flags().Changed("min") {
		minScore = &queryMin
	}
	if cmd.Flags().Changed("max") {
		maxScore = &queryMax
	}

	rows, err := store.QueryChecks(minScore, maxScore, queryLimit)
	if err != nil {
		return err
	}
	for _, r := range rows {
		fmt.Printf("#%-6d %-28s score=%8.3f ts=%s\n", r.ID, r.UID, r.Score, r.TS)
	}
	fmt.Fprintf(os.Stderr, "%d rows\n", len(rows))
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	deleted, err := store.DeleteCheck(args[0])
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("no rows found for uid %q", args[0])
	}
	fmt.Fprintf(os.Stderr, "Deleted rows for uid %s\n", args[0])
	return nil
}

func runClear(cmd *cobra.Command, args []string) error {
	if !clearYes {
		return fmt.Errorf("refusing to clear without --yes")
	}
	store, err := openStore()
	if err != nil {
		return err
	}
	if err := store.ClearAll(); err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, "Cleared all stored checks")
	return nil
}
