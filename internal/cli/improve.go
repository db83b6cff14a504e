package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vmarkel/textcheck/internal/improver"
)

var (
	improveLimit   int
	improveMinFreq int
	improveReport  string
	improveApply   bool
)

// improveCmd represents the improve command
var improveCmd = &cobra.Command{
	Use:   "improve",
	Short: "Analyze stored results and suggest new keyword rules",
	Long: `Improve mines recent stored rows for frequent words, word pairs and
rule-hit counts, then proposes keyword_any rules for common terms.
With --apply the suggestions are appended to the configured rules
file.

Example:
  textcheck improve --limit 500 --min-freq 5
  textcheck improve --apply --report improver_report.json`,
	RunE: runImprove,
}

func init() {
	rootCmd.AddCommand(improveCmd)

	improveCmd.Flags().IntVar(&improveLimit, "limit", 500, "rows to analyze")
	improveCmd.Flags().IntVar(&improveMinFreq, "min-freq", 5, "minimum word frequency for a suggestion")
	improveCmd.Flags().StringVar(&improveReport, "report", "improver_report.json", "report JSON output path")
	improveCmd.Flags().BoolVar(&improveApply, "apply", false, "append suggestions to the rules file")
}

func runImprove(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	store, err := openStore()
	if err != nil {
		return err
	}

	rulesPath := ""
	if improveApply {
		rulesPath = cfg.RulesPath
	}

	report, err := improver.New(store, log).Run(improveLimit, improveMinFreq, improveReport, rulesPath)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Suggested %d rules (report: %s)\n", len(report.Suggestions), improveReport)
	for _, s := range report.Suggestions {
		fmt.Printf("keyword_any %v score=%.0f\n", s.Keywords, s.Score)
	}
	return nil
}
