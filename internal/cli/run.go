package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vmarkel/textcheck/internal/llm"
	"github.com/vmarkel/textcheck/internal/model"
	"github.com/vmarkel/textcheck/internal/pipeline"
	"github.com/vmarkel/textcheck/internal/textproc"
)

var (
	runRules     string
	runSave      bool
	runGroupSize int
	runWorkers   int
	runJSONOut   string
	runSummary   bool
	runTimeout   time.Duration
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <file-or-folder>",
	Short: "Chunk, score and optionally persist documents",
	Long: `Run the full pipeline over a text file or a folder of text files:
- Break each document into fixed-size word chunks
- Skip chunks whose content hash is already stored (only with --save)
- Score surviving chunks in parallel against the rule set
- Persist each result as it completes (with --save)

Without --save nothing is written and deduplication is bypassed: there
is no hash index to consult, so every chunk is scored. With an empty
rules path the input is only chunked, never scored or stored.

Example:
  textcheck run document.txt --rules data/rules.json
  textcheck run ./texts --save --workers 8 --group-size 300
  textcheck run ./texts --save --json results.json --summary`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runRules, "rules", "", "rules JSON path (overrides config)")
	runCmd.Flags().BoolVar(&runSave, "save", false, "persist results and deduplicate against the store")
	runCmd.Flags().IntVar(&runGroupSize, "group-size", 0, "words per chunk (overrides config)")
	runCmd.Flags().IntVar(&runWorkers, "workers", 0, "worker pool size (overrides config)")
	runCmd.Flags().StringVar(&runJSONOut, "json", "", "write full results JSON to this path")
	runCmd.Flags().BoolVar(&runSummary, "summary", false, "generate an LLM summary of the run (needs OPENAI_API_KEY)")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 10*time.Minute, "total run timeout")
}

func runRun(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	if runRules != "" {
		cfg.RulesPath = runRules
	}
	if runGroupSize > 0 {
		cfg.Pipeline.GroupSize = runGroupSize
	}
	if runWorkers > 0 {
		cfg.Pipeline.Workers = runWorkers
	}
	if runSummary {
		cfg.LLM.Enabled = true
	}
	if cfg.LLM.Enabled && cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	log := newLogger(cfg)

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat input: %w", err)
	}

	// Without a rules path there is nothing to score; just chunk
	if cfg.RulesPath == "" {
		return runBreakOnly(cfg, path, info.IsDir(), log)
	}

	p, err := pipeline.New(cfg, log)
	if err != nil {
		return err
	}

	var result *pipeline.Result
	if info.IsDir() {
		result, err = p.ProcessFolder(ctx, path, runSave)
	} else {
		var text string
		text, err = textproc.LoadFile(path)
		if err == nil {
			result, err = p.Process(ctx, []string{text}, runSave)
		}
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Scored %d chunks, skipped %d duplicates\n", len(result.Checks), result.Skipped)
	for _, r := range result.Checks {
		fmt.Printf("%-28s score=%8.3f raw=%7.2f words=%d\n", r.UID, r.Score, r.RawScore, r.WordCount)
	}

	if runJSONOut != "" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal results: %w", err)
		}
		if err := os.WriteFile(runJSONOut, data, 0o644); err != nil {
			return fmt.Errorf("write results: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote results to %s\n", runJSONOut)
	}

	if cfg.LLM.Enabled {
		provider, err := llm.NewProvider(llm.Config{
			Model:   cfg.LLM.Model,
			APIKey:  cfg.LLM.APIKey,
			BaseURL: cfg.LLM.BaseURL,
		})
		if err != nil {
			log.Warn("summary skipped", "error", err)
			return nil
		}
		summary, err := llm.NewSummarizer(provider, log).SummarizeRun(ctx, result.Checks, result.Skipped)
		if err != nil {
			log.Warn("summary generation failed", "error", err)
			return nil
		}
		fmt.Fprintln(os.Stderr)
		fmt.Println(summary)
	}

	return nil
}

// runBreakOnly chunks the input without scoring or persisting it
func runBreakOnly(cfg *model.Config, path string, isDir bool, log *slog.Logger) error {
	var (
		texts []string
		err   error
	)
	if isDir {
		texts, err = textproc.LoadFolder(path, cfg.Pipeline.FileExt, log)
	} else {
		var text string
		text, err = textproc.LoadFile(path)
		texts = []string{text}
	}
	if err != nil {
		return err
	}

	items, err := pipeline.BreakOnly(texts, cfg.Pipeline.GroupSize)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "No rules configured; broke input into %d chunks\n", len(items))
	for _, item := range items {
		fmt.Printf("%-28s words=%d hash=%s\n", item.UID, len(strings.Fields(item.Text)), item.TextHash[:12])
	}
	return nil
}
