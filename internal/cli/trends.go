package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/reelrank/reelrank/internal/model"
	"github.com/reelrank/reelrank/internal/trends"
)

var (
	trendsHistoryFile string
	chartsDir         string
	trendsTopN        int
	llmEnabled        bool
	llmModel          string
)

// trendsCmd represents the trends command
var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Summarize the history file and render trend charts",
	Long: `Trends loads the accumulated snapshot history and produces:
- Dataset summary statistics on stderr
- Ranking-over-time chart for the most consistent films
- Entries/exits, genre share, and rating-vs-rank charts

Charts are written as PNG files into the charts directory. With --llm an
OpenAI model adds a one-paragraph prose summary (requires OPENAI_API_KEY);
the summary never modifies the dataset.

Example:
  reelrank trends
  reelrank trends --history history.csv --charts-dir ./charts --top 15
  reelrank trends --llm --llm-model gpt-4o-mini`,
	Args: cobra.NoArgs,
	RunE: runTrends,
}

func init() {
	rootCmd.AddCommand(trendsCmd)

	defaults := model.DefaultConfig()

	trendsCmd.Flags().StringVar(&trendsHistoryFile, "history", defaults.Output.HistoryFile, "history CSV path")
	trendsCmd.Flags().StringVar(&chartsDir, "charts-dir", "./reelrank-charts", "output directory for charts")
	trendsCmd.Flags().IntVar(&trendsTopN, "top", 10, "films/genres per chart and summary list")

	trendsCmd.Flags().BoolVar(&llmEnabled, "llm", false, "generate an LLM prose summary")
	trendsCmd.Flags().StringVar(&llmModel, "llm-model", defaults.LLM.Model, "LLM model name")
}

func runTrends(cmd *cobra.Command, args []string) error {
	h, err := trends.Load(trendsHistoryFile)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	if len(h.Records) == 0 {
		return fmt.Errorf("history file %s has no records", trendsHistoryFile)
	}

	summary := h.Summarize(trendsTopN)
	printSummary(summary)

	if err := os.MkdirAll(chartsDir, 0755); err != nil {
		return fmt.Errorf("create charts directory: %w", err)
	}

	charts := []struct {
		name   string
		render func(path string) error
	}{
		{"ranking_trends.png", func(p string) error { return trends.RenderRankingTrends(h, trendsTopN, p) }},
		{"entries_exits.png", func(p string) error { return trends.RenderEntriesExits(h, p) }},
		{"genre_share.png", func(p string) error { return trends.RenderGenreShare(h, trendsTopN, p) }},
		{"rating_vs_rank.png", func(p string) error { return trends.RenderRatingVsRank(h, p) }},
	}

	for _, c := range charts {
		path := filepath.Join(chartsDir, c.name)
		if err := c.render(path); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", c.name, err)
			continue
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", path)
	}

	if llmEnabled {
		if err := printLLMSummary(cmd.Context(), summary); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: LLM summary failed: %v\n", err)
		}
	}

	return nil
}

func printSummary(s *trends.Summary) {
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Dataset Summary\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Snapshots:     %d (%s to %s)\n", s.Snapshots,
		s.FirstDate.Format("2006-01-02"), s.LastDate.Format("2006-01-02"))
	fmt.Fprintf(os.Stderr, "  Unique films:  %d\n", s.UniqueFilms)
	fmt.Fprintf(os.Stderr, "  Total records: %d\n", s.TotalRows)
	fmt.Fprintf(os.Stderr, "\n")

	fmt.Fprintf(os.Stderr, "  Most consistent films:\n")
	for i, st := range s.MostConsistent {
		fmt.Fprintf(os.Stderr, "    %d. %s (%d appearances)\n", i+1, st.Title, st.Appearances)
	}
	fmt.Fprintf(os.Stderr, "\n")

	fmt.Fprintf(os.Stderr, "  Best average rank:\n")
	for i, st := range s.BestAverage {
		fmt.Fprintf(os.Stderr, "    %d. %s (avg %.1f)\n", i+1, st.Title, st.AvgRank)
	}
	fmt.Fprintf(os.Stderr, "\n")

	if len(s.LatestTop) > 0 {
		fmt.Fprintf(os.Stderr, "  Latest top films:\n")
		for i, title := range s.LatestTop {
			fmt.Fprintf(os.Stderr, "    %d. %s\n", i+1, title)
		}
		fmt.Fprintf(os.Stderr, "\n")
	}
}

func printLLMSummary(ctx context.Context, s *trends.Summary) error {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}

	cfg := model.DefaultConfig().LLM
	cfg.Model = llmModel
	cfg.APIKey = apiKey
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		cfg.BaseURL = baseURL
	}

	llmCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	text, err := trends.SummarizeWithLLM(llmCtx, cfg, s)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "───────────────────────────────────────────────────────────\n")
	fmt.Println(text)
	return nil
}
