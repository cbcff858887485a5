package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/reelrank/reelrank/internal/history"
	"github.com/reelrank/reelrank/internal/model"
	"github.com/reelrank/reelrank/internal/scrape"
	"github.com/reelrank/reelrank/internal/util"
	"github.com/reelrank/reelrank/internal/worker"
)

var (
	listingURL    string
	baseURL       string
	pages         int
	passes        int
	maxFilms      int
	pageDelay     time.Duration
	passCooldown  time.Duration
	detailWorkers int
	httpTimeout   time.Duration
	userAgent     string
	maxBytes      int64
	historyFile   string
	timezone      string
	ignoreRobots  bool
)

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape the ranking and append a snapshot to the history file",
	Long: `Scrape runs the full snapshot pipeline:
- Sweep the paginated listing once per pass, pausing between pages
- Reconcile all passes into one deterministic top-N list
- Fetch every ranked film's detail page with a bounded worker pool
- Append the snapshot to the history CSV, de-duplicated by film and date

Interrupting a run (Ctrl-C) stops new work and saves whatever has been
gathered so far. A run that finds no films exits without touching the
history file.

Example:
  reelrank scrape
  reelrank scrape --pages 7 --passes 3 --out history.csv
  reelrank scrape --workers 4 --page-delay 5s`,
	Args: cobra.NoArgs,
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	defaults := model.DefaultConfig()

	// Listing flags
	scrapeCmd.Flags().StringVar(&listingURL, "listing-url", defaults.Listing.ListingURL, "paginated ranking endpoint")
	scrapeCmd.Flags().StringVar(&baseURL, "base-url", defaults.Listing.BaseURL, "site root for relative film links")
	scrapeCmd.Flags().IntVar(&pages, "pages", defaults.Listing.Pages, "pages fetched per pass")
	scrapeCmd.Flags().IntVar(&passes, "passes", defaults.Listing.Passes, "observation passes per run")
	scrapeCmd.Flags().IntVar(&maxFilms, "max-films", defaults.Listing.MaxFilms, "cap on the reconciled list")
	scrapeCmd.Flags().DurationVar(&pageDelay, "page-delay", defaults.Listing.PageDelay, "delay between listing pages")
	scrapeCmd.Flags().DurationVar(&passCooldown, "pass-cooldown", defaults.Listing.PassCooldown, "cooldown between passes")

	// HTTP flags
	scrapeCmd.Flags().DurationVar(&httpTimeout, "timeout", defaults.HTTP.Timeout, "per-request timeout")
	scrapeCmd.Flags().StringVar(&userAgent, "ua", defaults.HTTP.UserAgent, "HTTP User-Agent")
	scrapeCmd.Flags().Int64Var(&maxBytes, "max-bytes", defaults.HTTP.MaxBodyBytes, "max response bytes to read")
	scrapeCmd.Flags().BoolVar(&ignoreRobots, "ignore-robots", false, "skip the robots.txt check")

	// Concurrency and output flags
	scrapeCmd.Flags().IntVar(&detailWorkers, "workers", defaults.Concurrency.DetailWorkers, "detail-fetch worker count")
	scrapeCmd.Flags().StringVar(&historyFile, "out", defaults.Output.HistoryFile, "history CSV path")
	scrapeCmd.Flags().StringVar(&timezone, "timezone", defaults.Output.Timezone, "IANA timezone for the snapshot date")
}

func runScrape(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := buildScrapeConfig(cmd)
	if err != nil {
		return err
	}

	loc, err := time.LoadLocation(cfg.Output.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone: %w", err)
	}
	snapshotDate := time.Now().In(loc).Format("2006-01-02")

	if verbose {
		fmt.Fprintf(os.Stderr, "Listing:  %s\n", cfg.Listing.ListingURL)
		fmt.Fprintf(os.Stderr, "Passes:   %d x %d pages\n", cfg.Listing.Passes, cfg.Listing.Pages)
		fmt.Fprintf(os.Stderr, "Snapshot: %s\n", snapshotDate)
		fmt.Fprintln(os.Stderr)
	}

	if !ignoreRobots {
		checker := util.NewRobotsChecker(cfg.HTTP.UserAgent, 10*time.Second)
		allowed, err := checker.CanFetch(ctx, cfg.Listing.ListingURL)
		if err != nil {
			return fmt.Errorf("robots check: %w", err)
		}
		if !allowed {
			return fmt.Errorf("robots.txt disallows %s (use --ignore-robots to override)", cfg.Listing.ListingURL)
		}
	}

	fetcher := scrape.NewFetcher(cfg.HTTP.Timeout, cfg.HTTP.UserAgent, cfg.HTTP.MaxBodyBytes,
		cfg.HTTP.RequestsPerSecond, cfg.HTTP.Burst)
	collector := scrape.NewCollector(fetcher, cfg.Listing, verbose)
	reconciler := scrape.NewReconciler(collector, cfg.Listing, verbose)

	ranked := reconciler.Reconcile(ctx)
	if len(ranked) == 0 {
		fmt.Fprintln(os.Stderr, "No films found. Exiting.")
		return nil
	}
	fmt.Fprintf(os.Stderr, "✓ Reconciled %d films from %d passes\n", len(ranked), cfg.Listing.Passes)

	enricher := worker.NewEnricher(fetcher, cfg.Concurrency.DetailWorkers, verbose)
	records := enricher.EnrichAll(ctx, ranked, snapshotDate)

	if ctx.Err() != nil {
		fmt.Fprintln(os.Stderr, "\nInterrupted. Saving records gathered so far...")
	}
	if len(records) == 0 {
		fmt.Fprintln(os.Stderr, "No film details gathered. History file untouched.")
		return nil
	}

	if err := history.Append(records, cfg.Output.HistoryFile); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	fmt.Fprintf(os.Stderr, "✓ Appended %d records to %s\n", len(records), cfg.Output.HistoryFile)

	return nil
}

// buildScrapeConfig layers defaults, config file / env, then flags.
func buildScrapeConfig(cmd *cobra.Command) (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Explicit flags beat everything
	flags := cmd.Flags()
	if flags.Changed("listing-url") {
		cfg.Listing.ListingURL = listingURL
	}
	if flags.Changed("base-url") {
		cfg.Listing.BaseURL = baseURL
	}
	if flags.Changed("pages") {
		cfg.Listing.Pages = pages
	}
	if flags.Changed("passes") {
		cfg.Listing.Passes = passes
	}
	if flags.Changed("max-films") {
		cfg.Listing.MaxFilms = maxFilms
	}
	if flags.Changed("page-delay") {
		cfg.Listing.PageDelay = pageDelay
	}
	if flags.Changed("pass-cooldown") {
		cfg.Listing.PassCooldown = passCooldown
	}
	if flags.Changed("timeout") {
		cfg.HTTP.Timeout = httpTimeout
	}
	if flags.Changed("ua") {
		cfg.HTTP.UserAgent = userAgent
	}
	if flags.Changed("max-bytes") {
		cfg.HTTP.MaxBodyBytes = maxBytes
	}
	if flags.Changed("workers") {
		cfg.Concurrency.DetailWorkers = detailWorkers
	}
	if flags.Changed("out") {
		cfg.Output.HistoryFile = historyFile
	}
	if flags.Changed("timezone") {
		cfg.Output.Timezone = timezone
	}
	cfg.Output.Verbose = verbose

	if cfg.Listing.Passes < 1 {
		return nil, fmt.Errorf("passes must be at least 1, got %d", cfg.Listing.Passes)
	}
	if cfg.Listing.Pages < 1 {
		return nil, fmt.Errorf("pages must be at least 1, got %d", cfg.Listing.Pages)
	}

	return cfg, nil
}
