package model

import "time"

// Config holds the complete runtime configuration.
type Config struct {
	Listing     ListingConfig     `yaml:"listing" mapstructure:"listing"`
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
}

// ListingConfig describes the paginated ranking source and how it is
// sampled.
type ListingConfig struct {
	BaseURL      string        `yaml:"base_url" mapstructure:"base_url"`           // site root, prefix for relative film links
	ListingURL   string        `yaml:"listing_url" mapstructure:"listing_url"`     // paginated ranking endpoint
	Pages        int           `yaml:"pages" mapstructure:"pages"`                 // pages fetched per pass
	Passes       int           `yaml:"passes" mapstructure:"passes"`               // independent observation passes per run
	MaxFilms     int           `yaml:"max_films" mapstructure:"max_films"`         // cap on the reconciled list
	PageDelay    time.Duration `yaml:"page_delay" mapstructure:"page_delay"`       // politeness delay between pages
	PassCooldown time.Duration `yaml:"pass_cooldown" mapstructure:"pass_cooldown"` // settle time between passes
}

// HTTPConfig controls the HTTP client used for all fetches.
type HTTPConfig struct {
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent         string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes      int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int           `yaml:"burst" mapstructure:"burst"`
}

// ConcurrencyConfig controls the detail-fetch worker pool.
type ConcurrencyConfig struct {
	DetailWorkers int `yaml:"detail_workers" mapstructure:"detail_workers"`
}

// OutputConfig controls where snapshots land and how progress is reported.
type OutputConfig struct {
	HistoryFile string `yaml:"history_file" mapstructure:"history_file"`
	Timezone    string `yaml:"timezone" mapstructure:"timezone"` // IANA name for the snapshot date
	Verbose     bool   `yaml:"verbose" mapstructure:"verbose"`
}

// LLMConfig configures the optional trend-summary generation. It never
// affects scraped data.
type LLMConfig struct {
	Model   string `yaml:"model" mapstructure:"model"`
	APIKey  string `yaml:"-" mapstructure:"-"`
	BaseURL string `yaml:"base_url,omitempty" mapstructure:"base_url"`
}

// DefaultConfig returns the documented defaults: 14 pages per pass,
// 2 passes, a 1000-film cap and 10 detail workers.
func DefaultConfig() *Config {
	return &Config{
		Listing: ListingConfig{
			BaseURL:      "https://letterboxd.com",
			ListingURL:   "https://letterboxd.com/films/ajax/popular/this/week/",
			Pages:        14,
			Passes:       2,
			MaxFilms:     1000,
			PageDelay:    2 * time.Second,
			PassCooldown: 30 * time.Second,
		},
		HTTP: HTTPConfig{
			Timeout:           30 * time.Second,
			UserAgent:         "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/113.0.0.0 Safari/537.36",
			MaxBodyBytes:      2_000_000,
			RequestsPerSecond: 5,
			Burst:             5,
		},
		Concurrency: ConcurrencyConfig{
			DetailWorkers: 10,
		},
		Output: OutputConfig{
			HistoryFile: "letterboxd_popular_history.csv",
			Timezone:    "America/Los_Angeles",
		},
		LLM: LLMConfig{
			Model: "gpt-4o-mini",
		},
	}
}
