package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"

	"propertyscout/internal/analyzer"
	"propertyscout/internal/models"
)

type Config struct {
	Server struct {
		Port         int      `env:"SERVER_PORT" envDefault:"5250"`
		DatabasePath string   `env:"DATABASE_PATH" envDefault:"database/scout.db"`
		ReportDir    string   `env:"REPORT_DIR" envDefault:"."`
		CORSOrigins  []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	}

	Log struct {
		Level  string `env:"LOG_LEVEL" envDefault:"info"`
		Format string `env:"LOG_FORMAT" envDefault:"json"`
	}

	Scoring struct {
		BaselineCapRate    float64 `env:"SCORING_BASELINE_CAP_RATE" envDefault:"6.5"`
		LocationScore      int     `env:"SCORING_LOCATION_SCORE" envDefault:"15"`
		MarketTimingScore  int     `env:"SCORING_MARKET_TIMING_SCORE" envDefault:"8"`
		StrongBuyThreshold int     `env:"SCORING_STRONG_BUY_THRESHOLD" envDefault:"70"`
		ConsiderThreshold  int     `env:"SCORING_CONSIDER_THRESHOLD" envDefault:"50"`
		File               string  `env:"SCORING_FILE"`
	}

	GIS struct {
		ParcelURL          string        `env:"GIS_PARCEL_URL"`
		Timeout            time.Duration `env:"GIS_TIMEOUT" envDefault:"10s"`
		RequestsPerMinute  int           `env:"GIS_REQUESTS_PER_MINUTE" envDefault:"30"`
		InsecureSkipVerify bool          `env:"GIS_INSECURE_SKIP_VERIFY" envDefault:"false"`
		MaxResults         int           `env:"GIS_MAX_RESULTS" envDefault:"5"`
	}

	Geocoding struct {
		URL      string `env:"GEOCODER_URL"`
		CacheDir string `env:"GEOCODER_CACHE_DIR" envDefault:"database"`
		Country  string `env:"GEOCODER_COUNTRY" envDefault:"us"`
		// How often the server geocodes stored comparables without coordinates; 0 runs only at startup
		RefreshInterval time.Duration `env:"GEOCODER_REFRESH_INTERVAL" envDefault:"6h"`
	}

	Comparables struct {
		// static, db, or auto (stored comparables, falling back to the reference set)
		Source           string   `env:"COMPS_SOURCE" envDefault:"auto"`
		PropertyTypes    []string `env:"COMPS_PROPERTY_TYPES" envSeparator:","`
		MaxDistanceMiles float64  `env:"COMPS_MAX_DISTANCE_MILES" envDefault:"0"`
		Limit            int      `env:"COMPS_LIMIT" envDefault:"0"`
	}

	// BatchProcessing configuration
	BatchProcessing struct {
		// Maximum number of comparables accepted in one import batch
		MaxBatchSize int `env:"BATCH_MAX_SIZE" envDefault:"100"`

		// Maximum time to wait for queued batches on shutdown (in seconds)
		MaxBatchWaitTime int `env:"BATCH_WAIT_TIME" envDefault:"30"`

		// Number of concurrent batch processors
		ProcessorCount int `env:"BATCH_PROCESSOR_COUNT" envDefault:"2"`

		// Maximum number of retries for failed batches
		MaxRetries int `env:"BATCH_MAX_RETRIES" envDefault:"3"`

		// Delay between retries in seconds
		RetryDelay int `env:"BATCH_RETRY_DELAY" envDefault:"5"`
	}

	Telegram struct {
		Enabled  bool   `env:"TELEGRAM_ENABLED" envDefault:"false"`
		BotToken string `env:"TELEGRAM_BOT_TOKEN"`
		ChatID   string `env:"TELEGRAM_CHAT_ID"`
		APIURL   string `env:"TELEGRAM_API_URL" envDefault:"https://api.telegram.org"`
		MinScore int    `env:"TELEGRAM_MIN_SCORE" envDefault:"70"`
	}

	// Loaded from Scoring.File, if set.
	staticInsights []string
	target         *models.ListingTarget
}

// LoadConfig reads the environment and, when SCORING_FILE is set, applies
// the YAML overrides on top.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	cfg.staticInsights = analyzer.DefaultParams().StaticInsights

	if cfg.Scoring.File != "" {
		if err := cfg.LoadScoringFile(cfg.Scoring.File); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// Validate checks value ranges that env parsing cannot express.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.DatabasePath == "" {
		return fmt.Errorf("database path is required")
	}
	if c.GIS.RequestsPerMinute < 0 {
		return fmt.Errorf("GIS requests per minute cannot be negative")
	}
	if c.GIS.MaxResults <= 0 {
		return fmt.Errorf("GIS max results must be positive")
	}
	switch c.Comparables.Source {
	case "static", "db", "auto":
	default:
		return fmt.Errorf("invalid comparables source %q (want static, db or auto)", c.Comparables.Source)
	}
	if c.Comparables.MaxDistanceMiles < 0 || c.Comparables.Limit < 0 {
		return fmt.Errorf("comparables distance and limit cannot be negative")
	}
	if c.BatchProcessing.MaxBatchSize <= 0 {
		return fmt.Errorf("batch max size must be positive")
	}
	if c.BatchProcessing.ProcessorCount <= 0 {
		return fmt.Errorf("batch processor count must be positive")
	}
	if c.BatchProcessing.MaxRetries < 0 {
		return fmt.Errorf("batch max retries cannot be negative")
	}
	if c.Telegram.Enabled && (c.Telegram.BotToken == "" || c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram is enabled but bot token or chat id is missing")
	}
	if err := c.ScoringParams().Validate(); err != nil {
		return fmt.Errorf("invalid scoring configuration: %w", err)
	}
	return nil
}

// ScoringParams returns the analyzer parameters described by this config.
func (c *Config) ScoringParams() analyzer.Params {
	insights := c.staticInsights
	if insights == nil {
		insights = analyzer.DefaultParams().StaticInsights
	}
	return analyzer.Params{
		BaselineCapRate:   c.Scoring.BaselineCapRate,
		LocationScore:     c.Scoring.LocationScore,
		MarketTimingScore: c.Scoring.MarketTimingScore,
		StrongBuyAt:       c.Scoring.StrongBuyThreshold,
		ConsiderAt:        c.Scoring.ConsiderThreshold,
		StaticInsights:    append([]string(nil), insights...),
	}
}

// ChecklistTarget returns the listing target override from the scoring
// file, or nil when none was configured.
func (c *Config) ChecklistTarget() *models.ListingTarget {
	if c.target == nil {
		return nil
	}
	t := *c.target
	return &t
}
