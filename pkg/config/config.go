package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration for the harvester.
type Config struct {
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	LogFormat   string `mapstructure:"LOG_FORMAT"`
	MetricsAddr string `mapstructure:"METRICS_ADDR"`

	DriverEngine       string `mapstructure:"DRIVER_ENGINE"`
	SnapshotDir        string `mapstructure:"SNAPSHOT_DIR"`
	Headless           bool   `mapstructure:"HEADLESS"`
	DisableGPU         bool   `mapstructure:"DISABLE_GPU"`
	NoSandbox          bool   `mapstructure:"NO_SANDBOX"`
	DisableDevShm      bool   `mapstructure:"DISABLE_DEV_SHM"`
	DisableExtensions  bool   `mapstructure:"DISABLE_EXTENSIONS"`
	DisableDNSPrefetch bool   `mapstructure:"DISABLE_DNS_PREFETCH"`
	WindowWidth        int    `mapstructure:"WINDOW_WIDTH"`
	WindowHeight       int    `mapstructure:"WINDOW_HEIGHT"`
	Stealth            bool   `mapstructure:"STEALTH"`
	UserAgent          string `mapstructure:"USER_AGENT"`
	BrowserBin         string `mapstructure:"BROWSER_BIN"`

	PageLoadTimeout  time.Duration `mapstructure:"PAGE_LOAD_TIMEOUT"`
	ActionTimeout    time.Duration `mapstructure:"ACTION_TIMEOUT"`
	NavigationSettle time.Duration `mapstructure:"NAVIGATION_SETTLE"`
	ContentSettle    time.Duration `mapstructure:"CONTENT_SETTLE"`
	PollInterval     time.Duration `mapstructure:"POLL_INTERVAL"`
	ScrollY          int           `mapstructure:"SCROLL_Y"`

	SeedFile    string `mapstructure:"SEED_FILE"`
	SeedColumn  string `mapstructure:"SEED_COLUMN"`
	SeedOffset  int    `mapstructure:"SEED_OFFSET"`
	RepairSeeds bool   `mapstructure:"REPAIR_SEEDS"`
	MaxBatches  int    `mapstructure:"MAX_BATCHES"`

	CommentPages      int    `mapstructure:"COMMENT_PAGES"`
	ListingPages      int    `mapstructure:"LISTING_PAGES"`
	ListingURL        string `mapstructure:"LISTING_URL"`
	CommentOutput     string `mapstructure:"COMMENT_OUTPUT"`
	ListingOutput     string `mapstructure:"LISTING_OUTPUT"`
	ListingSeedOutput string `mapstructure:"LISTING_SEED_OUTPUT"`

	ConsolidateOutput string `mapstructure:"CONSOLIDATE_OUTPUT"`
	NestedColumn      string `mapstructure:"NESTED_COLUMN"`
	FlatColumn        string `mapstructure:"FLAT_COLUMN"`

	PostgresURL   string        `mapstructure:"POSTGRES_URL"`
	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	VisitedTTL    time.Duration `mapstructure:"VISITED_TTL"`
	AMQPURL       string        `mapstructure:"AMQP_URL"`
	AMQPQueue     string        `mapstructure:"AMQP_QUEUE"`
}

// DefaultListingURL is the search listing the listing crawl starts from.
const DefaultListingURL = "https://www.lazada.vn/catalog/?_keyori=ss&from=search_history&page=1&q=giay&spm=a2o4n.homepage.search.2.19053bdcibER4w&sugg=giay_0_1"

var defaults = map[string]any{
	"LOG_LEVEL":    "info",
	"LOG_FORMAT":   "json",
	"METRICS_ADDR": "",

	"DRIVER_ENGINE":        "chromedp",
	"SNAPSHOT_DIR":         "snapshots",
	"HEADLESS":             true,
	"DISABLE_GPU":          true,
	"NO_SANDBOX":           true,
	"DISABLE_DEV_SHM":      true,
	"DISABLE_EXTENSIONS":   true,
	"DISABLE_DNS_PREFETCH": true,
	"WINDOW_WIDTH":         1300,
	"WINDOW_HEIGHT":        900,
	"STEALTH":              false,
	"USER_AGENT":           "",
	"BROWSER_BIN":          "",

	"PAGE_LOAD_TIMEOUT": "60s",
	"ACTION_TIMEOUT":    "10s",
	"NAVIGATION_SETTLE": "5s",
	"CONTENT_SETTLE":    "3s",
	"POLL_INTERVAL":     "250ms",
	"SCROLL_Y":          1200,

	"SEED_FILE":    "lazada_item_url.csv",
	"SEED_COLUMN":  "url",
	"SEED_OFFSET":  0,
	"REPAIR_SEEDS": true,
	"MAX_BATCHES":  2,

	"COMMENT_PAGES":       2,
	"LISTING_PAGES":       49,
	"LISTING_URL":         DefaultListingURL,
	"COMMENT_OUTPUT":      "lazada_comment.csv",
	"LISTING_OUTPUT":      "lazada_url.csv",
	"LISTING_SEED_OUTPUT": "lazada_item_url.csv",

	"CONSOLIDATE_OUTPUT": "output.txt",
	"NESTED_COLUMN":      "",
	"FLAT_COLUMN":        "content",

	"POSTGRES_URL":   "",
	"REDIS_ADDR":     "",
	"REDIS_PASSWORD": "",
	"REDIS_DB":       0,
	"VISITED_TTL":    "48h",
	"AMQP_URL":       "",
	"AMQP_QUEUE":     "harvest.batches",
}

// Load reads configuration from an optional env file and the environment.
// An empty path falls back to ".env" when it exists.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("env")
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	explicit := path != ""
	if !explicit {
		path = ".env"
	}
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else if explicit {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the harvester cannot run with.
func (c *Config) Validate() error {
	var errs []error
	switch c.DriverEngine {
	case "chromedp", "rod", "snapshot":
	default:
		errs = append(errs, fmt.Errorf("DRIVER_ENGINE must be chromedp, rod or snapshot, got %q", c.DriverEngine))
	}
	if c.MaxBatches < 0 {
		errs = append(errs, errors.New("MAX_BATCHES must not be negative"))
	}
	if c.SeedOffset < 0 {
		errs = append(errs, errors.New("SEED_OFFSET must not be negative"))
	}
	if c.CommentPages < 1 || c.ListingPages < 1 {
		errs = append(errs, errors.New("page caps must be at least 1"))
	}
	if c.PollInterval <= 0 {
		errs = append(errs, errors.New("POLL_INTERVAL must be positive"))
	}
	return errors.Join(errs...)
}
