package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "EASSC"

// Config is the server configuration, read from EASSC_* environment variables.
type Config struct {
	AllowedDirs string `envconfig:"ALLOWED_DIRS"`

	MaxConcurrentRequests int           `envconfig:"MAX_CONCURRENT_REQUESTS" default:"10"`
	MaxOpenSessions       int           `envconfig:"MAX_OPEN_SESSIONS" default:"8"`
	MaxFilesPerBatch      int           `envconfig:"MAX_FILES_PER_BATCH" default:"24"`
	MaxFileBytes          int64         `envconfig:"MAX_FILE_BYTES" default:"16777216"`
	OperationTimeout      time.Duration `envconfig:"OPERATION_TIMEOUT" default:"60s"`
	AcquireRequestTimeout time.Duration `envconfig:"ACQUIRE_REQUEST_TIMEOUT" default:"2s"`
	SessionTTL            time.Duration `envconfig:"SESSION_TTL" default:"30m"`
	SessionCleanupPeriod  time.Duration `envconfig:"SESSION_CLEANUP_PERIOD" default:"1m"`

	ProductColumn   int  `envconfig:"PRODUCT_COLUMN" default:"1"`
	HeaderLookahead int  `envconfig:"HEADER_LOOKAHEAD" default:"4"`
	StrictNumbers   bool `envconfig:"STRICT_NUMBERS" default:"false"`
	EnableUploads   bool `envconfig:"ENABLE_UPLOADS" default:"true"`

	LogLevel           string `envconfig:"LOG_LEVEL" default:"info"`
	Model              string `envconfig:"MODEL" default:"gpt-4o"`
	SummaryTokenBudget int    `envconfig:"SUMMARY_TOKEN_BUDGET" default:"2000"`
}

// Load reads an optional .env file (missing files are ignored) and then the
// environment. The returned config is validated.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		// godotenv never overrides variables that are already set.
		_ = godotenv.Load(f)
	}

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// AllowedDirList splits AllowedDirs on the OS path list separator.
func (c *Config) AllowedDirList() []string {
	if strings.TrimSpace(c.AllowedDirs) == "" {
		return nil
	}
	return filepath.SplitList(c.AllowedDirs)
}

func (c *Config) validate() error {
	var errs []error
	if c.MaxConcurrentRequests <= 0 {
		errs = append(errs, errors.New("MAX_CONCURRENT_REQUESTS must be positive"))
	}
	if c.MaxOpenSessions <= 0 {
		errs = append(errs, errors.New("MAX_OPEN_SESSIONS must be positive"))
	}
	if c.MaxFilesPerBatch <= 0 {
		errs = append(errs, errors.New("MAX_FILES_PER_BATCH must be positive"))
	}
	if c.MaxFileBytes <= 0 {
		errs = append(errs, errors.New("MAX_FILE_BYTES must be positive"))
	}
	if c.ProductColumn < 0 {
		errs = append(errs, errors.New("PRODUCT_COLUMN must be >= 0"))
	}
	if c.HeaderLookahead <= 0 {
		errs = append(errs, errors.New("HEADER_LOOKAHEAD must be positive"))
	}
	switch strings.ToLower(c.LogLevel) {
	case "trace", "debug", "info", "warn", "error", "disabled":
	default:
		errs = append(errs, fmt.Errorf("invalid LOG_LEVEL %q", c.LogLevel))
	}
	return errors.Join(errs...)
}
