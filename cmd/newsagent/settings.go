package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jonathan/career-news/internal/config"
	"github.com/jonathan/career-news/internal/logging"
)

// commonFlags are the settings shared by every subcommand that talks to a service.
type commonFlags struct {
	configPath  string
	ownerID     string
	jobGroup    string
	jobRole     string
	apiKey      string
	databaseURL string
	redisURL    string
	logLevel    string
	logFormat   string
	verbose     bool
}

func (f *commonFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.configPath, "config", "", "Path to a config.json or config.yaml file (values can be overridden by other flags)")
	fs.StringVar(&f.ownerID, "owner", "", "Owner ID the records belong to")
	fs.StringVarP(&f.jobGroup, "group", "g", "", "Job group, e.g. 개발")
	fs.StringVarP(&f.jobRole, "role", "r", "", "Job role, e.g. 백엔드 개발자")
	fs.StringVar(&f.apiKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	fs.StringVar(&f.databaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	fs.StringVar(&f.redisURL, "redis-url", "", "Redis URL for the shared keyword cache (optional, defaults to REDIS_URL env var)")
	fs.StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	fs.StringVar(&f.logFormat, "log-format", "", "Log format: text or json")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "Print detailed run reports")
}

// resolveConfig layers the config file, explicitly set flags, the environment
// and the defaults, in that order of precedence, and validates the result.
func (f *commonFlags) resolveConfig(cmd *cobra.Command, lookup func(string) (string, bool)) (config.Config, error) {
	var cfg config.Config
	if f.configPath != "" {
		loaded, err := config.LoadConfig(f.configPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}

	flags := cmd.Flags()
	overrideString := func(name string, dst *string, val string) {
		if flags.Changed(name) {
			*dst = val
		}
	}
	overrideString("owner", &cfg.OwnerID, f.ownerID)
	overrideString("group", &cfg.JobGroup, f.jobGroup)
	overrideString("role", &cfg.JobRole, f.jobRole)
	overrideString("api-key", &cfg.APIKey, f.apiKey)
	overrideString("db-url", &cfg.DatabaseURL, f.databaseURL)
	overrideString("redis-url", &cfg.RedisURL, f.redisURL)
	overrideString("log-level", &cfg.LogLevel, f.logLevel)
	overrideString("log-format", &cfg.LogFormat, f.logFormat)
	if flags.Changed("verbose") {
		cfg.Verbose = f.verbose
	}

	if lookup == nil {
		lookup = os.LookupEnv
	}
	cfg.ApplyEnv(lookup)
	cfg = cfg.MergeWithDefaults(config.Defaults())

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newLogger(cfg config.Config) *slog.Logger {
	return logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
}
