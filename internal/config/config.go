// Package config loads the onboarding settings from defaults, an optional
// YAML file, a .env file, ONBOARD_* environment variables and command-line
// flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix is the environment variable prefix; "llm.endpoint" is read
// from ONBOARD_LLM_ENDPOINT.
const EnvPrefix = "ONBOARD"

// Config is the full application configuration.
type Config struct {
	Home     string         `mapstructure:"-"`
	DB       DBConfig       `mapstructure:"db"`
	Log      LogConfig      `mapstructure:"log"`
	PDF      PDFConfig      `mapstructure:"pdf"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Persist  PersistConfig  `mapstructure:"persist"`
	Identity IdentityConfig `mapstructure:"identity"`
	Extract  ExtractConfig  `mapstructure:"extract"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	File    string `mapstructure:"file"`
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
}

type PDFConfig struct {
	Endpoint      string `mapstructure:"endpoint"`
	TimeoutMs     int    `mapstructure:"timeout_ms"`
	MaxRetries    int    `mapstructure:"max_retries"`
	LocalFallback bool   `mapstructure:"local_fallback"`
	CacheSize     int    `mapstructure:"cache_size"`
	MaxFileMB     int    `mapstructure:"max_file_mb"`
}

type LLMConfig struct {
	Endpoint   string `mapstructure:"endpoint"`
	TimeoutMs  int    `mapstructure:"timeout_ms"`
	MaxRetries int    `mapstructure:"max_retries"`
	LogCalls   bool   `mapstructure:"log_calls"`
}

type PersistConfig struct {
	Endpoint   string `mapstructure:"endpoint"`
	TimeoutMs  int    `mapstructure:"timeout_ms"`
	MaxRetries int    `mapstructure:"max_retries"`
}

type IdentityConfig struct {
	Email     string `mapstructure:"email"`
	IDToken   string `mapstructure:"id_token"`
	JWTSecret string `mapstructure:"jwt_secret"`
}

type ExtractConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// Timeout converts the configured milliseconds.
func (c PDFConfig) Timeout() time.Duration { return ms(c.TimeoutMs) }

// MaxFileBytes is the per-file upload limit.
func (c PDFConfig) MaxFileBytes() int64 { return int64(c.MaxFileMB) * 1024 * 1024 }

// Timeout converts the configured milliseconds.
func (c PersistConfig) Timeout() time.Duration { return ms(c.TimeoutMs) }

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

// Options controls where Load looks.
type Options struct {
	// Home is the state directory; defaults to ~/.onboard.
	Home string
	// File is an explicit config file; when empty Home/config.yaml is
	// used if it exists.
	File string
	// EnvFile is a dotenv file; defaults to ".env" in the working directory.
	EnvFile string
	// Flags are bound over every other source.
	Flags *pflag.FlagSet
}

// flagKeys maps command-line flag names onto config keys.
var flagKeys = map[string]string{
	"db":          "db.path",
	"log-level":   "log.level",
	"log-file":    "log.file",
	"verbose":     "log.console",
	"email":       "identity.email",
	"id-token":    "identity.id_token",
	"pdf-api":     "pdf.endpoint",
	"ai-api":      "llm.endpoint",
	"api":         "persist.endpoint",
	"concurrency": "extract.concurrency",
}

func setDefaults(v *viper.Viper, home string) {
	v.SetDefault("db.path", filepath.Join(home, "onboard.db"))
	v.SetDefault("log.file", filepath.Join(home, "onboard.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.console", false)

	v.SetDefault("pdf.endpoint", "http://localhost:8080/api")
	v.SetDefault("pdf.timeout_ms", 60000)
	v.SetDefault("pdf.max_retries", 0)
	v.SetDefault("pdf.local_fallback", true)
	v.SetDefault("pdf.cache_size", 64)
	v.SetDefault("pdf.max_file_mb", 50)

	v.SetDefault("llm.endpoint", "http://localhost:8080/api")
	v.SetDefault("llm.timeout_ms", 60000)
	v.SetDefault("llm.max_retries", 0)
	v.SetDefault("llm.log_calls", false)

	v.SetDefault("persist.endpoint", "http://localhost:8081")
	v.SetDefault("persist.timeout_ms", 15000)
	v.SetDefault("persist.max_retries", 0)

	v.SetDefault("identity.email", "")
	v.SetDefault("identity.id_token", "")
	v.SetDefault("identity.jwt_secret", "")

	v.SetDefault("extract.concurrency", 2)
}

// Load resolves the configuration.
func Load(opts Options) (*Config, error) {
	home := opts.Home
	if home == "" {
		userHome, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		home = filepath.Join(userHome, ".onboard")
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", envFile, err)
	}

	v := viper.New()
	setDefaults(v, home)

	v.SetConfigType("yaml")
	switch {
	case opts.File != "":
		v.SetConfigFile(opts.File)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", opts.File, err)
		}
	default:
		v.AddConfigPath(home)
		v.SetConfigName("config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.Flags != nil {
		for name, key := range flagKeys {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Home = home
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges and required values.
func (c *Config) Validate() error {
	var errs []error
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	for key, endpoint := range map[string]string{
		"pdf.endpoint":     c.PDF.Endpoint,
		"llm.endpoint":     c.LLM.Endpoint,
		"persist.endpoint": c.Persist.Endpoint,
	} {
		if strings.TrimSpace(endpoint) == "" {
			errs = append(errs, fmt.Errorf("%s is required", key))
		}
	}
	if c.PDF.MaxFileMB <= 0 {
		errs = append(errs, errors.New("pdf.max_file_mb must be positive"))
	}
	if c.Extract.Concurrency <= 0 {
		errs = append(errs, errors.New("extract.concurrency must be positive"))
	}
	for key, n := range map[string]int{
		"pdf.max_retries":     c.PDF.MaxRetries,
		"llm.max_retries":     c.LLM.MaxRetries,
		"persist.max_retries": c.Persist.MaxRetries,
	} {
		if n < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative", key))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}
