package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrPathPrefixInvalid          = errors.New("docs config: pages path prefix must start with '/'")
	ErrSlugMaxLengthInvalid       = errors.New("docs config: slug max length must be positive")
	ErrSlugMaxAttemptsInvalid     = errors.New("docs config: slug max attempts must be positive")
	ErrCreateRetriesInvalid       = errors.New("docs config: create retries must be zero or positive")
	ErrStorageProviderUnknown     = errors.New("docs config: storage provider is invalid")
	ErrStorageDialectUnknown      = errors.New("docs config: storage dialect is invalid")
	ErrStorageDSNRequired         = errors.New("docs config: storage dsn is required for the bun provider")
	ErrCacheTTLInvalid            = errors.New("docs config: cache ttl must be zero or positive")
	ErrMarkdownContentDirRequired = errors.New("docs config: markdown content directory is required when import is enabled")
	ErrHTTPBasePathInvalid        = errors.New("docs config: http base path must start with '/'")
	ErrLoggingProviderRequired    = errors.New("docs config: logging provider is required when logging feature is enabled")
	ErrLoggingProviderUnknown     = errors.New("docs config: logging provider is invalid")
	ErrLoggingLevelInvalid        = errors.New("docs config: logging level is invalid")
	ErrLoggingFormatInvalid       = errors.New("docs config: logging format is invalid")
	ErrCommandsTimeoutInvalid     = errors.New("docs config: command timeout must be zero or positive")
	ErrDispatcherRequiresCommands = errors.New("docs config: dispatcher auto-registration requires commands to be enabled")
)

// Config aggregates feature flags and adapter bindings for the documentation module.
type Config struct {
	Pages    PagesConfig    `mapstructure:"pages"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Markdown MarkdownConfig `mapstructure:"markdown"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Features Features       `mapstructure:"features"`
	Commands CommandsConfig `mapstructure:"commands"`
}

// PagesConfig tunes page addressing and slug generation.
type PagesConfig struct {
	PathPrefix      string `mapstructure:"path_prefix"`
	SlugMaxLength   int    `mapstructure:"slug_max_length"`
	SlugPlaceholder string `mapstructure:"slug_placeholder"`
	SlugMaxAttempts int    `mapstructure:"slug_max_attempts"`
	CreateRetries   int    `mapstructure:"create_retries"`
	ExcerptLength   int    `mapstructure:"excerpt_length"`
}

// StorageConfig selects the page repository backend.
type StorageConfig struct {
	Provider     string `mapstructure:"provider"`
	Dialect      string `mapstructure:"dialect"`
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

// CacheConfig captures cache behaviour toggles. Only the bun provider is cached.
type CacheConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	DefaultTTL time.Duration `mapstructure:"default_ttl"`
}

// MarkdownConfig captures filesystem and parser behaviour for markdown import.
type MarkdownConfig struct {
	ContentDir string               `mapstructure:"content_dir"`
	Pattern    string               `mapstructure:"pattern"`
	Recursive  bool                 `mapstructure:"recursive"`
	Parser     MarkdownParserConfig `mapstructure:"parser"`
}

// MarkdownParserConfig mirrors interfaces.ParseOptions for runtime configuration.
type MarkdownParserConfig struct {
	Extensions []string `mapstructure:"extensions"`
	Sanitize   bool     `mapstructure:"sanitize"`
	HardWraps  bool     `mapstructure:"hard_wraps"`
	SafeMode   bool     `mapstructure:"safe_mode"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `mapstructure:"provider"`
	Level     string   `mapstructure:"level"`
	Format    string   `mapstructure:"format"`
	AddSource bool     `mapstructure:"add_source"`
	Focus     []string `mapstructure:"focus"`
}

// HTTPConfig configures the admin API listener.
type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	BasePath        string        `mapstructure:"base_path"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Features toggles module functionality.
type Features struct {
	Import  bool `mapstructure:"import"`
	Preview bool `mapstructure:"preview"`
	Logger  bool `mapstructure:"logger"`
}

// CommandsConfig captures optional command-layer behaviour.
type CommandsConfig struct {
	Enabled                bool          `mapstructure:"enabled"`
	AutoRegisterDispatcher bool          `mapstructure:"auto_register_dispatcher"`
	Timeout                time.Duration `mapstructure:"timeout"`
}

// DefaultConfig returns the defaults used by docsctl and the test container.
func DefaultConfig() Config {
	return Config{
		Pages: PagesConfig{
			PathPrefix:      "/docs",
			SlugMaxLength:   100,
			SlugPlaceholder: "untitled",
			SlugMaxAttempts: 1000,
			CreateRetries:   3,
			ExcerptLength:   160,
		},
		Storage: StorageConfig{
			Provider: "memory",
			Dialect:  "sqlite",
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Markdown: MarkdownConfig{
			ContentDir: "content",
			Recursive:  true,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
		HTTP: HTTPConfig{
			Addr:            ":8080",
			BasePath:        "/api",
			ReadTimeout:     15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Features: Features{
			Import:  true,
			Preview: true,
		},
		Commands: CommandsConfig{
			Enabled: true,
			Timeout: 30 * time.Second,
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if prefix := strings.TrimSpace(cfg.Pages.PathPrefix); prefix != "" && !strings.HasPrefix(prefix, "/") {
		return fmt.Errorf("%w: %q", ErrPathPrefixInvalid, prefix)
	}
	if cfg.Pages.SlugMaxLength <= 0 {
		return ErrSlugMaxLengthInvalid
	}
	if cfg.Pages.SlugMaxAttempts <= 0 {
		return ErrSlugMaxAttemptsInvalid
	}
	if cfg.Pages.CreateRetries < 0 {
		return ErrCreateRetriesInvalid
	}

	switch provider := normalize(cfg.Storage.Provider); provider {
	case "", "memory":
	case "bun":
		switch normalize(cfg.Storage.Dialect) {
		case "sqlite", "postgres":
		default:
			return fmt.Errorf("%w: %s", ErrStorageDialectUnknown, cfg.Storage.Dialect)
		}
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, provider)
	}

	if cfg.Cache.DefaultTTL < 0 {
		return ErrCacheTTLInvalid
	}
	if cfg.Features.Import && strings.TrimSpace(cfg.Markdown.ContentDir) == "" {
		return ErrMarkdownContentDirRequired
	}
	if base := strings.TrimSpace(cfg.HTTP.BasePath); base != "" && !strings.HasPrefix(base, "/") {
		return fmt.Errorf("%w: %q", ErrHTTPBasePathInvalid, base)
	}
	if cfg.Commands.Timeout < 0 {
		return ErrCommandsTimeoutInvalid
	}
	if cfg.Commands.AutoRegisterDispatcher && !cfg.Commands.Enabled {
		return ErrDispatcherRequiresCommands
	}

	if cfg.Features.Logger {
		provider := normalize(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
