package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/codepilotrules/go-docs/internal/runtimeconfig"
)

// EnvPrefix namespaces environment overrides, e.g. DOCS_STORAGE_DSN.
const EnvPrefix = "DOCS"

// LoadEnvFile loads path into the process environment. A missing file is not
// an error so the default .env stays optional.
func LoadEnvFile(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// LoadConfig layers the YAML file at path (optional) and DOCS_* environment
// variables over runtimeconfig.DefaultConfig.
func LoadConfig(path string) (runtimeconfig.Config, error) {
	v := viper.New()
	setDefaults(v, runtimeconfig.DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path = strings.TrimSpace(path); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return runtimeconfig.Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg runtimeconfig.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return runtimeconfig.Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper, d runtimeconfig.Config) {
	v.SetDefault("pages.path_prefix", d.Pages.PathPrefix)
	v.SetDefault("pages.slug_max_length", d.Pages.SlugMaxLength)
	v.SetDefault("pages.slug_placeholder", d.Pages.SlugPlaceholder)
	v.SetDefault("pages.slug_max_attempts", d.Pages.SlugMaxAttempts)
	v.SetDefault("pages.create_retries", d.Pages.CreateRetries)
	v.SetDefault("pages.excerpt_length", d.Pages.ExcerptLength)

	v.SetDefault("storage.provider", d.Storage.Provider)
	v.SetDefault("storage.dialect", d.Storage.Dialect)
	v.SetDefault("storage.dsn", d.Storage.DSN)
	v.SetDefault("storage.max_open_conns", d.Storage.MaxOpenConns)

	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.default_ttl", d.Cache.DefaultTTL)

	v.SetDefault("markdown.content_dir", d.Markdown.ContentDir)
	v.SetDefault("markdown.pattern", d.Markdown.Pattern)
	v.SetDefault("markdown.recursive", d.Markdown.Recursive)
	v.SetDefault("markdown.parser.extensions", d.Markdown.Parser.Extensions)
	v.SetDefault("markdown.parser.sanitize", d.Markdown.Parser.Sanitize)
	v.SetDefault("markdown.parser.hard_wraps", d.Markdown.Parser.HardWraps)
	v.SetDefault("markdown.parser.safe_mode", d.Markdown.Parser.SafeMode)

	v.SetDefault("logging.provider", d.Logging.Provider)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.add_source", d.Logging.AddSource)
	v.SetDefault("logging.focus", d.Logging.Focus)

	v.SetDefault("http.addr", d.HTTP.Addr)
	v.SetDefault("http.base_path", d.HTTP.BasePath)
	v.SetDefault("http.read_timeout", d.HTTP.ReadTimeout)
	v.SetDefault("http.shutdown_timeout", d.HTTP.ShutdownTimeout)

	v.SetDefault("features.import", d.Features.Import)
	v.SetDefault("features.preview", d.Features.Preview)
	v.SetDefault("features.logger", d.Features.Logger)

	v.SetDefault("commands.enabled", d.Commands.Enabled)
	v.SetDefault("commands.auto_register_dispatcher", d.Commands.AutoRegisterDispatcher)
	v.SetDefault("commands.timeout", d.Commands.Timeout)
}
