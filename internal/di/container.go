package di

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"

	"github.com/codepilotrules/go-docs/internal/database"
	cmshttp "github.com/codepilotrules/go-docs/internal/http"
	"github.com/codepilotrules/go-docs/internal/importer"
	"github.com/codepilotrules/go-docs/internal/logging"
	"github.com/codepilotrules/go-docs/internal/logging/console"
	"github.com/codepilotrules/go-docs/internal/logging/gologger"
	"github.com/codepilotrules/go-docs/internal/markdown"
	"github.com/codepilotrules/go-docs/internal/pages"
	"github.com/codepilotrules/go-docs/internal/runtimeconfig"
	"github.com/codepilotrules/go-docs/pkg/interfaces"
)

const containerModule = "docs.di"

// Container wires module dependencies from a runtime configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	logger         interfaces.Logger
	auth           interfaces.AuthProvider
	clock          func() time.Time
	contentFS      fs.FS

	bunDB         *bun.DB
	ownsDB        bool
	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	pageRepo pages.PageRepository
	pageSvc  pages.Service

	parser      interfaces.MarkdownParser
	markdownSvc *markdown.Service
	importer    *importer.Importer
	adminAPI    *cmshttp.AdminAPI

	commands      *CommandHandlers
	subscriptions []subscription
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider selected by the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithAuthProvider guards admin API mutations with provider.
func WithAuthProvider(provider interfaces.AuthProvider) Option {
	return func(c *Container) {
		c.auth = provider
	}
}

// WithBunDB uses db for page storage regardless of the storage provider.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the default cache service.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithPageRepository overrides the repository chosen from the storage config.
func WithPageRepository(repo pages.PageRepository) Option {
	return func(c *Container) {
		c.pageRepo = repo
	}
}

// WithPageService overrides the default page service binding.
func WithPageService(svc pages.Service) Option {
	return func(c *Container) {
		c.pageSvc = svc
	}
}

// WithContentFS roots the markdown loader at filesystem instead of the
// configured content directory.
func WithContentFS(filesystem fs.FS) Option {
	return func(c *Container) {
		c.contentFS = filesystem
	}
}

// WithClock overrides the page service clock.
func WithClock(clock func() time.Time) Option {
	return func(c *Container) {
		c.clock = clock
	}
}

// NewContainer validates cfg and builds every service it enables.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		Config:   cfg,
		cacheTTL: cfg.Cache.DefaultTTL,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	c.logger = logging.ModuleLogger(c.loggerProvider, containerModule)

	c.configureCacheDefaults()
	if err := c.configureRepositories(); err != nil {
		return nil, err
	}
	if err := c.configureMarkdown(); err != nil {
		c.Close()
		return nil, err
	}
	c.configurePages()
	if err := c.configureImporter(); err != nil {
		c.Close()
		return nil, err
	}
	c.configureAdminAPI()
	c.configureCommands()

	logging.WithFields(c.logger, map[string]any{
		"storage": c.storageName(),
		"cache":   c.cacheService != nil,
		"import":  c.importer != nil,
		"preview": cfg.Features.Preview,
	}).Info("container.configured")

	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return nil
	}

	logCfg := c.Config.Logging
	switch strings.ToLower(strings.TrimSpace(logCfg.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     logCfg.Level,
			Format:    logCfg.Format,
			AddSource: logCfg.AddSource,
			Focus:     logCfg.Focus,
		})
		if err != nil {
			return fmt.Errorf("di: configure go-logger: %w", err)
		}
		c.loggerProvider = provider
	default:
		options := console.Options{}
		if level, ok := console.ParseLevel(logCfg.Level); ok {
			options.MinLevel = &level
		}
		c.loggerProvider = console.NewProvider(options)
	}
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.cacheTTL > 0 {
			cfg.TTL = c.cacheTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		} else {
			c.logger.Warn("cache.disabled", "error", err)
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureRepositories() error {
	if c.pageRepo != nil || c.pageSvc != nil {
		return nil
	}

	if c.bunDB == nil && strings.EqualFold(strings.TrimSpace(c.Config.Storage.Provider), "bun") {
		db, err := database.Open(database.Config{
			Dialect:      c.Config.Storage.Dialect,
			DSN:          c.Config.Storage.DSN,
			MaxOpenConns: c.Config.Storage.MaxOpenConns,
		})
		if err != nil {
			return fmt.Errorf("di: open storage: %w", err)
		}
		if err := database.EnsureSchema(context.Background(), db); err != nil {
			_ = db.Close()
			return fmt.Errorf("di: ensure schema: %w", err)
		}
		c.bunDB = db
		c.ownsDB = true
	}

	if c.bunDB != nil {
		c.pageRepo = pages.NewBunPageRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		return nil
	}
	c.pageRepo = pages.NewMemoryPageRepository()
	return nil
}

func (c *Container) configureMarkdown() error {
	mdCfg := c.Config.Markdown
	parseOpts := interfaces.ParseOptions{
		Extensions: append([]string(nil), mdCfg.Parser.Extensions...),
		Sanitize:   mdCfg.Parser.Sanitize,
		HardWraps:  mdCfg.Parser.HardWraps,
		SafeMode:   mdCfg.Parser.SafeMode,
	}
	c.parser = markdown.NewGoldmarkParser(parseOpts)

	if !c.Config.Features.Import {
		return nil
	}

	serviceOpts := []markdown.ServiceOption{
		markdown.WithParser(c.parser),
		markdown.WithLogger(logging.MarkdownLogger(c.loggerProvider)),
	}
	if c.contentFS != nil {
		serviceOpts = append(serviceOpts, markdown.WithFS(c.contentFS))
	} else if _, err := os.Stat(mdCfg.ContentDir); errors.Is(err, fs.ErrNotExist) {
		c.logger.Warn("markdown.content_dir_missing", "content_dir", mdCfg.ContentDir)
		return nil
	}

	patterns := []string(nil)
	if pattern := strings.TrimSpace(mdCfg.Pattern); pattern != "" {
		patterns = []string{pattern}
	}
	svc, err := markdown.NewService(markdown.Config{
		BasePath:  mdCfg.ContentDir,
		Patterns:  patterns,
		Recursive: mdCfg.Recursive,
		Parser:    parseOpts,
	}, serviceOpts...)
	if err != nil {
		return fmt.Errorf("di: configure markdown: %w", err)
	}
	c.markdownSvc = svc
	return nil
}

func (c *Container) configurePages() {
	if c.pageSvc != nil {
		return
	}

	pagesCfg := c.Config.Pages
	pageOpts := []pages.ServiceOption{
		pages.WithLogger(logging.PagesLogger(c.loggerProvider)),
		pages.WithPathPrefix(pagesCfg.PathPrefix),
		pages.WithCreateRetries(pagesCfg.CreateRetries),
		pages.WithExcerptLength(pagesCfg.ExcerptLength),
		pages.WithSlugOptions(c.slugOptions()),
	}
	if c.clock != nil {
		pageOpts = append(pageOpts, pages.WithClock(c.clock))
	}
	if c.Config.Features.Preview {
		pageOpts = append(pageOpts, pages.WithPreviewRenderer(c.parser))
	}
	c.pageSvc = pages.NewService(c.pageRepo, pageOpts...)
}

func (c *Container) slugOptions() pages.SlugOptions {
	opts := pages.DefaultSlugOptions()
	if c.Config.Pages.SlugMaxLength > 0 {
		opts.MaxLength = c.Config.Pages.SlugMaxLength
	}
	if placeholder := strings.TrimSpace(c.Config.Pages.SlugPlaceholder); placeholder != "" {
		opts.Placeholder = placeholder
	}
	if c.Config.Pages.SlugMaxAttempts > 0 {
		opts.MaxAttempts = c.Config.Pages.SlugMaxAttempts
	}
	return opts
}

func (c *Container) configureImporter() error {
	if c.markdownSvc == nil {
		return nil
	}
	imp, err := importer.New(importer.Config{
		Pages:  c.pageSvc,
		Source: c.markdownSvc,
		Logger: logging.ImporterLogger(c.loggerProvider),
		Slugs:  c.slugOptions(),
	})
	if err != nil {
		return fmt.Errorf("di: configure importer: %w", err)
	}
	c.importer = imp
	return nil
}

func (c *Container) configureAdminAPI() {
	opts := []cmshttp.AdminOption{
		cmshttp.WithPageService(c.pageSvc),
		cmshttp.WithLogger(logging.HTTPLogger(c.loggerProvider)),
		cmshttp.WithPreviewEnabled(c.Config.Features.Preview),
	}
	if base := strings.TrimSpace(c.Config.HTTP.BasePath); base != "" {
		opts = append(opts, cmshttp.WithBasePath(base))
	}
	if c.auth != nil {
		opts = append(opts, cmshttp.WithAuthProvider(c.auth))
	}
	c.adminAPI = cmshttp.NewAdminAPI(opts...)
}

func (c *Container) storageName() string {
	switch {
	case c.bunDB != nil:
		return "bun:" + c.bunDB.Dialect().Name().String()
	case c.pageRepo != nil:
		return "memory"
	default:
		return "external"
	}
}

// Close releases dispatcher subscriptions and any database the container
// opened itself.
func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	for _, sub := range c.subscriptions {
		sub.Unsubscribe()
	}
	c.subscriptions = nil

	if c.ownsDB && c.bunDB != nil {
		err := c.bunDB.Close()
		c.bunDB = nil
		c.ownsDB = false
		return err
	}
	return nil
}

// LoggerProvider returns the configured provider, or nil when logging is off.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// BunDB returns the database handle when storage is bun-backed.
func (c *Container) BunDB() *bun.DB {
	return c.bunDB
}

// PageRepository returns the configured page repository.
func (c *Container) PageRepository() pages.PageRepository {
	return c.pageRepo
}

// PageService returns the configured page service.
func (c *Container) PageService() pages.Service {
	return c.pageSvc
}

// MarkdownParser returns the goldmark parser shared by preview and import.
func (c *Container) MarkdownParser() interfaces.MarkdownParser {
	return c.parser
}

// MarkdownService returns the markdown loader, or nil when import is off.
func (c *Container) MarkdownService() *markdown.Service {
	return c.markdownSvc
}

// Importer returns the directory importer, or nil when import is off.
func (c *Container) Importer() *importer.Importer {
	return c.importer
}

// AdminAPI returns the HTTP adapter over the page service.
func (c *Container) AdminAPI() *cmshttp.AdminAPI {
	return c.adminAPI
}

// Commands returns the command handlers, or nil when commands are disabled.
func (c *Container) Commands() *CommandHandlers {
	return c.commands
}
