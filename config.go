package docs

import "github.com/codepilotrules/go-docs/internal/runtimeconfig"

var (
	ErrPathPrefixInvalid          = runtimeconfig.ErrPathPrefixInvalid
	ErrSlugMaxLengthInvalid       = runtimeconfig.ErrSlugMaxLengthInvalid
	ErrSlugMaxAttemptsInvalid     = runtimeconfig.ErrSlugMaxAttemptsInvalid
	ErrCreateRetriesInvalid       = runtimeconfig.ErrCreateRetriesInvalid
	ErrStorageProviderUnknown     = runtimeconfig.ErrStorageProviderUnknown
	ErrStorageDialectUnknown      = runtimeconfig.ErrStorageDialectUnknown
	ErrStorageDSNRequired         = runtimeconfig.ErrStorageDSNRequired
	ErrCacheTTLInvalid            = runtimeconfig.ErrCacheTTLInvalid
	ErrMarkdownContentDirRequired = runtimeconfig.ErrMarkdownContentDirRequired
	ErrHTTPBasePathInvalid        = runtimeconfig.ErrHTTPBasePathInvalid
	ErrLoggingProviderRequired    = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown     = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid        = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid       = runtimeconfig.ErrLoggingFormatInvalid
	ErrCommandsTimeoutInvalid     = runtimeconfig.ErrCommandsTimeoutInvalid
	ErrDispatcherRequiresCommands = runtimeconfig.ErrDispatcherRequiresCommands
)

type (
	Config               = runtimeconfig.Config
	PagesConfig          = runtimeconfig.PagesConfig
	StorageConfig        = runtimeconfig.StorageConfig
	CacheConfig          = runtimeconfig.CacheConfig
	MarkdownConfig       = runtimeconfig.MarkdownConfig
	MarkdownParserConfig = runtimeconfig.MarkdownParserConfig
	LoggingConfig        = runtimeconfig.LoggingConfig
	HTTPConfig           = runtimeconfig.HTTPConfig
	Features             = runtimeconfig.Features
	CommandsConfig       = runtimeconfig.CommandsConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
