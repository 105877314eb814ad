package config

// Storage backend identifiers.
const (
	StorageBackendS3    = "s3"
	StorageBackendLocal = "local"
)

const (
	defaultDataDir            = "~/.local/share/slate"
	defaultLogDir             = "~/.local/share/slate/logs"
	defaultStudioBaseURL      = "http://localhost:1337"
	defaultStudioTimeout      = 30
	defaultStorageBackend     = StorageBackendLocal
	defaultStorageLocalDir    = "~/.local/share/slate/uploads"
	defaultRenderPollInterval = 2
	defaultSourceTimeout      = 15
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Studio: Studio{
			BaseURL:        defaultStudioBaseURL,
			RequestTimeout: defaultStudioTimeout,
		},
		Storage: Storage{
			Backend:  defaultStorageBackend,
			LocalDir: defaultStorageLocalDir,
		},
		Workflow: Workflow{
			RenderPollInterval: defaultRenderPollInterval,
			SourceTimeout:      defaultSourceTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
