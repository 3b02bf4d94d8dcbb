package config

const (
	defaultDataDir        = "~/.local/share/shelfarr"
	defaultLogDir         = "~/.local/share/shelfarr/logs"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultRequestTimeout = 10

	defaultAudnexusBaseURL    = "https://api.audnex.us"
	defaultGoogleBooksBaseURL = "https://www.googleapis.com/books/v1"
	defaultOpenLibraryBaseURL = "https://openlibrary.org"

	defaultScanParallelism = 4
)

// defaultExtensions are the audio containers the scanner treats as
// audiobooks.
var defaultExtensions = []string{".m4b", ".m4a", ".mp3", ".flac", ".ogg", ".opus"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Providers: Providers{
			Audnexus:       Provider{BaseURL: defaultAudnexusBaseURL, RequestTimeout: defaultRequestTimeout},
			GoogleBooks:    Provider{BaseURL: defaultGoogleBooksBaseURL, RequestTimeout: defaultRequestTimeout},
			OpenLibrary:    Provider{BaseURL: defaultOpenLibraryBaseURL, RequestTimeout: defaultRequestTimeout},
			LanguageFilter: "all",
		},
		Audiobookshelf: Audiobookshelf{
			RequestTimeout: defaultRequestTimeout,
		},
		Scanner: Scanner{
			Extensions: append([]string(nil), defaultExtensions...),
		},
		Scan: Scan{
			Parallelism: defaultScanParallelism,
		},
		Notifications: Notifications{
			RequestTimeout: defaultRequestTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
