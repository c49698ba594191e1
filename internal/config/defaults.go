package config

const (
	defaultDataDir            = "~/.local/share/posterlang"
	defaultLogDir             = "~/.local/share/posterlang/logs"
	defaultAPIBind            = "127.0.0.1:7519"
	defaultTMDBBaseURL        = "https://api.themoviedb.org/3"
	defaultTMDBLanguage       = "en-US"
	defaultTMDBRequestTimeout = 30
	defaultTMDBMaxRetries     = 3
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultStrategy           = StrategyOriginalLanguageFirst
	defaultDisplayLanguage    = "en"
	defaultLanguageCachePath  = "~/.cache/posterlang/language_cache.json"
	defaultHistoryPath        = "~/.local/share/posterlang/history.db"
	defaultWarmDelayMillis    = 250
	defaultJellyfinEnabled    = false
)

// Canonical selection strategy values.
const (
	StrategyOriginalLanguageFirst = "original-language-first"
	StrategyNoTextPosterFirst     = "no-text-poster-first"
	StrategyHighestRatingFirst    = "highest-rating-first"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		TMDB: TMDB{
			BaseURL:        defaultTMDBBaseURL,
			Language:       defaultTMDBLanguage,
			RequestTimeout: defaultTMDBRequestTimeout,
			MaxRetries:     defaultTMDBMaxRetries,
		},
		Jellyfin: Jellyfin{
			Enabled: defaultJellyfinEnabled,
		},
		Selection: Selection{
			Strategy:         defaultStrategy,
			IncludeBackdrops: true,
			IncludeLogos:     true,
			DisplayLanguage:  defaultDisplayLanguage,
		},
		LanguageCache: LanguageCache{
			Enabled: true,
			Path:    defaultLanguageCachePath,
		},
		History: History{
			Enabled: true,
			Path:    defaultHistoryPath,
		},
		Warm: Warm{
			DelayMillis: defaultWarmDelayMillis,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
