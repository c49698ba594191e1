package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeTMDB(); err != nil {
		return err
	}
	if err := c.normalizeJellyfin(); err != nil {
		return err
	}
	c.normalizeSelection()
	if err := c.normalizeStores(); err != nil {
		return err
	}
	c.normalizeWarm()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	c.Paths.APIToken = strings.TrimSpace(c.Paths.APIToken)
	return nil
}

func (c *Config) normalizeTMDB() error {
	if c.TMDB.APIKey == "" {
		if value, ok := os.LookupEnv("TMDB_API_KEY"); ok {
			c.TMDB.APIKey = strings.TrimSpace(value)
		}
	}
	c.TMDB.BaseURL = strings.TrimSpace(c.TMDB.BaseURL)
	if c.TMDB.BaseURL == "" {
		c.TMDB.BaseURL = defaultTMDBBaseURL
	}
	c.TMDB.Language = strings.TrimSpace(c.TMDB.Language)
	if c.TMDB.Language == "" {
		c.TMDB.Language = defaultTMDBLanguage
	}
	if c.TMDB.RequestTimeout <= 0 {
		c.TMDB.RequestTimeout = defaultTMDBRequestTimeout
	}
	if c.TMDB.MaxRetries < 0 {
		c.TMDB.MaxRetries = defaultTMDBMaxRetries
	}
	return nil
}

func (c *Config) normalizeJellyfin() error {
	if c.Jellyfin.APIKey == "" {
		if value, ok := os.LookupEnv("JELLYFIN_API_KEY"); ok {
			c.Jellyfin.APIKey = strings.TrimSpace(value)
		}
	}
	c.Jellyfin.URL = strings.TrimSpace(c.Jellyfin.URL)
	c.Jellyfin.APIKey = strings.TrimSpace(c.Jellyfin.APIKey)
	return nil
}

func (c *Config) normalizeSelection() {
	strategy := strings.ToLower(strings.TrimSpace(c.Selection.Strategy))
	switch strategy {
	case StrategyOriginalLanguageFirst, StrategyNoTextPosterFirst, StrategyHighestRatingFirst:
		c.Selection.Strategy = strategy
	case "":
		c.Selection.Strategy = defaultStrategy
	default:
		// Unknown strategies degrade to pure rating order.
		c.Selection.Strategy = StrategyHighestRatingFirst
	}

	c.Selection.DisplayLanguage = strings.ToLower(strings.TrimSpace(c.Selection.DisplayLanguage))
	if c.Selection.DisplayLanguage == "" {
		c.Selection.DisplayLanguage = defaultDisplayLanguage
	}

	if len(c.Selection.FallbackLanguages) > 0 {
		langs := make([]string, 0, len(c.Selection.FallbackLanguages))
		seen := make(map[string]struct{}, len(c.Selection.FallbackLanguages))
		for _, lang := range c.Selection.FallbackLanguages {
			normalized := strings.ToLower(strings.TrimSpace(lang))
			if normalized == "" {
				continue
			}
			if _, exists := seen[normalized]; exists {
				continue
			}
			seen[normalized] = struct{}{}
			langs = append(langs, normalized)
		}
		c.Selection.FallbackLanguages = langs
	}
}

func (c *Config) normalizeStores() error {
	var err error
	if strings.TrimSpace(c.LanguageCache.Path) == "" {
		c.LanguageCache.Path = defaultLanguageCachePath
	}
	if c.LanguageCache.Path, err = expandPath(c.LanguageCache.Path); err != nil {
		return fmt.Errorf("language_cache.path: %w", err)
	}
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = defaultHistoryPath
	}
	if c.History.Path, err = expandPath(c.History.Path); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeWarm() {
	if c.Warm.DelayMillis <= 0 {
		c.Warm.DelayMillis = defaultWarmDelayMillis
	}
	if c.Warm.MaxItems < 0 {
		c.Warm.MaxItems = 0
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
