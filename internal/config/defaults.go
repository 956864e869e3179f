package config

import (
	"path/filepath"
	"time"
)

// Defaults shared with the sheet and image pipeline.
const (
	DefaultExhibitionsRange = "Exhibitions!A:O"
	DefaultArtworksRange    = "Artworks!A:N"
	DefaultTokenURL         = "https://oauth2.googleapis.com/token"
	DefaultFallbackImageURL = "https://cdn.example.com/placeholders/exhibition.jpg"
	DefaultPlaceholderURL   = "/img/placeholders/hero-default.jpg"
	DefaultCacheDir         = ".cache/hero-images"
	DefaultOutputDir        = "_site"
	DefaultDataFile         = "exhibitions.json"
	DefaultSizeWarnBytes    = 5 * 1024 * 1024
)

// DefaultImageWidths are the responsive widths generated for hero images.
var DefaultImageWidths = []int{640, 960, 1440, 1920}

func applyDefaults(cfg *Config) {
	if cfg.Site.Title == "" {
		cfg.Site.Title = "Exhibitions"
	}
	if cfg.Site.Lang == "" {
		cfg.Site.Lang = "ja"
	}
	if cfg.Site.CTA.LabelJA == "" {
		cfg.Site.CTA.LabelJA = "チケットを予約"
	}
	if cfg.Site.CTA.LabelEN == "" {
		cfg.Site.CTA.LabelEN = "Book tickets"
	}
	if cfg.Site.CTA.URL == "" {
		cfg.Site.CTA.URL = "/tickets/"
	}

	if cfg.Google.TokenURL == "" {
		cfg.Google.TokenURL = DefaultTokenURL
	}
	if cfg.Sheets.ExhibitionsRange == "" {
		cfg.Sheets.ExhibitionsRange = DefaultExhibitionsRange
	}
	if cfg.Sheets.ArtworksRange == "" {
		cfg.Sheets.ArtworksRange = DefaultArtworksRange
	}

	if cfg.Images.CacheDir == "" {
		cfg.Images.CacheDir = DefaultCacheDir
	}
	if cfg.Images.FallbackURL == "" {
		cfg.Images.FallbackURL = DefaultFallbackImageURL
	}
	if cfg.Images.PlaceholderURL == "" {
		cfg.Images.PlaceholderURL = DefaultPlaceholderURL
	}
	if len(cfg.Images.Widths) == 0 {
		cfg.Images.Widths = append([]int(nil), DefaultImageWidths...)
	}
	if cfg.Images.SizeWarnBytes <= 0 {
		cfg.Images.SizeWarnBytes = DefaultSizeWarnBytes
	}

	if cfg.Output.Directory == "" {
		cfg.Output.Directory = DefaultOutputDir
	}
	if cfg.Output.DataFile == "" {
		cfg.Output.DataFile = DefaultDataFile
	}

	if cfg.Retry.Backoff == "" {
		cfg.Retry.Backoff = RetryBackoffExponential
	} else if m := NormalizeRetryBackoff(string(cfg.Retry.Backoff)); m != "" {
		cfg.Retry.Backoff = m
	} else {
		cfg.Retry.Backoff = RetryBackoffExponential
	}
	if cfg.Retry.InitialDelay <= 0 {
		cfg.Retry.InitialDelay = 500 * time.Millisecond
	}
	if cfg.Retry.MaxDelay <= 0 {
		cfg.Retry.MaxDelay = 10 * time.Second
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry.MaxAttempts = 3
	}

	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}

	if cfg.Notify.URL == "" {
		cfg.Notify.URL = "nats://127.0.0.1:4222"
	}
	if cfg.Notify.Stream == "" {
		cfg.Notify.Stream = "EXHIBITPAL"
	}
	if cfg.Notify.Subject == "" {
		cfg.Notify.Subject = "exhibitpal.events"
	}

	if cfg.History.Path == "" {
		cfg.History.Path = filepath.Join(".cache", "exhibitpal-history.db")
	}

	if cfg.Daemon.Interval <= 0 {
		cfg.Daemon.Interval = time.Hour
	}
	if cfg.Daemon.Listen == "" {
		cfg.Daemon.Listen = ":8080"
	}

	if cfg.Publish.Branch == "" {
		cfg.Publish.Branch = "main"
	}
	if cfg.Publish.AuthorName == "" {
		cfg.Publish.AuthorName = "exhibitpal"
	}
	if cfg.Publish.AuthorEmail == "" {
		cfg.Publish.AuthorEmail = "exhibitpal@localhost"
	}
}
