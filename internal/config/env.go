package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables honored on top of the config file.
const (
	EnvClientID             = "GOOGLE_SHEETS_CLIENT_ID"
	EnvClientSecret         = "GOOGLE_SHEETS_CLIENT_SECRET"
	EnvRefreshToken         = "GOOGLE_SHEETS_REFRESH_TOKEN"
	EnvTokenURL             = "GOOGLE_SHEETS_TOKEN_URL"
	EnvSpreadsheetID        = "GOOGLE_SHEETS_SPREADSHEET_ID"
	EnvRange                = "GOOGLE_SHEETS_RANGE"
	EnvArtworkSpreadsheetID = "GOOGLE_SHEETS_ARTWORK_SPREADSHEET_ID"
	EnvArtworkRange         = "GOOGLE_SHEETS_ARTWORK_RANGE"
	EnvImageFallbackURL     = "IMAGE_FALLBACK_URL"
	EnvExhibitionsFixture   = "TEST_EXHIBITIONS_FIXTURE"
	EnvArtworksFixture      = "TEST_ARTWORKS_FIXTURE"
	EnvHeroImageFixture     = "TEST_HERO_IMAGE_FIXTURE"
	EnvLogLevel             = "EXHIBITPAL_LOG_LEVEL"
)

// loadEnvFiles loads .env and .env.local without overriding the process environment.
func loadEnvFiles() {
	for _, path := range []string{".env", ".env.local"} {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			slog.Warn("Failed to load env file", "path", path, "error", err)
			continue
		}
		slog.Debug("Loaded environment variables", "path", path)
	}
}

func applyEnvOverrides(cfg *Config) {
	setFromEnv(&cfg.Google.ClientID, EnvClientID)
	setFromEnv(&cfg.Google.ClientSecret, EnvClientSecret)
	setFromEnv(&cfg.Google.RefreshToken, EnvRefreshToken)
	setFromEnv(&cfg.Google.TokenURL, EnvTokenURL)
	setFromEnv(&cfg.Sheets.ExhibitionsSpreadsheetID, EnvSpreadsheetID)
	setFromEnv(&cfg.Sheets.ExhibitionsRange, EnvRange)
	setFromEnv(&cfg.Sheets.ArtworksSpreadsheetID, EnvArtworkSpreadsheetID)
	setFromEnv(&cfg.Sheets.ArtworksRange, EnvArtworkRange)
	setFromEnv(&cfg.Images.FallbackURL, EnvImageFallbackURL)
	setFromEnv(&cfg.Images.PlaceholderURL, EnvImageFallbackURL)
	setFromEnv(&cfg.Sheets.ExhibitionsFixture, EnvExhibitionsFixture)
	setFromEnv(&cfg.Sheets.ArtworksFixture, EnvArtworksFixture)

	if strings.EqualFold(strings.TrimSpace(os.Getenv(EnvHeroImageFixture)), "mock") {
		cfg.Images.Mock = true
	}
	if lvl := os.Getenv(EnvLogLevel); lvl != "" {
		cfg.Logging.Level = NormalizeLogLevel(lvl)
	}
}

func setFromEnv(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}
