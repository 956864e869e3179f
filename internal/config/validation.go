package config

import (
	"net/url"
	"strings"

	"git.home.luguber.info/inful/exhibitpal/internal/foundation/errors"
)

// Validate checks settings that are wrong regardless of which command runs.
// Credentials are checked lazily by RequireSheets and RequireDrive.
func Validate(cfg *Config) error {
	for _, w := range cfg.Images.Widths {
		if w <= 0 {
			return errors.ConfigError("image widths must be positive").
				WithContext("width", w).
				Build()
		}
	}
	if cfg.Retry.InitialDelay > cfg.Retry.MaxDelay {
		return errors.ConfigError("retry.initial_delay must not exceed retry.max_delay").
			WithContext("initial_delay", cfg.Retry.InitialDelay.String()).
			WithContext("max_delay", cfg.Retry.MaxDelay.String()).
			Build()
	}
	if cfg.Site.BaseURL != "" {
		if u, err := url.Parse(cfg.Site.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			return errors.ConfigError("site.base_url must be an absolute URL").
				WithContext("base_url", cfg.Site.BaseURL).
				Build()
		}
	}
	if cfg.Publish.Push && cfg.Publish.RemoteURL == "" {
		return errors.ConfigError("publish.push requires publish.remote_url").Build()
	}
	return nil
}

// RequireSheets reports missing settings needed to read sheets from the API.
// Fixture-backed sheets need none.
func (c *Config) RequireSheets() error {
	if c.UsesFixtures() {
		return nil
	}
	missing := c.missingCredentials()
	if c.Sheets.ExhibitionsFixture == "" && c.Sheets.ExhibitionsSpreadsheetID == "" {
		missing = append(missing, EnvSpreadsheetID)
	}
	if c.Sheets.ArtworksFixture == "" && c.Sheets.ArtworksSpreadsheetID == "" {
		missing = append(missing, EnvArtworkSpreadsheetID)
	}
	if len(missing) > 0 {
		return errors.ConfigError("Missing required environment variable: " + strings.Join(missing, ", ")).
			WithContext("missing", missing).
			Build()
	}
	return nil
}

// RequireDrive reports missing OAuth settings needed to download hero images.
func (c *Config) RequireDrive() error {
	if c.Images.Mock {
		return nil
	}
	if missing := c.missingCredentials(); len(missing) > 0 {
		return errors.AuthError("Missing required environment variable: " + strings.Join(missing, ", ")).
			WithContext("missing", missing).
			Build()
	}
	return nil
}

func (c *Config) missingCredentials() []string {
	var missing []string
	if c.Google.ClientID == "" {
		missing = append(missing, EnvClientID)
	}
	if c.Google.ClientSecret == "" {
		missing = append(missing, EnvClientSecret)
	}
	if c.Google.RefreshToken == "" {
		missing = append(missing, EnvRefreshToken)
	}
	return missing
}
