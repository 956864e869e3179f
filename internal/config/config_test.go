package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/exhibitpal/internal/foundation/errors"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvClientID, EnvClientSecret, EnvRefreshToken, EnvTokenURL,
		EnvSpreadsheetID, EnvRange, EnvArtworkSpreadsheetID, EnvArtworkRange,
		EnvImageFallbackURL, EnvExhibitionsFixture, EnvArtworksFixture,
		EnvHeroImageFixture, EnvLogLevel,
	} {
		t.Setenv(key, "")
	}
	t.Chdir(t.TempDir())
}

func TestLoadConfig(t *testing.T) {
	clearEnv(t)
	t.Setenv("TEST_SITE_TITLE", "Gallery")

	path := filepath.Join(t.TempDir(), "exhibitpal.yaml")
	content := "site:\n" +
		"  title: \"${TEST_SITE_TITLE}\"\n" +
		"  base_url: https://gallery.example.org\n" +
		"sheets:\n" +
		"  exhibitions_spreadsheet_id: sheet-1\n" +
		"retry:\n" +
		"  backoff: LINEAR\n" +
		"  initial_delay: 250ms\n" +
		"  max_attempts: 5\n" +
		"logging:\n" +
		"  level: DEBUG\n" +
		"  format: json\n" +
		"daemon:\n" +
		"  interval: 15m\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "Gallery", cfg.Site.Title)
	require.Equal(t, "sheet-1", cfg.Sheets.ExhibitionsSpreadsheetID)
	require.Equal(t, DefaultExhibitionsRange, cfg.Sheets.ExhibitionsRange)
	require.Equal(t, RetryBackoffLinear, cfg.Retry.Backoff)
	require.Equal(t, 250*time.Millisecond, cfg.Retry.InitialDelay)
	require.Equal(t, 5, cfg.Retry.MaxAttempts)
	require.Equal(t, LogLevelDebug, cfg.Logging.Level)
	require.Equal(t, LogFormatJSON, cfg.Logging.Format)
	require.Equal(t, 15*time.Minute, cfg.Daemon.Interval)
	require.Equal(t, DefaultImageWidths, cfg.Images.Widths)
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(DefaultPath)
	require.NoError(t, err)
	require.Equal(t, DefaultFallbackImageURL, cfg.Images.FallbackURL)
	require.Equal(t, DefaultCacheDir, cfg.Images.CacheDir)
	require.Equal(t, int64(DefaultSizeWarnBytes), cfg.Images.SizeWarnBytes)
	require.Equal(t, RetryBackoffExponential, cfg.Retry.Backoff)
	require.Equal(t, 500*time.Millisecond, cfg.Retry.InitialDelay)
	require.Equal(t, 3, cfg.Retry.MaxAttempts)
	require.Equal(t, "チケットを予約", cfg.Site.CTA.LabelJA)
	require.Equal(t, "/tickets/", cfg.Site.CTA.URL)
	require.Equal(t, DefaultTokenURL, cfg.Google.TokenURL)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvClientID, "client")
	t.Setenv(EnvRange, "Sheet1!A:O")
	t.Setenv(EnvImageFallbackURL, "https://cdn.example.org/fallback.jpg")
	t.Setenv(EnvHeroImageFixture, "MOCK")
	t.Setenv(EnvLogLevel, "warn")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "client", cfg.Google.ClientID)
	require.Equal(t, "Sheet1!A:O", cfg.Sheets.ExhibitionsRange)
	require.Equal(t, "https://cdn.example.org/fallback.jpg", cfg.Images.FallbackURL)
	require.True(t, cfg.Images.Mock)
	require.Equal(t, LogLevelWarn, cfg.Logging.Level)
}

func TestDotEnvDoesNotOverrideProcessEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvClientID, "from-process")
	require.NoError(t, os.Unsetenv(EnvClientSecret))
	require.NoError(t, os.WriteFile(".env", []byte(EnvClientID+"=from-file\n"+EnvClientSecret+"=secret\n"), 0o600))

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "from-process", cfg.Google.ClientID)
	require.Equal(t, "secret", cfg.Google.ClientSecret)
}

func TestValidate(t *testing.T) {
	clearEnv(t)

	cfg := &Config{}
	applyDefaults(cfg)
	require.NoError(t, Validate(cfg))

	bad := *cfg
	bad.Images.Widths = []int{640, 0}
	require.Error(t, Validate(&bad))

	bad = *cfg
	bad.Retry.InitialDelay = time.Minute
	require.Error(t, Validate(&bad))

	bad = *cfg
	bad.Site.BaseURL = "/relative"
	require.Error(t, Validate(&bad))

	bad = *cfg
	bad.Publish.Push = true
	require.Error(t, Validate(&bad))
}

func TestRequireSheets(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	err := cfg.RequireSheets()
	require.Error(t, err)
	require.Contains(t, err.Error(), EnvRefreshToken)
	require.Contains(t, err.Error(), EnvSpreadsheetID)

	cfg.Sheets.ExhibitionsFixture = "ex.json"
	cfg.Sheets.ArtworksFixture = "art.json"
	require.NoError(t, cfg.RequireSheets())
}

func TestRequireDrive(t *testing.T) {
	cfg := &Config{}
	err := cfg.RequireDrive()
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryAuth))

	cfg.Images.Mock = true
	require.NoError(t, cfg.RequireDrive())
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exhibitpal.yaml")
	require.NoError(t, Init(path, false))
	require.Error(t, Init(path, false))
	require.NoError(t, Init(path, true))

	clearEnv(t)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "Exhibitions", cfg.Site.Title)
	require.Equal(t, RetryBackoffExponential, cfg.Retry.Backoff)
}

func TestNormalizers(t *testing.T) {
	require.Equal(t, RetryBackoffFixed, NormalizeRetryBackoff(" Fixed "))
	require.Equal(t, RetryBackoffMode(""), NormalizeRetryBackoff("jitter"))
	require.Equal(t, LogLevelInfo, NormalizeLogLevel("verbose"))
	require.Equal(t, LogLevelWarn, NormalizeLogLevel("WARNING"))
	require.Equal(t, LogFormatText, NormalizeLogFormat(""))
}
