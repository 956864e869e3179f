package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/exhibitpal/internal/foundation/errors"
)

// Config represents the application configuration.
type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Google  GoogleConfig  `yaml:"google"`
	Sheets  SheetsConfig  `yaml:"sheets"`
	Images  ImagesConfig  `yaml:"images"`
	Output  OutputConfig  `yaml:"output"`
	Retry   RetryConfig   `yaml:"retry"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Notify  NotifyConfig  `yaml:"notify"`
	History HistoryConfig `yaml:"history"`
	Daemon  DaemonConfig  `yaml:"daemon"`
	Publish PublishConfig `yaml:"publish"`
}

// SiteConfig holds presentation settings shared by every page.
type SiteConfig struct {
	Title          string    `yaml:"title"`
	BaseURL        string    `yaml:"base_url"`
	Description    string    `yaml:"description"`
	Lang           string    `yaml:"lang"`
	DefaultOGImage string    `yaml:"default_og_image"`
	CTA            CTAConfig `yaml:"cta"`
}

// CTAConfig is the call-to-action shown on detail pages.
type CTAConfig struct {
	LabelJA string `yaml:"label_ja"`
	LabelEN string `yaml:"label_en"`
	URL     string `yaml:"url"`
}

// GoogleConfig holds the OAuth client used for both Sheets and Drive.
type GoogleConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RefreshToken string `yaml:"refresh_token"`
	TokenURL     string `yaml:"token_url"`
}

// SheetsConfig locates the exhibition and artwork sheets.
type SheetsConfig struct {
	ExhibitionsSpreadsheetID string `yaml:"exhibitions_spreadsheet_id"`
	ExhibitionsRange         string `yaml:"exhibitions_range"`
	ArtworksSpreadsheetID    string `yaml:"artworks_spreadsheet_id"`
	ArtworksRange            string `yaml:"artworks_range"`
	ExhibitionsFixture       string `yaml:"exhibitions_fixture,omitempty"`
	ArtworksFixture          string `yaml:"artworks_fixture,omitempty"`
	StrictArtworkHeader      bool   `yaml:"strict_artwork_header"`
}

// ImagesConfig controls hero image caching and optimization.
type ImagesConfig struct {
	CacheDir       string `yaml:"cache_dir"`
	FallbackURL    string `yaml:"fallback_url"`
	PlaceholderURL string `yaml:"placeholder_url"`
	Widths         []int  `yaml:"widths"`
	SizeWarnBytes  int64  `yaml:"size_warn_bytes"`
	Mock           bool   `yaml:"mock"`
}

// OutputConfig represents output configuration.
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Clean     bool   `yaml:"clean"`
	DataFile  string `yaml:"data_file"`
}

// RetryConfig configures the backoff used for sheet fetches.
type RetryConfig struct {
	Backoff      RetryBackoffMode `yaml:"backoff"`
	InitialDelay time.Duration    `yaml:"initial_delay"`
	MaxDelay     time.Duration    `yaml:"max_delay"`
	MaxAttempts  int              `yaml:"max_attempts"`
}

// LoggingConfig configures slog output.
type LoggingConfig struct {
	Level            LogLevel  `yaml:"level"`
	Format           LogFormat `yaml:"format"`
	SuppressWarnings bool      `yaml:"suppress_warnings"`
}

// MetricsConfig enables the Prometheus recorder.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// NotifyConfig publishes sync warnings and hero log entries to NATS.
type NotifyConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Stream  string `yaml:"stream"`
	Subject string `yaml:"subject"`
}

// HistoryConfig locates the sync-run database.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// DaemonConfig drives periodic rebuilds.
type DaemonConfig struct {
	Interval time.Duration `yaml:"interval"`
	Listen   string        `yaml:"listen"`
}

// PublishConfig describes the git repository receiving the generated site.
type PublishConfig struct {
	RepoDir     string `yaml:"repo_dir"`
	RemoteURL   string `yaml:"remote_url"`
	Branch      string `yaml:"branch"`
	Username    string `yaml:"username"`
	Token       string `yaml:"token"`
	SSHKeyPath  string `yaml:"ssh_key_path"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
	Push        bool   `yaml:"push"`
}

// Load loads configuration from the specified file. An empty path or a missing
// default file yields a config built from the environment alone.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	cfg := &Config{}
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case os.IsNotExist(err):
			if configPath != DefaultPath {
				return nil, errors.ConfigError("configuration file not found").
					WithContext("path", configPath).
					Build()
			}
		case err != nil:
			return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read config file").
				WithContext("path", configPath).
				Build()
		default:
			if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
				return nil, errors.WrapError(err, errors.CategoryConfig, "failed to parse config file").
					WithContext("path", configPath).
					Build()
			}
		}
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).
			Build()
	}
	if err := os.WriteFile(configPath, []byte(exampleConfig), 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write config file").
			WithContext("path", configPath).
			Build()
	}
	return nil
}

// DefaultPath is used when no --config flag is given.
const DefaultPath = "exhibitpal.yaml"

// UsesFixtures reports whether both sheets come from local fixture files.
func (c *Config) UsesFixtures() bool {
	return c.Sheets.ExhibitionsFixture != "" && c.Sheets.ArtworksFixture != ""
}

func (c *Config) String() string {
	return fmt.Sprintf("site=%q output=%s cache=%s fixtures=%t", c.Site.Title, c.Output.Directory, c.Images.CacheDir, c.UsesFixtures())
}

const exampleConfig = `# exhibitpal configuration
site:
  title: "Exhibitions"
  base_url: "https://example.org"
  description: "Current and past exhibitions"
  lang: "ja"
  default_og_image: "/img/og-default.jpg"
  cta:
    label_ja: "チケットを予約"
    label_en: "Book tickets"
    url: "/tickets/"

google:
  client_id: "${GOOGLE_SHEETS_CLIENT_ID}"
  client_secret: "${GOOGLE_SHEETS_CLIENT_SECRET}"
  refresh_token: "${GOOGLE_SHEETS_REFRESH_TOKEN}"

sheets:
  exhibitions_spreadsheet_id: "${GOOGLE_SHEETS_SPREADSHEET_ID}"
  exhibitions_range: "Exhibitions!A:O"
  artworks_spreadsheet_id: "${GOOGLE_SHEETS_ARTWORK_SPREADSHEET_ID}"
  artworks_range: "Artworks!A:N"
  strict_artwork_header: false

images:
  cache_dir: ".cache/hero-images"
  fallback_url: "https://cdn.example.com/placeholders/exhibition.jpg"
  widths: [640, 960, 1440, 1920]

output:
  directory: "_site"
  clean: true

retry:
  backoff: exponential
  initial_delay: 500ms
  max_delay: 10s
  max_attempts: 3

logging:
  level: info
  format: text

metrics:
  enabled: false

notify:
  enabled: false
  url: "nats://127.0.0.1:4222"
  stream: "EXHIBITPAL"
  subject: "exhibitpal.events"

history:
  enabled: true
  path: ".cache/exhibitpal-history.db"

daemon:
  interval: 1h
  listen: ":8080"

publish:
  repo_dir: ""
  branch: "main"
  push: false
`
