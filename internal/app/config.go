package app

import (
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
	"github.com/joho/godotenv"
)

// Config holds the loader configuration, read from environment variables
// (optionally seeded from a .env file) or YAML config files.
type Config struct {
	DB     DBConfig
	Source SourceConfig
	// ArchiveDir enables gzip copies of every fetched body when set.
	ArchiveDir string `env:"ARCHIVE_DIR" default:"" usage:"Directory for gzip copies of fetched responses"`
	Migrate    bool   `env:"MIGRATE" default:"true" usage:"Apply the embedded schema before loading"`
}

// DBConfig holds PostgreSQL connection parameters.
type DBConfig struct {
	Host     string `env:"HOST" default:"localhost" usage:"Database host"`
	Port     int    `env:"PORT" default:"5433" usage:"Database port"`
	Name     string `env:"NAME" default:"postgres" usage:"Database name"`
	User     string `env:"USER" default:"postgres" usage:"Database user"`
	Password string `env:"PASSWORD" usage:"Database password (required)"`
	SSLMode  string `env:"SSL_MODE" default:"disable" usage:"libpq sslmode"`
}

// SourceConfig controls the catalog API client.
type SourceConfig struct {
	BaseURL string        `env:"BASE_URL" default:"https://fakestoreapi.com" usage:"Catalog API root URL"`
	Timeout time.Duration `env:"TIMEOUT" default:"30s" usage:"Timeout of each fetch"`
}

// ConfigError reports a missing mandatory setting.
type ConfigError struct {
	Key string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", e.Key)
}

// URL returns the connection string for pgx.
func (c DBConfig) URL() string {
	return c.url().String()
}

// Redacted returns the connection string with the password masked.
func (c DBConfig) Redacted() string {
	return c.url().Redacted()
}

func (c DBConfig) url() *url.URL {
	q := url.Values{}
	if c.SSLMode != "" {
		q.Set("sslmode", c.SSLMode)
	}
	return &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.Name,
		RawQuery: q.Encode(),
	}
}

// LoadConfig loads configuration. Variables from envFiles (".env" when none
// are given) are applied first without overriding the environment; missing
// files are ignored.
func LoadConfig(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(err, "load %s", f)
		}
	}

	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		SkipFlags:        true,
		AllowUnknownEnvs: true,
		Files:            []string{"config.yaml", "/etc/raw-loader/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}

	if cfg.DB.Password == "" {
		return nil, &ConfigError{Key: "DB_PASSWORD"}
	}

	return &cfg, nil
}
