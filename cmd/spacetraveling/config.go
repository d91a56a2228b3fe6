package main

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	sourcePrismic = "prismic"
	sourceSQLite  = "sqlite"
)

// Config is read from the environment, after an optional .env file.
type Config struct {
	Prismic struct {
		Endpoint    string        `env:"PRISMIC_API_ENDPOINT" env-description:"Prismic API endpoint, e.g. https://repo.cdn.prismic.io/api/v2"`
		AccessToken string        `env:"PRISMIC_ACCESS_TOKEN" env-description:"Prismic access token"`
		Timeout     time.Duration `env:"PRISMIC_TIMEOUT" env-default:"10s" env-description:"Timeout per Prismic request"`
	}
	Content struct {
		Source       string `env:"CONTENT_SOURCE" env-default:"prismic" env-description:"Content source: prismic or sqlite"`
		DatabasePath string `env:"CONTENT_DATABASE_PATH" env-default:"data/content.db" env-description:"SQLite content database path"`
	}
	Site struct {
		Name        string `env:"SITE_NAME" env-default:"spacetraveling"`
		URL         string `env:"SITE_URL" env-default:"http://localhost:3000"`
		Description string `env:"SITE_DESCRIPTION"`
		Addr        string `env:"ADDR" env-default:":3000"`
	}
	Locale          string `env:"LOCALE" env-default:"pt-BR" env-description:"BCP 47 tag used for dates"`
	Timezone        string `env:"TIMEZONE" env-default:"UTC" env-description:"IANA zone used for dates"`
	PageSize        int    `env:"PAGE_SIZE" env-default:"0" env-description:"Posts per page, 0 uses the API default"`
	LogLevel        string `env:"LOG_LEVEL" env-default:"info"`
	LogFormat       string `env:"LOG_FORMAT" env-default:"json" env-description:"json or console"`
	CursorRateLimit int    `env:"CURSOR_RATE_LIMIT" env-default:"30" env-description:"Next-page requests per IP per minute"`
}

// LoadConfig loads envFile when it exists and reads the environment.
func LoadConfig(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		help, _ := cleanenv.GetDescription(cfg, nil)
		return nil, fmt.Errorf("read configuration: %w\n%s", err, help)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Content.Source {
	case sourcePrismic, sourceSQLite:
	default:
		return fmt.Errorf("unknown CONTENT_SOURCE %q (want prismic or sqlite)", c.Content.Source)
	}
	if c.PageSize < 0 {
		return fmt.Errorf("PAGE_SIZE must not be negative, got %d", c.PageSize)
	}
	return nil
}

// requireContentSource checks the settings of the selected content source.
// Only commands that query content call it; seed needs the database alone.
func (c *Config) requireContentSource() error {
	switch c.Content.Source {
	case sourcePrismic:
		if c.Prismic.Endpoint == "" {
			return errors.New("PRISMIC_API_ENDPOINT is required when CONTENT_SOURCE=prismic")
		}
	case sourceSQLite:
		if c.Content.DatabasePath == "" {
			return errors.New("CONTENT_DATABASE_PATH is required when CONTENT_SOURCE=sqlite")
		}
	}
	return nil
}
