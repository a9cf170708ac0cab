package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix = "DRAPE_"
	envFile   = "DRAPE_CONFIG"
)

// listKeys are split on commas when they come from the environment.
var listKeys = map[string]bool{
	"catalog_paths": true,
}

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if DRAPE_CONFIG is set
//  3. env (prefix DRAPE_)
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(envFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// DRAPE_QUEUE_SIZE -> queue_size. Underscores are kept to match the
	// flat koanf tags.
	envProvider := env.ProviderWithValue(envPrefix, ".", func(key, value string) (string, any) {
		key = strings.TrimPrefix(strings.ToLower(key), strings.ToLower(envPrefix))
		if key == "config" {
			return "", nil
		}
		if listKeys[key] {
			return key, splitList(value)
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.RecommendCount < 1:
		return fmt.Errorf("%w: recommend_count must be positive", ErrInvalidConfig)
	case c.DisplayCount < 1:
		return fmt.Errorf("%w: display_count must be positive", ErrInvalidConfig)
	case c.AlternativesCount < 1:
		return fmt.Errorf("%w: alternatives_count must be positive", ErrInvalidConfig)
	case c.MaxUploadBytes <= 0:
		return fmt.Errorf("%w: max_upload_bytes must be positive", ErrInvalidConfig)
	case c.CatalogRefreshInterval < 0:
		return fmt.Errorf("%w: catalog_refresh_interval must not be negative", ErrInvalidConfig)
	}

	switch c.StoreBackend {
	case "memory":
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("%w: database_url is required for the postgres store", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: store_backend %q", ErrUnknownBackend, c.StoreBackend)
	}

	switch c.BlobBackend {
	case "none", "memory":
	case "s3":
		if c.S3Bucket == "" {
			return fmt.Errorf("%w: s3_bucket is required for the s3 archive", ErrInvalidConfig)
		}
	case "azure":
		if c.AzureConnectionString == "" && c.AzureAccountURL == "" {
			return fmt.Errorf("%w: azure_connection_string or azure_account_url is required for the azure archive", ErrInvalidConfig)
		}
		if c.AzureContainer == "" {
			return fmt.Errorf("%w: azure_container is required for the azure archive", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: blob_backend %q", ErrUnknownBackend, c.BlobBackend)
	}
	return nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
