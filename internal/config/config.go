// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and DRAPE_ environment variables over them.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"runtime"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects the handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`
	// MaxUploadBytes caps the request body of POST /api/analyze.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`

	// CatalogPaths lists CSV or Parquet catalog files, loaded in order.
	CatalogPaths []string `koanf:"catalog_paths"`
	// CatalogRefreshInterval reloads the catalog periodically when > 0.
	CatalogRefreshInterval time.Duration `koanf:"catalog_refresh_interval"`

	// RecommendCount is how many outfits are composed per request.
	RecommendCount int `koanf:"recommend_count"`
	// DisplayCount is how many of them are shown with explanations.
	DisplayCount int `koanf:"display_count"`
	// AlternativesCount is how many alternatives follow a dislike.
	AlternativesCount int `koanf:"alternatives_count"`

	// EventQueueSize bounds the in-memory feedback event queue.
	EventQueueSize int `koanf:"queue_size"`
	// WorkerCount sets the number of event publishing workers.
	WorkerCount int `koanf:"worker_count"`
	// DedupeSize sets the size of the feedback deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// StoreBackend selects session persistence: memory or postgres.
	StoreBackend string `koanf:"store_backend"`
	DatabaseURL  string `koanf:"database_url"`

	// BlobBackend selects the upload archive: none, memory, s3 or azure.
	BlobBackend           string `koanf:"blob_backend"`
	S3Bucket              string `koanf:"s3_bucket"`
	S3Region              string `koanf:"s3_region"`
	S3Endpoint            string `koanf:"s3_endpoint"`
	S3AccessKey           string `koanf:"s3_access_key"`
	S3SecretKey           string `koanf:"s3_secret_key"`
	AzureConnectionString string `koanf:"azure_connection_string"`
	// AzureAccountURL is used with the default Azure credential when no
	// connection string is set.
	AzureAccountURL string `koanf:"azure_account_url"`
	AzureContainer  string `koanf:"azure_container"`

	// AMQPURL enables the broker publisher. Events are logged when empty.
	AMQPURL      string `koanf:"amqp_url"`
	AMQPExchange string `koanf:"amqp_exchange"`

	// GenAIAPIKey enables Gemini narration. Templates are used when empty.
	GenAIAPIKey string `koanf:"genai_api_key"`
	GenAIModel  string `koanf:"genai_model"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		MaxUploadBytes:    10 << 20,
		CatalogPaths:      []string{"data/catalog.csv"},
		RecommendCount:    5,
		DisplayCount:      3,
		AlternativesCount: 2,
		EventQueueSize:    1024,
		WorkerCount:       runtime.NumCPU(),
		DedupeSize:        50_000,
		StoreBackend:      "memory",
		BlobBackend:       "none",
		S3Region:          "auto",
		AzureContainer:    "skin-analysis",
		AMQPExchange:      "drape.feedback",
		GenAIModel:        "gemini-2.5-flash",
	}
}
