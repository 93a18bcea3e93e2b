package config

import (
	"reflect"
	"strings"

	"improved-initiative/core/account"
	"improved-initiative/core/database"
	"improved-initiative/core/logger"
	"improved-initiative/core/server"
	"improved-initiative/core/storage"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Catalog source modes.
const (
	CatalogSourceBucket = "bucket"
	CatalogSourceHTTP   = "http"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the catalog object storage (S3/MinIO).
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the local item store.
	Database database.Config `mapstructure:"database"`
	// Account holds configuration for the remote account service.
	Account account.Config `mapstructure:"account"`
	// Sync holds configuration for library bootstrap and background persistence.
	Sync SyncConfig `mapstructure:"sync"`
}

// SyncConfig controls how libraries are bootstrapped and persisted.
type SyncConfig struct {
	// CatalogSource selects where the bundled catalog is read from ("bucket" or "http").
	CatalogSource string `mapstructure:"catalog_source" default:"bucket"`
	// CatalogURL is the base URL of a catalog server when CatalogSource is "http".
	CatalogURL string `mapstructure:"catalog_url" default:"http://localhost:8080"`
	// RetryAttempts is the number of attempts for each detached persistence task.
	RetryAttempts int `mapstructure:"retry_attempts" default:"3"`
	// BatchSize is the number of items pushed per account batch request.
	BatchSize int `mapstructure:"batch_size" default:"100"`
}

// Validate validates the sync configuration.
func (c SyncConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.CatalogSource, validation.Required, validation.In(CatalogSourceBucket, CatalogSourceHTTP)),
		validation.Field(&c.CatalogURL, validation.When(c.CatalogSource == CatalogSourceHTTP, validation.Required)),
		validation.Field(&c.RetryAttempts, validation.Required, validation.Min(1)),
		validation.Field(&c.BatchSize, validation.Required, validation.Min(1), validation.Max(1000)),
	)
}

// Validate validates the whole configuration.
func (c *Config) Validate() error {
	return validation.Errors{
		"server":   c.Server.Validate(),
		"log":      c.Log.Validate(),
		"database": c.Database.Validate(),
		"account":  c.Account.Validate(),
		"sync":     c.Sync.Validate(),
	}.Filter()
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SERVER_PORT -> server.port)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
