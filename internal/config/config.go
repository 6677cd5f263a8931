package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration. It is loaded once at startup and
// passed explicitly to the components that need it; nothing in this codebase
// reads configuration through package-level state.
type Config struct {
	APIPort  int `yaml:"apiPort"`
	Database struct {
		Type       string `yaml:"type"` // "postgres" or "sqlite"
		URL        string `yaml:"url"`  // postgres connection string
		Path       string `yaml:"path"` // sqlite file path
		WALMode    bool   `yaml:"walMode"`
		MaxRetries int    `yaml:"maxRetries"`
		RetryDelay int    `yaml:"retryDelay"`
	} `yaml:"database"`
	Auth struct {
		Secret          string `yaml:"secret"`
		TokenTTLMinutes int    `yaml:"tokenTTLMinutes"`
	} `yaml:"auth"`
	S3 struct {
		Endpoint        string `yaml:"endpoint"`
		Region          string `yaml:"region"`
		Bucket          string `yaml:"bucket"`
		AccessKeyID     string `yaml:"accessKeyId"`
		SecretAccessKey string `yaml:"secretAccessKey"`
	} `yaml:"s3"`
}

// TokenTTL returns the configured access-token lifetime.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLMinutes) * time.Minute
}

// LoadConfig loads the configuration from file and environment variables.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Env-only deployments have no config file; declare the keys that may
	// arrive purely through the environment so viper binds them.
	v.SetDefault("auth.secret", "")
	v.SetDefault("database.type", "")
	v.SetDefault("database.url", "")

	if err := v.ReadInConfig(); err != nil {
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if !notFound && !os.IsNotExist(err) {
			return nil, err
		}
		log.Printf("Warning: Could not read config file: %s. Using defaults or environment variables.", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.APIPort == 0 {
		cfg.APIPort = 8081
		log.Println("APIPort not specified, using default 8081")
	}

	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "/data/notevault.db"
		log.Println("Database path not specified, using default /data/notevault.db")
	}
	if !v.IsSet("database.walMode") {
		cfg.Database.WALMode = true
	}
	if cfg.Database.MaxRetries == 0 {
		cfg.Database.MaxRetries = 5
	}
	if cfg.Database.RetryDelay == 0 {
		cfg.Database.RetryDelay = 5
	}

	if cfg.Database.Type == "postgres" && cfg.Database.URL == "" {
		return nil, fmt.Errorf("database type is postgres but no connection URL is configured")
	}

	// The signing secret gates every protected request; refusing to start
	// beats issuing forgeable tokens.
	if cfg.Auth.Secret == "" {
		return nil, fmt.Errorf("auth secret must not be empty")
	}
	if cfg.Auth.TokenTTLMinutes == 0 {
		cfg.Auth.TokenTTLMinutes = 5
	}

	log.Printf("Configuration loaded: port=%d db=%s tokenTTL=%dm", cfg.APIPort, cfg.Database.Type, cfg.Auth.TokenTTLMinutes)
	return &cfg, nil
}
