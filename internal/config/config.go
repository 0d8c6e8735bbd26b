// Package config loads process configuration from MORPHCORE_* environment
// variables and builds the process logger.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every variable name below.
const EnvPrefix = "MORPHCORE_"

// Config is the full process configuration.
//
//	MORPHCORE_LOG_LEVEL: debug|info|warn|error (default info)
//	MORPHCORE_LOG_FORMAT: text|json (default text)
//	MORPHCORE_HTTP_ADDR: listen address (default :8080)
//	MORPHCORE_MAX_ACTIVE_LOCI: combinatorial limit per cross (default 20)
//	MORPHCORE_CATALOG_OVERLAY: optional YAML catalog overlay path
//	MORPHCORE_CACHE_*: see Cache
//	MORPHCORE_BLOB_*: see Blob
type Config struct {
	Log            Log    `envPrefix:"LOG_"`
	HTTPAddr       string `env:"HTTP_ADDR" envDefault:":8080"`
	MaxActiveLoci  int    `env:"MAX_ACTIVE_LOCI" envDefault:"20"`
	CatalogOverlay string `env:"CATALOG_OVERLAY"`
	Cache          Cache  `envPrefix:"CACHE_"`
	Blob           Blob   `envPrefix:"BLOB_"`
}

// Log configures the process logger.
type Log struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"text"`
}

// Cache configures the cross result cache.
//
//	MORPHCORE_CACHE_DRIVER: memory|sqlite|postgres|none (default memory)
//	MORPHCORE_CACHE_SIZE: entries held by the memory driver (default 1024)
//	MORPHCORE_CACHE_SQLITE_PATH: database file for sqlite (default ./morphcore.db)
//	MORPHCORE_CACHE_POSTGRES_DSN: connection string for postgres
type Cache struct {
	Driver      string `env:"DRIVER" envDefault:"memory"`
	Size        int    `env:"SIZE" envDefault:"1024"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"./morphcore.db"`
	PostgresDSN string `env:"POSTGRES_DSN"`
}

// Blob configures the report archive.
//
//	MORPHCORE_BLOB_DRIVER: fs|s3|memory (default fs)
//	MORPHCORE_BLOB_FS_ROOT: directory root when driver=fs (default ./blobdata)
//	MORPHCORE_BLOB_S3_*: see S3
type Blob struct {
	Driver string `env:"DRIVER" envDefault:"fs"`
	FSRoot string `env:"FS_ROOT" envDefault:"./blobdata"`
	S3     S3     `envPrefix:"S3_"`
}

// S3 configures an S3 or MinIO compatible bucket. Credentials fall back to
// the AWS default chain when the key pair is empty.
type S3 struct {
	Bucket          string `env:"BUCKET"`
	Region          string `env:"REGION" envDefault:"us-east-1"`
	Endpoint        string `env:"ENDPOINT"`
	PathStyle       bool   `env:"PATH_STYLE"`
	AccessKeyID     string `env:"ACCESS_KEY_ID"`
	SecretAccessKey string `env:"SECRET_ACCESS_KEY"`
	SessionToken    string `env:"SESSION_TOKEN"`
}

// ParseEnv loads configuration from environment variables into target. Keys
// are resolved with EnvPrefix.
func ParseEnv(target any) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses the process configuration.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.MaxActiveLoci <= 0 {
		return Config{}, fmt.Errorf("%sMAX_ACTIVE_LOCI must be positive, got %d", EnvPrefix, cfg.MaxActiveLoci)
	}
	return cfg, nil
}
