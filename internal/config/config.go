// Package config resolves recipebook settings from RECIPEBOOK_* environment
// variables, optionally seeded from a .env file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"recipebook/internal/blob"
	"recipebook/internal/core"
)

// Environment variable names.
const (
	EnvStorageDriver = "RECIPEBOOK_STORAGE_DRIVER"
	EnvDatabase      = "RECIPEBOOK_DATABASE"
	EnvSQLitePath    = "RECIPEBOOK_SQLITE_PATH"
	EnvPostgresDSN   = "RECIPEBOOK_POSTGRES_DSN"
	EnvBlobDriver    = "RECIPEBOOK_BLOB_DRIVER"
	EnvBlobFSRoot    = "RECIPEBOOK_BLOB_FS_ROOT"
	EnvS3Bucket      = "RECIPEBOOK_BLOB_S3_BUCKET"
	EnvS3Region      = "RECIPEBOOK_BLOB_S3_REGION"
	EnvS3Endpoint    = "RECIPEBOOK_BLOB_S3_ENDPOINT"
	EnvS3PathStyle   = "RECIPEBOOK_BLOB_S3_PATH_STYLE"
	EnvS3AccessKey   = "RECIPEBOOK_BLOB_S3_ACCESS_KEY"
	EnvS3SecretKey   = "RECIPEBOOK_BLOB_S3_SECRET_KEY"
	EnvCatalogFile   = "RECIPEBOOK_CATALOG_FILE"
	EnvSessionFile   = "RECIPEBOOK_SESSION_FILE"
	EnvLogLevel      = "RECIPEBOOK_LOG_LEVEL"
	EnvMetricsAddr   = "RECIPEBOOK_METRICS_ADDR"
)

// Defaults applied when a variable is unset.
const (
	DefaultDatabase = "recipes"
	DefaultS3Region = "us-east-1"
	DefaultS3Bucket = "recipebook"
	stateDirName    = ".recipebook"
	sessionFileName = "session.json"
	catalogFileName = "catalog.yaml"
)

// Config is the resolved runtime configuration.
type Config struct {
	Storage     core.StorageConfig
	Blob        blob.Config
	CatalogFile string
	SessionFile string
	LogLevel    slog.Level
	MetricsAddr string
}

// Load reads the given env files (or ./.env when none are named) into the
// process environment and resolves the configuration from it. A missing
// default .env is ignored; a missing named file is an error. Variables
// already set in the environment win over file values.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		_ = godotenv.Load()
	} else if err := godotenv.Load(files...); err != nil {
		return Config{}, fmt.Errorf("load env files: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv resolves the configuration through getenv.
func FromEnv(getenv func(string) string) (Config, error) {
	get := func(key string) string { return strings.TrimSpace(getenv(key)) }

	cfg := Config{
		Storage: core.StorageConfig{
			Driver:      core.StorageDriver(strings.ToLower(firstNonEmpty(get(EnvStorageDriver), string(core.StorageJSON)))),
			Database:    firstNonEmpty(get(EnvDatabase), DefaultDatabase),
			SQLitePath:  get(EnvSQLitePath),
			PostgresDSN: get(EnvPostgresDSN),
		},
		Blob: blob.Config{
			Driver: strings.ToLower(firstNonEmpty(get(EnvBlobDriver), string(blob.DriverFilesystem))),
			Root:   firstNonEmpty(get(EnvBlobFSRoot), blob.DefaultRoot),
			S3: blob.S3Config{
				Region:          firstNonEmpty(get(EnvS3Region), DefaultS3Region),
				Bucket:          firstNonEmpty(get(EnvS3Bucket), DefaultS3Bucket),
				Endpoint:        get(EnvS3Endpoint),
				AccessKeyID:     firstNonEmpty(get(EnvS3AccessKey), get("MINIO_ROOT_USER")),
				SecretAccessKey: firstNonEmpty(get(EnvS3SecretKey), get("MINIO_ROOT_PASSWORD")),
			},
		},
		CatalogFile: get(EnvCatalogFile),
		SessionFile: get(EnvSessionFile),
		MetricsAddr: get(EnvMetricsAddr),
	}

	if raw := get(EnvS3PathStyle); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvS3PathStyle, err)
		}
		cfg.Blob.S3.PathStyle = v
	} else {
		cfg.Blob.S3.PathStyle = cfg.Blob.S3.Endpoint != ""
	}

	level, err := ParseLevel(get(EnvLogLevel))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", EnvLogLevel, err)
	}
	cfg.LogLevel = level

	if cfg.SessionFile == "" {
		cfg.SessionFile = DefaultSessionFile()
	}
	if cfg.CatalogFile == "" {
		cfg.CatalogFile = DefaultCatalogFile()
	}
	return cfg, nil
}

// ParseLevel parses a slog level name. Empty input means info.
func ParseLevel(raw string) (slog.Level, error) {
	var level slog.Level
	if strings.TrimSpace(raw) == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
		return slog.LevelInfo, err
	}
	return level, nil
}

// DefaultSessionFile is ~/.recipebook/session.json, or a relative path when
// the home directory is unknown.
func DefaultSessionFile() string { return stateFile(sessionFileName) }

// DefaultCatalogFile is ~/.recipebook/catalog.yaml. It is read when present
// and written on every catalog edit.
func DefaultCatalogFile() string { return stateFile(catalogFileName) }

func stateFile(name string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(stateDirName, name)
	}
	return filepath.Join(home, stateDirName, name)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
