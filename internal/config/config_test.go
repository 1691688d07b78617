package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipebook/internal/blob"
	"recipebook/internal/core"
)

func envMap(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(envMap(nil))
	require.NoError(t, err)

	assert.Equal(t, core.StorageJSON, cfg.Storage.Driver)
	assert.Equal(t, DefaultDatabase, cfg.Storage.Database)
	assert.Equal(t, string(blob.DriverFilesystem), cfg.Blob.Driver)
	assert.Equal(t, blob.DefaultRoot, cfg.Blob.Root)
	assert.Equal(t, DefaultS3Region, cfg.Blob.S3.Region)
	assert.False(t, cfg.Blob.S3.PathStyle)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, DefaultSessionFile(), cfg.SessionFile)
	assert.Empty(t, cfg.MetricsAddr)
	assert.Equal(t, DefaultCatalogFile(), cfg.CatalogFile)
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{
		EnvStorageDriver:  " SQLite ",
		EnvSQLitePath:     "/tmp/recipes.db",
		EnvDatabase:       "mybook",
		EnvBlobDriver:     "S3",
		EnvS3Bucket:       "shared",
		EnvS3Endpoint:     "http://localhost:9000",
		"MINIO_ROOT_USER": "minio",
		EnvS3SecretKey:    "minio-secret",
		EnvCatalogFile:    "catalog.yaml",
		EnvSessionFile:    "/tmp/session.json",
		EnvLogLevel:       "debug",
		EnvMetricsAddr:    ":9090",
	}))
	require.NoError(t, err)

	assert.Equal(t, core.StorageSQLite, cfg.Storage.Driver)
	assert.Equal(t, "/tmp/recipes.db", cfg.Storage.SQLitePath)
	assert.Equal(t, "mybook", cfg.Storage.Database)
	assert.Equal(t, "s3", cfg.Blob.Driver)
	assert.Equal(t, "shared", cfg.Blob.S3.Bucket)
	assert.Equal(t, "minio", cfg.Blob.S3.AccessKeyID)
	assert.Equal(t, "minio-secret", cfg.Blob.S3.SecretAccessKey)
	assert.True(t, cfg.Blob.S3.PathStyle, "custom endpoints default to path style")
	assert.Equal(t, "catalog.yaml", cfg.CatalogFile)
	assert.Equal(t, "/tmp/session.json", cfg.SessionFile)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, ":9090", cfg.MetricsAddr)
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	_, err := FromEnv(envMap(map[string]string{EnvS3PathStyle: "sometimes"}))
	require.ErrorContains(t, err, EnvS3PathStyle)

	_, err = FromEnv(envMap(map[string]string{EnvLogLevel: "loud"}))
	require.ErrorContains(t, err, EnvLogLevel)
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":      slog.LevelInfo,
		"DEBUG": slog.LevelDebug,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestLoadReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("RECIPEBOOK_DATABASE=fromfile\nRECIPEBOOK_STORAGE_DRIVER=memory\n"), 0o600))
	t.Cleanup(func() {
		_ = os.Unsetenv(EnvDatabase)
		_ = os.Unsetenv(EnvStorageDriver)
	})
	_ = os.Unsetenv(EnvDatabase)
	_ = os.Unsetenv(EnvStorageDriver)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "fromfile", cfg.Storage.Database)
	assert.Equal(t, core.StorageMemory, cfg.Storage.Driver)
}

func TestLoadMissingNamedFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.Error(t, err)
}

func TestDefaultStateFilesShareDirectory(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	assert.Equal(t, filepath.Dir(DefaultSessionFile()), filepath.Dir(DefaultCatalogFile()))
	assert.Equal(t, "catalog.yaml", filepath.Base(DefaultCatalogFile()))
}
