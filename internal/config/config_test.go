package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/menudoc/layout"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := load("", "")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 5*time.Second, cfg.Images.Timeout)
	assert.Equal(t, 15*time.Minute, cfg.Cache.TTL)
	assert.Empty(t, cfg.Database.DSN)
	assert.Empty(t, cfg.Redis.Addr)

	g, err := cfg.Geometry()
	require.NoError(t, err)
	assert.Equal(t, layout.DefaultGeometry(), g)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("MENUDOC_HTTP_ADDR", ":9090")
	t.Setenv("MENUDOC_IMAGES_TIMEOUT", "250ms")
	t.Setenv("MENUDOC_DATABASE_DSN", "postgres://localhost/menudoc")
	t.Setenv("MENUDOC_LAYOUT_PAGE", "letter")
	t.Setenv("MENUDOC_LAYOUT_MARGIN", "36")

	cfg, err := load("", "")
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, 250*time.Millisecond, cfg.Images.Timeout)
	assert.Equal(t, "postgres://localhost/menudoc", cfg.Database.DSN)

	g, err := cfg.Geometry()
	require.NoError(t, err)
	assert.Equal(t, 612.0, g.PageWidth)
	assert.Equal(t, 36.0, g.Margin)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menudoc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  addr: ":7070"
log:
  level: debug
  format: console
cache:
  ttl: 1h
share:
  base_url: https://menus.example.com
`), 0o644))

	t.Setenv("MENUDOC_LOG_LEVEL", "warn")

	cfg, err := load(path, "")
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.HTTP.Addr)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "warn", cfg.Log.Level, "environment overrides the file")
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, "https://menus.example.com", cfg.Share.BaseURL)
}

func TestLoadDotEnv(t *testing.T) {
	key := "MENUDOC_REDIS_ADDR"
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(key+"=localhost:6379\n"), 0o644))

	cfg, err := load("", envFile)
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := load(filepath.Join(t.TempDir(), "nope.yaml"), "")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Setenv("MENUDOC_LOG_FORMAT", "xml")
	t.Setenv("MENUDOC_IMAGES_TIMEOUT", "0s")
	t.Setenv("MENUDOC_LAYOUT_PAGE", "a3")

	_, err := load("", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.format")
	assert.Contains(t, err.Error(), "images.timeout")
	assert.Contains(t, err.Error(), "layout.page")
}

func TestStringMasksSecrets(t *testing.T) {
	cfg, err := load("", "")
	require.NoError(t, err)
	cfg.Database.DSN = "postgres://user:secret@db/menudoc"
	cfg.S3.SecretKey = "s3cret"

	s := cfg.String()
	assert.NotContains(t, s, "secret@db")
	assert.NotContains(t, s, "s3cret")
	assert.Contains(t, s, "********")
}
