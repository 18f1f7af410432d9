package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/akeren/college-forms/internal/log"
	"github.com/akeren/college-forms/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	clearDBEnv(t)
	for _, key := range []string{"PORT", "PUBLIC_DIR", "REQUEST_TIMEOUT", "SERVER_KEEPALIVE_TIMEOUT", "SERVER_HEADERS_TIMEOUT", "APP_ENV", "OTEL_TRACES_ENABLED"} {
		t.Setenv(key, "")
	}
	t.Setenv("SKIP_DOTENV", "true")
	t.Setenv("METRICS_ENABLED", "false")
}

func TestNewAppConfig_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := NewAppConfig()
	require.NoError(t, err)

	assert.Equal(t, "10000", cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 120*time.Second, cfg.KeepAliveTimeout)
	assert.Equal(t, 120*time.Second, cfg.HeadersTimeout)
	assert.Empty(t, cfg.PublicDir)
}

func TestNewAppConfig_RejectsMalformedDuration(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("SERVER_HEADERS_TIMEOUT", "two minutes")

	_, err := NewAppConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SERVER_HEADERS_TIMEOUT")
}

func TestAppConfig_Pages(t *testing.T) {
	logger := log.NewDiscardLogger()

	embedded, err := (&AppConfig{}).Pages(logger)
	require.NoError(t, err)
	_, err = embedded.Open("register.html")
	assert.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "contact.html"), []byte("<p>custom</p>"), 0o600))

	custom, err := (&AppConfig{PublicDir: dir}).Pages(logger)
	require.NoError(t, err)
	_, err = custom.Open("contact.html")
	assert.NoError(t, err)

	_, err = (&AppConfig{PublicDir: filepath.Join(dir, "contact.html")}).Pages(logger)
	assert.Error(t, err)

	_, err = (&AppConfig{PublicDir: filepath.Join(dir, "missing")}).Pages(logger)
	assert.Error(t, err)
}

func TestLoadApplicationConfiguration_SQLiteWithAutoMigrate(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("APP_ENV", "test")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_NAME", filepath.Join(t.TempDir(), "forms.db"))

	appConfig, err := LoadApplicationConfiguration(log.NewDiscardLogger(), true)
	require.NoError(t, err)
	t.Cleanup(appConfig.Cleanup)

	assert.Equal(t, storage.Connected, appConfig.Store.State())

	db, err := appConfig.Store.Conn(t.Context())
	require.NoError(t, err)
	assert.True(t, db.Migrator().HasTable("students"))
	assert.True(t, db.Migrator().HasTable("contacts"))
	assert.Equal(t, "0.0.0.0:10000", appConfig.RouterService.Addr())
}

func TestLoadApplicationConfiguration_UnreachableStoreIsNotFatal(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", "1")
	t.Setenv("DB_CONNECT_TIMEOUT", "1s")

	appConfig, err := LoadApplicationConfiguration(log.NewDiscardLogger(), false)
	require.NoError(t, err)
	t.Cleanup(appConfig.Cleanup)

	assert.Equal(t, storage.Failed, appConfig.Store.State())

	_, err = appConfig.Store.Conn(t.Context())
	assert.ErrorIs(t, err, storage.ErrNotConnected)
}

func TestLoadApplicationConfiguration_AutoMigrateRefusedInProduction(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("APP_ENV", "production")

	_, err := LoadApplicationConfiguration(log.NewDiscardLogger(), true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--auto-migrate is not allowed")
}

func TestLoadApplicationConfiguration_InvalidDriver(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DB_DRIVER", "oracle")

	_, err := LoadApplicationConfiguration(log.NewDiscardLogger(), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DRIVER")
}
