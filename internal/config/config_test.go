package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"BOT_TOKEN", "ADMIN_IDS", "ADMIN_PHONES", "DATABASE_PATH"} {
		t.Setenv(key, "")
	}
}

func TestLoadFromYAMLWithExpansion(t *testing.T) {
	clearEnv(t)
	t.Setenv("TEST_FITBOT_TOKEN", "123:abc")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yml := `
telegram:
  bot_token: ${TEST_FITBOT_TOKEN}
admins:
  ids: [1, 2]
  phones: ["+79990000000"]
database:
  path: /tmp/fit.db
redis:
  address: localhost:6379
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "123:abc", cfg.Telegram.BotToken)
	assert.Equal(t, []int64{1, 2}, cfg.Admins.IDs)
	assert.Equal(t, []string{"+79990000000"}, cfg.Admins.Phones)
	assert.Equal(t, "/tmp/fit.db", cfg.Database.Path)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
	assert.Equal(t, "console", cfg.Logging.Format)
	require.NoError(t, cfg.Validate())
}

func TestLoadEnvOnly(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOT_TOKEN", "42:token")
	t.Setenv("ADMIN_IDS", " 7, 8 ,")
	t.Setenv("ADMIN_PHONES", "89640000000, +7999")
	t.Setenv("DATABASE_PATH", "custom/bot.db")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "42:token", cfg.Telegram.BotToken)
	assert.Equal(t, []int64{7, 8}, cfg.Admins.IDs)
	assert.Equal(t, []string{"89640000000", "+7999"}, cfg.Admins.Phones)
	assert.Equal(t, "custom/bot.db", cfg.Database.Path)
}

func TestLoadRejectsBadAdminIDs(t *testing.T) {
	clearEnv(t)
	t.Setenv("ADMIN_IDS", "1,abc")

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "ok", mutate: func(c *Config) {}},
		{name: "empty token", mutate: func(c *Config) { c.Telegram.BotToken = "" }, wantErr: true},
		{name: "placeholder token", mutate: func(c *Config) { c.Telegram.BotToken = placeholderToken }, wantErr: true},
		{name: "no database", mutate: func(c *Config) { c.Database.Path = "" }, wantErr: true},
		{name: "no admins", mutate: func(c *Config) { c.Admins = AdminsConfig{} }, wantErr: true},
		{name: "phones only", mutate: func(c *Config) { c.Admins = AdminsConfig{Phones: []string{"1"}} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Telegram.BotToken = "1:x"
			cfg.Admins.IDs = []int64{1}
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGoogleEnabled(t *testing.T) {
	assert.False(t, GoogleConfig{}.Enabled())
	assert.True(t, GoogleConfig{CredentialsFile: "c.json", UsersSpreadSheetID: "sheet"}.Enabled())
}
