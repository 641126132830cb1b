package config

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSecrets struct {
	values map[string]string
	vault  bool
	asked  []string
}

func (f *fakeSecrets) GetSecretOrEnv(_ context.Context, secretName, _ string) (string, error) {
	f.asked = append(f.asked, secretName)
	if v, ok := f.values[secretName]; ok {
		return v, nil
	}
	return "", errors.New("secret not found")
}

func (f *fakeSecrets) IsVaultEnabled() bool { return f.vault }

func TestSetDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))

	assert.Equal(t, "http://127.0.0.1:8000/api", cfg.Gateway.BaseURL)
	assert.Equal(t, 30, cfg.Gateway.RequestTimeout)
	assert.True(t, cfg.Gateway.IdempotencyKeys)
	assert.Equal(t, "token", cfg.Session.CookieName)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.False(t, cfg.Refresh.Enabled)
	assert.Equal(t, "0 */5 * * * *", cfg.Refresh.Cron)
	assert.Equal(t, []string{"/health"}, cfg.RateLimit.WhitelistPaths)
	assert.False(t, cfg.App.IsProduction())
}

func TestApplySecrets(t *testing.T) {
	t.Run("service account and postgres password", func(t *testing.T) {
		t.Setenv("DEFAULT_DATABASE", "")
		cfg := &Config{Database: DatabaseConfig{Driver: "postgres", Name: "relation_sync"}}
		src := &fakeSecrets{values: map[string]string{
			"crm-service-password": "s3cret",
			"snapshot-db-password": "pg",
		}}

		require.NoError(t, applySecrets(context.Background(), cfg, src, zap.NewNop()))

		assert.Equal(t, "s3cret", cfg.ServiceAccount.Password)
		assert.Equal(t, "pg", cfg.Database.Password)
		assert.Equal(t, "relation_sync", cfg.Database.Name)
	})

	t.Run("sqlite never asks for a database password", func(t *testing.T) {
		cfg := &Config{Database: DatabaseConfig{Driver: "sqlite"}}
		src := &fakeSecrets{}

		require.NoError(t, applySecrets(context.Background(), cfg, src, zap.NewNop()))

		assert.Equal(t, []string{"crm-service-password"}, src.asked)
		assert.Empty(t, cfg.ServiceAccount.Password)
	})

	t.Run("missing password is not fatal", func(t *testing.T) {
		cfg := &Config{
			Refresh:        RefreshConfig{Enabled: true},
			ServiceAccount: ServiceAccountConfig{Username: "sync"},
		}

		require.NoError(t, applySecrets(context.Background(), cfg, &fakeSecrets{vault: true}, zap.NewNop()))
		assert.False(t, cfg.ServiceAccount.Configured())
	})

	t.Run("database name override", func(t *testing.T) {
		t.Setenv("DEFAULT_DATABASE", "relation_sync_test")
		cfg := &Config{Database: DatabaseConfig{Name: "relation_sync"}}

		require.NoError(t, applySecrets(context.Background(), cfg, &fakeSecrets{}, zap.NewNop()))
		assert.Equal(t, "relation_sync_test", cfg.Database.Name)
	})
}

func TestDurations(t *testing.T) {
	g := GatewayConfig{RequestTimeout: 30}
	assert.Equal(t, "30s", g.RequestTimeoutDuration().String())

	srv := ServerConfig{RequestTimeout: 60}
	assert.Equal(t, "1m0s", srv.RequestTimeoutDuration().String())

	d := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable", d.ConnectionString())
}
