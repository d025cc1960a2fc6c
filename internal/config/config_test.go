package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedhub/internal/domain"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("{}"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.Equal(t, 30, cfg.Aggregator.PageSize)
	assert.Equal(t, 5*time.Minute, cfg.Poll.Interval)
	assert.Equal(t, 30, cfg.Poll.PageSize)
	assert.Equal(t, "feedhub", cfg.RabbitMQ.Exchange)
	assert.Equal(t, "posts", cfg.RabbitMQ.RoutingKey)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.Poll.Providers)
}

func TestParse_ExpandsEnvironment(t *testing.T) {
	t.Setenv("FEEDHUB_TEST_DB_PASSWORD", "s3cret")
	t.Setenv("FEEDHUB_TEST_MASTODON_SECRET", "masto")

	data := []byte(`
http:
  addr: ":9090"
database:
  host: db
  user: feedhub
  password: ${FEEDHUB_TEST_DB_PASSWORD}
  dbname: feedhub
poll:
  interval: 1m
  providers: [mastodon, rss]
providers:
  mastodon:
    client_id: app
    client_secret: ${FEEDHUB_TEST_MASTODON_SECRET}
    scopes: [read]
  linkedin:
    base_url: http://linkedin.local
log_level: debug
`)

	cfg, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, time.Minute, cfg.Poll.Interval)
	assert.Equal(t, []domain.ProviderName{domain.ProviderMastodon, domain.ProviderRSS}, cfg.Poll.Providers)
	assert.Equal(t, "masto", cfg.Providers.Mastodon.ClientSecret)
	assert.Equal(t, []string{"read"}, cfg.Providers.Mastodon.Scopes)
	assert.Equal(t, "http://linkedin.local", cfg.Providers.LinkedIn.BaseURL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t,
		"host=db port=5432 user=feedhub password=s3cret dbname=feedhub sslmode=disable",
		cfg.Database.DSN(),
	)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("poll: [unterminated"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("aggregator:\n  page_size: 10\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Aggregator.PageSize)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
