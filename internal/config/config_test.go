package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresDSN(t *testing.T) {
	t.Setenv("DATABASE_DSN", "")
	t.Setenv("STORAGE_IN_MEMORY", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_InMemoryMode(t *testing.T) {
	t.Setenv("DATABASE_DSN", "")
	t.Setenv("STORAGE_IN_MEMORY", "true")

	cfg, err := Load()
	require.NoError(t, err)
	require.Empty(t, cfg.Postgres.DSN)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_DSN", "postgres://localhost/portfolio")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	require.Equal(t, 30, cfg.Cache.TTLSeconds)
	require.Equal(t, "trading.trades", cfg.RabbitMQ.TradesExchange)
}

func TestLoad_BadPort(t *testing.T) {
	t.Setenv("DATABASE_DSN", "postgres://localhost/portfolio")
	t.Setenv("HTTP_PORT", "not-a-port")

	_, err := Load()
	require.Error(t, err)
}
