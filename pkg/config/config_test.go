package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, StoragePostgres, cfg.App.Storage)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.False(t, cfg.App.SeedOnStart)
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("STORAGE", "Memory")
	v.Set("HTTP_PORT", "9090")
	v.Set("SEED_ON_START", "true")
	v.Set("DB_PASSWORD", "p@ss/word")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.App.Storage)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.True(t, cfg.App.SeedOnStart)
	assert.Contains(t, cfg.DB.ConnectionString(), "p%40ss%2Fword")
}

func TestFromViper_DatabaseURLTienePrioridad(t *testing.T) {
	v := viper.New()
	v.Set("DATABASE_URL", "postgres://u:p@db:5432/x")

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db:5432/x", cfg.DB.ConnectionString())
}

func TestFromViper_StorageInvalido(t *testing.T) {
	v := viper.New()
	v.Set("STORAGE", "sqlite")

	_, err := fromViper(v)
	assert.Error(t, err)
}
