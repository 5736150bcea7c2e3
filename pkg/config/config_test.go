package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "tmstore-api", cfg.Server.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 72*time.Hour, cfg.Redis.CartTTL)
	assert.Equal(t, int64(5<<20), cfg.Upload.MaxSizeBytes)
	assert.Equal(t, "TM Store", cfg.Store.Name)
	assert.Contains(t, cfg.Upload.AllowedTypes, "image/jpeg")
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("TMSTORE_SERVER_PORT", "9090")
	t.Setenv("TMSTORE_MYSQL_DATABASE", "shopdb")
	t.Setenv("TMSTORE_ADMIN_PASSWORD", "s3cret")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "shopdb", cfg.MySQL.Database)
	assert.Equal(t, "s3cret", cfg.Admin.Password)
}

func TestMySQLDSN(t *testing.T) {
	c := MySQLConfig{
		Host:     "db.internal",
		Port:     3306,
		Username: "shop",
		Password: "pw",
		Database: "tmstore",
	}

	assert.Equal(t,
		"shop:pw@tcp(db.internal:3306)/tmstore?charset=utf8mb4&parseTime=True&loc=Local",
		c.DSN())
}
