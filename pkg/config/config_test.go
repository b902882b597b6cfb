package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMemoryStores(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("CATALOG_SOURCE", StoreMemory)
	t.Setenv("PERSONALIZATION_STORE", StoreMemory)
	t.Setenv("CONVERSATION_STORE", StoreMemory)
	t.Setenv("CATALOG_REFRESH_INTERVAL", "30s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.Catalog.RefreshInterval)
	assert.Equal(t, 24*time.Hour, cfg.Stores.ConversationTTL)
	assert.Equal(t, 50, cfg.Stores.MaxMessages)
	assert.False(t, cfg.NeedsPostgres())
	assert.False(t, cfg.NeedsRedis())
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]map[string]string{
		"missing secret":  {"JWT_SECRET": ""},
		"bad duration":    {"CATALOG_REFRESH_INTERVAL": "soon"},
		"unknown store":   {"CONVERSATION_STORE": "disk"},
		"postgres no pwd": {"CATALOG_SOURCE": StorePostgres, "DB_PASSWORD": ""},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "secret")
			t.Setenv("CATALOG_SOURCE", StoreMemory)
			t.Setenv("PERSONALIZATION_STORE", StoreMemory)
			t.Setenv("CONVERSATION_STORE", StoreMemory)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
