package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-cart/internal/config"
)

func TestMenuCommand_FiltersByCategory(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"menu", "--category", "veg"})
	t.Cleanup(func() { menuCategory = "" })

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "Paneer Butter Masala")
	assert.Contains(t, out.String(), "₹280")
	assert.NotContains(t, out.String(), "Chicken")
}

func TestMenuCommand_RejectsUnknownCategory(t *testing.T) {
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"menu", "--category", "vegan"})
	t.Cleanup(func() { menuCategory = "" })

	assert.Error(t, rootCmd.Execute())
}

func TestLoadConfig_OfflineOverride(t *testing.T) {
	for _, k := range []string{"CART_STORE_BACKEND", "CART_STORE_PATH", "DATABASE_URL", "RABBITMQ_URL"} {
		t.Setenv(k, "")
	}
	configPath = filepath.Join("..", "config.yaml")
	backend = config.BackendMemory
	offline = true
	t.Cleanup(func() {
		configPath = "config.yaml"
		backend = ""
		offline = false
	})

	cfg, err := loadConfig(rootCmd)
	require.NoError(t, err)
	assert.Equal(t, config.BackendMemory, cfg.Store.Backend)
	assert.Empty(t, cfg.DatabaseURL())
	assert.Empty(t, cfg.RabbitMQURL())
}
