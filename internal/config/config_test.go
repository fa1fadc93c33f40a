package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"CART_STORE_BACKEND", "CART_STORE_PATH", "DATABASE_URL", "RABBITMQ_URL"} {
		t.Setenv(k, "")
	}
}

func TestLoad_ConfigYAML(t *testing.T) {
	clearEnv(t)

	path := filepath.Join("..", "..", "config.yaml")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5672, cfg.RabbitMQ.Port)
	assert.Equal(t, "orderItems", cfg.Store.Key)
	assert.Equal(t, 500*time.Millisecond, cfg.Store.PollInterval)
	assert.Equal(t, 2*time.Second, cfg.Checkout.PaymentDelay)
	assert.False(t, cfg.Checkout.ClearOnSuccess)
}

func TestParse_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Parse([]byte("{}"))
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, BackendFile, cfg.Store.Backend)
	assert.Equal(t, int64(500), cfg.Checkout.TaxBasisPoints)
	assert.Equal(t, int64(50), cfg.Checkout.DeliveryFee)
	assert.Equal(t, 6, cfg.Auth.OTPLength)
	assert.Empty(t, cfg.DatabaseURL())
	assert.Empty(t, cfg.RabbitMQURL())
}

func TestParse_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("CART_STORE_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/cart")

	cfg, err := Parse([]byte("store:\n  backend: file\n"))
	require.NoError(t, err)

	assert.Equal(t, BackendPostgres, cfg.Store.Backend)
	assert.Equal(t, "postgres://u:p@db:5432/cart", cfg.DatabaseURL())
}

func TestParse_Invalid(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name string
		yaml string
	}{
		{"unknown backend", "store:\n  backend: redis\n"},
		{"postgres without database", "store:\n  backend: postgres\n"},
		{"poll interval too short", "store:\n  poll_interval: 1ms\n"},
		{"negative fee", "checkout:\n  delivery_fee: -5\n"},
		{"bad port", "server:\n  port: 70000\n"},
		{"malformed yaml", "store: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestParse_ExplicitZeroCheckoutAmounts(t *testing.T) {
	clearEnv(t)

	cfg, err := Parse([]byte("checkout:\n  tax_basis_points: 0\n  delivery_fee: 0\n"))
	require.NoError(t, err)
	assert.Zero(t, cfg.Checkout.TaxBasisPoints)
	assert.Zero(t, cfg.Checkout.DeliveryFee)

	cfg, err = Parse([]byte("checkout:\n  delivery_fee: 0\n"))
	require.NoError(t, err)
	assert.Equal(t, int64(500), cfg.Checkout.TaxBasisPoints)
	assert.Zero(t, cfg.Checkout.DeliveryFee)
}

func TestRabbitMQURL(t *testing.T) {
	cfg := Default()
	cfg.RabbitMQ = RabbitMQConfig{Host: "mq", Port: 5672, User: "guest", Password: "guest"}
	assert.Equal(t, "amqp://guest:guest@mq:5672/", cfg.RabbitMQURL())
}

func TestParse_StorePathDefaultsPerBackend(t *testing.T) {
	clearEnv(t)

	cfg, err := Parse([]byte("store:\n  backend: sqlite\n"))
	require.NoError(t, err)
	assert.Equal(t, "data/cart.db", cfg.Store.Path)

	cfg, err = Parse([]byte("store:\n  backend: file\n"))
	require.NoError(t, err)
	assert.Equal(t, "data", cfg.Store.Path)
}

func TestNormalize_AfterOverride(t *testing.T) {
	cfg := Default()
	cfg.Store.Backend = BackendSQLite
	cfg.Store.Path = ""
	require.NoError(t, cfg.Normalize())
	assert.Equal(t, "data/cart.db", cfg.Store.Path)

	cfg.Store.Backend = BackendPostgres
	cfg.Database = DatabaseConfig{}
	assert.Error(t, cfg.Normalize())
}
