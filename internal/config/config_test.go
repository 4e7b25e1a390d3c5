package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestNew_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	cfg := New()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "postgres", cfg.StoreDriver)
	assert.Equal(t, "full", cfg.PaymentCfg.SettlementMode)
	assert.Equal(t, "http://localhost:8000/api/extract-invoice", cfg.ExtractionCfg.URL)
	assert.Equal(t, 30*time.Second, cfg.ExtractionCfg.Timeout)
	assert.Equal(t, 24*time.Hour, cfg.AuthCfg.TokenTTL)
	assert.Equal(t, int64(10<<20), cfg.StorageCfg.MaxFileBytes)
	assert.NoError(t, cfg.Validate())
}

func TestNew_ReadsEnvironment(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("PAYMENT_SETTLEMENT_MODE", "reconcile")
	t.Setenv("EXTRACTION_TIMEOUT", "5s")
	t.Setenv("EXTRACTION_WORKERS", "2")
	t.Setenv("REMINDER_FEED_ENABLED", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, ,http://localhost:4200")

	cfg := New()

	assert.Equal(t, "reconcile", cfg.PaymentCfg.SettlementMode)
	assert.Equal(t, 5*time.Second, cfg.ExtractionCfg.Timeout)
	assert.Equal(t, 2, cfg.WorkerCfg.NumWorkers)
	assert.True(t, cfg.UsesAMQP())
	assert.Equal(t, []string{"https://app.example.com", "http://localhost:4200"}, cfg.CORSOrigins)
	require.NoError(t, cfg.Validate())
}

func TestValidate_RejectsBadSettings(t *testing.T) {
	cases := map[string]func(c *InvoiceServiceConfig){
		"short secret":    func(c *InvoiceServiceConfig) { c.AuthCfg.JWTSecret = "short" },
		"settlement mode": func(c *InvoiceServiceConfig) { c.PaymentCfg.SettlementMode = "half" },
		"transport":       func(c *InvoiceServiceConfig) { c.ExtractionCfg.Transport = "grpc" },
		"store driver":    func(c *InvoiceServiceConfig) { c.StoreDriver = "sqlite" },
		"workers":         func(c *InvoiceServiceConfig) { c.WorkerCfg.NumWorkers = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", testSecret)
			cfg := New()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
