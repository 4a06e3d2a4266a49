package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setValidProductionBase sets the minimum env a production config needs to pass validation
func setValidProductionBase(t *testing.T) {
	t.Helper()
	t.Setenv("COSECHA_APP_ENV", "production")
	t.Setenv("COSECHA_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
	t.Setenv("COSECHA_DATABASE_PASSWORD", "secure-password")
	t.Setenv("COSECHA_DATABASE_SSLMODE", "require")
}

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "cosecha-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "cosecha", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.False(t, cfg.Redis.Enabled)
		assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
		assert.Equal(t, "cosecha:", cfg.Redis.KeyPrefix)
		assert.False(t, cfg.IsProduction())
	})

	t.Run("checkout defaults", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "0.21", cfg.Checkout.TaxRate.String())
		assert.Equal(t, "4.95", cfg.Checkout.ShippingFee.String())
		assert.Equal(t, "50", cfg.Checkout.FreeShippingThreshold.String())
		assert.Equal(t, "reject", cfg.Checkout.OrphanPolicy)
		assert.Equal(t, 24*time.Hour, cfg.Checkout.IdempotencyTTL)
		assert.Equal(t, 10*time.Second, cfg.Checkout.CartLockTTL)
		assert.Equal(t, 2*time.Second, cfg.Checkout.LockWait)
		assert.Equal(t, "A4", cfg.Printing.PaperSize)
		assert.Equal(t, 30*time.Second, cfg.Printing.Timeout)
	})

	t.Run("loads values from environment variables with COSECHA prefix", func(t *testing.T) {
		t.Setenv("COSECHA_APP_NAME", "test-app")
		t.Setenv("COSECHA_APP_PORT", "9000")
		t.Setenv("COSECHA_DATABASE_HOST", "testdb.local")
		t.Setenv("COSECHA_DATABASE_PORT", "5433")
		t.Setenv("COSECHA_DATABASE_PASSWORD", "testpass")
		t.Setenv("COSECHA_DATABASE_MAX_OPEN_CONNS", "50")
		t.Setenv("COSECHA_DATABASE_MAX_IDLE_CONNS", "10")
		t.Setenv("COSECHA_REDIS_ENABLED", "true")
		t.Setenv("COSECHA_REDIS_HOST", "cache.local")
		t.Setenv("COSECHA_CHECKOUT_TAX_RATE", "0.10")
		t.Setenv("COSECHA_CHECKOUT_ORPHAN_POLICY", "skip")
		t.Setenv("COSECHA_CHECKOUT_IDEMPOTENCY_TTL", "1h")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.True(t, cfg.Redis.Enabled)
		assert.Equal(t, "cache.local:6379", cfg.Redis.Addr())
		assert.Equal(t, "0.1", cfg.Checkout.TaxRate.String())
		assert.Equal(t, "skip", cfg.Checkout.OrphanPolicy)
		assert.Equal(t, time.Hour, cfg.Checkout.IdempotencyTTL)
	})

	t.Run("explicit zero shipping fee is kept", func(t *testing.T) {
		t.Setenv("COSECHA_CHECKOUT_SHIPPING_FEE", "0")

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.Checkout.ShippingFee.IsZero())
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		t.Setenv("COSECHA_DATABASE_MAX_OPEN_CONNS", "10")
		t.Setenv("COSECHA_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("zero MaxOpenConns uses default", func(t *testing.T) {
		t.Setenv("COSECHA_DATABASE_MAX_OPEN_CONNS", "0")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	})

	t.Run("validates MaxIdleConns cannot be negative", func(t *testing.T) {
		t.Setenv("COSECHA_DATABASE_MAX_IDLE_CONNS", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns cannot be negative")
	})
}

func TestLoad_CheckoutValidation(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"tax rate of one", "COSECHA_CHECKOUT_TAX_RATE", "1", "checkout.tax_rate must be in [0, 1)"},
		{"negative tax rate", "COSECHA_CHECKOUT_TAX_RATE", "-0.01", "checkout.tax_rate must be in [0, 1)"},
		{"tax rate not a number", "COSECHA_CHECKOUT_TAX_RATE", "veintiuno", "invalid decimal"},
		{"negative shipping fee", "COSECHA_CHECKOUT_SHIPPING_FEE", "-4.95", "checkout.shipping_fee cannot be negative"},
		{"negative threshold", "COSECHA_CHECKOUT_FREE_SHIPPING_THRESHOLD", "-1", "checkout.free_shipping_threshold cannot be negative"},
		{"unknown orphan policy", "COSECHA_CHECKOUT_ORPHAN_POLICY", "ignore", "checkout.orphan_policy must be reject or skip"},
		{"unknown paper size", "COSECHA_PRINTING_PAPER_SIZE", "A3", "printing.paper_size must be A4 or Letter"},
		{"storage without bucket", "COSECHA_STORAGE_ENABLED", "true", "storage.bucket is required"},
		{"sampling ratio above one", "COSECHA_TELEMETRY_SAMPLING_RATIO", "1.5", "telemetry.sampling_ratio must be between"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_ProductionValidation(t *testing.T) {
	t.Run("requires jwt.secret in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("COSECHA_JWT_SECRET", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret is required in production")
	})

	t.Run("requires jwt.secret at least 32 characters in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("COSECHA_JWT_SECRET", "short-secret")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret must be at least 32 characters")
	})

	t.Run("requires database.password in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("COSECHA_DATABASE_PASSWORD", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("COSECHA_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode cannot be 'disable' in production")
	})

	t.Run("rejects wildcard CORS origin in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("COSECHA_HTTP_CORS_ALLOWED_ORIGINS", "*")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cors_allowed_origins cannot be '*'")
	})

	t.Run("passes validation with valid production config", func(t *testing.T) {
		setValidProductionBase(t)

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.IsProduction())
	})
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[app]
name = "cosecha-test"

[redis]
enabled = true
port = 6380

[http]
cors_allowed_origins = ["https://cosecha.example", "http://localhost:5173"]

[checkout]
tax_rate = "0.10"
free_shipping_threshold = "35"
orphan_policy = "skip"
cart_lock_ttl = "5s"

[printing]
paper_size = "Letter"
`), 0o600))

	t.Run("reads sections from the file", func(t *testing.T) {
		cfg, err := LoadFile(path)
		require.NoError(t, err)

		assert.Equal(t, "cosecha-test", cfg.App.Name)
		assert.True(t, cfg.Redis.Enabled)
		assert.Equal(t, 6380, cfg.Redis.Port)
		assert.Equal(t, []string{"https://cosecha.example", "http://localhost:5173"}, cfg.HTTP.CORSAllowedOrigins)
		assert.Equal(t, "0.1", cfg.Checkout.TaxRate.String())
		assert.Equal(t, "35", cfg.Checkout.FreeShippingThreshold.String())
		assert.Equal(t, "4.95", cfg.Checkout.ShippingFee.String())
		assert.Equal(t, "skip", cfg.Checkout.OrphanPolicy)
		assert.Equal(t, 5*time.Second, cfg.Checkout.CartLockTTL)
		assert.Equal(t, "Letter", cfg.Printing.PaperSize)
	})

	t.Run("environment overrides the file", func(t *testing.T) {
		t.Setenv("COSECHA_CHECKOUT_ORPHAN_POLICY", "reject")

		cfg, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "reject", cfg.Checkout.OrphanPolicy)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "absent.toml"))
		assert.Error(t, err)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost")
		assert.Contains(t, dsn, "5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		assert.Contains(t, cfg.DSN(), "pass%40word%23123")
	})
}
