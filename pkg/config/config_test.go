package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
env: prod
server:
  port: 9000
auth:
  jwt_secret: s3cret
mercadopago:
  access_token: TEST-123
  timeout: 3s
callbacks:
  success_url: https://shop.example.com/checkout/success
plans:
  - id: pro-monthly
    name: Pro
    amount: "1500.50"
    currency: ARS
    frequency: 1
    frequency_type: months
  - id: basic-yearly
    name: Basic
    amount: 12000
    currency: ARS
    frequency: 12
    frequency_type: months
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestNew_LoadsFileAndDefaults(t *testing.T) {
	t.Setenv("APP_CONFIG_FILE", writeConfig(t, sampleYAML))

	cfg, err := New()
	require.NoError(t, err)
	require.Equal(t, EnvProd, cfg.Env)
	require.Equal(t, 9000, cfg.Server.Port)
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	require.Equal(t, 3*time.Second, cfg.MercadoPago.Timeout)
	require.Equal(t, "https://api.mercadopago.com", cfg.MercadoPago.BaseURL)
	require.Equal(t, "@every 5m", cfg.Poller.Spec)
	require.Len(t, cfg.Plans, 2)

	pro := cfg.GetPlanByID("pro-monthly")
	require.NotNil(t, pro)
	require.True(t, decimal.RequireFromString("1500.50").Equal(pro.Amount))
	require.True(t, decimal.NewFromInt(12000).Equal(cfg.GetPlanByID("basic-yearly").Amount))
	require.Nil(t, cfg.GetPlanByID("missing"))
}

func TestNew_EnvOverridesFile(t *testing.T) {
	t.Setenv("APP_CONFIG_FILE", writeConfig(t, sampleYAML))
	t.Setenv("APP_MERCADOPAGO_ACCESS_TOKEN", "APP_USR-from-env")

	cfg, err := New()
	require.NoError(t, err)
	require.Equal(t, "APP_USR-from-env", cfg.MercadoPago.AccessToken)
}

func TestNew_RejectsInvalidPlan(t *testing.T) {
	t.Setenv("APP_CONFIG_FILE", writeConfig(t, `
plans:
  - id: broken
    amount: 0
    currency: ARS
    frequency: 1
    frequency_type: months
`))

	_, err := New()
	require.Error(t, err)
	require.Contains(t, err.Error(), "broken")
}
