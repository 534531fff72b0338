package config_test

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/contact-sync/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	chdir(t, t.TempDir())
	// las variables vacías cuentan como no definidas
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOST", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "CodigoInterno", cfg.Sync.IntegrationPrefix)
	assert.Equal(t, 30*time.Second, cfg.Sync.HTTPTimeout)
	assert.False(t, cfg.Sync.SkipUnchanged)
	assert.False(t, cfg.Sync.DryRun)
	assert.False(t, cfg.DB.Enabled(), "sin DATABASE_URL ni DB_HOST la auditoría queda deshabilitada")
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_DesdeEntorno(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("OCTADESK_API_URL", "https://octa.example/contacts")
	t.Setenv("OCTADESK_API_KEY", "octa")
	t.Setenv("OMIE_APP_KEY", "k")
	t.Setenv("OMIE_APP_SECRET", "s")
	t.Setenv("SYNC_INTEGRATION_PREFIX", "Ext")
	t.Setenv("SYNC_SKIP_UNCHANGED", "true")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "5")
	t.Setenv("DB_HOST", "db")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "octa", cfg.Octadesk.APIKey)
	assert.Equal(t, "Ext", cfg.Sync.IntegrationPrefix)
	assert.True(t, cfg.Sync.SkipUnchanged)
	assert.Equal(t, 5*time.Second, cfg.Sync.HTTPTimeout)
	assert.True(t, cfg.DB.Enabled())
	assert.NoError(t, cfg.ValidateSync())
}

func TestLoad_TimeoutInvalido(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HTTP_TIMEOUT_SECONDS", "0")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoadWith_FlagEnlazadoTienePrioridad(t *testing.T) {
	chdir(t, t.TempDir())
	v := viper.New()
	v.Set("SYNC_DRY_RUN", true)

	cfg, err := config.LoadWith(v)
	require.NoError(t, err)
	assert.True(t, cfg.Sync.DryRun)
}

func TestValidateSync_ReportaTodasLasFaltantes(t *testing.T) {
	cfg := &config.Config{Omie: config.OmieConfig{APIURL: "https://omie"}}

	err := cfg.ValidateSync()
	require.Error(t, err)
	for _, key := range []string{"OCTADESK_API_URL", "OCTADESK_API_KEY", "OMIE_APP_KEY", "OMIE_APP_SECRET"} {
		assert.Contains(t, err.Error(), key)
	}
	assert.NotContains(t, err.Error(), "OMIE_API_URL")
}

func TestValidateServe_RequiereSecretoJWT(t *testing.T) {
	cfg := &config.Config{
		Octadesk: config.OctadeskConfig{APIURL: "u", APIKey: "k"},
		Omie:     config.OmieConfig{APIURL: "u", AppKey: "k", AppSecret: "s"},
		HTTP:     config.HTTPConfig{Port: 8080},
	}
	err := cfg.ValidateServe()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	cfg.JWT.Secret = "x"
	assert.NoError(t, cfg.ValidateServe())
}

func TestDBConfig_DSN(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss:w", DBName: "sync", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss%3Aw@db:5432/sync?sslmode=disable", c.DSN())
	assert.Equal(t, c.DSN(), c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
