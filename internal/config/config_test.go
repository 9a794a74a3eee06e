package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"OFXIMPORT_LOG_LEVEL", "OFXIMPORT_LOG_FORMAT", "OFXIMPORT_DATA_DIRECTORY",
		"OFXIMPORT_PARSER_DEFAULT_CURRENCY", "OFXIMPORT_IMPORT_SKIP_DUPLICATES",
		"OFXIMPORT_STORE_RULES_FILE",
	} {
		if old, ok := os.LookupEnv(key); ok {
			require.NoError(t, os.Unsetenv(key))
			t.Cleanup(func() { _ = os.Setenv(key, old) })
		}
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(writeConfig(t, "log:\n  level: info\n"))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "database", cfg.Data.Directory)
	assert.Equal(t, "rules.yaml", cfg.Store.RulesFile)
	assert.Equal(t, "taxonomy.yaml", cfg.Store.TaxonomyFile)
	assert.Equal(t, "counterparties.yaml", cfg.Store.CounterpartiesFile)
	assert.Equal(t, "records.csv", cfg.Store.RecordsFile)
	assert.Equal(t, "imports.csv", cfg.Store.HistoryFile)
	assert.Equal(t, "", cfg.Parser.DefaultCurrency)
	assert.True(t, cfg.Import.SkipDuplicates)
}

func TestLoad_ConfigFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
log:
  level: debug
  format: json
data:
  directory: /var/lib/ofx
parser:
  default_currency: BRL
import:
  skip_duplicates: false
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "/var/lib/ofx", cfg.Data.Directory)
	assert.Equal(t, "BRL", cfg.Parser.DefaultCurrency)
	assert.False(t, cfg.Import.SkipDuplicates)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "log:\n  level: debug\n")
	t.Setenv("OFXIMPORT_LOG_LEVEL", "warn")
	t.Setenv("OFXIMPORT_STORE_RULES_FILE", "keywords.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "keywords.yaml", cfg.Store.RulesFile)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errPart string
	}{
		{"bad level", "log:\n  level: loud\n", "invalid log level"},
		{"bad format", "log:\n  format: xml\n", "invalid log format"},
		{"empty data dir", "data:\n  directory: \"  \"\n", "data.directory"},
		{"bad currency", "parser:\n  default_currency: REAL\n", "default_currency"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errPart)
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("OFXIMPORT_TEST_VALUE=from-dotenv\n"), 0600))
	t.Cleanup(func() { _ = os.Unsetenv("OFXIMPORT_TEST_VALUE") })

	loaded := loadEnvFile(filepath.Join(dir, "missing.env"), envFile)
	assert.Equal(t, envFile, loaded)
	assert.Equal(t, "from-dotenv", GetEnv("OFXIMPORT_TEST_VALUE", "fallback"))
	assert.Equal(t, "fallback", GetEnv("OFXIMPORT_UNSET_VALUE", "fallback"))
}
