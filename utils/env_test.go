package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDatabaseURL(t *testing.T) {
	t.Cleanup(viper.Reset)

	t.Setenv("DATABASE_URL", "")
	_, err := GetDatabaseURL()
	assert.Error(t, err)

	viper.Set("database_url", "sqlite://app.db")
	url, err := GetDatabaseURL()
	require.NoError(t, err)
	assert.Equal(t, "sqlite://app.db", url)

	t.Setenv("DATABASE_URL", "postgres://localhost/app")
	url, err = GetDatabaseURL()
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/app", url)
}

func TestLoadConfig(t *testing.T) {
	t.Cleanup(viper.Reset)
	dir := t.TempDir()

	path := filepath.Join(dir, "schemashot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database_url: mysql://root@db:3306/shop\noptimize:\n  threshold: 100\n"), 0o644))

	require.NoError(t, LoadConfig(path))
	assert.Equal(t, "mysql://root@db:3306/shop", viper.GetString("database_url"))
	assert.Equal(t, 100.0, viper.GetFloat64("optimize.threshold"))

	viper.Reset()
	assert.Error(t, LoadConfig(filepath.Join(dir, "missing.yaml")))
}
