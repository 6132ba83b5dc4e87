package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/consensuslabs/pavilion-network/datamigrate/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	name := "config.yaml"
	if os.Getenv("ENV") == "test" {
		name = "config_test.yaml"
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	return dir
}

func TestBootstrap_SQLite(t *testing.T) {
	dir := writeConfig(t, `
environment: test
server:
  enabled: false
database:
  driver: sqlite
  path: data.db
logging:
  level: error
migration:
  enabled: true
  autoMigrate: true
`)

	c, err := Bootstrap(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	assert.Equal(t, filepath.Join(dir, "data.db"), c.Config.Database.Path)

	ctx := context.Background()
	require.NoError(t, c.RunMigrations(ctx))

	status, err := c.Runner.Status(ctx)
	require.NoError(t, err)
	require.Len(t, status.Units, 2)
	for _, u := range status.Units {
		assert.True(t, u.Completed, u.Name)
	}
	require.NotNil(t, status.GateIndex)
	assert.Equal(t, 1, *status.GateIndex)

	// A second pass finds nothing to do.
	require.NoError(t, c.RunMigrations(ctx))
	names, err := c.Runner.Ledger().LoadCompletedNames(ctx)
	require.NoError(t, err)
	assert.Contains(t, names, migrations.ClickThroughMigrationName)
	assert.Contains(t, names, migrations.RemoveAdminFromGroupMappingName)
}

func TestBootstrap_MigrationsDisabled(t *testing.T) {
	dir := writeConfig(t, `
server:
  enabled: false
database:
  driver: sqlite
  path: data.db
logging:
  level: error
migration:
  enabled: false
  autoMigrate: true
`)

	c, err := Bootstrap(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	ctx := context.Background()
	require.NoError(t, c.RunMigrations(ctx))
	names, err := c.Runner.Ledger().LoadCompletedNames(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestBootstrap_InvalidConfig(t *testing.T) {
	dir := writeConfig(t, `
database:
  driver: sqlite
`)
	_, err := Bootstrap(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database path is required")
}
