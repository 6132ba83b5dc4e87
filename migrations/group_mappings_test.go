package migrations

import (
	"context"
	"testing"

	"github.com/consensuslabs/pavilion-network/datamigrate/internal/datamigration"
	"github.com/consensuslabs/pavilion-network/datamigrate/internal/document"
	"github.com/consensuslabs/pavilion-network/datamigrate/internal/permissions"
	"github.com/consensuslabs/pavilion-network/datamigrate/internal/settings"
	"github.com/consensuslabs/pavilion-network/datamigrate/testhelper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRemoveGroupFromMappings(t *testing.T) {
	in := document.MustParse(`{"cn=Admins":[2],"cn=Staff":[1,2,3],"cn=Other":[3],"bad":"x"}`)

	got, changed := RemoveGroupFromMappings(in, 2)
	require.True(t, changed)
	assert.True(t, document.Equal(document.MustParse(`{"cn=Admins":[],"cn=Staff":[1,3],"cn=Other":[3],"bad":"x"}`), got))
	assert.True(t, document.Equal(document.MustParse(`{"cn=Admins":[2],"cn=Staff":[1,2,3],"cn=Other":[3],"bad":"x"}`), in))

	_, changed = RemoveGroupFromMappings(in, 9)
	assert.False(t, changed)
}

func setupGroupMappingDB(t *testing.T) (*gorm.DB, *settings.GormStore) {
	t.Helper()
	db := testhelper.NewTestDB(t, append(EngineModels(), DomainModels()...)...)
	require.NoError(t, db.Create(&[]permissions.Group{
		{ID: 1, Name: "All Users"},
		{ID: 2, Name: permissions.AdminGroupName},
	}).Error)
	return db, settings.NewGormStore(db)
}

func runGroupMappingMigration(t *testing.T, db *gorm.DB, log *testhelper.TestLogger) {
	t.Helper()
	registry, err := datamigration.BuildRegistry(NewRemoveAdminFromGroupMappingMigration(log))
	require.NoError(t, err)
	runner, err := datamigration.NewRunner(db, registry, log)
	require.NoError(t, err)
	require.NoError(t, runner.RunAll(context.Background()))
}

func TestRemoveAdminFromGroupMappingMigration(t *testing.T) {
	ctx := context.Background()
	db, store := setupGroupMappingDB(t)
	log := testhelper.NewTestLogger(false)

	require.NoError(t, store.Set(ctx, "ldap-group-mappings", `{"cn=Admins,dc=example":[2],"cn=Staff,dc=example":[1,2]}`))
	require.NoError(t, store.Set(ctx, "saml-group-mappings", `{"admins":[2]}`))
	require.NoError(t, store.Set(ctx, "saml-sync-admin-group", "true"))
	require.NoError(t, store.Set(ctx, "jwt-group-mappings", `{"staff":[1]}`))

	runGroupMappingMigration(t, db, log)

	ldap, _, err := store.Get(ctx, "ldap-group-mappings")
	require.NoError(t, err)
	assert.True(t, document.Equal(document.MustParse(`{"cn=Admins,dc=example":[],"cn=Staff,dc=example":[1]}`), document.MustParse(ldap)))

	saml, _, err := store.Get(ctx, "saml-group-mappings")
	require.NoError(t, err)
	assert.Equal(t, `{"admins":[2]}`, saml)

	jwt, _, err := store.Get(ctx, "jwt-group-mappings")
	require.NoError(t, err)
	assert.Equal(t, `{"staff":[1]}`, jwt)

	index, ok, err := datamigration.NewGate(db).Current(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, index)
}

func TestRemoveAdminFromGroupMappingMigration_GateAlreadyAdvanced(t *testing.T) {
	ctx := context.Background()
	db, store := setupGroupMappingDB(t)
	log := testhelper.NewTestLogger(false)

	require.NoError(t, store.Set(ctx, "ldap-group-mappings", `{"admins":[2]}`))
	require.NoError(t, store.Set(ctx, datamigration.GateSettingKey, "1"))

	runGroupMappingMigration(t, db, log)

	ldap, _, err := store.Get(ctx, "ldap-group-mappings")
	require.NoError(t, err)
	assert.Equal(t, `{"admins":[2]}`, ldap)

	names, err := datamigration.NewLedger(db).LoadCompletedNames(ctx)
	require.NoError(t, err)
	assert.Contains(t, names, RemoveAdminFromGroupMappingName)
}

func TestRemoveAdminFromGroupMappingMigration_MalformedMappingIsSkipped(t *testing.T) {
	ctx := context.Background()
	db, store := setupGroupMappingDB(t)
	log := testhelper.NewTestLogger(false)

	require.NoError(t, store.Set(ctx, "ldap-group-mappings", `{"admins":[2]}`))
	require.NoError(t, store.Set(ctx, "saml-group-mappings", `[not json`))

	runGroupMappingMigration(t, db, log)

	warns := log.GetWarnMessages()
	require.Len(t, warns, 1)
	assert.Equal(t, "saml", warns[0].Fields["provider"])
	assert.Equal(t, "saml-group-mappings", warns[0].Fields["setting"])

	ldap, _, err := store.Get(ctx, "ldap-group-mappings")
	require.NoError(t, err)
	assert.Equal(t, `{"admins":[]}`, ldap)

	saml, _, err := store.Get(ctx, "saml-group-mappings")
	require.NoError(t, err)
	assert.Equal(t, `[not json`, saml)

	index, ok, err := datamigration.NewGate(db).Current(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, index)

	names, err := datamigration.NewLedger(db).LoadCompletedNames(ctx)
	require.NoError(t, err)
	assert.Contains(t, names, RemoveAdminFromGroupMappingName)
}

func TestRegistryOrder(t *testing.T) {
	registry, err := NewRegistry(testhelper.NewTestLogger(false))
	require.NoError(t, err)

	units := registry.Units()
	require.Len(t, units, 2)
	assert.Equal(t, ClickThroughMigrationName, units[0].Name)
	assert.Equal(t, RemoveAdminFromGroupMappingName, units[1].Name)
	assert.Equal(t, 1, units[1].RepeatableIndex)
}
