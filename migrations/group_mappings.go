package migrations

import (
	"context"

	"github.com/consensuslabs/pavilion-network/datamigrate/internal/datamigration"
	"github.com/consensuslabs/pavilion-network/datamigrate/internal/document"
	"github.com/consensuslabs/pavilion-network/datamigrate/internal/logger"
	"github.com/consensuslabs/pavilion-network/datamigrate/internal/permissions"
	"github.com/consensuslabs/pavilion-network/datamigrate/internal/settings"
	"gorm.io/gorm"
)

// RemoveAdminFromGroupMappingName is the ledger name of the group mapping
// cleanup.
const RemoveAdminFromGroupMappingName = "migrate-remove-admin-from-group-mapping-if-needed"

// SSOProviders are the identity providers whose group mappings are cleaned.
var SSOProviders = []string{"ldap", "saml", "jwt"}

func groupMappingsKey(provider string) string { return provider + "-group-mappings" }
func syncAdminGroupKey(provider string) string { return provider + "-sync-admin-group" }

// NewRemoveAdminFromGroupMappingMigration removes the Administrators group
// from SSO group mappings of providers that are not allowed to sync admin
// membership. It runs at most once per dataset. A provider whose mapping
// cannot be parsed is left as is with a warning.
func NewRemoveAdminFromGroupMappingMigration(log logger.Logger) datamigration.Unit {
	return datamigration.NewUnit(RemoveAdminFromGroupMappingName, removeAdminFromGroupMappings(log),
		datamigration.WithRepeatableIndex(1),
		datamigration.WithCatchPolicy(datamigration.SuppressAndWarn),
		datamigration.WithDescription("Remove the Administrators group from SSO group mappings unless admin sync is enabled"))
}

func removeAdminFromGroupMappings(log logger.Logger) datamigration.Action {
	return func(ctx context.Context, tx *gorm.DB) error {
		admin, err := permissions.FindByName(ctx, tx, permissions.AdminGroupName)
		if err != nil {
			return err
		}
		if admin == nil {
			log.LogInfo("No Administrators group; nothing to clean", nil)
			return nil
		}

		store := settings.NewGormStore(tx)
		for _, provider := range SSOProviders {
			syncAdmin, _, err := store.Get(ctx, syncAdminGroupKey(provider))
			if err != nil {
				return err
			}
			if syncAdmin == "true" {
				continue
			}

			raw, ok, err := store.Get(ctx, groupMappingsKey(provider))
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			mappings, err := document.ParseObject(raw)
			if err != nil {
				log.LogWarn("Skipping unreadable group mappings", map[string]interface{}{
					"provider": provider,
					"setting":  groupMappingsKey(provider),
					"error":    err.Error(),
				})
				continue
			}

			cleaned, changed := RemoveGroupFromMappings(mappings, admin.ID)
			if !changed {
				continue
			}
			encoded, err := cleaned.Encode()
			if err != nil {
				return err
			}
			if err := store.Set(ctx, groupMappingsKey(provider), encoded); err != nil {
				return err
			}
			log.LogInfo("Removed Administrators group from group mappings", map[string]interface{}{
				"provider": provider,
			})
		}
		return nil
	}
}

// RemoveGroupFromMappings drops groupID from every group id list in
// mappings. Entries whose list becomes empty are kept. The bool reports
// whether anything was removed.
func RemoveGroupFromMappings(mappings document.Value, groupID uint64) (document.Value, bool) {
	obj, ok := mappings.AsObject()
	if !ok {
		return mappings, false
	}

	changed := false
	out := obj.MapValues(func(_ string, ids document.Value) document.Value {
		elems, ok := ids.AsArray()
		if !ok {
			return ids.Clone()
		}
		kept := make([]document.Value, 0, len(elems))
		for _, e := range elems {
			if id, ok := e.AsInt(); ok && id >= 0 && uint64(id) == groupID {
				changed = true
				continue
			}
			kept = append(kept, e.Clone())
		}
		return document.Array(kept...)
	})
	if !changed {
		return mappings, false
	}
	return document.FromObject(out), true
}
