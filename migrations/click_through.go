package migrations

import (
	"context"

	"github.com/consensuslabs/pavilion-network/datamigrate/internal/dashboard"
	"github.com/consensuslabs/pavilion-network/datamigrate/internal/datamigration"
	"github.com/consensuslabs/pavilion-network/datamigrate/internal/document"
	"github.com/consensuslabs/pavilion-network/datamigrate/internal/logger"
	"gorm.io/gorm"
)

// ClickThroughMigrationName is the ledger name of the click behavior reshape.
const ClickThroughMigrationName = "migrate-click-through"

const (
	keyClick             = "click"
	keyClickLinkTemplate = "click_link_template"
	keyClickBehavior     = "click_behavior"
	keyColumnSettings    = "column_settings"
	keyViewAs            = "view_as"
	keyLinkTemplate      = "link_template"
	keyLinkText          = "link_text"
)

// NewClickThroughMigration moves legacy link settings on cards and dashboard
// cards into the click_behavior shape and writes the merged result onto each
// dashboard card.
func NewClickThroughMigration(log logger.Logger) datamigration.Unit {
	return datamigration.NewUnit(ClickThroughMigrationName, migrateClickThrough(log),
		datamigration.WithDescription("Reshape legacy link settings into click_behavior on dashboard cards"))
}

func migrateClickThrough(log logger.Logger) datamigration.Action {
	return func(ctx context.Context, tx *gorm.DB) error {
		repo := dashboard.NewRepository(tx)
		pairs, err := repo.FindSettingsPairs(ctx, `"`+keyLinkTemplate+`":`, `"`+keyClickLinkTemplate+`":`)
		if err != nil {
			return err
		}

		updated := 0
		for _, pair := range pairs {
			source, err := document.ParseObject(pair.CardSettings)
			if err != nil {
				log.LogWarn("Skipping dashboard card with unreadable card settings", map[string]interface{}{
					"dashcard_id": pair.DashboardCardID,
					"error":       err.Error(),
				})
				continue
			}
			target, err := document.ParseObject(pair.DashboardCardSettings)
			if err != nil {
				log.LogWarn("Skipping dashboard card with unreadable settings", map[string]interface{}{
					"dashcard_id": pair.DashboardCardID,
					"error":       err.Error(),
				})
				continue
			}

			result, changed := ReshapeClickBehavior(source, target)
			if !changed {
				continue
			}
			encoded, err := result.Encode()
			if err != nil {
				return err
			}
			if err := repo.UpdateVisualizationSettings(ctx, pair.DashboardCardID, encoded); err != nil {
				return err
			}
			updated++
		}

		log.LogInfo("Migrated dashboard click behavior", map[string]interface{}{
			"candidates": len(pairs),
			"updated":    updated,
		})
		return nil
	}
}

// ReshapeClickBehavior returns the settings a dashboard card should store
// once both its own settings (target) and its card's settings (source) are in
// the click_behavior shape. Precedence, lowest first: reshaped source,
// reshaped target, click_behavior entries already present on target. A
// target with its own top-level legacy click settings does not inherit the
// source's top-level click settings. Empty values are stripped after the
// merge. The bool is false when the result equals target.
func ReshapeClickBehavior(source, target document.Value) (document.Value, bool) {
	fixedSource := reshapeSettings(source)
	fixedTarget := reshapeSettings(target)

	if target.Has(keyClick) || target.Has(keyClickLinkTemplate) {
		if obj, ok := fixedSource.AsObject(); ok {
			obj.Delete(keyClick, keyClickLinkTemplate, keyClickBehavior)
		}
	}

	result := document.StripEmpty(document.DeepMerge(fixedSource, fixedTarget, existingClickBehavior(target)))
	if document.Equal(result, target) {
		return target, false
	}
	return result, true
}

func reshapeSettings(settings document.Value) document.Value {
	obj, ok := settings.AsObject()
	if !ok {
		return settings.Clone()
	}
	out := obj.Clone()

	if click, _ := out.Get(keyClick); isString(click, "link") {
		template, _ := out.Get(keyClickLinkTemplate)
		out.Set(keyClickBehavior, linkBehavior(template, document.Null()))
		out.Delete(keyClick, keyClickLinkTemplate)
	}

	if columns, ok := out.Get(keyColumnSettings); ok {
		if cols, ok := columns.AsObject(); ok {
			out.Set(keyColumnSettings, document.FromObject(cols.MapValues(func(_ string, col document.Value) document.Value {
				return reshapeColumn(col)
			})))
		}
	}
	return document.FromObject(out)
}

func reshapeColumn(col document.Value) document.Value {
	obj, ok := col.AsObject()
	if !ok {
		return col
	}
	viewAs, _ := obj.Get(keyViewAs)
	template, hasTemplate := obj.Get(keyLinkTemplate)
	if !isString(viewAs, "link") || !hasTemplate {
		return col
	}

	text, _ := obj.Get(keyLinkText)
	out := obj.Clone()
	out.Set(keyClickBehavior, linkBehavior(template, text))
	out.Delete(keyViewAs, keyLinkTemplate, keyLinkText)
	return document.FromObject(out)
}

// existingClickBehavior keeps only the click_behavior entries of settings,
// at the top level and per column.
func existingClickBehavior(settings document.Value) document.Value {
	obj, ok := settings.AsObject()
	if !ok {
		return document.Null()
	}
	out := obj.Select(keyClickBehavior)

	columns, _ := obj.Get(keyColumnSettings)
	if cols, ok := columns.AsObject(); ok {
		kept := document.NewObject()
		cols.Range(func(name string, col document.Value) bool {
			if behavior, ok := col.Get(keyClickBehavior); ok {
				kept.Set(name, document.FromObject(document.NewObject().Set(keyClickBehavior, behavior.Clone())))
			}
			return true
		})
		if kept.Len() > 0 {
			out.Set(keyColumnSettings, document.FromObject(kept))
		}
	}
	return document.FromObject(out)
}

func linkBehavior(template, text document.Value) document.Value {
	behavior := document.NewObject().
		Set("type", document.String("link")).
		Set("linkType", document.String("url")).
		Set("linkTemplate", template.Clone())
	if !text.IsNull() {
		behavior.Set("linkTextTemplate", text.Clone())
	}
	return document.FromObject(behavior)
}

func isString(v document.Value, want string) bool {
	s, ok := v.AsString()
	return ok && s == want
}
