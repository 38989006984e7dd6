package store

import (
	"context"

	"github.com/telebridge/botstore/internal/keys"
	"github.com/telebridge/botstore/internal/model"
)

// Template storage contract: all templates for a group live in one record;
// at most one template per semantic type carries the default flag, and
// updating a template's content unsets its default until re-promoted.

// StoreTemplate inserts or replaces a template identified by (type, name).
// Replacing an existing template clears its default flag; a newly inserted
// default demotes any previous default of the same type.
func (s *BotStore) StoreTemplate(ctx context.Context, chatID int64, tpl model.Template) bool {
	if tpl.Name == "" || tpl.Type == "" {
		return false
	}
	set := s.templateSet(ctx, chatID)
	tpl.UpdatedAt = s.now()

	replaced := false
	for i, t := range set.Templates {
		if t.Type == tpl.Type && t.Name == tpl.Name {
			tpl.IsDefault = false
			set.Templates[i] = tpl
			replaced = true
			break
		}
	}
	if !replaced {
		if tpl.IsDefault {
			for i, t := range set.Templates {
				if t.Type == tpl.Type {
					set.Templates[i].IsDefault = false
				}
			}
		}
		set.Templates = append(set.Templates, tpl)
	}
	return s.storeTemplateSet(ctx, set)
}

// SetDefaultTemplate promotes the named template to the type's default,
// demoting any previous default. Returns false when the template is absent.
func (s *BotStore) SetDefaultTemplate(ctx context.Context, chatID int64, templateType, name string) bool {
	set := s.templateSet(ctx, chatID)
	found := false
	for i, t := range set.Templates {
		if t.Type != templateType {
			continue
		}
		if t.Name == name {
			set.Templates[i].IsDefault = true
			found = true
		} else {
			set.Templates[i].IsDefault = false
		}
	}
	if !found {
		return false
	}
	return s.storeTemplateSet(ctx, set)
}

func (s *BotStore) GetTemplatesForGroup(ctx context.Context, chatID int64) []model.Template {
	return s.templateSet(ctx, chatID).Templates
}

// GetDefaultTemplate returns the active default for the type, if any.
func (s *BotStore) GetDefaultTemplate(ctx context.Context, chatID int64, templateType string) (*model.Template, bool) {
	for _, t := range s.templateSet(ctx, chatID).Templates {
		if t.Type == templateType && t.IsDefault {
			tpl := t
			return &tpl, true
		}
	}
	return nil, false
}

func (s *BotStore) DeleteTemplate(ctx context.Context, chatID int64, templateType, name string) bool {
	set := s.templateSet(ctx, chatID)
	kept := set.Templates[:0]
	removed := false
	for _, t := range set.Templates {
		if t.Type == templateType && t.Name == name {
			removed = true
			continue
		}
		kept = append(kept, t)
	}
	if !removed {
		return false
	}
	set.Templates = kept
	return s.storeTemplateSet(ctx, set)
}

func (s *BotStore) templateSet(ctx context.Context, chatID int64) *model.TemplateSet {
	if set, ok := getRecord[model.TemplateSet](ctx, s, keys.Templates(chatID), "templateSet"); ok && set != nil {
		return set
	}
	return &model.TemplateSet{ChatID: chatID}
}

func (s *BotStore) storeTemplateSet(ctx context.Context, set *model.TemplateSet) bool {
	set.UpdatedAt = s.now()
	return s.setRecord(ctx, keys.Templates(set.ChatID), set, 0, "storeTemplateSet")
}
