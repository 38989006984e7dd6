package store

import (
	"context"
	"time"

	"github.com/telebridge/botstore/internal/keys"
	"github.com/telebridge/botstore/internal/model"
)

// SetupStateTTL bounds how long an in-chat setup wizard survives without
// completing.
const SetupStateTTL = time.Hour

func (s *BotStore) StoreGroupConfig(ctx context.Context, g *model.GroupConfig) bool {
	if g == nil || g.ChatID == 0 {
		return false
	}
	return s.setRecord(ctx, keys.GroupConfig(g.ChatID), g, 0, "StoreGroupConfig")
}

func (s *BotStore) GetGroupConfig(ctx context.Context, chatID int64) (*model.GroupConfig, bool) {
	return getRecord[model.GroupConfig](ctx, s, keys.GroupConfig(chatID), "GetGroupConfig")
}

// UpdateGroupConfig merges the patch into the stored config. ChatID is
// immutable; CustomerID is immutable once set. Attempts to change either are
// logged and stripped before merging.
func (s *BotStore) UpdateGroupConfig(ctx context.Context, chatID int64, patch *model.GroupConfigUpdate) bool {
	if patch == nil {
		return false
	}
	existing, ok := s.GetGroupConfig(ctx, chatID)
	if !ok {
		return false
	}

	if patch.ChatID != nil && *patch.ChatID != existing.ChatID {
		s.log.Warn().
			Str("op", "UpdateGroupConfig").
			Int64("chatId", chatID).
			Int64("attempted", *patch.ChatID).
			Msg("ignoring attempt to change immutable chatId")
	}
	if patch.CustomerID != nil {
		if existing.CustomerID != "" && *patch.CustomerID != existing.CustomerID {
			s.log.Warn().
				Str("op", "UpdateGroupConfig").
				Int64("chatId", chatID).
				Str("attempted", *patch.CustomerID).
				Msg("ignoring attempt to change customerId once set")
		} else if existing.CustomerID == "" {
			existing.CustomerID = *patch.CustomerID
		}
	}
	if patch.IsConfigured != nil {
		existing.IsConfigured = *patch.IsConfigured
	}
	if patch.BotIsAdmin != nil {
		existing.BotIsAdmin = *patch.BotIsAdmin
	}
	if patch.SetupBy != nil {
		existing.SetupBy = *patch.SetupBy
	}
	if patch.SetupAt != nil {
		existing.SetupAt = patch.SetupAt
	}
	if patch.Metadata != nil {
		if existing.Metadata == nil {
			existing.Metadata = make(map[string]interface{}, len(patch.Metadata))
		}
		for k, v := range patch.Metadata {
			existing.Metadata[k] = v
		}
	}
	return s.setRecord(ctx, keys.GroupConfig(chatID), existing, 0, "UpdateGroupConfig")
}

// StoreSetupState persists in-chat wizard state with its fixed TTL.
func (s *BotStore) StoreSetupState(ctx context.Context, st *model.SetupState) bool {
	if st == nil || st.ChatID == 0 {
		return false
	}
	if st.StartedAt.IsZero() {
		st.StartedAt = s.now()
	}
	return s.setRecord(ctx, keys.SetupState(st.ChatID), st, SetupStateTTL, "StoreSetupState")
}

func (s *BotStore) GetSetupState(ctx context.Context, chatID int64) (*model.SetupState, bool) {
	return getRecord[model.SetupState](ctx, s, keys.SetupState(chatID), "GetSetupState")
}

// UpdateSetupState merges the patch into the stored state and refreshes the
// TTL. ChatID is immutable.
func (s *BotStore) UpdateSetupState(ctx context.Context, chatID int64, patch *model.SetupStateUpdate) bool {
	if patch == nil {
		return false
	}
	existing, ok := s.GetSetupState(ctx, chatID)
	if !ok {
		return false
	}

	if patch.ChatID != nil && *patch.ChatID != existing.ChatID {
		s.log.Warn().
			Str("op", "UpdateSetupState").
			Int64("chatId", chatID).
			Int64("attempted", *patch.ChatID).
			Msg("ignoring attempt to change immutable chatId")
	}
	if patch.AdminID != nil {
		existing.AdminID = *patch.AdminID
	}
	if patch.Step != nil {
		existing.Step = *patch.Step
	}
	if patch.Data != nil {
		if existing.Data == nil {
			existing.Data = make(map[string]interface{}, len(patch.Data))
		}
		for k, v := range patch.Data {
			existing.Data[k] = v
		}
	}
	return s.setRecord(ctx, keys.SetupState(chatID), existing, SetupStateTTL, "UpdateSetupState")
}

func (s *BotStore) ClearSetupState(ctx context.Context, chatID int64) bool {
	return s.deleteKey(ctx, keys.SetupState(chatID), "ClearSetupState")
}
