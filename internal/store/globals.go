package store

import (
	"context"
	"encoding/json"

	"github.com/telebridge/botstore/internal/keys"
)

// Global settings are arbitrary JSON payloads under global_config:<key>.

func (s *BotStore) SetGlobalConfig(ctx context.Context, key string, value json.RawMessage) bool {
	if key == "" || len(value) == 0 {
		return false
	}
	if err := s.engine.Set(ctx, keys.GlobalConfig(key), value); err != nil {
		s.log.Error().Err(err).Str("op", "SetGlobalConfig").Str("key", key).Msg("write failed")
		return false
	}
	return true
}

func (s *BotStore) GetGlobalConfig(ctx context.Context, key string) (json.RawMessage, bool) {
	b, ok := s.engine.Get(ctx, keys.GlobalConfig(key))
	if !ok {
		return nil, false
	}
	return json.RawMessage(b), true
}

func (s *BotStore) DeleteGlobalConfig(ctx context.Context, key string) bool {
	return s.deleteKey(ctx, keys.GlobalConfig(key), "DeleteGlobalConfig")
}
