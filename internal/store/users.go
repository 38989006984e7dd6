package store

import (
	"context"

	"github.com/telebridge/botstore/internal/keys"
	"github.com/telebridge/botstore/internal/model"
)

func (s *BotStore) StoreUserProfile(ctx context.Context, u *model.UserProfile) bool {
	if u == nil || u.UserID == 0 {
		return false
	}
	u.UpdatedAt = s.now()
	return s.setRecord(ctx, keys.UserProfile(u.UserID), u, 0, "StoreUserProfile")
}

func (s *BotStore) GetUserProfile(ctx context.Context, userID int64) (*model.UserProfile, bool) {
	return getRecord[model.UserProfile](ctx, s, keys.UserProfile(userID), "GetUserProfile")
}

// UpdateUserProfile merges the patch into the stored profile, preserving
// unspecified fields. UserID is immutable; an attempt to change it is logged
// and ignored.
func (s *BotStore) UpdateUserProfile(ctx context.Context, userID int64, patch *model.UserProfileUpdate) bool {
	if patch == nil {
		return false
	}
	existing, ok := s.GetUserProfile(ctx, userID)
	if !ok {
		return false
	}

	if patch.UserID != nil && *patch.UserID != existing.UserID {
		s.log.Warn().
			Str("op", "UpdateUserProfile").
			Int64("userId", userID).
			Int64("attempted", *patch.UserID).
			Msg("ignoring attempt to change immutable userId")
	}
	if patch.Username != nil {
		existing.Username = *patch.Username
	}
	if patch.FirstName != nil {
		existing.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		existing.LastName = *patch.LastName
	}
	if patch.Email != nil {
		existing.Email = patch.Email
	}
	existing.UpdatedAt = s.now()
	return s.setRecord(ctx, keys.UserProfile(userID), existing, 0, "UpdateUserProfile")
}

// SetUserState overwrites the user's in-progress conversational state.
func (s *BotStore) SetUserState(ctx context.Context, st *model.UserState) bool {
	if st == nil || st.UserID == 0 {
		return false
	}
	st.UpdatedAt = s.now()
	return s.setRecord(ctx, keys.UserState(st.UserID), st, 0, "SetUserState")
}

func (s *BotStore) GetUserState(ctx context.Context, userID int64) (*model.UserState, bool) {
	return getRecord[model.UserState](ctx, s, keys.UserState(userID), "GetUserState")
}

// ClearUserState removes the state at flow completion or abandonment.
func (s *BotStore) ClearUserState(ctx context.Context, userID int64) bool {
	return s.deleteKey(ctx, keys.UserState(userID), "ClearUserState")
}
