package store

import (
	"context"

	"github.com/telebridge/botstore/internal/keys"
	"github.com/telebridge/botstore/internal/model"
)

// StoreAdminProfile writes the profile and registers the admin id in the
// global enumeration list. The engine has no index scan, so the list is the
// only way to find all admins; it is kept consistent on add and delete.
func (s *BotStore) StoreAdminProfile(ctx context.Context, p *model.AdminProfile) bool {
	if p == nil || p.AdminID == 0 {
		return false
	}
	if p.ActivatedAt.IsZero() {
		p.ActivatedAt = s.now()
	}
	if !s.setRecord(ctx, keys.AdminProfile(p.AdminID), p, 0, "StoreAdminProfile") {
		return false
	}
	if err := s.appendAdminID(ctx, p.AdminID); err != nil {
		s.log.Warn().Err(err).Str("op", "StoreAdminProfile").Int64("adminId", p.AdminID).Msg("admin id list update failed")
		return false
	}
	return true
}

func (s *BotStore) GetAdminProfile(ctx context.Context, adminID int64) (*model.AdminProfile, bool) {
	return getRecord[model.AdminProfile](ctx, s, keys.AdminProfile(adminID), "GetAdminProfile")
}

// GetAllAdminProfiles reads the id list and fetches each profile, skipping
// ids whose profile has vanished.
func (s *BotStore) GetAllAdminProfiles(ctx context.Context) []*model.AdminProfile {
	ids, ok := getRecord[[]int64](ctx, s, keys.AdminProfileIDs, "GetAllAdminProfiles")
	if !ok || ids == nil {
		return nil
	}
	profiles := make([]*model.AdminProfile, 0, len(*ids))
	for _, id := range *ids {
		if p, ok := s.GetAdminProfile(ctx, id); ok {
			profiles = append(profiles, p)
		}
	}
	return profiles
}

// DeleteAdminProfile removes the profile and its id-list entry.
func (s *BotStore) DeleteAdminProfile(ctx context.Context, adminID int64) bool {
	if !s.deleteKey(ctx, keys.AdminProfile(adminID), "DeleteAdminProfile") {
		return false
	}
	if err := s.removeAdminID(ctx, adminID); err != nil {
		s.log.Warn().Err(err).Str("op", "DeleteAdminProfile").Int64("adminId", adminID).Msg("admin id list cleanup failed")
		return false
	}
	return true
}

func (s *BotStore) appendAdminID(ctx context.Context, adminID int64) error {
	var ids []int64
	if existing, ok := getRecord[[]int64](ctx, s, keys.AdminProfileIDs, "appendAdminID"); ok && existing != nil {
		ids = *existing
	}
	for _, id := range ids {
		if id == adminID {
			return nil
		}
	}
	ids = append(ids, adminID)
	if !s.setRecord(ctx, keys.AdminProfileIDs, ids, 0, "appendAdminID") {
		return errWriteFailed
	}
	return nil
}

func (s *BotStore) removeAdminID(ctx context.Context, adminID int64) error {
	existing, ok := getRecord[[]int64](ctx, s, keys.AdminProfileIDs, "removeAdminID")
	if !ok || existing == nil {
		return nil
	}
	kept := (*existing)[:0]
	for _, id := range *existing {
		if id != adminID {
			kept = append(kept, id)
		}
	}
	if !s.setRecord(ctx, keys.AdminProfileIDs, kept, 0, "removeAdminID") {
		return errWriteFailed
	}
	return nil
}
