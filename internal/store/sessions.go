package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/telebridge/botstore/internal/keys"
	"github.com/telebridge/botstore/internal/model"
)

const (
	// SetupSessionTTL bounds group-setup wizard sessions.
	SetupSessionTTL = 10 * time.Minute

	// DmSessionTTLFloor is the minimum effective DM session TTL. A session
	// whose remaining lifetime is at or below the floor gets silently
	// extended by DmSessionExtension so a wizard step never lands on an
	// already-expired session.
	DmSessionTTLFloor  = 5 * time.Minute
	DmSessionExtension = 30 * time.Minute
)

// StoreSetupSession writes the session plus its admin and group reverse
// indexes, all carrying the session TTL. The store allows lookup-before-
// create; enforcing at-most-one active session per admin/group is caller
// policy.
func (s *BotStore) StoreSetupSession(ctx context.Context, sess *model.SetupSession) bool {
	if sess == nil || sess.AdminID == 0 {
		return false
	}
	if sess.SessionID == "" {
		sess.SessionID = uuid.New().String()
	}
	if sess.Status == "" {
		sess.Status = model.SessionInProgress
	}
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = s.now()
	}
	if sess.ExpiresAt.IsZero() {
		sess.ExpiresAt = s.now().Add(SetupSessionTTL)
	}

	r := s.fanout(ctx, "StoreSetupSession", []fanoutWrite{
		{key: keys.SetupSession(sess.SessionID), value: sess, ttl: SetupSessionTTL},
		{key: keys.SetupSessionByAdmin(sess.AdminID), value: sess.SessionID, ttl: SetupSessionTTL},
		{key: keys.SetupSessionByGroup(sess.GroupChatID), value: sess.SessionID, ttl: SetupSessionTTL},
	})
	return r.Ok()
}

func (s *BotStore) GetSetupSession(ctx context.Context, sessionID string) (*model.SetupSession, bool) {
	return getRecord[model.SetupSession](ctx, s, keys.SetupSession(sessionID), "GetSetupSession")
}

// GetSetupSessionByAdmin follows the admin reverse index. A dangling index
// entry (session gone, pointer still present) reads as absent.
func (s *BotStore) GetSetupSessionByAdmin(ctx context.Context, adminID int64) (*model.SetupSession, bool) {
	id, ok := getRecord[string](ctx, s, keys.SetupSessionByAdmin(adminID), "GetSetupSessionByAdmin")
	if !ok || id == nil || *id == "" {
		return nil, false
	}
	return s.GetSetupSession(ctx, *id)
}

func (s *BotStore) GetSetupSessionByGroup(ctx context.Context, groupChatID int64) (*model.SetupSession, bool) {
	id, ok := getRecord[string](ctx, s, keys.SetupSessionByGroup(groupChatID), "GetSetupSessionByGroup")
	if !ok || id == nil || *id == "" {
		return nil, false
	}
	return s.GetSetupSession(ctx, *id)
}

// DeleteSetupSession removes the session and both reverse indexes so no
// admin→deleted-session pointer survives.
func (s *BotStore) DeleteSetupSession(ctx context.Context, sessionID string) bool {
	sess, ok := s.GetSetupSession(ctx, sessionID)
	if !ok {
		s.deleteKey(ctx, keys.SetupSession(sessionID), "DeleteSetupSession")
		return false
	}
	r := s.fanoutDelete(ctx, "DeleteSetupSession", []string{
		keys.SetupSession(sessionID),
		keys.SetupSessionByAdmin(sess.AdminID),
		keys.SetupSessionByGroup(sess.GroupChatID),
	})
	return r.Ok()
}

// StoreDmSession persists a DM wizard session and its admin reverse index.
// The TTL derives from the record's own ExpiresAt; at or below the floor the
// expiry is silently extended and the extended value is what gets persisted.
func (s *BotStore) StoreDmSession(ctx context.Context, sess *model.DmSession) bool {
	if sess == nil || sess.AdminID == 0 {
		return false
	}
	if sess.SessionID == "" {
		sess.SessionID = uuid.New().String()
	}
	if sess.Status == "" {
		sess.Status = model.SessionActive
	}
	now := s.now()
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = now
	}

	ttl := sess.ExpiresAt.Sub(now)
	if ttl <= DmSessionTTLFloor {
		sess.ExpiresAt = now.Add(DmSessionExtension)
		ttl = DmSessionExtension
		s.log.Debug().
			Str("op", "StoreDmSession").
			Str("sessionId", sess.SessionID).
			Time("expiresAt", sess.ExpiresAt).
			Msg("session expiry below floor; extended")
	}

	r := s.fanout(ctx, "StoreDmSession", []fanoutWrite{
		{key: keys.DmSession(sess.SessionID), value: sess, ttl: ttl},
		{key: keys.DmSessionByAdmin(sess.AdminID), value: sess.SessionID, ttl: ttl},
	})
	return r.Ok()
}

func (s *BotStore) GetDmSession(ctx context.Context, sessionID string) (*model.DmSession, bool) {
	return getRecord[model.DmSession](ctx, s, keys.DmSession(sessionID), "GetDmSession")
}

func (s *BotStore) GetDmSessionByAdmin(ctx context.Context, adminID int64) (*model.DmSession, bool) {
	id, ok := getRecord[string](ctx, s, keys.DmSessionByAdmin(adminID), "GetDmSessionByAdmin")
	if !ok || id == nil || *id == "" {
		return nil, false
	}
	return s.GetDmSession(ctx, *id)
}

// DeleteDmSession removes the session and the admin reverse index.
func (s *BotStore) DeleteDmSession(ctx context.Context, sessionID string) bool {
	sess, ok := s.GetDmSession(ctx, sessionID)
	if !ok {
		s.deleteKey(ctx, keys.DmSession(sessionID), "DeleteDmSession")
		return false
	}
	r := s.fanoutDelete(ctx, "DeleteDmSession", []string{
		keys.DmSession(sessionID),
		keys.DmSessionByAdmin(sess.AdminID),
	})
	return r.Ok()
}
