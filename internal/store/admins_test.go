package store

import (
	"context"
	"testing"

	"github.com/telebridge/botstore/internal/model"
)

func TestAdminProfileRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	if s.StoreAdminProfile(ctx, &model.AdminProfile{Username: "noid"}) {
		t.Fatal("profile without admin id accepted")
	}

	if !s.StoreAdminProfile(ctx, &model.AdminProfile{AdminID: 7, DmChatID: 700, Username: "alice", IsActive: true}) {
		t.Fatal("StoreAdminProfile failed")
	}
	got, ok := s.GetAdminProfile(ctx, 7)
	if !ok || got.Username != "alice" {
		t.Fatalf("GetAdminProfile = %+v, %v", got, ok)
	}
	if got.ActivatedAt.IsZero() {
		t.Fatal("activatedAt not stamped")
	}
}

func TestGetAllAdminProfiles(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	s.StoreAdminProfile(ctx, &model.AdminProfile{AdminID: 7, Username: "alice"})
	s.StoreAdminProfile(ctx, &model.AdminProfile{AdminID: 8, Username: "bob"})
	// Re-storing must not duplicate the enumeration entry.
	s.StoreAdminProfile(ctx, &model.AdminProfile{AdminID: 7, Username: "alice2"})

	all := s.GetAllAdminProfiles(ctx)
	if len(all) != 2 {
		t.Fatalf("GetAllAdminProfiles = %d profiles, want 2", len(all))
	}
}

func TestDeleteAdminProfileKeepsListConsistent(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	s.StoreAdminProfile(ctx, &model.AdminProfile{AdminID: 7, Username: "alice"})
	s.StoreAdminProfile(ctx, &model.AdminProfile{AdminID: 8, Username: "bob"})

	if !s.DeleteAdminProfile(ctx, 7) {
		t.Fatal("DeleteAdminProfile failed")
	}
	if _, ok := s.GetAdminProfile(ctx, 7); ok {
		t.Fatal("profile survived delete")
	}

	all := s.GetAllAdminProfiles(ctx)
	if len(all) != 1 || all[0].AdminID != 8 {
		t.Fatalf("GetAllAdminProfiles after delete = %+v", all)
	}
}

func TestGetAllAdminProfilesSkipsVanished(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	s.StoreAdminProfile(ctx, &model.AdminProfile{AdminID: 7})
	s.StoreAdminProfile(ctx, &model.AdminProfile{AdminID: 8})

	// Remove the record behind the list's back; enumeration tolerates it.
	if err := s.Engine().Delete(ctx, "admin:profile:7"); err != nil {
		t.Fatalf("raw delete: %v", err)
	}
	all := s.GetAllAdminProfiles(ctx)
	if len(all) != 1 || all[0].AdminID != 8 {
		t.Fatalf("GetAllAdminProfiles = %+v", all)
	}
}
