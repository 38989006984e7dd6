package store

import (
	"context"
	"testing"

	"github.com/telebridge/botstore/internal/model"
)

func strptr(s string) *string { return &s }

func int64ptr(n int64) *int64 { return &n }

func boolptr(b bool) *bool { return &b }

func TestUserProfileRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	if s.StoreUserProfile(ctx, &model.UserProfile{Username: "noid"}) {
		t.Fatal("profile without user id accepted")
	}

	if !s.StoreUserProfile(ctx, &model.UserProfile{UserID: 7, Username: "alice", FirstName: "Alice"}) {
		t.Fatal("StoreUserProfile failed")
	}
	got, ok := s.GetUserProfile(ctx, 7)
	if !ok || got.Username != "alice" {
		t.Fatalf("GetUserProfile = %+v, %v", got, ok)
	}
	if got.UpdatedAt.IsZero() {
		t.Fatal("updatedAt not stamped")
	}
}

func TestUpdateUserProfileMergesPatch(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	s.StoreUserProfile(ctx, &model.UserProfile{UserID: 7, Username: "alice", FirstName: "Alice"})

	if !s.UpdateUserProfile(ctx, 7, &model.UserProfileUpdate{Email: strptr("alice@example.com")}) {
		t.Fatal("UpdateUserProfile failed")
	}
	got, _ := s.GetUserProfile(ctx, 7)
	if got.Email == nil || *got.Email != "alice@example.com" {
		t.Fatalf("email = %v", got.Email)
	}
	// Unspecified fields survive the patch.
	if got.Username != "alice" || got.FirstName != "Alice" {
		t.Fatalf("patched profile lost fields: %+v", got)
	}

	if s.UpdateUserProfile(ctx, 99, &model.UserProfileUpdate{Username: strptr("x")}) {
		t.Fatal("update of absent profile succeeded")
	}
}

func TestUpdateUserProfileIgnoresUserIDChange(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	s.StoreUserProfile(ctx, &model.UserProfile{UserID: 7, Username: "alice"})

	if !s.UpdateUserProfile(ctx, 7, &model.UserProfileUpdate{UserID: int64ptr(8), Username: strptr("bob")}) {
		t.Fatal("UpdateUserProfile failed")
	}
	got, ok := s.GetUserProfile(ctx, 7)
	if !ok || got.UserID != 7 {
		t.Fatalf("userId mutated: %+v, %v", got, ok)
	}
	if got.Username != "bob" {
		t.Fatal("legitimate field in the same patch was dropped")
	}
}

func TestUserState(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	st := &model.UserState{UserID: 7, Flow: "profile", Step: "email", Data: map[string]interface{}{"draft": "a@"}}
	if !s.SetUserState(ctx, st) {
		t.Fatal("SetUserState failed")
	}
	got, ok := s.GetUserState(ctx, 7)
	if !ok || got.Step != "email" {
		t.Fatalf("GetUserState = %+v, %v", got, ok)
	}

	// State is overwritten whole, not merged.
	s.SetUserState(ctx, &model.UserState{UserID: 7, Flow: "profile", Step: "confirm"})
	got, _ = s.GetUserState(ctx, 7)
	if got.Step != "confirm" || len(got.Data) != 0 {
		t.Fatalf("state not overwritten: %+v", got)
	}

	if !s.ClearUserState(ctx, 7) {
		t.Fatal("ClearUserState failed")
	}
	if _, ok := s.GetUserState(ctx, 7); ok {
		t.Fatal("state survived clear")
	}
}
