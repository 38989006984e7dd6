package model

import "time"

// Partial-update payloads. Nil fields are left untouched by the merge.
// Fields the store treats as immutable are present so callers can be warned
// when they attempt to change them; the store strips them before merging.

// UserProfileUpdate is a partial update for UserProfile. UserID is immutable.
type UserProfileUpdate struct {
	UserID    *int64  `json:"userId,omitempty"`
	Username  *string `json:"username,omitempty"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Email     *string `json:"email,omitempty"`
}

// GroupConfigUpdate is a partial update for GroupConfig. ChatID is immutable;
// CustomerID is immutable once a value has been stored.
type GroupConfigUpdate struct {
	ChatID       *int64                 `json:"chatId,omitempty"`
	CustomerID   *string                `json:"customerId,omitempty"`
	IsConfigured *bool                  `json:"isConfigured,omitempty"`
	BotIsAdmin   *bool                  `json:"botIsAdmin,omitempty"`
	SetupBy      *int64                 `json:"setupBy,omitempty"`
	SetupAt      *time.Time             `json:"setupAt,omitempty"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}

// SetupStateUpdate is a partial update for SetupState. ChatID is immutable.
type SetupStateUpdate struct {
	ChatID  *int64                 `json:"chatId,omitempty"`
	AdminID *int64                 `json:"adminId,omitempty"`
	Step    *string                `json:"step,omitempty"`
	Data    map[string]interface{} `json:"data,omitempty"`
}
