package model

import "time"

// SchemaVersion is stamped into stored tickets so future readers can detect
// records written by older releases.
const SchemaVersion = 1

// Session status values. Transitions are driven by callers; the store only
// persists whichever status is written and honors TTL-based disappearance.
const (
	SessionInProgress = "in_progress"
	SessionActive     = "active"
	SessionCompleted  = "completed"
	SessionCancelled  = "cancelled"
	SessionExpired    = "expired"
)

// Ticket binds one externally-tracked support conversation to one chat
// message. It is reachable by message id, conversation id, ticket id (when
// distinct) and friendly id, and is listed in its chat's ticket index.
type Ticket struct {
	ChatID         int64     `json:"chatId"`
	MessageID      int64     `json:"messageId"`
	ConversationID string    `json:"conversationId"`
	TicketID       string    `json:"ticketId"`
	FriendlyID     string    `json:"friendlyId"`
	UserID         int64     `json:"userId"`
	Platform       string    `json:"platform"`
	CreatedAt      time.Time `json:"createdAt"`
	StoredAt       time.Time `json:"storedAt"`
	Version        int       `json:"version"`
}

// TicketRef is one entry in a chat's ticket index.
type TicketRef struct {
	MessageID      int64  `json:"messageId"`
	ConversationID string `json:"conversationId"`
}

// AgentMessage tracks an outbound agent message so inbound replies can be
// routed back to the right conversation.
type AgentMessage struct {
	MessageID      int64     `json:"messageId"`
	ChatID         int64     `json:"chatId"`
	ConversationID string    `json:"conversationId"`
	SentAt         time.Time `json:"sentAt"`
}

// Customer maps a chat to an external customer record.
type Customer struct {
	CustomerID string    `json:"customerId"`
	ChatID     int64     `json:"chatId"`
	ChatTitle  string    `json:"chatTitle"`
	CreatedAt  time.Time `json:"createdAt"`
}

// UserProfile is a per-platform-user record. Email is optional and filled in
// by profile-completion flows.
type UserProfile struct {
	UserID    int64     `json:"userId"`
	Username  string    `json:"username"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     *string   `json:"email,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserState captures an in-progress multi-step interaction for a user. It is
// overwritten frequently and cleared explicitly when the flow ends.
type UserState struct {
	UserID    int64                  `json:"userId"`
	Flow      string                 `json:"flow"`
	Step      string                 `json:"step"`
	Data      map[string]interface{} `json:"data,omitempty"`
	UpdatedAt time.Time              `json:"updatedAt"`
}

// GroupConfig is the per-chat setup record. ChatID is immutable; CustomerID
// is immutable once set.
type GroupConfig struct {
	ChatID       int64                  `json:"chatId"`
	CustomerID   string                 `json:"customerId"`
	IsConfigured bool                   `json:"isConfigured"`
	BotIsAdmin   bool                   `json:"botIsAdmin"`
	SetupBy      int64                  `json:"setupBy"`
	SetupAt      *time.Time             `json:"setupAt,omitempty"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}

// SetupState is the in-chat setup wizard state. It carries a fixed TTL and
// disappears on its own if the wizard is abandoned.
type SetupState struct {
	ChatID    int64                  `json:"chatId"`
	AdminID   int64                  `json:"adminId"`
	Step      string                 `json:"step"`
	Data      map[string]interface{} `json:"data,omitempty"`
	StartedAt time.Time              `json:"startedAt"`
}

// SetupSession is ephemeral wizard state for an admin configuring a group.
// Reverse indexes by admin and by group let callers enforce at-most-one
// active session per admin and per group.
type SetupSession struct {
	SessionID   string                 `json:"sessionId"`
	AdminID     int64                  `json:"adminId"`
	GroupChatID int64                  `json:"groupChatId"`
	Status      string                 `json:"status"`
	Step        string                 `json:"step"`
	Data        map[string]interface{} `json:"data,omitempty"`
	CreatedAt   time.Time              `json:"createdAt"`
	ExpiresAt   time.Time              `json:"expiresAt"`
}

// DmSession is wizard state conducted over direct message with an admin.
type DmSession struct {
	SessionID   string                 `json:"sessionId"`
	AdminID     int64                  `json:"adminId"`
	GroupChatID int64                  `json:"groupChatId"`
	Status      string                 `json:"status"`
	Step        string                 `json:"step"`
	Data        map[string]interface{} `json:"data,omitempty"`
	CreatedAt   time.Time              `json:"createdAt"`
	ExpiresAt   time.Time              `json:"expiresAt"`
}

// AdminProfile is the durable record of an admin's activation and DM channel.
type AdminProfile struct {
	AdminID     int64     `json:"adminId"`
	DmChatID    int64     `json:"dmChatId"`
	Username    string    `json:"username"`
	IsActive    bool      `json:"isActive"`
	ActivatedAt time.Time `json:"activatedAt"`
}

// Template is one named message template of a semantic type. At most one
// template per type per group carries IsDefault.
type Template struct {
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Content   string    `json:"content"`
	IsDefault bool      `json:"isDefault"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TemplateSet holds all templates for one group under a single key.
type TemplateSet struct {
	ChatID    int64      `json:"chatId"`
	Templates []Template `json:"templates"`
	UpdatedAt time.Time  `json:"updatedAt"`
}
