package store

import (
	"context"

	"github.com/telebridge/botstore/internal/keys"
	"github.com/telebridge/botstore/internal/model"
)

// CustomerCreator creates a customer in the external ticketing system and
// returns its id. The store never talks to the external system itself; the
// caller injects this collaborator.
type CustomerCreator func(ctx context.Context, chatTitle string) (string, error)

// StoreCustomer writes the chat→customer and id→customer mappings as a pair.
func (s *BotStore) StoreCustomer(ctx context.Context, c *model.Customer) bool {
	if c == nil || c.CustomerID == "" {
		return false
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}
	r := s.fanout(ctx, "StoreCustomer", []fanoutWrite{
		{key: keys.CustomerByChat(c.ChatID), value: c},
		{key: keys.CustomerByID(c.CustomerID), value: c},
	})
	return r.Ok()
}

func (s *BotStore) GetCustomerByChatID(ctx context.Context, chatID int64) (*model.Customer, bool) {
	return getRecord[model.Customer](ctx, s, keys.CustomerByChat(chatID), "GetCustomerByChatID")
}

func (s *BotStore) GetCustomerByID(ctx context.Context, customerID string) (*model.Customer, bool) {
	return getRecord[model.Customer](ctx, s, keys.CustomerByID(customerID), "GetCustomerByID")
}

// GetOrCreateCustomer returns the cached customer for the chat, creating one
// through the injected collaborator on a miss and storing the result.
//
// Check-then-act: two concurrent callers for the same chat can both miss,
// both invoke create, and both write, last write winning. External customer
// creation is therefore at-least-once, not exactly-once. Callers depend on
// this; do not add a lock here without revisiting them.
func (s *BotStore) GetOrCreateCustomer(ctx context.Context, chatID int64, chatTitle string, create CustomerCreator) (*model.Customer, bool) {
	if c, ok := s.GetCustomerByChatID(ctx, chatID); ok {
		return c, true
	}
	if create == nil {
		return nil, false
	}

	customerID, err := create(ctx, chatTitle)
	if err != nil || customerID == "" {
		s.log.Error().Err(err).Str("op", "GetOrCreateCustomer").Int64("chatId", chatID).Msg("customer creation failed")
		return nil, false
	}

	c := &model.Customer{
		CustomerID: customerID,
		ChatID:     chatID,
		ChatTitle:  chatTitle,
		CreatedAt:  s.now(),
	}
	if !s.StoreCustomer(ctx, c) {
		return nil, false
	}
	return c, true
}

// DeleteCustomer removes both mappings so a stale chat mapping cannot
// resurrect a deleted external customer.
func (s *BotStore) DeleteCustomer(ctx context.Context, customerID string) bool {
	c, ok := s.GetCustomerByID(ctx, customerID)
	if !ok {
		s.deleteKey(ctx, keys.CustomerByID(customerID), "DeleteCustomer")
		return false
	}
	r := s.fanoutDelete(ctx, "DeleteCustomer", []string{
		keys.CustomerByID(customerID),
		keys.CustomerByChat(c.ChatID),
	})
	return r.Ok()
}
