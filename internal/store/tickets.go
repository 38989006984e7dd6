package store

import (
	"context"

	"github.com/telebridge/botstore/internal/keys"
	"github.com/telebridge/botstore/internal/model"
)

// StoreTicket writes the ticket under every key it must be reachable by
// (message id, conversation id, friendly id, plus ticket id when distinct)
// and registers it in the owning chat's index. The writes are a best-effort
// fan-out: a crash mid-write can leave the ticket reachable by only some
// keys, which the read paths tolerate.
func (s *BotStore) StoreTicket(ctx context.Context, t *model.Ticket) FanoutResult {
	if t == nil || t.ConversationID == "" {
		return FanoutResult{{Err: model.ErrValidation}}
	}
	if t.Platform == "" {
		t.Platform = "telegram"
	}
	t.StoredAt = s.now()
	t.Version = model.SchemaVersion

	writes := []fanoutWrite{
		{key: keys.TicketByMessage(t.MessageID), value: t},
		{key: keys.TicketByConversation(t.ConversationID), value: t},
		{key: keys.TicketByFriendlyID(t.FriendlyID), value: t},
	}
	if t.TicketID != "" && t.TicketID != t.ConversationID {
		writes = append(writes, fanoutWrite{key: keys.TicketByTicketID(t.TicketID), value: t})
	}

	results := s.fanout(ctx, "StoreTicket", writes)

	indexKey := keys.ChatTickets(t.ChatID)
	if err := s.appendTicketRef(ctx, t.ChatID, model.TicketRef{MessageID: t.MessageID, ConversationID: t.ConversationID}); err != nil {
		s.log.Warn().Err(err).Str("op", "StoreTicket").Str("key", indexKey).Msg("index update failed")
		results = append(results, KeyResult{Key: indexKey, Err: err})
	} else {
		results = append(results, KeyResult{Key: indexKey})
	}
	return results
}

func (s *BotStore) GetTicketByMessageID(ctx context.Context, messageID int64) (*model.Ticket, bool) {
	return getRecord[model.Ticket](ctx, s, keys.TicketByMessage(messageID), "GetTicketByMessageID")
}

func (s *BotStore) GetTicketByConversationID(ctx context.Context, conversationID string) (*model.Ticket, bool) {
	return getRecord[model.Ticket](ctx, s, keys.TicketByConversation(conversationID), "GetTicketByConversationID")
}

func (s *BotStore) GetTicketByTicketID(ctx context.Context, ticketID string) (*model.Ticket, bool) {
	return getRecord[model.Ticket](ctx, s, keys.TicketByTicketID(ticketID), "GetTicketByTicketID")
}

func (s *BotStore) GetTicketByFriendlyID(ctx context.Context, friendlyID string) (*model.Ticket, bool) {
	return getRecord[model.Ticket](ctx, s, keys.TicketByFriendlyID(friendlyID), "GetTicketByFriendlyID")
}

// GetTicketsForChat resolves the chat's index to full records. Refs whose
// ticket no longer resolves are skipped, so a partially deleted ticket never
// surfaces as a nil entry.
func (s *BotStore) GetTicketsForChat(ctx context.Context, chatID int64) []*model.Ticket {
	refs, ok := getRecord[[]model.TicketRef](ctx, s, keys.ChatTickets(chatID), "GetTicketsForChat")
	if !ok || refs == nil {
		return nil
	}
	tickets := make([]*model.Ticket, 0, len(*refs))
	for _, ref := range *refs {
		if t, ok := s.GetTicketByConversationID(ctx, ref.ConversationID); ok {
			tickets = append(tickets, t)
		}
	}
	return tickets
}

// DeleteTicket looks the record up first to learn every key it implies, then
// removes them all plus the chat-index entry. Returns false when no record
// was found under the conversation id.
func (s *BotStore) DeleteTicket(ctx context.Context, conversationID string) bool {
	t, ok := s.GetTicketByConversationID(ctx, conversationID)
	if !ok {
		// Nothing resolvable; clear the bare key anyway in case only the
		// record body is damaged.
		s.deleteKey(ctx, keys.TicketByConversation(conversationID), "DeleteTicket")
		return false
	}

	del := []string{
		keys.TicketByMessage(t.MessageID),
		keys.TicketByConversation(t.ConversationID),
		keys.TicketByFriendlyID(t.FriendlyID),
	}
	if t.TicketID != "" && t.TicketID != t.ConversationID {
		del = append(del, keys.TicketByTicketID(t.TicketID))
	}
	s.fanoutDelete(ctx, "DeleteTicket", del)

	if err := s.removeTicketRef(ctx, t.ChatID, conversationID); err != nil {
		s.log.Warn().Err(err).Str("op", "DeleteTicket").Str("conversationId", conversationID).Msg("index cleanup failed")
	}
	return true
}

// appendTicketRef is a read-modify-write on the chat index; the ref is only
// appended when its conversation id is not already listed.
func (s *BotStore) appendTicketRef(ctx context.Context, chatID int64, ref model.TicketRef) error {
	key := keys.ChatTickets(chatID)
	var refs []model.TicketRef
	if existing, ok := getRecord[[]model.TicketRef](ctx, s, key, "appendTicketRef"); ok && existing != nil {
		refs = *existing
	}
	for _, r := range refs {
		if r.ConversationID == ref.ConversationID {
			return nil
		}
	}
	refs = append(refs, ref)
	if !s.setRecord(ctx, key, refs, 0, "appendTicketRef") {
		return errWriteFailed
	}
	return nil
}

func (s *BotStore) removeTicketRef(ctx context.Context, chatID int64, conversationID string) error {
	key := keys.ChatTickets(chatID)
	existing, ok := getRecord[[]model.TicketRef](ctx, s, key, "removeTicketRef")
	if !ok || existing == nil {
		return nil
	}
	kept := (*existing)[:0]
	for _, r := range *existing {
		if r.ConversationID != conversationID {
			kept = append(kept, r)
		}
	}
	if !s.setRecord(ctx, key, kept, 0, "removeTicketRef") {
		return errWriteFailed
	}
	return nil
}

// StoreAgentMessage tracks an outbound agent message for reply routing.
func (s *BotStore) StoreAgentMessage(ctx context.Context, m *model.AgentMessage) bool {
	if m == nil || m.MessageID == 0 {
		return false
	}
	if m.SentAt.IsZero() {
		m.SentAt = s.now()
	}
	return s.setRecord(ctx, keys.AgentMessage(m.MessageID), m, 0, "StoreAgentMessage")
}

func (s *BotStore) GetAgentMessageByID(ctx context.Context, messageID int64) (*model.AgentMessage, bool) {
	return getRecord[model.AgentMessage](ctx, s, keys.AgentMessage(messageID), "GetAgentMessageByID")
}
