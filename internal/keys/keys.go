// Package keys is the single place where storage key names are built.
// The layout is colon-delimited namespaces and is a compatibility contract:
// any process sharing the durable store must produce byte-identical keys.
package keys

import "strconv"

// AdminProfileIDs is the global list of known admin ids. The engine has no
// index scan, so enumeration goes through this key.
const AdminProfileIDs = "admin_profile_ids"

func TicketByMessage(messageID int64) string {
	return "ticket:telegram:" + strconv.FormatInt(messageID, 10)
}

func TicketByConversation(conversationID string) string {
	return "ticket:unthread:" + conversationID
}

// TicketByTicketID shares the unthread namespace with conversation ids; the
// key is only written when the ticket id differs from the conversation id.
func TicketByTicketID(ticketID string) string {
	return TicketByConversation(ticketID)
}

func TicketByFriendlyID(friendlyID string) string {
	return "ticket:friendly:" + friendlyID
}

func ChatTickets(chatID int64) string {
	return "chat:tickets:" + strconv.FormatInt(chatID, 10)
}

func AgentMessage(messageID int64) string {
	return "agent_message:telegram:" + strconv.FormatInt(messageID, 10)
}

func CustomerByID(customerID string) string {
	return "customer:id:" + customerID
}

func CustomerByChat(chatID int64) string {
	return "customer:telegram:" + strconv.FormatInt(chatID, 10)
}

func UserProfile(userID int64) string {
	return "user:telegram:" + strconv.FormatInt(userID, 10)
}

func UserState(userID int64) string {
	return "user:state:" + strconv.FormatInt(userID, 10)
}

func GroupConfig(chatID int64) string {
	return "group_config:" + strconv.FormatInt(chatID, 10)
}

func SetupState(chatID int64) string {
	return "setup_state:" + strconv.FormatInt(chatID, 10)
}

func SetupSession(sessionID string) string {
	return "session:setup:" + sessionID
}

func SetupSessionByAdmin(adminID int64) string {
	return "session:admin:" + strconv.FormatInt(adminID, 10)
}

func SetupSessionByGroup(groupChatID int64) string {
	return "session:group:" + strconv.FormatInt(groupChatID, 10)
}

func DmSession(sessionID string) string {
	return "dm_session:" + sessionID
}

func DmSessionByAdmin(adminID int64) string {
	return "dm_session:admin:" + strconv.FormatInt(adminID, 10)
}

func AdminProfile(adminID int64) string {
	return "admin:profile:" + strconv.FormatInt(adminID, 10)
}

func GlobalConfig(key string) string {
	return "global_config:" + key
}

func Templates(chatID int64) string {
	return "templates:" + strconv.FormatInt(chatID, 10)
}
