package models

import "github.com/goccy/go-json"

// WSMessage is the dispatch envelope carried over the gateway
// connection: one named event and its payload.
type WSMessage struct {
	Type    string          `json:"type"`
	Content json.RawMessage `json:"content"`
}

// Event type tags the engine handles. Anything else is ignored.
const (
	EventReady = "ready"

	EventNewMessage     = "new_message"
	EventEditMessage    = "edit_message"
	EventDeleteMessage  = "delete_message"
	EventAddReaction    = "add_reaction"
	EventRemoveReaction = "remove_reaction"
	EventPinMessage     = "pin_message"

	EventCreateServer = "create_server"
	EventMemberJoin   = "member_join"
	EventDeleteServer = "delete_server"

	EventCreateChannel = "create_channel"
	EventUpdateChannel = "update_channel"
	EventDeleteChannel = "delete_channel"
	EventCreateDM      = "create_dm"
	EventCreateThread  = "create_thread"

	EventCreateRole = "create_role"
	EventUpdateRole = "update_role"
	EventDeleteRole = "delete_role"

	EventFriendUpdate = "friend_update"
	EventTyping       = "typing"
	EventVoiceState   = "voice_state"
	EventPresence     = "presence"
)

// ReadyPayload is the initial snapshot delivered exactly once after the
// gateway connection is established.
type ReadyPayload struct {
	User          User              `json:"user"`
	Servers       []Server          `json:"servers"`
	Channels      []Channel         `json:"channels"`
	Roles         []Role            `json:"roles"`
	Members       []Member          `json:"members"`
	Relationships []Relationship    `json:"relationships"`
	ReadStates    []ReadState       `json:"read_states"`
	NotifPrefs    map[string]string `json:"notification_preferences"`
	Bookmarks     []string          `json:"bookmarks"`
}

type DeleteMessageEvent struct {
	ID        string `json:"id"`
	ChannelId string `json:"channel_id"`
}

type ReactionEvent struct {
	ChannelId string `json:"channel_id"`
	MessageId string `json:"message_id"`
	UserId    string `json:"user_id"`
	Emoji     string `json:"emoji"`
}

type PinEvent struct {
	ChannelId string `json:"channel_id"`
	MessageId string `json:"message_id"`
	Pinned    bool   `json:"pinned"`
}

type MemberJoinEvent struct {
	Member Member `json:"member"`
	User   User   `json:"user"`
}

type DeleteServerEvent struct {
	ID string `json:"id"`
}

type DeleteChannelEvent struct {
	ID       string `json:"id"`
	ServerId string `json:"server_id,omitempty"`
}

type DeleteRoleEvent struct {
	ID       string `json:"id"`
	ServerId string `json:"server_id"`
}

// FriendUpdateEvent carries the new relationship type, or null when the
// relationship was removed. It never carries the full updated record.
type FriendUpdateEvent struct {
	UserId string  `json:"user_id"`
	Type   *string `json:"type"`
}

type TypingEvent struct {
	ChannelId   string `json:"channel_id"`
	UserId      string `json:"user_id"`
	DisplayName string `json:"display_name,omitempty"`
}

// VoiceStateEvent with an empty ChannelId means the user left voice
// entirely.
type VoiceStateEvent struct {
	ChannelId string `json:"channel_id"`
	UserId    string `json:"user_id"`
	SelfMute  bool   `json:"self_mute"`
	SelfDeaf  bool   `json:"self_deaf"`
}

type PresenceEvent struct {
	UserId string `json:"user_id"`
	Status string `json:"status"`
}
