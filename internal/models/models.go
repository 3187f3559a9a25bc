package models

type User struct {
	ID          string `json:"id,omitempty"`
	Username    string `json:"username,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
	Banner      string `json:"banner,omitempty"`
	Status      string `json:"status,omitempty"`
	AboutMe     string `json:"about_me,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

type Server struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	OwnerId   string `json:"owner_id,omitempty"`
	Icon      string `json:"icon,omitempty"`
	Banner    string `json:"banner,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Channel with an empty ServerId is a direct or group conversation.
// A channel with ParentId set is a thread under that parent channel.
type Channel struct {
	ID        string `json:"id"`
	ServerId  string `json:"server_id,omitempty"`
	ParentId  string `json:"parent_id,omitempty"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Position  int    `json:"position"`
	Private   bool   `json:"private"`
	CreatedAt string `json:"created_at,omitempty"`
}

type Message struct {
	ID        string          `json:"id,omitempty"`
	Author    User            `json:"author"`
	ChannelId string          `json:"channel_id"`
	Content   string          `json:"content"`
	Edited    bool            `json:"edited"`
	Pinned    bool            `json:"pinned"`
	Nonce     string          `json:"nonce,omitempty"`
	Mentions  []string        `json:"mentions,omitempty"`
	Reactions []ReactionGroup `json:"reactions,omitempty"`
	UpdatedAt string          `json:"updated_at,omitempty"`
	CreatedAt string          `json:"created_at,omitempty"`
}

// ReactionGroup is the per-emoji rollup on a message. A group is only
// present while Count >= 1.
type ReactionGroup struct {
	Emoji string `json:"emoji"`
	Count int    `json:"count"`
	Me    bool   `json:"me"`
}

type Role struct {
	ID          string `json:"id"`
	ServerId    string `json:"server_id"`
	Name        string `json:"name"`
	Color       string `json:"color,omitempty"`
	Position    int    `json:"position"`
	Permissions uint64 `json:"permissions"`
}

type Member struct {
	ServerId string   `json:"server_id"`
	UserId   string   `json:"user_id"`
	Nickname string   `json:"nickname,omitempty"`
	Roles    []string `json:"roles,omitempty"`
	JoinedAt string   `json:"joined_at,omitempty"`
}

const (
	RelationFriend          = "friend"
	RelationBlocked         = "blocked"
	RelationPendingOutgoing = "pending_outgoing"
	RelationPendingIncoming = "pending_incoming"
)

type Relationship struct {
	UserId string `json:"user_id"`
	Type   string `json:"type"`
}

type VoiceState struct {
	ChannelId string `json:"channel_id"`
	UserId    string `json:"user_id"`
	SelfMute  bool   `json:"self_mute"`
	SelfDeaf  bool   `json:"self_deaf"`
}

type VoiceCredentials struct {
	Token string `json:"token"`
	Url   string `json:"url"`
}

type ReadState struct {
	ChannelId     string `json:"channel_id"`
	LastMessageId string `json:"last_message_id,omitempty"`
	MentionCount  int    `json:"mention_count,omitempty"`
}

const (
	StatusOnline    = "online"
	StatusIdle      = "idle"
	StatusDnd       = "dnd"
	StatusInvisible = "invisible"
	StatusOffline   = "offline"
)
