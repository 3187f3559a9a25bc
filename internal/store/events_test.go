package store

import (
	"context"
	"errors"
	"testing"

	"gofront/internal/models"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadySnapshotPopulatesReplica(t *testing.T) {
	s := newTestStore(t)

	s.Apply(models.EventReady, mustJSON(t, models.ReadyPayload{
		User:     models.User{ID: "u_me", Username: "me"},
		Servers:  []models.Server{{ID: "s1", Name: "home"}},
		Channels: []models.Channel{{ID: "c1", ServerId: "s1", Name: "general"}},
		Roles:    []models.Role{{ID: "r1", ServerId: "s1", Name: "admin"}},
		Members:  []models.Member{{ServerId: "s1", UserId: "u_me"}},
		Relationships: []models.Relationship{
			{UserId: "u_a", Type: models.RelationFriend},
		},
		ReadStates: []models.ReadState{{ChannelId: "c1", LastMessageId: "m9", MentionCount: 2}},
		NotifPrefs: map[string]string{"s1": "mentions_only"},
		Bookmarks:  []string{"m3"},
	}))

	assert.Equal(t, "me", s.Me().Username)
	require.Len(t, s.Servers(), 1)
	require.Len(t, s.Channels("s1"), 1)
	require.Len(t, s.Roles("s1"), 1)
	require.Len(t, s.Members("s1"), 1)
	require.Len(t, s.Relationships(), 1)

	state, ok := s.ReadState("c1")
	require.True(t, ok)
	assert.Equal(t, "m9", state.LastMessageId)
	assert.Equal(t, 2, state.MentionCount)

	pref, ok := s.NotifPreference("s1")
	require.True(t, ok)
	assert.Equal(t, "mentions_only", pref)

	assert.True(t, s.Bookmarked("m3"))
	assert.False(t, s.Bookmarked("m4"))
}

func TestNewMessageDedupsById(t *testing.T) {
	s := newTestStore(t)
	s.seedChannel(t, "c1", "s1")

	for _, id := range []string{"m1", "m2", "m1", "m3", "m2"} {
		s.Apply(models.EventNewMessage, mustJSON(t, models.Message{
			ID:        id,
			ChannelId: "c1",
			Author:    models.User{ID: "u_other", Username: "other"},
			Content:   "hello",
		}))
	}

	messages := s.Messages("c1")
	require.Len(t, messages, 3, "list length must equal distinct ids, not event count")
	assert.Equal(t, "m1", messages[0].ID)
	assert.Equal(t, "m2", messages[1].ID)
	assert.Equal(t, "m3", messages[2].ID)
}

func TestNewMessageCachesAuthor(t *testing.T) {
	s := newTestStore(t)
	s.seedChannel(t, "c1", "s1")

	s.Apply(models.EventNewMessage, mustJSON(t, models.Message{
		ID:        "m1",
		ChannelId: "c1",
		Author:    models.User{ID: "u_other", Username: "other", DisplayName: "Other"},
	}))

	user, ok := s.User("u_other")
	require.True(t, ok)
	assert.Equal(t, "Other", user.DisplayName)
}

func TestNewMessageNotifiesOnlyForOtherAuthors(t *testing.T) {
	s := newTestStore(t)
	s.seedChannel(t, "c1", "s1")

	// The local user's own message mentioning themselves fires nothing.
	s.Apply(models.EventNewMessage, mustJSON(t, models.Message{
		ID:        "m1",
		ChannelId: "c1",
		Author:    models.User{ID: "u_me", Username: "me"},
		Content:   "note to @me",
	}))
	assert.Empty(t, s.effects.received())

	s.Apply(models.EventNewMessage, mustJSON(t, models.Message{
		ID:        "m2",
		ChannelId: "c1",
		Author:    models.User{ID: "u_other", Username: "other"},
		Content:   "hey @me",
	}))
	received := s.effects.received()
	require.Len(t, received, 1)
	assert.True(t, received[0].mentioned)
	assert.Equal(t, "s1", received[0].serverId)
}

func TestDuplicateMessageDoesNotRenotify(t *testing.T) {
	s := newTestStore(t)
	s.seedChannel(t, "c1", "s1")

	event := mustJSON(t, models.Message{
		ID:        "m1",
		ChannelId: "c1",
		Author:    models.User{ID: "u_other"},
		Content:   "hello",
	})
	s.Apply(models.EventNewMessage, event)
	s.Apply(models.EventNewMessage, event)

	assert.Len(t, s.effects.received(), 1)
}

func TestEditMessageReplacesReactionsWholesale(t *testing.T) {
	s := newTestStore(t)
	s.seedChannel(t, "c1", "s1",
		models.Message{ID: "m1", ChannelId: "c1", Content: "old", Reactions: []models.ReactionGroup{{Emoji: "👍", Count: 3}}},
		models.Message{ID: "m2", ChannelId: "c1", Content: "keep"},
	)

	// The update carries no reactions field; the absent set is still the
	// authoritative full set, so it clears.
	s.Apply(models.EventEditMessage, json.RawMessage(`{"id":"m1","channel_id":"c1","content":"X"}`))

	messages := s.Messages("c1")
	require.Len(t, messages, 2)
	assert.Equal(t, "X", messages[0].Content)
	assert.True(t, messages[0].Edited)
	assert.Empty(t, messages[0].Reactions)
	assert.Equal(t, "keep", messages[1].Content)
}

func TestDeleteMessageRemovesById(t *testing.T) {
	s := newTestStore(t)
	s.seedChannel(t, "c1", "s1",
		models.Message{ID: "m1", ChannelId: "c1"},
		models.Message{ID: "m2", ChannelId: "c1"},
	)

	s.Apply(models.EventDeleteMessage, mustJSON(t, models.DeleteMessageEvent{ID: "m1", ChannelId: "c1"}))

	messages := s.Messages("c1")
	require.Len(t, messages, 1)
	assert.Equal(t, "m2", messages[0].ID)

	// Deleting again is a no-op.
	s.Apply(models.EventDeleteMessage, mustJSON(t, models.DeleteMessageEvent{ID: "m1", ChannelId: "c1"}))
	assert.Len(t, s.Messages("c1"), 1)
}

func TestReactionCounters(t *testing.T) {
	s := newTestStore(t)
	s.seedChannel(t, "c1", "s1", models.Message{ID: "m1", ChannelId: "c1"})

	add := func(userId string) {
		s.Apply(models.EventAddReaction, mustJSON(t, models.ReactionEvent{
			ChannelId: "c1", MessageId: "m1", UserId: userId, Emoji: "👍",
		}))
	}
	remove := func(userId string) {
		s.Apply(models.EventRemoveReaction, mustJSON(t, models.ReactionEvent{
			ChannelId: "c1", MessageId: "m1", UserId: userId, Emoji: "👍",
		}))
	}

	add("u_a")
	add("u_me")
	add("u_b")

	messages := s.Messages("c1")
	require.Len(t, messages[0].Reactions, 1)
	assert.Equal(t, 3, messages[0].Reactions[0].Count)
	assert.True(t, messages[0].Reactions[0].Me)

	remove("u_me")
	messages = s.Messages("c1")
	assert.Equal(t, 2, messages[0].Reactions[0].Count)
	assert.False(t, messages[0].Reactions[0].Me)

	remove("u_a")
	remove("u_b")
	messages = s.Messages("c1")
	assert.Empty(t, messages[0].Reactions, "a group at count zero must be removed, never kept")
}

func TestPinToggle(t *testing.T) {
	s := newTestStore(t)
	s.seedChannel(t, "c1", "s1", models.Message{ID: "m1", ChannelId: "c1"})

	s.Apply(models.EventPinMessage, mustJSON(t, models.PinEvent{ChannelId: "c1", MessageId: "m1", Pinned: true}))
	assert.True(t, s.Messages("c1")[0].Pinned)

	s.Apply(models.EventPinMessage, mustJSON(t, models.PinEvent{ChannelId: "c1", MessageId: "m1", Pinned: false}))
	assert.False(t, s.Messages("c1")[0].Pinned)
}

func TestChannelCreateAppendsOnlyIfUnseen(t *testing.T) {
	s := newTestStore(t)

	s.Apply(models.EventCreateChannel, mustJSON(t, models.Channel{ID: "c1", ServerId: "s1", Name: "general"}))
	s.Apply(models.EventCreateChannel, mustJSON(t, models.Channel{ID: "c1", ServerId: "s1", Name: "renamed"}))

	channel, ok := s.Channel("c1")
	require.True(t, ok)
	assert.Equal(t, "general", channel.Name, "a duplicate create must not overwrite")

	s.Apply(models.EventUpdateChannel, mustJSON(t, models.Channel{ID: "c1", ServerId: "s1", Name: "renamed"}))
	channel, _ = s.Channel("c1")
	assert.Equal(t, "renamed", channel.Name)
}

func TestRoleLifecycle(t *testing.T) {
	s := newTestStore(t)

	s.Apply(models.EventCreateRole, mustJSON(t, models.Role{ID: "r1", ServerId: "s1", Name: "mod", Position: 1}))
	s.Apply(models.EventCreateRole, mustJSON(t, models.Role{ID: "r2", ServerId: "s1", Name: "admin", Position: 2}))
	s.Apply(models.EventUpdateRole, mustJSON(t, models.Role{ID: "r1", ServerId: "s1", Name: "moderator", Position: 1}))

	roles := s.Roles("s1")
	require.Len(t, roles, 2)
	assert.Equal(t, "admin", roles[0].Name, "roles sort highest position first")
	assert.Equal(t, "moderator", roles[1].Name)

	s.Apply(models.EventDeleteRole, mustJSON(t, models.DeleteRoleEvent{ID: "r2", ServerId: "s1"}))
	assert.Len(t, s.Roles("s1"), 1)
}

func TestMemberJoinUpsertsUserAndMember(t *testing.T) {
	s := newTestStore(t)

	event := mustJSON(t, models.MemberJoinEvent{
		Member: models.Member{ServerId: "s1", UserId: "u_new", Nickname: "nick"},
		User:   models.User{ID: "u_new", Username: "new"},
	})
	s.Apply(models.EventMemberJoin, event)
	s.Apply(models.EventMemberJoin, event)

	member, ok := s.Member("s1", "u_new")
	require.True(t, ok)
	assert.Equal(t, "nick", member.Nickname)
	assert.Len(t, s.Members("s1"), 1)
}

func TestDeleteServerDropsDependents(t *testing.T) {
	s := newTestStore(t)
	s.Apply(models.EventCreateServer, mustJSON(t, models.Server{ID: "s1", Name: "home"}))
	s.seedChannel(t, "c1", "s1", models.Message{ID: "m1", ChannelId: "c1"})
	s.Apply(models.EventCreateRole, mustJSON(t, models.Role{ID: "r1", ServerId: "s1"}))

	s.Apply(models.EventDeleteServer, mustJSON(t, models.DeleteServerEvent{ID: "s1"}))

	_, ok := s.Server("s1")
	assert.False(t, ok)
	_, ok = s.Channel("c1")
	assert.False(t, ok)
	assert.Nil(t, s.Messages("c1"))
	assert.Empty(t, s.Roles("s1"))
}

func TestThreadIndexing(t *testing.T) {
	s := newTestStore(t)
	s.seedChannel(t, "c1", "s1")

	s.Apply(models.EventCreateThread, mustJSON(t, models.Channel{ID: "t1", ServerId: "s1", ParentId: "c1", Name: "topic"}))
	s.Apply(models.EventCreateThread, mustJSON(t, models.Channel{ID: "t1", ServerId: "s1", ParentId: "c1", Name: "topic"}))

	threads := s.Threads("c1")
	require.Len(t, threads, 1)
	assert.Equal(t, "topic", threads[0].Name)

	s.Apply(models.EventDeleteChannel, mustJSON(t, models.DeleteChannelEvent{ID: "c1", ServerId: "s1"}))
	assert.Empty(t, s.Threads("c1"))
	_, ok := s.Channel("t1")
	assert.False(t, ok, "deleting a parent drops its threads")
}

func TestUnknownAndMalformedEventsAreIgnored(t *testing.T) {
	s := newTestStore(t)
	s.seedChannel(t, "c1", "s1", models.Message{ID: "m1", ChannelId: "c1"})

	s.Apply("totally_unknown", json.RawMessage(`{"whatever":1}`))
	s.Apply(models.EventNewMessage, json.RawMessage(`{not json`))

	assert.Len(t, s.Messages("c1"), 1)
}

func TestDMChannelCreate(t *testing.T) {
	s := newTestStore(t)

	s.Apply(models.EventCreateDM, mustJSON(t, models.Channel{ID: "dm1", Name: "other", Type: "dm"}))

	channel, ok := s.Channel("dm1")
	require.True(t, ok)
	assert.Empty(t, channel.ServerId, "a dm channel has no server reference")
	assert.Len(t, s.Channels(""), 1)
}

func TestFriendUpdateNullTypeRemovesLocally(t *testing.T) {
	s := newTestStore(t)
	s.Apply(models.EventReady, mustJSON(t, models.ReadyPayload{
		User:          models.User{ID: "u_me", Username: "me"},
		Relationships: []models.Relationship{{UserId: "u_a", Type: models.RelationFriend}},
	}))

	fetched := false
	s.api.getRelationships = func(ctx context.Context) ([]models.Relationship, error) {
		fetched = true
		return nil, nil
	}

	s.Apply(models.EventFriendUpdate, json.RawMessage(`{"user_id":"u_a","type":null}`))

	_, ok := s.Relationship("u_a")
	assert.False(t, ok)
	assert.False(t, fetched, "a removal resolves locally without a refetch")
}

func TestFriendUpdateRefetchesFullList(t *testing.T) {
	s := newTestStore(t)

	s.api.getRelationships = func(ctx context.Context) ([]models.Relationship, error) {
		return []models.Relationship{{UserId: "u_a", Type: models.RelationFriend}}, nil
	}

	s.Apply(models.EventFriendUpdate, json.RawMessage(`{"user_id":"u_a","type":"friend"}`))

	waitFor(t, func() bool {
		rel, ok := s.Relationship("u_a")
		return ok && rel.Type == models.RelationFriend
	})
}

func TestFriendUpdateRefetchFailureKeepsStaleList(t *testing.T) {
	s := newTestStore(t)
	s.Apply(models.EventReady, mustJSON(t, models.ReadyPayload{
		User:          models.User{ID: "u_me", Username: "me"},
		Relationships: []models.Relationship{{UserId: "u_a", Type: models.RelationPendingOutgoing}},
	}))

	called := make(chan struct{})
	s.api.getRelationships = func(ctx context.Context) ([]models.Relationship, error) {
		close(called)
		return nil, errors.New("unavailable")
	}

	s.Apply(models.EventFriendUpdate, json.RawMessage(`{"user_id":"u_a","type":"friend"}`))
	<-called

	rel, ok := s.Relationship("u_a")
	require.True(t, ok)
	assert.Equal(t, models.RelationPendingOutgoing, rel.Type)
}

func TestDMMessagePlaysMessageTone(t *testing.T) {
	s := newTestStore(t)
	s.Apply(models.EventCreateDM, mustJSON(t, models.Channel{ID: "dm1", Type: "dm"}))
	s.mu.Lock()
	s.cache.put("dm1", nil)
	s.mu.Unlock()

	s.Apply(models.EventNewMessage, mustJSON(t, models.Message{
		ID:        "m1",
		ChannelId: "dm1",
		Author:    models.User{ID: "u_other"},
		Content:   "hi",
	}))

	received := s.effects.received()
	require.Len(t, received, 1)
	assert.Empty(t, received[0].serverId)
	assert.False(t, received[0].mentioned)
}
