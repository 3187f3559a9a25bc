package store

import (
	"context"
	"testing"

	"gofront/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditAndDeleteMessageApplyLocally(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	s.seedChannel(t, "c1", "s1",
		models.Message{ID: "m1", ChannelId: "c1", Content: "draft"},
		models.Message{ID: "m2", ChannelId: "c1"},
	)

	require.NoError(t, s.EditMessage(ctx, "c1", "m1", "final"))
	messages := s.Messages("c1")
	assert.Equal(t, "final", messages[0].Content)
	assert.True(t, messages[0].Edited)

	require.NoError(t, s.DeleteMessage(ctx, "c1", "m2"))
	assert.Len(t, s.Messages("c1"), 1)
}

func TestPinActionsApplyLocally(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	s.seedChannel(t, "c1", "s1", models.Message{ID: "m1", ChannelId: "c1"})

	require.NoError(t, s.Pin(ctx, "c1", "m1"))
	assert.True(t, s.Messages("c1")[0].Pinned)

	require.NoError(t, s.Unpin(ctx, "c1", "m1"))
	assert.False(t, s.Messages("c1")[0].Pinned)
}

func TestReactionsDoNotApplyLocally(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	s.seedChannel(t, "c1", "s1", models.Message{ID: "m1", ChannelId: "c1"})

	// The gateway echoes add/remove back to the author; a local delta
	// on top of the echo would double-count.
	require.NoError(t, s.React(ctx, "c1", "m1", "👍"))
	assert.Empty(t, s.Messages("c1")[0].Reactions)
}

func TestOpenDirectMessageStoresChannel(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	s.api.createDirectMessage = func(ctx context.Context, userId string) (models.Channel, error) {
		return models.Channel{ID: "dm_" + userId, Type: "dm"}, nil
	}

	channel, err := s.OpenDirectMessage(ctx, "u_other")
	require.NoError(t, err)
	assert.Equal(t, "dm_u_other", channel.ID)

	_, ok := s.Channel("dm_u_other")
	assert.True(t, ok)

	require.NoError(t, s.CloseDirectMessage(ctx, "dm_u_other"))
	_, ok = s.Channel("dm_u_other")
	assert.False(t, ok)
}

func TestCreateThreadIndexesUnderParent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	s.seedChannel(t, "c1", "s1", models.Message{ID: "m1", ChannelId: "c1"})
	s.api.createThread = func(ctx context.Context, channelId, messageId, name string) (models.Channel, error) {
		return models.Channel{ID: "t1", ServerId: "s1", ParentId: channelId, Name: name}, nil
	}

	thread, err := s.CreateThread(ctx, "c1", "m1", "sidebar")
	require.NoError(t, err)
	assert.Equal(t, "t1", thread.ID)

	threads := s.Threads("c1")
	require.Len(t, threads, 1)
	assert.Equal(t, "sidebar", threads[0].Name)
}

func TestSearchKeepsLastResultSet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	s.api.searchMessages = func(ctx context.Context, serverId, query string) ([]models.Message, error) {
		return []models.Message{{ID: "m7", Content: "deploy notes"}}, nil
	}

	results, err := s.Search(ctx, "s1", "deploy")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, results, s.SearchResults())
}

func TestSetActiveRecordsSelection(t *testing.T) {
	s := newTestStore(t)

	s.SetActive("server", "s1", "c1")

	mode, serverId, channelId := s.Active()
	assert.Equal(t, "server", mode)
	assert.Equal(t, "s1", serverId)
	assert.Equal(t, "c1", channelId)
}
