package store

import (
	"context"
	"time"

	"gofront/internal/models"
	"gofront/internal/utils"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// Apply folds one dispatch envelope into the replica. It has no failure
// path: unknown event types are ignored and malformed payloads are
// logged and dropped, since a crash here would take down the live
// session. Application is idempotent for every create/update tag.
func (s *Store) Apply(eventType string, content json.RawMessage) {
	switch eventType {
	case models.EventReady:
		if ready, ok := decode[models.ReadyPayload](s, eventType, content); ok {
			s.applyReady(ready)
		}
	case models.EventNewMessage:
		if message, ok := decode[models.Message](s, eventType, content); ok {
			s.applyNewMessage(message)
		}
	case models.EventEditMessage:
		if message, ok := decode[models.Message](s, eventType, content); ok {
			s.applyEditMessage(message)
		}
	case models.EventDeleteMessage:
		if ev, ok := decode[models.DeleteMessageEvent](s, eventType, content); ok {
			s.applyDeleteMessage(ev)
		}
	case models.EventAddReaction:
		if ev, ok := decode[models.ReactionEvent](s, eventType, content); ok {
			s.applyReaction(ev, true)
		}
	case models.EventRemoveReaction:
		if ev, ok := decode[models.ReactionEvent](s, eventType, content); ok {
			s.applyReaction(ev, false)
		}
	case models.EventPinMessage:
		if ev, ok := decode[models.PinEvent](s, eventType, content); ok {
			s.applyPin(ev)
		}
	case models.EventCreateServer:
		if server, ok := decode[models.Server](s, eventType, content); ok {
			s.applyCreateServer(server)
		}
	case models.EventMemberJoin:
		if ev, ok := decode[models.MemberJoinEvent](s, eventType, content); ok {
			s.applyMemberJoin(ev)
		}
	case models.EventDeleteServer:
		if ev, ok := decode[models.DeleteServerEvent](s, eventType, content); ok {
			s.applyDeleteServer(ev)
		}
	case models.EventCreateChannel, models.EventCreateDM, models.EventCreateThread:
		if channel, ok := decode[models.Channel](s, eventType, content); ok {
			s.applyCreateChannel(channel)
		}
	case models.EventUpdateChannel:
		if channel, ok := decode[models.Channel](s, eventType, content); ok {
			s.applyUpdateChannel(channel)
		}
	case models.EventDeleteChannel:
		if ev, ok := decode[models.DeleteChannelEvent](s, eventType, content); ok {
			s.applyDeleteChannel(ev)
		}
	case models.EventCreateRole, models.EventUpdateRole:
		if role, ok := decode[models.Role](s, eventType, content); ok {
			s.applyUpsertRole(role)
		}
	case models.EventDeleteRole:
		if ev, ok := decode[models.DeleteRoleEvent](s, eventType, content); ok {
			s.applyDeleteRole(ev)
		}
	case models.EventFriendUpdate:
		if ev, ok := decode[models.FriendUpdateEvent](s, eventType, content); ok {
			s.applyFriendUpdate(ev)
		}
	case models.EventTyping:
		if ev, ok := decode[models.TypingEvent](s, eventType, content); ok {
			s.applyTyping(ev)
		}
	case models.EventVoiceState:
		if ev, ok := decode[models.VoiceStateEvent](s, eventType, content); ok {
			s.applyVoiceState(ev)
		}
	case models.EventPresence:
		if ev, ok := decode[models.PresenceEvent](s, eventType, content); ok {
			s.applyPresence(ev)
		}
	default:
		s.log.Debug("ignoring unknown event", zap.String("type", eventType))
	}
}

func decode[T any](s *Store, eventType string, content json.RawMessage) (T, bool) {
	var payload T
	if err := json.Unmarshal(content, &payload); err != nil {
		s.log.Warn("dropping malformed payload", zap.String("type", eventType), zap.Error(err))
		return payload, false
	}
	return payload, true
}

func (s *Store) applyReady(ready models.ReadyPayload) {
	s.mu.Lock()
	s.me = ready.User
	if ready.User.ID != "" {
		s.users[ready.User.ID] = ready.User
	}
	for _, server := range ready.Servers {
		s.servers[server.ID] = server
	}
	for _, channel := range ready.Channels {
		s.channels[channel.ID] = channel
		s.indexThread(channel)
	}
	for _, role := range ready.Roles {
		s.upsertRole(role)
	}
	for _, member := range ready.Members {
		s.upsertMember(member)
	}
	relationships := make(map[string]models.Relationship, len(ready.Relationships))
	for _, rel := range ready.Relationships {
		relationships[rel.UserId] = rel
	}
	s.relationships = relationships
	for _, state := range ready.ReadStates {
		s.readStates[state.ChannelId] = state
	}
	for target, pref := range ready.NotifPrefs {
		s.notifPrefs[target] = pref
	}
	for _, messageId := range ready.Bookmarks {
		s.bookmarks[messageId] = true
	}
	s.mu.Unlock()
	s.publish()
}

func (s *Store) applyNewMessage(message models.Message) {
	s.mu.Lock()
	if message.Author.ID != "" {
		s.users[message.Author.ID] = message.Author
	}
	stored, duplicate := s.cache.appendMessage(message)
	serverId := s.channels[message.ChannelId].ServerId
	me := s.me
	s.mu.Unlock()

	if stored {
		s.publish()
	}
	if duplicate || s.effects == nil {
		return
	}
	if message.Author.ID == me.ID {
		return
	}

	mentioned := utils.MentionsUser(message.Content, me)
	if !mentioned {
		for _, id := range message.Mentions {
			if id == me.ID {
				mentioned = true
				break
			}
		}
	}
	s.effects.MessageReceived(message, serverId, mentioned)
}

// applyEditMessage replaces content and edit metadata in place, and the
// reaction snapshot wholesale: the event carries the authoritative full
// set, so an absent or empty set clears.
func (s *Store) applyEditMessage(message models.Message) {
	s.mu.Lock()
	changed := s.cache.mutateMessage(message.ChannelId, message.ID, func(existing *models.Message) {
		existing.Content = message.Content
		existing.Edited = true
		existing.UpdatedAt = message.UpdatedAt
		existing.Mentions = message.Mentions
		existing.Reactions = message.Reactions
	})
	s.mu.Unlock()
	if changed {
		s.publish()
	}
}

func (s *Store) applyDeleteMessage(ev models.DeleteMessageEvent) {
	s.mu.Lock()
	changed := s.cache.removeMessage(ev.ChannelId, ev.ID)
	s.mu.Unlock()
	if changed {
		s.publish()
	}
}

// applyReaction is delta-based, unlike every other handler: add
// increments or creates at one, remove decrements and deletes the group
// when the count reaches zero. A zero-count group is never retained.
func (s *Store) applyReaction(ev models.ReactionEvent, add bool) {
	s.mu.Lock()
	byMe := ev.UserId == s.me.ID
	changed := s.cache.mutateMessage(ev.ChannelId, ev.MessageId, func(message *models.Message) {
		groups := make([]models.ReactionGroup, len(message.Reactions))
		copy(groups, message.Reactions)

		found := -1
		for i := range groups {
			if groups[i].Emoji == ev.Emoji {
				found = i
				break
			}
		}

		if add {
			if found >= 0 {
				groups[found].Count++
				groups[found].Me = groups[found].Me || byMe
			} else {
				groups = append(groups, models.ReactionGroup{Emoji: ev.Emoji, Count: 1, Me: byMe})
			}
		} else if found >= 0 {
			groups[found].Count--
			if byMe {
				groups[found].Me = false
			}
			if groups[found].Count <= 0 {
				groups = append(groups[:found], groups[found+1:]...)
			}
		}
		message.Reactions = groups
	})
	s.mu.Unlock()
	if changed {
		s.publish()
	}
}

func (s *Store) applyPin(ev models.PinEvent) {
	s.mu.Lock()
	changed := s.cache.mutateMessage(ev.ChannelId, ev.MessageId, func(message *models.Message) {
		message.Pinned = ev.Pinned
	})
	s.mu.Unlock()
	if changed {
		s.publish()
	}
}

func (s *Store) applyCreateServer(server models.Server) {
	s.mu.Lock()
	if _, seen := s.servers[server.ID]; seen {
		s.mu.Unlock()
		return
	}
	s.servers[server.ID] = server
	s.mu.Unlock()
	s.publish()
}

func (s *Store) applyMemberJoin(ev models.MemberJoinEvent) {
	s.mu.Lock()
	if ev.User.ID != "" {
		s.users[ev.User.ID] = ev.User
	}
	s.upsertMember(ev.Member)
	s.mu.Unlock()
	s.publish()
}

func (s *Store) applyDeleteServer(ev models.DeleteServerEvent) {
	s.mu.Lock()
	if _, seen := s.servers[ev.ID]; !seen {
		s.mu.Unlock()
		return
	}
	delete(s.servers, ev.ID)
	delete(s.roles, ev.ID)
	delete(s.members, ev.ID)
	for id, channel := range s.channels {
		if channel.ServerId == ev.ID {
			s.dropChannel(id)
		}
	}
	s.mu.Unlock()
	s.publish()
}

// applyCreateChannel appends only if unseen; it also covers DM channels
// (no server reference) and threads (parent reference set).
func (s *Store) applyCreateChannel(channel models.Channel) {
	s.mu.Lock()
	if _, seen := s.channels[channel.ID]; seen {
		s.mu.Unlock()
		return
	}
	s.channels[channel.ID] = channel
	s.indexThread(channel)
	s.mu.Unlock()
	s.publish()
}

func (s *Store) applyUpdateChannel(channel models.Channel) {
	s.mu.Lock()
	s.channels[channel.ID] = channel
	s.mu.Unlock()
	s.publish()
}

func (s *Store) applyDeleteChannel(ev models.DeleteChannelEvent) {
	s.mu.Lock()
	if _, seen := s.channels[ev.ID]; !seen {
		s.mu.Unlock()
		return
	}
	s.dropChannel(ev.ID)
	s.mu.Unlock()
	s.publish()
}

func (s *Store) applyUpsertRole(role models.Role) {
	s.mu.Lock()
	s.upsertRole(role)
	s.mu.Unlock()
	s.publish()
}

func (s *Store) applyDeleteRole(ev models.DeleteRoleEvent) {
	s.mu.Lock()
	if serverRoles, ok := s.roles[ev.ServerId]; ok {
		delete(serverRoles, ev.ID)
	}
	s.mu.Unlock()
	s.publish()
}

// relationshipFetchTimeout bounds the follow-up refetch triggered by a
// relationship update event.
const relationshipFetchTimeout = 10 * time.Second

// applyFriendUpdate reacts to an authoritative relationship change. The
// event does not carry the full record, so a non-null type triggers a
// full refetch; a null type removes the entry locally. The refetch may
// fail silently — the next authoritative event corrects the list.
func (s *Store) applyFriendUpdate(ev models.FriendUpdateEvent) {
	if ev.Type == nil {
		s.mu.Lock()
		delete(s.relationships, ev.UserId)
		s.mu.Unlock()
		s.publish()
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), relationshipFetchTimeout)
		defer cancel()

		relationships, err := s.api.GetRelationships(ctx)
		if err != nil {
			s.log.Warn("relationship refetch failed, keeping stale list", zap.Error(err))
			return
		}

		next := make(map[string]models.Relationship, len(relationships))
		for _, rel := range relationships {
			next[rel.UserId] = rel
		}
		s.mu.Lock()
		s.relationships = next
		s.mu.Unlock()
		s.publish()
	}()
}

// Callers hold s.mu.
func (s *Store) upsertRole(role models.Role) {
	serverRoles, ok := s.roles[role.ServerId]
	if !ok {
		serverRoles = make(map[string]models.Role)
		s.roles[role.ServerId] = serverRoles
	}
	serverRoles[role.ID] = role
}

// Callers hold s.mu.
func (s *Store) upsertMember(member models.Member) {
	serverMembers, ok := s.members[member.ServerId]
	if !ok {
		serverMembers = make(map[string]models.Member)
		s.members[member.ServerId] = serverMembers
	}
	serverMembers[member.UserId] = member
}

// Callers hold s.mu.
func (s *Store) indexThread(channel models.Channel) {
	if channel.ParentId == "" {
		return
	}
	for _, id := range s.threads[channel.ParentId] {
		if id == channel.ID {
			return
		}
	}
	s.threads[channel.ParentId] = append(s.threads[channel.ParentId], channel.ID)
}

// dropChannel removes a channel and everything hanging off it. Callers
// hold s.mu.
func (s *Store) dropChannel(channelId string) {
	channel := s.channels[channelId]
	delete(s.channels, channelId)
	s.cache.remove(channelId)
	delete(s.voice, channelId)
	s.clearTyping(channelId)
	if channel.ParentId != "" {
		threads := s.threads[channel.ParentId]
		for i, id := range threads {
			if id == channelId {
				s.threads[channel.ParentId] = append(threads[:i], threads[i+1:]...)
				break
			}
		}
	}
	for _, threadId := range s.threads[channelId] {
		delete(s.channels, threadId)
		s.cache.remove(threadId)
	}
	delete(s.threads, channelId)
}
