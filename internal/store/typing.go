package store

import (
	"time"

	"gofront/internal/models"
)

// TypingTimeout is how long a typing entry lives without a refreshing
// event. There is no "stopped typing" event in the protocol; expiry is
// the only stop signal.
const TypingTimeout = 8 * time.Second

type typingEntry struct {
	displayName string
	timer       *time.Timer
}

// applyTyping arms or rearms the expiry timer for the (channel, user)
// pair.
func (s *Store) applyTyping(ev models.TypingEvent) {
	s.mu.Lock()
	channelTyping, ok := s.typing[ev.ChannelId]
	if !ok {
		channelTyping = make(map[string]*typingEntry)
		s.typing[ev.ChannelId] = channelTyping
	}
	if existing, ok := channelTyping[ev.UserId]; ok {
		existing.timer.Stop()
	}
	channelId, userId := ev.ChannelId, ev.UserId
	entry := &typingEntry{displayName: ev.DisplayName}
	entry.timer = time.AfterFunc(s.typingTimeout, func() {
		s.expireTyping(channelId, userId, entry)
	})
	channelTyping[ev.UserId] = entry
	s.mu.Unlock()
	s.publish()
}

// expireTyping removes the entry its timer belonged to. A stale timer
// whose entry was already replaced by a fresh typing event is a no-op.
func (s *Store) expireTyping(channelId, userId string, fired *typingEntry) {
	s.mu.Lock()
	channelTyping, ok := s.typing[channelId]
	if !ok {
		s.mu.Unlock()
		return
	}
	if channelTyping[userId] != fired {
		s.mu.Unlock()
		return
	}
	delete(channelTyping, userId)
	if len(channelTyping) == 0 {
		delete(s.typing, channelId)
	}
	s.mu.Unlock()
	s.publish()
}

// clearTyping cancels every timer for a channel. Callers hold s.mu.
func (s *Store) clearTyping(channelId string) {
	for _, entry := range s.typing[channelId] {
		entry.timer.Stop()
	}
	delete(s.typing, channelId)
}

// TypingUsers returns the user ids currently typing in a channel.
func (s *Store) TypingUsers(channelId string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	channelTyping := s.typing[channelId]
	users := make([]string, 0, len(channelTyping))
	for userId := range channelTyping {
		users = append(users, userId)
	}
	return users
}
