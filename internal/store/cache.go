package store

import (
	"context"

	"gofront/internal/models"
)

// DefaultCacheCapacity bounds how many channels keep their message
// lists resident at once.
const DefaultCacheCapacity = 5

const pageLimit = 50

// messageCache is the bounded per-channel message store. order holds
// resident channel ids from least to most recently used. Eviction drops
// a channel's whole list, reaction groups included; server truth is
// untouched, the list is refetched on next view.
type messageCache struct {
	capacity int
	order    []string
	messages map[string][]models.Message
}

func newMessageCache(capacity int) messageCache {
	return messageCache{
		capacity: capacity,
		messages: make(map[string][]models.Message),
	}
}

func (c *messageCache) resident(channelId string) bool {
	_, ok := c.messages[channelId]
	return ok
}

func (c *messageCache) get(channelId string) ([]models.Message, bool) {
	messages, ok := c.messages[channelId]
	return messages, ok
}

// touch moves the channel to the most-recently-used end.
func (c *messageCache) touch(channelId string) {
	if !c.resident(channelId) {
		return
	}
	for i, id := range c.order {
		if id == channelId {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	c.order = append(c.order, channelId)
}

func (c *messageCache) put(channelId string, messages []models.Message) {
	if !c.resident(channelId) {
		c.order = append(c.order, channelId)
	}
	c.messages[channelId] = messages
	c.touch(channelId)
}

// appendMessage adds the message to its channel's resident list.
// Returns whether the list changed and whether the message was already
// present (by id, or by matching send nonce).
func (c *messageCache) appendMessage(message models.Message) (stored, duplicate bool) {
	messages, ok := c.messages[message.ChannelId]
	if !ok {
		return false, false
	}
	for _, existing := range messages {
		if existing.ID == message.ID {
			return false, true
		}
		if message.Nonce != "" && existing.Nonce == message.Nonce {
			return false, true
		}
	}
	c.messages[message.ChannelId] = append(messages, message)
	c.touch(message.ChannelId)
	return true, false
}

// prepend inserts an older history page before the resident list,
// skipping ids already present.
func (c *messageCache) prepend(channelId string, older []models.Message) {
	messages, ok := c.messages[channelId]
	if !ok {
		return
	}
	seen := make(map[string]bool, len(messages))
	for _, m := range messages {
		seen[m.ID] = true
	}
	fresh := make([]models.Message, 0, len(older))
	for _, m := range older {
		if !seen[m.ID] {
			fresh = append(fresh, m)
		}
	}
	c.messages[channelId] = append(fresh, messages...)
	c.touch(channelId)
}

func (c *messageCache) remove(channelId string) {
	if !c.resident(channelId) {
		return
	}
	delete(c.messages, channelId)
	for i, id := range c.order {
		if id == channelId {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// mutateMessage applies fn to the identified message via
// copy-and-replace of the channel's list, so concurrent readers see
// either the old or the new list, never a half-edited message.
func (c *messageCache) mutateMessage(channelId, messageId string, fn func(*models.Message)) bool {
	messages, ok := c.messages[channelId]
	if !ok {
		return false
	}
	for i := range messages {
		if messages[i].ID != messageId {
			continue
		}
		next := make([]models.Message, len(messages))
		copy(next, messages)
		fn(&next[i])
		c.messages[channelId] = next
		return true
	}
	return false
}

func (c *messageCache) removeMessage(channelId, messageId string) bool {
	messages, ok := c.messages[channelId]
	if !ok {
		return false
	}
	for i := range messages {
		if messages[i].ID != messageId {
			continue
		}
		next := make([]models.Message, 0, len(messages)-1)
		next = append(next, messages[:i]...)
		next = append(next, messages[i+1:]...)
		c.messages[channelId] = next
		return true
	}
	return false
}

// evict drops least-recently-used channels until the cache fits its
// capacity. The active channel is never evicted.
func (c *messageCache) evict(activeChannel string) {
	for len(c.order) > c.capacity {
		evicted := false
		for _, id := range c.order {
			if id == activeChannel {
				continue
			}
			c.remove(id)
			evicted = true
			break
		}
		if !evicted {
			return
		}
	}
}

// LoadMessages returns the channel's resident message list, fetching it
// from the Remote API only when absent. Loading is idempotent.
func (s *Store) LoadMessages(ctx context.Context, channelId string) ([]models.Message, error) {
	s.mu.Lock()
	if messages, ok := s.cache.get(channelId); ok {
		s.cache.touch(channelId)
		s.mu.Unlock()
		return messages, nil
	}
	s.mu.Unlock()

	fetched, err := s.api.GetChannelMessages(ctx, channelId, pageLimit, "")
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	// A concurrent load may have won; the resident list stands.
	if messages, ok := s.cache.get(channelId); ok {
		s.cache.touch(channelId)
		s.mu.Unlock()
		return messages, nil
	}
	s.cache.put(channelId, fetched)
	s.cache.evict(s.activeChannel)
	s.mu.Unlock()
	s.publish()

	return fetched, nil
}

// LoadOlderMessages prepends the page before the oldest known message
// and reports whether further history may exist. An empty page means
// the caller should stop paging.
func (s *Store) LoadOlderMessages(ctx context.Context, channelId string) (bool, error) {
	s.mu.Lock()
	messages, ok := s.cache.get(channelId)
	s.mu.Unlock()

	if !ok {
		fetched, err := s.LoadMessages(ctx, channelId)
		return len(fetched) > 0, err
	}
	if len(messages) == 0 {
		return false, nil
	}

	before := messages[0].ID
	older, err := s.api.GetChannelMessages(ctx, channelId, pageLimit, before)
	if err != nil {
		return false, err
	}
	if len(older) == 0 {
		return false, nil
	}

	s.mu.Lock()
	s.cache.prepend(channelId, older)
	s.cache.evict(s.activeChannel)
	s.mu.Unlock()
	s.publish()

	return true, nil
}

// Messages returns the resident list for a channel, or nil when the
// channel is not cached.
func (s *Store) Messages(channelId string) []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	messages, _ := s.cache.get(channelId)
	return messages
}

// ResidentChannels returns the cached channel ids in LRU order, oldest
// first.
func (s *Store) ResidentChannels() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.cache.order))
	copy(out, s.cache.order)
	return out
}
