package store

import (
	"context"
	"fmt"

	"gofront/internal/models"
	"gofront/internal/utils"
)

// User-initiated actions. Each calls the Remote API once and folds the
// result into the replica; failures surface to the caller and are never
// retried here. Local writes are the same keyed upserts the event
// handlers perform, so the gateway echo of each action applies
// idempotently on top.

// SendMessage posts a message authored by the local user. The attached
// nonce lets the echoed create event dedup against the locally appended
// copy.
func (s *Store) SendMessage(ctx context.Context, channelId, content string) (models.Message, error) {
	nonce, err := utils.GenerateRandomId(10)
	if err != nil {
		return models.Message{}, fmt.Errorf("store: generating nonce: %w", err)
	}

	s.mu.RLock()
	author := s.me
	s.mu.RUnlock()

	message := models.Message{
		Author:    author,
		ChannelId: channelId,
		Content:   content,
		Nonce:     nonce,
	}
	created, err := s.api.CreateMessage(ctx, message)
	if err != nil {
		return models.Message{}, err
	}

	s.mu.Lock()
	stored, _ := s.cache.appendMessage(created)
	s.mu.Unlock()
	if stored {
		s.publish()
	}
	return created, nil
}

func (s *Store) EditMessage(ctx context.Context, channelId, messageId, content string) error {
	if err := s.api.EditMessage(ctx, channelId, messageId, content); err != nil {
		return err
	}

	s.mu.Lock()
	changed := s.cache.mutateMessage(channelId, messageId, func(message *models.Message) {
		message.Content = content
		message.Edited = true
	})
	s.mu.Unlock()
	if changed {
		s.publish()
	}
	return nil
}

func (s *Store) DeleteMessage(ctx context.Context, channelId, messageId string) error {
	if err := s.api.DeleteMessage(ctx, channelId, messageId); err != nil {
		return err
	}

	s.mu.Lock()
	changed := s.cache.removeMessage(channelId, messageId)
	s.mu.Unlock()
	if changed {
		s.publish()
	}
	return nil
}

// React and Unreact do not touch the replica: reaction groups are delta
// counters, and the gateway echoes the add/remove event back to the
// author, so a local delta would double-count.
func (s *Store) React(ctx context.Context, channelId, messageId, emoji string) error {
	return s.api.AddReaction(ctx, channelId, messageId, emoji)
}

func (s *Store) Unreact(ctx context.Context, channelId, messageId, emoji string) error {
	return s.api.RemoveReaction(ctx, channelId, messageId, emoji)
}

func (s *Store) Pin(ctx context.Context, channelId, messageId string) error {
	if err := s.api.PinMessage(ctx, channelId, messageId); err != nil {
		return err
	}
	s.applyPin(models.PinEvent{ChannelId: channelId, MessageId: messageId, Pinned: true})
	return nil
}

func (s *Store) Unpin(ctx context.Context, channelId, messageId string) error {
	if err := s.api.UnpinMessage(ctx, channelId, messageId); err != nil {
		return err
	}
	s.applyPin(models.PinEvent{ChannelId: channelId, MessageId: messageId, Pinned: false})
	return nil
}

func (s *Store) OpenDirectMessage(ctx context.Context, userId string) (models.Channel, error) {
	channel, err := s.api.CreateDirectMessage(ctx, userId)
	if err != nil {
		return models.Channel{}, err
	}
	s.applyCreateChannel(channel)
	return channel, nil
}

func (s *Store) CloseDirectMessage(ctx context.Context, channelId string) error {
	if err := s.api.CloseDirectMessage(ctx, channelId); err != nil {
		return err
	}
	s.applyDeleteChannel(models.DeleteChannelEvent{ID: channelId})
	return nil
}

func (s *Store) CreateThread(ctx context.Context, channelId, messageId, name string) (models.Channel, error) {
	thread, err := s.api.CreateThread(ctx, channelId, messageId, name)
	if err != nil {
		return models.Channel{}, err
	}
	s.applyCreateChannel(thread)
	return thread, nil
}

// Search fetches matching messages and keeps the last result set on the
// replica.
func (s *Store) Search(ctx context.Context, serverId, query string) ([]models.Message, error) {
	results, err := s.api.SearchMessages(ctx, serverId, query)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.searchResults = results
	s.mu.Unlock()
	s.publish()
	return results, nil
}
