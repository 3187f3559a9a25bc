package store

import (
	"context"
	"fmt"

	"gofront/internal/models"
)

// SetLocalStatus records the local user's status choice immediately —
// the UI must reflect intent without waiting for the server echo — then
// pushes it to the Remote API and out the gateway's presence channel.
func (s *Store) SetLocalStatus(ctx context.Context, status string) error {
	s.mu.Lock()
	s.presences[s.me.ID] = status
	s.me.Status = status
	userId := s.me.ID
	pusher := s.pusher
	s.mu.Unlock()
	s.publish()

	if err := s.api.UpdateUserStatus(ctx, status); err != nil {
		return fmt.Errorf("store: pushing status to api: %w", err)
	}
	if pusher != nil {
		if err := pusher.PushPresence(userId, status); err != nil {
			return fmt.Errorf("store: pushing status to gateway: %w", err)
		}
	}
	return nil
}

// applyPresence folds a server-broadcast presence update. The server
// cannot express "invisible" distinctly from "offline": when the local
// user chose invisible, an offline broadcast for that same user is
// discarded so the local choice survives.
func (s *Store) applyPresence(ev models.PresenceEvent) {
	s.mu.Lock()
	if ev.UserId == s.me.ID &&
		ev.Status == models.StatusOffline &&
		s.presences[s.me.ID] == models.StatusInvisible {
		s.mu.Unlock()
		return
	}
	s.presences[ev.UserId] = ev.Status
	s.mu.Unlock()
	s.publish()
}

// Presence returns a user's status; absent users are offline.
func (s *Store) Presence(userId string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if status, ok := s.presences[userId]; ok {
		return status
	}
	return models.StatusOffline
}
