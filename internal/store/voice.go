package store

import (
	"context"
	"fmt"

	"gofront/internal/models"

	"go.uber.org/zap"
)

// applyVoiceState upserts the (channel, user) pair and then sweeps the
// user out of every other channel's list: a user occupies at most one
// voice channel, and a move never relies on the server sending an
// explicit "left other channel" event. An empty channel id removes the
// user everywhere.
func (s *Store) applyVoiceState(ev models.VoiceStateEvent) {
	s.mu.Lock()

	previous := ""
	for channelId, states := range s.voice {
		for _, state := range states {
			if state.UserId == ev.UserId {
				previous = channelId
				break
			}
		}
		if previous != "" {
			break
		}
	}

	if ev.ChannelId != "" {
		s.voice[ev.ChannelId] = upsertVoiceState(s.voice[ev.ChannelId], models.VoiceState{
			ChannelId: ev.ChannelId,
			UserId:    ev.UserId,
			SelfMute:  ev.SelfMute,
			SelfDeaf:  ev.SelfDeaf,
		})
	}
	for channelId, states := range s.voice {
		if channelId == ev.ChannelId {
			continue
		}
		next := removeVoiceState(states, ev.UserId)
		if len(next) == 0 {
			delete(s.voice, channelId)
		} else {
			s.voice[channelId] = next
		}
	}

	local := s.voiceChannel
	me := s.me.ID
	s.mu.Unlock()
	s.publish()

	// Join/leave tones only fire for other users crossing the boundary
	// of the channel the local user currently occupies.
	if s.effects == nil || local == "" || ev.UserId == me {
		return
	}
	switch {
	case ev.ChannelId == local && previous != local:
		s.effects.VoiceJoined()
	case previous == local && ev.ChannelId != local:
		s.effects.VoiceLeft()
	}
}

func upsertVoiceState(states []models.VoiceState, state models.VoiceState) []models.VoiceState {
	next := make([]models.VoiceState, 0, len(states)+1)
	replaced := false
	for _, existing := range states {
		if existing.UserId == state.UserId {
			next = append(next, state)
			replaced = true
		} else {
			next = append(next, existing)
		}
	}
	if !replaced {
		next = append(next, state)
	}
	return next
}

func removeVoiceState(states []models.VoiceState, userId string) []models.VoiceState {
	next := make([]models.VoiceState, 0, len(states))
	for _, state := range states {
		if state.UserId != userId {
			next = append(next, state)
		}
	}
	return next
}

// JoinVoice establishes the local outgoing voice session on a channel.
// A session on a different channel is torn down first: the session is a
// singleton, leave-before-join, including across a channel switch.
func (s *Store) JoinVoice(ctx context.Context, channelId string) error {
	s.mu.Lock()
	current := s.voiceChannel
	session := s.session
	s.mu.Unlock()

	if current == channelId && session != nil {
		return nil
	}
	if current != "" {
		// Best effort: the server reconciles via voice state events even
		// if this leave call is lost.
		if err := s.api.LeaveVoice(ctx, current); err != nil {
			s.log.Warn("leaving previous voice channel failed", zap.Error(err))
		}
		if session != nil {
			session.Disconnect()
		}
		s.mu.Lock()
		s.voiceChannel = ""
		s.session = nil
		s.mu.Unlock()
	}

	creds, err := s.api.JoinVoice(ctx, channelId)
	if err != nil {
		return fmt.Errorf("store: joining voice: %w", err)
	}
	session, err = s.rtc.Connect(creds.Url, creds.Token)
	if err != nil {
		return fmt.Errorf("store: connecting voice session: %w", err)
	}

	s.mu.Lock()
	s.voiceChannel = channelId
	s.session = session
	s.mu.Unlock()
	s.publish()
	return nil
}

// LeaveVoice tears the local session down and clears the mute and
// deafen flags; deafen does not persist across sessions.
func (s *Store) LeaveVoice(ctx context.Context) error {
	s.mu.Lock()
	channelId := s.voiceChannel
	session := s.session
	s.voiceChannel = ""
	s.session = nil
	s.selfMute = false
	s.selfDeaf = false
	s.mu.Unlock()
	s.publish()

	if session != nil {
		session.Disconnect()
	}
	if channelId == "" {
		return nil
	}
	if err := s.api.LeaveVoice(ctx, channelId); err != nil {
		return fmt.Errorf("store: leaving voice: %w", err)
	}
	return nil
}

func (s *Store) SetMute(muted bool) {
	s.mu.Lock()
	s.selfMute = muted
	s.mu.Unlock()
	s.publish()
}

// SetDeaf toggles deafen. Deafen on implies mute on; deafen off leaves
// mute wherever it was set during deafen.
func (s *Store) SetDeaf(deafened bool) {
	s.mu.Lock()
	s.selfDeaf = deafened
	if deafened {
		s.selfMute = true
	}
	s.mu.Unlock()
	s.publish()
}

// VoiceStates returns the participants of a voice channel.
func (s *Store) VoiceStates(channelId string) []models.VoiceState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.voice[channelId]
}

// VoiceChannel returns the channel the local session occupies, if any.
func (s *Store) VoiceChannel() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.voiceChannel
}

func (s *Store) Muted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selfMute
}

func (s *Store) Deafened() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selfDeaf
}
