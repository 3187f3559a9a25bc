package store

import (
	"sort"

	"gofront/internal/models"
)

// Read-side accessors. Each returns a copy or an immutable snapshot;
// the collections behind them are replaced, never mutated in place.

func (s *Store) Me() models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.me
}

func (s *Store) User(userId string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[userId]
	return user, ok
}

func (s *Store) Servers() []models.Server {
	s.mu.RLock()
	defer s.mu.RUnlock()
	servers := make([]models.Server, 0, len(s.servers))
	for _, server := range s.servers {
		servers = append(servers, server)
	}
	sort.Slice(servers, func(i, j int) bool { return servers[i].ID < servers[j].ID })
	return servers
}

func (s *Store) Server(serverId string) (models.Server, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	server, ok := s.servers[serverId]
	return server, ok
}

// Channels returns a server's channels ordered by position. An empty
// serverId selects direct and group channels.
func (s *Store) Channels(serverId string) []models.Channel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	channels := make([]models.Channel, 0)
	for _, channel := range s.channels {
		if channel.ServerId == serverId && channel.ParentId == "" {
			channels = append(channels, channel)
		}
	}
	sort.Slice(channels, func(i, j int) bool { return channels[i].Position < channels[j].Position })
	return channels
}

func (s *Store) Channel(channelId string) (models.Channel, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	channel, ok := s.channels[channelId]
	return channel, ok
}

func (s *Store) Threads(parentId string) []models.Channel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	threads := make([]models.Channel, 0, len(s.threads[parentId]))
	for _, id := range s.threads[parentId] {
		if channel, ok := s.channels[id]; ok {
			threads = append(threads, channel)
		}
	}
	return threads
}

// Roles returns a server's roles, highest position first — the order
// used for highest-role-wins display resolution.
func (s *Store) Roles(serverId string) []models.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	roles := make([]models.Role, 0, len(s.roles[serverId]))
	for _, role := range s.roles[serverId] {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].Position > roles[j].Position })
	return roles
}

func (s *Store) Member(serverId, userId string) (models.Member, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	member, ok := s.members[serverId][userId]
	return member, ok
}

func (s *Store) Members(serverId string) []models.Member {
	s.mu.RLock()
	defer s.mu.RUnlock()
	members := make([]models.Member, 0, len(s.members[serverId]))
	for _, member := range s.members[serverId] {
		members = append(members, member)
	}
	sort.Slice(members, func(i, j int) bool { return members[i].UserId < members[j].UserId })
	return members
}

func (s *Store) Relationships() []models.Relationship {
	s.mu.RLock()
	defer s.mu.RUnlock()
	relationships := make([]models.Relationship, 0, len(s.relationships))
	for _, rel := range s.relationships {
		relationships = append(relationships, rel)
	}
	sort.Slice(relationships, func(i, j int) bool { return relationships[i].UserId < relationships[j].UserId })
	return relationships
}

func (s *Store) Relationship(userId string) (models.Relationship, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rel, ok := s.relationships[userId]
	return rel, ok
}

func (s *Store) ReadState(channelId string) (models.ReadState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.readStates[channelId]
	return state, ok
}

func (s *Store) NotifPreference(target string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pref, ok := s.notifPrefs[target]
	return pref, ok
}

func (s *Store) Bookmarked(messageId string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bookmarks[messageId]
}

func (s *Store) SearchResults() []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.searchResults
}

// Active returns the current selection: mode, server, channel.
func (s *Store) Active() (string, string, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode, s.activeServer, s.activeChannel
}
