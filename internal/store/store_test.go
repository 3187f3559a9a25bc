package store

import (
	"context"
	"sync"
	"testing"

	"gofront/internal/models"
	"gofront/internal/rtc"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// fakeAPI implements api.Service with overridable behaviors; unset
// calls succeed with zero values.
type fakeAPI struct {
	getChannelMessages  func(ctx context.Context, channelId string, limit int, before string) ([]models.Message, error)
	getRelationships    func(ctx context.Context) ([]models.Relationship, error)
	createMessage       func(ctx context.Context, message models.Message) (models.Message, error)
	createDirectMessage func(ctx context.Context, userId string) (models.Channel, error)
	createThread        func(ctx context.Context, channelId, messageId, name string) (models.Channel, error)
	searchMessages      func(ctx context.Context, serverId, query string) ([]models.Message, error)
	joinVoice           func(ctx context.Context, channelId string) (models.VoiceCredentials, error)
	leaveVoice          func(ctx context.Context, channelId string) error
	updateUserStatus    func(ctx context.Context, status string) error

	mu         sync.Mutex
	leaveCalls []string
}

func (f *fakeAPI) GetUserServers(ctx context.Context) ([]models.Server, error) { return nil, nil }
func (f *fakeAPI) GetServer(ctx context.Context, serverId string) (models.Server, error) {
	return models.Server{}, nil
}
func (f *fakeAPI) GetSubscribedChannels(ctx context.Context) ([]models.Channel, error) {
	return nil, nil
}
func (f *fakeAPI) GetRoles(ctx context.Context, serverId string) ([]models.Role, error) {
	return nil, nil
}
func (f *fakeAPI) GetMembers(ctx context.Context, serverId string) ([]models.Member, error) {
	return nil, nil
}

func (f *fakeAPI) GetChannelMessages(ctx context.Context, channelId string, limit int, before string) ([]models.Message, error) {
	if f.getChannelMessages != nil {
		return f.getChannelMessages(ctx, channelId, limit, before)
	}
	return nil, nil
}

func (f *fakeAPI) GetRelationships(ctx context.Context) ([]models.Relationship, error) {
	if f.getRelationships != nil {
		return f.getRelationships(ctx)
	}
	return nil, nil
}

func (f *fakeAPI) GetThreads(ctx context.Context, channelId string) ([]models.Channel, error) {
	return nil, nil
}
func (f *fakeAPI) SearchMessages(ctx context.Context, serverId, query string) ([]models.Message, error) {
	if f.searchMessages != nil {
		return f.searchMessages(ctx, serverId, query)
	}
	return nil, nil
}

func (f *fakeAPI) CreateMessage(ctx context.Context, message models.Message) (models.Message, error) {
	if f.createMessage != nil {
		return f.createMessage(ctx, message)
	}
	return message, nil
}

func (f *fakeAPI) EditMessage(ctx context.Context, channelId, messageId, content string) error {
	return nil
}
func (f *fakeAPI) DeleteMessage(ctx context.Context, channelId, messageId string) error { return nil }
func (f *fakeAPI) AddReaction(ctx context.Context, channelId, messageId, emoji string) error {
	return nil
}
func (f *fakeAPI) RemoveReaction(ctx context.Context, channelId, messageId, emoji string) error {
	return nil
}
func (f *fakeAPI) PinMessage(ctx context.Context, channelId, messageId string) error   { return nil }
func (f *fakeAPI) UnpinMessage(ctx context.Context, channelId, messageId string) error { return nil }

func (f *fakeAPI) CreateDirectMessage(ctx context.Context, userId string) (models.Channel, error) {
	if f.createDirectMessage != nil {
		return f.createDirectMessage(ctx, userId)
	}
	return models.Channel{}, nil
}
func (f *fakeAPI) CloseDirectMessage(ctx context.Context, channelId string) error { return nil }
func (f *fakeAPI) CreateThread(ctx context.Context, channelId, messageId, name string) (models.Channel, error) {
	if f.createThread != nil {
		return f.createThread(ctx, channelId, messageId, name)
	}
	return models.Channel{}, nil
}

func (f *fakeAPI) JoinVoice(ctx context.Context, channelId string) (models.VoiceCredentials, error) {
	if f.joinVoice != nil {
		return f.joinVoice(ctx, channelId)
	}
	return models.VoiceCredentials{Token: "tok", Url: "ws://voice"}, nil
}

func (f *fakeAPI) LeaveVoice(ctx context.Context, channelId string) error {
	f.mu.Lock()
	f.leaveCalls = append(f.leaveCalls, channelId)
	f.mu.Unlock()
	if f.leaveVoice != nil {
		return f.leaveVoice(ctx, channelId)
	}
	return nil
}

func (f *fakeAPI) UpdateUserStatus(ctx context.Context, status string) error {
	if f.updateUserStatus != nil {
		return f.updateUserStatus(ctx, status)
	}
	return nil
}

// fakeEffects records side-effect decisions.
type fakeEffects struct {
	mu       sync.Mutex
	messages []effectMessage
	joins    int
	leaves   int
}

type effectMessage struct {
	message   models.Message
	serverId  string
	mentioned bool
}

func (f *fakeEffects) MessageReceived(message models.Message, serverId string, mentioned bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, effectMessage{message, serverId, mentioned})
}

func (f *fakeEffects) VoiceJoined() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.joins++
}

func (f *fakeEffects) VoiceLeft() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.leaves++
}

func (f *fakeEffects) received() []effectMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]effectMessage(nil), f.messages...)
}

type fakeSession struct {
	mu           sync.Mutex
	disconnected int
}

func (f *fakeSession) Disconnect() {
	f.mu.Lock()
	f.disconnected++
	f.mu.Unlock()
}

type fakeRTC struct {
	mu       sync.Mutex
	sessions []*fakeSession
	urls     []string
}

func (f *fakeRTC) Connect(url, token string) (rtc.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session := &fakeSession{}
	f.sessions = append(f.sessions, session)
	f.urls = append(f.urls, url)
	return session, nil
}

type testStore struct {
	*Store
	api     *fakeAPI
	effects *fakeEffects
	rtc     *fakeRTC
}

func newTestStore(t *testing.T) *testStore {
	t.Helper()
	remote := &fakeAPI{}
	effects := &fakeEffects{}
	voice := &fakeRTC{}
	s := New(Config{
		API:     remote,
		RTC:     voice,
		Effects: effects,
		Logger:  zap.NewNop(),
	})
	s.Apply(models.EventReady, mustJSON(t, models.ReadyPayload{
		User: models.User{ID: "u_me", Username: "me", Status: models.StatusOnline},
	}))
	return &testStore{Store: s, api: remote, effects: effects, rtc: voice}
}

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return data
}

// seedChannel makes a channel known and its message list resident.
func (s *testStore) seedChannel(t *testing.T, channelId, serverId string, messages ...models.Message) {
	t.Helper()
	s.Apply(models.EventCreateChannel, mustJSON(t, models.Channel{
		ID:       channelId,
		ServerId: serverId,
		Name:     channelId,
		Type:     "textual",
	}))
	s.mu.Lock()
	s.cache.put(channelId, messages)
	s.mu.Unlock()
}
