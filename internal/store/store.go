package store

import (
	"sync"
	"sync/atomic"
	"time"

	"gofront/internal/api"
	"gofront/internal/models"
	"gofront/internal/nav"
	"gofront/internal/rtc"

	"github.com/lxzan/event_emitter"
	"go.uber.org/zap"
)

// Effects receives the notification side effects the dispatch path
// decides on. Implemented by the notify package.
type Effects interface {
	MessageReceived(message models.Message, serverId string, mentioned bool)
	VoiceJoined()
	VoiceLeft()
}

// PresencePusher sends the local user's status choice out through the
// gateway connection. Implemented by the gateway package.
type PresencePusher interface {
	PushPresence(userId, status string) error
}

type Config struct {
	API            api.Service
	RTC            rtc.Service
	Effects        Effects
	Logger         *zap.Logger
	CacheCapacity  int
	BreadcrumbPath string
}

// Store is the local replica of the chat service's state. Every event
// handler and every user-initiated action mutates it through the
// methods here; mutations run one at a time under the write lock and
// readers always observe a complete snapshot, never a partial one.
type Store struct {
	mu      sync.RWMutex
	log     *zap.Logger
	api     api.Service
	rtc     rtc.Service
	effects Effects
	pusher  PresencePusher

	emitter *event_emitter.EventEmitter[*Subscriber]

	me            models.User
	users         map[string]models.User
	servers       map[string]models.Server
	channels      map[string]models.Channel
	threads       map[string][]string          // parent channel id -> thread channel ids
	roles         map[string]map[string]models.Role
	members       map[string]map[string]models.Member
	relationships map[string]models.Relationship
	presences     map[string]string
	readStates    map[string]models.ReadState
	notifPrefs    map[string]string
	bookmarks     map[string]bool
	searchResults []models.Message

	cache  messageCache
	typing map[string]map[string]*typingEntry

	voice        map[string][]models.VoiceState
	voiceChannel string
	selfMute     bool
	selfDeaf     bool
	session      rtc.Session

	mode           string
	activeServer   string
	activeChannel  string
	breadcrumbPath string

	typingTimeout time.Duration
}

func New(cfg Config) *Store {
	capacity := cfg.CacheCapacity
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Store{
		log:     logger,
		api:     cfg.API,
		rtc:     cfg.RTC,
		effects: cfg.Effects,
		emitter: event_emitter.New[*Subscriber](&event_emitter.Config{
			BucketNum:  16,
			BucketSize: 128,
		}),
		users:          make(map[string]models.User),
		servers:        make(map[string]models.Server),
		channels:       make(map[string]models.Channel),
		threads:        make(map[string][]string),
		roles:          make(map[string]map[string]models.Role),
		members:        make(map[string]map[string]models.Member),
		relationships:  make(map[string]models.Relationship),
		presences:      make(map[string]string),
		readStates:     make(map[string]models.ReadState),
		notifPrefs:     make(map[string]string),
		bookmarks:      make(map[string]bool),
		cache:          newMessageCache(capacity),
		typing:         make(map[string]map[string]*typingEntry),
		voice:          make(map[string][]models.VoiceState),
		breadcrumbPath: cfg.BreadcrumbPath,
		typingTimeout:  TypingTimeout,
	}
}

// SetPresencePusher wires the gateway in after construction; the
// gateway needs the store first (it dispatches into it).
func (s *Store) SetPresencePusher(pusher PresencePusher) {
	s.mu.Lock()
	s.pusher = pusher
	s.mu.Unlock()
}

const topicState = "state"

var subscriberSeq atomic.Int64

// Subscriber is a handle on the snapshot-changed feed.
type Subscriber struct {
	id   int64
	meta *metadata
}

func (s *Subscriber) GetSubscriberID() int64 {
	return s.id
}

func (s *Subscriber) GetMetadata() event_emitter.Metadata {
	return s.meta
}

type metadata struct {
	m sync.Map
}

func (m *metadata) Load(key string) (any, bool) { return m.m.Load(key) }
func (m *metadata) Store(key string, value any) { m.m.Store(key, value) }
func (m *metadata) Delete(key string)           { m.m.Delete(key) }
func (m *metadata) Range(f func(key string, value any) bool) {
	m.m.Range(func(key, value any) bool { return f(key.(string), value) })
}

// OnChange subscribes fn to run after every successful mutation.
func (s *Store) OnChange(fn func()) *Subscriber {
	sub := &Subscriber{id: subscriberSeq.Add(1), meta: &metadata{}}
	s.emitter.Subscribe(sub, topicState, func(subscriber *Subscriber, msg any) {
		fn()
	})
	return sub
}

func (s *Store) Unsubscribe(sub *Subscriber) {
	s.emitter.UnSubscribe(sub, topicState)
}

// publish announces a new snapshot. Never call it while holding the
// store lock: subscribers read the store from their callbacks.
func (s *Store) publish() {
	s.emitter.Publish(topicState, nil)
}

// RestoreNavigation reads the breadcrumb slot and re-applies the prior
// selection. Missing or corrupt slots are ignored.
func (s *Store) RestoreNavigation() {
	if s.breadcrumbPath == "" {
		return
	}
	crumb, ok := nav.Load(s.breadcrumbPath)
	if !ok {
		return
	}

	s.mu.Lock()
	s.mode = crumb.Mode
	s.activeServer = crumb.ServerId
	s.activeChannel = crumb.ChannelId
	s.mu.Unlock()
	s.publish()
}

// SetActive records the current selection and persists the breadcrumb.
func (s *Store) SetActive(mode, serverId, channelId string) {
	s.mu.Lock()
	s.mode = mode
	s.activeServer = serverId
	s.activeChannel = channelId
	if channelId != "" {
		s.cache.touch(channelId)
	}
	s.mu.Unlock()
	s.publish()

	if s.breadcrumbPath != "" {
		crumb := nav.Breadcrumb{Mode: mode, ServerId: serverId, ChannelId: channelId}
		if err := nav.Save(s.breadcrumbPath, crumb); err != nil {
			s.log.Warn("saving breadcrumb", zap.Error(err))
		}
	}
}
