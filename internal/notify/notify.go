package notify

import (
	"fmt"
	"sync"
	"time"

	"gofront/internal/models"

	"github.com/bep/debounce"
	"go.uber.org/zap"
)

const (
	SoundMention    = "mention"
	SoundMessage    = "message"
	SoundVoiceJoin  = "voice_join"
	SoundVoiceLeave = "voice_leave"
)

// DefaultBatchWindow is how long incoming notifications are coalesced
// before a system notification is raised.
const DefaultBatchWindow = 2 * time.Second

// Sink receives the concrete side effects. The platform layer (or a
// test) implements it; the policy here never touches audio or OS
// notification APIs itself.
type Sink interface {
	PlaySound(name string)
	Notify(title, body string)
}

// Notifier decides, per observed message, whether a sound plays and
// whether a batched system notification is raised. Decisions never
// block the dispatch path: the batched notification fires from the
// debounce timer.
type Notifier struct {
	mu   sync.Mutex
	sink Sink
	log  *zap.Logger

	debounced func(func())
	pending   []string // channel ids of coalesced messages

	focused   bool
	enabled   bool
	permitted bool
}

func New(sink Sink, window time.Duration, logger *zap.Logger) *Notifier {
	if window <= 0 {
		window = DefaultBatchWindow
	}
	return &Notifier{
		sink:      sink,
		log:       logger,
		debounced: debounce.New(window),
	}
}

func (n *Notifier) SetFocused(focused bool) {
	n.mu.Lock()
	n.focused = focused
	n.mu.Unlock()
}

func (n *Notifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	n.enabled = enabled
	n.mu.Unlock()
}

func (n *Notifier) SetPermitted(permitted bool) {
	n.mu.Lock()
	n.permitted = permitted
	n.mu.Unlock()
}

// MessageReceived handles a message authored by someone other than the
// local user. serverId is empty for direct/group channels.
func (n *Notifier) MessageReceived(message models.Message, serverId string, mentioned bool) {
	if mentioned {
		n.sink.PlaySound(SoundMention)
	} else if serverId == "" {
		n.sink.PlaySound(SoundMessage)
	}

	n.mu.Lock()
	if n.focused || !n.enabled || !n.permitted {
		n.mu.Unlock()
		return
	}
	n.pending = append(n.pending, message.ChannelId)
	n.mu.Unlock()

	n.debounced(n.flush)
}

func (n *Notifier) VoiceJoined() {
	n.sink.PlaySound(SoundVoiceJoin)
}

func (n *Notifier) VoiceLeft() {
	n.sink.PlaySound(SoundVoiceLeave)
}

// flush raises one summary notification for everything coalesced during
// the batch window.
func (n *Notifier) flush() {
	n.mu.Lock()
	pending := n.pending
	n.pending = nil
	n.mu.Unlock()

	if len(pending) == 0 {
		return
	}

	channels := make(map[string]bool)
	for _, channelId := range pending {
		channels[channelId] = true
	}

	var body string
	switch {
	case len(pending) == 1:
		body = "1 new message"
	case len(channels) == 1:
		body = fmt.Sprintf("%d new messages", len(pending))
	default:
		body = fmt.Sprintf("%d messages across %d conversations", len(pending), len(channels))
	}

	n.log.Debug("raising batched notification", zap.Int("messages", len(pending)), zap.Int("channels", len(channels)))
	n.sink.Notify("New messages", body)
}
