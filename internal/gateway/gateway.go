package gateway

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"gofront/internal/models"

	"github.com/goccy/go-json"
	"github.com/lxzan/gws"
	"go.uber.org/zap"
)

const (
	PingInterval = 5 * time.Second
	PingWait     = 30 * time.Minute
)

// Dispatcher consumes decoded envelopes, one at a time, in delivery
// order. The store implements it.
type Dispatcher interface {
	Apply(eventType string, content json.RawMessage)
}

// Gateway is the persistent duplex connection to the chat service. It
// decodes dispatch envelopes and feeds them to the Dispatcher strictly
// sequentially; it also carries the local user's presence choice
// outbound.
type Gateway struct {
	addr       string
	token      string
	dispatcher Dispatcher
	log        *zap.Logger

	mu     sync.Mutex
	conn   *gws.Conn
	closed atomic.Bool
}

func New(addr, token string, dispatcher Dispatcher, logger *zap.Logger) *Gateway {
	return &Gateway{
		addr:       addr,
		token:      token,
		dispatcher: dispatcher,
		log:        logger,
	}
}

// Connect dials the gateway and starts the read loop. The ready
// snapshot and all subsequent events arrive through OnMessage.
func (g *Gateway) Connect() error {
	header := http.Header{}
	if g.token != "" {
		header.Set("Authorization", "Bearer "+g.token)
	}

	conn, _, err := gws.NewClient(g, &gws.ClientOption{
		Addr:              g.addr,
		RequestHeader:     header,
		PermessageDeflate: gws.PermessageDeflate{Enabled: true},
	})
	if err != nil {
		return err
	}

	g.mu.Lock()
	g.conn = conn
	g.mu.Unlock()

	go conn.ReadLoop()
	return nil
}

// Close tears the connection down for good; no reconnect follows.
func (g *Gateway) Close() {
	g.closed.Store(true)
	g.mu.Lock()
	conn := g.conn
	g.mu.Unlock()
	if conn != nil {
		conn.WriteClose(1000, nil)
	}
}

// PushPresence sends the local user's status choice out through the
// connection's presence channel.
func (g *Gateway) PushPresence(userId, status string) error {
	content, err := json.Marshal(models.PresenceEvent{UserId: userId, Status: status})
	if err != nil {
		return err
	}
	data, err := json.Marshal(models.WSMessage{Type: models.EventPresence, Content: content})
	if err != nil {
		return err
	}

	g.mu.Lock()
	conn := g.conn
	g.mu.Unlock()
	if conn == nil {
		return gws.ErrConnClosed
	}
	return conn.WriteMessage(gws.OpcodeText, data)
}

func (g *Gateway) OnOpen(socket *gws.Conn) {
	_ = socket.SetDeadline(time.Now().Add(PingInterval + PingWait))

	go func() {
		ticker := time.NewTicker(PingInterval)
		defer ticker.Stop()
		for range ticker.C {
			if g.closed.Load() {
				return
			}
			if err := socket.WriteString("ping"); err != nil {
				return
			}
		}
	}()
}

func (g *Gateway) OnClose(socket *gws.Conn, err error) {
	if g.closed.Load() {
		return
	}
	g.log.Warn("gateway connection lost, reconnecting", zap.Error(err))

	// Reconnect with backoff and re-identify; the server replays a fresh
	// ready snapshot, so the replica simply resumes receiving events.
	go func() {
		backoff := time.Second
		for !g.closed.Load() {
			time.Sleep(backoff)
			if err := g.Connect(); err == nil {
				return
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
		}
	}()
}

func (g *Gateway) OnPing(socket *gws.Conn, payload []byte) {
	_ = socket.SetDeadline(time.Now().Add(PingInterval + PingWait))
	_ = socket.WritePong(nil)
}

func (g *Gateway) OnPong(socket *gws.Conn, payload []byte) {}

func (g *Gateway) OnMessage(socket *gws.Conn, message *gws.Message) {
	defer message.Close()

	data := message.Bytes()
	if len(data) == 4 && string(data) == "pong" {
		_ = socket.SetDeadline(time.Now().Add(PingInterval + PingWait))
		return
	}

	var envelope models.WSMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		g.log.Warn("dropping malformed envelope", zap.Error(err))
		return
	}

	g.dispatcher.Apply(envelope.Type, envelope.Content)
}
