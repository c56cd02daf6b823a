package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/datb2404981/Chat-Nexa/internal/presence"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 20 // 1 MB
	sendBufferSize = 256
)

// Client is one transport-level connection. A user with several devices has
// several Clients sharing the same Identity.
type Client struct {
	ID          string
	Identity    presence.Identity
	Conn        *websocket.Conn
	Send        chan []byte
	ConnectedAt time.Time

	hub       *Hub
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	seenMu   sync.RWMutex
	lastSeen time.Time
}

func NewClient(identity presence.Identity, conn *websocket.Conn, hub *Hub) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	now := time.Now()
	return &Client{
		ID:          uuid.New().String(),
		Identity:    identity,
		Conn:        conn,
		Send:        make(chan []byte, sendBufferSize),
		ConnectedAt: now,
		hub:         hub,
		ctx:         ctx,
		cancel:      cancel,
		lastSeen:    now,
	}
}

func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}

func (c *Client) IsActive() bool {
	select {
	case <-c.ctx.Done():
		return false
	default:
		return true
	}
}

func (c *Client) GetLastSeen() time.Time {
	c.seenMu.RLock()
	defer c.seenMu.RUnlock()
	return c.lastSeen
}

func (c *Client) touch() {
	c.seenMu.Lock()
	c.lastSeen = time.Now()
	c.seenMu.Unlock()
}

// SendEvent queues an envelope for delivery. A full buffer means this client
// is not keeping up; the event is dropped and the connection closed rather
// than letting one slow consumer stall every broadcaster.
func (c *Client) SendEvent(event string, payload any) {
	data, err := json.Marshal(NewEnvelope(event, payload))
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("ws: failed to marshal event")
		return
	}
	c.sendRaw(data)
}

func (c *Client) sendRaw(data []byte) {
	select {
	case c.Send <- data:
	case <-c.ctx.Done():
	default:
		log.Warn().Str("clientID", c.ID).Str("userID", c.Identity.UserID).Msg("ws: slow consumer, dropping connection")
		go c.Close()
	}
}

// Close tears the connection down once; safe to call from any goroutine.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.cancel()
		if c.Conn != nil {
			_ = c.Conn.Close()
		}
	})
}

// writePump drains c.Send onto the socket and keeps the connection alive
// with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// readPump consumes inbound frames and dispatches the narrow client-driven
// protocol: join_room and the ephemeral typing relay.
func (c *Client) readPump() {
	defer func() {
		c.hub.Disconnect(c)
		c.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.touch()
		_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			break
		}
		c.touch()

		var in Inbound
		if err := json.Unmarshal(raw, &in); err != nil {
			log.Warn().Str("clientID", c.ID).Msg("ws: dropping malformed inbound frame")
			continue
		}

		switch in.Event {
		case EventJoinRoom:
			if in.Data == "" {
				continue
			}
			c.hub.Join(c, in.Data)
			c.SendEvent(EventJoinedRoom, "You joined room "+in.Data)

		case EventTyping:
			if in.Data == "" {
				continue
			}
			// No persistence, no guarantee. A dropped typing signal is fine.
			c.hub.BroadcastToRoomExcept(in.Data, c, EventOnTyping, TypingPayload{UserID: c.Identity.UserID})

		default:
			log.Debug().Str("event", in.Event).Str("clientID", c.ID).Msg("ws: unknown inbound event")
		}
	}
}
