package calendar

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/websocket/v2"

	"roomdesk/internal/auth"
	"roomdesk/pkg/logger"
)

// Conn is the write side of a browser websocket.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

const (
	MessageSnapshot       = "snapshot"
	MessageSessionExpired = "session_expired"
)

type Message struct {
	Type      string    `json:"type"`
	SessionID string    `json:"-"`
	Snapshot  *Snapshot `json:"snapshot,omitempty"`
}

type Subscriber struct {
	SessionID string
	Conn      Conn
}

// Source builds the fetcher used to poll one session's calendar.
type Source func(ctx context.Context, sessionID string) (Fetcher, error)

// Hub owns the websocket subscribers. The first subscriber of a session
// starts its poller and the last one leaving stops it.
type Hub struct {
	clients    map[string]map[Conn]bool
	pollers    map[string]context.CancelFunc
	register   chan *Subscriber
	unregister chan *Subscriber
	broadcast  chan *Message
	done       chan struct{}
	source     Source
	interval   time.Duration
	log        *logger.Logger
}

func NewHub(source Source, interval time.Duration, log *logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[Conn]bool),
		pollers:    make(map[string]context.CancelFunc),
		register:   make(chan *Subscriber),
		unregister: make(chan *Subscriber),
		broadcast:  make(chan *Message, 16),
		done:       make(chan struct{}),
		source:     source,
		interval:   interval,
		log:        log,
	}
}

func (h *Hub) Register(s *Subscriber) {
	select {
	case h.register <- s:
	case <-h.done:
	}
}

func (h *Hub) Unregister(s *Subscriber) {
	select {
	case h.unregister <- s:
	case <-h.done:
	}
}

// Broadcast returns the channel for pushing messages to a session's
// subscribers.
func (h *Hub) Broadcast() chan<- *Message {
	return h.broadcast
}

// Run serves the hub until ctx is done, then closes every connection.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for id, cancel := range h.pollers {
				cancel()
				delete(h.pollers, id)
			}
			for id, conns := range h.clients {
				for conn := range conns {
					conn.Close()
				}
				delete(h.clients, id)
			}
			return

		case s := <-h.register:
			conns, ok := h.clients[s.SessionID]
			if !ok {
				conns = make(map[Conn]bool)
				h.clients[s.SessionID] = conns
			}
			conns[s.Conn] = true
			if _, running := h.pollers[s.SessionID]; !running {
				h.startPoller(ctx, s.SessionID)
			}
			h.log.Debug("calendar subscriber connected", "session_id", s.SessionID, "subscribers", len(conns))

		case s := <-h.unregister:
			h.drop(s.SessionID, s.Conn)

		case msg := <-h.broadcast:
			for conn := range h.clients[msg.SessionID] {
				if err := conn.WriteJSON(msg); err != nil {
					h.log.Warn("calendar push failed", "session_id", msg.SessionID, "error", err)
					conn.Close()
					h.drop(msg.SessionID, conn)
				}
			}
			if msg.Type == MessageSessionExpired {
				for conn := range h.clients[msg.SessionID] {
					conn.Close()
				}
				delete(h.clients, msg.SessionID)
				h.stopPoller(msg.SessionID)
			}
		}
	}
}

// Done is closed once Run has returned.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

func (h *Hub) drop(sessionID string, conn Conn) {
	conns, ok := h.clients[sessionID]
	if !ok {
		return
	}
	delete(conns, conn)
	if len(conns) == 0 {
		delete(h.clients, sessionID)
		h.stopPoller(sessionID)
		h.log.Debug("calendar session idle", "session_id", sessionID)
	}
}

func (h *Hub) stopPoller(sessionID string) {
	if cancel, ok := h.pollers[sessionID]; ok {
		cancel()
		delete(h.pollers, sessionID)
	}
}

func (h *Hub) startPoller(ctx context.Context, sessionID string) {
	pollCtx, cancel := context.WithCancel(ctx)
	h.pollers[sessionID] = cancel

	go func() {
		api, err := h.source(pollCtx, sessionID)
		if err != nil {
			h.log.Warn("calendar source unavailable", "session_id", sessionID, "error", err)
			h.send(pollCtx, &Message{Type: MessageSessionExpired, SessionID: sessionID})
			return
		}

		poller := NewPoller(api, h.interval, h.log.With("session_id", sessionID))
		err = poller.Run(pollCtx, func(snap Snapshot) {
			h.send(pollCtx, &Message{Type: MessageSnapshot, SessionID: sessionID, Snapshot: &snap})
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			h.send(pollCtx, &Message{Type: MessageSessionExpired, SessionID: sessionID})
		}
	}()
}

func (h *Hub) send(ctx context.Context, msg *Message) {
	select {
	case h.broadcast <- msg:
	case <-ctx.Done():
	}
}

// Serve is the /ws/calendar handler. The route must run auth.RequireAuth
// before the upgrade so the session is present in the connection locals.
func (h *Hub) Serve(c *websocket.Conn) {
	session, _ := c.Locals(auth.SessionLocal).(*auth.Session)
	if session == nil {
		c.WriteJSON(Message{Type: MessageSessionExpired})
		c.Close()
		return
	}

	sub := &Subscriber{SessionID: session.ID, Conn: c}
	h.Register(sub)
	defer h.Unregister(sub)

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Warn("calendar websocket closed", "session_id", session.ID, "error", err)
			}
			return
		}
	}
}
