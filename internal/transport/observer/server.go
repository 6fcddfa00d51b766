package observer

import (
	"encoding/json"
	"log"
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"seedworld/internal/protocol"
)

// Hub fans completed frames out to attached observers. The simulation loop
// calls Broadcast after each tick; observer connections never touch the
// world directly.
type Hub struct {
	mu       sync.Mutex
	sessions map[uint64]chan []byte

	tick   atomic.Uint64
	latest atomic.Pointer[[]byte]
}

func NewHub() *Hub {
	return &Hub{sessions: make(map[uint64]chan []byte)}
}

// Broadcast publishes one marshaled frame. Slow observers are skipped, not
// waited on; they pick up again with a later frame.
func (h *Hub) Broadcast(tick uint64, frame []byte) {
	h.tick.Store(tick)
	h.latest.Store(&frame)

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, out := range h.sessions {
		select {
		case out <- frame:
		default:
		}
	}
}

// CurrentTick reports the tick of the most recently broadcast frame.
func (h *Hub) CurrentTick() uint64 { return h.tick.Load() }

func (h *Hub) attach(id uint64) chan []byte {
	out := make(chan []byte, 8)
	h.mu.Lock()
	h.sessions[id] = out
	h.mu.Unlock()

	// New observers get the latest frame immediately instead of waiting
	// for the next tick.
	if p := h.latest.Load(); p != nil {
		out <- *p
	}
	return out
}

func (h *Hub) detach(id uint64) {
	h.mu.Lock()
	delete(h.sessions, id)
	h.mu.Unlock()
}

// Server upgrades observer connections and streams frames from the hub. The
// stream is read-only: observers cannot mutate the simulation.
type Server struct {
	hub  *Hub
	log  *log.Logger
	head protocol.HelloMsg

	upgrader websocket.Upgrader
	nextID   atomic.Uint64
}

// NewServer builds an observer endpoint. head carries the static world
// parameters announced on attach; its Tick field is overwritten with the
// hub's current tick per connection.
func NewServer(hub *Hub, head protocol.HelloMsg, logger *log.Logger) *Server {
	head.Type = protocol.TypeHello
	head.ProtocolVersion = protocol.Version
	return &Server{
		hub:  hub,
		log:  logger,
		head: head,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

func (s *Server) WSHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}

		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		hello := s.head
		hello.Tick = s.hub.CurrentTick()
		_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteJSON(hello); err != nil {
			return
		}

		sid := s.nextID.Add(1)
		out := s.hub.attach(sid)
		defer s.hub.detach(sid)

		done := make(chan struct{})

		// Writer goroutine: one frame per message.
		writeErr := make(chan error, 1)
		go func() {
			for {
				select {
				case <-done:
					writeErr <- nil
					return
				case b := <-out:
					_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						writeErr <- err
						return
					}
				}
			}
		}()

		// Reader loop exists only to notice the peer going away. Any
		// payload an observer sends is a protocol violation.
		violated := false
		for {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				break
			}
			if len(msg) > 0 {
				violated = true
				break
			}
		}

		// Stop the writer before touching the connection from this
		// goroutine; gorilla allows only one concurrent writer.
		close(done)
		select {
		case <-writeErr:
		case <-time.After(500 * time.Millisecond):
		}

		if violated {
			s.log.Printf("observer %d sent a payload on the read-only stream; closing", sid)
			s.rejectWrite(conn)
			return
		}
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"), time.Now().Add(time.Second))
	}
}

func (s *Server) rejectWrite(conn *websocket.Conn) {
	msg := protocol.ErrorMsg{
		Type:            protocol.TypeError,
		ProtocolVersion: protocol.Version,
		Code:            protocol.ErrProtoBadRequest,
		Message:         "observer stream is read-only",
	}
	b, err := json.Marshal(msg)
	if err != nil {
		return
	}
	_ = conn.SetWriteDeadline(time.Now().Add(time.Second))
	_ = conn.WriteMessage(websocket.TextMessage, b)
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "read-only"), time.Now().Add(time.Second))
}

func isLoopbackRemote(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
