package net

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"PaintBoard/internal/document"
	"PaintBoard/internal/state"
)

const (
	sendQueue    = 256
	writeTimeout = 5 * time.Second
)

// viewer is one connected websocket client. Only its writer goroutine
// touches conn for writing.
type viewer struct {
	id   string
	conn *websocket.Conn
	send chan Message
}

// Hub mirrors the board to websocket viewers. It is a Controller surface:
// every segment and reset lands on its replica document and is broadcast.
// New viewers receive a snapshot of the replica first.
type Hub struct {
	mu      sync.Mutex
	replica *document.Document
	lastSeq uint64
	viewers map[string]*viewer

	upgrader websocket.Upgrader
}

var _ state.Surface = (*Hub)(nil)

func NewHub() *Hub {
	return &Hub{
		viewers: make(map[string]*viewer),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// DrawSegment implements state.Surface.
func (h *Hub) DrawSegment(seg state.Segment) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.replica != nil {
		h.replica.DrawSegment(seg.From, seg.To, seg.Color, seg.Width)
	}
	h.lastSeq = seg.Seq
	h.broadcastLocked(Message{Type: MsgSegment, Segment: &seg})
}

// Reset implements state.Surface.
func (h *Hub) Reset(backdrop image.Image) {
	doc, err := document.FromImage(backdrop)
	if err != nil {
		log.Printf("[HUB] Reset ignored: %v", err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.replica = doc
	if len(h.viewers) == 0 {
		return
	}
	msg, err := snapshotMessage(doc, h.lastSeq)
	if err != nil {
		log.Printf("[HUB] %v", err)
		return
	}
	h.broadcastLocked(msg)
}

// Viewers returns the number of connected viewers.
func (h *Hub) Viewers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.viewers)
}

// ServeHTTP upgrades the request and streams the board until the viewer
// disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[HUB] Upgrade from %s failed: %v", r.RemoteAddr, err)
		return
	}
	v := &viewer{id: uuid.NewString(), conn: conn, send: make(chan Message, sendQueue)}

	h.mu.Lock()
	if h.replica != nil {
		msg, err := snapshotMessage(h.replica, h.lastSeq)
		if err != nil {
			h.mu.Unlock()
			log.Printf("[HUB] %v", err)
			conn.Close()
			return
		}
		v.send <- msg
	}
	h.viewers[v.id] = v
	h.mu.Unlock()
	log.Printf("[HUB] Viewer %s connected from %s", v.id, r.RemoteAddr)

	go v.writeLoop()
	h.readLoop(v)
}

// Serve listens on addr until ctx is cancelled.
func (h *Hub) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle(BoardPath, h)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
		h.Close()
	}()

	log.Printf("[HUB] Sharing board on %s%s", addr, BoardPath)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve %s: %w", addr, err)
	}
	return nil
}

// Close disconnects every viewer.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, v := range h.viewers {
		h.removeLocked(v)
	}
}

func (h *Hub) broadcastLocked(msg Message) {
	for _, v := range h.viewers {
		select {
		case v.send <- msg:
		default:
			log.Printf("[HUB] Viewer %s is too slow, dropping it", v.id)
			h.removeLocked(v)
		}
	}
}

func (h *Hub) remove(v *viewer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(v)
}

func (h *Hub) removeLocked(v *viewer) {
	if _, ok := h.viewers[v.id]; !ok {
		return
	}
	delete(h.viewers, v.id)
	close(v.send)
	log.Printf("[HUB] Viewer %s disconnected", v.id)
}

// readLoop drains control frames; viewers never send board data.
func (h *Hub) readLoop(v *viewer) {
	defer h.remove(v)
	for {
		if _, _, err := v.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (v *viewer) writeLoop() {
	defer v.conn.Close()
	for msg := range v.send {
		v.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := v.conn.WriteJSON(msg); err != nil {
			log.Printf("[HUB] Write to %s failed: %v", v.id, err)
			return
		}
	}
	v.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	v.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
