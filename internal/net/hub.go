package net

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"DrawingApp/internal/export"
	"DrawingApp/internal/state"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	sendBuffer     = 256
	writeWait      = 10 * time.Second
	maxMessageSize = 8 << 20
)

// Client is one connected feed viewer.
type Client struct {
	ID   string
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *Client) close() {
	c.once.Do(func() { close(c.send) })
}

// Hub relays plane events to every connected client and applies the
// commands clients send back. It implements state.Observer.
type Hub struct {
	plane    *state.Plane
	clock    state.Clock
	upgrader websocket.Upgrader

	clients map[string]*Client
	mu      sync.RWMutex
}

func NewHub(plane *state.Plane) *Hub {
	return &Hub{
		plane:   plane,
		clients: make(map[string]*Client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

var _ state.Observer = (*Hub)(nil)

func (h *Hub) Add(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.ID] = c
	log.Printf("[FEED] client %s connected from %s", c.ID, c.conn.RemoteAddr())
}

func (h *Hub) Remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c.ID] != c {
		return
	}
	delete(h.clients, c.ID)
	c.close()
	log.Printf("[FEED] client %s removed", c.ID)
}

// Len reports the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		delete(h.clients, id)
		c.close()
	}
}

// Broadcast queues data for every client. Clients whose queue is full are
// dropped.
func (h *Hub) Broadcast(data []byte) {
	var slow []*Client
	h.mu.RLock()
	for _, c := range h.clients {
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		log.Printf("[FEED] client %s too slow, dropping", c.ID)
		h.Remove(c)
	}
}

// sendTo queues data for c if it is still connected.
func (h *Hub) sendTo(c *Client, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.clients[c.ID] != c {
		return
	}
	select {
	case c.send <- data:
	default:
		log.Printf("[FEED] client %s queue full, reply lost", c.ID)
	}
}

func (h *Hub) encode(t MessageType, data any) []byte {
	b, err := json.Marshal(Message{
		Type:    t,
		Seq:     h.clock.Tick(),
		Session: h.plane.Session(),
		Data:    data,
	})
	if err != nil {
		log.Printf("[FEED] failed to marshal %s: %v", t, err)
		return nil
	}
	return b
}

func (h *Hub) publish(t MessageType, data any) {
	if b := h.encode(t, data); b != nil {
		h.Broadcast(b)
	}
}

func (h *Hub) reply(c *Client, t MessageType, data any) {
	if b := h.encode(t, data); b != nil {
		h.sendTo(c, b)
	}
}

func (h *Hub) replyError(c *Client, format string, args ...any) {
	h.reply(c, MessageError, ErrorPayload{Message: fmt.Sprintf(format, args...)})
}

func (h *Hub) OnShapeAdded(s state.Shape) {
	h.publish(MessageShapeAdded, NewShapePayload(s))
}

func (h *Hub) OnSelectionChanged(previous, current string) {
	h.publish(MessageSelectionChanged, SelectionPayload{Previous: previous, Current: current})
}

func (h *Hub) OnColorChanged(r *state.Rectangle) {
	h.publish(MessageColorChanged, NewShapePayload(r))
}

func (h *Hub) OnAlphaChanged(s state.Shape) {
	h.publish(MessageAlphaChanged, NewShapePayload(s))
}

// join queues the snapshot for c and registers it while the plane holds its
// events back, so the snapshot is the first frame c sees and no broadcast
// repeats a shape the snapshot already holds.
func (h *Hub) join(c *Client) {
	h.plane.WithSnapshot(func(snap state.Snapshot) {
		if b := h.encode(MessageSnapshot, NewSnapshotPayload(snap)); b != nil {
			c.send <- b
		}
		h.Add(c)
	})
}

// ServeWS upgrades the request and serves one feed client until it leaves.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[FEED] upgrade failed: %v", err)
		return
	}
	c := &Client{
		ID:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
	h.join(c)
	go h.writeLoop(c)
	h.readLoop(c)
}

func (h *Hub) writeLoop(c *Client) {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			log.Printf("[FEED] write deadline for %s: %v", c.ID, err)
			return
		}
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Printf("[FEED] write to %s failed: %v", c.ID, err)
			return
		}
	}
	closing := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := c.conn.WriteMessage(websocket.CloseMessage, closing); err != nil {
		log.Printf("[FEED] close frame to %s: %v", c.ID, err)
	}
}

func (h *Hub) readLoop(c *Client) {
	defer h.Remove(c)
	c.conn.SetReadLimit(maxMessageSize)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[FEED] client %s read error: %v", c.ID, err)
			}
			return
		}
		h.handle(c, data)
	}
}

// handle applies one client command to the plane. The resulting events reach
// every client, the sender included, through the observer callbacks.
func (h *Hub) handle(c *Client, data []byte) {
	msg, err := parseMessage(data)
	if err != nil {
		h.replyError(c, "invalid JSON: %v", err)
		return
	}

	switch msg.Type {
	case MessagePing:
		h.reply(c, MessagePong, nil)
	case CommandAddRectangle:
		h.plane.AddRectangle()
	case CommandAddPhoto:
		var p PhotoPayload
		if err := decodeData(msg, &p); err != nil {
			h.replyError(c, "add_photo: %v", err)
			return
		}
		if len(p.Image) == 0 {
			h.replyError(c, "add_photo: image is required")
			return
		}
		h.plane.AddPhoto(p.Image)
	case CommandSelectAt:
		var p PointPayload
		if err := decodeData(msg, &p); err != nil {
			h.replyError(c, "select_at: %v", err)
			return
		}
		// A tap on empty canvas clears the selection.
		if !h.plane.SelectAt(state.Point{X: p.X, Y: p.Y}) {
			h.plane.Deselect()
		}
	case CommandDeselect:
		h.plane.Deselect()
	case CommandChangeColor:
		h.plane.ChangeSelectedColor()
	case CommandAlphaUp:
		h.plane.IncreaseSelectedAlpha()
	case CommandAlphaDown:
		h.plane.DecreaseSelectedAlpha()
	default:
		h.replyError(c, "unknown message type %q", msg.Type)
	}
}

var errNoData = errors.New("data is required")

func decodeData(msg *rawMessage, v any) error {
	if len(msg.Data) == 0 {
		return errNoData
	}
	return json.Unmarshal(msg.Data, v)
}

// ServeExport writes a PDF snapshot of the plane.
func (h *Hub) ServeExport(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := export.WritePDF(&buf, h.plane.Shapes()); err != nil {
		log.Printf("[FEED] export failed: %v", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="drawing.pdf"`)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("[FEED] export write failed: %v", err)
	}
}

// Handler routes the feed and export endpoints.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /feed", h.ServeWS)
	mux.HandleFunc("GET /export.pdf", h.ServeExport)
	return mux
}
