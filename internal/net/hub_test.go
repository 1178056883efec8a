package net

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"DrawingApp/internal/state"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFeed(t *testing.T) (*state.Plane, *Hub, *httptest.Server) {
	t.Helper()
	plane := state.NewPlane(state.NewFactory(state.NewRandom(21), state.DefaultBounds()), 0)
	hub := NewHub(plane)
	plane.Subscribe(hub)
	srv := httptest.NewServer(hub.Handler())
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return plane, hub, srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/feed"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) rawMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg rawMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func send(t *testing.T, conn *websocket.Conn, msg Message) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(msg))
}

func TestFeedSendsSnapshotFirst(t *testing.T) {
	plane, _, srv := newTestFeed(t)
	r := plane.AddRectangle()
	plane.SelectAt(r.Point())

	conn := dial(t, srv)
	msg := read(t, conn)

	require.Equal(t, MessageSnapshot, msg.Type)
	assert.Equal(t, plane.Session(), msg.Session)
	var snap SnapshotPayload
	require.NoError(t, json.Unmarshal(msg.Data, &snap))
	require.Len(t, snap.Shapes, 1)
	assert.Equal(t, r.ID(), snap.Shapes[0].ID)
	assert.Equal(t, state.KindRectangle, snap.Shapes[0].Kind)
	require.NotNil(t, snap.Shapes[0].Color)
	assert.Equal(t, r.Color(), *snap.Shapes[0].Color)
	assert.Equal(t, r.ID(), snap.Selected)
}

func TestFeedCommandsDriveThePlane(t *testing.T) {
	plane, _, srv := newTestFeed(t)
	conn := dial(t, srv)
	read(t, conn) // snapshot

	send(t, conn, Message{Type: CommandAddRectangle})
	added := read(t, conn)
	require.Equal(t, MessageShapeAdded, added.Type)
	var shape ShapePayload
	require.NoError(t, json.Unmarshal(added.Data, &shape))
	assert.Equal(t, 1, plane.Len())
	assert.Equal(t, 1.0, shape.Alpha)

	send(t, conn, Message{Type: CommandSelectAt, Data: PointPayload{X: shape.X + 1, Y: shape.Y + 1}})
	sel := read(t, conn)
	require.Equal(t, MessageSelectionChanged, sel.Type)
	var change SelectionPayload
	require.NoError(t, json.Unmarshal(sel.Data, &change))
	assert.Equal(t, SelectionPayload{Previous: "", Current: shape.ID}, change)

	send(t, conn, Message{Type: CommandAlphaDown})
	alpha := read(t, conn)
	require.Equal(t, MessageAlphaChanged, alpha.Type)
	require.NoError(t, json.Unmarshal(alpha.Data, &shape))
	assert.Equal(t, 0.9, shape.Alpha)

	send(t, conn, Message{Type: CommandChangeColor})
	assert.Equal(t, MessageColorChanged, read(t, conn).Type)

	// Tapping empty canvas clears the selection.
	send(t, conn, Message{Type: CommandSelectAt, Data: PointPayload{X: -50, Y: -50}})
	cleared := read(t, conn)
	require.Equal(t, MessageSelectionChanged, cleared.Type)
	require.NoError(t, json.Unmarshal(cleared.Data, &change))
	assert.Equal(t, "", change.Current)
	_, ok := plane.Selected()
	assert.False(t, ok)
}

func TestFeedAddPhoto(t *testing.T) {
	plane, _, srv := newTestFeed(t)
	conn := dial(t, srv)
	read(t, conn)

	send(t, conn, Message{Type: CommandAddPhoto, Data: PhotoPayload{Image: []byte{1, 2, 3}}})
	msg := read(t, conn)
	require.Equal(t, MessageShapeAdded, msg.Type)
	var shape ShapePayload
	require.NoError(t, json.Unmarshal(msg.Data, &shape))
	assert.Equal(t, state.KindPhoto, shape.Kind)
	assert.Equal(t, []byte{1, 2, 3}, shape.Image)
	assert.Nil(t, shape.Color)
	assert.Equal(t, 1, plane.Len())
}

func TestFeedBroadcastsToEveryClient(t *testing.T) {
	plane, hub, srv := newTestFeed(t)
	a, b := dial(t, srv), dial(t, srv)
	read(t, a)
	read(t, b)
	require.Eventually(t, func() bool { return hub.Len() == 2 }, time.Second, 10*time.Millisecond)

	plane.AddRectangle()

	assert.Equal(t, MessageShapeAdded, read(t, a).Type)
	assert.Equal(t, MessageShapeAdded, read(t, b).Type)
}

func TestFeedRejectsBadInput(t *testing.T) {
	plane, _, srv := newTestFeed(t)
	conn := dial(t, srv)
	read(t, conn)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	assert.Equal(t, MessageError, read(t, conn).Type)

	send(t, conn, Message{Type: "teleport"})
	assert.Equal(t, MessageError, read(t, conn).Type)

	send(t, conn, Message{Type: CommandAddPhoto})
	assert.Equal(t, MessageError, read(t, conn).Type)

	send(t, conn, Message{Type: CommandSelectAt})
	assert.Equal(t, MessageError, read(t, conn).Type)

	// Connection still usable.
	send(t, conn, Message{Type: MessagePing})
	assert.Equal(t, MessagePong, read(t, conn).Type)
	assert.Zero(t, plane.Len())
}

func TestFeedSeqIncreases(t *testing.T) {
	plane, _, srv := newTestFeed(t)
	conn := dial(t, srv)
	first := read(t, conn)

	plane.AddRectangle()
	plane.AddRectangle()

	second := read(t, conn)
	third := read(t, conn)
	assert.Less(t, first.Seq, second.Seq)
	assert.Less(t, second.Seq, third.Seq)
}

func TestServeExport(t *testing.T) {
	plane, _, srv := newTestFeed(t)
	plane.AddRectangle()

	resp, err := http.Get(srv.URL + "/export.pdf")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), "%PDF-"))
}

func TestNewShapePayload(t *testing.T) {
	photo := state.NewPhoto("abc-def-ghi", []byte("x"), state.Point{X: 3, Y: 4}, state.Size{Width: 10, Height: 20})
	p := NewShapePayload(photo)
	assert.Equal(t, ShapePayload{
		ID: "abc-def-ghi", Kind: state.KindPhoto, X: 3, Y: 4, Width: 10, Height: 20, Alpha: 1, Image: []byte("x"),
	}, p)
}

func TestFeedSnapshotFirstWhilePlaneChanges(t *testing.T) {
	plane, _, srv := newTestFeed(t)

	const adds = 200
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < adds; i++ {
			plane.AddRectangle()
			time.Sleep(200 * time.Microsecond)
		}
	}()

	type viewer struct {
		conn  *websocket.Conn
		known map[string]bool
	}
	var viewers []viewer
	for i := 0; i < 20; i++ {
		conn := dial(t, srv)
		msg := read(t, conn)
		require.Equal(t, MessageSnapshot, msg.Type, "client %d", i)

		var snap SnapshotPayload
		require.NoError(t, json.Unmarshal(msg.Data, &snap))
		known := make(map[string]bool)
		for _, s := range snap.Shapes {
			known[s.ID] = true
		}
		viewers = append(viewers, viewer{conn: conn, known: known})
	}
	<-done

	for i, v := range viewers {
		for len(v.known) < adds {
			msg := read(t, v.conn)
			require.Equal(t, MessageShapeAdded, msg.Type)
			var s ShapePayload
			require.NoError(t, json.Unmarshal(msg.Data, &s))
			require.False(t, v.known[s.ID], "client %d got %s twice", i, s.ID)
			v.known[s.ID] = true
		}
	}
}
