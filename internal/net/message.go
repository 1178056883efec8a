package net

import (
	"encoding/json"

	"DrawingApp/internal/state"
)

type MessageType string

// Server to client.
const (
	MessageSnapshot         MessageType = "snapshot"
	MessageShapeAdded       MessageType = "shape_added"
	MessageSelectionChanged MessageType = "selection_changed"
	MessageColorChanged     MessageType = "color_changed"
	MessageAlphaChanged     MessageType = "alpha_changed"
	MessagePong             MessageType = "pong"
	MessageError            MessageType = "error"
)

// Client to server.
const (
	MessagePing         MessageType = "ping"
	CommandAddRectangle MessageType = "add_rectangle"
	CommandAddPhoto     MessageType = "add_photo"
	CommandSelectAt     MessageType = "select_at"
	CommandDeselect     MessageType = "deselect"
	CommandChangeColor  MessageType = "change_color"
	CommandAlphaUp      MessageType = "alpha_up"
	CommandAlphaDown    MessageType = "alpha_down"
)

// Message is the envelope of every frame on the feed.
type Message struct {
	Type    MessageType `json:"type"`
	Seq     uint64      `json:"seq,omitempty"`
	Session string      `json:"session,omitempty"`
	Data    any         `json:"data,omitempty"`
}

// rawMessage is Message with the payload left undecoded.
type rawMessage struct {
	Type    MessageType     `json:"type"`
	Seq     uint64          `json:"seq,omitempty"`
	Session string          `json:"session,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type ShapePayload struct {
	ID     string       `json:"id"`
	Kind   state.Kind   `json:"kind"`
	X      int          `json:"x"`
	Y      int          `json:"y"`
	Width  int          `json:"width"`
	Height int          `json:"height"`
	Alpha  float64      `json:"alpha"`
	Color  *state.Color `json:"color,omitempty"`
	Image  []byte       `json:"image,omitempty"`
}

func NewShapePayload(s state.Shape) ShapePayload {
	b := s.Bounds()
	p := ShapePayload{
		ID:     s.ID(),
		Kind:   s.Kind(),
		X:      b.Origin.X,
		Y:      b.Origin.Y,
		Width:  b.Size.Width,
		Height: b.Size.Height,
		Alpha:  s.Alpha(),
	}
	switch s := s.(type) {
	case *state.Rectangle:
		c := s.Color()
		p.Color = &c
	case *state.Photo:
		p.Image = s.ImageData()
	}
	return p
}

type SnapshotPayload struct {
	Shapes   []ShapePayload `json:"shapes"`
	Selected string         `json:"selected,omitempty"`
}

func NewSnapshotPayload(snap state.Snapshot) SnapshotPayload {
	out := SnapshotPayload{Shapes: make([]ShapePayload, 0, len(snap.Shapes)), Selected: snap.Selected}
	for _, s := range snap.Shapes {
		out.Shapes = append(out.Shapes, NewShapePayload(s))
	}
	return out
}

type SelectionPayload struct {
	Previous string `json:"previous"`
	Current  string `json:"current"`
}

type PointPayload struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type PhotoPayload struct {
	Image []byte `json:"image"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func parseMessage(data []byte) (*rawMessage, error) {
	var msg rawMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
