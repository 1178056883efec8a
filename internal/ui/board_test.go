package ui

import (
	"image/color"
	"testing"

	"DrawingApp/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFillColor(t *testing.T) {
	c := state.Color{Red: 10, Green: 20, Blue: 30}
	assert.Equal(t, color.NRGBA{R: 10, G: 20, B: 30, A: 255}, fillColor(c, 1))
	assert.Equal(t, color.NRGBA{R: 10, G: 20, B: 30, A: 128}, fillColor(c, 0.5))
	assert.Equal(t, color.NRGBA{R: 10, G: 20, B: 30, A: 0}, fillColor(c, 0))
}

func TestToPointTruncates(t *testing.T) {
	assert.Equal(t, state.Point{X: 12, Y: 7}, toPoint(fyne.NewPos(12.9, 7.2)))
}

func TestBundledImage(t *testing.T) {
	data, err := BundledImage()
	assert.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestCanvasSeedsFromPlane(t *testing.T) {
	test.NewTempApp(t)
	plane := state.NewPlane(state.NewFactory(state.NewRandom(3), state.DefaultBounds()), 0)
	r := plane.AddRectangle()
	require.True(t, plane.SelectAt(r.Point()))
	plane.AddPhoto([]byte("not an image"))

	board := NewCanvasWidget(plane, state.DefaultBounds())
	plane.SubscribeWith(board, board.Seed)

	require.Len(t, board.views, 2)
	assert.Equal(t, float32(selectionWidth), board.views[r.ID()].frame.StrokeWidth)
	assert.NotNil(t, board.views[r.ID()].rect)
}
