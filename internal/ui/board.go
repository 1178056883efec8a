package ui

import (
	"image/color"
	"math"

	"DrawingApp/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

var selectionColor = color.NRGBA{R: 0, G: 122, B: 255, A: 255}

const selectionWidth = 3

// shapeView is what one shape looks like on screen.
type shapeView struct {
	body  fyne.CanvasObject
	rect  *canvas.Rectangle // set for rectangles
	image *canvas.Image     // set for photos
	frame *canvas.Rectangle // selection outline
}

// CanvasWidget renders the plane and turns taps into selections. Its views
// are only touched on the fyne main goroutine.
type CanvasWidget struct {
	widget.BaseWidget
	plane      *state.Plane
	bounds     state.Bounds
	background *canvas.Rectangle
	content    *fyne.Container
	views      map[string]*shapeView
}

var (
	_ fyne.Widget    = (*CanvasWidget)(nil)
	_ fyne.Tappable  = (*CanvasWidget)(nil)
	_ state.Observer = (*CanvasWidget)(nil)
)

func NewCanvasWidget(plane *state.Plane, bounds state.Bounds) *CanvasWidget {
	c := &CanvasWidget{
		plane:      plane,
		bounds:     bounds,
		background: canvas.NewRectangle(color.White),
		content:    container.NewWithoutLayout(),
		views:      make(map[string]*shapeView),
	}
	c.ExtendBaseWidget(c)
	return c
}

// Seed builds the views for shapes placed before the widget subscribed.
func (c *CanvasWidget) Seed(snap state.Snapshot) {
	for _, s := range snap.Shapes {
		c.addView(s)
	}
	c.setSelected(snap.Selected, true)
}

// Tapped selects the topmost shape under the pointer; a tap on empty canvas
// clears the selection.
func (c *CanvasWidget) Tapped(e *fyne.PointEvent) {
	if !c.plane.SelectAt(toPoint(e.Position)) {
		c.plane.Deselect()
	}
}

func (c *CanvasWidget) OnShapeAdded(s state.Shape) {
	fyne.Do(func() { c.addView(s) })
}

func (c *CanvasWidget) OnSelectionChanged(previous, current string) {
	fyne.Do(func() {
		c.setSelected(previous, false)
		c.setSelected(current, true)
	})
}

func (c *CanvasWidget) OnColorChanged(r *state.Rectangle) {
	fyne.Do(func() {
		if v, ok := c.views[r.ID()]; ok && v.rect != nil {
			v.rect.FillColor = fillColor(r.Color(), r.Alpha())
			v.rect.Refresh()
		}
	})
}

func (c *CanvasWidget) OnAlphaChanged(s state.Shape) {
	fyne.Do(func() {
		v, ok := c.views[s.ID()]
		if !ok {
			return
		}
		switch s := s.(type) {
		case *state.Rectangle:
			v.rect.FillColor = fillColor(s.Color(), s.Alpha())
		case *state.Photo:
			v.image.Translucency = 1 - s.Alpha()
		}
		v.body.Refresh()
	})
}

func (c *CanvasWidget) addView(s state.Shape) {
	v := &shapeView{frame: canvas.NewRectangle(color.Transparent)}
	v.frame.StrokeColor = selectionColor

	switch s := s.(type) {
	case *state.Rectangle:
		v.rect = canvas.NewRectangle(fillColor(s.Color(), s.Alpha()))
		v.body = v.rect
	case *state.Photo:
		v.image = canvas.NewImageFromResource(fyne.NewStaticResource(s.ID(), s.ImageData()))
		v.image.FillMode = canvas.ImageFillContain
		v.image.Translucency = 1 - s.Alpha()
		v.body = v.image
	}

	b := s.Bounds()
	pos := fyne.NewPos(float32(b.Origin.X), float32(b.Origin.Y))
	size := fyne.NewSize(float32(b.Size.Width), float32(b.Size.Height))
	for _, o := range []fyne.CanvasObject{v.body, v.frame} {
		o.Move(pos)
		o.Resize(size)
		c.content.Add(o)
	}
	c.views[s.ID()] = v
}

func (c *CanvasWidget) setSelected(id string, on bool) {
	v, ok := c.views[id]
	if !ok {
		return
	}
	v.frame.StrokeWidth = 0
	if on {
		v.frame.StrokeWidth = selectionWidth
	}
	v.frame.Refresh()
}

func (c *CanvasWidget) CreateRenderer() fyne.WidgetRenderer {
	return &canvasRenderer{board: c}
}

type canvasRenderer struct {
	board *CanvasWidget
}

func (r *canvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.board.background, r.board.content}
}

func (r *canvasRenderer) Layout(size fyne.Size) {
	r.board.background.Resize(size)
	r.board.content.Resize(size)
}

// MinSize leaves room for a shape placed at the far corner of the bounds.
func (r *canvasRenderer) MinSize() fyne.Size {
	b := r.board.bounds
	w := max(b.RectangleSize.Width, b.PhotoSize.Width)
	h := max(b.RectangleSize.Height, b.PhotoSize.Height)
	return fyne.NewSize(float32(b.XMax+w), float32(b.YMax+b.HeaderOffset+h))
}

func (r *canvasRenderer) Refresh() {
	r.board.content.Refresh()
}

func (r *canvasRenderer) Destroy() {}

func fillColor(c state.Color, alpha float64) color.NRGBA {
	return color.NRGBA{R: c.Red, G: c.Green, B: c.Blue, A: uint8(math.Round(alpha * 255))}
}

func toPoint(pos fyne.Position) state.Point {
	return state.Point{X: int(pos.X), Y: int(pos.Y)}
}
