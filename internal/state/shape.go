package state

import (
	"bytes"
	"math"
)

// Kind names a shape variant on the wire and in logs.
type Kind string

const (
	KindRectangle Kind = "rectangle"
	KindPhoto     Kind = "photo"
)

// Shape is a placed drawable. The set of implementations is closed:
// *Rectangle and *Photo. Callers that need variant data use a type switch
// over those two.
type Shape interface {
	ID() string
	Kind() Kind
	Point() Point
	SetPoint(p Point)
	Size() Size
	SetSize(s Size)
	Alpha() float64
	SetAlpha(a float64)
	Bounds() Rect
	Clone() Shape

	sealed()
}

// common holds what every shape carries.
type common struct {
	id    string
	point Point
	size  Size
	alpha float64
}

func (c *common) ID() string         { return c.id }
func (c *common) Point() Point       { return c.point }
func (c *common) SetPoint(p Point)   { c.point = p }
func (c *common) Size() Size         { return c.size }
func (c *common) SetSize(s Size)     { c.size = s }
func (c *common) Alpha() float64     { return c.alpha }
func (c *common) SetAlpha(a float64) { c.alpha = clampAlpha(a) }
func (c *common) Bounds() Rect       { return Rect{Origin: c.point, Size: c.size} }
func (c *common) sealed()            {}

// clampAlpha keeps a into [0, 1] and drops float noise beyond two decimals,
// so ten 0.1 steps from 0 land exactly on 1.
func clampAlpha(a float64) float64 {
	a = math.Round(a*100) / 100
	return math.Max(0, math.Min(1, a))
}

// Rectangle is a solid shape with a fill color.
type Rectangle struct {
	common
	color Color
}

func NewRectangle(id string, color Color, point Point, size Size) *Rectangle {
	return &Rectangle{
		common: common{id: id, point: point, size: size, alpha: 1},
		color:  color,
	}
}

func (r *Rectangle) Kind() Kind        { return KindRectangle }
func (r *Rectangle) Color() Color      { return r.color }
func (r *Rectangle) SetColor(c Color)  { r.color = c }
func (r *Rectangle) Clone() Shape      { return r.clone() }
func (r *Rectangle) clone() *Rectangle { cp := *r; return &cp }

// Photo shows encoded image bytes and has no color.
type Photo struct {
	common
	imageData []byte
}

// NewPhoto keeps its own copy of data.
func NewPhoto(id string, data []byte, point Point, size Size) *Photo {
	return &Photo{
		common:    common{id: id, point: point, size: size, alpha: 1},
		imageData: bytes.Clone(data),
	}
}

func (p *Photo) Kind() Kind { return KindPhoto }

// ImageData returns the raw image bytes. Callers must not modify them.
func (p *Photo) ImageData() []byte { return p.imageData }
func (p *Photo) Clone() Shape      { return p.clone() }

// clone shares the image bytes; they are never written after creation.
func (p *Photo) clone() *Photo { cp := *p; return &cp }
