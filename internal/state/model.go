package state

import "fmt"

// Point is the top-left anchor of a shape on the canvas.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Size is a shape's width and height in canvas points.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Color is an RGB triple used by rectangles.
type Color struct {
	Red   uint8 `json:"red"`
	Green uint8 `json:"green"`
	Blue  uint8 `json:"blue"`
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.Red, c.Green, c.Blue)
}

// Rect is the bounding box of a placed shape.
type Rect struct {
	Origin Point
	Size   Size
}

// Contains reports whether p lies inside r. The right and bottom edges are
// exclusive so that two touching shapes never both claim a point.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Origin.X && p.X < r.Origin.X+r.Size.Width &&
		p.Y >= r.Origin.Y && p.Y < r.Origin.Y+r.Size.Height
}

// Bounds describes where the factory may place new shapes and how big they are.
type Bounds struct {
	XMax          int
	YMax          int
	HeaderOffset  int
	RectangleSize Size
	PhotoSize     Size
}

func DefaultBounds() Bounds {
	return Bounds{
		XMax:          670,
		YMax:          860,
		HeaderOffset:  44,
		RectangleSize: Size{Width: 150, Height: 120},
		PhotoSize:     Size{Width: 150, Height: 150},
	}
}

// Validate checks that random placement inside b is possible.
func (b Bounds) Validate() error {
	if b.XMax <= 1 || b.YMax <= 1 {
		return fmt.Errorf("canvas bounds must exceed 1x1, got %dx%d", b.XMax, b.YMax)
	}
	if b.HeaderOffset < 0 {
		return fmt.Errorf("header offset must not be negative, got %d", b.HeaderOffset)
	}
	for name, s := range map[string]Size{"rectangle": b.RectangleSize, "photo": b.PhotoSize} {
		if s.Width <= 0 || s.Height <= 0 {
			return fmt.Errorf("%s size must be positive, got %dx%d", name, s.Width, s.Height)
		}
	}
	return nil
}
