package state

// Observer receives plane changes after they are committed. Shapes passed in
// are copies; mutating them has no effect on the plane.
//
// Callbacks run on the goroutine that performed the mutation and must not
// call mutating Plane methods before returning.
type Observer interface {
	OnShapeAdded(s Shape)
	// OnSelectionChanged reports shape ids; "" means nothing selected.
	OnSelectionChanged(previous, current string)
	OnColorChanged(r *Rectangle)
	OnAlphaChanged(s Shape)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	ShapeAdded       func(s Shape)
	SelectionChanged func(previous, current string)
	ColorChanged     func(r *Rectangle)
	AlphaChanged     func(s Shape)
}

func (f ObserverFuncs) OnShapeAdded(s Shape) {
	if f.ShapeAdded != nil {
		f.ShapeAdded(s)
	}
}

func (f ObserverFuncs) OnSelectionChanged(previous, current string) {
	if f.SelectionChanged != nil {
		f.SelectionChanged(previous, current)
	}
}

func (f ObserverFuncs) OnColorChanged(r *Rectangle) {
	if f.ColorChanged != nil {
		f.ColorChanged(r)
	}
}

func (f ObserverFuncs) OnAlphaChanged(s Shape) {
	if f.AlphaChanged != nil {
		f.AlphaChanged(s)
	}
}

type subscription struct {
	id       string
	observer Observer
}
