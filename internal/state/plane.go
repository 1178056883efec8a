package state

import (
	"log"
	"slices"
	"sync"
)

// DefaultAlphaStep is how far one alpha button press moves opacity.
const DefaultAlphaStep = 0.1

// Plane owns every placed shape and the current selection.
//
// Every mutation takes notifyMu, then mu. It commits, releases mu and
// delivers its events before releasing notifyMu, so observers see events in
// commit order and can use the read side of the plane while being notified.
// Readers take only mu. Observers must not mutate the plane synchronously.
type Plane struct {
	mu       sync.RWMutex
	notifyMu sync.Mutex

	factory   *Factory
	alphaStep float64
	session   string

	shapes   []Shape        // z-order, last is topmost
	index    map[string]int // id -> position in shapes
	selected string
	subs     []subscription
}

func NewPlane(factory *Factory, alphaStep float64) *Plane {
	if alphaStep <= 0 {
		alphaStep = DefaultAlphaStep
	}
	return &Plane{
		factory:   factory,
		alphaStep: alphaStep,
		session:   newID(),
		index:     make(map[string]int),
	}
}

// Session identifies this in-memory run.
func (p *Plane) Session() string { return p.session }

// Subscribe registers o and returns a handle for Unsubscribe. Observers are
// notified in registration order.
func (p *Plane) Subscribe(o Observer) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := newID()
	p.subs = append(p.subs, subscription{id: id, observer: o})
	return id
}

func (p *Plane) Unsubscribe(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := slices.IndexFunc(p.subs, func(s subscription) bool { return s.id == id })
	if i < 0 {
		return false
	}
	p.subs = slices.Delete(p.subs, i, i+1)
	return true
}

// Snapshot is a consistent copy of the plane at one point in time.
type Snapshot struct {
	Shapes   []Shape // bottom first
	Selected string
}

// Snapshot returns copies of all shapes and the selected id, read together.
func (p *Plane) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return Snapshot{Shapes: p.copyShapes(), Selected: p.selected}
}

// WithSnapshot calls fn with the current state while no mutation can commit
// or deliver events. Every event delivered after fn returns describes a
// change the snapshot does not contain. fn must not mutate the plane.
func (p *Plane) WithSnapshot(fn func(Snapshot)) {
	p.notifyMu.Lock()
	defer p.notifyMu.Unlock()
	fn(p.Snapshot())
}

// SubscribeWith seeds o from a snapshot and subscribes it in one step, so o
// neither misses nor repeats a change.
func (p *Plane) SubscribeWith(o Observer, seed func(Snapshot)) string {
	var id string
	p.WithSnapshot(func(s Snapshot) {
		seed(s)
		id = p.Subscribe(o)
	})
	return id
}

// lock starts a mutation.
func (p *Plane) lock() {
	p.notifyMu.Lock()
	p.mu.Lock()
}

// unlock ends a mutation that produced no event.
func (p *Plane) unlock() {
	p.mu.Unlock()
	p.notifyMu.Unlock()
}

// publish ends a mutation: it releases mu and delivers event to every
// observer before releasing notifyMu.
func (p *Plane) publish(event func(Observer)) {
	subs := slices.Clone(p.subs)
	p.mu.Unlock()
	defer p.notifyMu.Unlock()

	for _, s := range subs {
		event(s.observer)
	}
}

func (p *Plane) place(s Shape) {
	p.index[s.ID()] = len(p.shapes)
	p.shapes = append(p.shapes, s)
}

// AddRectangle places a new random rectangle on top of the plane.
func (p *Plane) AddRectangle() *Rectangle {
	p.lock()
	r := p.factory.CreateRectangle()
	p.place(r)
	snapshot := r.clone()
	log.Printf("[PLANE] rectangle added: %s at (%d,%d) color %s", r.ID(), r.point.X, r.point.Y, r.color)
	p.publish(func(o Observer) { o.OnShapeAdded(snapshot.Clone()) })
	return snapshot.clone()
}

// AddPhoto places a new photo showing data on top of the plane.
func (p *Plane) AddPhoto(data []byte) *Photo {
	p.lock()
	ph := p.factory.CreatePhoto(data)
	p.place(ph)
	snapshot := ph.clone()
	log.Printf("[PLANE] photo added: %s at (%d,%d), %d bytes", ph.ID(), ph.point.X, ph.point.Y, len(data))
	p.publish(func(o Observer) { o.OnShapeAdded(snapshot.Clone()) })
	return snapshot.clone()
}

// SelectAt selects the topmost shape containing pt and reports whether one
// was found. A miss leaves the current selection untouched.
func (p *Plane) SelectAt(pt Point) bool {
	p.lock()
	var target Shape
	for i := len(p.shapes) - 1; i >= 0; i-- {
		if p.shapes[i].Bounds().Contains(pt) {
			target = p.shapes[i]
			break
		}
	}
	if target == nil {
		p.unlock()
		return false
	}

	previous, current := p.selected, target.ID()
	if previous == current {
		p.unlock()
		return true
	}
	p.selected = current
	log.Printf("[PLANE] selection %q -> %q", previous, current)
	p.publish(func(o Observer) { o.OnSelectionChanged(previous, current) })
	return true
}

// Deselect clears the selection. It does nothing when nothing is selected.
func (p *Plane) Deselect() {
	p.lock()
	previous := p.selected
	if previous == "" {
		p.unlock()
		return
	}
	p.selected = ""
	log.Printf("[PLANE] selection %q cleared", previous)
	p.publish(func(o Observer) { o.OnSelectionChanged(previous, "") })
}

// selectedShape must be called with mu held.
func (p *Plane) selectedShape() Shape {
	if p.selected == "" {
		return nil
	}
	return p.shapes[p.index[p.selected]]
}

// ChangeSelectedColor gives the selected rectangle a new random color.
// Photos and an empty selection are ignored.
func (p *Plane) ChangeSelectedColor() {
	p.lock()
	switch s := p.selectedShape().(type) {
	case *Rectangle:
		s.SetColor(p.factory.Random().Color())
		snapshot := s.clone()
		log.Printf("[PLANE] color of %s changed to %s", s.ID(), s.color)
		p.publish(func(o Observer) { o.OnColorChanged(snapshot.clone()) })
	case *Photo:
		p.unlock()
		log.Printf("[PLANE] photo %s has no color, ignoring", s.ID())
	case nil:
		p.unlock()
	}
}

func (p *Plane) IncreaseSelectedAlpha() { p.adjustSelectedAlpha(p.alphaStep) }

func (p *Plane) DecreaseSelectedAlpha() { p.adjustSelectedAlpha(-p.alphaStep) }

func (p *Plane) adjustSelectedAlpha(delta float64) {
	p.lock()
	s := p.selectedShape()
	if s == nil {
		p.unlock()
		return
	}
	s.SetAlpha(s.Alpha() + delta)
	snapshot := s.Clone()
	log.Printf("[PLANE] alpha of %s is now %.2f", s.ID(), s.Alpha())
	p.publish(func(o Observer) { o.OnAlphaChanged(snapshot.Clone()) })
}

// Shapes returns copies of all shapes, bottom first.
func (p *Plane) Shapes() []Shape {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.copyShapes()
}

// copyShapes must be called with mu held.
func (p *Plane) copyShapes() []Shape {
	out := make([]Shape, 0, len(p.shapes))
	for _, s := range p.shapes {
		out = append(out, s.Clone())
	}
	return out
}

// Shape returns a copy of the shape with the given id.
func (p *Plane) Shape(id string) (Shape, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	i, ok := p.index[id]
	if !ok {
		return nil, false
	}
	return p.shapes[i].Clone(), true
}

// Selected returns a copy of the selected shape, if any.
func (p *Plane) Selected() (Shape, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s := p.selectedShape()
	if s == nil {
		return nil, false
	}
	return s.Clone(), true
}

func (p *Plane) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.shapes)
}
