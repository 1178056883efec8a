package state

import (
	"log"
	"sync"
)

// Factory mints shapes with random placement and session-unique ids.
type Factory struct {
	mu     sync.Mutex
	random *Random
	bounds Bounds
	ids    map[string]struct{}
}

func NewFactory(random *Random, bounds Bounds) *Factory {
	return &Factory{
		random: random,
		bounds: bounds,
		ids:    make(map[string]struct{}),
	}
}

func (f *Factory) Bounds() Bounds { return f.bounds }

// Random exposes the generator so that mutations draw from the same source
// as creation.
func (f *Factory) Random() *Random { return f.random }

func (f *Factory) CreateRectangle() *Rectangle {
	return NewRectangle(f.uniqueID(), f.random.Color(), f.randomPoint(), f.bounds.RectangleSize)
}

func (f *Factory) CreatePhoto(data []byte) *Photo {
	return NewPhoto(f.uniqueID(), data, f.randomPoint(), f.bounds.PhotoSize)
}

func (f *Factory) randomPoint() Point {
	return f.random.Point(f.bounds.XMax, f.bounds.YMax, f.bounds.HeaderOffset)
}

// uniqueID draws until it finds an id never handed out by this factory.
func (f *Factory) uniqueID() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	for {
		id := f.random.ID()
		if _, taken := f.ids[id]; taken {
			log.Printf("[FACTORY] id collision on %s, drawing again", id)
			continue
		}
		f.ids[id] = struct{}{}
		return id
	}
}

// Issued reports how many ids the factory has handed out.
func (f *Factory) Issued() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.ids)
}
