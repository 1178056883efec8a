package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactoryCreateRectangle(t *testing.T) {
	f := NewFactory(NewRandom(10), DefaultBounds())
	r := f.CreateRectangle()

	assert.Equal(t, KindRectangle, r.Kind())
	assert.Equal(t, Size{Width: 150, Height: 120}, r.Size())
	assert.Equal(t, 1.0, r.Alpha())
	assert.NotZero(t, r.Color())
	assert.GreaterOrEqual(t, r.Point().Y, 45)
}

func TestFactoryCreatePhotoCopiesData(t *testing.T) {
	f := NewFactory(NewRandom(11), DefaultBounds())
	data := []byte{1, 2, 3}
	p := f.CreatePhoto(data)
	data[0] = 9

	assert.Equal(t, KindPhoto, p.Kind())
	assert.Equal(t, Size{Width: 150, Height: 150}, p.Size())
	assert.Equal(t, 1.0, p.Alpha())
	assert.Equal(t, []byte{1, 2, 3}, p.ImageData())
}

func TestFactoryIDsAreUnique(t *testing.T) {
	f := NewFactory(NewRandom(12), DefaultBounds())
	seen := make(map[string]bool)
	for i := 0; i < 3000; i++ {
		var id string
		if i%2 == 0 {
			id = f.CreateRectangle().ID()
		} else {
			id = f.CreatePhoto(nil).ID()
		}
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	assert.Equal(t, 3000, f.Issued())
}

func TestFactoryRetriesOnCollision(t *testing.T) {
	taken := NewRandom(7).ID()

	f := NewFactory(NewRandom(7), DefaultBounds())
	f.ids[taken] = struct{}{}

	r := f.CreateRectangle()
	assert.NotEqual(t, taken, r.ID())
	assert.Equal(t, 2, f.Issued())
}
