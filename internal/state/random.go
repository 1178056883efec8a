package state

import (
	"math/rand/v2"
	"strings"
	"sync"
	"time"
)

const (
	idAlphabet  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	idLength    = 9
	idGroupSize = 3

	colorMax = 255
	alphaMax = 10
)

// Random draws the randomized attributes of new shapes. It is safe for
// concurrent use.
type Random struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandom returns a generator seeded with seed. A zero seed picks one from
// the clock.
func NewRandom(seed uint64) *Random {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Random{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// between returns a value in [1, max).
func (r *Random) between(max int) int {
	return 1 + r.rnd.IntN(max-1)
}

// Color returns a color whose channels lie in [1, 255).
func (r *Random) Color() Color {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Color{
		Red:   uint8(r.between(colorMax)),
		Green: uint8(r.between(colorMax)),
		Blue:  uint8(r.between(colorMax)),
	}
}

// Point returns x in [1, xMax) and y in [1, yMax) shifted down by yOffset.
func (r *Random) Point(xMax, yMax, yOffset int) Point {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Point{X: r.between(xMax), Y: r.between(yMax) + yOffset}
}

// Alpha returns one of 0.1, 0.2 ... 0.9.
func (r *Random) Alpha() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return float64(r.between(alphaMax)) / alphaMax
}

// ID returns a token shaped like "abc-def-ghi". Uniqueness is the caller's
// job, see Factory.
func (r *Random) ID() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var sb strings.Builder
	sb.Grow(idLength + idLength/idGroupSize - 1)
	for i := 0; i < idLength; i++ {
		if i != 0 && i%idGroupSize == 0 {
			sb.WriteByte('-')
		}
		sb.WriteByte(idAlphabet[r.rnd.IntN(len(idAlphabet))])
	}
	return sb.String()
}
