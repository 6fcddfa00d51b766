// Package rng provides the single deterministic pseudo-random source used by
// the simulation core. The core never touches math/rand or any other ambient
// entropy; every stochastic call site receives a Stream explicitly.
package rng

import "errors"

// ErrAmbientRandomness is the panic value raised by a Poisoned stream.
// Drawing from it means a code path that must be randomness-free pulled
// entropy anyway; this is a programming error, never a recoverable condition.
var ErrAmbientRandomness = errors.New("rng: randomness drawn on a poisoned stream")

// Stream is the read side of a random source. Source implements it for real
// draws; Poisoned implements it as a tripwire.
type Stream interface {
	// Next returns the next value in [0, 1).
	Next() float64
	// Range returns a value in [lo, hi).
	Range(lo, hi float64) float64
	// IntRange returns an integer in [lo, hi], inclusive on both ends.
	IntRange(lo, hi int) int
}

// Source is a mulberry32 generator: a single 32-bit mixing state advanced by
// a fixed update rule. Identical initial state yields an identical output
// sequence on every platform.
type Source struct {
	state uint32
}

// New seeds a source. The low 32 bits of seed become the initial state.
func New(seed int64) *Source {
	return &Source{state: uint32(seed)}
}

func (s *Source) Next() float64 {
	s.state += 0x6D2B79F5
	z := s.state
	z = (z ^ (z >> 15)) * (z | 1)
	z ^= z + (z^(z>>7))*(z|61)
	z ^= z >> 14
	return float64(z) / 4294967296.0
}

func (s *Source) Range(lo, hi float64) float64 {
	return lo + s.Next()*(hi-lo)
}

func (s *Source) IntRange(lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	n := lo + int(s.Next()*float64(hi-lo+1))
	if n > hi {
		n = hi
	}
	return n
}

// Clone returns an independent source sharing the current state. The clone
// and the original produce the same sequence from this point on.
func (s *Source) Clone() *Source {
	return &Source{state: s.state}
}

// State exposes the raw mixing state for snapshots.
func (s *Source) State() uint32 { return s.state }

// SetState resumes the sequence exactly; used by snapshot import instead of
// reseeding.
func (s *Source) SetState(state uint32) { s.state = state }

// Poisoned is a Stream that panics on first draw. Tests inject it into code
// paths that must not consume randomness (layer regeneration, checksums,
// vegetation regrowth) so a violation fails at the call site, loudly.
type Poisoned struct{}

func (Poisoned) Next() float64                { panic(ErrAmbientRandomness) }
func (Poisoned) Range(lo, hi float64) float64 { panic(ErrAmbientRandomness) }
func (Poisoned) IntRange(lo, hi int) int      { panic(ErrAmbientRandomness) }
