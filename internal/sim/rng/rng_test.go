package rng

import "testing"

func TestSource_SameSeedSameSequence(t *testing.T) {
	a := New(12345)
	b := New(12345)
	for i := 0; i < 1000; i++ {
		if av, bv := a.Next(), b.Next(); av != bv {
			t.Fatalf("diverged at draw %d: %v vs %v", i, av, bv)
		}
	}
}

func TestSource_ValuesInUnitInterval(t *testing.T) {
	s := New(0)
	for i := 0; i < 10000; i++ {
		v := s.Next()
		if v < 0 || v >= 1 {
			t.Fatalf("draw %d out of [0,1): %v", i, v)
		}
	}
}

func TestSource_IntRangeInclusive(t *testing.T) {
	s := New(7)
	seen := map[int]bool{}
	for i := 0; i < 5000; i++ {
		n := s.IntRange(2, 5)
		if n < 2 || n > 5 {
			t.Fatalf("IntRange out of bounds: %d", n)
		}
		seen[n] = true
	}
	for v := 2; v <= 5; v++ {
		if !seen[v] {
			t.Fatalf("IntRange never produced %d", v)
		}
	}
}

func TestSource_CloneSharesState(t *testing.T) {
	a := New(99)
	for i := 0; i < 17; i++ {
		a.Next()
	}
	b := a.Clone()
	for i := 0; i < 100; i++ {
		if av, bv := a.Next(), b.Next(); av != bv {
			t.Fatalf("clone diverged at draw %d", i)
		}
	}
}

func TestSource_SetStateResumesExactly(t *testing.T) {
	a := New(4242)
	a.Next()
	a.Next()
	st := a.State()
	want := []float64{a.Next(), a.Next(), a.Next()}

	b := New(0)
	b.SetState(st)
	for i, w := range want {
		if got := b.Next(); got != w {
			t.Fatalf("resume draw %d: got %v want %v", i, got, w)
		}
	}
}

func TestPoisoned_PanicsOnDraw(t *testing.T) {
	defer func() {
		if r := recover(); r != ErrAmbientRandomness {
			t.Fatalf("expected ErrAmbientRandomness panic, got %v", r)
		}
	}()
	var s Stream = Poisoned{}
	s.Next()
}
