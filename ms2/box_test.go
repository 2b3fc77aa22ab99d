package ms2

import (
	"math/rand"
	"testing"
)

func randBox(rng *rand.Rand) Box {
	return NewBox(
		rng.Float32()*20-10, rng.Float32()*20-10,
		rng.Float32()*20-10, rng.Float32()*20-10,
	)
}

func TestNewBoxCanonicalizes(t *testing.T) {
	b := NewBox(5, 5, -5, -5)
	if b.Empty() {
		t.Fatal("box with nonzero extent should not be empty")
	}
	if b.Min != (Vec{X: -5, Y: -5}) || b.Max != (Vec{X: 5, Y: 5}) {
		t.Fatalf("NewBox did not canonicalize corners: %+v", b)
	}
}

func TestBoxContains(t *testing.T) {
	b := NewBox(0, 0, 10, 10)
	if !b.Contains(Vec{X: 5, Y: 5}) {
		t.Error("center point should be contained")
	}
	if b.Contains(Vec{X: 11, Y: 5}) {
		t.Error("point outside box should not be contained")
	}
}

func TestBoxUnionContainsOperands(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	pass := 0
	const n = 500
	for i := 0; i < n; i++ {
		a := randBox(rng)
		b := randBox(rng)
		u := a.Union(b)
		if u.ContainsBox(a) && u.ContainsBox(b) {
			pass++
		}
	}
	if pass != n {
		t.Fatalf("Union failed to contain both operands in %d/%d cases", n-pass, n)
	}
}

func TestBoxIntersect(t *testing.T) {
	a := NewBox(0, 0, 10, 10)
	b := NewBox(5, 5, 15, 15)
	got := a.Intersect(b)
	want := NewBox(5, 5, 10, 10)
	if !got.Equal(want, 1e-5) {
		t.Fatalf("Intersect = %+v, want %+v", got, want)
	}
}

func TestBoxCenterSize(t *testing.T) {
	b := NewBox(0, 0, 10, 4)
	if b.Center() != (Vec{X: 5, Y: 2}) {
		t.Errorf("Center = %v", b.Center())
	}
	if b.Size() != (Vec{X: 10, Y: 4}) {
		t.Errorf("Size = %v", b.Size())
	}
}

func TestBoxIncludePoint(t *testing.T) {
	b := NewBox(0, 0, 1, 1)
	grown := b.IncludePoint(Vec{X: 5, Y: -5})
	if !grown.Contains(Vec{X: 5, Y: -5}) {
		t.Fatal("IncludePoint should grow the box to contain the point")
	}
	if !grown.ContainsBox(b) {
		t.Fatal("IncludePoint should not shrink the original box")
	}
}

func TestNewCenteredBoxClampsNegativeSize(t *testing.T) {
	b := NewCenteredBox(Vec{X: 1, Y: 1}, Vec{X: -4, Y: -4})
	if !b.Empty() {
		t.Fatalf("negative size should collapse to an empty box, got %+v", b)
	}
}
