package ms3

import "testing"

func TestNewBoxCanonicalizes3(t *testing.T) {
	b := NewBox(5, 5, 5, -5, -5, -5)
	if b.Empty() {
		t.Fatal("box with nonzero extent should not be empty")
	}
	if b.Min != (Vec{X: -5, Y: -5, Z: -5}) {
		t.Fatalf("NewBox did not canonicalize Min: %+v", b.Min)
	}
}

func TestBoxSize(t *testing.T) {
	b := NewBox(0, 0, 0, 10, 4, 2)
	if b.Size() != (Vec{X: 10, Y: 4, Z: 2}) {
		t.Errorf("Size = %v", b.Size())
	}
}

func TestNewCenteredBoxClampsNegativeSize3(t *testing.T) {
	b := NewCenteredBox(Vec{X: 1, Y: 1, Z: 1}, Vec{X: -4, Y: -4, Z: -4})
	if !b.Empty() {
		t.Fatalf("negative size should collapse to an empty box, got %+v", b)
	}
}
