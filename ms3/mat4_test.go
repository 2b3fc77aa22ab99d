package ms3

import (
	"testing"

	math "github.com/chewxy/math32"
)

func TestIdentityMat4IsNeutral(t *testing.T) {
	v := Vec{X: 1, Y: 2, Z: 3}
	got := IdentityMat4().MulPosition(v)
	if !EqualElem(got, v, 1e-6) {
		t.Errorf("identity matrix should not move the point, got %v", got)
	}
}

func TestRotationMat4AroundZ(t *testing.T) {
	// Rotating (1,0,0) by 90 degrees around Z should land on (0,1,0).
	m := RotationMat4(math.Pi/2, Vec{Z: 1})
	got := m.MulPosition(Vec{X: 1})
	want := Vec{Y: 1}
	if !EqualElem(got, want, 1e-4) {
		t.Errorf("RotationMat4 = %v, want %v", got, want)
	}
}

func TestTranslateMat4(t *testing.T) {
	m := TranslateMat4(Vec{X: 1, Y: 2, Z: 3})
	got := m.MulPosition(Vec{})
	want := Vec{X: 1, Y: 2, Z: 3}
	if !EqualElem(got, want, 1e-6) {
		t.Errorf("TranslateMat4 = %v, want %v", got, want)
	}
}

func TestScaleMat4(t *testing.T) {
	m := ScaleMat4(Vec{X: 2, Y: 3, Z: 4})
	got := m.MulPosition(Vec{X: 1, Y: 1, Z: 1})
	want := Vec{X: 2, Y: 3, Z: 4}
	if !EqualElem(got, want, 1e-6) {
		t.Errorf("ScaleMat4 = %v, want %v", got, want)
	}
}

func TestMulMat4Associativity(t *testing.T) {
	a := TranslateMat4(Vec{X: 1})
	b := RotationMat4(math.Pi/4, Vec{Z: 1})
	c := ScaleMat4(Vec{X: 2, Y: 2, Z: 2})

	left := MulMat4(MulMat4(a, b), c)
	right := MulMat4(a, MulMat4(b, c))
	if !EqualMat4(left, right, 1e-3) {
		t.Errorf("matrix multiplication should be associative")
	}
}

func TestInverseUndoesMat4(t *testing.T) {
	m := MulMat4(TranslateMat4(Vec{X: 3, Y: -2, Z: 1}), RotationMat4(1.0, Vec{Y: 1}))
	inv := m.Inverse()
	got := MulMat4(m, inv)
	if !EqualMat4(got, IdentityMat4(), 1e-3) {
		t.Errorf("m * m.Inverse() should be identity, got %+v", got)
	}
}

func TestTransposeTwiceIsIdentity(t *testing.T) {
	m := RotationMat4(0.7, Vec{X: 1, Y: 1, Z: 1})
	got := m.Transpose().Transpose()
	if !EqualMat4(got, m, 1e-6) {
		t.Errorf("double transpose should return the original matrix")
	}
}
