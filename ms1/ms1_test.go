package ms1

import "testing"

func TestSign(t *testing.T) {
	cases := []struct {
		x, want float32
	}{
		{0, 0}, {5, 1}, {-5, -1},
	}
	for _, c := range cases {
		if got := Sign(c.x); got != c.want {
			t.Errorf("Sign(%v) = %v, want %v", c.x, got, c.want)
		}
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 1); got != 1 {
		t.Errorf("Clamp(5,0,1) = %v, want 1", got)
	}
	if got := Clamp(-5, 0, 1); got != 0 {
		t.Errorf("Clamp(-5,0,1) = %v, want 0", got)
	}
	if got := Clamp(0.5, 0, 1); got != 0.5 {
		t.Errorf("Clamp(0.5,0,1) = %v, want 0.5", got)
	}
}

func TestInterp(t *testing.T) {
	if got := Interp(0, 10, 0.5); got != 5 {
		t.Errorf("Interp(0,10,0.5) = %v, want 5", got)
	}
	if got := Interp(0, 10, 0); got != 0 {
		t.Errorf("Interp(0,10,0) = %v, want 0", got)
	}
	if got := Interp(0, 10, 1); got != 10 {
		t.Errorf("Interp(0,10,1) = %v, want 10", got)
	}
}

func TestSmoothStepEndpoints(t *testing.T) {
	if got := SmoothStep(0, 1, 0); got != 0 {
		t.Errorf("SmoothStep at edge0 = %v, want 0", got)
	}
	if got := SmoothStep(0, 1, 1); got != 1 {
		t.Errorf("SmoothStep at edge1 = %v, want 1", got)
	}
	if got := SmoothStep(0, 1, 2); got != 1 {
		t.Errorf("SmoothStep should clamp beyond edge1, got %v", got)
	}
}

func TestEqualWithinAbs(t *testing.T) {
	if !EqualWithinAbs(1.0, 1.0001, 1e-3) {
		t.Errorf("expected values within tolerance to be equal")
	}
	if EqualWithinAbs(1.0, 1.1, 1e-3) {
		t.Errorf("expected values outside tolerance to be unequal")
	}
}
