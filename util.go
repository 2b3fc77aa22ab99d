package agp

import "golang.org/x/exp/constraints"

// zdefault returns Default if got is the zero value, else got. Mirrors the
// teacher's generic default-value helper, used here for FENV tag defaulting
// (Allocate) and WrapMode defaulting (glWrap).
func zdefault[T comparable](got, Default T) T {
	var zero T
	if got == zero {
		return Default
	}
	return got
}

// clampOrdered clamps v between lo and hi for any ordered type, used by the
// dirty-rect clamping in Rendertarget.Dirty.
func clampOrdered[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// isPowerOfTwo reports whether n is a positive power of two, the invariant
// SliceBacking checks for Cube/Tex3D slice sources (and the Tex3D slice count).
func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
