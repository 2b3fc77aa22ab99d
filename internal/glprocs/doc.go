// Package glprocs supplies the concrete agp.LookupFunc implementations that
// back a FENV: one per GL ABI variant the platform video driver might bind
// to (desktop GL2.1, GLES2, GLES3). GL2.1 wraps github.com/go-gl/gl/v2.1/gl
// and GLES2/GLES3 wrap golang.org/x/mobile/gl, behind the backend-neutral function
// signatures agp.FENV expects, the way the original glinit.c chooses
// between gl21.c and gles.c at runtime based on what the display platform
// negotiated.
package glprocs
