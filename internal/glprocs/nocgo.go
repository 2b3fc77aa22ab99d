//go:build tinygo || !cgo

package glprocs

import "errors"

// ErrNoCgo is returned by the Init* helpers when built without cgo (tinygo
// or CGO_ENABLED=0): none of go-gl's bindings are available, so no backend
// can resolve any entry point.
var ErrNoCgo = errors.New("glprocs: backend needs cgo")

func InitGL21() error { return ErrNoCgo }
func InitGLES2() error { return ErrNoCgo }
func InitGLES3() error { return ErrNoCgo }

func GL21Lookup(tag, name string, required bool) (any, bool)  { return nil, false }
func GLES2Lookup(tag, name string, required bool) (any, bool) { return nil, false }
func GLES3Lookup(tag, name string, required bool) (any, bool) { return nil, false }
