//go:build !tinygo && cgo

// Package window opens a desktop GL2.1 context via GLFW and exposes it
// as an agp.LookupFunc, so cmd/agpdemo (and any other GLFW-backed host)
// never has to import go-gl directly.
package window

import (
	"errors"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/arcan-go/agp"
	"github.com/arcan-go/agp/internal/glprocs"
)

// Config describes the window and context to open.
type Config struct {
	Title         string
	Width, Height int
	NotResizable  bool
	Hidden        bool
}

// Window wraps a GLFW window already carrying a current GL2.1 context.
type Window struct {
	*glfw.Window
}

// Open creates the window, makes its context current and resolves FENV's
// Lookup callback against it. Terminate must be called once, after the
// window is no longer used, to tear down GLFW.
func Open(cfg Config) (win *Window, lookup agp.LookupFunc, terminate func(), err error) {
	if err := glfw.Init(); err != nil {
		return nil, nil, nil, err
	}

	glfw.WindowHint(glfw.Resizable, b2i(!cfg.NotResizable))
	glfw.WindowHint(glfw.ContextVersionMajor, 2)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	if cfg.Hidden {
		glfw.WindowHint(glfw.Visible, glfw.False)
	}

	w, h := cfg.Width, cfg.Height
	if w <= 0 || h <= 0 {
		glfw.Terminate()
		return nil, nil, nil, errors.New("window: width and height must be positive")
	}

	glwin, err := glfw.CreateWindow(w, h, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, nil, nil, err
	}
	glwin.MakeContextCurrent()
	if err := glprocs.InitGL21(); err != nil {
		glfw.Terminate()
		return nil, nil, nil, err
	}

	return &Window{glwin}, glprocs.GL21Lookup, glfw.Terminate, nil
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
