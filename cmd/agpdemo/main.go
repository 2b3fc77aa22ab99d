// Command agpdemo opens a window and draws a single colored quad with
// the accelerated graphics pipeline's default COLOR_2D shader, exercising
// Context, FENV and DrawQuad end to end against a real GL2.1 context.
package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/arcan-go/agp"
	"github.com/arcan-go/agp/internal/window"
)

func init() {
	// GLFW event handling must run on the locked main OS thread.
	runtime.LockOSThread()
}

func main() {
	win, lookup, terminate, err := window.Open(window.Config{
		Title:  "agpdemo",
		Width:  800,
		Height: 600,
	})
	if err != nil {
		log.Fatalln("opening window:", err)
	}
	defer terminate()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	ctx, err := agp.NewContext(agp.ContextConfig{
		Lookup: lookup,
		Tag:    "gl21",
		Logger: logger,
	})
	if err != nil {
		log.Fatalln("creating context:", err)
	}
	defer ctx.Drop()

	env := ctx.FENV()
	mgr := ctx.Shaders()
	quadID := mgr.LookupTag("COLOR_2D")
	if quadID == agp.BrokenShader {
		log.Fatalln("COLOR_2D default shader missing")
	}
	if err := mgr.Activate(quadID); err != nil {
		log.Fatalln("activating shader:", err)
	}
	mgr.Envv(agp.EnvObjOpacity, []float32{1})

	fmt.Println("agpdemo running, press escape to quit")

	for !win.ShouldClose() {
		env.ClearDefaultFramebuffer()
		agp.DrawQuad(env, mgr, nil, -0.5, -0.5, 0.5, 0.5, nil, nil)

		win.SwapBuffers()
		glfw.PollEvents()
		if win.GetKey(glfw.KeyEscape) == glfw.Press {
			win.SetShouldClose(true)
		}
	}
}
