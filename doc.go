// Package agp implements the GPU abstraction layer driving Arcan's video
// pipeline: a late-bound GL dispatch table (FENV), refcounted texture
// objects (VStore), FBO-backed render destinations with swap chains
// (Rendertarget), a fixed-slot shader program manager with an
// environment-uniform ABI, and the draw/pipeline state that ties them
// together. AGP holds no lock; every type here is safe to use only from
// the goroutine that owns the underlying GL context.
package agp
