package agp

import "errors"

// Errors propagated upward to the caller: allocation failure, bad
// configuration, and invalid handles a caller can reasonably act on instead
// of merely a log line.
var (
	ErrNoSuchObject    = errors.New("agp: no such object")
	ErrBrokenShader    = errors.New("agp: broken shader")
	ErrGroupOverflow   = errors.New("agp: uniform group table full")
	ErrDefaultShader   = errors.New("agp: cannot destroy a default shader")
	ErrBadDimensions   = errors.New("agp: bad dimensions")
	ErrNotPowerOfTwo   = errors.New("agp: dimensions must be a power of two")
	ErrWrongState      = errors.New("agp: vstore in wrong state for operation")
	ErrNoBacking       = errors.New("agp: vstore has no CPU backing buffer")
	ErrSwapChainActive = errors.New("agp: operation invalid while swap chain is active")
	ErrNoSwapChain     = errors.New("agp: rendertarget has no swap chain")
	ErrFBOIncomplete   = errors.New("agp: framebuffer incomplete")
	ErrBackendMissing  = errors.New("agp: required GL entry point missing")
)
