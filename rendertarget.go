package agp

import (
	"log/slog"
	"time"
)

// shadowSlot is a retiring swap-chain store kept alive briefly after being
// cycled out, so in-flight reads against it (e.g. a compositor still
// scanning it out) don't tear.
type shadowSlot struct {
	store   *VStore
	retired time.Time
}

const shadowTTL = 500 * time.Millisecond

// DirtyRect is one damaged sub-rectangle accumulated by Dirty, reported and
// cleared by DirtyReset.
type DirtyRect struct {
	X0, Y0, X1, Y1 float32
}

// RendertargetProxyCallback is queried on Activate to let an external
// consumer take over a rendertarget's scanout (bind the default framebuffer)
// instead of the rendertarget's own FBO. tag is the opaque value passed to
// SetProxy.
type RendertargetProxyCallback func(rt *Rendertarget, tag uint64) bool

// Rendertarget owns an FBO, its attachments, and an optional n-buffered
// swap chain of color stores.
type Rendertarget struct {
	fbo uint32
	rbo uint32 // depth/stencil renderbuffer, when mode wants one

	store       *VStore // current physical front/color attachment
	handle      *VStore // external-facing reference store; stable across Swap
	mode        RendertargetMode
	retainAlpha RetainAlphaFlag

	swapChain []*VStore // ring of back buffers, nil when no swap chain
	swapHead  int
	shadows   []shadowSlot
	resizeAck bool // one Swap is deferred after a Resize with an active chain

	dirtyFlip    int // flip-in-flight counter; gates shadow reaping while > 0
	dirtyRegions []DirtyRect

	viewport [4]int32
	clearCol [4]float32

	allocFn  func(*Rendertarget, *VStore, int) bool
	proxyFn  RendertargetProxyCallback
	proxyTag uint64

	log *slog.Logger
}

// Setup creates the FBO, binds vstore as the color attachment, and
// allocates a matching depth/stencil renderbuffer per mode
// (agp_setup_rendertarget). A RTMSAA request on a backend without
// multisample renderbuffer support falls back to RTColorDepthStencil.
func Setup(env *FENV, vstore *VStore, mode RendertargetMode) (*Rendertarget, error) {
	if vstore.state == TxTex3D {
		return nil, ErrWrongState
	}
	if !checkFenv(env) {
		return nil, ErrBackendMissing
	}
	r := &Rendertarget{
		store:    vstore,
		handle:   vstore,
		mode:     mode,
		viewport: [4]int32{0, 0, int32(vstore.w), int32(vstore.h)},
		clearCol: [4]float32{0.05, 0.05, 0.05, 1.0},
		log:      slog.Default(),
	}
	if mode == RTMSAA && !env.HasMSAA {
		r.log.Warn("MSAA rendertarget requested but backend lacks multisample renderbuffer support, falling back to ColorDepthStencil")
		r.mode = RTColorDepthStencil
	}
	if err := r.allocFBO(env, false); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Rendertarget) allocFBO(env *FENV, resize bool) error {
	if r.fbo == 0 {
		ids := env.GenFramebuffers(1)
		r.fbo = ids[0]
	}
	env.BindFramebuffer(r.fbo)
	env.FramebufferTexture2D(glColorAttachment0, glTexture2D, r.store.ResolveTexID(), 0)

	wantsDepth := r.mode == RTColorDepth || r.mode == RTColorDepthStencil || r.mode == RTMSAA
	if wantsDepth {
		r.attachDepth(env)
	}

	status := env.CheckFramebufferStatus()
	if status != glFramebufferComplete && wantsDepth && status == glIncompleteAttachment {
		r.log.Warn("rendertarget framebuffer incomplete with depth attachment, retrying in simple color-only mode", slog.Int("status", int(status)))
		if r.rbo != 0 {
			env.DeleteRenderbuffers([]uint32{r.rbo})
			r.rbo = 0
		}
		env.FramebufferRenderbuffer(glDepthAttachment, 0)
		r.mode = RTColor
		status = env.CheckFramebufferStatus()
	}
	env.BindFramebuffer(0)
	if status != glFramebufferComplete {
		r.log.Error("rendertarget framebuffer incomplete", slog.Int("status", int(status)))
		return ErrFBOIncomplete
	}
	return nil
}

func (r *Rendertarget) attachDepth(env *FENV) {
	if r.rbo == 0 {
		ids := env.GenRenderbuffers(1)
		r.rbo = ids[0]
	}
	env.BindRenderbuffer(r.rbo)
	attachment := uint32(glDepthAttachment)
	internal := uint32(0x81A5) // GL_DEPTH_COMPONENT16
	if r.mode == RTColorDepthStencil {
		attachment = glDepthStencilAttach
		internal = 0x88F0 // GL_DEPTH24_STENCIL8
	}
	if r.mode == RTMSAA && env.HasMSAA {
		env.RenderbufferStorageMultisample(4, internal, int32(r.store.w), int32(r.store.h))
	} else {
		env.RenderbufferStorage(internal, int32(r.store.w), int32(r.store.h))
	}
	env.FramebufferRenderbuffer(attachment, r.rbo)
}

// SetProxy installs a callback queried on every Activate to decide whether
// an external consumer takes over the rendertarget's output (binding the
// default framebuffer) instead of its own FBO. The callback only takes
// effect while the rendertarget's reference store has a refcount of 1 (not
// shared elsewhere). A nil cb clears it.
func (r *Rendertarget) SetProxy(cb RendertargetProxyCallback, tag uint64) {
	r.proxyFn = cb
	r.proxyTag = tag
}

// SetRetainAlpha toggles whether Activate's blend factors preserve
// destination alpha instead of overwriting it.
func (r *Rendertarget) SetRetainAlpha(retain RetainAlphaFlag) { r.retainAlpha = retain }

// Activate binds the rendertarget's FBO (or hands off to its proxy hook),
// applies blend state, viewport, scissor, and clear color.
func (r *Rendertarget) Activate(env *FENV) {
	if !checkFenv(env) {
		return
	}
	if r.proxyFn != nil && r.store.refcount <= 1 && r.proxyFn(r, r.proxyTag) {
		env.BindFramebuffer(0)
		env.Viewport(0, 0, int32(r.store.w), int32(r.store.h))
		return
	}
	env.BindFramebuffer(r.fbo)
	srcA, dstA := uint32(glOne), uint32(glOneMinusSrcAlpha)
	if r.retainAlpha {
		srcA, dstA = glZero, glOne
	}
	env.SetBlendMode(BlendNormal, srcA, dstA)
	env.Viewport(r.viewport[0], r.viewport[1], r.viewport[2], r.viewport[3])
	env.Scissor(r.viewport[0], r.viewport[1], r.viewport[2], r.viewport[3])
	env.ClearColor(r.clearCol[0], r.clearCol[1], r.clearCol[2], r.clearCol[3])
}

// Clear clears the bound rendertarget using its cached clear color and the
// attachment mask implied by its mode, marking a full-rect dirty region.
func (r *Rendertarget) Clear(env *FENV) {
	if !checkFenv(env) {
		return
	}
	env.ClearColor(r.clearCol[0], r.clearCol[1], r.clearCol[2], r.clearCol[3])
	mask := uint32(glColorBufferBit)
	switch r.mode {
	case RTDepthOnly:
		mask = glDepthBufferBit
	case RTColorDepth, RTMSAA:
		mask |= glDepthBufferBit
	case RTColorDepthStencil:
		mask |= glDepthBufferBit | glStencilBufferBit
	}
	env.Clear(mask)
	r.Dirty(0, 0, float32(r.viewport[2]), float32(r.viewport[3]))
}

// ClearColor sets the cached clear color used by Clear.
func (r *Rendertarget) ClearColor(rr, g, b, a float32) { r.clearCol = [4]float32{rr, g, b, a} }

// Viewport sets the rendertarget's viewport rectangle.
func (r *Rendertarget) Viewport(x, y, w, h int32) { r.viewport = [4]int32{x, y, w, h} }

// Ids returns the FBO and current color-store GL ids, for diagnostics or
// external interop.
func (r *Rendertarget) Ids() (fbo, texid uint32) { return r.fbo, r.store.ResolveTexID() }

// SetupSwapChain allocates an n-buffered ring of back-buffer color stores
// sized to match the rendertarget's current store, and points the
// rendertarget's reference handle's glid_proxy at the live front store. n is
// clamped to SwapChainLength.
func (r *Rendertarget) SetupSwapChain(env *FENV, n int) error {
	if n <= 0 {
		return ErrBadDimensions
	}
	if n > SwapChainLength {
		n = SwapChainLength
	}
	r.swapChain = make([]*VStore, n)
	for i := range r.swapChain {
		vs := NewVStore()
		if err := vs.EmptyExt(env, r.store.w, r.store.h, r.store.dstFmt, r.store.dstFmt, TxTex2D); err != nil {
			return err
		}
		r.swapChain[i] = vs
	}
	r.swapHead = 0
	if r.handle != nil {
		r.handle.SetProxy(r.store)
	}
	return nil
}

// Swap cycles the rendertarget's color attachment to the next swap-chain
// slot, retiring the previous front buffer into the shadow ring instead of
// freeing it immediately, and re-pointing the reference handle's
// glid_proxy at the new front store so external sharers resolve the live
// buffer without rebinding. A Swap immediately following a Resize is
// deferred one frame (rz_ack).
func (r *Rendertarget) Swap(env *FENV) error {
	if len(r.swapChain) == 0 {
		return ErrNoSwapChain
	}
	if !checkFenv(env) {
		return ErrBackendMissing
	}
	if r.resizeAck {
		r.resizeAck = false
		return nil
	}
	prev := r.store
	r.store = r.swapChain[r.swapHead]
	r.swapChain[r.swapHead] = prev
	r.swapHead = (r.swapHead + 1) % len(r.swapChain)

	if r.handle != nil {
		r.handle.SetProxy(r.store)
	}

	env.BindFramebuffer(r.fbo)
	env.FramebufferTexture2D(glColorAttachment0, glTexture2D, r.store.ResolveTexID(), 0)
	env.BindFramebuffer(0)

	r.shadows = append(r.shadows, shadowSlot{store: prev, retired: time.Now()})
	r.dirtyFlip++
	return nil
}

// AckFlip decrements the rendertarget's dirty_flip counter once the engine
// has presented the frame a Swap/Resize marked pending, reaping drained
// shadow stores once it reaches zero.
func (r *Rendertarget) AckFlip(env *FENV) {
	if r.dirtyFlip > 0 {
		r.dirtyFlip--
	}
	if r.dirtyFlip == 0 {
		r.reapShadows(env)
	}
}

// reapShadows releases every parked shadow once dirtyFlip has drained to
// zero, meaning no flip that might still be reading one of them is in
// flight. shadowTTL/retired are logged but not gated on: dirtyFlip is the
// authoritative signal that a shadow is safe to free.
func (r *Rendertarget) reapShadows(env *FENV) {
	if r.dirtyFlip > 0 {
		return
	}
	for _, s := range r.shadows {
		if age := time.Since(s.retired); age < shadowTTL {
			r.log.Debug("reaping shadow store ahead of its TTL", slog.Duration("age", age))
		}
		s.store.Drop(env)
	}
	r.shadows = nil
}

// DropSwap flushes the swap chain and shadow ring immediately, clears the
// reference handle's glid_proxy, and rebinds COLOR0 to the original
// reference store. Unlike the passive dirty_flip-gated reap, this is an explicit
// engine-driven teardown and does not wait on dirty_flip.
func (r *Rendertarget) DropSwap(env *FENV) {
	for _, vs := range r.swapChain {
		vs.Drop(env)
	}
	for _, s := range r.shadows {
		s.store.Drop(env)
	}
	r.swapChain = nil
	r.shadows = nil
	r.swapHead = 0
	if r.handle != nil {
		r.handle.SetProxy(nil)
		if r.store != r.handle {
			r.store = r.handle
			if checkFenv(env) {
				env.BindFramebuffer(r.fbo)
				env.FramebufferTexture2D(glColorAttachment0, glTexture2D, r.store.ResolveTexID(), 0)
				env.BindFramebuffer(0)
			}
		}
	}
}

// SwapStore replaces the rendertarget's front color store in place, used
// when an external allocator owns the stores. The new store must match
// dimensions and a swap chain must not be active.
func (r *Rendertarget) SwapStore(env *FENV, vstore *VStore) error {
	if len(r.swapChain) != 0 {
		return ErrSwapChainActive
	}
	if vstore.state != TxTex2D || vstore.w != r.store.w || vstore.h != r.store.h {
		return ErrBadDimensions
	}
	if r.store == vstore {
		return nil
	}
	r.store = vstore
	r.handle = vstore
	env.BindFramebuffer(r.fbo)
	env.FramebufferTexture2D(glColorAttachment0, glTexture2D, vstore.ResolveTexID(), 0)
	env.BindFramebuffer(0)
	return nil
}

// SetAllocator installs a callback Resize consults, with the current color
// store, before resizing it: a false return aborts the Resize with
// ErrBadDimensions, otherwise Resize resizes that same store itself.
// SetupSwapChain does not call it.
func (r *Rendertarget) SetAllocator(fn func(*Rendertarget, *VStore, int) bool) { r.allocFn = fn }

// Resize reallocates the rendertarget's color/depth attachments for a new
// size. If a swap chain is active, its stores are parked as shadows rather
// than freed immediately (released only once dirty_flip drains to zero via
// AckFlip), a new chain is reallocated at the new size, and the next Swap
// is deferred by one frame.
func (r *Rendertarget) Resize(env *FENV, w, h int) error {
	if w <= 0 || h <= 0 {
		return ErrBadDimensions
	}
	if r.store != nil && r.store.w == w && r.store.h == h {
		return nil
	}
	chainLen := len(r.swapChain)
	if chainLen > 0 {
		r.parkSwapChainAsShadows()
	}
	if r.allocFn != nil && !r.allocFn(r, r.store, 0) {
		return ErrBadDimensions
	}
	if err := r.store.Resize(env, w, h); err != nil {
		return err
	}
	if r.handle != nil {
		r.handle.SetProxy(r.store)
	}
	r.viewport = [4]int32{0, 0, int32(w), int32(h)}
	if err := r.allocFBO(env, true); err != nil {
		return err
	}
	if chainLen > 0 {
		if err := r.SetupSwapChain(env, chainLen); err != nil {
			return err
		}
		r.resizeAck = true
	}
	return nil
}

// parkSwapChainAsShadows moves every current swap-chain store into the
// shadow ring instead of dropping it, and marks a flip pending so the
// shadows aren't reaped before a consumer mid-read against the old front
// buffer has a chance to finish.
func (r *Rendertarget) parkSwapChainAsShadows() {
	now := time.Now()
	for _, vs := range r.swapChain {
		r.shadows = append(r.shadows, shadowSlot{store: vs, retired: now})
	}
	r.swapChain = nil
	r.swapHead = 0
	r.dirtyFlip++
}

// Dirty accumulates a damaged sub-rectangle for partial-present consumers
// and returns the resulting decay count (the number of regions pending a
// DirtyReset). It also marks a flip pending, draining only once the engine
// acknowledges it via AckFlip.
func (r *Rendertarget) Dirty(x0, y0, x1, y1 float32) int {
	w, h := float32(r.viewport[2]), float32(r.viewport[3])
	x0, x1 = clampOrdered(x0, 0, w), clampOrdered(x1, 0, w)
	y0, y1 = clampOrdered(y0, 0, h), clampOrdered(y1, 0, h)
	r.dirtyFlip++
	r.dirtyRegions = append(r.dirtyRegions, DirtyRect{x0, y0, x1, y1})
	return len(r.dirtyRegions)
}

// Decay reports the current dirty-region count without marking a new
// region, the no-argument probe drawing code uses to check dirtiness.
func (r *Rendertarget) Decay() int { return len(r.dirtyRegions) }

// DirtyReset returns the rendertarget's accumulated dirty regions and
// resets the decay counter to zero. The returned slice's length always
// equals the decay count observed just before the reset.
func (r *Rendertarget) DirtyReset() []DirtyRect {
	if len(r.dirtyRegions) == 0 {
		return nil
	}
	out := r.dirtyRegions
	r.dirtyRegions = nil
	return out
}

// Drop releases the rendertarget's FBO, renderbuffer, and swap/shadow
// stores. It does not drop the color store itself, which the caller still
// owns.
func (r *Rendertarget) Drop(env *FENV) {
	r.DropSwap(env)
	if checkFenv(env) {
		if r.fbo != 0 {
			env.DeleteFramebuffers([]uint32{r.fbo})
		}
		if r.rbo != 0 {
			env.DeleteRenderbuffers([]uint32{r.rbo})
		}
	}
	r.fbo, r.rbo = 0, 0
}
