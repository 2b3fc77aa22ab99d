package agp

import "testing"

func TestSetupRendertarget(t *testing.T) {
	env, _ := newTestFenv(t)
	vs := NewVStore()
	vs.Empty(env, 64, 64)

	rt, err := Setup(env, vs, RTColorDepth)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if rt.viewport != [4]int32{0, 0, 64, 64} {
		t.Fatalf("viewport = %v", rt.viewport)
	}
}

func TestSetupRendertargetRejectsTex3D(t *testing.T) {
	env, _ := newTestFenv(t)
	vs := NewVStore()
	vs.EmptyExt(env, 8, 8, PixelRGBA8, PixelRGBA8, TxTex3D)

	if _, err := Setup(env, vs, RTColor); err != ErrWrongState {
		t.Fatalf("err = %v, want ErrWrongState", err)
	}
}

func TestSetupRendertargetIncompleteFBO(t *testing.T) {
	env, b := newTestFenv(t)
	b.fbStatus = 0 // anything != glFramebufferComplete
	vs := NewVStore()
	vs.Empty(env, 8, 8)

	if _, err := Setup(env, vs, RTColor); err != ErrFBOIncomplete {
		t.Fatalf("err = %v, want ErrFBOIncomplete", err)
	}
}

func TestRendertargetSwapChainCyclesAndRetires(t *testing.T) {
	env, _ := newTestFenv(t)
	vs := NewVStore()
	vs.Empty(env, 16, 16)
	rt, err := Setup(env, vs, RTColor)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if err := rt.SetupSwapChain(env, 2); err != nil {
		t.Fatalf("SetupSwapChain: %v", err)
	}
	front := rt.store
	if err := rt.Swap(env); err != nil {
		t.Fatalf("Swap: %v", err)
	}
	if rt.store == front {
		t.Fatal("Swap should install a new front buffer")
	}
	if len(rt.shadows) != 1 {
		t.Fatalf("shadows = %d, want 1", len(rt.shadows))
	}
}

func TestRendertargetSwapWithoutChainFails(t *testing.T) {
	env, _ := newTestFenv(t)
	vs := NewVStore()
	vs.Empty(env, 16, 16)
	rt, _ := Setup(env, vs, RTColor)
	if err := rt.Swap(env); err != ErrNoSwapChain {
		t.Fatalf("err = %v, want ErrNoSwapChain", err)
	}
}

func TestRendertargetDirtyAccumulatesAndResets(t *testing.T) {
	env, _ := newTestFenv(t)
	vs := NewVStore()
	vs.Empty(env, 16, 16)
	rt, _ := Setup(env, vs, RTColor)

	rt.Dirty(1, 1, 4, 4)
	rt.Dirty(0, 0, 2, 2)
	if rt.Decay() != 2 {
		t.Fatalf("Decay() = %d, want 2", rt.Decay())
	}
	regions := rt.DirtyReset()
	if len(regions) != 2 {
		t.Fatalf("DirtyReset() returned %d regions, want 2 (one per Dirty call)", len(regions))
	}
	if len(rt.DirtyReset()) != 0 {
		t.Fatal("DirtyReset should clear after reporting")
	}
	if rt.Decay() != 0 {
		t.Fatal("Decay() should be 0 after DirtyReset")
	}
}

func TestSetupRendertargetMSAAFallsBackWithoutSupport(t *testing.T) {
	lookup := func(tag, name string, required bool) (any, bool) {
		if name == "glRenderbufferStorageMultisample" {
			return nil, false
		}
		return newFakeBackend().lookup(tag, name, required)
	}
	env, err := Allocate(lookup, "no-msaa")
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	vs := NewVStore()
	vs.Empty(env, 32, 32)
	rt, err := Setup(env, vs, RTMSAA)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if rt.mode != RTColorDepthStencil {
		t.Fatalf("mode = %v, want RTColorDepthStencil fallback", rt.mode)
	}
}

func TestSetupRendertargetRetriesWithoutDepthOnIncompleteAttachment(t *testing.T) {
	env, b := newTestFenv(t)
	b.fbStatusFirst = glIncompleteAttachment
	vs := NewVStore()
	vs.Empty(env, 16, 16)
	rt, err := Setup(env, vs, RTColorDepth)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if rt.mode != RTColor {
		t.Fatalf("mode = %v, want RTColor after depth-attachment retry", rt.mode)
	}
}

func TestRendertargetResizeParksSwapChainAsShadowsUntilFlipAck(t *testing.T) {
	env, _ := newTestFenv(t)
	vs := NewVStore()
	vs.Empty(env, 16, 16)
	rt, _ := Setup(env, vs, RTColor)
	if err := rt.SetupSwapChain(env, 2); err != nil {
		t.Fatalf("SetupSwapChain: %v", err)
	}
	if err := rt.Resize(env, 32, 32); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if len(rt.shadows) == 0 {
		t.Fatal("Resize should park the old swap chain as shadows, not drop it")
	}
	if rt.dirtyFlip == 0 {
		t.Fatal("Resize should leave dirtyFlip nonzero until flips drain")
	}
	for rt.dirtyFlip > 0 {
		rt.AckFlip(env)
	}
	if len(rt.shadows) != 0 {
		t.Fatal("shadows should be reaped once dirtyFlip drains to zero")
	}
}

func TestRendertargetSwapReseatsHandleProxy(t *testing.T) {
	env, _ := newTestFenv(t)
	vs := NewVStore()
	vs.Empty(env, 16, 16)
	handle := vs
	rt, _ := Setup(env, vs, RTColor)
	if err := rt.SetupSwapChain(env, 2); err != nil {
		t.Fatalf("SetupSwapChain: %v", err)
	}
	if handle.ResolveTexID() != rt.store.ResolveTexID() {
		t.Fatal("handle should resolve to the current front buffer after SetupSwapChain")
	}
	if err := rt.Swap(env); err != nil {
		t.Fatalf("Swap: %v", err)
	}
	if handle.ResolveTexID() != rt.store.ResolveTexID() {
		t.Fatal("handle should resolve to the new front buffer after Swap, without being rebound itself")
	}
}

func TestRendertargetProxyTakesOverActivation(t *testing.T) {
	env, _ := newTestFenv(t)
	vs := NewVStore()
	vs.Empty(env, 16, 16)
	rt, _ := Setup(env, vs, RTColor)

	called := false
	var gotTag uint64
	rt.SetProxy(func(r *Rendertarget, tag uint64) bool {
		called = true
		gotTag = tag
		return true
	}, 7)
	rt.Activate(env)
	if !called || gotTag != 7 {
		t.Fatal("Activate should query the proxy hook with its installed tag")
	}
}

func TestRendertargetProxyDoesNotFireWhenStoreShared(t *testing.T) {
	env, _ := newTestFenv(t)
	vs := NewVStore()
	vs.Empty(env, 16, 16)
	vs.Retain() // refcount now 2, proxy handoff must not fire
	rt, _ := Setup(env, vs, RTColor)

	called := false
	rt.SetProxy(func(r *Rendertarget, tag uint64) bool {
		called = true
		return true
	}, 0)
	rt.Activate(env)
	if called {
		t.Fatal("proxy hook must not fire while the store is shared (refcount > 1)")
	}
}
