package agp

import "testing"

func TestNewContextBuildsDefaultsAndActivates(t *testing.T) {
	b := newFakeBackend()
	ctx, err := NewContext(ContextConfig{Lookup: b.lookup, Tag: "fake"})
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	if GetActive() != ctx.FENV() {
		t.Fatal("NewContext should install its FENV as active")
	}
	if !ctx.Shaders().Valid(newShaderID(0, 0)) {
		t.Fatal("default BASIC_2D slot should be valid")
	}
}

func TestContextSetRendertarget(t *testing.T) {
	b := newFakeBackend()
	ctx, err := NewContext(ContextConfig{Lookup: b.lookup, Tag: "fake"})
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	vs := NewVStore()
	vs.Empty(ctx.FENV(), 32, 32)
	rt, err := Setup(ctx.FENV(), vs, RTColor)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	ctx.SetRendertarget(rt)
	if ctx.Rendertarget() != rt {
		t.Fatal("SetRendertarget should update Rendertarget()")
	}
}

func TestContextRecoverContextLoss(t *testing.T) {
	b := newFakeBackend()
	ctx, err := NewContext(ContextConfig{Lookup: b.lookup, Tag: "fake"})
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	id := ctx.Build("extra", basic2DVertex, basic2DFragment)
	if id == BrokenShader {
		t.Fatal("Build should succeed against the fake backend")
	}

	vs := NewVStore()
	vs.Empty(ctx.FENV(), 16, 16)

	b2 := newFakeBackend()
	if err := ctx.RecoverContextLoss(b2.lookup, "fake2", []*VStore{vs}); err != nil {
		t.Fatalf("RecoverContextLoss: %v", err)
	}
	if !ctx.Shaders().Valid(id) {
		t.Fatal("retained shader should survive context recovery")
	}
}
