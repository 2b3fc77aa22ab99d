package agp

import "testing"

func TestAllocateResolvesRequiredSymbols(t *testing.T) {
	env, _ := newTestFenv(t)
	if !checkFenv(env) {
		t.Fatal("allocated env should pass checkFenv")
	}
	if env.GenTextures == nil {
		t.Fatal("GenTextures should be resolved")
	}
}

func TestAllocateMissingRequiredSymbol(t *testing.T) {
	lookup := func(tag, name string, required bool) (any, bool) {
		if name == "glGenTextures" {
			return nil, false
		}
		b := newFakeBackend()
		return b.lookup(tag, name, required)
	}
	_, err := Allocate(lookup, "broken")
	if err == nil {
		t.Fatal("expected error for missing required symbol")
	}
}

func TestOptionalCapabilityFlags(t *testing.T) {
	env, _ := newTestFenv(t)
	if !env.HasPBO {
		t.Error("fake backend provides map/unmap, HasPBO should be true")
	}
	if !env.HasTex3D {
		t.Error("fake backend provides glTexImage3D, HasTex3D should be true")
	}
	if env.HasRobustness {
		t.Error("fake backend has no reset-status symbol, HasRobustness should be false")
	}
	if env.ResetStatus == nil {
		t.Fatal("ResetStatus must default to a no-op, not nil")
	}
	if env.ResetStatus() != 0 {
		t.Error("default ResetStatus should report 0")
	}
}

func TestSetActiveGetActiveDrop(t *testing.T) {
	env, _ := newTestFenv(t)
	SetActive(env)
	if GetActive() != env {
		t.Fatal("GetActive should return the env set via SetActive")
	}
	Drop(env)
	if checkFenv(env) {
		t.Fatal("env should fail checkFenv after Drop")
	}
	if GetActive() != nil {
		t.Fatal("GetActive should clear after dropping the active env")
	}
}

func TestDropDefaultIsNoop(t *testing.T) {
	Drop(defaultFenv)
	if !checkFenv(defaultFenv) {
		t.Fatal("Drop must never invalidate the built-in default")
	}
}

func TestBlendModeCaching(t *testing.T) {
	env, _ := newTestFenv(t)
	env.SetBlendMode(BlendNormal, glOne, glOne)
	if !env.blend.enabled {
		t.Fatal("blend should be enabled after BlendNormal")
	}
	env.SetBlendMode(BlendNone, glOne, glOne)
	if env.blend.enabled {
		t.Fatal("blend should be disabled after BlendNone")
	}
}

func TestInitAppliesDefaultState(t *testing.T) {
	env, _ := newTestFenv(t)
	env.Init()
	if env.pipelineMode != PipelineNone {
		t.Error("Init should reset pipeline mode")
	}
	if !env.blend.enabled {
		t.Error("Init should enable blending")
	}
}
