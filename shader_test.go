package agp

import "testing"

func TestShaderManagerBuildDefaults(t *testing.T) {
	env, _ := newTestFenv(t)
	mgr := NewShaderManager(env)
	if err := mgr.BuildDefaults(); err != nil {
		t.Fatalf("BuildDefaults: %v", err)
	}
	for i, kind := range []ShaderType{ShaderBasic2D, ShaderColor2D, ShaderBasic3D} {
		id := newShaderID(i, 0)
		if !mgr.Valid(id) {
			t.Fatalf("slot %d (%s) should be valid after BuildDefaults", i, kind)
		}
	}
}

func TestShaderManagerBuildFailureReturnsBroken(t *testing.T) {
	env, b := newTestFenv(t)
	mgr := NewShaderManager(env)
	mgr.BuildDefaults()

	b.compileOK = false
	id := mgr.Build("bad", "junk", "junk")
	if id != BrokenShader {
		t.Fatalf("id = %v, want BrokenShader", id)
	}
}

func TestShaderManagerDestroyRefusesDefaults(t *testing.T) {
	env, _ := newTestFenv(t)
	mgr := NewShaderManager(env)
	mgr.BuildDefaults()

	if err := mgr.Destroy(newShaderID(0, 0)); err != ErrDefaultShader {
		t.Fatalf("err = %v, want ErrDefaultShader", err)
	}
}

func TestShaderManagerActivateAndEnvv(t *testing.T) {
	env, _ := newTestFenv(t)
	mgr := NewShaderManager(env)
	mgr.BuildDefaults()

	id := newShaderID(0, 0)
	mgr.Envv(EnvObjOpacity, []float32{0.5})
	if err := mgr.Activate(id); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if mgr.active != id {
		t.Fatal("Activate should update the manager's active id")
	}
}

func TestShaderManagerAddGroupAndForceUnif(t *testing.T) {
	env, _ := newTestFenv(t)
	mgr := NewShaderManager(env)
	mgr.BuildDefaults()

	base := newShaderID(1, 0)
	group, err := mgr.AddGroup(base)
	if err != nil {
		t.Fatalf("AddGroup: %v", err)
	}
	if group.group() == 0 {
		t.Fatal("AddGroup should not reuse the implicit default group")
	}
	if err := mgr.ForceUnif(group, "obj_col", UniformVec3, []float32{1, 0, 0}); err != nil {
		t.Fatalf("ForceUnif: %v", err)
	}

	if err := mgr.Destroy(group); err != nil {
		t.Fatalf("Destroy(group): %v", err)
	}
	if mgr.Valid(base) != true {
		t.Fatal("destroying a non-zero group must leave the base program valid")
	}
	if err := mgr.ForceUnif(group, "obj_col", UniformVec3, []float32{0, 1, 0}); err == nil {
		t.Fatal("ForceUnif against a destroyed group should fail")
	}
}

func TestShaderManagerAddGroupDeepCopiesSourceEntriesAndReusesHole(t *testing.T) {
	env, _ := newTestFenv(t)
	mgr := NewShaderManager(env)
	mgr.BuildDefaults()

	base := newShaderID(1, 0)
	if err := mgr.ForceUnif(base, "obj_col", UniformVec3, []float32{1, 0, 0}); err != nil {
		t.Fatalf("ForceUnif: %v", err)
	}
	g1, err := mgr.AddGroup(base)
	if err != nil {
		t.Fatalf("AddGroup: %v", err)
	}
	s := &mgr.slots[base.slot()]
	if len(s.groups[g1.group()]) != 1 || s.groups[g1.group()][0].label != "obj_col" {
		t.Fatalf("AddGroup did not deep-copy the source group's entries: %v", s.groups[g1.group()])
	}
	// Mutating the copy must not perturb the source group.
	mgr.ForceUnif(g1, "obj_col", UniformVec3, []float32{0, 0, 1})
	if s.groups[0][0].label != "obj_col" {
		t.Fatal("base group entry should be untouched")
	}

	if err := mgr.Destroy(g1); err != nil {
		t.Fatalf("Destroy(g1): %v", err)
	}
	g2, err := mgr.AddGroup(base)
	if err != nil {
		t.Fatalf("AddGroup after hole free: %v", err)
	}
	if g2.group() != g1.group() {
		t.Fatalf("AddGroup should reuse the hole freed by Destroy, got group %d want %d", g2.group(), g1.group())
	}
}

func TestShaderManagerDestroyGroupZeroTearsDownWholeProgram(t *testing.T) {
	env, _ := newTestFenv(t)
	mgr := NewShaderManager(env)
	mgr.BuildDefaults()

	id := mgr.Build("custom", "", "")
	if id == BrokenShader {
		t.Fatal("Build should succeed with default-substituted sources")
	}
	if err := mgr.Destroy(newShaderID(id.slot(), 0)); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if mgr.Valid(id) {
		t.Fatal("destroying group 0 should free the whole slot")
	}
}

func TestShaderManagerBuildReusesSameLabelSlot(t *testing.T) {
	env, _ := newTestFenv(t)
	mgr := NewShaderManager(env)
	mgr.BuildDefaults()

	first := mgr.Build("overlay", "vsrc1", "fsrc1")
	if first == BrokenShader {
		t.Fatal("first Build failed")
	}
	second := mgr.Build("overlay", "vsrc2", "fsrc2")
	if second == BrokenShader {
		t.Fatal("second Build failed")
	}
	if first.slot() != second.slot() {
		t.Fatalf("rebuilding the same label should reuse slot %d, got %d", first.slot(), second.slot())
	}
}

func TestShaderManagerBuildSubstitutesDefaultSourceAndSetsShMask(t *testing.T) {
	env, _ := newTestFenv(t)
	mgr := NewShaderManager(env)
	mgr.BuildDefaults()

	id := mgr.Build("nullsrc", "", "")
	if id == BrokenShader {
		t.Fatal("Build with empty sources should still succeed via default substitution")
	}
	if mgr.ShMask(id) != 3 {
		t.Fatalf("ShMask = %d, want 3 (both stages defaulted)", mgr.ShMask(id))
	}

	idVertOnly := mgr.Build("halfsrc", "", "fsrc")
	if mgr.ShMask(idVertOnly) != 1 {
		t.Fatalf("ShMask = %d, want 1 (vertex defaulted)", mgr.ShMask(idVertOnly))
	}
}

func TestShaderManagerRebuildAllPreservesSlotIndex(t *testing.T) {
	env, _ := newTestFenv(t)
	mgr := NewShaderManager(env)
	mgr.BuildDefaults()

	id := mgr.Build("overlay", "vsrc", "fsrc")
	if id == BrokenShader {
		t.Fatal("Build failed")
	}
	slot := id.slot()
	sources := map[ShaderID][2]string{id: {"vsrc", "fsrc"}}
	mgr.RebuildAll(sources)
	if !mgr.Valid(id) {
		t.Fatal("RebuildAll should leave the rebuilt shader valid at the same id")
	}
	if id.slot() != slot {
		t.Fatal("RebuildAll must not move a shader to a different slot")
	}
}

func TestShaderManagerLookupTag(t *testing.T) {
	env, _ := newTestFenv(t)
	mgr := NewShaderManager(env)
	mgr.BuildDefaults()

	id := mgr.LookupTag("COLOR_2D")
	if id == BrokenShader {
		t.Fatal("LookupTag should find the COLOR_2D default slot")
	}
	if id.slot() != 1 {
		t.Fatalf("slot = %d, want 1", id.slot())
	}
}

func TestShaderIDPacking(t *testing.T) {
	id := newShaderID(42, 7)
	if id.slot() != 42 || id.group() != 7 {
		t.Fatalf("slot=%d group=%d, want 42,7", id.slot(), id.group())
	}
}
