package agp

import "testing"

func TestVStoreEmptyAllocates(t *testing.T) {
	env, _ := newTestFenv(t)
	vs := NewVStore()
	if err := vs.Empty(env, 64, 32); err != nil {
		t.Fatalf("Empty: %v", err)
	}
	if vs.State() != TxTex2D {
		t.Fatalf("state = %v, want TxTex2D", vs.State())
	}
	if vs.ResolveTexID() == 0 {
		t.Fatal("expected a nonzero texture id after Empty")
	}
}

func TestVStoreEmptyRejectsBadDimensions(t *testing.T) {
	env, _ := newTestFenv(t)
	vs := NewVStore()
	if err := vs.Empty(env, 0, 32); err != ErrBadDimensions {
		t.Fatalf("err = %v, want ErrBadDimensions", err)
	}
}

func TestVStoreResizeDropsContent(t *testing.T) {
	env, _ := newTestFenv(t)
	vs := NewVStore()
	vs.Empty(env, 16, 16)
	vs.growBacking()[0] = 0xFF
	if err := vs.Resize(env, 32, 32); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if vs.w != 32 || vs.h != 32 {
		t.Fatalf("dims = %dx%d, want 32x32", vs.w, vs.h)
	}
	if len(vs.backing) != 0 {
		t.Fatal("Resize should have discarded the prior backing buffer")
	}
}

func TestVStoreFullUploadRatioThreshold(t *testing.T) {
	env, _ := newTestFenv(t)
	vs := NewVStore()
	vs.Empty(env, 100, 100)
	if vs.fullUploadRatio(10, 10) {
		t.Error("small sub-rect should not trip the full-upload threshold")
	}
	if !vs.fullUploadRatio(80, 80) {
		t.Error("large sub-rect should trip the full-upload threshold")
	}
}

func TestVStoreStreamPrepareWithoutPBOFallsBackToSync(t *testing.T) {
	lookup := func(tag, name string, required bool) (any, bool) {
		if name == "glMapBufferRange" || name == "glUnmapBuffer" {
			return nil, false
		}
		return newFakeBackend().lookup(tag, name, required)
	}
	env, err := Allocate(lookup, "gles2-like")
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if env.HasPBO {
		t.Fatal("backend without map/unmap should report HasPBO=false")
	}
	vs := NewVStore()
	vs.Empty(env, 8, 8)
	buf, err := vs.StreamPrepare(env, StreamRaw, nil)
	if err != nil {
		t.Fatalf("StreamPrepare: %v", err)
	}
	if len(buf) != 8*8*4 {
		t.Fatalf("buf len = %d, want %d", len(buf), 8*8*4)
	}
}

func TestVStoreCopyRegion(t *testing.T) {
	env, _ := newTestFenv(t)
	src := NewVStore()
	src.Empty(env, 4, 4)
	copy(src.growBacking(), []byte{1, 2, 3, 4})

	dst := NewVStore()
	dst.Empty(env, 4, 4)
	dst.growBacking()

	if err := dst.CopyRegion(src, 0, 0, 0, 0, 1, 1); err != nil {
		t.Fatalf("CopyRegion: %v", err)
	}
	if dst.backing[0] != 1 || dst.backing[3] != 4 {
		t.Fatal("CopyRegion did not copy expected pixel bytes")
	}
}

func TestVStoreRefcountSharing(t *testing.T) {
	env, _ := newTestFenv(t)
	vs := NewVStore()
	vs.Empty(env, 4, 4)
	vs.Retain()
	vs.Drop(env)
	if vs.State() == TxOff {
		t.Fatal("store should survive Drop while refcount > 0")
	}
	vs.Drop(env)
	if vs.State() != TxOff {
		t.Fatal("store should be released once refcount reaches 0")
	}
}

func TestVStoreProxyResolvesThroughTarget(t *testing.T) {
	env, _ := newTestFenv(t)
	handle := NewVStore()
	handle.Empty(env, 16, 16)
	target := NewVStore()
	target.Empty(env, 16, 16)

	handle.SetProxy(target)
	if handle.ResolveTexID() != target.ResolveTexID() {
		t.Fatalf("ResolveTexID() = %d, want target's id %d", handle.ResolveTexID(), target.ResolveTexID())
	}

	retarget := NewVStore()
	retarget.Empty(env, 16, 16)
	handle.SetProxy(retarget)
	if handle.ResolveTexID() != retarget.ResolveTexID() {
		t.Fatal("ResolveTexID() did not follow a re-seated proxy target")
	}

	handle.SetProxy(nil)
	if handle.ResolveTexID() != handle.glid {
		t.Fatal("clearing the proxy should resolve back to the store's own id")
	}
}

func TestVStoreSliceBackingCube(t *testing.T) {
	env, _ := newTestFenv(t)
	faces := make([]*VStore, 6)
	for i := range faces {
		faces[i] = NewVStore()
		if err := faces[i].Empty(env, 4, 4); err != nil {
			t.Fatalf("face %d Empty: %v", i, err)
		}
		faces[i].growBacking()[0] = byte(i)
		faces[i].updateTS++
	}
	cube := NewVStore()
	if err := cube.SliceBacking(env, TxCube, faces); err != nil {
		t.Fatalf("SliceBacking: %v", err)
	}
	if cube.State() != TxCube {
		t.Fatalf("state = %v, want TxCube", cube.State())
	}
	if len(cube.sliceSrc) != 6 {
		t.Fatalf("sliceSrc len = %d, want 6", len(cube.sliceSrc))
	}
}

func TestVStoreSliceBackingRejectsWrongFaceCount(t *testing.T) {
	env, _ := newTestFenv(t)
	faces := make([]*VStore, 5)
	for i := range faces {
		faces[i] = NewVStore()
		faces[i].Empty(env, 4, 4)
	}
	cube := NewVStore()
	if err := cube.SliceBacking(env, TxCube, faces); err != ErrBadDimensions {
		t.Fatalf("err = %v, want ErrBadDimensions", err)
	}
}

func TestVStoreSliceBackingRejectsNonPowerOfTwoFace(t *testing.T) {
	env, _ := newTestFenv(t)
	faces := make([]*VStore, 6)
	for i := range faces {
		faces[i] = NewVStore()
		faces[i].Empty(env, 3, 3)
	}
	cube := NewVStore()
	if err := cube.SliceBacking(env, TxCube, faces); err != ErrNotPowerOfTwo {
		t.Fatalf("err = %v, want ErrNotPowerOfTwo", err)
	}
}

func TestVStoreSliceSynchSkipsMismatchedFace(t *testing.T) {
	env, _ := newTestFenv(t)
	faces := make([]*VStore, 6)
	for i := range faces {
		faces[i] = NewVStore()
		faces[i].Empty(env, 4, 4)
		faces[i].updateTS++
	}
	cube := NewVStore()
	if err := cube.SliceBacking(env, TxCube, faces); err != nil {
		t.Fatalf("SliceBacking: %v", err)
	}
	// Resize one face out from under the cube; SliceSynch must skip it
	// rather than aborting the whole resynchronization pass.
	faces[2].Empty(env, 8, 8)
	faces[2].updateTS++
	if err := cube.SliceSynch(env); err != nil {
		t.Fatalf("SliceSynch: %v", err)
	}
}

func TestVStoreExternalHandleImport(t *testing.T) {
	env, _ := newTestFenv(t)
	var gotPlanes []ExternalPlane
	released := false
	vs := NewVStore()
	vs.SetImporter(func(v *VStore, planes []ExternalPlane) bool {
		if planes == nil {
			released = true
			return true
		}
		gotPlanes = planes
		return true
	})
	planes := []ExternalPlane{{Handle: 42, Stride: 256}}
	if _, err := vs.StreamPrepare(env, StreamHandleImport, planes); err != nil {
		t.Fatalf("StreamPrepare: %v", err)
	}
	if len(gotPlanes) != 1 || gotPlanes[0].Handle != 42 {
		t.Fatalf("importer did not see the supplied plane list: %v", gotPlanes)
	}
	if !vs.external {
		t.Fatal("StreamHandleImport should mark the store external")
	}
	vs.Drop(env)
	if !released {
		t.Fatal("Drop should notify the importer with a nil plane list")
	}
}

func TestVStoreExternalHandleImportWithoutImporterFails(t *testing.T) {
	env, _ := newTestFenv(t)
	vs := NewVStore()
	if _, err := vs.StreamPrepare(env, StreamHandleImport, nil); err != ErrBackendMissing {
		t.Fatalf("err = %v, want ErrBackendMissing", err)
	}
}
