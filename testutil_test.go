package agp

// fakeBackend is the software Backend test double SPEC_FULL.md's test
// tooling section calls for: it satisfies every FENV entry point with
// deterministic bookkeeping instead of a live GL context, so FENV/VSTORE/
// Rendertarget/ShaderManager logic can run under `go test` without a GPU.
type fakeBackend struct {
	nextID    uint32
	compileOK bool
	linkOK    bool
	fbStatus  uint32

	// fbStatusFirst, when nonzero, is returned by the first
	// glCheckFramebufferStatus call only; subsequent calls see fbStatus.
	// Lets a test exercise allocFBO's incomplete-then-retry-succeeds path.
	fbStatusFirst uint32
	fbCalls       int

	enableCalls int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{compileOK: true, linkOK: true, fbStatus: glFramebufferComplete}
}

func (b *fakeBackend) genIDs(n int) []uint32 {
	ids := make([]uint32, n)
	for i := range ids {
		b.nextID++
		ids[i] = b.nextID
	}
	return ids
}

func (b *fakeBackend) lookup(tag, name string, required bool) (any, bool) {
	switch name {
	case "glGenTextures", "glGenBuffers", "glGenFramebuffers", "glGenRenderbuffers":
		return func(n int) []uint32 { return b.genIDs(n) }, true
	case "glDeleteTextures", "glDeleteBuffers", "glDeleteFramebuffers", "glDeleteRenderbuffers":
		return func(ids []uint32) {}, true
	case "glBindTexture", "glBindBuffer":
		return func(target, id uint32) {}, true
	case "glActiveTexture":
		return func(unit uint32) {}, true
	case "glTexImage2D":
		return func(target uint32, level, internalFormat, w, h int32, format, xtype uint32, pixels []byte) {}, true
	case "glTexSubImage2D":
		return func(target uint32, level, xoff, yoff, w, h int32, format, xtype uint32, pixels []byte) {}, true
	case "glTexImage3D":
		return func(target uint32, level, internalFormat, w, h, depth int32, format, xtype uint32, pixels []byte) {}, true
	case "glTexParameteri":
		return func(target, pname uint32, param int32) {}, true
	case "glGetTexImage":
		return func(target uint32, level int32, format, xtype uint32, dst []byte) {}, true
	case "glGenerateMipmap":
		return func(target uint32) {}, true
	case "glBufferData":
		return func(target uint32, data []byte, usage uint32) {}, true
	case "glBufferSubData":
		return func(target uint32, offset int, data []byte) {}, true
	case "glMapBufferRange":
		return func(target uint32, offset, length int, access uint32) []byte { return make([]byte, length) }, true
	case "glUnmapBuffer":
		return func(target uint32) bool { return true }, true
	case "glBindFramebuffer":
		return func(id uint32) {}, true
	case "glFramebufferTexture2D":
		return func(attachment, textarget, tex uint32, level int32) {}, true
	case "glFramebufferRenderbuffer":
		return func(attachment, rb uint32) {}, true
	case "glCheckFramebufferStatus":
		return func() uint32 {
			b.fbCalls++
			if b.fbCalls == 1 && b.fbStatusFirst != 0 {
				return b.fbStatusFirst
			}
			return b.fbStatus
		}, true
	case "glBindRenderbuffer":
		return func(id uint32) {}, true
	case "glRenderbufferStorage":
		return func(internalFormat uint32, w, h int32) {}, true
	case "glRenderbufferStorageMultisample":
		return func(samples int32, internalFormat uint32, w, h int32) {}, true
	case "glViewport", "glScissor":
		return func(x, y, w, h int32) {}, true
	case "glClearColor":
		return func(r, g, bl, a float32) {}, true
	case "glClear":
		return func(mask uint32) {}, true
	case "glEnable":
		return func(cap uint32) { b.enableCalls++ }, true
	case "glDisable":
		return func(cap uint32) {}, true
	case "glBlendFuncSeparate":
		return func(srcRGB, dstRGB, srcA, dstA uint32) {}, true
	case "glBlendEquation":
		return func(mode uint32) {}, true
	case "glCullFace", "glFrontFace", "glDepthFunc":
		return func(mode uint32) {}, true
	case "glDepthMask":
		return func(flag bool) {}, true
	case "glColorMask":
		return func(r, g, bl, a bool) {}, true
	case "glStencilFunc":
		return func(fn uint32, ref int32, mask uint32) {}, true
	case "glStencilOp":
		return func(fail, zfail, zpass uint32) {}, true
	case "glPolygonMode":
		return func(mode uint32) {}, true
	case "glCreateShader":
		return func(shaderType uint32) uint32 { return b.genIDs(1)[0] }, true
	case "glShaderSource":
		return func(id uint32, src string) {}, true
	case "glCompileShader":
		return func(id uint32) {}, true
	case "glShaderCompileOK":
		return func(id uint32) (bool, string) {
			if b.compileOK {
				return true, ""
			}
			return false, "fake compile error"
		}, true
	case "glDeleteShader":
		return func(id uint32) {}, true
	case "glCreateProgram":
		return func() uint32 { return b.genIDs(1)[0] }, true
	case "glAttachShader", "glDetachShader":
		return func(prog, shader uint32) {}, true
	case "glLinkProgram":
		return func(prog uint32) {}, true
	case "glProgramLinkOK":
		return func(prog uint32) (bool, string) {
			if b.linkOK {
				return true, ""
			}
			return false, "fake link error"
		}, true
	case "glUseProgram":
		return func(prog uint32) {}, true
	case "glDeleteProgram":
		return func(prog uint32) {}, true
	case "glGetUniformLocation":
		return func(prog uint32, name string) int32 { return 1 }, true
	case "glGetAttribLocation":
		return func(prog uint32, name string) int32 { return 1 }, true
	case "glUniform1i":
		return func(loc, v int32) {}, true
	case "glUniform1f":
		return func(loc int32, v float32) {}, true
	case "glUniform2f":
		return func(loc int32, v0, v1 float32) {}, true
	case "glUniform3f":
		return func(loc int32, v0, v1, v2 float32) {}, true
	case "glUniform4f":
		return func(loc int32, v0, v1, v2, v3 float32) {}, true
	case "glUniformMatrix4fv":
		return func(loc int32, value [16]float32) {}, true
	case "glEnableVertexAttribArray", "glDisableVertexAttribArray":
		return func(index uint32) {}, true
	case "glVertexAttribPointer":
		return func(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset int) {}, true
	case "glDrawArrays":
		return func(mode uint32, first, count int32) {}, true
	case "glDrawElements":
		return func(mode uint32, count int32, xtype uint32, offset int) {}, true
	default:
		return nil, false
	}
}

func newTestFenv(t interface{ Fatalf(string, ...any) }) (*FENV, *fakeBackend) {
	b := newFakeBackend()
	env, err := Allocate(b.lookup, "fake")
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	return env, b
}

// newTestRendertarget builds a ready-to-use RTColor Rendertarget over a
// freshly allocated 64x64 Tex2D store, for tests that only need a working
// target to drive dirty-tracking/Activate/Swap logic.
func newTestRendertarget(t interface{ Fatalf(string, ...any) }, env *FENV) *Rendertarget {
	vs := NewVStore()
	if err := vs.Empty(env, 64, 64); err != nil {
		t.Fatalf("Empty: %v", err)
	}
	rt, err := Setup(env, vs, RTColor)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	return rt
}
