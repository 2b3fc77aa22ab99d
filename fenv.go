package agp

import (
	"fmt"
	"log/slog"
)

// LookupFunc resolves a single named GL entry point for a backend variant.
// tag identifies the backend ("gl21", "gles2", "gles3", ...); name is the
// GL symbol (e.g. "glDrawArrays"); required distinguishes a fatal missing
// symbol from a capability probe whose absence only clears a feature flag.
//
// Allocate calls lookup once per entry point it needs; a LookupFunc is
// free to resolve lazily or eagerly, and nothing stops two Contexts from
// using two different LookupFuncs concurrently (each owns its own FENV).
type LookupFunc func(tag, name string, required bool) (fn any, ok bool)

const fenvCookie = 0x41475032 // "AGP2", detects use-after-Drop.

// blendFactors mirrors the driver-side blend state FENV caches so
// FENV.SetBlendMode can skip redundant glBlendFuncSeparate/glEnable
// calls when nothing changed, the same bookkeeping other_examples'
// g3n-engine GLS struct performs for its own cached GL state.
type blendFactors struct {
	enabled                        bool
	srcRGB, dstRGB, srcA, dstA     uint32
	equation                       uint32
}

// FENV is the late-bound dispatch table for the underlying GL ABI.
// All AGP operations consult the active FENV via GetActive.
// FENV carries no lock: it must only be touched from the thread that owns
// the GL context.
type FENV struct {
	cookie uint32
	tag    string
	lookup LookupFunc
	log    *slog.Logger

	HasMSAA       bool
	HasTex3D      bool
	HasPBO        bool
	HasRobustness bool

	modelFlags   uint64
	pipelineMode PipelineMode
	lastTexUnit  uint32
	blend        blendFactors

	// -- texture objects --
	GenTextures    func(n int) []uint32
	DeleteTextures func(ids []uint32)
	BindTexture    func(target uint32, id uint32)
	ActiveTexture  func(unit uint32)
	TexImage2D     func(target uint32, level int32, internalFormat int32, w, h int32, format, xtype uint32, pixels []byte)
	TexSubImage2D  func(target uint32, level, xoff, yoff, w, h int32, format, xtype uint32, pixels []byte)
	TexImage3D     func(target uint32, level int32, internalFormat int32, w, h, depth int32, format, xtype uint32, pixels []byte)
	TexParameteri  func(target, pname uint32, param int32)
	GetTexImage    func(target uint32, level int32, format, xtype uint32, dst []byte)
	GenerateMipmap func(target uint32)

	// -- buffer objects (vertex, index, PBO) --
	GenBuffers     func(n int) []uint32
	DeleteBuffers  func(ids []uint32)
	BindBuffer     func(target uint32, id uint32)
	BufferData     func(target uint32, data []byte, usage uint32)
	BufferSubData  func(target uint32, offset int, data []byte)
	MapBufferRange func(target uint32, offset, length int, access uint32) []byte
	UnmapBuffer    func(target uint32) bool

	// -- framebuffer / renderbuffer objects --
	GenFramebuffers         func(n int) []uint32
	DeleteFramebuffers      func(ids []uint32)
	BindFramebuffer         func(id uint32)
	FramebufferTexture2D    func(attachment, textarget, tex uint32, level int32)
	FramebufferRenderbuffer func(attachment, rb uint32)
	CheckFramebufferStatus  func() uint32

	GenRenderbuffers               func(n int) []uint32
	DeleteRenderbuffers            func(ids []uint32)
	BindRenderbuffer               func(id uint32)
	RenderbufferStorage            func(internalFormat uint32, w, h int32)
	RenderbufferStorageMultisample func(samples int32, internalFormat uint32, w, h int32)

	// -- fixed function / pipeline state --
	Viewport    func(x, y, w, h int32)
	Scissor     func(x, y, w, h int32)
	ClearColor  func(r, g, b, a float32)
	Clear       func(mask uint32)
	Enable      func(cap uint32)
	Disable     func(cap uint32)
	BlendFuncSeparate func(srcRGB, dstRGB, srcA, dstA uint32)
	BlendEquation     func(mode uint32)
	CullFace    func(mode uint32)
	FrontFace   func(mode uint32)
	DepthFunc   func(fn uint32)
	DepthMask   func(flag bool)
	ColorMask   func(r, g, b, a bool)
	StencilFunc func(fn uint32, ref int32, mask uint32)
	StencilOp   func(fail, zfail, zpass uint32)
	PolygonMode func(mode uint32)

	// -- shaders / programs --
	CreateShader     func(shaderType uint32) uint32
	ShaderSource     func(id uint32, src string)
	CompileShader    func(id uint32)
	ShaderCompileOK  func(id uint32) (ok bool, log string)
	DeleteShader     func(id uint32)

	CreateProgram       func() uint32
	AttachShader        func(prog, shader uint32)
	DetachShader        func(prog, shader uint32)
	LinkProgram         func(prog uint32)
	ProgramLinkOK       func(prog uint32) (ok bool, log string)
	UseProgram          func(prog uint32)
	DeleteProgram       func(prog uint32)
	GetUniformLocation  func(prog uint32, name string) int32
	GetAttribLocation   func(prog uint32, name string) int32

	Uniform1i        func(loc int32, v int32)
	Uniform1f        func(loc int32, v float32)
	Uniform2f        func(loc int32, v0, v1 float32)
	Uniform3f        func(loc int32, v0, v1, v2 float32)
	Uniform4f        func(loc int32, v0, v1, v2, v3 float32)
	UniformMatrix4fv func(loc int32, value [16]float32)

	EnableVertexAttribArray  func(index uint32)
	DisableVertexAttribArray func(index uint32)
	VertexAttribPointer      func(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset int)

	DrawArrays func(mode uint32, first, count int32)
	// DrawElements draws from whatever buffer is bound to
	// glElementArrayBuffer at the given byte offset (index buffer
	// is always server-side; there is no client-memory index path).
	DrawElements func(mode uint32, count int32, xtype uint32, offset int)

	// ResetStatus probes for context loss / driver robustness. Backends without GL_ARB_robustness or
	// GL_KHR_robustness return a constant-0 function.
	ResetStatus func() uint32
}

var activeFenv *FENV

// defaultFenv is the built-in default environment; Drop leaves it valid.
var defaultFenv = &FENV{cookie: fenvCookie, tag: "default"}

// Allocate resolves every function symbol the backend needs via lookup,
// consulting required=true for symbols whose absence is a fatal programmer
// error and required=false for capability probes.
func Allocate(lookup LookupFunc, tag string) (*FENV, error) {
	tag = zdefault(tag, "gl21")
	f := &FENV{cookie: fenvCookie, tag: tag, lookup: lookup, log: slog.Default()}

	var missing []string
	must := func(name string, dst any) {
		fn, ok := lookup(tag, name, true)
		if !ok {
			missing = append(missing, name)
			return
		}
		assign(dst, fn)
	}
	optional := func(name string, dst any) bool {
		fn, ok := lookup(tag, name, false)
		if !ok {
			return false
		}
		assign(dst, fn)
		return true
	}

	must("glGenTextures", &f.GenTextures)
	must("glDeleteTextures", &f.DeleteTextures)
	must("glBindTexture", &f.BindTexture)
	must("glActiveTexture", &f.ActiveTexture)
	must("glTexImage2D", &f.TexImage2D)
	must("glTexSubImage2D", &f.TexSubImage2D)
	must("glTexParameteri", &f.TexParameteri)
	must("glGetTexImage", &f.GetTexImage)
	must("glGenerateMipmap", &f.GenerateMipmap)

	must("glGenBuffers", &f.GenBuffers)
	must("glDeleteBuffers", &f.DeleteBuffers)
	must("glBindBuffer", &f.BindBuffer)
	must("glBufferData", &f.BufferData)
	must("glBufferSubData", &f.BufferSubData)

	must("glGenFramebuffers", &f.GenFramebuffers)
	must("glDeleteFramebuffers", &f.DeleteFramebuffers)
	must("glBindFramebuffer", &f.BindFramebuffer)
	must("glFramebufferTexture2D", &f.FramebufferTexture2D)
	must("glFramebufferRenderbuffer", &f.FramebufferRenderbuffer)
	must("glCheckFramebufferStatus", &f.CheckFramebufferStatus)

	must("glGenRenderbuffers", &f.GenRenderbuffers)
	must("glDeleteRenderbuffers", &f.DeleteRenderbuffers)
	must("glBindRenderbuffer", &f.BindRenderbuffer)
	must("glRenderbufferStorage", &f.RenderbufferStorage)

	must("glViewport", &f.Viewport)
	must("glScissor", &f.Scissor)
	must("glClearColor", &f.ClearColor)
	must("glClear", &f.Clear)
	must("glEnable", &f.Enable)
	must("glDisable", &f.Disable)
	must("glBlendFuncSeparate", &f.BlendFuncSeparate)
	must("glBlendEquation", &f.BlendEquation)
	must("glCullFace", &f.CullFace)
	must("glFrontFace", &f.FrontFace)
	must("glDepthFunc", &f.DepthFunc)
	must("glDepthMask", &f.DepthMask)
	must("glColorMask", &f.ColorMask)
	must("glStencilFunc", &f.StencilFunc)
	must("glStencilOp", &f.StencilOp)

	must("glCreateShader", &f.CreateShader)
	must("glShaderSource", &f.ShaderSource)
	must("glCompileShader", &f.CompileShader)
	must("glShaderCompileOK", &f.ShaderCompileOK)
	must("glDeleteShader", &f.DeleteShader)

	must("glCreateProgram", &f.CreateProgram)
	must("glAttachShader", &f.AttachShader)
	must("glDetachShader", &f.DetachShader)
	must("glLinkProgram", &f.LinkProgram)
	must("glProgramLinkOK", &f.ProgramLinkOK)
	must("glUseProgram", &f.UseProgram)
	must("glDeleteProgram", &f.DeleteProgram)
	must("glGetUniformLocation", &f.GetUniformLocation)
	must("glGetAttribLocation", &f.GetAttribLocation)

	must("glUniform1i", &f.Uniform1i)
	must("glUniform1f", &f.Uniform1f)
	must("glUniform2f", &f.Uniform2f)
	must("glUniform3f", &f.Uniform3f)
	must("glUniform4f", &f.Uniform4f)
	must("glUniformMatrix4fv", &f.UniformMatrix4fv)

	must("glEnableVertexAttribArray", &f.EnableVertexAttribArray)
	must("glDisableVertexAttribArray", &f.DisableVertexAttribArray)
	must("glVertexAttribPointer", &f.VertexAttribPointer)

	must("glDrawArrays", &f.DrawArrays)
	must("glDrawElements", &f.DrawElements)

	if len(missing) > 0 {
		return nil, fmt.Errorf("agp: missing required GL entry points: %v", missing)
	}

	f.HasPBO = optional("glMapBufferRange", &f.MapBufferRange) && optional("glUnmapBuffer", &f.UnmapBuffer)
	f.HasTex3D = optional("glTexImage3D", &f.TexImage3D)
	f.HasMSAA = optional("glRenderbufferStorageMultisample", &f.RenderbufferStorageMultisample)
	f.HasRobustness = optional("glGetGraphicsResetStatus", &f.ResetStatus)
	optional("glPolygonMode", &f.PolygonMode)
	if !f.HasRobustness {
		f.ResetStatus = func() uint32 { return 0 }
	}

	return f, nil
}

// assign type-asserts fn into *dst's pointed-to function type. Both sides
// come from the same LookupFunc implementation, so a mismatch is a
// programmer error in the backend adapter, not a runtime condition callers
// need to recover from.
func assign[T any](dst *T, fn any) {
	*dst = fn.(T)
}

// SetActive installs env as the process-wide active FENV. AGP has no lock; this
// must only be called from the thread owning the GL context.
func SetActive(env *FENV) { activeFenv = env }

// GetActive returns the current active FENV, or nil if none was set.
func GetActive() *FENV { return activeFenv }

// Drop invalidates env's cookie and, unless env is the built-in default,
// allows it to be garbage collected. Using env after Drop is a programmer
// error detected by the cookie check in checkFenv.
func Drop(env *FENV) {
	if env == nil || env == defaultFenv {
		return
	}
	env.cookie = 0
	if activeFenv == env {
		activeFenv = nil
	}
}

// checkFenv asserts env has not been dropped, matching 's
// use-after-free cookie check.
func checkFenv(env *FENV) bool {
	return env != nil && env.cookie == fenvCookie
}

// Init applies the default pipeline state requires right after a
// backend is made active: scissor on, depth off, standard alpha blend
// factors, clockwise front face, back-face culling, blend on, black clear
// color.
func (f *FENV) Init() {
	if !checkFenv(f) {
		return
	}
	f.Enable(glScissorTest)
	f.Disable(glDepthTest)
	f.BlendFuncSeparate(glSrcAlpha, glOneMinusSrcAlpha, glOne, glOne)
	f.blend = blendFactors{enabled: true, srcRGB: glSrcAlpha, dstRGB: glOneMinusSrcAlpha, srcA: glOne, dstA: glOne}
	f.FrontFace(glCW)
	f.Enable(glCullFaceCap)
	f.CullFace(glBack)
	f.Enable(glBlend)
	f.ClearColor(0, 0, 0, 1)
	f.modelFlags = 0
	f.pipelineMode = PipelineNone
}

// ClearDefaultFramebuffer clears the color buffer of whatever framebuffer
// is currently bound (the default framebuffer if no Rendertarget is
// active). Rendertarget.Clear should be preferred when rendering into an
// offscreen target, since it also tracks the target's own clear color.
func (f *FENV) ClearDefaultFramebuffer() {
	if !checkFenv(f) {
		return
	}
	f.Clear(glColorBufferBit)
}
