//go:build !tinygo && cgo

package glprocs

import (
	"golang.org/x/mobile/gl"
)

// glesCtx is the active GLES context, installed once by the platform glue
// code that negotiated a GLES2 or GLES3 surface (mirroring how glinit.c
// picks between gl21.c and gles.c only after eglMakeCurrent succeeds).
var glesCtx gl.Context

// SetGLESContext installs the context GLES2Lookup/GLES3Lookup dispatch
// against. Must be called once, on the thread owning the context, before
// agp.Allocate is used with the "gles2" or "gles3" tag.
func SetGLESContext(ctx gl.Context) { glesCtx = ctx }

func InitGLES2() error { return nil }
func InitGLES3() error { return nil }

func u32ToBuffer(id uint32) gl.Buffer             { return gl.Buffer{Value: id} }
func u32ToTexture(id uint32) gl.Texture           { return gl.Texture{Value: id} }
func u32ToFramebuffer(id uint32) gl.Framebuffer   { return gl.Framebuffer{Value: id} }
func u32ToRenderbuffer(id uint32) gl.Renderbuffer { return gl.Renderbuffer{Value: id} }
func u32ToProgram(id uint32) gl.Program           { return gl.Program{Value: id} }
func u32ToShader(id uint32) gl.Shader             { return gl.Shader{Value: id} }

var glesTable = map[string]any{
	"glGenTextures": func(n int) []uint32 {
		ids := make([]uint32, n)
		for i := range ids {
			ids[i] = glesCtx.CreateTexture().Value
		}
		return ids
	},
	"glDeleteTextures": func(ids []uint32) {
		for _, id := range ids {
			glesCtx.DeleteTexture(u32ToTexture(id))
		}
	},
	"glBindTexture":   func(target, id uint32) { glesCtx.BindTexture(gl.Enum(target), u32ToTexture(id)) },
	"glActiveTexture": func(unit uint32) { glesCtx.ActiveTexture(gl.Enum(gl.TEXTURE0 + unit)) },
	"glTexImage2D": func(target uint32, level, internalFormat, w, h int32, format, xtype uint32, pixels []byte) {
		glesCtx.TexImage2D(gl.Enum(target), int(level), int(internalFormat), int(w), int(h), gl.Enum(format), gl.Enum(xtype), pixels)
	},
	"glTexSubImage2D": func(target uint32, level, xoff, yoff, w, h int32, format, xtype uint32, pixels []byte) {
		glesCtx.TexSubImage2D(gl.Enum(target), int(level), int(xoff), int(yoff), int(w), int(h), gl.Enum(format), gl.Enum(xtype), pixels)
	},
	"glTexParameteri": func(target, pname uint32, param int32) {
		glesCtx.TexParameteri(gl.Enum(target), gl.Enum(pname), int(param))
	},
	"glGenerateMipmap": func(target uint32) { glesCtx.GenerateMipmap(gl.Enum(target)) },

	"glGenBuffers": func(n int) []uint32 {
		ids := make([]uint32, n)
		for i := range ids {
			ids[i] = glesCtx.CreateBuffer().Value
		}
		return ids
	},
	"glDeleteBuffers": func(ids []uint32) {
		for _, id := range ids {
			glesCtx.DeleteBuffer(u32ToBuffer(id))
		}
	},
	"glBindBuffer": func(target, id uint32) { glesCtx.BindBuffer(gl.Enum(target), u32ToBuffer(id)) },
	"glBufferData": func(target uint32, data []byte, usage uint32) {
		glesCtx.BufferData(gl.Enum(target), data, gl.Enum(usage))
	},
	"glBufferSubData": func(target uint32, offset int, data []byte) {
		glesCtx.BufferSubData(gl.Enum(target), offset, data)
	},

	"glGenFramebuffers": func(n int) []uint32 {
		ids := make([]uint32, n)
		for i := range ids {
			ids[i] = glesCtx.CreateFramebuffer().Value
		}
		return ids
	},
	"glDeleteFramebuffers": func(ids []uint32) {
		for _, id := range ids {
			glesCtx.DeleteFramebuffer(u32ToFramebuffer(id))
		}
	},
	"glBindFramebuffer": func(id uint32) { glesCtx.BindFramebuffer(gl.FRAMEBUFFER, u32ToFramebuffer(id)) },
	"glFramebufferTexture2D": func(attachment, textarget, tex uint32, level int32) {
		glesCtx.FramebufferTexture2D(gl.FRAMEBUFFER, gl.Enum(attachment), gl.Enum(textarget), u32ToTexture(tex), int(level))
	},
	"glFramebufferRenderbuffer": func(attachment, rb uint32) {
		glesCtx.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.Enum(attachment), gl.RENDERBUFFER, u32ToRenderbuffer(rb))
	},
	"glCheckFramebufferStatus": func() uint32 { return uint32(glesCtx.CheckFramebufferStatus(gl.FRAMEBUFFER)) },

	"glGenRenderbuffers": func(n int) []uint32 {
		ids := make([]uint32, n)
		for i := range ids {
			ids[i] = glesCtx.CreateRenderbuffer().Value
		}
		return ids
	},
	"glDeleteRenderbuffers": func(ids []uint32) {
		for _, id := range ids {
			glesCtx.DeleteRenderbuffer(u32ToRenderbuffer(id))
		}
	},
	"glBindRenderbuffer": func(id uint32) { glesCtx.BindRenderbuffer(gl.RENDERBUFFER, u32ToRenderbuffer(id)) },
	"glRenderbufferStorage": func(internalFormat uint32, w, h int32) {
		glesCtx.RenderbufferStorage(gl.RENDERBUFFER, gl.Enum(internalFormat), int(w), int(h))
	},

	"glViewport":   func(x, y, w, h int32) { glesCtx.Viewport(int(x), int(y), int(w), int(h)) },
	"glScissor":    func(x, y, w, h int32) { glesCtx.Scissor(x, y, w, h) },
	"glClearColor": func(r, g, b, a float32) { glesCtx.ClearColor(r, g, b, a) },
	"glClear":      func(mask uint32) { glesCtx.Clear(gl.Enum(mask)) },
	"glEnable":     func(cap uint32) { glesCtx.Enable(gl.Enum(cap)) },
	"glDisable":    func(cap uint32) { glesCtx.Disable(gl.Enum(cap)) },
	"glBlendFuncSeparate": func(srcRGB, dstRGB, srcA, dstA uint32) {
		glesCtx.BlendFuncSeparate(gl.Enum(srcRGB), gl.Enum(dstRGB), gl.Enum(srcA), gl.Enum(dstA))
	},
	"glBlendEquation": func(mode uint32) { glesCtx.BlendEquation(gl.Enum(mode)) },
	"glCullFace":      func(mode uint32) { glesCtx.CullFace(gl.Enum(mode)) },
	"glFrontFace":     func(mode uint32) { glesCtx.FrontFace(gl.Enum(mode)) },
	"glDepthFunc":     func(fn uint32) { glesCtx.DepthFunc(gl.Enum(fn)) },
	"glDepthMask":     func(flag bool) { glesCtx.DepthMask(flag) },
	"glColorMask":     func(r, g, b, a bool) { glesCtx.ColorMask(r, g, b, a) },
	"glStencilFunc": func(fn uint32, ref int32, mask uint32) {
		glesCtx.StencilFunc(gl.Enum(fn), int(ref), uint32(mask))
	},
	"glStencilOp": func(fail, zfail, zpass uint32) {
		glesCtx.StencilOp(gl.Enum(fail), gl.Enum(zfail), gl.Enum(zpass))
	},

	"glCreateShader":  func(shaderType uint32) uint32 { return glesCtx.CreateShader(gl.Enum(shaderType)).Value },
	"glShaderSource":  func(id uint32, src string) { glesCtx.ShaderSource(u32ToShader(id), src) },
	"glCompileShader": func(id uint32) { glesCtx.CompileShader(u32ToShader(id)) },
	"glShaderCompileOK": func(id uint32) (bool, string) {
		s := u32ToShader(id)
		if glesCtx.GetShaderi(s, gl.COMPILE_STATUS) == gl.TRUE {
			return true, ""
		}
		return false, glesCtx.GetShaderInfoLog(s)
	},
	"glDeleteShader": func(id uint32) { glesCtx.DeleteShader(u32ToShader(id)) },

	"glCreateProgram": func() uint32 { return glesCtx.CreateProgram().Value },
	"glAttachShader": func(prog, shader uint32) {
		glesCtx.AttachShader(u32ToProgram(prog), u32ToShader(shader))
	},
	"glDetachShader": func(prog, shader uint32) {
		glesCtx.DetachShader(u32ToProgram(prog), u32ToShader(shader))
	},
	"glLinkProgram": func(prog uint32) { glesCtx.LinkProgram(u32ToProgram(prog)) },
	"glProgramLinkOK": func(prog uint32) (bool, string) {
		p := u32ToProgram(prog)
		if glesCtx.GetProgrami(p, gl.LINK_STATUS) == gl.TRUE {
			return true, ""
		}
		return false, glesCtx.GetProgramInfoLog(p)
	},
	"glUseProgram":    func(prog uint32) { glesCtx.UseProgram(u32ToProgram(prog)) },
	"glDeleteProgram": func(prog uint32) { glesCtx.DeleteProgram(u32ToProgram(prog)) },
	"glGetUniformLocation": func(prog uint32, name string) int32 {
		return int32(glesCtx.GetUniformLocation(u32ToProgram(prog), name).Value)
	},
	"glGetAttribLocation": func(prog uint32, name string) int32 {
		return int32(glesCtx.GetAttribLocation(u32ToProgram(prog), name).Value)
	},

	"glUniform1i": func(loc, v int32) { glesCtx.Uniform1i(gl.Uniform{Value: loc}, int(v)) },
	"glUniform1f": func(loc int32, v float32) { glesCtx.Uniform1f(gl.Uniform{Value: loc}, v) },
	"glUniform2f": func(loc int32, v0, v1 float32) { glesCtx.Uniform2f(gl.Uniform{Value: loc}, v0, v1) },
	"glUniform3f": func(loc int32, v0, v1, v2 float32) { glesCtx.Uniform3f(gl.Uniform{Value: loc}, v0, v1, v2) },
	"glUniform4f": func(loc int32, v0, v1, v2, v3 float32) {
		glesCtx.Uniform4f(gl.Uniform{Value: loc}, v0, v1, v2, v3)
	},
	"glUniformMatrix4fv": func(loc int32, value [16]float32) {
		glesCtx.UniformMatrix4fv(gl.Uniform{Value: loc}, value[:])
	},

	"glEnableVertexAttribArray":  func(index uint32) { glesCtx.EnableVertexAttribArray(gl.Attrib{Value: uint(index)}) },
	"glDisableVertexAttribArray": func(index uint32) { glesCtx.DisableVertexAttribArray(gl.Attrib{Value: uint(index)}) },
	"glVertexAttribPointer": func(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset int) {
		glesCtx.VertexAttribPointer(gl.Attrib{Value: uint(index)}, int(size), gl.Enum(xtype), normalized, int(stride), offset)
	},

	"glDrawArrays": func(mode uint32, first, count int32) { glesCtx.DrawArrays(gl.Enum(mode), int(first), int(count)) },
	"glDrawElements": func(mode uint32, count int32, xtype uint32, offset int) {
		glesCtx.DrawElements(gl.Enum(mode), int(count), gl.Enum(xtype), offset)
	},
}

// GLES2Lookup implements agp.LookupFunc for an ES2 surface. It omits PBO
// mapping and 3D textures and MSAA renderbuffers, which ES2 never exposes
// (the caller's optional() probes fail closed and the corresponding FENV
// feature flags stay false).
func GLES2Lookup(tag, name string, required bool) (any, bool) {
	if tag != "gles2" {
		return nil, false
	}
	fn, ok := glesTable[name]
	return fn, ok
}

// GLES3Lookup dispatches against the same x/mobile/gl context as
// GLES2Lookup. x/mobile/gl only binds the ES2 entry points, so the ES3-only
// symbols (glTexImage3D, glRenderbufferStorageMultisample) are left
// unresolved here; FENV.Allocate's optional() probes see them absent and
// clear HasTex3D/HasMSAA rather than fail, exactly as they would against a
// genuine ES3 driver lacking an extension.
func GLES3Lookup(tag, name string, required bool) (any, bool) {
	if tag != "gles3" {
		return nil, false
	}
	fn, ok := glesTable[name]
	return fn, ok
}
