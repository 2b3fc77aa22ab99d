//go:build !tinygo && cgo

package glprocs

import (
	"runtime"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v2.1/gl"
)

// InitGL21 must be called once, with the target GL context current, before
// any function GL21Lookup hands out is invoked.
func InitGL21() error { return gl.Init() }

func bytesPtr(b []byte) unsafe.Pointer {
	if len(b) == 0 {
		return nil
	}
	return gl.Ptr(&b[0])
}

func u32Ptr(s []uint32) *uint32 {
	if len(s) == 0 {
		return nil
	}
	return &s[0]
}

var gl21Table = map[string]any{
	"glGenTextures": func(n int) []uint32 {
		ids := make([]uint32, n)
		gl.GenTextures(int32(n), u32Ptr(ids))
		return ids
	},
	"glDeleteTextures": func(ids []uint32) {
		if len(ids) == 0 {
			return
		}
		gl.DeleteTextures(int32(len(ids)), &ids[0])
	},
	"glBindTexture":   func(target, id uint32) { gl.BindTexture(target, id) },
	"glActiveTexture": func(unit uint32) { gl.ActiveTexture(gl.TEXTURE0 + unit) },
	"glTexImage2D": func(target uint32, level, internalFormat, w, h int32, format, xtype uint32, pixels []byte) {
		gl.TexImage2D(target, level, internalFormat, w, h, 0, format, xtype, bytesPtr(pixels))
	},
	"glTexSubImage2D": func(target uint32, level, xoff, yoff, w, h int32, format, xtype uint32, pixels []byte) {
		gl.TexSubImage2D(target, level, xoff, yoff, w, h, format, xtype, bytesPtr(pixels))
	},
	"glTexImage3D": func(target uint32, level, internalFormat, w, h, depth int32, format, xtype uint32, pixels []byte) {
		gl.TexImage3D(target, level, internalFormat, w, h, depth, 0, format, xtype, bytesPtr(pixels))
	},
	"glTexParameteri": func(target, pname uint32, param int32) { gl.TexParameteri(target, pname, param) },
	"glGetTexImage": func(target uint32, level int32, format, xtype uint32, dst []byte) {
		gl.GetTexImage(target, level, format, xtype, bytesPtr(dst))
	},
	"glGenerateMipmap": func(target uint32) { gl.GenerateMipmap(target) },

	"glGenBuffers": func(n int) []uint32 {
		ids := make([]uint32, n)
		gl.GenBuffers(int32(n), u32Ptr(ids))
		return ids
	},
	"glDeleteBuffers": func(ids []uint32) {
		if len(ids) == 0 {
			return
		}
		gl.DeleteBuffers(int32(len(ids)), &ids[0])
	},
	"glBindBuffer": func(target, id uint32) { gl.BindBuffer(target, id) },
	"glBufferData": func(target uint32, data []byte, usage uint32) {
		gl.BufferData(target, len(data), bytesPtr(data), usage)
	},
	"glBufferSubData": func(target uint32, offset int, data []byte) {
		gl.BufferSubData(target, offset, len(data), bytesPtr(data))
	},
	"glMapBufferRange": func(target uint32, offset, length int, access uint32) []byte {
		p := gl.MapBufferRange(target, offset, length, access)
		if p == nil {
			return nil
		}
		var out []byte
		sh := (*struct {
			Data uintptr
			Len  int
			Cap  int
		})(unsafe.Pointer(&out))
		sh.Data = uintptr(p)
		sh.Len = length
		sh.Cap = length
		runtime.KeepAlive(p)
		return out
	},
	"glUnmapBuffer": func(target uint32) bool { return gl.UnmapBuffer(target) },

	"glGenFramebuffers": func(n int) []uint32 {
		ids := make([]uint32, n)
		gl.GenFramebuffers(int32(n), u32Ptr(ids))
		return ids
	},
	"glDeleteFramebuffers": func(ids []uint32) {
		if len(ids) == 0 {
			return
		}
		gl.DeleteFramebuffers(int32(len(ids)), &ids[0])
	},
	"glBindFramebuffer": func(id uint32) { gl.BindFramebuffer(gl.FRAMEBUFFER, id) },
	"glFramebufferTexture2D": func(attachment, textarget, tex uint32, level int32) {
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, attachment, textarget, tex, level)
	},
	"glFramebufferRenderbuffer": func(attachment, rb uint32) {
		gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, attachment, gl.RENDERBUFFER, rb)
	},
	"glCheckFramebufferStatus": func() uint32 { return gl.CheckFramebufferStatus(gl.FRAMEBUFFER) },

	"glGenRenderbuffers": func(n int) []uint32 {
		ids := make([]uint32, n)
		gl.GenRenderbuffers(int32(n), u32Ptr(ids))
		return ids
	},
	"glDeleteRenderbuffers": func(ids []uint32) {
		if len(ids) == 0 {
			return
		}
		gl.DeleteRenderbuffers(int32(len(ids)), &ids[0])
	},
	"glBindRenderbuffer": func(id uint32) { gl.BindRenderbuffer(gl.RENDERBUFFER, id) },
	"glRenderbufferStorage": func(internalFormat uint32, w, h int32) {
		gl.RenderbufferStorage(gl.RENDERBUFFER, internalFormat, w, h)
	},
	"glRenderbufferStorageMultisample": func(samples int32, internalFormat uint32, w, h int32) {
		gl.RenderbufferStorageMultisample(gl.RENDERBUFFER, samples, internalFormat, w, h)
	},

	"glViewport":   func(x, y, w, h int32) { gl.Viewport(x, y, w, h) },
	"glScissor":    func(x, y, w, h int32) { gl.Scissor(x, y, w, h) },
	"glClearColor": func(r, g, b, a float32) { gl.ClearColor(r, g, b, a) },
	"glClear":      func(mask uint32) { gl.Clear(mask) },
	"glEnable":     func(cap uint32) { gl.Enable(cap) },
	"glDisable":    func(cap uint32) { gl.Disable(cap) },
	"glBlendFuncSeparate": func(srcRGB, dstRGB, srcA, dstA uint32) {
		gl.BlendFuncSeparate(srcRGB, dstRGB, srcA, dstA)
	},
	"glBlendEquation": func(mode uint32) { gl.BlendEquation(mode) },
	"glCullFace":      func(mode uint32) { gl.CullFace(mode) },
	"glFrontFace":     func(mode uint32) { gl.FrontFace(mode) },
	"glDepthFunc":     func(fn uint32) { gl.DepthFunc(fn) },
	"glDepthMask":     func(flag bool) { gl.DepthMask(flag) },
	"glColorMask":     func(r, g, b, a bool) { gl.ColorMask(r, g, b, a) },
	"glStencilFunc": func(fn uint32, ref int32, mask uint32) {
		gl.StencilFunc(fn, ref, mask)
	},
	"glStencilOp": func(fail, zfail, zpass uint32) { gl.StencilOp(fail, zfail, zpass) },
	"glPolygonMode": func(mode uint32) {
		gl.PolygonMode(gl.FRONT_AND_BACK, mode)
	},

	"glCreateShader":  func(shaderType uint32) uint32 { return gl.CreateShader(shaderType) },
	"glShaderSource":  func(id uint32, src string) { glShaderSourceImpl(id, src) },
	"glCompileShader": func(id uint32) { gl.CompileShader(id) },
	"glShaderCompileOK": func(id uint32) (bool, string) {
		var status int32
		gl.GetShaderiv(id, gl.COMPILE_STATUS, &status)
		if status == gl.TRUE {
			return true, ""
		}
		return false, shaderInfoLog(id)
	},
	"glDeleteShader": func(id uint32) { gl.DeleteShader(id) },

	"glCreateProgram": func() uint32 { return gl.CreateProgram() },
	"glAttachShader":  func(prog, shader uint32) { gl.AttachShader(prog, shader) },
	"glDetachShader":  func(prog, shader uint32) { gl.DetachShader(prog, shader) },
	"glLinkProgram":   func(prog uint32) { gl.LinkProgram(prog) },
	"glProgramLinkOK": func(prog uint32) (bool, string) {
		var status int32
		gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
		if status == gl.TRUE {
			return true, ""
		}
		return false, programInfoLog(prog)
	},
	"glUseProgram":    func(prog uint32) { gl.UseProgram(prog) },
	"glDeleteProgram": func(prog uint32) { gl.DeleteProgram(prog) },
	"glGetUniformLocation": func(prog uint32, name string) int32 {
		return gl.GetUniformLocation(prog, gl.Str(name+"\x00"))
	},
	"glGetAttribLocation": func(prog uint32, name string) int32 {
		return gl.GetAttribLocation(prog, gl.Str(name+"\x00"))
	},

	"glUniform1i": func(loc, v int32) { gl.Uniform1i(loc, v) },
	"glUniform1f": func(loc int32, v float32) { gl.Uniform1f(loc, v) },
	"glUniform2f": func(loc int32, v0, v1 float32) { gl.Uniform2f(loc, v0, v1) },
	"glUniform3f": func(loc int32, v0, v1, v2 float32) { gl.Uniform3f(loc, v0, v1, v2) },
	"glUniform4f": func(loc int32, v0, v1, v2, v3 float32) { gl.Uniform4f(loc, v0, v1, v2, v3) },
	"glUniformMatrix4fv": func(loc int32, value [16]float32) {
		gl.UniformMatrix4fv(loc, 1, false, &value[0])
	},

	"glEnableVertexAttribArray":  func(index uint32) { gl.EnableVertexAttribArray(index) },
	"glDisableVertexAttribArray": func(index uint32) { gl.DisableVertexAttribArray(index) },
	"glVertexAttribPointer": func(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset int) {
		gl.VertexAttribPointerWithOffset(index, size, xtype, normalized, stride, uintptr(offset))
	},

	"glDrawArrays": func(mode uint32, first, count int32) { gl.DrawArrays(mode, first, count) },
	"glDrawElements": func(mode uint32, count int32, xtype uint32, offset int) {
		gl.DrawElements(mode, count, xtype, gl.PtrOffset(offset))
	},
}

func glShaderSourceImpl(id uint32, src string) {
	csrc, free := gl.Strs(src + "\x00")
	length := int32(len(src))
	gl.ShaderSource(id, 1, csrc, &length)
	free()
}

func shaderInfoLog(id uint32) string {
	var n int32
	gl.GetShaderiv(id, gl.INFO_LOG_LENGTH, &n)
	if n == 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(n))
	gl.GetShaderInfoLog(id, n, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func programInfoLog(id uint32) string {
	var n int32
	gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &n)
	if n == 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(n))
	gl.GetProgramInfoLog(id, n, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

// GL21Lookup implements agp.LookupFunc for the desktop GL2.1 backend
// (gl21.c equivalent). GLES2 lacks glMapBufferRange/glUnmapBuffer
// and glTexImage3D; GL2.1 always has PBO and fixed-function core entry
// points so every symbol here is a plain map lookup.
func GL21Lookup(tag, name string, required bool) (any, bool) {
	if tag != "gl21" {
		return nil, false
	}
	fn, ok := gl21Table[name]
	return fn, ok
}
