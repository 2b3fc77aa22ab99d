package agp

// blendFuncFor resolves a BlendMode into (equation, srcRGB, dstRGB) given
// the backend's globally configured alpha factors, mirroring
// agp_blendstate's switch exactly.
func blendFuncFor(mode BlendMode) (equation, srcRGB, dstRGB uint32, enable bool) {
	switch mode {
	case BlendNone:
		return glFuncAdd, 0, 0, false
	case BlendForce, BlendNormal:
		return glFuncAdd, glSrcAlpha, glOneMinusSrcAlpha, true
	case BlendMultiply:
		return glFuncAdd, glDstColor, glOneMinusSrcAlpha, true
	case BlendPremultiplied:
		return glFuncAdd, glOne, glOneMinusSrcAlpha, true
	case BlendAdd:
		return glFuncAdd, glOne, glOne, true
	case BlendSub:
		return glFuncReverseSubtract, glOne, glOneMinusSrcAlpha, true
	default:
		return glFuncAdd, glSrcAlpha, glOneMinusSrcAlpha, true
	}
}

// SetBlendMode applies a blend mode, skipping redundant GL calls when
// nothing changed from the FENV's cached state.
func (f *FENV) SetBlendMode(mode BlendMode, alphaSrc, alphaDst uint32) {
	if !checkFenv(f) {
		return
	}
	equation, srcRGB, dstRGB, enable := blendFuncFor(mode)
	if !enable {
		if f.blend.enabled {
			f.Disable(glBlend)
			f.blend.enabled = false
		}
		return
	}
	if !f.blend.enabled {
		f.Enable(glBlend)
		f.blend.enabled = true
	}
	if f.blend.srcRGB == srcRGB && f.blend.dstRGB == dstRGB && f.blend.srcA == alphaSrc && f.blend.dstA == alphaDst && f.blend.equation == equation {
		return
	}
	f.BlendEquation(equation)
	f.BlendFuncSeparate(srcRGB, dstRGB, alphaSrc, alphaDst)
	f.blend = blendFactors{enabled: true, srcRGB: srcRGB, dstRGB: dstRGB, srcA: alphaSrc, dstA: alphaDst, equation: equation}
}

// PipelineHint switches the coarse 2D/3D pipeline side effects (depth test,
// face culling), a no-op if env is already in the requested mode.
func (f *FENV) PipelineHint(mode PipelineMode) {
	if !checkFenv(f) || f.pipelineMode == mode {
		return
	}
	switch mode {
	case Pipeline2D:
		f.Disable(glDepthTest)
		f.Disable(glCullFaceCap)
	case Pipeline3D:
		f.Enable(glDepthTest)
		f.Enable(glCullFaceCap)
		f.CullFace(glBack)
	}
	f.pipelineMode = mode
}

// StencilGatePrepare begins a stencil mask pass: subsequent draws replace
// the stencil buffer with 1 wherever they rasterize, without touching the
// color buffer.
func (f *FENV) StencilGatePrepare() {
	if !checkFenv(f) {
		return
	}
	f.Enable(glStencilTest)
	f.StencilFunc(glAlways, 1, 0xFF)
	f.StencilOp(glKeep, glKeep, glReplace)
	f.ColorMask(false, false, false, false)
}

// StencilGateActivate restricts subsequent draws to the region a prior
// StencilGatePrepare pass marked with 1.
func (f *FENV) StencilGateActivate() {
	if !checkFenv(f) {
		return
	}
	f.ColorMask(true, true, true, true)
	f.StencilFunc(glEqual, 1, 0xFF)
	f.StencilOp(glKeep, glKeep, glKeep)
}

// StencilGateDisable turns the stencil test back off and restores the
// color mask.
func (f *FENV) StencilGateDisable() {
	if !checkFenv(f) {
		return
	}
	f.Disable(glStencilTest)
	f.ColorMask(true, true, true, true)
}

// DrawQuad issues the textured-quad fast path (agp_draw_vobj): push
// the model matrix into MODELVIEW, bind the vertex/texcoord attributes from
// client-supplied corner/texcoord arrays, and draw a triangle fan. rt, when
// non-nil, is marked dirty over the quad's draw rectangle.
func DrawQuad(env *FENV, mgr *ShaderManager, rt *Rendertarget, x1, y1, x2, y2 float32, txcos, model *[16]float32) {
	if !checkFenv(env) {
		return
	}
	if model != nil {
		mgr.Envv(EnvModelview, model[:])
	} else {
		mgr.Envv(EnvModelview, identMat4[:])
	}

	s, err := mgr.lookupSlot(mgr.active)
	if err != nil {
		return
	}
	mgr.pushEnv(s)

	verts := [8]float32{x1, y1, x2, y1, x2, y2, x1, y2}
	attrindv := s.attrLoc[AttribVertex]
	if attrindv < 0 {
		return
	}
	env.EnableVertexAttribArray(uint32(attrindv))
	bindClientAttrib(env, uint32(attrindv), 2, verts[:])

	settex := false
	attrindt := s.attrLoc[AttribTexcoord]
	if txcos != nil && attrindt >= 0 {
		settex = true
		env.EnableVertexAttribArray(uint32(attrindt))
		bindClientAttrib(env, uint32(attrindt), 2, txcos[:8])
	}

	env.DrawArrays(glTriangleFan, 0, 4)

	if settex {
		env.DisableVertexAttribArray(uint32(attrindt))
	}
	env.DisableVertexAttribArray(uint32(attrindv))

	if rt != nil {
		rt.Dirty(x1, y1, x2, y2)
	}
}

// bindClientAttrib uploads client-side float data through a transient VBO:
// GLES2/GLES3 backends built on x/mobile/gl have no client-memory vertex
// attribute path, unlike desktop GL2.1, so the draw path always goes
// through a small scratch buffer instead of pointer-based attributes.
func bindClientAttrib(env *FENV, index uint32, size int32, data []float32) {
	buf := env.GenBuffers(1)[0]
	env.BindBuffer(glArrayBuffer, buf)
	env.BufferData(glArrayBuffer, f32AsBytesLE(data), glStreamDraw)
	env.VertexAttribPointer(index, size, glFloat, false, 0, 0)
	env.DeleteBuffers([]uint32{buf})
}

func f32AsBytesLE(s []float32) []byte {
	out := make([]byte, len(s)*4)
	for i, v := range s {
		putF32(out[i*4:i*4+4], v)
	}
	return out
}

var identMat4 = [16]float32{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 1,
}

// SubmitMesh binds a Mesh's attribute channels per flags and issues its
// draw call (agp_submit_mesh): an indexed draw_elements when the mesh has
// an index buffer, a plain draw_arrays otherwise, or a point-cloud
// draw_arrays bracketed by VERTEX_PROGRAM_POINT_SIZE enable/disable when
// DrawMode is glPoints.
func SubmitMesh(env *FENV, mgr *ShaderManager, m *Mesh, flags MeshFlags, df DepthFunc) {
	if !checkFenv(env) || m == nil {
		return
	}
	s, err := mgr.lookupSlot(mgr.active)
	if err != nil {
		return
	}
	mgr.pushEnv(s)

	if flags&FacingNodepth != 0 {
		env.DepthMask(false)
	} else {
		env.DepthMask(true)
		env.DepthFunc(glDepthFuncGL(df))
	}
	switch {
	case flags&FacingBoth != 0:
		env.Disable(glCullFaceCap)
	case flags&FacingBack != 0:
		env.Enable(glCullFaceCap)
		env.CullFace(glFront)
	default:
		env.Enable(glCullFaceCap)
		env.CullFace(glBack)
	}
	if flags&FillLine != 0 && env.PolygonMode != nil {
		env.PolygonMode(glLineMode)
	} else if env.PolygonMode != nil {
		env.PolygonMode(glFillMode)
	}

	env.BindBuffer(glArrayBuffer, m.VBO)
	active := make([]uint32, 0, attribCount)
	for slot := AttribSlot(0); slot < attribCount; slot++ {
		off := m.Offsets[slot]
		if off < 0 {
			continue
		}
		loc := s.attrLoc[slot]
		if loc < 0 {
			continue
		}
		env.EnableVertexAttribArray(uint32(loc))
		env.VertexAttribPointer(uint32(loc), attribComponents(slot), glFloat, false, m.Stride, off)
		active = append(active, uint32(loc))
	}

	switch {
	case m.DrawMode == glPoints:
		env.Enable(glVertexProgramPointSize)
		env.DrawArrays(m.DrawMode, 0, int32(m.NVerts))
		env.Disable(glVertexProgramPointSize)
	case m.IBO != 0:
		env.BindBuffer(glElementArrayBuffer, m.IBO)
		env.DrawElements(m.DrawMode, int32(m.NIndices), 0x1405 /* GL_UNSIGNED_INT */, 0)
	default:
		env.DrawArrays(m.DrawMode, 0, int32(m.NVerts))
	}

	for _, loc := range active {
		env.DisableVertexAttribArray(loc)
	}
}

func attribComponents(slot AttribSlot) int32 {
	switch slot {
	case AttribTexcoord, AttribTexcoord1:
		return 2
	case AttribColor:
		return 4
	case AttribWeights:
		return 4
	case AttribJoints:
		return 4
	default:
		return 3
	}
}

func glDepthFuncGL(df DepthFunc) uint32 {
	switch df {
	case DepthLess:
		return glLess
	case DepthLessEqual:
		return glLequal
	case DepthGreater:
		return glGreater
	case DepthGreaterEqual:
		return glGequal
	case DepthEqual:
		return glEqual
	case DepthNotEqual:
		return glNotequal
	case DepthAlways:
		return glAlways
	case DepthNever:
		return glNever
	default:
		return glLess
	}
}

// ActivateMultiTexture binds up to MaxMultiTextureUnits stores to
// consecutive texture units and records each unit index as the "map_tuN"
// uniform of the active shader group (agp_activate_vstore_multi). The
// uniform values are not pushed to GL here; they take effect on that
// group's next ShaderManager.Activate.
func ActivateMultiTexture(env *FENV, mgr *ShaderManager, stores []*VStore) {
	if !checkFenv(env) {
		return
	}
	n := len(stores)
	if n > MaxMultiTextureUnits {
		n = MaxMultiTextureUnits
	}
	for i := 0; i < n; i++ {
		env.ActiveTexture(uint32(i))
		env.BindTexture(glTexture2D, stores[i].ResolveTexID())
		_ = mgr.ForceUnif(mgr.active, mapTUName(i), UniformInt, []float32{float32(i)})
	}
	env.ActiveTexture(0)
}

func mapTUName(i int) string {
	if i < 10 {
		return "map_tu" + string(rune('0'+i))
	}
	return "map_tu" + string(rune('0'+i/10)) + string(rune('0'+i%10))
}
