package agp

// Mesh is a vertex/index buffer pair (or a non-indexed/point-cloud vertex
// buffer alone) plus per-attribute channel offsets, ready for SubmitMesh.
type Mesh struct {
	VBO, IBO uint32
	NVerts   int
	NIndices int
	Stride   int32
	Offsets  [attribCount]int // byte offset of each attribute channel within one vertex, -1 if absent
	DrawMode uint32           // glTriangles, glTriangleFan, glPoints, ...
}

// NewMesh uploads interleaved vertex data and an index list into a fresh
// VBO/IBO pair (agp_new_mesh / setup_transfer upload half). A nil or empty
// indices list produces a non-indexed mesh (IBO stays 0); SubmitMesh then
// issues a draw_arrays instead of draw_elements. Every index is validated
// against the vertex count once, here, instead of on every draw call.
func NewMesh(env *FENV, vertices []byte, indices []uint32, stride int32, offsets [attribCount]int) (*Mesh, error) {
	if !checkFenv(env) {
		return nil, ErrBackendMissing
	}
	nverts := len(vertices) / int(stride)
	for _, idx := range indices {
		if int(idx) >= nverts {
			return nil, ErrBadDimensions
		}
	}

	vbo := env.GenBuffers(1)[0]
	env.BindBuffer(glArrayBuffer, vbo)
	env.BufferData(glArrayBuffer, vertices, glStaticDraw)

	m := &Mesh{
		VBO:      vbo,
		NVerts:   nverts,
		Stride:   stride,
		Offsets:  offsets,
		DrawMode: glTriangles,
	}

	if len(indices) > 0 {
		ibo := env.GenBuffers(1)[0]
		env.BindBuffer(glElementArrayBuffer, ibo)
		env.BufferData(glElementArrayBuffer, u32AsBytesLE(indices), glStaticDraw)
		m.IBO = ibo
		m.NIndices = len(indices)
	}

	return m, nil
}

// NewPointCloud uploads vertex data with no index buffer and DrawMode set
// to glPoints, for SubmitMesh's point-cloud draw path (a draw_arrays call
// bracketed by VERTEX_PROGRAM_POINT_SIZE enable/disable).
func NewPointCloud(env *FENV, vertices []byte, stride int32, offsets [attribCount]int) (*Mesh, error) {
	m, err := NewMesh(env, vertices, nil, stride, offsets)
	if err != nil {
		return nil, err
	}
	m.DrawMode = glPoints
	return m, nil
}

// Drop releases the mesh's GPU buffers.
func (m *Mesh) Drop(env *FENV) {
	if !checkFenv(env) {
		return
	}
	if m.IBO != 0 {
		env.DeleteBuffers([]uint32{m.VBO, m.IBO})
	} else {
		env.DeleteBuffers([]uint32{m.VBO})
	}
	m.VBO, m.IBO = 0, 0
}

// u32AsBytesLE packs a uint32 index list little-endian, matching the wire
// layout GL_UNSIGNED_INT buffers expect on every platform this backend
// targets.
func u32AsBytesLE(s []uint32) []byte {
	out := make([]byte, len(s)*4)
	for i, v := range s {
		out[i*4] = byte(v)
		out[i*4+1] = byte(v >> 8)
		out[i*4+2] = byte(v >> 16)
		out[i*4+3] = byte(v >> 24)
	}
	return out
}
