package agp

// TxState is the storage state tag of a VStore.
type TxState uint8

const (
	// TxOff is an unallocated store: no GPU id, no backing buffer.
	TxOff TxState = iota
	// TxTex2D is a regular 2D texture.
	TxTex2D
	// TxDepth is a depth (or depth-stencil) texture attached to a rendertarget.
	TxDepth
	// TxCube is a 6-face cubemap, one Tex2D source per face.
	TxCube
	// TxTex3D is an N power-of-two-slice 3D texture.
	TxTex3D
	// TxTextureAtlas packs several logical images into one physical texture.
	TxTextureAtlas
)

func (s TxState) String() string {
	switch s {
	case TxOff:
		return "off"
	case TxTex2D:
		return "tex2d"
	case TxDepth:
		return "depth"
	case TxCube:
		return "cube"
	case TxTex3D:
		return "tex3d"
	case TxTextureAtlas:
		return "atlas"
	default:
		return "invalid"
	}
}

// PixelFormat tags the layout of pixel data moving between CPU and GPU.
type PixelFormat uint8

const (
	PixelRGBA8 PixelFormat = iota
	PixelRGB565
	PixelRGB10A2
	PixelRGBHalfFloat
	PixelRGBAFloat32
)

// BytesPerPixel returns the packed size in bytes of one texel in this format.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case PixelRGBA8:
		return 4
	case PixelRGB565:
		return 2
	case PixelRGB10A2:
		return 4
	case PixelRGBHalfFloat:
		return 8
	case PixelRGBAFloat32:
		return 16
	default:
		return 4
	}
}

// FilterMode is the minification/magnification filtering policy of a VStore.
type FilterMode uint8

const (
	FilterNone FilterMode = iota
	FilterLinear
	FilterBilinear
	FilterTrilinear
)

// WrapMode is the texture coordinate wrap policy along one axis.
type WrapMode uint8

const (
	WrapClampToEdge WrapMode = iota
	WrapRepeat
)

// RendertargetMode selects which attachments a Rendertarget owns.
type RendertargetMode uint8

const (
	RTDepthOnly RendertargetMode = iota
	RTColor
	RTColorDepth
	RTColorDepthStencil
	RTMSAA
)

// RetainAlphaFlag modifies a RendertargetMode to keep destination alpha
// during blending rather than overwrite it.
type RetainAlphaFlag bool

// StreamKind selects the CPU->GPU transfer strategy for VStore.StreamPrepare.
type StreamKind uint8

const (
	StreamRaw StreamKind = iota
	StreamRawCopy
	StreamRawDirect
	StreamRawDirectCopy
	StreamRawDirectSync
	StreamExtResync
	StreamHandleImport
)

// DepthFunc is the depth comparison function used when submitting a mesh.
type DepthFunc uint8

const (
	DepthLess DepthFunc = iota
	DepthLessEqual
	DepthGreater
	DepthGreaterEqual
	DepthEqual
	DepthNotEqual
	DepthAlways
	DepthNever
)

// BlendMode selects the blend equation and factor tuple for drawing.
type BlendMode uint8

const (
	BlendNone BlendMode = iota
	BlendNormal
	BlendForce
	BlendMultiply
	BlendPremultiplied
	BlendAdd
	BlendSub
)

// PipelineMode is the coarse 2D/3D pipeline hint.
type PipelineMode uint8

const (
	PipelineNone PipelineMode = iota
	Pipeline2D
	Pipeline3D
)

// MeshFlags controls culling/depth policy for SubmitMesh.
type MeshFlags uint8

const (
	FacingBoth MeshFlags = 1 << iota
	FacingFront
	FacingBack
	FacingNodepth
	FillLine
)

// UniformType is the sum type of values a shader uniform group entry or an
// environment uniform slot can hold.
type UniformType uint8

const (
	UniformBool UniformType = iota
	UniformInt
	UniformFloat
	UniformVec2
	UniformVec3
	UniformVec4
	UniformMat4x4
)

// Size returns the payload size in bytes for the uniform type, never more
// than the 64-byte payload budget of a uniform group entry.
func (t UniformType) Size() int {
	switch t {
	case UniformBool, UniformInt:
		return 4
	case UniformFloat:
		return 4
	case UniformVec2:
		return 8
	case UniformVec3:
		return 12
	case UniformVec4:
		return 16
	case UniformMat4x4:
		return 64
	default:
		return 0
	}
}

// EnvSlot indexes the fixed environment uniform table.
// The order is the ABI the engine depends on; never reorder.
type EnvSlot uint8

const (
	EnvModelview EnvSlot = iota
	EnvProjection
	EnvTexturem
	EnvObjOpacity
	EnvTransBlend
	EnvTransMove
	EnvTransScale
	EnvTransRotate
	EnvObjInputSz
	EnvObjOutputSz
	EnvObjStorageSz
	EnvRtgtID
	EnvFractTimestamp
	EnvTimestamp
	envCount
)

func (s EnvSlot) String() string {
	if int(s) < len(envSymbols) {
		return envSymbols[s]
	}
	return "invalid"
}

var envSymbols = [envCount]string{
	EnvModelview:      "modelview",
	EnvProjection:     "projection",
	EnvTexturem:       "texturem",
	EnvObjOpacity:     "obj_opacity",
	EnvTransBlend:     "trans_blend",
	EnvTransMove:      "trans_move",
	EnvTransScale:     "trans_scale",
	EnvTransRotate:    "trans_rotate",
	EnvObjInputSz:     "obj_input_sz",
	EnvObjOutputSz:    "obj_output_sz",
	EnvObjStorageSz:   "obj_storage_sz",
	EnvRtgtID:         "rtgt_id",
	EnvFractTimestamp: "fract_timestamp",
	EnvTimestamp:      "timestamp",
}

var envTypes = [envCount]UniformType{
	EnvModelview:      UniformMat4x4,
	EnvProjection:     UniformMat4x4,
	EnvTexturem:       UniformMat4x4,
	EnvObjOpacity:     UniformFloat,
	EnvTransBlend:     UniformFloat,
	EnvTransMove:      UniformFloat,
	EnvTransScale:     UniformFloat,
	EnvTransRotate:    UniformFloat,
	EnvObjInputSz:     UniformVec2,
	EnvObjOutputSz:    UniformVec2,
	EnvObjStorageSz:   UniformVec2,
	EnvRtgtID:         UniformInt,
	EnvFractTimestamp: UniformFloat,
	EnvTimestamp:      UniformInt,
}

// AttribSlot indexes the fixed vertex attribute semantics.
type AttribSlot uint8

const (
	AttribVertex AttribSlot = iota
	AttribNormal
	AttribColor
	AttribTexcoord
	AttribTexcoord1
	AttribTangent
	AttribBitangent
	AttribJoints
	AttribWeights
	attribCount
)

var attribSymbols = [attribCount]string{
	AttribVertex:    "vertex",
	AttribNormal:    "normal",
	AttribColor:     "color",
	AttribTexcoord:  "texcoord",
	AttribTexcoord1: "texcoord1",
	AttribTangent:   "tangent",
	AttribBitangent: "bitangent",
	AttribJoints:    "joints",
	AttribWeights:   "weights",
}

func (s AttribSlot) String() string {
	if int(s) < len(attribSymbols) {
		return attribSymbols[s]
	}
	return "invalid"
}

// ShaderType selects one of the three fixed default shader kinds the
// backend is asked to provide source for.
type ShaderType uint8

const (
	ShaderBasic2D ShaderType = iota
	ShaderColor2D
	ShaderBasic3D
)

// DefaultShaderSlots is the number of reserved default program slots
// (BASIC_2D, COLOR_2D, BASIC_3D); Destroy refuses to drop these.
const DefaultShaderSlots = 3

// NumShaderSlots is the size of the shader manager's slot table.
const NumShaderSlots = 256

// SwapChainLength is N, the number of color stores cycled by a
// Rendertarget's swap chain.
const SwapChainLength = 4

// SubRectUploadThreshold is the area-ratio boundary above which
// VStore.fullUploadRatio promotes a sub-rect upload to a full upload.
// StreamPrepare takes no sub-rectangle and does not consult it: every
// StreamPrepare/StreamRelease pair transfers the whole store.
const SubRectUploadThreshold = 0.5

// MaxUniformGroups bounds the number of uniform groups a single shader
// program may host.
const MaxUniformGroups = 65535

// MaxMultiTextureUnits bounds ActivateMultiTexture.
const MaxMultiTextureUnits = 100

// BrokenShader is the sentinel ShaderID returned when Build/Activate fail.
const BrokenShader ShaderID = 0xFFFFFFFF

// ShaderID packs a (slot index, group index) pair into an opaque handle.
type ShaderID uint32

func newShaderID(slot, group int) ShaderID {
	return ShaderID(uint32(slot)<<16 | uint32(group)&0xFFFF)
}

func (id ShaderID) slot() int  { return int(id >> 16) }
func (id ShaderID) group() int { return int(id & 0xFFFF) }
