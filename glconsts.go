package agp

// GL enum values FENV.Init and the draw-state helpers need directly,
// independent of which backend package (gl21, gles2, gles3) a LookupFunc
// was built from. These mirror the GL/GLES wire values exactly (they are
// not ABI we own), so they never need a backend-specific lookup.
const (
	glScissorTest = 0x0C11
	glDepthTest   = 0x0B71
	glBlend       = 0x0BE2
	glCullFaceCap = 0x0B44

	glCW  = 0x0900
	glCCW = 0x0901

	glFront        = 0x0404
	glBack         = 0x0405
	glFrontAndBack = 0x0408

	glSrcAlpha          = 0x0302
	glOneMinusSrcAlpha  = 0x0303
	glOne               = 1
	glZero              = 0
	glDstColor          = 0x0306
	glOneMinusDstColor  = 0x0307
	glSrcColor          = 0x0300
	glOneMinusSrcColor  = 0x0301

	glFuncAdd             = 0x8006
	glFuncReverseSubtract = 0x800B

	glColorBufferBit   = 0x4000
	glDepthBufferBit   = 0x0100
	glStencilBufferBit = 0x0400

	glTexture2D   = 0x0DE1
	glTextureCube = 0x8513
	glTexture3D   = 0x806F

	glTriangles    = 0x0004
	glTriangleFan  = 0x0006
	glLines        = 0x0001
	glLineLoop     = 0x0002

	glRGBA            = 0x1908
	glRGB             = 0x1907
	glUnsignedByte    = 0x1401
	glUnsignedShort565 = 0x8363
	glFloat           = 0x1406
	glHalfFloat       = 0x140B

	glLess    = 0x0201
	glLequal  = 0x0203
	glGreater = 0x0204
	glGequal  = 0x0206
	glEqual   = 0x0202
	glNotequal = 0x0205
	glAlways  = 0x0207
	glNever   = 0x0200

	glClampToEdge = 0x812F
	glRepeat      = 0x2901
	glLinear      = 0x2601
	glNearest     = 0x2600
	glLinearMipmapLinear = 0x2703

	glFramebufferComplete    = 0x8CD5
	glIncompleteAttachment   = 0x8CD6
	glColorAttachment0       = 0x8CE0
	glDepthAttachment        = 0x8D00
	glDepthStencilAttach     = 0x821A

	glArrayBuffer        = 0x8892
	glElementArrayBuffer = 0x8893
	glPixelPackBuffer    = 0x88EB
	glPixelUnpackBuffer  = 0x88EC
	glStaticDraw         = 0x88E4
	glDynamicDraw        = 0x88E8
	glStreamDraw         = 0x88E0

	glTextureCubeMapPosX = 0x8515

	glPoints                 = 0x0000
	glVertexProgramPointSize = 0x8642
	glFillMode               = 0x1B02
	glLineMode               = 0x1B01

	glStencilTest = 0x0B90
	glKeep        = 0x1E00
	glReplace     = 0x1E01
)
