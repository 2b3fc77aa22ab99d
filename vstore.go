package agp

import (
	"fmt"
	"log/slog"
)

// HDRMetadata carries display-color metadata alongside a VStore's pixel
// content. No GL2.1/GLES entry point consumes it; it only gives
// an HDR-aware compositor reading the store downstream somewhere to put
// color-space information.
type HDRMetadata struct {
	EOTF, Primaries            [8]float32
	MaxLuminance, MinLuminance float32
	MaxCLL, MaxFALL            float32
}

// ExternalPlane describes one plane of an externally allocated multi-plane
// image (e.g. a DMA-BUF or EGLImage-backed video frame) a MapBufferFunc
// binds into a VStore's 2D GPU id.
type ExternalPlane struct {
	Handle uintptr
	Stride int32
	Offset int32
}

// MapBufferFunc is the platform capability StreamPrepare(..., StreamHandleImport)
// calls to bind an externally supplied multi-plane image into a VStore's
// already-bound 2D texture id (platform_video_map_buffer). It reports
// success/failure; the caller does not interpret planes itself. Called
// again with a nil planes slice when the store is Dropped, so the importer
// can release the external handle (the "handle = -1" notification).
type MapBufferFunc func(v *VStore, planes []ExternalPlane) bool

// VStore is a refcounted GPU texture object. The zero value is
// TxOff: unallocated, no GL id, no backing buffer.
type VStore struct {
	state TxState

	glid      uint32
	glidValid bool    // mirrors native glid validity
	glidProxy *VStore // non-nil: ResolveTexID resolves through this store instead of glid

	refcount int

	w, h           int
	srcFmt, dstFmt PixelFormat
	filter         FilterMode
	wrapS, wrapT   WrapMode

	backing []byte // CPU-side mirror, present only when the store keeps one

	sliceSrc []*VStore // Cube (6) or Tex3D (power-of-two N) slice sources set by SliceBacking

	readPBO, writePBO uint32
	pboValid          bool

	external bool // populated via StreamPrepare/HandleImport rather than Update
	importFn MapBufferFunc
	updateTS int64

	hdr HDRMetadata

	log *slog.Logger
}

// NewVStore constructs an unallocated VStore ready for Empty/EmptyExt.
func NewVStore() *VStore {
	return &VStore{log: slog.Default()}
}

// State reports the storage state tag.
func (v *VStore) State() TxState { return v.state }

// Retain increments the refcount; multiple scene objects may share one
// VStore's backing texture.
func (v *VStore) Retain() { v.refcount++ }

// SetImporter installs the platform capability StreamPrepare(StreamHandleImport)
// uses to bind an externally allocated image into this store, and that Drop
// notifies (with a nil plane list, standing in for the native "handle = -1")
// once the store's external content is released.
func (v *VStore) SetImporter(fn MapBufferFunc) { v.importFn = fn }

// SetProxy installs target as this store's glid_proxy indirection: every
// subsequent ResolveTexID/Activate resolves through target instead of this
// store's own GL id, letting an external holder of the reference store
// observe a rendertarget swap chain's live front buffer without rebinding.
// Re-seating the pointer (rather than copying target's id once) is what
// keeps it live across further swaps; target is never copied by value, so
// there's no dangling reference once target's own id changes underneath.
// A nil target clears the indirection, and so does v itself: a store that
// proxies to itself resolves to its own id.
func (v *VStore) SetProxy(target *VStore) {
	if target == v {
		target = nil
	}
	v.glidProxy = target
}

// Empty allocates (or re-allocates) the store as an empty w*h Tex2D with no
// pixel content uploaded yet.
func (v *VStore) Empty(env *FENV, w, h int) error {
	if w <= 0 || h <= 0 {
		return ErrBadDimensions
	}
	if !checkFenv(env) {
		return ErrBackendMissing
	}
	v.w, v.h = w, h
	v.state = TxTex2D
	v.srcFmt, v.dstFmt = PixelRGBA8, PixelRGBA8
	if v.refcount == 0 {
		v.refcount = 1
	}
	if v.glid == 0 {
		ids := env.GenTextures(1)
		v.glid = ids[0]
	}
	v.glidValid = true
	env.BindTexture(glTexture2D, v.glid)
	v.applyParams(env)
	env.TexImage2D(glTexture2D, 0, glRGBA, int32(w), int32(h), glRGBA, glUnsignedByte, nil)
	v.updateTS = nowMillis()
	return nil
}

// EmptyExt allocates a store with an explicit source/destination pixel
// format pair.
func (v *VStore) EmptyExt(env *FENV, w, h int, src, dst PixelFormat, state TxState) error {
	if w <= 0 || h <= 0 {
		return ErrBadDimensions
	}
	if !checkFenv(env) {
		return ErrBackendMissing
	}
	v.w, v.h = w, h
	v.state = state
	v.srcFmt, v.dstFmt = src, dst
	if v.refcount == 0 {
		v.refcount = 1
	}
	if v.glid == 0 {
		ids := env.GenTextures(1)
		v.glid = ids[0]
	}
	v.glidValid = true
	target := uint32(glTexture2D)
	env.BindTexture(target, v.glid)
	v.applyParams(env)
	internal, format, xtype := pixelFormatGL(dst, state)
	env.TexImage2D(target, 0, internal, int32(w), int32(h), format, xtype, nil)
	v.updateTS = nowMillis()
	return nil
}

func (v *VStore) applyParams(env *FENV) {
	wrapS, wrapT := glWrap(v.wrapS), glWrap(v.wrapT)
	env.TexParameteri(glTexture2D, 0x2802, wrapS) // GL_TEXTURE_WRAP_S
	env.TexParameteri(glTexture2D, 0x2803, wrapT) // GL_TEXTURE_WRAP_T
	minF, magF := glFilter(v.filter)
	env.TexParameteri(glTexture2D, 0x2801, magF) // GL_TEXTURE_MAG_FILTER
	env.TexParameteri(glTexture2D, 0x2800, minF) // GL_TEXTURE_MIN_FILTER
}

func glWrap(w WrapMode) int32 {
	w = zdefault(w, WrapClampToEdge)
	if w == WrapRepeat {
		return glRepeat
	}
	return glClampToEdge
}

func glFilter(f FilterMode) (min, mag int32) {
	switch f {
	case FilterNone:
		return glNearest, glNearest
	case FilterLinear:
		return glNearest, glLinear
	case FilterBilinear:
		return glLinear, glLinear
	case FilterTrilinear:
		return glLinearMipmapLinear, glLinear
	default:
		return glLinear, glLinear
	}
}

func pixelFormatGL(f PixelFormat, state TxState) (internal int32, format, xtype uint32) {
	if state == TxDepth {
		return 0x1902, 0x1902, glUnsignedByte // GL_DEPTH_COMPONENT
	}
	switch f {
	case PixelRGB565:
		return glRGB, glRGB, glUnsignedShort565
	case PixelRGBHalfFloat:
		return glRGBA, glRGBA, glHalfFloat
	case PixelRGBAFloat32:
		return glRGBA, glRGBA, glFloat
	default:
		return glRGBA, glRGBA, glUnsignedByte
	}
}

// Update re-uploads the store's CPU backing buffer to its existing texture
// object. copy controls whether pixel data
// is actually transferred or only parameter state is refreshed.
func (v *VStore) Update(env *FENV, copy bool) error {
	if v.state == TxOff {
		return nil
	}
	if !checkFenv(env) {
		return ErrBackendMissing
	}
	env.BindTexture(glTexture2D, v.glid)
	v.glidValid = true
	v.applyParams(env)
	if copy {
		internal, format, xtype := pixelFormatGL(v.dstFmt, v.state)
		env.TexImage2D(glTexture2D, 0, internal, int32(v.w), int32(v.h), format, xtype, v.backing)
		v.updateTS = nowMillis()
		if v.filter == FilterTrilinear {
			env.GenerateMipmap(glTexture2D)
		}
	}
	return nil
}

// Resize changes a store's dimensions, re-allocating GPU storage and
// discarding prior content.
func (v *VStore) Resize(env *FENV, w, h int) error {
	if v.state == TxOff {
		return ErrWrongState
	}
	if w <= 0 || h <= 0 {
		return ErrBadDimensions
	}
	v.backing = nil
	v.w, v.h = w, h
	return v.Update(env, true)
}

// growBacking grows (or re-slices) the CPU-side mirror buffer to exactly
// w*h*bpp bytes.
func (v *VStore) growBacking() []byte {
	need := v.w * v.h * v.dstFmt.BytesPerPixel()
	if cap(v.backing) < need {
		v.backing = make([]byte, need)
	} else {
		v.backing = v.backing[:need]
	}
	return v.backing
}

// fullUploadRatio reports whether a sub-rectangle upload of area dx*dy
// against the store's full w*h should instead be promoted to a full
// upload, per the SubRectUploadThreshold boundary.
func (v *VStore) fullUploadRatio(dx, dy int) bool {
	total := float64(v.w * v.h)
	if total == 0 {
		return true
	}
	return float64(dx*dy)/total > SubRectUploadThreshold
}

// SliceBacking converts the store into a Cube (exactly six Tex2D face
// sources) or Tex3D (a power-of-two count of power-of-two-sided Tex2D
// slices), recording slices as the source array SliceSynch later
// re-synchronizes from (agp_slice_vstore).
func (v *VStore) SliceBacking(env *FENV, mode TxState, slices []*VStore) error {
	if mode != TxCube && mode != TxTex3D {
		return ErrWrongState
	}
	if mode == TxCube && len(slices) != 6 {
		return ErrBadDimensions
	}
	if mode == TxTex3D && (len(slices) == 0 || !isPowerOfTwo(len(slices))) {
		return ErrNotPowerOfTwo
	}
	for _, s := range slices {
		if s == nil || s.state != TxTex2D || !isPowerOfTwo(s.w) || !isPowerOfTwo(s.h) {
			return ErrNotPowerOfTwo
		}
	}
	if !checkFenv(env) {
		return ErrBackendMissing
	}
	v.w, v.h = slices[0].w, slices[0].h
	v.state = mode
	v.sliceSrc = append([]*VStore(nil), slices...)
	if v.refcount == 0 {
		v.refcount = 1
	}
	if v.glid == 0 {
		ids := env.GenTextures(1)
		v.glid = ids[0]
	}
	v.glidValid = true
	target := uint32(glTextureCube)
	if mode == TxTex3D {
		target = glTexture3D
	}
	env.BindTexture(target, v.glid)
	v.applyParams(env)
	return v.SliceSynch(env)
}

// SliceSynch re-synchronizes a Cube or Tex3D store from the slice sources
// SliceBacking recorded. For Cube, each face is re-uploaded independently
// and a face whose dimensions no longer match the store is skipped rather
// than aborting the whole pass; for Tex3D every slice's backing is stacked
// into one 3D upload.
func (v *VStore) SliceSynch(env *FENV) error {
	if v.state != TxCube && v.state != TxTex3D {
		return ErrWrongState
	}
	if !checkFenv(env) {
		return ErrBackendMissing
	}
	switch v.state {
	case TxCube:
		env.BindTexture(glTextureCube, v.glid)
		for i, s := range v.sliceSrc {
			if s == nil || s.w != v.w || s.h != v.h || s.updateTS <= v.updateTS {
				continue
			}
			face := glTextureCubeMapPosX + uint32(i)
			internal, format, xtype := pixelFormatGL(s.dstFmt, TxTex2D)
			env.TexImage2D(face, 0, internal, int32(s.w), int32(s.h), format, xtype, s.backing)
		}
		v.updateTS = nowMillis()
	case TxTex3D:
		if !env.HasTex3D || env.TexImage3D == nil {
			return ErrBackendMissing
		}
		bpp := v.dstFmt.BytesPerPixel()
		sliceBytes := v.w * v.h * bpp
		buf := make([]byte, sliceBytes*len(v.sliceSrc))
		for i, s := range v.sliceSrc {
			if s == nil || s.w != v.w || s.h != v.h || len(s.backing) < sliceBytes {
				continue
			}
			copy(buf[i*sliceBytes:], s.backing[:sliceBytes])
		}
		internal, format, xtype := pixelFormatGL(v.dstFmt, v.state)
		env.BindTexture(glTexture3D, v.glid)
		env.TexImage3D(glTexture3D, 0, internal, int32(v.w), int32(v.h), int32(len(v.sliceSrc)), format, xtype, buf)
		v.updateTS = nowMillis()
	}
	return nil
}

// StreamPrepare begins an asynchronous CPU->GPU pixel transfer of kind
// according to the backend's FENV.HasPBO capability. Without PBO support
// (GLES2), or for StreamRawDirectSync, it returns the store's CPU backing
// buffer, which StreamRelease then uploads synchronously as a full-store
// TexImage2D. StreamHandleImport instead binds an externally supplied
// multi-plane image via the store's installed MapBufferFunc and returns no
// CPU buffer; it also accepts an unallocated (TxOff) store, allocating its
// 2D id and making it a TxTex2D store.
func (v *VStore) StreamPrepare(env *FENV, kind StreamKind, planes []ExternalPlane) ([]byte, error) {
	if !checkFenv(env) {
		return nil, ErrBackendMissing
	}
	if kind == StreamHandleImport {
		if v.importFn == nil {
			return nil, ErrBackendMissing
		}
		if v.glid == 0 {
			ids := env.GenTextures(1)
			v.glid = ids[0]
		}
		env.BindTexture(glTexture2D, v.glid)
		v.applyParams(env)
		if !v.importFn(v, planes) {
			return nil, ErrBadDimensions
		}
		if v.state == TxOff {
			v.state = TxTex2D
		}
		if v.refcount == 0 {
			v.refcount = 1
		}
		v.glidValid = true
		v.external = true
		v.updateTS = nowMillis()
		return nil, nil
	}
	if v.state == TxOff {
		return nil, ErrWrongState
	}
	need := v.w * v.h * v.dstFmt.BytesPerPixel()
	if !env.HasPBO || kind == StreamRawDirectSync {
		v.external = kind == StreamExtResync
		return v.growBacking(), nil
	}
	if v.writePBO == 0 {
		ids := env.GenBuffers(1)
		v.writePBO = ids[0]
	}
	env.BindBuffer(glPixelUnpackBuffer, v.writePBO)
	env.BufferData(glPixelUnpackBuffer, make([]byte, need), glStreamDraw)
	mapped := env.MapBufferRange(glPixelUnpackBuffer, 0, need, 0x1) // GL_MAP_WRITE_BIT
	v.pboValid = true
	if mapped == nil {
		env.BindBuffer(glPixelUnpackBuffer, 0)
		return v.growBacking(), nil
	}
	return mapped, nil
}

// StreamRelease completes a StreamPrepare transfer, unmapping the PBO (if
// one was used) and uploading the result.
func (v *VStore) StreamRelease(env *FENV) error {
	if !checkFenv(env) {
		return ErrBackendMissing
	}
	if v.pboValid {
		env.BindBuffer(glPixelUnpackBuffer, v.writePBO)
		env.UnmapBuffer(glPixelUnpackBuffer)
		env.BindTexture(glTexture2D, v.glid)
		internal, format, xtype := pixelFormatGL(v.dstFmt, v.state)
		env.TexImage2D(glTexture2D, 0, internal, int32(v.w), int32(v.h), format, xtype, nil)
		env.BindBuffer(glPixelUnpackBuffer, 0)
		v.pboValid = false
		v.updateTS = nowMillis()
		return nil
	}
	return v.Update(env, true)
}

// RequestReadback asks the backend to begin an asynchronous GPU->CPU
// transfer. Without PBO support it degrades to ReadbackSync.
func (v *VStore) RequestReadback(env *FENV) error {
	if !checkFenv(env) {
		return ErrBackendMissing
	}
	if !env.HasPBO {
		return v.ReadbackSync(env)
	}
	need := v.w * v.h * v.dstFmt.BytesPerPixel()
	if v.readPBO == 0 {
		ids := env.GenBuffers(1)
		v.readPBO = ids[0]
	}
	env.BindTexture(glTexture2D, v.glid)
	env.BindBuffer(glPixelPackBuffer, v.readPBO)
	env.BufferData(glPixelPackBuffer, make([]byte, need), glStreamDraw)
	_, format, xtype := pixelFormatGL(v.dstFmt, v.state)
	env.GetTexImage(glTexture2D, 0, format, xtype, nil)
	env.BindBuffer(glPixelPackBuffer, 0)
	return nil
}

// PollReadback returns the result of a prior RequestReadback, or nil if the
// PBO transfer has not been started. The caller is expected not to poll
// before RequestReadback or after ReadbackSync; AGP has no fence API to
// check completion.
func (v *VStore) PollReadback(env *FENV) []byte {
	if !checkFenv(env) || v.readPBO == 0 {
		return nil
	}
	need := v.w * v.h * v.dstFmt.BytesPerPixel()
	env.BindBuffer(glPixelPackBuffer, v.readPBO)
	data := env.MapBufferRange(glPixelPackBuffer, 0, need, 0x2) // GL_MAP_READ_BIT
	out := append([]byte(nil), data...)
	env.UnmapBuffer(glPixelPackBuffer)
	env.BindBuffer(glPixelPackBuffer, 0)
	return out
}

// ReadbackSync performs a synchronous GPU->CPU pixel readback directly
// into the store's backing buffer.
func (v *VStore) ReadbackSync(env *FENV) error {
	if !checkFenv(env) {
		return ErrBackendMissing
	}
	if v.state == TxOff {
		return ErrWrongState
	}
	dst := v.growBacking()
	env.BindTexture(glTexture2D, v.glid)
	_, format, xtype := pixelFormatGL(v.dstFmt, v.state)
	env.GetTexImage(glTexture2D, 0, format, xtype, dst)
	return nil
}

// Activate binds the store to the given texture unit, resolving through
// glid_proxy when one is set.
func (v *VStore) Activate(env *FENV, unit uint32) {
	if !checkFenv(env) {
		return
	}
	id := v.ResolveTexID()
	if id == 0 {
		return
	}
	env.ActiveTexture(unit)
	env.BindTexture(glTexture2D, id)
}

// ResolveTexID returns the backing GL texture id, resolving through
// glid_proxy (set by SetProxy) when one is installed instead of this
// store's own id.
func (v *VStore) ResolveTexID() uint32 {
	if v.glidProxy != nil {
		return v.glidProxy.ResolveTexID()
	}
	if !v.glidValid {
		return 0
	}
	return v.glid
}

// CopyRegion blits a sub-rectangle from src into dst's backing buffer
// (agp_vstore_copyreg). Both stores must share pixel format and the
// region must fit inside both.
func (v *VStore) CopyRegion(src *VStore, sx, sy, dx, dy, w, h int) error {
	if v.dstFmt != src.dstFmt {
		return ErrBadDimensions
	}
	if sx+w > src.w || sy+h > src.h || dx+w > v.w || dy+h > v.h {
		return ErrBadDimensions
	}
	bpp := v.dstFmt.BytesPerPixel()
	srcBuf, dstBuf := src.backing, v.growBacking()
	if len(srcBuf) == 0 {
		return ErrNoBacking
	}
	rowBytes := w * bpp
	for row := 0; row < h; row++ {
		so := ((sy+row)*src.w + sx) * bpp
		do := ((dy+row)*v.w + dx) * bpp
		copy(dstBuf[do:do+rowBytes], srcBuf[so:so+rowBytes])
	}
	return nil
}

// Drop releases a VStore's GPU resources once its refcount reaches zero,
// notifying an installed importer (handle = -1) first if the store's
// content came from an external handle.
func (v *VStore) Drop(env *FENV) {
	v.refcount--
	if v.refcount > 0 {
		return
	}
	if v.external && v.importFn != nil {
		v.importFn(v, nil)
	}
	if checkFenv(env) {
		if v.glid != 0 {
			env.DeleteTextures([]uint32{v.glid})
		}
		if v.readPBO != 0 {
			env.DeleteBuffers([]uint32{v.readPBO})
		}
		if v.writePBO != 0 {
			env.DeleteBuffers([]uint32{v.writePBO})
		}
	}
	*v = VStore{log: v.log}
}

// SetHDR attaches display-color metadata to the store.
func (v *VStore) SetHDR(m HDRMetadata) { v.hdr = m }

// HDR returns the store's current HDR metadata block.
func (v *VStore) HDR() HDRMetadata { return v.hdr }

func (v *VStore) String() string {
	return fmt.Sprintf("vstore(%s %dx%d refs=%d)", v.state, v.w, v.h, v.refcount)
}
