package agp

import (
	"fmt"
	"log/slog"
	"math"
)

// uniformEntry is one entry of a shader's uniform group.
type uniformEntry struct {
	loc   int32
	label string
	kind  UniformType
	data  [64]byte
}

// shaderSlot is one program entry of the 256-slot table.
type shaderSlot struct {
	used   bool
	label  string
	prog   uint32
	vs, fs uint32
	broken bool

	// shmask records which stage sources were substituted with the
	// built-in default on Build: bit0 vertex, bit1 fragment.
	shmask uint8

	envLoc  [envCount]int32
	attrLoc [attribCount]int32

	groups [][]uniformEntry
}

// ShaderManager owns the fixed 256-slot program table and the currently
// active environment-uniform values.
type ShaderManager struct {
	env *FENV

	slots  [NumShaderSlots]shaderSlot
	active ShaderID

	ctx shaderEnvContext

	log *slog.Logger
}

// shaderEnvContext mirrors struct shader_envts: the live values pushed to
// the active program's environment uniforms on the next Activate/Envv
// call.
type shaderEnvContext struct {
	modelview, projection, texturem     [16]float32
	opacity, blend, move, rotate, scale float32
	inputSz, outputSz, storageSz        [2]float32
	rtgtID                              int32
	fractTimestamp                      float32
	timestamp                           int32
}

// NewShaderManager constructs an empty manager bound to env. BuildDefaults
// must be called before any other operation to populate the reserved default
// slots (BASIC_2D, COLOR_2D, BASIC_3D); Build never places a program there.
func NewShaderManager(env *FENV) *ShaderManager {
	m := &ShaderManager{env: env, log: slog.Default()}
	m.active = BrokenShader
	return m
}

// Build compiles vertex+fragment source into a slot and returns its handle,
// or BrokenShader plus a logged compile/link error. A label matching an
// already-built non-default slot reuses that exact slot, tearing down the
// prior program first, rather than leaking it behind a fresh allocation.
func (m *ShaderManager) Build(label, vertex, fragment string) ShaderID {
	if slot, ok := m.findLabel(label); ok {
		s := &m.slots[slot]
		if checkFenv(m.env) && s.prog != 0 {
			m.env.DeleteProgram(s.prog)
		}
		return m.buildAt(slot, label, vertex, fragment)
	}
	slot := m.freeSlot()
	if slot < 0 {
		m.log.Error("shader manager slot table full")
		return BrokenShader
	}
	return m.buildAt(slot, label, vertex, fragment)
}

// findLabel returns the non-default slot currently holding label, if any.
func (m *ShaderManager) findLabel(label string) (int, bool) {
	for i := DefaultShaderSlots; i < NumShaderSlots; i++ {
		if m.slots[i].used && m.slots[i].label == label {
			return i, true
		}
	}
	return 0, false
}

// buildAt compiles into a specific slot index, used directly by
// BuildDefaults to place BASIC_2D/COLOR_2D/BASIC_3D at slots 0-2.
func (m *ShaderManager) buildAt(slot int, label, vertex, fragment string) ShaderID {
	s := &m.slots[slot]
	*s = shaderSlot{used: true, label: label}
	for i := range s.envLoc {
		s.envLoc[i] = -1
	}
	for i := range s.attrLoc {
		s.attrLoc[i] = -1
	}

	defVertex, defFragment := ShaderSource(ShaderBasic2D)
	if vertex == "" {
		vertex = defVertex
		s.shmask |= 1
	}
	if fragment == "" {
		fragment = defFragment
		s.shmask |= 2
	}

	if !checkFenv(m.env) {
		s.broken = true
		return BrokenShader
	}
	env := m.env

	vs := env.CreateShader(0x8B31) // GL_VERTEX_SHADER
	env.ShaderSource(vs, vertex)
	env.CompileShader(vs)
	if ok, elog := env.ShaderCompileOK(vs); !ok {
		m.log.Error("vertex shader compile failed", slog.String("label", label), slog.String("log", elog))
		env.DeleteShader(vs)
		s.broken = true
		return BrokenShader
	}

	fs := env.CreateShader(0x8B30) // GL_FRAGMENT_SHADER
	env.ShaderSource(fs, fragment)
	env.CompileShader(fs)
	if ok, elog := env.ShaderCompileOK(fs); !ok {
		m.log.Error("fragment shader compile failed", slog.String("label", label), slog.String("log", elog))
		env.DeleteShader(vs)
		env.DeleteShader(fs)
		s.broken = true
		return BrokenShader
	}

	prog := env.CreateProgram()
	env.AttachShader(prog, vs)
	env.AttachShader(prog, fs)
	env.LinkProgram(prog)
	ok, elog := env.ProgramLinkOK(prog)
	env.DetachShader(prog, vs)
	env.DetachShader(prog, fs)
	env.DeleteShader(vs)
	env.DeleteShader(fs)
	if !ok {
		m.log.Error("program link failed", slog.String("label", label), slog.String("log", elog))
		env.DeleteProgram(prog)
		s.broken = true
		return BrokenShader
	}

	s.prog = prog
	for i := range envSymbols {
		s.envLoc[i] = env.GetUniformLocation(prog, envSymbols[i])
	}
	for i := range attribSymbols {
		s.attrLoc[i] = env.GetAttribLocation(prog, attribSymbols[i])
	}
	// group 0 is the implicit default group; kept as a non-nil empty slice
	// so Destroy's freed-group hole sentinel (nil) never collides with it.
	s.groups = append(s.groups, []uniformEntry{})

	if loc := env.GetUniformLocation(prog, "map_diffuse"); loc >= 0 {
		env.UseProgram(prog)
		env.Uniform1i(loc, 0)
	}
	if loc := env.GetUniformLocation(prog, "map_tu0"); loc >= 0 {
		env.UseProgram(prog)
		env.Uniform1i(loc, 0)
	}

	return newShaderID(slot, 0)
}

// ShMask reports which stage sources id's Build call substituted with the
// built-in default (bit0 vertex, bit1 fragment), or 0 for a stale handle.
func (m *ShaderManager) ShMask(id ShaderID) uint8 {
	s, err := m.lookupSlot(id)
	if err != nil {
		return 0
	}
	return s.shmask
}

// freeSlot only ever hands out non-default slots; the three reserved
// default slots are populated exclusively by BuildDefaults via buildAt.
func (m *ShaderManager) freeSlot() int {
	for i := DefaultShaderSlots; i < NumShaderSlots; i++ {
		if !m.slots[i].used {
			return i
		}
	}
	return -1
}

// Destroy is group-scoped: destroying group 0 tears down the whole program
// and frees the slot, while destroying group>0 only drops that group's
// uniform chain, leaving the base program and group 0 intact. Default
// shader slots (DefaultShaderSlots) refuse whole-program destruction.
func (m *ShaderManager) Destroy(id ShaderID) error {
	slot := id.slot()
	if slot < 0 || slot >= NumShaderSlots || !m.slots[slot].used {
		return ErrNoSuchObject
	}
	s := &m.slots[slot]
	group := id.group()
	if group > 0 {
		if group >= len(s.groups) || s.groups[group] == nil {
			return ErrNoSuchObject
		}
		s.groups[group] = nil // freed hole, reused by a later AddGroup
		return nil
	}
	if slot < DefaultShaderSlots {
		return ErrDefaultShader
	}
	if checkFenv(m.env) && s.prog != 0 {
		m.env.DeleteProgram(s.prog)
	}
	*s = shaderSlot{}
	if m.active.slot() == slot {
		m.active = BrokenShader
	}
	return nil
}

// Activate makes id's program current and pushes the manager's current
// environment-uniform context into it.
func (m *ShaderManager) Activate(id ShaderID) error {
	s, err := m.lookupSlot(id)
	if err != nil {
		return err
	}
	if !checkFenv(m.env) {
		return ErrBackendMissing
	}
	m.env.UseProgram(s.prog)
	m.active = id
	m.pushEnv(s)
	m.applyGroup(s, id.group())
	return nil
}

func (m *ShaderManager) lookupSlot(id ShaderID) (*shaderSlot, error) {
	slot := id.slot()
	if slot < 0 || slot >= NumShaderSlots || !m.slots[slot].used {
		return nil, ErrNoSuchObject
	}
	s := &m.slots[slot]
	if s.broken {
		return nil, ErrBrokenShader
	}
	return s, nil
}

func (m *ShaderManager) pushEnv(s *shaderSlot) {
	env := m.env
	c := &m.ctx
	set := func(slot EnvSlot, loc int32) {
		if loc < 0 {
			return
		}
		switch slot {
		case EnvModelview:
			env.UniformMatrix4fv(loc, c.modelview)
		case EnvProjection:
			env.UniformMatrix4fv(loc, c.projection)
		case EnvTexturem:
			env.UniformMatrix4fv(loc, c.texturem)
		case EnvObjOpacity:
			env.Uniform1f(loc, c.opacity)
		case EnvTransBlend:
			env.Uniform1f(loc, c.blend)
		case EnvTransMove:
			env.Uniform1f(loc, c.move)
		case EnvTransScale:
			env.Uniform1f(loc, c.scale)
		case EnvTransRotate:
			env.Uniform1f(loc, c.rotate)
		case EnvObjInputSz:
			env.Uniform2f(loc, c.inputSz[0], c.inputSz[1])
		case EnvObjOutputSz:
			env.Uniform2f(loc, c.outputSz[0], c.outputSz[1])
		case EnvObjStorageSz:
			env.Uniform2f(loc, c.storageSz[0], c.storageSz[1])
		case EnvRtgtID:
			env.Uniform1i(loc, c.rtgtID)
		case EnvFractTimestamp:
			env.Uniform1f(loc, c.fractTimestamp)
		case EnvTimestamp:
			env.Uniform1i(loc, c.timestamp)
		}
	}
	for i := EnvSlot(0); i < envCount; i++ {
		set(i, s.envLoc[i])
	}
}

func (m *ShaderManager) applyGroup(s *shaderSlot, group int) {
	if group < 0 || group >= len(s.groups) {
		return
	}
	env := m.env
	for _, u := range s.groups[group] {
		if u.loc < 0 {
			continue
		}
		switch u.kind {
		case UniformBool, UniformInt:
			env.Uniform1i(u.loc, int32(u.data[0])|int32(u.data[1])<<8|int32(u.data[2])<<16|int32(u.data[3])<<24)
		case UniformFloat:
			env.Uniform1f(u.loc, bytesToF32(u.data[0:4]))
		case UniformVec2:
			env.Uniform2f(u.loc, bytesToF32(u.data[0:4]), bytesToF32(u.data[4:8]))
		case UniformVec3:
			env.Uniform3f(u.loc, bytesToF32(u.data[0:4]), bytesToF32(u.data[4:8]), bytesToF32(u.data[8:12]))
		case UniformVec4:
			env.Uniform4f(u.loc, bytesToF32(u.data[0:4]), bytesToF32(u.data[4:8]), bytesToF32(u.data[8:12]), bytesToF32(u.data[12:16]))
		case UniformMat4x4:
			var mat [16]float32
			for i := range mat {
				mat[i] = bytesToF32(u.data[i*4 : i*4+4])
			}
			env.UniformMatrix4fv(u.loc, mat)
		}
	}
}

// Envv updates one environment-uniform slot in the manager's shared
// context. Values are pushed to GL lazily, on the next Activate of a
// shader that exposes that uniform.
func (m *ShaderManager) Envv(slot EnvSlot, value []float32) {
	c := &m.ctx
	switch slot {
	case EnvModelview:
		copy(c.modelview[:], value)
	case EnvProjection:
		copy(c.projection[:], value)
	case EnvTexturem:
		copy(c.texturem[:], value)
	case EnvObjOpacity:
		c.opacity = value[0]
	case EnvTransBlend:
		c.blend = value[0]
	case EnvTransMove:
		c.move = value[0]
	case EnvTransScale:
		c.scale = value[0]
	case EnvTransRotate:
		c.rotate = value[0]
	case EnvObjInputSz:
		c.inputSz = [2]float32{value[0], value[1]}
	case EnvObjOutputSz:
		c.outputSz = [2]float32{value[0], value[1]}
	case EnvObjStorageSz:
		c.storageSz = [2]float32{value[0], value[1]}
	case EnvRtgtID:
		c.rtgtID = int32(value[0])
	case EnvFractTimestamp:
		c.fractTimestamp = value[0]
	case EnvTimestamp:
		c.timestamp = int32(value[0])
	}
}

// AddGroup derives a new uniform group from id's own current group,
// deep-copying its entries (label + payload) as the new group's initial
// contents, and returns the group's ShaderID (same slot, new group index).
// A group slot freed by a prior group-scoped Destroy is reused before the
// table grows; BrokenShader plus ErrGroupOverflow once MaxUniformGroups is
// reached with no hole available.
func (m *ShaderManager) AddGroup(id ShaderID) (ShaderID, error) {
	s, err := m.lookupSlot(id)
	if err != nil {
		return BrokenShader, err
	}
	srcGroup := id.group()
	if srcGroup < 0 || srcGroup >= len(s.groups) || s.groups[srcGroup] == nil {
		return BrokenShader, ErrNoSuchObject
	}
	copied := make([]uniformEntry, len(s.groups[srcGroup]))
	copy(copied, s.groups[srcGroup])

	for i := 1; i < len(s.groups); i++ {
		if s.groups[i] == nil {
			s.groups[i] = copied
			return newShaderID(id.slot(), i), nil
		}
	}
	if len(s.groups) >= MaxUniformGroups {
		return BrokenShader, ErrGroupOverflow
	}
	s.groups = append(s.groups, copied)
	return newShaderID(id.slot(), len(s.groups)-1), nil
}

// ForceUnif sets a named uniform's value within id's group, appending a new
// entry if the label hasn't been set in that group before. Bool/Int values
// are stored as int32, every other kind as float32. The value is recorded
// only; it reaches GL when the group is next activated.
func (m *ShaderManager) ForceUnif(id ShaderID, label string, kind UniformType, value []float32) error {
	s, err := m.lookupSlot(id)
	if err != nil {
		return err
	}
	group := id.group()
	if group < 0 || group >= len(s.groups) || (group != 0 && s.groups[group] == nil) {
		return ErrNoSuchObject
	}
	loc := int32(-1)
	if checkFenv(m.env) && s.prog != 0 {
		loc = m.env.GetUniformLocation(s.prog, label)
	}
	entry := uniformEntry{loc: loc, label: label, kind: kind}
	for i, v := range value {
		if i*4+4 > len(entry.data) {
			break
		}
		if kind == UniformBool || kind == UniformInt {
			n := uint32(int32(v))
			entry.data[i*4], entry.data[i*4+1], entry.data[i*4+2], entry.data[i*4+3] = byte(n), byte(n>>8), byte(n>>16), byte(n>>24)
			continue
		}
		putF32(entry.data[i*4:i*4+4], v)
	}
	for i := range s.groups[group] {
		if s.groups[group][i].label == label {
			s.groups[group][i] = entry
			return nil
		}
	}
	s.groups[group] = append(s.groups[group], entry)
	return nil
}

// Lookup returns the program id for a ShaderID, or 0 if the handle is
// stale or the shader is broken.
func (m *ShaderManager) Lookup(id ShaderID) uint32 {
	s, err := m.lookupSlot(id)
	if err != nil {
		return 0
	}
	return s.prog
}

// LookupTag finds the first used, non-broken slot with the given label,
// looking up by name rather than handle.
func (m *ShaderManager) LookupTag(label string) ShaderID {
	for i := range m.slots {
		if m.slots[i].used && !m.slots[i].broken && m.slots[i].label == label {
			return newShaderID(i, 0)
		}
	}
	return BrokenShader
}

// LookupProgs returns the vertex+fragment shader ids recorded for id
// (agp_shader_lookupprogs). Build deletes both stage shaders after linking
// and does not record their ids, so for every valid id this returns (0, 0);
// a stale or broken id also returns (0, 0).
func (m *ShaderManager) LookupProgs(id ShaderID) (vs, fs uint32) {
	s, err := m.lookupSlot(id)
	if err != nil {
		return 0, 0
	}
	return s.vs, s.fs
}

// Valid reports whether id names a used, non-broken slot.
func (m *ShaderManager) Valid(id ShaderID) bool {
	_, err := m.lookupSlot(id)
	return err == nil
}

// Flush releases every non-default shader slot (agp_shader_flush,
// used by engine teardown paths that want to keep the three built-ins).
func (m *ShaderManager) Flush() {
	for i := DefaultShaderSlots; i < NumShaderSlots; i++ {
		if m.slots[i].used {
			_ = m.Destroy(newShaderID(i, 0))
		}
	}
}

// RebuildAll recompiles every live shader slot from its retained source,
// used after context loss. It calls buildAt directly (not Build) so a
// slot's index is preserved across the rebuild rather than reassigned by
// Build's label-reuse lookup against an already-cleared table.
func (m *ShaderManager) RebuildAll(sources map[ShaderID][2]string) {
	for id, src := range sources {
		slot := id.slot()
		if slot < 0 || slot >= NumShaderSlots || !m.slots[slot].used {
			continue
		}
		label := m.slots[slot].label
		newID := m.buildAt(slot, label, src[0], src[1])
		if newID == BrokenShader {
			m.log.Warn("shader rebuild failed", slog.String("label", label))
		}
	}
}

// bytesToF32/putF32 round-trip a uniform entry's raw 64-byte payload.
// IEEE754 bit reinterpretation has no third-party equivalent in the
// retrieval pack (chewxy/math32 supplies math functions, not bit-pattern
// conversions), so this is the one spot AGP reaches for math.Float32bits.
func bytesToF32(b []byte) float32 {
	bits := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	return math.Float32frombits(bits)
}

func putF32(dst []byte, v float32) {
	bits := math.Float32bits(v)
	dst[0] = byte(bits)
	dst[1] = byte(bits >> 8)
	dst[2] = byte(bits >> 16)
	dst[3] = byte(bits >> 24)
}

func (m *ShaderManager) String() string {
	return fmt.Sprintf("shadermgr(active=%v)", m.active)
}
