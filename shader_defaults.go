package agp

// Default shader sources for the three reserved slots. These are newly authored GLSL, not transcribed from
// the C string literals in gl21.c, but expose the exact attribute/uniform
// ABI names: vertex/texcoord attributes, modelview/
// projection/texturem/obj_opacity uniforms.
const (
	basic2DVertex = `#version 120
attribute vec2 vertex;
attribute vec2 texcoord;
uniform mat4 modelview;
uniform mat4 projection;
varying vec2 texco;
void main() {
	texco = texcoord;
	gl_Position = projection * modelview * vec4(vertex, 0.0, 1.0);
}
`
	basic2DFragment = `#version 120
varying vec2 texco;
uniform sampler2D map_diffuse;
uniform float obj_opacity;
void main() {
	vec4 col = texture2D(map_diffuse, texco);
	gl_FragColor = vec4(col.rgb, col.a * obj_opacity);
}
`
	color2DVertex = `#version 120
attribute vec2 vertex;
uniform mat4 modelview;
uniform mat4 projection;
void main() {
	gl_Position = projection * modelview * vec4(vertex, 0.0, 1.0);
}
`
	color2DFragment = `#version 120
uniform vec3 obj_col;
uniform float obj_opacity;
void main() {
	gl_FragColor = vec4(obj_col, obj_opacity);
}
`
	basic3DVertex = `#version 120
attribute vec3 vertex;
attribute vec3 normal;
attribute vec2 texcoord;
uniform mat4 modelview;
uniform mat4 projection;
uniform mat4 texturem;
varying vec2 texco;
varying vec3 nv;
void main() {
	texco = (texturem * vec4(texcoord, 0.0, 1.0)).xy;
	nv = normal;
	gl_Position = projection * modelview * vec4(vertex, 1.0);
}
`
	basic3DFragment = `#version 120
varying vec2 texco;
varying vec3 nv;
uniform sampler2D map_diffuse;
uniform float obj_opacity;
void main() {
	vec4 col = texture2D(map_diffuse, texco);
	gl_FragColor = vec4(col.rgb, col.a * obj_opacity);
}
`
)

// ShaderSource returns the default vertex+fragment source pair for one of
// the three built-in shader kinds (agp_shader_source).
func ShaderSource(kind ShaderType) (vertex, fragment string) {
	switch kind {
	case ShaderBasic2D:
		return basic2DVertex, basic2DFragment
	case ShaderColor2D:
		return color2DVertex, color2DFragment
	case ShaderBasic3D:
		return basic3DVertex, basic3DFragment
	default:
		return "", ""
	}
}

// BuildDefaults compiles the three reserved shader slots in their fixed
// order, matching DefaultShaderSlots contract. Must be called
// exactly once per ShaderManager before any other Build call.
func (m *ShaderManager) BuildDefaults() error {
	for i, kind := range []ShaderType{ShaderBasic2D, ShaderColor2D, ShaderBasic3D} {
		v, f := ShaderSource(kind)
		id := m.buildAt(i, kind.String(), v, f)
		if id == BrokenShader {
			return ErrBrokenShader
		}
	}
	return nil
}

func (k ShaderType) String() string {
	switch k {
	case ShaderBasic2D:
		return "BASIC_2D"
	case ShaderColor2D:
		return "COLOR_2D"
	case ShaderBasic3D:
		return "BASIC_3D"
	default:
		return "invalid"
	}
}
