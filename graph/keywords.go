package graph

// ReservedWGSL contains WGSL keywords, reserved words and predeclared type
// names that user identifiers must not shadow.
var ReservedWGSL = wordSet(`
	alias break case const const_assert continue continuing default diagnostic
	discard else enable false fn for if let loop override requires return struct
	switch true var while
	bool f16 f32 i32 u32 vec2 vec3 vec4 mat2x2 mat2x3 mat2x4 mat3x2 mat3x3 mat3x4
	mat4x2 mat4x3 mat4x4 vec2f vec3f vec4f vec2i vec3i vec4i vec2u vec3u vec4u
	mat2x2f mat3x3f mat4x4f array atomic ptr sampler sampler_comparison
	texture_1d texture_2d texture_2d_array texture_3d texture_cube
	texture_cube_array texture_multisampled_2d texture_depth_2d
	asm bf16 do enum f64 handle i8 i16 i64 mat premerge regardless typedef u8 u16
	u64 unless using vec void NULL Self abstract active as async await become
	binding_array cast catch class co_await co_return co_yield coherent
	compile compile_fragment concept const_cast consteval constexpr constinit
	crate debugger decltype delete demote demote_to_helper do dynamic_cast export
	extern external fallthrough filter final finally friend from fxgroup get goto
	groupshared highp impl implements import inline instanceof interface layout
	lowp macro macro_rules match mediump meta mod module move mut mutable
	namespace new nil noexcept noinline nointerpolation noperspective null
	nullptr of operator package packoffset partition pass patch pixelfragment
	precise precision premerge priv protected pub public readonly ref regardless
	register reinterpret_cast require resource restrict self set shared sizeof
	smooth snorm static static_assert static_cast std subroutine super target
	template this thread_local throw trait try type typedef typeid typename
	typeof union unorm unsafe unsized use using varying virtual volatile wgsl
	where with writeonly yield
`)

// ReservedGLSL contains GLSL keywords, reserved words and the built-in
// names a generated identifier could collide with.
var ReservedGLSL = wordSet(`
	void bool int uint float double vec2 vec3 vec4 ivec2 ivec3 ivec4 uvec2 uvec3
	uvec4 bvec2 bvec3 bvec4 dvec2 dvec3 dvec4 mat2 mat3 mat4 mat2x2 mat2x3 mat2x4
	mat3x2 mat3x3 mat3x4 mat4x2 mat4x3 mat4x4 sampler sampler2D sampler3D
	samplerCube sampler2DArray sampler2DShadow isampler2D usampler2D image2D
	attribute const uniform varying buffer shared coherent volatile restrict
	readonly writeonly layout centroid flat smooth noperspective patch sample
	break continue do for while switch case default if else subroutine in out
	inout true false invariant precise discard return struct lowp mediump highp
	precision common partition active asm class union enum typedef template this
	resource goto inline noinline public static extern external interface long
	short half fixed unsigned superp input output hvec2 hvec3 hvec4 fvec2 fvec3
	fvec4 filter sizeof cast namespace using main
	radians degrees sin cos tan asin acos atan sinh cosh tanh asinh acosh atanh
	pow exp log exp2 log2 sqrt inversesqrt abs sign floor trunc round roundEven
	ceil fract mod modf min max clamp mix step smoothstep isnan isinf fma length
	distance dot cross normalize faceforward reflect refract matrixCompMult
	outerProduct transpose determinant inverse lessThan lessThanEqual greaterThan
	greaterThanEqual equal notEqual any all not texture textureLod textureSize
	texelFetch dFdx dFdy fwidth barrier
`)

func wordSet(words string) map[string]struct{} {
	set := make(map[string]struct{})
	start := -1
	for i := 0; i <= len(words); i++ {
		if i == len(words) || words[i] == ' ' || words[i] == '\n' || words[i] == '\t' {
			if start >= 0 {
				set[words[start:i]] = struct{}{}
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	return set
}

// IsReserved reports whether name is reserved in either backend.
func IsReserved(name string) bool {
	if _, ok := ReservedWGSL[name]; ok {
		return true
	}
	if _, ok := ReservedGLSL[name]; ok {
		return true
	}
	return len(name) >= 3 && name[:3] == "gl_"
}
