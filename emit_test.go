package shadergraph

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/gogpu/shadergraph/glsl"
	"github.com/gogpu/shadergraph/graph"
	"github.com/gogpu/shadergraph/wgsl"
)

func mustFragment(t *testing.T, body func(b *Builder) Value) *graph.Module {
	t.Helper()
	b := NewBuilder()
	m, err := b.Fragment(func() Value { return body(b) })
	if err != nil {
		t.Fatalf("Fragment() error = %v", err)
	}
	return m
}

func mustEmit(t *testing.T, m *graph.Module, target Target) *Output {
	t.Helper()
	out, err := Translate(m, target)
	if err != nil {
		t.Fatalf("Translate(%s) error = %v", target.Backend(), err)
	}
	return out
}

func assertContains(t *testing.T, source string, parts ...string) {
	t.Helper()
	for _, p := range parts {
		if !strings.Contains(source, p) {
			t.Errorf("output missing %q\n%s", p, source)
		}
	}
}

func TestEmitLoop(t *testing.T) {
	m := mustFragment(t, func(b *Builder) Value {
		sum := b.Float(0).ToVar("sum")
		b.Loop(b.Int(5), func(i Value) {
			sum.Assign(sum.Add(i))
		})
		return sum
	})

	out := mustEmit(t, m, Target{})
	assertContains(t, out.Source,
		"var sum: f32 = f32(0.0);",
		"for (var i: i32 = 0; i < i32(5); i++) {",
		"sum = (sum + f32(i));",
		"return vec4f(vec3f(sum), 1.0);",
	)
	if got := strings.Count(out.Source, "sum = "); got != 1 {
		t.Errorf("wgsl has %d assignments to sum, want 1", got)
	}

	out = mustEmit(t, m, Target{GLSL: true})
	assertContains(t, out.Source,
		"#version 300 es",
		"float sum = float(0.0);",
		"for (int i = 0; i < int(5); i += 1) {",
		"sum = (sum + float(i));",
		"fragColor = vec4(vec3(sum), 1.0);",
	)
}

func TestEmitSwitchWithoutFallthrough(t *testing.T) {
	m := mustFragment(t, func(b *Builder) Value {
		c := b.Vec3(0).ToVar("c")
		sel := b.Int(2).ToVar("sel")
		b.Switch(sel).Case(1, 2, 3)(func() {
			c.Assign(b.Vec3(1))
		}).Default(func() {
			c.Assign(b.Vec3(0.5))
		})
		return c
	})

	out := mustEmit(t, m, Target{})
	assertContains(t, out.Source,
		"switch (sel) {",
		"case 1, 2, 3: {",
		"c = vec3f(1.0);",
		"default: {",
	)
	if got := strings.Count(out.Source, "break;"); got != 2 {
		t.Errorf("wgsl has %d breaks, want 2", got)
	}

	out = mustEmit(t, m, Target{GLSL: true})
	assertContains(t, out.Source,
		"case 1:\n        case 2:\n        case 3: {\n            c = vec3(1.0);\n            break;\n        }",
		"default: {",
	)
	if got := strings.Count(out.Source, "break;"); got != 2 {
		t.Errorf("glsl has %d breaks, want 2", got)
	}
}

func TestEmitSwitchSynthesizesDefault(t *testing.T) {
	m := mustFragment(t, func(b *Builder) Value {
		c := b.Float(0).ToVar("c")
		b.Switch(b.Int(1)).Case(1)(func() { c.Assign(1) })
		return c
	})
	wgslOut := mustEmit(t, m, Target{}).Source
	if !strings.Contains(wgslOut, "default: {") {
		t.Errorf("wgsl switch has no default arm\n%s", wgslOut)
	}
	glslOut := mustEmit(t, m, Target{GLSL: true}).Source
	if strings.Contains(glslOut, "default:") {
		t.Errorf("glsl switch gained a default arm\n%s", glslOut)
	}
}

func TestEmitHeaderOnce(t *testing.T) {
	b := NewBuilder()
	twice := b.Fn(func(args []Value) Value {
		return args[0].Mul(2)
	}).MustSetLayout(graph.Layout{
		Name:   "twice",
		Type:   graph.Float,
		Inputs: []graph.Param{{Name: "x", Type: graph.Float}},
	})
	m, err := b.Fragment(func() Value {
		return twice.Call(1).Add(twice.Call(b.Float(2))).Add(twice.Call(b.Time()))
	})
	if err != nil {
		t.Fatalf("Fragment() error = %v", err)
	}
	if len(m.Functions) != 1 || m.Functions[0].Calls != 3 {
		t.Fatalf("functions = %d, want one header with 3 calls", len(m.Functions))
	}

	for _, target := range []Target{{}, {GLSL: true}} {
		t.Run(target.Backend(), func(t *testing.T) {
			out := mustEmit(t, m, target)
			if len(out.HeaderOrder) != 1 || out.HeaderOrder[0] != "twice" {
				t.Errorf("HeaderOrder = %v, want [twice]", out.HeaderOrder)
			}
			if got := strings.Count(out.Source, "twice("); got != 4 {
				t.Errorf("source mentions twice( %d times, want 4\n%s", got, out.Source)
			}
			header := out.Headers["twice"]
			if !strings.Contains(out.Source, header) {
				t.Errorf("header %q not found in source", header)
			}
		})
	}

	out := mustEmit(t, m, Target{})
	assertContains(t, out.Headers["twice"], "fn twice(x: f32) -> f32 {\n    return (x * 2.0);\n}")
	out = mustEmit(t, m, Target{GLSL: true})
	assertContains(t, out.Headers["twice"], "float twice(float x) {\n    return (x * 2.0);\n}")
}

func TestEmitMonomorphization(t *testing.T) {
	b := NewBuilder()
	scale := b.Fn(func(args []Value) Value {
		return args[0].Mul(args[1])
	})
	m, err := b.Fragment(func() Value {
		v := scale.Call(b.Vec3(1), b.Float(2))
		s := scale.Call(b.Float(1), b.Float(2))
		return v.Mul(s)
	})
	if err != nil {
		t.Fatalf("Fragment() error = %v", err)
	}
	if len(m.Functions) != 2 {
		t.Fatalf("functions = %d, want 2", len(m.Functions))
	}
	if got := m.Functions[0].Result; got != graph.Vec3 {
		t.Errorf("first header returns %s, want vec3", got)
	}
	if got := m.Functions[1].Result; got != graph.Float {
		t.Errorf("second header returns %s, want float", got)
	}

	out := mustEmit(t, m, Target{})
	want := []string{"fn0", "fn0_float_float"}
	if strings.Join(out.HeaderOrder, ",") != strings.Join(want, ",") {
		t.Errorf("HeaderOrder = %v, want %v", out.HeaderOrder, want)
	}
	assertContains(t, out.Source,
		"fn fn0(p0: vec3f, p1: f32) -> vec3f {",
		"fn fn0_float_float(p0: f32, p1: f32) -> f32 {",
	)
}

func TestLayoutErrors(t *testing.T) {
	tests := []struct {
		name   string
		layout graph.Layout
	}{
		{"bad name", graph.Layout{Name: "1bad", Type: graph.Float}},
		{"reserved name", graph.Layout{Name: "float", Type: graph.Float}},
		{"duplicate param", graph.Layout{Name: "f", Type: graph.Float, Inputs: []graph.Param{
			{Name: "a", Type: graph.Float}, {Name: "a", Type: graph.Float},
		}}},
		{"void param", graph.Layout{Name: "f", Type: graph.Float, Inputs: []graph.Param{
			{Name: "a", Type: graph.Void},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder()
			fn := b.Fn(func(args []Value) Value { return b.Float(0) })
			if _, err := fn.SetLayout(tt.layout); !errors.Is(err, graph.ErrLayoutMismatch) {
				t.Errorf("SetLayout() error = %v, want layout mismatch", err)
			}
		})
	}
}

func TestLayoutReturnMismatch(t *testing.T) {
	b := NewBuilder()
	f := b.Fn(func(args []Value) Value {
		return b.Vec3(args[0])
	}).MustSetLayout(graph.Layout{
		Name:   "shade",
		Type:   graph.Float,
		Inputs: []graph.Param{{Name: "x", Type: graph.Float}},
	})
	_, err := b.Fragment(func() Value { return f.Call(1) })
	if !errors.Is(err, graph.ErrLayoutMismatch) {
		t.Errorf("Fragment() error = %v, want layout mismatch", err)
	}
}

func TestLayoutArgumentCount(t *testing.T) {
	b := NewBuilder()
	f := b.Fn(func(args []Value) Value {
		return args[0]
	}).MustSetLayout(graph.Layout{
		Name:   "ident",
		Type:   graph.Float,
		Inputs: []graph.Param{{Name: "x", Type: graph.Float}},
	})
	_, err := b.Fragment(func() Value { return f.Call(1, 2) })
	if !errors.Is(err, graph.ErrLayoutMismatch) {
		t.Errorf("Fragment() error = %v, want layout mismatch", err)
	}
}

func TestEmitBakesSharedExpressions(t *testing.T) {
	m := mustFragment(t, func(b *Builder) Value {
		s := b.Time().Sin()
		return b.Vec3(s, s, s)
	})

	out := mustEmit(t, m, Target{})
	assertContains(t, out.Source,
		"let _e0 = sin(iTime);",
		"return vec4f(vec3f(_e0, _e0, _e0), 1.0);",
	)
	if got := strings.Count(out.Source, "sin("); got != 1 {
		t.Errorf("wgsl evaluates sin %d times, want 1", got)
	}

	out = mustEmit(t, m, Target{GLSL: true})
	assertContains(t, out.Source,
		"float _e0 = sin(iTime);",
		"fragColor = vec4(vec3(_e0, _e0, _e0), 1.0);",
	)
}

func TestEmitSwizzleAssignment(t *testing.T) {
	m := mustFragment(t, func(b *Builder) Value {
		c := b.Vec3(0).ToVar("c")
		c.XY().Assign(b.Vec2(1, 2))
		return c
	})

	assertContains(t, mustEmit(t, m, Target{}).Source,
		"let _e0 = vec2f(1.0, 2.0);",
		"c.x = _e0.x;",
		"c.y = _e0.y;",
	)
	assertContains(t, mustEmit(t, m, Target{GLSL: true}).Source,
		"c.xy = vec2(1.0, 2.0);",
	)
}

func TestEmitShadowedLocals(t *testing.T) {
	t.Run("loop index", func(t *testing.T) {
		m := mustFragment(t, func(b *Builder) Value {
			sum := b.Float(0).ToVar("sum")
			outer := b.Float(10).ToVar("i")
			b.Loop(3, func(i Value) {
				sum.AddAssign(outer.Add(i.ToFloat()))
			})
			return sum
		})
		out := mustEmit(t, m, Target{})
		assertContains(t, out.Source,
			"var i: f32 = f32(10.0);",
			"for (var i_1: i32 = 0; i_1 < 3; i_1++) {",
			"sum += (i + f32(i_1));",
		)
		out = mustEmit(t, m, Target{GLSL: true})
		assertContains(t, out.Source,
			"float i = float(10.0);",
			"for (int i_1 = 0; i_1 < 3; i_1 += 1) {",
			"sum += (i + float(i_1));",
		)
	})

	t.Run("nested block", func(t *testing.T) {
		m := mustFragment(t, func(b *Builder) Value {
			x := b.Float(1).ToVar("x")
			b.Scope(func() {
				b.Float(2).ToVar("x").AddAssign(x)
			})
			return x
		})
		out := mustEmit(t, m, Target{})
		assertContains(t, out.Source,
			"var x: f32 = f32(1.0);",
			"var x_1: f32 = f32(2.0);",
			"x_1 += x;",
			"return vec4f(vec3f(x), 1.0);",
		)
	})

	t.Run("sibling loops share the index", func(t *testing.T) {
		m := mustFragment(t, func(b *Builder) Value {
			sum := b.Float(0).ToVar("sum")
			b.Loop(2, func(i Value) { sum.AddAssign(i.ToFloat()) })
			b.Loop(3, func(i Value) { sum.AddAssign(i.ToFloat()) })
			return sum
		})
		out := mustEmit(t, m, Target{})
		if got := strings.Count(out.Source, "for (var i: i32 = 0;"); got != 2 {
			t.Errorf("found %d loops indexed by i, want 2\n%s", got, out.Source)
		}
		if strings.Contains(out.Source, "i_1") {
			t.Errorf("sibling loop renamed its index\n%s", out.Source)
		}
	})
}

func TestEmitRejectsUnrepresentableLiterals(t *testing.T) {
	b := NewBuilder()
	tests := []struct {
		name string
		v    Value
	}{
		{"infinity", b.Float(math.Inf(1))},
		{"nan", b.Float(math.NaN()).Add(1)},
		{"int overflow", b.Int(3000000000)},
		{"uint overflow", b.Uint(5e9)},
		{"negative uint", b.Uint(-1)},
		{"float overflow", b.Float(1e39)},
	}
	for _, tt := range tests {
		for _, target := range []Target{{}, {GLSL: true}} {
			t.Run(tt.name+"/"+target.Backend(), func(t *testing.T) {
				got, err := Expression(tt.v, target)
				if !errors.Is(err, graph.ErrUnsupported) {
					t.Errorf("Expression() = %q, %v; want ErrUnsupported", got, err)
				}
			})
		}
	}

	m := mustFragment(t, func(b *Builder) Value {
		return b.Vec3(b.Int(2147483647).ToFloat(), b.Uint(4294967295).ToFloat(), 0)
	})
	out := mustEmit(t, m, Target{})
	assertContains(t, out.Source, "i32(2147483647)", "u32(4294967295u)")
}

func TestExpressionDialects(t *testing.T) {
	b := NewBuilder()
	tests := []struct {
		name string
		v    Value
		wgsl string
		glsl string
	}{
		{
			name: "float modulo",
			v:    b.Time().Mod(2),
			wgsl: "(iTime - (2.0 * floor((iTime / 2.0))))",
			glsl: "mod(iTime, 2.0)",
		},
		{
			name: "integer modulo",
			v:    b.Int(7).Mod(3),
			wgsl: "(i32(7) % 3)",
			glsl: "(int(7) % 3)",
		},
		{
			name: "vector comparison",
			v:    b.Vec2(1, 2).LessThan(b.Vec2(3, 4)),
			wgsl: "(vec2f(1.0, 2.0) < vec2f(3.0, 4.0))",
			glsl: "lessThan(vec2(1.0, 2.0), vec2(3.0, 4.0))",
		},
		{
			name: "select",
			v:    b.Bool(true).Select(b.Float(1), b.Float(2)),
			wgsl: "select(f32(2.0), f32(1.0), bool(true))",
			glsl: "(bool(true) ? float(1.0) : float(2.0))",
		},
		{
			name: "inverse sqrt",
			v:    b.Time().InverseSqrt(),
			wgsl: "inverseSqrt(iTime)",
			glsl: "inversesqrt(iTime)",
		},
		{
			name: "atan2",
			v:    b.Time().Atan2(1),
			wgsl: "atan2(iTime, 1.0)",
			glsl: "atan(iTime, 1.0)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Expression(tt.v, Target{})
			if err != nil {
				t.Fatalf("wgsl error = %v", err)
			}
			if got != tt.wgsl {
				t.Errorf("wgsl = %q, want %q", got, tt.wgsl)
			}
			got, err = Expression(tt.v, Target{GLSL: true})
			if err != nil {
				t.Fatalf("glsl error = %v", err)
			}
			if got != tt.glsl {
				t.Errorf("glsl = %q, want %q", got, tt.glsl)
			}
		})
	}
}

func TestEmitTextureSampling(t *testing.T) {
	m := mustFragment(t, func(b *Builder) Value {
		return b.Texture("albedo").Sample(b.Builtin("uv"))
	})

	out := mustEmit(t, m, Target{})
	assertContains(t, out.Source,
		"@group(1) @binding(0) var albedoSampler: sampler;",
		"@group(1) @binding(1) var albedo: texture_2d<f32>;",
		"@group(0) @binding(0) var<uniform> iResolution: vec2f;",
		"fn main(@builtin(position) position_in: vec4f) -> @location(0) vec4f {",
		"return textureSample(albedo, albedoSampler, (position.xy / iResolution));",
	)

	out = mustEmit(t, m, Target{GLSL: true})
	assertContains(t, out.Source,
		"precision highp float;",
		"uniform sampler2D albedo;",
		"uniform vec2 iResolution;",
		"layout(location = 0) out vec4 fragColor;",
		"fragColor = texture(albedo, (gl_FragCoord.xy / iResolution));",
	)
}

func TestEmitBindingOverride(t *testing.T) {
	m := mustFragment(t, func(b *Builder) Value {
		return b.Time().Sin()
	})
	out := mustEmit(t, m, Target{Bindings: map[string]wgsl.Binding{"iTime": {Group: 2, Binding: 5}}})
	assertContains(t, out.Source, "@group(2) @binding(5) var<uniform> iTime: f32;")
	if len(out.Resources) != 1 || out.Resources[0].Group != 2 || out.Resources[0].Binding != 5 {
		t.Errorf("Resources = %v, want iTime at group 2 binding 5", out.Resources)
	}
}

func TestEmitUnsupported(t *testing.T) {
	tests := []struct {
		name   string
		build  func(b *Builder) (*graph.Module, error)
		target Target
		msg    string
	}{
		{
			name: "compute on webgl",
			build: func(b *Builder) (*graph.Module, error) {
				return b.Compute(64, func() {
					b.Float(0).ToVar("x")
				})
			},
			target: Target{GLSL: true},
			msg:    "unsupported in backend glsl 300 es",
		},
		{
			name: "fma on webgl",
			build: func(b *Builder) (*graph.Module, error) {
				return b.Fragment(func() Value { return b.Time().Fma(2, 1) })
			},
			target: Target{GLSL: true},
			msg:    "fma",
		},
		{
			name: "matrix inverse in wgsl",
			build: func(b *Builder) (*graph.Module, error) {
				return b.Fragment(func() Value {
					return b.Mat3(1, 0, 0, 0, 1, 0, 0, 0, 1).Inverse().Mul(b.Vec3(1))
				})
			},
			target: Target{},
			msg:    "unsupported in backend wgsl",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := tt.build(NewBuilder())
			if err != nil {
				t.Fatalf("build error = %v", err)
			}
			_, err = Translate(m, tt.target)
			if !errors.Is(err, graph.ErrUnsupported) {
				t.Fatalf("Translate() error = %v, want unsupported", err)
			}
			if !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("error %q does not mention %q", err, tt.msg)
			}
		})
	}
}

func TestEmitFMAOnDesktop(t *testing.T) {
	m := mustFragment(t, func(b *Builder) Value { return b.Time().Fma(2, 1) })
	out := mustEmit(t, m, Target{GLSL: true, GLSLVersion: glsl.Version450})
	assertContains(t, out.Source, "#version 450 core", "fma(iTime, 2.0, 1.0)")
}

func TestEmitCompute(t *testing.T) {
	b := NewBuilder()
	m, err := b.Compute(0, func() {
		id := b.Builtin("global_invocation_id")
		b.Float(0).ToVar("x").Assign(id.X().ToFloat())
	})
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	assertContains(t, mustEmit(t, m, Target{}).Source,
		"@compute @workgroup_size(32, 1, 1)",
		"x = f32(global_invocation_id.x);",
	)
	assertContains(t, mustEmit(t, m, Target{GLSL: true, GLSLVersion: glsl.Version430}).Source,
		"layout(local_size_x = 32, local_size_y = 1, local_size_z = 1) in;",
		"x = float(gl_GlobalInvocationID.x);",
	)
}

func TestTranslateProgram(t *testing.T) {
	b := NewBuilder()
	p, err := b.Program(nil, func() Value {
		uv := b.Varying(b.Vec2(0.5), "vUv")
		return b.Vec3(uv, 1)
	})
	if err != nil {
		t.Fatalf("Program() error = %v", err)
	}

	out, err := TranslateProgram(p, Target{GLSL: true})
	if err != nil {
		t.Fatalf("TranslateProgram() error = %v", err)
	}
	assertContains(t, out.Vertex.Source,
		"out vec2 vUv;",
		"vUv = vec2(0.5);",
		"uint(gl_VertexID)",
		"gl_Position = ",
	)
	assertContains(t, out.Fragment.Source,
		"in vec2 vUv;",
		"fragColor = vec4(vec3(vUv, 1.0), 1.0);",
	)

	out, err = TranslateProgram(p, Target{})
	if err != nil {
		t.Fatalf("TranslateProgram() error = %v", err)
	}
	assertContains(t, out.Vertex.Source,
		"@vertex",
		"@builtin(position) clip_position: vec4f,",
		"@location(0) vUv: vec2f,",
	)
	assertContains(t, out.Fragment.Source,
		"@location(0) vUv_in: vec2f",
	)
}

func TestTargetBackend(t *testing.T) {
	tests := []struct {
		target Target
		want   string
	}{
		{Target{}, "wgsl"},
		{Target{GLSL: true}, "glsl 300 es"},
		{Target{GLSL: true, GLSLVersion: glsl.Version330}, "glsl 330 core"},
	}
	for _, tt := range tests {
		if got := tt.target.Backend(); got != tt.want {
			t.Errorf("Backend() = %q, want %q", got, tt.want)
		}
	}
}
