// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/shadergraph/graph"
)

// =============================================================================
// Version Tests
// =============================================================================

func TestVersion_String(t *testing.T) {
	tests := []struct {
		version Version
		want    string
	}{
		{Version330, "330 core"},
		{Version400, "400 core"},
		{Version410, "410 core"},
		{Version420, "420 core"},
		{Version430, "430 core"},
		{Version450, "450 core"},
		{Version460, "460 core"},
		{VersionES300, "300 es"},
		{VersionES310, "310 es"},
		{VersionES320, "320 es"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := tt.version.String()
			if got != tt.want {
				t.Errorf("Version.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestVersion_VersionNumber(t *testing.T) {
	tests := []struct {
		version Version
		want    string
	}{
		{Version330, "330"},
		{Version450, "450"},
		{VersionES300, "300"},
		{VersionES310, "310"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := tt.version.VersionNumber()
			if got != tt.want {
				t.Errorf("Version.VersionNumber() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestVersion_SupportsCompute(t *testing.T) {
	tests := []struct {
		version Version
		want    bool
	}{
		{Version330, false},
		{Version400, false},
		{Version420, false},
		{Version430, true},
		{Version450, true},
		{Version460, true},
		{VersionES300, false},
		{VersionES310, true},
		{VersionES320, true},
	}

	for _, tt := range tests {
		t.Run(tt.version.String(), func(t *testing.T) {
			got := tt.version.SupportsCompute()
			if got != tt.want {
				t.Errorf("SupportsCompute() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVersion_SupportsFMA(t *testing.T) {
	tests := []struct {
		version Version
		want    bool
	}{
		{Version330, false},
		{Version400, true},
		{Version450, true},
		{VersionES300, false},
		{VersionES310, false},
		{VersionES320, true},
	}

	for _, tt := range tests {
		t.Run(tt.version.String(), func(t *testing.T) {
			got := tt.version.SupportsFMA()
			if got != tt.want {
				t.Errorf("SupportsFMA() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in      string
		want    Version
		wantErr bool
	}{
		{"300 es", VersionES300, false},
		{"300", VersionES300, false},
		{"310 es", VersionES310, false},
		{"330", Version330, false},
		{"330 core", Version330, false},
		{"450 core", Version450, false},
		{"100", Version{}, true},
		{"", Version{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseVersion(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseVersion(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseVersion(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

// =============================================================================
// Options Tests
// =============================================================================

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if opts.LangVersion != VersionES300 {
		t.Errorf("Expected LangVersion VersionES300, got %v", opts.LangVersion)
	}

	if !opts.ForceHighPrecision {
		t.Error("Expected ForceHighPrecision to be true")
	}
}

// =============================================================================
// Helpers
// =============================================================================

func lit(v float64) *graph.Node {
	return &graph.Node{Kind: graph.KindLiteral, Type: graph.Float, Value: v}
}

func construct(t graph.Type, args ...*graph.Node) *graph.Node {
	return &graph.Node{Kind: graph.KindConversion, Type: t, Children: args}
}

func fragment(result *graph.Node, globals ...*graph.Node) *graph.Module {
	return &graph.Module{
		Stage:   graph.StageFragment,
		Body:    &graph.Block{},
		Result:  result,
		Globals: globals,
	}
}

func red() *graph.Node {
	return construct(graph.Vec4, lit(1), lit(0), lit(0), lit(1))
}

// =============================================================================
// Type Tests
// =============================================================================

func TestTypeName(t *testing.T) {
	d := &dialect{version: VersionES300}
	tests := []struct {
		typ  graph.Type
		want string
	}{
		{graph.Float, "float"},
		{graph.Int, "int"},
		{graph.Uint, "uint"},
		{graph.Bool, "bool"},
		{graph.Vec2, "vec2"},
		{graph.Vec4, "vec4"},
		{graph.IVec3, "ivec3"},
		{graph.UVec2, "uvec2"},
		{graph.BVec4, "bvec4"},
		{graph.Mat3, "mat3"},
		{graph.Texture2D, "sampler2D"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got, err := d.TypeName(tt.typ)
			if err != nil {
				t.Fatalf("TypeName(%s) error = %v", tt.typ, err)
			}
			if got != tt.want {
				t.Errorf("TypeName(%s) = %q, want %q", tt.typ, got, tt.want)
			}
		})
	}

	if _, err := d.TypeName(graph.Void); err == nil {
		t.Error("TypeName(void) should fail")
	}
}

// =============================================================================
// Compile Tests
// =============================================================================

func TestCompile_ES300(t *testing.T) {
	source, info, err := Compile(fragment(red()), DefaultOptions())
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	if !strings.HasPrefix(source, "#version 300 es\n") {
		t.Errorf("Expected ES version directive, got: %s", source)
	}
	for _, want := range []string{
		"precision highp float;",
		"precision highp int;",
		"layout(location = 0) out vec4 fragColor;",
		"void main() {\n    fragColor = vec4(1.0, 0.0, 0.0, 1.0);\n}",
	} {
		if !strings.Contains(source, want) {
			t.Errorf("Expected %q in:\n%s", want, source)
		}
	}
	if info.RequiredVersion != VersionES300 {
		t.Errorf("RequiredVersion = %v, want 300 es", info.RequiredVersion)
	}
}

func TestCompile_ZeroVersion(t *testing.T) {
	source, _, err := Compile(fragment(red()), Options{})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	if !strings.HasPrefix(source, "#version 300 es") {
		t.Errorf("Expected default 300 es, got: %s", source)
	}
	if strings.Contains(source, "precision") {
		t.Error("Precision qualifiers written without ForceHighPrecision")
	}
}

func TestCompile_Version450(t *testing.T) {
	source, _, err := Compile(fragment(red()), Options{LangVersion: Version450, ForceHighPrecision: true})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	if !strings.HasPrefix(source, "#version 450 core") {
		t.Errorf("Expected 450 core, got: %s", source)
	}
	if strings.Contains(source, "precision") {
		t.Error("Desktop GLSL should not declare default precision")
	}
}

func TestCompile_NilModule(t *testing.T) {
	if _, _, err := Compile(nil, DefaultOptions()); err == nil {
		t.Error("Compile(nil) should fail")
	}
}

func TestCompile_Uniforms(t *testing.T) {
	time := &graph.Node{Kind: graph.KindUniform, Type: graph.Float, Op: "iTime"}
	tex := &graph.Node{Kind: graph.KindTexture, Type: graph.Texture2D, Op: "albedo"}
	uv := construct(graph.Vec2, lit(0.5))
	sample := &graph.Node{Kind: graph.KindCall, Op: "texture", Children: []*graph.Node{tex, uv}}
	result := &graph.Node{Kind: graph.KindOperator, Op: "*", Children: []*graph.Node{sample, time}}

	opts := DefaultOptions()
	opts.TextureBindingBase = 2
	source, info, err := Compile(fragment(result, time, tex), opts)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	for _, want := range []string{
		"uniform float iTime;",
		"uniform sampler2D albedo;",
		"fragColor = (texture(albedo, vec2(0.5)) * iTime);",
	} {
		if !strings.Contains(source, want) {
			t.Errorf("Expected %q in:\n%s", want, source)
		}
	}

	if len(info.Resources) != 2 {
		t.Fatalf("Resources = %v, want 2 entries", info.Resources)
	}
	if r := info.Resources[1]; r.Name != "albedo" || r.Binding != 2 || r.Type != "sampler2D" {
		t.Errorf("texture resource = %+v, want albedo at unit 2", r)
	}
}

func TestCompile_EscapesReservedNames(t *testing.T) {
	u := &graph.Node{Kind: graph.KindUniform, Type: graph.Float, Op: "input"}
	source, info, err := Compile(fragment(construct(graph.Vec4, u), u), DefaultOptions())
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	if !strings.Contains(source, "uniform float _input;") {
		t.Errorf("Expected escaped uniform in:\n%s", source)
	}
	if got := info.Resources[0]; got.Name != "_input" || got.Source != "input" {
		t.Errorf("resource = %+v, want _input declared from input", got)
	}
}

func TestCompile_VertexStage(t *testing.T) {
	pos := &graph.Node{Kind: graph.KindAttribute, Type: graph.Vec3, Op: "aPosition"}
	uv := &graph.Node{Kind: graph.KindAttribute, Type: graph.Vec2, Op: "aUv"}
	vUv := &graph.Node{Kind: graph.KindVarying, Type: graph.Vec2, Op: "vUv", Children: []*graph.Node{uv}}
	m := &graph.Module{
		Stage:    graph.StageVertex,
		Body:     &graph.Block{},
		Result:   construct(graph.Vec4, pos, lit(1)),
		Globals:  []*graph.Node{pos, uv},
		Varyings: []*graph.Node{vUv},
	}

	source, info, err := Compile(m, DefaultOptions())
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	for _, want := range []string{
		"layout(location = 0) in vec3 aPosition;",
		"layout(location = 1) in vec2 aUv;",
		"out vec2 vUv;",
		"gl_Position = vec4(aPosition, 1.0);",
		"vUv = aUv;",
	} {
		if !strings.Contains(source, want) {
			t.Errorf("Expected %q in:\n%s", want, source)
		}
	}
	if strings.Contains(source, "fragColor") {
		t.Error("Vertex stage declares a fragment output")
	}
	if len(info.Resources) != 3 {
		t.Errorf("Resources = %v, want two attributes and one varying", info.Resources)
	}
}

func TestCompile_FlatIntegerVarying(t *testing.T) {
	id := &graph.Node{Kind: graph.KindVarying, Type: graph.Int, Op: "vId"}
	m := fragment(construct(graph.Vec4, &graph.Node{Kind: graph.KindConversion, Type: graph.Float, Children: []*graph.Node{id}}))
	m.Varyings = []*graph.Node{id}

	source, _, err := Compile(m, DefaultOptions())
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if !strings.Contains(source, "flat in int vId;") {
		t.Errorf("Expected flat integer varying in:\n%s", source)
	}
}

func TestCompile_SampleVariables(t *testing.T) {
	idx := &graph.Node{Kind: graph.KindBuiltin, Type: graph.Uint, Op: "sample_index"}
	color := construct(graph.Vec4, &graph.Node{Kind: graph.KindConversion, Type: graph.Float, Children: []*graph.Node{idx}})

	_, _, err := Compile(fragment(color, idx), DefaultOptions())
	if !errors.Is(err, graph.ErrUnsupported) {
		t.Errorf("ES 300 error = %v, want unsupported", err)
	}

	source, _, err := Compile(fragment(color, idx), Options{LangVersion: VersionES320})
	if err != nil {
		t.Fatalf("ES 320 error = %v", err)
	}
	if !strings.Contains(source, "float(uint(gl_SampleID))") {
		t.Errorf("Expected gl_SampleID in:\n%s", source)
	}
}

func TestCompile_ComputeRequiresVersion(t *testing.T) {
	m := &graph.Module{Stage: graph.StageCompute, Body: &graph.Block{}, Workgroup: [3]uint32{8, 1, 1}}

	_, _, err := Compile(m, DefaultOptions())
	if !errors.Is(err, graph.ErrUnsupported) {
		t.Fatalf("Compile() error = %v, want unsupported", err)
	}
	if !strings.Contains(err.Error(), "glsl 300 es") {
		t.Errorf("error %q does not name the backend", err)
	}

	source, _, err := Compile(m, Options{LangVersion: VersionES310})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if !strings.Contains(source, "layout(local_size_x = 8, local_size_y = 1, local_size_z = 1) in;") {
		t.Errorf("Expected workgroup layout in:\n%s", source)
	}
}

func TestExpression(t *testing.T) {
	a := construct(graph.Vec3, lit(1))
	b := construct(graph.Vec3, lit(2))
	tests := []struct {
		name string
		n    *graph.Node
		want string
	}{
		{"equal vectors", &graph.Node{Kind: graph.KindOperator, Op: "==", Children: []*graph.Node{a, b}}, "equal(vec3(1.0), vec3(2.0))"},
		{"not", &graph.Node{Kind: graph.KindOperator, Op: "!", Children: []*graph.Node{
			construct(graph.BVec2, &graph.Node{Kind: graph.KindLiteral, Type: graph.Bool, Value: 1}),
		}}, "not(bvec2(true))"},
		{"pow splat", &graph.Node{Kind: graph.KindCall, Op: "pow", Children: []*graph.Node{a, lit(2)}}, "pow(vec3(1.0), vec3(2.0))"},
		{"uint literal", &graph.Node{Kind: graph.KindLiteral, Type: graph.Uint, Value: 3}, "3u"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Expression(tt.n, VersionES300)
			if err != nil {
				t.Fatalf("Expression() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Expression() = %q, want %q", got, tt.want)
			}
		})
	}
}
