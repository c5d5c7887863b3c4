// Package check runs emitted WGSL through the naga compiler so that
// serializer output is verified by an independent front end.
package check

import (
	"encoding/binary"
	"fmt"
	"regexp"

	"github.com/gogpu/naga"

	"github.com/gogpu/shadergraph"
)

// spirvMagic is the first word of every SPIR-V module.
const spirvMagic = 0x07230203

// aliasPattern matches the predeclared vector and matrix aliases (vec3f,
// mat4x4f) that the naga front end resolves only in generic form.
var aliasPattern = regexp.MustCompile(`\b(vec[234]|mat[234]x[234])([fiu])\b`)

var aliasScalars = map[string]string{
	"f": "f32",
	"i": "i32",
	"u": "u32",
}

// Canonicalize spells predeclared aliases generically: vec3f becomes
// vec3<f32> and mat3x3f becomes mat3x3<f32>.
func Canonicalize(source string) string {
	return aliasPattern.ReplaceAllStringFunc(source, func(m string) string {
		sub := aliasPattern.FindStringSubmatch(m)
		return sub[1] + "<" + aliasScalars[sub[2]] + ">"
	})
}

// Report summarizes a checked WGSL module.
type Report struct {
	// EntryPoints lists the entry point names naga found.
	EntryPoints []string

	// Functions is the number of functions, entry points included.
	Functions int

	// Globals is the number of module-scope variables.
	Globals int

	// Problems holds naga's validation findings.
	Problems []string
}

// OK reports whether validation found nothing.
func (r *Report) OK() bool {
	return len(r.Problems) == 0
}

// WGSL parses, lowers and validates source. Syntax and lowering failures
// are returned as errors; validation findings are listed in the report.
func WGSL(source string) (*Report, error) {
	source = Canonicalize(source)
	ast, err := naga.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("check: %w", err)
	}
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return nil, fmt.Errorf("check: lowering error: %w", err)
	}
	problems, err := naga.Validate(module)
	if err != nil {
		return nil, fmt.Errorf("check: validation error: %w", err)
	}

	r := &Report{
		Functions: len(module.Functions),
		Globals:   len(module.GlobalVariables),
	}
	for _, ep := range module.EntryPoints {
		r.EntryPoints = append(r.EntryPoints, ep.Name)
	}
	for i := range problems {
		r.Problems = append(r.Problems, problems[i].Error())
	}
	shadergraph.Logger().Debug("check: validated wgsl", "entryPoints", len(r.EntryPoints), "problems", len(r.Problems))
	return r, nil
}

// Options configures SPIR-V generation.
type Options struct {
	// Validate runs naga's IR validation before code generation.
	Validate bool

	// Debug emits OpName and OpLine debug instructions.
	Debug bool
}

// SPIRV compiles WGSL source to a SPIR-V binary.
func SPIRV(source string, opts Options) ([]byte, error) {
	co := naga.DefaultOptions()
	co.Validate = opts.Validate
	co.Debug = opts.Debug
	out, err := naga.CompileWithOptions(Canonicalize(source), co)
	if err != nil {
		return nil, fmt.Errorf("check: %w", err)
	}
	if !IsSPIRV(out) {
		return nil, fmt.Errorf("check: compiler output has no SPIR-V header")
	}
	shadergraph.Logger().Debug("check: generated spir-v", "bytes", len(out))
	return out, nil
}

// IsSPIRV reports whether b starts with the little-endian SPIR-V magic
// number and holds whole words.
func IsSPIRV(b []byte) bool {
	if len(b) < 20 || len(b)%4 != 0 {
		return false
	}
	return binary.LittleEndian.Uint32(b) == spirvMagic
}
