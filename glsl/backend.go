// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"fmt"

	"github.com/gogpu/shadergraph/graph"
	"github.com/gogpu/shadergraph/internal/emit"
)

// Version represents a GLSL version.
type Version struct {
	Major uint8
	Minor uint8
	ES    bool // true for GLSL ES (OpenGL ES / WebGL)
}

// Common GLSL versions.
var (
	// Desktop OpenGL versions
	Version330 = Version{Major: 3, Minor: 30, ES: false} // OpenGL 3.3 Core
	Version400 = Version{Major: 4, Minor: 0, ES: false}  // OpenGL 4.0
	Version410 = Version{Major: 4, Minor: 10, ES: false} // OpenGL 4.1
	Version420 = Version{Major: 4, Minor: 20, ES: false} // OpenGL 4.2
	Version430 = Version{Major: 4, Minor: 30, ES: false} // OpenGL 4.3 (compute shaders)
	Version450 = Version{Major: 4, Minor: 50, ES: false} // OpenGL 4.5
	Version460 = Version{Major: 4, Minor: 60, ES: false} // OpenGL 4.6

	// OpenGL ES / WebGL versions
	VersionES300 = Version{Major: 3, Minor: 0, ES: true}  // ES 3.0 / WebGL 2.0
	VersionES310 = Version{Major: 3, Minor: 10, ES: true} // ES 3.1 (compute shaders)
	VersionES320 = Version{Major: 3, Minor: 20, ES: true} // ES 3.2
)

// String returns the version as a GLSL version directive value.
func (v Version) String() string {
	if v.ES {
		return fmt.Sprintf("%d%02d es", v.Major, v.Minor)
	}
	return fmt.Sprintf("%d%02d core", v.Major, v.Minor)
}

// VersionNumber returns just the numeric version (e.g., "330", "300").
func (v Version) VersionNumber() string {
	return fmt.Sprintf("%d%02d", v.Major, v.Minor)
}

// versionLessThan returns true if the numeric version (Major*100+Minor) is
// less than the given number. For example, versionLessThan(410) returns true
// for GLSL 330 (3*100+30=330 < 410) and false for GLSL 410 (4*100+10=410).
func (v Version) versionLessThan(number int) bool {
	return int(v.Major)*100+int(v.Minor) < number
}

// SupportsCompute returns true if this version supports compute shaders.
func (v Version) SupportsCompute() bool {
	if v.ES {
		return v.Major > 3 || (v.Major == 3 && v.Minor >= 10)
	}
	return v.Major > 4 || (v.Major == 4 && v.Minor >= 30)
}

// SupportsFMA reports whether the fma built-in exists.
func (v Version) SupportsFMA() bool {
	if v.ES {
		return !v.versionLessThan(320)
	}
	return !v.versionLessThan(400)
}

// SupportsSampleVariables reports whether gl_SampleID and gl_SampleMaskIn
// exist.
func (v Version) SupportsSampleVariables() bool {
	return v.SupportsFMA()
}

// ParseVersion parses a version as written after #version: "300 es",
// "330", "330 core". Version numbers are unique across ES and desktop.
func ParseVersion(s string) (Version, error) {
	for _, v := range []Version{
		Version330, Version400, Version410, Version420, Version430, Version450, Version460,
		VersionES300, VersionES310, VersionES320,
	} {
		if s == v.String() || s == v.VersionNumber() {
			return v, nil
		}
	}
	return Version{}, fmt.Errorf("glsl: unknown version %q", s)
}

// Options configures GLSL code generation.
type Options struct {
	// LangVersion is the target GLSL version.
	// Defaults to VersionES300 if zero.
	LangVersion Version

	// TextureBindingBase adds offset to texture unit indices reported in
	// the resource table.
	TextureBindingBase uint32

	// ForceHighPrecision declares highp defaults for float, int and
	// sampler2D (ES only).
	ForceHighPrecision bool
}

// DefaultOptions returns the WebGL 2 target.
func DefaultOptions() Options {
	return Options{
		LangVersion:        VersionES300,
		ForceHighPrecision: true,
	}
}

// Resource is one entry of the resource table.
type Resource = emit.Resource

// TranslationInfo contains metadata about the translation.
type TranslationInfo struct {
	// Headers maps each hoisted function name to its definition.
	Headers map[string]string

	// HeaderOrder lists the header names in emission order.
	HeaderOrder []string

	// Resources lists the uniforms, textures and stage inputs by name.
	// GLSL binds by name, so only texture units carry a Binding.
	Resources []Resource

	// RequiredVersion is the version the source was written for.
	RequiredVersion Version
}

// Compile generates GLSL source code from a built module.
// Returns the GLSL source as a string, translation info, or an error.
func Compile(module *graph.Module, options Options) (string, TranslationInfo, error) {
	if module == nil {
		return "", TranslationInfo{}, fmt.Errorf("glsl: %w", graph.NewError(graph.KindTypeMismatch, "nil module"))
	}
	// Apply defaults for zero values
	if options.LangVersion.Major == 0 {
		options.LangVersion = VersionES300
	}

	w := newWriter(module, &options)
	if err := w.writeModule(); err != nil {
		return "", TranslationInfo{}, fmt.Errorf("glsl: %w", err)
	}
	w.info.RequiredVersion = options.LangVersion
	return w.out.String(), w.info, nil
}

// Expression renders a single expression for version v without statements
// or hoisting.
func Expression(n *graph.Node, v Version) (string, error) {
	if v.Major == 0 {
		v = VersionES300
	}
	names := emit.NewNamer(graph.ReservedGLSL, true)
	out := emit.NewWriter(&dialect{names: names, version: v}, names, nil)
	s, err := out.Expression(n)
	if err != nil {
		return "", fmt.Errorf("glsl: %w", err)
	}
	return s, nil
}
