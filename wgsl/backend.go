// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package wgsl

import (
	"fmt"

	"github.com/gogpu/shadergraph/graph"
	"github.com/gogpu/shadergraph/internal/emit"
)

// Backend is the name used in unsupported-construct errors.
const Backend = "wgsl"

// Binding is a resource slot.
type Binding struct {
	Group   uint32
	Binding uint32
}

// Resource is one entry of the resource table.
type Resource = emit.Resource

// Options configures WGSL code generation.
type Options struct {
	// EntryPoint is the name of the generated entry function.
	// Defaults to "main" if empty.
	EntryPoint string

	// Bindings overrides the default slot of a uniform or texture by its
	// declared name. A texture's sampler is keyed by the texture name with
	// "Sampler" appended.
	Bindings map[string]Binding

	// UniformGroup is the bind group of uniforms.
	UniformGroup uint32

	// TextureGroup is the bind group of textures and samplers.
	TextureGroup uint32
}

// DefaultOptions returns the default slot layout: uniforms in group 0 and
// textures in group 1.
func DefaultOptions() Options {
	return Options{
		EntryPoint:   "main",
		UniformGroup: 0,
		TextureGroup: 1,
	}
}

// TranslationInfo contains metadata about the translation.
type TranslationInfo struct {
	// EntryPoint is the generated entry function name.
	EntryPoint string

	// Headers maps each hoisted function name to its definition.
	Headers map[string]string

	// HeaderOrder lists the header names in emission order.
	HeaderOrder []string

	// Resources is the binding and location table of the module.
	Resources []Resource
}

// Compile generates WGSL source code from a built module.
func Compile(module *graph.Module, options Options) (string, TranslationInfo, error) {
	if module == nil {
		return "", TranslationInfo{}, fmt.Errorf("wgsl: %w", graph.NewError(graph.KindTypeMismatch, "nil module"))
	}
	if options.EntryPoint == "" {
		options.EntryPoint = "main"
	}

	w := newWriter(module, &options)
	if err := w.writeModule(); err != nil {
		return "", TranslationInfo{}, fmt.Errorf("wgsl: %w", err)
	}
	return w.out.String(), w.info, nil
}

// Expression renders a single expression without statements or hoisting.
// Resources render as their declared names.
func Expression(n *graph.Node) (string, error) {
	names := emit.NewNamer(graph.ReservedWGSL, false)
	out := emit.NewWriter(&dialect{names: names}, names, nil)
	s, err := out.Expression(n)
	if err != nil {
		return "", fmt.Errorf("wgsl: %w", err)
	}
	return s, nil
}
