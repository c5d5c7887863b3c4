// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package wgsl renders shader graphs as WGSL (WebGPU Shading Language).
//
// Scalars and vectors use the typed constructor spelling (f32(1.0),
// vec3f(...), mat3x3f(...)), locals are var declarations and module
// resources are @group/@binding variables.
//
// # Usage
//
//	source, info, err := wgsl.Compile(module, wgsl.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, name := range info.HeaderOrder {
//	    fmt.Println(info.Headers[name])
//	}
//
// # Resource Slots
//
// Uniforms are bound in group 0 in first-use order. Each texture takes two
// slots in group 1: its sampler at binding 2k and the texture at 2k+1.
// Options.Bindings overrides individual slots; the final table is reported
// in TranslationInfo.Resources.
//
// # Stage IO
//
// Builtins, vertex attributes and fragment varyings are entry point
// parameters copied into private globals, so headers can read them.
// The vertex stage returns a VertexOutput struct carrying the clip position
// and every varying.
package wgsl
