// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package glsl renders shader graphs as GLSL (OpenGL Shading Language).
//
// It supports multiple GLSL versions for different target platforms:
//
//   - GLSL ES 3.00: WebGL 2.0, Mobile OpenGL ES 3.0 (the default)
//   - GLSL ES 3.10: compute shaders
//   - GLSL ES 3.20: fma and sample variables
//   - GLSL 3.30 Core and later: Desktop OpenGL
//
// # Basic Usage
//
//	source, info, err := glsl.Compile(module, glsl.Options{
//	    LangVersion: glsl.Version330,
//	})
//
// # Textures
//
// GLSL combines textures and samplers, so every texture is declared as a
// sampler2D uniform. Texture units are reported in TranslationInfo.Resources
// starting at Options.TextureBindingBase.
//
// # Reserved Words
//
// GLSL has over 500 reserved words (including future reserved).
// Conflicting identifiers are prefixed with an underscore, and identifiers
// are restricted to ASCII.
//
// # Version Gating
//
// Constructs the target version lacks fail with a graph.ErrUnsupported
// error naming the backend, e.g. "unsupported in backend glsl 300 es:
// compute stage".
package glsl
