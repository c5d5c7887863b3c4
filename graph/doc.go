// Package graph defines the shader graph representation shared by the
// construction API and both code generation backends.
//
// The graph is designed to be:
//   - Backend-agnostic: nodes carry no WGSL or GLSL syntax
//   - Permissive: construction never fails on type errors, so generic
//     "auto"-typed helpers can be recorded before call-site types are known
//   - Identity-based: the same *Node referenced twice denotes one value
//
// # Structure
//
// A Module holds everything one top-level build produced:
//   - Functions: hoisted function definitions in registration order
//   - Globals: uniforms, attributes, textures, varyings and constants
//   - Structs: struct type definitions
//   - Body: the entry point statements
//   - Result: the value the entry point produces
//
// # Types
//
// Types form a promotion lattice. Join computes the result type of a binary
// operator; Infer computes the type of any node structurally.
//
// # Scopes
//
// Scopes live in an arena (Scopes) and are addressed by ScopeID. Every node
// records the innermost scope it depends on, which lets the builder reject
// references to variables whose declaring scope has already closed.
package graph
