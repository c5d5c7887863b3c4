// Package shadergraph builds GPU shaders from Go code and serializes them as
// WGSL or GLSL.
//
// Shader code is written as chained method calls on Value proxies. Nothing
// is computed: every call allocates a graph node, and control flow
// constructs record their bodies into lexical scopes. A stage entry point
// then returns the finished graph.Module, which Emit serializes.
//
// Example:
//
//	b := shadergraph.NewBuilder()
//	m, err := b.Fragment(func() shadergraph.Value {
//	    uv := b.Builtin("uv").ToVar("uv")
//	    c := b.Vec3(uv.X(), uv.Y(), b.Time().Sin().Mul(0.5).Add(0.5))
//	    return c
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	source, headers, err := shadergraph.Emit(m, shadergraph.Target{})
//
// # Values and Variables
//
// A Value referenced twice denotes one value. Call ToVar to bind it to a
// named variable; later uses then emit the bare name. Shared values that
// were not bound are hoisted into temporaries by the serializer.
//
// # Functions
//
// Fn wraps a Go callback as a shader function. The body is captured the
// first time the function is called and emitted once, before the entry
// point, however many call sites it has. Parameters typed auto take the
// type of the first call's arguments; a call with a different argument
// signature produces a further header named after the argument types.
//
// # Errors
//
// Construction never panics on shader errors. Misuse such as reading a
// variable after its scope closed is recorded by the Builder and returned
// by the stage entry point. Type errors surface when the module is
// validated or serialized. All errors wrap *graph.Error and match the
// graph.Err* sentinels with errors.Is.
//
// # Concurrency
//
// A Builder is single-threaded. Builders share no state, so independent
// builds run concurrently with one builder each.
package shadergraph
