package gallery

import (
	"github.com/gogpu/shadergraph"
	"github.com/gogpu/shadergraph/graph"
)

type value = shadergraph.Value

func init() {
	register(&Shader{
		Name:        "gradient",
		Description: "screen-space uv gradient pulsing with time",
		build: func(b *shadergraph.Builder) ([]Stage, error) {
			return program(b, nil, func() value {
				uv := b.Builtin("uv").ToVar("uv")
				return b.Vec3(uv.X(), uv.Y(), b.Time().Sin().Mul(0.5).Add(0.5))
			})
		},
	})

	register(&Shader{
		Name:        "plasma",
		Description: "sum of sine waves accumulated in a counted loop",
		build: func(b *shadergraph.Builder) ([]Stage, error) {
			return program(b, nil, func() value {
				uv := b.Builtin("uv").ToVar("uv")
				v := b.Float(0).ToVar("v")
				b.Loop(4, func(i value) {
					k := i.ToFloat().Add(1).ToVar("k")
					v.AddAssign(uv.X().Mul(k).Add(uv.Y()).Mul(10).Add(b.Time()).Sin().Div(k))
				})
				return b.Vec3(v.Sin(), v.Cos(), v.Mul(0.5)).Mul(0.5).Add(0.5)
			})
		},
	})

	register(&Shader{
		Name:        "checker",
		Description: "checkerboard selected with if/else",
		build: func(b *shadergraph.Builder) ([]Stage, error) {
			return program(b, nil, func() value {
				cell := b.Builtin("uv").Mul(8).Floor().ToVar("cell")
				col := b.Vec3(0.1).ToVar("col")
				b.If(cell.X().Add(cell.Y()).Mod(2).LessThan(1), func() {
					col.Assign(b.Vec3(0.9))
				}).Else(func() {
					col.Assign(b.Vec3(0.2, 0.3, 0.4))
				})
				return col
			})
		},
	})

	register(&Shader{
		Name:        "rings",
		Description: "concentric rings drawn by a hoisted function",
		build: func(b *shadergraph.Builder) ([]Stage, error) {
			ring := b.Fn(func(args []value) value {
				d := args[0].Sub(args[1]).Abs()
				return d.Smoothstep(0.02, 0.0)
			}).MustSetLayout(graph.Layout{
				Name: "ring",
				Type: graph.Float,
				Inputs: []graph.Param{
					{Name: "d", Type: graph.Float},
					{Name: "radius", Type: graph.Float},
				},
			})
			return program(b, nil, func() value {
				d := b.Builtin("uv").Sub(0.5).Length().ToVar("d")
				r := ring.Call(d, 0.1).Add(ring.Call(d, 0.25)).Add(ring.Call(d, b.Time().Fract().Mul(0.5)))
				return b.Vec3(r)
			})
		},
	})

	register(&Shader{
		Name:        "palette",
		Description: "bands chosen by a switch over a quantized coordinate",
		build: func(b *shadergraph.Builder) ([]Stage, error) {
			return program(b, nil, func() value {
				band := b.Builtin("uv").X().Mul(4).ToInt().ToVar("band")
				col := b.Vec3(0).ToVar("col")
				b.Switch(band).
					Case(0)(func() { col.Assign(b.Vec3(1, 0, 0)) }).
					Case(1, 2)(func() { col.Assign(b.Vec3(0, 1, 0)) }).
					Default(func() { col.Assign(b.Vec3(0, 0, 1)) })
				return col
			})
		},
	})

	register(&Shader{
		Name:        "texture",
		Description: "samples a texture through a vertex-stage varying",
		build: func(b *shadergraph.Builder) ([]Stage, error) {
			albedo := b.Texture("albedo")
			return program(b, nil, func() value {
				vi := b.Builtin("vertex_index")
				uv := b.Varying(b.Vec2(vi.ShiftLeft(1).BitAnd(2).ToFloat(), vi.BitAnd(2).ToFloat()), "vUv")
				return albedo.Sample(uv).RGB().Mul(b.Uniform(graph.Vec3, "tint"))
			})
		},
	})

	register(&Shader{
		Name:        "scale",
		Description: "compute pass doubling the invocation index",
		build: func(b *shadergraph.Builder) ([]Stage, error) {
			m, err := b.Compute(64, func() {
				x := b.Builtin("global_invocation_id").X().ToFloat().ToVar("x")
				x.MulAssign(2)
			})
			if err != nil {
				return nil, err
			}
			return []Stage{{Name: "compute", Module: m}}, nil
		},
	})
}
