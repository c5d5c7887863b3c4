package main

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/shadergraph"
	"github.com/gogpu/shadergraph/artifact"
	"github.com/gogpu/shadergraph/internal/gallery"
)

var (
	emitGLSL bool
	emitAll  bool
	emitJobs int
)

func init() {
	emitCmd.Flags().BoolVar(&emitGLSL, "glsl", false, "emit GLSL instead of WGSL")
	emitCmd.Flags().BoolVar(&emitAll, "all", false, "emit every sample")
	emitCmd.Flags().IntVarP(&emitJobs, "jobs", "j", 0, "parallel builds (default: GOMAXPROCS)")
}

var emitCmd = &cobra.Command{
	Use:   "emit [name...]",
	Short: "Print the serialized stages of sample shaders",
	RunE: func(cmd *cobra.Command, args []string) error {
		shaders, err := lookup(args, emitAll)
		if err != nil {
			return err
		}
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		t, err := cfg.target(emitGLSL)
		if err != nil {
			return err
		}
		bundles, err := buildAll(cmd.Context(), shaders, t, cfg.builderOptions(), emitJobs)
		if err != nil {
			return err
		}
		quiet, _ := cmd.Flags().GetBool("quiet")
		for _, b := range bundles {
			if err := writeBundle(cmd.OutOrStdout(), b, !quiet); err != nil {
				return err
			}
		}
		return nil
	},
}

// buildAll builds every shader concurrently, one builder each, and
// returns the bundles in input order.
func buildAll(ctx context.Context, shaders []*gallery.Shader, t shadergraph.Target, opts []shadergraph.Option, jobs int) ([]*artifact.Bundle, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]*artifact.Bundle, len(shaders))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(shaders))))
	for i, s := range shaders {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			b, err := s.Bundle(t, opts...)
			if err != nil {
				return err
			}
			results[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func writeBundle(w io.Writer, b *artifact.Bundle, banner bool) error {
	heading := color.New(color.FgYellow, color.Bold)
	var sb strings.Builder
	for _, st := range b.Stages {
		if banner {
			sb.WriteString(heading.Sprintf("// ==== %s %s (%s) ====", b.Name, st.Stage, b.Backend))
			sb.WriteByte('\n')
		}
		sb.WriteString(st.Source)
		if !strings.HasSuffix(st.Source, "\n") {
			sb.WriteByte('\n')
		}
	}
	_, err := fmt.Fprint(w, sb.String())
	return err
}
