package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/shadergraph/check"
	"github.com/gogpu/shadergraph/internal/gallery"
)

var (
	spirvOutput string
	spirvStage  string
	spirvDebug  bool
)

func init() {
	spirvCmd.Flags().StringVarP(&spirvOutput, "output", "o", "", "output file (required)")
	spirvCmd.Flags().StringVar(&spirvStage, "stage", "fragment", "stage to compile")
	spirvCmd.Flags().BoolVar(&spirvDebug, "debug", false, "include debug info")
	_ = spirvCmd.MarkFlagRequired("output")
}

var spirvCmd = &cobra.Command{
	Use:   "spirv <name>",
	Short: "Compile one stage of a sample shader to SPIR-V with naga",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, ok := gallery.Get(args[0])
		if !ok {
			return fmt.Errorf("unknown shader %q; see sgc list", args[0])
		}
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		t, err := cfg.target(false)
		if err != nil {
			return err
		}
		t.GLSL = false

		b, err := s.Bundle(t, cfg.builderOptions()...)
		if err != nil {
			return err
		}
		st, ok := b.Stage(spirvStage)
		if !ok {
			return fmt.Errorf("%s has no %s stage", s.Name, spirvStage)
		}
		code, err := check.SPIRV(st.Source, check.Options{Validate: true, Debug: spirvDebug})
		if err != nil {
			return fmt.Errorf("%s %s: %w", s.Name, st.Stage, err)
		}
		if err := os.WriteFile(spirvOutput, code, 0o644); err != nil {
			return fmt.Errorf("error writing output: %w", err)
		}
		if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet {
			sum, err := check.Inspect(code)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "compiled %s %s to %s (%d bytes, SPIR-V %d.%d, %d instructions)\n",
				s.Name, st.Stage, spirvOutput, len(code), sum.Major, sum.Minor, sum.Instructions)
		}
		return nil
	},
}
