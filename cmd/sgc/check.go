package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gogpu/shadergraph"
	"github.com/gogpu/shadergraph/check"
)

var checkCmd = &cobra.Command{
	Use:   "check [name...]",
	Short: "Validate the WGSL of sample shaders with naga",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		shaders, err := lookup(args, all)
		if err != nil {
			return err
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

		ok := color.New(color.FgGreen).Sprint("ok")
		failed := 0
		for _, s := range shaders {
			b, err := s.Bundle(t, cfg.builderOptions()...)
			if err != nil {
				return err
			}
			for _, st := range b.Stages {
				report, err := check.WGSL(st.Source)
				if err != nil {
					return fmt.Errorf("%s %s: %w", s.Name, st.Stage, err)
				}
				if report.OK() {
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", s.Name, st.Stage, ok)
					continue
				}
				failed++
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n  %s\n", s.Name, st.Stage,
					color.RedString("invalid"), strings.Join(report.Problems, "\n  "))
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d stage(s) failed validation", failed)
		}
		shadergraph.Logger().Debug("sgc: checked shaders", "count", len(shaders))
		return nil
	},
}

func init() {
	checkCmd.Flags().Bool("all", false, "check every sample")
}
