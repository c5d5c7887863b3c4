package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gogpu/shadergraph/artifact"
)

var (
	bundleGLSL bool
	bundleJSON bool
	bundleDrop bool
)

func init() {
	bundleCmd.Flags().BoolVar(&bundleGLSL, "glsl", false, "bundle GLSL instead of WGSL")
	bundleCmd.Flags().BoolVar(&bundleJSON, "json", false, "print the resource table as JSON")
	bundleCmd.Flags().BoolVar(&bundleDrop, "drop", false, "empty the bundle cache and exit")
}

var bundleCmd = &cobra.Command{
	Use:   "bundle [name...]",
	Short: "Store sample shaders in the bundle cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		cache, err := artifact.Open(cfg.Cache.Dir)
		if err != nil {
			return fmt.Errorf("open cache: %w", err)
		}
		if bundleDrop {
			return cache.DropAll()
		}

		shaders, err := lookup(args, false)
		if err != nil {
			return err
		}
		t, err := cfg.target(bundleGLSL)
		if err != nil {
			return err
		}
		bundles, err := buildAll(cmd.Context(), shaders, t, cfg.builderOptions(), 0)
		if err != nil {
			return err
		}
		for _, b := range bundles {
			key, err := cache.Put(b)
			if err != nil {
				return err
			}
			if bundleJSON {
				data, err := json.MarshalIndent(b.Resources(), "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", key, b.Name)
		}
		return nil
	},
}
