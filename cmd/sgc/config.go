package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/gogpu/shadergraph"
	"github.com/gogpu/shadergraph/glsl"
	"github.com/gogpu/shadergraph/wgsl"
)

const configName = "sgc.toml"

// config is the contents of sgc.toml.
type config struct {
	Target  targetConfig             `toml:"target"`
	Builder builderConfig            `toml:"builder"`
	Cache   cacheConfig              `toml:"cache"`
	Binding map[string]bindingConfig `toml:"bindings"`
}

type targetConfig struct {
	// Backend is "wgsl" or "glsl".
	Backend     string `toml:"backend"`
	GLSLVersion string `toml:"glsl_version"`
}

type builderConfig struct {
	NamePrefix string   `toml:"name_prefix"`
	LoopNames  []string `toml:"loop_names"`
}

type cacheConfig struct {
	Dir string `toml:"dir"`
}

type bindingConfig struct {
	Group   uint32 `toml:"group"`
	Binding uint32 `toml:"binding"`
}

// findConfig walks from startDir up to the filesystem root looking for
// sgc.toml.
func findConfig(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, configName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadConfig(path string) (config, error) {
	var cfg config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return config{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	switch cfg.Target.Backend {
	case "", "wgsl", "glsl":
	default:
		return config{}, fmt.Errorf("%s: target.backend must be wgsl or glsl, got %q", path, cfg.Target.Backend)
	}
	if cfg.Target.GLSLVersion != "" {
		if _, err := glsl.ParseVersion(cfg.Target.GLSLVersion); err != nil {
			return config{}, fmt.Errorf("%s: %w", path, err)
		}
	}
	return cfg, nil
}

// resolveConfig loads --config, or the nearest sgc.toml. A missing file
// yields the zero config.
func resolveConfig(cmd *cobra.Command) (config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return config{}, err
	}
	if path == "" {
		var ok bool
		path, ok, err = findConfig(".")
		if err != nil || !ok {
			return config{}, err
		}
	}
	cfg, err := loadConfig(path)
	if err != nil {
		return config{}, err
	}
	shadergraph.Logger().Debug("sgc: loaded config", "path", path)
	return cfg, nil
}

// target returns the emit target. forceGLSL comes from --glsl.
func (c config) target(forceGLSL bool) (shadergraph.Target, error) {
	t := shadergraph.Target{GLSL: forceGLSL || c.Target.Backend == "glsl"}
	if c.Target.GLSLVersion != "" {
		v, err := glsl.ParseVersion(c.Target.GLSLVersion)
		if err != nil {
			return t, err
		}
		t.GLSLVersion = v
	}
	if len(c.Binding) > 0 {
		t.Bindings = make(map[string]wgsl.Binding, len(c.Binding))
		for name, b := range c.Binding {
			t.Bindings[name] = wgsl.Binding{Group: b.Group, Binding: b.Binding}
		}
	}
	return t, nil
}

// builderOptions returns the builder options of the [builder] table.
func (c config) builderOptions() []shadergraph.Option {
	var opts []shadergraph.Option
	if c.Builder.NamePrefix != "" {
		opts = append(opts, shadergraph.WithNamePrefix(c.Builder.NamePrefix))
	}
	if len(c.Builder.LoopNames) > 0 {
		opts = append(opts, shadergraph.WithLoopIndexNames(c.Builder.LoopNames...))
	}
	return opts
}
