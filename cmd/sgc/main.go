// Command sgc builds the sample shader graphs and serializes them.
//
// Usage:
//
//	sgc list
//	sgc emit [--glsl] [--all] [name...]
//	sgc check <name>
//	sgc spirv -o out.spv <name>
//	sgc bundle [--glsl] <name>
//
// Settings are read from the nearest sgc.toml in the working directory or
// one of its parents.
package main

import (
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gogpu/shadergraph"
)

var (
	versionColor = color.New(color.FgGreen, color.Bold)

	// Version is the sgc version. Overridden at build time via -ldflags.
	Version = "0.1.0-dev"
)

var rootCmd = &cobra.Command{
	Use:           "sgc",
	Short:         "Shader graph compiler",
	Long:          `sgc builds shader graphs and serializes them as WGSL or GLSL.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		useColor, err := colorEnabled(cmd, os.Stdout)
		if err != nil {
			return err
		}
		color.NoColor = !useColor

		level := slog.LevelWarn
		if v, _ := cmd.Flags().GetBool("verbose"); v {
			level = slog.LevelDebug
		}
		if q, _ := cmd.Flags().GetBool("quiet"); q {
			level = slog.LevelError
		}
		shadergraph.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		return nil
	},
}

func main() {
	rootCmd.Version = versionColor.Sprint(Version)

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(emitCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(spirvCmd)
	rootCmd.AddCommand(bundleCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log build and emit steps")
	rootCmd.PersistentFlags().String("config", "", "config file (default: nearest sgc.toml)")

	if err := rootCmd.Execute(); err != nil {
		_, _ = color.New(color.FgRed, color.Bold).Fprint(os.Stderr, "error: ")
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

// isTerminal reports whether f is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func colorEnabled(cmd *cobra.Command, f *os.File) (bool, error) {
	flag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, err
	}
	switch flag {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto":
		return isTerminal(f), nil
	}
	return false, usageError("--color must be auto, on or off, got %q", flag)
}
