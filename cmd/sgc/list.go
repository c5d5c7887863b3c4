package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/gogpu/shadergraph/internal/gallery"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the sample shaders",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return writeList(cmd.OutOrStdout(), gallery.List())
	},
}

func writeList(w io.Writer, shaders []*gallery.Shader) error {
	width := 0
	for _, s := range shaders {
		width = max(width, runewidth.StringWidth(s.Name))
	}
	name := color.New(color.FgCyan)
	for _, s := range shaders {
		if _, err := fmt.Fprintf(w, "%s  %s\n", name.Sprint(runewidth.FillRight(s.Name, width)), s.Description); err != nil {
			return err
		}
	}
	return nil
}

func usageError(format string, args ...any) error {
	return fmt.Errorf("usage: "+format, args...)
}

// lookup returns the named samples, or every sample when all is set.
func lookup(names []string, all bool) ([]*gallery.Shader, error) {
	if all {
		if len(names) > 0 {
			return nil, usageError("--all takes no names")
		}
		return gallery.List(), nil
	}
	if len(names) == 0 {
		return nil, usageError("no shader named; see sgc list")
	}
	out := make([]*gallery.Shader, 0, len(names))
	for _, n := range names {
		s, ok := gallery.Get(n)
		if !ok {
			return nil, fmt.Errorf("unknown shader %q; see sgc list", n)
		}
		out = append(out, s)
	}
	return out, nil
}
