// Package gallery holds the sample shaders compiled by sgc.
package gallery

import (
	"fmt"
	"sort"

	"github.com/gogpu/shadergraph"
	"github.com/gogpu/shadergraph/artifact"
	"github.com/gogpu/shadergraph/graph"
)

// Stage is one built stage of a sample.
type Stage struct {
	Name   string
	Module *graph.Module
}

// Shader is a named sample shader.
type Shader struct {
	Name        string
	Description string

	build func(b *shadergraph.Builder) ([]Stage, error)
}

// Build builds the sample with a fresh builder.
func (s *Shader) Build(opts ...shadergraph.Option) ([]Stage, error) {
	stages, err := s.build(shadergraph.NewBuilder(opts...))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Name, err)
	}
	return stages, nil
}

// Bundle builds the sample and serializes every stage for t.
func (s *Shader) Bundle(t shadergraph.Target, opts ...shadergraph.Option) (*artifact.Bundle, error) {
	stages, err := s.Build(opts...)
	if err != nil {
		return nil, err
	}
	bundle := artifact.New(s.Name, t.Backend())
	for _, st := range stages {
		out, err := shadergraph.Translate(st.Module, t)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", s.Name, st.Name, err)
		}
		bundle.Add(st.Name, out)
	}
	return bundle, nil
}

var shaders = map[string]*Shader{}

func register(s *Shader) {
	if _, dup := shaders[s.Name]; dup {
		panic("gallery: duplicate shader " + s.Name)
	}
	shaders[s.Name] = s
}

// List returns the samples sorted by name.
func List() []*Shader {
	out := make([]*Shader, 0, len(shaders))
	for _, s := range shaders {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Get returns the named sample.
func Get(name string) (*Shader, bool) {
	s, ok := shaders[name]
	return s, ok
}

func program(b *shadergraph.Builder, vertex, fragment func() shadergraph.Value) ([]Stage, error) {
	p, err := b.Program(vertex, fragment)
	if err != nil {
		return nil, err
	}
	return []Stage{{Name: "vertex", Module: p.Vertex}, {Name: "fragment", Module: p.Fragment}}, nil
}
