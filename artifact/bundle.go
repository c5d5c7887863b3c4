// Package artifact packages emitted programs for the host-side assembly
// step and caches them on disk by content.
package artifact

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/gogpu/shadergraph"
	"github.com/gogpu/shadergraph/wgsl"
)

// Current schema version - increment when the Bundle format changes
const schemaVersion uint16 = 1

// Digest is the SHA-256 content key of a bundle.
type Digest [sha256.Size]byte

// String returns the digest in hex.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// ParseDigest decodes a hex digest.
func ParseDigest(s string) (Digest, error) {
	var d Digest
	b, err := hex.DecodeString(s)
	if err != nil {
		return d, fmt.Errorf("artifact: digest: %w", err)
	}
	if len(b) != len(d) {
		return d, fmt.Errorf("artifact: digest has %d bytes, want %d", len(b), len(d))
	}
	copy(d[:], b)
	return d, nil
}

// Stage is one serialized shader stage.
type Stage struct {
	// Stage is "vertex", "fragment" or "compute".
	Stage string `msgpack:"stage" json:"stage"`

	Source      string            `msgpack:"source" json:"source"`
	Headers     map[string]string `msgpack:"headers,omitempty" json:"headers,omitempty"`
	HeaderOrder []string          `msgpack:"header_order,omitempty" json:"header_order,omitempty"`
	Resources   []wgsl.Resource   `msgpack:"resources,omitempty" json:"resources,omitempty"`
}

// Bundle is a program ready to be compiled and linked by the host.
type Bundle struct {
	// Schema version for safe invalidation when the format changes
	Schema uint16 `msgpack:"schema" json:"schema"`

	Name    string  `msgpack:"name" json:"name"`
	Backend string  `msgpack:"backend" json:"backend"`
	Stages  []Stage `msgpack:"stages" json:"stages"`
}

// New returns an empty bundle for the named program.
func New(name, backend string) *Bundle {
	return &Bundle{Schema: schemaVersion, Name: name, Backend: backend}
}

// Add appends a serialized stage.
func (b *Bundle) Add(stage string, out *shadergraph.Output) {
	if out == nil {
		return
	}
	b.Stages = append(b.Stages, Stage{
		Stage:       stage,
		Source:      out.Source,
		Headers:     out.Headers,
		HeaderOrder: out.HeaderOrder,
		Resources:   out.Resources,
	})
}

// FromProgram bundles both stages of a translated program.
func FromProgram(name string, target shadergraph.Target, p *shadergraph.ProgramOutput) *Bundle {
	b := New(name, target.Backend())
	b.Add("vertex", p.Vertex)
	b.Add("fragment", p.Fragment)
	return b
}

// Stage returns the named stage.
func (b *Bundle) Stage(name string) (Stage, bool) {
	for _, s := range b.Stages {
		if s.Stage == name {
			return s, true
		}
	}
	return Stage{}, false
}

// Resources returns the resource table of all stages. A resource shared by
// several stages is listed once, with the first stage's slots.
func (b *Bundle) Resources() []wgsl.Resource {
	seen := make(map[string]bool)
	var out []wgsl.Resource
	for _, s := range b.Stages {
		for _, r := range s.Resources {
			key := string(r.Kind) + ":" + r.Name
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, r)
		}
	}
	return out
}

// Marshal encodes the bundle with msgpack.
func (b *Bundle) Marshal() ([]byte, error) {
	data, err := msgpack.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("artifact: encode %s: %w", b.Name, err)
	}
	return data, nil
}

// Key returns the content digest of the bundle.
func (b *Bundle) Key() (Digest, error) {
	data, err := b.Marshal()
	if err != nil {
		return Digest{}, err
	}
	return sha256.Sum256(data), nil
}

// Unmarshal decodes a bundle written by Marshal.
func Unmarshal(data []byte) (*Bundle, error) {
	var b Bundle
	if err := msgpack.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("artifact: decode: %w", err)
	}
	if b.Schema != schemaVersion {
		return nil, fmt.Errorf("artifact: schema %d, want %d", b.Schema, schemaVersion)
	}
	return &b, nil
}
