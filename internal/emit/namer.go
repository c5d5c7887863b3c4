// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package emit

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Namer assigns emitted identifiers. A key always maps to the same name;
// distinct keys never share one.
type Namer struct {
	reserved map[string]struct{}
	ascii    bool

	usedNames map[string]struct{}
	names     map[string]string
	counter   uint32
}

// NewNamer creates a namer that escapes the reserved words. With ascii set,
// non-ASCII letters are spelled out as uXXXX.
func NewNamer(reserved map[string]struct{}, ascii bool) *Namer {
	return &Namer{
		reserved:  reserved,
		ascii:     ascii,
		usedNames: make(map[string]struct{}),
		names:     make(map[string]string),
	}
}

// Name returns the identifier for key, allocating one derived from base
// on first use.
func (n *Namer) Name(key, base string) string {
	if name, ok := n.names[key]; ok {
		return name
	}
	name := n.Fresh(base)
	n.names[key] = name
	return name
}

// Lookup returns the identifier already allocated for key.
func (n *Namer) Lookup(key string) (string, bool) {
	name, ok := n.names[key]
	return name, ok
}

// Fresh returns a new unique identifier derived from base.
func (n *Namer) Fresh(base string) string {
	escaped := n.Escape(base)
	if _, used := n.usedNames[escaped]; !used {
		n.usedNames[escaped] = struct{}{}
		return escaped
	}
	for {
		n.counter++
		candidate := fmt.Sprintf("%s_%d", escaped, n.counter)
		if _, used := n.usedNames[candidate]; !used {
			n.usedNames[candidate] = struct{}{}
			return candidate
		}
	}
}

// Used reports whether name was handed out or reserved.
func (n *Namer) Used(name string) bool {
	_, ok := n.usedNames[name]
	return ok
}

// Reserve marks name as taken.
func (n *Namer) Reserve(name string) {
	n.usedNames[name] = struct{}{}
}

// Escape normalizes base and renames reserved words. It does not check
// uniqueness.
func (n *Namer) Escape(base string) string {
	if base == "" {
		return "_unnamed"
	}
	base = norm.NFC.String(base)
	if n.ascii {
		base = asciiOnly(base)
	}
	if _, ok := n.reserved[base]; ok {
		return "_" + base
	}
	if strings.HasPrefix(base, "gl_") {
		return "_" + base
	}
	return base
}

func asciiOnly(s string) string {
	if !hasNonASCII(s) {
		return s
	}
	var sb strings.Builder
	for _, r := range s {
		if r < utf8.RuneSelf {
			sb.WriteRune(r)
			continue
		}
		fmt.Fprintf(&sb, "u%04X", r)
	}
	return sb.String()
}

func hasNonASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return true
		}
	}
	return false
}
