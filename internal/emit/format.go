// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package emit

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gogpu/shadergraph/graph"
)

// FormatFloat formats a float literal. The result always has a decimal
// point or an exponent.
func FormatFloat(f float64) string {
	s := fmt.Sprintf("%g", f)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// CheckLiteral reports an error when v has no literal spelling of scalar
// kind t: NaN, infinities and values outside the 32-bit range of t.
func CheckLiteral(v float64, t graph.Type) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("non-finite %s literal %v", t, v)
	}
	lo, hi := -math.MaxFloat32, math.MaxFloat32
	switch t.Scalar {
	case graph.ScalarBool:
		return nil
	case graph.ScalarSint:
		v, lo, hi = math.Trunc(v), math.MinInt32, math.MaxInt32
	case graph.ScalarUint:
		v, lo, hi = math.Trunc(v), 0, math.MaxUint32
	}
	if v < lo || v > hi {
		return fmt.Errorf("literal %v out of %s range", v, t)
	}
	return nil
}

// FormatLiteral formats v as a literal of scalar kind t using the
// unsigned suffix both languages share.
func FormatLiteral(v float64, t graph.Type) string {
	switch t.Scalar {
	case graph.ScalarBool:
		return strconv.FormatBool(v != 0)
	case graph.ScalarSint:
		return strconv.FormatInt(int64(math.Trunc(v)), 10)
	case graph.ScalarUint:
		if v < 0 {
			v = 0
		}
		return strconv.FormatUint(uint64(math.Trunc(v)), 10) + "u"
	default:
		return FormatFloat(v)
	}
}
