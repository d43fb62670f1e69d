// SPDX-License-Identifier: MIT

package clean

import "fmt"

// Kind enumerates the sparse-row strategies.
type Kind uint8

const (
	KindNone Kind = iota
	KindRebin
	KindDrop
)

// String returns the lower-case strategy name.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindRebin:
		return "rebin"
	case KindDrop:
		return "drop"
	default:
		return "unknown"
	}
}

// Defaults mirror the estimator configuration surface.
const (
	DefaultMinCount    = 10
	DefaultRebinWindow = 7
	DefaultAlpha       = 1.0
)

const (
	panicWindowNegative   = "clean: Rebin: window must be >= 0"
	panicMinCountNegative = "clean: min count must be >= 0"
)

// Strategy is a tagged variant: exactly one of None, Rebin or Drop.
// Building it once up front makes "rebin and drop at the same time" unrepresentable.
type Strategy struct {
	kind     Kind
	window   int // Rebin only: max label distance for the preferred donor
	minCount int // Rebin/Drop: rows with total < minCount are sparse
}

// None leaves every row in place.
func None() Strategy { return Strategy{kind: KindNone} }

// Rebin merges rows with total < minCount into the nearest populated row,
// preferring donors within window label units.
// Panics on negative arguments (programmer error).
func Rebin(window, minCount int) Strategy {
	if window < 0 {
		panic(panicWindowNegative)
	}
	if minCount < 0 {
		panic(panicMinCountNegative)
	}

	return Strategy{kind: KindRebin, window: window, minCount: minCount}
}

// Drop removes buckets whose row total is < minCount from both axes.
// Panics on a negative minCount (programmer error).
func Drop(minCount int) Strategy {
	if minCount < 0 {
		panic(panicMinCountNegative)
	}

	return Strategy{kind: KindDrop, minCount: minCount}
}

// Kind returns the variant tag.
func (s Strategy) Kind() Kind { return s.kind }

// Window returns the Rebin window (0 for other kinds).
func (s Strategy) Window() int { return s.window }

// MinCount returns the sparse-row threshold (0 for None).
func (s Strategy) MinCount() int { return s.minCount }

// String renders e.g. "rebin(window=7,min_count=10)".
func (s Strategy) String() string {
	switch s.kind {
	case KindRebin:
		return fmt.Sprintf("rebin(window=%d,min_count=%d)", s.window, s.minCount)
	case KindDrop:
		return fmt.Sprintf("drop(min_count=%d)", s.minCount)
	default:
		return s.kind.String()
	}
}
