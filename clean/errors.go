// SPDX-License-Identifier: MIT

package clean

import "errors"

var (
	// ErrNegativeAlpha is returned when the smoothing constant is negative or not finite.
	ErrNegativeAlpha = errors.New("clean: alpha must be finite and >= 0")

	// ErrShape is returned when the counts are not square or labels do not match their size.
	ErrShape = errors.New("clean: counts must be square with one label per bucket")
)
