// SPDX-License-Identifier: MIT

package bucket

import "errors"

var (
	// ErrEmpty is returned when an index is built from zero thresholds.
	ErrEmpty = errors.New("bucket: no thresholds")

	// ErrDuplicate is returned when the same threshold appears twice.
	ErrDuplicate = errors.New("bucket: duplicate threshold")

	// ErrOutOfRange is returned by Locate for values below the smallest threshold.
	ErrOutOfRange = errors.New("bucket: value below smallest threshold")
)
