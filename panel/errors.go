// SPDX-License-Identifier: MIT

package panel

import "errors"

var (
	// ErrMissingColumn is returned when a mapped column is absent from a Frame header.
	ErrMissingColumn = errors.New("panel: missing column")

	// ErrBadValue is returned when a time or bucket cell cannot be parsed.
	ErrBadValue = errors.New("panel: unparsable value")

	// ErrRaggedRecord is returned when a record's width differs from the header.
	ErrRaggedRecord = errors.New("panel: record width does not match header")
)
