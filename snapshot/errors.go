// SPDX-License-Identifier: MIT

package snapshot

import "errors"

var (
	// ErrNotFound indicates that no snapshot exists for the requested ID.
	ErrNotFound = errors.New("snapshot: not found")

	// ErrInvalid indicates a snapshot that fails structural checks.
	ErrInvalid = errors.New("snapshot: invalid")
)
