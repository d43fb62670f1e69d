// SPDX-License-Identifier: MIT

package estimator

import "errors"

var (
	// ErrConfiguration indicates contradictory or invalid construction options,
	// e.g. both auto-rebin and drop-empty enabled.
	ErrConfiguration = errors.New("estimator: invalid configuration")

	// ErrNotFitted indicates a query before any successful Fit.
	ErrNotFitted = errors.New("estimator: not fitted")

	// ErrUnknownKey indicates a group label or stage value not observed during Fit.
	ErrUnknownKey = errors.New("estimator: unknown key")

	// ErrInvalidSelector indicates a Selector with both Group and Stage set.
	ErrInvalidSelector = errors.New("estimator: group and stage are mutually exclusive")

	// ErrUnknownMode indicates an unrecognized grid mode.
	ErrUnknownMode = errors.New("estimator: unknown mode")
)
