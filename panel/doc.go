// SPDX-License-Identifier: MIT

// Package panel holds longitudinal observations and pairs each entity's
// observation at period T with its own observation at T + one period.
//
// The join is an exact calendar match: an entity missing period T+1 yields no
// pair for T, so gaps never produce multi-period transitions. Observations
// arrive either as []Observation or through a Frame (header + string
// records, e.g. read from CSV) and a Columns mapping.
package panel
