// SPDX-License-Identifier: MIT

package panel

import "time"

// Observation is one entity classified at one period. Immutable input record.
type Observation struct {
	Entity string    // entity identifier (contract, account, ...)
	Period time.Time // period timestamp; compared as an instant
	Value  int       // raw bucket value, e.g. days past due
	Group  string    // optional segment label; "" when ungrouped
}

// Pair is one observed one-period transition of a single entity.
// From and To are raw bucket values; bucketing happens at count time.
type Pair struct {
	Entity string
	Period time.Time // period of the origin observation
	From   int       // raw value at T
	To     int       // raw value at T + one period
	Group  string    // group of the origin observation (only when grouping was requested)
}
