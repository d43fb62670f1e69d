// SPDX-License-Identifier: MIT

// Package estimator fits empirical transition matrices from panel data.
//
// An Estimator is configured once with bucket thresholds, a cleaning
// strategy and a smoothing constant. Fit aligns each entity's consecutive
// periods, counts bucket-to-bucket moves and cleans three modalities:
//
//   - global: every transition;
//   - group:  one matrix per group label (when fitting with Grouped);
//   - stage:  one matrix per observed raw origin bucket value.
//
// Results are queried by Key (Global, Group, Stage) or by a Selector that
// mirrors "at most one of group or stage". Queries return copies, so callers
// can never mutate stored state. Fit replaces the whole result set; a failed
// Fit leaves the previous one in place.
//
// Concurrency: Fit must not run concurrently with itself or with readers.
// Once Fit returns, any number of goroutines may query.
package estimator
