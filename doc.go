// Package rollrate estimates empirical transition matrices from panel data.
//
// A panel is a set of (entity, period, value) observations, e.g. loans with
// their days-past-due at each month end. Values are mapped onto ordered
// buckets; consecutive periods of the same entity form transitions; counts
// of bucket-to-bucket moves become row-stochastic matrices after optional
// sparse-bucket cleaning and additive smoothing.
//
// Packages:
//
//	bucket/     : threshold index: value → bucket
//	panel/      : observations, CSV frames, period arithmetic, alignment
//	transition/ : count matrices (global, per group, per stage)
//	clean/      : re-bin / drop strategies, Laplace smoothing, events
//	matrix/     : row-major Dense storage and validators
//	estimator/  : the facade: Fit, Matrix, Select, Grids, Snapshot
//	render/     : terminal heatmaps
//	snapshot/   : persisted fits (memory, Redis)
//
// Quick example:
//
//	e, _ := estimator.New([]int{0, 30, 60, 90}, estimator.WithAutoRebin(true))
//	_ = e.Fit(observations, estimator.Grouped())
//	m, _ := e.Matrix(estimator.Group("retail"))
//
// The rollrate command (cmd/rollrate) wraps the same flow for CSV files and
// serves fitted matrices over HTTP.
package rollrate

// Version is the module release reported by `rollrate version`.
const Version = "0.3.0"
