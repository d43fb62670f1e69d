// SPDX-License-Identifier: MIT

// Package snapshot persists fitted estimator output.
//
// A Snapshot carries every modality of one fit: raw counts, cleaned matrix
// and surviving labels, plus the configuration that produced them. Stores
// are keyed by the fit ID and remember the most recent save. MemoryStore
// serves tests and single-process use; RedisStore writes JSON documents to
// Redis under "<prefix><fit-id>" with a "<prefix>latest" pointer.
package snapshot
