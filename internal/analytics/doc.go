// Package analytics implements the normalization and aggregation engine for
// per-game market data collected from a third-party analytics API.
//
// The engine is a pure, deterministic transform over an in-memory record
// collection. Input data originates from an uncontrolled scrape, so every
// component favors graceful degradation over rejection: missing, null or NaN
// fields coerce to documented defaults, malformed snapshots drop out of the
// affected computation, and averages over empty sets yield zero. The only
// errors the package produces are caller misconfigurations (unknown
// granularity, sort key or weight mode), surfaced by the Parse helpers at
// the call boundary.
//
// # Core Components
//
//   - normalize.go: coercion of raw API documents into typed GameRecords
//   - filter.go: combinable AND/OR predicate sets over a collection
//   - increments.go: cumulative history to per-period increment conversion
//   - rollup.go: genre/tag category rollups, temporal rollups, rankings
//   - country.go: weighted cross-record country share aggregation
//   - activity.go: positive-subset engagement metric summaries
//   - overlap.go: audience-overlap flattening and reach ranking
//
// All functions are safe for concurrent use: they hold no state and never
// mutate their inputs.
package analytics
