// Package audit provides SQLite-backed persistence of batch reports.
//
// One row per batch in runs, one row per command in results and one row per
// bounds warning in warnings, all keyed by the batch run id.
package audit
