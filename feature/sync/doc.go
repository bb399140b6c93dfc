// Package sync implements the inventory synchronization pipeline.
//
// It periodically pulls time-slot inventory for the configured products from
// the provider API and reconciles each (product, date) snapshot into the
// relational store.
//
// # Components
//
//   - Client: rate-limited provider API gateway.
//   - Engine: transactional reconciliation of one snapshot, preserving the
//     system-wide identity of provider slot ids across dates.
//   - Service: the batch orchestrator iterating products x dates, isolating
//     per-date failures.
//   - Scheduler: three ticker-driven cadences with overlapping date windows.
//
// # Failure model
//
// Fetch and merge errors are caught per (product, date), logged and skipped;
// a provider outage degrades freshness, never the read API's error rate.
package sync
