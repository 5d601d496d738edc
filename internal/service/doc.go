// Package service implements the sign-up sheet engine and its
// orchestration.
//
// The engine is four pure steps over a SignupForm value:
//
//   - Sanitize: canonicalize a possibly malformed form (total, idempotent)
//   - RemainingCapacity / WaitlistedQuantity: per-slot accounting
//   - applyReserve / applyCancel: validate a request and construct or
//     update one response
//   - Rebalance: full first-come-first-served re-derivation of
//     confirmed vs waitlisted status for every active response
//
// SignupService wires the steps into the read-modify-write pipeline
// (load, sanitize, apply, rebalance, sanitize, save) against the form
// repository. Saves are conditional on the loaded document version; on a
// version conflict the whole pipeline is retried against the fresh
// snapshot, so two concurrent reservations can never silently overwrite
// each other.
package service
