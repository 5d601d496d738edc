// Package repository implements data access for sign-up forms.
//
// Each form is stored as a single document in the signup_form table,
// keyed by event ID, with a version counter alongside the serialized
// aggregate. Saves are conditional on the version the caller loaded, so
// concurrent read-modify-write pipelines cannot silently overwrite each
// other; the loser gets database.ErrConflict and retries.
package repository
