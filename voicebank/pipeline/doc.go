// Package pipeline orchestrates command processing: classify, extract,
// validate, verify, commit, format.
//
// Submit is the single entry point for the presentation layer. It takes the
// transcribed command text plus a user id and returns a discriminated
// Result (Succeeded, Rejected, or Unknown) together with the updated account
// snapshot. Processing for one user is serialized, so the balance check and
// the balance decrement always see each other's effects.
package pipeline
