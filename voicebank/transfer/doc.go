// Package transfer applies the business rules a proposed money transfer must
// satisfy before it may be committed to the ledger.
//
// Validate runs every applicable check and reports all violated rules, so a
// caller can surface the complete list of reasons in one response. Warnings
// are advisory and never block a transfer.
package transfer
