// Package verify defines the identity-verification capability used before a
// transfer is committed, plus a simulator that stands in for a real
// biometric system.
//
// The Verifier interface is the seam: the pipeline depends only on it, so a
// deterministic fake serves tests and a real authenticator can be substituted
// in production without touching the pipeline.
package verify
