// Package beneficiary provides the known-payee directory used to resolve
// spoken recipient names to payment handles.
//
// Core flow:
//   - Resolve looks up a single alias case-insensitively.
//   - MatchSubstring finds the first alias contained in free text.
//   - FuzzyMatch normalizes mis-transcribed candidates against aliases.
//
// Alias match order is deterministic: longest alias first, ties broken
// lexicographically, so "john doe" wins over "john" when both apply.
package beneficiary
