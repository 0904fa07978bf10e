// Package nlu turns a raw transcribed command into structured data: a coarse
// intent and the entities (amount, recipient) a transfer needs.
//
// Core flow:
//   - Classify matches the text against an ordered keyword rule table.
//   - Extract pulls the first numeric token as the amount and resolves a
//     recipient in two stages: directory alias containment, then a
//     trigger-word heuristic with fuzzy normalization.
//
// Both functions are pure; absent entities are normal outcomes, not errors.
package nlu
