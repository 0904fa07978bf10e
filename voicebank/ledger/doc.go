// Package ledger owns the account balance and the append-only transaction
// history. It is the only component permitted to mutate either.
//
// Core pieces:
//   - Ledger applies committed transfers: one mutex hold appends the
//     transaction and decrements the balance, so callers observe the pair
//     atomically.
//   - Store persists ledger snapshots keyed by user id; MemoryStore is the
//     default and RedisStore the durable option.
//   - Sessions hands out one Ledger per user, restoring persisted state or
//     starting at the fixed demo balance.
//
// Commit never rejects a transfer. All rejection logic lives upstream in the
// validator and the verifier; sequencing those before Commit is the caller's
// responsibility.
package ledger
