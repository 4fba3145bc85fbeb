// Package session implements the session registry, the single
// serialization point for every collaboration.
//
// A [Registry] owns one in-memory session per collaboration id. A session
// is created when its first participant joins (after the id is validated
// against the persistence collaborator) and destroyed when the last one
// leaves; the durable session row is untouched either way. Per session the
// registry tracks participants, per-file version counters, the bounded
// history of recently accepted operations, turn state, and cursor presence.
//
// # Concurrency
//
// Each inbound message is processed under that session's lock, so all
// mutations of one session's state — version counters, operation history,
// turn transitions — are strictly serialized. Sessions are fully
// independent of each other. This single-writer-per-session discipline is
// what makes the transform pipeline sound: exactly one operation commits
// at a time per file, in acceptance order, not network-arrival order.
//
// Persistence never blocks a session: durable writes flow through the
// store's background writer, and an accepted edit is broadcast and
// acknowledged before its write completes. The one exception is the
// session-existence lookup on join, which is synchronous under a timeout.
//
// # Edit pipeline
//
// SubmitEdit runs: validate → turn gate → staleness check → transform
// against the accepted operations the sender had not seen → assign the
// next version → append to history → queue the durable write → broadcast
// to everyone but the sender → acknowledge the sender. Rejections at any
// stage are reported only to the sender, carrying the current turn state
// and file version so the client can recover without a resync.
package session
