// Package ot implements the operational transformation engine for
// collaborative text editing.
//
// Concurrent editors generate operations against the document version they
// last saw. By the time an operation reaches the server, other operations may
// already have been accepted, so its coordinates can be stale. [Transform]
// rebases a candidate operation against the ordered list of accepted
// operations the sender had not yet seen, producing an equivalent operation
// that applies cleanly to the current document.
//
// # Transform Policy
//
// Transformation is single-dimension offset rebasing, applied in acceptance
// order of the pending operations:
//
//   - A pending insert at or before the candidate's position shifts the
//     candidate right by the inserted length.
//   - A pending delete entirely before the candidate's position shifts the
//     candidate left by the deleted length.
//   - A pending delete overlapping the candidate's position clamps the
//     candidate to the deletion start.
//   - A replace is treated as a delete followed by an insert.
//
// The result is deterministic for a given pending sequence, never
// out-of-bounds, and never aliases its inputs.
//
// # Basic Usage
//
//	op := ot.Operation{
//	    ID:          ot.NewOperationID(),
//	    FilePath:    "main.txt",
//	    Kind:        ot.OpInsert,
//	    Position:    5,
//	    Text:        "hello",
//	    BaseVersion: 3,
//	}
//	if err := ot.Validate(op); err != nil {
//	    // reject before transforming
//	}
//	rebased := ot.Transform(op, pending)
//
// Operations are plain values; all functions in this package are pure and
// safe for concurrent use.
package ot
