package ot

// Transform rebases op against pending, the ordered sequence of accepted
// operations the sender had not seen when it generated op. Pending
// operations must be in acceptance order; operations for other files are
// ignored. The returned operation is a copy — op itself is never modified.
//
// Callers are expected to have validated op first; Transform does not
// re-check shape.
func Transform(op Operation, pending []Operation) Operation {
	out := op
	for _, p := range pending {
		if p.FilePath != out.FilePath {
			continue
		}
		out.Position = rebase(out.Position, p)
	}
	return out
}

// rebase shifts a single character offset across one accepted operation.
// A replace acts as a delete of p.Length followed by an insert of p.Text,
// both anchored at p.Position.
func rebase(pos int, p Operation) int {
	if n := p.DeleteLen(); n > 0 {
		switch {
		case p.Position+n <= pos:
			// Deletion entirely before pos: everything after it slides left.
			pos -= n
		case p.Position < pos:
			// Deletion straddles pos: the ground under the cursor is gone,
			// so collapse to the deletion boundary.
			pos = p.Position
		}
	}
	if n := p.InsertLen(); n > 0 && p.Position <= pos {
		// Insertion at or before pos pushes it right.
		pos += n
	}
	return pos
}
