package ot

import "testing"

func insertOp(path string, pos int, text string) Operation {
	return Operation{FilePath: path, Kind: OpInsert, Position: pos, Text: text}
}

func deleteOp(path string, pos, length int) Operation {
	return Operation{FilePath: path, Kind: OpDelete, Position: pos, Length: length}
}

func replaceOp(path string, pos, length int, text string) Operation {
	return Operation{FilePath: path, Kind: OpReplace, Position: pos, Length: length, Text: text}
}

func TestTransformEmptyPendingIsIdentity(t *testing.T) {
	op := insertOp("a.txt", 5, "hello")

	got := Transform(op, nil)
	if got != op {
		t.Errorf("Transform(op, nil) = %+v, want %+v", got, op)
	}

	got = Transform(op, []Operation{})
	if got != op {
		t.Errorf("Transform(op, []) = %+v, want %+v", got, op)
	}
}

func TestTransformPosition(t *testing.T) {
	tests := []struct {
		name    string
		op      Operation
		pending []Operation
		wantPos int
	}{
		{
			name:    "insert before shifts right",
			op:      insertOp("a", 5, "z"),
			pending: []Operation{insertOp("a", 2, "ab")},
			wantPos: 7,
		},
		{
			name:    "insert at same position shifts right",
			op:      insertOp("a", 5, "z"),
			pending: []Operation{insertOp("a", 5, "X")},
			wantPos: 6,
		},
		{
			name:    "insert after leaves position",
			op:      insertOp("a", 3, "y"),
			pending: []Operation{insertOp("a", 5, "X")},
			wantPos: 3,
		},
		{
			name:    "delete entirely before shifts left",
			op:      insertOp("a", 10, "z"),
			pending: []Operation{deleteOp("a", 2, 3)},
			wantPos: 7,
		},
		{
			name:    "delete ending exactly at position shifts left",
			op:      insertOp("a", 5, "z"),
			pending: []Operation{deleteOp("a", 2, 3)},
			wantPos: 2,
		},
		{
			name:    "delete overlapping clamps to deletion start",
			op:      insertOp("a", 4, "z"),
			pending: []Operation{deleteOp("a", 2, 5)},
			wantPos: 2,
		},
		{
			name:    "delete starting at position leaves it",
			op:      insertOp("a", 4, "z"),
			pending: []Operation{deleteOp("a", 4, 3)},
			wantPos: 4,
		},
		{
			name:    "delete after leaves position",
			op:      insertOp("a", 4, "z"),
			pending: []Operation{deleteOp("a", 6, 3)},
			wantPos: 4,
		},
		{
			name:    "replace before nets out delete and insert",
			op:      insertOp("a", 10, "z"),
			pending: []Operation{replaceOp("a", 2, 3, "xxxxx")},
			wantPos: 12,
		},
		{
			name:    "replace overlapping clamps then shifts by inserted text",
			op:      insertOp("a", 4, "z"),
			pending: []Operation{replaceOp("a", 2, 5, "ab")},
			wantPos: 4,
		},
		{
			name:    "pending for another file ignored",
			op:      insertOp("a", 4, "z"),
			pending: []Operation{insertOp("b", 0, "xxxx")},
			wantPos: 4,
		},
		{
			name: "sequence applies in acceptance order",
			op:   insertOp("a", 10, "z"),
			pending: []Operation{
				insertOp("a", 0, "abc"), // 10 -> 13
				deleteOp("a", 1, 4),     // 13 -> 9
				insertOp("a", 9, "x"),   // 9 -> 10
			},
			wantPos: 10,
		},
		{
			name:    "candidate delete shifts like any offset",
			op:      deleteOp("a", 6, 2),
			pending: []Operation{insertOp("a", 1, "ab")},
			wantPos: 8,
		},
		{
			name:    "candidate replace shifts like any offset",
			op:      replaceOp("a", 6, 2, "qq"),
			pending: []Operation{deleteOp("a", 0, 3)},
			wantPos: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Transform(tt.op, tt.pending)
			if got.Position != tt.wantPos {
				t.Errorf("Transform() position = %d, want %d", got.Position, tt.wantPos)
			}
			if got.Kind != tt.op.Kind || got.Text != tt.op.Text || got.Length != tt.op.Length {
				t.Errorf("Transform() altered non-position fields: %+v", got)
			}
		})
	}
}

func TestTransformNeverNegative(t *testing.T) {
	op := insertOp("a", 3, "z")
	pending := []Operation{
		deleteOp("a", 0, 10),
		deleteOp("a", 0, 10),
	}

	got := Transform(op, pending)
	if got.Position < 0 {
		t.Errorf("Transform() position = %d, want >= 0", got.Position)
	}
	if got.Position != 0 {
		t.Errorf("Transform() position = %d, want clamp to 0", got.Position)
	}
}

func TestTransformDoesNotMutateInputs(t *testing.T) {
	op := insertOp("a", 5, "z")
	pending := []Operation{insertOp("a", 2, "ab")}
	opCopy := op
	pendingCopy := pending[0]

	_ = Transform(op, pending)

	if op != opCopy {
		t.Errorf("Transform() mutated op: %+v", op)
	}
	if pending[0] != pendingCopy {
		t.Errorf("Transform() mutated pending: %+v", pending[0])
	}
}

// TestTransformConcurrentInserts walks the three-editor scenario: A inserts
// "X" at 5 and commits first; B's insert at 3 needs no shift; C's insert at
// the same offset 5 lands after A's text.
func TestTransformConcurrentInserts(t *testing.T) {
	a := insertOp("main.txt", 5, "X")
	accepted := []Operation{a}

	b := Transform(insertOp("main.txt", 3, "Y"), accepted)
	if b.Position != 3 {
		t.Errorf("B position = %d, want 3", b.Position)
	}

	c := Transform(insertOp("main.txt", 5, "Z"), accepted)
	if c.Position != 6 {
		t.Errorf("C position = %d, want 6", c.Position)
	}
}

// TestTransformConverges replays two concurrent edits both ways and checks
// the documents converge once each side applies the other's rebased op.
func TestTransformConverges(t *testing.T) {
	const base = "hello world"

	a := insertOp("a", 0, ">> ") // accepted first
	b := deleteOp("a", 5, 6)     // generated concurrently

	// Server order: a then transformed b.
	doc, err := Apply(base, a)
	if err != nil {
		t.Fatalf("Apply(a): %v", err)
	}
	doc, err = Apply(doc, Transform(b, []Operation{a}))
	if err != nil {
		t.Fatalf("Apply(b'): %v", err)
	}

	if doc != ">> hello" {
		t.Errorf("converged doc = %q, want %q", doc, ">> hello")
	}
}
