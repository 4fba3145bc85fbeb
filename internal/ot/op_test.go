package ot

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		op      Operation
		wantErr bool
	}{
		{
			name: "valid insert",
			op:   Operation{FilePath: "a.txt", Kind: OpInsert, Position: 0, Text: "x"},
		},
		{
			name: "valid delete",
			op:   Operation{FilePath: "a.txt", Kind: OpDelete, Position: 3, Length: 2},
		},
		{
			name: "valid replace",
			op:   Operation{FilePath: "a.txt", Kind: OpReplace, Position: 3, Length: 2, Text: "yz"},
		},
		{
			name: "replace that only inserts",
			op:   Operation{FilePath: "a.txt", Kind: OpReplace, Position: 3, Length: 0, Text: "yz"},
		},
		{
			name:    "empty file path",
			op:      Operation{Kind: OpInsert, Position: 0, Text: "x"},
			wantErr: true,
		},
		{
			name:    "negative position",
			op:      Operation{FilePath: "a.txt", Kind: OpInsert, Position: -1, Text: "x"},
			wantErr: true,
		},
		{
			name:    "negative base version",
			op:      Operation{FilePath: "a.txt", Kind: OpInsert, Position: 0, Text: "x", BaseVersion: -2},
			wantErr: true,
		},
		{
			name:    "insert without text",
			op:      Operation{FilePath: "a.txt", Kind: OpInsert, Position: 0},
			wantErr: true,
		},
		{
			name:    "delete with zero length",
			op:      Operation{FilePath: "a.txt", Kind: OpDelete, Position: 0, Length: 0},
			wantErr: true,
		},
		{
			name:    "delete with negative length",
			op:      Operation{FilePath: "a.txt", Kind: OpDelete, Position: 0, Length: -4},
			wantErr: true,
		},
		{
			name:    "replace with negative length",
			op:      Operation{FilePath: "a.txt", Kind: OpReplace, Position: 0, Length: -1, Text: "x"},
			wantErr: true,
		},
		{
			name:    "replace with nothing to do",
			op:      Operation{FilePath: "a.txt", Kind: OpReplace, Position: 0, Length: 0},
			wantErr: true,
		},
		{
			name:    "unknown kind",
			op:      Operation{FilePath: "a.txt", Kind: "scribble", Position: 0},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.op)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidOperation) {
					t.Errorf("Validate() error = %v, want ErrInvalidOperation", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		name    string
		content string
		op      Operation
		want    string
		wantErr bool
	}{
		{
			name:    "insert at start",
			content: "world",
			op:      Operation{FilePath: "a", Kind: OpInsert, Position: 0, Text: "hello "},
			want:    "hello world",
		},
		{
			name:    "insert at end",
			content: "hello",
			op:      Operation{FilePath: "a", Kind: OpInsert, Position: 5, Text: "!"},
			want:    "hello!",
		},
		{
			name:    "insert beyond end",
			content: "hi",
			op:      Operation{FilePath: "a", Kind: OpInsert, Position: 3, Text: "!"},
			wantErr: true,
		},
		{
			name:    "delete middle",
			content: "hello world",
			op:      Operation{FilePath: "a", Kind: OpDelete, Position: 5, Length: 6},
			want:    "hello",
		},
		{
			name:    "delete beyond end",
			content: "hello",
			op:      Operation{FilePath: "a", Kind: OpDelete, Position: 3, Length: 10},
			wantErr: true,
		},
		{
			name:    "replace middle",
			content: "hello world",
			op:      Operation{FilePath: "a", Kind: OpReplace, Position: 6, Length: 5, Text: "there"},
			want:    "hello there",
		},
		{
			name:    "replace beyond end",
			content: "hello",
			op:      Operation{FilePath: "a", Kind: OpReplace, Position: 4, Length: 4, Text: "x"},
			wantErr: true,
		},
		{
			name:    "unknown kind",
			content: "hello",
			op:      Operation{FilePath: "a", Kind: "smudge", Position: 0},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(tt.content, tt.op)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidOperation) {
					t.Errorf("Apply() error = %v, want ErrInvalidOperation", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Apply() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Apply() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewOperationID(t *testing.T) {
	a := NewOperationID()
	b := NewOperationID()

	if a == "" || b == "" {
		t.Fatal("NewOperationID() returned empty string")
	}
	if a == b {
		t.Errorf("NewOperationID() returned duplicate id %q", a)
	}
	if len(a) != 26 {
		t.Errorf("NewOperationID() length = %d, want 26 (ULID)", len(a))
	}
	if strings.ToUpper(a) != a {
		t.Errorf("NewOperationID() = %q, want canonical upper-case ULID", a)
	}
}

func TestLenHelpers(t *testing.T) {
	ins := Operation{Kind: OpInsert, Text: "abc"}
	del := Operation{Kind: OpDelete, Length: 4}
	rep := Operation{Kind: OpReplace, Length: 2, Text: "xyz"}

	if got := ins.InsertLen(); got != 3 {
		t.Errorf("insert InsertLen() = %d, want 3", got)
	}
	if got := ins.DeleteLen(); got != 0 {
		t.Errorf("insert DeleteLen() = %d, want 0", got)
	}
	if got := del.DeleteLen(); got != 4 {
		t.Errorf("delete DeleteLen() = %d, want 4", got)
	}
	if got := del.InsertLen(); got != 0 {
		t.Errorf("delete InsertLen() = %d, want 0", got)
	}
	if got := rep.InsertLen(); got != 3 {
		t.Errorf("replace InsertLen() = %d, want 3", got)
	}
	if got := rep.DeleteLen(); got != 2 {
		t.Errorf("replace DeleteLen() = %d, want 2", got)
	}
}
