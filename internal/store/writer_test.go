package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jasonbender-c3x/coedit/internal/event"
	"github.com/jasonbender-c3x/coedit/internal/logging"
)

// failingStore wraps Memory and fails operation inserts on demand.
type failingStore struct {
	*Memory
	mu      sync.Mutex
	failOps bool
}

func (f *failingStore) InsertOperation(ctx context.Context, rec OperationRecord) error {
	f.mu.Lock()
	fail := f.failOps
	f.mu.Unlock()
	if fail {
		return errors.New("backend down")
	}
	return f.Memory.InsertOperation(ctx, rec)
}

// waitFor polls until cond is true or the deadline passes.
func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestWriterDrainsQueuedWrites(t *testing.T) {
	mem := NewMemory()
	w := NewWriter(mem, logging.Nop(), nil, 16)
	w.Start()
	defer w.Stop()

	w.InsertParticipant(ParticipantRecord{ID: "p1", SessionID: "doc-1", Active: true})
	w.InsertOperation(OperationRecord{ID: "op-1", SessionID: "doc-1", Version: 1})
	w.UpsertCursor(CursorRecord{SessionID: "doc-1", ParticipantID: "p1", FilePath: "a.txt", Line: 2})

	waitFor(t, func() bool {
		_, ok := mem.Participant("p1")
		_, cur := mem.Cursor("doc-1", "p1", "a.txt")
		return ok && cur && len(mem.Operations("doc-1")) == 1
	}, "queued writes never reached the store")
}

func TestWriterStopDrainsRemaining(t *testing.T) {
	mem := NewMemory()
	w := NewWriter(mem, logging.Nop(), nil, 16)
	w.Start()

	for v := int64(1); v <= 10; v++ {
		w.InsertOperation(OperationRecord{ID: NewID(), SessionID: "doc-1", Version: v})
	}
	w.Stop()

	if got := len(mem.Operations("doc-1")); got != 10 {
		t.Errorf("operations after Stop = %d, want 10", got)
	}
}

func TestWriterPreservesOrder(t *testing.T) {
	mem := NewMemory()
	w := NewWriter(mem, logging.Nop(), nil, 64)
	w.Start()

	for v := int64(1); v <= 20; v++ {
		w.InsertOperation(OperationRecord{ID: NewID(), SessionID: "doc-1", Version: v})
	}
	w.Stop()

	ops := mem.Operations("doc-1")
	for i, op := range ops {
		if op.Version != int64(i+1) {
			t.Fatalf("ops[%d].Version = %d, want %d", i, op.Version, i+1)
		}
	}
}

func TestWriterPublishesFailures(t *testing.T) {
	fs := &failingStore{Memory: NewMemory(), failOps: true}
	bus := event.NewBus()

	var mu sync.Mutex
	var failures []event.PersistenceFailedEvent
	bus.Subscribe("persistence.failed", func(e event.Event) {
		mu.Lock()
		failures = append(failures, e.(event.PersistenceFailedEvent))
		mu.Unlock()
	})

	w := NewWriter(fs, logging.Nop(), bus, 16)
	w.Start()
	w.InsertOperation(OperationRecord{ID: "op-1", SessionID: "doc-1", Version: 1})
	w.Stop()

	mu.Lock()
	defer mu.Unlock()
	if len(failures) != 1 {
		t.Fatalf("failure events = %d, want 1", len(failures))
	}
	if failures[0].SessionID != "doc-1" || failures[0].Kind != "operation" {
		t.Errorf("failure event = %+v", failures[0])
	}
}

func TestWriterDropsWhenQueueFull(t *testing.T) {
	mem := NewMemory()
	w := NewWriter(mem, logging.Nop(), nil, 1)
	// Not started: the queue cannot drain, so the second enqueue must drop
	// rather than block.
	w.InsertOperation(OperationRecord{ID: "op-1", SessionID: "doc-1", Version: 1})

	done := make(chan struct{})
	go func() {
		w.InsertOperation(OperationRecord{ID: "op-2", SessionID: "doc-1", Version: 2})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Enqueue blocked on a full queue")
	}

	w.Start()
	w.Stop()
	if got := len(mem.Operations("doc-1")); got != 1 {
		t.Errorf("operations = %d, want 1 (second write dropped)", got)
	}
}

func TestWriterEmptyTurnEventBatchIgnored(t *testing.T) {
	mem := NewMemory()
	w := NewWriter(mem, logging.Nop(), nil, 16)
	w.Start()
	w.InsertTurnEvents("doc-1", nil)
	w.Stop()

	if got := len(mem.TurnEvents("doc-1")); got != 0 {
		t.Errorf("turn events = %d, want 0", got)
	}
}

func TestWriterStopIdempotent(t *testing.T) {
	w := NewWriter(NewMemory(), logging.Nop(), nil, 4)
	w.Start()
	w.Stop()
	w.Stop()
}

func TestWriterConcurrentStop(t *testing.T) {
	w := NewWriter(NewMemory(), logging.Nop(), nil, 4)
	w.Start()

	var wg sync.WaitGroup
	for range 10 {
		wg.Go(w.Stop)
	}
	wg.Wait()
}
