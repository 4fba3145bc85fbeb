package store

import (
	"context"
	"sync"
	"time"

	"github.com/jasonbender-c3x/coedit/internal/event"
	"github.com/jasonbender-c3x/coedit/internal/logging"
)

const (
	// defaultQueueSize is the buffer size for pending persistence writes.
	defaultQueueSize = 256

	// writeTimeout bounds one store call so a wedged backend cannot stall
	// the writer loop indefinitely.
	writeTimeout = 5 * time.Second
)

// writeTask is one queued persistence call.
type writeTask struct {
	sessionID string
	kind      string
	fn        func(context.Context) error
}

// Writer decouples session processing from persistence latency. Sessions
// enqueue writes without blocking; a single background goroutine drains the
// queue in order. When the queue is full the write is dropped with a
// warning — losing a durability write is the accepted cost of never
// stalling the broadcast/ack path.
type Writer struct {
	store  Store
	logger *logging.Logger
	bus    *event.Bus

	pending  chan writeTask
	done     chan struct{}
	stopped  chan struct{}
	started  bool
	stopOnce sync.Once
	mu       sync.Mutex
}

// NewWriter creates a Writer draining into the given store. The bus may be
// nil; failures are then only logged.
func NewWriter(s Store, logger *logging.Logger, bus *event.Bus, queueSize int) *Writer {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &Writer{
		store:   s,
		logger:  logger.WithComponent("writer"),
		bus:     bus,
		pending: make(chan writeTask, queueSize),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Start begins the background drain loop.
// Safe to call multiple times - subsequent calls are no-ops.
func (w *Writer) Start() {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return
	}
	w.started = true
	w.mu.Unlock()
	go w.drainLoop()
}

// Stop shuts the writer down after draining already-queued writes.
// Safe to call multiple times - subsequent calls are no-ops.
func (w *Writer) Stop() {
	w.mu.Lock()
	started := w.started
	w.mu.Unlock()

	w.stopOnce.Do(func() { close(w.done) })
	if started {
		<-w.stopped
	}
}

// Enqueue queues one persistence call. Non-blocking; if the queue is full
// the write is dropped and a warning logged.
func (w *Writer) Enqueue(sessionID, kind string, fn func(context.Context) error) {
	select {
	case w.pending <- writeTask{sessionID: sessionID, kind: kind, fn: fn}:
	default:
		w.logger.Warn("persistence queue full, write dropped",
			"session_id", sessionID, "kind", kind)
	}
}

// InsertParticipant queues a membership insert.
func (w *Writer) InsertParticipant(rec ParticipantRecord) {
	w.Enqueue(rec.SessionID, "participant", func(ctx context.Context) error {
		return w.store.InsertParticipant(ctx, rec)
	})
}

// MarkParticipantInactive queues an inactive flag update.
func (w *Writer) MarkParticipantInactive(sessionID, participantID string) {
	w.Enqueue(sessionID, "participant", func(ctx context.Context) error {
		return w.store.MarkParticipantInactive(ctx, participantID)
	})
}

// UpsertCursor queues a cursor upsert.
func (w *Writer) UpsertCursor(rec CursorRecord) {
	w.Enqueue(rec.SessionID, "cursor", func(ctx context.Context) error {
		return w.store.UpsertCursor(ctx, rec)
	})
}

// InsertOperation queues an operation append.
func (w *Writer) InsertOperation(rec OperationRecord) {
	w.Enqueue(rec.SessionID, "operation", func(ctx context.Context) error {
		return w.store.InsertOperation(ctx, rec)
	})
}

// InsertTurnEvents queues a turn-history flush.
func (w *Writer) InsertTurnEvents(sessionID string, events []TurnEventRecord) {
	if len(events) == 0 {
		return
	}
	w.Enqueue(sessionID, "turn_history", func(ctx context.Context) error {
		return w.store.InsertTurnEvents(ctx, sessionID, events)
	})
}

// drainLoop runs queued writes in order until Stop, then drains what is
// left in the queue before exiting.
func (w *Writer) drainLoop() {
	defer close(w.stopped)
	for {
		select {
		case task := <-w.pending:
			w.run(task)
		case <-w.done:
			for {
				select {
				case task := <-w.pending:
					w.run(task)
				default:
					return
				}
			}
		}
	}
}

// run executes one write. Failures are logged and published, never
// retried: in-memory state has already been broadcast, and the operation
// log is append-only, so a retry after later writes would reorder it.
func (w *Writer) run(task writeTask) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if err := task.fn(ctx); err != nil {
		w.logger.Error("persistence write failed",
			"session_id", task.sessionID, "kind", task.kind, "error", err)
		if w.bus != nil {
			w.bus.Publish(event.NewPersistenceFailedEvent(task.sessionID, task.kind, err.Error()))
		}
	}
}
