package object

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Change is the prior and new committed snapshot of one object in one
// transaction.
type Change struct {
	ident *identity
	prior *Dict
	next  *Dict
}

// Object returns a non-counted handle to the changed object.
func (c Change) Object() Ref {
	return Ref{ident: c.ident}
}

// Prior returns the snapshot replaced by the commit.
func (c Change) Prior() Snapshot {
	return Snapshot{d: c.prior}
}

// New returns the snapshot published by the commit.
func (c Change) New() Snapshot {
	return Snapshot{d: c.next}
}

// Record is one committed transaction kept by a History.
type Record struct {
	TxnID       uuid.UUID
	CommittedAt time.Time

	changes []Change
}

// Changes returns the per-object changes in the order the transaction first
// touched each object.
func (r Record) Changes() []Change {
	return append([]Change(nil), r.changes...)
}

// IDs returns the ids of the changed objects.
func (r Record) IDs() []uint64 {
	ids := make([]uint64, len(r.changes))
	for i, c := range r.changes {
		ids[i] = c.ident.id
	}
	return ids
}

func (r Record) identities() []*identity {
	idents := make([]*identity, len(r.changes))
	for i, c := range r.changes {
		idents[i] = c.ident
	}
	return idents
}

// HistoryOption configures a History.
type HistoryOption func(*History)

// WithHistoryLimit bounds how many records are kept for undo. The oldest are
// dropped first. Zero or negative means unbounded.
func WithHistoryLimit(n int) HistoryOption {
	return func(h *History) {
		if n < 0 {
			n = 0
		}
		h.limit = n
	}
}

// WithHistoryLogger attaches a logger for undo and redo.
func WithHistoryLogger(logger CommitLogger) HistoryOption {
	return func(h *History) {
		h.logger = logger
	}
}

// WithHistoryMetrics toggles metric recording for undo and redo.
func WithHistoryMetrics(enabled bool) HistoryOption {
	return func(h *History) {
		h.metrics = enabled
	}
}

// WithHistoryActor sets the actor reported on undo and redo notifications.
func WithHistoryActor(actor string) HistoryOption {
	return func(h *History) {
		h.actor = actor
	}
}

// History is an undo/redo stack of committed transactions. The zero History
// is unbounded, unlogged and ready to use.
type History struct {
	mu     sync.Mutex
	done   []Record
	undone []Record

	limit   int
	logger  CommitLogger
	metrics bool
	actor   string
}

// NewHistory constructs a History configured by opts.
func NewHistory(opts ...HistoryOption) *History {
	h := &History{metrics: true}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// pushLocked appends record; h.mu must be held.
func (h *History) pushLocked(record Record) {
	h.done = append(h.done, record)
	h.undone = nil
	if h.limit > 0 && len(h.done) > h.limit {
		h.done = append([]Record(nil), h.done[len(h.done)-h.limit:]...)
	}
}

// Len returns the number of undoable records.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.done)
}

// RedoLen returns the number of redoable records.
func (h *History) RedoLen() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undone)
}

// CanUndo reports whether Undo has a record to revert.
func (h *History) CanUndo() bool {
	return h.Len() > 0
}

// CanRedo reports whether Redo has a record to reapply.
func (h *History) CanRedo() bool {
	return h.RedoLen() > 0
}

// Records returns the undoable records, oldest first.
func (h *History) Records() []Record {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Record(nil), h.done...)
}

// Undo restores the prior snapshot of every object in the most recent record.
func (h *History) Undo() error {
	return h.UndoContext(context.Background())
}

// UndoContext is Undo with a context handed to notification hooks.
func (h *History) UndoContext(ctx context.Context) error {
	return h.step(ctx, ActionUndo)
}

// Redo reapplies the most recently undone record.
func (h *History) Redo() error {
	return h.RedoContext(context.Background())
}

// RedoContext is Redo with a context handed to notification hooks.
func (h *History) RedoContext(ctx context.Context) error {
	return h.step(ctx, ActionRedo)
}

func (h *History) step(ctx context.Context, action Action) error {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()

	h.mu.Lock()
	from, empty := &h.done, ErrNothingToUndo
	if action == ActionRedo {
		from, empty = &h.undone, ErrNothingToRedo
	}
	if len(*from) == 0 {
		h.mu.Unlock()
		return empty
	}
	record := (*from)[len(*from)-1]

	dropped, err := apply(record, action)
	if err == nil {
		*from = (*from)[:len(*from)-1]
		if action == ActionUndo {
			h.undone = append(h.undone, record)
		} else {
			h.done = append(h.done, record)
		}
	}
	logger, metrics, actor := h.logger, h.metrics, h.actor
	h.mu.Unlock()
	releaseAll(dropped)

	if logger != nil {
		logger.LogCommit(CommitLogEvent{Action: action, TxnID: record.TxnID, Objects: len(record.changes), Duration: time.Since(start), Err: err})
	}
	recordHistory(ctx, metrics, action, err)
	if err != nil {
		return err
	}
	notifyArenas(ctx, action, actor, record)
	return nil
}

// apply publishes the prior (undo) or new (redo) snapshot of every change in
// the record and returns the identities whose counts the replaced snapshots
// held. Nothing is published when an object is stale or its current snapshot
// is not the one the step expects to replace.
func apply(record Record, action Action) ([]*identity, error) {
	unlock := lockIdentities(record.identities())
	defer unlock()
	for _, c := range record.changes {
		if c.ident.stale.Load() {
			return nil, &StaleObjectError{ObjectID: c.ident.id, TxnID: record.TxnID}
		}
		expect := c.next
		if action == ActionRedo {
			expect = c.prior
		}
		if c.ident.snap.Load() != expect {
			return nil, fmt.Errorf("%w: id=%d txn=%s", ErrHistoryConflict, c.ident.id, record.TxnID)
		}
	}
	var dropped []*identity
	for _, c := range record.changes {
		target := c.next
		if action == ActionUndo {
			target = c.prior
		}
		retainAll(heldRefs(nil, target))
		dropped = heldRefs(dropped, c.ident.snap.Swap(target))
	}
	return dropped, nil
}
