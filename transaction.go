package object

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TxnState is the lifecycle state of a transaction.
type TxnState int

const (
	TxnOpen TxnState = iota
	TxnCommitted
	TxnAborted
)

func (s TxnState) String() string {
	switch s {
	case TxnOpen:
		return "open"
	case TxnCommitted:
		return "committed"
	case TxnAborted:
		return "aborted"
	default:
		return fmt.Sprintf("TxnState(%d)", int(s))
	}
}

// Transaction groups drafts of one or more objects and publishes them
// together. A Transaction is meant for a single writer; Commit is atomic with
// respect to concurrent readers and other transactions.
type Transaction struct {
	id  uuid.UUID
	cfg config

	mu      sync.Mutex
	state   TxnState
	drafts  map[*identity]*Draft
	order   []*identity
	started time.Time
}

// NewTransaction opens a transaction.
func NewTransaction(opts ...Option) *Transaction {
	return &Transaction{
		id:      uuid.New(),
		cfg:     newConfig(opts...),
		state:   TxnOpen,
		drafts:  map[*identity]*Draft{},
		started: time.Now(),
	}
}

// ID returns the transaction id.
func (t *Transaction) ID() uuid.UUID {
	return t.id
}

// State returns the lifecycle state.
func (t *Transaction) State() TxnState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Len returns the number of objects the transaction touches.
func (t *Transaction) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.order)
}

func (t *Transaction) draft(r Ref) (*Draft, error) {
	if r.ident == nil {
		return nil, fmt.Errorf("object: modify nil object: %w", ErrStaleObjectIdentity)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != TxnOpen {
		return nil, fmt.Errorf("%w: %s", ErrTransactionClosed, t.state)
	}
	if d, ok := t.drafts[r.ident]; ok {
		return d, nil
	}
	committed := r.ident.snap.Load()
	if committed == nil || r.ident.stale.Load() {
		return nil, &StaleObjectError{ObjectID: r.ident.id, TxnID: t.id}
	}
	d := &Draft{ident: r.ident, txn: t, dict: committed.Clone()}
	t.drafts[r.ident] = d
	t.order = append(t.order, r.ident)
	return d, nil
}

// view returns the transaction's working copy of r when it has one and the
// committed snapshot otherwise.
func (t *Transaction) view(r Ref) (*Dict, error) {
	if r.ident == nil {
		return nil, nil
	}
	t.mu.Lock()
	d, ok := t.drafts[r.ident]
	t.mu.Unlock()
	if ok {
		return d.dict, nil
	}
	committed := r.ident.snap.Load()
	if committed == nil {
		return nil, &StaleObjectError{ObjectID: r.ident.id, TxnID: t.id}
	}
	return committed, nil
}

// Commit publishes every draft and records the change in history, which may
// be nil.
func (t *Transaction) Commit(history *History) error {
	return t.CommitContext(context.Background(), history)
}

// CommitContext publishes every draft atomically. If any touched object is
// stale nothing is published, the transaction is aborted and a
// *StaleObjectError is returned. ctx is handed to notification hooks.
func (t *Transaction) CommitContext(ctx context.Context, history *History) error {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()

	t.mu.Lock()
	if t.state != TxnOpen {
		state := t.state
		t.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrTransactionClosed, state)
	}

	// History before identities, the order Undo and Redo lock in.
	if history != nil {
		history.mu.Lock()
	}
	unlock := lockIdentities(t.order)
	for _, ident := range t.order {
		if ident.stale.Load() {
			unlock()
			if history != nil {
				history.mu.Unlock()
			}
			t.closeLocked(TxnAborted)
			t.mu.Unlock()
			err := &StaleObjectError{ObjectID: ident.id, TxnID: t.id}
			t.cfg.logger.LogCommit(CommitLogEvent{Action: ActionCommit, TxnID: t.id, Objects: len(t.order), Duration: time.Since(start), Err: err})
			recordCommit(ctx, t.cfg.metrics, len(t.order), err)
			return err
		}
	}

	record := Record{TxnID: t.id, CommittedAt: time.Now(), changes: make([]Change, 0, len(t.order))}
	var dropped []*identity
	for _, ident := range t.order {
		prior := ident.snap.Load()
		next := t.drafts[ident].dict.Clone()
		retainAll(heldRefs(nil, next))
		ident.snap.Store(next)
		dropped = heldRefs(dropped, prior)
		record.changes = append(record.changes, Change{ident: ident, prior: prior, next: next})
	}
	if history != nil && len(record.changes) > 0 {
		history.pushLocked(record)
	}
	unlock()
	if history != nil {
		history.mu.Unlock()
	}
	t.closeLocked(TxnCommitted)
	t.mu.Unlock()
	releaseAll(dropped)

	t.cfg.logger.LogCommit(CommitLogEvent{Action: ActionCommit, TxnID: t.id, Objects: len(record.changes), Duration: time.Since(start)})
	recordCommit(ctx, t.cfg.metrics, len(record.changes), nil)
	notifyArenas(ctx, ActionCommit, t.cfg.actor, record)
	return nil
}

// Abort discards every draft. Aborting an aborted transaction is a no-op;
// aborting a committed one returns ErrTransactionClosed.
func (t *Transaction) Abort() error {
	t.mu.Lock()
	switch t.state {
	case TxnAborted:
		t.mu.Unlock()
		return nil
	case TxnCommitted:
		t.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrTransactionClosed, TxnCommitted)
	}
	touched := len(t.order)
	t.closeLocked(TxnAborted)
	t.mu.Unlock()

	t.cfg.logger.LogCommit(CommitLogEvent{Action: ActionAbort, TxnID: t.id, Objects: touched, Duration: time.Since(t.started)})
	recordAbort(context.Background(), t.cfg.metrics)
	return nil
}

func (t *Transaction) closeLocked(state TxnState) {
	t.state = state
	t.drafts = nil
	t.order = nil
}
