package object

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/goliatone/go-object/pkg/activity"
)

// identity is the shared state behind every handle to one object.
type identity struct {
	id    uint64
	arena *Arena

	refs  atomic.Int64
	stale atomic.Bool

	// mu serializes publication of new snapshots.
	mu   sync.Mutex
	snap atomic.Pointer[Dict]
}

// Arena owns object identities and fans out commit notifications for them.
type Arena struct {
	seq     uint64
	cfg     config
	emitter *activity.Emitter

	nextID  atomic.Uint64
	objects *xsync.MapOf[uint64, *identity]

	watchMu  sync.RWMutex
	watchSeq uint64
	watchers map[uint64]func(CommitEvent)
}

var (
	defaultArenaOnce sync.Once
	defaultArena     *Arena
	arenaSeq         atomic.Uint64
)

// NewArena constructs an arena configured by opts.
func NewArena(opts ...Option) *Arena {
	cfg := newConfig(opts...)
	return &Arena{
		seq:      arenaSeq.Add(1),
		cfg:      cfg,
		emitter:  activity.NewEmitter(cfg.hooks, activity.Config{
			Enabled: cfg.hooks.Enabled(),
			Channel: cfg.channel,
			Actor:   cfg.actor,
			Tenant:  cfg.tenant,
		}),
		objects:  xsync.NewMapOf[uint64, *identity](),
		watchers: map[uint64]func(CommitEvent){},
	}
}

// DefaultArena returns the process-wide arena used by Make.
func DefaultArena() *Arena {
	defaultArenaOnce.Do(func() {
		defaultArena = NewArena()
	})
	return defaultArena
}

// Make creates an object in the default arena.
func Make() Ref {
	return DefaultArena().Make()
}

// Make creates an object with an empty committed snapshot and returns the
// first counted handle to it.
func (a *Arena) Make() Ref {
	ident := &identity{id: a.nextID.Add(1), arena: a}
	ident.refs.Store(1)
	ident.snap.Store(NewDict())
	a.objects.Store(ident.id, ident)
	recordLive(context.Background(), a.cfg.metrics, 1)
	return Ref{ident: ident}
}

// Lookup returns a new counted handle to the live object with id.
func (a *Arena) Lookup(id uint64) (Ref, bool) {
	ident, ok := a.objects.Load(id)
	if !ok {
		return Ref{}, false
	}
	ref := Ref{ident: ident}.Retain()
	return ref, !ref.IsNil()
}

// Len returns the number of live objects.
func (a *Arena) Len() int {
	return a.objects.Size()
}

// Made returns how many objects the arena has created.
func (a *Arena) Made() uint64 {
	return a.nextID.Load()
}

// IDs returns the ids of live objects in ascending order.
func (a *Arena) IDs() []uint64 {
	ids := make([]uint64, 0, a.objects.Size())
	a.objects.Range(func(id uint64, _ *identity) bool {
		ids = append(ids, id)
		return true
	})
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Watch registers fn to receive every commit, undo and redo that touches an
// object of this arena. Callbacks run synchronously after publication. The
// returned func removes the watcher.
func (a *Arena) Watch(fn func(CommitEvent)) (cancel func()) {
	if fn == nil {
		return func() {}
	}
	a.watchMu.Lock()
	a.watchSeq++
	id := a.watchSeq
	a.watchers[id] = fn
	a.watchMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			a.watchMu.Lock()
			delete(a.watchers, id)
			a.watchMu.Unlock()
		})
	}
}

// Watchers returns the number of registered watchers.
func (a *Arena) Watchers() int {
	a.watchMu.RLock()
	defer a.watchMu.RUnlock()
	return len(a.watchers)
}

func (a *Arena) notify(ctx context.Context, event CommitEvent) {
	a.watchMu.RLock()
	ids := make([]uint64, 0, len(a.watchers))
	for id := range a.watchers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	fns := make([]func(CommitEvent), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, a.watchers[id])
	}
	a.watchMu.RUnlock()

	for _, fn := range fns {
		fn(event)
	}
	a.emitActivity(ctx, event)
}

// release retires ident and gives up the counts its last snapshot held.
func (a *Arena) release(ident *identity) {
	ident.mu.Lock()
	ident.stale.Store(true)
	last := ident.snap.Swap(nil)
	ident.mu.Unlock()
	a.objects.Delete(ident.id)
	recordLive(context.Background(), a.cfg.metrics, -1)
	releaseAll(heldRefs(nil, last))
}

// lockIdentities acquires every identity lock in ascending id order so
// concurrent multi-object commits cannot deadlock.
func lockIdentities(idents []*identity) (unlock func()) {
	sorted := append([]*identity(nil), idents...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].arena != sorted[j].arena {
			return sorted[i].arena.seq < sorted[j].arena.seq
		}
		return sorted[i].id < sorted[j].id
	})
	for _, ident := range sorted {
		ident.mu.Lock()
	}
	return func() {
		for i := len(sorted) - 1; i >= 0; i-- {
			sorted[i].mu.Unlock()
		}
	}
}
