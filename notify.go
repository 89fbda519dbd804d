package object

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-object/pkg/activity"
)

// Action names what produced a CommitEvent.
type Action string

const (
	ActionCommit Action = "commit"
	ActionAbort  Action = "abort"
	ActionUndo   Action = "undo"
	ActionRedo   Action = "redo"
)

// CommitEvent reports a publication to the watchers of an arena. Objects
// holds the ids of the arena's objects whose committed snapshot changed.
type CommitEvent struct {
	Action     Action
	TxnID      uuid.UUID
	Objects    []uint64
	Actor      string
	OccurredAt time.Time
}

// notifyArenas delivers one event per arena touched by record.
func notifyArenas(ctx context.Context, action Action, actor string, record Record) {
	if len(record.changes) == 0 {
		return
	}
	now := time.Now()
	var arenas []*Arena
	byArena := map[*Arena][]uint64{}
	for _, c := range record.changes {
		a := c.ident.arena
		if _, ok := byArena[a]; !ok {
			arenas = append(arenas, a)
		}
		byArena[a] = append(byArena[a], c.ident.id)
	}
	for _, a := range arenas {
		a.notify(ctx, CommitEvent{
			Action:     action,
			TxnID:      record.TxnID,
			Objects:    byArena[a],
			Actor:      actor,
			OccurredAt: now,
		})
	}
}

func (a *Arena) emitActivity(ctx context.Context, event CommitEvent) {
	if !a.emitter.Enabled() {
		return
	}
	verb := activity.VerbObjectsCommitted
	switch event.Action {
	case ActionUndo:
		verb = activity.VerbObjectsUndone
	case ActionRedo:
		verb = activity.VerbObjectsRedone
	}
	err := a.emitter.EmitObjects(ctx, verb, activity.ObjectsEventInput{
		ActorID:    event.Actor,
		TxnID:      event.TxnID.String(),
		ObjectIDs:  event.Objects,
		OccurredAt: event.OccurredAt,
	})
	if err != nil {
		a.cfg.logger.LogCommit(CommitLogEvent{Action: event.Action, TxnID: event.TxnID, Objects: len(event.Objects), Err: err})
	}
}
