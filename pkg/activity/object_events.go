package activity

import (
	"strings"
	"time"
)

// ObjectTypeTransaction is the object type of every object lifecycle event;
// the event's ObjectID is the transaction id.
const ObjectTypeTransaction = "object.transaction"

const (
	VerbObjectsCommitted = "objects.committed"
	VerbObjectsUndone    = "objects.undone"
	VerbObjectsRedone    = "objects.redone"
)

// ObjectsEventInput describes the common fields for object lifecycle events.
type ObjectsEventInput struct {
	ActorID    string
	UserID     string
	TenantID   string
	TxnID      string
	ObjectIDs  []uint64
	Channel    string
	Metadata   map[string]any
	OccurredAt time.Time
}

// BuildObjectsCommittedEvent constructs the event for a committed transaction.
func BuildObjectsCommittedEvent(input ObjectsEventInput) Event {
	return buildObjectsEvent(VerbObjectsCommitted, input)
}

// BuildObjectsUndoneEvent constructs the event for an undone transaction.
func BuildObjectsUndoneEvent(input ObjectsEventInput) Event {
	return buildObjectsEvent(VerbObjectsUndone, input)
}

// BuildObjectsRedoneEvent constructs the event for a redone transaction.
func BuildObjectsRedoneEvent(input ObjectsEventInput) Event {
	return buildObjectsEvent(VerbObjectsRedone, input)
}

func buildObjectsEvent(verb string, input ObjectsEventInput) Event {
	metadata := CloneMetadata(input.Metadata)
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadata["object_ids"] = append([]uint64{}, input.ObjectIDs...)
	metadata["object_count"] = len(input.ObjectIDs)

	objectID := strings.TrimSpace(input.TxnID)
	if objectID == "" {
		objectID = ObjectTypeTransaction
	}

	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		UserID:     strings.TrimSpace(input.UserID),
		TenantID:   strings.TrimSpace(input.TenantID),
		ObjectType: ObjectTypeTransaction,
		ObjectID:   objectID,
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}
