package activity

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNormalizeEventTrimsClonesAndDefaults(t *testing.T) {
	meta := map[string]any{"k": "v"}
	evt := Event{
		Verb:       " objects.committed ",
		ActorID:    " actor ",
		UserID:     " user ",
		TenantID:   " tenant ",
		ObjectType: " object.transaction ",
		ObjectID:   " 42 ",
		Channel:    " objects ",
		Metadata:   meta,
	}

	got := NormalizeEvent(evt)

	if got.Verb != "objects.committed" || got.ObjectType != "object.transaction" || got.ObjectID != "42" {
		t.Fatalf("unexpected normalized fields: %+v", got)
	}
	if got.ActorID != "actor" || got.UserID != "user" || got.TenantID != "tenant" || got.Channel != "objects" {
		t.Fatalf("unexpected trimming: %+v", got)
	}
	if got.OccurredAt.IsZero() {
		t.Fatalf("expected OccurredAt to be set")
	}
	if got.Metadata["k"] != "v" {
		t.Fatalf("expected metadata value preserved: %+v", got.Metadata)
	}
	got.Metadata["k"] = "changed"
	if evt.Metadata["k"] != "v" {
		t.Fatalf("expected original metadata untouched: %+v", evt.Metadata)
	}
}

func TestHooksNotifyShortCircuitsMissingRequired(t *testing.T) {
	hooks := Hooks{&CaptureHook{}}
	err := hooks.Notify(context.Background(), Event{})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	capture := hooks[0].(*CaptureHook)
	if len(capture.Events) != 0 {
		t.Fatalf("expected no events captured, got %d", len(capture.Events))
	}
}

func TestHooksNotifyFanOutAndJoinErrors(t *testing.T) {
	capture := &CaptureHook{}
	var ctxSeen bool
	hooks := Hooks{
		HookFunc(func(ctx context.Context, event Event) error {
			if ctx != nil {
				ctxSeen = true
			}
			return nil
		}),
		capture,
		HookFunc(func(_ context.Context, _ Event) error { return errors.New("boom1") }),
		nil,
		HookFunc(func(_ context.Context, _ Event) error { return errors.New("boom2") }),
	}

	err := hooks.Notify(nil, Event{Verb: VerbObjectsCommitted, ObjectType: ObjectTypeTransaction, ObjectID: "1"})
	if err == nil || !errors.Is(err, errors.New("boom1")) || !errors.Is(err, errors.New("boom2")) {
		t.Fatalf("expected joined error, got %v", err)
	}
	if !ctxSeen {
		t.Fatalf("expected context fallback to be non-nil")
	}
	if len(capture.Events) != 1 {
		t.Fatalf("expected event to be captured once, got %d", len(capture.Events))
	}
}

func TestEmitterDisabledAndEnabled(t *testing.T) {
	capture := &CaptureHook{}

	disabled := NewEmitter(Hooks{capture}, Config{Enabled: false})
	if disabled.Enabled() {
		t.Fatalf("expected emitter to be disabled")
	}
	if err := disabled.Emit(context.Background(), Event{Verb: VerbObjectsUndone, ObjectType: ObjectTypeTransaction, ObjectID: "1"}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(capture.Events) != 0 {
		t.Fatalf("expected no events captured when disabled")
	}

	enabled := NewEmitter(Hooks{capture}, Config{Enabled: true, Channel: ""})
	if !enabled.Enabled() {
		t.Fatalf("expected emitter to be enabled")
	}
	if err := enabled.Emit(context.Background(), Event{Verb: VerbObjectsUndone, ObjectType: ObjectTypeTransaction, ObjectID: "1"}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(capture.Events) != 1 {
		t.Fatalf("expected one event captured, got %d", len(capture.Events))
	}
	if capture.Events[0].Channel != DefaultChannel {
		t.Fatalf("expected default channel applied, got %q", capture.Events[0].Channel)
	}
}

func TestEmitterPreservesExplicitChannel(t *testing.T) {
	capture := &CaptureHook{}
	emitter := NewEmitter(Hooks{capture}, Config{Enabled: true, Channel: "default"})

	err := emitter.Emit(context.Background(), Event{
		Verb:       VerbObjectsRedone,
		ObjectType: ObjectTypeTransaction,
		ObjectID:   "1",
		Channel:    "custom",
		OccurredAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	if capture.Events[0].Channel != "custom" {
		t.Fatalf("expected explicit channel preserved, got %q", capture.Events[0].Channel)
	}
	if capture.Events[0].OccurredAt != (time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected occurred_at preserved, got %v", capture.Events[0].OccurredAt)
	}
}

func TestCaptureHookSnapshotAndReset(t *testing.T) {
	capture := &CaptureHook{}
	hooks := Hooks{capture}
	for i := 0; i < 3; i++ {
		if err := hooks.Notify(context.Background(), BuildObjectsCommittedEvent(ObjectsEventInput{TxnID: "t"})); err != nil {
			t.Fatalf("notify: %v", err)
		}
	}
	events := capture.Snapshot()
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	events[0].Verb = "mutated"
	if capture.Snapshot()[0].Verb != VerbObjectsCommitted {
		t.Fatalf("snapshot should be a copy")
	}
	capture.Reset()
	if len(capture.Snapshot()) != 0 {
		t.Fatalf("expected reset to drop events")
	}
}

func TestEmitterStampsArenaDefaults(t *testing.T) {
	capture := &CaptureHook{}
	emitter := NewEmitter(Hooks{capture}, Config{Enabled: true, Actor: " editor ", Tenant: "acme"})

	err := emitter.EmitObjects(context.Background(), VerbObjectsUndone, ObjectsEventInput{TxnID: "txn-1", ObjectIDs: []uint64{4}})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	err = emitter.EmitObjects(context.Background(), "objects.unknown", ObjectsEventInput{TxnID: "txn-2", ActorID: "owner"})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}

	events := capture.Snapshot()
	if len(events) != 2 {
		t.Fatalf("expected two events, got %d", len(events))
	}
	first := events[0]
	if first.Verb != VerbObjectsUndone || first.ActorID != "editor" || first.TenantID != "acme" {
		t.Fatalf("unexpected defaults: %+v", first)
	}
	if first.Channel != DefaultChannel || first.OccurredAt.IsZero() {
		t.Fatalf("expected channel and time stamped, got %+v", first)
	}
	if events[1].Verb != VerbObjectsCommitted || events[1].ActorID != "owner" {
		t.Fatalf("expected commit verb and explicit actor, got %+v", events[1])
	}
}

func TestEmitterWithOnlyNilHooksIsDisabled(t *testing.T) {
	emitter := NewEmitter(Hooks{nil, nil}, Config{Enabled: true})
	if emitter.Enabled() {
		t.Fatalf("expected emitter without hooks to be disabled")
	}
	if err := emitter.EmitObjects(context.Background(), VerbObjectsCommitted, ObjectsEventInput{TxnID: "x"}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}
