package object_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	object "github.com/goliatone/go-object"
)

func TestCommitLoggerReceivesCommitAndAbort(t *testing.T) {
	var events []object.CommitLogEvent
	logger := object.CommitLoggerFunc(func(e object.CommitLogEvent) { events = append(events, e) })

	obj := object.Make()
	defer obj.Release()

	txn := object.NewTransaction(object.WithCommitLogger(logger))
	d, err := obj.Modify(txn)
	require.NoError(t, err)
	require.NoError(t, d.Set(rock, 1))
	require.NoError(t, txn.Commit(nil))

	aborted := object.NewTransaction(object.WithCommitLogger(logger))
	require.NoError(t, aborted.Abort())

	require.Len(t, events, 2)
	assert.Equal(t, object.ActionCommit, events[0].Action)
	assert.Equal(t, txn.ID(), events[0].TxnID)
	assert.Equal(t, 1, events[0].Objects)
	assert.NoError(t, events[0].Err)
	assert.Equal(t, object.ActionAbort, events[1].Action)
}

func TestCommitLoggerSeesStaleFailure(t *testing.T) {
	var events []object.CommitLogEvent
	logger := object.CommitLoggerFunc(func(e object.CommitLogEvent) { events = append(events, e) })

	obj := object.Make()
	txn := object.NewTransaction(object.WithCommitLogger(logger))
	_, err := obj.Modify(txn)
	require.NoError(t, err)
	obj.Release()

	require.Error(t, txn.Commit(nil))
	require.Len(t, events, 1)
	assert.ErrorIs(t, events[0].Err, object.ErrStaleObjectIdentity)
}

func TestSlogCommitLoggerWritesStructuredRecords(t *testing.T) {
	var buf bytes.Buffer
	logger := object.SlogCommitLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	logger.LogCommit(object.CommitLogEvent{Action: object.ActionUndo, Objects: 2})

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "INFO", record["level"])
	assert.Equal(t, "object", record["component"])
	assert.Equal(t, "undo", record["action"])
	assert.Equal(t, float64(2), record["objects"])
}

func TestNilLoggersAreSafe(t *testing.T) {
	var fn object.CommitLoggerFunc
	fn.LogCommit(object.CommitLogEvent{})

	txn := object.NewTransaction(object.WithCommitLogger(nil))
	require.NoError(t, txn.Abort())
	assert.NotNil(t, object.SlogCommitLogger(nil))
}
