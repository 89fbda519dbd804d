package object_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	object "github.com/goliatone/go-object"
	"github.com/goliatone/go-object/voc"
)

func TestStreamEmptyContainers(t *testing.T) {
	assert.Equal(t, "{\n}", object.Format(object.NewDict()))
	assert.Equal(t, "[\n]", object.Format(object.NewArray()))
	assert.Equal(t, "", object.Format(object.Value{}))
}

func TestStreamDictAndArray(t *testing.T) {
	d := object.NewDict()
	d.Set(rock, 3)
	assert.Equal(t, "{\nrock : 3 ,\n}", object.Format(d))

	assert.Equal(t, "[\n3 ,\n5 ,\n7 ,\n]", object.Format(object.ArrayOf(3, 5, 7)))
}

func TestStreamScalars(t *testing.T) {
	a := object.ArrayOf(true, false, 1.5, float32(0.25), uint8(9), int64(-4), "text", world)
	assert.Equal(t, "[\n1 ,\n0 ,\n1.5 ,\n0.25 ,\n9 ,\n-4 ,\ntext ,\nhello.world ,\n]", object.Format(a))
	assert.Equal(t, "world", object.FormatFrom(hello, world))
}

func TestStreamObjectGraphWithCycle(t *testing.T) {
	arena := object.NewArena()
	o1, o2 := arena.Make(), arena.Make()
	defer o1.Release()
	defer o2.Release()

	commit(t, nil, func(txn *object.Transaction) {
		require.NoError(t, modify(t, txn, o1).Set(voc.Child, o2))
		after, err := modify(t, txn, o2).Array(voc.After)
		require.NoError(t, err)
		after.Set(0, true)
		after.Set(1, o1)
		after.Set(2, object.Ref{})
	})

	want := "ref 1 {\nchild : ref 2 {\nafter : [\n1 ,\nref 1 ,\nref 0 ,\n] ,\n} ,\n}"
	assert.Equal(t, want, object.Format(o1))
	assert.Equal(t, want, o1.String())
}

func TestStreamReleasedObjectIsRefZero(t *testing.T) {
	obj := object.Make()
	obj.Release()
	assert.Equal(t, "ref 0", object.Format(obj))
}

func TestStreamerNumbersAcrossWrites(t *testing.T) {
	obj := object.Make()
	defer obj.Release()

	var b strings.Builder
	s := object.NewStreamer(&b, voc.Name{})
	require.NoError(t, s.Write(obj))
	require.NoError(t, s.Write(object.ArrayOf(obj)))
	assert.Equal(t, "ref 1 {\n}[\nref 1 ,\n]", b.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestStreamerKeepsFirstError(t *testing.T) {
	s := object.NewStreamer(failingWriter{}, voc.Root())
	err := s.Write(object.ArrayOf(1, 2))
	require.EqualError(t, err, "disk full")
	assert.Equal(t, err, s.Err())
}
