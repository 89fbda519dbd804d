package object

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goliatone/go-object/voc"
)

// Streamer renders values as line-oriented text:
//
//	dict   {\n key : value ,\n ... }
//	array  [\n value ,\n ... ]
//	object ref N {dict}   on first encounter
//	object ref N          afterwards, and ref 0 for a nil or released object
//
// Objects are numbered from 1 in encounter order, so cyclic graphs terminate.
// Names are written relative to the streamer's root. A Streamer remembers
// the objects it has numbered across calls.
type Streamer struct {
	w    io.Writer
	root voc.Name
	refs map[*identity]int
	err  error
}

// NewStreamer returns a streamer writing to w with names rendered relative to
// root. A zero root means the vocabulary root.
func NewStreamer(w io.Writer, root voc.Name) *Streamer {
	if root.IsZero() {
		root = voc.Root()
	}
	return &Streamer{w: w, root: root, refs: map[*identity]int{}}
}

// Write renders v and returns the first write error seen so far.
func (s *Streamer) Write(v any) error {
	s.value(v)
	return s.err
}

// Err returns the first write error.
func (s *Streamer) Err() error {
	return s.err
}

// Format renders v with the vocabulary root as base.
func Format(v any) string {
	return FormatFrom(voc.Root(), v)
}

// FormatFrom renders v with names relative to root.
func FormatFrom(root voc.Name, v any) string {
	var b strings.Builder
	_ = NewStreamer(&b, root).Write(v)
	return b.String()
}

func (s *Streamer) str(text string) {
	if s.err != nil {
		return
	}
	_, s.err = io.WriteString(s.w, text)
}

func (s *Streamer) value(v any) {
	switch x := v.(type) {
	case nil:
	case Value:
		s.value(x.v)
	case *Value:
		if x != nil {
			s.value(x.v)
		}
	case Ref:
		s.ref(x)
	case *Draft:
		s.ref(x.Ref())
	case Snapshot:
		s.dict(x.d)
	case *Dict:
		s.dict(x)
	case *Array:
		s.array(x)
	case voc.Name:
		s.str(x.Path(s.root))
	case string:
		s.str(x)
	case bool:
		if x {
			s.str("1")
		} else {
			s.str("0")
		}
	case int:
		s.str(strconv.FormatInt(int64(x), 10))
	case int8:
		s.str(strconv.FormatInt(int64(x), 10))
	case int16:
		s.str(strconv.FormatInt(int64(x), 10))
	case int32:
		s.str(strconv.FormatInt(int64(x), 10))
	case int64:
		s.str(strconv.FormatInt(x, 10))
	case uint:
		s.str(strconv.FormatUint(uint64(x), 10))
	case uint8:
		s.str(strconv.FormatUint(uint64(x), 10))
	case uint16:
		s.str(strconv.FormatUint(uint64(x), 10))
	case uint32:
		s.str(strconv.FormatUint(uint64(x), 10))
	case uint64:
		s.str(strconv.FormatUint(x, 10))
	case float32:
		s.str(strconv.FormatFloat(float64(x), 'g', -1, 32))
	case float64:
		s.str(strconv.FormatFloat(x, 'g', -1, 64))
	case fmt.Stringer:
		s.str(x.String())
	default:
		s.str(fmt.Sprint(x))
	}
}

func (s *Streamer) ref(r Ref) {
	if r.ident == nil {
		s.str("ref 0")
		return
	}
	if n, ok := s.refs[r.ident]; ok {
		s.str("ref " + strconv.Itoa(n))
		return
	}
	committed := r.ident.snap.Load()
	if committed == nil {
		s.str("ref 0")
		return
	}
	n := len(s.refs) + 1
	s.refs[r.ident] = n
	s.str("ref " + strconv.Itoa(n) + " ")
	s.dict(committed)
}

func (s *Streamer) dict(d *Dict) {
	s.str("{\n")
	for k, v := range d.All() {
		s.str(k.Path(s.root))
		s.str(" : ")
		s.value(v.v)
		s.str(" ,\n")
	}
	s.str("}")
}

func (s *Streamer) array(a *Array) {
	s.str("[\n")
	for _, v := range a.All() {
		s.value(v.v)
		s.str(" ,\n")
	}
	s.str("]")
}
