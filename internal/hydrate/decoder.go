// Package hydrate converts generic payloads, such as decoded YAML documents,
// into object dicts keyed by vocabulary names.
package hydrate

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"

	object "github.com/goliatone/go-object"
	"github.com/goliatone/go-object/voc"
)

// ErrUnknownName is returned when a payload key has no vocabulary name and
// the decoder was not allowed to register names.
var ErrUnknownName = errors.New("hydrate: unknown name")

// Context identifies a payload and the vocabulary its keys resolve under.
// A zero Base means the vocabulary root.
type Context struct {
	Source string
	Base   voc.Name
}

func (c Context) base() voc.Name {
	if c.Base.IsZero() {
		return voc.Root()
	}
	return c.Base
}

// PreHook lets callers mutate or normalise the payload before decoding.
type PreHook func(Context, map[string]any) (map[string]any, error)

// PostHook lets callers adjust or validate the hydrated dict.
type PostHook func(Context, *object.Dict) error

// DecoderOption configures a Decoder instance.
type DecoderOption func(*Decoder)

// Decoder converts payloads into dicts.
type Decoder struct {
	preHooks  []PreHook
	postHooks []PostHook
	register  bool
}

// WithPreHook applies hook prior to decoding.
func WithPreHook(hook PreHook) DecoderOption {
	return func(d *Decoder) {
		d.preHooks = append(d.preHooks, hook)
	}
}

// WithPostHook applies hook after decoding completes.
func WithPostHook(hook PostHook) DecoderOption {
	return func(d *Decoder) {
		d.postHooks = append(d.postHooks, hook)
	}
}

// WithNameRegistration registers unknown keys as new names under the
// context base. Without it unknown keys fail with ErrUnknownName. Names live
// for the rest of the process, so only enable this for trusted input.
func WithNameRegistration() DecoderOption {
	return func(d *Decoder) {
		d.register = true
	}
}

func NewDecoder(opts ...DecoderOption) *Decoder {
	d := &Decoder{}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Decode converts payload into a dict applying configured hooks. Keys are
// visited in sorted order so registered names are deterministic.
func (d *Decoder) Decode(ctx Context, payload map[string]any) (*object.Dict, error) {
	if payload == nil {
		return nil, fmt.Errorf("hydrate: payload is nil for source %q", ctx.Source)
	}

	current := clonePayload(payload)
	for _, hook := range d.preHooks {
		if hook == nil {
			continue
		}
		next, err := hook(ctx, current)
		if err != nil {
			return nil, fmt.Errorf("hydrate: pre-hook for source %q failed: %w", ctx.Source, err)
		}
		if next != nil {
			current = next
		}
	}

	result, err := d.dict(ctx, current)
	if err != nil {
		return nil, fmt.Errorf("hydrate: decode source %q: %w", ctx.Source, err)
	}

	for _, hook := range d.postHooks {
		if hook == nil {
			continue
		}
		if err := hook(ctx, result); err != nil {
			return nil, fmt.Errorf("hydrate: post-hook for source %q failed: %w", ctx.Source, err)
		}
	}
	return result, nil
}

// DecodeYAML reads one YAML mapping from r and decodes it.
func (d *Decoder) DecodeYAML(ctx Context, r io.Reader) (*object.Dict, error) {
	var payload map[string]any
	if err := yaml.NewDecoder(r).Decode(&payload); err != nil {
		if errors.Is(err, io.EOF) {
			return object.NewDict(), nil
		}
		return nil, fmt.Errorf("hydrate: parse yaml for source %q: %w", ctx.Source, err)
	}
	if payload == nil {
		payload = map[string]any{}
	}
	return d.Decode(ctx, payload)
}

func (d *Decoder) name(ctx Context, key string) (voc.Name, error) {
	base := ctx.base()
	if d.register {
		return voc.LookupOrNew(base, key), nil
	}
	if name, ok := voc.Lookup(base, key); ok {
		return name, nil
	}
	return voc.Name{}, fmt.Errorf("%w %q", ErrUnknownName, key)
}

func (d *Decoder) dict(ctx Context, payload map[string]any) (*object.Dict, error) {
	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := object.NewDict()
	for _, key := range keys {
		name, err := d.name(ctx, key)
		if err != nil {
			return nil, err
		}
		value, err := d.value(ctx, payload[key])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		out.Set(name, value)
	}
	return out, nil
}

func (d *Decoder) value(ctx Context, raw any) (any, error) {
	switch x := raw.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return d.dict(ctx, x)
	case []any:
		arr := object.NewArray()
		for i, item := range x {
			v, err := d.value(ctx, item)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			arr.Append(v)
		}
		return arr, nil
	case bool, string, int, int64, uint64, float64:
		return x, nil
	default:
		return nil, fmt.Errorf("unsupported value of type %T", raw)
	}
}

func clonePayload(payload map[string]any) map[string]any {
	out := make(map[string]any, len(payload))
	for key, value := range payload {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch x := value.(type) {
	case map[string]any:
		return clonePayload(x)
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return value
	}
}
