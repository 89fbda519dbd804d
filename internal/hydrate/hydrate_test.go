package hydrate

import (
	"errors"
	"strings"
	"sync"
	"testing"

	object "github.com/goliatone/go-object"
	"github.com/goliatone/go-object/voc"
)

func TestDecodeYAMLBuildsNestedDict(t *testing.T) {
	base := voc.New(voc.Root(), "doc")
	ctx := Context{Source: "inline", Base: base}

	dict, err := NewDecoder(WithNameRegistration()).DecodeYAML(ctx, strings.NewReader(`
title: circle
radius: 3
ratio: 0.5
visible: true
style:
  color: red
points: [1, 2, 3]
`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dict.Len() != 6 {
		t.Fatalf("expected 6 keys, got %d", dict.Len())
	}

	title, ok := voc.Lookup(base, "title")
	if !ok {
		t.Fatalf("expected title to be registered under base")
	}
	if got, err := object.DictLookup[string](dict, title); err != nil || got != "circle" {
		t.Fatalf("expected title circle, got %q (%v)", got, err)
	}

	style, _ := voc.Lookup(base, "style")
	nested, err := object.DictLookup[*object.Dict](dict, style)
	if err != nil {
		t.Fatalf("expected nested dict: %v", err)
	}
	color, _ := voc.Lookup(base, "color")
	if nested.Value(color).Any() != "red" {
		t.Fatalf("expected nested color red, got %v", nested.Value(color).Any())
	}

	points, _ := voc.Lookup(base, "points")
	arr, err := object.DictLookup[*object.Array](dict, points)
	if err != nil || arr.Len() != 3 {
		t.Fatalf("expected 3 points, got %v (%v)", arr, err)
	}

	want := "{\npoints : [\n1 ,\n2 ,\n3 ,\n] ,\n"
	if got := object.FormatFrom(base, dict); !strings.HasPrefix(got, want) {
		t.Fatalf("unexpected stream prefix:\n%s", got)
	}
}

func TestDecodeReusesExistingNames(t *testing.T) {
	base := voc.New(voc.Root(), "reuse")
	known := voc.New(base, "known")

	dict, err := NewDecoder().Decode(Context{Base: base}, map[string]any{"known": 1})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !dict.Contains(known) {
		t.Fatalf("expected existing name to be reused")
	}
	if len(base.Children()) != 1 {
		t.Fatalf("default decode should not register names")
	}

	_, err = NewDecoder().Decode(Context{Base: base}, map[string]any{"other": 1})
	if !errors.Is(err, ErrUnknownName) {
		t.Fatalf("expected ErrUnknownName, got %v", err)
	}
	if len(base.Children()) != 1 {
		t.Fatalf("rejected key should not be registered, got %d names", len(base.Children()))
	}
}

func TestDecodeWithRegistrationAgreesOnNames(t *testing.T) {
	base := voc.New(voc.Root(), "shared")
	dicts := make([]*object.Dict, 8)
	errs := make([]error, len(dicts))
	var wg sync.WaitGroup
	for i := range dicts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			dicts[i], errs[i] = NewDecoder(WithNameRegistration()).Decode(Context{Base: base}, map[string]any{"k": i})
		}()
	}
	wg.Wait()

	if len(base.Children()) != 1 {
		t.Fatalf("expected one registered name, got %d", len(base.Children()))
	}
	k, _ := voc.Lookup(base, "k")
	for i, dict := range dicts {
		if errs[i] != nil {
			t.Fatalf("decode %d: %v", i, errs[i])
		}
		if !dict.Contains(k) {
			t.Fatalf("decode %d used a different name for k", i)
		}
	}
}

func TestDecodeAppliesHooks(t *testing.T) {
	base := voc.New(voc.Root(), "hooks")
	voc.New(base, "name")
	payload := map[string]any{"name": "raw"}

	dict, err := NewDecoder(
		WithPreHook(func(_ Context, in map[string]any) (map[string]any, error) {
			in["name"] = "normalized"
			return in, nil
		}),
		WithPostHook(func(_ Context, d *object.Dict) error {
			if d.Len() != 1 {
				return errors.New("expected one key")
			}
			return nil
		}),
	).Decode(Context{Source: "hooks", Base: base}, payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload["name"] != "raw" {
		t.Fatalf("payload should not be mutated by hooks")
	}
	name, _ := voc.Lookup(base, "name")
	if dict.Value(name).Any() != "normalized" {
		t.Fatalf("expected pre-hook to run, got %v", dict.Value(name).Any())
	}

	_, err = NewDecoder(WithPostHook(func(Context, *object.Dict) error {
		return errors.New("boom")
	})).Decode(Context{Source: "fail", Base: base}, payload)
	if err == nil || !strings.Contains(err.Error(), `post-hook for source "fail"`) {
		t.Fatalf("expected post-hook error, got %v", err)
	}
}

func TestDecodeRejectsBadPayloads(t *testing.T) {
	if _, err := NewDecoder().Decode(Context{Source: "nil"}, nil); err == nil {
		t.Fatalf("expected error for nil payload")
	}
	base := voc.New(voc.Root(), "bad")
	if _, err := NewDecoder(WithNameRegistration()).Decode(Context{Base: base}, map[string]any{"ch": make(chan int)}); err == nil {
		t.Fatalf("expected error for unsupported value")
	}
	dict, err := NewDecoder().DecodeYAML(Context{}, strings.NewReader(""))
	if err != nil || dict.Len() != 0 {
		t.Fatalf("expected empty dict for empty document, got %v (%v)", dict, err)
	}
}
