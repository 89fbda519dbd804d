package layering

import (
	"slices"

	object "github.com/goliatone/go-object"
	"github.com/goliatone/go-object/voc"
)

// Layer names an object taking part in a layered view. Higher priorities
// override lower ones.
type Layer struct {
	Name     string
	Priority int
	Source   object.Ref
}

// Chain is an ordered layering sequence from strongest to weakest.
type Chain struct {
	ordered []Layer
}

// NewChain constructs a chain, dropping layers without a source and later
// duplicates by name. Stronger priorities come first; peers keep their
// relative order.
func NewChain(layers ...Layer) Chain {
	filtered := make([]Layer, 0, len(layers))
	seen := map[string]struct{}{}

	for _, layer := range layers {
		if layer.Source.IsNil() {
			continue
		}
		if _, exists := seen[layer.Name]; exists {
			continue
		}
		seen[layer.Name] = struct{}{}
		filtered = append(filtered, layer)
	}

	slices.SortStableFunc(filtered, func(a, b Layer) int {
		switch {
		case a.Priority == b.Priority:
			return 0
		case a.Priority > b.Priority:
			return -1
		default:
			return 1
		}
	})

	return Chain{ordered: filtered}
}

// Ordered returns the layers from strongest (index 0) to weakest.
func (c Chain) Ordered() []Layer {
	out := make([]Layer, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// Len returns the number of layers.
func (c Chain) Len() int {
	return len(c.ordered)
}

// Strongest returns the first layer in the chain (zero layer if empty).
func (c Chain) Strongest() Layer {
	if len(c.ordered) == 0 {
		return Layer{}
	}
	return c.ordered[0]
}

// Weakest returns the final layer in the chain (zero layer if empty).
func (c Chain) Weakest() Layer {
	if len(c.ordered) == 0 {
		return Layer{}
	}
	return c.ordered[len(c.ordered)-1]
}

// Snapshots loads the committed snapshot of every layer, strongest first.
func (c Chain) Snapshots() []object.Snapshot {
	out := make([]object.Snapshot, len(c.ordered))
	for i, layer := range c.ordered {
		out[i] = layer.Source.Snapshot()
	}
	return out
}

// Merge composes the current committed state of the chain.
func (c Chain) Merge() *object.Dict {
	return Merge(c.Snapshots()...)
}

// Resolve returns the value under name and the layer supplying it.
func (c Chain) Resolve(name voc.Name) (object.Value, Layer, bool) {
	v, i := Resolve(name, c.Snapshots()...)
	if i < 0 {
		return object.Value{}, Layer{}, false
	}
	return v, c.ordered[i], true
}
