// Package layering composes object snapshots ordered from strongest to
// weakest into a single read view.
package layering

import (
	object "github.com/goliatone/go-object"
	"github.com/goliatone/go-object/voc"
)

// Merge composes snapshots ordered from strongest to weakest. Keys from
// stronger layers win, nested dicts present on both sides merge recursively,
// and weaker layers fill in missing keys. The result is detached from every
// input.
func Merge(layers ...object.Snapshot) *object.Dict {
	dicts := make([]*object.Dict, len(layers))
	for i, layer := range layers {
		dicts[i] = layer.Dict()
	}
	return MergeDicts(dicts...)
}

// MergeDicts is Merge over plain dicts.
func MergeDicts(layers ...*object.Dict) *object.Dict {
	if len(layers) == 0 {
		return object.NewDict()
	}
	merged := layers[len(layers)-1].Clone()
	for i := len(layers) - 2; i >= 0; i-- {
		merged = mergeDict(layers[i], merged)
	}
	return merged
}

func mergeDict(strong, weak *object.Dict) *object.Dict {
	result := weak.Clone()
	for key, value := range strong.All() {
		strongDict, strongOK := value.Any().(*object.Dict)
		weakDict, weakOK := result.Value(key).Any().(*object.Dict)
		if strongOK && weakOK {
			result.Set(key, mergeDict(strongDict, weakDict))
			continue
		}
		if strongOK {
			result.Set(key, strongDict.Clone())
			continue
		}
		if arr, ok := value.Any().(*object.Array); ok {
			result.Set(key, arr.Clone())
			continue
		}
		result.Set(key, value)
	}
	return result
}

// Resolve returns the value under name from the strongest layer holding it
// and that layer's index, or an empty Value and -1.
func Resolve(name voc.Name, layers ...object.Snapshot) (object.Value, int) {
	for i, layer := range layers {
		if v, ok := layer.Get(name); ok {
			return v, i
		}
	}
	return object.Value{}, -1
}
