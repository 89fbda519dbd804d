package object

// A committed snapshot owns the objects it refers to: publishing a snapshot
// retains every Ref reachable from it, nested containers included, and
// replacing it releases them again. Drafts, detached dicts and history
// records hold no counts.

// heldRefs appends the identities referenced from d.
func heldRefs(out []*identity, d *Dict) []*identity {
	if d == nil {
		return out
	}
	for _, e := range d.entries {
		if e.live {
			out = valueRefs(out, e.value)
		}
	}
	return out
}

func valueRefs(out []*identity, v Value) []*identity {
	switch x := v.v.(type) {
	case Ref:
		if x.ident != nil {
			out = append(out, x.ident)
		}
	case *Dict:
		out = heldRefs(out, x)
	case *Array:
		if x == nil {
			return out
		}
		for _, item := range x.items {
			if item != nil {
				out = valueRefs(out, *item)
			}
		}
	}
	return out
}

// retainAll takes one count on each identity. Stale identities are skipped:
// they cannot be revived.
func retainAll(idents []*identity) {
	for _, ident := range idents {
		Ref{ident: ident}.Retain()
	}
}

// releaseAll gives up one count on each identity. It must run without any
// identity lock held, since the last release marks an identity stale.
func releaseAll(idents []*identity) {
	for _, ident := range idents {
		Ref{ident: ident}.Release()
	}
}
