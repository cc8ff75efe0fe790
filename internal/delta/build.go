package delta

import "math"

// Params tunes delta construction. The zero value selects the defaults
// (window 32, min match 32, 65536 index buckets); sizes below are bytes.
type Params struct {
	Window   int
	MinMatch int
	Buckets  int
}

// Thresholds for the closed-form strategies. An append-only revision is one
// that grew by less than appendMaxGrowth bytes while keeping almost all of
// the reference as its prefix; a sandwich revision shares most of its bytes
// with the reference at both ends, or changed by a sliver relative to the
// reference size.
const (
	appendMaxGrowth     = 1000
	appendPrefixShare   = 0.95
	sandwichAffixShare  = 0.8
	sandwichMaxChange   = 10000
	sandwichChangeShare = 0.01
)

// Build computes a delta that transforms ref into new, using the default
// parameters. The result always satisfies Validate; in particular applying
// it to ref reproduces new exactly.
func Build(ref, new []byte) (*Delta, error) {
	return BuildWith(ref, new, Params{})
}

// BuildWith is Build with explicit tuning parameters.
//
// Construction picks among three strategies after an O(len(ref)+len(new))
// structural look at the buffers:
//
//   - append-only: the new buffer is the reference plus a short tail; two
//     operations suffice.
//   - sandwich: the buffers share long head and tail runs; at most three
//     operations cover the middle edit.
//   - rolling-hash matching: the general case; the reference is indexed
//     under a sliding window hash and the new buffer is covered greedily by
//     validated matches.
func BuildWith(ref, new []byte, params Params) (*Delta, error) {
	d := dispatch(ref, new, params)
	if err := Validate(d); err != nil {
		return nil, err
	}
	return d, nil
}

func dispatch(ref, new []byte, params Params) *Delta {
	// An empty new buffer is an empty delta; an empty reference makes every
	// strategy degenerate to one INSERT of the whole buffer.
	if len(new) == 0 {
		return &Delta{OriginalSize: uint32(len(ref))}
	}
	if len(ref) == 0 {
		return singleInsert(new)
	}

	prefix, suffix := commonAffix(ref, new)

	if len(new) > len(ref) && len(new)-len(ref) < appendMaxGrowth &&
		float64(prefix) > appendPrefixShare*float64(len(ref)) {
		return appendDelta(ref, new, prefix)
	}

	change := len(new) - len(ref)
	if change < 0 {
		change = -change
	}
	changeBudget := math.Min(sandwichMaxChange, sandwichChangeShare*float64(len(ref)))
	if float64(prefix+suffix) > sandwichAffixShare*float64(len(ref)) || float64(change) < changeBudget {
		return sandwichDelta(ref, new, prefix, suffix)
	}

	return matchedDelta(ref, new, params)
}

// singleInsert covers the whole new buffer with one INSERT.
func singleInsert(new []byte) *Delta {
	ops := []Op{insertOp(new)}
	return assemble(0, ops)
}

// appendDelta emits COPY(0, prefix) + INSERT(tail).
func appendDelta(ref, new []byte, prefix int) *Delta {
	ops := []Op{
		{Type: OpCopy, RefOffset: 0, Length: uint32(prefix)},
		insertOp(new[prefix:]),
	}
	return assemble(uint32(len(ref)), ops)
}

// sandwichDelta emits up to three operations: the shared head, the replaced
// middle, and the shared tail. Any empty piece is skipped.
func sandwichDelta(ref, new []byte, prefix, suffix int) *Delta {
	ops := make([]Op, 0, 3)
	if prefix > 0 {
		ops = append(ops, Op{Type: OpCopy, RefOffset: 0, Length: uint32(prefix)})
	}
	if mid := new[prefix : len(new)-suffix]; len(mid) > 0 {
		ops = append(ops, insertOp(mid))
	}
	if suffix > 0 {
		ops = append(ops, Op{Type: OpCopy, RefOffset: uint32(len(ref) - suffix), Length: uint32(suffix)})
	}
	return assemble(uint32(len(ref)), ops)
}

// matchedDelta runs the full pipeline: index the reference, cover the new
// buffer with matches, then plan the operation stream around them.
func matchedDelta(ref, new []byte, params Params) *Delta {
	p := matchParams{
		window:   params.Window,
		minMatch: params.MinMatch,
		buckets:  params.Buckets,
	}.withDefaults(len(new))

	ix := buildIndex(ref, p.window, p.buckets)
	matches := findMatches(ref, new, ix, p)
	return planOps(ref, new, matches)
}

// planOps turns a non-overlapping match cover into a gap-free operation
// stream: every byte of new not covered by a match becomes INSERT payload.
// Matches arrive in ascending new-offset order from the finder; the walk
// below relies on that to keep the output cursor monotone.
func planOps(ref, new []byte, matches []match) *Delta {
	var ops []Op
	cursor := 0
	for _, m := range matches {
		if m.newOffset > cursor {
			ops = append(ops, insertOp(new[cursor:m.newOffset]))
		}
		ops = append(ops, Op{Type: OpCopy, RefOffset: uint32(m.refOffset), Length: uint32(m.length)})
		cursor = m.newOffset + m.length
	}
	if cursor < len(new) {
		ops = append(ops, insertOp(new[cursor:]))
	}
	return assemble(uint32(len(ref)), ops)
}

// insertOp builds an INSERT whose payload is an owned copy of b.
func insertOp(b []byte) Op {
	data := make([]byte, len(b))
	copy(data, b)
	return Op{Type: OpInsert, Length: uint32(len(b)), Data: data}
}

// assemble computes the size totals for an operation stream.
func assemble(originalSize uint32, ops []Op) *Delta {
	d := &Delta{OriginalSize: originalSize, Ops: ops}
	for _, op := range ops {
		d.NewSize += op.Length
		if op.Type != OpCopy {
			d.DeltaSize += op.Length
		}
	}
	return d
}
