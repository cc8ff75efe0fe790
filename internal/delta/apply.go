package delta

import "fmt"

// Apply executes the operation stream of d against ref and returns the
// reconstructed buffer. ref may be empty (or nil) when the delta contains no
// COPY operations, which is the shape of a first revision.
//
// Bounds violations are fatal: the applier never truncates a COPY and never
// extends past the declared output size.
func Apply(d *Delta, ref []byte) ([]byte, error) {
	if d == nil {
		return nil, fmt.Errorf("%w: nil delta", ErrInvalidArgument)
	}

	out := make([]byte, d.NewSize)
	w := 0
	for i, op := range d.Ops {
		// Arithmetic stays in int (64-bit) so hostile lengths cannot wrap
		// the bounds checks.
		length := int(op.Length)
		if w+length > len(out) {
			return nil, fmt.Errorf("op %d (%s, length %d at output %d): %w",
				i, op.Type, op.Length, w, ErrOutputOverflow)
		}
		switch op.Type {
		case OpCopy:
			o := int(op.RefOffset)
			if o+length > len(ref) {
				return nil, fmt.Errorf("op %d: copy [%d:%d) of %d-byte reference: %w",
					i, o, o+length, len(ref), ErrReferenceOutOfRange)
			}
			copy(out[w:], ref[o:o+length])
		case OpInsert, OpReplace:
			// REPLACE is write-identical to INSERT: the reference range it
			// logically displaces is implied by the output cursor.
			if uint32(len(op.Data)) != op.Length {
				return nil, fmt.Errorf("op %d: %d payload bytes for declared length %d: %w",
					i, len(op.Data), op.Length, ErrDeltaMalformed)
			}
			copy(out[w:], op.Data)
		default:
			return nil, fmt.Errorf("op %d: type %d: %w", i, op.Type, ErrDeltaMalformed)
		}
		w += length
	}
	if w != len(out) {
		return nil, fmt.Errorf("operations cover %d of %d declared bytes: %w",
			w, d.NewSize, ErrDeltaMalformed)
	}
	return out, nil
}

// Loader supplies persisted deltas to the chain reconstructor. version is
// 1-based; implementations report a missing or unreadable revision as an
// error (see internal/store).
type Loader interface {
	LoadDelta(name string, version int) (*Delta, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(name string, version int) (*Delta, error)

func (f LoaderFunc) LoadDelta(name string, version int) (*Delta, error) {
	return f(name, version)
}

// Reconstruct rebuilds revision target of name by applying deltas 1..target
// in order, starting from an empty reference. Intermediate buffers rotate
// through a single slot; peak transient memory is one revision plus the one
// being produced.
func Reconstruct(loader Loader, name string, target int) ([]byte, error) {
	if loader == nil {
		return nil, fmt.Errorf("%w: nil loader", ErrInvalidArgument)
	}
	if target < 1 {
		return nil, fmt.Errorf("%w: version %d", ErrInvalidArgument, target)
	}

	var current []byte
	for v := 1; v <= target; v++ {
		d, err := loader.LoadDelta(name, v)
		if err != nil {
			return nil, fmt.Errorf("load %s version %d: %w: %w", name, v, ErrChainBroken, err)
		}
		next, err := Apply(d, current)
		if err != nil {
			return nil, fmt.Errorf("apply %s version %d: %w", name, v, err)
		}
		current = next
	}
	return current, nil
}
