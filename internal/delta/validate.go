package delta

import "fmt"

// Validate checks the structural invariants of a delta: known op types,
// gap-free ascending output coverage, COPY sources inside the reference,
// INSERT/REPLACE payloads matching their declared lengths, and size totals
// consistent with the operation stream.
//
// The builder validates everything it emits; the store validates again after
// decoding, so a truncated or tampered file is rejected before it reaches
// the applier.
func Validate(d *Delta) error {
	if d == nil {
		return fmt.Errorf("%w: nil delta", ErrInvalidArgument)
	}

	var newSize, deltaSize uint64
	for i, op := range d.Ops {
		switch op.Type {
		case OpCopy:
			if op.Data != nil {
				return fmt.Errorf("op %d: copy carries payload: %w", i, ErrDeltaMalformed)
			}
			if uint64(op.RefOffset)+uint64(op.Length) > uint64(d.OriginalSize) {
				return fmt.Errorf("op %d: copy [%d:%d) of %d-byte reference: %w",
					i, op.RefOffset, op.RefOffset+op.Length, d.OriginalSize, ErrReferenceOutOfRange)
			}
		case OpInsert, OpReplace:
			if op.Length == 0 {
				return fmt.Errorf("op %d: empty %s: %w", i, op.Type, ErrDeltaMalformed)
			}
			if uint32(len(op.Data)) != op.Length {
				return fmt.Errorf("op %d: %d payload bytes for declared length %d: %w",
					i, len(op.Data), op.Length, ErrDeltaMalformed)
			}
			deltaSize += uint64(op.Length)
		default:
			return fmt.Errorf("op %d: type %d: %w", i, op.Type, ErrDeltaMalformed)
		}
		newSize += uint64(op.Length)
	}

	if newSize != uint64(d.NewSize) {
		return fmt.Errorf("operation lengths sum to %d, declared new size %d: %w",
			newSize, d.NewSize, ErrDeltaMalformed)
	}
	if deltaSize != uint64(d.DeltaSize) {
		return fmt.Errorf("payload bytes sum to %d, declared delta size %d: %w",
			deltaSize, d.DeltaSize, ErrDeltaMalformed)
	}
	return nil
}
