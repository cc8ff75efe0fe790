// Package delta implements the binary differencing engine: it turns a pair of
// byte buffers (previous revision, new revision) into a compact stream of
// COPY/INSERT operations, and reconstructs any revision by replaying such
// streams along a version chain.
//
// The engine is a pure compute kernel: it consumes already-materialised byte
// buffers, performs no I/O, and holds no state between calls. Persistence of
// the operation stream is the caller's concern (see internal/store).
package delta

import "errors"

// OpType identifies a delta operation. The numeric values are part of the
// on-disk contract and must not be reordered.
type OpType uint32

const (
	// OpCopy copies Length bytes from the reference buffer at RefOffset.
	OpCopy OpType = 0
	// OpInsert writes Data into the output.
	OpInsert OpType = 1
	// OpReplace is reserved. It is accepted by the applier (write-identical
	// to OpInsert) but never produced by the planner.
	OpReplace OpType = 2
)

func (t OpType) String() string {
	switch t {
	case OpCopy:
		return "COPY"
	case OpInsert:
		return "INSERT"
	case OpReplace:
		return "REPLACE"
	default:
		return "UNKNOWN"
	}
}

// Op is a single delta operation. For COPY, Data is nil and RefOffset/Length
// address the reference buffer. For INSERT and REPLACE, Data holds the bytes
// to write and Length equals len(Data).
type Op struct {
	Type      OpType
	RefOffset uint32
	Length    uint32
	Data      []byte
}

// Delta is an ordered, gap-free operation stream together with its size
// totals. Applying the stream to a reference buffer of OriginalSize bytes
// yields a buffer of NewSize bytes. DeltaSize counts only the bytes embedded
// in INSERT/REPLACE operations, i.e. the payload that must be stored.
//
// A Delta is immutable after construction; operation payloads are owned by
// the Delta and must not be aliased by callers.
type Delta struct {
	OriginalSize uint32
	NewSize      uint32
	DeltaSize    uint32
	Ops          []Op
}

// OperationCount returns the number of operations in the stream.
func (d *Delta) OperationCount() int { return len(d.Ops) }

// match is a byte-identical region shared by the reference and new buffers,
// used only between the match finder and the planner.
type match struct {
	refOffset int
	newOffset int
	length    int
}

// Errors surfaced by the engine. Callers match with errors.Is; call sites
// wrap these with position/context via fmt.Errorf("...: %w", ...).
var (
	// ErrInvalidArgument indicates a nil loader, a zero version number, or a
	// similarly unusable parameter.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDeltaMalformed indicates a self-inconsistent operation stream:
	// unknown op type, payload/length mismatch, or totals that do not add up.
	ErrDeltaMalformed = errors.New("delta malformed")

	// ErrReferenceOutOfRange indicates a COPY that would read past the end of
	// the reference buffer (or a COPY against an absent reference).
	ErrReferenceOutOfRange = errors.New("copy source out of reference range")

	// ErrOutputOverflow indicates cumulative operation lengths exceeding the
	// declared output size.
	ErrOutputOverflow = errors.New("operations overflow declared output size")

	// ErrChainBroken indicates a revision delta that could not be loaded
	// while walking a version chain.
	ErrChainBroken = errors.New("version chain broken")
)
