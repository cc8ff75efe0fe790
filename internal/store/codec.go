package store

import (
	"encoding/binary"
	"fmt"

	"fiver/internal/delta"
)

// Delta file format: a concatenation of operation records in emission order,
// little-endian, with no file-level header (the record count lives in the
// sibling metadata file).
//
//	 0  type        4  u32: 0=COPY, 1=INSERT, 2=REPLACE
//	 4  ref_offset  4  u32
//	 8  length      4  u32
//	12  data        length bytes, present only when type != COPY
const opHeaderSize = 12

// encodeDelta serialises the operation stream of d.
func encodeDelta(d *delta.Delta) []byte {
	size := 0
	for _, op := range d.Ops {
		size += opHeaderSize + len(op.Data)
	}
	buf := make([]byte, 0, size)
	var hdr [opHeaderSize]byte
	for _, op := range d.Ops {
		binary.LittleEndian.PutUint32(hdr[0:], uint32(op.Type))
		binary.LittleEndian.PutUint32(hdr[4:], op.RefOffset)
		binary.LittleEndian.PutUint32(hdr[8:], op.Length)
		buf = append(buf, hdr[:]...)
		buf = append(buf, op.Data...)
	}
	return buf
}

// decodeDelta parses a delta file against its metadata record. The stream
// must contain exactly m.OperationCount records with no trailing bytes, and
// the decoded delta must satisfy every engine invariant (delta.Validate).
func decodeDelta(buf []byte, m *Meta) (*delta.Delta, error) {
	// Every record is at least a header, so a hostile operation count can be
	// rejected before it sizes any allocation.
	if uint64(m.OperationCount)*opHeaderSize > uint64(len(buf)) {
		return nil, fmt.Errorf("%d operations cannot fit in %d bytes: %w",
			m.OperationCount, len(buf), delta.ErrDeltaMalformed)
	}
	d := &delta.Delta{
		OriginalSize: m.OriginalSize,
		Ops:          make([]delta.Op, 0, m.OperationCount),
	}
	for i := uint32(0); i < m.OperationCount; i++ {
		if len(buf) < opHeaderSize {
			return nil, fmt.Errorf("op %d: truncated header (%d bytes left): %w",
				i, len(buf), delta.ErrDeltaMalformed)
		}
		op := delta.Op{
			Type:      delta.OpType(binary.LittleEndian.Uint32(buf[0:])),
			RefOffset: binary.LittleEndian.Uint32(buf[4:]),
			Length:    binary.LittleEndian.Uint32(buf[8:]),
		}
		buf = buf[opHeaderSize:]

		switch op.Type {
		case delta.OpCopy:
		case delta.OpInsert, delta.OpReplace:
			if uint32(len(buf)) < op.Length {
				return nil, fmt.Errorf("op %d: truncated payload (%d of %d bytes): %w",
					i, len(buf), op.Length, delta.ErrDeltaMalformed)
			}
			op.Data = append([]byte(nil), buf[:op.Length]...)
			buf = buf[op.Length:]
		default:
			return nil, fmt.Errorf("op %d: unknown type %d: %w", i, op.Type, delta.ErrDeltaMalformed)
		}

		d.NewSize += op.Length
		if op.Type != delta.OpCopy {
			d.DeltaSize += op.Length
		}
		d.Ops = append(d.Ops, op)
	}
	if len(buf) != 0 {
		return nil, fmt.Errorf("%d trailing bytes after %d operations: %w",
			len(buf), m.OperationCount, delta.ErrDeltaMalformed)
	}
	if d.DeltaSize != m.DeltaSize {
		return nil, fmt.Errorf("payload bytes %d disagree with metadata delta size %d: %w",
			d.DeltaSize, m.DeltaSize, delta.ErrDeltaMalformed)
	}
	if err := delta.Validate(d); err != nil {
		return nil, err
	}
	return d, nil
}
