package store

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"time"
	"unicode/utf8"
)

// Meta describes one persisted revision. On disk it is a fixed 600-byte
// little-endian record (see marshal below); the layout is a compatibility
// contract and must not change.
type Meta struct {
	// Filename is the original (unsanitised) name the caller tracked.
	Filename string
	// Version is the 1-based revision number.
	Version uint32
	// OriginalSize is the size of the reference buffer the delta was built
	// against (0 for the first revision).
	OriginalSize uint32
	// DeltaSize counts the INSERT/REPLACE payload bytes of the delta.
	DeltaSize uint32
	// OperationCount is the number of operations in the sibling delta file.
	OperationCount uint32
	// Timestamp is the creation time, stored as seconds since the epoch.
	Timestamp time.Time
	// Checksum is the additive byte-sum of the reference buffer, 8 lowercase
	// hex digits. Advisory only.
	Checksum string
	// Message is the caller-supplied note for this revision (at most
	// maxMessageLen bytes; longer input is truncated at a rune boundary).
	Message string
}

// Fixed record layout, offsets in bytes:
//
//	  0  filename        256  null-padded
//	256  version           4  u32 LE
//	260  original_size     4  u32 LE
//	264  delta_size        4  u32 LE
//	268  operation_count   4  u32 LE
//	272  timestamp         8  i64 LE, seconds since epoch
//	280  checksum         64  ASCII hex, null-padded
//	344  message         256  null-padded
//
// The timestamp lands on its natural 8-byte alignment without padding, so
// the record is exactly metaRecordSize bytes.
const (
	metaRecordSize = 600

	filenameFieldLen = 256
	checksumFieldLen = 64
	messageFieldLen  = 256

	// Null-terminated fields keep one byte for the terminator.
	maxNameLen    = filenameFieldLen - 1
	maxMessageLen = messageFieldLen - 1
)

func (m *Meta) marshal() ([]byte, error) {
	if len(m.Filename) > maxNameLen {
		return nil, fmt.Errorf("%q: %w", m.Filename, ErrNameTooLong)
	}
	buf := make([]byte, metaRecordSize)
	copy(buf[0:], m.Filename)
	putU32(buf[256:], m.Version)
	putU32(buf[260:], m.OriginalSize)
	putU32(buf[264:], m.DeltaSize)
	putU32(buf[268:], m.OperationCount)
	putI64(buf[272:], m.Timestamp.Unix())
	copy(buf[280:], m.Checksum)
	copy(buf[344:], truncateMessage(m.Message))
	return buf, nil
}

func unmarshalMeta(buf []byte) (*Meta, error) {
	if len(buf) != metaRecordSize {
		return nil, fmt.Errorf("%d bytes, want %d: %w", len(buf), metaRecordSize, ErrMetaMalformed)
	}
	m := &Meta{
		Filename:       cString(buf[0:256]),
		Version:        getU32(buf[256:]),
		OriginalSize:   getU32(buf[260:]),
		DeltaSize:      getU32(buf[264:]),
		OperationCount: getU32(buf[268:]),
		Timestamp:      time.Unix(getI64(buf[272:]), 0),
		Checksum:       cString(buf[280:344]),
		Message:        cString(buf[344:600]),
	}
	if m.Version == 0 {
		return nil, fmt.Errorf("version 0: %w", ErrMetaMalformed)
	}
	return m, nil
}

// truncateMessage limits a message to maxMessageLen bytes without splitting
// a multi-byte rune.
func truncateMessage(s string) string {
	if len(s) <= maxMessageLen {
		return s
	}
	cut := maxMessageLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// cString reads a null-padded field up to the first NUL (or the field end).
func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

func putU32(b []byte, v uint32) { binary.LittleEndian.PutUint32(b, v) }
func getU32(b []byte) uint32    { return binary.LittleEndian.Uint32(b) }

func putI64(b []byte, v int64) { binary.LittleEndian.PutUint64(b, uint64(v)) }
func getI64(b []byte) int64    { return int64(binary.LittleEndian.Uint64(b)) }
