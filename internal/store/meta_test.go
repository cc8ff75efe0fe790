package store

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetaRoundTrip(t *testing.T) {
	in := &Meta{
		Filename:       "reports/q3.pdf",
		Version:        7,
		OriginalSize:   1024,
		DeltaSize:      88,
		OperationCount: 3,
		Timestamp:      time.Unix(1754400000, 0),
		Checksum:       "0007a1ff",
		Message:        "quarterly numbers",
	}
	buf, err := in.marshal()
	require.NoError(t, err)
	require.Len(t, buf, metaRecordSize)

	out, err := unmarshalMeta(buf)
	require.NoError(t, err)
	assert.Equal(t, in.Filename, out.Filename)
	assert.Equal(t, in.Version, out.Version)
	assert.Equal(t, in.OriginalSize, out.OriginalSize)
	assert.Equal(t, in.DeltaSize, out.DeltaSize)
	assert.Equal(t, in.OperationCount, out.OperationCount)
	assert.True(t, in.Timestamp.Equal(out.Timestamp))
	assert.Equal(t, in.Checksum, out.Checksum)
	assert.Equal(t, in.Message, out.Message)
}

// The record layout is an external contract: spot-check the field offsets.
func TestMetaFixedOffsets(t *testing.T) {
	m := &Meta{
		Filename:  "a",
		Version:   0x01020304,
		Timestamp: time.Unix(0x1122334455, 0),
		Checksum:  "cafe",
	}
	buf, err := m.marshal()
	require.NoError(t, err)

	assert.Equal(t, byte('a'), buf[0])
	assert.Equal(t, byte(0), buf[1], "filename is null-padded")
	assert.Equal(t, []byte{0x04, 0x03, 0x02, 0x01}, buf[256:260], "version is u32 LE at 256")
	assert.Equal(t, []byte{0x55, 0x44, 0x33, 0x22, 0x11, 0, 0, 0}, buf[272:280], "timestamp is i64 LE at 272")
	assert.Equal(t, byte('c'), buf[280], "checksum starts at 280")
	assert.Equal(t, byte(0), buf[599], "record ends null-padded at 600 bytes")
}

func TestMetaNameTooLong(t *testing.T) {
	m := &Meta{Filename: strings.Repeat("x", maxNameLen+1), Version: 1}
	_, err := m.marshal()
	require.ErrorIs(t, err, ErrNameTooLong)
}

func TestMetaMessageTruncatedAtRuneBoundary(t *testing.T) {
	// 127 two-byte runes = 254 bytes; one more would split at 255.
	msg := strings.Repeat("é", 200)
	m := &Meta{Filename: "f", Version: 1, Message: msg}
	buf, err := m.marshal()
	require.NoError(t, err)

	out, err := unmarshalMeta(buf)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(out.Message), maxMessageLen)
	assert.True(t, strings.HasPrefix(msg, out.Message))
	// No broken rune at the cut.
	assert.NotContains(t, out.Message, "�")
	assert.Equal(t, 254, len(out.Message))
}

func TestUnmarshalMetaRejectsBadRecords(t *testing.T) {
	_, err := unmarshalMeta(make([]byte, metaRecordSize-1))
	require.ErrorIs(t, err, ErrMetaMalformed)

	// A zeroed record decodes to version 0, which is invalid.
	_, err = unmarshalMeta(make([]byte, metaRecordSize))
	require.ErrorIs(t, err, ErrMetaMalformed)
}
