package delta

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyAcceptsReplace(t *testing.T) {
	// REPLACE is never emitted by the planner but must apply like INSERT.
	d := &Delta{
		OriginalSize: 5,
		NewSize:      8,
		DeltaSize:    3,
		Ops: []Op{
			{Type: OpCopy, RefOffset: 0, Length: 5},
			{Type: OpReplace, Length: 3, Data: []byte("xyz")},
		},
	}
	got, err := Apply(d, []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, []byte("helloxyz"), got)
}

func TestApplyEmptyDelta(t *testing.T) {
	got, err := Apply(&Delta{OriginalSize: 4}, []byte("refs"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestApplyCopyOutOfRange(t *testing.T) {
	d := &Delta{
		OriginalSize: 4,
		NewSize:      6,
		Ops:          []Op{{Type: OpCopy, RefOffset: 2, Length: 6}},
	}
	_, err := Apply(d, []byte("refs"))
	require.ErrorIs(t, err, ErrReferenceOutOfRange)
}

func TestApplyCopyAgainstAbsentReference(t *testing.T) {
	d := &Delta{
		NewSize: 3,
		Ops:     []Op{{Type: OpCopy, RefOffset: 0, Length: 3}},
	}
	_, err := Apply(d, nil)
	require.ErrorIs(t, err, ErrReferenceOutOfRange)
}

func TestApplyOutputOverflow(t *testing.T) {
	d := &Delta{
		OriginalSize: 8,
		NewSize:      4,
		Ops:          []Op{{Type: OpCopy, RefOffset: 0, Length: 8}},
	}
	_, err := Apply(d, []byte("refbytes"))
	require.ErrorIs(t, err, ErrOutputOverflow)
}

func TestApplyPayloadLengthMismatch(t *testing.T) {
	d := &Delta{
		NewSize:   5,
		DeltaSize: 5,
		Ops:       []Op{{Type: OpInsert, Length: 5, Data: []byte("ab")}},
	}
	_, err := Apply(d, nil)
	require.ErrorIs(t, err, ErrDeltaMalformed)
}

func TestApplyUndercoveredOutput(t *testing.T) {
	d := &Delta{
		NewSize:   9,
		DeltaSize: 4,
		Ops:       []Op{{Type: OpInsert, Length: 4, Data: []byte("abcd")}},
	}
	_, err := Apply(d, nil)
	require.ErrorIs(t, err, ErrDeltaMalformed)
}

// chainStore holds deltas for a synthetic revision chain keyed by version.
type chainStore map[int]*Delta

func (c chainStore) LoadDelta(name string, version int) (*Delta, error) {
	d, ok := c[version]
	if !ok {
		return nil, fmt.Errorf("no delta for version %d", version)
	}
	return d, nil
}

// buildChain records each revision as a delta against the previous one.
func buildChain(t *testing.T, revisions ...string) chainStore {
	t.Helper()
	c := chainStore{}
	var prev []byte
	for i, rev := range revisions {
		d, err := Build(prev, []byte(rev))
		require.NoError(t, err)
		c[i+1] = d
		prev = []byte(rev)
	}
	return c
}

func TestReconstructChain(t *testing.T) {
	revisions := []string{"v1", "v2", "v3"}
	c := buildChain(t, revisions...)

	for i, want := range revisions {
		got, err := Reconstruct(c, "file.txt", i+1)
		require.NoError(t, err)
		assert.Equal(t, []byte(want), got, "revision %d", i+1)
	}
}

func TestReconstructGrowingChain(t *testing.T) {
	revisions := []string{
		"line one\n",
		"line one\nline two\n",
		"line one\nline two\nline three\n",
		"line ONE\nline two\nline three\n",
	}
	c := buildChain(t, revisions...)
	got, err := Reconstruct(c, "notes.txt", len(revisions))
	require.NoError(t, err)
	assert.Equal(t, []byte(revisions[len(revisions)-1]), got)
}

func TestReconstructMissingRevision(t *testing.T) {
	c := buildChain(t, "v1", "v2")
	delete(c, 2)
	_, err := Reconstruct(c, "file.txt", 2)
	require.ErrorIs(t, err, ErrChainBroken)
}

func TestReconstructInvalidArguments(t *testing.T) {
	c := buildChain(t, "v1")

	_, err := Reconstruct(c, "file.txt", 0)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = Reconstruct(nil, "file.txt", 1)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestLoaderFunc(t *testing.T) {
	var gotName string
	loader := LoaderFunc(func(name string, version int) (*Delta, error) {
		gotName = name
		return Build(nil, []byte("content"))
	})
	out, err := Reconstruct(loader, "report.txt", 1)
	require.NoError(t, err)
	assert.Equal(t, "report.txt", gotName)
	assert.Equal(t, []byte("content"), out)
}

func TestApplyNilDelta(t *testing.T) {
	_, err := Apply(nil, nil)
	require.ErrorIs(t, err, ErrInvalidArgument)
}
