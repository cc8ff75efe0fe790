package delta

import "testing"

func TestChainIndexKeepsDuplicateKeys(t *testing.T) {
	ix := newChainIndex(64)
	ix.insert(7, 10)
	ix.insert(7, 20)
	ix.insert(7, 30)

	var offsets []uint32
	for e := ix.find(7); e != noEntry; {
		entry := ix.at(e)
		e = entry.next
		if entry.hash == 7 {
			offsets = append(offsets, entry.offset)
		}
	}
	if len(offsets) != 3 {
		t.Fatalf("want 3 entries for hash 7, got %v", offsets)
	}
	// Head insertion: most recent first.
	if offsets[0] != 30 || offsets[2] != 10 {
		t.Fatalf("unexpected chain order: %v", offsets)
	}
}

func TestChainIndexCollidingHashesShareBucket(t *testing.T) {
	ix := newChainIndex(64)
	ix.insert(5, 100)
	ix.insert(5+64, 200) // same bucket, different hash

	seen := map[uint32]uint32{}
	for e := ix.find(5); e != noEntry; {
		entry := ix.at(e)
		e = entry.next
		seen[entry.hash] = entry.offset
	}
	if len(seen) != 2 {
		t.Fatalf("expected both colliding hashes in one chain, got %v", seen)
	}
	// Walkers filter by exact hash, so the collision is harmless.
	if seen[5] != 100 || seen[5+64] != 200 {
		t.Fatalf("wrong offsets in chain: %v", seen)
	}
}

func TestChainIndexCount(t *testing.T) {
	ix := newChainIndex(0) // default bucket count
	if ix.count() != 0 {
		t.Fatalf("fresh index reports %d entries", ix.count())
	}
	for i := 0; i < 10; i++ {
		ix.insert(uint32(i), uint32(i))
	}
	if ix.count() != 10 {
		t.Fatalf("want 10 entries, got %d", ix.count())
	}
}
