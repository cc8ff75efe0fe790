package delta

// chainIndex maps window hashes to the reference offsets where they occur.
// The same hash may be inserted many times; all entries survive. Entries live
// in a single arena slice and buckets chain through int32 arena indices, so
// the whole structure is two slices with no per-entry allocation (the arena
// grows by append as entries are inserted).
//
// The index is built once per delta construction and discarded with it.
type chainIndex struct {
	buckets []int32
	entries []indexEntry
}

type indexEntry struct {
	hash   uint32
	offset uint32
	next   int32
}

const noEntry int32 = -1

// defaultBuckets is the bucket count used when the caller does not tune it.
const defaultBuckets = 65536

func newChainIndex(buckets int) *chainIndex {
	if buckets <= 0 {
		buckets = defaultBuckets
	}
	ix := &chainIndex{buckets: make([]int32, buckets)}
	for i := range ix.buckets {
		ix.buckets[i] = noEntry
	}
	return ix
}

// insert records offset under hash. New entries go to the head of the chain,
// so probes see the most recently indexed offsets first.
func (ix *chainIndex) insert(hash, offset uint32) {
	b := hash % uint32(len(ix.buckets))
	ix.entries = append(ix.entries, indexEntry{hash: hash, offset: offset, next: ix.buckets[b]})
	ix.buckets[b] = int32(len(ix.entries) - 1)
}

// find returns the head of the chain for hash, or noEntry. Chains hold every
// hash that collides modulo the bucket count; callers walking a chain must
// filter by exact hash equality at each link.
func (ix *chainIndex) find(hash uint32) int32 {
	return ix.buckets[hash%uint32(len(ix.buckets))]
}

// at returns the entry stored at arena index i.
func (ix *chainIndex) at(i int32) indexEntry { return ix.entries[i] }

// count reports the number of entries inserted so far.
func (ix *chainIndex) count() int { return len(ix.entries) }
