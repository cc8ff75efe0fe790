package delta

import "encoding/binary"

// commonAffix returns the lengths of the longest common prefix and suffix of
// ref and new. The prefix is grown first; the suffix scan stops before it
// would overlap the prefix in either buffer, so p+s never exceeds the shorter
// buffer.
func commonAffix(ref, new []byte) (p, s int) {
	limit := len(ref)
	if len(new) < limit {
		limit = len(new)
	}
	for p < limit && ref[p] == new[p] {
		p++
	}
	for s < limit-p && ref[len(ref)-1-s] == new[len(new)-1-s] {
		s++
	}
	return p, s
}

// matcher parameters. Zero values are replaced by the defaults below.
type matchParams struct {
	window        int
	minMatch      int
	minBeneficial int
	buckets       int
}

const (
	defaultWindow   = 32
	defaultMinMatch = 32

	// A COPY costs ~12 bytes of on-disk header, so a shorter match saves
	// nothing. The threshold rises with buffer size to keep op counts sane.
	minBeneficialDefault = 12
	minBeneficialLarge   = 16
	minBeneficialHuge    = 32

	largeBufferSize = 10 << 20
	hugeBufferSize  = 50 << 20

	// maxMatchLen caps a single match extension.
	maxMatchLen = 1 << 20

	// maxCandidates bounds how many chain entries one probe inspects.
	maxCandidates = 20

	// Fallback rescan trigger: a finished cover with fewer matches than this
	// over a buffer larger than fallbackMinSize is considered sparse.
	fallbackMatchCount = 10
	fallbackMinSize    = 1 << 20
)

func (p matchParams) withDefaults(newSize int) matchParams {
	if p.window <= 0 {
		p.window = defaultWindow
	}
	if p.minMatch <= 0 {
		p.minMatch = defaultMinMatch
	}
	if p.buckets <= 0 {
		p.buckets = defaultBuckets
	}
	if p.minBeneficial <= 0 {
		p.minBeneficial = minBeneficialDefault
		switch {
		case newSize > hugeBufferSize:
			p.minBeneficial = minBeneficialHuge
		case newSize > largeBufferSize:
			p.minBeneficial = minBeneficialLarge
		}
	}
	return p
}

// buildIndex hashes every window-sized region of ref and records its offset.
func buildIndex(ref []byte, window, buckets int) *chainIndex {
	ix := newChainIndex(buckets)
	if len(ref) < window {
		return ix
	}
	rh := newRollingHash(window)
	for i := 0; i < len(ref); i++ {
		rh.update(ref[i])
		if i >= window-1 {
			ix.insert(rh.digest(), uint32(i-window+1))
		}
	}
	return ix
}

// findMatches produces a greedy left-to-right cover of new by matches in ref.
// The returned matches are non-overlapping and in ascending new-buffer order.
//
// One rolling hash slides over new; every candidate offset sharing the
// current hash is extended by direct byte comparison and the longest
// extension wins. The hash is weak by design: a colliding candidate whose
// bytes differ inside the window simply fails to extend past minMatch and is
// rejected by the length check.
func findMatches(ref, new []byte, ix *chainIndex, p matchParams) []match {
	matches := findMatchesPass(ref, new, ix, p)

	// A sparse cover over a large buffer usually means the beneficiality
	// threshold rejected clusters of short matches. One stricter pass can
	// produce a better cover; keep it only if it actually finds more.
	if len(matches) < fallbackMatchCount && len(new) > fallbackMinSize &&
		p.minBeneficial != minBeneficialHuge {
		strict := p
		strict.minBeneficial = minBeneficialHuge
		if again := findMatchesPass(ref, new, ix, strict); len(again) > len(matches) {
			matches = again
		}
	}
	return matches
}

func findMatchesPass(ref, new []byte, ix *chainIndex, p matchParams) []match {
	if len(new) < p.window || ix.count() == 0 {
		return nil
	}

	var matches []match
	rh := newRollingHash(p.window)
	for i := 0; i < p.window-1; i++ {
		rh.update(new[i])
	}

	lastMatchEnd := 0
	for i := 0; i+p.window <= len(new); i++ {
		rh.update(new[i+p.window-1])
		if i < lastMatchEnd {
			continue
		}

		length, refOff := probeChain(ref, new, ix, rh.digest(), i)
		if length >= p.minMatch && length >= p.minBeneficial {
			matches = append(matches, match{refOffset: refOff, newOffset: i, length: length})
			lastMatchEnd = i + length
		}
	}
	return matches
}

// probeChain walks the hash chain for the window at new[i:] and returns the
// longest byte-validated extension among the first maxCandidates entries,
// together with the reference offset of the winning candidate.
func probeChain(ref, new []byte, ix *chainIndex, hash uint32, i int) (length, refOff int) {
	seen := 0
	for e := ix.find(hash); e != noEntry && seen < maxCandidates; seen++ {
		entry := ix.at(e)
		e = entry.next
		if entry.hash != hash {
			continue
		}
		if l := extendMatch(ref, new, int(entry.offset), i); l > length {
			length, refOff = l, int(entry.offset)
		}
	}
	return length, refOff
}

// extendMatch grows a match anchored at ref[o:] / new[i:] while the bytes
// agree, comparing 8 bytes at a time, then 4, then 1, capped at maxMatchLen.
func extendMatch(ref, new []byte, o, i int) int {
	max := len(new) - i
	if r := len(ref) - o; r < max {
		max = r
	}
	if max > maxMatchLen {
		max = maxMatchLen
	}

	l := 0
	for l+8 <= max && binary.LittleEndian.Uint64(ref[o+l:]) == binary.LittleEndian.Uint64(new[i+l:]) {
		l += 8
	}
	for l+4 <= max && binary.LittleEndian.Uint32(ref[o+l:]) == binary.LittleEndian.Uint32(new[i+l:]) {
		l += 4
	}
	for l < max && ref[o+l] == new[i+l] {
		l++
	}
	return l
}
