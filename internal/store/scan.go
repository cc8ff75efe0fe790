package store

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// sanitizeName maps a tracked name to its on-disk stem. Exactly three
// characters are transformed: path separators and the drive colon become
// underscores. Everything else passes through, so distinct names can collide
// on disk ("a/b" and "a_b"); the original name inside the metadata record is
// authoritative.
func sanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':':
			return '_'
		}
		return r
	}, name)
}

// Versions returns the sorted version numbers recorded for name, derived
// from the metadata files in the storage directory. The returned range is
// validated to be contiguous starting at 1; a hole means a revision was
// removed out-of-band and the chain beyond it is unusable.
func (s *Store) Versions(name string) ([]int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("scan storage directory: %w", err)
	}

	prefix := sanitizeName(name) + "_v"
	var versions []int
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		n := e.Name()
		if !strings.HasPrefix(n, prefix) || !strings.HasSuffix(n, metaSuffix) {
			continue
		}
		v, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(n, prefix), metaSuffix))
		if err != nil || v < 1 {
			// Not one of ours: a name like "report_vFinal.meta" or a stray
			// file that happens to share the prefix.
			continue
		}
		versions = append(versions, v)
	}
	sort.Ints(versions)

	for i, v := range versions {
		if v != i+1 {
			return nil, fmt.Errorf("%s: version %d missing (have %v)", name, i+1, versions)
		}
	}
	return versions, nil
}

// Latest returns the newest version number for name, or (0, false) when the
// name has never been tracked.
func (s *Store) Latest(name string) (int, bool, error) {
	versions, err := s.Versions(name)
	if err != nil {
		return 0, false, err
	}
	if len(versions) == 0 {
		return 0, false, nil
	}
	return versions[len(versions)-1], true, nil
}

// Summary aggregates the versions of one tracked name for listings.
type Summary struct {
	Name            string    `json:"name"`
	Versions        int       `json:"versions"`
	LastTracked     time.Time `json:"lastTracked"`
	TotalDeltaBytes uint64    `json:"totalDeltaBytes"`
	LastMessage     string    `json:"lastMessage,omitempty"`
}

// Summaries scans every metadata record in the store and groups them by the
// original filename recorded inside (not the sanitised stem, which is
// lossy). Results are sorted by name.
func (s *Store) Summaries() ([]Summary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("scan storage directory: %w", err)
	}

	byName := make(map[string]*Summary)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), metaSuffix) {
			continue
		}
		buf, err := os.ReadFile(s.join(e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		m, err := unmarshalMeta(buf)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name(), err)
		}

		sum := byName[m.Filename]
		if sum == nil {
			sum = &Summary{Name: m.Filename}
			byName[m.Filename] = sum
		}
		sum.Versions++
		sum.TotalDeltaBytes += uint64(m.DeltaSize)
		if m.Timestamp.After(sum.LastTracked) {
			sum.LastTracked = m.Timestamp
			sum.LastMessage = m.Message
		}
	}

	out := make([]Summary, 0, len(byName))
	for _, sum := range byName {
		out = append(out, *sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
