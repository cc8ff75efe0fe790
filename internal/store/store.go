// Package store persists delta-compressed file revisions in a single flat
// directory. Each revision is a pair of files: <name>_v<N>.delta holding the
// raw operation stream and <name>_v<N>.meta holding a fixed 600-byte
// metadata record. Revision 1 is a delta against an empty reference, so the
// chain is self-contained: any revision is reconstructed by replaying deltas
// 1..N.
//
// Writes are atomic per file (temp file + rename) and ordered delta-first,
// so a metadata record never points at a missing operation stream. The store
// offers no cross-file transaction and no writer serialisation; callers that
// track the same name concurrently must coordinate externally.
package store

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"fiver/internal/delta"
)

const (
	deltaSuffix = ".delta"
	metaSuffix  = ".meta"

	// DefaultMaxVersions caps how many revisions one name may accumulate.
	DefaultMaxVersions = 100
)

// Options tunes a Store. Zero values select defaults.
type Options struct {
	// MaxVersions caps revisions per name (DefaultMaxVersions when 0).
	MaxVersions int
	// Params tunes the delta engine for Track.
	Params delta.Params
	// Now supplies timestamps; defaults to time.Now. Tests pin it.
	Now func() time.Time
}

// Store is a handle on one storage directory.
type Store struct {
	dir         string
	maxVersions int
	params      delta.Params
	now         func() time.Time
}

// Open ensures dir exists and returns a Store over it.
func Open(dir string, opts Options) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty storage directory", delta.ErrInvalidArgument)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	s := &Store{
		dir:         dir,
		maxVersions: opts.MaxVersions,
		params:      opts.Params,
		now:         opts.Now,
	}
	if s.maxVersions <= 0 {
		s.maxVersions = DefaultMaxVersions
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

// Dir returns the storage directory path.
func (s *Store) Dir() string { return s.dir }

func (s *Store) join(name string) string { return filepath.Join(s.dir, name) }

func (s *Store) deltaPath(name string, version int) string {
	return s.join(fmt.Sprintf("%s_v%d%s", sanitizeName(name), version, deltaSuffix))
}

func (s *Store) metaPath(name string, version int) string {
	return s.join(fmt.Sprintf("%s_v%d%s", sanitizeName(name), version, metaSuffix))
}

// LoadMeta reads and decodes the metadata record for one revision.
func (s *Store) LoadMeta(name string, version int) (*Meta, error) {
	buf, err := os.ReadFile(s.metaPath(name, version))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s version %d: %w", name, version, ErrVersionNotFound)
		}
		return nil, fmt.Errorf("read metadata for %s version %d: %w", name, version, err)
	}
	m, err := unmarshalMeta(buf)
	if err != nil {
		return nil, fmt.Errorf("%s version %d: %w", name, version, err)
	}
	return m, nil
}

// LoadDelta reads and decodes the operation stream for one revision. It
// satisfies delta.Loader, so a Store can be handed directly to
// delta.Reconstruct.
func (s *Store) LoadDelta(name string, version int) (*delta.Delta, error) {
	m, err := s.LoadMeta(name, version)
	if err != nil {
		return nil, err
	}
	return s.loadOps(name, version, m)
}

// loadOps reads and decodes the operation stream described by m.
func (s *Store) loadOps(name string, version int, m *Meta) (*delta.Delta, error) {
	buf, err := os.ReadFile(s.deltaPath(name, version))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s version %d: delta file: %w", name, version, ErrVersionNotFound)
		}
		return nil, fmt.Errorf("read delta for %s version %d: %w", name, version, err)
	}
	d, err := decodeDelta(buf, m)
	if err != nil {
		return nil, fmt.Errorf("%s version %d: %w", name, version, err)
	}
	return d, nil
}

// Reconstruct rebuilds the bytes of revision target by replaying the delta
// chain from revision 1. Each step cross-checks the advisory checksum the
// metadata recorded for its reference buffer; a mismatch is logged and
// reconstruction continues.
func (s *Store) Reconstruct(name string, target int) ([]byte, error) {
	if target < 1 {
		return nil, fmt.Errorf("%w: version %d", delta.ErrInvalidArgument, target)
	}

	var current []byte
	for v := 1; v <= target; v++ {
		m, err := s.LoadMeta(name, v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", delta.ErrChainBroken, err)
		}
		d, err := s.loadOps(name, v, m)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", delta.ErrChainBroken, err)
		}
		if got := Checksum(current); got != m.Checksum {
			slog.Warn("reference checksum mismatch",
				"file", name, "version", v, "stored", m.Checksum, "computed", got)
		}
		next, err := delta.Apply(d, current)
		if err != nil {
			return nil, fmt.Errorf("apply %s version %d: %w", name, v, err)
		}
		current = next
	}
	return current, nil
}

// Track records data as the next revision of name and returns its metadata.
// The previous revision is reconstructed from the chain, a delta is built
// against it, and the pair of files is written delta-first. On a metadata
// write failure the delta file is removed so no half-revision survives.
func (s *Store) Track(name string, data []byte, message string) (*Meta, error) {
	if len(name) > maxNameLen {
		return nil, fmt.Errorf("%q: %w", name, ErrNameTooLong)
	}

	versions, err := s.Versions(name)
	if err != nil {
		return nil, err
	}
	if len(versions) >= s.maxVersions {
		return nil, fmt.Errorf("%s has %d versions: %w", name, len(versions), ErrMaxVersions)
	}

	var ref []byte
	latest := len(versions)
	if latest > 0 {
		if ref, err = s.Reconstruct(name, latest); err != nil {
			return nil, fmt.Errorf("reconstruct previous revision: %w", err)
		}
	}

	d, err := delta.BuildWith(ref, data, s.params)
	if err != nil {
		return nil, fmt.Errorf("build delta for %s: %w", name, err)
	}

	m := &Meta{
		Filename:       name,
		Version:        uint32(latest + 1),
		OriginalSize:   d.OriginalSize,
		DeltaSize:      d.DeltaSize,
		OperationCount: uint32(d.OperationCount()),
		Timestamp:      s.now(),
		Checksum:       Checksum(ref),
		Message:        truncateMessage(message),
	}

	deltaPath := s.deltaPath(name, latest+1)
	if err := writeFileAtomic(deltaPath, encodeDelta(d)); err != nil {
		return nil, fmt.Errorf("write delta for %s version %d: %w", name, latest+1, err)
	}
	metaBuf, err := m.marshal()
	if err != nil {
		_ = os.Remove(deltaPath)
		return nil, err
	}
	if err := writeFileAtomic(s.metaPath(name, latest+1), metaBuf); err != nil {
		_ = os.Remove(deltaPath)
		return nil, fmt.Errorf("write metadata for %s version %d: %w", name, latest+1, err)
	}

	slog.Debug("tracked revision",
		"file", name, "version", m.Version, "ops", m.OperationCount, "delta_bytes", m.DeltaSize)
	return m, nil
}

// DeleteVersion removes the delta and metadata files of one revision. Both
// removals are attempted even if the first fails. Deleting any revision but
// the newest breaks the chain for everything after it; the caller is trusted
// to know that.
func (s *Store) DeleteVersion(name string, version int) error {
	if version < 1 {
		return fmt.Errorf("%w: version %d", delta.ErrInvalidArgument, version)
	}
	deltaErr := os.Remove(s.deltaPath(name, version))
	metaErr := os.Remove(s.metaPath(name, version))
	if errors.Is(deltaErr, os.ErrNotExist) && errors.Is(metaErr, os.ErrNotExist) {
		return fmt.Errorf("%s version %d: %w", name, version, ErrVersionNotFound)
	}
	if deltaErr != nil && !errors.Is(deltaErr, os.ErrNotExist) {
		return deltaErr
	}
	if metaErr != nil && !errors.Is(metaErr, os.ErrNotExist) {
		return metaErr
	}
	return nil
}

// writeFileAtomic writes data to a temporary file in the target directory,
// syncs it, then renames it into place so readers never observe a partial
// file.
func writeFileAtomic(path string, data []byte) error {
	dir, base := filepath.Split(path)
	f, err := os.CreateTemp(dir, ".tmp-"+base+"-")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
