// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tomtom215/recipebox/internal/recipe"
)

const snapshotExt = ".snap.gz"

// Snapshot is the state written after a successful training run.
type Snapshot struct {
	Weights recipe.WeightVector
	Metrics recipe.ModelMetrics
}

// SnapshotMetadata describes a stored snapshot.
type SnapshotMetadata struct {
	UserID    string            `json:"user_id"`
	Signal    recipe.SignalType `json:"signal"`
	Version   int               `json:"version"`
	Method    string            `json:"method"`
	Samples   int               `json:"samples"`
	TrainedAt time.Time         `json:"trained_at"`
	SavedAt   time.Time         `json:"saved_at"`

	// Checksum is the SHA-256 of the uncompressed gob payload.
	Checksum  string `json:"checksum"`
	SizeBytes int64  `json:"size_bytes"`
}

// snapshotFile is the on-disk format.
type snapshotFile struct {
	Metadata       SnapshotMetadata
	CompressedData []byte
}

// SnapshotStore keeps versioned weight snapshots on disk, one file per
// (user, signal, version), named {signal}.{user}_v{version}.snap.gz.
type SnapshotStore struct {
	baseDir string
	keep    int

	mu       sync.RWMutex
	versions map[Key][]int // ascending
}

// NewSnapshotStore opens dir, creating it if needed. keep bounds the
// number of versions retained per (user, signal); 0 keeps everything.
func NewSnapshotStore(dir string, keep int) (*SnapshotStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil { //nolint:gosec // 0750 is acceptable for snapshot storage
		return nil, fmt.Errorf("create snapshot directory: %w", err)
	}
	s := &SnapshotStore{
		baseDir:  dir,
		keep:     keep,
		versions: make(map[Key][]int),
	}
	if err := s.scan(); err != nil {
		return nil, fmt.Errorf("scan snapshots: %w", err)
	}
	return s, nil
}

func (s *SnapshotStore) scan() error {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		k, v, ok := parseSnapshotFilename(entry.Name())
		if !ok {
			continue
		}
		s.versions[k] = append(s.versions[k], v)
	}
	for k := range s.versions {
		sort.Ints(s.versions[k])
	}
	return nil
}

// parseSnapshotFilename splits "like.alice_v3.snap.gz" into its key and
// version.
func parseSnapshotFilename(name string) (Key, int, bool) {
	if !strings.HasSuffix(name, snapshotExt) {
		return Key{}, 0, false
	}
	name = strings.TrimSuffix(name, snapshotExt)

	idx := strings.LastIndex(name, "_v")
	if idx <= 0 {
		return Key{}, 0, false
	}
	var version int
	if _, err := fmt.Sscanf(name[idx+2:], "%d", &version); err != nil || version <= 0 {
		return Key{}, 0, false
	}

	signal, user, ok := strings.Cut(name[:idx], ".")
	if !ok || user == "" || !recipe.SignalType(signal).Learned() {
		return Key{}, 0, false
	}
	return Key{UserID: user, Signal: recipe.SignalType(signal)}, version, true
}

func (s *SnapshotStore) path(k Key, version int) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("%s.%s_v%d%s", k.Signal, k.UserID, version, snapshotExt))
}

// Save writes snap as version snap.Metrics.Version. The file is written
// to a temporary name and renamed into place.
//
//nolint:gocritic // hugeParam: snapshot passed by value for this write operation
func (s *SnapshotStore) Save(ctx context.Context, snap Snapshot) (SnapshotMetadata, error) {
	m := snap.Metrics
	if !recipe.ValidID(m.UserID) || !m.Signal.Learned() || m.Version <= 0 {
		return SnapshotMetadata{}, fmt.Errorf("invalid snapshot key %s/%s v%d", m.UserID, m.Signal, m.Version)
	}
	if err := ctx.Err(); err != nil {
		return SnapshotMetadata{}, err
	}

	var raw bytes.Buffer
	if err := gob.NewEncoder(&raw).Encode(snap); err != nil {
		return SnapshotMetadata{}, fmt.Errorf("encode snapshot: %w", err)
	}
	hash := sha256.Sum256(raw.Bytes())

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(raw.Bytes()); err != nil {
		return SnapshotMetadata{}, fmt.Errorf("compress snapshot: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return SnapshotMetadata{}, fmt.Errorf("finalize compression: %w", err)
	}

	meta := SnapshotMetadata{
		UserID:    m.UserID,
		Signal:    m.Signal,
		Version:   m.Version,
		Method:    m.Method,
		Samples:   m.Samples,
		TrainedAt: m.TrainedAt,
		SavedAt:   time.Now().UTC(),
		Checksum:  hex.EncodeToString(hash[:]),
		SizeBytes: int64(compressed.Len()),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	k := Key{UserID: m.UserID, Signal: m.Signal}
	final := s.path(k, m.Version)

	tmp, err := os.CreateTemp(s.baseDir, ".snapshot-*")
	if err != nil {
		return SnapshotMetadata{}, fmt.Errorf("create snapshot file: %w", err)
	}
	tmpName := tmp.Name()
	encErr := gob.NewEncoder(tmp).Encode(snapshotFile{Metadata: meta, CompressedData: compressed.Bytes()})
	closeErr := tmp.Close()
	if encErr != nil || closeErr != nil {
		_ = os.Remove(tmpName) //nolint:errcheck // best-effort cleanup
		if encErr != nil {
			return SnapshotMetadata{}, fmt.Errorf("write snapshot file: %w", encErr)
		}
		return SnapshotMetadata{}, fmt.Errorf("close snapshot file: %w", closeErr)
	}
	if err := os.Rename(tmpName, final); err != nil {
		_ = os.Remove(tmpName) //nolint:errcheck // best-effort cleanup
		return SnapshotMetadata{}, fmt.Errorf("rename snapshot file: %w", err)
	}

	s.addVersion(k, m.Version)
	s.pruneLocked(k)
	return meta, nil
}

func (s *SnapshotStore) addVersion(k Key, v int) {
	vs := s.versions[k]
	for _, x := range vs {
		if x == v {
			return
		}
	}
	vs = append(vs, v)
	sort.Ints(vs)
	s.versions[k] = vs
}

// pruneLocked removes versions beyond the retention limit, oldest first.
func (s *SnapshotStore) pruneLocked(k Key) {
	vs := s.versions[k]
	if s.keep <= 0 || len(vs) <= s.keep {
		return
	}
	drop := vs[:len(vs)-s.keep]
	for _, v := range drop {
		_ = os.Remove(s.path(k, v)) //nolint:errcheck // best-effort cleanup of old versions
	}
	s.versions[k] = append([]int(nil), vs[len(vs)-s.keep:]...)
}

// Load reads a snapshot. Version 0 loads the latest.
func (s *SnapshotStore) Load(ctx context.Context, userID string, signal recipe.SignalType, version int) (Snapshot, SnapshotMetadata, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, SnapshotMetadata{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	k := Key{UserID: userID, Signal: signal}
	if version == 0 {
		vs := s.versions[k]
		if len(vs) == 0 {
			return Snapshot{}, SnapshotMetadata{}, ErrNotFound
		}
		version = vs[len(vs)-1]
	}

	sf, err := readSnapshotFile(s.path(k, version))
	if err != nil {
		return Snapshot{}, SnapshotMetadata{}, err
	}

	gzr, err := gzip.NewReader(bytes.NewReader(sf.CompressedData))
	if err != nil {
		return Snapshot{}, SnapshotMetadata{}, fmt.Errorf("decompress snapshot: %w", err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // error on gzip close after read is not actionable

	raw, err := io.ReadAll(gzr)
	if err != nil {
		return Snapshot{}, SnapshotMetadata{}, fmt.Errorf("read decompressed data: %w", err)
	}

	hash := sha256.Sum256(raw)
	if checksum := hex.EncodeToString(hash[:]); checksum != sf.Metadata.Checksum {
		return Snapshot{}, SnapshotMetadata{}, fmt.Errorf("checksum mismatch: expected %s, got %s", sf.Metadata.Checksum, checksum)
	}

	var snap Snapshot
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&snap); err != nil {
		return Snapshot{}, SnapshotMetadata{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, sf.Metadata, nil
}

func readSnapshotFile(path string) (*snapshotFile, error) {
	f, err := os.Open(path) //nolint:gosec // path is built from validated IDs
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open snapshot file: %w", err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // error on close after read is not actionable

	var sf snapshotFile
	if err := gob.NewDecoder(f).Decode(&sf); err != nil {
		return nil, fmt.Errorf("read snapshot file: %w", err)
	}
	return &sf, nil
}

// Versions lists retained versions for a (user, signal), ascending.
func (s *SnapshotStore) Versions(userID string, signal recipe.SignalType) []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]int(nil), s.versions[Key{UserID: userID, Signal: signal}]...)
}

// List returns metadata for the latest snapshot of every (user, signal).
func (s *SnapshotStore) List(ctx context.Context) ([]SnapshotMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]Key, 0, len(s.versions))
	for k, vs := range s.versions {
		if len(vs) > 0 {
			keys = append(keys, k)
		}
	}
	SortKeys(keys)

	out := make([]SnapshotMetadata, 0, len(keys))
	for _, k := range keys {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		vs := s.versions[k]
		sf, err := readSnapshotFile(s.path(k, vs[len(vs)-1]))
		if err != nil {
			continue
		}
		out = append(out, sf.Metadata)
	}
	return out, nil
}

// Delete removes one version.
func (s *SnapshotStore) Delete(_ context.Context, userID string, signal recipe.SignalType, version int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := Key{UserID: userID, Signal: signal}
	if err := os.Remove(s.path(k, version)); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("delete snapshot: %w", err)
	}

	vs := s.versions[k]
	kept := vs[:0]
	for _, v := range vs {
		if v != version {
			kept = append(kept, v)
		}
	}
	if len(kept) == 0 {
		delete(s.versions, k)
	} else {
		s.versions[k] = kept
	}
	return nil
}
