// Package facestore holds enrolled faces and answers duplicate and nearest-match
// queries with a linear scan.
package facestore

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"math"
	"os"
	"slices"
	"sync"

	"github.com/coder/hnsw"
	"github.com/google/renameio"
)

// Store is an ordered, unindexed collection of enrolled faces backed by a file.
// An empty path keeps the store in memory only.
type Store struct {
	mu        sync.RWMutex
	path      string
	threshold float64
	dim       int // 0 means inferred from the first record
	records   []Record
}

// New creates an empty store.
func New(path string, threshold float64, dim int) *Store {
	return &Store{
		path:      path,
		threshold: threshold,
		dim:       dim,
	}
}

// Load reads the store from path. A missing file yields an empty store.
func Load(path string, threshold float64, dim int) (*Store, error) {
	s := New(path, threshold, dim)
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is from trusted config
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read face database: %w", err)
	}

	records, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode face database %s: %w", path, err)
	}
	s.records = records
	if s.dim == 0 && len(records) > 0 {
		s.dim = len(records[0].Encoding)
	}
	return s, nil
}

// Distance is the Euclidean distance between two encodings.
// Encodings of different length are infinitely far apart.
func Distance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return math.Inf(1)
	}
	return float64(hnsw.EuclideanDistance(a, b))
}

// Threshold returns the store's configured match threshold.
func (s *Store) Threshold() float64 {
	return s.threshold
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Len returns the number of enrolled faces.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Records returns a copy of all records in enrollment order.
func (s *Store) Records() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.records)
}

// IsDuplicate reports whether any stored encoding lies within threshold of encoding.
func (s *Store) IsDuplicate(encoding []float32, threshold float64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isDuplicateLocked(encoding, threshold)
}

func (s *Store) isDuplicateLocked(encoding []float32, threshold float64) bool {
	for i := range s.records {
		if Distance(s.records[i].Encoding, encoding) <= threshold {
			return true
		}
	}
	return false
}

// BestMatch returns the closest stored face if its distance is within threshold.
// Ties resolve to the lowest index.
func (s *Store) BestMatch(encoding []float32, threshold float64) (Match, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	best := Match{Index: -1, Distance: math.Inf(1)}
	for i := range s.records {
		d := Distance(s.records[i].Encoding, encoding)
		if d < best.Distance {
			best = Match{Index: i, PersonID: s.records[i].PersonID, Distance: d}
		}
	}

	if best.Index < 0 || best.Distance > threshold {
		return best, false
	}
	return best, true
}

// Register appends a new face and persists the store. The encoding is rejected
// if it is within the store threshold of an existing face.
func (s *Store) Register(personID string, encoding []float32) error {
	if personID == "" {
		return ErrEmptyPersonID
	}
	if len(encoding) == 0 {
		return ErrEmptyEncoding
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dim := s.dim
	if dim == 0 && len(s.records) > 0 {
		dim = len(s.records[0].Encoding)
	}
	if dim != 0 && len(encoding) != dim {
		return fmt.Errorf("%w: expected %d, got %d", ErrDimensionMismatch, dim, len(encoding))
	}

	if s.isDuplicateLocked(encoding, s.threshold) {
		return ErrDuplicate
	}

	next := append(slices.Clone(s.records), Record{
		PersonID: personID,
		Encoding: slices.Clone(encoding),
	})
	if err := s.persist(next); err != nil {
		return err
	}
	s.records = next
	if s.dim == 0 {
		s.dim = len(encoding)
	}
	return nil
}

// Delete removes the record at index and persists the store.
func (s *Store) Delete(index int) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteLocked(index)
}

// DeleteByID removes the first record labelled personID.
func (s *Store) DeleteByID(personID string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := slices.IndexFunc(s.records, func(r Record) bool { return r.PersonID == personID })
	if index < 0 {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, personID)
	}
	return s.deleteLocked(index)
}

func (s *Store) deleteLocked(index int) (Record, error) {
	if index < 0 || index >= len(s.records) {
		return Record{}, fmt.Errorf("%w: %d (store has %d faces)", ErrIndexOutOfRange, index, len(s.records))
	}

	removed := s.records[index]
	next := slices.Delete(slices.Clone(s.records), index, index+1)
	if err := s.persist(next); err != nil {
		return Record{}, err
	}
	s.records = next
	return removed, nil
}

// Save writes the current records to disk.
func (s *Store) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.persist(s.records)
}

// persist writes records atomically. Callers hold the lock.
func (s *Store) persist(records []Record) error {
	if s.path == "" {
		return nil
	}

	data, err := encode(records)
	if err != nil {
		return err
	}
	if err := renameio.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write face database: %w", err)
	}
	return nil
}

func encode(records []Record) ([]byte, error) {
	ff := fileFormat{
		Version:   currentFileVersion,
		PersonIDs: make([]string, len(records)),
		Encodings: make([][]float32, len(records)),
	}
	for i, r := range records {
		ff.PersonIDs[i] = r.PersonID
		ff.Encodings[i] = r.Encoding
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(ff); err != nil {
		return nil, fmt.Errorf("failed to encode faces: %w", err)
	}
	return buf.Bytes(), nil
}

func decode(data []byte) ([]Record, error) {
	var ff fileFormat
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&ff); err != nil {
		return nil, err
	}
	if ff.Version > currentFileVersion {
		return nil, fmt.Errorf("unsupported version %d", ff.Version)
	}
	if len(ff.PersonIDs) != len(ff.Encodings) {
		return nil, fmt.Errorf("corrupt container: %d labels, %d encodings", len(ff.PersonIDs), len(ff.Encodings))
	}

	records := make([]Record, len(ff.PersonIDs))
	for i := range ff.PersonIDs {
		records[i] = Record{PersonID: ff.PersonIDs[i], Encoding: ff.Encodings[i]}
	}
	return records, nil
}
