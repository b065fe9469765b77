package facestore

import (
	"errors"
	"strings"
)

var (
	// ErrDuplicate is returned when an encoding lies within threshold of an enrolled face.
	ErrDuplicate = errors.New("face already registered")
	// ErrIndexOutOfRange is returned by Delete for a position outside the store.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrNotFound is returned by DeleteByID for an unknown person_id.
	ErrNotFound = errors.New("person not found")
	// ErrEmptyPersonID is returned when registering without a label.
	ErrEmptyPersonID = errors.New("person_id is required")
	// ErrEmptyEncoding is returned when registering an empty vector.
	ErrEmptyEncoding = errors.New("encoding is empty")
	// ErrDimensionMismatch is returned when an encoding length differs from the store's.
	ErrDimensionMismatch = errors.New("encoding dimension mismatch")
)

// Record is a single enrolled face.
type Record struct {
	PersonID string    `json:"person_id"`
	Encoding []float32 `json:"encoding"`
}

// Name returns the name part of the person_id.
func (r Record) Name() string {
	name, _, _ := SplitPersonID(r.PersonID)
	return name
}

// RegNumber returns the registration number part of the person_id.
func (r Record) RegNumber() string {
	_, reg, _ := SplitPersonID(r.PersonID)
	return reg
}

// Match is the result of a nearest-neighbor query.
type Match struct {
	Index    int     `json:"index"`
	PersonID string  `json:"person_id"`
	Distance float64 `json:"distance"`
}

// personIDSeparator joins name and registration number.
const personIDSeparator = "_"

// PersonID builds the "name_regnumber" composite label.
func PersonID(name, regNumber string) string {
	return name + personIDSeparator + regNumber
}

// SplitPersonID splits a label at its last separator, so names may contain
// underscores while registration numbers may not.
func SplitPersonID(personID string) (name, regNumber string, ok bool) {
	i := strings.LastIndex(personID, personIDSeparator)
	if i < 0 {
		return personID, "", false
	}
	return personID[:i], personID[i+len(personIDSeparator):], true
}

// fileFormat is the persisted container: two co-indexed sequences.
type fileFormat struct {
	Version   int
	PersonIDs []string
	Encodings [][]float32
}

const currentFileVersion = 1
