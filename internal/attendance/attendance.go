// Package attendance keeps the append-only attendance log with a per-day
// duplicate guard. The log is a CSV file read and rewritten in full on every change.
package attendance

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/google/renameio"
	"golang.org/x/text/unicode/norm"
)

const (
	// DateLayout is the on-disk date format (YYYY-MM-DD).
	DateLayout = "2006-01-02"
	// TimeLayout is the on-disk time-of-day format (HH:MM:SS).
	TimeLayout = "15:04:05"
)

var (
	// ErrAlreadyMarked is returned by Mark when the person is already present today.
	ErrAlreadyMarked = errors.New("attendance already marked today")
	// ErrNoRecords is returned when the attendance file does not exist.
	ErrNoRecords = errors.New("no attendance records")
)

// Header is the column row of the attendance file.
var Header = []string{"Name", "RegNumber", "Date", "Time"}

// Row is one mark-attendance event.
type Row struct {
	Name      string `json:"name"`
	RegNumber string `json:"reg_number"`
	Date      string `json:"date"`
	Time      string `json:"time"`
}

func (r Row) record() []string {
	return []string{r.Name, r.RegNumber, r.Date, r.Time}
}

// Log is the attendance file.
type Log struct {
	mu   sync.Mutex
	path string
}

// New returns a log backed by path. The file is created on first Append.
func New(path string) *Log {
	return &Log{path: path}
}

// Path returns the backing file path.
func (l *Log) Path() string {
	return l.path
}

// Exists reports whether the attendance file is present.
func (l *Log) Exists() bool {
	_, err := os.Stat(l.path)
	return err == nil
}

// Rows returns every row in file order. A missing file yields no rows.
func (l *Log) Rows() ([]Row, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.readLocked()
}

// AlreadyMarked reports whether (name, regNumber) has a row on date's calendar day.
func (l *Log) AlreadyMarked(name, regNumber string, date time.Time) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rows, err := l.readLocked()
	if err != nil {
		return false, err
	}
	return containsMark(rows, name, regNumber, date.Format(DateLayout)), nil
}

// Append adds a row for the given moment. The per-day guard is the caller's job;
// use Mark for a checked append.
func (l *Log) Append(name, regNumber string, at time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	rows, err := l.readLocked()
	if err != nil {
		return err
	}
	return l.writeLocked(append(rows, newRow(name, regNumber, at)))
}

// Mark appends a row unless the person was already marked on the same day.
func (l *Log) Mark(name, regNumber string, at time.Time) (Row, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rows, err := l.readLocked()
	if err != nil {
		return Row{}, err
	}

	row := newRow(name, regNumber, at)
	if containsMark(rows, row.Name, row.RegNumber, row.Date) {
		return Row{}, fmt.Errorf("%w: %s (%s)", ErrAlreadyMarked, name, row.Date)
	}
	if err := l.writeLocked(append(rows, row)); err != nil {
		return Row{}, err
	}
	return row, nil
}

// Clear removes the attendance file.
func (l *Log) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	err := os.Remove(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return ErrNoRecords
	}
	if err != nil {
		return fmt.Errorf("failed to clear attendance: %w", err)
	}
	return nil
}

func newRow(name, regNumber string, at time.Time) Row {
	return Row{
		Name:      normalize(name),
		RegNumber: normalize(regNumber),
		Date:      at.Format(DateLayout),
		Time:      at.Format(TimeLayout),
	}
}

func containsMark(rows []Row, name, regNumber, date string) bool {
	name, regNumber = normalize(name), normalize(regNumber)
	return slices.ContainsFunc(rows, func(r Row) bool {
		return r.Date == date && normalize(r.Name) == name && normalize(r.RegNumber) == regNumber
	})
}

// normalize folds equivalent Unicode spellings of a name to one form.
func normalize(s string) string {
	return norm.NFC.String(s)
}

func (l *Log) readLocked() ([]Row, error) {
	f, err := os.Open(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open attendance file: %w", err)
	}
	defer f.Close()

	rows, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read attendance file %s: %w", l.path, err)
	}
	return rows, nil
}

func (l *Log) writeLocked(rows []Row) error {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows); err != nil {
		return err
	}
	if err := renameio.WriteFile(l.path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write attendance file: %w", err)
	}
	return nil
}

// ReadCSV parses an attendance table. The header row is optional.
func ReadCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) > 0 && slices.Equal(records[0], Header) {
		records = records[1:]
	}

	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, Row{Name: rec[0], RegNumber: rec[1], Date: rec[2], Time: rec[3]})
	}
	return rows, nil
}

// WriteCSV writes the header followed by rows.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(row.record()); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
