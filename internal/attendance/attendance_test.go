package attendance

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func newTestLog(t *testing.T) *Log {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "attendance.csv"))
}

func day(t *testing.T, value string) time.Time {
	t.Helper()
	at, err := time.ParseInLocation("2006-01-02 15:04:05", value, time.Local)
	if err != nil {
		t.Fatalf("bad test time %q: %v", value, err)
	}
	return at
}

func TestMark_SameDayRejected(t *testing.T) {
	log := newTestLog(t)

	if _, err := log.Mark("Bob", "202", day(t, "2024-01-01 09:00:00")); err != nil {
		t.Fatalf("first mark failed: %v", err)
	}

	_, err := log.Mark("Bob", "202", day(t, "2024-01-01 17:30:00"))
	if !errors.Is(err, ErrAlreadyMarked) {
		t.Fatalf("expected ErrAlreadyMarked, got %v", err)
	}

	row, err := log.Mark("Bob", "202", day(t, "2024-01-02 08:15:00"))
	if err != nil {
		t.Fatalf("next-day mark failed: %v", err)
	}
	if row.Date != "2024-01-02" || row.Time != "08:15:00" {
		t.Errorf("unexpected row %+v", row)
	}

	rows, err := log.Rows()
	if err != nil {
		t.Fatalf("rows failed: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("expected 2 rows, got %d", len(rows))
	}
}

func TestAlreadyMarked(t *testing.T) {
	log := newTestLog(t)
	first := day(t, "2024-01-01 09:00:00")

	marked, err := log.AlreadyMarked("Bob", "202", first)
	if err != nil {
		t.Fatalf("already marked failed: %v", err)
	}
	if marked {
		t.Error("expected not marked on empty log")
	}

	if err := log.Append("Bob", "202", first); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	tests := []struct {
		name     string
		person   string
		reg      string
		at       time.Time
		expected bool
	}{
		{"same day later", "Bob", "202", day(t, "2024-01-01 23:59:59"), true},
		{"next day", "Bob", "202", day(t, "2024-01-02 00:00:00"), false},
		{"other reg", "Bob", "203", first, false},
		{"other name", "Alice", "202", first, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := log.AlreadyMarked(tt.person, tt.reg, tt.at)
			if err != nil {
				t.Fatalf("already marked failed: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestAlreadyMarked_UnicodeNormalization(t *testing.T) {
	log := newTestLog(t)
	at := day(t, "2024-03-10 10:00:00")

	// "Zoë" precomposed vs. "Zoe" + combining diaeresis.
	if err := log.Append("Zo\u00eb", "7", at); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	marked, err := log.AlreadyMarked("Zoe\u0308", "7", at)
	if err != nil {
		t.Fatalf("already marked failed: %v", err)
	}
	if !marked {
		t.Error("expected canonically equivalent names to match")
	}
}

func TestAppend_WritesHeaderAndFormats(t *testing.T) {
	log := newTestLog(t)

	if err := log.Append("Alice", "101", day(t, "2024-05-06 07:08:09")); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	data, err := os.ReadFile(log.Path())
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	expected := "Name,RegNumber,Date,Time\nAlice,101,2024-05-06,07:08:09\n"
	if string(data) != expected {
		t.Errorf("expected file:\n%s\ngot:\n%s", expected, string(data))
	}
}

func TestRows_MissingFile(t *testing.T) {
	log := newTestLog(t)

	rows, err := log.Rows()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected no rows, got %d", len(rows))
	}
	if log.Exists() {
		t.Error("expected file not to exist")
	}
}

func TestReadCSV_WithoutHeader(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader("Carol,303,2024-01-01,10:00:00\n"))
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(rows) != 1 || rows[0].Name != "Carol" {
		t.Errorf("unexpected rows %+v", rows)
	}
}

func TestReadCSV_QuotedName(t *testing.T) {
	var buf bytes.Buffer
	in := []Row{{Name: "Smith, John", RegNumber: "9", Date: "2024-01-01", Time: "10:00:00"}}
	if err := WriteCSV(&buf, in); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	rows, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(rows) != 1 || rows[0] != in[0] {
		t.Errorf("expected %+v, got %+v", in, rows)
	}
}

func TestReadCSV_WrongColumnCount(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("Name,RegNumber,Date,Time\nBob,202\n"))
	if err == nil {
		t.Error("expected error for short row")
	}
}

func TestClear(t *testing.T) {
	log := newTestLog(t)

	if err := log.Clear(); !errors.Is(err, ErrNoRecords) {
		t.Errorf("expected ErrNoRecords on empty log, got %v", err)
	}

	if err := log.Append("Bob", "202", time.Now()); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if err := log.Clear(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if log.Exists() {
		t.Error("expected file removed")
	}
}

func TestExportXLSX(t *testing.T) {
	log := newTestLog(t)

	var empty bytes.Buffer
	if err := log.ExportXLSX(&empty); !errors.Is(err, ErrNoRecords) {
		t.Fatalf("expected ErrNoRecords, got %v", err)
	}

	if err := log.Append("Alice", "101", day(t, "2024-01-01 09:00:00")); err != nil {
		t.Fatal(err)
	}
	if err := log.Append("Bob", "202", day(t, "2024-01-01 09:05:00")); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := log.ExportXLSX(&buf); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("failed to read rows: %v", err)
	}
	expected := [][]string{
		{"Name", "RegNumber", "Date", "Time"},
		{"Alice", "101", "2024-01-01", "09:00:00"},
		{"Bob", "202", "2024-01-01", "09:05:00"},
	}
	if len(rows) != len(expected) {
		t.Fatalf("expected %d rows, got %d: %v", len(expected), len(rows), rows)
	}
	for i := range expected {
		if strings.Join(rows[i], ",") != strings.Join(expected[i], ",") {
			t.Errorf("row %d: expected %v, got %v", i, expected[i], rows[i])
		}
	}
}
