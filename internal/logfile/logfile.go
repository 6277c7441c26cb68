// internal/logfile/logfile.go
package logfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/tamzrod/part-count-logger/internal/protocol"
)

// ErrLogFile marks a failure to create or append the CSV log.
var ErrLogFile = errors.New("log file")

// ---- FORMAT (LOCKED) ----

const (
	// TimestampLayout formats the tstamp column.
	TimestampLayout = "2006-01-02 15:04:05"

	// nameLayout is the creation time embedded in the file name.
	nameLayout = "2006-01-02_15-04-05"

	namePrefix = "part_count_logger_"
	nameSuffix = ".csv"
)

// Header is the fixed first row.
var Header = []string{
	"tstamp", "flowrate",
	">2um", ">3um", ">5um", ">7um", ">10um", ">15um", ">20um", ">200um",
	"cal", "alog1", "alog2", "alog3",
}

// Name returns the log file name for a run started at t.
func Name(t time.Time) string {
	return namePrefix + t.Format(nameLayout) + nameSuffix
}

// File is an append-only CSV log.
// No handle is held between rows: every Append opens, writes, syncs and
// closes, so the file is complete after each row.
type File struct {
	path string
	rows int
}

// Create makes a new log file in dir named after createdAt and writes the header.
// An existing file is never overwritten.
func Create(dir string, createdAt time.Time) (*File, error) {
	path := filepath.Join(dir, Name(createdAt))

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: create %s: %v", ErrLogFile, path, err)
	}

	if err := writeRow(f, Header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: write header %s: %v", ErrLogFile, path, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("%w: close %s: %v", ErrLogFile, path, err)
	}

	return &File{path: path}, nil
}

// Path returns the file location.
func (l *File) Path() string { return l.path }

// Rows is the number of data rows appended by this process.
func (l *File) Rows() int { return l.rows }

// Append writes one data row.
func (l *File) Append(r protocol.Reading) error {
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", ErrLogFile, l.path, err)
	}

	if err := writeRow(f, Row(r)); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: append %s: %v", ErrLogFile, l.path, err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: sync %s: %v", ErrLogFile, l.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", ErrLogFile, l.path, err)
	}

	l.rows++
	return nil
}

func writeRow(f *os.File, row []string) error {
	w := csv.NewWriter(f)
	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// ---- row codec ----

// Row formats a reading in column order.
func Row(r protocol.Reading) []string {
	values := r.Values()
	row := make([]string, 0, len(values)+1)
	row = append(row, r.Timestamp.Format(TimestampLayout))
	for _, v := range values {
		row = append(row, strconv.FormatUint(uint64(v), 10))
	}
	return row
}

// ParseRow is the inverse of Row. The timestamp is read in loc.
func ParseRow(row []string, loc *time.Location) (protocol.Reading, error) {
	if len(row) != len(Header) {
		return protocol.Reading{}, fmt.Errorf("%w: row has %d columns, want %d", ErrLogFile, len(row), len(Header))
	}

	ts, err := time.ParseInLocation(TimestampLayout, row[0], loc)
	if err != nil {
		return protocol.Reading{}, fmt.Errorf("%w: tstamp %q: %v", ErrLogFile, row[0], err)
	}

	values := make([]uint32, 0, len(row)-1)
	for i, cell := range row[1:] {
		v, err := strconv.ParseUint(cell, 10, 32)
		if err != nil {
			return protocol.Reading{}, fmt.Errorf("%w: column %s: %v", ErrLogFile, Header[i+1], err)
		}
		values = append(values, uint32(v))
	}

	r, _ := protocol.FromValues(ts, values)
	return r, nil
}

// ReadAll loads every data row of a log file.
func ReadAll(path string, loc *time.Location) ([]protocol.Reading, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrLogFile, path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrLogFile, path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s has no header", ErrLogFile, path)
	}

	out := make([]protocol.Reading, 0, len(records)-1)
	for _, rec := range records[1:] {
		r, err := ParseRow(rec, loc)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
