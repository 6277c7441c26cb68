// internal/writer/fanout.go
package writer

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Fanout delivers every record to all writers.
// A failing writer does not stop delivery to the others.
type Fanout struct {
	names   []string
	writers []Writer
}

// Add registers a named writer.
func (f *Fanout) Add(name string, w Writer) {
	f.names = append(f.names, name)
	f.writers = append(f.writers, w)
}

// Len is the number of registered writers.
func (f *Fanout) Len() int { return len(f.writers) }

func (f *Fanout) Write(ctx context.Context, rec Record) error {
	var errs []string
	for i, w := range f.writers {
		if err := w.Write(ctx, rec); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", f.names[i], err))
		}
	}
	if len(errs) > 0 {
		return errors.New("writer: " + strings.Join(errs, " | "))
	}
	return nil
}

// Close closes every writer and returns the last error.
func (f *Fanout) Close() error {
	var last error
	for _, w := range f.writers {
		if err := w.Close(); err != nil {
			last = err
		}
	}
	return last
}
