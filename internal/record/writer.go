package record

import (
	"bufio"
	"fmt"
	"io"

	"github.com/san-kum/breathseed/internal/geom"
)

// Format renders one record. ti is the time step in milliseconds and id the
// zero-based running particle counter.
func Format(schema Schema, ti, id int, p geom.Vec3) string {
	if schema == Compact {
		return fmt.Sprintf("v, %d, %.15f, %.15f, %.15f\n", id+1, p[0], p[1], p[2])
	}
	return fmt.Sprintf("%.15f\t%.15f\t%.15f\t0.0\t0.0\t0.0\t%7.3f\t10.0e-6\t977.0\t%d\n",
		p[0], p[1], p[2], float64(ti)/1000.0, id)
}

// Write appends one record to w and returns the next identifier.
func Write(w io.Writer, schema Schema, ti, id int, p geom.Vec3) (int, error) {
	if _, err := io.WriteString(w, Format(schema, ti, id, p)); err != nil {
		return id, err
	}
	return id + 1, nil
}

// Writer owns the particle identifier for a run. It is not safe for
// concurrent use.
type Writer struct {
	buf    *bufio.Writer
	schema Schema
	next   int
}

func NewWriter(w io.Writer, schema Schema) *Writer {
	return &Writer{buf: bufio.NewWriter(w), schema: schema}
}

func (w *Writer) Schema() Schema { return w.schema }

// Count is the number of records accepted so far, including any still
// buffered and not yet flushed.
func (w *Writer) Count() int { return w.next }

// WriteHeader writes the two comment lines of the full schema. It is a no-op
// for the compact schema.
func (w *Writer) WriteHeader() error {
	if w.schema != Full {
		return nil
	}
	_, err := w.buf.WriteString(Header)
	return err
}

// Write appends one record for step ti and returns the identifier it was
// assigned. The counter only advances on success.
func (w *Writer) Write(ti int, p geom.Vec3) (int, error) {
	id := w.next
	next, err := Write(w.buf, w.schema, ti, id, p)
	if err != nil {
		return id, fmt.Errorf("write particle %d: %w", id, err)
	}
	w.next = next
	return id, nil
}

func (w *Writer) Flush() error {
	return w.buf.Flush()
}
