package trace

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/extsort-sim/extsort-sim/sim"
)

// JSONLWriter streams Steps as one JSON object per line, the format the
// external renderer consumes.
type JSONLWriter struct {
	w   *bufio.Writer
	enc *json.Encoder
	n   int
}

// NewJSONLWriter wraps w. Call Flush when done.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	bw := bufio.NewWriter(w)
	return &JSONLWriter{w: bw, enc: json.NewEncoder(bw)}
}

// Write encodes one Step.
func (j *JSONLWriter) Write(st sim.Step) error {
	if err := j.enc.Encode(st); err != nil {
		return fmt.Errorf("encode step %d: %w", st.Seq, err)
	}
	j.n++
	return nil
}

// Count is the number of Steps written so far.
func (j *JSONLWriter) Count() int {
	return j.n
}

// Flush writes any buffered data to the underlying writer.
func (j *JSONLWriter) Flush() error {
	return j.w.Flush()
}

// WriteJSONL writes every Step of the trace.
func WriteJSONL(w io.Writer, t *SortTrace) error {
	jw := NewJSONLWriter(w)
	for _, st := range t.Steps {
		if err := jw.Write(st); err != nil {
			return err
		}
	}
	return jw.Flush()
}
