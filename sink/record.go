package sink

import (
	"fmt"
	"io"
	"sort"

	"github.com/phil-mansfield/table"
)

// Record holds every sink in a checkpoint. Sinks are given IDs in order of
// ascending formation time so that a sink keeps the same ID across
// checkpoints.
type Record struct {
	rows       int
	attributes int
	data       []float64 // row-major, in file order

	sinks []Sink
}

// NewRecord creates a Record from row-major sink data with the given number
// of attributes per row.
func NewRecord(data []float64, attributes int) (*Record, error) {
	if attributes < DefaultAttributes {
		return nil, fmt.Errorf(
			"Sink records need at least %d attributes, but %d were given.",
			DefaultAttributes, attributes,
		)
	} else if len(data)%attributes != 0 {
		return nil, fmt.Errorf(
			"Sink data has %d values, which is not a multiple of the %d "+
				"attributes per sink.", len(data), attributes,
		)
	}

	rec := &Record{
		rows:       len(data) / attributes,
		attributes: attributes,
		data:       data,
	}

	rec.sinks = make([]Sink, rec.rows)
	for i := range rec.sinks {
		s, err := FromRow(data[i*attributes : (i+1)*attributes])
		if err != nil {
			return nil, err
		}
		rec.sinks[i] = s
	}

	sort.SliceStable(rec.sinks, func(i, j int) bool {
		return rec.sinks[i].FormationTime < rec.sinks[j].FormationTime
	})
	for i := range rec.sinks {
		rec.sinks[i].ID = i
	}

	return rec, nil
}

// ReadRecord reads a text table of sink particle data where each line is one
// sink and each column is one attribute.
func ReadRecord(file string, attributes int) (*Record, error) {
	colIdxs := make([]int, attributes)
	for i := range colIdxs {
		colIdxs[i] = i
	}

	cols, err := table.ReadTable(file, colIdxs, nil)
	if err != nil {
		return nil, err
	}

	rows := 0
	if len(cols) > 0 {
		rows = len(cols[0])
	}
	data := make([]float64, rows*attributes)
	for j, col := range cols {
		for i, x := range col {
			data[i*attributes+j] = x
		}
	}

	return NewRecord(data, attributes)
}

// Len returns the number of sinks in the record.
func (rec *Record) Len() int { return rec.rows }

// Attributes returns the number of attributes stored for each sink.
func (rec *Record) Attributes() int { return rec.attributes }

// Sinks returns the sinks sorted by ID. The returned slice must not be
// modified.
func (rec *Record) Sinks() []Sink { return rec.sinks }

// Sink returns the sink with the given ID.
func (rec *Record) Sink(id int) (Sink, error) {
	if id < 0 || id >= len(rec.sinks) {
		return Sink{}, fmt.Errorf(
			"Sink ID %d requested, but the record has %d sinks: %w",
			id, len(rec.sinks), ErrUnknownSink,
		)
	}
	return rec.sinks[id], nil
}

// Attribute returns attribute attr of the sink in the given row of the
// sink table, in file order.
func (rec *Record) Attribute(row, attr int) (float64, error) {
	if attr < 0 || attr >= rec.attributes {
		return 0, fmt.Errorf(
			"Attribute index %d requested, but sinks only have %d attributes.",
			attr, rec.attributes,
		)
	} else if row < 0 || row >= rec.rows {
		return 0, fmt.Errorf(
			"Sink row %d requested, but the record has %d sinks: %w",
			row, rec.rows, ErrUnknownSink,
		)
	}
	return rec.data[row*rec.attributes+attr], nil
}

// Column returns attribute attr for every sink, in file order.
func (rec *Record) Column(attr int) ([]float64, error) {
	if attr < 0 || attr >= rec.attributes {
		return nil, fmt.Errorf(
			"Attribute index %d requested, but sinks only have %d attributes.",
			attr, rec.attributes,
		)
	}

	out := make([]float64, rec.rows)
	for i := range out {
		x, err := rec.Attribute(i, attr)
		if err != nil {
			return nil, err
		}
		out[i] = x
	}
	return out, nil
}

// Print writes every sink in ID order to w.
func (rec *Record) Print(w io.Writer) {
	fmt.Fprintln(w)
	for i := range rec.sinks {
		rec.sinks[i].Print(w)
	}
}
