/*package sink contains the sink particles read from a simulation checkpoint,
along with tools for generating the extraction scripts which cut grids out
around them. */
package sink

import (
	"errors"
	"fmt"
	"io"
)

// ErrUnknownSink is returned when a sink ID or row does not exist.
var ErrUnknownSink = errors.New("unknown sink")

// Column indices of the attributes in a FLASH "sink particle data" row.
const (
	MassCol          = 5
	XCol             = 9
	YCol             = 10
	ZCol             = 11
	VxCol            = 14
	VyCol            = 15
	VzCol            = 16
	FormationTimeCol = 21
	AccretionRateCol = 22

	// DefaultAttributes is the minimum row width which contains every column
	// above.
	DefaultAttributes = AccretionRateCol + 1
)

// Sink is a point mass representing a collapsed object.
type Sink struct {
	ID            int
	Mass          float64
	Position      [3]float64
	Velocity      [3]float64
	FormationTime float64
	AccretionRate float64
}

// FromRow creates a Sink from a single row of sink particle data. The ID is
// set to -1 until the sink is placed in a Record.
func FromRow(row []float64) (Sink, error) {
	if len(row) < DefaultAttributes {
		return Sink{}, fmt.Errorf(
			"Sink row has %d attributes, but at least %d are needed.",
			len(row), DefaultAttributes,
		)
	}

	return Sink{
		ID:            -1,
		Mass:          row[MassCol],
		Position:      [3]float64{row[XCol], row[YCol], row[ZCol]},
		Velocity:      [3]float64{row[VxCol], row[VyCol], row[VzCol]},
		FormationTime: row[FormationTimeCol],
		AccretionRate: row[AccretionRateCol],
	}, nil
}

// Print writes a human readable description of the sink to w.
func (s *Sink) Print(w io.Writer) {
	fmt.Fprintf(w, "ID: %d\n", s.ID)
	fmt.Fprintf(w, "   mass:               %g\n", s.Mass)
	fmt.Fprintf(w, "   position (x, y, z): %g  %g  %g\n",
		s.Position[0], s.Position[1], s.Position[2])
	fmt.Fprintf(w, "   velocity (x, y, z): %g  %g  %g\n",
		s.Velocity[0], s.Velocity[1], s.Velocity[2])
	fmt.Fprintf(w, "   formation time:     %g\n", s.FormationTime)
	fmt.Fprintf(w, "   accretion rate:     %g\n\n", s.AccretionRate)
}
