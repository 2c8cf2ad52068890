package sink

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"strings"
)

// ExtractVars are the grid variables extracted around each sink, in the order
// they are written to a script.
var ExtractVars = []string{"gpot", "dens", "eint", "velx", "vely", "velz"}

// ScriptConfig describes how extraction commands are generated.
type ScriptConfig struct {
	// Extractor is the path to the extractor executable.
	Extractor string
	// BaseDir is the root directory that scripts and extracted data are
	// written under.
	BaseDir string
	// Checkpoint is the checkpoint number used to name output directories.
	Checkpoint int
	// DataFile is the checkpoint file which the extractor reads.
	DataFile string

	// ExtractSize is the width of the extracted cube, in length units.
	ExtractSize float64
	// SimulationMaxBound is the upper edge of the simulation domain. The
	// lower edge is zero.
	SimulationMaxBound float64
	// Pixels is the resolution of the extracted cube along each axis.
	Pixels int
}

// ExtractRange returns the lower and upper edges of the extraction range
// along one axis, shifted so that it stays inside [0, maxBound].
func ExtractRange(x, size, maxBound float64) (lo, hi float64) {
	lo, hi = x-size/2, x+size/2
	if lo < 0 {
		return 0, size
	} else if hi > maxBound {
		return maxBound - size, maxBound
	}
	return lo, hi
}

// DataDir returns the directory which the extracted grids of a sink are
// written to.
func (con *ScriptConfig) DataDir(id int) string {
	return path.Join(
		con.BaseDir, "data", fmt.Sprintf("chk_%d", con.Checkpoint),
		fmt.Sprintf("sink%d", id),
	)
}

// ScriptFile returns the path of the extraction script of a sink.
func (con *ScriptConfig) ScriptFile(id int) string {
	return path.Join(
		con.BaseDir, "extract_scripts",
		fmt.Sprintf("chk_%d", con.Checkpoint),
		fmt.Sprintf("extract_sink%d.sh", id),
	)
}

// ExtractorScript writes the extraction commands for a sink to w.
func ExtractorScript(w io.Writer, s *Sink, con *ScriptConfig) error {
	if s.ID < 0 {
		return fmt.Errorf(
			"Cannot write an extraction script for a sink without an ID: %w",
			ErrUnknownSink,
		)
	}

	buf := &bytes.Buffer{}
	for i, name := range ExtractVars {
		if i > 0 {
			fmt.Fprintln(buf)
		}

		ranges := make([]string, 3)
		for k := 0; k < 3; k++ {
			lo, hi := ExtractRange(
				s.Position[k], con.ExtractSize, con.SimulationMaxBound,
			)
			ranges[k] = fmt.Sprintf("%g,%g", lo, hi)
		}

		fmt.Fprintf(buf, "%s --range=%s ", con.Extractor, strings.Join(ranges, ","))
		// Sink contributions only make sense for mass and momentum fields.
		if name == "dens" || strings.HasPrefix(name, "vel") {
			fmt.Fprint(buf, "--add_sink_contribution ")
		}
		fmt.Fprint(buf, "--override_amr_consistent_extraction ")
		fmt.Fprintf(buf, "--pixel=%d ", con.Pixels)
		fmt.Fprintf(buf, "--varname=%s ", name)
		fmt.Fprintf(buf, "--outfile=%s ",
			path.Join(con.DataDir(s.ID), "extracted_"+name))
		fmt.Fprintln(buf, con.DataFile)
	}

	_, err := w.Write(buf.Bytes())
	return err
}

// WriteAllScripts writes one extraction script for every sink in the record
// and returns the names of the files written.
func WriteAllScripts(rec *Record, con *ScriptConfig) ([]string, error) {
	dir := path.Dir(con.ScriptFile(0))
	if err := os.MkdirAll(dir, 0777); err != nil {
		return nil, err
	}

	files := []string{}
	sinks := rec.Sinks()
	for i := range sinks {
		fname := con.ScriptFile(sinks[i].ID)
		f, err := os.Create(fname)
		if err != nil {
			return files, err
		}

		log.Printf("Sink %d writing extractor script to %s", sinks[i].ID, fname)
		err = ExtractorScript(f, &sinks[i], con)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return files, err
		}
		files = append(files, fname)
	}

	return files, nil
}
