package io

import (
	"fmt"

	"gopkg.in/gcfg.v1"

	"github.com/flash-cores/sinkcore/core"
	"github.com/flash-cores/sinkcore/sink"
)

// DefaultSinkFile is the name of the sink table written by the simulation.
const DefaultSinkFile = "sinks_evol.dat"

const (
	ExampleCoreAnalysisFile = `[CoreAnalysis]

#######################
# Required Parameters #
#######################

# Directory containing the extracted_gpot, extracted_dens, extracted_eint,
# extracted_velx, extracted_vely, and extracted_velz field files.
Input = path/to/data/chk_66/sink0
# Directory where the summary and tables will be written.
Output = path/to/output/dir

# Text table of sink particle data, one sink per line. Default is
# sinks_evol.dat. Overridden by the -File flag.
SinkFile = path/to/sinks.txt
# The sink whose core is analyzed. Sinks are numbered from zero in order of
# formation time.
SinkID = 0

#######################
# Optional Parameters #
#######################

# Number of cells on a side of each field. If set, every field must match.
# Cells = 512

# Number of columns in SinkFile. Default is 23.
# SinkAttributes = 23

# Segmentation strategy, one of [ flood_fill | contour_tree ].
# Strategy = flood_fill

# Number of threads used when adding sink gravity to the potential. Default
# is the number of logical cores.
# Threads = 8

# Write the energy of every core cell to cell_energies.csv.
# CellEnergies = false

# Directory for diagnostic plots. No plots are made if this is not set.
# PlotDir = path/to/plot/dir

# Output files which are useful for profiling and debugging.
# ProfileFile = prof.out
# LogFile = log.out`

	ExampleExtractFile = `[Extract]

# Generates one extraction script per sink under
# BaseDir/extract_scripts/chk_<Checkpoint>/.

#######################
# Required Parameters #
#######################

SinkFile = path/to/sinks.txt
DataFile = path/to/cosmoCutout_hdf5_chk_0066
Extractor = path/to/extractor
BaseDir = path/to/core_code
Checkpoint = 66

#######################
# Optional Parameters #
#######################

# Width of the extracted cube, in cm. Default is 7.5e16.
# ExtractSize = 7.5e16
# Upper edge of the simulation domain, in cm. Default is 1.58967e18.
# SimulationMaxBound = 1.58967e18
# Resolution of the extracted cube. Default is 512.
# Pixels = 512
# SinkAttributes = 23`
)

// CoreAnalysisConfig holds the [CoreAnalysis] section of a config file.
type CoreAnalysisConfig struct {
	// Required
	Input, Output string
	SinkFile      string
	SinkID        int

	// Optional
	Cells          int
	SinkAttributes int
	Strategy       string
	Threads        int
	CellEnergies   bool
	PlotDir        string

	LogFile, ProfileFile string
}

// CoreAnalysisWrapper is the top level type which gcfg reads into.
type CoreAnalysisWrapper struct {
	CoreAnalysis CoreAnalysisConfig
}

// DefaultCoreAnalysisWrapper returns a wrapper with default optional values.
func DefaultCoreAnalysisWrapper() *CoreAnalysisWrapper {
	con := CoreAnalysisConfig{}
	con.SinkFile = DefaultSinkFile
	con.SinkID = -1
	con.SinkAttributes = sink.DefaultAttributes
	con.Strategy = core.FloodFillStrategy
	con.Threads = core.NumCores
	return &CoreAnalysisWrapper{con}
}

func (con *CoreAnalysisConfig) ValidInput() bool    { return con.Input != "" }
func (con *CoreAnalysisConfig) ValidOutput() bool   { return con.Output != "" }
func (con *CoreAnalysisConfig) ValidSinkFile() bool { return con.SinkFile != "" }
func (con *CoreAnalysisConfig) ValidSinkID() bool   { return con.SinkID >= 0 }
func (con *CoreAnalysisConfig) ValidCells() bool    { return con.Cells >= 0 }
func (con *CoreAnalysisConfig) ValidThreads() bool  { return con.Threads > 0 }
func (con *CoreAnalysisConfig) ValidPlotDir() bool  { return con.PlotDir != "" }
func (con *CoreAnalysisConfig) ValidLogFile() bool  { return con.LogFile != "" }

func (con *CoreAnalysisConfig) ValidProfileFile() bool {
	return con.ProfileFile != ""
}

func (con *CoreAnalysisConfig) ValidSinkAttributes() bool {
	return con.SinkAttributes >= sink.DefaultAttributes
}

func (con *CoreAnalysisConfig) ValidStrategy() bool {
	_, err := core.NewSegmenter(con.Strategy)
	return err == nil
}

// Check returns a descriptive error for the first invalid value.
func (con *CoreAnalysisConfig) Check() error {
	switch {
	case !con.ValidInput():
		return fmt.Errorf("Invalid/non-existent 'Input' value.")
	case !con.ValidOutput():
		return fmt.Errorf("Invalid/non-existent 'Output' value.")
	case !con.ValidSinkFile():
		return fmt.Errorf("Invalid/non-existent 'SinkFile' value.")
	case !con.ValidSinkID():
		return fmt.Errorf("Invalid/non-existent 'SinkID' value.")
	case !con.ValidCells():
		return fmt.Errorf("Invalid 'Cells' value, %d.", con.Cells)
	case !con.ValidSinkAttributes():
		return fmt.Errorf(
			"'SinkAttributes' is %d, but must be at least %d.",
			con.SinkAttributes, sink.DefaultAttributes,
		)
	case !con.ValidStrategy():
		return fmt.Errorf(
			"Unrecognized 'Strategy' value, '%s'. Accepted values are "+
				"'%s' and '%s'.", con.Strategy,
			core.FloodFillStrategy, core.ContourTreeStrategy,
		)
	case !con.ValidThreads():
		return fmt.Errorf("'Threads' must be positive, but is %d.", con.Threads)
	}
	return nil
}

// ReadCoreAnalysisConfig reads and checks a [CoreAnalysis] config file.
func ReadCoreAnalysisConfig(fname string) (*CoreAnalysisConfig, error) {
	wrap := DefaultCoreAnalysisWrapper()
	if err := gcfg.ReadFileInto(wrap, fname); err != nil {
		return nil, err
	}
	if err := wrap.CoreAnalysis.Check(); err != nil {
		return nil, err
	}
	return &wrap.CoreAnalysis, nil
}

// ExtractConfig holds the [Extract] section of a config file.
type ExtractConfig struct {
	// Required
	SinkFile, DataFile string
	Extractor, BaseDir string
	Checkpoint         int

	// Optional
	ExtractSize        float64
	SimulationMaxBound float64
	Pixels             int
	SinkAttributes     int
}

// ExtractWrapper is the top level type which gcfg reads into.
type ExtractWrapper struct {
	Extract ExtractConfig
}

// DefaultExtractWrapper returns a wrapper with default optional values.
func DefaultExtractWrapper() *ExtractWrapper {
	con := ExtractConfig{}
	con.SinkFile = DefaultSinkFile
	con.Checkpoint = -1
	con.ExtractSize = 7.5e16
	con.SimulationMaxBound = 1.58967e18
	con.Pixels = 512
	con.SinkAttributes = sink.DefaultAttributes
	return &ExtractWrapper{con}
}

// Check returns a descriptive error for the first invalid value.
func (con *ExtractConfig) Check() error {
	switch {
	case con.SinkFile == "":
		return fmt.Errorf("Invalid/non-existent 'SinkFile' value.")
	case con.DataFile == "":
		return fmt.Errorf("Invalid/non-existent 'DataFile' value.")
	case con.Extractor == "":
		return fmt.Errorf("Invalid/non-existent 'Extractor' value.")
	case con.BaseDir == "":
		return fmt.Errorf("Invalid/non-existent 'BaseDir' value.")
	case con.Checkpoint < 0:
		return fmt.Errorf("Invalid/non-existent 'Checkpoint' value.")
	case con.ExtractSize <= 0:
		return fmt.Errorf("'ExtractSize' must be positive, but is %g.",
			con.ExtractSize)
	case con.SimulationMaxBound < con.ExtractSize:
		return fmt.Errorf(
			"'SimulationMaxBound' (%g) is smaller than 'ExtractSize' (%g).",
			con.SimulationMaxBound, con.ExtractSize,
		)
	case con.Pixels <= 0:
		return fmt.Errorf("'Pixels' must be positive, but is %d.", con.Pixels)
	case con.SinkAttributes < sink.DefaultAttributes:
		return fmt.Errorf(
			"'SinkAttributes' is %d, but must be at least %d.",
			con.SinkAttributes, sink.DefaultAttributes,
		)
	}
	return nil
}

// ScriptConfig converts the section into the form used by the sink package.
func (con *ExtractConfig) ScriptConfig() *sink.ScriptConfig {
	return &sink.ScriptConfig{
		Extractor:          con.Extractor,
		BaseDir:            con.BaseDir,
		Checkpoint:         con.Checkpoint,
		DataFile:           con.DataFile,
		ExtractSize:        con.ExtractSize,
		SimulationMaxBound: con.SimulationMaxBound,
		Pixels:             con.Pixels,
	}
}

// ReadExtractConfig reads and checks an [Extract] config file.
func ReadExtractConfig(fname string) (*ExtractConfig, error) {
	wrap := DefaultExtractWrapper()
	if err := gcfg.ReadFileInto(wrap, fname); err != nil {
		return nil, err
	}
	if err := wrap.Extract.Check(); err != nil {
		return nil, err
	}
	return &wrap.Extract, nil
}
