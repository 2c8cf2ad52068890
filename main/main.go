package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"strings"

	"gopkg.in/gcfg.v1"

	"github.com/flash-cores/sinkcore/core"
	"github.com/flash-cores/sinkcore/io"
	"github.com/flash-cores/sinkcore/sink"
)

// FileGroup contains utility files for logging and writing profiles to.
type FileGroup struct {
	log, prof *os.File
}

// Close closes the files inside FileGroup.
func (fg *FileGroup) Close() {
	if fg.log != nil {
		if err := fg.log.Close(); err != nil {
			log.Fatal(err.Error())
		}
	}

	if fg.prof != nil {
		pprof.StopCPUProfile()
		if err := fg.prof.Close(); err != nil {
			log.Fatal(err.Error())
		}
	}
}

func main() {
	var (
		coreAnalysis, writeScripts string
		exampleConfig, sinkFile    string
	)
	vars := map[string]*string{
		"CoreAnalysis":  &coreAnalysis,
		"WriteScripts":  &writeScripts,
		"ExampleConfig": &exampleConfig,
	}

	flag.StringVar(
		&coreAnalysis, "CoreAnalysis", "",
		"Configuration file for [CoreAnalysis] mode.",
	)
	flag.StringVar(
		&writeScripts, "WriteScripts", "",
		"Configuration file for [Extract] mode, which writes one field "+
			"extraction script per sink.",
	)
	flag.StringVar(
		&exampleConfig, "ExampleConfig", "",
		"Prints an example configuration file of the specified type to "+
			"stdout. Accepted arguments are 'CoreAnalysis' and 'Extract'.",
	)
	flag.StringVar(
		&sinkFile, "File", "",
		"Sink table to read. Overrides 'SinkFile' in the config file.",
	)

	flag.Parse()

	modeName, err := getModeName(vars)
	if err != nil {
		log.Fatal(err.Error())
	}

	switch modeName {
	case "CoreAnalysis":
		wrap := io.DefaultCoreAnalysisWrapper()
		if err := gcfg.ReadFileInto(wrap, coreAnalysis); err != nil {
			log.Fatal(err.Error())
		}
		con := &wrap.CoreAnalysis
		if sinkFile != "" {
			con.SinkFile = sinkFile
		}
		if err := con.Check(); err != nil {
			log.Fatal(err.Error())
		}
		coreAnalysisMain(con)

	case "WriteScripts":
		wrap := io.DefaultExtractWrapper()
		if err := gcfg.ReadFileInto(wrap, writeScripts); err != nil {
			log.Fatal(err.Error())
		}
		con := &wrap.Extract
		if sinkFile != "" {
			con.SinkFile = sinkFile
		}
		if err := con.Check(); err != nil {
			log.Fatal(err.Error())
		}
		writeScriptsMain(con)

	case "ExampleConfig":
		switch exampleConfig {
		case "CoreAnalysis":
			fmt.Println(io.ExampleCoreAnalysisFile)
		case "Extract":
			fmt.Println(io.ExampleExtractFile)
		default:
			log.Fatal(
				"Unrecognized 'ExampleConfig' argument. Only recognized " +
					"arguments are 'CoreAnalysis' and 'Extract'.",
			)
		}
	default:
		panic("Impossible")
	}
}

// getModeName returns the name of the mode and fails with a descriptive error
// if the user provided less or more than one mode flag.
func getModeName(vars map[string]*string) (string, error) {
	setNames := []string{}

	for name, varPtr := range vars {
		if *varPtr != "" {
			setNames = append(setNames, name)
		}
	}

	if len(setNames) == 0 {
		return "", fmt.Errorf("No flags have been set.")
	}

	if len(setNames) > 1 {
		return "", fmt.Errorf(
			"The following flags were set: %s, but sinkcore "+
				"only accepts one flag at a time.",
			strings.Join(setNames, ", "),
		)
	}

	return setNames[0], nil
}

// coreAnalysisMain runs the core analysis for a single sink and writes its
// reports to the output directory.
func coreAnalysisMain(con *io.CoreAnalysisConfig) {
	fg := &FileGroup{}
	defer fg.Close()
	var err error

	// Set up log file.
	if con.ValidLogFile() {
		fg.log, err = os.Create(con.LogFile)
		if err != nil {
			log.Fatal(err.Error())
		}
		log.SetOutput(fg.log)
	}

	// Set up profile file.
	if con.ValidProfileFile() {
		fg.prof, err = os.Create(con.ProfileFile)
		if err != nil {
			log.Fatal(err.Error())
		}
		if err = pprof.StartCPUProfile(fg.prof); err != nil {
			log.Fatal(err.Error())
		}
	}

	rec, err := sink.ReadRecord(con.SinkFile, con.SinkAttributes)
	if err != nil {
		log.Fatal(err.Error())
	}
	log.Printf("Read %d sinks from %s", rec.Len(), con.SinkFile)
	rec.Print(log.Writer())

	fs, err := io.LoadFields(con.Input, con.Cells)
	if err != nil {
		log.Fatal(err.Error())
	}

	seg, err := core.NewSegmenter(con.Strategy)
	if err != nil {
		log.Fatal(err.Error())
	}
	a, err := core.NewAnalyzer(rec.Sinks(), con.SinkID, fs, seg)
	if err != nil {
		log.Fatal(err.Error())
	}
	a.Workers = con.Threads
	a.KeepCells = con.CellEnergies || con.ValidPlotDir()

	a.LogSummaries()
	e, err := a.Run()
	if err != nil {
		log.Fatal(err.Error())
	}

	if err = os.MkdirAll(con.Output, 0755); err != nil {
		log.Fatal(err.Error())
	}
	summaryFile, cellFile, sinkFile := io.OutputFiles(con.Output, con.SinkID)

	s := io.NewSummary(
		con.SinkID, con.Strategy, fs.Potential.N, a.Mapping(), a.Region(), e,
	)
	if err = io.WriteSummaryYAML(summaryFile, s); err != nil {
		log.Fatal(err.Error())
	}
	if err = io.WriteSinksCSV(sinkFile, rec.Sinks()); err != nil {
		log.Fatal(err.Error())
	}
	if con.CellEnergies {
		if err = io.WriteCellEnergiesCSV(cellFile, e.CellEnergies); err != nil {
			log.Fatal(err.Error())
		}
	}
	log.Printf("Wrote reports for sink %d to %s", con.SinkID, con.Output)

	if con.ValidPlotDir() {
		if err = os.MkdirAll(con.PlotDir, 0755); err != nil {
			log.Fatal(err.Error())
		}
		plotCore(con.PlotDir, con.SinkID, fs.Potential, a.Region(), e)
	}
}

// writeScriptsMain writes an extraction script for every sink in the table.
func writeScriptsMain(con *io.ExtractConfig) {
	rec, err := sink.ReadRecord(con.SinkFile, con.SinkAttributes)
	if err != nil {
		log.Fatal(err.Error())
	}

	files, err := sink.WriteAllScripts(rec, con.ScriptConfig())
	if err != nil {
		log.Fatal(err.Error())
	}
	for _, file := range files {
		fmt.Println(file)
	}
	log.Printf("Wrote %d extraction scripts.", len(files))
}
