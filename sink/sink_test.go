package sink

import (
	"bytes"
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// row builds a sink data row with the given properties.
func row(mass, x, y, z, formation float64) []float64 {
	r := make([]float64, DefaultAttributes)
	r[MassCol] = mass
	r[XCol], r[YCol], r[ZCol] = x, y, z
	r[VxCol], r[VyCol], r[VzCol] = 1, 2, 3
	r[FormationTimeCol] = formation
	r[AccretionRateCol] = mass / 100
	return r
}

func testData() []float64 {
	data := []float64{}
	data = append(data, row(3e33, 1, 2, 3, 50)...)
	data = append(data, row(1e33, 4, 5, 6, 10)...)
	data = append(data, row(2e33, 7, 8, 9, 30)...)
	return data
}

func TestNewRecordIDs(t *testing.T) {
	rec, err := NewRecord(testData(), DefaultAttributes)
	require.NoError(t, err)
	require.Equal(t, 3, rec.Len())

	sinks := rec.Sinks()
	masses := []float64{1e33, 2e33, 3e33}
	for i := range sinks {
		assert.Equal(t, i, sinks[i].ID)
		assert.Equal(t, masses[i], sinks[i].Mass)
	}
	assert.Equal(t, [3]float64{7, 8, 9}, sinks[1].Position)
	assert.Equal(t, [3]float64{1, 2, 3}, sinks[1].Velocity)

	s, err := rec.Sink(2)
	require.NoError(t, err)
	assert.Equal(t, 50.0, s.FormationTime)

	_, err = rec.Sink(3)
	assert.True(t, errors.Is(err, ErrUnknownSink))
}

func TestNewRecordStableTies(t *testing.T) {
	data := append(row(1, 0, 0, 0, 5), row(2, 0, 0, 0, 5)...)
	rec, err := NewRecord(data, DefaultAttributes)
	require.NoError(t, err)
	assert.Equal(t, 1.0, rec.Sinks()[0].Mass)
	assert.Equal(t, 2.0, rec.Sinks()[1].Mass)
}

func TestNewRecordErrors(t *testing.T) {
	_, err := NewRecord(make([]float64, 10), 10)
	assert.Error(t, err)
	_, err = NewRecord(make([]float64, DefaultAttributes+1), DefaultAttributes)
	assert.Error(t, err)
}

func TestAttribute(t *testing.T) {
	rec, err := NewRecord(testData(), DefaultAttributes)
	require.NoError(t, err)

	// Rows are in file order, not ID order.
	m, err := rec.Attribute(0, MassCol)
	require.NoError(t, err)
	assert.Equal(t, 3e33, m)

	y, err := rec.Attribute(2, YCol)
	require.NoError(t, err)
	assert.Equal(t, 8.0, y)

	_, err = rec.Attribute(0, DefaultAttributes)
	assert.Error(t, err)
	_, err = rec.Attribute(3, MassCol)
	assert.True(t, errors.Is(err, ErrUnknownSink))
	_, err = rec.Attribute(-1, MassCol)
	assert.Error(t, err)

	ts, err := rec.Column(FormationTimeCol)
	require.NoError(t, err)
	assert.Equal(t, []float64{50, 10, 30}, ts)
}

func TestReadRecord(t *testing.T) {
	dir, err := ioutil.TempDir("", "sink_record")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	lines := []string{}
	data := testData()
	for i := 0; i < 3; i++ {
		fields := []string{}
		for _, x := range data[i*DefaultAttributes : (i+1)*DefaultAttributes] {
			fields = append(fields, fmt.Sprintf("%g", x))
		}
		lines = append(lines, strings.Join(fields, " "))
	}
	fname := path.Join(dir, "sinks.txt")
	require.NoError(t, ioutil.WriteFile(
		fname, []byte(strings.Join(lines, "\n")+"\n"), 0644,
	))

	rec, err := ReadRecord(fname, DefaultAttributes)
	require.NoError(t, err)
	require.Equal(t, 3, rec.Len())
	assert.Equal(t, 10.0, rec.Sinks()[0].FormationTime)
	assert.Equal(t, [3]float64{4, 5, 6}, rec.Sinks()[0].Position)
}

func TestExtractRange(t *testing.T) {
	table := []struct {
		x, size, max, lo, hi float64
	}{
		{50, 10, 100, 45, 55},
		{2, 10, 100, 0, 10},
		{98, 10, 100, 90, 100},
		{5, 10, 100, 0, 10},
	}

	for i, test := range table {
		lo, hi := ExtractRange(test.x, test.size, test.max)
		if lo != test.lo || hi != test.hi {
			t.Errorf("%d) ExtractRange(%g, %g, %g) = (%g, %g), expected (%g, %g)",
				i+1, test.x, test.size, test.max, lo, hi, test.lo, test.hi)
		}
	}
}

func TestExtractorScript(t *testing.T) {
	con := &ScriptConfig{
		Extractor: "extractor", BaseDir: "/base", Checkpoint: 66,
		DataFile: "chk_0066", ExtractSize: 10, SimulationMaxBound: 100,
		Pixels: 64,
	}
	s := &Sink{ID: 2, Position: [3]float64{2, 50, 98}}

	buf := &bytes.Buffer{}
	require.NoError(t, ExtractorScript(buf, s, con))

	cmds := []string{}
	for _, line := range strings.Split(buf.String(), "\n") {
		if line != "" {
			cmds = append(cmds, line)
		}
	}
	require.Len(t, cmds, len(ExtractVars))

	for i, cmd := range cmds {
		name := ExtractVars[i]
		assert.True(t, strings.HasPrefix(cmd, "extractor --range=0,10,45,55,90,100 "))
		assert.Contains(t, cmd, "--varname="+name+" ")
		assert.Contains(t, cmd, "--pixel=64 ")
		assert.Contains(t, cmd, "--outfile=/base/data/chk_66/sink2/extracted_"+name+" ")
		assert.True(t, strings.HasSuffix(cmd, " chk_0066"))

		addsSink := strings.Contains(cmd, "--add_sink_contribution")
		assert.Equal(t, name == "dens" || strings.HasPrefix(name, "vel"), addsSink, name)
	}

	err := ExtractorScript(buf, &Sink{ID: -1}, con)
	assert.True(t, errors.Is(err, ErrUnknownSink))
}

func TestWriteAllScripts(t *testing.T) {
	dir, err := ioutil.TempDir("", "sink_scripts")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	rec, err := NewRecord(testData(), DefaultAttributes)
	require.NoError(t, err)
	con := &ScriptConfig{
		Extractor: "extractor", BaseDir: dir, Checkpoint: 3,
		DataFile: "chk", ExtractSize: 1, SimulationMaxBound: 100, Pixels: 8,
	}

	files, err := WriteAllScripts(rec, con)
	require.NoError(t, err)
	require.Len(t, files, 3)
	for i, fname := range files {
		assert.Equal(t, con.ScriptFile(i), fname)
		_, err := os.Stat(fname)
		assert.NoError(t, err)
	}
}

func TestPrint(t *testing.T) {
	rec, err := NewRecord(testData(), DefaultAttributes)
	require.NoError(t, err)
	buf := &bytes.Buffer{}
	rec.Print(buf)
	assert.Equal(t, 3, strings.Count(buf.String(), "ID: "))
}
