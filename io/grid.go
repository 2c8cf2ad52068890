/*package io reads and writes the files used by sinkcore: binary field grids,
sink tables, configuration files, and analysis reports. */
package io

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"strings"

	"github.com/flash-cores/sinkcore/core"
	"github.com/flash-cores/sinkcore/field"
)

const (
	nameLen = 32

	// Flags are symmetric under byte swapping, so they can be read before
	// the byte order is known.
	littleEndianFlag = -1
	bigEndianFlag    = 0
)

var end = binary.LittleEndian

// FieldNames are the names of the field files read for an analysis, in the
// order they are stored in core.Fields.
var FieldNames = []string{"gpot", "dens", "eint", "velx", "vely", "velz"}

// FieldHeader is the header at the start of every field file. It is
// followed by N^3 float32 values with x varying fastest.
type FieldHeader struct {
	Endianness int64
	HeaderSize int64
	N          int64
	Bounds     [6]float64
	Name       [nameLen]byte
}

// FieldName returns the name stored in the header.
func (hd *FieldHeader) FieldName() string {
	return strings.TrimRight(string(hd.Name[:]), "\x00")
}

// FieldFile returns the path of the file holding the named field.
func FieldFile(dir, name string) string {
	return path.Join(dir, "extracted_"+name)
}

func endianness(flag int64) (binary.ByteOrder, error) {
	switch flag {
	case littleEndianFlag:
		return binary.LittleEndian, nil
	case bigEndianFlag:
		return binary.BigEndian, nil
	}
	return nil, fmt.Errorf("Unrecognized endianness flag, %d.", flag)
}

func readFieldHeader(rd io.Reader) (*FieldHeader, binary.ByteOrder, error) {
	var flag int64
	if err := binary.Read(rd, end, &flag); err != nil {
		return nil, nil, err
	}
	order, err := endianness(flag)
	if err != nil {
		return nil, nil, err
	}

	hd := &FieldHeader{Endianness: flag}
	rest := struct {
		HeaderSize int64
		N          int64
		Bounds     [6]float64
		Name       [nameLen]byte
	}{}
	if err := binary.Read(rd, order, &rest); err != nil {
		return nil, nil, err
	}
	hd.HeaderSize, hd.N, hd.Bounds, hd.Name =
		rest.HeaderSize, rest.N, rest.Bounds, rest.Name

	if hd.HeaderSize != int64(binary.Size(FieldHeader{})) {
		return nil, nil, fmt.Errorf(
			"Expected FieldHeader size of %d, found %d.",
			binary.Size(FieldHeader{}), hd.HeaderSize,
		)
	} else if hd.N <= 0 {
		return nil, nil, fmt.Errorf("Field header has width %d.", hd.N)
	}

	return hd, order, nil
}

// ReadFieldHeader reads only the header of a field file.
func ReadFieldHeader(file string) (*FieldHeader, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	hd, _, err := readFieldHeader(bufio.NewReader(f))
	return hd, err
}

// ReadField reads a field file.
func ReadField(file string) (*field.Field, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rd := bufio.NewReader(f)

	hd, order, err := readFieldHeader(rd)
	if err != nil {
		return nil, fmt.Errorf("Could not read header of %s: %s", file, err.Error())
	}

	vals := make([]float32, hd.N*hd.N*hd.N)
	if err := binary.Read(rd, order, vals); err != nil {
		return nil, fmt.Errorf(
			"Could not read %d values from %s: %s", len(vals), file, err.Error(),
		)
	}

	return field.New(hd.FieldName(), int(hd.N), hd.Bounds, vals)
}

// WriteField writes a field to wr.
func WriteField(wr io.Writer, fd *field.Field) error {
	if len(fd.Name) > nameLen {
		return fmt.Errorf(
			"Field name '%s' is longer than %d bytes.", fd.Name, nameLen,
		)
	}

	hd := FieldHeader{
		Endianness: littleEndianFlag,
		HeaderSize: int64(binary.Size(FieldHeader{})),
		N:          int64(fd.N),
		Bounds:     fd.Bounds,
	}
	copy(hd.Name[:], fd.Name)

	if err := binary.Write(wr, end, &hd); err != nil {
		return err
	}
	return binary.Write(wr, end, fd.Values)
}

// WriteFieldFile writes a field to the named file.
func WriteFieldFile(file string, fd *field.Field) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	wr := bufio.NewWriter(f)
	if err = WriteField(wr, fd); err == nil {
		err = wr.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

// LoadFields reads every field needed for an analysis from dir. If cells is
// positive, every field must have that width. The fields must share the same
// bounds; a mismatch means the inputs are not co-registered and is returned
// as an error wrapping field.ErrBoundsMismatch.
func LoadFields(dir string, cells int) (core.Fields, error) {
	fds := make([]*field.Field, len(FieldNames))
	for i, name := range FieldNames {
		file := FieldFile(dir, name)
		fd, err := ReadField(file)
		if err != nil {
			return core.Fields{}, err
		}
		if cells > 0 && fd.N != cells {
			return core.Fields{}, fmt.Errorf(
				"Field file %s has width %d, but Cells = %d.", file, fd.N, cells,
			)
		}

		// Files are addressed by their name in the directory.
		fd.Name = name
		fds[i] = fd
		log.Printf("Loaded %s with bounds %v", file, fd.Bounds)
	}

	if err := field.CheckBounds(fds...); err != nil {
		return core.Fields{}, err
	}
	log.Println("Data bounds matched for all fields.")

	return core.Fields{
		Potential:      fds[0],
		Density:        fds[1],
		InternalEnergy: fds[2],
		VelX:           fds[3],
		VelY:           fds[4],
		VelZ:           fds[5],
	}, nil
}
