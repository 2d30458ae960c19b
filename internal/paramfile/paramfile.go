// Package paramfile reads and writes model parameters as text.
//
// The flat format is positional: one line per tensor in state dict order,
// values separated by spaces, with no names or shapes. A reader must already
// know the layout. The annotated format prefixes each line with the tensor
// name and its comma-separated shape so the file describes itself.
package paramfile

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"linearnet/internal/model"
)

// Format selects the on-disk layout.
type Format string

const (
	FormatFlat      Format = "flat"
	FormatAnnotated Format = "annotated"
)

// ParseFormat resolves a format name. The empty name selects FormatFlat.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(name)) {
	case "", FormatFlat:
		return FormatFlat, nil
	case FormatAnnotated:
		return FormatAnnotated, nil
	}
	return "", errors.Errorf("unknown parameter file format %q", name)
}

// Save writes sd to path, replacing any existing file.
func Save(path string, sd model.StateDict, format Format) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create parameter file")
	}
	if err := Write(f, sd, format); err != nil {
		f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "close parameter file")
}

// Write encodes every tensor of sd to w.
func Write(w io.Writer, sd model.StateDict, format Format) error {
	bw := bufio.NewWriter(w)
	for _, e := range sd.Entries() {
		if format == FormatAnnotated {
			bw.WriteString(e.Name)
			bw.WriteByte(' ')
			bw.WriteString(formatShape(e.Shape))
			bw.WriteByte(' ')
		}
		// every value is followed by a space, including the last
		for _, v := range e.Data {
			bw.WriteString(FormatFloat(v))
			bw.WriteByte(' ')
		}
		bw.WriteByte('\n')
	}
	return errors.Wrap(bw.Flush(), "write parameters")
}

// Load fills the tensors of sd from the file at path.
func Load(path string, sd model.StateDict, format Format) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open parameter file")
	}
	defer f.Close()
	return Read(f, sd, format)
}

// Read fills the tensors of sd from r. The values are written in place, so
// a state dict taken from a network loads straight into it. Nothing is
// written unless the whole input is valid.
func Read(r io.Reader, sd model.StateDict, format Format) error {
	entries := sd.Entries()
	parsed := make([][]float64, len(entries))
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	next := 0
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if next >= len(entries) {
			return errors.Errorf("line %d: more tensors than the %d expected", lineNo, len(entries))
		}
		e := entries[next]
		if format == FormatAnnotated {
			if len(fields) < 2 {
				return errors.Errorf("line %d: missing name or shape", lineNo)
			}
			if fields[0] != e.Name {
				return errors.Errorf("line %d: tensor %s, want %s", lineNo, fields[0], e.Name)
			}
			if fields[1] != formatShape(e.Shape) {
				return errors.Errorf("line %d: %s has shape %s, want %s", lineNo, e.Name, fields[1], formatShape(e.Shape))
			}
			fields = fields[2:]
		}
		if len(fields) != len(e.Data) {
			return errors.Errorf("line %d: %s has %d values, want %d", lineNo, e.Name, len(fields), len(e.Data))
		}
		values := make([]float64, len(fields))
		for i, tok := range fields {
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return errors.Wrapf(err, "line %d: %s[%d]", lineNo, e.Name, i)
			}
			values[i] = v
		}
		parsed[next] = values
		next++
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "read parameters")
	}
	if next != len(entries) {
		return errors.Errorf("found %d tensors, want %d", next, len(entries))
	}
	for i, e := range entries {
		copy(e.Data, parsed[i])
	}
	return nil
}

func formatShape(shape []int) string {
	parts := make([]string, len(shape))
	for i, d := range shape {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ",")
}
