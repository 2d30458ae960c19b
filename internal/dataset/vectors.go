package dataset

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// LoadVectors reads input vectors from path, one per line.
func LoadVectors(path string, dim int) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open inputs")
	}
	defer f.Close()

	vectors, err := ParseVectors(f, dim)
	if err != nil {
		return nil, errors.Wrapf(err, "parse inputs %s", path)
	}
	return vectors, nil
}

// ParseVectors reads whitespace-separated floats, one vector per line.
// Blank lines and lines starting with '#' are skipped. Every vector must
// have dim values; dim <= 0 accepts any width.
func ParseVectors(r io.Reader, dim int) ([][]float64, error) {
	var vectors [][]float64
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if dim > 0 && len(fields) != dim {
			return nil, errors.Errorf("line %d: %d values, want %d", lineNo, len(fields), dim)
		}
		vec := make([]float64, len(fields))
		for i, tok := range fields {
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", lineNo)
			}
			vec[i] = v
		}
		vectors = append(vectors, vec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, errors.New("no input vectors")
	}
	return vectors, nil
}
