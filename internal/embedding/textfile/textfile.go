// Package textfile reads entity vectors exported from a trained model in the
// word2vec text format:
//
//	3 4
//	alice 0.1 0.2 0.3 0.4
//	bob 0.5 0.1 0.0 0.2
//
// The count/dimension header line is optional. When a line contains a tab,
// the tag is everything before the first tab, so document tags may contain
// spaces.
package textfile

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"clusterviz/internal/domain"
	"clusterviz/internal/embedding"
)

// Source loads vectors from a file on every call.
type Source struct {
	path string
}

// NewSource creates a Source reading path.
func NewSource(path string) *Source { return &Source{path: path} }

// Vectors reads every vector in the file. Entities are not used to filter:
// the plot shows everything the model knows, clustered or not.
func (s *Source) Vectors(ctx context.Context, _ []string) ([]domain.EntityVector, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	vectors, err := Read(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	return vectors, nil
}

// Read parses vectors from r.
func Read(ctx context.Context, r io.Reader) ([]domain.EntityVector, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var out []domain.EntityVector
	dim := 0
	lineNo := 0
	for sc.Scan() {
		lineNo++
		if lineNo%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		line := strings.TrimRight(sc.Text(), " \t")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if lineNo == 1 && isHeader(line) {
			continue
		}
		tag, rest := splitTag(line)
		fields := strings.Fields(rest)
		if tag == "" || len(fields) == 0 {
			return nil, fmt.Errorf("line %d: expected a tag followed by components", lineNo)
		}
		vec := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: component %d: %w", lineNo, i+1, err)
			}
			vec[i] = v
		}
		if dim == 0 {
			dim = len(vec)
		} else if len(vec) != dim {
			return nil, fmt.Errorf("line %d: %w: got %d, want %d", lineNo, embedding.ErrDimensionMismatch, len(vec), dim)
		}
		out = append(out, domain.EntityVector{Tag: tag, Vector: vec})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, embedding.ErrNoVectors
	}
	return out, nil
}

func isHeader(line string) bool {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return false
	}
	for _, f := range fields {
		if _, err := strconv.Atoi(f); err != nil {
			return false
		}
	}
	return true
}

func splitTag(line string) (string, string) {
	if i := strings.IndexByte(line, '\t'); i >= 0 {
		return line[:i], line[i+1:]
	}
	line = strings.TrimLeft(line, " ")
	i := strings.IndexByte(line, ' ')
	if i < 0 {
		return line, ""
	}
	return line[:i], line[i+1:]
}
