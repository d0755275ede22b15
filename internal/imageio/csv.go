package imageio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/umitools/cellseg/internal/grid"
)

// ReadFloatCSV reads a count grid from a CSV matrix, one row per line.
// Paths ending in .gz are transparently decompressed.
func ReadFloatCSV(path string) (*grid.Float64, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, err
	}

	parsed := make([][]float64, len(rows))
	for y, row := range rows {
		parsed[y] = make([]float64, len(row))
		for x, field := range row {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("failed to parse %s row %d column %d: %w", path, y+1, x+1, err)
			}
			parsed[y][x] = v
		}
	}
	return grid.Float64FromRows(parsed), nil
}

// ReadIntCSV reads an integer grid, such as bin assignments, from a CSV
// matrix. Paths ending in .gz are transparently decompressed.
func ReadIntCSV(path string) (*grid.Int, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, err
	}

	parsed := make([][]int, len(rows))
	for y, row := range rows {
		parsed[y] = make([]int, len(row))
		for x, field := range row {
			v, err := strconv.Atoi(field)
			if err != nil {
				return nil, fmt.Errorf("failed to parse %s row %d column %d: %w", path, y+1, x+1, err)
			}
			parsed[y][x] = v
		}
	}
	return grid.IntFromRows(parsed), nil
}

// WriteFloatCSV writes a float grid as a CSV matrix. Paths ending in .gz
// are gzip-compressed.
func WriteFloatCSV(path string, g *grid.Float64) error {
	return writeRows(path, g.H, g.W, func(x, y int) string {
		return strconv.FormatFloat(g.At(x, y), 'g', -1, 64)
	})
}

// WriteIntCSV writes an integer grid, such as labels, as a CSV matrix.
// Paths ending in .gz are gzip-compressed.
func WriteIntCSV(path string, g *grid.Int) error {
	return writeRows(path, g.H, g.W, func(x, y int) string {
		return strconv.Itoa(g.At(x, y))
	})
}

func readRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open matrix: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}

	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read matrix %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("matrix %s is empty", path)
	}
	return rows, nil
}

func writeRows(path string, h, w int, cell func(x, y int) string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create matrix: %w", err)
	}
	defer f.Close()

	var out io.Writer = f
	var gz *gzip.Writer
	if strings.HasSuffix(path, ".gz") {
		gz = gzip.NewWriter(f)
		defer gz.Close()
		out = gz
	}

	cw := csv.NewWriter(out)
	row := make([]string, w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			row[x] = cell(x, y)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write matrix row %d: %w", y+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to write matrix %s: %w", path, err)
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			return fmt.Errorf("failed to compress matrix %s: %w", path, err)
		}
	}
	return nil
}
