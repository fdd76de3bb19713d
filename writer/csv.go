package writer

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// CSVWriter writes one file per snapshot, a row per cell with its centroid
// followed by every field of the state
type CSVWriter struct {
	Dir    string
	Prefix string
	Files  []string
}

func NewCSVWriter(dir, prefix string) (*CSVWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &CSVWriter{Dir: dir, Prefix: prefix}, nil
}

func (cw *CSVWriter) Write(s *Snapshot) (err error) {
	var (
		path = filepath.Join(cw.Dir, fmt.Sprintf("%s_%06d.csv", cw.Prefix, s.Step))
		f    *os.File
	)
	if f, err = os.Create(path); err != nil {
		return
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	w := csv.NewWriter(f)
	header := append([]string{"time", "x", "y"}, s.Fields...)
	if err = w.Write(header); err != nil {
		return
	}
	t := strconv.FormatFloat(s.Time, 'g', 12, 64)
	row := make([]string, len(header))
	for i := 0; i < s.Nx; i++ {
		for j := 0; j < s.Ny; j++ {
			c := s.Centroids[i*s.Ny+j]
			row[0] = t
			row[1] = strconv.FormatFloat(c[0], 'g', 12, 64)
			row[2] = strconv.FormatFloat(c[1], 'g', 12, 64)
			for n, val := range s.Cell(i, j) {
				row[3+n] = strconv.FormatFloat(val, 'g', 12, 64)
			}
			if err = w.Write(row); err != nil {
				return
			}
		}
	}
	w.Flush()
	if err = w.Error(); err != nil {
		return
	}
	cw.Files = append(cw.Files, path)
	return
}

func (cw *CSVWriter) Close() error { return nil }
