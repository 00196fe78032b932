// Package pointfile reads and writes the flat point-file format: one "x,y"
// integer row per finalized point, no header.
package pointfile

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/relabs-tech/drawing_board/internal/board"
)

// Store implements board.PointStore on the local filesystem.
type Store struct{}

var _ board.PointStore = Store{}

// Write saves the points as header-less x,y rows.
func (Store) Write(name string, points []board.Coordinate) error {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("create point file: %w", err)
	}

	w := csv.NewWriter(f)
	for _, p := range points {
		if err := w.Write([]string{strconv.Itoa(p.X), strconv.Itoa(p.Y)}); err != nil {
			f.Close()
			return fmt.Errorf("write point file: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("write point file: %w", err)
	}
	return f.Close()
}

// Read parses a point file back into coordinates. Each row needs at least two
// integer columns; extra trailing columns are ignored.
func (Store) Read(name string) ([]board.Coordinate, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open point file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // rows may carry extra columns

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read point file: %w", err)
	}

	points := make([]board.Coordinate, 0, len(rows))
	for i, row := range rows {
		if len(row) < 2 {
			return nil, fmt.Errorf("point file row %d: need at least two columns, got %d", i+1, len(row))
		}
		x, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil {
			return nil, fmt.Errorf("point file row %d: %w", i+1, err)
		}
		y, err := strconv.Atoi(strings.TrimSpace(row[1]))
		if err != nil {
			return nil, fmt.Errorf("point file row %d: %w", i+1, err)
		}
		points = append(points, board.Coordinate{X: x, Y: y})
	}
	return points, nil
}
