package ingest

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"salary-backend/internal/dataset"
)

// NativeExtractor rebuilds tables from positioned text using
// github.com/ledongthuc/pdf. Cells are split where the horizontal gap
// between runs exceeds the font size.
type NativeExtractor struct{}

func (NativeExtractor) Name() string { return "native" }

// Extract reads every page and assembles rows under the first header line.
func (NativeExtractor) Extract(ctx context.Context, data []byte) (t *dataset.Table, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			t = nil
			err = fmt.Errorf("%w: %v", ErrMalformedDocument, rec)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}

	var lines [][]textRun
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return nil, fmt.Errorf("%w: page %d: %v", ErrMalformedDocument, i, err)
		}
		for _, row := range rows {
			line := make([]textRun, 0, len(row.Content))
			for _, text := range row.Content {
				line = append(line, textRun{X: text.X, W: text.W, FontSize: text.FontSize, S: text.S})
			}
			lines = append(lines, line)
		}
	}
	return buildTable(lines)
}

type textRun struct {
	X        float64
	W        float64
	FontSize float64
	S        string
}

// buildTable takes the first line with at least two cells as the header and
// keeps subsequent lines of the same width. Repeated header lines are
// dropped.
func buildTable(lines [][]textRun) (*dataset.Table, error) {
	var t *dataset.Table
	for _, line := range lines {
		cells := splitCells(line)
		if t == nil {
			if len(cells) >= 2 {
				t = dataset.New(cells...)
			}
			continue
		}
		if len(cells) != len(t.Columns) || equalCells(cells, t.Columns) {
			continue
		}
		t.Rows = append(t.Rows, cells)
	}
	if t == nil {
		return nil, ErrNoTables
	}
	return t, nil
}

func splitCells(line []textRun) []string {
	runs := make([]textRun, 0, len(line))
	for _, r := range line {
		if strings.TrimSpace(r.S) != "" || len(runs) > 0 {
			runs = append(runs, r)
		}
	}
	if len(runs) == 0 {
		return nil
	}
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].X < runs[j].X })

	var cells []string
	var cur strings.Builder
	end := runs[0].X
	for i, r := range runs {
		size := r.FontSize
		if size <= 0 {
			size = 10
		}
		gap := r.X - end
		switch {
		case i == 0:
		case gap > size:
			cells = appendCell(cells, cur.String())
			cur.Reset()
		case gap > size*0.15 && !strings.HasPrefix(r.S, " "):
			cur.WriteByte(' ')
		}
		cur.WriteString(r.S)
		if e := r.X + r.W; e > end || i == 0 {
			end = e
		}
	}
	return appendCell(cells, cur.String())
}

func appendCell(cells []string, s string) []string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return cells
	}
	return append(cells, s)
}

func equalCells(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
