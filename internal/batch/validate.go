package batch

import (
	"slices"
	"strconv"
	"strings"

	"salary-backend/internal/dataset"
	"salary-backend/internal/features"
)

// RequiredColumns must all be present in an uploaded batch.
var RequiredColumns = append([]string(nil), features.BaseColumns...)

// OptionalSkillColumns are backfilled with "0" when absent.
var OptionalSkillColumns = []string{
	features.SkillColumn("Python"),
	features.SkillColumn("SQL"),
	features.SkillColumn("Machine Learning"),
	features.SkillColumn("Data Visualization"),
	features.SkillColumn("Project Management"),
}

// MissingColumnsError lists every required column absent from an upload, in
// required-column order.
type MissingColumnsError struct {
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return "missing required columns: " + strings.Join(e.Missing, ", ")
}

func (e *MissingColumnsError) Is(target error) bool {
	return target == ErrMissingColumns
}

// MissingColumns returns the required columns t lacks.
func MissingColumns(t *dataset.Table) []string {
	var missing []string
	for _, col := range RequiredColumns {
		if !t.Has(col) {
			missing = append(missing, col)
		}
	}
	return missing
}

// Validate checks the required columns, then returns a working copy of t with
// absent optional skill columns set to 0 and marketIndex appended to every
// row. t itself is never modified.
func Validate(t *dataset.Table, marketIndex float64) (*dataset.Table, error) {
	if missing := MissingColumns(t); len(missing) > 0 {
		return nil, &MissingColumnsError{Missing: missing}
	}

	out := t.Clone()
	for _, col := range OptionalSkillColumns {
		if !out.Has(col) {
			out.AddColumn(col, "0")
		}
	}
	market := strconv.FormatFloat(marketIndex, 'f', -1, 64)
	if idx := out.Index(features.ColMarketIndex); idx >= 0 {
		for i := range out.Rows {
			out.Rows[i][idx] = market
		}
	} else {
		out.AddColumn(features.ColMarketIndex, market)
	}
	return out, nil
}

// FillModelSkills adds, as 0, every canonical skill column the model reads
// that t still lacks after Validate. Other schema columns are left for the
// model's own schema check.
func FillModelSkills(t *dataset.Table, schema []string) {
	canonical := features.SkillColumns()
	for _, col := range schema {
		if slices.Contains(canonical, col) && !t.Has(col) {
			t.AddColumn(col, "0")
		}
	}
}

// Template returns a CSV holding only the required header row.
func Template() []byte {
	data, _ := dataset.EncodeCSV(dataset.New(RequiredColumns...))
	return data
}
