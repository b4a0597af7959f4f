package features

import (
	"strconv"

	"salary-backend/internal/dataset"
)

// Field is one named cell of an assembled record.
type Field struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// Record is the ordered, typed single-row model input.
type Record struct {
	Fields []Field
}

// Assemble builds the record for p with marketIndex broadcast into the
// Market Index column. Unselected skills encode as 0.
func Assemble(p Profile, marketIndex float64) Record {
	selected := make(map[string]bool, len(p.Skills))
	for _, s := range p.Skills {
		selected[s] = true
	}

	fields := make([]Field, 0, len(BaseColumns)+1+len(Skills))
	fields = append(fields,
		Field{ColAge, p.Age},
		Field{ColGender, p.Gender},
		Field{ColEducation, p.EducationLevel},
		Field{ColJobTitle, p.JobTitle},
		Field{ColYears, p.YearsOfExperience},
		Field{ColIndustry, p.Industry},
		Field{ColLocation, p.Location},
		Field{ColCompanySize, p.CompanySize},
		Field{ColMarketIndex, marketIndex},
	)
	for _, s := range Skills {
		flag := 0
		if selected[s] {
			flag = 1
		}
		fields = append(fields, Field{SkillColumn(s), flag})
	}
	return Record{Fields: fields}
}

// Get returns the value of column name.
func (r Record) Get(name string) (any, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Columns lists field names in order.
func (r Record) Columns() []string {
	out := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		out[i] = f.Name
	}
	return out
}

// Table renders the record as a one-row table.
func (r Record) Table() *dataset.Table {
	row := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		row[i] = formatValue(f.Value)
	}
	t := dataset.New(r.Columns()...)
	t.Rows = append(t.Rows, row)
	return t
}

// Map returns the record as column->value, for JSON responses.
func (r Record) Map() map[string]any {
	out := make(map[string]any, len(r.Fields))
	for _, f := range r.Fields {
		out[f.Name] = f.Value
	}
	return out
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return ""
	}
}
