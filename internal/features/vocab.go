// Package features turns a single employee profile into the one-row record
// layout the salary model was trained on.
package features

import "strings"

// Base field column names, in model order.
const (
	ColAge             = "Age"
	ColGender          = "Gender"
	ColEducation       = "Education Level"
	ColJobTitle        = "Job Title"
	ColYears           = "Years of Experience"
	ColIndustry        = "Industry"
	ColLocation        = "Location"
	ColCompanySize     = "Company Size"
	ColMarketIndex     = "Market Index"
	ColPredictedSalary = "Predicted_Salary"

	skillPrefix = "Skill_"
)

const (
	MinAge   = 18
	MaxAge   = 65
	MinYears = 0
	MaxYears = 40
)

// BaseColumns lists the eight base fields in model order.
var BaseColumns = []string{
	ColAge,
	ColGender,
	ColEducation,
	ColJobTitle,
	ColYears,
	ColIndustry,
	ColLocation,
	ColCompanySize,
}

var (
	Genders         = []string{"Male", "Female", "Other"}
	EducationLevels = []string{"High School", "Bachelor's", "Master's", "PhD"}
	Industries      = []string{"Technology", "Finance", "Healthcare", "Education", "Manufacturing", "Retail", "Consulting", "Other"}
	Locations       = []string{"Enugu", "Lagos", "Abuja", "Port Harcourt", "Kano", "Ibadan", "Kaduna", "Other"}
	CompanySizes    = []string{"Small (1-50)", "Medium (51-250)", "Large (251+)"}
)

// Skills is the canonical skill vocabulary, in model order.
var Skills = []string{
	"Python",
	"SQL",
	"Machine Learning",
	"Data Visualization",
	"Project Management",
	"AWS/Azure",
	"Excel",
	"Power BI",
	"Tableau",
}

// SkillColumn maps a skill name to its feature column, e.g. "AWS/Azure" -> "Skill_AWS_Azure".
func SkillColumn(skill string) string {
	r := strings.NewReplacer(" ", "_", "/", "_")
	return skillPrefix + r.Replace(skill)
}

// SkillColumns returns the feature column for every canonical skill.
func SkillColumns() []string {
	out := make([]string, len(Skills))
	for i, s := range Skills {
		out[i] = SkillColumn(s)
	}
	return out
}

// Columns returns the full record layout: base fields, market index, skills.
func Columns() []string {
	out := make([]string, 0, len(BaseColumns)+1+len(Skills))
	out = append(out, BaseColumns...)
	out = append(out, ColMarketIndex)
	return append(out, SkillColumns()...)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
