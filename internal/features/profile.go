package features

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidProfile wraps every profile validation failure.
var ErrInvalidProfile = errors.New("invalid profile")

// Profile is the single-prediction input.
type Profile struct {
	Age               int
	Gender            string
	EducationLevel    string
	JobTitle          string
	YearsOfExperience int
	Industry          string
	Location          string
	CompanySize       string
	Skills            []string
}

// FieldError names the offending field.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationError collects all field errors of a profile.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Error()
	}
	return "invalid profile: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidProfile
}

// Validate checks enumerations, ranges and the skill vocabulary.
func (p Profile) Validate() error {
	var errs []FieldError
	add := func(field, format string, args ...any) {
		errs = append(errs, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if p.Age < MinAge || p.Age > MaxAge {
		add(ColAge, "must be between %d and %d", MinAge, MaxAge)
	}
	if p.YearsOfExperience < MinYears || p.YearsOfExperience > MaxYears {
		add(ColYears, "must be between %d and %d", MinYears, MaxYears)
	}
	if strings.TrimSpace(p.JobTitle) == "" {
		add(ColJobTitle, "is required")
	}
	checks := []struct {
		field string
		value string
		allow []string
	}{
		{ColGender, p.Gender, Genders},
		{ColEducation, p.EducationLevel, EducationLevels},
		{ColIndustry, p.Industry, Industries},
		{ColLocation, p.Location, Locations},
		{ColCompanySize, p.CompanySize, CompanySizes},
	}
	for _, c := range checks {
		if !contains(c.allow, c.value) {
			add(c.field, "%q is not one of %s", c.value, strings.Join(c.allow, ", "))
		}
	}
	for _, s := range p.Skills {
		if !contains(Skills, s) {
			add("Skills", "unknown skill %q", s)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Fields: errs}
}
