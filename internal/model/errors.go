package model

import (
	"errors"
	"strings"
)

var (
	// ErrModelUnavailable means no artifact could be loaded; prediction is disabled.
	ErrModelUnavailable = errors.New("prediction model unavailable")

	// ErrSchemaMismatch matches any *SchemaMismatchError.
	ErrSchemaMismatch = errors.New("model schema mismatch")

	// ErrInference matches any *InferenceError.
	ErrInference = errors.New("model inference failed")
)

// SchemaMismatchError lists columns the model expects but the input lacks,
// and columns the input carries that the model never reads.
type SchemaMismatchError struct {
	Model      string
	Missing    []string
	Unexpected []string
}

func (e *SchemaMismatchError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "expects columns not present in input: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Unexpected) > 0 {
		parts = append(parts, "does not read input columns: "+strings.Join(e.Unexpected, ", "))
	}
	return "model " + e.Model + " " + strings.Join(parts, "; ")
}

func (e *SchemaMismatchError) Is(target error) bool {
	return target == ErrSchemaMismatch
}

// InferenceError wraps a failure raised while scoring rows. Its message is
// meant to be shown to the caller unchanged.
type InferenceError struct {
	Err error
}

func (e *InferenceError) Error() string {
	return e.Err.Error()
}

func (e *InferenceError) Is(target error) bool {
	return target == ErrInference
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}

// UnavailableError records why every resolver failed.
type UnavailableError struct {
	Attempts []string
}

func (e *UnavailableError) Error() string {
	return "prediction model unavailable: " + strings.Join(e.Attempts, "; ")
}

func (e *UnavailableError) Is(target error) bool {
	return target == ErrModelUnavailable
}

// Remediation is shown to users when prediction is disabled.
const Remediation = "Place a trained model artifact at best_salary_model.json (or models/best_salary_model.json), set MODEL_PATHS, or configure MODEL_ENDPOINT, then restart the service."
