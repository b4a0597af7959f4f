package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Artifact is the serialized form of a linear pipeline: standardized
// numeric features plus one-hot categorical levels.
type Artifact struct {
	Name        string            `json:"name" yaml:"name"`
	Version     string            `json:"version,omitempty" yaml:"version,omitempty"`
	Intercept   float64           `json:"intercept" yaml:"intercept"`
	Numeric     []NumericTerm     `json:"numeric" yaml:"numeric"`
	Categorical []CategoricalTerm `json:"categorical" yaml:"categorical"`
	// Floor clamps predictions from below; nil disables clamping.
	Floor *float64 `json:"floor,omitempty" yaml:"floor,omitempty"`
}

type NumericTerm struct {
	Column string  `json:"column" yaml:"column"`
	Weight float64 `json:"weight" yaml:"weight"`
	Mean   float64 `json:"mean" yaml:"mean"`
	Scale  float64 `json:"scale" yaml:"scale"`
}

type CategoricalTerm struct {
	Column  string             `json:"column" yaml:"column"`
	Levels  map[string]float64 `json:"levels" yaml:"levels"`
	Unknown float64            `json:"unknown" yaml:"unknown"`
}

// LoadArtifact reads a JSON or YAML artifact, chosen by extension.
func LoadArtifact(path string) (Artifact, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Artifact{}, err
	}
	var a Artifact
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &a)
	default:
		err = json.Unmarshal(raw, &a)
	}
	if err != nil {
		return Artifact{}, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := a.validate(); err != nil {
		return Artifact{}, fmt.Errorf("artifact %s: %w", path, err)
	}
	if a.Name == "" {
		a.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return a, nil
}

func (a Artifact) validate() error {
	if len(a.Numeric)+len(a.Categorical) == 0 {
		return errors.New("no terms")
	}
	seen := make(map[string]bool)
	for _, col := range a.columns() {
		if strings.TrimSpace(col) == "" {
			return errors.New("term with empty column")
		}
		if seen[col] {
			return fmt.Errorf("duplicate column %q", col)
		}
		seen[col] = true
	}
	return nil
}

func (a Artifact) columns() []string {
	out := make([]string, 0, len(a.Numeric)+len(a.Categorical))
	for _, n := range a.Numeric {
		out = append(out, n.Column)
	}
	for _, c := range a.Categorical {
		out = append(out, c.Column)
	}
	return out
}
