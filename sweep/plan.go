package sweep

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/weiihann/mapsweep/workload"
)

// Plan is the full sweep definition: which candidates to build and which
// workload cells to run against each of them.
type Plan struct {
	Candidates []Candidate
	Matrix     workload.Matrix
}

// planFile is the on-disk form of a Plan. Omitted sections keep their
// defaults.
type planFile struct {
	Candidates   []Candidate   `yaml:"candidates"`
	ReadWrite    workload.Axis `yaml:"read_write"`
	InsertDelete workload.Axis `yaml:"insert_delete"`
}

// DefaultPlan returns the built-in candidates and the full matrix.
func DefaultPlan() Plan {
	return Plan{
		Candidates: DefaultCandidates(),
		Matrix:     workload.DefaultMatrix(),
	}
}

// LoadPlan reads a YAML plan file. An empty path yields DefaultPlan.
func LoadPlan(path string) (Plan, error) {
	if path == "" {
		return DefaultPlan(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Plan{}, fmt.Errorf("read plan file: %w", err)
	}

	return ParsePlan(data)
}

// ParsePlan decodes a YAML plan on top of DefaultPlan.
func ParsePlan(data []byte) (Plan, error) {
	var f planFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Plan{}, fmt.Errorf("parse plan YAML: %w", err)
	}

	p := DefaultPlan()

	if len(f.Candidates) > 0 {
		p.Candidates = f.Candidates
	}

	if len(f.ReadWrite) > 0 {
		p.Matrix.ReadWrite = f.ReadWrite
	}

	if len(f.InsertDelete) > 0 {
		p.Matrix.InsertDelete = f.InsertDelete
	}

	return p, nil
}

// Normalize validates the plan and returns a copy with normalized
// workload flags, along with any flag rewrites it made.
func (p Plan) Normalize() (Plan, []workload.Fix, error) {
	if err := ValidateCandidates(p.Candidates); err != nil {
		return Plan{}, nil, err
	}

	m, fixes, err := p.Matrix.Normalize()
	if err != nil {
		return Plan{}, nil, err
	}

	return Plan{Candidates: p.Candidates, Matrix: m}, fixes, nil
}
