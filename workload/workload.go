// Package workload defines the runtime parameter matrix swept for every
// candidate: a read/write axis crossed with an insert/delete axis.
package workload

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidMatrix is returned when an axis fails validation.
var ErrInvalidMatrix = errors.New("invalid workload matrix")

// Entry is one labeled set of benchmark flags on an axis.
type Entry struct {
	Flags []string `yaml:"flags" json:"flags"`
	Label string   `yaml:"label" json:"label"`
}

// Axis is an ordered list of entries.
type Axis []Entry

// Matrix is the two-axis workload grid. ReadWrite is the outer axis.
type Matrix struct {
	ReadWrite    Axis
	InsertDelete Axis
}

// Cell is one point of the matrix.
type Cell struct {
	ReadWrite    Entry
	InsertDelete Entry
}

// Flags returns the read/write flags followed by the insert/delete flags.
func (c Cell) Flags() []string {
	flags := make([]string, 0, len(c.ReadWrite.Flags)+len(c.InsertDelete.Flags))
	flags = append(flags, c.ReadWrite.Flags...)

	return append(flags, c.InsertDelete.Flags...)
}

func (c Cell) String() string {
	return c.ReadWrite.Label + "_" + c.InsertDelete.Label
}

// DefaultReadWrite is the read/write mix axis: 0R 100W, 20R 80W, 50R 50W,
// 80R 20W, 100R 0W.
func DefaultReadWrite() Axis {
	return Axis{
		{Flags: []string{"-r0", "-w1"}, Label: "0R_100W"},
		{Flags: []string{"-r1", "-w4"}, Label: "20R_80W"},
		{Flags: []string{"-r1", "-w1"}, Label: "50R_50W"},
		{Flags: []string{"-r4", "-w1"}, Label: "80R_20W"},
		{Flags: []string{"-r1", "-w0"}, Label: "100R_0W"},
	}
}

// DefaultInsertDelete is the insert/remove mix axis.
func DefaultInsertDelete() Axis {
	return Axis{
		{Flags: []string{"-n1", "-d1"}, Label: "50I_50R"},
		{Flags: []string{"-n4", "-d1"}, Label: "80I_20R"},
		{Flags: []string{"-n1", "-d0"}, Label: "100I_0R"},
	}
}

// DefaultMatrix returns the full default grid.
func DefaultMatrix() Matrix {
	return Matrix{
		ReadWrite:    DefaultReadWrite(),
		InsertDelete: DefaultInsertDelete(),
	}
}

// Size returns the number of cells.
func (m Matrix) Size() int {
	return len(m.ReadWrite) * len(m.InsertDelete)
}

// Cells returns the cross-product, read/write outer and insert/delete
// inner. The order is stable across calls.
func (m Matrix) Cells() []Cell {
	cells := make([]Cell, 0, m.Size())

	for _, rw := range m.ReadWrite {
		for _, id := range m.InsertDelete {
			cells = append(cells, Cell{ReadWrite: rw, InsertDelete: id})
		}
	}

	return cells
}

// Fix describes a flag token rewritten during normalization.
type Fix struct {
	Axis  string
	Label string
	From  string
	To    string
}

// Normalize validates both axes and returns a copy in which every flag
// token carries a leading dash. Rewritten tokens are reported as fixes.
func (m Matrix) Normalize() (Matrix, []Fix, error) {
	var fixes []Fix

	rw, rwFixes, err := m.ReadWrite.normalize("read_write")
	if err != nil {
		return Matrix{}, nil, err
	}

	fixes = append(fixes, rwFixes...)

	id, idFixes, err := m.InsertDelete.normalize("insert_delete")
	if err != nil {
		return Matrix{}, nil, err
	}

	fixes = append(fixes, idFixes...)

	return Matrix{ReadWrite: rw, InsertDelete: id}, fixes, nil
}

func (a Axis) normalize(name string) (Axis, []Fix, error) {
	if len(a) == 0 {
		return nil, nil, fmt.Errorf("%w: axis %s is empty", ErrInvalidMatrix, name)
	}

	var fixes []Fix

	seen := make(map[string]bool, len(a))
	out := make(Axis, 0, len(a))

	for i, e := range a {
		if err := validateLabel(e.Label); err != nil {
			return nil, nil, fmt.Errorf("%w: axis %s entry %d: %w",
				ErrInvalidMatrix, name, i, err)
		}

		if seen[e.Label] {
			return nil, nil, fmt.Errorf("%w: axis %s has duplicate label %q",
				ErrInvalidMatrix, name, e.Label)
		}

		seen[e.Label] = true

		flags := make([]string, 0, len(e.Flags))

		for _, f := range e.Flags {
			trimmed := strings.TrimSpace(f)
			if trimmed == "" || trimmed == "-" {
				return nil, nil, fmt.Errorf("%w: axis %s label %q has empty flag",
					ErrInvalidMatrix, name, e.Label)
			}

			if !strings.HasPrefix(trimmed, "-") {
				fixed := "-" + trimmed
				fixes = append(fixes, Fix{Axis: name, Label: e.Label, From: f, To: fixed})
				trimmed = fixed
			}

			flags = append(flags, trimmed)
		}

		out = append(out, Entry{Flags: flags, Label: e.Label})
	}

	return out, fixes, nil
}

func validateLabel(label string) error {
	if label == "" {
		return errors.New("empty label")
	}

	if strings.ContainsAny(label, `/\:*?"<>|`) || strings.TrimSpace(label) != label {
		return fmt.Errorf("label %q is not usable in a file name", label)
	}

	return nil
}
