package workload

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCellsOrder(t *testing.T) {
	m := Matrix{
		ReadWrite: Axis{
			{Flags: []string{"-r0", "-w1"}, Label: "0R100W"},
			{Flags: []string{"-r1", "-w0"}, Label: "100R0W"},
		},
		InsertDelete: Axis{
			{Flags: []string{"-n1", "-d0"}, Label: "100I0R"},
		},
	}

	var got []string
	for _, c := range m.Cells() {
		got = append(got, c.String())
	}

	want := []string{"0R100W_100I0R", "100R0W_100I0R"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("cell order mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultMatrixSize(t *testing.T) {
	m := DefaultMatrix()

	if m.Size() != 15 {
		t.Errorf("size = %d, want 15", m.Size())
	}

	cells := m.Cells()
	if len(cells) != m.Size() {
		t.Fatalf("got %d cells, want %d", len(cells), m.Size())
	}

	seen := make(map[string]bool)
	for _, c := range cells {
		if seen[c.String()] {
			t.Errorf("duplicate cell %s", c)
		}
		seen[c.String()] = true
	}

	if cells[0].String() != "0R_100W_50I_50R" {
		t.Errorf("first cell = %s", cells[0])
	}
	if cells[len(cells)-1].String() != "100R_0W_100I_0R" {
		t.Errorf("last cell = %s", cells[len(cells)-1])
	}
}

func TestDefaultMatrixIsNormalized(t *testing.T) {
	_, fixes, err := DefaultMatrix().Normalize()
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if len(fixes) != 0 {
		t.Errorf("default matrix needed fixes: %+v", fixes)
	}
}

func TestCellFlags(t *testing.T) {
	c := Cell{
		ReadWrite:    Entry{Flags: []string{"-r4", "-w1"}, Label: "80R_20W"},
		InsertDelete: Entry{Flags: []string{"-n4", "-d1"}, Label: "80I_20R"},
	}

	want := []string{"-r4", "-w1", "-n4", "-d1"}
	if diff := cmp.Diff(want, c.Flags()); diff != "" {
		t.Errorf("flags mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeAddsMissingDash(t *testing.T) {
	m := Matrix{
		ReadWrite:    Axis{{Flags: []string{"-r4", "w1"}, Label: "80R_20W"}},
		InsertDelete: Axis{{Flags: []string{"-n1", "-d0"}, Label: "100I_0R"}},
	}

	got, fixes, err := m.Normalize()
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if diff := cmp.Diff([]string{"-r4", "-w1"}, got.ReadWrite[0].Flags); diff != "" {
		t.Errorf("flags mismatch (-want +got):\n%s", diff)
	}

	wantFixes := []Fix{{Axis: "read_write", Label: "80R_20W", From: "w1", To: "-w1"}}
	if diff := cmp.Diff(wantFixes, fixes); diff != "" {
		t.Errorf("fixes mismatch (-want +got):\n%s", diff)
	}

	if m.ReadWrite[0].Flags[1] != "w1" {
		t.Error("Normalize modified its receiver")
	}
}

func TestNormalizeErrors(t *testing.T) {
	ok := Axis{{Flags: []string{"-n1"}, Label: "a"}}

	tests := []struct {
		name string
		m    Matrix
	}{
		{name: "empty outer axis", m: Matrix{InsertDelete: ok}},
		{name: "empty inner axis", m: Matrix{ReadWrite: ok}},
		{
			name: "duplicate label",
			m: Matrix{
				ReadWrite:    Axis{{Label: "x"}, {Label: "x"}},
				InsertDelete: ok,
			},
		},
		{
			name: "missing label",
			m:    Matrix{ReadWrite: Axis{{Flags: []string{"-r1"}}}, InsertDelete: ok},
		},
		{
			name: "path separator in label",
			m:    Matrix{ReadWrite: Axis{{Label: "a/b"}}, InsertDelete: ok},
		},
		{
			name: "empty flag",
			m:    Matrix{ReadWrite: ok, InsertDelete: Axis{{Flags: []string{" "}, Label: "b"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tt.m.Normalize()
			if !errors.Is(err, ErrInvalidMatrix) {
				t.Errorf("err = %v, want ErrInvalidMatrix", err)
			}
		})
	}
}
