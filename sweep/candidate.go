package sweep

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCandidates is returned when the candidate table fails
// validation.
var ErrInvalidCandidates = errors.New("invalid candidates")

// Candidate is one map implementation selected at build time.
type Candidate struct {
	// Name is used verbatim in the build directory name.
	Name string `yaml:"name" json:"name"`
	// Selector is the adapter header the build compiles against.
	Selector       string   `yaml:"selector" json:"selector"`
	BuildOptions   []string `yaml:"build_options" json:"build_options,omitempty"`
	RuntimeOptions []string `yaml:"runtime_options" json:"runtime_options,omitempty"`
}

// DefaultCandidates returns the built-in candidate table.
func DefaultCandidates() []Candidate {
	return []Candidate{
		{
			Name:           "leapfrog",
			Selector:       "junction/extra/impl/MapAdapter_Leapfrog.h",
			RuntimeOptions: []string{"-i10000", "-c200"},
		},
		{
			Name:           "grampa",
			Selector:       "junction/extra/impl/MapAdapter_Grampa.h",
			RuntimeOptions: []string{"-i10000", "-c200"},
		},
		{
			Name:     "cuckoo",
			Selector: "junction/extra/impl/MapAdapter_LibCuckoo.h",
			BuildOptions: []string{
				"-DJUNCTION_WITH_LIBCUCKOO=1",
				"-DTURF_WITH_EXCEPTIONS=1",
			},
			RuntimeOptions: []string{"-c20", "-i5000"},
		},
	}
}

// ValidateCandidates checks that names are unique and usable in a
// directory name and that every selector can be embedded in the
// generated artifact.
func ValidateCandidates(candidates []Candidate) error {
	if len(candidates) == 0 {
		return fmt.Errorf("%w: no candidates", ErrInvalidCandidates)
	}

	seen := make(map[string]bool, len(candidates))

	for i, c := range candidates {
		switch {
		case c.Name == "":
			return fmt.Errorf("%w: candidate %d has no name", ErrInvalidCandidates, i)
		case strings.ContainsAny(c.Name, `/\:*?"<>| `):
			return fmt.Errorf("%w: candidate name %q is not usable in a directory name",
				ErrInvalidCandidates, c.Name)
		case seen[c.Name]:
			return fmt.Errorf("%w: duplicate candidate %q", ErrInvalidCandidates, c.Name)
		case c.Selector == "":
			return fmt.Errorf("%w: candidate %q has no selector", ErrInvalidCandidates, c.Name)
		case strings.ContainsAny(c.Selector, "\"\n\r"):
			return fmt.Errorf("%w: candidate %q selector contains a quote or newline",
				ErrInvalidCandidates, c.Name)
		}

		seen[c.Name] = true
	}

	return nil
}
