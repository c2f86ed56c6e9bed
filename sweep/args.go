package sweep

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// FlagPrefix marks a token that is forwarded to the configure step.
const FlagPrefix = "-"

// ErrInvalidArguments is returned when the command line does not name
// exactly one project path.
var ErrInvalidArguments = errors.New("invalid arguments")

// Args is the partitioned command line.
type Args struct {
	PassThrough []string
	ProjectDir  string
}

// Partition splits args into pass-through options and the single project
// path. ProjectDir is returned as given.
func Partition(args []string) (Args, error) {
	var (
		out   Args
		paths []string
	)

	for _, arg := range args {
		if strings.HasPrefix(arg, FlagPrefix) {
			out.PassThrough = append(out.PassThrough, arg)
		} else {
			paths = append(paths, arg)
		}
	}

	if len(paths) != 1 {
		return Args{}, fmt.Errorf(
			"%w: exactly one project path is required, got %d",
			ErrInvalidArguments, len(paths),
		)
	}

	out.ProjectDir = paths[0]

	return out, nil
}

// ParseArgs partitions args and resolves the project path to an absolute
// path.
func ParseArgs(args []string) (Args, error) {
	out, err := Partition(args)
	if err != nil {
		return Args{}, err
	}

	abs, err := filepath.Abs(out.ProjectDir)
	if err != nil {
		return Args{}, fmt.Errorf("resolve project path: %w", err)
	}

	out.ProjectDir = abs

	return out, nil
}
