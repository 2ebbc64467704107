package registry

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gridkit/tablecore/internal/security"
)

// PathValidator gates which descriptor files may be opened from disk.
type PathValidator interface {
	ValidateOpenPath(input string) (string, error)
}

// LoadProjectDescriptor reads a project registry descriptor from path,
// gated through validator (typically an *security.Manager restricted to
// .json files under operator-configured allow-list directories), and
// merges it over Core. A nil validator loads the path unchecked, which is
// only appropriate for trusted, operator-embedded paths (e.g. a path baked
// into the binary at build time).
func LoadProjectDescriptor(path string, validator PathValidator) (Registry, error) {
	real := path
	if validator != nil {
		r, err := validator.ValidateOpenPath(path)
		if err != nil {
			return Registry{}, fmt.Errorf("registry: project descriptor rejected: %w", err)
		}
		real = r
	}

	data, err := os.ReadFile(real)
	if err != nil {
		return Registry{}, fmt.Errorf("registry: read project descriptor: %w", err)
	}

	var project Registry
	if err := json.Unmarshal(data, &project); err != nil {
		return Registry{}, fmt.Errorf("registry: parse project descriptor: %w", err)
	}

	return Merge(Core, project), nil
}

var _ PathValidator = (*security.Manager)(nil)
