// Package registry describes the permitted CSS classes and data-*
// attributes a document's cells may carry, and composes a core descriptor
// with an optional project-specific override file.
package registry

// AttrType is the declared value type of a data-* attribute.
type AttrType string

const (
	AttrEnum    AttrType = "enum"
	AttrNumber  AttrType = "number"
	AttrBoolean AttrType = "boolean"
)

// ClassDesc describes one permitted CSS class.
type ClassDesc struct {
	Name           string `json:"name"`
	Group          string `json:"group,omitempty"`
	ExclusiveGroup string `json:"exclusiveGroup,omitempty"`
	Label          string `json:"label,omitempty"`
	Description    string `json:"description,omitempty"`
}

// AttrDesc describes one permitted data-* attribute.
type AttrDesc struct {
	Name        string   `json:"name"`
	Type        AttrType `json:"type"`
	Values      []string `json:"values,omitempty"`
	Min         *float64 `json:"min,omitempty"`
	Max         *float64 `json:"max,omitempty"`
	Default     any      `json:"default,omitempty"`
	Label       string   `json:"label,omitempty"`
	Description string   `json:"description,omitempty"`
	QuickToggle bool     `json:"quickToggle,omitempty"`
}

// Rules are the registry-wide behavioral switches.
type Rules struct {
	ImportPolicy     string `json:"importPolicy,omitempty"`
	ClassExclusivity bool   `json:"classExclusivity"`
}

// Registry is the static descriptor of everything a cell is allowed to
// carry. Registries are immutable value objects; mutation happens by
// building a new one via Merge.
type Registry struct {
	Version        int        `json:"version"`
	Classes        []ClassDesc `json:"classes"`
	DataAttributes []AttrDesc  `json:"dataAttributes"`
	Rules          Rules       `json:"rules"`
}

// ClassByName returns the descriptor for name, if registered.
func (r Registry) ClassByName(name string) (ClassDesc, bool) {
	for _, c := range r.Classes {
		if c.Name == name {
			return c, true
		}
	}
	return ClassDesc{}, false
}

// AttrByName returns the descriptor for a data-* attribute name
// (including the "data-" prefix), if registered.
func (r Registry) AttrByName(name string) (AttrDesc, bool) {
	for _, a := range r.DataAttributes {
		if a.Name == name {
			return a, true
		}
	}
	return AttrDesc{}, false
}

// Merge composes core and project descriptors: classes and attributes are
// unioned by name, with project entries overriding core entries of the
// same name; Rules is a shallow merge with project winning on any field
// it sets explicitly (ImportPolicy non-empty, otherwise core's value is
// kept; ClassExclusivity is taken from project whenever project itself is
// non-zero-valued, i.e. project is passed with the field meaningfully set).
func Merge(core, project Registry) Registry {
	out := Registry{
		Version: core.Version,
		Rules:   core.Rules,
	}
	if project.Version != 0 {
		out.Version = project.Version
	}

	classIndex := map[string]int{}
	for _, c := range core.Classes {
		classIndex[c.Name] = len(out.Classes)
		out.Classes = append(out.Classes, c)
	}
	for _, c := range project.Classes {
		if i, ok := classIndex[c.Name]; ok {
			out.Classes[i] = c
			continue
		}
		classIndex[c.Name] = len(out.Classes)
		out.Classes = append(out.Classes, c)
	}

	attrIndex := map[string]int{}
	for _, a := range core.DataAttributes {
		attrIndex[a.Name] = len(out.DataAttributes)
		out.DataAttributes = append(out.DataAttributes, a)
	}
	for _, a := range project.DataAttributes {
		if i, ok := attrIndex[a.Name]; ok {
			out.DataAttributes[i] = a
			continue
		}
		attrIndex[a.Name] = len(out.DataAttributes)
		out.DataAttributes = append(out.DataAttributes, a)
	}

	if project.Rules.ImportPolicy != "" {
		out.Rules.ImportPolicy = project.Rules.ImportPolicy
	}
	if project.Rules.ClassExclusivity {
		out.Rules.ClassExclusivity = true
	}

	return out
}
