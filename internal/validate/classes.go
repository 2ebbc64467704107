package validate

import "github.com/gridkit/tablecore/internal/registry"

// NormalizeClasses implements spec.md §4.2's class-list normalization:
// unknown or malformed names are dropped; within each exclusiveGroup only
// the last occurrence survives; the relative order of non-exclusive
// entries is preserved, and exclusive survivors are appended after them.
func NormalizeClasses(classes []string, reg registry.Registry) []string {
	var nonExclusive []string
	lastExclusive := map[string]string{} // group -> winning class name
	groupOrder := []string{}
	seenGroup := map[string]bool{}

	for _, name := range classes {
		if !WellFormedClassName(name) {
			continue
		}
		desc, ok := reg.ClassByName(name)
		if !ok {
			continue
		}
		if desc.ExclusiveGroup != "" {
			if !seenGroup[desc.ExclusiveGroup] {
				seenGroup[desc.ExclusiveGroup] = true
				groupOrder = append(groupOrder, desc.ExclusiveGroup)
			}
			lastExclusive[desc.ExclusiveGroup] = name
			continue
		}
		nonExclusive = append(nonExclusive, name)
	}

	out := make([]string, 0, len(nonExclusive)+len(groupOrder))
	out = append(out, nonExclusive...)
	for _, group := range groupOrder {
		out = append(out, lastExclusive[group])
	}
	return out
}
