package validate

import (
	"fmt"
	"strings"

	"github.com/gridkit/tablecore/internal/document"
	"github.com/gridkit/tablecore/internal/registry"
	"github.com/gridkit/tablecore/pkg/docerr"
)

// ValidateDocument composes document.ValidateShape's structural checks
// with strict registry validation of every cell's classes and data
// attributes (spec.md §4.2, §6 import policy). Under strict mode, unknown
// class/attribute names, invalid attribute values, and exclusive-group
// conflicts are all errors.
func ValidateDocument(doc document.Document, reg registry.Registry) docerr.Result {
	if res := document.ValidateShape(doc); !res.OK {
		return res
	}

	strict := reg.Rules.ImportPolicy == "" || reg.Rules.ImportPolicy == "strict"
	if !strict {
		return docerr.Ok(nil)
	}

	var problems []string
	for _, cell := range doc.Cells {
		problems = append(problems, validateCellClasses(cell, reg)...)
		problems = append(problems, validateCellData(cell, reg)...)
	}

	if len(problems) == 0 {
		return docerr.Ok(nil)
	}
	return docerr.Fail(docerr.Registry, map[string]any{"problems": problems}, strings.Join(problems, "; "))
}

func validateCellClasses(cell document.Cell, reg registry.Registry) []string {
	var problems []string
	groupSeen := map[string]string{}
	for _, name := range cell.Classes {
		desc, ok := reg.ClassByName(name)
		if !ok {
			problems = append(problems, fmt.Sprintf("%s: неизвестный класс %q at (%d,%d)", docerr.UnknownClass, name, cell.R, cell.C))
			continue
		}
		if reg.Rules.ClassExclusivity && desc.ExclusiveGroup != "" {
			if prior, exists := groupSeen[desc.ExclusiveGroup]; exists && prior != name {
				problems = append(problems, fmt.Sprintf("%s: classes %q and %q conflict in exclusive group %q at (%d,%d)", docerr.ExclusiveGroupConflict, prior, name, desc.ExclusiveGroup, cell.R, cell.C))
			}
			groupSeen[desc.ExclusiveGroup] = name
		}
	}
	return problems
}

func validateCellData(cell document.Cell, reg registry.Registry) []string {
	var problems []string
	for key, value := range cell.Data {
		attr, ok := reg.AttrByName(key)
		if !ok {
			problems = append(problems, fmt.Sprintf("%s: unknown attribute %q at (%d,%d)", docerr.UnknownAttribute, key, cell.R, cell.C))
			continue
		}
		if res := AttributeValid(attr, value); !res.OK {
			problems = append(problems, fmt.Sprintf("%s at (%d,%d)", res.Error(), cell.R, cell.C))
		}
	}
	return problems
}

// ParseTableJSON is spec.md §6's parseTableJson: decode rawJSON into a
// Document and run ValidateDocument against reg, returning a single
// failure Result with a concatenated, human-readable error list on any
// problem.
func ParseTableJSON(rawJSON []byte, reg registry.Registry, unmarshal func([]byte, any) error) (document.Document, docerr.Result) {
	var doc document.Document
	if err := unmarshal(rawJSON, &doc); err != nil {
		return document.Document{}, docerr.Fail(docerr.Shape, nil, "invalid JSON: %v", err)
	}
	return doc, ValidateDocument(doc, reg)
}
