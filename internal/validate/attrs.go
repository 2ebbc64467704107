// Package validate implements spec.md §4.2's Validator: attribute-value
// validity, class-list normalization, whole-document validation, and
// merge-operation geometry validation.
package validate

import (
	"fmt"
	"regexp"

	govalidator "github.com/go-playground/validator/v10"

	"github.com/gridkit/tablecore/internal/registry"
	"github.com/gridkit/tablecore/pkg/docerr"
)

// v is a singleton validator.Validate with the custom rules below
// registered, mirroring the teacher's pkg/validation.Validator() pattern.
var v *govalidator.Validate

var classNameToken = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

func instance() *govalidator.Validate {
	if v == nil {
		v = govalidator.New()
		_ = v.RegisterValidation("classtoken", func(fl govalidator.FieldLevel) bool {
			return classNameToken.MatchString(fl.Field().String())
		})
	}
	return v
}

// classNameInput is validated with the struct-tag form the teacher's
// pkg/validation package uses (validate:"..." tags plus a registered
// custom rule) rather than ad hoc string checks.
type classNameInput struct {
	Name string `validate:"required,classtoken"`
}

// WellFormedClassName reports whether name has the shape of a CSS class
// token (letters/digits/hyphen/underscore, starting with a letter),
// independent of whether it's registered. Malformed tokens are always
// dropped during normalization regardless of registry membership.
func WellFormedClassName(name string) bool {
	return instance().Struct(classNameInput{Name: name}) == nil
}

// AttributeValid checks value against attr's declared type (§4.2):
//   - enum: value must be one of attr.Values.
//   - number: value must be numeric, within [min,max] when set.
//   - boolean: value must be strictly a bool.
func AttributeValid(attr registry.AttrDesc, value any) docerr.Result {
	switch attr.Type {
	case registry.AttrEnum:
		s, ok := value.(string)
		if !ok {
			return docerr.Fail(docerr.InvalidAttributeValue, attrDetails(attr), "%s expects a string enum value", attr.Name)
		}
		for _, allowed := range attr.Values {
			if s == allowed {
				return docerr.Ok(nil)
			}
		}
		return docerr.Fail(docerr.InvalidAttributeValue, attrDetails(attr), "%s value %q is not one of %v", attr.Name, s, attr.Values)

	case registry.AttrNumber:
		n, ok := asFloat(value)
		if !ok {
			return docerr.Fail(docerr.InvalidAttributeValue, attrDetails(attr), "%s expects a numeric value", attr.Name)
		}
		if attr.Min != nil && n < *attr.Min {
			return docerr.Fail(docerr.InvalidAttributeValue, attrDetails(attr), "%s value %v is below minimum %v", attr.Name, n, *attr.Min)
		}
		if attr.Max != nil && n > *attr.Max {
			return docerr.Fail(docerr.InvalidAttributeValue, attrDetails(attr), "%s value %v is above maximum %v", attr.Name, n, *attr.Max)
		}
		return docerr.Ok(nil)

	case registry.AttrBoolean:
		if _, ok := value.(bool); !ok {
			return docerr.Fail(docerr.InvalidAttributeValue, attrDetails(attr), "%s expects a strict boolean, got %T", attr.Name, value)
		}
		return docerr.Ok(nil)
	}

	return docerr.Fail(docerr.Registry, attrDetails(attr), "unknown attribute type %q for %s", attr.Type, attr.Name)
}

func attrDetails(attr registry.AttrDesc) map[string]any {
	return map[string]any{"attribute": attr.Name, "type": attr.Type}
}

// asFloat accepts both float64 (the common case once JSON-decoded) and
// int-family values so callers building data programmatically aren't
// forced to box every number as float64.
func asFloat(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// ValidateDataMap checks every key in data against reg, under strict
// import policy: unknown keys and invalid values are errors, concatenated
// into a single Result per spec.md §6.
func ValidateDataMap(data map[string]any, reg registry.Registry) docerr.Result {
	var problems []string
	for key, value := range data {
		attr, ok := reg.AttrByName(key)
		if !ok {
			problems = append(problems, fmt.Sprintf("%s: unknown attribute %q", docerr.UnknownAttribute, key))
			continue
		}
		if res := AttributeValid(attr, value); !res.OK {
			problems = append(problems, res.Error())
		}
	}
	if len(problems) == 0 {
		return docerr.Ok(nil)
	}
	return docerr.Fail(docerr.Registry, map[string]any{"problems": problems}, joinProblems(problems))
}

func joinProblems(problems []string) string {
	out := ""
	for i, p := range problems {
		if i > 0 {
			out += "; "
		}
		out += p
	}
	return out
}
