// Package docerr provides a structured error catalog for the table
// document core. Pure operations (merge, split, insert/delete, paste
// application, validators, parsers) return a Result instead of a Go error
// so callers can branch on a stable Code without string matching.
package docerr

import (
	"fmt"
	"strings"
)

// Code is a canonical failure category shared across the document core.
type Code string

const (
	// Shape: input fails basic structural checks.
	Shape Code = "SHAPE"

	// Bounds: coordinate or range outside the grid.
	Bounds Code = "BOUNDS"

	// Geometry: merge conflict or interior-cut delete.
	Geometry            Code = "GEOMETRY"
	InteriorMergeCut     Code = "INTERIOR_MERGE_CUT"
	PartialOverlap       Code = "PARTIAL_OVERLAP"

	// Registry: unknown class/attribute, bad value, exclusive-group conflict.
	Registry               Code = "REGISTRY"
	UnknownClass            Code = "UNKNOWN_CLASS"
	UnknownAttribute        Code = "UNKNOWN_ATTRIBUTE"
	InvalidAttributeValue   Code = "INVALID_ATTRIBUTE_VALUE"
	ExclusiveGroupConflict  Code = "EXCLUSIVE_GROUP_CONFLICT"

	// Argument: non-string where string expected, negative counts, etc.
	Argument Code = "ARGUMENT"

	// Covered: a coordinate inside a merge rectangle but not its leading cell.
	Covered Code = "COVERED"

	// Busy: the runtime admission controller could not reserve capacity
	// before its acquire timeout elapsed.
	Busy Code = "BUSY_RESOURCE"
)

// Entry documents a code's standard message.
type Entry struct {
	Code    Code
	Message string
}

var catalog = map[Code]Entry{
	Shape:   {Code: Shape, Message: "document fails structural validation"},
	Bounds:  {Code: Bounds, Message: "coordinate or range outside the grid"},

	Geometry:         {Code: Geometry, Message: "merge geometry conflict"},
	InteriorMergeCut: {Code: InteriorMergeCut, Message: "delete range cuts through the interior of a merged cell"},
	PartialOverlap:   {Code: PartialOverlap, Message: "range partially overlaps an existing merge"},

	Registry:               {Code: Registry, Message: "registry validation failed"},
	UnknownClass:           {Code: UnknownClass, Message: "неизвестный класс: class is not in the registry"},
	UnknownAttribute:       {Code: UnknownAttribute, Message: "data attribute is not in the registry"},
	InvalidAttributeValue:  {Code: InvalidAttributeValue, Message: "data attribute value does not match its registry type"},
	ExclusiveGroupConflict: {Code: ExclusiveGroupConflict, Message: "more than one class in the same exclusive group"},

	Argument: {Code: Argument, Message: "invalid argument"},
	Covered:  {Code: Covered, Message: "coordinate is covered by a merge, not a leading cell"},
	Busy:     {Code: Busy, Message: "concurrent operation limit reached, please retry shortly"},
}

// Result is the structured outcome of a pure document-core operation.
type Result struct {
	OK      bool           `json:"ok"`
	Code    Code           `json:"code,omitempty"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// Ok builds a successful Result, optionally carrying caller-defined details
// (e.g. the counts or coordinates the caller wants to report back).
func Ok(details map[string]any) Result {
	return Result{OK: true, Details: details}
}

// Fail builds a failed Result for code, formatting an optional message.
// When format is empty the catalog's standard message is used.
func Fail(code Code, details map[string]any, format string, args ...any) Result {
	msg := strings.TrimSpace(fmt.Sprintf(format, args...))
	if msg == "" {
		if e, ok := catalog[code]; ok {
			msg = e.Message
		} else {
			msg = string(code)
		}
	}
	return Result{OK: false, Code: code, Message: msg, Details: details}
}

// Error renders the Result as a single human-readable line, suitable for
// concatenating several failures together (spec.md §6 import policy).
func (r Result) Error() string {
	if r.OK {
		return ""
	}
	if r.Message == "" {
		return string(r.Code)
	}
	return fmt.Sprintf("%s: %s", r.Code, r.Message)
}
