package validate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gridkit/tablecore/internal/document"
	"github.com/gridkit/tablecore/internal/registry"
)

func TestAttributeValid_Enum(t *testing.T) {
	attr := registry.AttrDesc{Name: "data-format", Type: registry.AttrEnum, Values: []string{"currency", "percent"}}
	require.True(t, AttributeValid(attr, "currency").OK)
	res := AttributeValid(attr, "bogus")
	require.False(t, res.OK)
	require.Equal(t, "INVALID_ATTRIBUTE_VALUE", string(res.Code))
}

func TestAttributeValid_NumberBounds(t *testing.T) {
	min, max := 0.0, 10.0
	attr := registry.AttrDesc{Name: "data-decimals", Type: registry.AttrNumber, Min: &min, Max: &max}
	require.True(t, AttributeValid(attr, 3.0).OK)
	require.False(t, AttributeValid(attr, -1.0).OK)
	require.False(t, AttributeValid(attr, 11.0).OK)
}

func TestAttributeValid_BooleanRejectsStringified(t *testing.T) {
	attr := registry.AttrDesc{Name: "data-locked", Type: registry.AttrBoolean}
	require.True(t, AttributeValid(attr, true).OK)
	res := AttributeValid(attr, "true")
	require.False(t, res.OK)
	require.Equal(t, "INVALID_ATTRIBUTE_VALUE", string(res.Code))
}

func TestValidateDataMap_UnknownAttributeAccumulates(t *testing.T) {
	res := ValidateDataMap(map[string]any{
		"data-decimals": 3.0,
		"data-bogus":    1,
	}, registry.Core)
	require.False(t, res.OK)
	require.Contains(t, res.Message, "UNKNOWN_ATTRIBUTE")
}

func TestWellFormedClassName(t *testing.T) {
	require.True(t, WellFormedClassName("text-bold"))
	require.False(t, WellFormedClassName("1bad"))
	require.False(t, WellFormedClassName(""))
}

func TestNormalizeClasses_ExclusiveGroupLastWins(t *testing.T) {
	out := NormalizeClasses([]string{"text-align-left", "text-bold", "text-align-right"}, registry.Core)
	require.Equal(t, []string{"text-bold", "text-align-right"}, out)
}

func TestNormalizeClasses_DropsUnknownAndMalformed(t *testing.T) {
	out := NormalizeClasses([]string{"not-registered", "1bad", "text-italic"}, registry.Core)
	require.Equal(t, []string{"text-italic"}, out)
}

func TestNormalizeClasses_Idempotent(t *testing.T) {
	first := NormalizeClasses([]string{"text-align-left", "text-bold", "text-align-right", "border-all"}, registry.Core)
	second := NormalizeClasses(first, registry.Core)
	require.Equal(t, first, second)
}

func TestValidateDocument_RejectsUnknownClass(t *testing.T) {
	doc := document.Document{
		Grid: document.Grid{Rows: 2, Cols: 2},
		Cells: []document.Cell{
			{R: 0, C: 0, Classes: []string{"not-a-real-class"}},
		},
	}
	res := ValidateDocument(doc, registry.Core)
	require.False(t, res.OK)
	require.Contains(t, res.Message, "UNKNOWN_CLASS")
	require.Contains(t, res.Message, "неизвестный класс")
	require.Contains(t, res.Message, "(0,0)")
}

func TestValidateDocument_RejectsExclusiveGroupConflict(t *testing.T) {
	doc := document.Document{
		Grid: document.Grid{Rows: 1, Cols: 1},
		Cells: []document.Cell{
			{R: 0, C: 0, Classes: []string{"text-align-left", "text-align-right"}},
		},
	}
	res := ValidateDocument(doc, registry.Core)
	require.False(t, res.OK)
	require.Contains(t, res.Message, "EXCLUSIVE_GROUP_CONFLICT")
}

func TestValidateDocument_AcceptsWellFormedDocument(t *testing.T) {
	doc := document.Document{
		Grid: document.Grid{Rows: 1, Cols: 1},
		Cells: []document.Cell{
			{R: 0, C: 0, Classes: []string{"text-bold"}, Data: map[string]any{"data-decimals": 2.0}},
		},
	}
	res := ValidateDocument(doc, registry.Core)
	require.True(t, res.OK)
}

func TestParseTableJSON_InvalidJSON(t *testing.T) {
	_, res := ParseTableJSON([]byte("{not json"), registry.Core, json.Unmarshal)
	require.False(t, res.OK)
	require.Equal(t, "SHAPE", string(res.Code))
}

func TestValidateMergeOperation_AbsorptionAccepted(t *testing.T) {
	m := document.New(document.Document{
		Grid: document.Grid{Rows: 5, Cols: 5},
		Cells: []document.Cell{
			{R: 1, C: 1, RowSpan: 2, ColSpan: 2},
		},
	}, nil)
	res := ValidateMergeOperation(m, 0, 0, 3, 3)
	require.True(t, res.OK)
}

func TestValidateMergeOperation_ContainmentAccepted(t *testing.T) {
	m := document.New(document.Document{
		Grid: document.Grid{Rows: 5, Cols: 5},
		Cells: []document.Cell{
			{R: 0, C: 0, RowSpan: 4, ColSpan: 4},
		},
	}, nil)
	res := ValidateMergeOperation(m, 1, 1, 2, 2)
	require.True(t, res.OK)
}

func TestValidateMergeOperation_PartialOverlapRejected(t *testing.T) {
	m := document.New(document.Document{
		Grid: document.Grid{Rows: 5, Cols: 5},
		Cells: []document.Cell{
			{R: 1, C: 1, RowSpan: 2, ColSpan: 2}, // rows 1-2, cols 1-2
		},
	}, nil)
	res := ValidateMergeOperation(m, 2, 2, 3, 3) // overlaps corner only
	require.False(t, res.OK)
	require.Equal(t, "PARTIAL_OVERLAP", string(res.Code))
}

func TestValidateMergeOperation_RejectsOutOfBounds(t *testing.T) {
	m := document.New(document.Document{Grid: document.Grid{Rows: 3, Cols: 3}}, nil)
	res := ValidateMergeOperation(m, 0, 0, 5, 5)
	require.False(t, res.OK)
	require.Equal(t, "BOUNDS", string(res.Code))
}
