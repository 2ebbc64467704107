package registry

func ptr(f float64) *float64 { return &f }

// Core is the built-in descriptor shipped with the document core: a small,
// conservative set of presentation classes and data attributes that every
// deployment gets for free. Project descriptors (registry.LoadProjectDescriptor)
// extend or override this set via Merge.
var Core = Registry{
	Version: 1,
	Classes: []ClassDesc{
		{Name: "text-align-left", Group: "alignment", ExclusiveGroup: "text-align", Label: "Align left"},
		{Name: "text-align-center", Group: "alignment", ExclusiveGroup: "text-align", Label: "Align center"},
		{Name: "text-align-right", Group: "alignment", ExclusiveGroup: "text-align", Label: "Align right"},

		{Name: "text-bold", Group: "typography", Label: "Bold"},
		{Name: "text-italic", Group: "typography", Label: "Italic"},
		{Name: "text-underline", Group: "typography", Label: "Underline"},

		{Name: "bg-none", Group: "background", ExclusiveGroup: "background", Label: "No fill"},
		{Name: "bg-highlight", Group: "background", ExclusiveGroup: "background", Label: "Highlight"},
		{Name: "bg-warning", Group: "background", ExclusiveGroup: "background", Label: "Warning"},
		{Name: "bg-success", Group: "background", ExclusiveGroup: "background", Label: "Success"},

		{Name: "border-all", Group: "border", ExclusiveGroup: "border", Label: "All borders"},
		{Name: "border-none", Group: "border", ExclusiveGroup: "border", Label: "No border"},
	},
	DataAttributes: []AttrDesc{
		{Name: "data-format", Type: AttrEnum, Values: []string{"text", "number", "currency", "percent", "date"}, Label: "Format", Default: "text"},
		{Name: "data-decimals", Type: AttrNumber, Min: ptr(0), Max: ptr(10), Label: "Decimal places", Default: float64(0)},
		{Name: "data-locked", Type: AttrBoolean, Label: "Locked", Default: false, QuickToggle: true},
		{Name: "data-wrap", Type: AttrBoolean, Label: "Wrap text", Default: false, QuickToggle: true},
	},
	Rules: Rules{
		ImportPolicy:     "strict",
		ClassExclusivity: true,
	},
}
