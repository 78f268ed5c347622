package node

import (
	"fmt"
	"strings"
)

// Section excludes a node from whole phases of the conversion.
type Section uint8

const (
	// SectionTraverse keeps the node out of the grouping walk; its children
	// are still visited.
	SectionTraverse Section = 1 << iota
	// SectionExtension stops extensions from processing the node.
	SectionExtension
	// SectionRenderExtension stops extensions from emitting the node.
	SectionRenderExtension

	SectionAll = SectionTraverse | SectionExtension | SectionRenderExtension
)

// Has reports whether every bit of f is set.
func (s Section) Has(f Section) bool { return s&f == f }

// Procedure excludes a node from individual post-processing passes.
type Procedure uint8

const (
	ProcedureLayout Procedure = 1 << iota
	ProcedureAlignment
	ProcedureOptimization
	ProcedureCustomization
	ProcedureAccessibility

	ProcedureAll = ProcedureLayout | ProcedureAlignment | ProcedureOptimization |
		ProcedureCustomization | ProcedureAccessibility
)

// Has reports whether every bit of f is set.
func (p Procedure) Has(f Procedure) bool { return p&f == f }

// Resource excludes a node from individual resource extractions.
type Resource uint8

const (
	ResourceBoxStyle Resource = 1 << iota
	ResourceBoxSpacing
	ResourceFontStyle
	ResourceValueString
	ResourceImage

	ResourceAll = ResourceBoxStyle | ResourceBoxSpacing | ResourceFontStyle |
		ResourceValueString | ResourceImage
)

// Has reports whether every bit of f is set.
func (r Resource) Has(f Resource) bool { return r&f == f }

// Alignment records how a container arranges its children and how a child
// sits within its container.
type Alignment uint32

const (
	AlignHorizontal Alignment = 1 << iota
	AlignVertical
	AlignAbsolute
	AlignFloat
	AlignPercent
	AlignSegmented
	AlignSingle
	AlignExtendable
	AlignMultiline
	AlignSpace

	AlignLeft
	AlignRight
	AlignTop
	AlignBottom
	AlignBaseline

	// AlignSides masks the side qualifiers.
	AlignSides = AlignLeft | AlignRight | AlignTop | AlignBottom | AlignBaseline
)

var alignmentNames = []struct {
	flag Alignment
	name string
}{
	{AlignHorizontal, "horizontal"},
	{AlignVertical, "vertical"},
	{AlignAbsolute, "absolute"},
	{AlignFloat, "float"},
	{AlignPercent, "percent"},
	{AlignSegmented, "segmented"},
	{AlignSingle, "single"},
	{AlignExtendable, "extendable"},
	{AlignMultiline, "multiline"},
	{AlignSpace, "space"},
	{AlignLeft, "left"},
	{AlignRight, "right"},
	{AlignTop, "top"},
	{AlignBottom, "bottom"},
	{AlignBaseline, "baseline"},
}

// Has reports whether every bit of f is set.
func (a Alignment) Has(f Alignment) bool { return a&f == f }

// Any reports whether at least one bit of f is set.
func (a Alignment) Any(f Alignment) bool { return a&f != 0 }

// String joins the set flag names with "|".
func (a Alignment) String() string {
	var parts []string
	for _, n := range alignmentNames {
		if a&n.flag != 0 {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// MarshalText encodes the flags as their "|" joined names.
func (a Alignment) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalText decodes "|" joined flag names.
func (a *Alignment) UnmarshalText(b []byte) error {
	var v Alignment
	for _, part := range strings.Split(string(b), "|") {
		if part == "none" || part == "" {
			continue
		}
		found := false
		for _, n := range alignmentNames {
			if n.name == part {
				v |= n.flag
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("unknown alignment %q", part)
		}
	}
	*a = v
	return nil
}

// Kind is the output primitive a node maps to. A node holds exactly one
// kind bit; the Kind* masks group related kinds.
type Kind uint32

const (
	KindNone Kind = 0

	KindText Kind = 1 << iota
	KindImage
	KindButton
	KindInput
	KindCheckbox
	KindRadio
	KindSelect
	KindLine
	KindSpace
	KindExternal
	KindFrame
	KindLinear
	KindGrid
	KindRelative
	KindConstraint

	KindAnchored  = KindRelative | KindConstraint
	KindContainer = KindFrame | KindLinear | KindGrid | KindAnchored
	KindControl   = KindButton | KindInput | KindCheckbox | KindRadio | KindSelect
	KindLeaf      = KindText | KindImage | KindControl | KindLine | KindSpace | KindExternal
)

var kindNames = map[Kind]string{
	KindNone:       "none",
	KindText:       "text",
	KindImage:      "image",
	KindButton:     "button",
	KindInput:      "input",
	KindCheckbox:   "checkbox",
	KindRadio:      "radio",
	KindSelect:     "select",
	KindLine:       "line",
	KindSpace:      "space",
	KindExternal:   "external",
	KindFrame:      "frame",
	KindLinear:     "linear",
	KindGrid:       "grid",
	KindRelative:   "relative",
	KindConstraint: "constraint",
}

// Is reports whether k is one of the kinds in mask.
func (k Kind) Is(mask Kind) bool { return k&mask != 0 }

// String returns the lower-case kind name.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText decodes a kind name.
func (k *Kind) UnmarshalText(b []byte) error {
	v, ok := ParseKind(string(b))
	if !ok {
		return fmt.Errorf("unknown kind %q", b)
	}
	*k = v
	return nil
}

// ParseKind maps a kind name back to its Kind.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}
	return KindNone, false
}

// BoxSide selects margin and padding sides for box resets.
type BoxSide uint8

const (
	MarginTop BoxSide = 1 << iota
	MarginRight
	MarginBottom
	MarginLeft
	PaddingTop
	PaddingRight
	PaddingBottom
	PaddingLeft

	Margin  = MarginTop | MarginRight | MarginBottom | MarginLeft
	Padding = PaddingTop | PaddingRight | PaddingBottom | PaddingLeft
	BoxAll  = Margin | Padding
)

// Has reports whether every bit of f is set.
func (b BoxSide) Has(f BoxSide) bool { return b&f == f }
