// Package shape defines the structural descriptors that drive the inspector
// and editor dispatch. Every value the console renders or edits is paired
// with exactly one Shape variant, resolved once at schema-definition time;
// nothing sniffs runtime types during rendering.
package shape

// Kind identifies a Shape variant.
type Kind int

const (
	KindPrimitive Kind = iota
	KindEnum
	KindOptional
	KindArray
	KindRecord
	KindReference
	KindPlugin
)

// String returns the lowercase variant name, used in log fields and errors.
func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindEnum:
		return "enum"
	case KindOptional:
		return "optional"
	case KindArray:
		return "array"
	case KindRecord:
		return "record"
	case KindReference:
		return "reference"
	case KindPlugin:
		return "plugin"
	}
	return "unknown"
}

// Shape is the root descriptor interface. Variants are plain immutable
// structs; schemas build them once and share them between the display and
// edit pipelines.
type Shape interface {
	Kind() Kind
}

// PrimKind identifies a scalar primitive.
type PrimKind int

const (
	String PrimKind = iota
	Int
	Float
	Bool
)

// Primitive describes a scalar value.
type Primitive struct {
	Prim PrimKind
}

func (Primitive) Kind() Kind { return KindPrimitive }

// Enum describes an integer backed by a symbol table.
type Enum struct {
	Table *SymbolTable
}

func (Enum) Kind() Kind { return KindEnum }

// Optional wraps an inner shape with a presence toggle. Default supplies the
// value staged when the user flips an absent field to present; the wrapping
// schema provides it, the handler never invents one.
type Optional struct {
	Inner   Shape
	Default func() any
}

func (Optional) Kind() Kind { return KindOptional }

// Array describes a homogeneous ordered sequence. Default supplies the value
// appended by the editor's append operation.
type Array struct {
	Inner   Shape
	Default func() any
}

func (Array) Kind() Kind { return KindArray }

// Field is one named member of a Record, in declaration order.
type Field struct {
	Name  string
	Shape Shape
}

// Record composes named fields. Collapsed sets the initial collapse state of
// the rendered node; the user's toggle owns it afterwards.
type Record struct {
	Name      string
	Fields    []Field
	Collapsed bool
}

func (Record) Kind() Kind { return KindRecord }

// Reference describes an opaque identifier resolved lazily through an
// external lookup. References are display-only.
type Reference struct{}

func (Reference) Kind() Kind { return KindReference }

// Plugin describes a value rendered by an externally registered element,
// addressed by its registry ID.
type Plugin struct {
	ElementID string
}

func (Plugin) Kind() Kind { return KindPlugin }

// Composite reports whether a shape renders as a multi-line structure. The
// array layout and collapse heuristics key off the first item's compositeness.
func Composite(s Shape) bool {
	switch s.Kind() {
	case KindRecord, KindReference, KindPlugin:
		return true
	case KindOptional:
		return Composite(s.(Optional).Inner)
	}
	return false
}
