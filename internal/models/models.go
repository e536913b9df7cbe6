package models

// Kind identifies which variant a Value is.
type Kind int

const (
	KindString Kind = iota
	KindInteger
	KindFloat
	KindBoolean
	KindObject
	KindArray
)

// String returns a human-readable name for the kind, used in diagnostics.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindBoolean:
		return "boolean"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// Value is any JSON-legal datum nested inside a container.
// The concrete types below are the only implementations.
type Value interface {
	Kind() Kind
}

// String represents a JSON string value, quotes stripped, escapes untouched.
type String string

// Integer represents a whole number within int64 range.
type Integer int64

// Float represents a number that carried a decimal point.
type Float float64

// Boolean represents a JSON true/false value.
type Boolean bool

// Object represents a JSON object, a map of string keys to Values.
// Key order is not significant; duplicate keys are last write wins.
type Object map[string]Value

// Array represents a JSON array, an ordered sequence of Values.
type Array []Value

func (String) Kind() Kind  { return KindString }
func (Integer) Kind() Kind { return KindInteger }
func (Float) Kind() Kind   { return KindFloat }
func (Boolean) Kind() Kind { return KindBoolean }
func (Object) Kind() Kind  { return KindObject }
func (Array) Kind() Kind   { return KindArray }

// Document is the result of parsing a complete source text.
// The root is always a container, either an Object or an Array,
// never a bare scalar.
type Document struct {
	Root        Value
	RootIsArray bool // True if the root of the document is an array vs an object
}

// NewObjectDocument wraps an object as an object-rooted document.
func NewObjectDocument(obj Object) Document {
	return Document{Root: obj, RootIsArray: false}
}

// NewArrayDocument wraps an array as an array-rooted document.
func NewArrayDocument(arr Array) Document {
	return Document{Root: arr, RootIsArray: true}
}
