package formatter

import (
	"sort"
	"strconv"
	"strings"

	"github.com/mcncl/jsontidy/internal/models"
)

// Formatter is responsible for pretty-printing a document tree as indented
// text. Containers open with their bracket and a newline, children sit one
// indent level deeper and every child ends with a trailing comma, including
// the last one. The closing bracket sits one level back from the children.
type Formatter struct {
	indent   string
	sortKeys bool
}

// NewFormatter creates a Formatter with two-space indentation and sorted
// object keys.
func NewFormatter() *Formatter {
	return &Formatter{indent: "  ", sortKeys: true}
}

// NewFormatterWithOptions creates a Formatter with a custom indent width.
// Key order is not semantically significant, so disabling sortKeys only
// trades deterministic output for map iteration order.
func NewFormatterWithOptions(indentWidth int, sortKeys bool) *Formatter {
	if indentWidth <= 0 {
		indentWidth = 2
	}
	return &Formatter{indent: strings.Repeat(" ", indentWidth), sortKeys: sortKeys}
}

// Format renders a document, ending with a final newline.
func (f *Formatter) Format(doc models.Document) string {
	var b strings.Builder
	f.writeValue(&b, doc.Root, 1)
	b.WriteString("\n")
	return b.String()
}

// FormatValue renders a single value without a trailing newline.
func (f *Formatter) FormatValue(value models.Value) string {
	var b strings.Builder
	f.writeValue(&b, value, 1)
	return b.String()
}

// writeValue renders one value. For containers, depth is the indent level of
// the children; the closing bracket is written at depth-1.
func (f *Formatter) writeValue(b *strings.Builder, value models.Value, depth int) {
	switch v := value.(type) {
	case models.String:
		// Quoted verbatim, no escape re-encoding.
		b.WriteString("\"")
		b.WriteString(string(v))
		b.WriteString("\"")
	case models.Integer:
		b.WriteString(strconv.FormatInt(int64(v), 10))
	case models.Float:
		b.WriteString(formatFloat(float64(v)))
	case models.Boolean:
		b.WriteString(strconv.FormatBool(bool(v)))
	case models.Array:
		b.WriteString("[\n")
		for _, elem := range v {
			f.writeIndent(b, depth)
			f.writeValue(b, elem, depth+1)
			b.WriteString(",\n")
		}
		f.writeIndent(b, depth-1)
		b.WriteString("]")
	case models.Object:
		b.WriteString("{\n")
		for _, key := range f.keys(v) {
			f.writeIndent(b, depth)
			b.WriteString("\"")
			b.WriteString(key)
			b.WriteString("\": ")
			f.writeValue(b, v[key], depth+1)
			b.WriteString(",\n")
		}
		f.writeIndent(b, depth-1)
		b.WriteString("}")
	}
}

// formatFloat keeps a decimal point in the output so a whole-valued float
// re-parses as a float rather than an integer.
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func (f *Formatter) writeIndent(b *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString(f.indent)
	}
}

func (f *Formatter) keys(obj models.Object) []string {
	keys := make([]string, 0, len(obj))
	for key := range obj {
		keys = append(keys, key)
	}
	if f.sortKeys {
		sort.Strings(keys)
	}
	return keys
}
