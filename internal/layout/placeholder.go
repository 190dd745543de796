package layout

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Context is the nested data object supplied at render time. Keys are
// strings; values are scalars, nested mappings, or sequences. There is
// no fixed schema -- the template author decides which paths exist.
type Context map[string]interface{}

var placeholderPattern = regexp.MustCompile(`\{\{\s*([^{}]+?)\s*\}\}`)

// Resolve substitutes every {{dotted.path}} token in text with the
// string form of the value found at that path in ctx. A path that does
// not resolve -- missing key, out-of-range index, or traversal hitting
// a scalar early -- substitutes the empty string. Resolution never
// fails: a missing clinical field must not abort document generation.
func Resolve(text string, ctx Context) string {
	if !strings.Contains(text, "{{") {
		return text
	}
	return placeholderPattern.ReplaceAllStringFunc(text, func(token string) string {
		path := strings.TrimSpace(token[2 : len(token)-2])
		v, ok := ctx.Lookup(path)
		if !ok {
			return ""
		}
		return Stringify(v)
	})
}

// Lookup traverses ctx one dotted segment at a time. Mappings are
// traversed by key, sequences by numeric segment. It returns the value
// and whether the full path resolved to one.
func (c Context) Lookup(path string) (interface{}, bool) {
	if path == "" {
		return nil, false
	}
	var cur interface{} = map[string]interface{}(c)
	for _, seg := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]interface{}:
			v, ok := node[seg]
			if !ok {
				return nil, false
			}
			cur = v
		case Context:
			v, ok := node[seg]
			if !ok {
				return nil, false
			}
			cur = v
		case []interface{}:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			cur = node[idx]
		default:
			// Scalar reached before the path was exhausted.
			return nil, false
		}
	}
	switch cur.(type) {
	case map[string]interface{}, Context, []interface{}:
		// Paths must land on scalars; a mapping or sequence has no
		// printable form.
		return nil, false
	}
	return cur, true
}

// Stringify renders a scalar context value as placeholder output.
// Booleans print true/false, numbers their literal text, times RFC 3339.
func Stringify(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return ""
	}
}

// Truthy reports whether a resolved condition string gates a
// conditional block open: non-empty and not "false" (case-insensitive).
func Truthy(resolved string) bool {
	if resolved == "" {
		return false
	}
	return !strings.EqualFold(resolved, "false")
}
