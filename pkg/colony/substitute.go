package colony

import "strings"

// Marker is the sentinel that continuation payload templates use to mean
// "the previous handler's result goes here". A bare Marker is replaced by
// the whole result; "$result.a.b" selects a nested field of a map-shaped
// result. A path that does not exist in the result yields nil, not an error.
const Marker = "$result"

// Substitute walks a payload template and replaces every marker with the
// given result. Maps and slices are copied fresh on every call, so the
// template is never mutated and two substitutions of the same template are
// structurally equal but independent.
func Substitute(template, result any) any {
	switch v := template.(type) {
	case string:
		if v == Marker {
			return result
		}
		if strings.HasPrefix(v, Marker+".") {
			return lookupPath(result, strings.Split(v[len(Marker)+1:], "."))
		}
		return v
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, val := range v {
			out[key] = Substitute(val, result)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			out[i] = Substitute(val, result)
		}
		return out
	default:
		return template
	}
}

// lookupPath resolves a dotted field path against a map-shaped result.
func lookupPath(result any, path []string) any {
	cur := result
	for _, field := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[field]
	}
	return cur
}
