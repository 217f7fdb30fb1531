package binding

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// exactTemplate matches strings that are a single {{path}} binding
	// and nothing else; these resolve to the raw typed value.
	exactTemplate = regexp.MustCompile(`^\{\{(.+)\}\}$`)
	// anyTemplate matches each {{path}} occurrence for interpolation.
	anyTemplate = regexp.MustCompile(`\{\{([^}]+)\}\}`)
)

// NestedValue traverses obj along a dot-separated path ("a.b.c").
// Numeric segments index into arrays. It reports false on any missing
// or non-container intermediate and never panics.
func NestedValue(obj any, path string) (any, bool) {
	current := obj
	for _, seg := range strings.Split(path, ".") {
		switch c := current.(type) {
		case map[string]any:
			v, found := c[seg]
			if !found {
				return nil, false
			}
			current = v
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(c) {
				return nil, false
			}
			current = c[i]
		default:
			return nil, false
		}
	}
	return current, true
}

// ResolveTemplate resolves {{path}} bindings in template against context.
//
// A string that is exactly one binding returns the raw value at that
// path, preserving its type — a list can bind a whole record slice, not
// its string form. If the path is absent the literal template string
// comes back unchanged. Any other string with bindings interpolates:
// each occurrence is replaced by the stringified value (absent and null
// become the empty string). Arrays and objects are resolved
// structurally; all other values pass through.
func ResolveTemplate(template any, context map[string]any) any {
	switch t := template.(type) {
	case string:
		if m := exactTemplate.FindStringSubmatch(t); m != nil {
			path := strings.TrimSpace(m[1])
			if v, found := NestedValue(context, path); found {
				return v
			}
			return t
		}
		if !anyTemplate.MatchString(t) {
			return t
		}
		return anyTemplate.ReplaceAllStringFunc(t, func(match string) string {
			path := strings.TrimSpace(anyTemplate.FindStringSubmatch(match)[1])
			v, found := NestedValue(context, path)
			if !found || v == nil {
				return ""
			}
			return stringify(v)
		})
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = ResolveTemplate(item, context)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, v := range t {
			out[k] = ResolveTemplate(v, context)
		}
		return out
	default:
		return template
	}
}

// HasTemplateVariables reports whether s contains at least one {{path}}
// binding.
func HasTemplateVariables(s string) bool {
	return anyTemplate.MatchString(s)
}

// ExtractTemplateVariables lists the paths of every binding in s, in
// order of appearance.
func ExtractTemplateVariables(s string) []string {
	var paths []string
	for _, m := range anyTemplate.FindAllStringSubmatch(s, -1) {
		paths = append(paths, strings.TrimSpace(m[1]))
	}
	return paths
}

func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	default:
		return fmt.Sprint(x)
	}
}
