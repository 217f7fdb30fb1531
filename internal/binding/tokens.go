// Package binding is the pure data-binding library of the interpreter:
// design-token references ($name) and template bindings ({{path}})
// resolved against arbitrary JSON-shaped trees. Nothing here mutates
// its input or panics on malformed data.
package binding

import "strings"

// ResolveToken resolves a single $name design-token reference. Strings
// beginning with "$" are looked up (without the prefix) in tokens and
// replaced by the token's value, whatever its type. Unknown tokens and
// non-string values pass through unchanged, including 0, false, and "".
func ResolveToken(value any, tokens map[string]any) any {
	s, ok := value.(string)
	if !ok || !strings.HasPrefix(s, "$") {
		return value
	}
	if resolved, found := tokens[s[1:]]; found {
		return resolved
	}
	return value
}

// ResolveAllTokens applies ResolveToken recursively through arrays and
// objects, returning a new tree. Non-string leaves are untouched.
func ResolveAllTokens(node any, tokens map[string]any) any {
	switch n := node.(type) {
	case []any:
		out := make([]any, len(n))
		for i, item := range n {
			out[i] = ResolveAllTokens(item, tokens)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(n))
		for k, v := range n {
			out[k] = ResolveAllTokens(v, tokens)
		}
		return out
	default:
		return ResolveToken(node, tokens)
	}
}
