// Package state holds the two small mutable containers of a running
// preview: the authenticated-user session and the pending form values.
// Both are replaced wholesale, never patched in place, so action
// handlers always exchange full snapshots.
package state

import "fmt"

// Session is the authenticated-user state. A nil *Session means logged
// out; there is no intermediate state visible to handlers.
//
// Credentials behind it are matched in plaintext against the in-memory
// user table. That is a deliberate preview/demo simplification and must
// never be copied into a system handling real credentials.
type Session struct {
	User map[string]any `json:"user"`
}

// NewSession wraps an authenticated user record.
func NewSession(user map[string]any) *Session {
	return &Session{User: user}
}

// FormState maps form field ids to their pending values.
type FormState map[string]any

// Clone returns a copy sharing no top-level structure with f.
func (f FormState) Clone() FormState {
	out := make(FormState, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// WithField returns a copy with one field set.
func (f FormState) WithField(field string, value any) FormState {
	out := f.Clone()
	out[field] = value
	return out
}

// ResetFields returns a copy with each named field set to the empty
// string; other fields are untouched.
func (f FormState) ResetFields(fields ...string) FormState {
	out := f.Clone()
	for _, field := range fields {
		out[field] = ""
	}
	return out
}

// String returns the field's value in string form. Missing and nil
// fields read as "".
func (f FormState) String(field string) string {
	v, ok := f[field]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
