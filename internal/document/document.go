// Package document defines the declarative app document: the JSON
// description of screens, components, theme, database schema, and auth
// configuration that the preview engine interprets. The document is
// read-only input; the interpreter never mutates it.
package document

import (
	"encoding/json"
	"fmt"
)

// Reserved screen ids for the built-in auth flow. These are never looked
// up in the document's screen list.
const (
	AuthLoginScreen  = "auth:login"
	AuthSignupScreen = "auth:signup"
)

// IsAuthScreen reports whether id belongs to the reserved auth namespace.
func IsAuthScreen(id string) bool {
	return id == AuthLoginScreen || id == AuthSignupScreen
}

// App is the root of a declarative app document.
type App struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	InitialScreen string         `json:"initialScreen,omitempty"`
	Screens       []Screen       `json:"screens"`
	Theme         Theme          `json:"theme,omitempty"`
	Database      DatabaseSchema `json:"databaseSchema,omitempty"`
	Auth          *AuthConfig    `json:"authentication,omitempty"`
}

// Screen is one navigable page of the app.
type Screen struct {
	ID           string      `json:"id"`
	Title        string      `json:"title,omitempty"`
	RequiresAuth bool        `json:"requiresAuth,omitempty"`
	Components   []Component `json:"components,omitempty"`
}

// Component is a typed UI node. Props are intentionally loose: the
// renderer owns their meaning, the interpreter only resolves bindings
// and tokens inside them.
type Component struct {
	ID       string         `json:"id,omitempty"`
	Type     string         `json:"type"`
	Props    map[string]any `json:"props,omitempty"`
	Children []Component    `json:"children,omitempty"`
	Action   *Action        `json:"action,omitempty"`
}

// Theme carries the flat design-token map referenced via $name strings.
type Theme struct {
	Tokens map[string]any `json:"tokens,omitempty"`
}

// DatabaseSchema declares which tables and fields the app expects.
// Authoritative for seeding and widget selection only: the data store
// tolerates records with extra or missing fields.
type DatabaseSchema map[string]TableSchema

// TableSchema describes one table.
type TableSchema struct {
	Fields map[string]FieldSchema `json:"fields"`
}

// FieldSchema describes one column of a declared table.
type FieldSchema struct {
	Type        string `json:"type"`
	PrimaryKey  bool   `json:"primaryKey,omitempty"`
	Default     any    `json:"default,omitempty"`
	Description string `json:"description,omitempty"`
}

// AuthConfig configures the built-in auth flow. Field names default to
// "email" and "password" when unset.
type AuthConfig struct {
	Enabled             bool   `json:"enabled,omitempty"`
	UserTable           string `json:"userTable"`
	EmailField          string `json:"emailField,omitempty"`
	PasswordField       string `json:"passwordField,omitempty"`
	LoginRedirectScreen string `json:"loginRedirectScreen,omitempty"`
	PostLoginScreen     string `json:"postLoginScreen,omitempty"`
}

// EmailFieldName returns the configured email column, defaulting to "email".
func (c *AuthConfig) EmailFieldName() string {
	if c.EmailField != "" {
		return c.EmailField
	}
	return "email"
}

// PasswordFieldName returns the configured password column, defaulting
// to "password".
func (c *AuthConfig) PasswordFieldName() string {
	if c.PasswordField != "" {
		return c.PasswordField
	}
	return "password"
}

// ScreenByID returns the screen with the given id, or nil.
func (a *App) ScreenByID(id string) *Screen {
	for i := range a.Screens {
		if a.Screens[i].ID == id {
			return &a.Screens[i]
		}
	}
	return nil
}

// DefaultScreenID returns the declared initial screen, falling back to
// the first screen in the document. Empty if the document has no screens.
func (a *App) DefaultScreenID() string {
	if a.InitialScreen != "" {
		return a.InitialScreen
	}
	if len(a.Screens) > 0 {
		return a.Screens[0].ID
	}
	return ""
}

// AuthRedirectScreen returns the screen a gated request is redirected
// to, defaulting to the built-in login screen.
func (a *App) AuthRedirectScreen() string {
	if a.Auth != nil && a.Auth.LoginRedirectScreen != "" {
		return a.Auth.LoginRedirectScreen
	}
	return AuthLoginScreen
}

// PostLoginScreenID returns where a successful login/signup lands,
// defaulting to the initial screen.
func (a *App) PostLoginScreenID() string {
	if a.Auth != nil && a.Auth.PostLoginScreen != "" {
		return a.Auth.PostLoginScreen
	}
	return a.DefaultScreenID()
}

// Decode parses an app document from JSON.
func Decode(data []byte) (*App, error) {
	var app App
	if err := json.Unmarshal(data, &app); err != nil {
		return nil, fmt.Errorf("decoding app document: %w", err)
	}
	return &app, nil
}
