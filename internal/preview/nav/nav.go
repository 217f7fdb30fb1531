// Package nav resolves which screen a preview should show: the current
// screen id, auth gating for screens marked requiresAuth, and the
// reserved auth:login / auth:signup namespace for the built-in auth UI.
//
// Resolution never mutates state itself. When a gated or invalid screen
// is requested, the resolver reports a pending redirect for the caller
// to apply after the current render pass, so a render is always
// computed from one consistent screen id.
package nav

import (
	"github.com/matthewbaird/appdeck/internal/document"
)

// AuthMode selects which built-in auth screen is active.
type AuthMode string

const (
	AuthNone   AuthMode = ""
	AuthLogin  AuthMode = "login"
	AuthSignup AuthMode = "signup"
)

// Resolution is the outcome of resolving the current screen id.
type Resolution struct {
	// Screen is the active document screen, nil when none resolves for
	// this pass (auth screen active, redirect pending, or empty app).
	Screen *document.Screen
	// Auth is set when one of the built-in auth screens is active.
	Auth AuthMode
	// Redirect, when non-empty, is a transition the caller must apply
	// after the current pass completes.
	Redirect string
}

// Resolve computes the active screen for the given state. currentID may
// be empty (no screen resolved yet), one of the reserved auth ids, or a
// document screen id. authenticated reports whether a session exists.
func Resolve(app *document.App, currentID string, authenticated bool) Resolution {
	if app == nil {
		return Resolution{}
	}

	switch currentID {
	case document.AuthLoginScreen:
		return Resolution{Auth: AuthLogin}
	case document.AuthSignupScreen:
		return Resolution{Auth: AuthSignup}
	}

	if currentID == "" {
		return Resolution{Redirect: app.DefaultScreenID()}
	}

	screen := app.ScreenByID(currentID)
	if screen == nil {
		// Stale or mistyped id: self-correct to the initial screen.
		return Resolution{Redirect: app.DefaultScreenID()}
	}

	if screen.RequiresAuth && !authenticated {
		// Yield no screen for this pass and defer the redirect.
		return Resolution{Redirect: app.AuthRedirectScreen()}
	}

	return Resolution{Screen: screen}
}
