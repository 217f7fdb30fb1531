package engine

import (
	"context"
	"reflect"

	"github.com/matthewbaird/appdeck/internal/document"
	"github.com/matthewbaird/appdeck/internal/preview/state"
	"github.com/matthewbaird/appdeck/internal/store"
)

// Auth handlers match credentials in plaintext against the in-memory
// user table. This is preview/demo fidelity only — the simplification
// is part of the interpreter's contract and must never be reused for
// real authentication.

func (e *Engine) handleLogin(_ context.Context, a *document.Action, actx *Context) error {
	cfg := authConfig(actx)
	if cfg == nil {
		return nil
	}

	email := actx.Form[a.Fields["email"]]
	password := actx.Form[a.Fields["password"]]

	for _, user := range actx.Store.Table(cfg.UserTable) {
		if !strictEqual(user[cfg.EmailFieldName()], email) {
			continue
		}
		if !strictEqual(user[cfg.PasswordFieldName()], password) {
			continue
		}
		logIn(actx, user)
		return nil
	}

	chain(actx, a.OnError)
	return nil
}

func (e *Engine) handleSignup(_ context.Context, a *document.Action, actx *Context) error {
	cfg := authConfig(actx)
	if cfg == nil {
		return nil
	}

	email := actx.Form[a.Fields["email"]]
	for _, user := range actx.Store.Table(cfg.UserTable) {
		if strictEqual(user[cfg.EmailFieldName()], email) {
			// Duplicate email: reject without touching any state.
			chain(actx, a.OnError)
			return nil
		}
	}

	user := store.Record{"id": store.NewRecordID()}
	for column, formField := range a.Fields {
		user[column] = actx.Form[formField]
	}
	if actx.SetStore != nil {
		actx.SetStore(store.AppendRecord(actx.Store, cfg.UserTable, user))
	}
	logIn(actx, user)
	return nil
}

func (e *Engine) handleLogout(_ context.Context, a *document.Action, actx *Context) error {
	if actx.SetSession != nil {
		actx.SetSession(nil)
	}
	if a.OnSuccess != nil {
		chain(actx, a.OnSuccess)
		return nil
	}
	if actx.App != nil && actx.SetScreen != nil {
		actx.SetScreen(actx.App.DefaultScreenID())
	}
	return nil
}

func authConfig(actx *Context) *document.AuthConfig {
	if actx.App == nil {
		return nil
	}
	return actx.App.Auth
}

// logIn installs the session, lands on the post-login screen, and
// clears the form wholesale.
func logIn(actx *Context, user store.Record) {
	if actx.SetSession != nil {
		actx.SetSession(state.NewSession(user))
	}
	if actx.SetScreen != nil {
		actx.SetScreen(actx.App.PostLoginScreenID())
	}
	if actx.SetForm != nil {
		actx.SetForm(state.FormState{})
	}
}

// strictEqual mirrors strict equality over JSON-shaped values: equal
// only when type and value both match.
func strictEqual(a, b any) bool {
	return reflect.DeepEqual(a, b)
}
