package engine

import (
	"github.com/matthewbaird/appdeck/internal/document"
	"github.com/matthewbaird/appdeck/internal/preview/state"
	"github.com/matthewbaird/appdeck/internal/store"
)

// Context is the dependency bag handed to every handler invocation:
// current snapshots of the four state containers, their replacement
// setters, the read-only app document, and a re-entrant Dispatch for
// chained actions. It lives for exactly one dispatch call — the caller
// rebuilds it with fresh snapshots each time.
//
// Handlers never patch state in place. They compute a full new value
// and hand it to the matching setter, which keeps each handler's view
// consistent even while other dispatches are in flight (last write
// wins, an accepted preview-interpreter gap).
type Context struct {
	App *document.App

	Form    state.FormState
	SetForm func(state.FormState)

	Store    store.Snapshot
	SetStore func(store.Snapshot)

	Session    *state.Session
	SetSession func(*state.Session)

	SetScreen func(id string)
	ShowPopup func(Popup)

	// Dispatch re-enters the engine for onSuccess/onError chains. The
	// caller wires it to rebuild a fresh Context per action.
	Dispatch func(*document.Action)
}

// Popup is the normalized descriptor handed to the presentation layer.
type Popup struct {
	Title   string                  `json:"title,omitempty"`
	Message string                  `json:"message"`
	Variant string                  `json:"variant"`
	Buttons []document.ActionButton `json:"buttons,omitempty"`
}
