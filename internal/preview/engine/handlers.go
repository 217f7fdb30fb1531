package engine

import (
	"context"

	"github.com/matthewbaird/appdeck/internal/document"
	"github.com/matthewbaird/appdeck/internal/store"
)

func (e *Engine) handleNavigate(_ context.Context, a *document.Action, actx *Context) error {
	if actx.SetScreen != nil {
		actx.SetScreen(a.Target)
	}
	return nil
}

func (e *Engine) handleGoBack(_ context.Context, _ *document.Action, actx *Context) error {
	// Single-level back: return to the declared initial screen rather
	// than walking a history stack.
	if actx.App == nil || actx.SetScreen == nil {
		return nil
	}
	actx.SetScreen(actx.App.DefaultScreenID())
	return nil
}

func (e *Engine) handlePopup(_ context.Context, a *document.Action, actx *Context) error {
	if actx.ShowPopup == nil {
		return nil
	}
	variant := a.Variant
	if variant == "" {
		variant = "alert"
	}
	actx.ShowPopup(Popup{
		Title:   a.Title,
		Message: a.Message,
		Variant: variant,
		Buttons: a.Buttons,
	})
	return nil
}

func (e *Engine) handleDeleteRecord(_ context.Context, a *document.Action, actx *Context) error {
	if actx.SetStore == nil {
		return nil
	}
	actx.SetStore(store.DeleteRecord(actx.Store, a.Table, a.RecordID))
	return nil
}
