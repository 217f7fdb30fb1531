package engine

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/matthewbaird/appdeck/internal/ai"
	"github.com/matthewbaird/appdeck/internal/document"
)

var promptField = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// handleAI substitutes form values into the prompt, calls the external
// execution endpoint, and writes the result back into form state.
// Without an app document there is nothing to execute against, so the
// action is a no-op and no call is issued.
func (e *Engine) handleAI(ctx context.Context, a *document.Action, actx *Context) error {
	if actx.App == nil {
		return nil
	}

	// Every {{fieldId}} in the prompt is replaced by the current form
	// value and collected into the outgoing context map.
	fieldContext := make(map[string]string)
	prompt := promptField.ReplaceAllStringFunc(a.Prompt, func(match string) string {
		field := strings.TrimSpace(promptField.FindStringSubmatch(match)[1])
		value := actx.Form.String(field)
		fieldContext[field] = value
		return value
	})

	result, err := e.execute(ctx, ai.Request{
		AppID:    actx.App.ID,
		AIAction: a.AIAction,
		Prompt:   prompt,
		Persona:  a.Persona,
		Context:  fieldContext,
	})
	if err != nil {
		if a.OnError != nil {
			chain(actx, a.OnError)
			return nil
		}
		if actx.ShowPopup != nil {
			actx.ShowPopup(Popup{
				Title:   "AI Error",
				Message: "The AI request failed. Please try again.",
				Variant: "error",
			})
		}
		return nil
	}

	if a.SaveToField != "" && actx.SetForm != nil {
		actx.SetForm(actx.Form.WithField(a.SaveToField, result))
	}
	chain(actx, a.OnSuccess)
	return nil
}

func (e *Engine) execute(ctx context.Context, req ai.Request) (string, error) {
	if e.ai == nil {
		return "", fmt.Errorf("no ai executor configured")
	}
	return e.ai.Execute(ctx, req)
}
