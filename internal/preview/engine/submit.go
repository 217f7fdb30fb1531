package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/matthewbaird/appdeck/internal/document"
	"github.com/matthewbaird/appdeck/internal/store"
)

// handleSubmit routes a submit action to the store or to an external
// API, depending on which destination the action declares.
func (e *Engine) handleSubmit(ctx context.Context, a *document.Action, actx *Context) error {
	switch {
	case a.Table != "":
		return e.submitToStore(a, actx)
	case a.Endpoint != "":
		return e.submitToAPI(ctx, a, actx)
	default:
		return fmt.Errorf("submit action has neither table nor endpoint")
	}
}

// submitToStore builds one record from the mapped form fields, appends
// it, and resets exactly those fields.
func (e *Engine) submitToStore(a *document.Action, actx *Context) error {
	record := store.Record{"id": store.NewRecordID()}
	formFields := make([]string, 0, len(a.Fields))
	for column, formField := range a.Fields {
		record[column] = actx.Form[formField]
		formFields = append(formFields, formField)
	}

	if actx.SetStore != nil {
		actx.SetStore(store.AppendRecord(actx.Store, a.Table, record))
	}
	if actx.SetForm != nil {
		actx.SetForm(actx.Form.ResetFields(formFields...))
	}
	chain(actx, a.OnSuccess)
	return nil
}

// submitToAPI posts the mapped form values to the declared endpoint.
// Success and failure are keyed off the actual response status; both
// outcomes route through the action's own chain.
func (e *Engine) submitToAPI(ctx context.Context, a *document.Action, actx *Context) error {
	body := make(map[string]any, len(a.Fields))
	formFields := make([]string, 0, len(a.Fields))
	for key, formField := range a.Fields {
		body[key] = actx.Form[formField]
		formFields = append(formFields, formField)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		log.Printf("engine: encoding submit body for %s: %v", a.Endpoint, err)
		chain(actx, a.OnError)
		return nil
	}

	method := a.Method
	if method == "" {
		method = http.MethodPost
	}
	req, err := http.NewRequestWithContext(ctx, method, a.Endpoint, bytes.NewReader(payload))
	if err != nil {
		log.Printf("engine: building submit request for %s: %v", a.Endpoint, err)
		chain(actx, a.OnError)
		return nil
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range a.Headers {
		req.Header.Set(k, v)
	}

	resp, err := e.http.Do(req)
	if err != nil {
		log.Printf("engine: submit to %s: %v", a.Endpoint, err)
		chain(actx, a.OnError)
		return nil
	}
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))
	resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("engine: submit to %s returned %d", a.Endpoint, resp.StatusCode)
		chain(actx, a.OnError)
		return nil
	}

	if actx.SetForm != nil {
		actx.SetForm(actx.Form.ResetFields(formFields...))
	}
	chain(actx, a.OnSuccess)
	return nil
}
