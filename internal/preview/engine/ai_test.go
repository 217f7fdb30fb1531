package engine

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthewbaird/appdeck/internal/ai"
	"github.com/matthewbaird/appdeck/internal/document"
	"github.com/matthewbaird/appdeck/internal/preview/state"
)

// fakeExecutor records the request and returns a canned result.
type fakeExecutor struct {
	req    ai.Request
	result string
	err    error
	calls  int
}

func (f *fakeExecutor) Execute(_ context.Context, req ai.Request) (string, error) {
	f.calls++
	f.req = req
	return f.result, f.err
}

func TestAI_SubstitutesPromptAndSavesResult(t *testing.T) {
	exec := &fakeExecutor{result: "a poem about Go"}
	h := newHarness(authApp())
	h.engine = New(exec)
	h.form = state.FormState{"topic": "Go"}

	h.dispatch(&document.Action{
		Type:        document.ActionAI,
		AIAction:    "generate",
		Prompt:      "Write a poem about {{topic}}",
		SaveToField: "result",
		OnSuccess:   &document.Action{Type: document.ActionNavigate, Target: "home"},
	})

	require.Equal(t, 1, exec.calls)
	assert.Equal(t, "Write a poem about Go", exec.req.Prompt)
	assert.Equal(t, "app1", exec.req.AppID)
	assert.Equal(t, map[string]string{"topic": "Go"}, exec.req.Context)

	assert.Equal(t, "a poem about Go", h.form["result"])
	assert.Equal(t, "Go", h.form["topic"], "source fields are not cleared")
	assert.Equal(t, []string{"home"}, h.screens)
}

func TestAI_MissingFormFieldsSubstituteEmpty(t *testing.T) {
	exec := &fakeExecutor{result: "ok"}
	h := newHarness(authApp())
	h.engine = New(exec)

	h.dispatch(&document.Action{Type: document.ActionAI, Prompt: "about {{missing}}"})

	assert.Equal(t, "about ", exec.req.Prompt)
	assert.Equal(t, map[string]string{"missing": ""}, exec.req.Context)
}

func TestAI_FailureRoutesOnError(t *testing.T) {
	exec := &fakeExecutor{err: fmt.Errorf("model unavailable")}
	h := newHarness(authApp())
	h.engine = New(exec)

	h.dispatch(&document.Action{
		Type:    document.ActionAI,
		Prompt:  "hi",
		OnError: &document.Action{Type: document.ActionPopup, Message: "failed"},
	})

	require.Len(t, h.popups, 1)
	assert.Equal(t, "failed", h.popups[0].Message)
}

func TestAI_FailureWithoutOnErrorShowsDefaultPopup(t *testing.T) {
	exec := &fakeExecutor{err: fmt.Errorf("model unavailable")}
	h := newHarness(authApp())
	h.engine = New(exec)

	h.dispatch(&document.Action{Type: document.ActionAI, Prompt: "hi"})

	require.Len(t, h.popups, 1)
	assert.Equal(t, "error", h.popups[0].Variant)
}

func TestAI_NoDocumentIsNoop(t *testing.T) {
	exec := &fakeExecutor{result: "never"}
	h := newHarness(nil)
	h.engine = New(exec)

	h.dispatch(&document.Action{Type: document.ActionAI, Prompt: "hi"})

	assert.Zero(t, exec.calls, "no document means no call is issued")
	assert.Empty(t, h.popups)
}

func TestSubmitToAPI_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "token", r.Header.Get("X-Api-Key"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	h := newHarness(authApp())
	h.form = state.FormState{"msgField": "hello", "untouched": "x"}

	h.dispatch(&document.Action{
		Type:      document.ActionSubmit,
		Endpoint:  srv.URL,
		Method:    http.MethodPut,
		Headers:   map[string]string{"X-Api-Key": "token"},
		Fields:    map[string]string{"message": "msgField"},
		OnSuccess: &document.Action{Type: document.ActionNavigate, Target: "home"},
	})

	assert.Equal(t, "", h.form["msgField"], "submitted fields clear on success")
	assert.Equal(t, "x", h.form["untouched"])
	assert.Equal(t, []string{"home"}, h.screens)
}

func TestSubmitToAPI_FailureRoutesOnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	h := newHarness(authApp())
	h.form = state.FormState{"msgField": "hello"}

	h.dispatch(&document.Action{
		Type:     document.ActionSubmit,
		Endpoint: srv.URL,
		Fields:   map[string]string{"message": "msgField"},
		OnError:  &document.Action{Type: document.ActionPopup, Message: "submit failed"},
	})

	assert.Equal(t, "hello", h.form["msgField"], "failure keeps the form values")
	require.Len(t, h.popups, 1)
	assert.Empty(t, h.screens)
}
