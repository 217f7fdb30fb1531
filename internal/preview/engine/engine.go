// Package engine is the action interpreter: a registry of action kinds
// mapped to handler functions, dispatched one action at a time against
// an explicit context of preview state. The dispatcher is the error
// boundary of the interpreter: malformed actions and handler failures
// are logged and absorbed, never propagated, so the surrounding UI
// stays responsive whatever the declarative document throws at it.
package engine

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/matthewbaird/appdeck/internal/ai"
	"github.com/matthewbaird/appdeck/internal/document"
)

// HandlerFunc executes one action kind. Handlers read snapshots from
// actx and publish full replacements through its setters; a returned
// error is logged at the dispatch boundary and goes no further.
type HandlerFunc func(ctx context.Context, action *document.Action, actx *Context) error

// Engine routes actions to their handlers. The built-in handler set
// covers every document action kind; additional kinds can be registered
// without touching the dispatch core.
type Engine struct {
	mu       sync.RWMutex
	handlers map[string]HandlerFunc

	ai   ai.Executor
	http *http.Client
}

// New builds an engine with the built-in handlers registered. aiExec
// may be nil, in which case ai actions take their failure path.
func New(aiExec ai.Executor) *Engine {
	e := &Engine{
		handlers: make(map[string]HandlerFunc),
		ai:       aiExec,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
	e.Register(document.ActionNavigate, e.handleNavigate)
	e.Register(document.ActionGoBack, e.handleGoBack)
	e.Register(document.ActionPopup, e.handlePopup)
	e.Register(document.ActionSubmit, e.handleSubmit)
	e.Register(document.ActionDeleteRecord, e.handleDeleteRecord)
	e.Register(document.ActionAuthLogin, e.handleLogin)
	e.Register(document.ActionAuthSignup, e.handleSignup)
	e.Register(document.ActionAuthLogout, e.handleLogout)
	e.Register(document.ActionAI, e.handleAI)
	return e
}

// SetHTTPClient overrides the client used for submit-to-api calls.
func (e *Engine) SetHTTPClient(c *http.Client) {
	if c != nil {
		e.http = c
	}
}

// Register adds or replaces the handler for an action kind.
func (e *Engine) Register(kind string, h HandlerFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers[kind] = h
}

// Has reports whether a handler is registered for the exact kind.
func (e *Engine) Has(kind string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.handlers[kind]
	return ok
}

// Dispatch routes one action to its handler. Nil, typeless, and
// unknown-kind actions are logged and dropped. Handler errors and
// panics are caught here with the action kind attached; they never
// reach the caller.
func (e *Engine) Dispatch(ctx context.Context, action *document.Action, actx *Context) {
	if action == nil || action.Type == "" {
		log.Printf("engine: dropping action without a type")
		return
	}

	e.mu.RLock()
	h, ok := e.handlers[action.Type]
	e.mu.RUnlock()
	if !ok {
		log.Printf("engine: no handler registered for action %q", action.Type)
		return
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("engine: handler for %q panicked: %v", action.Type, r)
		}
	}()
	if err := h(ctx, action, actx); err != nil {
		log.Printf("engine: handler for %q failed: %v", action.Type, err)
	}
}

// chain feeds a follow-up action (onSuccess/onError/popup button) back
// through the dispatcher.
func chain(actx *Context, next *document.Action) {
	if next == nil || actx == nil || actx.Dispatch == nil {
		return
	}
	actx.Dispatch(next)
}
