// Package session manages live preview sessions. Each websocket
// connection owns one Preview: the four state containers of a running
// app (form, auth session, data store, current screen) behind a single
// mutex, plus the render pass that resolves the active screen's
// bindings. Handlers never touch a Preview directly — they receive
// snapshots and setters through an engine.Context built per dispatch.
package session

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matthewbaird/appdeck/internal/binding"
	"github.com/matthewbaird/appdeck/internal/document"
	"github.com/matthewbaird/appdeck/internal/preview/engine"
	"github.com/matthewbaird/appdeck/internal/preview/nav"
	"github.com/matthewbaird/appdeck/internal/preview/state"
	"github.com/matthewbaird/appdeck/internal/store"
)

// Preview is one live preview of an app document.
type Preview struct {
	ID string

	mu           sync.Mutex
	app          *document.App
	form         state.FormState
	snapshot     store.Snapshot
	auth         *state.Session
	screenID     string
	createdAt    time.Time
	lastActiveAt time.Time
}

// NewPreview starts a preview of the given app: schema tables created
// empty, the demo app's fixture rows seeded, no screen resolved yet.
func NewPreview(app *document.App) *Preview {
	snapshot := store.SyncSchema(store.Snapshot{}, app.Database)
	snapshot = store.SeedDemo(snapshot, app.ID)
	now := time.Now()
	return &Preview{
		ID:           uuid.New().String(),
		app:          app,
		form:         state.FormState{},
		snapshot:     snapshot,
		createdAt:    now,
		lastActiveAt: now,
	}
}

// Touch updates the last-activity timestamp.
func (p *Preview) Touch() {
	p.mu.Lock()
	p.lastActiveAt = time.Now()
	p.mu.Unlock()
}

// IsIdle reports whether the preview has been inactive longer than d.
func (p *Preview) IsIdle(d time.Duration) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return time.Since(p.lastActiveAt) > d
}

// SetFormField records one pending form value.
func (p *Preview) SetFormField(field string, value any) {
	p.mu.Lock()
	p.form = p.form.WithField(field, value)
	p.mu.Unlock()
}

// Reset drops form, auth session, and screen state; the data store
// keeps its records.
func (p *Preview) Reset() {
	p.mu.Lock()
	p.form = state.FormState{}
	p.auth = nil
	p.screenID = ""
	p.mu.Unlock()
}

// Context builds the dependency bag for one dispatch call. Snapshots
// are taken under the lock; each setter reacquires it to publish a full
// replacement, so a handler never holds the preview lock across its own
// work (or across a network suspension).
func (p *Preview) Context(dispatch func(*document.Action), showPopup func(engine.Popup)) *engine.Context {
	p.mu.Lock()
	defer p.mu.Unlock()
	return &engine.Context{
		App:     p.app,
		Form:    p.form.Clone(),
		Store:   p.snapshot,
		Session: p.auth,
		SetForm: func(f state.FormState) {
			p.mu.Lock()
			p.form = f
			p.mu.Unlock()
		},
		SetStore: func(s store.Snapshot) {
			p.mu.Lock()
			p.snapshot = s
			p.mu.Unlock()
		},
		SetSession: func(s *state.Session) {
			p.mu.Lock()
			p.auth = s
			p.mu.Unlock()
		},
		SetScreen: func(id string) {
			p.mu.Lock()
			p.screenID = id
			p.mu.Unlock()
		},
		ShowPopup: showPopup,
		Dispatch:  dispatch,
	}
}

// Render is the resolved view of one render pass.
type Render struct {
	ScreenID string         `json:"screenId"`
	Auth     nav.AuthMode   `json:"auth,omitempty"`
	Screen   map[string]any `json:"screen,omitempty"`
	User     map[string]any `json:"user,omitempty"`
}

// Render resolves the active screen against the current state. When a
// redirect is pending (auth gate, stale screen id), the pass yields no
// screen and the transition is applied afterwards — the next call sees
// the corrected state.
func (p *Preview) Render() (Render, bool) {
	p.mu.Lock()
	app, screenID, auth := p.app, p.screenID, p.auth
	form, snapshot := p.form, p.snapshot
	p.mu.Unlock()

	res := nav.Resolve(app, screenID, auth != nil)

	out := Render{ScreenID: screenID, Auth: res.Auth}
	if auth != nil {
		out.User = auth.User
	}
	if res.Screen != nil {
		out.Screen = resolveScreen(app, res.Screen, form, auth, snapshot)
	}

	if res.Redirect != "" && res.Redirect != screenID {
		p.mu.Lock()
		// Only apply if no handler raced a transition in the meantime.
		if p.screenID == screenID {
			p.screenID = res.Redirect
		}
		p.mu.Unlock()
		return out, true
	}
	return out, false
}

// RenderSettled renders until no redirect is pending, returning the
// final pass. The chain is short by construction (gate → auth screen),
// so a small cap guards against a document that redirects in a cycle.
func (p *Preview) RenderSettled() Render {
	for i := 0; i < 3; i++ {
		r, redirected := p.Render()
		if !redirected {
			return r
		}
	}
	r, _ := p.Render()
	return r
}

// Snapshot returns the current data-store state.
func (p *Preview) Snapshot() store.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot
}

// resolveScreen runs the screen through the binding pipeline: design
// tokens first, then template bindings against the three scopes (form,
// user, data).
func resolveScreen(app *document.App, screen *document.Screen, form state.FormState, auth *state.Session, snapshot store.Snapshot) map[string]any {
	raw, err := json.Marshal(screen)
	if err != nil {
		return nil
	}
	var tree map[string]any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil
	}

	resolved := binding.ResolveAllTokens(tree, app.Theme.Tokens)

	bindingCtx := map[string]any{
		"form": map[string]any(form),
		"data": storeContext(snapshot),
	}
	if auth != nil {
		bindingCtx["user"] = auth.User
	}
	resolved = binding.ResolveTemplate(resolved, bindingCtx)

	out, _ := resolved.(map[string]any)
	return out
}

// storeContext exposes the snapshot's tables as a generic tree for
// template traversal.
func storeContext(snapshot store.Snapshot) map[string]any {
	out := make(map[string]any, len(snapshot))
	for table, records := range snapshot {
		rows := make([]any, len(records))
		for i, rec := range records {
			rows[i] = map[string]any(rec)
		}
		out[table] = rows
	}
	return out
}
