// Package wire defines the WebSocket protocol for live previews.
package wire

import (
	"encoding/json"

	"github.com/matthewbaird/appdeck/internal/preview/engine"
	"github.com/matthewbaird/appdeck/internal/preview/session"
	"github.com/matthewbaird/appdeck/internal/store"
)

// ── Client → Server messages ────────────────────────────────────────────────

// ClientMessage is the envelope for all client-to-server messages.
type ClientMessage struct {
	Type string          `json:"type"` // "action", "form", "reset", "ping"
	ID   string          `json:"id"`   // Client-assigned request ID
	Data json.RawMessage `json:"data,omitempty"`
}

// FormData is the payload for "form" messages: one field edit.
type FormData struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

// ── Server → Client messages ────────────────────────────────────────────────

// ServerMessage is the envelope for all server-to-client messages.
type ServerMessage struct {
	Type      string `json:"type"`                 // "session", "render", "state", "popup", "error", "pong"
	RequestID string `json:"request_id,omitempty"` // Echoes client ID
	Data      any    `json:"data,omitempty"`
}

// SessionData announces the preview session on connect.
type SessionData struct {
	PreviewID string `json:"preview_id"`
	AppID     string `json:"app_id"`
}

// RenderData carries the resolved active screen.
type RenderData struct {
	Render session.Render `json:"render"`
}

// StateData carries the full data-store snapshot for list/record views.
type StateData struct {
	Store store.Snapshot `json:"store"`
}

// PopupData carries a popup descriptor raised by an action.
type PopupData struct {
	Popup engine.Popup `json:"popup"`
}

// ErrorData carries an error message.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
