package wire

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/matthewbaird/appdeck/internal/document"
	"github.com/matthewbaird/appdeck/internal/preview/engine"
	"github.com/matthewbaird/appdeck/internal/preview/session"
)

// Handler manages WebSocket connections for live previews.
type Handler struct {
	sessions *session.Manager
	engine   *engine.Engine
}

// NewHandler creates a preview handler with its dependencies.
func NewHandler(sessions *session.Manager, eng *engine.Engine) *Handler {
	return &Handler{sessions: sessions, engine: eng}
}

// previewConn serializes writes; actions run concurrently and each one
// reports back on completion.
type previewConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *previewConn) send(ctx context.Context, msg ServerMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := wsjson.Write(ctx, c.conn, msg); err != nil {
		log.Printf("preview: write error: %v", err)
	}
}

func (c *previewConn) sendError(ctx context.Context, requestID, code, message string) {
	c.send(ctx, ServerMessage{
		Type:      "error",
		RequestID: requestID,
		Data:      ErrorData{Code: code, Message: message},
	})
}

// Serve upgrades to WebSocket and runs the message loop for one app.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request, app *document.App) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		log.Printf("preview: websocket accept: %v", err)
		return
	}
	defer conn.CloseNow()

	pc := &previewConn{conn: conn}
	preview := h.sessions.Create(app)
	defer h.sessions.Remove(preview.ID)
	ctx := r.Context()

	pc.send(ctx, ServerMessage{
		Type: "session",
		Data: SessionData{PreviewID: preview.ID, AppID: app.ID},
	})
	h.sendView(ctx, pc, "", preview)

	var pending sync.WaitGroup
	defer pending.Wait()

	for {
		var msg ClientMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			if status := websocket.CloseStatus(err); status != -1 {
				log.Printf("preview: connection closed: %v", status)
			}
			return
		}
		preview.Touch()

		switch msg.Type {
		case "action":
			var action document.Action
			if err := json.Unmarshal(msg.Data, &action); err != nil {
				pc.sendError(ctx, msg.ID, "invalid_data", "invalid action data")
				continue
			}
			// Actions run off the read loop so a slow submit or ai call
			// never blocks further interaction. State is last-write-wins
			// across overlapping actions.
			pending.Add(1)
			go func(id string, action document.Action) {
				defer pending.Done()
				h.dispatch(ctx, pc, preview, &action)
				h.sendView(ctx, pc, id, preview)
			}(msg.ID, action)
		case "form":
			var data FormData
			if err := json.Unmarshal(msg.Data, &data); err != nil {
				pc.sendError(ctx, msg.ID, "invalid_data", "invalid form data")
				continue
			}
			if data.Field == "" {
				pc.sendError(ctx, msg.ID, "invalid_data", "form field id is required")
				continue
			}
			preview.SetFormField(data.Field, data.Value)
			h.sendView(ctx, pc, msg.ID, preview)
		case "reset":
			preview.Reset()
			h.sendView(ctx, pc, msg.ID, preview)
		case "ping":
			pc.send(ctx, ServerMessage{Type: "pong", RequestID: msg.ID})
		default:
			pc.sendError(ctx, msg.ID, "unknown_type", fmt.Sprintf("unknown message type: %s", msg.Type))
		}
	}
}

// dispatch runs one action with a context rebuilt per (possibly
// chained) dispatch, surfacing popups over the wire.
func (h *Handler) dispatch(ctx context.Context, pc *previewConn, preview *session.Preview, action *document.Action) {
	showPopup := func(p engine.Popup) {
		pc.send(ctx, ServerMessage{Type: "popup", Data: PopupData{Popup: p}})
	}
	var dispatchFn func(*document.Action)
	dispatchFn = func(a *document.Action) {
		h.engine.Dispatch(ctx, a, preview.Context(dispatchFn, showPopup))
	}
	dispatchFn(action)
}

// sendView pushes the settled render and the store snapshot.
func (h *Handler) sendView(ctx context.Context, pc *previewConn, requestID string, preview *session.Preview) {
	render := preview.RenderSettled()
	pc.send(ctx, ServerMessage{Type: "render", RequestID: requestID, Data: RenderData{Render: render}})
	pc.send(ctx, ServerMessage{Type: "state", RequestID: requestID, Data: StateData{Store: preview.Snapshot()}})
}
