package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthewbaird/appdeck/internal/preview/wire"
	"github.com/matthewbaird/appdeck/internal/registry"
)

const testAppDoc = `{
	"id": "tasks-app",
	"name": "Tasks",
	"initialScreen": "home",
	"screens": [
		{"id": "home", "components": [
			{"type": "text", "props": {"value": "Hi {{form.nameField}}"}}
		]},
		{"id": "about"}
	],
	"databaseSchema": {
		"tasks": {"fields": {"title": {"type": "string"}}}
	}
}`

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(Router(Config{Apps: registry.NewMemoryStore()}))
	t.Cleanup(srv.Close)
	return srv
}

func createApp(t *testing.T, srv *httptest.Server) registry.AppRecord {
	t.Helper()
	body, _ := json.Marshal(map[string]any{"document": json.RawMessage(testAppDoc)})
	resp, err := http.Post(srv.URL+"/v1/apps", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var rec registry.AppRecord
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rec))
	return rec
}

func TestAppCRUD(t *testing.T) {
	srv := testServer(t)

	rec := createApp(t, srv)
	assert.Equal(t, "tasks-app", rec.ID, "app id comes from the document")
	assert.Equal(t, "Tasks", rec.Name, "name falls back to the document")

	resp, err := http.Get(srv.URL + "/v1/apps/tasks-app")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/v1/apps/ghost")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/v1/apps/tasks-app", nil)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestCreateApp_RejectsMalformedDocument(t *testing.T) {
	srv := testServer(t)

	body := `{"document": "not an object"`
	resp, err := http.Post(srv.URL+"/v1/apps", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestValidateApp(t *testing.T) {
	srv := testServer(t)
	createApp(t, srv)

	resp, err := http.Post(srv.URL+"/v1/apps/tasks-app/validate", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Valid bool `json:"valid"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.True(t, out.Valid)
}

func TestPreviewWebSocket(t *testing.T) {
	srv := testServer(t)
	createApp(t, srv)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/apps/tasks-app/preview/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	read := func() wire.ServerMessage {
		var msg wire.ServerMessage
		require.NoError(t, wsjson.Read(ctx, conn, &msg))
		return msg
	}

	// Connect handshake: session, then the initial render and state.
	msg := read()
	require.Equal(t, "session", msg.Type)
	assert.Equal(t, "render", read().Type)
	assert.Equal(t, "state", read().Type)

	// A form edit re-renders with the binding applied.
	require.NoError(t, wsjson.Write(ctx, conn, wire.ClientMessage{
		Type: "form",
		ID:   "r1",
		Data: json.RawMessage(`{"field": "nameField", "value": "Ada"}`),
	}))
	render := read()
	require.Equal(t, "render", render.Type)
	assert.Equal(t, "r1", render.RequestID)
	raw, _ := json.Marshal(render.Data)
	assert.Contains(t, string(raw), "Hi Ada")
	assert.Equal(t, "state", read().Type)

	// Navigation actions round-trip through the dispatcher.
	require.NoError(t, wsjson.Write(ctx, conn, wire.ClientMessage{
		Type: "action",
		ID:   "r2",
		Data: json.RawMessage(`{"type": "navigate", "target": "about"}`),
	}))
	render = read()
	require.Equal(t, "render", render.Type)
	raw, _ = json.Marshal(render.Data)
	assert.Contains(t, string(raw), `"about"`)
	assert.Equal(t, "state", read().Type)

	// Unknown message types surface as protocol errors.
	require.NoError(t, wsjson.Write(ctx, conn, wire.ClientMessage{Type: "nonsense", ID: "r3"}))
	errMsg := read()
	assert.Equal(t, "error", errMsg.Type)
}
