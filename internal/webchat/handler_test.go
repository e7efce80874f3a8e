package webchat

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dentalcare/internal/conversation"
)

type noopSubmitter struct{}

func (noopSubmitter) Submit(context.Context, conversation.Record, time.Time) error { return nil }

type noopLinks struct{}

func (noopLinks) EventURL(conversation.Record) (string, error) { return "https://cal.example", nil }

func newTestHandler() (*Handler, conversation.Store) {
	store := conversation.NewMemoryStore(time.Minute)
	engine := conversation.NewEngine(store, noopSubmitter{}, noopLinks{}, conversation.Pacing{}, zerolog.Nop())
	return NewHandler(engine, store, zerolog.Nop()), store
}

type messageResponse struct {
	SessionID string          `json:"session_id"`
	Frames    []OutboundFrame `json:"frames"`
}

func postMessage(t *testing.T, h *Handler, sessionID, text string) messageResponse {
	t.Helper()
	body, _ := json.Marshal(InboundFrame{Type: "message", SessionID: sessionID, Text: text})
	req := httptest.NewRequest(http.MethodPost, "/chat/message", bytes.NewReader(body))
	w := httptest.NewRecorder()

	mux := http.NewServeMux()
	h.Routes(mux)
	mux.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp messageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func frameTypes(frames []OutboundFrame) []string {
	types := make([]string, 0, len(frames))
	for _, f := range frames {
		types = append(types, f.Type)
	}
	return types
}

func TestHandleMessageNewSession(t *testing.T) {
	h, _ := newTestHandler()

	resp := postMessage(t, h, "", "I'd like to schedule an appointment")
	assert.NotEmpty(t, resp.SessionID)

	types := frameTypes(resp.Frames)
	// Greeting, user echo, service menu, choices.
	assert.Contains(t, types, "message")
	assert.Contains(t, types, "choices")

	var lastChoices []Choice
	for _, f := range resp.Frames {
		if f.Type == "choices" {
			lastChoices = f.Choices
		}
	}
	require.Len(t, lastChoices, 4)
	assert.Equal(t, Choice{Label: "Routine Cleaning", Icon: "star"}, lastChoices[0])
	assert.Equal(t, Choice{Label: "Emergency", Icon: "heartbeat"}, lastChoices[3])
}

func TestHandleMessageContinuesSession(t *testing.T) {
	h, store := newTestHandler()

	resp := postMessage(t, h, "", "book an appointment")
	id := resp.SessionID

	postMessage(t, h, id, "cleaning")
	postMessage(t, h, id, "12/25/2025")

	session, err := store.Get(id)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, conversation.StageTimeInput, session.CurrentStage())
	assert.Equal(t, "Routine Cleaning", session.Snapshot().Service)
}

func TestHandleMessageValidation(t *testing.T) {
	h, _ := newTestHandler()

	body, _ := json.Marshal(InboundFrame{Type: "message", Text: "   "})
	req := httptest.NewRequest(http.MethodPost, "/chat/message", bytes.NewReader(body))
	w := httptest.NewRecorder()
	mux := http.NewServeMux()
	h.Routes(mux)
	mux.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/chat/message", nil)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestSubmissionOverHTTPFallback(t *testing.T) {
	h, _ := newTestHandler()

	resp := postMessage(t, h, "", "appointment")
	id := resp.SessionID
	for _, text := range []string{"cleaning", "12/25/2025", "2:30 PM", "Jane Doe", "555-1234", "jane@example.com"} {
		resp = postMessage(t, h, id, text)
	}

	resp = postMessage(t, h, id, "yes")
	types := frameTypes(resp.Frames)
	assert.Contains(t, types, "status")
	assert.Contains(t, types, "calendar")

	var calendarURL string
	for _, f := range resp.Frames {
		if f.Type == "calendar" && f.Visible {
			calendarURL = f.URL
		}
	}
	assert.Equal(t, "https://cal.example", calendarURL)
}
