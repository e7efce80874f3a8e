// Package webchat exposes the appointment dialog over HTTP and
// WebSocket for the embeddable chat widget.
package webchat

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/net/websocket"

	"dentalcare/internal/conversation"
	"dentalcare/internal/renderer"
)

// InboundFrame is what the widget sends.
type InboundFrame struct {
	Type      string `json:"type"` // "message", "ping"
	SessionID string `json:"session_id,omitempty"`
	Text      string `json:"text,omitempty"`
}

// OutboundFrame is what we send to the widget.
type OutboundFrame struct {
	Type      string   `json:"type"` // message, choices, status, calendar, session, error, pong
	Role      string   `json:"role,omitempty"`
	Text      string   `json:"text,omitempty"`
	URL       string   `json:"url,omitempty"`
	Visible   bool     `json:"visible,omitempty"`
	SessionID string   `json:"session_id,omitempty"`
	Choices   []Choice `json:"choices,omitempty"`
}

// Choice is a quick-choice button with its icon hint.
type Choice struct {
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

// Handler serves the web chat endpoints.
type Handler struct {
	engine *conversation.Engine
	store  conversation.Store
	logger zerolog.Logger
}

// NewHandler creates a web chat handler.
func NewHandler(engine *conversation.Engine, store conversation.Store, logger zerolog.Logger) *Handler {
	return &Handler{engine: engine, store: store, logger: logger}
}

// Routes registers the chat endpoints on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.Handle("/chat/ws", websocket.Handler(h.serveWS))
	mux.HandleFunc("/chat/message", h.handleMessage)
}

func (h *Handler) serveWS(conn *websocket.Conn) {
	r := conn.Request()

	sessionID := r.URL.Query().Get("session")
	fresh := false
	if sessionID == "" {
		sessionID = uuid.New().String()
		fresh = true
	}

	session, err := h.store.GetOrCreate(sessionID)
	if err != nil {
		_ = websocket.JSON.Send(conn, OutboundFrame{Type: "error", Text: "session unavailable"})
		return
	}

	out := &wsRenderer{conn: conn}
	_ = websocket.JSON.Send(conn, OutboundFrame{Type: "session", SessionID: sessionID})
	if fresh {
		h.engine.Greet(out)
	}

	h.logger.Info().Str("session", sessionID).Msg("webchat connection opened")

	// One receive loop per connection: each turn is processed to
	// completion before the next frame is read.
	for {
		var frame InboundFrame
		if err := websocket.JSON.Receive(conn, &frame); err != nil {
			h.logger.Debug().Err(err).Str("session", sessionID).Msg("webchat connection closed")
			return
		}

		switch frame.Type {
		case "ping":
			_ = websocket.JSON.Send(conn, OutboundFrame{Type: "pong"})
		case "message":
			if strings.TrimSpace(frame.Text) == "" {
				continue
			}
			if err := h.engine.HandleUtterance(r.Context(), session, out, frame.Text); err != nil {
				h.logger.Error().Err(err).Str("session", sessionID).Msg("utterance failed")
				_ = websocket.JSON.Send(conn, OutboundFrame{
					Type: "error", Text: "Sorry, something went wrong. Please try again.",
				})
			}
		}
	}
}

// handleMessage is the HTTP fallback: one utterance in, the rendered
// frames of that turn out.
func (h *Handler) handleMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req InboundFrame
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}

	fresh := false
	if req.SessionID == "" {
		req.SessionID = uuid.New().String()
		fresh = true
	}

	session, err := h.store.GetOrCreate(req.SessionID)
	if err != nil {
		h.logger.Error().Err(err).Msg("webchat session unavailable")
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}

	out := &bufferRenderer{}
	if fresh {
		h.engine.Greet(out)
	}
	if err := h.engine.HandleUtterance(r.Context(), session, out, req.Text); err != nil {
		h.logger.Error().Err(err).Str("session", req.SessionID).Msg("utterance failed")
		http.Error(w, "failed to process message", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(struct {
		SessionID string          `json:"session_id"`
		Frames    []OutboundFrame `json:"frames"`
	}{SessionID: req.SessionID, Frames: out.frames})
}

func choicesOf(labels []string) []Choice {
	choices := make([]Choice, 0, len(labels))
	for _, l := range labels {
		choices = append(choices, Choice{Label: l, Icon: renderer.IconFor(l)})
	}
	return choices
}

// wsRenderer adapts the Renderer interface to WebSocket frames.
type wsRenderer struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (r *wsRenderer) send(f OutboundFrame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_ = websocket.JSON.Send(r.conn, f)
}

func (r *wsRenderer) DisplayMessage(role conversation.Role, text string) {
	r.send(OutboundFrame{Type: "message", Role: string(role), Text: text})
}

func (r *wsRenderer) OfferChoices(labels []string) {
	r.send(OutboundFrame{Type: "choices", Choices: choicesOf(labels)})
}

func (r *wsRenderer) SetStatus(text string) {
	r.send(OutboundFrame{Type: "status", Text: text})
}

func (r *wsRenderer) ShowCalendarLink(url string) {
	r.send(OutboundFrame{Type: "calendar", URL: url, Visible: true})
}

func (r *wsRenderer) HideCalendarLink() {
	r.send(OutboundFrame{Type: "calendar"})
}

// bufferRenderer collects frames for the HTTP fallback response.
type bufferRenderer struct {
	frames []OutboundFrame
}

func (r *bufferRenderer) DisplayMessage(role conversation.Role, text string) {
	r.frames = append(r.frames, OutboundFrame{Type: "message", Role: string(role), Text: text})
}

func (r *bufferRenderer) OfferChoices(labels []string) {
	r.frames = append(r.frames, OutboundFrame{Type: "choices", Choices: choicesOf(labels)})
}

func (r *bufferRenderer) SetStatus(text string) {
	r.frames = append(r.frames, OutboundFrame{Type: "status", Text: text})
}

func (r *bufferRenderer) ShowCalendarLink(url string) {
	r.frames = append(r.frames, OutboundFrame{Type: "calendar", URL: url, Visible: true})
}

func (r *bufferRenderer) HideCalendarLink() {
	r.frames = append(r.frames, OutboundFrame{Type: "calendar"})
}
