package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"cs-quiz/internal/app"
	"cs-quiz/internal/domain"
	"cs-quiz/internal/metrics"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type WSHandler struct {
	service  *app.QuizService
	sessions app.SessionRepository
	logger   *zap.Logger
	tick     time.Duration
	upgrader websocket.Upgrader
}

// NewWSHandler wires the quiz use cases to websocket clients. tick is the
// countdown resolution and defaults to one second.
func NewWSHandler(service *app.QuizService, sessions app.SessionRepository, logger *zap.Logger, tick time.Duration) *WSHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if tick <= 0 {
		tick = time.Second
	}
	return &WSHandler{
		service:  service,
		sessions: sessions,
		logger:   logger,
		tick:     tick,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type startPayload struct {
	Length int `json:"length"`
}

type answerPayload struct {
	Choice string `json:"choice"`
}

type lengthsPayload struct {
	Options []app.LengthOption `json:"options"`
}

type questionPayload struct {
	SessionID string   `json:"sessionId"`
	Index     int      `json:"index"`
	Total     int      `json:"total"`
	Prompt    string   `json:"prompt"`
	Options   []string `json:"options"`
	Remaining int      `json:"remaining"`
	Score     int      `json:"score"`
}

type tickPayload struct {
	Remaining int `json:"remaining"`
}

type feedbackPayload struct {
	Outcome       domain.OutcomeKind `json:"outcome"`
	CorrectAnswer string             `json:"correctAnswer"`
	Score         int                `json:"score"`
	Message       string             `json:"message"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and runs one quiz session per
// connection. The loop below is the only writer and the only goroutine that
// mutates the session.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx := r.Context()
	lengths, err := h.service.LengthOptions(ctx)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	if err := conn.WriteJSON(outboundMessage[lengthsPayload]{Type: "lengths", Payload: lengthsPayload{Options: lengths}}); err != nil {
		return
	}

	inbound := make(chan inboundMessage)
	done := make(chan struct{})
	defer close(done)
	go func() {
		defer close(inbound)
		for {
			var msg inboundMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			select {
			case inbound <- msg:
			case <-done:
				return
			}
		}
	}()

	h.run(ctx, conn, inbound)
}

type connLoop struct {
	h       *WSHandler
	conn    *websocket.Conn
	session *app.Session
	ticker  *time.Ticker
	advance <-chan time.Time
}

func (h *WSHandler) run(ctx context.Context, conn *websocket.Conn, inbound <-chan inboundMessage) {
	l := &connLoop{h: h, conn: conn}
	defer l.stopTicker()
	defer func() {
		if l.session != nil {
			h.sessions.Remove(l.session.ID())
			metrics.ConnectionClosed()
		}
	}()

	for {
		var tickC <-chan time.Time
		if l.ticker != nil {
			tickC = l.ticker.C
		}

		select {
		case <-ctx.Done():
			return
		case msg, ok := <-inbound:
			if !ok {
				return
			}
			if !l.handle(ctx, msg) {
				return
			}
		case <-tickC:
			out, expired := h.service.Tick(l.session)
			if !expired {
				if !l.send("tick", tickPayload{Remaining: l.session.Remaining()}) {
					return
				}
				continue
			}
			l.stopTicker()
			if !l.sendFeedback(out) {
				return
			}
			l.advance = time.After(h.service.Options().TimeoutDelay)
		case <-l.advance:
			l.advance = nil
			if l.session.Advance() {
				if !l.sendQuestion() {
					return
				}
				continue
			}
			summary := h.service.Finish(ctx, l.session)
			_ = l.send("complete", summary)
			h.logger.Info("session complete",
				zap.String("session", l.session.ID()),
				zap.Int("score", summary.Score),
				zap.Int("total", summary.Total))
			return
		}
	}
}

func (l *connLoop) handle(ctx context.Context, msg inboundMessage) bool {
	switch msg.Type {
	case "start":
		if l.session != nil {
			return l.sendError("quiz already started")
		}
		var payload startPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return l.sendError("invalid start payload")
		}
		session, err := l.h.service.Start(ctx, payload.Length)
		if err != nil {
			return l.sendError(err.Error())
		}
		l.session = session
		l.h.sessions.Add(session)
		metrics.ConnectionOpened()
		l.h.logger.Info("session started", zap.String("session", session.ID()), zap.Int("questions", session.Total()))
		return l.sendQuestion()
	case "answer":
		if l.session == nil {
			return l.sendError("quiz not started")
		}
		var payload answerPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return l.sendError("invalid answer payload")
		}
		out, err := l.h.service.Submit(l.session, payload.Choice)
		switch {
		case errors.Is(err, domain.ErrNoChoice):
			return l.sendError("Choose an answer!")
		case err != nil:
			return l.sendError(err.Error())
		}
		l.stopTicker()
		if !l.sendFeedback(out) {
			return false
		}
		l.advance = time.After(l.h.service.Options().AnswerDelay)
		return true
	default:
		return l.sendError("unsupported message type")
	}
}

func (l *connLoop) sendQuestion() bool {
	q, ok := l.session.Current()
	if !ok {
		return false
	}
	snap := l.session.Snapshot()
	l.stopTicker()
	l.ticker = time.NewTicker(l.h.tick)
	return l.send("question", questionPayload{
		SessionID: snap.ID,
		Index:     snap.Index,
		Total:     snap.Total,
		Prompt:    q.Prompt,
		Options:   q.Options,
		Remaining: snap.Remaining,
		Score:     snap.Score,
	})
}

func (l *connLoop) sendFeedback(out domain.Outcome) bool {
	return l.send("feedback", feedbackPayload{
		Outcome:       out.Kind,
		CorrectAnswer: out.CorrectAnswer,
		Score:         out.Score,
		Message:       out.Message(),
	})
}

func (l *connLoop) sendError(message string) bool {
	return l.send("error", errorPayload{Message: message})
}

func (l *connLoop) send(typ string, payload any) bool {
	if err := l.conn.WriteJSON(outboundMessage[any]{Type: typ, Payload: payload}); err != nil {
		l.h.logger.Debug("ws write error", zap.Error(err))
		return false
	}
	return true
}

func (l *connLoop) stopTicker() {
	if l.ticker != nil {
		l.ticker.Stop()
		l.ticker = nil
	}
}

// ServeSession returns the snapshot of a live session: GET /sessions/{id}.
func (h *WSHandler) ServeSession(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/sessions/")
	session, ok := h.sessions.Get(id)
	if id == "" || !ok {
		http.Error(w, domain.ErrSessionNotFound.Error(), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(session.Snapshot())
}
