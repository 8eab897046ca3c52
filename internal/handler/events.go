package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/yourorg/hireloop/internal/events"
	"github.com/yourorg/hireloop/internal/observability/metrics"
	"github.com/yourorg/hireloop/internal/security/auth"
	"github.com/yourorg/hireloop/internal/security/middleware"
)

// EventsHandler streams pipeline stage transitions to dashboard clients over
// a websocket. Browsers cannot set Authorization headers on websocket
// upgrades, so the staff token is also accepted as a ?token= query
// parameter.
type EventsHandler struct {
	hub            *events.Hub
	tokens         *auth.TokenManager
	resolver       middleware.Resolver
	allowedOrigins []string
	logger         *slog.Logger
}

// NewEventsHandler creates an events handler.
func NewEventsHandler(hub *events.Hub, tokens *auth.TokenManager, resolver middleware.Resolver, allowedOrigins []string, logger *slog.Logger) *EventsHandler {
	return &EventsHandler{
		hub:            hub,
		tokens:         tokens,
		resolver:       resolver,
		allowedOrigins: allowedOrigins,
		logger:         logger,
	}
}

func (h *EventsHandler) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, allowed := range h.allowedOrigins {
				if origin == allowed {
					return true
				}
			}
			h.logger.Warn("websocket origin rejected", slog.String("origin", origin))
			return false
		},
	}
}

// ServeHTTP handles GET /ws/pipeline.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	tokenString := r.URL.Query().Get("token")
	if tokenString == "" {
		if header := r.Header.Get("Authorization"); header != "" {
			tokenString, _ = auth.ExtractToken(header)
		}
	}
	if tokenString == "" {
		http.Error(w, `{"error":"missing auth"}`, http.StatusUnauthorized)
		return
	}

	claims, err := h.tokens.ValidateToken(tokenString)
	if err != nil {
		http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
		return
	}
	tenant, _, err := h.resolver.Resolve(r.Context(), claims.OrgID, claims.Subject)
	if err != nil {
		http.Error(w, `{"error":"identity resolution failed"}`, http.StatusUnauthorized)
		return
	}

	upgrader := h.upgrader()
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer ws.Close()

	metrics.IncStreamClients()
	defer metrics.DecStreamClients()

	ch, cancel := h.hub.Subscribe(tenant.ID)
	defer cancel()

	h.logger.Debug("pipeline stream connected", slog.String("tenant_id", tenant.ID))

	// Reader goroutine drains client frames so close frames and pongs are
	// processed; it signals when the client goes away.
	clientGone := make(chan struct{})
	go func() {
		defer close(clientGone)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	pingTicker := time.NewTicker(15 * time.Second)
	defer pingTicker.Stop()

	for {
		select {
		case <-clientGone:
			return
		case <-r.Context().Done():
			return
		case <-pingTicker.C:
			if err := ws.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(5*time.Second)); err != nil {
				return
			}
		case event := <-ch:
			payload, err := json.Marshal(event)
			if err != nil {
				continue
			}
			if err := ws.WriteMessage(websocket.TextMessage, payload); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					h.logger.Debug("pipeline stream closed", slog.String("tenant_id", tenant.ID))
				}
				return
			}
		}
	}
}
