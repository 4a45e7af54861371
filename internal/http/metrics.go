package httpapi

import (
	"log"
	"net/http"
	"strings"

	"unistay-backend-go/internal/services"

	"github.com/gorilla/websocket"
)

var metricsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// MetricsHistory returns the most recent resource samples, oldest first,
// so the admin chart can render a window immediately on load.
func (s *Server) MetricsHistory(w http.ResponseWriter, r *http.Request) {
	limit := parseInt(r.URL.Query().Get("limit"), 60)
	if limit > 500 {
		limit = 500
	}
	items, err := services.LatestMetrics(s.DB, limit)
	if err != nil {
		log.Printf("metrics history: %v", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, map[string][]services.MetricSample{"items": items})
}

// MetricsSocket upgrades an admin connection and streams live samples.
// Browsers cannot set headers on websocket dials, so the token arrives as
// a query parameter instead.
func (s *Server) MetricsSocket(w http.ResponseWriter, r *http.Request) {
	tokenStr := strings.TrimSpace(r.URL.Query().Get("token"))
	if tokenStr == "" {
		tokenStr = bearerOrCookie(r)
	}
	if tokenStr == "" {
		WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	token, claims, err := s.Tokens.ParseToken(tokenStr)
	if err != nil || !token.Valid || claims["typ"] != "access" {
		WriteError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}
	role, _ := claims["role"].(string)
	if !strings.EqualFold(role, "admin") {
		WriteError(w, http.StatusForbidden, "Not allowed")
		return
	}
	conn, err := metricsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("metrics upgrade: %v", err)
		return
	}
	s.MetricsHub.Add(conn)
	defer func() {
		s.MetricsHub.Remove(conn)
		_ = conn.Close()
	}()
	// Drain control frames until the client goes away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
