package handlers

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"kingdoms/internal/database/repositories"
	"kingdoms/internal/network"
)

// WebSocketHandler puts registered players on the game socket.
type WebSocketHandler struct {
	repo     *repositories.PlayerRepository
	hub      *network.Hub
	upgrader websocket.Upgrader
	log      *logrus.Logger
}

// NewWebSocketHandler creates the upgrade handler. origins is the browser
// origin allow-list shared with the CORS layer.
func NewWebSocketHandler(origins []string, repo *repositories.PlayerRepository, hub *network.Hub, log *logrus.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		repo: repo,
		hub:  hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(origins),
		},
		log: log,
	}
}

// originChecker admits requests without an Origin header, such as non-browser
// clients, and browser requests from an allowed origin.
func originChecker(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}
}

// Handle verifies the uuid against the name store and rejects players that
// are already connected, in both cases without upgrading.
func (h *WebSocketHandler) Handle(w http.ResponseWriter, r *http.Request) {
	playerUUID := mux.Vars(r)["player_uuid"]

	player, err := h.repo.GetByUUID(playerUUID)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	if h.hub.Connected(playerUUID) {
		writeError(w, http.StatusForbidden, "Query forbidden error")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	go h.hub.HandleConnection(conn, player.UUID, player.Name)
}
