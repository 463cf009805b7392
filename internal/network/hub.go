package network

import (
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"kingdoms/internal/bus"
	"kingdoms/models"
	"kingdoms/pkg/config"
	"kingdoms/pkg/protocol"
)

// Hub owns the shared state every connection operates on: the registry of
// connected players, the lobby table, the global broadcast and the global
// chat log.
type Hub struct {
	cfg      config.GameConfig
	registry *models.Registry
	lobbies  *models.LobbyTable
	global   *bus.Broadcaster
	chat     *models.ChatLog
	log      *logrus.Logger
}

// NewHub creates a hub over the given shared state.
func NewHub(cfg config.GameConfig, registry *models.Registry, lobbies *models.LobbyTable,
	global *bus.Broadcaster, chat *models.ChatLog, log *logrus.Logger) *Hub {
	return &Hub{
		cfg:      cfg,
		registry: registry,
		lobbies:  lobbies,
		global:   global,
		chat:     chat,
		log:      log,
	}
}

// Connected reports whether a player with this uuid is currently registered.
func (h *Hub) Connected(playerUUID string) bool {
	h.registry.RLock()
	defer h.registry.RUnlock()
	_, ok := h.registry.Get(playerUUID)
	return ok
}

// Rename updates the display name of the connected player, if any. Lobby
// member lists keep the name recorded at join time.
func (h *Hub) Rename(playerUUID, name string) {
	h.registry.Lock()
	defer h.registry.Unlock()
	if player, ok := h.registry.Get(playerUUID); ok {
		player.Name = name
	}
}

// HandleConnection registers the player and runs the connection's two pumps
// until the transport dies, then tears the player down. It blocks for the
// lifetime of the connection.
func (h *Hub) HandleConnection(conn *websocket.Conn, playerUUID, name string) {
	player := models.NewPlayer(playerUUID, name)

	h.registry.Lock()
	h.registry.Add(player)
	h.registry.Unlock()

	log := h.log.WithFields(logrus.Fields{"player": name, "uuid": playerUUID})
	log.Info("player connected")

	client := &Client{hub: h, conn: conn, player: player, log: log}

	// Subscribe before announcing the new roster so the player sees the
	// update that includes them.
	globalSub := h.global.Subscribe()
	h.global.Publish(protocol.ServerMessage{
		Verb:    protocol.VerbLobbiesGeneralUpdate,
		Lobbies: models.LobbiesSnapshot(h.registry, h.lobbies),
	})
	player.Send(protocol.ServerMessage{
		Verb:    protocol.VerbGlobalChatSync,
		History: h.chat.LastN(h.cfg.ChatSyncLimit),
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		client.readPump()
	}()
	client.writePump(globalSub, done)
	<-done

	h.teardown(player)
	log.Info("player disconnected")
}

// teardown removes the player from the registry and, while their lobby is
// still awaiting players, from that lobby's member set. Lobbies that already
// started keep the membership so the player's tiles stay on the board.
func (h *Hub) teardown(player *models.Player) {
	h.registry.Lock()
	if player.Lobby != nil {
		if lobby, ok := h.lobbies.Get(*player.Lobby); ok {
			lobby.Lock()
			if lobby.Status == protocol.LobbyAwaitingPlayers {
				delete(lobby.Members, player.UUID)
			}
			lobby.Unlock()
		}
	}
	h.registry.Remove(player.UUID)
	h.registry.Unlock()

	h.global.Publish(protocol.ServerMessage{
		Verb:    protocol.VerbLobbiesGeneralUpdate,
		Lobbies: models.LobbiesSnapshot(h.registry, h.lobbies),
	})
}
