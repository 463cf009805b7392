package network

import (
	"time"

	"kingdoms/models"
	"kingdoms/pkg/protocol"
)

func (c *Client) dispatch(cmd protocol.Command) {
	switch cmd.Kind {
	case protocol.CmdMove:
		c.handleMove(cmd.Direction)
	case protocol.CmdJoinLobby:
		c.handleJoinLobby(cmd.LobbyID)
	case protocol.CmdPing:
		c.handlePing()
	case protocol.CmdSendGlobalMessage:
		c.handleGlobalMessage(cmd.Text)
	case protocol.CmdSendLobbyMessage:
		c.handleLobbyMessage(cmd.Text)
	}
}

// handleMove appends to the player's queue when there is room. The queue
// snapshot goes back on the private channel either way, so the client always
// learns the authoritative queue.
func (c *Client) handleMove(dir protocol.Direction) {
	c.hub.registry.Lock()
	player, ok := c.hub.registry.Get(c.player.UUID)
	if !ok {
		c.hub.registry.Unlock()
		c.fatal()
		return
	}
	player.QueueMove(dir, c.hub.cfg.MaxQueuedMoves)
	moves := player.MovesSnapshot()
	c.hub.registry.Unlock()

	c.player.Send(protocol.ServerMessage{Verb: protocol.VerbMyMoves, Moves: &moves})
}

// handleJoinLobby moves the player into lobby id if it is joinable. Rejected
// joins are silent. Filling the lobby arms the start countdown.
func (c *Client) handleJoinLobby(id int) {
	lobby, ok := c.hub.lobbies.Get(id)
	if !ok {
		return
	}

	c.hub.registry.Lock()
	player, ok := c.hub.registry.Get(c.player.UUID)
	if !ok {
		c.hub.registry.Unlock()
		c.fatal()
		return
	}

	lobby.Lock()
	if len(lobby.Members) >= lobby.Capacity || lobby.Status != protocol.LobbyAwaitingPlayers {
		lobby.Unlock()
		c.hub.registry.Unlock()
		return
	}
	if player.Lobby != nil && *player.Lobby == id {
		lobby.Unlock()
		c.hub.registry.Unlock()
		return
	}

	// Leaving the previous lobby cannot deadlock against another join: both
	// paths hold the registry write lock before any lobby lock.
	if player.Lobby != nil {
		if previous, ok := c.hub.lobbies.Get(*player.Lobby); ok {
			previous.Lock()
			delete(previous.Members, player.UUID)
			previous.Unlock()
		}
	}

	lobby.Members[player.UUID] = player.Name
	joined := id
	player.Lobby = &joined

	if len(lobby.Members) == lobby.Capacity {
		lobby.Status = protocol.LobbyStartingSoon
		lobby.NextStartingTime = time.Now().Add(c.hub.cfg.StartDelay()).Unix()
	}
	lobby.Unlock()
	c.hub.registry.Unlock()

	c.player.Send(protocol.ServerMessage{Verb: protocol.VerbLobbyJoined, LobbyID: id})
	c.player.Send(protocol.ServerMessage{
		Verb:    protocol.VerbLobbyChatSync,
		History: lobby.History(c.hub.cfg.ChatSyncLimit),
	})
	c.hub.global.Publish(protocol.ServerMessage{
		Verb:    protocol.VerbLobbiesGeneralUpdate,
		Lobbies: models.LobbiesSnapshot(c.hub.registry, c.hub.lobbies),
	})
}

func (c *Client) handlePing() {
	c.player.Send(protocol.ServerMessage{Verb: protocol.VerbPong})
}

func (c *Client) handleGlobalMessage(text string) {
	c.hub.registry.RLock()
	poster := c.player.Name
	c.hub.registry.RUnlock()

	msg := protocol.ChatMessage{Poster: poster, Message: text}
	c.hub.chat.Append(msg)
	c.hub.global.Publish(protocol.ServerMessage{Verb: protocol.VerbGlobalChatNewMessage, Chat: &msg})
}

// handleLobbyMessage appends to the chat of the lobby the player is in, if
// any, and fans it out on that lobby's broadcast.
func (c *Client) handleLobbyMessage(text string) {
	c.hub.registry.RLock()
	poster := c.player.Name
	var lobby *models.Lobby
	if c.player.Lobby != nil {
		lobby, _ = c.hub.lobbies.Get(*c.player.Lobby)
	}
	c.hub.registry.RUnlock()
	if lobby == nil {
		return
	}

	msg := protocol.ChatMessage{Poster: poster, Message: text}
	lobby.Lock()
	lobby.Messages = append(lobby.Messages, msg)
	lobby.Unlock()
	lobby.Broadcast.Publish(protocol.ServerMessage{Verb: protocol.VerbLobbyChatNewMessage, Chat: &msg})
}

// fatal closes the transport after a registry invariant violation. Teardown
// runs once the pumps unwind.
func (c *Client) fatal() {
	c.log.Error("player record missing from registry")
	c.conn.Close()
}
