package network

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"kingdoms/internal/bus"
	"kingdoms/models"
	"kingdoms/pkg/protocol"
)

// Client is one connected player's pair of pumps. The read pump parses and
// dispatches inbound commands; the write pump multiplexes the global bus, the
// current lobby bus and the private channel onto the socket.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	player *models.Player
	log    *logrus.Entry
}

// readPump consumes the socket until it errors or a non-text frame arrives.
// Frames that fail to parse are dropped without closing the connection.
func (c *Client) readPump() {
	defer c.conn.Close()

	c.conn.SetReadLimit(4096)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType != websocket.TextMessage {
			return
		}

		cmd, err := protocol.ParseCommand(string(data))
		if err != nil {
			c.log.WithError(err).Debug("dropping unparseable frame")
			continue
		}
		c.dispatch(cmd)
	}
}

// writePump owns all socket writes. A JoinLobby tag passing through the
// private channel swaps the lobby subscription before the ack is forwarded,
// so no lobby frame can precede it.
func (c *Client) writePump(globalSub *bus.Subscription, done <-chan struct{}) {
	defer c.conn.Close()
	defer globalSub.Close()

	var lobbySub *bus.Subscription
	var lobbyCh <-chan protocol.ServerMessage
	defer func() {
		if lobbySub != nil {
			lobbySub.Close()
		}
	}()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg := <-globalSub.C:
			if !c.write(msg) {
				return
			}
		case msg := <-lobbyCh:
			if !c.write(msg) {
				return
			}
		case msg := <-c.player.Private():
			if msg.Verb == protocol.VerbLobbyJoined {
				if lobbySub != nil {
					lobbySub.Close()
				}
				if lobby, ok := c.hub.lobbies.Get(msg.LobbyID); ok {
					lobbySub = lobby.Broadcast.Subscribe()
					lobbyCh = lobbySub.C
				}
			}
			if !c.write(msg) {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func (c *Client) write(msg protocol.ServerMessage) bool {
	frame, err := msg.Encode()
	if err != nil {
		c.log.WithError(err).WithField("verb", msg.Verb).Error("failed to encode frame")
		return true
	}

	c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		c.log.WithError(err).Debug("write failed")
		return false
	}
	return true
}
