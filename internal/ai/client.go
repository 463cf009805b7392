package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"kingdoms/pkg/protocol"
)

// Config holds one bot's wiring.
type Config struct {
	ServerURL string
	Lobby     int
	Strategy  string
	ThinkTime time.Duration
	Seed      int64
}

// Bot is one scripted player. It registers itself over REST, speaks the
// socket protocol and queues a strategy move every think interval.
type Bot struct {
	cfg      Config
	strategy Strategy
	rng      *rand.Rand
	log      *logrus.Entry

	playerUUID string
	name       string
}

// NewBot builds a bot; the strategy name falls back to the wanderer.
func NewBot(cfg Config, log *logrus.Logger) *Bot {
	if cfg.ThinkTime <= 0 {
		cfg.ThinkTime = 400 * time.Millisecond
	}
	strategy := CreateStrategy(cfg.Strategy)
	return &Bot{
		cfg:      cfg,
		strategy: strategy,
		rng:      rand.New(rand.NewSource(cfg.Seed)),
		log:      log.WithField("strategy", strategy.Name()),
	}
}

// Run plays until ctx expires or the connection drops. A normal close on
// context expiry returns nil.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.register(); err != nil {
		return err
	}
	b.log = b.log.WithField("bot", b.name)

	wsURL := "ws" + strings.TrimPrefix(b.cfg.ServerURL, "http") + "/ws/" + b.playerUUID
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("dialing %s: %w", wsURL, err)
	}
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()
	b.log.Info("connected")

	frames := make(chan protocol.ServerMessage, 32)
	readErr := make(chan error, 1)
	go func() {
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				readErr <- err
				return
			}
			msg, err := protocol.ParseServerMessage(string(data))
			if err != nil {
				b.log.WithError(err).Debug("skipping frame")
				continue
			}
			select {
			case frames <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()

	send := func(frame string) error {
		return conn.WriteMessage(websocket.TextMessage, []byte(frame))
	}

	if err := send(fmt.Sprintf("/joinLobby %d", b.cfg.Lobby)); err != nil {
		return fmt.Errorf("joining lobby: %w", err)
	}

	moves := time.NewTicker(b.cfg.ThinkTime)
	defer moves.Stop()

	playing := false
	var view *protocol.GameUpdate

	// a nil rejoin channel blocks until a finished game arms it; the single
	// select keeps all writes on one goroutine
	var rejoinAt <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			deadline := time.Now().Add(time.Second)
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
			b.log.Info("signing off")
			return nil

		case err := <-readErr:
			return fmt.Errorf("connection lost: %w", err)

		case msg := <-frames:
			switch msg.Verb {
			case protocol.VerbGameStarted:
				playing = true
				view = nil
				b.log.WithField("lobby", msg.LobbyID).Info("game on")
				_ = send("/sendLobbyMessage gl hf")
			case protocol.VerbGameUpdate:
				view = msg.Game
			case protocol.VerbWinnerIs:
				playing = false
				b.log.WithField("winner", msg.Winner).Info("game over")
				rejoinAt = time.After(time.Second)
			}

		case <-rejoinAt:
			rejoinAt = nil
			if err := send(fmt.Sprintf("/joinLobby %d", b.cfg.Lobby)); err != nil {
				return fmt.Errorf("rejoining lobby: %w", err)
			}

		case <-moves.C:
			if !playing {
				continue
			}
			dir, ok := b.strategy.NextMove(view, b.name, b.rng)
			if !ok {
				continue
			}
			if err := send("/move " + strings.ToLower(string(dir))); err != nil {
				return fmt.Errorf("sending move: %w", err)
			}
		}
	}
}

// register creates a fresh player record and keeps its uuid and name.
func (b *Bot) register() error {
	resp, err := http.Get(b.cfg.ServerURL + "/players/new")
	if err != nil {
		return fmt.Errorf("registering player: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("registering player: status %d", resp.StatusCode)
	}
	var body struct {
		Data struct {
			UUID string `json:"uuid"`
			Name string `json:"name"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("decoding register response: %w", err)
	}
	b.playerUUID = body.Data.UUID
	b.name = body.Data.Name
	return nil
}
