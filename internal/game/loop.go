package game

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"kingdoms/internal/bus"
	"kingdoms/models"
	"kingdoms/pkg/config"
	"kingdoms/pkg/protocol"
)

// Loop drives every lobby's state machine on a fixed cadence. A single
// goroutine runs it; lobby and player state is mutated only under the
// registry-then-lobby lock order shared with the connection handlers.
type Loop struct {
	cfg      config.GameConfig
	registry *models.Registry
	lobbies  *models.LobbyTable
	global   *bus.Broadcaster
	gen      *Generator
	log      *logrus.Logger
}

// NewLoop wires the loop to the shared state it advances.
func NewLoop(cfg config.GameConfig, registry *models.Registry, lobbies *models.LobbyTable, global *bus.Broadcaster, gen *Generator, log *logrus.Logger) *Loop {
	return &Loop{
		cfg:      cfg,
		registry: registry,
		lobbies:  lobbies,
		global:   global,
		gen:      gen,
		log:      log,
	}
}

// Run wakes on the configured interval until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.cfg.TickInterval())
	defer ticker.Stop()

	l.log.WithField("interval", l.cfg.TickInterval()).Info("game loop started")
	for {
		select {
		case <-ctx.Done():
			l.log.Info("game loop stopped")
			return nil
		case <-ticker.C:
			l.Step()
		}
	}
}

// Step advances every lobby once.
func (l *Loop) Step() {
	for _, lb := range l.lobbies.All() {
		l.stepLobby(lb)
	}
}

func (l *Loop) stepLobby(lb *models.Lobby) {
	l.registry.Lock()
	lb.Lock()

	rosterChanged := false
	switch lb.Status {
	case protocol.LobbyAwaitingPlayers:
		// nothing to drive

	case protocol.LobbyStartingSoon:
		if time.Now().Unix() >= lb.NextStartingTime {
			l.launch(lb)
			rosterChanged = true
		}

	case protocol.LobbyInGame:
		if l.tick(lb) {
			l.endGame(lb)
			rosterChanged = true
		}
	}

	lb.Unlock()
	l.registry.Unlock()

	// the snapshot takes its own locks, so it runs only after both drops
	if rosterChanged {
		l.global.Publish(protocol.ServerMessage{
			Verb:    protocol.VerbLobbiesGeneralUpdate,
			Lobbies: models.LobbiesSnapshot(l.registry, l.lobbies),
		})
	}
}

// launch flips a full lobby into play: every member gets a palette color, a
// random blank tile for their kingdom and a cleared move queue. Kingdoms are
// planted even for members who disconnected during the countdown. The caller
// holds the registry and lobby write locks.
func (l *Loop) launch(lb *models.Lobby) {
	lb.Status = protocol.LobbyInGame

	idx := 0
	for uuid := range lb.Members {
		color := protocol.Palette[idx%len(protocol.Palette)]
		idx++

		x, y, ok := l.gen.EmptyBlank(lb.Board)
		if !ok {
			l.log.WithField("lobby", lb.ID).Warn("no free tile left for kingdom placement")
			continue
		}
		tile := lb.Board.At(x, y)
		tile.Status = protocol.TileOccupied
		tile.Type = protocol.TileKingdom
		tile.Owner = uuid
		tile.Troops = 1

		if p, ok := l.registry.Get(uuid); ok {
			p.Color = color
			p.X, p.Y = x, y
			p.QueuedMoves = p.QueuedMoves[:0]
		}
	}

	lb.Broadcast.Publish(protocol.ServerMessage{Verb: protocol.VerbGameStarted, LobbyID: lb.ID})
	l.log.WithFields(logrus.Fields{
		"lobby":   lb.ID,
		"players": len(lb.Members),
	}).Info("game started")
}

// endGame recycles a finished lobby: connected players pointing at it are
// released, the board is regenerated and the lobby returns to the waiting
// state. The caller holds the registry and lobby write locks.
func (l *Loop) endGame(lb *models.Lobby) {
	finalTick := lb.Tick

	l.registry.Each(func(p *models.Player) {
		if p.Lobby != nil && *p.Lobby == lb.ID {
			p.Lobby = nil
		}
	})

	lb.Board = l.gen.Board()
	lb.Members = make(map[string]string)
	lb.Status = protocol.LobbyAwaitingPlayers
	lb.NextStartingTime = models.NeverStartingTime
	lb.Tick = 0

	l.log.WithFields(logrus.Fields{
		"lobby": lb.ID,
		"ticks": finalTick,
	}).Info("game over, lobby recycled")
}
