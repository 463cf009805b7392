package game

import (
	"github.com/sirupsen/logrus"

	"kingdoms/models"
	"kingdoms/pkg/protocol"
)

// tick advances one running lobby by a single step: troop growth, one queued
// move per active member, territory accounting, fog-of-war views, then the
// termination check. The caller holds the registry and lobby write locks. It
// reports whether the game reached a terminal state; the winner announcement,
// when one is due, has already been broadcast by then.
func (l *Loop) tick(lb *models.Lobby) bool {
	lb.Tick++
	t := lb.Tick
	board := lb.Board

	// troop generation
	for x := 0; x < board.Width; x++ {
		for y := 0; y < board.Height; y++ {
			tile := board.At(x, y)
			if tile.Status != protocol.TileOccupied {
				continue
			}
			if period := l.growthPeriod(tile.Type); period > 0 && t%period == 0 {
				tile.Troops++
			}
		}
	}

	// move application, one pop per member still playing here
	scoreboard := make(map[string]protocol.PlayerScore, len(lb.Members))
	for uuid, name := range lb.Members {
		scoreboard[name] = protocol.PlayerScore{Color: protocol.ColorGrey}

		p, ok := l.registry.Get(uuid)
		if !ok || p.Lobby == nil || *p.Lobby != lb.ID {
			continue
		}
		entry := scoreboard[name]
		entry.Color = p.Color
		scoreboard[name] = entry

		dir, ok := p.PopMove()
		if !ok {
			continue
		}
		tx, ty := shift(p.X, p.Y, dir, board.Width, board.Height)
		assault := ResolveAssault(board, uuid, p.X, p.Y, tx, ty)
		assault.Apply(board, uuid, p.X, p.Y, tx, ty)
		l.log.WithFields(logrus.Fields{
			"lobby":   lb.ID,
			"player":  name,
			"outcome": assault.Outcome.String(),
		}).Debug("move resolved")
		if assault.Outcome.Advances() {
			p.X, p.Y = tx, ty
		}
	}

	// territory accounting
	owners := make(map[string]struct{})
	for x := 0; x < board.Width; x++ {
		for y := 0; y < board.Height; y++ {
			tile := board.At(x, y)
			if tile.Status != protocol.TileOccupied {
				continue
			}
			name, ok := lb.Members[tile.Owner]
			if !ok {
				// owner is no longer a member, their tiles linger
				continue
			}
			owners[tile.Owner] = struct{}{}
			entry := scoreboard[name]
			entry.TotalPositions++
			entry.TotalTroops += tile.Troops
			scoreboard[name] = entry
		}
	}

	// fog-of-war views, one per connected player
	l.registry.Each(func(viewer *models.Player) {
		viewer.Send(protocol.ServerMessage{
			Verb: protocol.VerbGameUpdate,
			Game: &protocol.GameUpdate{
				BoardGame:  l.maskBoard(board, viewer.UUID, lb.Members),
				ScoreBoard: scoreboard,
				Moves:      viewer.MovesSnapshot(),
				Tick:       t,
			},
		})
	})

	// termination
	active := 0
	for _, entry := range scoreboard {
		if entry.Color != protocol.ColorGrey {
			active++
		}
	}
	switch {
	case len(owners) == 1:
		for uuid := range owners {
			lb.Broadcast.Publish(protocol.ServerMessage{
				Verb:   protocol.VerbWinnerIs,
				Winner: lb.Members[uuid],
			})
		}
		return true
	case len(owners) == 0:
		lb.Broadcast.Publish(protocol.ServerMessage{Verb: protocol.VerbWinnerIs})
		return true
	case active == 0:
		// every member is gone, tiles linger with nobody to fight over them
		return true
	}
	return false
}

func (l *Loop) growthPeriod(t protocol.TileType) uint64 {
	switch t {
	case protocol.TileKingdom:
		return l.cfg.Growth.Kingdom
	case protocol.TileCastle:
		return l.cfg.Growth.Castle
	case protocol.TileBlank:
		return l.cfg.Growth.Blank
	}
	return 0
}

// shift applies one direction with saturating clamping to the board bounds,
// so a move off the grid resolves onto the mover's own tile.
func shift(x, y int, d protocol.Direction, w, h int) (int, int) {
	switch d {
	case protocol.DirectionLeft:
		x--
	case protocol.DirectionRight:
		x++
	case protocol.DirectionUp:
		y--
	case protocol.DirectionDown:
		y++
	}
	if x < 0 {
		x = 0
	} else if x >= w {
		x = w - 1
	}
	if y < 0 {
		y = 0
	} else if y >= h {
		y = h - 1
	}
	return x, y
}

// maskBoard renders the fog-of-war view of board for one viewer. Unseen
// terrain is flattened so capitals and fortresses read as plain rock; a
// viewer-owned tile reveals itself and its eight neighbors.
func (l *Loop) maskBoard(b *models.Board, viewer string, members map[string]string) [][]protocol.TileUpdate {
	view := make([][]protocol.TileUpdate, b.Width)
	for x := range view {
		view[x] = make([]protocol.TileUpdate, b.Height)
		for y := range view[x] {
			view[x][y] = protocol.TileUpdate{
				Status:   protocol.TileEmpty,
				TileType: maskType(b.Tiles[x][y].Type),
				Hidden:   true,
			}
		}
	}

	for x := 0; x < b.Width; x++ {
		for y := 0; y < b.Height; y++ {
			if b.Tiles[x][y].Owner != viewer {
				continue
			}
			for dx := -1; dx <= 1; dx++ {
				for dy := -1; dy <= 1; dy++ {
					rx, ry := x+dx, y+dy
					if !b.InBounds(rx, ry) {
						continue
					}
					src := b.At(rx, ry)
					view[rx][ry] = protocol.TileUpdate{
						Status:     src.Status,
						TileType:   src.Type,
						PlayerName: l.resolveName(src.Owner, members),
						NbTroops:   src.Troops,
						Hidden:     false,
					}
				}
			}
		}
	}
	return view
}

func maskType(t protocol.TileType) protocol.TileType {
	if t == protocol.TileBlank {
		return protocol.TileBlank
	}
	return protocol.TileMountain
}

// resolveName maps a tile owner uuid to a display name, preferring the lobby
// member list and falling back to the live registry. The caller holds the
// registry lock.
func (l *Loop) resolveName(owner string, members map[string]string) *string {
	if owner == "" {
		return nil
	}
	if name, ok := members[owner]; ok {
		return &name
	}
	if p, ok := l.registry.Get(owner); ok {
		name := p.Name
		return &name
	}
	return nil
}
