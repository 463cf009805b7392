package ai

import (
	"math/rand"

	"kingdoms/pkg/protocol"
)

// Strategy picks the next move from the latest fog-of-war view. view is nil
// until the first game update arrives; a false return queues nothing.
type Strategy interface {
	NextMove(view *protocol.GameUpdate, name string, rng *rand.Rand) (protocol.Direction, bool)
	Name() string
}

// CreateStrategy returns the strategy registered under name, defaulting to
// the wanderer.
func CreateStrategy(name string) Strategy {
	switch name {
	case "raider":
		return &RaiderStrategy{}
	case "charge":
		return &ChargeStrategy{}
	case "wander":
		return &WanderStrategy{}
	default:
		return &WanderStrategy{}
	}
}

var compass = []protocol.Direction{
	protocol.DirectionLeft,
	protocol.DirectionRight,
	protocol.DirectionUp,
	protocol.DirectionDown,
}

func randomDirection(rng *rand.Rand) protocol.Direction {
	return compass[rng.Intn(len(compass))]
}

// WanderStrategy drifts uniformly at random, spreading territory in every
// direction.
type WanderStrategy struct{}

func (s *WanderStrategy) Name() string { return "wander" }

func (s *WanderStrategy) NextMove(view *protocol.GameUpdate, name string, rng *rand.Rand) (protocol.Direction, bool) {
	if view == nil {
		return "", false
	}
	return randomDirection(rng), true
}

// ChargeStrategy keeps one heading until a tick shows no progress, then
// turns. It carves long corridors instead of puddles.
type ChargeStrategy struct {
	heading protocol.Direction
	lastXY  [2]int
	primed  bool
}

func (s *ChargeStrategy) Name() string { return "charge" }

func (s *ChargeStrategy) NextMove(view *protocol.GameUpdate, name string, rng *rand.Rand) (protocol.Direction, bool) {
	if view == nil {
		return "", false
	}
	if !s.primed || view.Moves.XY == s.lastXY {
		s.heading = randomDirection(rng)
		s.primed = true
	}
	s.lastXY = view.Moves.XY
	return s.heading, true
}

// RaiderStrategy hunts the nearest visible structure or enemy tile and walks
// toward it, falling back to wandering when the fog shows nothing worth
// taking.
type RaiderStrategy struct{}

func (s *RaiderStrategy) Name() string { return "raider" }

func (s *RaiderStrategy) NextMove(view *protocol.GameUpdate, name string, rng *rand.Rand) (protocol.Direction, bool) {
	if view == nil {
		return "", false
	}
	x, y := view.Moves.XY[0], view.Moves.XY[1]

	bestDist := -1
	var tx, ty int
	for bx := range view.BoardGame {
		for by := range view.BoardGame[bx] {
			tile := view.BoardGame[bx][by]
			if !raidWorthy(tile, name) {
				continue
			}
			d := abs(bx-x) + abs(by-y)
			if d == 0 {
				continue
			}
			if bestDist < 0 || d < bestDist {
				bestDist, tx, ty = d, bx, by
			}
		}
	}
	if bestDist < 0 {
		return randomDirection(rng), true
	}
	return stepToward(x, y, tx, ty), true
}

// raidWorthy reports whether a visible tile is a target: any enemy holding,
// or an unclaimed castle. Open ground and rock are not worth a detour.
func raidWorthy(tile protocol.TileUpdate, name string) bool {
	if tile.Hidden || tile.TileType == protocol.TileMountain {
		return false
	}
	if tile.PlayerName != nil && *tile.PlayerName == name {
		return false
	}
	if tile.Status == protocol.TileOccupied {
		return true
	}
	return tile.TileType == protocol.TileCastle
}

// stepToward moves along the longer axis first.
func stepToward(x, y, tx, ty int) protocol.Direction {
	dx, dy := tx-x, ty-y
	if abs(dx) >= abs(dy) && dx != 0 {
		if dx > 0 {
			return protocol.DirectionRight
		}
		return protocol.DirectionLeft
	}
	if dy > 0 {
		return protocol.DirectionDown
	}
	return protocol.DirectionUp
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
