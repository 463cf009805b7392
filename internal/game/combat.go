package game

import (
	"kingdoms/models"
	"kingdoms/pkg/protocol"
)

// Outcome classifies one attempted move.
type Outcome int

const (
	OutcomeAttackingSameTile Outcome = iota
	OutcomeNotEnoughTroops
	OutcomeBlockedByMountain
	OutcomeTileNotOwned
	OutcomeSelfTroopsMove
	OutcomeConquerEmpty
	OutcomeTie
	OutcomeVictory
	OutcomeVictoryCastle
	OutcomeDefeat
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAttackingSameTile:
		return "AttackingSameTile"
	case OutcomeNotEnoughTroops:
		return "NotEnoughTroops"
	case OutcomeBlockedByMountain:
		return "BlockedByMountain"
	case OutcomeTileNotOwned:
		return "TileNotOwned"
	case OutcomeSelfTroopsMove:
		return "SelfTroopsMove"
	case OutcomeConquerEmpty:
		return "ConquerEmpty"
	case OutcomeTie:
		return "Tie"
	case OutcomeVictory:
		return "Victory"
	case OutcomeVictoryCastle:
		return "VictoryCastle"
	case OutcomeDefeat:
		return "Defeat"
	}
	return "Unknown"
}

// Advances reports whether the attacker's coordinate follows the move.
func (o Outcome) Advances() bool {
	switch o {
	case OutcomeSelfTroopsMove, OutcomeConquerEmpty, OutcomeVictory, OutcomeVictoryCastle:
		return true
	}
	return false
}

// Assault is the classification of a single move, resolved before any board
// mutation.
type Assault struct {
	Outcome Outcome

	// Loser is the uuid of the dispossessed owner on Victory. Remaining is
	// the troop count left on the contested tile after Victory,
	// VictoryCastle and Defeat.
	Loser     string
	Remaining int
}

// ResolveAssault classifies the move of attacker from (ax, ay) onto (dx, dy)
// without touching the board. Both coordinates must be in bounds.
func ResolveAssault(b *models.Board, attacker string, ax, ay, dx, dy int) Assault {
	if ax == dx && ay == dy {
		return Assault{Outcome: OutcomeAttackingSameTile}
	}

	origin := b.At(ax, ay)
	attackers := origin.Troops - 1
	if attackers <= 0 {
		return Assault{Outcome: OutcomeNotEnoughTroops}
	}

	target := b.At(dx, dy)
	if target.Type == protocol.TileMountain {
		return Assault{Outcome: OutcomeBlockedByMountain}
	}
	if origin.Owner != attacker {
		return Assault{Outcome: OutcomeTileNotOwned}
	}
	if target.Owner == attacker {
		return Assault{Outcome: OutcomeSelfTroopsMove}
	}

	defenders := target.Troops
	switch {
	case target.Status == protocol.TileEmpty && target.Type != protocol.TileCastle:
		return Assault{Outcome: OutcomeConquerEmpty}

	case target.Status == protocol.TileOccupied:
		switch {
		case attackers == defenders:
			return Assault{Outcome: OutcomeTie}
		case attackers > defenders:
			return Assault{Outcome: OutcomeVictory, Loser: target.Owner, Remaining: attackers - defenders}
		default:
			return Assault{Outcome: OutcomeDefeat, Remaining: defenders - attackers}
		}

	default:
		// empty castle defended by its neutral garrison
		switch {
		case attackers == defenders:
			return Assault{Outcome: OutcomeTie}
		case attackers > defenders:
			return Assault{Outcome: OutcomeVictoryCastle, Remaining: attackers - defenders}
		default:
			return Assault{Outcome: OutcomeDefeat, Remaining: defenders - attackers}
		}
	}
}

// Apply mutates the board according to the classified outcome, using the same
// coordinates the assault was resolved with. Outcomes that advance the
// attacker do not move the player record; the caller owns that.
func (a Assault) Apply(b *models.Board, attacker string, ax, ay, dx, dy int) {
	origin := b.At(ax, ay)
	target := b.At(dx, dy)

	switch a.Outcome {
	case OutcomeSelfTroopsMove:
		target.Troops += origin.Troops - 1
		origin.Troops = 1

	case OutcomeConquerEmpty:
		target.Status = protocol.TileOccupied
		target.Owner = attacker
		target.Troops = origin.Troops - 1
		origin.Troops = 1

	case OutcomeTie:
		// both sides annihilate; the defender keeps the tile with no
		// troops on it
		origin.Troops = 1
		target.Troops = 0

	case OutcomeVictory:
		origin.Troops = 1
		wasKingdom := target.Type == protocol.TileKingdom
		target.Status = protocol.TileOccupied
		target.Owner = attacker
		target.Troops = a.Remaining
		if wasKingdom {
			target.Type = protocol.TileCastle
			reassignAll(b, a.Loser, attacker)
		}

	case OutcomeVictoryCastle:
		origin.Troops = 1
		target.Status = protocol.TileOccupied
		target.Owner = attacker
		target.Troops = a.Remaining

	case OutcomeDefeat:
		origin.Troops = 1
		target.Troops = a.Remaining
	}
}

// reassignAll hands every tile owned by from over to to, the kingdom-fall
// cascade.
func reassignAll(b *models.Board, from, to string) {
	for x := 0; x < b.Width; x++ {
		for y := 0; y < b.Height; y++ {
			if tile := b.At(x, y); tile.Owner == from {
				tile.Owner = to
			}
		}
	}
}
