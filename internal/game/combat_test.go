package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kingdoms/models"
	"kingdoms/pkg/protocol"
)

func occupied(b *models.Board, x, y int, owner string, troops int, tileType protocol.TileType) {
	tile := b.At(x, y)
	tile.Status = protocol.TileOccupied
	tile.Type = tileType
	tile.Owner = owner
	tile.Troops = troops
}

func TestResolvePrecedence(t *testing.T) {
	b := models.NewBoard(6, 6)
	b.At(1, 0).Type = protocol.TileMountain

	// attacking the own tile beats every other rule
	res := ResolveAssault(b, "A", 2, 2, 2, 2)
	assert.Equal(t, OutcomeAttackingSameTile, res.Outcome)

	// a single troop cannot leave, even against a mountain
	occupied(b, 0, 0, "A", 1, protocol.TileBlank)
	res = ResolveAssault(b, "A", 0, 0, 1, 0)
	assert.Equal(t, OutcomeNotEnoughTroops, res.Outcome)

	// with troops to spare the mountain blocks next
	b.At(0, 0).Troops = 5
	res = ResolveAssault(b, "A", 0, 0, 1, 0)
	assert.Equal(t, OutcomeBlockedByMountain, res.Outcome)
}

func TestResolveStolenTile(t *testing.T) {
	b := models.NewBoard(6, 6)
	occupied(b, 2, 2, "C", 5, protocol.TileBlank)

	res := ResolveAssault(b, "A", 2, 2, 3, 2)
	assert.Equal(t, OutcomeTileNotOwned, res.Outcome)

	res.Apply(b, "A", 2, 2, 3, 2)
	assert.Equal(t, "C", b.At(2, 2).Owner)
	assert.Equal(t, 5, b.At(2, 2).Troops)
	assert.Equal(t, protocol.TileEmpty, b.At(3, 2).Status)
}

func TestSelfTroopsMoveConservesTroops(t *testing.T) {
	b := models.NewBoard(6, 6)
	occupied(b, 2, 2, "A", 5, protocol.TileKingdom)
	occupied(b, 3, 2, "A", 2, protocol.TileBlank)

	res := ResolveAssault(b, "A", 2, 2, 3, 2)
	require.Equal(t, OutcomeSelfTroopsMove, res.Outcome)
	assert.True(t, res.Outcome.Advances())

	res.Apply(b, "A", 2, 2, 3, 2)
	assert.Equal(t, 1, b.At(2, 2).Troops)
	assert.Equal(t, 6, b.At(3, 2).Troops)
}

func TestConquerEmpty(t *testing.T) {
	b := models.NewBoard(6, 6)
	occupied(b, 3, 3, "A", 5, protocol.TileKingdom)

	res := ResolveAssault(b, "A", 3, 3, 4, 3)
	require.Equal(t, OutcomeConquerEmpty, res.Outcome)
	assert.True(t, res.Outcome.Advances())

	res.Apply(b, "A", 3, 3, 4, 3)
	assert.Equal(t, 1, b.At(3, 3).Troops)
	target := b.At(4, 3)
	assert.Equal(t, protocol.TileOccupied, target.Status)
	assert.Equal(t, "A", target.Owner)
	assert.Equal(t, 4, target.Troops)
}

func TestTiePreservesDefenderIdentity(t *testing.T) {
	// effective 4 vs 4
	b := models.NewBoard(6, 6)
	occupied(b, 2, 2, "A", 5, protocol.TileBlank)
	occupied(b, 3, 2, "B", 4, protocol.TileBlank)

	res := ResolveAssault(b, "A", 2, 2, 3, 2)
	require.Equal(t, OutcomeTie, res.Outcome)
	assert.False(t, res.Outcome.Advances())

	res.Apply(b, "A", 2, 2, 3, 2)
	assert.Equal(t, 1, b.At(2, 2).Troops)
	target := b.At(3, 2)
	assert.Equal(t, 0, target.Troops)
	assert.Equal(t, "B", target.Owner)
	assert.Equal(t, protocol.TileOccupied, target.Status)
}

func TestVictoryOnKingdomCascades(t *testing.T) {
	b := models.NewBoard(6, 6)
	occupied(b, 2, 2, "A", 10, protocol.TileBlank)
	occupied(b, 3, 2, "B", 3, protocol.TileKingdom)
	occupied(b, 5, 5, "B", 7, protocol.TileBlank)

	res := ResolveAssault(b, "A", 2, 2, 3, 2)
	require.Equal(t, OutcomeVictory, res.Outcome)
	assert.Equal(t, "B", res.Loser)
	assert.Equal(t, 6, res.Remaining)

	res.Apply(b, "A", 2, 2, 3, 2)

	captured := b.At(3, 2)
	assert.Equal(t, protocol.TileCastle, captured.Type)
	assert.Equal(t, "A", captured.Owner)
	assert.Equal(t, 6, captured.Troops)

	// the cascade hands every remaining tile of the fallen player over
	assert.Equal(t, "A", b.At(5, 5).Owner)
	assert.Equal(t, 7, b.At(5, 5).Troops)
	for x := 0; x < b.Width; x++ {
		for y := 0; y < b.Height; y++ {
			assert.NotEqual(t, "B", b.At(x, y).Owner)
		}
	}
}

func TestVictoryOnPlainTileDoesNotCascade(t *testing.T) {
	b := models.NewBoard(6, 6)
	occupied(b, 2, 2, "A", 6, protocol.TileBlank)
	occupied(b, 3, 2, "B", 2, protocol.TileBlank)
	occupied(b, 5, 5, "B", 7, protocol.TileBlank)

	res := ResolveAssault(b, "A", 2, 2, 3, 2)
	require.Equal(t, OutcomeVictory, res.Outcome)
	res.Apply(b, "A", 2, 2, 3, 2)

	assert.Equal(t, "A", b.At(3, 2).Owner)
	assert.Equal(t, protocol.TileBlank, b.At(3, 2).Type)
	assert.Equal(t, "B", b.At(5, 5).Owner)
}

func TestDefeatThrowsAttackersAway(t *testing.T) {
	b := models.NewBoard(6, 6)
	occupied(b, 2, 2, "A", 3, protocol.TileBlank)
	occupied(b, 3, 2, "B", 5, protocol.TileBlank)

	res := ResolveAssault(b, "A", 2, 2, 3, 2)
	require.Equal(t, OutcomeDefeat, res.Outcome)
	assert.Equal(t, 3, res.Remaining)
	assert.False(t, res.Outcome.Advances())

	res.Apply(b, "A", 2, 2, 3, 2)
	assert.Equal(t, 1, b.At(2, 2).Troops)
	assert.Equal(t, 3, b.At(3, 2).Troops)
	assert.Equal(t, "B", b.At(3, 2).Owner)
}

func TestNeutralCastleOutcomes(t *testing.T) {
	cases := []struct {
		name      string
		troops    int
		outcome   Outcome
		remaining int
	}{
		{"garrison holds", 5, OutcomeDefeat, 6},
		{"mutual annihilation", 11, OutcomeTie, 0},
		{"castle falls", 13, OutcomeVictoryCastle, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := models.NewBoard(6, 6)
			occupied(b, 2, 2, "A", tc.troops, protocol.TileBlank)
			castle := b.At(3, 2)
			castle.Type = protocol.TileCastle
			castle.Troops = 10

			res := ResolveAssault(b, "A", 2, 2, 3, 2)
			require.Equal(t, tc.outcome, res.Outcome)
			if tc.outcome != OutcomeTie {
				assert.Equal(t, tc.remaining, res.Remaining)
			}

			res.Apply(b, "A", 2, 2, 3, 2)
			assert.Equal(t, 1, b.At(2, 2).Troops)
			assert.Equal(t, protocol.TileCastle, castle.Type)
			switch tc.outcome {
			case OutcomeDefeat:
				assert.Equal(t, 6, castle.Troops)
				assert.Equal(t, protocol.TileEmpty, castle.Status)
			case OutcomeTie:
				assert.Equal(t, 0, castle.Troops)
				assert.Equal(t, protocol.TileEmpty, castle.Status)
			case OutcomeVictoryCastle:
				assert.Equal(t, 2, castle.Troops)
				assert.Equal(t, protocol.TileOccupied, castle.Status)
				assert.Equal(t, "A", castle.Owner)
			}
		})
	}
}

func TestAdvancesOnlyOnSuccessfulEntry(t *testing.T) {
	advancing := []Outcome{OutcomeSelfTroopsMove, OutcomeConquerEmpty, OutcomeVictory, OutcomeVictoryCastle}
	for _, o := range advancing {
		assert.True(t, o.Advances(), o.String())
	}
	stationary := []Outcome{OutcomeAttackingSameTile, OutcomeNotEnoughTroops, OutcomeBlockedByMountain, OutcomeTileNotOwned, OutcomeTie, OutcomeDefeat}
	for _, o := range stationary {
		assert.False(t, o.Advances(), o.String())
	}
}
