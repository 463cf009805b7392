package game

import (
	"math/rand"

	"kingdoms/models"
	"kingdoms/pkg/config"
	"kingdoms/pkg/protocol"
)

// Generator builds random boards from the configured shape. It is not safe
// for concurrent use; the game loop owns one.
type Generator struct {
	cfg config.BoardConfig
	rng *rand.Rand
}

// NewGenerator wires a generator to its random source.
func NewGenerator(cfg config.BoardConfig, rng *rand.Rand) *Generator {
	return &Generator{cfg: cfg, rng: rng}
}

// Board draws dimensions from the configured half-open ranges, then scatters
// mountains and neutral garrisoned castles over distinct tiles.
func (g *Generator) Board() *models.Board {
	width := g.dim(g.cfg.WidthMin, g.cfg.WidthMax)
	height := g.dim(g.cfg.HeightMin, g.cfg.HeightMax)
	b := models.NewBoard(width, height)

	cells := g.rng.Perm(width * height)
	idx := 0
	for i := 0; i < g.cfg.Mountains && idx < len(cells); i++ {
		tile := b.At(cells[idx]%width, cells[idx]/width)
		tile.Type = protocol.TileMountain
		idx++
	}
	for i := 0; i < g.cfg.Castles && idx < len(cells); i++ {
		tile := b.At(cells[idx]%width, cells[idx]/width)
		tile.Type = protocol.TileCastle
		tile.Troops = g.cfg.CastleGarrison
		idx++
	}
	return b
}

// EmptyBlank picks a uniformly random unoccupied blank tile, reporting false
// when the board has none left.
func (g *Generator) EmptyBlank(b *models.Board) (int, int, bool) {
	type coord struct{ x, y int }
	var free []coord
	for x := 0; x < b.Width; x++ {
		for y := 0; y < b.Height; y++ {
			tile := b.At(x, y)
			if tile.Status == protocol.TileEmpty && tile.Type == protocol.TileBlank {
				free = append(free, coord{x, y})
			}
		}
	}
	if len(free) == 0 {
		return 0, 0, false
	}
	c := free[g.rng.Intn(len(free))]
	return c.x, c.y, true
}

func (g *Generator) dim(min, max int) int {
	if max <= min {
		return min
	}
	return min + g.rng.Intn(max-min)
}
