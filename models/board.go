package models

import "kingdoms/pkg/protocol"

// Tile is a single cell of a lobby board.
type Tile struct {
	Status protocol.TileStatus
	Type   protocol.TileType
	Owner  string // player uuid, empty while the tile is unoccupied
	Troops int
}

// Board is a rectangular grid addressed as Tiles[x][y].
type Board struct {
	Width  int
	Height int
	Tiles  [][]Tile
}

// NewBoard allocates a board of empty blank tiles.
func NewBoard(width, height int) *Board {
	tiles := make([][]Tile, width)
	for x := range tiles {
		tiles[x] = make([]Tile, height)
		for y := range tiles[x] {
			tiles[x][y] = Tile{Status: protocol.TileEmpty, Type: protocol.TileBlank}
		}
	}
	return &Board{Width: width, Height: height, Tiles: tiles}
}

// InBounds reports whether (x, y) addresses a tile on the board.
func (b *Board) InBounds(x, y int) bool {
	return x >= 0 && x < b.Width && y >= 0 && y < b.Height
}

// At returns the tile at (x, y), which must be in bounds.
func (b *Board) At(x, y int) *Tile {
	return &b.Tiles[x][y]
}
