package protocol

// Direction is a single queued move on the board grid. The wire spelling is
// the capitalized variant name ("Left", "Right", "Up", "Down").
type Direction string

const (
	DirectionLeft  Direction = "Left"
	DirectionRight Direction = "Right"
	DirectionUp    Direction = "Up"
	DirectionDown  Direction = "Down"
)

// ParseDirection maps the lowercase keyword used by /move commands.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "left":
		return DirectionLeft, true
	case "right":
		return DirectionRight, true
	case "up":
		return DirectionUp, true
	case "down":
		return DirectionDown, true
	default:
		return "", false
	}
}

// Color identifies a player on the board. Grey is reserved for inactive
// players (disconnected or playing elsewhere) and is never assigned at launch.
type Color string

const (
	ColorRed    Color = "Red"
	ColorBlue   Color = "Blue"
	ColorPink   Color = "Pink"
	ColorGreen  Color = "Green"
	ColorYellow Color = "Yellow"
	ColorGrey   Color = "Grey"
)

// Palette is the assignment order at game launch.
var Palette = []Color{ColorRed, ColorBlue, ColorPink, ColorGreen, ColorYellow}

// LobbyStatus is the lobby state machine position.
type LobbyStatus string

const (
	LobbyAwaitingPlayers LobbyStatus = "AwaitingPlayers"
	LobbyStartingSoon    LobbyStatus = "StartingSoon"
	LobbyInGame          LobbyStatus = "InGame"
)

// TileStatus tells whether a tile is held by a player.
type TileStatus string

const (
	TileEmpty    TileStatus = "Empty"
	TileOccupied TileStatus = "Occupied"
)

// TileType is the terrain kind of a tile.
type TileType string

const (
	TileBlank    TileType = "Blank"
	TileKingdom  TileType = "Kingdom"
	TileMountain TileType = "Mountain"
	TileCastle   TileType = "Castle"
)
