package models

import "kingdoms/pkg/protocol"

// privateBuffer bounds each player's direct outbound channel.
const privateBuffer = 10

// Player is the in-memory record of a connected player. Every field except
// the private channel is guarded by the Registry lock.
type Player struct {
	UUID string
	Name string

	// Lobby is the id of the lobby the player currently plays in, nil when
	// none.
	Lobby *int

	QueuedMoves []protocol.Direction
	X, Y        int
	Color       protocol.Color

	private chan protocol.ServerMessage
}

// NewPlayer builds a fresh record with an empty move queue.
func NewPlayer(uuid, name string) *Player {
	return &Player{
		UUID:        uuid,
		Name:        name,
		QueuedMoves: []protocol.Direction{},
		private:     make(chan protocol.ServerMessage, privateBuffer),
	}
}

// Private returns the receive side of the player's direct channel.
func (p *Player) Private() <-chan protocol.ServerMessage {
	return p.private
}

// Send queues msg on the player's direct channel without blocking. It reports
// false when the channel is full and the message was dropped.
func (p *Player) Send(msg protocol.ServerMessage) bool {
	select {
	case p.private <- msg:
		return true
	default:
		return false
	}
}

// QueueMove appends a move unless the queue already holds max entries.
// The caller must hold the registry lock.
func (p *Player) QueueMove(d protocol.Direction, max int) bool {
	if len(p.QueuedMoves) >= max {
		return false
	}
	p.QueuedMoves = append(p.QueuedMoves, d)
	return true
}

// PopMove removes and returns the oldest queued move. The caller must hold
// the registry lock.
func (p *Player) PopMove() (protocol.Direction, bool) {
	if len(p.QueuedMoves) == 0 {
		return "", false
	}
	d := p.QueuedMoves[0]
	p.QueuedMoves = p.QueuedMoves[1:]
	return d, true
}

// MovesSnapshot copies the queue and current coordinate into a wire payload.
// The caller must hold the registry lock.
func (p *Player) MovesSnapshot() protocol.PlayerMoves {
	queued := make([]protocol.Direction, len(p.QueuedMoves))
	copy(queued, p.QueuedMoves)
	return protocol.PlayerMoves{QueuedMoves: queued, XY: [2]int{p.X, p.Y}}
}
