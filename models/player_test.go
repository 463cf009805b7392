package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kingdoms/pkg/protocol"
)

func TestQueueMoveRespectsBound(t *testing.T) {
	p := NewPlayer("u-1", "#June1")

	assert.True(t, p.QueueMove(protocol.DirectionLeft, 2))
	assert.True(t, p.QueueMove(protocol.DirectionUp, 2))
	assert.False(t, p.QueueMove(protocol.DirectionDown, 2))
	assert.Len(t, p.QueuedMoves, 2)
}

func TestPopMoveIsFIFO(t *testing.T) {
	p := NewPlayer("u-1", "#June1")
	p.QueueMove(protocol.DirectionLeft, 12)
	p.QueueMove(protocol.DirectionRight, 12)

	d, ok := p.PopMove()
	require.True(t, ok)
	assert.Equal(t, protocol.DirectionLeft, d)

	d, ok = p.PopMove()
	require.True(t, ok)
	assert.Equal(t, protocol.DirectionRight, d)

	_, ok = p.PopMove()
	assert.False(t, ok)
}

func TestMovesSnapshotCopiesQueue(t *testing.T) {
	p := NewPlayer("u-1", "#June1")
	p.X, p.Y = 4, 9
	p.QueueMove(protocol.DirectionUp, 12)

	snap := p.MovesSnapshot()
	p.PopMove()

	assert.Equal(t, []protocol.Direction{protocol.DirectionUp}, snap.QueuedMoves)
	assert.Equal(t, [2]int{4, 9}, snap.XY)
}

func TestSendDropsWhenPrivateChannelFull(t *testing.T) {
	p := NewPlayer("u-1", "#June1")

	for i := 0; i < privateBuffer; i++ {
		require.True(t, p.Send(protocol.ServerMessage{Verb: protocol.VerbPong}))
	}
	assert.False(t, p.Send(protocol.ServerMessage{Verb: protocol.VerbPong}))

	// earlier messages stay readable
	msg := <-p.Private()
	assert.Equal(t, protocol.VerbPong, msg.Verb)
}
