package models

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kingdoms/pkg/protocol"
)

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestNewLobbyStartsIdle(t *testing.T) {
	l := NewLobby(1, 3, NewBoard(4, 4), newTestLogger())

	assert.Equal(t, protocol.LobbyAwaitingPlayers, l.Status)
	assert.Equal(t, NeverStartingTime, l.NextStartingTime)
	assert.Empty(t, l.Members)
	assert.Zero(t, l.Tick)
	require.NotNil(t, l.Broadcast)
}

func TestSummarySortsMemberNames(t *testing.T) {
	l := NewLobby(0, 4, NewBoard(4, 4), newTestLogger())
	l.Lock()
	l.Members["u-1"] = "#Sylvain7"
	l.Members["u-2"] = "#June1"
	l.Members["u-3"] = "#Risitas42"
	l.Status = protocol.LobbyStartingSoon
	l.NextStartingTime = 1700000123
	l.Unlock()

	s := l.Summary()

	assert.Equal(t, 4, s.PlayerCapacity)
	assert.Equal(t, []string{"#June1", "#Risitas42", "#Sylvain7"}, s.PlayerNames)
	assert.Equal(t, protocol.LobbyStartingSoon, s.Status)
	assert.Equal(t, int64(1700000123), s.NextStartingTime)
}

func TestHistoryKeepsNewestMessages(t *testing.T) {
	l := NewLobby(0, 2, NewBoard(4, 4), newTestLogger())
	l.Lock()
	for _, text := range []string{"one", "two", "three", "four"} {
		l.Messages = append(l.Messages, protocol.ChatMessage{Poster: "#June1", Message: text})
	}
	l.Unlock()

	got := l.History(3)

	require.Len(t, got, 3)
	assert.Equal(t, "two", got[0].Message)
	assert.Equal(t, "four", got[2].Message)
}

func TestLobbyTableGet(t *testing.T) {
	table := NewLobbyTable([]int{2, 3}, func() *Board { return NewBoard(4, 4) }, newTestLogger())

	require.Equal(t, 2, table.Len())

	l, ok := table.Get(1)
	require.True(t, ok)
	assert.Equal(t, 1, l.ID)
	assert.Equal(t, 3, l.Capacity)

	_, ok = table.Get(2)
	assert.False(t, ok)
	_, ok = table.Get(-1)
	assert.False(t, ok)
}

func TestLobbiesSnapshot(t *testing.T) {
	log := newTestLogger()
	table := NewLobbyTable([]int{2, 1}, func() *Board { return NewBoard(4, 4) }, log)
	reg := NewRegistry()

	reg.Lock()
	joined := NewPlayer("u-1", "#June1")
	id := 0
	joined.Lobby = &id
	reg.Add(joined)
	reg.Add(NewPlayer("u-2", "#Sylvain7"))
	reg.Unlock()

	l0, _ := table.Get(0)
	l0.Lock()
	l0.Members["u-1"] = "#June1"
	l0.Unlock()

	update := LobbiesSnapshot(reg, table)

	require.Len(t, update.Lobbies, 2)
	assert.Equal(t, []string{"#June1"}, update.Lobbies[0].PlayerNames)
	assert.Empty(t, update.Lobbies[1].PlayerNames)
	require.Len(t, update.ConnectedPlayers, 2)
	assert.Equal(t, "#June1", update.ConnectedPlayers[0].Name)
	require.NotNil(t, update.ConnectedPlayers[0].Lobby)
	assert.Equal(t, 0, *update.ConnectedPlayers[0].Lobby)
	assert.Nil(t, update.ConnectedPlayers[1].Lobby)
}

func TestChatLogLastN(t *testing.T) {
	c := NewChatLog()
	for _, text := range []string{"a", "b", "c", "d", "e"} {
		c.Append(protocol.ChatMessage{Poster: "#Shermaine3", Message: text})
	}

	got := c.LastN(3)
	require.Len(t, got, 3)
	assert.Equal(t, "c", got[0].Message)
	assert.Equal(t, "e", got[2].Message)

	assert.Empty(t, c.LastN(0))
	assert.Len(t, c.LastN(10), 5)
}
