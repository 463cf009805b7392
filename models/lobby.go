package models

import (
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"kingdoms/internal/bus"
	"kingdoms/pkg/protocol"
)

// NeverStartingTime is the far-future unix second a lobby carries while no
// countdown is running.
const NeverStartingTime int64 = 5000000000

// Broadcast buffer sizes for the shared fan-out scopes.
const (
	GlobalBusBuffer = 100
	LobbyBusBuffer  = 10
)

// Lobby is one fixed game room. The embedded lock guards every mutable
// field; when the registry lock is also needed it is acquired before this
// one.
type Lobby struct {
	sync.RWMutex

	ID       int
	Capacity int
	Status   protocol.LobbyStatus

	// NextStartingTime is the unix second the countdown elapses, or
	// NeverStartingTime outside StartingSoon.
	NextStartingTime int64

	// Members maps player uuid to display name. Entries survive
	// disconnections while a game is starting or running.
	Members map[string]string

	Messages []protocol.ChatMessage
	Board    *Board
	Tick     uint64

	Broadcast *bus.Broadcaster
}

// NewLobby builds an idle lobby around the given board.
func NewLobby(id, capacity int, board *Board, log *logrus.Logger) *Lobby {
	return &Lobby{
		ID:               id,
		Capacity:         capacity,
		Status:           protocol.LobbyAwaitingPlayers,
		NextStartingTime: NeverStartingTime,
		Members:          make(map[string]string),
		Messages:         []protocol.ChatMessage{},
		Board:            board,
		Broadcast:        bus.New(fmt.Sprintf("lobby-%d", id), LobbyBusBuffer, log),
	}
}

// Summary snapshots the lobby for the global roster payload. It takes the
// lobby read lock; the caller must hold no side of it.
func (l *Lobby) Summary() protocol.LobbySummary {
	l.RLock()
	defer l.RUnlock()

	names := make([]string, 0, len(l.Members))
	for _, name := range l.Members {
		names = append(names, name)
	}
	sort.Strings(names)

	return protocol.LobbySummary{
		PlayerCapacity:   l.Capacity,
		PlayerNames:      names,
		Status:           l.Status,
		NextStartingTime: l.NextStartingTime,
	}
}

// History copies the newest n chat messages. It takes the lobby read lock;
// the caller must hold no side of it.
func (l *Lobby) History(n int) []protocol.ChatMessage {
	l.RLock()
	defer l.RUnlock()
	return lastMessages(l.Messages, n)
}

// LobbyTable is the fixed set of lobbies created at boot. The slice itself
// never changes; each lobby carries its own lock.
type LobbyTable struct {
	lobbies []*Lobby
}

// NewLobbyTable builds one lobby per capacity, generating a fresh board for
// each.
func NewLobbyTable(capacities []int, gen func() *Board, log *logrus.Logger) *LobbyTable {
	lobbies := make([]*Lobby, len(capacities))
	for i, capacity := range capacities {
		lobbies[i] = NewLobby(i, capacity, gen(), log)
	}
	return &LobbyTable{lobbies: lobbies}
}

// Get returns the lobby with the given id, reporting false when id is out of
// range.
func (t *LobbyTable) Get(id int) (*Lobby, bool) {
	if id < 0 || id >= len(t.lobbies) {
		return nil, false
	}
	return t.lobbies[id], true
}

// All returns the lobbies in id order.
func (t *LobbyTable) All() []*Lobby {
	return t.lobbies
}

// Len reports the number of lobbies.
func (t *LobbyTable) Len() int {
	return len(t.lobbies)
}

// LobbiesSnapshot assembles the global roster payload. It locks the registry,
// then each lobby one at a time; the caller must hold no lock.
func LobbiesSnapshot(reg *Registry, table *LobbyTable) *protocol.LobbiesUpdate {
	reg.RLock()
	roster := reg.Roster()
	reg.RUnlock()

	summaries := make([]protocol.LobbySummary, 0, table.Len())
	for _, l := range table.All() {
		summaries = append(summaries, l.Summary())
	}

	return &protocol.LobbiesUpdate{Lobbies: summaries, ConnectedPlayers: roster}
}

// ChatLog is the append-only global chat history.
type ChatLog struct {
	mu       sync.Mutex
	messages []protocol.ChatMessage
}

// NewChatLog builds an empty history.
func NewChatLog() *ChatLog {
	return &ChatLog{messages: []protocol.ChatMessage{}}
}

// Append adds msg to the history.
func (c *ChatLog) Append(msg protocol.ChatMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, msg)
}

// LastN copies the newest n messages, oldest first.
func (c *ChatLog) LastN(n int) []protocol.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return lastMessages(c.messages, n)
}

func lastMessages(messages []protocol.ChatMessage, n int) []protocol.ChatMessage {
	if n < 0 {
		n = 0
	}
	start := len(messages) - n
	if start < 0 {
		start = 0
	}
	out := make([]protocol.ChatMessage, len(messages)-start)
	copy(out, messages[start:])
	return out
}
