package protocol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// CommandKind enumerates the commands a client may send over the socket.
type CommandKind int

const (
	CmdUnknown CommandKind = iota
	CmdMove
	CmdJoinLobby
	CmdPing
	CmdSendGlobalMessage
	CmdSendLobbyMessage
)

// Command is a parsed client frame. Only the field matching Kind is set.
type Command struct {
	Kind      CommandKind
	Direction Direction // CmdMove
	LobbyID   int       // CmdJoinLobby
	Text      string    // CmdSendGlobalMessage, CmdSendLobbyMessage
}

var (
	// ErrUnknownCommand reports a verb outside the closed command set.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrMalformedCommand reports a recognized verb with an unusable tail.
	ErrMalformedCommand = errors.New("malformed command")
)

// ParseCommand splits a frame once on the first space and maps it onto the
// command enumeration. Ill-formed frames return an error; the connection
// handler drops them without closing the socket.
func ParseCommand(line string) (Command, error) {
	verb, tail, hasTail := strings.Cut(line, " ")
	switch verb {
	case "/move":
		if !hasTail {
			return Command{}, fmt.Errorf("%w: /move needs a direction", ErrMalformedCommand)
		}
		dir, ok := ParseDirection(tail)
		if !ok {
			return Command{}, fmt.Errorf("%w: bad direction %q", ErrMalformedCommand, tail)
		}
		return Command{Kind: CmdMove, Direction: dir}, nil
	case "/joinLobby":
		if !hasTail {
			return Command{}, fmt.Errorf("%w: /joinLobby needs a lobby id", ErrMalformedCommand)
		}
		id, err := strconv.Atoi(tail)
		if err != nil || id < 0 {
			return Command{}, fmt.Errorf("%w: bad lobby id %q", ErrMalformedCommand, tail)
		}
		return Command{Kind: CmdJoinLobby, LobbyID: id}, nil
	case "/ping":
		return Command{Kind: CmdPing}, nil
	case "/sendGlobalMessage":
		if !hasTail {
			return Command{}, fmt.Errorf("%w: /sendGlobalMessage needs a body", ErrMalformedCommand)
		}
		return Command{Kind: CmdSendGlobalMessage, Text: tail}, nil
	case "/sendLobbyMessage":
		if !hasTail {
			return Command{}, fmt.Errorf("%w: /sendLobbyMessage needs a body", ErrMalformedCommand)
		}
		return Command{Kind: CmdSendLobbyMessage, Text: tail}, nil
	default:
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, verb)
	}
}
