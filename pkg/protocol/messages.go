package protocol

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Verb tags a server-to-client message. Every message serializes to a single
// text frame "<verb> <payload>" where the payload is JSON, a scalar, or absent.
type Verb string

const (
	VerbPong                 Verb = "/pong"
	VerbLobbyJoined          Verb = "/lobbyJoined"
	VerbLobbiesGeneralUpdate Verb = "/lobbiesGeneralUpdate"
	VerbGlobalChatSync       Verb = "/globalChatSync"
	VerbGlobalChatNewMessage Verb = "/globalChatNewMessage"
	VerbLobbyChatSync        Verb = "/lobbyChatSync"
	VerbLobbyChatNewMessage  Verb = "/lobbyChatNewMessage"
	VerbGameStarted          Verb = "/gameStarted"
	VerbGameUpdate           Verb = "/gameUpdate"
	VerbWinnerIs             Verb = "/winnerIs"
	VerbMyMoves              Verb = "/myMoves"
)

// ServerMessage is the closed union of everything the server pushes to
// clients. The tag stays flat so the outbound multiplexer can branch on Verb
// without unwrapping; only the field matching Verb is populated.
type ServerMessage struct {
	Verb    Verb
	LobbyID int            // VerbLobbyJoined, VerbGameStarted
	Winner  string         // VerbWinnerIs
	Chat    *ChatMessage   // VerbGlobalChatNewMessage, VerbLobbyChatNewMessage
	History []ChatMessage  // VerbGlobalChatSync, VerbLobbyChatSync
	Lobbies *LobbiesUpdate // VerbLobbiesGeneralUpdate
	Game    *GameUpdate    // VerbGameUpdate
	Moves   *PlayerMoves   // VerbMyMoves
}

// Encode renders the message as a wire frame.
func (m ServerMessage) Encode() ([]byte, error) {
	switch m.Verb {
	case VerbPong:
		return []byte(VerbPong), nil
	case VerbLobbyJoined, VerbGameStarted:
		return []byte(fmt.Sprintf("%s %d", m.Verb, m.LobbyID)), nil
	case VerbWinnerIs:
		// The payload may legitimately be empty (no surviving owner), so the
		// separating space is always emitted.
		return []byte(fmt.Sprintf("%s %s", m.Verb, m.Winner)), nil
	case VerbGlobalChatSync, VerbLobbyChatSync:
		history := m.History
		if history == nil {
			history = []ChatMessage{}
		}
		return appendJSON(m.Verb, history)
	case VerbGlobalChatNewMessage, VerbLobbyChatNewMessage:
		return appendJSON(m.Verb, m.Chat)
	case VerbLobbiesGeneralUpdate:
		return appendJSON(m.Verb, m.Lobbies)
	case VerbGameUpdate:
		return appendJSON(m.Verb, m.Game)
	case VerbMyMoves:
		return appendJSON(m.Verb, m.Moves)
	default:
		return nil, fmt.Errorf("encode: unknown verb %q", m.Verb)
	}
}

func appendJSON(verb Verb, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", verb, err)
	}
	frame := make([]byte, 0, len(verb)+1+len(body))
	frame = append(frame, verb...)
	frame = append(frame, ' ')
	frame = append(frame, body...)
	return frame, nil
}

// ParseServerMessage decodes a wire frame back into a ServerMessage. It is
// the inverse of Encode for every verb and backs the simulator client.
func ParseServerMessage(frame string) (ServerMessage, error) {
	verb, tail, _ := strings.Cut(frame, " ")
	msg := ServerMessage{Verb: Verb(verb)}
	switch msg.Verb {
	case VerbPong:
		return msg, nil
	case VerbLobbyJoined, VerbGameStarted:
		id, err := strconv.Atoi(tail)
		if err != nil {
			return ServerMessage{}, fmt.Errorf("parse %s lobby id %q: %w", verb, tail, err)
		}
		msg.LobbyID = id
		return msg, nil
	case VerbWinnerIs:
		msg.Winner = tail
		return msg, nil
	case VerbGlobalChatSync, VerbLobbyChatSync:
		msg.History = []ChatMessage{}
		return msg, parsePayload(verb, tail, &msg.History)
	case VerbGlobalChatNewMessage, VerbLobbyChatNewMessage:
		msg.Chat = &ChatMessage{}
		return msg, parsePayload(verb, tail, msg.Chat)
	case VerbLobbiesGeneralUpdate:
		msg.Lobbies = &LobbiesUpdate{}
		return msg, parsePayload(verb, tail, msg.Lobbies)
	case VerbGameUpdate:
		msg.Game = &GameUpdate{}
		return msg, parsePayload(verb, tail, msg.Game)
	case VerbMyMoves:
		msg.Moves = &PlayerMoves{}
		return msg, parsePayload(verb, tail, msg.Moves)
	default:
		return ServerMessage{}, fmt.Errorf("parse: unknown verb %q", verb)
	}
}

func parsePayload(verb, tail string, target any) error {
	if err := json.Unmarshal([]byte(tail), target); err != nil {
		return fmt.Errorf("parse %s payload: %w", verb, err)
	}
	return nil
}
