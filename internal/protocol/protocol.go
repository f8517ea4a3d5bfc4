// Package protocol defines the wire messages exchanged between the game
// server and its clients. Every message is a JSON envelope with an action
// name and an action-specific payload.
package protocol

import (
	"encoding/json"
	"fmt"
)

// Client to server actions.
const (
	ActionCreateRoom  = "createRoom"
	ActionJoinRoom    = "joinRoom"
	ActionMakeMove    = "makeMove"
	ActionRestartGame = "restartGame"
)

// Server to client actions.
const (
	ActionRoomCreated          = "roomCreated"
	ActionRoomJoined           = "roomJoined"
	ActionAssignSymbol         = "assignSymbol"
	ActionGameStart            = "gameStart"
	ActionUpdateGame           = "updateGame"
	ActionGameOver             = "gameOver"
	ActionGameRestart          = "gameRestart"
	ActionOpponentDisconnected = "opponentDisconnected"
	ActionError                = "error"
)

type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Encode builds the wire form of a message. A nil payload produces an
// envelope with the action alone, as opponentDisconnected requires.
func Encode(action string, payload any) ([]byte, error) {
	message := Message{Action: action}

	if payload != nil {
		payloadJSON, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payload: %w", err)
		}

		message.Payload = payloadJSON
	}

	messageJSON, err := json.Marshal(message)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}

	return messageJSON, nil
}

// RoomCreatedPayload is sent to the creator only; the code is not broadcast.
type RoomCreatedPayload struct {
	RoomID    string `json:"roomId"`
	ShareLink string `json:"shareLink,omitempty"`
}

type RoomJoinedPayload struct {
	RoomID string `json:"roomId"`
}

// GameStatePayload carries the authoritative board for gameStart, updateGame
// and gameRestart. Empty cells are empty strings.
type GameStatePayload struct {
	Board         [9]string `json:"board"`
	CurrentPlayer string    `json:"currentPlayer"`
}

type MakeMovePayload struct {
	RoomID    string `json:"roomId"`
	CellIndex int    `json:"cellIndex"`
	Symbol    string `json:"symbol"`
}

// GameOverPayload is terminal for a round; Winner is "X", "O" or "draw".
type GameOverPayload struct {
	Winner string    `json:"winner"`
	Board  [9]string `json:"board"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
