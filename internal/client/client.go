package client

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/Satogava-Kaydan/XO/internal/protocol"
)

// Controller mirrors the server-announced room state and relays the
// player's intents. The server stays authoritative: every broadcast
// overwrites the local mirror entirely, and the pre-send gate here only
// filters moves the server would silently drop anyway.
type Controller struct {
	serverURL string
	display   *Display
	input     *InputHandler

	conn *websocket.Conn

	writeMutex sync.Mutex

	mu        sync.Mutex
	connected bool
	roomID    string
	symbol    string
	myTurn    bool
	board     [9]string
	finished  bool
}

func NewController(serverURL string, display *Display, input *InputHandler) *Controller {
	return &Controller{
		serverURL: serverURL,
		display:   display,
		input:     input,
	}
}

// Run connects to the server and drives the command loop until the player
// quits or input ends.
func (that *Controller) Run(joinRef string) error {
	that.display.PrintBanner()

	if err := that.connect(); err != nil {
		return err
	}

	that.display.PrintHelp()

	// a room reference on the command line behaves like opening a share
	// link: the join is sent right away
	if joinRef != "" {
		that.sendJoin(joinRef)
	}

	for {
		command, arg, ok := that.input.ReadCommand()
		if !ok {
			that.disconnect()
			return nil
		}

		switch command {
		case "":
			// blank line
		case "create":
			that.sendCreate()
		case "join":
			if arg == "" {
				that.display.PrintWarning("usage: join <code|link>")
				continue
			}
			that.sendJoin(arg)
		case "move":
			that.sendMove(arg)
		case "restart":
			that.sendRestart()
		case "board":
			that.printBoard()
		case "leave":
			that.leave()
		case "help":
			that.display.PrintHelp()
		case "quit", "exit":
			that.disconnect()
			return nil
		default:
			that.display.PrintWarning(fmt.Sprintf("unknown command: %s", command))
		}
	}
}

func (that *Controller) connect() error {
	that.display.PrintServerStatus("connecting to " + that.serverURL)

	conn, _, err := websocket.DefaultDialer.Dial(that.serverURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}

	that.conn = conn

	that.mu.Lock()
	that.connected = true
	that.mu.Unlock()

	that.display.PrintConnection("connected to game server")

	go that.readLoop(conn)

	return nil
}

func (that *Controller) disconnect() {
	that.mu.Lock()
	that.connected = false
	that.mu.Unlock()

	if that.conn != nil {
		_ = that.conn.Close()
	}
}

// leave drops the room by dropping the session: there is no resync protocol,
// so leaving and reconnecting with a fresh session is the only way out of a
// room.
func (that *Controller) leave() {
	that.disconnect()

	that.mu.Lock()
	that.roomID = ""
	that.symbol = ""
	that.myTurn = false
	that.board = [9]string{}
	that.finished = false
	that.mu.Unlock()

	if err := that.connect(); err != nil {
		that.display.PrintError(err.Error())
	}
}

func (that *Controller) sendCreate() {
	if !that.isConnected() {
		that.display.PrintWarning("not connected")
		return
	}

	that.sendMessage(protocol.ActionCreateRoom, nil)
}

func (that *Controller) sendJoin(ref string) {
	if !that.isConnected() {
		that.display.PrintWarning("not connected")
		return
	}

	code := ParseRoomRef(ref)
	if len(code) != 6 {
		that.display.PrintWarning("room code must be 6 characters")
		return
	}

	that.sendMessage(protocol.ActionJoinRoom, code)
}

func (that *Controller) sendMove(arg string) {
	cell, err := strconv.Atoi(arg)
	if err != nil || cell < 1 || cell > 9 {
		that.display.PrintWarning("usage: move <1-9>")
		return
	}

	idx := cell - 1

	that.mu.Lock()
	roomID, symbol := that.roomID, that.symbol
	allowed := that.canMoveLocked(idx)
	that.mu.Unlock()

	if !allowed {
		that.display.PrintWarning("not your turn, cell taken, or not in a game")
		return
	}

	that.sendMessage(protocol.ActionMakeMove, protocol.MakeMovePayload{
		RoomID:    roomID,
		CellIndex: idx,
		Symbol:    symbol,
	})
}

func (that *Controller) sendRestart() {
	that.mu.Lock()
	roomID := that.roomID
	that.mu.Unlock()

	if roomID == "" || !that.isConnected() {
		that.display.PrintWarning("not in a room")
		return
	}

	that.sendMessage(protocol.ActionRestartGame, roomID)
}

// canMoveLocked is the optimistic gate: my turn, the cell looks empty and
// the channel is up. The server re-validates every move regardless.
func (that *Controller) canMoveLocked(idx int) bool {
	return that.connected &&
		that.roomID != "" &&
		!that.finished &&
		that.myTurn &&
		idx >= 0 && idx < len(that.board) &&
		that.board[idx] == ""
}

func (that *Controller) isConnected() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.connected
}

func (that *Controller) sendMessage(action string, payload any) {
	messageJSON, err := protocol.Encode(action, payload)
	if err != nil {
		that.display.PrintError(err.Error())
		return
	}

	that.writeMutex.Lock()
	defer that.writeMutex.Unlock()

	if err = that.conn.WriteMessage(websocket.TextMessage, messageJSON); err != nil {
		that.display.PrintError("failed to send: " + err.Error())
	}
}

func (that *Controller) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			that.mu.Lock()
			wasConnected := that.connected
			that.connected = false
			that.mu.Unlock()

			if wasConnected {
				that.display.PrintWarning("connection to server lost")
			}

			return
		}

		var message protocol.Message
		if err = json.Unmarshal(data, &message); err != nil {
			that.display.PrintError("bad message from server")
			continue
		}

		that.handleMessage(&message)
	}
}

func (that *Controller) handleMessage(message *protocol.Message) {
	switch message.Action {
	case protocol.ActionRoomCreated:
		that.handleRoomCreated(message.Payload)
	case protocol.ActionRoomJoined:
		that.handleRoomJoined(message.Payload)
	case protocol.ActionAssignSymbol:
		that.handleAssignSymbol(message.Payload)
	case protocol.ActionGameStart:
		that.handleGameState(message.Payload, "Game on!")
	case protocol.ActionUpdateGame:
		that.handleGameState(message.Payload, "")
	case protocol.ActionGameRestart:
		that.handleGameState(message.Payload, "Game restarted")
	case protocol.ActionGameOver:
		that.handleGameOver(message.Payload)
	case protocol.ActionOpponentDisconnected:
		that.handleOpponentDisconnected()
	case protocol.ActionError:
		that.handleError(message.Payload)
	}
}

func (that *Controller) handleRoomCreated(raw json.RawMessage) {
	var payload protocol.RoomCreatedPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		that.display.PrintError("bad roomCreated payload")
		return
	}

	that.mu.Lock()
	that.roomID = payload.RoomID
	// the creator holds X by definition; assignSymbol is only sent to joiners
	that.symbol = "X"
	that.board = [9]string{}
	that.finished = false
	that.mu.Unlock()

	that.display.PrintGameEvent("Room created: " + payload.RoomID)
	if payload.ShareLink != "" {
		that.display.PrintInfo("Share this link with a friend: " + payload.ShareLink)
	}
	that.display.PrintInfo("Waiting for an opponent to join...")
}

func (that *Controller) handleRoomJoined(raw json.RawMessage) {
	var payload protocol.RoomJoinedPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		that.display.PrintError("bad roomJoined payload")
		return
	}

	that.mu.Lock()
	that.roomID = payload.RoomID
	that.finished = false
	that.mu.Unlock()

	that.display.PrintGameEvent("Joined room " + payload.RoomID)
}

func (that *Controller) handleAssignSymbol(raw json.RawMessage) {
	var symbol string
	if err := json.Unmarshal(raw, &symbol); err != nil {
		that.display.PrintError("bad assignSymbol payload")
		return
	}

	that.mu.Lock()
	that.symbol = symbol
	that.mu.Unlock()

	that.display.PrintGameEvent("You play as " + symbol)
}

// handleGameState overwrites the mirror from gameStart, updateGame and
// gameRestart payloads; the three differ only in the headline.
func (that *Controller) handleGameState(raw json.RawMessage, headline string) {
	var payload protocol.GameStatePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		that.display.PrintError("bad game state payload")
		return
	}

	that.mu.Lock()
	that.board = payload.Board
	that.myTurn = payload.CurrentPlayer == that.symbol
	that.finished = false
	myTurn := that.myTurn
	that.mu.Unlock()

	if headline != "" {
		that.display.PrintGameEvent(headline)
	}

	that.display.PrintBoard(payload.Board)
	that.display.PrintTurn(myTurn)
}

func (that *Controller) handleGameOver(raw json.RawMessage) {
	var payload protocol.GameOverPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		that.display.PrintError("bad gameOver payload")
		return
	}

	that.mu.Lock()
	that.board = payload.Board
	that.myTurn = false
	that.finished = true
	symbol := that.symbol
	that.mu.Unlock()

	that.display.PrintBoard(payload.Board)
	that.display.PrintResult(payload.Winner, symbol)
	that.display.PrintInfo("Type 'restart' for a rematch or 'leave' to exit the room.")
}

// handleOpponentDisconnected enters a waiting display state; the board is
// kept as-is.
func (that *Controller) handleOpponentDisconnected() {
	that.mu.Lock()
	that.myTurn = false
	that.mu.Unlock()

	that.display.PrintWarning("Your opponent disconnected. Waiting for a new player...")
}

func (that *Controller) handleError(raw json.RawMessage) {
	var payload protocol.ErrorPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		that.display.PrintError("bad error payload")
		return
	}

	that.display.PrintError(payload.Message)
}

func (that *Controller) printBoard() {
	that.mu.Lock()
	board := that.board
	myTurn := that.myTurn
	inRoom := that.roomID != ""
	that.mu.Unlock()

	if !inRoom {
		that.display.PrintWarning("not in a room")
		return
	}

	that.display.PrintBoard(board)
	that.display.PrintTurn(myTurn)
}

// ParseRoomRef extracts a room code from either a bare code or a share link
// carrying a room=<code> query parameter. The result is uppercased.
func ParseRoomRef(ref string) string {
	if strings.Contains(ref, "room=") {
		if u, err := url.Parse(ref); err == nil {
			if code := u.Query().Get("room"); code != "" {
				ref = code
			}
		}
	}

	return strings.ToUpper(strings.TrimSpace(ref))
}
