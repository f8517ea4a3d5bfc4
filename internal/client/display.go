// Package client is the terminal client: it mirrors server-announced game
// state, gates local input and renders the board from authoritative
// broadcasts.
package client

import (
	"fmt"
	"time"

	"github.com/fatih/color"
)

type Display struct {
	serverColor  *color.Color
	connectColor *color.Color
	gameColor    *color.Color
	winColor     *color.Color
	loseColor    *color.Color
	warningColor *color.Color
	infoColor    *color.Color
	xColor       *color.Color
	oColor       *color.Color
}

// NewDisplay creates a new display instance with configured colors.
func NewDisplay() *Display {
	return &Display{
		serverColor:  color.New(color.FgCyan, color.Bold),
		connectColor: color.New(color.FgGreen, color.Bold),
		gameColor:    color.New(color.FgYellow, color.Bold),
		winColor:     color.New(color.FgGreen, color.Bold),
		loseColor:    color.New(color.FgRed, color.Bold),
		warningColor: color.New(color.FgYellow),
		infoColor:    color.New(color.FgWhite),
		xColor:       color.New(color.FgRed, color.Bold),
		oColor:       color.New(color.FgBlue, color.Bold),
	}
}

// PrintBanner displays the game banner.
func (that *Display) PrintBanner() {
	banner := `
╔═══════════════════════════════╗
║     TIC-TAC-TOE  ONLINE       ║
╚═══════════════════════════════╝
`
	that.gameColor.Println(banner)
}

// PrintServerStatus displays server connection status.
func (that *Display) PrintServerStatus(message string) {
	timestamp := time.Now().Format("15:04:05")
	that.serverColor.Printf("[%s] [SERVER] %s\n", timestamp, message)
}

// PrintConnection displays connection events.
func (that *Display) PrintConnection(message string) {
	timestamp := time.Now().Format("15:04:05")
	that.connectColor.Printf("[%s] [CONNECTED] %s\n", timestamp, message)
}

func (that *Display) PrintInfo(message string) {
	that.infoColor.Println(message)
}

func (that *Display) PrintWarning(message string) {
	that.warningColor.Println(message)
}

func (that *Display) PrintError(message string) {
	that.loseColor.Printf("ERROR: %s\n", message)
}

func (that *Display) PrintGameEvent(message string) {
	that.gameColor.Println(message)
}

// PrintResult displays the terminal outcome relative to the local player.
func (that *Display) PrintResult(winner, mySymbol string) {
	switch {
	case winner == "draw":
		that.gameColor.Println("It's a draw!")
	case winner == mySymbol:
		that.winColor.Println("You win!")
	default:
		that.loseColor.Printf("You lose. %s wins.\n", winner)
	}
}

// PrintBoard renders the 3x3 board. Empty cells show their 1-based number so
// the move command can address them.
func (that *Display) PrintBoard(board [9]string) {
	fmt.Println()
	for row := 0; row < 3; row++ {
		fmt.Print("  ")
		for col := 0; col < 3; col++ {
			idx := row*3 + col
			that.printCell(board[idx], idx)
			if col < 2 {
				fmt.Print(" │ ")
			}
		}
		fmt.Println()
		if row < 2 {
			fmt.Println("  ──┼───┼──")
		}
	}
	fmt.Println()
}

func (that *Display) printCell(value string, idx int) {
	switch value {
	case "X":
		that.xColor.Print("X")
	case "O":
		that.oColor.Print("O")
	default:
		fmt.Printf("%d", idx+1)
	}
}

// PrintTurn tells the player whose move it is.
func (that *Display) PrintTurn(myTurn bool) {
	if myTurn {
		that.gameColor.Println("Your move! (move <1-9>)")
	} else {
		that.infoColor.Println("Waiting for your opponent...")
	}
}

// PrintHelp lists the available commands.
func (that *Display) PrintHelp() {
	that.infoColor.Println(`Commands:
  create            create a new room
  join <code|link>  join a room by its 6-character code or share link
  move <1-9>        place your symbol on a cell
  restart           start a fresh game in the same room
  board             reprint the board
  leave             leave the current room
  quit              exit`)
}
