package client

import (
	"bufio"
	"io"
	"strings"
)

// InputHandler reads line-oriented commands from the player.
type InputHandler struct {
	scanner *bufio.Scanner
}

func NewInputHandler(reader io.Reader) *InputHandler {
	return &InputHandler{
		scanner: bufio.NewScanner(reader),
	}
}

// ReadCommand returns the next command name and its argument, lowercasing
// the command but leaving the argument as typed. ok is false at EOF.
func (that *InputHandler) ReadCommand() (command, arg string, ok bool) {
	if !that.scanner.Scan() {
		return "", "", false
	}

	fields := strings.Fields(that.scanner.Text())
	if len(fields) == 0 {
		return "", "", true
	}

	command = strings.ToLower(fields[0])
	if len(fields) > 1 {
		arg = fields[1]
	}

	return command, arg, true
}
