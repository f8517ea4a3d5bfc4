package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Satogava-Kaydan/XO/internal/client"
)

func main() {
	serverURL := flag.String("server", "ws://localhost:8080/ws", "game server websocket URL")
	room := flag.String("room", "", "room code or share link to join on startup")
	flag.Parse()

	controller := client.NewController(*serverURL, client.NewDisplay(), client.NewInputHandler(os.Stdin))

	if err := controller.Run(*room); err != nil {
		fmt.Fprintf(os.Stderr, "client error: %v\n", err)
		os.Exit(1)
	}
}
