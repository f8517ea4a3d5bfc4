package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Satogava-Kaydan/XO/internal/entity"
	"github.com/Satogava-Kaydan/XO/internal/protocol"
)

type roomManager interface {
	CreateRoom(ctx context.Context, playerID string) (*entity.Room, *entity.Player, error)
	JoinRoom(ctx context.Context, code, playerID string) (*entity.Room, *entity.Player, error)
	MakeMove(ctx context.Context, playerID, roomID string, cell int) (*entity.Room, error)
	RestartGame(ctx context.Context, roomID string) (*entity.Room, error)
	Disconnect(ctx context.Context, playerID string) (*entity.Room, error)
}

type Server struct {
	logger    *slog.Logger
	manager   roomManager
	publicURL string

	upgrader websocket.Upgrader

	peersMutex sync.RWMutex
	peers      map[string]*peer

	handlers map[string]func(ctx context.Context, p *peer, payload json.RawMessage) error
}

func New(logger *slog.Logger, manager roomManager, publicURL string) *Server {
	server := &Server{
		logger:    logger,
		manager:   manager,
		publicURL: publicURL,

		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// the game is join-by-code, there is no origin allowlist
			CheckOrigin: func(_ *http.Request) bool { return true },
		},

		peers:    make(map[string]*peer),
		handlers: make(map[string]func(context.Context, *peer, json.RawMessage) error),
	}

	server.handlers[protocol.ActionCreateRoom] = server.handleCreateRoom
	server.handlers[protocol.ActionJoinRoom] = server.handleJoinRoom
	server.handlers[protocol.ActionMakeMove] = server.handleMakeMove
	server.handlers[protocol.ActionRestartGame] = server.handleRestartGame

	return server
}

// Start - starts the WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveWS(ctx, w, r)
	})

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// serveWS - upgrades the connection and runs the session until disconnect.
func (that *Server) serveWS(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "serveWS")

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	p := newPeer(uuid.NewString(), conn)

	that.peersMutex.Lock()
	that.peers[p.id] = p
	that.peersMutex.Unlock()

	log.Info("player connected", "playerID", p.id)

	go p.writePump()

	that.readPump(ctx, p)
	that.handleDisconnect(ctx, p)
}

// readPump - processes messages from the client until the connection drops.
func (that *Server) readPump(ctx context.Context, p *peer) {
	log := that.logger.With("method", "readPump", "playerID", p.id)

	for {
		_, reqBody, err := p.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("error reading message", "error", err)
			}

			return
		}

		var message protocol.Message
		if err = json.Unmarshal(reqBody, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Error("unknown action", "action", message.Action)
			continue
		}

		if err = handler(ctx, p, message.Payload); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

// handleDisconnect - removes the player from its room, deleting the room
// when it empties and notifying the remaining player otherwise.
func (that *Server) handleDisconnect(ctx context.Context, p *peer) {
	log := that.logger.With("method", "handleDisconnect", "playerID", p.id)

	that.peersMutex.Lock()
	delete(that.peers, p.id)
	that.peersMutex.Unlock()

	p.close()

	room, err := that.manager.Disconnect(ctx, p.id)
	if err != nil {
		log.Error("failed to clean up after disconnect", "error", err)
		return
	}

	if room != nil {
		that.broadcastToRoom(room, protocol.ActionOpponentDisconnected, nil)
	}

	log.Info("player disconnected")
}

// sendTo - sends one message to one peer, fire-and-forget.
func (that *Server) sendTo(p *peer, action string, payload any) error {
	messageJSON, err := protocol.Encode(action, payload)
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	p.enqueue(messageJSON)

	return nil
}

// broadcastToRoom - sends one message to every room member that still has a
// live connection. Delivery is at-most-once; members without a connection
// are skipped.
func (that *Server) broadcastToRoom(room *entity.Room, action string, payload any) {
	log := that.logger.With("method", "broadcastToRoom", "roomID", room.ID)

	messageJSON, err := protocol.Encode(action, payload)
	if err != nil {
		log.Error("failed to encode message", "error", err)
		return
	}

	for _, player := range room.Players {
		that.peersMutex.RLock()
		p, ok := that.peers[player.ID]
		that.peersMutex.RUnlock()

		if !ok {
			log.Warn("no connection for room member", "playerID", player.ID)
			continue
		}

		p.enqueue(messageJSON)
	}
}

func (that *Server) sendError(p *peer, message string) error {
	return that.sendTo(p, protocol.ActionError, protocol.ErrorPayload{Message: message})
}
