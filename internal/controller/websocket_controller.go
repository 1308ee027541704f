package controller

import (
	"encoding/json"
	"fmt"

	"github.com/benbeisheim/checkers-backend/internal/model"
	"github.com/benbeisheim/checkers-backend/internal/service"
	"github.com/benbeisheim/checkers-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID, _ := c.Locals("playerID").(string)

	if err := wsc.gameService.RegisterConnection(gameID, playerID, c); err != nil {
		log.Warnf("failed to register connection: %v", err)
		c.Close()
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID, c)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Debugf("read error: %v", err)
			break
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Debugf("parse error: %v", err)
			wsc.send(gameID, c, ws.ErrorMessage("malformed message"))
			continue
		}

		reply, err := wsc.handleMessage(gameID, playerID, msg)
		if err != nil {
			log.Debugf("handle error: %v", err)
			wsc.send(gameID, c, ws.ErrorMessage(err.Error()))
			continue
		}
		if reply != nil {
			wsc.send(gameID, c, *reply)
		}
	}
}

// handleMessage dispatches one client message. State changes reach the
// client through the game's broadcast; only queries return a reply.
func (wsc *WebSocketController) handleMessage(gameID, playerID string, msg ws.Message) (*ws.Message, error) {
	switch msg.Type {
	case ws.MessageTypeMove:
		var move model.WSMove
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return nil, err
		}
		return nil, wsc.gameService.HandleMove(gameID, playerID, move)

	case ws.MessageTypeSelect:
		var pos model.Position
		if err := json.Unmarshal(msg.Payload, &pos); err != nil {
			return nil, err
		}
		moves, err := wsc.gameService.LegalMoves(gameID, pos)
		if err != nil {
			return nil, err
		}
		reply, err := ws.NewMessage(ws.MessageTypeLegalMoves, struct {
			Position model.Position `json:"position"`
			Moves    []model.Move   `json:"moves"`
		}{pos, moves})
		if err != nil {
			return nil, err
		}
		return &reply, nil

	case ws.MessageTypeUndo:
		return nil, wsc.gameService.Undo(gameID, playerID)

	case ws.MessageTypeRestart:
		return nil, wsc.gameService.Restart(gameID, playerID)

	default:
		return nil, fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

func (wsc *WebSocketController) send(gameID string, c *websocket.Conn, msg ws.Message) {
	if err := wsc.gameService.Send(gameID, c, msg); err != nil {
		log.Debugf("write error: %v", err)
	}
}
