package controller

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/benbeisheim/checkers-backend/internal/config"
	"github.com/benbeisheim/checkers-backend/internal/model"
	"github.com/benbeisheim/checkers-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

const playerID = "player-1"

func newTestApp(t *testing.T) (*fiber.App, *service.GameService) {
	t.Helper()
	cfg := config.Default()
	cfg.AIDelay = 0
	cfg.AIDepth = 2

	gameService := service.NewGameService(service.NewGameManager(cfg))
	app := fiber.New()
	RegisterRoutes(app, gameService, cfg.AllowedOrigin)
	return app, gameService
}

func do(t *testing.T, app *fiber.App, method, path, player, body string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if player != "" {
		req.Header.Set("X-Player-ID", player)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	return resp.StatusCode, data
}

func createGame(t *testing.T, app *fiber.App, body string) string {
	t.Helper()
	status, data := do(t, app, http.MethodPost, "/api/game/create", playerID, body)
	if status != fiber.StatusCreated {
		t.Fatalf("create status = %d; body %s", status, data)
	}
	var created struct {
		GameID string `json:"game_id"`
	}
	if err := json.Unmarshal(data, &created); err != nil || created.GameID == "" {
		t.Fatalf("create response %s: %v", data, err)
	}
	return created.GameID
}

type viewResponse struct {
	Board       [][]*model.Piece     `json:"board"`
	ToMove      model.PlayerColor    `json:"toMove"`
	MoveHistory []model.HistoryEntry `json:"moveHistory"`
	WhiteCount  int                  `json:"whiteCount"`
	BlackCount  int                  `json:"blackCount"`
}

func decodeView(t *testing.T, data []byte) viewResponse {
	t.Helper()
	var view viewResponse
	if err := json.Unmarshal(data, &view); err != nil {
		t.Fatalf("decoding view %s: %v", data, err)
	}
	return view
}

func TestRequiresPlayerID(t *testing.T) {
	app, _ := newTestApp(t)
	status, _ := do(t, app, http.MethodPost, "/api/game/create", "", "")
	if status != fiber.StatusUnauthorized {
		t.Errorf("status = %d; want 401", status)
	}
}

func TestHotSeatFlow(t *testing.T) {
	app, _ := newTestApp(t)
	gameID := createGame(t, app, "")
	base := "/api/game/" + gameID

	status, data := do(t, app, http.MethodGet, base, playerID, "")
	if status != fiber.StatusOK {
		t.Fatalf("get status = %d", status)
	}
	view := decodeView(t, data)
	if view.ToMove != model.PlayerColorWhite || view.WhiteCount != 12 || view.BlackCount != 12 {
		t.Errorf("initial view = %+v", view)
	}
	if len(view.Board) != 8 || view.Board[5][2] == nil || view.Board[4][3] != nil {
		t.Errorf("unexpected board layout: %s", data)
	}

	status, data = do(t, app, http.MethodGet, base+"/moves?row=5&col=2", playerID, "")
	if status != fiber.StatusOK {
		t.Fatalf("moves status = %d", status)
	}
	var moves struct {
		Moves []model.WSMove `json:"moves"`
	}
	if err := json.Unmarshal(data, &moves); err != nil || len(moves.Moves) != 2 {
		t.Errorf("moves response %s: %v", data, err)
	}

	status, data = do(t, app, http.MethodPost, base+"/move", playerID, `{"from":{"row":5,"col":2},"to":{"row":4,"col":3}}`)
	if status != fiber.StatusOK {
		t.Fatalf("move status = %d; body %s", status, data)
	}
	if view := decodeView(t, data); view.ToMove != model.PlayerColorBlack || len(view.MoveHistory) != 1 {
		t.Errorf("after move view = %+v", view)
	}

	status, data = do(t, app, http.MethodPost, base+"/undo", playerID, "")
	if status != fiber.StatusOK {
		t.Fatalf("undo status = %d", status)
	}
	if view := decodeView(t, data); view.ToMove != model.PlayerColorWhite || len(view.MoveHistory) != 0 {
		t.Errorf("after undo view = %+v", view)
	}

	status, _ = do(t, app, http.MethodPost, base+"/restart", playerID, "")
	if status != fiber.StatusOK {
		t.Errorf("restart status = %d", status)
	}
}

func TestMoveErrors(t *testing.T) {
	app, _ := newTestApp(t)
	gameID := createGame(t, app, "")
	base := "/api/game/" + gameID

	tests := []struct {
		name   string
		path   string
		player string
		body   string
		want   int
	}{
		{"unknown game", "/api/game/nope/move", playerID, `{"from":{"row":5,"col":2},"to":{"row":4,"col":3}}`, fiber.StatusNotFound},
		{"stranger", base + "/move", "other", `{"from":{"row":5,"col":2},"to":{"row":4,"col":3}}`, fiber.StatusForbidden},
		{"illegal target", base + "/move", playerID, `{"from":{"row":5,"col":2},"to":{"row":3,"col":4}}`, fiber.StatusUnprocessableEntity},
		{"out of bounds", base + "/move", playerID, `{"from":{"row":5,"col":2},"to":{"row":9,"col":3}}`, fiber.StatusUnprocessableEntity},
		{"opponent piece", base + "/move", playerID, `{"from":{"row":2,"col":1},"to":{"row":3,"col":2}}`, fiber.StatusConflict},
		{"bad body", base + "/move", playerID, `{"from":`, fiber.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, data := do(t, app, http.MethodPost, tt.path, tt.player, tt.body)
			if status != tt.want {
				t.Errorf("status = %d; want %d (body %s)", status, tt.want, data)
			}
		})
	}
}

func TestComputerGame(t *testing.T) {
	app, gameService := newTestApp(t)
	gameID := createGame(t, app, `{"vsComputer":true,"computerSide":"black","depth":2}`)
	base := "/api/game/" + gameID

	status, data := do(t, app, http.MethodPost, base+"/move", playerID, `{"from":{"row":5,"col":2},"to":{"row":4,"col":3}}`)
	if status != fiber.StatusOK {
		t.Fatalf("move status = %d; body %s", status, data)
	}
	gameService.Wait()

	_, data = do(t, app, http.MethodGet, base, playerID, "")
	view := decodeView(t, data)
	if len(view.MoveHistory) != 2 || view.ToMove != model.PlayerColorWhite {
		t.Errorf("computer did not reply: %+v", view)
	}
}

func TestCreateGameInvalidOptions(t *testing.T) {
	app, _ := newTestApp(t)
	status, data := do(t, app, http.MethodPost, "/api/game/create", playerID, `{"vsComputer":true,"computerSide":"green"}`)
	if status != fiber.StatusUnprocessableEntity {
		t.Errorf("status = %d; want 422 (body %s)", status, data)
	}
}
