package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/Hybee22/football-fixture-api/live"
	"github.com/Hybee22/football-fixture-api/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Cross-origin browser clients are expected; access control
		// happens at the API layer, not the socket handshake.
		return true
	},
}

type WebSocketHandler struct {
	hub            *live.Hub
	fixtureService services.FixtureService
	logger         *slog.Logger
}

func NewWebSocketHandler(hub *live.Hub, fixtureService services.FixtureService, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, fixtureService: fixtureService, logger: logger}
}

// SubscribeFixture handles GET /ws/fixtures/{fixtureID}. The fixture
// must exist before the connection is upgraded.
func (h *WebSocketHandler) SubscribeFixture(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r, "fixtureID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if _, err := h.fixtureService.GetFixture(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed",
			slog.Int("fixture_id", id),
			slog.Any("error", err))
		return
	}

	client := live.NewClient(h.hub, conn, live.FixtureRoom(id))
	h.hub.Register(client)
}

// SubscribeAll handles GET /ws/fixtures, joining the global room that
// receives every fixture event.
func (h *WebSocketHandler) SubscribeAll(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}

	client := live.NewClient(h.hub, conn, live.GlobalRoom)
	h.hub.Register(client)
}
