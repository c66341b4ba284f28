package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "RangeBet API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the RangeBet number-guessing game.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// POST /api/rooms
	postRoom, _ := r.NewOperationContext(http.MethodPost, "/api/rooms")
	postRoom.SetSummary("Create room")
	postRoom.SetDescription("Creates a room in the waiting phase and returns its shareable 4-character code. The caller becomes the host; a player identity is minted when none is supplied.")
	postRoom.AddReqStructure(CreateRoomRequest{})
	postRoom.AddRespStructure(CreateRoomResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	postRoom.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postRoom)

	// GET /api/rooms/{code}
	getRoom, _ := r.NewOperationContext(http.MethodGet, "/api/rooms/{code}")
	getRoom.SetSummary("Room state")
	getRoom.SetDescription("Returns the full room document, with the winner once the game has finished.")
	getRoom.AddRespStructure(RoomStateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getRoom.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getRoom)

	// POST /api/rooms/{code}/join
	postJoin, _ := r.NewOperationContext(http.MethodPost, "/api/rooms/{code}/join")
	postJoin.SetSummary("Join a room")
	postJoin.SetDescription("Joins the lobby while the room is waiting. At most 4 players; rejoining with a known identity keeps its score.")
	postJoin.AddReqStructure(JoinRequest{})
	postJoin.AddRespStructure(JoinResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postJoin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postJoin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	postJoin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postJoin)

	// POST /api/rooms/{code}/start
	postStart, _ := r.NewOperationContext(http.MethodPost, "/api/rooms/{code}/start")
	postStart.SetSummary("Start the game")
	postStart.SetDescription("Host only. Moves the room from waiting to betting round 1. Pass the player identity as a Bearer token.")
	postStart.AddRespStructure(RoomStateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postStart.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	postStart.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postStart)

	// POST /api/rooms/{code}/bets
	postBet, _ := r.NewOperationContext(http.MethodPost, "/api/rooms/{code}/bets")
	postBet.SetSummary("Place a bet")
	postBet.SetDescription("Records the caller's guess for the current round. One bet per player per round, no overwrites.")
	postBet.AddReqStructure(BetRequest{})
	postBet.AddRespStructure(RoomStateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postBet.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postBet)

	// POST /api/rooms/{code}/reveal
	postReveal, _ := r.NewOperationContext(http.MethodPost, "/api/rooms/{code}/reveal")
	postReveal.SetSummary("Close bets and reveal")
	postReveal.SetDescription("Host only. Draws the winning number within the current range, credits exact matches, and moves to results.")
	postReveal.AddRespStructure(RoomStateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postReveal.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	postReveal.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postReveal)

	// POST /api/rooms/{code}/advance
	postAdvance, _ := r.NewOperationContext(http.MethodPost, "/api/rooms/{code}/advance")
	postAdvance.SetSummary("Next round")
	postAdvance.SetDescription("Host only. Starts the next betting round, or finishes the game after round 4.")
	postAdvance.AddRespStructure(RoomStateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postAdvance.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	postAdvance.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postAdvance)

	// GET /api/rooms/{code}/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/rooms/{code}/events")
	getEvents.SetSummary("SSE room feed")
	getEvents.SetDescription("Server-Sent Events stream delivering the full room document on connect and after every change.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// GET /ws/rooms/{code}
	getWS, _ := r.NewOperationContext(http.MethodGet, "/ws/rooms/{code}")
	getWS.SetSummary("WebSocket room feed")
	getWS.SetDescription("Upgrades to a WebSocket that delivers the same room snapshots as the SSE feed.")
	getWS.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getWS)

	// POST /api/admin/login
	postLogin, _ := r.NewOperationContext(http.MethodPost, "/api/admin/login")
	postLogin.SetSummary("Admin login")
	postLogin.SetDescription("Authenticate with email and password. Sets admin_session cookie.")
	postLogin.AddReqStructure(AdminLoginRequest{})
	postLogin.AddRespStructure(AdminMeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postLogin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postLogin)

	// POST /api/admin/logout
	postLogout, _ := r.NewOperationContext(http.MethodPost, "/api/admin/logout")
	postLogout.SetSummary("Admin logout")
	postLogout.SetDescription("Clears admin session and cookie.")
	postLogout.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postLogout)

	// GET /api/admin/me
	getMe, _ := r.NewOperationContext(http.MethodGet, "/api/admin/me")
	getMe.SetSummary("Current admin")
	getMe.SetDescription("Returns the currently authenticated admin. Requires admin_session cookie.")
	getMe.AddRespStructure(AdminMeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getMe.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getMe)

	// GET /api/admin/rooms
	listRooms, _ := r.NewOperationContext(http.MethodGet, "/api/admin/rooms")
	listRooms.SetSummary("List rooms")
	listRooms.SetDescription("Returns all rooms with phase, round, and player counts. Requires admin_session cookie.")
	listRooms.AddRespStructure([]AdminRoomSummary{}, openapi.WithHTTPStatus(http.StatusOK))
	listRooms.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(listRooms)

	// GET /api/admin/rooms/{code}
	adminRoom, _ := r.NewOperationContext(http.MethodGet, "/api/admin/rooms/{code}")
	adminRoom.SetSummary("Room detail")
	adminRoom.SetDescription("Returns the full room document. Requires admin_session cookie.")
	adminRoom.AddRespStructure(RoomStateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	adminRoom.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	adminRoom.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(adminRoom)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
