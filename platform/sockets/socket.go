// Package socket is the realtime transport. It translates socket.io events
// into engine operations through the room registry and broadcasts the
// resulting state. All payloads are JSON strings both ways.
package socket

import (
	"encoding/json"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-pg/pg/v10"
	socketio "github.com/googollee/go-socket.io"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/DedS3t/monopoly-engine/app/engine"
	"github.com/DedS3t/monopoly-engine/app/models"
	"github.com/DedS3t/monopoly-engine/app/rooms"
	"github.com/DedS3t/monopoly-engine/platform/cache"
	"github.com/DedS3t/monopoly-engine/platform/queries"
)

const maxChatLength = 200

type GameServer struct {
	registry  *rooms.Registry
	timers    *rooms.TimeoutManager
	snapshots *cache.SnapshotStore
	db        *pg.DB
	server    *socketio.Server

	mu    sync.Mutex
	conns map[string]socketio.Conn // playerId -> connection
}

// Emit satisfies rooms.Broadcaster.
func (g *GameServer) Emit(roomId string, event string, payload interface{}) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	g.server.BroadcastToRoom("/", roomId, event, string(raw))
}

// CreateSocketIOServer wires the registry, timers and persistence into a
// socket.io server and blocks serving it.
func CreateSocketIOServer(registry *rooms.Registry, snapshots *cache.SnapshotStore, db *pg.DB) {
	server, err := socketio.NewServer(nil)
	if err != nil {
		panic(err)
	}

	g := &GameServer{
		registry:  registry,
		snapshots: snapshots,
		db:        db,
		server:    server,
		conns:     make(map[string]socketio.Conn),
	}
	g.timers = rooms.NewTimeoutManager(registry, g)

	registry.SetOnRoomDeleted(func(roomId string) {
		g.timers.StopAll(roomId)
		g.snapshots.Delete(roomId)
	})

	g.registerHandlers()

	go g.matchmakingLoop()

	go server.Serve()
	defer server.Close()

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{allowedOrigin()},
		AllowCredentials: true,
	})

	mux := http.NewServeMux()
	mux.Handle("/socket.io/", server)
	logrus.WithField("port", socketPort()).Info("socket server listening")
	http.ListenAndServe(socketPort(), c.Handler(mux))
}

func socketPort() string {
	if port := os.Getenv("SOCKET_PORT"); port != "" {
		return ":" + port
	}
	return ":8000"
}

func allowedOrigin() string {
	if origin := os.Getenv("CORS_ORIGIN"); origin != "" {
		return origin
	}
	return "http://localhost:3000"
}

func (g *GameServer) registerHandlers() {
	s := g.server

	s.OnConnect("/", func(c socketio.Conn) error {
		c.SetContext("")
		return nil
	})

	s.OnEvent("/", "room:create", g.onRoomCreate)
	s.OnEvent("/", "room:join", g.onRoomJoin)
	s.OnEvent("/", "room:leave", g.onRoomLeave)

	s.OnEvent("/", "matchmaking:join", g.onMatchmakingJoin)
	s.OnEvent("/", "matchmaking:leave", g.onMatchmakingLeave)

	s.OnEvent("/", "game:selectColor", g.onSelectColor)
	s.OnEvent("/", "game:ready", g.onReady)
	s.OnEvent("/", "game:start", g.onStart)
	s.OnEvent("/", "game:startNow", g.onStartNow)

	s.OnEvent("/", "game:rollDice", g.onRollDice)
	s.OnEvent("/", "game:buyProperty", g.onBuyProperty)
	s.OnEvent("/", "game:declineProperty", g.onDeclineProperty)
	s.OnEvent("/", "game:endTurn", g.onEndTurn)
	s.OnEvent("/", "game:payJailFine", g.onPayJailFine)
	s.OnEvent("/", "game:useJailCard", g.onUseJailCard)

	s.OnEvent("/", "game:buildHouse", g.onBuildHouse)
	s.OnEvent("/", "game:sellHouse", g.onSellHouse)
	s.OnEvent("/", "game:mortgage", g.onMortgage)
	s.OnEvent("/", "game:unmortgage", g.onUnmortgage)

	s.OnEvent("/", "auction:bid", g.onAuctionBid)
	s.OnEvent("/", "auction:pass", g.onAuctionPass)

	s.OnEvent("/", "trade:propose", g.onTradePropose)
	s.OnEvent("/", "trade:accept", g.onTradeAccept)
	s.OnEvent("/", "trade:reject", g.onTradeReject)
	s.OnEvent("/", "trade:cancel", g.onTradeCancel)

	s.OnEvent("/", "chat:message", g.onChatMessage)

	s.OnError("/", func(c socketio.Conn, e error) {
		logrus.WithError(e).Warn("socket error")
	})

	s.OnDisconnect("/", g.onDisconnect)
}

// Payload helpers. Clients send a single JSON object per event.

func parsePayload(jsonStr string) map[string]interface{} {
	var result map[string]interface{}
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return map[string]interface{}{}
	}
	return result
}

func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func getInt(m map[string]interface{}, key string) int {
	if v, ok := m[key].(float64); ok {
		return int(v)
	}
	return 0
}

func getBool(m map[string]interface{}, key string) bool {
	v, _ := m[key].(bool)
	return v
}

func (g *GameServer) bind(c socketio.Conn, playerId string) {
	c.SetContext(playerId)
	g.mu.Lock()
	g.conns[playerId] = c
	g.mu.Unlock()
}

func (g *GameServer) connOf(playerId string) socketio.Conn {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.conns[playerId]
}

func fail(c socketio.Conn, msg string) {
	c.Emit("error-message", msg)
}

// broadcastState pushes the full state to the room and mirrors it into the
// snapshot store. Called after every successful mutation.
func (g *GameServer) broadcastState(roomId string) {
	eng := g.registry.Engine(roomId)
	if eng == nil {
		return
	}
	snapshot := eng.Snapshot()
	if snapshot == nil {
		return
	}
	g.Emit(roomId, "game:stateUpdate", map[string]interface{}{"state": snapshot})
	g.snapshots.Save(roomId, snapshot)

	if snapshot.GamePhase == models.PhaseEnded {
		g.finishGame(roomId, snapshot)
	}
}

// finishGame persists the result exactly once and stops the room's timers.
func (g *GameServer) finishGame(roomId string, snapshot *models.GameState) {
	if !g.registry.MarkFinished(roomId) {
		return
	}
	g.timers.StopAll(roomId)

	winner := snapshot.Winner
	if winner == nil {
		return
	}
	duration := time.Now().Unix() - snapshot.GameStartTime

	g.Emit(roomId, "game:ended", map[string]interface{}{
		"winner":      winner,
		"durationSec": duration,
	})

	result := &models.GameResult{
		Id:          roomId,
		RoomCode:    snapshot.RoomCode,
		WinnerId:    winner.Id,
		WinnerName:  winner.Name,
		PlayerCount: len(snapshot.Players),
		DurationSec: duration,
		FinishedAt:  time.Now().Unix(),
	}
	if err := queries.SaveGameResult(result, g.db); err != nil {
		logrus.WithError(err).WithField("room", roomId).Warn("failed saving game result")
	}
}

// Room lifecycle.

func (g *GameServer) onRoomCreate(c socketio.Conn, jsonStr string) {
	p := parsePayload(jsonStr)
	playerId := getString(p, "playerId")
	playerName := getString(p, "playerName")
	if playerId == "" || playerName == "" {
		fail(c, "playerId and playerName are required")
		return
	}

	var settings *models.GameSettings
	if raw, ok := p["settings"]; ok {
		buf, err := json.Marshal(raw)
		if err == nil {
			s := models.DefaultSettings()
			if json.Unmarshal(buf, &s) == nil {
				settings = &s
			}
		}
	}

	room, player := g.registry.CreateRoom(playerId, playerName, getBool(p, "isPrivate"), settings)
	if room == nil {
		fail(c, "Failed to create room")
		return
	}

	g.bind(c, playerId)
	c.Join(room.Id)
	c.Emit("room:created", mustJSON(map[string]interface{}{
		"roomId": room.Id,
		"code":   room.Code,
		"player": player,
	}))
	g.broadcastState(room.Id)
}

func (g *GameServer) onRoomJoin(c socketio.Conn, jsonStr string) {
	p := parsePayload(jsonStr)
	playerId := getString(p, "playerId")
	playerName := getString(p, "playerName")
	code := getString(p, "code")

	room, player, reconnected := g.registry.JoinRoom(code, playerId, playerName)
	if room == nil {
		fail(c, "Room not found or full")
		return
	}

	g.bind(c, playerId)
	c.Join(room.Id)
	c.Emit("room:joined", mustJSON(map[string]interface{}{
		"roomId":      room.Id,
		"code":        room.Code,
		"player":      player,
		"reconnected": reconnected,
	}))
	if !reconnected {
		g.Emit(room.Id, "room:playerJoined", map[string]interface{}{"player": player})
	}
	g.broadcastState(room.Id)
}

func (g *GameServer) onRoomLeave(c socketio.Conn, jsonStr string) {
	p := parsePayload(jsonStr)
	g.leaveRoom(c, getString(p, "playerId"))
}

func (g *GameServer) leaveRoom(c socketio.Conn, playerId string) {
	if playerId == "" {
		return
	}
	room := g.registry.RoomByPlayer(playerId)
	if room == nil {
		return
	}
	roomId := room.Id
	wasCurrent := room.Engine.GamePhase() == models.PhasePlaying &&
		room.Engine.CurrentPlayerId() == playerId

	result := g.registry.LeaveRoom(playerId)
	if c != nil {
		c.Leave(roomId)
	}
	if result == nil {
		return
	}

	if !result.RoomDeleted {
		g.Emit(roomId, "room:playerLeft", map[string]interface{}{
			"playerId":  playerId,
			"newHostId": result.NewHostId,
		})
		// A mid-game leave can bankrupt the leaver and decide the game.
		g.broadcastState(roomId)
		if wasCurrent {
			g.timers.ResumeTurnTimer(roomId)
		}
	}
}

// Matchmaking.

func (g *GameServer) onMatchmakingJoin(c socketio.Conn, jsonStr string) {
	p := parsePayload(jsonStr)
	playerId := getString(p, "playerId")
	playerName := getString(p, "playerName")
	if playerId == "" || playerName == "" {
		fail(c, "playerId and playerName are required")
		return
	}

	g.bind(c, playerId)
	position := g.registry.JoinMatchmaking(playerId, playerName)
	c.Emit("matchmaking:queued", mustJSON(map[string]interface{}{"position": position}))
}

func (g *GameServer) onMatchmakingLeave(c socketio.Conn, jsonStr string) {
	p := parsePayload(jsonStr)
	if g.registry.LeaveMatchmaking(getString(p, "playerId")) {
		c.Emit("matchmaking:left", "{}")
	}
}

// matchmakingLoop drains the queue every two seconds and seats matched
// players into their new room.
func (g *GameServer) matchmakingLoop() {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		match := g.registry.ProcessMatchmaking()
		if match == nil {
			continue
		}

		logrus.WithFields(logrus.Fields{
			"room":    match.Room.Id,
			"players": len(match.Players),
		}).Info("matchmaking formed a room")

		for _, mp := range match.Players {
			conn := g.connOf(mp.PlayerId)
			if conn == nil {
				continue
			}
			conn.Join(match.Room.Id)
			conn.Emit("matchmaking:matched", mustJSON(map[string]interface{}{
				"roomId": match.Room.Id,
				"code":   match.Room.Code,
			}))
		}
		g.broadcastState(match.Room.Id)
	}
}

// Lobby setup.

func (g *GameServer) onSelectColor(c socketio.Conn, jsonStr string) {
	p := parsePayload(jsonStr)
	playerId := getString(p, "playerId")
	eng := g.registry.EngineByPlayer(playerId)
	if eng == nil {
		fail(c, "Not in a room")
		return
	}
	if !eng.SelectColor(playerId, getString(p, "colorId")) {
		fail(c, "Color unavailable")
		return
	}
	g.broadcastState(g.registry.RoomByPlayer(playerId).Id)
}

func (g *GameServer) onReady(c socketio.Conn, jsonStr string) {
	p := parsePayload(jsonStr)
	playerId := getString(p, "playerId")
	eng := g.registry.EngineByPlayer(playerId)
	if eng == nil {
		fail(c, "Not in a room")
		return
	}
	if !eng.SetPlayerReady(playerId, getBool(p, "ready")) {
		fail(c, "Pick a color first")
		return
	}
	g.broadcastState(g.registry.RoomByPlayer(playerId).Id)
}

func (g *GameServer) onStart(c socketio.Conn, jsonStr string) {
	p := parsePayload(jsonStr)
	playerId := getString(p, "playerId")
	room := g.registry.RoomByPlayer(playerId)
	if room == nil {
		fail(c, "Not in a room")
		return
	}
	if room.HostId != playerId {
		fail(c, "Only the host can start the game")
		return
	}
	if !room.Engine.StartGame() {
		fail(c, "Not everyone is ready")
		return
	}

	g.Emit(room.Id, "game:started", map[string]interface{}{
		"currentPlayerId": room.Engine.CurrentPlayerId(),
	})
	g.broadcastState(room.Id)
	g.timers.StartTurnTimer(room.Id, room.Engine.CurrentPlayerId(), room.Engine.Settings().TurnTimeLimit)
}

// onStartNow skips the ready checks, for hosts testing a board alone.
func (g *GameServer) onStartNow(c socketio.Conn, jsonStr string) {
	p := parsePayload(jsonStr)
	playerId := getString(p, "playerId")
	room := g.registry.RoomByPlayer(playerId)
	if room == nil || room.HostId != playerId {
		fail(c, "Only the host can start the game")
		return
	}
	if !room.Engine.StartGameImmediately(playerId) {
		fail(c, "Pick a color first")
		return
	}

	g.Emit(room.Id, "game:started", map[string]interface{}{
		"currentPlayerId": room.Engine.CurrentPlayerId(),
	})
	g.broadcastState(room.Id)
	g.timers.StartTurnTimer(room.Id, playerId, room.Engine.Settings().TurnTimeLimit)
}

// Turn actions.

func (g *GameServer) onRollDice(c socketio.Conn, jsonStr string) {
	p := parsePayload(jsonStr)
	playerId := getString(p, "playerId")
	room := g.registry.RoomByPlayer(playerId)
	if room == nil {
		fail(c, "Not in a room")
		return
	}
	eng := room.Engine

	roll := eng.RollDice(playerId)
	if roll == nil {
		fail(c, "Not your turn")
		return
	}
	g.Emit(room.Id, "turn:diceRolled", map[string]interface{}{
		"playerId":  playerId,
		"dice":      roll.Dice,
		"isDoubles": roll.IsDoubles,
	})

	if move := eng.MovePlayer(playerId); move != nil {
		g.Emit(room.Id, "turn:playerMoved", map[string]interface{}{
			"playerId": playerId,
			"from":     move.From,
			"to":       move.To,
			"passedGo": move.PassedGo,
		})
	}
	if eng.TurnPhase() == models.TurnCard {
		if card := eng.DrawCard(playerId); card != nil {
			g.Emit(room.Id, "card:drawn", map[string]interface{}{
				"playerId": playerId,
				"card":     card,
			})
		}
	}
	g.broadcastState(room.Id)

	// Rent or a card can bankrupt the mover, advancing the turn inside the
	// engine; the countdown has to follow it.
	if eng.CurrentPlayerId() != playerId {
		g.timers.ResumeTurnTimer(room.Id)
	}
}

func (g *GameServer) onBuyProperty(c socketio.Conn, jsonStr string) {
	p := parsePayload(jsonStr)
	playerId := getString(p, "playerId")
	room := g.registry.RoomByPlayer(playerId)
	if room == nil {
		fail(c, "Not in a room")
		return
	}
	if !room.Engine.BuyProperty(playerId) {
		fail(c, "Cannot buy this property")
		return
	}
	g.Emit(room.Id, "property:bought", map[string]interface{}{"playerId": playerId})
	g.broadcastState(room.Id)
}

func (g *GameServer) onDeclineProperty(c socketio.Conn, jsonStr string) {
	p := parsePayload(jsonStr)
	playerId := getString(p, "playerId")
	room := g.registry.RoomByPlayer(playerId)
	if room == nil {
		fail(c, "Not in a room")
		return
	}
	eng := room.Engine

	if !eng.DeclineProperty(playerId) {
		fail(c, "Nothing to decline")
		return
	}

	if snapshot := eng.Snapshot(); snapshot != nil && snapshot.Auction != nil {
		g.Emit(room.Id, "auction:started", map[string]interface{}{
			"auction": snapshot.Auction,
		})
		g.timers.ClearTurnTimer(room.Id)
		g.timers.StartAuctionTimer(room.Id)
	}
	g.broadcastState(room.Id)
}

func (g *GameServer) onEndTurn(c socketio.Conn, jsonStr string) {
	p := parsePayload(jsonStr)
	playerId := getString(p, "playerId")
	room := g.registry.RoomByPlayer(playerId)
	if room == nil {
		fail(c, "Not in a room")
		return
	}
	eng := room.Engine

	if !eng.EndTurn(playerId) {
		fail(c, "Cannot end the turn now")
		return
	}

	nextId := eng.CurrentPlayerId()
	g.Emit(room.Id, "turn:ended", map[string]interface{}{
		"playerId":     playerId,
		"nextPlayerId": nextId,
	})
	g.broadcastState(room.Id)
	if eng.GamePhase() == models.PhasePlaying {
		g.timers.StartTurnTimer(room.Id, nextId, eng.Settings().TurnTimeLimit)
	}
}

func (g *GameServer) onPayJailFine(c socketio.Conn, jsonStr string) {
	p := parsePayload(jsonStr)
	playerId := getString(p, "playerId")
	room := g.registry.RoomByPlayer(playerId)
	if room == nil {
		fail(c, "Not in a room")
		return
	}
	if !room.Engine.PayJailFine(playerId) {
		fail(c, "Cannot pay the fine now")
		return
	}
	g.broadcastState(room.Id)
}

func (g *GameServer) onUseJailCard(c socketio.Conn, jsonStr string) {
	p := parsePayload(jsonStr)
	playerId := getString(p, "playerId")
	room := g.registry.RoomByPlayer(playerId)
	if room == nil {
		fail(c, "Not in a room")
		return
	}
	if !room.Engine.UseJailCard(playerId) {
		fail(c, "No card to use")
		return
	}
	g.broadcastState(room.Id)
}

// Property management.

func (g *GameServer) onBuildHouse(c socketio.Conn, jsonStr string) {
	g.propertyAction(c, jsonStr, "Cannot build here", func(eng *engine.Engine, playerId string, propertyId int) bool {
		return eng.BuildHouse(playerId, propertyId)
	})
}

func (g *GameServer) onSellHouse(c socketio.Conn, jsonStr string) {
	g.propertyAction(c, jsonStr, "Cannot sell here", func(eng *engine.Engine, playerId string, propertyId int) bool {
		return eng.SellHouse(playerId, propertyId)
	})
}

func (g *GameServer) onMortgage(c socketio.Conn, jsonStr string) {
	g.propertyAction(c, jsonStr, "Cannot mortgage this property", func(eng *engine.Engine, playerId string, propertyId int) bool {
		return eng.Mortgage(playerId, propertyId)
	})
}

func (g *GameServer) onUnmortgage(c socketio.Conn, jsonStr string) {
	g.propertyAction(c, jsonStr, "Cannot unmortgage this property", func(eng *engine.Engine, playerId string, propertyId int) bool {
		return eng.Unmortgage(playerId, propertyId)
	})
}

func (g *GameServer) propertyAction(c socketio.Conn, jsonStr string, errMsg string, op func(*engine.Engine, string, int) bool) {
	p := parsePayload(jsonStr)
	playerId := getString(p, "playerId")
	room := g.registry.RoomByPlayer(playerId)
	if room == nil {
		fail(c, "Not in a room")
		return
	}
	if !op(room.Engine, playerId, getInt(p, "propertyId")) {
		fail(c, errMsg)
		return
	}
	g.broadcastState(room.Id)
}

// Auctions.

func (g *GameServer) onAuctionBid(c socketio.Conn, jsonStr string) {
	p := parsePayload(jsonStr)
	playerId := getString(p, "playerId")
	room := g.registry.RoomByPlayer(playerId)
	if room == nil {
		fail(c, "Not in a room")
		return
	}
	if !room.Engine.PlaceBid(playerId, getInt(p, "amount")) {
		fail(c, "Bid rejected")
		return
	}
	g.Emit(room.Id, "auction:bid", map[string]interface{}{
		"playerId": playerId,
		"amount":   getInt(p, "amount"),
	})
	g.broadcastState(room.Id)
}

func (g *GameServer) onAuctionPass(c socketio.Conn, jsonStr string) {
	p := parsePayload(jsonStr)
	playerId := getString(p, "playerId")
	room := g.registry.RoomByPlayer(playerId)
	if room == nil {
		fail(c, "Not in a room")
		return
	}
	eng := room.Engine

	before := eng.Snapshot()
	if !eng.PassAuction(playerId) {
		fail(c, "Not in this auction")
		return
	}

	// Everyone passing ends the auction inside the engine.
	if eng.GamePhase() != models.PhaseAuction && before != nil && before.Auction != nil {
		g.timers.ClearAuctionTimer(room.Id)
		g.Emit(room.Id, "auction:ended", map[string]interface{}{
			"propertyId": before.Auction.PropertyId,
			"winnerId":   before.Auction.CurrentBidderId,
			"amount":     before.Auction.CurrentBid,
		})
		g.broadcastState(room.Id)
		if eng.GamePhase() == models.PhasePlaying {
			g.timers.StartTurnTimer(room.Id, eng.CurrentPlayerId(), eng.Settings().TurnTimeLimit)
		}
		return
	}

	g.Emit(room.Id, "auction:passed", map[string]interface{}{"playerId": playerId})
	g.broadcastState(room.Id)
}

// Trades.

func (g *GameServer) onTradePropose(c socketio.Conn, jsonStr string) {
	var offer models.TradeOffer
	if err := json.Unmarshal([]byte(jsonStr), &offer); err != nil {
		fail(c, "Malformed trade offer")
		return
	}

	room := g.registry.RoomByPlayer(offer.FromPlayerId)
	if room == nil {
		fail(c, "Not in a room")
		return
	}

	created := room.Engine.ProposeTrade(offer)
	if created == nil {
		fail(c, "Trade rejected")
		return
	}
	g.Emit(room.Id, "trade:proposed", map[string]interface{}{"trade": created})
	g.broadcastState(room.Id)
}

func (g *GameServer) onTradeAccept(c socketio.Conn, jsonStr string) {
	g.tradeAction(c, jsonStr, "trade:accepted", "Cannot accept this trade", func(eng *engine.Engine, tradeId string, playerId string) bool {
		return eng.AcceptTrade(tradeId, playerId)
	})
}

func (g *GameServer) onTradeReject(c socketio.Conn, jsonStr string) {
	g.tradeAction(c, jsonStr, "trade:rejected", "Cannot reject this trade", func(eng *engine.Engine, tradeId string, playerId string) bool {
		return eng.RejectTrade(tradeId, playerId)
	})
}

func (g *GameServer) onTradeCancel(c socketio.Conn, jsonStr string) {
	g.tradeAction(c, jsonStr, "trade:cancelled", "Cannot cancel this trade", func(eng *engine.Engine, tradeId string, playerId string) bool {
		return eng.CancelTrade(tradeId, playerId)
	})
}

func (g *GameServer) tradeAction(c socketio.Conn, jsonStr string, event string, errMsg string, op func(*engine.Engine, string, string) bool) {
	p := parsePayload(jsonStr)
	playerId := getString(p, "playerId")
	tradeId := getString(p, "tradeId")
	room := g.registry.RoomByPlayer(playerId)
	if room == nil {
		fail(c, "Not in a room")
		return
	}
	if !op(room.Engine, tradeId, playerId) {
		fail(c, errMsg)
		return
	}
	g.Emit(room.Id, event, map[string]interface{}{
		"tradeId":  tradeId,
		"playerId": playerId,
	})
	g.broadcastState(room.Id)
}

// Chat.

func (g *GameServer) onChatMessage(c socketio.Conn, jsonStr string) {
	p := parsePayload(jsonStr)
	playerId := getString(p, "playerId")
	room := g.registry.RoomByPlayer(playerId)
	if room == nil {
		return
	}
	player := room.Engine.GetPlayer(playerId)
	if player == nil {
		return
	}

	message := getString(p, "message")
	if message == "" {
		return
	}
	if runes := []rune(message); len(runes) > maxChatLength {
		message = string(runes[:maxChatLength])
	}

	g.Emit(room.Id, "chat:message", map[string]interface{}{
		"playerId":   playerId,
		"playerName": player.Name,
		"message":    message,
		"timestamp":  time.Now().Unix(),
	})
}

// Disconnects.

func (g *GameServer) onDisconnect(c socketio.Conn, reason string) {
	playerId, _ := c.Context().(string)
	if playerId == "" {
		c.LeaveAll()
		return
	}

	g.mu.Lock()
	if g.conns[playerId] == c {
		delete(g.conns, playerId)
	}
	g.mu.Unlock()

	g.registry.LeaveMatchmaking(playerId)

	g.dropPlayer(playerId)

	c.LeaveAll()
}

// dropPlayer handles a vanished connection. Lobby seats are freed outright;
// during active play the leave forfeits the game, which marks the player
// bankrupt while keeping the seat so the identity can reattach and spectate.
func (g *GameServer) dropPlayer(playerId string) {
	room := g.registry.RoomByPlayer(playerId)
	if room == nil {
		return
	}

	phase := room.Engine.GamePhase()
	if phase != models.PhaseLobby && phase != models.PhaseColorSelect {
		g.Emit(room.Id, "room:playerDisconnected", map[string]interface{}{"playerId": playerId})
	}
	g.leaveRoom(nil, playerId)
}

func mustJSON(payload interface{}) string {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "{}"
	}
	return string(raw)
}
