// Package rooms multiplexes concurrent games: it maps room ids, room codes
// and player identities onto engine instances, runs the matchmaking queue
// and drives the turn/auction timers. The registry is constructed by the
// process entry point and passed to whatever handles inbound events; it is
// never a package-level singleton.
package rooms

import (
	"sync"
	"time"

	uuid "github.com/satori/go.uuid"

	"github.com/DedS3t/monopoly-engine/app/engine"
	"github.com/DedS3t/monopoly-engine/app/models"
)

// Room binds a code and host to one engine instance. The engine owns the
// game state; Room fields are guarded by the registry lock.
type Room struct {
	Id            string
	Code          string
	HostId        string
	Engine        *engine.Engine
	CreatedAt     time.Time
	IsPrivate     bool
	IsMatchmaking bool

	finished bool // result already persisted
}

// LeaveResult reports what a leave did to the room.
type LeaveResult struct {
	RoomId      string
	WasHost     bool
	NewHostId   string
	RoomDeleted bool
}

type Stats struct {
	TotalRooms       int `json:"totalRooms"`
	ActivePlayers    int `json:"activePlayers"`
	MatchmakingQueue int `json:"matchmakingQueue"`
}

// PublicRoom is the discovery view of a joinable lobby.
type PublicRoom struct {
	Code        string `json:"code"`
	PlayerCount int    `json:"playerCount"`
	MaxPlayers  int    `json:"maxPlayers"`
	HostName    string `json:"hostName"`
}

type Registry struct {
	mu          sync.RWMutex
	rooms       map[string]*Room
	roomsByCode map[string]string // code -> roomId
	playerRooms map[string]string // playerId -> roomId

	queue []queueEntry

	// Invoked after a room is torn down, outside the registry lock. Wired
	// to the timeout manager so stale timers can never fire into a deleted
	// or reused room slot. Guarded by mu; set through SetOnRoomDeleted.
	onRoomDeleted func(roomId string)
}

// SetOnRoomDeleted installs the teardown callback. The cleanup ticker and
// the socket server run on separate goroutines, so the hook goes through
// the registry lock like everything else.
func (r *Registry) SetOnRoomDeleted(fn func(roomId string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onRoomDeleted = fn
}

func NewRegistry() *Registry {
	return &Registry{
		rooms:       make(map[string]*Room),
		roomsByCode: make(map[string]string),
		playerRooms: make(map[string]string),
	}
}

// CreateRoom makes a fresh room with the caller as host and first player.
func (r *Registry) CreateRoom(hostId string, hostName string, isPrivate bool, settings *models.GameSettings) (*Room, *models.Player) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buildRoom(hostId, hostName, isPrivate, settings)
}

func (r *Registry) buildRoom(hostId string, hostName string, isPrivate bool, settings *models.GameSettings) (*Room, *models.Player) {
	roomId := uuid.NewV4().String()
	code := r.generateRoomCode()

	eng := engine.New(roomId, code, settings)
	player := eng.AddPlayer(hostId, hostName, true)
	if player == nil {
		return nil, nil
	}

	room := &Room{
		Id:        roomId,
		Code:      code,
		HostId:    hostId,
		Engine:    eng,
		CreatedAt: time.Now(),
		IsPrivate: isPrivate,
	}

	r.rooms[roomId] = room
	r.roomsByCode[code] = roomId
	r.playerRooms[hostId] = roomId

	return room, player
}

// JoinRoom seats the player, or reconnects them when the game already
// started and the identity is still known. The third result reports a
// reconnect.
func (r *Registry) JoinRoom(roomCode string, playerId string, playerName string) (*Room, *models.Player, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	roomId, ok := r.roomsByCode[normalizeCode(roomCode)]
	if !ok {
		return nil, nil, false
	}
	room := r.rooms[roomId]
	if room == nil {
		return nil, nil, false
	}

	phase := room.Engine.GamePhase()
	if phase == models.PhasePlaying || phase == models.PhaseAuction || phase == models.PhaseEnded {
		if existing := room.Engine.GetPlayer(playerId); existing != nil {
			room.Engine.SetPlayerConnected(playerId, true)
			r.playerRooms[playerId] = roomId
			existing.IsConnected = true
			return room, existing, true
		}
		return nil, nil, false
	}

	if room.Engine.PlayerCount() >= room.Engine.Settings().MaxPlayers {
		return nil, nil, false
	}

	// A player sits in at most one room at a time.
	if existingRoomId, ok := r.playerRooms[playerId]; ok && existingRoomId != roomId {
		r.leaveRoomLocked(playerId)
	}

	player := room.Engine.AddPlayer(playerId, playerName, false)
	if player == nil {
		return nil, nil, false
	}
	r.playerRooms[playerId] = roomId
	return room, player, false
}

// LeaveRoom detaches the player. Pre-game the seat is purged and the host
// role moves on; mid-game the engine marks them bankrupt instead. An
// emptied room is torn down.
func (r *Registry) LeaveRoom(playerId string) *LeaveResult {
	r.mu.Lock()
	result, deletedId := r.leaveRoomLocked(playerId)
	onDeleted := r.onRoomDeleted
	r.mu.Unlock()

	if deletedId != "" && onDeleted != nil {
		onDeleted(deletedId)
	}
	return result
}

func (r *Registry) leaveRoomLocked(playerId string) (*LeaveResult, string) {
	roomId, ok := r.playerRooms[playerId]
	if !ok {
		return nil, ""
	}
	room := r.rooms[roomId]
	if room == nil {
		delete(r.playerRooms, playerId)
		return nil, ""
	}

	wasHost := room.HostId == playerId
	room.Engine.RemovePlayer(playerId)
	delete(r.playerRooms, playerId)

	if room.Engine.PlayerCount() == 0 {
		r.deleteRoomLocked(roomId)
		return &LeaveResult{RoomId: roomId, WasHost: wasHost, RoomDeleted: true}, roomId
	}

	newHostId := ""
	if wasHost {
		if snapshot := room.Engine.Snapshot(); snapshot != nil && len(snapshot.Players) > 0 {
			newHostId = snapshot.Players[0].Id
			room.HostId = newHostId
			room.Engine.SetHost(newHostId)
		}
	}

	return &LeaveResult{RoomId: roomId, WasHost: wasHost, NewHostId: newHostId}, ""
}

func (r *Registry) deleteRoomLocked(roomId string) {
	room := r.rooms[roomId]
	if room != nil {
		delete(r.roomsByCode, room.Code)
	}
	delete(r.rooms, roomId)
}

// Lookups.

func (r *Registry) Room(roomId string) *Room {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rooms[roomId]
}

func (r *Registry) RoomByCode(code string) *Room {
	r.mu.RLock()
	defer r.mu.RUnlock()
	roomId, ok := r.roomsByCode[normalizeCode(code)]
	if !ok {
		return nil
	}
	return r.rooms[roomId]
}

func (r *Registry) RoomByPlayer(playerId string) *Room {
	r.mu.RLock()
	defer r.mu.RUnlock()
	roomId, ok := r.playerRooms[playerId]
	if !ok {
		return nil
	}
	return r.rooms[roomId]
}

func (r *Registry) Engine(roomId string) *engine.Engine {
	if room := r.Room(roomId); room != nil {
		return room.Engine
	}
	return nil
}

func (r *Registry) EngineByPlayer(playerId string) *engine.Engine {
	if room := r.RoomByPlayer(playerId); room != nil {
		return room.Engine
	}
	return nil
}

// PublicRooms lists non-private lobbies with a free seat.
func (r *Registry) PublicRooms() []PublicRoom {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []PublicRoom{}
	for _, room := range r.rooms {
		if room.IsPrivate || room.IsMatchmaking || room.Engine.GamePhase() != models.PhaseLobby {
			continue
		}
		snapshot := room.Engine.Snapshot()
		if snapshot == nil || len(snapshot.Players) >= snapshot.Settings.MaxPlayers {
			continue
		}
		hostName := "Unknown"
		for _, p := range snapshot.Players {
			if p.IsHost {
				hostName = p.Name
				break
			}
		}
		out = append(out, PublicRoom{
			Code:        room.Code,
			PlayerCount: len(snapshot.Players),
			MaxPlayers:  snapshot.Settings.MaxPlayers,
			HostName:    hostName,
		})
	}
	return out
}

// MarkFinished flags the room's result as persisted; true only on the first
// call so each game is recorded once.
func (r *Registry) MarkFinished(roomId string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	room := r.rooms[roomId]
	if room == nil || room.finished {
		return false
	}
	room.finished = true
	return true
}

// CleanupInactiveRooms tears down rooms older than maxAge that are not in
// an active game.
func (r *Registry) CleanupInactiveRooms(maxAge time.Duration) []string {
	r.mu.Lock()
	now := time.Now()
	var deleted []string
	for roomId, room := range r.rooms {
		if now.Sub(room.CreatedAt) <= maxAge {
			continue
		}
		phase := room.Engine.GamePhase()
		if phase == models.PhasePlaying || phase == models.PhaseAuction {
			continue
		}
		if snapshot := room.Engine.Snapshot(); snapshot != nil {
			for _, p := range snapshot.Players {
				delete(r.playerRooms, p.Id)
			}
		}
		r.deleteRoomLocked(roomId)
		deleted = append(deleted, roomId)
	}
	onDeleted := r.onRoomDeleted
	r.mu.Unlock()

	if onDeleted != nil {
		for _, roomId := range deleted {
			onDeleted(roomId)
		}
	}
	return deleted
}

func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	players := 0
	for _, room := range r.rooms {
		players += room.Engine.ConnectedCount()
	}
	return Stats{
		TotalRooms:       len(r.rooms),
		ActivePlayers:    players,
		MatchmakingQueue: len(r.queue),
	}
}
