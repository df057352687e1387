// Package engine owns the mutable state of a single game and resolves every
// player action into a deterministic state transition. All exported
// operations validate first and mutate second; expected misuse returns
// false/nil instead of an error. One mutex serializes all operations so each
// call is an atomic transaction against the room's state.
package engine

import (
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"github.com/DedS3t/monopoly-engine/app/models"
	"github.com/DedS3t/monopoly-engine/platform/board"
)

type Engine struct {
	mu    sync.Mutex
	state *models.GameState
	rng   *rand.Rand

	// Armed by the moveNearest card and consumed by the next rent charge.
	nearestRentBoost bool
}

func New(roomId string, roomCode string, settings *models.GameSettings) *Engine {
	return NewWithSeed(roomId, roomCode, settings, time.Now().UnixNano())
}

// NewWithSeed pins the dice and deck shuffles, which makes draws reproducible
// in tests.
func NewWithSeed(roomId string, roomCode string, settings *models.GameSettings, seed int64) *Engine {
	e := &Engine{rng: rand.New(rand.NewSource(seed))}

	s := models.DefaultSettings()
	if settings != nil {
		s = *settings
	}

	e.state = &models.GameState{
		RoomId:          roomId,
		RoomCode:        roomCode,
		Players:         []*models.Player{},
		Properties:      board.CloneProperties(),
		CurrentPlayerId: "",
		GamePhase:       models.PhaseLobby,
		TurnPhase:       models.TurnWaiting,
		Settings:        s,
		Dice:            [2]int{1, 1},
		ChanceCards:     e.shuffleInts(board.ChanceCardIds()),
		CommunityCards:  e.shuffleInts(board.CommunityCardIds()),
		Trades:          []*models.TradeOffer{},
	}
	return e
}

func (e *Engine) shuffleInts(ids []int) []int {
	shuffled := append([]int(nil), ids...)
	e.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}

// Snapshot returns a deep copy of the game state for broadcasting. Callers
// must re-fetch after every successful operation; the copy never aliases
// engine-owned records.
func (e *Engine) Snapshot() *models.GameState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() *models.GameState {
	raw, err := json.Marshal(e.state)
	if err != nil {
		return nil
	}
	snapshot := new(models.GameState)
	if err := json.Unmarshal(raw, snapshot); err != nil {
		return nil
	}
	return snapshot
}

// Read-only accessors used by the room and timeout layers.

func (e *Engine) GamePhase() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.GamePhase
}

func (e *Engine) TurnPhase() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.TurnPhase
}

func (e *Engine) CurrentPlayerId() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.CurrentPlayerId
}

func (e *Engine) PlayerCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.state.Players)
}

func (e *Engine) ConnectedCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, p := range e.state.Players {
		if p.IsConnected {
			n++
		}
	}
	return n
}

func (e *Engine) Settings() models.GameSettings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Settings
}

// GetPlayer returns a copy of the player record, or nil if unknown.
func (e *Engine) GetPlayer(playerId string) *models.Player {
	e.mu.Lock()
	defer e.mu.Unlock()
	p := e.getPlayer(playerId)
	if p == nil {
		return nil
	}
	cp := *p
	cp.Properties = append([]int(nil), p.Properties...)
	return &cp
}

// Winner returns a copy of the recorded winner, or nil while the game runs.
func (e *Engine) Winner() *models.Player {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Winner == nil {
		return nil
	}
	cp := *e.state.Winner
	cp.Properties = append([]int(nil), e.state.Winner.Properties...)
	return &cp
}

// Internal lookups. Lock must be held.

func (e *Engine) getPlayer(playerId string) *models.Player {
	for _, p := range e.state.Players {
		if p.Id == playerId {
			return p
		}
	}
	return nil
}

func (e *Engine) getProperty(propertyId int) *models.Property {
	for _, p := range e.state.Properties {
		if p.Id == propertyId {
			return p
		}
	}
	return nil
}

func (e *Engine) activePlayers() []*models.Player {
	var active []*models.Player
	for _, p := range e.state.Players {
		if !p.IsBankrupt {
			active = append(active, p)
		}
	}
	return active
}

// Player lifecycle.

func (e *Engine) AddPlayer(id string, name string, isHost bool) *models.Player {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.state.Players) >= e.state.Settings.MaxPlayers {
		return nil
	}
	if e.state.GamePhase != models.PhaseLobby && e.state.GamePhase != models.PhaseColorSelect {
		return nil
	}

	player := &models.Player{
		Id:          id,
		Name:        name,
		Color:       "#666666",
		Money:       e.state.Settings.StartingMoney,
		Properties:  []int{},
		IsConnected: true,
		IsHost:      isHost,
	}
	e.state.Players = append(e.state.Players, player)

	cp := *player
	cp.Properties = []int{}
	return &cp
}

// RemovePlayer purges the player pre-game; mid-game it marks them bankrupt
// instead so turn order stays intact.
func (e *Engine) RemovePlayer(playerId string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := -1
	for i, p := range e.state.Players {
		if p.Id == playerId {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false
	}

	if e.state.GamePhase == models.PhaseLobby || e.state.GamePhase == models.PhaseColorSelect {
		e.state.Players = append(e.state.Players[:idx], e.state.Players[idx+1:]...)
		return true
	}

	player := e.state.Players[idx]
	e.bankruptPlayer(playerId)
	player.IsConnected = false
	return true
}

// SetHost moves the host flag to the named player.
func (e *Engine) SetHost(playerId string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, p := range e.state.Players {
		p.IsHost = p.Id == playerId
	}
}

func (e *Engine) SetPlayerConnected(playerId string, connected bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if p := e.getPlayer(playerId); p != nil {
		p.IsConnected = connected
	}
}

func (e *Engine) SelectColor(playerId string, colorId string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, p := range e.state.Players {
		if p.Id != playerId && p.ColorId == colorId {
			return false
		}
	}

	player := e.getPlayer(playerId)
	if player == nil {
		return false
	}
	color, ok := models.GetColor(colorId)
	if !ok {
		return false
	}

	player.ColorId = colorId
	player.Color = color.Hex
	return true
}

func (e *Engine) SetPlayerReady(playerId string, ready bool) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	player := e.getPlayer(playerId)
	if player == nil || player.ColorId == "" {
		return false
	}
	player.IsReady = ready
	return true
}

func (e *Engine) CanStartGame() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.canStartGame()
}

func (e *Engine) canStartGame() bool {
	ready := 0
	for _, p := range e.state.Players {
		if p.ColorId == "" {
			continue
		}
		if !p.IsReady {
			return false
		}
		ready++
	}
	return ready >= 2
}

// StartGame shuffles the seated players into a random turn order and hands
// the first turn out.
func (e *Engine) StartGame() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.canStartGame() {
		return false
	}

	var seated []*models.Player
	for _, p := range e.state.Players {
		if p.ColorId != "" {
			seated = append(seated, p)
		}
	}
	e.rng.Shuffle(len(seated), func(i, j int) {
		seated[i], seated[j] = seated[j], seated[i]
	})
	e.state.Players = seated

	now := time.Now().Unix()
	e.state.CurrentPlayerId = seated[0].Id
	e.state.GamePhase = models.PhasePlaying
	e.state.TurnPhase = models.TurnRoll
	e.state.GameStartTime = now
	e.state.TurnStartTime = now
	return true
}

// StartGameImmediately skips the ready checks, used for solo quick-start.
func (e *Engine) StartGameImmediately(playerId string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	player := e.getPlayer(playerId)
	if player == nil || player.ColorId == "" {
		return false
	}

	now := time.Now().Unix()
	e.state.CurrentPlayerId = playerId
	e.state.GamePhase = models.PhasePlaying
	e.state.TurnPhase = models.TurnRoll
	e.state.GameStartTime = now
	e.state.TurnStartTime = now
	return true
}
