package rooms

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/DedS3t/monopoly-engine/app/engine"
	"github.com/DedS3t/monopoly-engine/app/models"
)

// Broadcaster pushes an event to every client in a room. The transport
// layer implements it; timers never talk to sockets directly.
type Broadcaster interface {
	Emit(roomId string, event string, payload interface{})
}

// TimeoutManager keeps a game moving: it runs one countdown per room while
// it is some player's turn and forces a best-effort legal action on expiry,
// and runs a 1Hz countdown per room while an auction is live. Forced
// actions go through the exact same engine entry points interactive callers
// use, so the auto path and the interactive path cannot diverge.
type TimeoutManager struct {
	mu            sync.Mutex
	registry      *Registry
	broadcast     Broadcaster
	turnTimers    map[string]*time.Timer
	auctionTimers map[string]*time.Timer
}

func NewTimeoutManager(registry *Registry, broadcast Broadcaster) *TimeoutManager {
	return &TimeoutManager{
		registry:      registry,
		broadcast:     broadcast,
		turnTimers:    make(map[string]*time.Timer),
		auctionTimers: make(map[string]*time.Timer),
	}
}

// StartTurnTimer announces the turn and arms the countdown. A zero limit
// means unlimited thinking time; the announcement still goes out.
func (m *TimeoutManager) StartTurnTimer(roomId string, playerId string, timeLimit int) {
	m.ClearTurnTimer(roomId)

	m.broadcast.Emit(roomId, "turn:started", map[string]interface{}{
		"playerId":  playerId,
		"timeLimit": timeLimit,
	})

	if timeLimit <= 0 {
		return
	}

	m.mu.Lock()
	m.turnTimers[roomId] = time.AfterFunc(time.Duration(timeLimit)*time.Second, func() {
		m.handleTurnTimeout(roomId, playerId)
	})
	m.mu.Unlock()
}

func (m *TimeoutManager) ClearTurnTimer(roomId string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.turnTimers[roomId]; ok {
		t.Stop()
		delete(m.turnTimers, roomId)
	}
}

// StopAll cancels every pending timer for the room. Called on room
// teardown so no callback fires into a dead or reused slot.
func (m *TimeoutManager) StopAll(roomId string) {
	m.ClearTurnTimer(roomId)
	m.ClearAuctionTimer(roomId)
}

// handleTurnTimeout forces the stalled player forward: roll, move, draw,
// decline-into-auction, end turn - whichever the phase calls for. Every
// step tolerates failure silently; there is no interactive caller to
// report to.
func (m *TimeoutManager) handleTurnTimeout(roomId string, playerId string) {
	eng := m.registry.Engine(roomId)
	if eng == nil {
		return
	}
	if eng.CurrentPlayerId() != playerId {
		return // turn already moved on
	}

	logrus.WithFields(logrus.Fields{
		"room":   roomId,
		"player": playerId,
	}).Info("turn timeout, forcing action")

	phase := eng.TurnPhase()

	if phase == models.TurnRoll || phase == models.TurnJailDecision {
		if roll := eng.RollDice(playerId); roll != nil {
			m.broadcast.Emit(roomId, "turn:diceRolled", map[string]interface{}{
				"playerId":  playerId,
				"dice":      roll.Dice,
				"isDoubles": roll.IsDoubles,
			})
			if move := eng.MovePlayer(playerId); move != nil {
				m.broadcast.Emit(roomId, "turn:playerMoved", map[string]interface{}{
					"playerId": playerId,
					"from":     move.From,
					"to":       move.To,
					"passedGo": move.PassedGo,
				})
			}
			if eng.TurnPhase() == models.TurnCard {
				if card := eng.DrawCard(playerId); card != nil {
					m.broadcast.Emit(roomId, "card:drawn", map[string]interface{}{
						"playerId": playerId,
						"card":     card,
					})
				}
			}
		}
	}

	if eng.TurnPhase() == models.TurnAction && eng.CurrentPlayerId() == playerId {
		if eng.DeclineProperty(playerId) {
			if snapshot := eng.Snapshot(); snapshot != nil && snapshot.Auction != nil {
				property, _ := m.auctionProperty(snapshot)
				m.broadcast.Emit(roomId, "auction:started", map[string]interface{}{
					"auction":  snapshot.Auction,
					"property": property,
				})
				m.ClearTurnTimer(roomId)
				m.StartAuctionTimer(roomId)
			}
		}
	}

	ended := false
	if eng.TurnPhase() == models.TurnEnd && eng.CurrentPlayerId() == playerId {
		if eng.EndTurn(playerId) {
			ended = true
			m.broadcast.Emit(roomId, "turn:ended", map[string]interface{}{
				"playerId":     playerId,
				"nextPlayerId": eng.CurrentPlayerId(),
			})
		}
	}

	m.broadcast.Emit(roomId, "turn:timeout", map[string]interface{}{"playerId": playerId})
	if snapshot := eng.Snapshot(); snapshot != nil {
		m.broadcast.Emit(roomId, "game:stateUpdate", map[string]interface{}{"state": snapshot})
	}

	switch eng.GamePhase() {
	case models.PhasePlaying:
		// A forced roll can bankrupt the mover, which advances the turn
		// inside the engine without an EndTurn call. Either way the
		// countdown belongs to whoever holds the turn now.
		if ended || eng.CurrentPlayerId() != playerId {
			m.StartTurnTimer(roomId, eng.CurrentPlayerId(), eng.Settings().TurnTimeLimit)
		}
	case models.PhaseEnded:
		if winner := eng.Winner(); winner != nil {
			m.broadcast.Emit(roomId, "game:ended", map[string]interface{}{"winner": winner})
		}
	}
}

// ResumeTurnTimer re-arms the countdown for whoever holds the turn now.
// Used after an operation that can advance the turn inside the engine,
// such as a roll or leave that bankrupts the current player.
func (m *TimeoutManager) ResumeTurnTimer(roomId string) {
	eng := m.registry.Engine(roomId)
	if eng == nil {
		return
	}
	m.resumeTurnTimer(roomId, eng)
}

// StartAuctionTimer arms the 1Hz auction countdown. The turn timer must
// already be cleared by the caller; the two never run together.
func (m *TimeoutManager) StartAuctionTimer(roomId string) {
	m.ClearAuctionTimer(roomId)
	m.scheduleAuctionTick(roomId)
}

func (m *TimeoutManager) ClearAuctionTimer(roomId string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.auctionTimers[roomId]; ok {
		t.Stop()
		delete(m.auctionTimers, roomId)
	}
}

func (m *TimeoutManager) scheduleAuctionTick(roomId string) {
	m.mu.Lock()
	m.auctionTimers[roomId] = time.AfterFunc(time.Second, func() {
		m.tickAuction(roomId)
	})
	m.mu.Unlock()
}

func (m *TimeoutManager) tickAuction(roomId string) {
	eng := m.registry.Engine(roomId)
	if eng == nil {
		return
	}

	// Capture the auction before ticking; the engine clears it on expiry.
	before := eng.Snapshot()
	if before == nil || before.Auction == nil {
		m.ClearAuctionTimer(roomId)
		m.resumeTurnTimer(roomId, eng)
		return
	}

	remaining, active := eng.TickAuction()
	if !active {
		m.ClearAuctionTimer(roomId)
		m.broadcast.Emit(roomId, "auction:ended", map[string]interface{}{
			"winnerId":   before.Auction.CurrentBidderId,
			"propertyId": before.Auction.PropertyId,
			"amount":     before.Auction.CurrentBid,
		})
		if snapshot := eng.Snapshot(); snapshot != nil {
			m.broadcast.Emit(roomId, "game:stateUpdate", map[string]interface{}{"state": snapshot})
		}
		m.resumeTurnTimer(roomId, eng)
		return
	}

	m.broadcast.Emit(roomId, "auction:tick", map[string]interface{}{
		"timeRemaining":   remaining,
		"currentBid":      before.Auction.CurrentBid,
		"currentBidderId": before.Auction.CurrentBidderId,
	})
	m.scheduleAuctionTick(roomId)
}

func (m *TimeoutManager) resumeTurnTimer(roomId string, eng *engine.Engine) {
	if eng.GamePhase() != models.PhasePlaying {
		return
	}
	m.StartTurnTimer(roomId, eng.CurrentPlayerId(), eng.Settings().TurnTimeLimit)
}

func (m *TimeoutManager) auctionProperty(snapshot *models.GameState) (*models.Property, bool) {
	if snapshot.Auction == nil {
		return nil, false
	}
	for _, p := range snapshot.Properties {
		if p.Id == snapshot.Auction.PropertyId {
			return p, true
		}
	}
	return nil, false
}
