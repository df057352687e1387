package engine

import (
	"time"

	"github.com/DedS3t/monopoly-engine/app/models"
	"github.com/DedS3t/monopoly-engine/platform/board"
)

type RollResult struct {
	Dice      [2]int `json:"dice"`
	IsDoubles bool   `json:"isDoubles"`
}

type MoveResult struct {
	From     int  `json:"from"`
	To       int  `json:"to"`
	PassedGo bool `json:"passedGo"`
}

func (e *Engine) rollDie() int {
	return e.rng.Intn(6) + 1
}

// setPhaseFor sets the turn phase on behalf of player, unless a bankruptcy
// cascade already advanced the turn away from them mid-operation.
func (e *Engine) setPhaseFor(player *models.Player, phase string) {
	if player.IsBankrupt || e.state.CurrentPlayerId != player.Id {
		return
	}
	e.state.TurnPhase = phase
}

// RollDice is legal for the current player in phase roll or jail-decision.
// Three consecutive doubles send the mover straight to jail with no movement.
func (e *Engine) RollDice(playerId string) *RollResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.CurrentPlayerId != playerId {
		return nil
	}
	if e.state.TurnPhase != models.TurnRoll && e.state.TurnPhase != models.TurnJailDecision {
		return nil
	}
	player := e.getPlayer(playerId)
	if player == nil {
		return nil
	}

	if player.InJail && e.state.TurnPhase == models.TurnJailDecision {
		return e.rollForJailRelease(player)
	}

	die1, die2 := e.rollDie(), e.rollDie()
	isDoubles := die1 == die2

	e.state.Dice = [2]int{die1, die2}
	e.state.LastRoll = die1 + die2

	if isDoubles {
		e.state.DoublesCount++
		if e.state.DoublesCount >= 3 {
			e.sendToJail(player)
			e.state.TurnPhase = models.TurnEnd
			return &RollResult{Dice: [2]int{die1, die2}, IsDoubles: true}
		}
	} else {
		e.state.DoublesCount = 0
	}

	e.state.TurnPhase = models.TurnMoving
	return &RollResult{Dice: [2]int{die1, die2}, IsDoubles: isDoubles}
}

// Doubles release without counting toward the extra-turn counter. After the
// third failed attempt the fine is paid automatically when the player can
// afford it; an insolvent player stays jailed with no further auto-resolution.
func (e *Engine) rollForJailRelease(player *models.Player) *RollResult {
	die1, die2 := e.rollDie(), e.rollDie()
	isDoubles := die1 == die2

	e.state.Dice = [2]int{die1, die2}
	e.state.LastRoll = die1 + die2

	if isDoubles {
		player.InJail = false
		player.JailTurns = 0
		e.state.DoublesCount = 0
		e.state.TurnPhase = models.TurnMoving
	} else {
		player.JailTurns++
		if player.JailTurns >= 3 {
			if player.Money >= board.JailFine {
				e.updateMoney(player.Id, -board.JailFine)
				player.InJail = false
				player.JailTurns = 0
				e.state.TurnPhase = models.TurnMoving
			} else {
				e.state.TurnPhase = models.TurnEnd
			}
		} else {
			e.state.TurnPhase = models.TurnEnd
		}
	}

	return &RollResult{Dice: [2]int{die1, die2}, IsDoubles: isDoubles}
}

func (e *Engine) sendToJail(player *models.Player) {
	player.Position = board.PosJail
	player.InJail = true
	player.JailTurns = 0
	e.state.DoublesCount = 0
}

// PayJailFine is a voluntary exit at the start of a jailed turn.
func (e *Engine) PayJailFine(playerId string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.CurrentPlayerId != playerId || e.state.TurnPhase != models.TurnJailDecision {
		return false
	}
	player := e.getPlayer(playerId)
	if player == nil || !player.InJail || player.Money < board.JailFine {
		return false
	}

	e.updateMoney(playerId, -board.JailFine)
	player.InJail = false
	player.JailTurns = 0
	e.state.TurnPhase = models.TurnRoll
	return true
}

func (e *Engine) UseJailCard(playerId string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.CurrentPlayerId != playerId || e.state.TurnPhase != models.TurnJailDecision {
		return false
	}
	player := e.getPlayer(playerId)
	if player == nil || !player.InJail || player.JailFreeCards < 1 {
		return false
	}

	player.JailFreeCards--
	player.InJail = false
	player.JailTurns = 0
	e.state.TurnPhase = models.TurnRoll
	return true
}

// MovePlayer advances the mover by the last roll, crediting GO on wrap-around,
// then resolves the landing tile.
func (e *Engine) MovePlayer(playerId string) *MoveResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.TurnPhase != models.TurnMoving {
		return nil
	}
	player := e.getPlayer(playerId)
	if player == nil {
		return nil
	}

	from := player.Position
	to := (from + e.state.LastRoll) % board.BoardSize
	passedGo := to < from

	if passedGo {
		bonus := board.GoBonus
		if e.state.Settings.DoubleOnGo && to == board.PosGo {
			bonus = 2 * board.GoBonus
		}
		e.updateMoney(playerId, bonus)
	}

	player.Position = to
	e.handleLanding(player)

	return &MoveResult{From: from, To: to, PassedGo: passedGo}
}

func (e *Engine) handleLanding(player *models.Player) {
	position := player.Position

	// A moveNearest card boosts exactly the rent charged by this landing.
	boosted := e.nearestRentBoost
	e.nearestRentBoost = false

	if position == board.PosGoToJail {
		e.sendToJail(player)
		e.state.TurnPhase = models.TurnEnd
		return
	}

	if position == board.PosIncomeTax {
		e.updateMoney(player.Id, -200)
		if e.state.Settings.FreeParking {
			e.state.FreeParkingPot += 200
		}
		e.setPhaseFor(player, models.TurnEnd)
		return
	}

	if position == board.PosLuxuryTax {
		e.updateMoney(player.Id, -100)
		if e.state.Settings.FreeParking {
			e.state.FreeParkingPot += 100
		}
		e.setPhaseFor(player, models.TurnEnd)
		return
	}

	if position == board.PosFreeParking {
		if e.state.Settings.FreeParking && e.state.FreeParkingPot > 0 {
			e.updateMoney(player.Id, e.state.FreeParkingPot)
			e.state.FreeParkingPot = 0
		}
		e.state.TurnPhase = models.TurnEnd
		return
	}

	if board.IsChance(position) || board.IsCommunity(position) {
		e.state.TurnPhase = models.TurnCard
		return
	}

	property := e.getProperty(position)
	if property != nil && property.Type != models.PropertyTypeSpecial {
		if property.OwnerId == "" {
			e.state.TurnPhase = models.TurnAction
		} else if property.OwnerId != player.Id && !property.IsMortgaged {
			rent := e.calculateRent(property)
			if boosted {
				if property.Type == models.PropertyTypeUtility {
					rent = 10 * e.state.LastRoll
				} else if property.Type == models.PropertyTypeRailroad {
					rent *= 2
				}
			}
			e.payRent(player.Id, property.OwnerId, rent)
			e.setPhaseFor(player, models.TurnEnd)
		} else {
			e.state.TurnPhase = models.TurnEnd
		}
		return
	}

	// GO, Just Visiting and friends.
	e.state.TurnPhase = models.TurnEnd
}

// DrawCard pops the next card from the deck matching the tile under the
// mover. The cursor wraps: decks never deplete and cards repeat after 16
// draws.
func (e *Engine) DrawCard(playerId string) *models.Card {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.TurnPhase != models.TurnCard {
		return nil
	}
	player := e.getPlayer(playerId)
	if player == nil {
		return nil
	}

	var cardId int
	if board.IsChance(player.Position) {
		cardId = e.state.ChanceCards[e.state.ChanceIndex]
		e.state.ChanceIndex = (e.state.ChanceIndex + 1) % len(e.state.ChanceCards)
	} else if board.IsCommunity(player.Position) {
		cardId = e.state.CommunityCards[e.state.CommunityIndex]
		e.state.CommunityIndex = (e.state.CommunityIndex + 1) % len(e.state.CommunityCards)
	} else {
		return nil
	}

	card, err := board.GetCard(cardId)
	if err != nil {
		return nil
	}

	e.executeCard(player, card)
	return &card
}

func (e *Engine) executeCard(player *models.Player, card models.Card) {
	switch card.Action {
	case models.CardCollect:
		e.updateMoney(player.Id, card.Value)

	case models.CardPay:
		e.updateMoney(player.Id, -card.Value)
		if e.state.Settings.FreeParking {
			e.state.FreeParkingPot += card.Value
		}

	case models.CardPayAll:
		var others []*models.Player
		for _, p := range e.activePlayers() {
			if p.Id != player.Id {
				others = append(others, p)
			}
		}
		e.updateMoney(player.Id, -card.Value*len(others))
		for _, p := range others {
			e.updateMoney(p.Id, card.Value)
		}

	case models.CardCollectAll, models.CardBirthday:
		var payers []*models.Player
		for _, p := range e.activePlayers() {
			if p.Id != player.Id {
				payers = append(payers, p)
			}
		}
		for _, p := range payers {
			e.updateMoney(p.Id, -card.Value)
		}
		e.updateMoney(player.Id, card.Value*len(payers))

	case models.CardMove:
		if card.Position < player.Position && card.Position != board.PosJail {
			e.updateMoney(player.Id, board.GoBonus)
		}
		player.Position = card.Position
		e.handleLanding(player)
		return // landing decides the phase

	case models.CardMoveBack:
		player.Position = (player.Position - card.Value + board.BoardSize) % board.BoardSize
		e.handleLanding(player)
		return

	case models.CardMoveNearest:
		positions := board.UtilityPositions
		if card.Value == 2 {
			positions = board.RailroadPositions
		}
		nearest := positions[0]
		for _, pos := range positions {
			if pos > player.Position {
				nearest = pos
				break
			}
		}
		if nearest < player.Position {
			e.updateMoney(player.Id, board.GoBonus)
		}
		player.Position = nearest
		e.nearestRentBoost = true
		e.handleLanding(player)
		return

	case models.CardJail:
		e.sendToJail(player)

	case models.CardJailFree:
		player.JailFreeCards++

	case models.CardRepairs:
		cost := 0
		for _, p := range e.state.Properties {
			if p.OwnerId != player.Id {
				continue
			}
			if p.Houses == 5 {
				cost += card.PerHotel
			} else {
				cost += p.Houses * card.PerHouse
			}
		}
		e.updateMoney(player.Id, -cost)
		if e.state.Settings.FreeParking {
			e.state.FreeParkingPot += cost
		}
	}

	e.setPhaseFor(player, models.TurnEnd)
}

// EndTurn hands the turn to the next non-bankrupt player, or back to the
// mover when they rolled doubles and stayed out of jail.
func (e *Engine) EndTurn(playerId string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.CurrentPlayerId != playerId || e.state.TurnPhase != models.TurnEnd {
		return false
	}
	return e.endTurnLocked(playerId)
}

func (e *Engine) endTurnLocked(playerId string) bool {
	player := e.getPlayer(playerId)
	if player == nil {
		return false
	}

	now := time.Now().Unix()

	if e.state.DoublesCount > 0 && !player.InJail && !player.IsBankrupt {
		e.state.TurnPhase = models.TurnRoll
		e.state.TurnStartTime = now
		return true
	}

	active := e.activePlayers()
	if len(active) == 0 {
		return false
	}

	currentIdx := -1
	for i, p := range active {
		if p.Id == playerId {
			currentIdx = i
			break
		}
	}
	next := active[(currentIdx+1)%len(active)]

	e.state.CurrentPlayerId = next.Id
	e.state.DoublesCount = 0
	e.state.TurnStartTime = now

	if next.InJail {
		e.state.TurnPhase = models.TurnJailDecision
	} else {
		e.state.TurnPhase = models.TurnRoll
	}

	e.checkForWinner()
	return true
}
