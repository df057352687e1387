package engine

import (
	"github.com/DedS3t/monopoly-engine/app/models"
)

const (
	auctionStartSeconds = 30
	auctionRebidSeconds = 15
)

// startAuction seeds a fresh auction with every non-bankrupt player in.
// Lock must be held.
func (e *Engine) startAuction(propertyId int) {
	property := e.getProperty(propertyId)
	if property == nil {
		return
	}

	participants := []string{}
	for _, p := range e.activePlayers() {
		participants = append(participants, p.Id)
	}

	e.state.Auction = &models.Auction{
		PropertyId:    propertyId,
		Participants:  participants,
		TimeRemaining: auctionStartSeconds,
		IsActive:      true,
	}
	e.state.GamePhase = models.PhaseAuction
}

// PlaceBid accepts any strictly-higher bid from a remaining participant who
// can pay, and winds the countdown back to the rebid window.
func (e *Engine) PlaceBid(playerId string, amount int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	auction := e.state.Auction
	if auction == nil || !auction.IsActive {
		return false
	}
	if !containsString(auction.Participants, playerId) {
		return false
	}
	player := e.getPlayer(playerId)
	if player == nil || player.Money < amount {
		return false
	}
	if amount <= auction.CurrentBid {
		return false
	}

	auction.CurrentBid = amount
	auction.CurrentBidderId = playerId
	auction.TimeRemaining = auctionRebidSeconds
	return true
}

// PassAuction drops the bidder out; the auction resolves once at most one
// participant remains.
func (e *Engine) PassAuction(playerId string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	auction := e.state.Auction
	if auction == nil || !auction.IsActive {
		return false
	}

	idx := -1
	for i, id := range auction.Participants {
		if id == playerId {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false
	}
	auction.Participants = append(auction.Participants[:idx], auction.Participants[idx+1:]...)

	if len(auction.Participants) <= 1 {
		e.endAuction()
	}
	return true
}

// EndAuction resolves the auction: a standing bid transfers the property to
// the high bidder, otherwise it stays with the bank. Play resumes either way.
func (e *Engine) EndAuction() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.endAuction()
}

func (e *Engine) endAuction() {
	auction := e.state.Auction
	if auction == nil {
		return
	}

	if auction.CurrentBidderId != "" && auction.CurrentBid > 0 {
		winner := e.getPlayer(auction.CurrentBidderId)
		property := e.getProperty(auction.PropertyId)
		if winner != nil && property != nil {
			e.updateMoney(winner.Id, -auction.CurrentBid)
			property.OwnerId = winner.Id
			winner.Properties = append(winner.Properties, property.Id)
		}
	}

	e.state.Auction = nil
	e.state.GamePhase = models.PhasePlaying
	e.state.TurnPhase = models.TurnEnd
}

// TickAuction counts one second off the active auction and reports whether
// it is still running afterwards. The timeout manager drives this at 1Hz.
func (e *Engine) TickAuction() (int, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	auction := e.state.Auction
	if auction == nil || !auction.IsActive {
		return 0, false
	}
	if auction.TimeRemaining <= 0 {
		e.endAuction()
		return 0, false
	}

	auction.TimeRemaining--
	if auction.TimeRemaining <= 0 {
		e.endAuction()
		return 0, false
	}
	return auction.TimeRemaining, true
}

func containsString(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
