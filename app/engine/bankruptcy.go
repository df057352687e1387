package engine

import (
	"github.com/DedS3t/monopoly-engine/app/models"
)

// updateMoney applies a balance change and, if the balance went negative,
// decides solvency. A shortfall the player could still cover by mortgaging
// and selling houses is tolerated (the balance stays negative until they
// liquidate); an uncoverable one bankrupts them on the spot. Lock must be
// held.
func (e *Engine) updateMoney(playerId string, amount int) {
	player := e.getPlayer(playerId)
	if player == nil {
		return
	}

	player.Money += amount

	if player.Money < 0 && !e.canCoverDebt(player, -player.Money) {
		e.bankruptPlayer(playerId)
	}
}

// canCoverDebt sums cash, mortgage value of unmortgaged holdings and half
// the house cost of every built house.
func (e *Engine) canCoverDebt(player *models.Player, debt int) bool {
	total := player.Money
	for _, p := range e.state.Properties {
		if p.OwnerId != player.Id {
			continue
		}
		if !p.IsMortgaged {
			total += p.MortgageValue
		}
		total += p.Houses * p.HouseCost / 2
	}
	return total >= debt
}

// bankruptPlayer liquidates the player to the bank: properties come back
// unowned, houseless and unmortgaged. If they were the mover, the turn is
// force-ended so the current-player invariant holds.
func (e *Engine) bankruptPlayer(playerId string) {
	player := e.getPlayer(playerId)
	if player == nil || player.IsBankrupt {
		return
	}

	player.IsBankrupt = true
	player.Money = 0

	for _, p := range e.state.Properties {
		if p.OwnerId == playerId {
			p.OwnerId = ""
			p.Houses = 0
			p.IsMortgaged = false
		}
	}
	player.Properties = []int{}
	player.JailFreeCards = 0

	e.checkForWinner()
	e.forceEndTurnIfCurrent(playerId)
}

// bankruptToPlayer settles an unpayable player-to-player debt: the creditor
// receives the debtor's cash, jail cards and properties whole (houses and
// mortgage flags ride along), bypassing the bank.
func (e *Engine) bankruptToPlayer(fromId string, toId string) {
	from := e.getPlayer(fromId)
	to := e.getPlayer(toId)
	if from == nil || to == nil || from.IsBankrupt {
		return
	}

	to.Money += from.Money
	to.JailFreeCards += from.JailFreeCards

	for _, p := range e.state.Properties {
		if p.OwnerId == fromId {
			p.OwnerId = toId
			to.Properties = append(to.Properties, p.Id)
		}
	}

	from.Money = 0
	from.Properties = []int{}
	from.JailFreeCards = 0
	from.IsBankrupt = true

	e.checkForWinner()
	e.forceEndTurnIfCurrent(fromId)
}

func (e *Engine) forceEndTurnIfCurrent(playerId string) {
	if e.state.CurrentPlayerId != playerId {
		return
	}
	e.state.TurnPhase = models.TurnEnd
	e.endTurnLocked(playerId)
}

// checkForWinner ends the game once exactly one non-bankrupt player remains.
// Idempotent: a recorded winner is never replaced.
func (e *Engine) checkForWinner() {
	if e.state.Winner != nil {
		return
	}
	active := e.activePlayers()
	if len(active) == 1 {
		e.state.Winner = active[0]
		e.state.GamePhase = models.PhaseEnded
	}
}
