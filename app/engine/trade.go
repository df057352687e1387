package engine

import (
	"time"

	uuid "github.com/satori/go.uuid"

	"github.com/DedS3t/monopoly-engine/app/models"
)

// ProposeTrade validates the whole offer against current holdings before
// recording it. Properties carrying houses cannot change hands.
func (e *Engine) ProposeTrade(offer models.TradeOffer) *models.TradeOffer {
	e.mu.Lock()
	defer e.mu.Unlock()

	from := e.getPlayer(offer.FromPlayerId)
	to := e.getPlayer(offer.ToPlayerId)
	if from == nil || to == nil || from.IsBankrupt || to.IsBankrupt {
		return nil
	}

	for _, propId := range offer.OfferProperties {
		prop := e.getProperty(propId)
		if prop == nil || prop.OwnerId != from.Id || prop.Houses > 0 {
			return nil
		}
	}
	for _, propId := range offer.RequestProperties {
		prop := e.getProperty(propId)
		if prop == nil || prop.OwnerId != to.Id || prop.Houses > 0 {
			return nil
		}
	}

	if offer.OfferMoney < 0 || offer.RequestMoney < 0 {
		return nil
	}
	if offer.OfferMoney > from.Money || offer.RequestMoney > to.Money {
		return nil
	}
	if offer.OfferJailCards < 0 || offer.OfferJailCards > from.JailFreeCards {
		return nil
	}
	if offer.RequestJailCards < 0 || offer.RequestJailCards > to.JailFreeCards {
		return nil
	}

	trade := offer
	trade.Id = uuid.NewV4().String()
	trade.Status = models.TradePending
	trade.CreatedAt = time.Now().Unix()

	e.state.Trades = append(e.state.Trades, &trade)

	cp := trade
	return &cp
}

// AcceptTrade re-checks money at acceptance time; balances may have moved
// since the proposal. A trade that no longer clears is cancelled, not
// silently executed. The swap itself is atomic under the engine lock.
func (e *Engine) AcceptTrade(tradeId string, playerId string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	trade := e.getTrade(tradeId)
	if trade == nil || trade.Status != models.TradePending {
		return false
	}
	if trade.ToPlayerId != playerId {
		return false
	}

	from := e.getPlayer(trade.FromPlayerId)
	to := e.getPlayer(trade.ToPlayerId)
	if from == nil || to == nil {
		return false
	}

	if trade.OfferMoney > from.Money || trade.RequestMoney > to.Money {
		trade.Status = models.TradeCancelled
		return false
	}

	e.updateMoney(from.Id, trade.RequestMoney-trade.OfferMoney)
	e.updateMoney(to.Id, trade.OfferMoney-trade.RequestMoney)

	for _, propId := range trade.OfferProperties {
		e.transferProperty(propId, from, to)
	}
	for _, propId := range trade.RequestProperties {
		e.transferProperty(propId, to, from)
	}

	from.JailFreeCards += trade.RequestJailCards - trade.OfferJailCards
	to.JailFreeCards += trade.OfferJailCards - trade.RequestJailCards

	trade.Status = models.TradeAccepted
	return true
}

// RejectTrade may only be called by the counterparty of a pending offer.
func (e *Engine) RejectTrade(tradeId string, playerId string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	trade := e.getTrade(tradeId)
	if trade == nil || trade.Status != models.TradePending || trade.ToPlayerId != playerId {
		return false
	}
	trade.Status = models.TradeRejected
	return true
}

// CancelTrade may only be called by the proposer of a pending offer.
func (e *Engine) CancelTrade(tradeId string, playerId string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	trade := e.getTrade(tradeId)
	if trade == nil || trade.Status != models.TradePending || trade.FromPlayerId != playerId {
		return false
	}
	trade.Status = models.TradeCancelled
	return true
}

// GetTrade returns a copy of the offer, or nil if unknown.
func (e *Engine) GetTrade(tradeId string) *models.TradeOffer {
	e.mu.Lock()
	defer e.mu.Unlock()
	trade := e.getTrade(tradeId)
	if trade == nil {
		return nil
	}
	cp := *trade
	return &cp
}

func (e *Engine) getTrade(tradeId string) *models.TradeOffer {
	for _, t := range e.state.Trades {
		if t.Id == tradeId {
			return t
		}
	}
	return nil
}

func (e *Engine) transferProperty(propId int, from *models.Player, to *models.Player) {
	prop := e.getProperty(propId)
	if prop == nil {
		return
	}
	prop.OwnerId = to.Id
	from.Properties = removeInt(from.Properties, propId)
	to.Properties = append(to.Properties, propId)
}

func removeInt(ids []int, id int) []int {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
