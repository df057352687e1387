package engine

import (
	"math"

	"github.com/DedS3t/monopoly-engine/app/models"
)

// BuyProperty is legal only in phase action, for the unowned property under
// the mover.
func (e *Engine) BuyProperty(playerId string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.TurnPhase != models.TurnAction {
		return false
	}
	player := e.getPlayer(playerId)
	if player == nil {
		return false
	}
	property := e.getProperty(player.Position)
	if property == nil || property.OwnerId != "" {
		return false
	}
	if player.Money < property.Price {
		return false
	}

	e.updateMoney(playerId, -property.Price)
	property.OwnerId = playerId
	player.Properties = append(player.Properties, property.Id)

	e.state.TurnPhase = models.TurnEnd
	return true
}

// DeclineProperty refuses the purchase; with auctions enabled the property
// goes under the hammer instead of staying idle.
func (e *Engine) DeclineProperty(playerId string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.TurnPhase != models.TurnAction {
		return false
	}
	player := e.getPlayer(playerId)
	if player == nil {
		return false
	}
	property := e.getProperty(player.Position)
	if property == nil || property.OwnerId != "" {
		return false
	}

	if e.state.Settings.AuctionEnabled {
		e.startAuction(property.Id)
	} else {
		e.state.TurnPhase = models.TurnEnd
	}
	return true
}

// CalculateRent exposes the rent a landing on the property would cost now.
func (e *Engine) CalculateRent(propertyId int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	property := e.getProperty(propertyId)
	if property == nil {
		return 0
	}
	return e.calculateRent(property)
}

func (e *Engine) calculateRent(property *models.Property) int {
	if property.OwnerId == "" || property.IsMortgaged {
		return 0
	}
	if e.getPlayer(property.OwnerId) == nil {
		return 0
	}

	if property.Type == models.PropertyTypeRailroad {
		owned := e.countOwnedOfType(property.OwnerId, models.PropertyTypeRailroad)
		if owned >= 1 && owned <= len(property.Rent) {
			return property.Rent[owned-1]
		}
		return 25
	}

	if property.Type == models.PropertyTypeUtility {
		owned := e.countOwnedOfType(property.OwnerId, models.PropertyTypeUtility)
		multiplier := 4
		if owned >= 1 && owned <= len(property.Rent) {
			multiplier = property.Rent[owned-1]
		}
		return e.state.LastRoll * multiplier
	}

	if property.Houses > 0 {
		if property.Houses < len(property.Rent) {
			return property.Rent[property.Houses]
		}
		return property.Rent[0]
	}

	// Full unmortgaged color group doubles the base rent.
	if e.hasMonopoly(property.OwnerId, property.ColorGroup) {
		return property.Rent[0] * 2
	}
	return property.Rent[0]
}

func (e *Engine) countOwnedOfType(ownerId string, propertyType string) int {
	n := 0
	for _, p := range e.state.Properties {
		if p.Type == propertyType && p.OwnerId == ownerId && !p.IsMortgaged {
			n++
		}
	}
	return n
}

// HasMonopoly reports whether the player holds every street of the color
// group unmortgaged.
func (e *Engine) HasMonopoly(playerId string, colorGroup string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hasMonopoly(playerId, colorGroup)
}

func (e *Engine) hasMonopoly(playerId string, colorGroup string) bool {
	total, owned := 0, 0
	for _, p := range e.state.Properties {
		if p.ColorGroup != colorGroup || p.Type != models.PropertyTypeStreet {
			continue
		}
		total++
		if p.OwnerId == playerId && !p.IsMortgaged {
			owned++
		}
	}
	return total > 0 && total == owned
}

// payRent settles a player-to-player debt. A payer whose cash does not cover
// the rent surrenders everything to the creditor.
func (e *Engine) payRent(fromId string, toId string, amount int) {
	from := e.getPlayer(fromId)
	to := e.getPlayer(toId)
	if from == nil || to == nil {
		return
	}

	if from.Money < amount {
		e.bankruptToPlayer(fromId, toId)
		return
	}

	e.updateMoney(fromId, -amount)
	e.updateMoney(toId, amount)
}

// House building. Building requires a full monopoly, no mortgage anywhere in
// the group and, under the even-build rule, level construction.

func (e *Engine) CanBuildHouse(playerId string, propertyId int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.canBuildHouse(playerId, propertyId)
}

func (e *Engine) canBuildHouse(playerId string, propertyId int) bool {
	player := e.getPlayer(playerId)
	property := e.getProperty(propertyId)
	if player == nil || property == nil {
		return false
	}
	if property.OwnerId != playerId || property.Type != models.PropertyTypeStreet {
		return false
	}
	if property.IsMortgaged || property.Houses >= 5 {
		return false
	}
	if player.Money < property.HouseCost {
		return false
	}
	if !e.hasMonopoly(playerId, property.ColorGroup) {
		return false
	}

	if e.state.Settings.EvenBuildRule {
		minHouses := math.MaxInt32
		for _, p := range e.ownedInGroup(playerId, property.ColorGroup) {
			if p.Houses < minHouses {
				minHouses = p.Houses
			}
		}
		if property.Houses > minHouses {
			return false
		}
	}

	for _, p := range e.ownedInGroup(playerId, property.ColorGroup) {
		if p.IsMortgaged {
			return false
		}
	}
	return true
}

func (e *Engine) BuildHouse(playerId string, propertyId int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.canBuildHouse(playerId, propertyId) {
		return false
	}
	property := e.getProperty(propertyId)
	e.updateMoney(playerId, -property.HouseCost)
	property.Houses++
	return true
}

func (e *Engine) CanSellHouse(playerId string, propertyId int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.canSellHouse(playerId, propertyId)
}

func (e *Engine) canSellHouse(playerId string, propertyId int) bool {
	property := e.getProperty(propertyId)
	if property == nil || property.OwnerId != playerId || property.Houses == 0 {
		return false
	}

	// Selling down must stay level too.
	if e.state.Settings.EvenBuildRule {
		maxHouses := 0
		for _, p := range e.ownedInGroup(playerId, property.ColorGroup) {
			if p.Houses > maxHouses {
				maxHouses = p.Houses
			}
		}
		if property.Houses < maxHouses {
			return false
		}
	}
	return true
}

func (e *Engine) SellHouse(playerId string, propertyId int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.canSellHouse(playerId, propertyId) {
		return false
	}
	property := e.getProperty(propertyId)
	property.Houses--
	e.updateMoney(playerId, property.HouseCost/2)
	return true
}

func (e *Engine) ownedInGroup(playerId string, colorGroup string) []*models.Property {
	var group []*models.Property
	for _, p := range e.state.Properties {
		if p.ColorGroup == colorGroup && p.OwnerId == playerId {
			group = append(group, p)
		}
	}
	return group
}

// Mortgage. A property mortgages only while its whole color group is
// houseless; lifting the mortgage costs the value plus interest.

func (e *Engine) CanMortgage(playerId string, propertyId int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.canMortgage(playerId, propertyId)
}

func (e *Engine) canMortgage(playerId string, propertyId int) bool {
	property := e.getProperty(propertyId)
	if property == nil || property.OwnerId != playerId {
		return false
	}
	if property.IsMortgaged || property.Houses > 0 {
		return false
	}
	for _, p := range e.ownedInGroup(playerId, property.ColorGroup) {
		if p.Houses > 0 {
			return false
		}
	}
	return true
}

func (e *Engine) Mortgage(playerId string, propertyId int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.canMortgage(playerId, propertyId) {
		return false
	}
	property := e.getProperty(propertyId)
	property.IsMortgaged = true
	e.updateMoney(playerId, property.MortgageValue)
	return true
}

func (e *Engine) unmortgageCost(property *models.Property) int {
	rate := float64(e.state.Settings.MortgageInterest) / 100
	return int(math.Ceil(float64(property.MortgageValue) * (1 + rate)))
}

func (e *Engine) CanUnmortgage(playerId string, propertyId int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.canUnmortgage(playerId, propertyId)
}

func (e *Engine) canUnmortgage(playerId string, propertyId int) bool {
	player := e.getPlayer(playerId)
	property := e.getProperty(propertyId)
	if player == nil || property == nil {
		return false
	}
	if property.OwnerId != playerId || !property.IsMortgaged {
		return false
	}
	return player.Money >= e.unmortgageCost(property)
}

func (e *Engine) Unmortgage(playerId string, propertyId int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.canUnmortgage(playerId, propertyId) {
		return false
	}
	property := e.getProperty(propertyId)
	cost := e.unmortgageCost(property)
	property.IsMortgaged = false
	e.updateMoney(playerId, -cost)
	return true
}
