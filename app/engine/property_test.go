package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DedS3t/monopoly-engine/app/models"
)

func giveProperty(e *Engine, playerId string, propertyId int) *models.Property {
	property := e.getProperty(propertyId)
	property.OwnerId = playerId
	player := e.getPlayer(playerId)
	player.Properties = append(player.Properties, propertyId)
	return property
}

func TestBuyProperty(t *testing.T) {
	e := newStartedEngine(t, nil, "Alice", "Bob")
	mover := current(e)
	mover.Position = 1 // Mediterranean, $60
	e.state.TurnPhase = models.TurnAction

	require.True(t, e.BuyProperty(mover.Id))
	assert.Equal(t, 1440, mover.Money)
	assert.Equal(t, mover.Id, e.getProperty(1).OwnerId)
	assert.Contains(t, mover.Properties, 1)
	assert.Equal(t, models.TurnEnd, e.TurnPhase())

	// Already owned: a second purchase attempt fails.
	e.state.TurnPhase = models.TurnAction
	assert.False(t, e.BuyProperty(mover.Id))
}

func TestBuyPropertyInsufficientFunds(t *testing.T) {
	e := newStartedEngine(t, nil, "Alice", "Bob")
	mover := current(e)
	mover.Position = 39 // Boardwalk, $400
	mover.Money = 399
	e.state.TurnPhase = models.TurnAction

	assert.False(t, e.BuyProperty(mover.Id))
	assert.Equal(t, 399, mover.Money)
	assert.Empty(t, e.getProperty(39).OwnerId)
}

func TestDeclineStartsAuction(t *testing.T) {
	e := newStartedEngine(t, nil, "Alice", "Bob", "Carol")
	mover := current(e)
	mover.Position = 1
	e.state.TurnPhase = models.TurnAction

	require.True(t, e.DeclineProperty(mover.Id))
	require.NotNil(t, e.state.Auction)
	assert.Equal(t, models.PhaseAuction, e.GamePhase())
	assert.Equal(t, 1, e.state.Auction.PropertyId)
	assert.Len(t, e.state.Auction.Participants, 3)
	assert.Equal(t, auctionStartSeconds, e.state.Auction.TimeRemaining)
}

func TestDeclineWithoutAuctionJustEnds(t *testing.T) {
	settings := models.DefaultSettings()
	settings.AuctionEnabled = false
	e := newStartedEngine(t, &settings, "Alice", "Bob")
	mover := current(e)
	mover.Position = 1
	e.state.TurnPhase = models.TurnAction

	require.True(t, e.DeclineProperty(mover.Id))
	assert.Nil(t, e.state.Auction)
	assert.Equal(t, models.TurnEnd, e.TurnPhase())
}

func TestRailroadRentScalesWithHoldings(t *testing.T) {
	e := newStartedEngine(t, nil, "Alice", "Bob")
	owner := e.state.Players[0]

	expected := []int{25, 50, 100, 200}
	for i, pos := range []int{5, 15, 25, 35} {
		giveProperty(e, owner.Id, pos)
		assert.Equal(t, expected[i], e.CalculateRent(5))
	}
}

func TestUtilityRentMultipliesLastRoll(t *testing.T) {
	e := newStartedEngine(t, nil, "Alice", "Bob")
	owner := e.state.Players[0]
	e.state.LastRoll = 7

	giveProperty(e, owner.Id, 12)
	assert.Equal(t, 4*7, e.CalculateRent(12))

	giveProperty(e, owner.Id, 28)
	assert.Equal(t, 10*7, e.CalculateRent(12))
}

func TestMonopolyDoublesBaseRent(t *testing.T) {
	e := newStartedEngine(t, nil, "Alice", "Bob")
	owner := e.state.Players[0]

	giveProperty(e, owner.Id, 1)
	assert.Equal(t, 2, e.CalculateRent(1))

	giveProperty(e, owner.Id, 3)
	assert.Equal(t, 4, e.CalculateRent(1))

	// Mortgaging a group member breaks the monopoly rate.
	e.getProperty(3).IsMortgaged = true
	assert.Equal(t, 2, e.CalculateRent(1))
}

func TestMortgagedPropertyChargesNothing(t *testing.T) {
	e := newStartedEngine(t, nil, "Alice", "Bob")
	owner := e.state.Players[0]
	property := giveProperty(e, owner.Id, 1)
	property.IsMortgaged = true

	assert.Equal(t, 0, e.CalculateRent(1))
}

func TestHouseRentUsesTable(t *testing.T) {
	e := newStartedEngine(t, nil, "Alice", "Bob")
	owner := e.state.Players[0]
	giveProperty(e, owner.Id, 1)
	giveProperty(e, owner.Id, 3)

	e.getProperty(1).Houses = 2
	assert.Equal(t, 30, e.CalculateRent(1)) // Mediterranean rent[2]

	e.getProperty(1).Houses = 5
	assert.Equal(t, 250, e.CalculateRent(1)) // hotel
}

func TestEvenBuildRule(t *testing.T) {
	e := newStartedEngine(t, nil, "Alice", "Bob")
	owner := e.state.Players[0]
	giveProperty(e, owner.Id, 1)
	giveProperty(e, owner.Id, 3)

	require.True(t, e.BuildHouse(owner.Id, 1))
	// Second house on the same street must wait for the group to level up.
	assert.False(t, e.BuildHouse(owner.Id, 1))
	require.True(t, e.BuildHouse(owner.Id, 3))
	assert.True(t, e.BuildHouse(owner.Id, 1))

	assert.Equal(t, 1500-3*50, owner.Money)
}

func TestBuildRequiresMonopoly(t *testing.T) {
	e := newStartedEngine(t, nil, "Alice", "Bob")
	owner := e.state.Players[0]
	giveProperty(e, owner.Id, 1)

	assert.False(t, e.BuildHouse(owner.Id, 1))
}

func TestBuildBlockedByMortgageInGroup(t *testing.T) {
	e := newStartedEngine(t, nil, "Alice", "Bob")
	owner := e.state.Players[0]
	giveProperty(e, owner.Id, 1)
	prop3 := giveProperty(e, owner.Id, 3)
	prop3.IsMortgaged = true

	assert.False(t, e.BuildHouse(owner.Id, 1))
}

func TestSellHouseRefundsHalfAndStaysLevel(t *testing.T) {
	e := newStartedEngine(t, nil, "Alice", "Bob")
	owner := e.state.Players[0]
	giveProperty(e, owner.Id, 1)
	giveProperty(e, owner.Id, 3)
	e.getProperty(1).Houses = 2
	e.getProperty(3).Houses = 2
	owner.Money = 1000

	require.True(t, e.SellHouse(owner.Id, 1))
	assert.Equal(t, 1025, owner.Money)
	assert.Equal(t, 1, e.getProperty(1).Houses)

	// Selling the lower street again would break even-build.
	assert.False(t, e.SellHouse(owner.Id, 1))
	assert.True(t, e.SellHouse(owner.Id, 3))
}

func TestMortgageRequiresHouselessGroup(t *testing.T) {
	e := newStartedEngine(t, nil, "Alice", "Bob")
	owner := e.state.Players[0]
	giveProperty(e, owner.Id, 1)
	giveProperty(e, owner.Id, 3)
	e.getProperty(3).Houses = 1

	assert.False(t, e.Mortgage(owner.Id, 1))

	e.getProperty(3).Houses = 0
	require.True(t, e.Mortgage(owner.Id, 1))
	assert.True(t, e.getProperty(1).IsMortgaged)
	assert.Equal(t, 1530, owner.Money)

	// Double mortgage is refused.
	assert.False(t, e.Mortgage(owner.Id, 1))
}

func TestUnmortgageCostsValuePlusInterest(t *testing.T) {
	e := newStartedEngine(t, nil, "Alice", "Bob")
	owner := e.state.Players[0]
	property := giveProperty(e, owner.Id, 1)
	property.IsMortgaged = true
	owner.Money = 100

	// Mediterranean mortgage value 30, 10% interest: 33 to lift.
	require.True(t, e.Unmortgage(owner.Id, 1))
	assert.False(t, property.IsMortgaged)
	assert.Equal(t, 67, owner.Money)
}

func TestUnmortgageRefusedWhenBroke(t *testing.T) {
	e := newStartedEngine(t, nil, "Alice", "Bob")
	owner := e.state.Players[0]
	property := giveProperty(e, owner.Id, 1)
	property.IsMortgaged = true
	owner.Money = 32

	assert.False(t, e.Unmortgage(owner.Id, 1))
	assert.True(t, property.IsMortgaged)
}
