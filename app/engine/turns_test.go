package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DedS3t/monopoly-engine/app/models"
	"github.com/DedS3t/monopoly-engine/platform/board"
)

func TestRollDiceBoundsAndPhase(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		e := newStartedEngine(t, nil, "Alice", "Bob")
		e.rng = newSeededRand(seed)

		roll := e.RollDice(e.CurrentPlayerId())
		require.NotNil(t, roll)
		for _, die := range roll.Dice {
			assert.GreaterOrEqual(t, die, 1)
			assert.LessOrEqual(t, die, 6)
		}
		assert.Equal(t, roll.Dice[0] == roll.Dice[1], roll.IsDoubles)
	}
}

func TestRollDiceRejectsOutOfTurn(t *testing.T) {
	e := newStartedEngine(t, nil, "Alice", "Bob")

	other := "p1"
	if e.CurrentPlayerId() == "p1" {
		other = "p2"
	}
	assert.Nil(t, e.RollDice(other))

	// Wrong phase for the right player.
	e.state.TurnPhase = models.TurnEnd
	assert.Nil(t, e.RollDice(e.CurrentPlayerId()))
}

func TestThirdConsecutiveDoublesJails(t *testing.T) {
	e := newStartedEngine(t, nil, "Alice", "Bob")
	e.state.DoublesCount = 2
	forceDice(e, true, t)

	mover := current(e)
	roll := e.RollDice(mover.Id)
	require.NotNil(t, roll)
	assert.True(t, roll.IsDoubles)

	assert.True(t, mover.InJail)
	assert.Equal(t, board.PosJail, mover.Position)
	assert.Equal(t, 0, e.state.DoublesCount)
	assert.Equal(t, models.TurnEnd, e.TurnPhase())
}

func TestMoveWrapsBoardAndCreditsGo(t *testing.T) {
	e := newStartedEngine(t, nil, "Alice", "Bob")
	mover := current(e)
	mover.Position = 38
	e.state.LastRoll = 5
	e.state.TurnPhase = models.TurnMoving

	move := e.MovePlayer(mover.Id)
	require.NotNil(t, move)
	assert.Equal(t, 38, move.From)
	assert.Equal(t, 3, move.To)
	assert.True(t, move.PassedGo)
	assert.Equal(t, 1500+board.GoBonus, mover.Money)
}

func TestDoubleGoBonusOnExactLanding(t *testing.T) {
	settings := models.DefaultSettings()
	settings.DoubleOnGo = true
	e := newStartedEngine(t, &settings, "Alice", "Bob")

	mover := current(e)
	mover.Position = 35
	e.state.LastRoll = 5
	e.state.TurnPhase = models.TurnMoving

	move := e.MovePlayer(mover.Id)
	require.NotNil(t, move)
	assert.Equal(t, board.PosGo, move.To)
	assert.Equal(t, 1500+2*board.GoBonus, mover.Money)
}

func TestLandingOnGoToJail(t *testing.T) {
	e := newStartedEngine(t, nil, "Alice", "Bob")
	mover := current(e)
	mover.Position = 25
	e.state.LastRoll = 5
	e.state.TurnPhase = models.TurnMoving

	move := e.MovePlayer(mover.Id)
	require.NotNil(t, move)
	assert.True(t, mover.InJail)
	assert.Equal(t, board.PosJail, mover.Position)
	assert.Equal(t, models.TurnEnd, e.TurnPhase())
	// GO is not credited on the way to jail.
	assert.Equal(t, 1500, mover.Money)
}

func TestTaxesFeedFreeParkingPot(t *testing.T) {
	settings := models.DefaultSettings()
	settings.FreeParking = true
	e := newStartedEngine(t, &settings, "Alice", "Bob")

	mover := current(e)
	mover.Position = 1
	e.state.LastRoll = 3 // income tax at 4
	e.state.TurnPhase = models.TurnMoving
	require.NotNil(t, e.MovePlayer(mover.Id))

	assert.Equal(t, 1300, mover.Money)
	assert.Equal(t, 200, e.state.FreeParkingPot)

	// Landing on Free Parking collects the pot.
	e.state.TurnPhase = models.TurnMoving
	mover.Position = 15
	e.state.LastRoll = 5
	require.NotNil(t, e.MovePlayer(mover.Id))
	assert.Equal(t, 1500, mover.Money)
	assert.Equal(t, 0, e.state.FreeParkingPot)
}

func TestJailRollDoublesReleasesWithoutExtraTurn(t *testing.T) {
	e := newStartedEngine(t, nil, "Alice", "Bob")
	mover := current(e)
	e.sendToJail(mover)
	e.state.TurnPhase = models.TurnJailDecision
	forceDice(e, true, t)

	roll := e.RollDice(mover.Id)
	require.NotNil(t, roll)
	assert.True(t, roll.IsDoubles)
	assert.False(t, mover.InJail)
	assert.Equal(t, models.TurnMoving, e.TurnPhase())
	// The release doubles must not grant a re-roll later.
	assert.Equal(t, 0, e.state.DoublesCount)
}

func TestJailAutoFineOnThirdFailedRoll(t *testing.T) {
	e := newStartedEngine(t, nil, "Alice", "Bob")
	mover := current(e)
	e.sendToJail(mover)
	mover.JailTurns = 2
	e.state.TurnPhase = models.TurnJailDecision
	forceDice(e, false, t)

	roll := e.RollDice(mover.Id)
	require.NotNil(t, roll)
	assert.False(t, roll.IsDoubles)
	assert.False(t, mover.InJail)
	assert.Equal(t, 1500-board.JailFine, mover.Money)
	assert.Equal(t, models.TurnMoving, e.TurnPhase())
}

func TestJailInsolventStaysJailed(t *testing.T) {
	e := newStartedEngine(t, nil, "Alice", "Bob")
	mover := current(e)
	e.sendToJail(mover)
	mover.JailTurns = 2
	mover.Money = 20
	e.state.TurnPhase = models.TurnJailDecision
	forceDice(e, false, t)

	roll := e.RollDice(mover.Id)
	require.NotNil(t, roll)
	assert.True(t, mover.InJail)
	assert.Equal(t, 20, mover.Money)
	assert.Equal(t, models.TurnEnd, e.TurnPhase())
	assert.False(t, mover.IsBankrupt)
}

func TestPayJailFine(t *testing.T) {
	e := newStartedEngine(t, nil, "Alice", "Bob")
	mover := current(e)

	// Not jailed: refused.
	assert.False(t, e.PayJailFine(mover.Id))

	e.sendToJail(mover)
	e.state.TurnPhase = models.TurnJailDecision
	assert.True(t, e.PayJailFine(mover.Id))
	assert.False(t, mover.InJail)
	assert.Equal(t, 1500-board.JailFine, mover.Money)
	assert.Equal(t, models.TurnRoll, e.TurnPhase())
}

func TestUseJailCard(t *testing.T) {
	e := newStartedEngine(t, nil, "Alice", "Bob")
	mover := current(e)
	e.sendToJail(mover)
	e.state.TurnPhase = models.TurnJailDecision

	assert.False(t, e.UseJailCard(mover.Id)) // no card held

	mover.JailFreeCards = 1
	assert.True(t, e.UseJailCard(mover.Id))
	assert.False(t, mover.InJail)
	assert.Equal(t, 0, mover.JailFreeCards)
	assert.Equal(t, models.TurnRoll, e.TurnPhase())
}

func TestChanceDeckWrapsAfterSixteenDraws(t *testing.T) {
	e := newStartedEngine(t, nil, "Alice", "Bob")
	mover := current(e)

	var drawn []int
	for i := 0; i < 17; i++ {
		mover.Position = 7
		mover.InJail = false
		e.state.TurnPhase = models.TurnCard
		card := e.DrawCard(mover.Id)
		require.NotNil(t, card)
		drawn = append(drawn, card.Id)
	}

	assert.Equal(t, drawn[0], drawn[16])
	seen := map[int]bool{}
	for _, id := range drawn[:16] {
		seen[id] = true
	}
	assert.Len(t, seen, 16)
}

func TestEndTurnDoublesKeepTurn(t *testing.T) {
	e := newStartedEngine(t, nil, "Alice", "Bob")
	mover := current(e)
	e.state.DoublesCount = 1
	e.state.TurnPhase = models.TurnEnd

	require.True(t, e.EndTurn(mover.Id))
	assert.Equal(t, mover.Id, e.CurrentPlayerId())
	assert.Equal(t, models.TurnRoll, e.TurnPhase())
}

func TestEndTurnAdvancesSkippingBankrupt(t *testing.T) {
	e := newStartedEngine(t, nil, "Alice", "Bob", "Carol")
	order := e.state.Players

	e.state.CurrentPlayerId = order[0].Id
	order[1].IsBankrupt = true
	e.state.TurnPhase = models.TurnEnd

	require.True(t, e.EndTurn(order[0].Id))
	assert.Equal(t, order[2].Id, e.CurrentPlayerId())
}

func TestEndTurnIntoJailDecision(t *testing.T) {
	e := newStartedEngine(t, nil, "Alice", "Bob")
	order := e.state.Players

	e.state.CurrentPlayerId = order[0].Id
	e.sendToJail(order[1])
	e.state.TurnPhase = models.TurnEnd

	require.True(t, e.EndTurn(order[0].Id))
	assert.Equal(t, order[1].Id, e.CurrentPlayerId())
	assert.Equal(t, models.TurnJailDecision, e.TurnPhase())
}

func TestMoveNearestCardBoostsRent(t *testing.T) {
	e := newStartedEngine(t, nil, "Alice", "Bob")
	order := e.state.Players
	mover, owner := order[0], order[1]
	e.state.CurrentPlayerId = mover.Id

	// Owner holds Reading Railroad alone: base rent 25.
	railroad := e.getProperty(5)
	railroad.OwnerId = owner.Id
	owner.Properties = append(owner.Properties, 5)

	mover.Position = 2
	card := models.Card{Action: models.CardMoveNearest, Value: 2}
	e.executeCard(mover, card)

	assert.Equal(t, 5, mover.Position)
	assert.Equal(t, 1500-50, mover.Money)
	assert.Equal(t, 1500+50, owner.Money)
	assert.False(t, e.nearestRentBoost)
}
