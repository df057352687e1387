package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DedS3t/monopoly-engine/app/models"
)

// forceMove scripts the dice so landings are deterministic.
func forceMove(t *testing.T, e *Engine, playerId string, roll int) *MoveResult {
	t.Helper()
	e.state.LastRoll = roll
	e.state.TurnPhase = models.TurnMoving
	move := e.MovePlayer(playerId)
	require.NotNil(t, move)
	return move
}

func endTurn(t *testing.T, e *Engine, playerId string) {
	t.Helper()
	e.state.TurnPhase = models.TurnEnd
	require.True(t, e.EndTurn(playerId))
}

// A scripted two-player opening: buying out the brown group, collecting
// single and monopoly rent, building evenly and collecting house rent, with
// exact money accounting throughout.
func TestScriptedBrownGroupGame(t *testing.T) {
	e := newStartedEngine(t, nil, "Alice", "Bob")
	a := e.state.Players[0]
	b := e.state.Players[1]
	e.state.CurrentPlayerId = a.Id
	e.state.TurnPhase = models.TurnRoll

	// A buys Mediterranean.
	forceMove(t, e, a.Id, 1)
	require.Equal(t, models.TurnAction, e.TurnPhase())
	require.True(t, e.BuyProperty(a.Id))
	assert.Equal(t, 1440, a.Money)
	endTurn(t, e, a.Id)

	// B lands on it: base rent, no monopoly yet.
	forceMove(t, e, b.Id, 1)
	assert.Equal(t, 1498, b.Money)
	assert.Equal(t, 1442, a.Money)
	endTurn(t, e, b.Id)

	// A completes the brown group.
	forceMove(t, e, a.Id, 2)
	require.True(t, e.BuyProperty(a.Id))
	assert.Equal(t, 1382, a.Money)
	assert.True(t, e.HasMonopoly(a.Id, "brown"))
	endTurn(t, e, a.Id)

	// B pays doubled monopoly rent on Baltic.
	forceMove(t, e, b.Id, 2)
	assert.Equal(t, 1490, b.Money)
	assert.Equal(t, 1390, a.Money)
	endTurn(t, e, b.Id)

	// A builds one house on each street.
	require.True(t, e.BuildHouse(a.Id, 1))
	require.True(t, e.BuildHouse(a.Id, 3))
	assert.Equal(t, 1290, a.Money)

	// B wraps the board, collects GO and pays one-house rent on Mediterranean.
	move := forceMove(t, e, b.Id, 38)
	assert.True(t, move.PassedGo)
	assert.Equal(t, 1, move.To)
	assert.Equal(t, 1680, b.Money)
	assert.Equal(t, 1300, a.Money)
}

// Losing every active opponent mid-script ends the game on the spot.
func TestScriptedGameEndsWithWinner(t *testing.T) {
	e := newStartedEngine(t, nil, "Alice", "Bob")
	a := e.state.Players[0]
	b := e.state.Players[1]
	e.state.CurrentPlayerId = b.Id

	// A owns Boardwalk with a hotel; B cannot possibly pay.
	boardwalk := giveProperty(e, a.Id, 39)
	boardwalk.Houses = 5
	b.Money = 10

	b.Position = 34
	forceMove(t, e, b.Id, 5)

	assert.True(t, b.IsBankrupt)
	require.NotNil(t, e.Winner())
	assert.Equal(t, a.Id, e.Winner().Id)
	assert.Equal(t, models.PhaseEnded, e.GamePhase())
	assert.Equal(t, 1510, a.Money)
}
