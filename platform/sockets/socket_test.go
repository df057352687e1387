package socket

import (
	"testing"

	socketio "github.com/googollee/go-socket.io"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DedS3t/monopoly-engine/app/models"
	"github.com/DedS3t/monopoly-engine/app/rooms"
	"github.com/DedS3t/monopoly-engine/platform/cache"
)

func newTestGameServer(t *testing.T) (*GameServer, *rooms.Registry) {
	t.Helper()
	server, err := socketio.NewServer(nil)
	require.NoError(t, err)

	registry := rooms.NewRegistry()
	g := &GameServer{
		registry:  registry,
		snapshots: cache.NewSnapshotStore(nil),
		server:    server,
		conns:     make(map[string]socketio.Conn),
	}
	g.timers = rooms.NewTimeoutManager(registry, g)
	registry.SetOnRoomDeleted(func(roomId string) {
		g.timers.StopAll(roomId)
		g.snapshots.Delete(roomId)
	})
	return g, registry
}

func startedSocketRoom(t *testing.T, registry *rooms.Registry, playerIds ...string) *rooms.Room {
	t.Helper()
	settings := models.DefaultSettings()
	settings.TurnTimeLimit = 0

	room, _ := registry.CreateRoom(playerIds[0], "Player "+playerIds[0], false, &settings)
	require.NotNil(t, room)
	for _, id := range playerIds[1:] {
		joined, _, _ := registry.JoinRoom(room.Code, id, "Player "+id)
		require.NotNil(t, joined)
	}

	colors := []string{"red", "blue", "green", "yellow"}
	for i, id := range playerIds {
		require.True(t, room.Engine.SelectColor(id, colors[i]))
		require.True(t, room.Engine.SetPlayerReady(id, true))
	}
	require.True(t, room.Engine.StartGame())
	return room
}

func TestDroppedLobbySeatIsFreed(t *testing.T) {
	g, registry := newTestGameServer(t)
	room, _ := registry.CreateRoom("p1", "Alice", false, nil)
	require.NotNil(t, room)
	_, _, _ = registry.JoinRoom(room.Code, "p2", "Bob")

	g.dropPlayer("p2")

	assert.Nil(t, room.Engine.GetPlayer("p2"))
	assert.Equal(t, 1, room.Engine.PlayerCount())
	assert.Nil(t, registry.RoomByPlayer("p2"))
}

func TestDroppedPlayerMidGameGoesBankrupt(t *testing.T) {
	g, registry := newTestGameServer(t)
	room := startedSocketRoom(t, registry, "p1", "p2", "p3")

	victim := "p2"
	if room.Engine.CurrentPlayerId() == victim {
		victim = "p3"
	}

	g.dropPlayer(victim)

	p := room.Engine.GetPlayer(victim)
	require.NotNil(t, p)
	assert.True(t, p.IsBankrupt)
	assert.False(t, p.IsConnected)
	assert.Equal(t, models.PhasePlaying, room.Engine.GamePhase())

	// The seat survives, so the identity can reattach and spectate.
	rejoined, player, reconnected := registry.JoinRoom(room.Code, victim, "Player "+victim)
	require.NotNil(t, rejoined)
	assert.True(t, reconnected)
	assert.True(t, player.IsConnected)
	assert.True(t, player.IsBankrupt)
}

func TestDroppedLastOpponentEndsGame(t *testing.T) {
	g, registry := newTestGameServer(t)
	room := startedSocketRoom(t, registry, "p1", "p2")

	g.dropPlayer("p2")

	winner := room.Engine.Winner()
	require.NotNil(t, winner)
	assert.Equal(t, "p1", winner.Id)
	assert.Equal(t, models.PhaseEnded, room.Engine.GamePhase())

	// The result was already recorded on the way out.
	assert.False(t, registry.MarkFinished(room.Id))
}
