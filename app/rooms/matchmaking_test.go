package rooms

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueIsFIFO(t *testing.T) {
	r := NewRegistry()

	assert.Equal(t, 1, r.JoinMatchmaking("p1", "Alice"))
	assert.Equal(t, 2, r.JoinMatchmaking("p2", "Bob"))
	assert.Equal(t, 2, r.QueuePosition("p2"))
	assert.Equal(t, -1, r.QueuePosition("ghost"))

	// Re-joining moves to the back.
	assert.Equal(t, 2, r.JoinMatchmaking("p1", "Alice"))
	assert.Equal(t, 1, r.QueuePosition("p2"))
}

func TestLeaveMatchmaking(t *testing.T) {
	r := NewRegistry()
	r.JoinMatchmaking("p1", "Alice")

	assert.True(t, r.LeaveMatchmaking("p1"))
	assert.False(t, r.LeaveMatchmaking("p1"))
	assert.Equal(t, -1, r.QueuePosition("p1"))
}

func TestProcessNeedsTwoPlayers(t *testing.T) {
	r := NewRegistry()
	r.JoinMatchmaking("p1", "Alice")

	assert.Nil(t, r.ProcessMatchmaking())
	assert.Equal(t, 1, r.QueuePosition("p1"))
}

func TestProcessBatchesUpToFour(t *testing.T) {
	r := NewRegistry()
	for i := 1; i <= 5; i++ {
		r.JoinMatchmaking(fmt.Sprintf("p%d", i), fmt.Sprintf("Player %d", i))
	}

	match := r.ProcessMatchmaking()
	require.NotNil(t, match)
	assert.Len(t, match.Players, 4)
	assert.True(t, match.Room.IsMatchmaking)
	assert.Equal(t, "p1", match.Room.HostId)
	assert.Equal(t, 4, match.Room.Engine.PlayerCount())

	// Everyone matched is seated and off the queue.
	for _, mp := range match.Players {
		assert.Equal(t, match.Room.Id, r.RoomByPlayer(mp.PlayerId).Id)
		assert.Equal(t, -1, r.QueuePosition(mp.PlayerId))
	}
	assert.Equal(t, 1, r.QueuePosition("p5"))
}

func TestProcessDropsExpiredEntries(t *testing.T) {
	r := NewRegistry()
	r.JoinMatchmaking("p1", "Alice")
	r.JoinMatchmaking("p2", "Bob")
	r.queue[0].JoinedAt = time.Now().Add(-time.Minute)

	assert.Nil(t, r.ProcessMatchmaking())
	assert.Equal(t, -1, r.QueuePosition("p1"))
	assert.Equal(t, 1, r.QueuePosition("p2"))
}
