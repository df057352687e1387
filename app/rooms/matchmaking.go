package rooms

import (
	"time"

	"github.com/DedS3t/monopoly-engine/app/models"
)

const (
	matchmakingMinPlayers = 2
	matchmakingMaxPlayers = 4
	matchmakingTimeout    = 30 * time.Second
)

type queueEntry struct {
	PlayerId   string
	PlayerName string
	JoinedAt   time.Time
}

// Match is a freshly created matchmaking room plus everyone seated in it.
type Match struct {
	Room    *Room
	Players []MatchedPlayer
}

type MatchedPlayer struct {
	PlayerId   string
	PlayerName string
}

// JoinMatchmaking appends the player to the FIFO queue (re-joining moves
// them to the back) and returns their 1-based position.
func (r *Registry) JoinMatchmaking(playerId string, playerName string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.removeFromQueueLocked(playerId)
	r.queue = append(r.queue, queueEntry{
		PlayerId:   playerId,
		PlayerName: playerName,
		JoinedAt:   time.Now(),
	})
	return len(r.queue)
}

func (r *Registry) LeaveMatchmaking(playerId string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.removeFromQueueLocked(playerId)
}

func (r *Registry) removeFromQueueLocked(playerId string) bool {
	for i, q := range r.queue {
		if q.PlayerId == playerId {
			r.queue = append(r.queue[:i], r.queue[i+1:]...)
			return true
		}
	}
	return false
}

func (r *Registry) QueuePosition(playerId string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i, q := range r.queue {
		if q.PlayerId == playerId {
			return i + 1
		}
	}
	return -1
}

// ProcessMatchmaking expires stale entries, then batches the head of the
// queue into a fresh room once enough players wait. Nil when no match forms.
func (r *Registry) ProcessMatchmaking() *Match {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	fresh := r.queue[:0]
	for _, q := range r.queue {
		if now.Sub(q.JoinedAt) < matchmakingTimeout {
			fresh = append(fresh, q)
		}
	}
	r.queue = fresh

	if len(r.queue) < matchmakingMinPlayers {
		return nil
	}

	take := len(r.queue)
	if take > matchmakingMaxPlayers {
		take = matchmakingMaxPlayers
	}
	batch := append([]queueEntry(nil), r.queue[:take]...)
	r.queue = append(r.queue[:0], r.queue[take:]...)

	host := batch[0]
	room, player := r.createRoomLocked(host.PlayerId, host.PlayerName, false, nil)
	if room == nil || player == nil {
		return nil
	}
	room.IsMatchmaking = true

	matched := []MatchedPlayer{{PlayerId: host.PlayerId, PlayerName: host.PlayerName}}
	for _, q := range batch[1:] {
		if room.Engine.AddPlayer(q.PlayerId, q.PlayerName, false) == nil {
			continue
		}
		r.playerRooms[q.PlayerId] = room.Id
		matched = append(matched, MatchedPlayer{PlayerId: q.PlayerId, PlayerName: q.PlayerName})
	}

	return &Match{Room: room, Players: matched}
}

// createRoomLocked is CreateRoom for callers already holding the lock.
func (r *Registry) createRoomLocked(hostId string, hostName string, isPrivate bool, settings *models.GameSettings) (*Room, *models.Player) {
	return r.buildRoom(hostId, hostName, isPrivate, settings)
}
