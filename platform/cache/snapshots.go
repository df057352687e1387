package cache

import (
	"encoding/json"
	"fmt"

	"github.com/gomodule/redigo/redis"
	"github.com/sirupsen/logrus"

	"github.com/DedS3t/monopoly-engine/app/models"
)

// Snapshots older than this are garbage; a game never runs a full day.
const snapshotTTLSeconds = 24 * 60 * 60

// SnapshotStore mirrors the latest game state of each room into redis so a
// restarted or secondary process can inspect live games. All methods are
// safe to call with a nil store or nil pool; persistence is best-effort and
// never blocks gameplay.
type SnapshotStore struct {
	pool *redis.Pool
}

func NewSnapshotStore(pool *redis.Pool) *SnapshotStore {
	if pool == nil {
		return nil
	}
	return &SnapshotStore{pool: pool}
}

func snapshotKey(roomId string) string {
	return fmt.Sprintf("room.%s.state", roomId)
}

// Save overwrites the room's snapshot with the given state.
func (s *SnapshotStore) Save(roomId string, state *models.GameState) {
	if s == nil || state == nil {
		return
	}

	raw, err := json.Marshal(state)
	if err != nil {
		logrus.WithError(err).Warn("snapshot marshal failed")
		return
	}

	conn := s.pool.Get()
	defer conn.Close()

	if _, err := conn.Do("SET", snapshotKey(roomId), raw, "EX", snapshotTTLSeconds); err != nil {
		logrus.WithError(err).WithField("room", roomId).Warn("snapshot save failed")
	}
}

// Load returns the stored snapshot, or nil when none exists.
func (s *SnapshotStore) Load(roomId string) *models.GameState {
	if s == nil {
		return nil
	}

	conn := s.pool.Get()
	defer conn.Close()

	raw, err := redis.Bytes(conn.Do("GET", snapshotKey(roomId)))
	if err != nil {
		return nil
	}
	state := new(models.GameState)
	if err := json.Unmarshal(raw, state); err != nil {
		logrus.WithError(err).WithField("room", roomId).Warn("snapshot unmarshal failed")
		return nil
	}
	return state
}

// Delete drops the room's snapshot on teardown.
func (s *SnapshotStore) Delete(roomId string) {
	if s == nil {
		return
	}

	conn := s.pool.Get()
	defer conn.Close()

	if _, err := conn.Do("DEL", snapshotKey(roomId)); err != nil {
		logrus.WithError(err).WithField("room", roomId).Warn("snapshot delete failed")
	}
}
