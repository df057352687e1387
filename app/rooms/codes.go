package rooms

import (
	"math/rand"
	"strings"
	"sync"
	"time"
)

// Confusable characters (0/O, 1/I/L) are left out of room codes.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
const codeLength = 6

var (
	codeRngMu sync.Mutex
	codeRng   = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// generateRoomCode returns a code unused by any live room. Registry lock
// must be held.
func (r *Registry) generateRoomCode() string {
	for {
		code := randomCode()
		if _, taken := r.roomsByCode[code]; !taken {
			return code
		}
	}
}

func randomCode() string {
	codeRngMu.Lock()
	defer codeRngMu.Unlock()

	var b strings.Builder
	for i := 0; i < codeLength; i++ {
		b.WriteByte(codeAlphabet[codeRng.Intn(len(codeAlphabet))])
	}
	return b.String()
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
