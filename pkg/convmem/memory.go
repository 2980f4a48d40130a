package convmem

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Turn is one utterance in a session, oldest first in storage order.
type Turn struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// Memory is a per-session bounded, time-limited log of turns on redis lists.
// Sessions come into existence on first append and disappear only by TTL.
type Memory struct {
	rdb      *redis.Client
	maxTurns int
	ttl      time.Duration
}

func NewMemory(rdb *redis.Client, maxTurns int, ttl time.Duration) *Memory {
	if maxTurns <= 0 {
		maxTurns = 15
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Memory{
		rdb:      rdb,
		maxTurns: maxTurns,
		ttl:      ttl,
	}
}

func sessionKey(sessionID string) string {
	return "chat:history:" + sessionID
}

// Append pushes a turn, trims the list to the last maxTurns entries and
// refreshes the idle TTL. The three commands run in one pipeline so
// concurrent appenders never observe a list over the cap.
func (m *Memory) Append(ctx context.Context, sessionID, role, content string) error {
	payload, err := json.Marshal(Turn{Role: role, Content: content})
	if err != nil {
		return err
	}

	key := sessionKey(sessionID)
	pipe := m.rdb.TxPipeline()
	pipe.RPush(ctx, key, payload)
	pipe.LTrim(ctx, key, int64(-m.maxTurns), -1)
	pipe.Expire(ctx, key, m.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append session turn: %w", err)
	}
	return nil
}

// History returns the session's turns oldest first. A session that never
// existed or expired is an empty history, not an error.
func (m *Memory) History(ctx context.Context, sessionID string) ([]Turn, error) {
	raw, err := m.rdb.LRange(ctx, sessionKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read session history: %w", err)
	}

	turns := make([]Turn, 0, len(raw))
	for _, item := range raw {
		var t Turn
		if err := json.Unmarshal([]byte(item), &t); err != nil {
			continue
		}
		turns = append(turns, t)
	}
	return turns, nil
}
