package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// escalationKeyPrefix is the prefix for escalation cooldown keys.
const escalationKeyPrefix = "alert_escalation:"

// EscalationCooldownStore rate-limits alert escalations across worker
// instances using an atomic SetNX lock, so two overlapping sweeps cannot
// both escalate the same alert.
type EscalationCooldownStore struct {
	client *redis.Client
}

func NewEscalationCooldownStore(client *redis.Client) *EscalationCooldownStore {
	return &EscalationCooldownStore{client: client}
}

func (s *EscalationCooldownStore) buildKey(alertID uint) string {
	return fmt.Sprintf("%s%d", escalationKeyPrefix, alertID)
}

// TryAcquire atomically claims the escalation slot for an alert. Returns
// false while a previous escalation's cooldown is still running.
func (s *EscalationCooldownStore) TryAcquire(ctx context.Context, alertID uint, ttl time.Duration) (bool, error) {
	acquired, err := s.client.SetNX(ctx, s.buildKey(alertID), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire escalation cooldown: %w", err)
	}
	return acquired, nil
}

// Clear releases the cooldown, used when an alert is resolved so a
// re-opened alert for the same booking escalates promptly.
func (s *EscalationCooldownStore) Clear(ctx context.Context, alertID uint) error {
	if err := s.client.Del(ctx, s.buildKey(alertID)).Err(); err != nil {
		return fmt.Errorf("failed to clear escalation cooldown: %w", err)
	}
	return nil
}
