package realtime

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// presenceTTL is how long a heartbeat keeps a viewer listed. Clients
// touch their entry on connect and every ping after that.
const presenceTTL = 60 * time.Second

// Presence tracks who is currently viewing a sheet, backed by a Redis
// sorted set per sheet scored by last-heartbeat time. Entries past the
// TTL are trimmed on read, so a crashed client disappears on its own.
type Presence struct {
	rdb *redis.Client
}

func NewPresence(rdb *redis.Client) *Presence {
	return &Presence{rdb: rdb}
}

func presenceKey(sheetID uuid.UUID) string {
	return "presence:sheet:" + sheetID.String()
}

// Touch records that the user is viewing the sheet right now.
func (p *Presence) Touch(ctx context.Context, sheetID, userID uuid.UUID) error {
	key := presenceKey(sheetID)
	now := float64(time.Now().Unix())

	pipe := p.rdb.Pipeline()
	pipe.ZAdd(ctx, key, redis.Z{Score: now, Member: userID.String()})
	pipe.Expire(ctx, key, 2*presenceTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("touch presence: %w", err)
	}
	return nil
}

// Forget removes the user from the sheet's viewer set, e.g. on a clean
// websocket close.
func (p *Presence) Forget(ctx context.Context, sheetID, userID uuid.UUID) error {
	if err := p.rdb.ZRem(ctx, presenceKey(sheetID), userID.String()).Err(); err != nil {
		return fmt.Errorf("forget presence: %w", err)
	}
	return nil
}

// Viewers lists the users seen on the sheet within the TTL window,
// trimming stale entries as a side effect.
func (p *Presence) Viewers(ctx context.Context, sheetID uuid.UUID) ([]uuid.UUID, error) {
	key := presenceKey(sheetID)
	cutoff := time.Now().Add(-presenceTTL).Unix()

	if err := p.rdb.ZRemRangeByScore(ctx, key, "-inf", fmt.Sprintf("%d", cutoff)).Err(); err != nil {
		return nil, fmt.Errorf("trim presence: %w", err)
	}

	members, err := p.rdb.ZRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list presence: %w", err)
	}

	viewers := make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		id, err := uuid.Parse(m)
		if err != nil {
			continue
		}
		viewers = append(viewers, id)
	}
	return viewers, nil
}
