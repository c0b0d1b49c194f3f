package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// VisitDedup remembers the last visit of each (user, publication) pair for
// the configured window.
// Key format: visit:<user_id>:<publication_id>, value: visit id.
type VisitDedup struct {
	client redis.Cmdable
	window time.Duration
}

// NewVisitDedup remembers each visit for window.
func NewVisitDedup(client redis.Cmdable, window time.Duration) *VisitDedup {
	return &VisitDedup{client: client, window: window}
}

// Seen returns the id of the visit recorded inside the window, if any.
func (d *VisitDedup) Seen(ctx context.Context, userID, publicationID uint) (uint, bool, error) {
	raw, err := d.client.Get(ctx, d.key(userID, publicationID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("visit dedup check: %w", err)
	}

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("visit dedup value %q: %w", raw, err)
	}
	return uint(id), true, nil
}

// Mark stores visitID for the pair; it expires after the window.
func (d *VisitDedup) Mark(ctx context.Context, userID, publicationID, visitID uint) error {
	return d.client.Set(ctx, d.key(userID, publicationID), strconv.FormatUint(uint64(visitID), 10), d.window).Err()
}

func (d *VisitDedup) key(userID, publicationID uint) string {
	return fmt.Sprintf("visit:%d:%d", userID, publicationID)
}
