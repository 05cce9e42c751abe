package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultDedupTTL = time.Hour

// NoticeDedup remembers which status notices were already sent so a repeated
// update does not mail the customer twice.
// Key format: notice:<tracking_id>:<status>:<recipient>
type NoticeDedup struct {
	client *redis.Client
	ttl    time.Duration
}

// NewNoticeDedup wraps client. A non-positive ttl falls back to one hour.
func NewNoticeDedup(client *redis.Client, ttl time.Duration) *NoticeDedup {
	if ttl <= 0 {
		ttl = defaultDedupTTL
	}
	return &NoticeDedup{client: client, ttl: ttl}
}

// IsDuplicate reports whether this notice has been sent within the TTL.
func (d *NoticeDedup) IsDuplicate(ctx context.Context, trackingID, status, recipient string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(trackingID, status, recipient)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that the notice was sent.
func (d *NoticeDedup) Mark(ctx context.Context, trackingID, status, recipient string) error {
	if err := d.client.Set(ctx, d.key(trackingID, status, recipient), "1", d.ttl).Err(); err != nil {
		return fmt.Errorf("dedup mark: %w", err)
	}
	return nil
}

func (d *NoticeDedup) key(trackingID, status, recipient string) string {
	return fmt.Sprintf("notice:%s:%s:%s", trackingID, strings.ToLower(status), strings.ToLower(recipient))
}
