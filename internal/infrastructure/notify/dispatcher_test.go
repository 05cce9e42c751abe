package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adinrama/eto-telco-tracking/internal/core/domain"
	redisdb "github.com/adinrama/eto-telco-tracking/internal/infrastructure/db/redis"
	"github.com/adinrama/eto-telco-tracking/internal/metrics"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type delivered struct {
	trackingID, recipient, status string
}

type recordingDeliverer struct {
	mu   sync.Mutex
	sent []delivered
	err  error
}

func (r *recordingDeliverer) Deliver(_ context.Context, trackingID, recipient, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, delivered{trackingID, recipient, status})
	return nil
}

func (r *recordingDeliverer) all() []delivered {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]delivered(nil), r.sent...)
}

type stubDedup struct {
	mu    sync.Mutex
	marks int
}

func (s *stubDedup) IsDuplicate(context.Context, string, string, string) (bool, error) {
	return false, nil
}

func (s *stubDedup) Mark(context.Context, string, string, string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marks++
	return nil
}

func newRedisDedup(t *testing.T) (*redisdb.NoticeDedup, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	client, err := redisdb.Connect(context.Background(), redisdb.Config{Addr: mr.Addr(), Timeout: 200 * time.Millisecond})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return redisdb.NewNoticeDedup(client, time.Minute), mr
}

// ---------------------------------------------------------------------------
// Dispatcher tests
// ---------------------------------------------------------------------------

func TestDispatcher_DeliversInOrder(t *testing.T) {
	rec := &recordingDeliverer{}
	d := NewDispatcher(4, 16, rec, nil, zerolog.Nop())
	d.Start(context.Background())

	statuses := []string{domain.StatusInTransit, domain.StatusCustomsClearance, domain.StatusOutForDelivery, domain.StatusDelivered}
	for _, s := range statuses {
		d.Notify(context.Background(), "TRK001", "customer@example.com", s)
	}
	d.Close()

	sent := rec.all()
	require.Len(t, sent, len(statuses))
	for i, s := range statuses {
		assert.Equal(t, s, sent[i].status, "notice %d out of order", i)
	}
}

func TestDispatcher_DropsWhenQueueFull(t *testing.T) {
	rec := &recordingDeliverer{}
	d := NewDispatcher(1, 1, rec, nil, zerolog.Nop())
	dropped := testutil.ToFloat64(metrics.NotificationsTotal.WithLabelValues("dropped"))

	// Workers are not running yet, so only the first notice fits.
	d.Notify(context.Background(), "TRK001", "a@example.com", domain.StatusInTransit)
	d.Notify(context.Background(), "TRK001", "a@example.com", domain.StatusCustomsClearance)
	d.Notify(context.Background(), "TRK001", "a@example.com", domain.StatusDelivered)
	assert.Equal(t, dropped+2, testutil.ToFloat64(metrics.NotificationsTotal.WithLabelValues("dropped")))

	d.Start(context.Background())
	d.Close()

	sent := rec.all()
	require.Len(t, sent, 1)
	assert.Equal(t, domain.StatusInTransit, sent[0].status)
}

func TestDispatcher_CancelledContextDropsQueued(t *testing.T) {
	rec := &recordingDeliverer{}
	d := NewDispatcher(1, 4, rec, nil, zerolog.Nop())
	dropped := testutil.ToFloat64(metrics.NotificationsTotal.WithLabelValues("dropped"))

	d.Notify(context.Background(), "TRK001", "a@example.com", domain.StatusInTransit)
	d.Notify(context.Background(), "TRK001", "a@example.com", domain.StatusCustomsClearance)
	d.Notify(context.Background(), "TRK001", "a@example.com", domain.StatusDelivered)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Start(ctx)
	d.Close()

	assert.Empty(t, rec.all())
	assert.Equal(t, dropped+3, testutil.ToFloat64(metrics.NotificationsTotal.WithLabelValues("dropped")),
		"queued notices must be counted when the workers stop early")
}

func TestDispatcher_NotifyAfterCloseIsDropped(t *testing.T) {
	rec := &recordingDeliverer{}
	d := NewDispatcher(2, 4, rec, nil, zerolog.Nop())
	d.Start(context.Background())
	d.Close()

	assert.NotPanics(t, func() {
		d.Notify(context.Background(), "TRK001", "a@example.com", domain.StatusInTransit)
	})
	assert.Empty(t, rec.all())
}

func TestDispatcher_CloseIsIdempotent(t *testing.T) {
	d := NewDispatcher(2, 4, &recordingDeliverer{}, nil, zerolog.Nop())
	d.Start(context.Background())

	d.Close()
	assert.NotPanics(t, d.Close)
}

func TestDispatcher_DefaultsForNonPositiveSizes(t *testing.T) {
	d := NewDispatcher(0, -1, &recordingDeliverer{}, nil, zerolog.Nop())

	assert.Len(t, d.workers, defaultWorkers)
	assert.Equal(t, channelBuffer, cap(d.workers[0]))
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(8, 1, &recordingDeliverer{}, nil, zerolog.Nop())

	first := d.shardIndex("TRK001")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, d.shardIndex("TRK001"))
	}
	assert.GreaterOrEqual(t, first, 0)
	assert.Less(t, first, 8)
}

func TestDispatcher_SkipsDuplicateNotices(t *testing.T) {
	dedup, _ := newRedisDedup(t)
	rec := &recordingDeliverer{}
	d := NewDispatcher(2, 8, rec, dedup, zerolog.Nop())
	d.Start(context.Background())

	d.Notify(context.Background(), "TRK001", "customer@example.com", domain.StatusInTransit)
	d.Notify(context.Background(), "TRK001", "customer@example.com", domain.StatusInTransit)
	d.Notify(context.Background(), "TRK001", "customer@example.com", domain.StatusDelivered)
	d.Close()

	sent := rec.all()
	require.Len(t, sent, 2)
	assert.Equal(t, domain.StatusInTransit, sent[0].status)
	assert.Equal(t, domain.StatusDelivered, sent[1].status)
}

func TestDispatcher_DedupOutageStillDelivers(t *testing.T) {
	dedup, mr := newRedisDedup(t)
	mr.Close()

	rec := &recordingDeliverer{}
	d := NewDispatcher(1, 8, rec, dedup, zerolog.Nop())
	d.Start(context.Background())

	d.Notify(context.Background(), "TRK001", "customer@example.com", domain.StatusInTransit)
	d.Notify(context.Background(), "TRK001", "customer@example.com", domain.StatusInTransit)
	d.Close()

	assert.Len(t, rec.all(), 2)
}

func TestDispatcher_FailedDeliveryIsNotMarked(t *testing.T) {
	dedup := &stubDedup{}
	rec := &recordingDeliverer{err: errors.New("smtp down")}
	d := NewDispatcher(1, 8, rec, dedup, zerolog.Nop())
	d.Start(context.Background())

	d.Notify(context.Background(), "TRK001", "customer@example.com", domain.StatusInTransit)
	d.Close()

	assert.Zero(t, dedup.marks)
}

func TestDispatcher_WithEmailNotifier(t *testing.T) {
	out := &syncBuffer{}
	d := NewDispatcher(2, 8, NewEmailNotifier(testEmailConfig, out, zerolog.Nop()), nil, zerolog.Nop())
	d.Start(context.Background())

	d.Notify(context.Background(), "TRK001", "customer@example.com", domain.StatusDelivered)
	d.Close()

	assert.Contains(t, out.String(), "Subject: ETO-TELCO: Shipment TRK001 Delivered")
}

type syncBuffer struct {
	mu  sync.Mutex
	buf []byte
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf = append(b.buf, p...)
	return len(p), nil
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.buf)
}
