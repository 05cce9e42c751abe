package notify

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/adinrama/eto-telco-tracking/internal/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

// Deliverer sends a single notice synchronously.
type Deliverer interface {
	Deliver(ctx context.Context, trackingID, recipient, status string) error
}

// DedupChecker remembers notices that were already delivered.
type DedupChecker interface {
	IsDuplicate(ctx context.Context, trackingID, status, recipient string) (bool, error)
	Mark(ctx context.Context, trackingID, status, recipient string) error
}

type job struct {
	trackingID string
	recipient  string
	status     string
}

// Dispatcher routes notices to a fixed set of workers using consistent
// hashing on the tracking id, so notices for one shipment go out in the
// order the updates were applied.
type Dispatcher struct {
	workers []chan job
	deliver Deliverer
	dedup   DedupChecker
	log     zerolog.Logger
	mu      sync.RWMutex
	closed  bool
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers, each
// holding up to buffer pending notices. Non-positive values fall back to
// the defaults. dedup may be nil.
func NewDispatcher(numWorkers, buffer int, deliver Deliverer, dedup DedupChecker, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if buffer <= 0 {
		buffer = channelBuffer
	}
	d := &Dispatcher{
		workers: make([]chan job, numWorkers),
		deliver: deliver,
		dedup:   dedup,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan job, buffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when Close has drained
// their channel. If ctx is cancelled first, whatever is still queued is
// dropped and counted instead of delivered.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Notify implements ports.NotificationSink. It never blocks: when the
// worker's channel is full, or the dispatcher is closed, the notice is
// dropped and logged.
func (d *Dispatcher) Notify(_ context.Context, trackingID, recipient, status string) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(trackingID, "dispatcher closed")
		return
	}

	idx := d.shardIndex(trackingID)
	select {
	case d.workers[idx] <- job{trackingID: trackingID, recipient: recipient, status: status}:
		metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		d.drop(trackingID, "queue full")
	}
}

// Close stops accepting notices and waits until the workers have handled
// everything already queued.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()

	d.wg.Wait()
}

// shardIndex maps a tracking id deterministically to a worker index.
func (d *Dispatcher) shardIndex(trackingID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(trackingID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) drop(trackingID, reason string) {
	metrics.NotificationsTotal.WithLabelValues("dropped").Inc()
	d.log.Warn().Str("tracking_id", trackingID).Str("reason", reason).Msg("notice dropped")
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan job) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		if ctx.Err() != nil {
			d.discard(label, ch)
			return
		}
		select {
		case <-ctx.Done():
			d.discard(label, ch)
			return
		case j, ok := <-ch:
			if !ok {
				return
			}
			metrics.NotificationQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.process(ctx, id, j)
		}
	}
}

// discard drops every notice currently buffered in ch.
func (d *Dispatcher) discard(label string, ch <-chan job) {
	for {
		select {
		case j, ok := <-ch:
			if !ok {
				return
			}
			d.drop(j.trackingID, "dispatcher stopped")
		default:
			metrics.NotificationQueueDepth.WithLabelValues(label).Set(0)
			return
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, workerID int, j job) {
	if d.dedup != nil {
		dup, err := d.dedup.IsDuplicate(ctx, j.trackingID, j.status, j.recipient)
		if err != nil {
			// Dedup is best effort.
			d.log.Warn().Err(err).Str("tracking_id", j.trackingID).Msg("dedup check failed")
		} else if dup {
			metrics.NotificationsTotal.WithLabelValues("duplicate").Inc()
			d.log.Debug().Str("tracking_id", j.trackingID).Str("status", j.status).Msg("duplicate notice skipped")
			return
		}
	}

	if err := d.deliver.Deliver(ctx, j.trackingID, j.recipient, j.status); err != nil {
		metrics.NotificationsTotal.WithLabelValues("failed").Inc()
		d.log.Error().Err(err).
			Str("tracking_id", j.trackingID).
			Int("worker_id", workerID).
			Msg("notice delivery failed")
		return
	}
	metrics.NotificationsTotal.WithLabelValues("sent").Inc()

	if d.dedup != nil {
		if err := d.dedup.Mark(ctx, j.trackingID, j.status, j.recipient); err != nil {
			d.log.Warn().Err(err).Str("tracking_id", j.trackingID).Msg("dedup mark failed")
		}
	}
}
