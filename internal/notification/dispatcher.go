package notification

import (
	"context"
	"sync"
	"time"

	"rental-booking/internal/metrics"

	"go.uber.org/zap"
)

const (
	kindOTP       = "otp"
	kindReceipt   = "receipt"
	kindRejection = "rejection"
)

type job struct {
	kind      string
	bookingID string
	send      func(ctx context.Context) error
}

// Dispatcher sends OTPs inline and delivers receipts and rejections from a
// background queue with retries. A failed receipt never fails the booking
// that produced it.
type Dispatcher struct {
	notifier Notifier
	retry    RetryPolicy
	log      *zap.Logger

	jobs   chan job
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool

	ctx    context.Context
	cancel context.CancelFunc
}

func NewDispatcher(notifier Notifier, retry RetryPolicy, workers int, log *zap.Logger) *Dispatcher {
	if workers < 1 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		notifier: notifier,
		retry:    retry,
		log:      log.With(zap.String("component", "notification")),
		jobs:     make(chan job, 128),
		ctx:      ctx,
		cancel:   cancel,
	}

	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

// SendOTP delivers synchronously so signup can undo the account on failure.
func (d *Dispatcher) SendOTP(ctx context.Context, msg OTPMessage) error {
	err := d.notifier.SendOTP(ctx, msg)
	if err != nil {
		metrics.IncNotification(kindOTP, "failed")
		d.log.Error("Failed to send OTP", zap.String("to", msg.To), zap.Error(err))
		return err
	}
	metrics.IncNotification(kindOTP, "sent")
	return nil
}

func (d *Dispatcher) QueueReceipt(r Receipt) {
	d.enqueue(job{
		kind:      kindReceipt,
		bookingID: r.BookingID,
		send:      func(ctx context.Context) error { return d.notifier.SendReceipt(ctx, r) },
	})
}

func (d *Dispatcher) QueueRejection(r Rejection) {
	d.enqueue(job{
		kind:      kindRejection,
		bookingID: r.BookingID,
		send:      func(ctx context.Context) error { return d.notifier.SendRejection(ctx, r) },
	})
}

func (d *Dispatcher) enqueue(j job) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		metrics.IncNotification(j.kind, "dropped")
		d.log.Warn("Dispatcher closed, notification dropped",
			zap.String("kind", j.kind), zap.String("booking_id", j.bookingID))
		return
	}

	select {
	case d.jobs <- j:
	default:
		metrics.IncNotification(j.kind, "dropped")
		d.log.Warn("Notification queue full, dropped",
			zap.String("kind", j.kind), zap.String("booking_id", j.bookingID))
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for j := range d.jobs {
		d.deliver(j)
	}
}

func (d *Dispatcher) deliver(j job) {
	log := d.log.With(zap.String("kind", j.kind), zap.String("booking_id", j.bookingID))

	for attempt := 1; ; attempt++ {
		err := j.send(d.ctx)
		if err == nil {
			metrics.IncNotification(j.kind, "sent")
			return
		}

		if attempt > d.retry.MaxRetries {
			metrics.IncNotification(j.kind, "failed")
			log.Error("Notification failed, giving up", zap.Int("attempts", attempt), zap.Error(err))
			return
		}

		delay := d.retry.NextDelay(attempt)
		log.Warn("Notification failed, retrying",
			zap.Int("attempt", attempt), zap.Duration("delay", delay), zap.Error(err))

		timer := time.NewTimer(delay)
		select {
		case <-d.ctx.Done():
			timer.Stop()
			metrics.IncNotification(j.kind, "failed")
			log.Error("Notification abandoned on shutdown", zap.Error(err))
			return
		case <-timer.C:
		}
	}
}

// Close stops accepting work and waits for queued notifications. Pending
// retries are abandoned when ctx expires.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.jobs)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.cancel()
		return nil
	case <-ctx.Done():
		d.cancel()
		<-done
		return ctx.Err()
	}
}
