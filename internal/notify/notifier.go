// Package notify delivers review confirmations out of band from the request
// that triggered them.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/uber-go/tally/v4"
	"go.uber.org/zap"
)

const (
	DefaultDelay     = 5 * time.Second
	DefaultQueueSize = 100
)

// Message is a confirmation for one persisted review.
type Message struct {
	BookID     int64
	TextReview string
	DueAt      time.Time
}

// Sender delivers a single confirmation.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender stands in for an email gateway by writing the confirmation to the log.
type LogSender struct {
	Logger *zap.Logger
}

func (s LogSender) Send(_ context.Context, msg Message) error {
	s.Logger.Info("email sent for review",
		zap.Int64("book_id", msg.BookID),
		zap.String("text_review", msg.TextReview),
	)
	return nil
}

type Option func(*Notifier)

func WithDelay(d time.Duration) Option {
	return func(n *Notifier) {
		if d >= 0 {
			n.delay = d
		}
	}
}

func WithQueueSize(size int) Option {
	return func(n *Notifier) {
		if size > 0 {
			n.queueSize = size
		}
	}
}

func WithSender(s Sender) Option {
	return func(n *Notifier) { n.sender = s }
}

func WithMetrics(scope tally.Scope) Option {
	return func(n *Notifier) { n.scope = scope }
}

// Notifier queues confirmations and hands each one to its Sender after a fixed delay.
// Schedule never blocks; Run must be started for anything to be delivered.
type Notifier struct {
	queue     chan Message
	queueSize int
	delay     time.Duration
	sender    Sender
	logger    *zap.Logger
	scope     tally.Scope
	now       func() time.Time

	scheduled tally.Counter
	sent      tally.Counter
	failed    tally.Counter
	dropped   tally.Counter
}

func New(logger *zap.Logger, opts ...Option) *Notifier {
	n := &Notifier{
		queueSize: DefaultQueueSize,
		delay:     DefaultDelay,
		logger:    logger,
		scope:     tally.NoopScope,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.sender == nil {
		n.sender = LogSender{Logger: logger}
	}
	n.queue = make(chan Message, n.queueSize)

	sub := n.scope.SubScope("notifications")
	n.scheduled = sub.Counter("scheduled")
	n.sent = sub.Counter("sent")
	n.failed = sub.Counter("failed")
	n.dropped = sub.Counter("dropped")
	return n
}

// Schedule enqueues a confirmation for the given review. When the queue is full the
// message is dropped.
func (n *Notifier) Schedule(bookID int64, textReview string) {
	msg := Message{
		BookID:     bookID,
		TextReview: textReview,
		DueAt:      n.now().Add(n.delay),
	}
	select {
	case n.queue <- msg:
		n.scheduled.Inc(1)
	default:
		n.dropped.Inc(1)
		n.logger.Warn("notification queue full, dropping confirmation",
			zap.Int64("book_id", bookID),
			zap.Int("queue_size", n.queueSize),
		)
	}
}

// Run consumes the queue until ctx is done. Messages are FIFO and share one delay,
// so waiting for the head's due time keeps every message on schedule.
func (n *Notifier) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			n.logShutdown()
			return nil
		case msg := <-n.queue:
			if !n.waitUntil(ctx, msg.DueAt) {
				n.logShutdown()
				return nil
			}
			n.deliver(context.WithoutCancel(ctx), msg)
		}
	}
}

func (n *Notifier) waitUntil(ctx context.Context, due time.Time) bool {
	wait := due.Sub(n.now())
	if wait <= 0 {
		return true
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (n *Notifier) deliver(ctx context.Context, msg Message) {
	defer func() {
		if r := recover(); r != nil {
			n.failed.Inc(1)
			n.logger.Error("notification sender panicked",
				zap.Int64("book_id", msg.BookID),
				zap.Any("panic", r),
			)
		}
	}()

	if err := n.sender.Send(ctx, msg); err != nil {
		n.failed.Inc(1)
		n.logger.Error("notification failed",
			zap.Int64("book_id", msg.BookID),
			zap.Error(fmt.Errorf("send confirmation: %w", err)),
		)
		return
	}
	n.sent.Inc(1)
}

func (n *Notifier) logShutdown() {
	if pending := len(n.queue); pending > 0 {
		n.logger.Warn("notifier stopped with pending confirmations", zap.Int("pending", pending))
	}
}
