package notify

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

const previewLen = 50

// ErrNotAddressable is returned by a sender that cannot reach this kind of user id.
var ErrNotAddressable = errors.New("recipient not addressable by this sender")

// Sender delivers a message to a user.
type Sender interface {
	Send(ctx context.Context, userID, message string) error
}

// LogNotifier writes deliveries to the log instead of a chat channel.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Send logs a preview of the message.
func (n *LogNotifier) Send(_ context.Context, userID, message string) error {
	n.logger.Info("delivering message",
		zap.String("user_id", userID),
		zap.String("preview", preview(message)),
		zap.Int("length", len(message)),
	)
	return nil
}

func preview(s string) string {
	r := []rune(s)
	if len(r) <= previewLen {
		return s
	}
	return string(r[:previewLen]) + "..."
}

// Multi fans a message out to every sender. A failing sender does not stop
// the others; all failures are joined. Senders that cannot address the user
// are skipped, and if none could, ErrNotAddressable is returned.
type Multi struct {
	senders []Sender
}

// NewMulti creates a fan-out sender. Nil senders are ignored.
func NewMulti(senders ...Sender) *Multi {
	m := &Multi{}
	for _, s := range senders {
		if s != nil {
			m.senders = append(m.senders, s)
		}
	}
	return m
}

// Len returns the number of senders.
func (m *Multi) Len() int {
	return len(m.senders)
}

// Send delivers to every sender.
func (m *Multi) Send(ctx context.Context, userID, message string) error {
	var errs []error
	delivered := 0
	for i, s := range m.senders {
		err := s.Send(ctx, userID, message)
		switch {
		case err == nil:
			delivered++
		case errors.Is(err, ErrNotAddressable):
		default:
			errs = append(errs, fmt.Errorf("sender %d: %w", i, err))
		}
	}

	if len(errs) == 0 && delivered == 0 && len(m.senders) > 0 {
		return ErrNotAddressable
	}
	return errors.Join(errs...)
}
