package notification

import (
	"context"
	"log/slog"
)

const (
	// KindPaymentSubmitted indicates an outgoing payment accepted by the node.
	KindPaymentSubmitted = "payment_submitted"
	// KindImportSubmitted indicates a sweep from an imported key accepted by
	// the node.
	KindImportSubmitted = "import_submitted"
)

// Message describes a notification payload.
type Message struct {
	Kind        string
	TxID        string
	Destination string
	Amount      int64 // drops
}

// Notifier delivers notifications to downstream systems.
type Notifier interface {
	Send(ctx context.Context, message Message) error
}

// LoggerNotifier is a stub implementation that writes notifications to the logger.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier stub.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Send writes the message to the structured logger.
func (n *LoggerNotifier) Send(_ context.Context, message Message) error {
	if n == nil || n.logger == nil {
		return nil
	}
	n.logger.Info("notification",
		"kind", message.Kind,
		"tx_id", message.TxID,
		"destination", message.Destination,
		"amount", message.Amount)
	return nil
}
