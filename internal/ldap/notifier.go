package ldap

import (
	"context"

	"go.uber.org/zap"
)

// Notifier receives failure details that are deliberately kept out of an
// operation's return value, as Authenticate does with bind errors. Delivery
// is fire-and-forget; implementations must not panic.
type Notifier interface {
	Notify(ctx context.Context, operation string, err error)
}

// LogNotifier reports failures through a zap logger. It is the default sink
// when no notifier is injected.
type LogNotifier struct {
	Log *zap.Logger
}

func (n *LogNotifier) Notify(_ context.Context, operation string, err error) {
	n.Log.Warn("directory operation failed",
		zap.String("operation", operation),
		zap.Error(err),
	)
}
