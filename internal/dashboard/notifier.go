package dashboard

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/plastic-waste-dashboard/internal/domain"
)

// LogNotifier only logs report requests. It backs NOTIFY_BACKEND=none for
// local development where no mailer is deployed.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// RequestReport logs req and always succeeds.
func (n *LogNotifier) RequestReport(_ context.Context, req domain.ReportRequest) error {
	n.logger.Info("report request dropped, no notify backend configured",
		"request_id", req.ID,
		"email", req.Email,
	)
	return nil
}
