package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ReportRequest asks the mailer to send the detailed report to Email.
// The address is forwarded exactly as entered.
type ReportRequest struct {
	ID          string    `json:"-"`
	Email       string    `json:"email"`
	RequestedAt time.Time `json:"-"`
}

// NewReportRequest stamps a request with a fresh id.
func NewReportRequest(email string, now time.Time) ReportRequest {
	return ReportRequest{
		ID:          uuid.NewString(),
		Email:       email,
		RequestedAt: now,
	}
}

// Notifier dispatches report requests to the mailer backend.
type Notifier interface {
	// RequestReport delivers req once. Failures wrap ErrDispatchFailure.
	RequestReport(ctx context.Context, req ReportRequest) error
}
