package lambda

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awslambda "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/couchcryptid/plastic-waste-dashboard/internal/domain"
)

// API is the subset of the Lambda client used by Notifier.
type API interface {
	Invoke(ctx context.Context, params *awslambda.InvokeInput, optFns ...func(*awslambda.Options)) (*awslambda.InvokeOutput, error)
}

// Notifier implements domain.Notifier by synchronously invoking the mailer
// function with {"email": "..."}.
type Notifier struct {
	api      API
	function string
	logger   *slog.Logger
}

// NewNotifier creates a Notifier invoking function through api.
func NewNotifier(api API, function string, logger *slog.Logger) *Notifier {
	return &Notifier{api: api, function: function, logger: logger}
}

// NewFromConfig creates a Notifier with a client built from ambient AWS configuration.
func NewFromConfig(cfg aws.Config, function string, logger *slog.Logger) *Notifier {
	return NewNotifier(awslambda.NewFromConfig(cfg), function, logger)
}

// RequestReport invokes the function once, waiting for its response.
func (n *Notifier) RequestReport(ctx context.Context, req domain.ReportRequest) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("%w: encode payload: %w", domain.ErrDispatchFailure, err)
	}

	out, err := n.api.Invoke(ctx, &awslambda.InvokeInput{
		FunctionName:   aws.String(n.function),
		InvocationType: types.InvocationTypeRequestResponse,
		Payload:        payload,
	})
	if err != nil {
		return fmt.Errorf("%w: invoke %s: %w", domain.ErrDispatchFailure, n.function, err)
	}

	n.logger.Info("report function responded",
		"request_id", req.ID,
		"function", n.function,
		"status", out.StatusCode,
		"executed_version", aws.ToString(out.ExecutedVersion),
		"response", string(out.Payload),
	)

	if out.FunctionError != nil {
		return fmt.Errorf("%w: %s returned %s: %s",
			domain.ErrDispatchFailure, n.function, aws.ToString(out.FunctionError), out.Payload)
	}
	if out.StatusCode < 200 || out.StatusCode > 299 {
		return fmt.Errorf("%w: %s returned status %d", domain.ErrDispatchFailure, n.function, out.StatusCode)
	}
	return nil
}
