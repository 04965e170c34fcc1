package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"capsule-desk-backend/config"
	reports_services "capsule-desk-backend/reports/services"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TypeDailyReport identifies the daily operations report task. The scheduler
// enqueues it every morning; the send endpoint enqueues the same task on
// demand.
const TypeDailyReport = "reports:daily"

type DailyReportPayload struct {
	RequestedBy string `json:"requested_by,omitempty"`
}

func NewDailyReportTask(requestedBy string) (*asynq.Task, error) {
	payload, err := json.Marshal(DailyReportPayload{RequestedBy: requestedBy})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal daily report payload: %w", err)
	}
	return asynq.NewTask(TypeDailyReport,
		payload,
		asynq.MaxRetry(3),
		asynq.Timeout(2*time.Minute),
	), nil
}

type DailyReportHandler struct {
	service *reports_services.ReportService
}

func NewDailyReportHandler(service *reports_services.ReportService) *DailyReportHandler {
	return &DailyReportHandler{service: service}
}

func (h *DailyReportHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload DailyReportPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			// A payload we cannot read will not get better on retry.
			return fmt.Errorf("failed to unmarshal daily report payload: %v: %w", err, asynq.SkipRetry)
		}
	}

	config.Logger.Info("Processing daily report task",
		zap.String("requested_by", payload.RequestedBy))
	return h.service.SendDailyReport(ctx)
}
