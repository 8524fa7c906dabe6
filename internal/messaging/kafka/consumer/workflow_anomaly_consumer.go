package consumer

import (
	"context"
	"encoding/json"

	"go-leave/internal/events"

	"go.uber.org/zap"
)

// ConsumeWorkflowAnomaly surfaces approvals whose workflow found no request
// to act on. Nothing is repaired automatically.
func ConsumeWorkflowAnomaly(
	ctx context.Context,
	reader Reader,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.workflow_anomaly")
	log.Info("workflow anomaly consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("workflow anomaly consumer stopped")
				return
			}
			log.Error("fetch workflow anomaly message failed", zap.Error(err))
			continue
		}

		var event events.WorkflowAnomalyEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode workflow anomaly event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		log.Warn("approval recorded without a matching leave request",
			zap.String("approval_id", event.ApprovalID),
			zap.String("leave_request_id", event.LeaveRequestID),
			zap.String("decision", event.Decision),
			zap.String("reason", event.Reason),
			zap.String("request_id", event.RequestID),
		)

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit workflow anomaly message failed", zap.Error(err))
		}
	}
}
