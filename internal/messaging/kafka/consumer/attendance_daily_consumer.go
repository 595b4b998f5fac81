package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"go-attend/internal/events"
	"go-attend/internal/notification"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeAttendanceDaily turns absent_marked events into notifications for
// the back-office. Delivery is at-least-once; the unique event id on the
// notification row absorbs replays.
func ConsumeAttendanceDaily(
	ctx context.Context,
	reader *kafkago.Reader,
	notifications notification.Repository,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.attendance_daily")
	log.Info("attendance daily consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("attendance daily consumer stopped")
				return
			}
			log.Error("fetch attendance daily message failed", zap.Error(err))
			continue
		}

		var event events.AbsentMarkedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode absent_marked event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		employeeID, err := uuid.Parse(event.EmployeeID)
		if err != nil {
			log.Error("absent_marked event has invalid employee id",
				zap.String("employee_id", event.EmployeeID),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		n := &notification.Notification{
			ID:         uuid.New(),
			EventID:    event.RecordID,
			EmployeeID: employeeID,
			Type:       notification.TypeAbsentMarked,
			Title:      "Employee Marked Absent",
			Message:    fmt.Sprintf("No check-in was recorded for %s; the employee was marked absent.", event.Date),
		}

		if err := notifications.Create(ctx, n); err != nil {
			if notification.IsDuplicateEvent(err) {
				log.Warn("notification already exists for event, skipping",
					zap.String("record_id", event.RecordID),
				)
				_ = reader.CommitMessages(ctx, msg)
				continue
			}

			log.Error("create absence notification failed",
				zap.String("record_id", event.RecordID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit attendance daily message failed", zap.Error(err))
			continue
		}

		log.Info("absence notification created",
			zap.String("record_id", event.RecordID),
			zap.String("employee_id", event.EmployeeID),
		)
	}
}
