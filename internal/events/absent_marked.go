package events

import "time"

const AbsentMarkedTopic = "hr.attendance.daily.v1"

// AbsentMarkedEvent is emitted by the reconciliation job for each employee it
// defaulted to ABSENT. Consumers use RecordID for dedupe.
type AbsentMarkedEvent struct {
	EventType  string    `json:"event_type"`
	RecordID   string    `json:"record_id"`
	EmployeeID string    `json:"employee_id"`
	Date       string    `json:"date"`
	OccurredAt time.Time `json:"occurred_at"`
}
