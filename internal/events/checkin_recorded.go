package events

import "time"

const CheckInRecordedTopic = "hr.attendance.checkin.v1"

// CheckInRecordedEvent is emitted for every accepted check-in/out event,
// after the attendance record has been reconciled with it.
type CheckInRecordedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	EventID    string    `json:"event_id"`
	EmployeeID string    `json:"employee_id"`
	Type       string    `json:"type"`
	Timestamp  time.Time `json:"timestamp"`
	OccurredAt time.Time `json:"occurred_at"`
}
