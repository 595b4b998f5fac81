package checkin

import "time"

// Field names follow the mobile client's contract (camelCase), not the rest
// of the HR suite.

type CreateCheckInRequest struct {
	QRCodeID  string   `json:"qrCodeId"`
	Type      string   `json:"type"`
	Location  string   `json:"location"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Status    string   `json:"status"`
}

// AttendanceRequest is a manual correction: it upserts the attendance record
// for a past date directly, bypassing the event log.
type AttendanceRequest struct {
	Date     string  `json:"date" binding:"required"`
	CheckIn  string  `json:"checkIn"`
	CheckOut string  `json:"checkOut"`
	Status   string  `json:"status"`
	Notes    *string `json:"notes"`
}

type QRCodeResponse struct {
	ID         string  `json:"id"`
	Location   string  `json:"location"`
	Status     string  `json:"status"`
	ExpiryDate *string `json:"expiryDate,omitempty"`
}

type CheckInResponse struct {
	ID         string          `json:"id"`
	EmployeeID string          `json:"employeeId"`
	QRCodeID   *string         `json:"qrCodeId,omitempty"`
	Timestamp  string          `json:"timestamp"`
	Type       string          `json:"type"`
	Location   string          `json:"location"`
	Latitude   *float64        `json:"latitude,omitempty"`
	Longitude  *float64        `json:"longitude,omitempty"`
	Method     string          `json:"method"`
	QRCode     *QRCodeResponse `json:"qrCode,omitempty"`
}

type AttendanceRecordResponse struct {
	ID       string  `json:"id"`
	Date     string  `json:"date"`
	Status   string  `json:"status"`
	CheckIn  *string `json:"checkIn,omitempty"`
	CheckOut *string `json:"checkOut,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

type MonthlyStatsResponse struct {
	TotalDays   int `json:"totalDays"`
	PresentDays int `json:"presentDays"`
	AbsentDays  int `json:"absentDays"`
	LateDays    int `json:"lateDays"`
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimestampPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := formatTimestamp(*t)
	return &v
}
