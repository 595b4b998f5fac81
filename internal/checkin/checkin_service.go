package checkin

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-attend/internal/attendance"
	checkinerrors "go-attend/internal/checkin/errors"
	"go-attend/internal/employee"
	employeeerrors "go-attend/internal/employee/errors"
	"go-attend/internal/events"
	"go-attend/internal/messaging/kafka"
	"go-attend/internal/qrcode"
	"go-attend/internal/shared/contextutil"
	"go-attend/internal/shared/workday"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const statsCacheTTL = 5 * time.Minute

func statsCacheKey(employeeID string, month time.Time) string {
	return fmt.Sprintf("attendance:stats:%s:%s", employeeID, month.Format("2006-01"))
}

type Service interface {
	Create(ctx context.Context, userID string, req CreateCheckInRequest) (CheckInResponse, error)
	GetHistory(ctx context.Context, userID string) ([]CheckInResponse, error)
	GetToday(ctx context.Context, userID string) ([]CheckInResponse, error)
	GetMonthlyStats(ctx context.Context, userID string) (MonthlyStatsResponse, error)
	SubmitCorrection(ctx context.Context, userID string, req AttendanceRequest) (AttendanceRecordResponse, string, error)
	GetMonthlyRecords(ctx context.Context, userID string) ([]AttendanceRecordResponse, error)
}

type service struct {
	db          *sql.DB
	repo        Repository
	attendances attendance.Repository
	employees   employee.Repository
	qrResolver  *qrcode.Resolver
	outbox      kafka.OutboxRepository
	rdb         *redis.Client
	sf          *singleflight.Group
	loc         *time.Location
	logger      *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	attendances attendance.Repository,
	employees employee.Repository,
	qrResolver *qrcode.Resolver,
	loc *time.Location,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	return NewServiceWithOutbox(db, repo, attendances, employees, qrResolver, nil, loc, rdb, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	attendances attendance.Repository,
	employees employee.Repository,
	qrResolver *qrcode.Resolver,
	outboxRepo kafka.OutboxRepository,
	loc *time.Location,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("checkin.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("checkin.service")
	}
	return &service{
		db:          db,
		repo:        repo,
		attendances: attendances,
		employees:   employees,
		qrResolver:  qrResolver,
		outbox:      outboxRepo,
		rdb:         rdb,
		sf:          &singleflight.Group{},
		loc:         loc,
		logger:      l,
	}
}

func (s *service) resolveEmployee(ctx context.Context, userID string) (*employee.Employee, error) {
	emp, err := s.employees.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, employeeerrors.ErrEmployeeNotFound
		}
		return nil, err
	}
	return emp, nil
}

// Create records one check-in/out event and brings the daily attendance
// record in line with it. The event insert and the record upsert share a
// transaction; the unique key on (employee_id, date) arbitrates races with
// the reconciler and with concurrent events for the same employee.
func (s *service) Create(ctx context.Context, userID string, req CreateCheckInRequest) (CheckInResponse, error) {
	md := contextutil.ExtractMetadata(ctx)
	log := contextutil.GetLogger(ctx, s.logger)

	emp, err := s.resolveEmployee(ctx, userID)
	if err != nil {
		return CheckInResponse{}, err
	}

	eventType := strings.ToUpper(strings.TrimSpace(req.Type))
	if eventType == "" {
		eventType = TypeCheckIn
	}
	if !ValidEventType(eventType) {
		return CheckInResponse{}, checkinerrors.ErrInvalidEventType
	}

	statusOverride := strings.ToUpper(strings.TrimSpace(req.Status))
	if statusOverride != "" && !attendance.ValidStatus(statusOverride) {
		return CheckInResponse{}, checkinerrors.ErrInvalidStatus
	}

	now := time.Now()
	today := workday.StartOfDay(now, s.loc)

	var qr *qrcode.QRCode
	if req.QRCodeID != "" {
		qr, err = s.qrResolver.Resolve(ctx, req.QRCodeID, now)
		if err != nil {
			return CheckInResponse{}, err
		}
	}

	if eventType == TypeCheckOut {
		_, err := s.repo.FindLastCheckInSince(ctx, emp.ID.String(), today)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return CheckInResponse{}, checkinerrors.ErrNoCheckInToday
			}
			return CheckInResponse{}, err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("create check-in begin tx failed", zap.Error(err))
		return CheckInResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	atx := s.attendances.WithTx(tx)

	event := &CheckInOut{
		ID:         uuid.New(),
		EmployeeID: emp.ID,
		Timestamp:  now.UTC(),
		Type:       eventType,
		Location:   resolveLocation(req.Location, qr, emp),
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		Method:     MethodManual,
	}
	if qr != nil {
		id := qr.ID
		event.QRCodeID = &id
		event.Method = MethodQRCode
	}

	if err := qtx.Create(ctx, event); err != nil {
		log.Error("persist check-in event failed",
			zap.String("employee_id", emp.ID.String()),
			zap.Error(err),
		)
		return CheckInResponse{}, err
	}

	if err := s.reconcileAttendance(ctx, atx, emp.ID, today, eventType, statusOverride, now); err != nil {
		log.Error("reconcile attendance record failed",
			zap.String("employee_id", emp.ID.String()),
			zap.Error(err),
		)
		return CheckInResponse{}, err
	}

	if s.outbox != nil {
		if err := s.queueCheckInRecorded(ctx, tx, md.RequestID, event); err != nil {
			return CheckInResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("create check-in commit failed", zap.Error(err))
		return CheckInResponse{}, err
	}

	s.invalidateStatsCache(ctx, emp.ID.String(), today)

	log.Info("check-in event recorded",
		zap.String("employee_id", emp.ID.String()),
		zap.String("type", eventType),
		zap.String("method", event.Method),
	)

	return mapToResponse(event, qr), nil
}

// reconcileAttendance applies one event to the daily summary row.
//
// Transitions: a missing row is created PRESENT (or the caller's override); an
// ABSENT row hit by a CHECK_IN flips to PRESENT/override, undoing the
// reconciler's default; any other row keeps its status unless the caller
// explicitly supplied a different one. CHECK_IN only ever writes check_in,
// CHECK_OUT only check_out.
func (s *service) reconcileAttendance(
	ctx context.Context,
	repo attendance.Repository,
	employeeID uuid.UUID,
	today time.Time,
	eventType, statusOverride string,
	eventTime time.Time,
) error {
	rec, err := repo.FindByEmployeeAndDate(ctx, employeeID.String(), today)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		rec = &attendance.AttendanceRecord{
			ID:         uuid.New(),
			EmployeeID: employeeID,
			Date:       today,
			Status:     orDefault(statusOverride, attendance.StatusPresent),
		}
		setEventTime(rec, eventType, eventTime)

		err = repo.Create(ctx, rec)
		if err == nil {
			return nil
		}
		if !attendance.IsDuplicateRecord(err) {
			return err
		}

		// Lost the insert race (reconciler or a concurrent event); fall
		// through to the update path against the winning row.
		rec, err = repo.FindByEmployeeAndDate(ctx, employeeID.String(), today)
		if err != nil {
			return err
		}
	}

	setEventTime(rec, eventType, eventTime)

	if rec.Status == attendance.StatusAbsent && eventType == TypeCheckIn {
		rec.Status = orDefault(statusOverride, attendance.StatusPresent)
	} else if statusOverride != "" && statusOverride != rec.Status {
		rec.Status = statusOverride
	}

	return repo.Update(ctx, rec)
}

func setEventTime(rec *attendance.AttendanceRecord, eventType string, t time.Time) {
	ts := t.UTC()
	if eventType == TypeCheckIn {
		rec.CheckIn = &ts
	} else {
		rec.CheckOut = &ts
	}
}

func (s *service) queueCheckInRecorded(ctx context.Context, tx *sql.Tx, rid string, event *CheckInOut) error {
	payload, err := json.Marshal(events.CheckInRecordedEvent{
		EventType:  "attendance_checkin_recorded",
		RequestID:  rid,
		EventID:    event.ID.String(),
		EmployeeID: event.EmployeeID.String(),
		Type:       event.Type,
		Timestamp:  event.Timestamp,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		s.logger.Error("marshal checkin_recorded event failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "check_in_out",
		AggregateID:   event.ID.String(),
		EventType:     "attendance_checkin_recorded",
		Topic:         events.CheckInRecordedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) GetHistory(ctx context.Context, userID string) ([]CheckInResponse, error) {
	emp, err := s.resolveEmployee(ctx, userID)
	if err != nil {
		return nil, err
	}

	evs, err := s.repo.FindRecentByEmployee(ctx, emp.ID.String(), 50)
	if err != nil {
		return nil, err
	}

	return mapToListResponse(evs), nil
}

func (s *service) GetToday(ctx context.Context, userID string) ([]CheckInResponse, error) {
	emp, err := s.resolveEmployee(ctx, userID)
	if err != nil {
		return nil, err
	}

	today := workday.StartOfDay(time.Now(), s.loc)
	tomorrow := today.AddDate(0, 0, 1)

	evs, err := s.repo.FindByEmployeeBetween(ctx, emp.ID.String(), today, tomorrow)
	if err != nil {
		return nil, err
	}

	return mapToListResponse(evs), nil
}

func (s *service) GetMonthlyStats(ctx context.Context, userID string) (MonthlyStatsResponse, error) {
	emp, err := s.resolveEmployee(ctx, userID)
	if err != nil {
		return MonthlyStatsResponse{}, err
	}

	now := time.Now()
	cacheKey := statsCacheKey(emp.ID.String(), now.In(s.loc))

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var stats MonthlyStatsResponse
			if json.Unmarshal([]byte(cached), &stats) == nil {
				return stats, nil
			}
		}
	}

	// Dashboards poll this endpoint; singleflight collapses concurrent misses
	// into one query per employee.
	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		first, next := workday.MonthBounds(now, s.loc)
		recs, err := s.attendances.FindByEmployeeBetween(ctx, emp.ID.String(), first, next)
		if err != nil {
			return nil, err
		}

		stats := MonthlyStatsResponse{
			TotalDays: workday.DaysInMonth(now, s.loc),
		}
		for _, rec := range recs {
			switch rec.Status {
			case attendance.StatusPresent:
				stats.PresentDays++
			case attendance.StatusAbsent:
				stats.AbsentDays++
			case attendance.StatusLate:
				stats.LateDays++
			}
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(stats); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, statsCacheTTL)
			}
		}

		return stats, nil
	})
	if err != nil {
		return MonthlyStatsResponse{}, err
	}

	return v.(MonthlyStatsResponse), nil
}

// SubmitCorrection upserts the attendance record for an arbitrary date.
// Returns the record plus a human message saying whether it was created or
// updated.
func (s *service) SubmitCorrection(ctx context.Context, userID string, req AttendanceRequest) (AttendanceRecordResponse, string, error) {
	emp, err := s.resolveEmployee(ctx, userID)
	if err != nil {
		return AttendanceRecordResponse{}, "", err
	}

	day, err := time.ParseInLocation("2006-01-02", req.Date, s.loc)
	if err != nil {
		return AttendanceRecordResponse{}, "", checkinerrors.ErrInvalidDate
	}

	status := strings.ToUpper(strings.TrimSpace(req.Status))
	if status != "" && !attendance.ValidStatus(status) {
		return AttendanceRecordResponse{}, "", checkinerrors.ErrInvalidStatus
	}

	checkIn := s.parseClockTime(day, req.CheckIn)
	checkOut := s.parseClockTime(day, req.CheckOut)

	rec, err := s.attendances.FindByEmployeeAndDate(ctx, emp.ID.String(), day)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return AttendanceRecordResponse{}, "", err
	}

	created := errors.Is(err, gorm.ErrRecordNotFound)
	if created {
		rec = &attendance.AttendanceRecord{
			ID:         uuid.New(),
			EmployeeID: emp.ID,
			Date:       day,
			Status:     orDefault(status, attendance.StatusPresent),
		}
		applyCorrection(rec, "", checkIn, checkOut, req.Notes)

		if err := s.attendances.Create(ctx, rec); err != nil {
			if !attendance.IsDuplicateRecord(err) {
				return AttendanceRecordResponse{}, "", err
			}
			// Concurrent writer got there first; correct that row instead.
			rec, err = s.attendances.FindByEmployeeAndDate(ctx, emp.ID.String(), day)
			if err != nil {
				return AttendanceRecordResponse{}, "", err
			}
			created = false
		}
	}

	if !created {
		applyCorrection(rec, status, checkIn, checkOut, req.Notes)
		if err := s.attendances.Update(ctx, rec); err != nil {
			return AttendanceRecordResponse{}, "", err
		}
	}

	s.invalidateStatsCache(ctx, emp.ID.String(), day)

	message := "Attendance record updated successfully"
	if created {
		message = "Attendance record created successfully"
	}

	s.logger.Info("attendance correction applied",
		zap.String("employee_id", emp.ID.String()),
		zap.String("date", req.Date),
		zap.Bool("created", created),
	)

	return mapRecordToResponse(rec), message, nil
}

func applyCorrection(rec *attendance.AttendanceRecord, status string, checkIn, checkOut *time.Time, notes *string) {
	if status != "" {
		rec.Status = status
	}
	if checkIn != nil {
		rec.CheckIn = checkIn
	}
	if checkOut != nil {
		rec.CheckOut = checkOut
	}
	if notes != nil && strings.TrimSpace(*notes) != "" {
		rec.Notes = notes
	}
}

// parseClockTime combines a day with a wall-clock string ("09:00" or
// "09:00:30"). Unparseable values are dropped, matching the lenient contract
// the mobile client relies on.
func (s *service) parseClockTime(day time.Time, clock string) *time.Time {
	clock = strings.TrimSpace(clock)
	if clock == "" {
		return nil
	}

	var parsed time.Time
	var err error
	for _, layout := range []string{"15:04:05", "15:04"} {
		parsed, err = time.Parse(layout, clock)
		if err == nil {
			break
		}
	}
	if err != nil {
		s.logger.Debug("ignoring unparseable clock time", zap.String("value", clock))
		return nil
	}

	t := time.Date(day.Year(), day.Month(), day.Day(),
		parsed.Hour(), parsed.Minute(), parsed.Second(), 0, s.loc).UTC()
	return &t
}

func (s *service) GetMonthlyRecords(ctx context.Context, userID string) ([]AttendanceRecordResponse, error) {
	emp, err := s.resolveEmployee(ctx, userID)
	if err != nil {
		return nil, err
	}

	first, next := workday.MonthBounds(time.Now(), s.loc)
	recs, err := s.attendances.FindRecentByEmployeeBetween(ctx, emp.ID.String(), first, next, 10)
	if err != nil {
		return nil, err
	}

	res := make([]AttendanceRecordResponse, len(recs))
	for i := range recs {
		res[i] = mapRecordToResponse(&recs[i])
	}
	return res, nil
}

func (s *service) invalidateStatsCache(ctx context.Context, employeeID string, day time.Time) {
	if s.rdb == nil {
		return
	}
	cacheKey := statsCacheKey(employeeID, day.In(s.loc))
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Warn("invalidate stats cache failed",
			zap.String("key", cacheKey),
			zap.Error(err),
		)
	}
}

// resolveLocation picks the event location: the caller's value, then the
// scanned code's location, then the employee's department name.
func resolveLocation(requested string, qr *qrcode.QRCode, emp *employee.Employee) string {
	if requested != "" {
		return requested
	}
	if qr != nil && qr.Location != "" {
		return qr.Location
	}
	return emp.DepartmentName()
}

func orDefault(s, def string) string {
	if s != "" {
		return s
	}
	return def
}

func mapToResponse(e *CheckInOut, qr *qrcode.QRCode) CheckInResponse {
	resp := CheckInResponse{
		ID:         e.ID.String(),
		EmployeeID: e.EmployeeID.String(),
		Timestamp:  formatTimestamp(e.Timestamp),
		Type:       e.Type,
		Location:   e.Location,
		Latitude:   e.Latitude,
		Longitude:  e.Longitude,
		Method:     e.Method,
	}
	if e.QRCodeID != nil {
		id := e.QRCodeID.String()
		resp.QRCodeID = &id
	}
	if qr == nil {
		qr = e.QRCode
	}
	if qr != nil {
		resp.QRCode = &QRCodeResponse{
			ID:         qr.ID.String(),
			Location:   qr.Location,
			Status:     qr.Status,
			ExpiryDate: formatTimestampPtr(qr.ExpiryDate),
		}
	}
	return resp
}

func mapToListResponse(evs []CheckInOut) []CheckInResponse {
	res := make([]CheckInResponse, len(evs))
	for i := range evs {
		res[i] = mapToResponse(&evs[i], nil)
	}
	return res
}

func mapRecordToResponse(rec *attendance.AttendanceRecord) AttendanceRecordResponse {
	return AttendanceRecordResponse{
		ID:       rec.ID.String(),
		Date:     rec.Date.Format("2006-01-02"),
		Status:   rec.Status,
		CheckIn:  formatTimestampPtr(rec.CheckIn),
		CheckOut: formatTimestampPtr(rec.CheckOut),
		Notes:    rec.Notes,
	}
}
