package attendance

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultCronSpec fires at midnight in the deployment timezone, the moment a
// new attendance day starts.
const DefaultCronSpec = "0 0 * * *"

// Job owns the recurring schedule around the Reconciler. It is constructed
// stopped; Start arms the timer and Stop waits for any in-flight run before
// returning, so shutdown never abandons a half-processed batch.
type Job struct {
	cron       *cron.Cron
	reconciler *Reconciler
	logger     *zap.Logger

	mu      sync.Mutex
	started bool
}

func NewJob(reconciler *Reconciler, spec string, loc *time.Location, logger ...*zap.Logger) (*Job, error) {
	l := zap.L().Named("attendance.job")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.job")
	}

	if spec == "" {
		spec = DefaultCronSpec
	}

	j := &Job{
		cron:       cron.New(cron.WithLocation(loc)),
		reconciler: reconciler,
		logger:     l,
	}

	if _, err := j.cron.AddFunc(spec, j.run); err != nil {
		return nil, err
	}

	return j, nil
}

func (j *Job) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if _, err := j.reconciler.MarkAbsentForToday(ctx); err != nil {
		j.logger.Error("scheduled reconciliation failed", zap.Error(err))
	}
}

func (j *Job) Start() {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.started {
		return
	}
	j.cron.Start()
	j.started = true
	j.logger.Info("attendance reconciliation job started")
}

// Stop is idempotent and blocks until a running reconciliation finishes.
func (j *Job) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()

	if !j.started {
		return
	}
	<-j.cron.Stop().Done()
	j.started = false
	j.logger.Info("attendance reconciliation job stopped")
}

// RunNow triggers one reconciliation outside the schedule, for operational
// testing and backfill.
func (j *Job) RunNow(ctx context.Context) (ReconcileSummary, error) {
	return j.reconciler.MarkAbsentForToday(ctx)
}
