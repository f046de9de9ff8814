package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	jobmetrics "github.com/carelink-his/carelink/internal/jobs"
	"github.com/carelink-his/carelink/internal/refdata"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// warmupConcurrency caps parallel loads against the backing store.
const warmupConcurrency = 4

// RefdataWarmupJob pre-populates the reference-data cache so the first
// interactive request after a restart or invalidation does not pay the
// load cost.
type RefdataWarmupJob struct {
	Refdata *refdata.Service
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewRefdataWarmupJob wires dependencies for the warmup handler.
func NewRefdataWarmupJob(refdataSvc *refdata.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *RefdataWarmupJob {
	return &RefdataWarmupJob{
		Refdata: refdataSvc,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes refdata warmup tasks.
func (j *RefdataWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Refdata == nil {
		return errors.New("refdata warmup: handler not configured")
	}
	var payload RefdataWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	tracker := j.metrics().Track(TaskRefdataWarmup)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	types, err := resolveTypes(payload.Types)
	if err != nil {
		resultErr = asynq.SkipRetry
		j.logger().Error("resolve warmup types", slog.Any("error", err))
		return resultErr
	}

	logger := j.logger().With(slog.Int("types", len(types)))
	logger.Info("starting refdata warmup")
	start := j.now()

	g, warmCtx := errgroup.WithContext(ctx)
	g.SetLimit(warmupConcurrency)
	for _, t := range types {
		g.Go(func() error {
			if _, err := j.Refdata.Collection(warmCtx, t); err != nil {
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		resultErr = err
		logger.Error("warm reference types", slog.Any("error", err))
		return resultErr
	}

	// Bulk collection last so it reuses whatever the per-type loads cached.
	if len(payload.Types) == 0 {
		if _, err := j.Refdata.All(ctx); err != nil {
			resultErr = err
			logger.Error("warm bulk collection", slog.Any("error", err))
			return resultErr
		}
	}

	warmed := len(types)
	if len(payload.Types) == 0 {
		warmed++
	}
	j.metrics().AddWarmedKeys(TaskRefdataWarmup, warmed)
	logger.Info("completed refdata warmup",
		slog.Int("keys", warmed),
		slog.Duration("duration", time.Since(start)))
	return resultErr
}

func resolveTypes(names []string) ([]refdata.Type, error) {
	if len(names) == 0 {
		return refdata.Types(), nil
	}
	types := make([]refdata.Type, 0, len(names))
	for _, name := range names {
		t, err := refdata.ParseType(name)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, nil
}

func (j *RefdataWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskRefdataWarmup))
	}
	return slog.Default().With(slog.String("job", TaskRefdataWarmup))
}

func (j *RefdataWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *RefdataWarmupJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
