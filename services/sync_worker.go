package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/zirdl/bunubon/models"
	"go.uber.org/zap"
)

const (
	syncQueueKey     = "title_sync:queue"
	syncJobKeyPrefix = "title_sync:job:"
	syncJobTTL       = 24 * time.Hour
	syncPopTimeout   = 5 * time.Second
)

// ErrSyncJobNotFound is returned for unknown or expired job ids.
var ErrSyncJobNotFound = errors.New("sync job not found")

// SyncJobPayload is what a queued confirm carries.
type SyncJobPayload struct {
	Actor   string                    `json:"actor"`
	Request models.SyncConfirmRequest `json:"request"`
}

// SyncJobHandler runs one queued confirm.
type SyncJobHandler func(ctx context.Context, payload SyncJobPayload) (*models.SyncResult, error)

// SyncQueue is a Redis list of job ids plus one status document and one
// payload document per job, both kept for 24 hours.
type SyncQueue struct {
	rdb    *redis.Client
	logger *zap.Logger
	now    func() time.Time
}

// NewSyncQueue returns nil when rdb is nil.
func NewSyncQueue(rdb *redis.Client, logger *zap.Logger) *SyncQueue {
	if rdb == nil {
		return nil
	}
	return &SyncQueue{rdb: rdb, logger: logger, now: time.Now}
}

// Enqueue stores payload and pushes a new pending job.
func (q *SyncQueue) Enqueue(ctx context.Context, payload SyncJobPayload) (*models.SyncJob, error) {
	now := q.now()
	job := &models.SyncJob{
		ID:        uuid.NewString(),
		Status:    models.SyncJobPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	if err := q.rdb.Set(ctx, payloadKey(job.ID), body, syncJobTTL).Err(); err != nil {
		return nil, fmt.Errorf("store payload: %w", err)
	}
	if err := q.save(ctx, job); err != nil {
		return nil, err
	}
	if err := q.rdb.RPush(ctx, syncQueueKey, job.ID).Err(); err != nil {
		return nil, fmt.Errorf("push job: %w", err)
	}

	q.logger.Info("Sync job enqueued", zap.String("job_id", job.ID), zap.Int("candidates", len(payload.Request.Titles)))
	return job, nil
}

// Get returns the status document of job id.
func (q *SyncQueue) Get(ctx context.Context, id string) (*models.SyncJob, error) {
	raw, err := q.rdb.Get(ctx, jobKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSyncJobNotFound
	}
	if err != nil {
		return nil, err
	}
	var job models.SyncJob
	if err := json.Unmarshal(raw, &job); err != nil {
		return nil, fmt.Errorf("decode job: %w", err)
	}
	return &job, nil
}

// Run pops jobs one at a time until ctx is cancelled.
func (q *SyncQueue) Run(ctx context.Context, handle SyncJobHandler) {
	q.logger.Info("sync worker started", zap.String("queue", syncQueueKey))
	for {
		select {
		case <-ctx.Done():
			q.logger.Info("sync worker stopping")
			return
		default:
		}

		res, err := q.rdb.BLPop(ctx, syncPopTimeout, syncQueueKey).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			q.logger.Error("redis BLPop failed", zap.Error(err))
			time.Sleep(500 * time.Millisecond)
			continue
		}
		if len(res) < 2 {
			continue
		}
		q.process(ctx, res[1], handle)
	}
}

func (q *SyncQueue) process(ctx context.Context, id string, handle SyncJobHandler) {
	job, err := q.Get(ctx, id)
	if err != nil {
		q.logger.Error("failed to read job metadata", zap.String("job", id), zap.Error(err))
		return
	}

	raw, err := q.rdb.Get(ctx, payloadKey(id)).Bytes()
	if err != nil {
		q.fail(ctx, job, fmt.Errorf("read payload: %w", err))
		return
	}
	var payload SyncJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		q.fail(ctx, job, fmt.Errorf("decode payload: %w", err))
		return
	}

	job.Status = models.SyncJobProcessing
	job.UpdatedAt = q.now()
	if err := q.save(ctx, job); err != nil {
		q.logger.Warn("failed to mark job processing", zap.String("job", id), zap.Error(err))
	}

	result, err := handle(ctx, payload)
	if err != nil {
		q.fail(ctx, job, err)
		return
	}

	job.Status = models.SyncJobDone
	job.Result = result
	job.UpdatedAt = q.now()
	if err := q.save(ctx, job); err != nil {
		q.logger.Error("failed to store job result", zap.String("job", id), zap.Error(err))
	}
	_ = q.rdb.Del(ctx, payloadKey(id)).Err()
}

func (q *SyncQueue) fail(ctx context.Context, job *models.SyncJob, cause error) {
	q.logger.Error("sync job failed", zap.String("job", job.ID), zap.Error(cause))
	job.Status = models.SyncJobFailed
	job.Error = cause.Error()
	job.UpdatedAt = q.now()
	if err := q.save(ctx, job); err != nil {
		q.logger.Error("failed to store job failure", zap.String("job", job.ID), zap.Error(err))
	}
	_ = q.rdb.Del(ctx, payloadKey(job.ID)).Err()
}

func (q *SyncQueue) save(ctx context.Context, job *models.SyncJob) error {
	b, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if err := q.rdb.Set(ctx, jobKey(job.ID), b, syncJobTTL).Err(); err != nil {
		return fmt.Errorf("store job: %w", err)
	}
	return nil
}

// StartSyncWorker runs queued confirms through svc in a background goroutine.
func StartSyncWorker(ctx context.Context, queue *SyncQueue, svc SyncService) {
	if queue == nil || svc == nil {
		zap.L().Warn("sync worker not started: missing dependencies")
		return
	}
	go queue.Run(ctx, func(ctx context.Context, p SyncJobPayload) (*models.SyncResult, error) {
		result, svcErr := svc.Confirm(ctx, p.Actor, &p.Request)
		if svcErr != nil {
			return nil, svcErr
		}
		return result, nil
	})
}

func jobKey(id string) string     { return syncJobKeyPrefix + id }
func payloadKey(id string) string { return syncJobKeyPrefix + id + ":payload" }
