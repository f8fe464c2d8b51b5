package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/zirdl/bunubon/models"
	aws_pkg "github.com/zirdl/bunubon/pkg/aws"
	"github.com/zirdl/bunubon/pkg/logger"
	"github.com/zirdl/bunubon/repository"
	"github.com/zirdl/bunubon/sheets"
	"github.com/zirdl/bunubon/titlesync"
	"go.uber.org/zap"
)

const eventTitleSyncCompleted = "title_sync_completed"

// SyncService drives spreadsheet preview and confirm.
type SyncService interface {
	Preview(ctx context.Context, req *models.SyncPreviewRequest) (*models.SyncPreviewResponse, *ServiceError)
	Confirm(ctx context.Context, actor string, req *models.SyncConfirmRequest) (*models.SyncResult, *ServiceError)
	Enqueue(ctx context.Context, actor string, req *models.SyncConfirmRequest) (*models.SyncJob, *ServiceError)
	GetJob(ctx context.Context, id string) (*models.SyncJob, *ServiceError)
	ListRuns(ctx context.Context, page, limit int) ([]models.SyncRun, int64, *ServiceError)
}

type syncServiceImpl struct {
	engine      *titlesync.Engine
	source      sheets.Source
	runs        repository.SyncRunRepository
	queue       *SyncQueue
	cache       *CacheManager
	snsClient   aws_pkg.SNSPublisher
	snsTopicArn string
	metrics     aws_pkg.MetricsRecorder
	logger      *zap.Logger
}

// NewSyncService creates a new SyncService. source, queue, cache, snsClient
// and metrics are optional.
func NewSyncService(
	engine *titlesync.Engine,
	source sheets.Source,
	runs repository.SyncRunRepository,
	queue *SyncQueue,
	cache *CacheManager,
	snsClient aws_pkg.SNSPublisher,
	snsTopicArn string,
	metrics aws_pkg.MetricsRecorder,
	logger *zap.Logger,
) SyncService {
	return &syncServiceImpl{
		engine:      engine,
		source:      source,
		runs:        runs,
		queue:       queue,
		cache:       cache,
		snsClient:   snsClient,
		snsTopicArn: snsTopicArn,
		metrics:     metrics,
		logger:      logger,
	}
}

// Preview fetches and maps a sheet range without touching the database.
func (s *syncServiceImpl) Preview(ctx context.Context, req *models.SyncPreviewRequest) (*models.SyncPreviewResponse, *ServiceError) {
	if s.source == nil {
		return nil, &ServiceError{StatusCode: http.StatusServiceUnavailable, Message: "Spreadsheet source is not configured"}
	}

	rows, err := s.source.ReadRange(ctx, req.SheetID, req.Range)
	if err != nil {
		logger.FromContext(ctx, s.logger).Warn("Failed to read spreadsheet", zap.String("sheet_id", req.SheetID), zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusBadGateway, Message: "Failed to read spreadsheet: " + err.Error()}
	}

	mapping := titlesync.HeaderMapping(req.Mapping)
	titles := titlesync.MapRowsToTitles(rows, mapping)
	return &models.SyncPreviewResponse{
		Titles:        titles,
		Count:         len(titles),
		UnknownFields: mapping.UnknownTargets(),
	}, nil
}

// Confirm upserts the reviewed candidates. Row failures are part of the
// result; only a failure to load municipalities is an error.
func (s *syncServiceImpl) Confirm(ctx context.Context, actor string, req *models.SyncConfirmRequest) (*models.SyncResult, *ServiceError) {
	result, err := s.engine.SyncTitles(ctx, req.Titles)
	if err != nil {
		logger.FromContext(ctx, s.logger).Error("Title sync failed", zap.String("actor", actor), zap.Error(err))
		return nil, internal("Failed to load municipalities")
	}

	run := &models.SyncRun{
		StartedBy:   actor,
		SheetID:     req.SheetID,
		SheetRange:  req.Range,
		Candidates:  len(req.Titles),
		Inserted:    result.Inserted,
		Updated:     result.Updated,
		ErrorCount:  len(result.Errors),
		Errors:      result.Errors,
		CompletedAt: time.Now(),
	}
	if err := s.runs.Create(ctx, run); err != nil {
		logger.FromContext(ctx, s.logger).Warn("Failed to record sync run", zap.Error(err))
	}

	if result.Inserted+result.Updated > 0 {
		s.cache.Invalidate(ctx)
	}

	recordValue(s.metrics, aws_pkg.MetricTitlesInserted, float64(result.Inserted), nil)
	recordValue(s.metrics, aws_pkg.MetricTitlesUpdated, float64(result.Updated), nil)
	recordValue(s.metrics, aws_pkg.MetricSyncRowErrors, float64(len(result.Errors)), nil)

	s.publishEvent(ctx, models.TitleSyncCompletedEvent{
		EventType:  eventTitleSyncCompleted,
		RunID:      run.ID.String(),
		StartedBy:  actor,
		Inserted:   result.Inserted,
		Updated:    result.Updated,
		ErrorCount: len(result.Errors),
		Timestamp:  run.CompletedAt,
	})

	return result, nil
}

func (s *syncServiceImpl) Enqueue(ctx context.Context, actor string, req *models.SyncConfirmRequest) (*models.SyncJob, *ServiceError) {
	if s.queue == nil {
		return nil, &ServiceError{StatusCode: http.StatusServiceUnavailable, Message: "Background sync is not available"}
	}
	job, err := s.queue.Enqueue(ctx, SyncJobPayload{Actor: actor, Request: *req})
	if err != nil {
		s.logger.Error("Failed to enqueue sync job", zap.Error(err))
		return nil, internal("Failed to enqueue sync job")
	}
	return job, nil
}

func (s *syncServiceImpl) GetJob(ctx context.Context, id string) (*models.SyncJob, *ServiceError) {
	if s.queue == nil {
		return nil, &ServiceError{StatusCode: http.StatusServiceUnavailable, Message: "Background sync is not available"}
	}
	job, err := s.queue.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrSyncJobNotFound) {
			return nil, notFound("Sync job not found")
		}
		s.logger.Error("Failed to read sync job", zap.String("job_id", id), zap.Error(err))
		return nil, internal("Failed to read sync job")
	}
	return job, nil
}

func (s *syncServiceImpl) ListRuns(ctx context.Context, page, limit int) ([]models.SyncRun, int64, *ServiceError) {
	runs, total, err := s.runs.List(ctx, page, limit)
	if err != nil {
		s.logger.Error("Failed to list sync runs", zap.Error(err))
		return nil, 0, internal("Failed to list sync runs")
	}
	return runs, total, nil
}

// publishEvent sends the completion event to SNS. Failures are logged only.
func (s *syncServiceImpl) publishEvent(ctx context.Context, event models.TitleSyncCompletedEvent) {
	if s.snsClient == nil || s.snsTopicArn == "" {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("Failed to marshal sync event", zap.Error(err))
		return
	}
	if err := s.snsClient.Publish(ctx, s.snsTopicArn, payload); err != nil {
		s.logger.Error("Failed to publish sync event",
			zap.String("event_type", event.EventType),
			zap.Error(err),
		)
	}
}
