package main

import (
	"context"
	"os"
	"strings"
	"time"

	"bitbucket.org/fmsdatahub/franchise_backend/config"
	"bitbucket.org/fmsdatahub/franchise_backend/models"
	"bitbucket.org/fmsdatahub/franchise_backend/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OutboxProcessor drains the activity outbox: it claims unprocessed rows,
// publishes each payload to Pub/Sub, and marks them processed. Claiming uses
// SKIP LOCKED plus a lock timestamp so multiple instances can run without
// double-claiming, and a crashed worker's claims expire after LockTTL.
//
// When Pub/Sub is not configured and OUTBOX_DIRECT_PROCESSING is on
// (local/dev), rows are marked processed without publishing so the table
// does not grow unbounded.
type OutboxProcessor struct {
	DB        *gorm.DB
	Logger    *logrus.Logger
	BatchSize int
	Interval  time.Duration
	LockTTL   time.Duration
}

func NewOutboxProcessor(db *gorm.DB, logger *logrus.Logger) *OutboxProcessor {
	return &OutboxProcessor{
		DB:        db,
		Logger:    logger,
		BatchSize: 50,
		Interval:  2 * time.Second,
		LockTTL:   30 * time.Second,
	}
}

func pubsubConfigured() bool {
	return os.Getenv("PUBSUB_TOPIC") != ""
}

func directProcessingEnabled() bool {
	val := strings.ToLower(strings.TrimSpace(os.Getenv("OUTBOX_DIRECT_PROCESSING")))
	return val == "true" || val == "1"
}

func (p *OutboxProcessor) Run(ctx context.Context) {
	if p == nil || p.DB == nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		p.processOnce(ctx)
		select {
		case <-ctx.Done():
			return
		case <-time.After(p.Interval):
		}
	}
}

func (p *OutboxProcessor) processOnce(ctx context.Context) {
	now := time.Now().UTC()
	staleBefore := now.Add(-p.LockTTL)

	var claimed []models.ActivityOutboxRecord
	err := p.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.
			Where("is_processed = 0").
			Where("(locked_at IS NULL OR locked_at <= ?)", staleBefore).
			Order("id ASC").
			Limit(p.BatchSize).
			Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"})
		if err := q.Find(&claimed).Error; err != nil {
			return err
		}
		if len(claimed) == 0 {
			return nil
		}
		ids := make([]int, 0, len(claimed))
		for _, rec := range claimed {
			ids = append(ids, rec.ID)
		}
		return tx.Model(&models.ActivityOutboxRecord{}).
			Where("id IN ?", ids).
			Update("locked_at", &now).Error
	})
	if err != nil || len(claimed) == 0 {
		return
	}

	publish := pubsubConfigured()
	for _, rec := range claimed {
		if !publish {
			if directProcessingEnabled() {
				p.markProcessed(ctx, rec.ID)
			} else {
				p.releaseClaim(ctx, rec.ID, "pubsub not configured")
			}
			continue
		}

		var msg config.ActivityEventMessage
		if err := utils.UnmarshalFromJSON([]byte(rec.Payload), &msg); err != nil {
			// Poisoned payload: never publishable, mark processed with the
			// error recorded instead of retrying forever.
			config.LogError(p.Logger, "outbox_processor.go", "processOnce", "Unmarshal payload", rec.ID, err)
			p.markFailedPermanently(ctx, rec.ID, err.Error())
			continue
		}

		if _, err := config.PublishActivityEvent(ctx, msg); err != nil {
			p.releaseClaim(ctx, rec.ID, err.Error())
			p.Logger.WithFields(logrus.Fields{
				"module":      "outbox_processor.go",
				"record_id":   rec.ID,
				"tenant_id":   rec.TenantId,
				"activity_id": rec.ActivityId,
			}).Error("outbox publish failed: " + err.Error())
			continue
		}
		p.markProcessed(ctx, rec.ID)
	}
}

func (p *OutboxProcessor) markProcessed(ctx context.Context, recordID int) {
	now := time.Now().UTC()
	_ = p.DB.WithContext(ctx).Model(&models.ActivityOutboxRecord{}).
		Where("id = ?", recordID).
		Updates(map[string]interface{}{
			"is_processed": true,
			"processed_at": &now,
			"attempts":     gorm.Expr("attempts + 1"),
			"locked_at":    nil,
		}).Error
}

func (p *OutboxProcessor) markFailedPermanently(ctx context.Context, recordID int, errMsg string) {
	now := time.Now().UTC()
	_ = p.DB.WithContext(ctx).Model(&models.ActivityOutboxRecord{}).
		Where("id = ?", recordID).
		Updates(map[string]interface{}{
			"is_processed": true,
			"processed_at": &now,
			"attempts":     gorm.Expr("attempts + 1"),
			"last_error":   errMsg,
			"locked_at":    nil,
		}).Error
}

func (p *OutboxProcessor) releaseClaim(ctx context.Context, recordID int, errMsg string) {
	_ = p.DB.WithContext(ctx).Model(&models.ActivityOutboxRecord{}).
		Where("id = ?", recordID).
		Updates(map[string]interface{}{
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": errMsg,
			"locked_at":  nil,
		}).Error
}
