package service

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"time"

	"church-community-service/internal/config"
	"church-community-service/internal/email"
	"church-community-service/internal/whatsapp"
	"church-community-service/pkg/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PushClient is the slice of the FCM client the service depends on.
// nil means push messaging is disabled for this deployment.
type PushClient interface {
	SendToTopic(ctx context.Context, topic, title, body string, data map[string]interface{}) error
	SubscribeToTopic(ctx context.Context, tokens []string, topic string) (ok, failed int, err error)
	UnsubscribeFromTopic(ctx context.Context, tokens []string, topic string) (ok, failed int, err error)
}

// StorageClient is the slice of the object-storage client the service
// depends on. nil means photo storage is disabled for this deployment.
type StorageClient interface {
	UploadMemberPhoto(ctx context.Context, file io.Reader, originalFileName string, memberID uuid.UUID) (string, error)
	DeleteFile(ctx context.Context, fileName string) error
}

type CommunityService struct {
	db          *gorm.DB
	cfg         *config.Config
	emailSender *email.Sender
	waSender    *whatsapp.Sender
	push        PushClient
	storage     StorageClient
	loc         *time.Location
}

func NewCommunityService(cfg *config.Config, db *gorm.DB, emailSender *email.Sender, waSender *whatsapp.Sender, push PushClient, storage StorageClient) *CommunityService {
	return &CommunityService{
		db:          db,
		cfg:         cfg,
		emailSender: emailSender,
		waSender:    waSender,
		push:        push,
		storage:     storage,
		loc:         cfg.Location(),
	}
}

// StorageConfigured reports whether photo uploads are available.
func (s *CommunityService) StorageConfigured() bool {
	return s.storage != nil
}

func (s *CommunityService) GetDB() *gorm.DB {
	return s.db
}

// Now returns the current time in the service timezone, the clock all
// date-relative jobs run against.
func (s *CommunityService) Now() time.Time {
	return time.Now().In(s.loc)
}

// logJobRun appends one row to the audit trail. Audit failures are
// logged and swallowed: the log must never take a job down with it.
func (s *CommunityService) logJobRun(ctx context.Context, job string, status models.JobStatus, message string, details map[string]interface{}) {
	entry := models.JobRunLog{
		Job:     job,
		Status:  status,
		Message: message,
		RanAt:   s.Now(),
	}
	if details != nil {
		if payload, err := json.Marshal(details); err == nil {
			entry.Details = datatypes.JSON(payload)
		}
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		log.Printf("⚠️ [AUDIT] Failed to persist job run log for %s: %v", job, err)
	}
}

// ListJobRuns returns audit entries for operator inspection, newest first.
func (s *CommunityService) ListJobRuns(ctx context.Context, limit, offset int, job string) ([]models.JobRunLog, error) {
	q := s.db.WithContext(ctx).Order("ran_at DESC").Limit(limit).Offset(offset)
	if job != "" {
		q = q.Where("job = ?", job)
	}
	var runs []models.JobRunLog
	err := q.Find(&runs).Error
	return runs, err
}
