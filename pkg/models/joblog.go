package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type JobStatus string

const (
	JobStatusSuccess JobStatus = "success"
	JobStatusError   JobStatus = "error"
)

// Scheduled job names, also used for push-broadcast audit entries.
const (
	JobBirthdayDigest = "birthday_digest"
	JobEventCleanup   = "event_cleanup"
	JobTopicResync    = "topic_resync"
	JobPushBroadcast  = "push_broadcast"
)

// JobRunLog is the append-only audit trail of scheduled runs and
// broadcast attempts. Operator inspection only, no write path besides
// the jobs themselves.
type JobRunLog struct {
	ID      uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Job     string         `json:"job" gorm:"type:varchar(50);not null;index"`
	Status  JobStatus      `json:"status" gorm:"type:varchar(10);not null"`
	Message string         `json:"message" gorm:"type:text"`
	Details datatypes.JSON `json:"details,omitempty" gorm:"type:jsonb"`
	RanAt   time.Time      `json:"ran_at" gorm:"not null;index"`
}

func (JobRunLog) TableName() string {
	return "job_run_logs"
}

func (l *JobRunLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// WhatsAppMessage is the persisted outbox for WhatsApp digests: the
// generated click-to-chat link and message body, kept for operator
// follow-through rather than sent through an API.
type WhatsAppMessage struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	To        string    `json:"to" gorm:"type:varchar(20);not null"` // digits only
	Message   string    `json:"message" gorm:"type:text;not null"`
	Link      string    `json:"link" gorm:"type:text;not null"` // wa.me deep link
	CreatedAt time.Time `json:"created_at"`
}

func (WhatsAppMessage) TableName() string {
	return "whatsapp_messages"
}

func (w *WhatsAppMessage) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}
