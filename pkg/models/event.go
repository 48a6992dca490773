package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Event is a church calendar entry. Date is stored twice: `date` is the
// canonical ISO string, `date_at` is the legacy timestamp column some
// imported records carry instead. Cleanup sweeps both representations.
type Event struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Title       string     `json:"title" gorm:"type:varchar(150);not null"`
	Description string     `json:"description" gorm:"type:text"`
	Date        string     `json:"date" gorm:"type:varchar(10);index"` // YYYY-MM-DD
	DateAt      *time.Time `json:"date_at,omitempty" gorm:"index"`     // legacy representation
	Time        string     `json:"time" gorm:"type:varchar(5)"`        // HH:MM, optional
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Event) TableName() string {
	return "events"
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// EventRequest is the admin CRUD payload for events.
type EventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date"` // YYYY-MM-DD or RFC3339, normalized at the boundary
	Time        string `json:"time,omitempty"`
}

// Devotional is a daily devotional post. Creation broadcasts a push
// message to the `devotionals` topic.
type Devotional struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Title     string    `json:"title" gorm:"type:varchar(150);not null"`
	Passage   string    `json:"passage" gorm:"type:varchar(150)"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	Date      string    `json:"date" gorm:"type:varchar(10);index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Devotional) TableName() string {
	return "devotionals"
}

func (d *Devotional) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// DevotionalRequest is the admin CRUD payload for devotionals.
type DevotionalRequest struct {
	Title   string `json:"title"`
	Passage string `json:"passage,omitempty"`
	Content string `json:"content"`
	Date    string `json:"date,omitempty"`
}
