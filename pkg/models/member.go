package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MemberStatus string

const (
	MemberStatusActive   MemberStatus = "active"
	MemberStatusInactive MemberStatus = "inactive"
)

// Member source (provenance) values: which intake path created the record.
const (
	MemberSourcePublicForm = "public_form"
	MemberSourceAdmin      = "admin"
)

// Member is the community member record. Email and CPF are the natural
// dedup keys: indexed but not DB-unique. Intake enforces at-most-one
// record per identity with a lookup-then-conditional-write.
type Member struct {
	ID        uuid.UUID    `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string       `json:"name" gorm:"type:varchar(150);not null"`
	Email     string       `json:"email" gorm:"type:varchar(255);index"` // lowercase
	CPF       string       `json:"cpf" gorm:"type:varchar(11);index"`    // digits only
	Phone     string       `json:"phone" gorm:"type:varchar(30)"`
	Address   string       `json:"address" gorm:"type:varchar(255)"`
	BirthDate string       `json:"birth_date" gorm:"type:varchar(10)"` // YYYY-MM-DD
	CellGroup string       `json:"cell_group" gorm:"type:varchar(100)"`
	PhotoURL  string       `json:"photo_url" gorm:"type:varchar(500)"`
	Status    MemberStatus `json:"status" gorm:"type:varchar(20);not null;default:'active'"`
	// MemberSince is the server date (service timezone) the record was created.
	MemberSince string  `json:"member_since" gorm:"type:varchar(10)"`
	Notes       string  `json:"notes" gorm:"type:text"`
	FCMToken    *string `json:"fcm_token,omitempty" gorm:"type:varchar(500);index"`
	Source      string  `json:"source" gorm:"type:varchar(30)"`

	// Client-clock timestamps as reported by the submitting device.
	// CreatedAt/UpdatedAt (server clock) stay authoritative for ordering.
	ClientCreatedAt *time.Time `json:"client_created_at,omitempty"`
	ClientUpdatedAt *time.Time `json:"client_updated_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

func (Member) TableName() string {
	return "members"
}

func (m *Member) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// RegistrationRequest is the public registration payload (API input).
type RegistrationRequest struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required"`
	Address   string `json:"address,omitempty"`
	BirthDate string `json:"birth_date,omitempty"`
	CPF       string `json:"cpf,omitempty"`
	CellGroup string `json:"cell_group,omitempty"`
	PhotoURL  string `json:"photo_url,omitempty"`

	ClientCreatedAt *time.Time `json:"created_at,omitempty"`
	ClientUpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// MemberRequest is the admin CRUD payload.
type MemberRequest struct {
	Name      string        `json:"name,omitempty"`
	Email     string        `json:"email,omitempty"`
	CPF       string        `json:"cpf,omitempty"`
	Phone     string        `json:"phone,omitempty"`
	Address   string        `json:"address,omitempty"`
	BirthDate string        `json:"birth_date,omitempty"`
	CellGroup string        `json:"cell_group,omitempty"`
	PhotoURL  string        `json:"photo_url,omitempty"`
	Status    *MemberStatus `json:"status,omitempty"`
	Notes     string        `json:"notes,omitempty"`
	FCMToken  *string       `json:"fcm_token,omitempty"`
}

// BirthdayDigest is the computed birthday summary for one scheduled run.
// It is built fresh each run and only persisted through the job log.
type BirthdayDigest struct {
	Date     string   `json:"date"` // display-formatted run date
	Today    []Member `json:"today"`
	ThisWeek []Member `json:"this_week"`
}

func (d *BirthdayDigest) Empty() bool {
	return len(d.Today) == 0 && len(d.ThisWeek) == 0
}
