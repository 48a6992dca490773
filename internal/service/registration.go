package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"unicode/utf8"

	"church-community-service/pkg/dates"
	"church-community-service/pkg/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidationError carries the itemized reasons a registration was
// rejected. Maps to HTTP 400 at the handler boundary.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	return "validação falhou: " + strings.Join(e.Issues, "; ")
}

// RegistrationResult is the outcome of a public registration. Duplicated
// means the identity already existed and the call was an idempotent
// replay (possibly filling previously empty fields).
type RegistrationResult struct {
	MemberID      uuid.UUID `json:"member_id"`
	Duplicated    bool      `json:"duplicated"`
	UpdatedFields []string  `json:"updated_fields,omitempty"`
}

// NormalizeCPF strips everything but digits.
func NormalizeCPF(cpf string) string {
	var b strings.Builder
	for _, r := range cpf {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidateRegistration normalizes the request in place (trimming,
// lowercasing the email, stripping the CPF) and returns the itemized
// validation failures, or nil when the submission is acceptable.
func ValidateRegistration(req *models.RegistrationRequest) *ValidationError {
	var issues []string

	req.Name = strings.TrimSpace(req.Name)
	if utf8.RuneCountInString(req.Name) < 3 {
		issues = append(issues, "nome deve ter pelo menos 3 caracteres")
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if !emailPattern.MatchString(req.Email) {
		issues = append(issues, "email inválido")
	}

	req.Phone = strings.TrimSpace(req.Phone)
	if len(req.Phone) < 8 {
		issues = append(issues, "telefone deve ter pelo menos 8 dígitos")
	}

	if req.CPF != "" {
		req.CPF = NormalizeCPF(req.CPF)
		if len(req.CPF) != 11 {
			issues = append(issues, "cpf deve ter exatamente 11 dígitos")
		}
	}

	req.Address = strings.TrimSpace(req.Address)
	req.CellGroup = strings.TrimSpace(req.CellGroup)
	req.BirthDate = strings.TrimSpace(req.BirthDate)

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

// RegisterMember is the public registration intake: validate, look up by
// identity (email first, then CPF), fill-only-empty merge on a hit,
// insert on a miss. Safe to retry blindly: the same identity never
// yields a second record through this path, though two truly concurrent
// first submissions can still race past the lookup (accepted gap).
func (s *CommunityService) RegisterMember(ctx context.Context, req *models.RegistrationRequest) (*RegistrationResult, error) {
	if verr := ValidateRegistration(req); verr != nil {
		return nil, verr
	}

	existing, err := s.findByIdentity(ctx, req.Email, req.CPF)
	if err != nil {
		return nil, fmt.Errorf("identity lookup: %w", err)
	}

	if existing != nil {
		updated, err := s.mergeMissingFields(ctx, existing, req)
		if err != nil {
			return nil, fmt.Errorf("merge registration: %w", err)
		}
		log.Printf("ℹ️ [REGISTER] Duplicate registration for %s → member %s (filled: %v)",
			req.Email, existing.ID, updated)
		return &RegistrationResult{MemberID: existing.ID, Duplicated: true, UpdatedFields: updated}, nil
	}

	member := models.Member{
		Name:            req.Name,
		Email:           req.Email,
		CPF:             req.CPF,
		Phone:           req.Phone,
		Address:         req.Address,
		BirthDate:       req.BirthDate,
		CellGroup:       req.CellGroup,
		PhotoURL:        req.PhotoURL,
		Status:          models.MemberStatusActive,
		MemberSince:     dates.ISO(s.Now()),
		Source:          models.MemberSourcePublicForm,
		ClientCreatedAt: req.ClientCreatedAt,
		ClientUpdatedAt: req.ClientUpdatedAt,
	}
	if err := s.db.WithContext(ctx).Create(&member).Error; err != nil {
		return nil, fmt.Errorf("create member: %w", err)
	}

	log.Printf("✅ [REGISTER] New member %s (%s) via public form", member.ID, member.Email)
	return &RegistrationResult{MemberID: member.ID}, nil
}

// findByIdentity resolves the dedup keys: an email match wins over a CPF
// match when both are present.
func (s *CommunityService) findByIdentity(ctx context.Context, email, cpf string) (*models.Member, error) {
	var member models.Member

	if email != "" {
		err := s.db.WithContext(ctx).Where("email = ?", email).Limit(1).First(&member).Error
		if err == nil {
			return &member, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	if cpf != "" {
		err := s.db.WithContext(ctx).Where("cpf = ?", cpf).Limit(1).First(&member).Error
		if err == nil {
			return &member, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	return nil, nil
}

// mergeMissingFields stages incoming values only for fields the stored
// record has empty. Populated fields are never overwritten.
func (s *CommunityService) mergeMissingFields(ctx context.Context, existing *models.Member, req *models.RegistrationRequest) ([]string, error) {
	updates := make(map[string]interface{})
	var fields []string

	stage := func(column, current, incoming string) {
		if current == "" && incoming != "" {
			updates[column] = incoming
			fields = append(fields, column)
		}
	}
	stage("cpf", existing.CPF, req.CPF)
	stage("cell_group", existing.CellGroup, req.CellGroup)
	stage("photo_url", existing.PhotoURL, req.PhotoURL)
	stage("address", existing.Address, req.Address)
	stage("birth_date", existing.BirthDate, req.BirthDate)

	if len(updates) == 0 {
		return nil, nil
	}

	// Updates also touches updated_at (server-clock).
	if err := s.db.WithContext(ctx).Model(existing).Updates(updates).Error; err != nil {
		return nil, err
	}
	return fields, nil
}
