package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"church-community-service/internal/fcm"
	"church-community-service/pkg/dates"
	"church-community-service/pkg/models"

	"github.com/google/uuid"
)

// ListMembers returns a page of members, optionally filtered by status
// and cell group.
func (s *CommunityService) ListMembers(ctx context.Context, limit, offset int, status, cellGroup string) ([]models.Member, error) {
	q := s.db.WithContext(ctx).Order("name ASC").Limit(limit).Offset(offset)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if cellGroup != "" {
		q = q.Where("cell_group = ?", cellGroup)
	}
	var members []models.Member
	err := q.Find(&members).Error
	return members, err
}

func (s *CommunityService) GetMember(ctx context.Context, id uuid.UUID) (*models.Member, error) {
	var member models.Member
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// CreateMember is the administrative intake. Unlike the public form it
// writes whatever the operator supplies, but identity fields are still
// normalized the same way.
func (s *CommunityService) CreateMember(ctx context.Context, req *models.MemberRequest) (*models.Member, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, &ValidationError{Issues: []string{"nome é obrigatório"}}
	}

	member := models.Member{
		Name:        strings.TrimSpace(req.Name),
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		CPF:         NormalizeCPF(req.CPF),
		Phone:       strings.TrimSpace(req.Phone),
		Address:     req.Address,
		BirthDate:   req.BirthDate,
		CellGroup:   req.CellGroup,
		PhotoURL:    req.PhotoURL,
		Status:      models.MemberStatusActive,
		MemberSince: dates.ISO(s.Now()),
		Notes:       req.Notes,
		FCMToken:    req.FCMToken,
		Source:      models.MemberSourceAdmin,
	}
	if req.Status != nil {
		member.Status = *req.Status
	}

	if err := s.db.WithContext(ctx).Create(&member).Error; err != nil {
		return nil, fmt.Errorf("create member: %w", err)
	}

	s.syncMemberTopics(ctx, nil, member.FCMToken)
	return &member, nil
}

// UpdateMember applies the supplied fields and mirrors any push token
// change to the broadcast topics.
func (s *CommunityService) UpdateMember(ctx context.Context, id uuid.UUID, req *models.MemberRequest) (*models.Member, error) {
	member, err := s.GetMember(ctx, id)
	if err != nil {
		return nil, err
	}
	tokenBefore := member.FCMToken

	updates := make(map[string]interface{})
	setString := func(column, value string) {
		if value != "" {
			updates[column] = value
		}
	}
	setString("name", strings.TrimSpace(req.Name))
	setString("email", strings.ToLower(strings.TrimSpace(req.Email)))
	setString("cpf", NormalizeCPF(req.CPF))
	setString("phone", strings.TrimSpace(req.Phone))
	setString("address", req.Address)
	setString("birth_date", req.BirthDate)
	setString("cell_group", req.CellGroup)
	setString("photo_url", req.PhotoURL)
	setString("notes", req.Notes)
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.FCMToken != nil {
		updates["fcm_token"] = *req.FCMToken
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(member).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update member: %w", err)
		}
	}

	if req.FCMToken != nil {
		s.syncMemberTopics(ctx, tokenBefore, req.FCMToken)
	}
	return s.GetMember(ctx, id)
}

// DeleteMember soft-deletes the record and unsubscribes its token.
func (s *CommunityService) DeleteMember(ctx context.Context, id uuid.UUID) error {
	member, err := s.GetMember(ctx, id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(member).Error; err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	s.syncMemberTopics(ctx, member.FCMToken, nil)
	log.Printf("🗑️ [MEMBER] Deleted %s (%s)", member.ID, member.Email)
	return nil
}

// RegisterFCMToken stores a device token for the member and subscribes
// it to the broadcast topics.
func (s *CommunityService) RegisterFCMToken(ctx context.Context, id uuid.UUID, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("token is required")
	}

	member, err := s.GetMember(ctx, id)
	if err != nil {
		return err
	}
	before := member.FCMToken

	if err := s.db.WithContext(ctx).Model(member).Update("fcm_token", token).Error; err != nil {
		return fmt.Errorf("register token: %w", err)
	}

	log.Printf("✅ [TOKEN] Registered %s for member %s", fcm.MaskToken(token), id)
	s.syncMemberTopics(ctx, before, &token)
	return nil
}

// UnregisterFCMToken clears the member's token and unsubscribes it.
func (s *CommunityService) UnregisterFCMToken(ctx context.Context, id uuid.UUID) error {
	member, err := s.GetMember(ctx, id)
	if err != nil {
		return err
	}
	before := member.FCMToken

	if err := s.db.WithContext(ctx).Model(member).Update("fcm_token", nil).Error; err != nil {
		return fmt.Errorf("unregister token: %w", err)
	}

	log.Printf("✅ [TOKEN] Unregistered token for member %s", id)
	s.syncMemberTopics(ctx, before, nil)
	return nil
}

// UploadMemberPhoto pushes the photo to object storage, stores the
// resulting public URL on the member, and removes the replaced file.
func (s *CommunityService) UploadMemberPhoto(ctx context.Context, id uuid.UUID, file io.Reader, fileName string) (string, error) {
	if s.storage == nil {
		return "", fmt.Errorf("photo storage is not configured")
	}
	member, err := s.GetMember(ctx, id)
	if err != nil {
		return "", err
	}
	oldURL := member.PhotoURL

	photoURL, err := s.storage.UploadMemberPhoto(ctx, file, fileName, id)
	if err != nil {
		return "", err
	}
	if err := s.SetMemberPhoto(ctx, id, photoURL); err != nil {
		return "", err
	}

	// Best effort: a leaked old file is not worth failing the upload.
	if oldURL != "" && oldURL != photoURL {
		if err := s.storage.DeleteFile(ctx, oldURL); err != nil {
			log.Printf("⚠️ [MEMBER] Failed to delete replaced photo %s: %v", oldURL, err)
		}
	}

	log.Printf("📸 [MEMBER] Photo updated for %s → %s", id, photoURL)
	return photoURL, nil
}

// SetMemberPhoto stores the uploaded photo URL.
func (s *CommunityService) SetMemberPhoto(ctx context.Context, id uuid.UUID, photoURL string) error {
	result := s.db.WithContext(ctx).Model(&models.Member{}).Where("id = ?", id).Update("photo_url", photoURL)
	if result.Error != nil {
		return fmt.Errorf("set photo: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("member %s not found", id)
	}
	return nil
}
