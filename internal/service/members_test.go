package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"church-community-service/internal/email"
	"church-community-service/internal/whatsapp"
	"church-community-service/pkg/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStorage implements StorageClient, recording uploads and deletes.
type fakeStorage struct {
	uploadURL  string
	failUpload bool
	uploads    []string
	deletes    []string
}

func (f *fakeStorage) UploadMemberPhoto(ctx context.Context, file io.Reader, originalFileName string, memberID uuid.UUID) (string, error) {
	f.uploads = append(f.uploads, originalFileName)
	if f.failUpload {
		return "", fmt.Errorf("upload of %s failed", originalFileName)
	}
	return f.uploadURL, nil
}

func (f *fakeStorage) DeleteFile(ctx context.Context, fileName string) error {
	f.deletes = append(f.deletes, fileName)
	return nil
}

func newTestServiceWithStorage(t *testing.T, storage StorageClient) *CommunityService {
	t.Helper()
	cfg := testConfig()
	db := openTestDB(t)
	return NewCommunityService(cfg, db, email.NewSender(cfg), whatsapp.NewSender(db, ""), nil, storage)
}

func TestCreateMemberRequiresName(t *testing.T) {
	svc := newTestService(t, nil)

	_, err := svc.CreateMember(context.Background(), &models.MemberRequest{
		Email: "sem-nome@example.com",
	})
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Issues, "nome é obrigatório")
}

func TestUploadMemberPhotoReplacesOldFile(t *testing.T) {
	storage := &fakeStorage{uploadURL: "https://cdn.example.com/member_photos/new.jpg"}
	svc := newTestServiceWithStorage(t, storage)

	member := models.Member{
		Name:     "Maria Souza",
		Email:    "maria@example.com",
		PhotoURL: "https://cdn.example.com/member_photos/old.jpg",
	}
	require.NoError(t, svc.GetDB().Create(&member).Error)

	url, err := svc.UploadMemberPhoto(context.Background(), member.ID, strings.NewReader("img-bytes"), "new.jpg")
	require.NoError(t, err)
	assert.Equal(t, storage.uploadURL, url)

	updated, err := svc.GetMember(context.Background(), member.ID)
	require.NoError(t, err)
	assert.Equal(t, storage.uploadURL, updated.PhotoURL)

	// The replaced file must be removed from storage.
	assert.Equal(t, []string{"https://cdn.example.com/member_photos/old.jpg"}, storage.deletes)
}

func TestUploadMemberPhotoFirstUploadDeletesNothing(t *testing.T) {
	storage := &fakeStorage{uploadURL: "https://cdn.example.com/member_photos/first.jpg"}
	svc := newTestServiceWithStorage(t, storage)

	member := models.Member{Name: "João Lima", Email: "joao@example.com"}
	require.NoError(t, svc.GetDB().Create(&member).Error)

	_, err := svc.UploadMemberPhoto(context.Background(), member.ID, strings.NewReader("img-bytes"), "first.jpg")
	require.NoError(t, err)
	assert.Empty(t, storage.deletes)
}

func TestUploadMemberPhotoFailureKeepsOldURL(t *testing.T) {
	storage := &fakeStorage{failUpload: true}
	svc := newTestServiceWithStorage(t, storage)

	member := models.Member{
		Name:     "Ana Costa",
		Email:    "ana@example.com",
		PhotoURL: "https://cdn.example.com/member_photos/keep.jpg",
	}
	require.NoError(t, svc.GetDB().Create(&member).Error)

	_, err := svc.UploadMemberPhoto(context.Background(), member.ID, strings.NewReader("img-bytes"), "broken.jpg")
	require.Error(t, err)

	kept, err := svc.GetMember(context.Background(), member.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/member_photos/keep.jpg", kept.PhotoURL)
	assert.Empty(t, storage.deletes)
}

func TestUploadMemberPhotoWithoutStorage(t *testing.T) {
	svc := newTestService(t, nil)
	require.False(t, svc.StorageConfigured())

	member := models.Member{Name: "Pedro Alves", Email: "pedro@example.com"}
	require.NoError(t, svc.GetDB().Create(&member).Error)

	_, err := svc.UploadMemberPhoto(context.Background(), member.ID, strings.NewReader("img-bytes"), "x.jpg")
	assert.Error(t, err)
}
