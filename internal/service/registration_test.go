package service

import (
	"context"
	"testing"

	"church-community-service/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() *models.RegistrationRequest {
	return &models.RegistrationRequest{
		Name:  "Maria Souza",
		Email: "Maria@Example.com",
		Phone: "11999990000",
	}
}

func TestRegisterMemberCreates(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	result, err := svc.RegisterMember(ctx, validRequest())
	require.NoError(t, err)
	assert.False(t, result.Duplicated)

	member, err := svc.GetMember(ctx, result.MemberID)
	require.NoError(t, err)
	assert.Equal(t, "maria@example.com", member.Email) // lowercased
	assert.Equal(t, models.MemberStatusActive, member.Status)
	assert.Equal(t, models.MemberSourcePublicForm, member.Source)
	assert.NotEmpty(t, member.MemberSince)
}

func TestRegisterMemberIdempotentReplay(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	first, err := svc.RegisterMember(ctx, validRequest())
	require.NoError(t, err)

	second, err := svc.RegisterMember(ctx, validRequest())
	require.NoError(t, err)
	assert.True(t, second.Duplicated)
	assert.Equal(t, first.MemberID, second.MemberID)

	var count int64
	require.NoError(t, svc.GetDB().Model(&models.Member{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRegisterMemberMatchesByCPFWhenEmailDiffers(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	req := validRequest()
	req.CPF = "123.456.789-09"
	first, err := svc.RegisterMember(ctx, req)
	require.NoError(t, err)

	replay := validRequest()
	replay.Email = "other@example.com"
	replay.CPF = "12345678909"
	second, err := svc.RegisterMember(ctx, replay)
	require.NoError(t, err)
	assert.True(t, second.Duplicated)
	assert.Equal(t, first.MemberID, second.MemberID)
}

func TestRegisterMergeNeverOverwrites(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	req := validRequest()
	req.Address = "Rua A, 100"
	first, err := svc.RegisterMember(ctx, req)
	require.NoError(t, err)

	replay := validRequest()
	replay.Address = "Rua B, 200"
	second, err := svc.RegisterMember(ctx, replay)
	require.NoError(t, err)
	assert.True(t, second.Duplicated)
	assert.Empty(t, second.UpdatedFields)

	member, err := svc.GetMember(ctx, first.MemberID)
	require.NoError(t, err)
	assert.Equal(t, "Rua A, 100", member.Address)
}

func TestRegisterMergeFillsEmptyFields(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	first, err := svc.RegisterMember(ctx, validRequest())
	require.NoError(t, err)

	replay := validRequest()
	replay.CellGroup = "Célula Norte"
	replay.BirthDate = "1990-03-10"
	second, err := svc.RegisterMember(ctx, replay)
	require.NoError(t, err)
	assert.True(t, second.Duplicated)
	assert.ElementsMatch(t, []string{"cell_group", "birth_date"}, second.UpdatedFields)

	member, err := svc.GetMember(ctx, first.MemberID)
	require.NoError(t, err)
	assert.Equal(t, "Célula Norte", member.CellGroup)
	assert.Equal(t, "1990-03-10", member.BirthDate)
}

func TestValidateRegistration(t *testing.T) {
	t.Run("short name rejected", func(t *testing.T) {
		req := validRequest()
		req.Name = "Jo"
		verr := ValidateRegistration(req)
		require.NotNil(t, verr)
		assert.Len(t, verr.Issues, 1)
	})

	t.Run("three rune name accepted", func(t *testing.T) {
		req := validRequest()
		req.Name = "Joe"
		assert.Nil(t, ValidateRegistration(req))
	})

	t.Run("invalid email rejected", func(t *testing.T) {
		req := validRequest()
		req.Email = "not-an-email"
		require.NotNil(t, ValidateRegistration(req))
	})

	t.Run("short cpf rejected", func(t *testing.T) {
		req := validRequest()
		req.CPF = "123"
		require.NotNil(t, ValidateRegistration(req))
	})

	t.Run("formatted cpf normalized", func(t *testing.T) {
		req := validRequest()
		req.CPF = "123.456.789-09"
		assert.Nil(t, ValidateRegistration(req))
		assert.Equal(t, "12345678909", req.CPF)
	})

	t.Run("issues are itemized", func(t *testing.T) {
		verr := ValidateRegistration(&models.RegistrationRequest{Name: "A", Email: "x", Phone: "1"})
		require.NotNil(t, verr)
		assert.Len(t, verr.Issues, 3)
	})
}
