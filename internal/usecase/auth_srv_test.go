package usecase

import (
	"context"
	"testing"

	"medroute/internal/data/entity"
	"medroute/internal/dto/request"
	"medroute/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	registered, err := svc.Auth.Register(ctx, &request.RegisterRequest{
		Name:     "Asha Rao",
		Email:    "asha@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, registered.Role)
	assert.True(t, registered.IsVerified)
	assert.NotEmpty(t, registered.Token)

	loggedIn, err := svc.Auth.Login(ctx, &request.LoginRequest{
		Email:    "asha@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.UserID, loggedIn.UserID)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Auth.Register(ctx, &request.RegisterRequest{
		Name:     "Asha Rao",
		Email:    "asha@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	_, err = svc.Auth.Login(ctx, &request.LoginRequest{
		Email:    "asha@example.com",
		Password: "wrong-password",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Auth.Login(context.Background(), &request.LoginRequest{
		Email:    "nobody@example.com",
		Password: "secret123",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Auth.Register(ctx, &request.RegisterRequest{
		Name:     "Asha Rao",
		Email:    "asha@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	_, err = svc.Auth.Register(ctx, &request.RegisterRequest{
		Name:     "Imposter",
		Email:    "asha@example.com",
		Password: "secret456",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email already registered")
}

func TestPharmacyCanLoginThroughSharedEndpoint(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Pharmacy.Register(ctx,
		registerPharmacyRequest("Apollo Pharmacy", "apollo@example.com", "DL-PHARM-001"))
	require.NoError(t, err)

	loggedIn, err := svc.Auth.Login(ctx, &request.LoginRequest{
		Email:    "apollo@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RolePharmacy, loggedIn.Role)
}

func TestMeResolvesBothAccountKinds(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.Auth.Register(ctx, &request.RegisterRequest{
		Name:     "Asha Rao",
		Email:    "asha@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	pharmacy, err := svc.Pharmacy.Register(ctx,
		registerPharmacyRequest("Apollo Pharmacy", "apollo@example.com", "DL-PHARM-001"))
	require.NoError(t, err)

	userID, err := utils.ParseUUID(user.UserID)
	require.NoError(t, err)
	me, err := svc.Auth.Me(ctx, userID, string(entity.RoleUser))
	require.NoError(t, err)
	require.NotNil(t, me.User)
	assert.Nil(t, me.Pharmacy)
	assert.Equal(t, "asha@example.com", me.User.Email)

	pharmacyID, err := utils.ParseUUID(pharmacy.UserID)
	require.NoError(t, err)
	me, err = svc.Auth.Me(ctx, pharmacyID, string(entity.RolePharmacy))
	require.NoError(t, err)
	require.NotNil(t, me.Pharmacy)
	assert.Nil(t, me.User)
	assert.Equal(t, "DL-PHARM-001", me.Pharmacy.LicenseNumber)
}
