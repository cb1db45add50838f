package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"hdp-service/internal/models"
	"hdp-service/internal/repository"
)

func storedClinician(t *testing.T, password string) *models.Clinician {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.Clinician{ID: "c-1", Username: "house", Email: "house@example.org", PasswordHash: string(hash)}
}

func TestLogin_Success(t *testing.T) {
	store := new(MockClinicianStore)
	store.On("GetByUsername", mock.Anything, "house").Return(storedClinician(t, "vicodin-please"), nil)
	jwtSvc := NewJWTService("test-secret", 15*time.Minute)
	svc := NewAuthService(store, jwtSvc, zap.NewNop())

	resp, err := svc.Login(context.Background(), "house", "vicodin-please")

	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, int64(900), resp.ExpiresIn)

	claims, err := jwtSvc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "house", claims.Username)
	assert.Equal(t, "c-1", claims.ClinicianID)
	assert.Equal(t, ClinicianIdentity{ID: "c-1", Username: "house"}, IdentityFromClaims(claims))
}

func TestLogin_InvalidCredentials(t *testing.T) {
	store := new(MockClinicianStore)
	store.On("GetByUsername", mock.Anything, "house").Return(storedClinician(t, "vicodin-please"), nil)
	store.On("GetByUsername", mock.Anything, "wilson").Return(nil, repository.ErrNotFound)
	svc := NewAuthService(store, NewJWTService("test-secret", 0), zap.NewNop())

	_, err := svc.Login(context.Background(), "house", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "wilson", "whatever1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_StoreError(t *testing.T) {
	store := new(MockClinicianStore)
	dbErr := &repository.StorageError{Op: "get clinician", Err: errors.New("db down")}
	store.On("GetByUsername", mock.Anything, "house").Return(nil, dbErr)
	svc := NewAuthService(store, NewJWTService("test-secret", 0), zap.NewNop())

	_, err := svc.Login(context.Background(), "house", "vicodin-please")
	assert.ErrorIs(t, err, dbErr)
}

func TestCreateClinician(t *testing.T) {
	store := new(MockClinicianStore)
	store.On("GetByUsername", mock.Anything, "cuddy").Return(nil, repository.ErrNotFound)
	store.On("Create", mock.Anything, mock.AnythingOfType("*models.Clinician")).Return(nil)
	svc := NewAuthService(store, NewJWTService("s", 0), zap.NewNop())

	c, err := svc.CreateClinician(context.Background(), models.CreateClinicianRequest{
		Username: "cuddy",
		Email:    "cuddy@example.org",
		Name:     "Lisa Cuddy",
		Password: "dean-of-medicine",
	})

	require.NoError(t, err)
	assert.NotEqual(t, "dean-of-medicine", c.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte("dean-of-medicine")))
	store.AssertExpectations(t)
}

func TestCreateClinician_Duplicate(t *testing.T) {
	store := new(MockClinicianStore)
	store.On("GetByUsername", mock.Anything, "house").Return(storedClinician(t, "vicodin-please"), nil)
	svc := NewAuthService(store, NewJWTService("s", 0), zap.NewNop())

	_, err := svc.CreateClinician(context.Background(), models.CreateClinicianRequest{
		Username: "house", Email: "h@example.org", Password: "longenough",
	})

	assert.ErrorContains(t, err, "already exists")
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateClinician_InvalidUsername(t *testing.T) {
	store := new(MockClinicianStore)
	svc := NewAuthService(store, NewJWTService("s", 0), zap.NewNop())

	for _, name := range []string{"a/b", "dr+", "#all", "with space", strings.Repeat("x", 101)} {
		_, err := svc.CreateClinician(context.Background(), models.CreateClinicianRequest{
			Username: name, Email: "x@example.org", Password: "longenough",
		})
		assert.ErrorIs(t, err, ErrInvalidUsername, name)
	}
	store.AssertNotCalled(t, "GetByUsername", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestValidateToken_Rejects(t *testing.T) {
	issuer := NewJWTService("secret-a", time.Minute)
	token, err := issuer.GenerateAccessToken(&models.Clinician{ID: "c-1", Username: "house"})
	require.NoError(t, err)

	_, err = NewJWTService("secret-b", time.Minute).ValidateToken(token)
	assert.Error(t, err, "foreign signature")

	expired := NewJWTService("secret-a", time.Minute)
	expired.accessTokenExp = -time.Minute
	old, err := expired.GenerateAccessToken(&models.Clinician{ID: "c-1", Username: "house"})
	require.NoError(t, err)
	_, err = issuer.ValidateToken(old)
	assert.Error(t, err, "expired")

	_, err = issuer.ValidateToken("not-a-token")
	assert.Error(t, err)
}
