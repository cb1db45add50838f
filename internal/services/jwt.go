package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"hdp-service/internal/models"
)

const tokenIssuer = "hdp-service"

type JWTService struct {
	secretKey      []byte
	accessTokenExp time.Duration
}

type Claims struct {
	ClinicianID string `json:"clinician_id"`
	Username    string `json:"username"`
	jwt.RegisteredClaims
}

func NewJWTService(secret string, accessTokenExp time.Duration) *JWTService {
	if accessTokenExp <= 0 {
		accessTokenExp = 15 * time.Minute
	}
	return &JWTService{
		secretKey:      []byte(secret),
		accessTokenExp: accessTokenExp,
	}
}

// AccessTokenTTL is the lifetime of issued access tokens.
func (s *JWTService) AccessTokenTTL() time.Duration {
	return s.accessTokenExp
}

func (s *JWTService) GenerateAccessToken(c *models.Clinician) (string, error) {
	now := time.Now()
	claims := &Claims{
		ClinicianID: c.ID,
		Username:    c.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenExp)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   c.ID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return s.secretKey, nil
	}, jwt.WithIssuer(tokenIssuer))

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Username == "" {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}

// IdentityFromClaims is the submission identity carried by a valid token.
func IdentityFromClaims(c *Claims) ClinicianIdentity {
	return ClinicianIdentity{ID: c.ClinicianID, Username: c.Username}
}
