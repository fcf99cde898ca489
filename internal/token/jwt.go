package token

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtroode/interview-assistant/internal/model"
)

// Claims represents JWT claims. Subject holds the decimal user ID.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// JWT implements TokenManager backed by symmetric HMAC.
type JWT struct {
	secretKey string
	ttl       time.Duration
	now       func() time.Time
}

var _ model.TokenManager = (*JWT)(nil)

// NewJWT creates a new JWT token manager with the provided secret key and token lifetime.
func NewJWT(secretKey string, ttl time.Duration) *JWT {
	return &JWT{secretKey: secretKey, ttl: ttl, now: time.Now}
}

// Issue signs a token for the user and returns it with the identity it carries.
func (j *JWT) Issue(userID int64, email string) (string, model.Identity, error) {
	now := j.now().Truncate(time.Second)
	identity := model.Identity{
		UserID:    userID,
		Email:     email,
		TokenID:   uuid.NewString(),
		IssuedAt:  now,
		ExpiresAt: now.Add(j.ttl),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        identity.TokenID,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(identity.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(identity.ExpiresAt),
		},
		Email: email,
	})

	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", model.Identity{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, identity, nil
}

// Parse validates signature and expiry and extracts the identity.
func (j *JWT) Parse(tokenString string) (model.Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	}, jwt.WithTimeFunc(j.now), jwt.WithExpirationRequired())
	if err != nil {
		return model.Identity{}, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return model.Identity{}, fmt.Errorf("token is invalid")
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return model.Identity{}, fmt.Errorf("token subject is not a user id: %w", err)
	}

	identity := model.Identity{
		UserID:  userID,
		Email:   claims.Email,
		TokenID: claims.ID,
	}
	if claims.IssuedAt != nil {
		identity.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		identity.ExpiresAt = claims.ExpiresAt.Time
	}

	return identity, nil
}
