package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dtroode/interview-assistant/internal/logger"
	"github.com/dtroode/interview-assistant/internal/model"
	"github.com/dtroode/interview-assistant/internal/token"
)

// Requests to these paths never carry identity.
var publicPaths = []*regexp.Regexp{
	regexp.MustCompile(`^/$`),
	regexp.MustCompile(`^/_ping$`),
	regexp.MustCompile(`^/docs.*$`),
	regexp.MustCompile(`^/static/.*$`),
	regexp.MustCompile(`^/auth/register$`),
	regexp.MustCompile(`^/auth/login$`),
}

// IsPublicPath reports whether path bypasses identity resolution.
func IsPublicPath(path string) bool {
	for _, re := range publicPaths {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

type Auth struct {
	userStore    model.UserStore
	hasher       model.PasswordHasher
	tokenManager model.TokenManager
	revocations  model.RevocationStore
	logger       *logger.Logger
	now          func() time.Time
}

func NewAuth(
	userStore model.UserStore,
	hasher model.PasswordHasher,
	tokenManager model.TokenManager,
	revocations model.RevocationStore,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		userStore:    userStore,
		hasher:       hasher,
		tokenManager: tokenManager,
		revocations:  revocations,
		logger:       logger,
		now:          time.Now,
	}
}

// NormalizeEmail lower-cases and trims an email so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user and returns a signed token for it.
func (a *Auth) Register(ctx context.Context, email, password string) (string, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return "", model.ErrInvalidInput
	}

	a.logger.Debug("Auth service: registering user",
		"email", email)

	_, err := a.userStore.GetByEmail(ctx, email)
	if err == nil {
		a.logger.Info("Auth service: user already exists",
			"email", email)
		return "", model.ErrEmailTaken
	}
	if !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return "", fmt.Errorf("failed to get user by email: %w", err)
	}

	hash, err := a.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, model.ErrInvalidInput) {
			return "", err
		}
		a.logger.Error("Auth service: failed to hash password",
			"email", email,
			"error", err.Error())
		return "", err
	}

	user, err := a.userStore.Create(ctx, model.User{Email: email, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, model.ErrEmailTaken) {
			a.logger.Info("Auth service: user created concurrently",
				"email", email)
			return "", model.ErrEmailTaken
		}
		a.logger.Error("Auth service: failed to create user",
			"email", email,
			"error", err.Error())
		return "", fmt.Errorf("failed to create user: %w", err)
	}

	signed, _, err := a.tokenManager.Issue(user.ID, user.Email)
	if err != nil {
		a.logger.Error("Auth service: failed to issue token",
			"user_id", user.ID,
			"error", err.Error())
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	a.logger.Info("Auth service: user registered",
		"user_id", user.ID,
		"email", user.Email)

	return signed, nil
}

// Login checks credentials. Unknown email and wrong password fail identically.
func (a *Auth) Login(ctx context.Context, email, password string) (string, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return "", model.ErrInvalidInput
	}

	user, err := a.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			a.logger.Info("Auth service: login failed",
				"email", email)
			return "", model.ErrInvalidCredentials
		}
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return "", fmt.Errorf("failed to get user by email: %w", err)
	}

	if !a.hasher.Verify(password, user.PasswordHash) {
		a.logger.Info("Auth service: login failed",
			"email", email)
		return "", model.ErrInvalidCredentials
	}

	signed, _, err := a.tokenManager.Issue(user.ID, user.Email)
	if err != nil {
		a.logger.Error("Auth service: failed to issue token",
			"user_id", user.ID,
			"error", err.Error())
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	a.logger.Debug("Auth service: user logged in",
		"user_id", user.ID)

	return signed, nil
}

// Logout denies the caller's token until it would have expired anyway.
func (a *Auth) Logout(ctx context.Context, identity model.Identity) error {
	if identity.TokenID == "" {
		return nil
	}

	ttl := identity.ExpiresAt.Sub(a.now())
	if err := a.revocations.Revoke(ctx, identity.TokenID, ttl); err != nil {
		a.logger.Error("Auth service: failed to revoke token",
			"user_id", identity.UserID,
			"error", err.Error())
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	a.logger.Info("Auth service: user logged out",
		"user_id", identity.UserID)

	return nil
}

// VerifyToken returns the identity carried by a valid, unrevoked token.
// It never fails: any problem means "no identity".
func (a *Auth) VerifyToken(ctx context.Context, tokenString string) (model.Identity, bool) {
	identity, err := a.tokenManager.Parse(tokenString)
	if err != nil {
		a.logger.Debug("Auth service: token rejected",
			"error", err.Error())
		return model.Identity{}, false
	}

	if identity.TokenID != "" {
		revoked, err := a.revocations.IsRevoked(ctx, identity.TokenID)
		if err != nil {
			a.logger.Error("Auth service: failed to check token revocation",
				"user_id", identity.UserID,
				"error", err.Error())
			return model.Identity{}, false
		}
		if revoked {
			a.logger.Debug("Auth service: revoked token used",
				"user_id", identity.UserID)
			return model.Identity{}, false
		}
	}

	return identity, true
}

// ResolveIdentity is the per-request gate. Public paths are never resolved;
// elsewhere a missing or invalid bearer token yields no identity rather than an error.
func (a *Auth) ResolveIdentity(ctx context.Context, path, authorization string) (model.Identity, bool) {
	if IsPublicPath(path) {
		return model.Identity{}, false
	}

	raw, ok := token.ParseBearer(authorization)
	if !ok {
		return model.Identity{}, false
	}

	return a.VerifyToken(ctx, raw)
}
