package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"portfolio/internal/apperrors"
	"portfolio/internal/models"
	"portfolio/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned by Login for an unknown username and for
// a wrong password alike.
var ErrInvalidCredentials = fmt.Errorf("invalid username or password: %w", apperrors.ErrUnauthorized)

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// compareDummy spends the same bcrypt work as a real verification so a
// missing username is not observable through response time.
func compareDummy(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("portfolio-dummy-password"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

// Session is a signed session token bound to a user.
type Session struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
}

// AuthService handles sign-in, sign-out, session resolution and admin
// provisioning.
type AuthService struct {
	userRepo   repositories.UserRepository
	sessions   repositories.SessionRepository
	jwtSecret  []byte
	tokenDurat time.Duration
	log        *logrus.Logger
	now        func() time.Time
}

// NewAuthService creates a new AuthService. Sessions are valid for ttl.
func NewAuthService(userRepo repositories.UserRepository, sessions repositories.SessionRepository, jwtSecret string, ttl time.Duration, log *logrus.Logger) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		sessions:   sessions,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: ttl,
		log:        log,
		now:        time.Now,
	}
}

// Login authenticates a user and issues a session token. The username is
// trimmed the same way EnsureAdmin and the admin console store it.
func (s *AuthService) Login(ctx context.Context, username, password string) (*Session, *models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		compareDummy(password)
		return nil, nil, ErrInvalidCredentials
	}
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.log.Errorf("Login lookup failed: %v", err)
		}
		compareDummy(password)
		return nil, nil, ErrInvalidCredentials
	}
	if !VerifyCredential(user, password) {
		return nil, nil, ErrInvalidCredentials
	}

	session, err := s.issue(user)
	if err != nil {
		return nil, nil, err
	}
	s.log.Infof("User %s signed in", user.Username)
	return session, user, nil
}

func (s *AuthService) issue(user *models.User) (*Session, error) {
	now := s.now()
	expiresAt := now.Add(s.tokenDurat)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"jti":     uuid.New().String(),
		"exp":     expiresAt.Unix(),
		"iat":     now.Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session: %w", err)
	}
	return &Session{Token: tokenString, UserID: user.ID, ExpiresAt: expiresAt}, nil
}

// ValidateToken parses and validates a session token, returning its claims.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if _, ok := claims["user_id"].(string); !ok {
		return nil, fmt.Errorf("invalid token: missing user_id")
	}
	if _, ok := claims["jti"].(string); !ok {
		return nil, fmt.Errorf("invalid token: missing jti")
	}
	return claims, nil
}

// Resolve maps a session token to an identity. Anything short of a valid,
// unrevoked token for an existing user resolves to anonymous.
func (s *AuthService) Resolve(ctx context.Context, tokenString string) Identity {
	if tokenString == "" {
		return Anonymous()
	}
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		s.log.Debugf("Ignoring session: %v", err)
		return Anonymous()
	}

	revoked, err := s.sessions.IsRevoked(ctx, claims["jti"].(string))
	if err != nil {
		s.log.Errorf("Session revocation check failed: %v", err)
		return Anonymous()
	}
	if revoked {
		return Anonymous()
	}

	user, err := s.userRepo.GetByID(ctx, claims["user_id"].(string))
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.log.Errorf("Session user lookup failed: %v", err)
		}
		return Anonymous()
	}
	return Identity{User: user}
}

// Logout revokes the session token. Empty or already invalid tokens are a
// no-op.
func (s *AuthService) Logout(ctx context.Context, tokenString string) error {
	if tokenString == "" {
		return nil
	}
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil
	}

	expiresAt := s.now().Add(s.tokenDurat)
	if exp, ok := claims["exp"].(float64); ok {
		expiresAt = time.Unix(int64(exp), 0)
	}
	if err := s.sessions.Revoke(ctx, claims["jti"].(string), expiresAt); err != nil {
		return err
	}
	return nil
}

// PruneRevoked deletes revocation records for sessions that have expired.
func (s *AuthService) PruneRevoked(ctx context.Context) (int64, error) {
	return s.sessions.PruneExpired(ctx, s.now())
}

// EnsureAdmin creates an administrator with the given credentials, or
// resets the password of an existing user and promotes it. It reports
// whether a new user was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return false, fmt.Errorf("admin username and password are required: %w", apperrors.ErrValidation)
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	switch {
	case err == nil:
		if err := SetCredential(user, password); err != nil {
			return false, err
		}
		user.IsAdmin = true
		if err := s.userRepo.Update(ctx, user); err != nil {
			return false, fmt.Errorf("failed to update admin %s: %w", username, err)
		}
		s.log.Infof("Admin %q updated", username)
		return false, nil
	case errors.Is(err, apperrors.ErrNotFound):
		user = &models.User{Username: username, IsAdmin: true}
		if err := SetCredential(user, password); err != nil {
			return false, err
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return false, fmt.Errorf("failed to create admin %s: %w", username, err)
		}
		s.log.Infof("Admin %q created", username)
		return true, nil
	default:
		return false, err
	}
}
