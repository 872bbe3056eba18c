package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/boddenberg/lamf-portal-go/internal/domain"
	"github.com/boddenberg/lamf-portal-go/internal/port"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var authTracer = otel.Tracer("service/auth")

const (
	maxFailedAttempts = 5
	lockDuration      = 15 * time.Minute
	tokenIssuer       = "lamf-portal"
)

// OperatorClaims are the claims of an operator session token.
type OperatorClaims struct {
	Sub  string `json:"sub"`
	Type string `json:"type"`
	jwt.RegisteredClaims
}

// LoginAttempts tracks failed logins for one user.
type LoginAttempts struct {
	Failed      int
	LockedUntil time.Time
}

// AuthService gates the console behind a single operator account. With no
// password hash configured every request is allowed.
type AuthService struct {
	user         string
	passwordHash []byte
	jwtSecret    []byte
	sessionTTL   time.Duration
	attempts     port.Cache[LoginAttempts]
	logger       *zap.Logger
}

// NewAuthService creates the service.
func NewAuthService(user, passwordHash, jwtSecret string, sessionTTL time.Duration, attempts port.Cache[LoginAttempts], logger *zap.Logger) *AuthService {
	return &AuthService{
		user:         user,
		passwordHash: []byte(passwordHash),
		jwtSecret:    []byte(jwtSecret),
		sessionTTL:   sessionTTL,
		attempts:     attempts,
		logger:       logger,
	}
}

// Enabled reports whether a login is required.
func (s *AuthService) Enabled() bool {
	return s != nil && len(s.passwordHash) > 0
}

// SessionTTL is the lifetime of issued tokens.
func (s *AuthService) SessionTTL() time.Duration {
	return s.sessionTTL
}

// Login checks the operator credentials and returns a signed session token.
func (s *AuthService) Login(ctx context.Context, user, password string) (string, error) {
	_, span := authTracer.Start(ctx, "AuthService.Login")
	defer span.End()

	if !s.Enabled() {
		return "", &domain.ErrUnauthorized{Message: "login is not configured"}
	}

	key := "login:" + user
	state, _ := s.attempts.Get(key)
	if state.LockedUntil.After(time.Now()) {
		remaining := time.Until(state.LockedUntil).Minutes()
		s.logger.Warn("login: user temporarily locked",
			zap.String("user", user),
			zap.Float64("remaining_minutes", remaining),
		)
		return "", &domain.ErrUnauthorized{
			Message: fmt.Sprintf("Too many failed attempts. Try again in %.0f minutes", remaining),
		}
	}

	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(s.user)) == 1
	passErr := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password))
	if !userOK || passErr != nil {
		state = s.attempts.Update(key, func(cur LoginAttempts, _ bool) LoginAttempts {
			if !cur.LockedUntil.IsZero() && !cur.LockedUntil.After(time.Now()) {
				cur = LoginAttempts{}
			}
			cur.Failed++
			if cur.Failed >= maxFailedAttempts {
				cur.LockedUntil = time.Now().Add(lockDuration)
				cur.Failed = 0
			}
			return cur
		})
		s.logger.Warn("login: invalid credentials", zap.String("user", user))
		if state.LockedUntil.After(time.Now()) {
			return "", &domain.ErrUnauthorized{
				Message: fmt.Sprintf("Locked for %d minutes after %d failed attempts", int(lockDuration.Minutes()), maxFailedAttempts),
			}
		}
		return "", &domain.ErrUnauthorized{Message: "Invalid username or password"}
	}

	s.attempts.Delete(key)

	token, err := s.signToken(user)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	s.logger.Info("operator logged in", zap.String("user", user))
	return token, nil
}

// ValidateToken parses a session token and returns its claims.
func (s *AuthService) ValidateToken(tokenString string) (*OperatorClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &OperatorClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, &domain.ErrUnauthorized{Message: "session expired or invalid"}
	}

	claims, ok := token.Claims.(*OperatorClaims)
	if !ok || !token.Valid || claims.Type != "operator" {
		return nil, &domain.ErrUnauthorized{Message: "invalid session"}
	}
	return claims, nil
}

func (s *AuthService) signToken(user string) (string, error) {
	now := time.Now()
	claims := OperatorClaims{
		Sub:  user,
		Type: "operator",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.sessionTTL)),
			Issuer:    tokenIssuer,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}
