// Package token issues and verifies the signed credentials operators present
// on every request. Tokens are HMAC-signed JWTs carrying the subject's
// identity, roles and department scope.
package token

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"nadra/internal/identity/models"
	"nadra/internal/platform/metrics"
	"nadra/pkg/domain"
	dErrors "nadra/pkg/domain-errors"
	"nadra/pkg/platform/sentinel"
	"nadra/pkg/requestcontext"
	"nadra/pkg/secrets"
)

// CredentialStore resolves accounts for login. Satisfied by the identity
// stores.
type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// Config carries the signing parameters. The signing key is mandatory and
// validated at startup, never here.
type Config struct {
	SigningKey []byte
	Issuer     string
	Audience   string
	Expiry     time.Duration
}

type Service struct {
	creds   CredentialStore
	cfg     Config
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewService(creds CredentialStore, cfg Config, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{creds: creds, cfg: cfg, metrics: m, logger: logger}
}

// wireClaims is the JWT payload. Roles travel as strings and are re-parsed
// through the closed enum on verification.
type wireClaims struct {
	jwt.RegisteredClaims
	FullName     string   `json:"name"`
	Roles        []string `json:"roles"`
	DepartmentID string   `json:"dept,omitempty"`
}

// Login verifies the credentials and issues a signed token. Unknown emails
// and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (string, domain.Claims, error) {
	failure := func() (string, domain.Claims, error) {
		if s.metrics != nil {
			s.metrics.LoginsRejected.Inc()
		}
		return "", domain.Claims{}, dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
	}

	user, err := s.creds.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return failure()
		}
		return "", domain.Claims{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve account")
	}
	if err := secrets.Verify(password, user.PasswordHash); err != nil {
		if dErrors.HasCode(err, dErrors.CodeUnauthorized) {
			return failure()
		}
		return "", domain.Claims{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to verify credentials")
	}

	now := requestcontext.Now(ctx)
	claims := user.Claims()
	claims.TokenID = uuid.NewString()
	claims.ExpiresAt = now.Add(s.cfg.Expiry)

	token, err := s.sign(claims, now)
	if err != nil {
		return "", domain.Claims{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign token")
	}

	if s.metrics != nil {
		s.metrics.LoginsIssued.Inc()
	}
	s.logger.InfoContext(ctx, "token issued",
		slog.String("user_id", user.ID.String()),
		slog.String("token_id", claims.TokenID),
	)
	return token, claims, nil
}

func (s *Service) sign(claims domain.Claims, now time.Time) (string, error) {
	roles := make([]string, len(claims.Roles))
	for i, r := range claims.Roles {
		roles[i] = r.String()
	}
	wc := wireClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.SubjectID.String(),
			Issuer:    s.cfg.Issuer,
			Audience:  jwt.ClaimStrings{s.cfg.Audience},
			ID:        claims.TokenID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
		},
		FullName: claims.FullName,
		Roles:    roles,
	}
	if claims.DepartmentID != nil {
		wc.DepartmentID = claims.DepartmentID.String()
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, wc).SignedString(s.cfg.SigningKey)
}

// Verify parses and validates a presented token and rebuilds the verified
// claims. Every identifier crossing this trust boundary is re-parsed.
func (s *Service) Verify(_ context.Context, raw string) (domain.Claims, error) {
	var wc wireClaims
	_, err := jwt.ParseWithClaims(raw, &wc,
		func(t *jwt.Token) (any, error) { return s.cfg.SigningKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithAudience(s.cfg.Audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Claims{}, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return domain.Claims{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	subjectID, err := domain.ParseUserID(wc.Subject)
	if err != nil {
		return domain.Claims{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	roles := make([]domain.Role, 0, len(wc.Roles))
	for _, r := range wc.Roles {
		role, err := domain.ParseRole(r)
		if err != nil {
			return domain.Claims{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
		}
		roles = append(roles, role)
	}

	claims := domain.Claims{
		SubjectID: subjectID,
		FullName:  wc.FullName,
		Roles:     roles,
		TokenID:   wc.ID,
	}
	if wc.ExpiresAt != nil {
		claims.ExpiresAt = wc.ExpiresAt.Time
	}
	if wc.DepartmentID != "" {
		deptID, err := domain.ParseDepartmentID(wc.DepartmentID)
		if err != nil {
			return domain.Claims{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
		}
		claims.DepartmentID = &deptID
	}
	return claims, nil
}

// Expiry reports the configured token lifetime, used by login responses.
func (s *Service) Expiry() time.Duration {
	return s.cfg.Expiry
}
