package token

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	identitymodels "nadra/internal/identity/models"
	identitystore "nadra/internal/identity/store"
	"nadra/pkg/domain"
	dErrors "nadra/pkg/domain-errors"
	"nadra/pkg/requestcontext"
	"nadra/pkg/secrets"
)

type TokenServiceSuite struct {
	suite.Suite
	ctx     context.Context
	service *Service
	dept    domain.DepartmentID
	userID  domain.UserID
}

func TestTokenServiceSuite(t *testing.T) {
	suite.Run(t, new(TokenServiceSuite))
}

func (s *TokenServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.dept = domain.NewDepartmentID()
	s.userID = domain.NewUserID()

	hash, err := secrets.Hash("correct-password")
	s.Require().NoError(err)

	store := identitystore.NewInMemory()
	s.Require().NoError(store.Create(s.ctx, &identitymodels.User{
		ID:           s.userID,
		Email:        "officer@bank.example",
		FullName:     "Bank Officer",
		PasswordHash: hash,
		Roles:        []domain.Role{domain.RoleDepartmentOfficer},
		DepartmentID: &s.dept,
		CreatedAt:    time.Now(),
	}))

	s.service = NewService(store, Config{
		SigningKey: []byte("test-signing-key-at-least-32-bytes"),
		Issuer:     "nadra",
		Audience:   "nadra-api",
		Expiry:     time.Hour,
	}, nil, slog.Default())
}

func (s *TokenServiceSuite) TestLoginAndVerify() {
	raw, issued, err := s.service.Login(s.ctx, "officer@bank.example", "correct-password")
	s.Require().NoError(err)
	s.NotEmpty(raw)
	s.NotEmpty(issued.TokenID)

	claims, err := s.service.Verify(s.ctx, raw)
	s.Require().NoError(err)
	s.Equal(s.userID, claims.SubjectID)
	s.Equal("Bank Officer", claims.FullName)
	s.Equal([]domain.Role{domain.RoleDepartmentOfficer}, claims.Roles)
	s.Require().NotNil(claims.DepartmentID)
	s.Equal(s.dept, *claims.DepartmentID)
	s.Equal(issued.TokenID, claims.TokenID)
}

func (s *TokenServiceSuite) TestExpiryEqualsIssueTimePlusWindow() {
	issuedAt := time.Now().Truncate(time.Second)
	ctx := requestcontext.WithTime(s.ctx, issuedAt)

	raw, issued, err := s.service.Login(ctx, "officer@bank.example", "correct-password")
	s.Require().NoError(err)
	s.Equal(issuedAt.Add(time.Hour), issued.ExpiresAt)

	claims, err := s.service.Verify(s.ctx, raw)
	s.Require().NoError(err)
	s.WithinDuration(issuedAt.Add(time.Hour), claims.ExpiresAt, time.Second)
}

func (s *TokenServiceSuite) TestLoginFailures() {
	s.Run("wrong password", func() {
		_, _, err := s.service.Login(s.ctx, "officer@bank.example", "wrong")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("unknown email gives the same error", func() {
		_, _, wrongPass := s.service.Login(s.ctx, "officer@bank.example", "wrong")
		_, _, unknown := s.service.Login(s.ctx, "ghost@bank.example", "wrong")
		s.Equal(wrongPass.Error(), unknown.Error())
	})
}

func (s *TokenServiceSuite) TestVerifyFailures() {
	s.Run("garbage token", func() {
		_, err := s.service.Verify(s.ctx, "not-a-token")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("expired token", func() {
		past := requestcontext.WithTime(s.ctx, time.Now().Add(-2*time.Hour))
		raw, _, err := s.service.Login(past, "officer@bank.example", "correct-password")
		s.Require().NoError(err)

		_, err = s.service.Verify(s.ctx, raw)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
		s.Contains(err.Error(), "token has expired")
	})

	s.Run("wrong signing key", func() {
		other := NewService(nil, Config{
			SigningKey: []byte("a-completely-different-signing-key"),
			Issuer:     "nadra",
			Audience:   "nadra-api",
			Expiry:     time.Hour,
		}, nil, slog.Default())

		raw, _, err := s.service.Login(s.ctx, "officer@bank.example", "correct-password")
		s.Require().NoError(err)

		_, err = other.Verify(s.ctx, raw)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("wrong audience", func() {
		other := NewService(nil, Config{
			SigningKey: []byte("test-signing-key-at-least-32-bytes"),
			Issuer:     "nadra",
			Audience:   "someone-else",
			Expiry:     time.Hour,
		}, nil, slog.Default())

		raw, _, err := s.service.Login(s.ctx, "officer@bank.example", "correct-password")
		s.Require().NoError(err)

		_, err = other.Verify(s.ctx, raw)
		s.Require().Error(err)
	})
}
