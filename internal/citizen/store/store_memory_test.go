package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"nadra/internal/citizen/models"
	"nadra/pkg/domain"
	"nadra/pkg/platform/sentinel"
)

type InMemoryCitizenSuite struct {
	suite.Suite
	ctx   context.Context
	store *InMemory
}

func TestInMemoryCitizenSuite(t *testing.T) {
	suite.Run(t, new(InMemoryCitizenSuite))
}

func (s *InMemoryCitizenSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewInMemory()
}

func (s *InMemoryCitizenSuite) newCitizen(cnic string, created time.Time) *models.Citizen {
	return &models.Citizen{
		ID:            domain.NewCitizenID(),
		FullName:      "Ali Khan",
		CNIC:          cnic,
		FatherName:    "Ahmed Khan",
		DateOfBirth:   time.Date(1990, 3, 14, 0, 0, 0, 0, time.UTC),
		Gender:        "Male",
		Address:       "Lahore",
		MaritalStatus: "Single",
		Nationality:   models.DefaultNationality,
		Alive:         true,
		CreatedAt:     created,
	}
}

func (s *InMemoryCitizenSuite) TestCreateAndFind() {
	c := s.newCitizen("12345-1234567-1", time.Now())
	s.Require().NoError(s.store.Create(s.ctx, c))

	s.Run("by id", func() {
		got, err := s.store.FindByID(s.ctx, c.ID)
		s.Require().NoError(err)
		s.Equal(c.CNIC, got.CNIC)
	})

	s.Run("by cnic", func() {
		got, err := s.store.FindByCNIC(s.ctx, c.CNIC)
		s.Require().NoError(err)
		s.Equal(c.ID, got.ID)
	})

	s.Run("missing id", func() {
		_, err := s.store.FindByID(s.ctx, domain.NewCitizenID())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("missing cnic", func() {
		_, err := s.store.FindByCNIC(s.ctx, "99999-9999999-9")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *InMemoryCitizenSuite) TestCreateDuplicateCNIC() {
	c := s.newCitizen("12345-1234567-1", time.Now())
	s.Require().NoError(s.store.Create(s.ctx, c))

	dup := s.newCitizen("12345-1234567-1", time.Now())
	err := s.store.Create(s.ctx, dup)
	s.Require().ErrorIs(err, sentinel.ErrAlreadyUsed)
}

func (s *InMemoryCitizenSuite) TestListOrderedByCreation() {
	base := time.Now()
	second := s.newCitizen("22222-2222222-2", base.Add(time.Minute))
	first := s.newCitizen("11111-1111111-1", base)
	s.Require().NoError(s.store.Create(s.ctx, second))
	s.Require().NoError(s.store.Create(s.ctx, first))

	out, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(out, 2)
	s.Equal(first.ID, out[0].ID)
	s.Equal(second.ID, out[1].ID)
}

func (s *InMemoryCitizenSuite) TestUpdate() {
	c := s.newCitizen("12345-1234567-1", time.Now())
	s.Require().NoError(s.store.Create(s.ctx, c))

	c.Address = "Islamabad"
	s.Require().NoError(s.store.Update(s.ctx, c))

	got, err := s.store.FindByID(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal("Islamabad", got.Address)

	ghost := s.newCitizen("33333-3333333-3", time.Now())
	s.Require().ErrorIs(s.store.Update(s.ctx, ghost), sentinel.ErrNotFound)
}

func (s *InMemoryCitizenSuite) TestApplyField() {
	c := s.newCitizen("12345-1234567-1", time.Now())
	s.Require().NoError(s.store.Create(s.ctx, c))

	s.Run("writes the field", func() {
		s.Require().NoError(s.store.ApplyField(s.ctx, c.ID, models.FieldAddress, "Karachi"))
		got, err := s.store.FindByID(s.ctx, c.ID)
		s.Require().NoError(err)
		s.Equal("Karachi", got.Address)
	})

	s.Run("boolean field", func() {
		s.Require().NoError(s.store.ApplyField(s.ctx, c.ID, models.FieldAlive, "false"))
		got, err := s.store.FindByID(s.ctx, c.ID)
		s.Require().NoError(err)
		s.False(got.Alive)
	})

	s.Run("missing citizen", func() {
		err := s.store.ApplyField(s.ctx, domain.NewCitizenID(), models.FieldAddress, "x")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *InMemoryCitizenSuite) TestReturnsCopies() {
	c := s.newCitizen("12345-1234567-1", time.Now())
	s.Require().NoError(s.store.Create(s.ctx, c))

	got, err := s.store.FindByID(s.ctx, c.ID)
	s.Require().NoError(err)
	got.Address = "mutated by caller"

	again, err := s.store.FindByID(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal("Lahore", again.Address)
}
