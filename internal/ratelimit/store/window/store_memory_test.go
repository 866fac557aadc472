package window

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type InMemoryWindowStoreSuite struct {
	suite.Suite
	store *InMemoryWindowStore
	ctx   context.Context
	now   time.Time
}

func TestInMemoryWindowStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryWindowStoreSuite))
}

func (s *InMemoryWindowStoreSuite) SetupTest() {
	s.store = NewInMemoryWindowStore()
	s.ctx = context.Background()
	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.store.now = func() time.Time { return s.now }
}

func (s *InMemoryWindowStoreSuite) TestGetUnknownIdentity() {
	window, err := s.store.Get(s.ctx, "c1")
	s.Require().NoError(err)
	s.Empty(window)
}

func (s *InMemoryWindowStoreSuite) TestPutThenGet() {
	stamps := []int64{s.now.UnixMilli() - 1000, s.now.UnixMilli()}
	s.Require().NoError(s.store.Put(s.ctx, "c1", stamps, time.Hour))

	window, err := s.store.Get(s.ctx, "c1")
	s.Require().NoError(err)
	s.Equal(stamps, window)
}

func (s *InMemoryWindowStoreSuite) TestPutReplacesWindow() {
	s.Require().NoError(s.store.Put(s.ctx, "c1", []int64{1, 2, 3}, time.Hour))
	s.Require().NoError(s.store.Put(s.ctx, "c1", []int64{4}, time.Hour))

	window, err := s.store.Get(s.ctx, "c1")
	s.Require().NoError(err)
	s.Equal([]int64{4}, window)
}

func (s *InMemoryWindowStoreSuite) TestExpiry() {
	s.Require().NoError(s.store.Put(s.ctx, "c1", []int64{s.now.UnixMilli()}, time.Hour))

	s.now = s.now.Add(time.Hour + time.Second)

	window, err := s.store.Get(s.ctx, "c1")
	s.Require().NoError(err)
	s.Empty(window)
}

func (s *InMemoryWindowStoreSuite) TestIdentitiesAreIndependent() {
	s.Require().NoError(s.store.Put(s.ctx, "c1", []int64{1}, time.Hour))

	window, err := s.store.Get(s.ctx, "c2")
	s.Require().NoError(err)
	s.Empty(window)
}

func (s *InMemoryWindowStoreSuite) TestStoredWindowIsCopied() {
	stamps := []int64{1, 2}
	s.Require().NoError(s.store.Put(s.ctx, "c1", stamps, time.Hour))
	stamps[0] = 99

	window, err := s.store.Get(s.ctx, "c1")
	s.Require().NoError(err)
	s.Equal([]int64{1, 2}, window)
}
