package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"sporemap/internal/ratelimit"
	"sporemap/internal/ratelimit/store/window"
	"sporemap/internal/spore/models"
	"sporemap/internal/spore/store"
	domainerrors "sporemap/pkg/domain-errors"
	"sporemap/pkg/requestmeta"
)

// Uses real in-memory stores rather than mocks: the service pipeline is the
// thing under test, not its wiring.
type ServiceSuite struct {
	suite.Suite
	svc   *Service
	store *store.InMemoryStore
	ctx   context.Context
	now   time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.store = store.NewInMemory()
	s.ctx = context.Background()
	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	limiter, err := ratelimit.New(
		window.NewInMemoryWindowStore(),
		ratelimit.WithClock(func() time.Time { return s.now }),
	)
	s.Require().NoError(err)

	svc, err := New(s.store, limiter)
	s.Require().NoError(err)
	s.svc = svc
}

func submission(lat, lng float64, message, cookieID string) *models.SporeSubmission {
	return &models.SporeSubmission{Lat: &lat, Lng: &lng, Message: &message, CookieID: &cookieID}
}

func (s *ServiceSuite) TestNewRequiresDependencies() {
	limiter, err := ratelimit.New(window.NewInMemoryWindowStore())
	s.Require().NoError(err)

	_, err = New(nil, limiter)
	s.Error(err)

	_, err = New(s.store, nil)
	s.Error(err)
}

func (s *ServiceSuite) TestSubmitPersistsSpore() {
	res, err := s.svc.Submit(s.ctx, submission(-33.9249, 18.4241, "oyster mushrooms", "c1"))
	s.Require().NoError(err)
	s.Equal(int64(1), res.ID)

	spores, err := s.store.List(s.ctx, models.GeoFilters{})
	s.Require().NoError(err)
	s.Require().Len(spores, 1)
	s.Equal(-33.9249, spores[0].Lat)
	s.Equal("oyster mushrooms", spores[0].Message)
	s.Equal("c1", spores[0].CookieID)
}

func (s *ServiceSuite) TestSubmitRecordsClientIP() {
	ctx := requestmeta.WithClientIP(s.ctx, "203.0.113.7")
	_, err := s.svc.Submit(ctx, submission(-33.9, 18.4, "m", "c1"))
	s.Require().NoError(err)

	spores, err := s.store.List(s.ctx, models.GeoFilters{})
	s.Require().NoError(err)
	s.Equal("203.0.113.7", spores[0].IPAddress)
}

func (s *ServiceSuite) TestSubmitWithoutMetadataRecordsUnknown() {
	_, err := s.svc.Submit(s.ctx, submission(-33.9, 18.4, "m", "c1"))
	s.Require().NoError(err)

	spores, err := s.store.List(s.ctx, models.GeoFilters{})
	s.Require().NoError(err)
	s.Equal("unknown", spores[0].IPAddress)
}

func (s *ServiceSuite) TestSubmitRejectsInvalidLatitudeWithoutPersisting() {
	_, err := s.svc.Submit(s.ctx, submission(91, 18.4, "m", "c1"))
	s.Require().Error(err)
	s.Equal(domainerrors.CodeInvalidInput, domainerrors.CodeOf(err))

	total, err := s.store.Count(s.ctx, models.GeoFilters{})
	s.Require().NoError(err)
	s.Zero(total)
}

func (s *ServiceSuite) TestSubmitRejectsMissingBody() {
	_, err := s.svc.Submit(s.ctx, nil)
	s.Require().Error(err)
	s.Equal(domainerrors.CodeInvalidInput, domainerrors.CodeOf(err))
}

func (s *ServiceSuite) TestSixthSubmissionRateLimited() {
	for i := 0; i < 5; i++ {
		res, err := s.svc.Submit(s.ctx, submission(-33.9, 18.4, "m", "c1"))
		s.Require().NoError(err)
		s.Equal(int64(i+1), res.ID)
	}

	_, err := s.svc.Submit(s.ctx, submission(-33.9, 18.4, "m", "c1"))
	s.Require().Error(err)
	s.Equal(domainerrors.CodeRateLimited, domainerrors.CodeOf(err))

	// The denied submission left no row behind.
	total, err := s.store.Count(s.ctx, models.GeoFilters{})
	s.Require().NoError(err)
	s.Equal(int64(5), total)
}

func (s *ServiceSuite) TestRateLimitIsPerIdentity() {
	for i := 0; i < 5; i++ {
		_, err := s.svc.Submit(s.ctx, submission(-33.9, 18.4, "m", "c1"))
		s.Require().NoError(err)
	}

	res, err := s.svc.Submit(s.ctx, submission(-33.9, 18.4, "m", "c2"))
	s.Require().NoError(err)
	s.Equal(int64(6), res.ID)
}

func (s *ServiceSuite) TestRateLimitWindowSlides() {
	for i := 0; i < 5; i++ {
		_, err := s.svc.Submit(s.ctx, submission(-33.9, 18.4, "m", "c1"))
		s.Require().NoError(err)
	}

	_, err := s.svc.Submit(s.ctx, submission(-33.9, 18.4, "m", "c1"))
	s.Require().Error(err)

	s.now = s.now.Add(time.Hour + time.Second)

	_, err = s.svc.Submit(s.ctx, submission(-33.9, 18.4, "m", "c1"))
	s.NoError(err)
}

type failingStore struct {
	store.InMemoryStore
}

func (f *failingStore) Insert(context.Context, *models.Spore) (int64, error) {
	return 0, errors.New("pq: disk full")
}

func (s *ServiceSuite) TestStorageFailureIsMaskedAsInternal() {
	limiter, err := ratelimit.New(window.NewInMemoryWindowStore())
	s.Require().NoError(err)
	svc, err := New(&failingStore{}, limiter)
	s.Require().NoError(err)

	_, err = svc.Submit(s.ctx, submission(-33.9, 18.4, "m", "c1"))
	s.Require().Error(err)
	s.Equal(domainerrors.CodeInternal, domainerrors.CodeOf(err))

	var derr *domainerrors.Error
	s.Require().ErrorAs(err, &derr)
	s.Equal("Failed to create spore", derr.Message)
	s.NotContains(derr.Message, "disk full")
}

func (s *ServiceSuite) seed(n int) {
	// Distinct identities keep the limiter out of the way.
	for i := 0; i < n; i++ {
		cookie := string(rune('a' + i))
		_, err := s.svc.Submit(s.ctx, submission(-33.9, 18.4, "m", cookie))
		s.Require().NoError(err)
	}
}

func (s *ServiceSuite) TestQueryWithoutFiltersReturnsEverything() {
	s.seed(3)

	res, err := s.svc.Query(s.ctx, models.GeoFilters{})
	s.Require().NoError(err)
	s.Len(res.Spores, 3)
	s.Equal(int64(3), res.Total)
	s.Nil(res.Pagination.NextCursor)
	s.Nil(res.Pagination.Cursor)
	s.Nil(res.Pagination.Limit)
	s.False(res.Pagination.HasMore)

	// Ascending id order.
	s.Equal(int64(1), res.Spores[0].ID)
	s.Equal(int64(2), res.Spores[1].ID)
	s.Equal(int64(3), res.Spores[2].ID)
}

func (s *ServiceSuite) TestQueryFullPageSetsNextCursor() {
	s.seed(5)

	limit := 2
	res, err := s.svc.Query(s.ctx, models.GeoFilters{Limit: &limit})
	s.Require().NoError(err)
	s.Require().Len(res.Spores, 2)
	s.Equal(int64(5), res.Total)
	s.Require().NotNil(res.Pagination.NextCursor)
	s.Equal(int64(2), *res.Pagination.NextCursor)
	s.True(res.Pagination.HasMore)
}

func (s *ServiceSuite) TestQueryPagesAreAdjacent() {
	s.seed(5)

	limit := 2
	first, err := s.svc.Query(s.ctx, models.GeoFilters{Limit: &limit})
	s.Require().NoError(err)

	second, err := s.svc.Query(s.ctx, models.GeoFilters{Limit: &limit, Cursor: first.Pagination.NextCursor})
	s.Require().NoError(err)
	s.Require().Len(second.Spores, 2)
	s.Equal(*first.Pagination.NextCursor+1, second.Spores[0].ID)
	s.Equal(first.Pagination.NextCursor, second.Pagination.Cursor)

	third, err := s.svc.Query(s.ctx, models.GeoFilters{Limit: &limit, Cursor: second.Pagination.NextCursor})
	s.Require().NoError(err)
	s.Require().Len(third.Spores, 1)
	// Short page: no further cursor even though a limit was supplied.
	s.Nil(third.Pagination.NextCursor)
	s.False(third.Pagination.HasMore)
}

func (s *ServiceSuite) TestQueryLastPageExactlyFullStillReportsMore() {
	// With 4 rows and limit 2, the second page is full, so the service
	// conservatively reports hasMore; the follow-up page is empty.
	s.seed(4)

	limit := 2
	first, err := s.svc.Query(s.ctx, models.GeoFilters{Limit: &limit})
	s.Require().NoError(err)
	second, err := s.svc.Query(s.ctx, models.GeoFilters{Limit: &limit, Cursor: first.Pagination.NextCursor})
	s.Require().NoError(err)
	s.True(second.Pagination.HasMore)

	third, err := s.svc.Query(s.ctx, models.GeoFilters{Limit: &limit, Cursor: second.Pagination.NextCursor})
	s.Require().NoError(err)
	s.Empty(third.Spores)
	s.False(third.Pagination.HasMore)
}

func (s *ServiceSuite) TestQueryEmptyBox() {
	s.seed(3)

	minLat := 80.0
	res, err := s.svc.Query(s.ctx, models.GeoFilters{MinLat: &minLat})
	s.Require().NoError(err)
	s.NotNil(res.Spores)
	s.Empty(res.Spores)
	s.Zero(res.Total)
	s.False(res.Pagination.HasMore)
}

func (s *ServiceSuite) TestQueryTotalIgnoresPagination() {
	s.seed(5)

	limit := 1
	cursor := int64(3)
	res, err := s.svc.Query(s.ctx, models.GeoFilters{Limit: &limit, Cursor: &cursor})
	s.Require().NoError(err)
	s.Len(res.Spores, 1)
	s.Equal(int64(5), res.Total)
}
