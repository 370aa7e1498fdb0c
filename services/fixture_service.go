package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Hybee22/football-fixture-api/cache"
	"github.com/Hybee22/football-fixture-api/models"
	"github.com/Hybee22/football-fixture-api/repositories"
	"github.com/Hybee22/football-fixture-api/utils"
)

const (
	fixtureCachePrefix = "fixtures:"
	uniqueLinkLength   = 9
	linkCreateAttempts = 3
)

// FixtureBroadcaster pushes fixture lifecycle events to connected
// live subscribers. A nil broadcaster disables live updates.
type FixtureBroadcaster interface {
	BroadcastFixture(fixtureID int, event string, payload interface{})
}

type FixtureInput struct {
	HomeTeamID int                   `json:"homeTeam"`
	AwayTeamID int                   `json:"awayTeam"`
	Date       time.Time             `json:"date"`
	Season     string                `json:"season"`
	Venue      string                `json:"venue"`
	Status     models.FixtureStatus  `json:"status"`
	Result     *models.FixtureResult `json:"result"`
}

type FixtureUpdateInput struct {
	HomeTeamID *int                  `json:"homeTeam"`
	AwayTeamID *int                  `json:"awayTeam"`
	Date       *time.Time            `json:"date"`
	Season     *string               `json:"season"`
	Venue      *string               `json:"venue"`
	Status     *models.FixtureStatus `json:"status"`
	Result     *models.FixtureResult `json:"result"`
}

type FixtureService interface {
	CreateFixture(ctx context.Context, input FixtureInput) (*models.Fixture, error)
	ListFixtures(ctx context.Context, page, limit int) (*models.FixturePage, error)
	ListFixturesByStatus(ctx context.Context, status models.FixtureStatus, page, limit int) (*models.FixturePage, error)
	GetFixture(ctx context.Context, id int) (*models.Fixture, error)
	GetFixtureByUniqueLink(ctx context.Context, uniqueLink string) (*models.Fixture, error)
	UpdateFixture(ctx context.Context, id int, input FixtureUpdateInput) (*models.Fixture, error)
	DeleteFixture(ctx context.Context, id int) error
}

type fixtureService struct {
	fixtureRepo repositories.FixtureRepository
	teamRepo    repositories.TeamRepository
	cache       *cache.Store
	broadcaster FixtureBroadcaster
}

func NewFixtureService(
	fixtureRepo repositories.FixtureRepository,
	teamRepo repositories.TeamRepository,
	cacheStore *cache.Store,
	broadcaster FixtureBroadcaster,
) FixtureService {
	return &fixtureService{
		fixtureRepo: fixtureRepo,
		teamRepo:    teamRepo,
		cache:       cacheStore,
		broadcaster: broadcaster,
	}
}

func (s *fixtureService) CreateFixture(ctx context.Context, input FixtureInput) (*models.Fixture, error) {
	if input.Status == "" {
		input.Status = models.FixtureStatusPending
	}
	if err := s.validateFixtureInput(ctx, input); err != nil {
		return nil, err
	}

	fixture := &models.Fixture{
		HomeTeamID: input.HomeTeamID,
		AwayTeamID: input.AwayTeamID,
		Date:       input.Date,
		Season:     input.Season,
		Venue:      input.Venue,
		Status:     input.Status,
		Result:     input.Result,
	}

	// Link collisions are rare; retry with a fresh link a few times
	// before giving up.
	var err error
	for attempt := 0; attempt < linkCreateAttempts; attempt++ {
		fixture.UniqueLink = utils.GenerateToken(uniqueLinkLength)
		err = s.fixtureRepo.Create(ctx, fixture)
		if !errors.Is(err, repositories.ErrFixtureLinkConflict) {
			break
		}
	}
	if err != nil {
		return nil, mapFixtureRepoError(err)
	}

	s.cache.DeletePrefix(ctx, fixtureCachePrefix)
	created, getErr := s.fixtureRepo.GetByID(ctx, fixture.ID)
	if getErr != nil {
		return nil, mapFixtureRepoError(getErr)
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastFixture(created.ID, "FIXTURE_CREATED", created)
	}
	return created, nil
}

func (s *fixtureService) ListFixtures(ctx context.Context, page, limit int) (*models.FixturePage, error) {
	return s.listFixtures(ctx, repositories.FixtureConditions{}, "", page, limit)
}

func (s *fixtureService) ListFixturesByStatus(ctx context.Context, status models.FixtureStatus, page, limit int) (*models.FixturePage, error) {
	if status != models.FixtureStatusPending && status != models.FixtureStatusCompleted {
		return nil, ErrFixtureInvalidStatus
	}
	cond := repositories.FixtureConditions{Status: &status}
	cacheKey := fmt.Sprintf("%s%s:%d:%d", fixtureCachePrefix, status, normalizePage(page), normalizeLimit(limit))
	return s.listFixtures(ctx, cond, cacheKey, page, limit)
}

func (s *fixtureService) listFixtures(ctx context.Context, cond repositories.FixtureConditions, cacheKey string, page, limit int) (*models.FixturePage, error) {
	page = normalizePage(page)
	limit = normalizeLimit(limit)

	if cacheKey != "" {
		if cached, ok := s.cache.Get(ctx, cacheKey); ok {
			if fixturePage, valid := cached.(*models.FixturePage); valid {
				return fixturePage, nil
			}
		}
	}

	fixtures, err := s.fixtureRepo.List(ctx, cond, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	total, err := s.fixtureRepo.Count(ctx, cond)
	if err != nil {
		return nil, err
	}

	result := &models.FixturePage{
		Items:      fixtures,
		Pagination: models.NewPagination(total, page, limit),
	}
	if cacheKey != "" {
		s.cache.Set(ctx, cacheKey, result)
	}
	return result, nil
}

func (s *fixtureService) GetFixture(ctx context.Context, id int) (*models.Fixture, error) {
	fixture, err := s.fixtureRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapFixtureRepoError(err)
	}
	return fixture, nil
}

func (s *fixtureService) GetFixtureByUniqueLink(ctx context.Context, uniqueLink string) (*models.Fixture, error) {
	fixture, err := s.fixtureRepo.GetByUniqueLink(ctx, uniqueLink)
	if err != nil {
		return nil, mapFixtureRepoError(err)
	}
	return fixture, nil
}

func (s *fixtureService) UpdateFixture(ctx context.Context, id int, input FixtureUpdateInput) (*models.Fixture, error) {
	fixture, err := s.fixtureRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapFixtureRepoError(err)
	}

	if input.HomeTeamID != nil {
		fixture.HomeTeamID = *input.HomeTeamID
	}
	if input.AwayTeamID != nil {
		fixture.AwayTeamID = *input.AwayTeamID
	}
	if input.Date != nil {
		fixture.Date = *input.Date
	}
	if input.Season != nil {
		fixture.Season = *input.Season
	}
	if input.Venue != nil {
		fixture.Venue = *input.Venue
	}
	if input.Status != nil {
		fixture.Status = *input.Status
	}
	if input.Result != nil {
		fixture.Result = input.Result
	}

	if err := s.validateFixtureInput(ctx, FixtureInput{
		HomeTeamID: fixture.HomeTeamID,
		AwayTeamID: fixture.AwayTeamID,
		Date:       fixture.Date,
		Season:     fixture.Season,
		Venue:      fixture.Venue,
		Status:     fixture.Status,
		Result:     fixture.Result,
	}); err != nil {
		return nil, err
	}

	if err := s.fixtureRepo.Update(ctx, fixture); err != nil {
		return nil, mapFixtureRepoError(err)
	}

	s.cache.DeletePrefix(ctx, fixtureCachePrefix)

	updated, err := s.fixtureRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapFixtureRepoError(err)
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastFixture(id, "FIXTURE_UPDATED", updated)
	}
	return updated, nil
}

func (s *fixtureService) DeleteFixture(ctx context.Context, id int) error {
	if err := s.fixtureRepo.Delete(ctx, id); err != nil {
		return mapFixtureRepoError(err)
	}

	s.cache.DeletePrefix(ctx, fixtureCachePrefix)
	if s.broadcaster != nil {
		s.broadcaster.BroadcastFixture(id, "FIXTURE_DELETED", map[string]int{"id": id})
	}
	return nil
}

func (s *fixtureService) validateFixtureInput(ctx context.Context, input FixtureInput) error {
	if input.HomeTeamID == 0 || input.AwayTeamID == 0 {
		return ErrFixtureTeamsRequired
	}
	if input.HomeTeamID == input.AwayTeamID {
		return ErrFixtureSameTeam
	}
	if input.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrValidationFailed)
	}
	if input.Season == "" {
		return fmt.Errorf("%w: season is required", ErrValidationFailed)
	}
	if input.Venue == "" {
		return fmt.Errorf("%w: venue is required", ErrValidationFailed)
	}
	if input.Status != models.FixtureStatusPending && input.Status != models.FixtureStatusCompleted {
		return ErrFixtureInvalidStatus
	}
	if input.Result != nil && (input.Result.HomeScore < 0 || input.Result.AwayScore < 0) {
		return fmt.Errorf("%w: scores must not be negative", ErrValidationFailed)
	}

	for _, teamID := range []int{input.HomeTeamID, input.AwayTeamID} {
		if _, err := s.teamRepo.GetByID(ctx, teamID); err != nil {
			return mapTeamRepoError(err)
		}
	}
	return nil
}

func mapFixtureRepoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrFixtureNotFound):
		return ErrFixtureNotFound
	case errors.Is(err, repositories.ErrFixtureLinkConflict):
		return ErrFixtureLinkConflict
	case errors.Is(err, repositories.ErrFixtureTeamInvalid):
		return ErrTeamNotFound
	default:
		return err
	}
}
