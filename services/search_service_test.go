package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hybee22/football-fixture-api/models"
	"github.com/Hybee22/football-fixture-api/repositories"
)

type fakeTeamRepo struct {
	create            func(ctx context.Context, team *models.Team) error
	getByID           func(ctx context.Context, id int) (*models.Team, error)
	list              func(ctx context.Context, offset, limit int) ([]models.Team, error)
	countAll          func(ctx context.Context) (int, error)
	updateCrestKey    func(ctx context.Context, id int, crestKey *string) error
	findByStadium     func(ctx context.Context, stadium string) (*models.Team, error)
	findByNameLike    func(ctx context.Context, name string) (*models.Team, error)
	matchTokens       func(ctx context.Context, tokens []string) ([]models.Team, error)
	countTokenMatches func(ctx context.Context, tokens []string) (int, error)
}

func (f *fakeTeamRepo) Create(ctx context.Context, team *models.Team) error {
	if f.create == nil {
		return nil
	}
	return f.create(ctx, team)
}
func (f *fakeTeamRepo) GetByID(ctx context.Context, id int) (*models.Team, error) {
	if f.getByID == nil {
		return nil, repositories.ErrTeamNotFound
	}
	return f.getByID(ctx, id)
}
func (f *fakeTeamRepo) List(ctx context.Context, offset, limit int) ([]models.Team, error) {
	if f.list == nil {
		return nil, nil
	}
	return f.list(ctx, offset, limit)
}

func (f *fakeTeamRepo) Count(ctx context.Context) (int, error) {
	if f.countAll == nil {
		return 0, nil
	}
	return f.countAll(ctx)
}

func (f *fakeTeamRepo) Update(ctx context.Context, team *models.Team) error { return nil }
func (f *fakeTeamRepo) Delete(ctx context.Context, id int) error            { return nil }

func (f *fakeTeamRepo) UpdateCrestKey(ctx context.Context, id int, crestKey *string) error {
	if f.updateCrestKey == nil {
		return nil
	}
	return f.updateCrestKey(ctx, id, crestKey)
}

func (f *fakeTeamRepo) FindByStadium(ctx context.Context, stadium string) (*models.Team, error) {
	if f.findByStadium == nil {
		return nil, repositories.ErrTeamNotFound
	}
	return f.findByStadium(ctx, stadium)
}

func (f *fakeTeamRepo) FindByNameLike(ctx context.Context, name string) (*models.Team, error) {
	if f.findByNameLike == nil {
		return nil, repositories.ErrTeamNotFound
	}
	return f.findByNameLike(ctx, name)
}

func (f *fakeTeamRepo) MatchTokens(ctx context.Context, tokens []string) ([]models.Team, error) {
	if f.matchTokens == nil {
		return nil, nil
	}
	return f.matchTokens(ctx, tokens)
}

func (f *fakeTeamRepo) CountTokenMatches(ctx context.Context, tokens []string) (int, error) {
	if f.countTokenMatches == nil {
		return 0, nil
	}
	return f.countTokenMatches(ctx, tokens)
}

type fakeFixtureRepo struct {
	create  func(ctx context.Context, fixture *models.Fixture) error
	getByID func(ctx context.Context, id int) (*models.Fixture, error)
	update  func(ctx context.Context, fixture *models.Fixture) error
	delete  func(ctx context.Context, id int) error
	list    func(ctx context.Context, cond repositories.FixtureConditions, offset, limit int) ([]models.Fixture, error)
	count   func(ctx context.Context, cond repositories.FixtureConditions) (int, error)
}

func (f *fakeFixtureRepo) Create(ctx context.Context, fixture *models.Fixture) error {
	if f.create == nil {
		return nil
	}
	return f.create(ctx, fixture)
}

func (f *fakeFixtureRepo) GetByID(ctx context.Context, id int) (*models.Fixture, error) {
	if f.getByID == nil {
		return nil, repositories.ErrFixtureNotFound
	}
	return f.getByID(ctx, id)
}

func (f *fakeFixtureRepo) GetByUniqueLink(ctx context.Context, uniqueLink string) (*models.Fixture, error) {
	return nil, repositories.ErrFixtureNotFound
}

func (f *fakeFixtureRepo) Update(ctx context.Context, fixture *models.Fixture) error {
	if f.update == nil {
		return nil
	}
	return f.update(ctx, fixture)
}

func (f *fakeFixtureRepo) Delete(ctx context.Context, id int) error {
	if f.delete == nil {
		return nil
	}
	return f.delete(ctx, id)
}

func (f *fakeFixtureRepo) List(ctx context.Context, cond repositories.FixtureConditions, offset, limit int) ([]models.Fixture, error) {
	if f.list == nil {
		return nil, nil
	}
	return f.list(ctx, cond, offset, limit)
}

func (f *fakeFixtureRepo) Count(ctx context.Context, cond repositories.FixtureConditions) (int, error) {
	if f.count == nil {
		return 0, nil
	}
	return f.count(ctx, cond)
}

func newSearchServiceForTest(teamRepo repositories.TeamRepository, fixtureRepo repositories.FixtureRepository) *searchService {
	svc := NewSearchService(teamRepo, fixtureRepo).(*searchService)
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestSearchRejectsEmptyQuery(t *testing.T) {
	svc := newSearchServiceForTest(&fakeTeamRepo{}, &fakeFixtureRepo{})

	for _, query := range []string{"", "   ", "\t\n"} {
		_, err := svc.Search(context.Background(), query, 1, 1, 10, models.SearchFilters{})
		assert.ErrorIs(t, err, ErrInvalidSearchQuery, "query %q", query)
	}
}

func TestSearchDateMode(t *testing.T) {
	var captured repositories.FixtureConditions
	fixtureRepo := &fakeFixtureRepo{
		list: func(ctx context.Context, cond repositories.FixtureConditions, offset, limit int) ([]models.Fixture, error) {
			captured = cond
			return []models.Fixture{{ID: 7}}, nil
		},
		count: func(ctx context.Context, cond repositories.FixtureConditions) (int, error) {
			return 1, nil
		},
	}
	teamRepo := &fakeTeamRepo{
		findByStadium: func(ctx context.Context, stadium string) (*models.Team, error) {
			t.Fatal("stadium lookup must not run for a date query")
			return nil, nil
		},
	}

	svc := newSearchServiceForTest(teamRepo, fixtureRepo)

	result, err := svc.Search(context.Background(), "2024-05-15", 1, 1, 10, models.SearchFilters{})
	require.NoError(t, err)

	assert.True(t, result.IsDateSearch)
	assert.False(t, result.IsStadiumSearch)

	require.NotNil(t, captured.DayStart)
	require.NotNil(t, captured.DayEnd)
	assert.Equal(t, time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC), *captured.DayStart)
	assert.True(t, captured.DayEnd.After(*captured.DayStart))
	assert.True(t, captured.DayEnd.Before(captured.DayStart.Add(24*time.Hour)))

	// Date mode returns no teams by definition.
	assert.Empty(t, result.Results.Teams.Items)
	assert.Equal(t, 0, result.Results.Teams.Pagination.Total)
	assert.Equal(t, 0, result.Results.Teams.Pagination.TotalPages)
	assert.Len(t, result.Results.Fixtures.Items, 1)
}

func TestSearchDateModeAcceptsVerboseLayouts(t *testing.T) {
	svc := newSearchServiceForTest(&fakeTeamRepo{}, &fakeFixtureRepo{})

	for _, query := range []string{"2024/05/15", "May 15, 2024", "2024-05-15T00:00:00Z"} {
		result, err := svc.Search(context.Background(), query, 1, 1, 10, models.SearchFilters{})
		require.NoError(t, err, "query %q", query)
		assert.True(t, result.IsDateSearch, "query %q", query)
	}
}

func TestSearchStadiumMode(t *testing.T) {
	team := models.Team{ID: 3, Name: "Arsenal", ShortName: "ARS", Stadium: "Emirates Stadium"}

	var captured repositories.FixtureConditions
	teamRepo := &fakeTeamRepo{
		findByStadium: func(ctx context.Context, stadium string) (*models.Team, error) {
			assert.Equal(t, "emirates stadium", stadium)
			return &team, nil
		},
	}
	fixtureRepo := &fakeFixtureRepo{
		list: func(ctx context.Context, cond repositories.FixtureConditions, offset, limit int) ([]models.Fixture, error) {
			captured = cond
			return nil, nil
		},
	}

	svc := newSearchServiceForTest(teamRepo, fixtureRepo)

	result, err := svc.Search(context.Background(), "emirates stadium", 1, 1, 10, models.SearchFilters{})
	require.NoError(t, err)

	assert.False(t, result.IsDateSearch)
	assert.True(t, result.IsStadiumSearch)

	require.Len(t, result.Results.Teams.Items, 1)
	assert.Equal(t, 3, result.Results.Teams.Items[0].ID)
	assert.Equal(t, 1, result.Results.Teams.Pagination.Total)

	// Fixtures are constrained by the canonical stadium spelling, not
	// the raw query.
	require.NotNil(t, captured.Venue)
	assert.Equal(t, "Emirates Stadium", *captured.Venue)
	assert.False(t, captured.RestrictToTeams)
}

func TestSearchTokenMode(t *testing.T) {
	candidates := []models.Team{
		{ID: 1, Name: "Manchester United", ShortName: "MUN", Stadium: "Old Trafford"},
		{ID: 2, Name: "Manchester City", ShortName: "MCI", Stadium: "Etihad Stadium"},
		{ID: 3, Name: "United FC", ShortName: "UFC", Stadium: "Union Park"},
	}

	var captured repositories.FixtureConditions
	teamRepo := &fakeTeamRepo{
		matchTokens: func(ctx context.Context, tokens []string) ([]models.Team, error) {
			assert.Equal(t, []string{"manchester", "united"}, tokens)
			return candidates, nil
		},
		countTokenMatches: func(ctx context.Context, tokens []string) (int, error) {
			return len(candidates), nil
		},
	}
	fixtureRepo := &fakeFixtureRepo{
		list: func(ctx context.Context, cond repositories.FixtureConditions, offset, limit int) ([]models.Fixture, error) {
			captured = cond
			return nil, nil
		},
	}

	svc := newSearchServiceForTest(teamRepo, fixtureRepo)

	result, err := svc.Search(context.Background(), "Manchester United", 1, 1, 10, models.SearchFilters{})
	require.NoError(t, err)

	assert.False(t, result.IsDateSearch)
	assert.False(t, result.IsStadiumSearch)

	// "Manchester United" scores 3 (name match) + 2 (two whole words) on
	// team 1, 1 on team 2 ("manchester") and 1 on team 3 ("united").
	// Teams 2 and 3 tie and fall back to ascending id.
	require.Len(t, result.Results.Teams.Items, 3)
	assert.Equal(t, []int{1, 2, 3}, teamIDs(result.Results.Teams.Items))
	assert.Equal(t, 3, result.Results.Teams.Pagination.Total)

	// The fixture constraint carries exactly the paged team ids.
	assert.True(t, captured.RestrictToTeams)
	assert.Equal(t, []int{1, 2, 3}, captured.TeamIDs)
}

func TestSearchTokenModeNoMatchesRestrictsToNothing(t *testing.T) {
	var captured repositories.FixtureConditions
	fixtureRepo := &fakeFixtureRepo{
		list: func(ctx context.Context, cond repositories.FixtureConditions, offset, limit int) ([]models.Fixture, error) {
			captured = cond
			return nil, nil
		},
	}

	svc := newSearchServiceForTest(&fakeTeamRepo{}, fixtureRepo)

	result, err := svc.Search(context.Background(), "nonexistent club", 1, 1, 10, models.SearchFilters{})
	require.NoError(t, err)

	assert.Empty(t, result.Results.Teams.Items)
	assert.True(t, captured.RestrictToTeams)
	assert.Empty(t, captured.TeamIDs)
}

func TestSearchTokenModePagination(t *testing.T) {
	// 25 candidates with equal scores rank by ascending id; page 3 at
	// limit 10 holds the last five.
	candidates := make([]models.Team, 0, 25)
	for i := 1; i <= 25; i++ {
		candidates = append(candidates, models.Team{ID: i, Name: "Rovers"})
	}

	teamRepo := &fakeTeamRepo{
		matchTokens: func(ctx context.Context, tokens []string) ([]models.Team, error) {
			return candidates, nil
		},
		countTokenMatches: func(ctx context.Context, tokens []string) (int, error) {
			return 25, nil
		},
	}

	svc := newSearchServiceForTest(teamRepo, &fakeFixtureRepo{})

	result, err := svc.Search(context.Background(), "rovers", 3, 1, 10, models.SearchFilters{})
	require.NoError(t, err)

	assert.Equal(t, []int{21, 22, 23, 24, 25}, teamIDs(result.Results.Teams.Items))
	assert.Equal(t, models.Pagination{Total: 25, Page: 3, Limit: 10, TotalPages: 3}, result.Results.Teams.Pagination)
}

func TestSearchNormalizesPagingParameters(t *testing.T) {
	var gotOffset, gotLimit int
	fixtureRepo := &fakeFixtureRepo{
		list: func(ctx context.Context, cond repositories.FixtureConditions, offset, limit int) ([]models.Fixture, error) {
			gotOffset, gotLimit = offset, limit
			return nil, nil
		},
	}

	svc := newSearchServiceForTest(&fakeTeamRepo{}, fixtureRepo)

	result, err := svc.Search(context.Background(), "rovers", -4, 0, 5000, models.SearchFilters{})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Results.Teams.Pagination.Page)
	assert.Equal(t, 1, result.Results.Fixtures.Pagination.Page)
	assert.Equal(t, maxLimit, result.Results.Fixtures.Pagination.Limit)
	assert.Equal(t, 0, gotOffset)
	assert.Equal(t, maxLimit, gotLimit)
}

func TestSearchAppliesStructuredFilters(t *testing.T) {
	status := models.FixtureStatusCompleted
	season := "2023/2024"
	venue := "Anfield"
	dateFrom := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	dateTo := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	teamName := "Liverpool"

	filters := models.SearchFilters{
		Status:   &status,
		Season:   &season,
		Venue:    &venue,
		DateFrom: &dateFrom,
		DateTo:   &dateTo,
		Team:     &teamName,
		Result:   &models.FixtureResult{HomeScore: 2, AwayScore: 1},
	}

	var captured repositories.FixtureConditions
	teamRepo := &fakeTeamRepo{
		findByNameLike: func(ctx context.Context, name string) (*models.Team, error) {
			assert.Equal(t, "Liverpool", name)
			return &models.Team{ID: 14, Name: "Liverpool"}, nil
		},
	}
	fixtureRepo := &fakeFixtureRepo{
		list: func(ctx context.Context, cond repositories.FixtureConditions, offset, limit int) ([]models.Fixture, error) {
			captured = cond
			return nil, nil
		},
	}

	svc := newSearchServiceForTest(teamRepo, fixtureRepo)

	result, err := svc.Search(context.Background(), "2024-05-15", 1, 1, 10, filters)
	require.NoError(t, err)

	assert.Equal(t, &status, captured.Status)
	assert.Equal(t, &season, captured.Season)
	assert.Equal(t, &venue, captured.VenueLike)
	assert.Equal(t, &dateFrom, captured.DateFrom)
	assert.Equal(t, &dateTo, captured.DateTo)
	require.NotNil(t, captured.HomeScore)
	require.NotNil(t, captured.AwayScore)
	assert.Equal(t, 2, *captured.HomeScore)
	assert.Equal(t, 1, *captured.AwayScore)

	// The team filter joins the date-mode constraint.
	assert.True(t, captured.RestrictToTeams)
	assert.Equal(t, []int{14}, captured.TeamIDs)
	require.NotNil(t, captured.DayStart)

	// The envelope echoes what was applied.
	assert.Equal(t, filters, result.Filters)
}

func TestSearchUnmatchedTeamFilterIsNoOp(t *testing.T) {
	teamName := "Ghost FC"
	var captured repositories.FixtureConditions
	fixtureRepo := &fakeFixtureRepo{
		list: func(ctx context.Context, cond repositories.FixtureConditions, offset, limit int) ([]models.Fixture, error) {
			captured = cond
			return nil, nil
		},
	}

	svc := newSearchServiceForTest(&fakeTeamRepo{}, fixtureRepo)

	_, err := svc.Search(context.Background(), "2024-05-15", 1, 1, 10, models.SearchFilters{Team: &teamName})
	require.NoError(t, err)

	assert.False(t, captured.RestrictToTeams)
	assert.Empty(t, captured.TeamIDs)
}

func TestSearchPropagatesConcurrentQueryFailure(t *testing.T) {
	boom := errors.New("database gone")

	cases := map[string]struct {
		teamRepo    *fakeTeamRepo
		fixtureRepo *fakeFixtureRepo
	}{
		"team count fails": {
			teamRepo: &fakeTeamRepo{
				countTokenMatches: func(ctx context.Context, tokens []string) (int, error) {
					return 0, boom
				},
			},
			fixtureRepo: &fakeFixtureRepo{},
		},
		"fixture page fails": {
			teamRepo: &fakeTeamRepo{},
			fixtureRepo: &fakeFixtureRepo{
				list: func(ctx context.Context, cond repositories.FixtureConditions, offset, limit int) ([]models.Fixture, error) {
					return nil, boom
				},
			},
		},
		"fixture count fails": {
			teamRepo: &fakeTeamRepo{},
			fixtureRepo: &fakeFixtureRepo{
				count: func(ctx context.Context, cond repositories.FixtureConditions) (int, error) {
					return 0, boom
				},
			},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			svc := newSearchServiceForTest(tc.teamRepo, tc.fixtureRepo)
			_, err := svc.Search(context.Background(), "rovers", 1, 1, 10, models.SearchFilters{})
			assert.ErrorIs(t, err, boom)
		})
	}
}

func TestSearchEnvelopeShape(t *testing.T) {
	svc := newSearchServiceForTest(&fakeTeamRepo{}, &fakeFixtureRepo{})

	result, err := svc.Search(context.Background(), "rovers", 1, 1, 10, models.SearchFilters{})
	require.NoError(t, err)

	assert.Equal(t, "success", result.Status)
	assert.Equal(t, "rovers", result.Query)
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), result.Timestamp)
	assert.NotNil(t, result.Results.Teams.Items)
	assert.NotNil(t, result.Results.Fixtures.Items)
}

func TestScoreTeam(t *testing.T) {
	team := models.Team{ID: 1, Name: "united", ShortName: "utd", Stadium: "old trafford"}

	cases := []struct {
		name   string
		tokens []string
		want   int
	}{
		{"name equals token", []string{"united"}, 4}, // +3 name, +1 whole word
		{"short name equals token", []string{"utd"}, 2},
		{"stadium equals token", []string{"old trafford"}, 2},
		{"no overlap", []string{"arsenal"}, 0},
		{"duplicate tokens count once", []string{"united", "united"}, 4},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, scoreTeam(team, tc.tokens))
		})
	}
}

func TestScoreTeamWholeWordsAreDistinct(t *testing.T) {
	team := models.Team{ID: 1, Name: "Manchester United", ShortName: "MUN", Stadium: "Old Trafford"}

	// Both name words match: +3 for the full-name token plus +1 each.
	assert.Equal(t, 2, scoreTeam(team, []string{"manchester", "united"}))
	assert.Equal(t, 5, scoreTeam(team, []string{"manchester united", "manchester", "united"}))
}

func TestRankTeamsOrdersByScoreThenID(t *testing.T) {
	teams := []models.Team{
		{ID: 5, Name: "rovers"},
		{ID: 2, Name: "city rovers"},
		{ID: 9, Name: "rovers town"},
	}

	ranked := rankTeams(teams, []string{"rovers"}, 1, 10)

	// ID 5 matches the full name (+3 +1); 2 and 9 each score +1 and tie,
	// resolved by ascending id.
	assert.Equal(t, []int{5, 2, 9}, teamIDs(ranked))
}

func TestRankTeamsPageBeyondEnd(t *testing.T) {
	teams := []models.Team{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}}
	assert.Empty(t, rankTeams(teams, []string{"a"}, 4, 10))
}

func teamIDs(teams []models.Team) []int {
	ids := make([]int, 0, len(teams))
	for _, team := range teams {
		ids = append(ids, team.ID)
	}
	return ids
}
