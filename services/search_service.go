package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/Hybee22/football-fixture-api/models"
	"github.com/Hybee22/football-fixture-api/repositories"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	maxLimit     = 100
)

// queryDateLayouts are the accepted calendar-date forms of a search
// query. A query parseable by any of them triggers date mode.
var queryDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006/01/02",
	"January 2, 2006",
	"Jan 2, 2006",
}

// SearchService interprets a free-text query as one of three mutually
// exclusive modes (date, exact stadium, tokens), merges the structured
// filters into the fixture constraint, and returns two independently
// paginated result sets.
type SearchService interface {
	Search(ctx context.Context, query string, teamPage, fixturePage, limit int, filters models.SearchFilters) (*models.SearchResult, error)
}

type searchService struct {
	teamRepo    repositories.TeamRepository
	fixtureRepo repositories.FixtureRepository
	now         func() time.Time
}

func NewSearchService(teamRepo repositories.TeamRepository, fixtureRepo repositories.FixtureRepository) SearchService {
	return &searchService{
		teamRepo:    teamRepo,
		fixtureRepo: fixtureRepo,
		now:         time.Now,
	}
}

func (s *searchService) Search(ctx context.Context, query string, teamPage, fixturePage, limit int, filters models.SearchFilters) (*models.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrInvalidSearchQuery
	}

	teamPage = normalizePage(teamPage)
	fixturePage = normalizePage(fixturePage)
	limit = normalizeLimit(limit)

	var (
		cond            repositories.FixtureConditions
		teams           []models.Team
		tokens          []string
		isDateSearch    bool
		isStadiumSearch bool
	)

	// Mode resolution is sequential: date, then exact stadium, then
	// the token fallback. Only one mode is ever active.
	if day, ok := parseQueryDate(query); ok {
		isDateSearch = true
		dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
		dayEnd := dayStart.Add(24*time.Hour - time.Millisecond)
		cond.DayStart = &dayStart
		cond.DayEnd = &dayEnd
	} else {
		stadiumTeam, err := s.teamRepo.FindByStadium(ctx, query)
		switch {
		case err == nil:
			isStadiumSearch = true
			teams = []models.Team{*stadiumTeam}
			cond.Venue = &stadiumTeam.Stadium
		case errors.Is(err, repositories.ErrTeamNotFound):
			tokens = tokenize(query)
			candidates, matchErr := s.teamRepo.MatchTokens(ctx, tokens)
			if matchErr != nil {
				return nil, matchErr
			}
			teams = rankTeams(candidates, tokens, teamPage, limit)

			cond.RestrictToTeams = true
			for _, team := range teams {
				cond.TeamIDs = append(cond.TeamIDs, team.ID)
			}
		default:
			return nil, err
		}
	}

	appliedFilters, err := s.applyFilters(ctx, &cond, filters)
	if err != nil {
		return nil, err
	}

	// The remaining three queries are independent; run them
	// concurrently. Any failure aborts the whole search.
	var (
		teamTotal    int
		fixtures     []models.Fixture
		fixtureTotal int
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		switch {
		case isDateSearch:
			teamTotal = 0
		case isStadiumSearch:
			teamTotal = 1
		default:
			count, countErr := s.teamRepo.CountTokenMatches(gCtx, tokens)
			if countErr != nil {
				return countErr
			}
			teamTotal = count
		}
		return nil
	})

	g.Go(func() error {
		page, listErr := s.fixtureRepo.List(gCtx, cond, (fixturePage-1)*limit, limit)
		if listErr != nil {
			return listErr
		}
		fixtures = page
		return nil
	})

	g.Go(func() error {
		count, countErr := s.fixtureRepo.Count(gCtx, cond)
		if countErr != nil {
			return countErr
		}
		fixtureTotal = count
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if teams == nil {
		teams = []models.Team{}
	}
	if fixtures == nil {
		fixtures = []models.Fixture{}
	}

	return &models.SearchResult{
		Status:          "success",
		Timestamp:       s.now().UTC(),
		Query:           query,
		IsDateSearch:    isDateSearch,
		IsStadiumSearch: isStadiumSearch,
		Filters:         appliedFilters,
		Results: models.SearchResults{
			Teams: models.TeamPage{
				Items:      teams,
				Pagination: models.NewPagination(teamTotal, teamPage, limit),
			},
			Fixtures: models.FixturePage{
				Items:      fixtures,
				Pagination: models.NewPagination(fixtureTotal, fixturePage, limit),
			},
		},
	}, nil
}

// applyFilters merges the structured filters into the fixture
// conditions. Every filter is independent and ANDed with the
// mode-derived constraint. An unmatched team filter contributes no
// constraint at all; this mirrors the historical behavior, even though
// forcing zero results would arguably be less surprising.
func (s *searchService) applyFilters(ctx context.Context, cond *repositories.FixtureConditions, filters models.SearchFilters) (models.SearchFilters, error) {
	applied := models.SearchFilters{
		Status:   filters.Status,
		Season:   filters.Season,
		Venue:    filters.Venue,
		DateFrom: filters.DateFrom,
		DateTo:   filters.DateTo,
		Team:     filters.Team,
	}

	cond.Status = filters.Status
	cond.Season = filters.Season
	cond.VenueLike = filters.Venue
	cond.DateFrom = filters.DateFrom
	cond.DateTo = filters.DateTo

	if filters.Team != nil {
		team, err := s.teamRepo.FindByNameLike(ctx, *filters.Team)
		switch {
		case err == nil:
			cond.RestrictToTeams = true
			cond.TeamIDs = append(cond.TeamIDs, team.ID)
		case errors.Is(err, repositories.ErrTeamNotFound):
			// Silent no-op: the filter resolves to nothing.
		default:
			return models.SearchFilters{}, err
		}
	}

	if filters.Result != nil {
		applied.Result = filters.Result
		homeScore := filters.Result.HomeScore
		awayScore := filters.Result.AwayScore
		cond.HomeScore = &homeScore
		cond.AwayScore = &awayScore
	}

	return applied, nil
}

// rankTeams scores the candidates against the query tokens, orders
// them by score (ties broken by ascending id) and cuts the requested
// page out of the ranking.
func rankTeams(candidates []models.Team, tokens []string, page, limit int) []models.Team {
	ranked := make([]models.Team, len(candidates))
	copy(ranked, candidates)

	scores := make(map[int]int, len(ranked))
	for _, team := range ranked {
		scores[team.ID] = scoreTeam(team, tokens)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		si, sj := scores[ranked[i].ID], scores[ranked[j].ID]
		if si != sj {
			return si > sj
		}
		return ranked[i].ID < ranked[j].ID
	})

	skip := (page - 1) * limit
	if skip >= len(ranked) {
		return []models.Team{}
	}
	end := skip + limit
	if end > len(ranked) {
		end = len(ranked)
	}
	return ranked[skip:end]
}

// scoreTeam computes the lexical relevance of a team for the tokens:
// +3 if the name equals a token, +2 each for short name and stadium,
// +1 per distinct token occurring as a whole word of the name.
func scoreTeam(team models.Team, tokens []string) int {
	name := strings.ToLower(team.Name)
	shortName := strings.ToLower(team.ShortName)
	stadium := strings.ToLower(team.Stadium)

	tokenSet := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		tokenSet[token] = struct{}{}
	}

	score := 0
	if _, ok := tokenSet[name]; ok {
		score += 3
	}
	if _, ok := tokenSet[shortName]; ok {
		score += 2
	}
	if _, ok := tokenSet[stadium]; ok {
		score += 2
	}

	seen := make(map[string]struct{})
	for _, word := range strings.Fields(name) {
		if _, ok := tokenSet[word]; !ok {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		score++
	}
	return score
}

func tokenize(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

func parseQueryDate(query string) (time.Time, bool) {
	trimmed := strings.TrimSpace(query)
	for _, layout := range queryDateLayouts {
		if day, err := time.Parse(layout, trimmed); err == nil {
			return day, true
		}
	}
	return time.Time{}, false
}

func normalizePage(page int) int {
	if page < 1 {
		return DefaultPage
	}
	return page
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
