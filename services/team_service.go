package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Hybee22/football-fixture-api/cache"
	"github.com/Hybee22/football-fixture-api/models"
	"github.com/Hybee22/football-fixture-api/repositories"
	"github.com/Hybee22/football-fixture-api/storage"
	"github.com/Hybee22/football-fixture-api/utils"
)

const teamCachePrefix = "teams:"

type TeamInput struct {
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
	Founded   int    `json:"founded"`
	Stadium   string `json:"stadium"`
}

type TeamUpdateInput struct {
	Name      *string `json:"name"`
	ShortName *string `json:"shortName"`
	Founded   *int    `json:"founded"`
	Stadium   *string `json:"stadium"`
}

type TeamService interface {
	CreateTeam(ctx context.Context, input TeamInput) (*models.Team, error)
	ListTeams(ctx context.Context, page, limit int) (*models.TeamPage, error)
	GetTeam(ctx context.Context, id int) (*models.Team, error)
	UpdateTeam(ctx context.Context, id int, input TeamUpdateInput) (*models.Team, error)
	DeleteTeam(ctx context.Context, id int) error
	UploadCrest(ctx context.Context, id int, contentType string, content io.Reader) (*models.Team, error)
}

type teamService struct {
	teamRepo repositories.TeamRepository
	cache    *cache.Store
	uploader storage.Uploader
}

func NewTeamService(teamRepo repositories.TeamRepository, cacheStore *cache.Store, uploader storage.Uploader) TeamService {
	return &teamService{
		teamRepo: teamRepo,
		cache:    cacheStore,
		uploader: uploader,
	}
}

func (s *teamService) CreateTeam(ctx context.Context, input TeamInput) (*models.Team, error) {
	if err := validateTeamInput(input); err != nil {
		return nil, err
	}

	team := &models.Team{
		Name:      strings.TrimSpace(input.Name),
		ShortName: strings.TrimSpace(input.ShortName),
		Founded:   input.Founded,
		Stadium:   strings.TrimSpace(input.Stadium),
	}

	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, mapTeamRepoError(err)
	}

	s.cache.DeletePrefix(ctx, teamCachePrefix)
	return team, nil
}

func (s *teamService) ListTeams(ctx context.Context, page, limit int) (*models.TeamPage, error) {
	page = normalizePage(page)
	limit = normalizeLimit(limit)

	cacheKey := fmt.Sprintf("%slist:%d:%d", teamCachePrefix, page, limit)
	if cached, ok := s.cache.Get(ctx, cacheKey); ok {
		if teamPage, valid := cached.(*models.TeamPage); valid {
			return teamPage, nil
		}
	}

	teams, err := s.teamRepo.List(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	total, err := s.teamRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	for i := range teams {
		s.resolveCrestURL(&teams[i])
	}

	result := &models.TeamPage{
		Items:      teams,
		Pagination: models.NewPagination(total, page, limit),
	}
	s.cache.Set(ctx, cacheKey, result)
	return result, nil
}

func (s *teamService) GetTeam(ctx context.Context, id int) (*models.Team, error) {
	cacheKey := fmt.Sprintf("%sid:%d", teamCachePrefix, id)
	if cached, ok := s.cache.Get(ctx, cacheKey); ok {
		if team, valid := cached.(*models.Team); valid {
			return team, nil
		}
	}

	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapTeamRepoError(err)
	}

	s.resolveCrestURL(team)
	s.cache.Set(ctx, cacheKey, team)
	return team, nil
}

func (s *teamService) UpdateTeam(ctx context.Context, id int, input TeamUpdateInput) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapTeamRepoError(err)
	}

	if input.Name != nil {
		team.Name = strings.TrimSpace(*input.Name)
	}
	if input.ShortName != nil {
		team.ShortName = strings.TrimSpace(*input.ShortName)
	}
	if input.Founded != nil {
		team.Founded = *input.Founded
	}
	if input.Stadium != nil {
		team.Stadium = strings.TrimSpace(*input.Stadium)
	}

	if err := validateTeamInput(TeamInput{
		Name:      team.Name,
		ShortName: team.ShortName,
		Founded:   team.Founded,
		Stadium:   team.Stadium,
	}); err != nil {
		return nil, err
	}

	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, mapTeamRepoError(err)
	}

	s.invalidateTeam(ctx, id)
	s.resolveCrestURL(team)
	return team, nil
}

func (s *teamService) DeleteTeam(ctx context.Context, id int) error {
	if err := s.teamRepo.Delete(ctx, id); err != nil {
		return mapTeamRepoError(err)
	}
	s.invalidateTeam(ctx, id)
	return nil
}

func (s *teamService) UploadCrest(ctx context.Context, id int, contentType string, content io.Reader) (*models.Team, error) {
	if s.uploader == nil {
		return nil, ErrCrestStorageDisabled
	}

	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapTeamRepoError(err)
	}

	key := fmt.Sprintf("crests/team_%d_%s", id, utils.GenerateToken(8))
	result, err := s.uploader.Upload(ctx, key, contentType, content)
	if err != nil {
		return nil, fmt.Errorf("failed to upload crest: %w", err)
	}

	oldKey := team.CrestKey
	if err := s.teamRepo.UpdateCrestKey(ctx, id, &result.Key); err != nil {
		return nil, mapTeamRepoError(err)
	}
	if oldKey != nil && *oldKey != result.Key {
		// Old crest removal failing is not fatal for the request.
		_ = s.uploader.Delete(ctx, *oldKey)
	}

	team.CrestKey = &result.Key
	s.invalidateTeam(ctx, id)
	s.resolveCrestURL(team)
	return team, nil
}

func (s *teamService) invalidateTeam(ctx context.Context, id int) {
	s.cache.Delete(ctx, fmt.Sprintf("%sid:%d", teamCachePrefix, id))
	s.cache.DeletePrefix(ctx, teamCachePrefix+"list:")
}

func (s *teamService) resolveCrestURL(team *models.Team) {
	if s.uploader == nil || team.CrestKey == nil {
		return
	}
	url := s.uploader.GetPublicURL(*team.CrestKey)
	if url != "" {
		team.CrestURL = &url
	}
}

func validateTeamInput(input TeamInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return ErrTeamNameRequired
	}
	if strings.TrimSpace(input.ShortName) == "" {
		return fmt.Errorf("%w: shortName is required", ErrValidationFailed)
	}
	if strings.TrimSpace(input.Stadium) == "" {
		return fmt.Errorf("%w: stadium is required", ErrValidationFailed)
	}
	if input.Founded < 1800 || input.Founded > time.Now().Year() {
		return ErrTeamFoundedInvalid
	}
	return nil
}

func mapTeamRepoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrTeamNotFound):
		return ErrTeamNotFound
	case errors.Is(err, repositories.ErrTeamNameConflict):
		return ErrTeamNameConflict
	case errors.Is(err, repositories.ErrTeamShortNameConflict):
		return ErrTeamShortNameConflict
	default:
		return err
	}
}
