package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Hybee22/football-fixture-api/models"
	"github.com/lib/pq"
)

var (
	ErrTeamNotFound          = errors.New("team not found")
	ErrTeamNameConflict      = errors.New("team name conflict")
	ErrTeamShortNameConflict = errors.New("team short name conflict")
)

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	List(ctx context.Context, offset, limit int) ([]models.Team, error)
	Count(ctx context.Context) (int, error)
	Update(ctx context.Context, team *models.Team) error
	UpdateCrestKey(ctx context.Context, id int, crestKey *string) error
	Delete(ctx context.Context, id int) error

	// FindByStadium matches the stadium name exactly, case-insensitively.
	FindByStadium(ctx context.Context, stadium string) (*models.Team, error)
	// FindByNameLike returns the first team whose name contains the
	// given fragment, case-insensitively.
	FindByNameLike(ctx context.Context, name string) (*models.Team, error)
	// MatchTokens returns every team whose name, short name or stadium
	// contains at least one of the tokens as a case-insensitive
	// substring, in ascending id order.
	MatchTokens(ctx context.Context, tokens []string) ([]models.Team, error)
	CountTokenMatches(ctx context.Context, tokens []string) (int, error)
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

const teamColumns = `id, name, short_name, founded, stadium, crest_key, created_at`

func (r *postgresTeamRepository) Create(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (name, short_name, founded, stadium)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		team.Name,
		team.ShortName,
		team.Founded,
		team.Stadium,
	).Scan(&team.ID, &team.CreatedAt)

	return r.handleTeamError(err)
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`
	return r.scanTeam(ctx, query, id)
}

func (r *postgresTeamRepository) List(ctx context.Context, offset, limit int) ([]models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams ORDER BY id ASC OFFSET $1 LIMIT $2`
	return r.queryTeams(ctx, query, offset, limit)
}

func (r *postgresTeamRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM teams`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *postgresTeamRepository) Update(ctx context.Context, team *models.Team) error {
	query := `
		UPDATE teams SET
			name = $1,
			short_name = $2,
			founded = $3,
			stadium = $4
		WHERE id = $5`

	result, err := r.db.ExecContext(ctx, query,
		team.Name,
		team.ShortName,
		team.Founded,
		team.Stadium,
		team.ID,
	)
	if err != nil {
		return r.handleTeamError(err)
	}

	rowsAffected, checkErr := checkRowsAffected(result)
	if checkErr != nil {
		return checkErr
	}
	if rowsAffected == 0 {
		return ErrTeamNotFound
	}
	return nil
}

func (r *postgresTeamRepository) UpdateCrestKey(ctx context.Context, id int, crestKey *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE teams SET crest_key = $1 WHERE id = $2`, crestKey, id)
	if err != nil {
		return err
	}

	rowsAffected, checkErr := checkRowsAffected(result)
	if checkErr != nil {
		return checkErr
	}
	if rowsAffected == 0 {
		return ErrTeamNotFound
	}
	return nil
}

func (r *postgresTeamRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, checkErr := checkRowsAffected(result)
	if checkErr != nil {
		return checkErr
	}
	if rowsAffected == 0 {
		return ErrTeamNotFound
	}
	return nil
}

func (r *postgresTeamRepository) FindByStadium(ctx context.Context, stadium string) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE LOWER(stadium) = LOWER($1) LIMIT 1`
	return r.scanTeam(ctx, query, stadium)
}

func (r *postgresTeamRepository) FindByNameLike(ctx context.Context, name string) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE name ILIKE $1 ORDER BY id ASC LIMIT 1`
	return r.scanTeam(ctx, query, "%"+name+"%")
}

func (r *postgresTeamRepository) MatchTokens(ctx context.Context, tokens []string) ([]models.Team, error) {
	query := `
		SELECT ` + teamColumns + `
		FROM teams
		WHERE name ILIKE ANY($1) OR short_name ILIKE ANY($1) OR stadium ILIKE ANY($1)
		ORDER BY id ASC`
	return r.queryTeams(ctx, query, pq.Array(tokenPatterns(tokens)))
}

func (r *postgresTeamRepository) CountTokenMatches(ctx context.Context, tokens []string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM teams
		WHERE name ILIKE ANY($1) OR short_name ILIKE ANY($1) OR stadium ILIKE ANY($1)`

	var count int
	if err := r.db.QueryRowContext(ctx, query, pq.Array(tokenPatterns(tokens))).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func tokenPatterns(tokens []string) []string {
	patterns := make([]string, 0, len(tokens))
	for _, token := range tokens {
		patterns = append(patterns, "%"+token+"%")
	}
	return patterns
}

func (r *postgresTeamRepository) scanTeam(ctx context.Context, query string, args ...interface{}) (*models.Team, error) {
	team := &models.Team{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&team.ID,
		&team.Name,
		&team.ShortName,
		&team.Founded,
		&team.Stadium,
		&team.CrestKey,
		&team.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to scan team: %w", err)
	}
	return team, nil
}

func (r *postgresTeamRepository) queryTeams(ctx context.Context, query string, args ...interface{}) ([]models.Team, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		var team models.Team
		if scanErr := rows.Scan(
			&team.ID,
			&team.Name,
			&team.ShortName,
			&team.Founded,
			&team.Stadium,
			&team.CrestKey,
			&team.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		teams = append(teams, team)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *postgresTeamRepository) handleTeamError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		switch pqErr.Constraint {
		case "teams_name_key":
			return ErrTeamNameConflict
		case "teams_short_name_key":
			return ErrTeamShortNameConflict
		}
	}
	return err
}
