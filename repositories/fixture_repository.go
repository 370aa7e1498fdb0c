package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/Hybee22/football-fixture-api/models"
	"github.com/lib/pq"
)

var (
	ErrFixtureNotFound     = errors.New("fixture not found")
	ErrFixtureLinkConflict = errors.New("fixture unique link conflict")
	ErrFixtureTeamInvalid  = errors.New("fixture team conflict or invalid")
)

// FixtureConditions is the merged query constraint a fixture listing
// runs under: the search-mode clause plus every structured filter,
// all ANDed together. Zero-valued fields impose no constraint.
type FixtureConditions struct {
	// RestrictToTeams constrains fixtures to reference (home or away)
	// one of TeamIDs. It is set independently of len(TeamIDs): a
	// restriction over an empty set matches nothing.
	RestrictToTeams bool
	TeamIDs         []int

	// Venue is an exact match (stadium-mode constraint).
	Venue *string

	// DayStart/DayEnd is the calendar-day window of a date search.
	DayStart *time.Time
	DayEnd   *time.Time

	Status    *models.FixtureStatus
	Season    *string // case-insensitive substring
	VenueLike *string // case-insensitive substring
	DateFrom  *time.Time
	DateTo    *time.Time
	HomeScore *int
	AwayScore *int
}

type FixtureRepository interface {
	Create(ctx context.Context, fixture *models.Fixture) error
	GetByID(ctx context.Context, id int) (*models.Fixture, error)
	GetByUniqueLink(ctx context.Context, uniqueLink string) (*models.Fixture, error)
	// List returns a page of fixtures satisfying the conditions, with
	// both team references expanded.
	List(ctx context.Context, cond FixtureConditions, offset, limit int) ([]models.Fixture, error)
	Count(ctx context.Context, cond FixtureConditions) (int, error)
	Update(ctx context.Context, fixture *models.Fixture) error
	Delete(ctx context.Context, id int) error
}

type postgresFixtureRepository struct {
	db *sql.DB
}

func NewPostgresFixtureRepository(db *sql.DB) FixtureRepository {
	return &postgresFixtureRepository{db: db}
}

func (r *postgresFixtureRepository) Create(ctx context.Context, fixture *models.Fixture) error {
	query := `
		INSERT INTO fixtures
			(home_team_id, away_team_id, date, season, venue, status, home_score, away_score, unique_link)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	homeScore, awayScore := scoreColumns(fixture.Result)
	err := r.db.QueryRowContext(ctx, query,
		fixture.HomeTeamID,
		fixture.AwayTeamID,
		fixture.Date,
		fixture.Season,
		fixture.Venue,
		fixture.Status,
		homeScore,
		awayScore,
		fixture.UniqueLink,
	).Scan(&fixture.ID, &fixture.CreatedAt)

	return r.handleFixtureError(err)
}

func (r *postgresFixtureRepository) GetByID(ctx context.Context, id int) (*models.Fixture, error) {
	query := selectFixtures + ` WHERE f.id = $1`
	return r.scanFixture(ctx, query, id)
}

func (r *postgresFixtureRepository) GetByUniqueLink(ctx context.Context, uniqueLink string) (*models.Fixture, error) {
	query := selectFixtures + ` WHERE f.unique_link = $1`
	return r.scanFixture(ctx, query, uniqueLink)
}

func (r *postgresFixtureRepository) List(ctx context.Context, cond FixtureConditions, offset, limit int) ([]models.Fixture, error) {
	where, args := buildFixtureWhere(cond)

	var queryBuilder strings.Builder
	queryBuilder.WriteString(selectFixtures)
	queryBuilder.WriteString(where)
	queryBuilder.WriteString(" ORDER BY f.date ASC, f.id ASC")
	queryBuilder.WriteString(" OFFSET $" + strconv.Itoa(len(args)+1))
	queryBuilder.WriteString(" LIMIT $" + strconv.Itoa(len(args)+2))
	args = append(args, offset, limit)

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fixtures := make([]models.Fixture, 0)
	for rows.Next() {
		fixture, scanErr := scanFixtureRow(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		fixtures = append(fixtures, *fixture)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return fixtures, nil
}

func (r *postgresFixtureRepository) Count(ctx context.Context, cond FixtureConditions) (int, error) {
	where, args := buildFixtureWhere(cond)

	var count int
	query := `SELECT COUNT(*) FROM fixtures f` + where
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *postgresFixtureRepository) Update(ctx context.Context, fixture *models.Fixture) error {
	query := `
		UPDATE fixtures SET
			home_team_id = $1,
			away_team_id = $2,
			date = $3,
			season = $4,
			venue = $5,
			status = $6,
			home_score = $7,
			away_score = $8
		WHERE id = $9`

	homeScore, awayScore := scoreColumns(fixture.Result)
	result, err := r.db.ExecContext(ctx, query,
		fixture.HomeTeamID,
		fixture.AwayTeamID,
		fixture.Date,
		fixture.Season,
		fixture.Venue,
		fixture.Status,
		homeScore,
		awayScore,
		fixture.ID,
	)
	if err != nil {
		return r.handleFixtureError(err)
	}

	rowsAffected, checkErr := checkRowsAffected(result)
	if checkErr != nil {
		return checkErr
	}
	if rowsAffected == 0 {
		return ErrFixtureNotFound
	}
	return nil
}

func (r *postgresFixtureRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM fixtures WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, checkErr := checkRowsAffected(result)
	if checkErr != nil {
		return checkErr
	}
	if rowsAffected == 0 {
		return ErrFixtureNotFound
	}
	return nil
}

const selectFixtures = `
	SELECT
		f.id, f.home_team_id, f.away_team_id, f.date, f.season, f.venue,
		f.status, f.home_score, f.away_score, f.unique_link, f.created_at,
		ht.id, ht.name, ht.short_name, ht.founded, ht.stadium, ht.crest_key, ht.created_at,
		aw.id, aw.name, aw.short_name, aw.founded, aw.stadium, aw.crest_key, aw.created_at
	FROM fixtures f
	JOIN teams ht ON f.home_team_id = ht.id
	JOIN teams aw ON f.away_team_id = aw.id`

// buildFixtureWhere renders the conditions into a WHERE clause with
// numbered placeholders and the matching argument list.
func buildFixtureWhere(cond FixtureConditions) (string, []interface{}) {
	clauses := make([]string, 0, 8)
	args := make([]interface{}, 0, 8)

	next := func(arg interface{}) string {
		args = append(args, arg)
		return "$" + strconv.Itoa(len(args))
	}

	if cond.RestrictToTeams {
		if len(cond.TeamIDs) == 0 {
			// Membership restriction over no teams can match nothing.
			clauses = append(clauses, "FALSE")
		} else {
			p := next(pq.Array(cond.TeamIDs))
			clauses = append(clauses, "(f.home_team_id = ANY("+p+") OR f.away_team_id = ANY("+p+"))")
		}
	}
	if cond.Venue != nil {
		clauses = append(clauses, "f.venue = "+next(*cond.Venue))
	}
	if cond.DayStart != nil {
		clauses = append(clauses, "f.date >= "+next(*cond.DayStart))
	}
	if cond.DayEnd != nil {
		clauses = append(clauses, "f.date <= "+next(*cond.DayEnd))
	}
	if cond.Status != nil {
		clauses = append(clauses, "f.status = "+next(*cond.Status))
	}
	if cond.Season != nil {
		clauses = append(clauses, "f.season ILIKE "+next("%"+*cond.Season+"%"))
	}
	if cond.VenueLike != nil {
		clauses = append(clauses, "f.venue ILIKE "+next("%"+*cond.VenueLike+"%"))
	}
	if cond.DateFrom != nil {
		clauses = append(clauses, "f.date >= "+next(*cond.DateFrom))
	}
	if cond.DateTo != nil {
		clauses = append(clauses, "f.date <= "+next(*cond.DateTo))
	}
	if cond.HomeScore != nil && cond.AwayScore != nil {
		clauses = append(clauses, "f.home_score = "+next(*cond.HomeScore))
		clauses = append(clauses, "f.away_score = "+next(*cond.AwayScore))
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func scoreColumns(result *models.FixtureResult) (sql.NullInt64, sql.NullInt64) {
	if result == nil {
		return sql.NullInt64{}, sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(result.HomeScore), Valid: true},
		sql.NullInt64{Int64: int64(result.AwayScore), Valid: true}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanFixtureRow(row rowScanner) (*models.Fixture, error) {
	fixture := &models.Fixture{}
	homeTeam := models.Team{}
	awayTeam := models.Team{}

	var homeScore, awayScore sql.NullInt64

	err := row.Scan(
		&fixture.ID,
		&fixture.HomeTeamID,
		&fixture.AwayTeamID,
		&fixture.Date,
		&fixture.Season,
		&fixture.Venue,
		&fixture.Status,
		&homeScore,
		&awayScore,
		&fixture.UniqueLink,
		&fixture.CreatedAt,
		&homeTeam.ID,
		&homeTeam.Name,
		&homeTeam.ShortName,
		&homeTeam.Founded,
		&homeTeam.Stadium,
		&homeTeam.CrestKey,
		&homeTeam.CreatedAt,
		&awayTeam.ID,
		&awayTeam.Name,
		&awayTeam.ShortName,
		&awayTeam.Founded,
		&awayTeam.Stadium,
		&awayTeam.CrestKey,
		&awayTeam.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if homeScore.Valid && awayScore.Valid {
		fixture.Result = &models.FixtureResult{
			HomeScore: int(homeScore.Int64),
			AwayScore: int(awayScore.Int64),
		}
	}
	fixture.HomeTeam = &homeTeam
	fixture.AwayTeam = &awayTeam
	return fixture, nil
}

func (r *postgresFixtureRepository) scanFixture(ctx context.Context, query string, args ...interface{}) (*models.Fixture, error) {
	fixture, err := scanFixtureRow(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFixtureNotFound
		}
		return nil, err
	}
	return fixture, nil
}

func (r *postgresFixtureRepository) handleFixtureError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			if pqErr.Constraint == "fixtures_unique_link_key" {
				return ErrFixtureLinkConflict
			}
		case "23503":
			return ErrFixtureTeamInvalid
		}
	}
	return err
}
