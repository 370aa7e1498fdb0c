package models

import "time"

type FixtureStatus string

const (
	FixtureStatusPending   FixtureStatus = "pending"
	FixtureStatusCompleted FixtureStatus = "completed"
)

// FixtureResult holds the final score of a completed fixture. Both
// scores are always set together; a fixture without a result carries
// a nil *FixtureResult.
type FixtureResult struct {
	HomeScore int `json:"homeScore"`
	AwayScore int `json:"awayScore"`
}

type Fixture struct {
	ID         int            `json:"id"`
	HomeTeamID int            `json:"-"`
	AwayTeamID int            `json:"-"`
	Date       time.Time      `json:"date"`
	Season     string         `json:"season"`
	Venue      string         `json:"venue"`
	Status     FixtureStatus  `json:"status"`
	Result     *FixtureResult `json:"result,omitempty"`
	UniqueLink string         `json:"uniqueLink"`
	CreatedAt  time.Time      `json:"createdAt"`

	HomeTeam *Team `json:"homeTeam,omitempty"`
	AwayTeam *Team `json:"awayTeam,omitempty"`
}
