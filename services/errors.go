package services

import "errors"

// Sentinel errors shared by the services and the HTTP error mapping.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business rules
	ErrValidationFailed     = errors.New("validation failed")
	ErrPasswordTooShort     = errors.New("password must be at least 8 characters")
	ErrTeamNameRequired     = errors.New("team name is required")
	ErrTeamFoundedInvalid   = errors.New("team founded year is out of range")
	ErrFixtureTeamsRequired = errors.New("fixture home and away teams are required")
	ErrFixtureSameTeam      = errors.New("fixture home and away teams must differ")
	ErrFixtureInvalidStatus = errors.New("invalid fixture status provided")
	ErrInvalidSearchQuery   = errors.New("Valid search query is required")

	// Conflicts
	ErrUserEmailConflict     = errors.New("email address is already in use")
	ErrTeamNameConflict      = errors.New("team name is already in use")
	ErrTeamShortNameConflict = errors.New("team short name is already in use")
	ErrFixtureLinkConflict   = errors.New("fixture unique link is already in use")

	// Authentication and authorization
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")

	// Entity lookups
	ErrUserNotFound    = errors.New("user not found")
	ErrTeamNotFound    = errors.New("team not found")
	ErrFixtureNotFound = errors.New("fixture not found")

	// Crest uploads require object storage to be configured.
	ErrCrestStorageDisabled = errors.New("crest storage is not configured")
)
