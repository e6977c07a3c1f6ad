package services

import "errors"

// Sentinel errors shared across services and the HTTP/bot error mapping.
var (
	// Validation of incoming fields and business rules
	ErrValidationFailed = errors.New("validation failed")
	ErrWinnerRequired   = errors.New("winner name is required")
	ErrRegionRequired   = errors.New("region is required")
	ErrInvalidRegion    = errors.New("region is not part of this tournament")
	ErrMapNameRequired  = errors.New("map name is required")
	ErrNoWinners        = errors.New("at least one winner must be specified")
	ErrRoundTooLow      = errors.New("the new round number must be 2 or greater")

	// Lookup failures
	ErrLobbyNotFound  = errors.New("lobby not found in history")
	ErrResultNotFound = errors.New("match result not found")

	// Configuration: the mirroring destination is missing entirely. This
	// blocks the operation before any ledger mutation.
	ErrChannelNotConfigured = errors.New("lobby channel not set, run /setup first")

	// A thread already exists for the lobby
	ErrThreadExists = errors.New("lobby already has a discussion thread")
)
