package usecases

import "errors"

var (
	// ErrInvalidSession is returned for session ids that are empty, too long
	// or contain characters outside [A-Za-z0-9_-].
	ErrInvalidSession = errors.New("invalid session id")
	// ErrInvalidDays is returned for forecast lengths outside 1..MaxForecastDays.
	ErrInvalidDays = errors.New("days must be between 1 and 16")
	// ErrInvalidCoordinates is returned for latitudes outside [-90, 90] or
	// longitudes outside [-180, 180].
	ErrInvalidCoordinates = errors.New("coordinates out of range")
	// ErrEmptyQuery is returned when a search has no query text.
	ErrEmptyQuery = errors.New("search query must not be empty")
)
