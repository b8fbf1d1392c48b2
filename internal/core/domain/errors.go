package domain

import (
	"errors"

	"go.trai.ch/zerr"
)

var (
	// ErrStorageUnavailable is returned when the persistent store cannot be opened or accessed.
	ErrStorageUnavailable = zerr.New("persistent store unavailable")

	// ErrCacheCorrupt is returned when a persisted snapshot cannot be decoded or fails its checksum.
	ErrCacheCorrupt = zerr.New("persisted menu snapshot is corrupt")

	// ErrStoreWriteFailed is returned when a snapshot cannot be written to the persistent store.
	ErrStoreWriteFailed = zerr.New("failed to write menu snapshot")

	// ErrStoreReadFailed is returned when a snapshot cannot be read from the persistent store.
	ErrStoreReadFailed = zerr.New("failed to read menu snapshot")

	// ErrNetwork is returned when the menu API cannot be reached or answers with a non-2xx status.
	ErrNetwork = zerr.New("menu request failed")

	// ErrNetworkTimeout is returned when the menu API does not answer within the request timeout.
	ErrNetworkTimeout = zerr.New("menu request timed out")

	// ErrParse is returned when the menu API answers with a body that is not a menu.
	ErrParse = zerr.New("failed to parse menu response")

	// ErrFeedUnavailable is returned when the realtime change feed cannot be subscribed to.
	ErrFeedUnavailable = zerr.New("change feed unavailable")

	// ErrFeedNotConfigured is returned when no change feed address is configured.
	ErrFeedNotConfigured = zerr.New("change feed not configured")

	// ErrInvalidChangeEvent is returned when a change event is missing the data its type requires.
	ErrInvalidChangeEvent = zerr.New("invalid change event")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidConfig is returned when a config value is out of range.
	ErrInvalidConfig = zerr.New("invalid configuration")

	// ErrInvalidItemID is returned when a menu item identifier is neither a number nor a string.
	ErrInvalidItemID = zerr.New("invalid menu item identifier")

	// ErrInvalidPrice is returned when a menu item carries a negative price.
	ErrInvalidPrice = zerr.New("menu item price must not be negative")

	// ErrMenuUnavailable is returned when no menu data could be obtained from any tier.
	ErrMenuUnavailable = zerr.New("menu unavailable")

	// ErrFeedServeFailed is returned when the change feed server cannot listen or serve.
	ErrFeedServeFailed = zerr.New("failed to serve change feed")

	// ErrWatcherStartFailed is returned when the store watcher cannot be started.
	ErrWatcherStartFailed = zerr.New("failed to start store watcher")
)

// IsNetworkFailure reports whether err is one of the failures a network attempt can produce.
// The orchestrator treats all of them as "network attempt failed".
func IsNetworkFailure(err error) bool {
	return errors.Is(err, ErrNetwork) ||
		errors.Is(err, ErrNetworkTimeout) ||
		errors.Is(err, ErrParse)
}

// UserMessage returns the message shown to a user when no menu data could be obtained at all.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNetworkTimeout):
		return "The menu is taking too long to load. Check your connection and try again."
	case errors.Is(err, ErrParse):
		return "The menu could not be read. Please try again later."
	case errors.Is(err, ErrNetwork):
		return "Unable to load the menu. Check your connection and try again."
	default:
		return "Something went wrong while loading the menu."
	}
}
