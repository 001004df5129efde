package services

import "errors"

// Sentinel errors returned by the battle core and matched with errors.Is at
// the HTTP boundary.
var (
	ErrMealNotFound           = errors.New("meal not found")
	ErrRosterFull             = errors.New("combatant roster is full")
	ErrInsufficientCombatants = errors.New("two distinct combatants must be prepped before battle")
	ErrInvalidSortKey         = errors.New("invalid leaderboard sort key")
	ErrDuplicateMealName      = errors.New("meal name already exists")
	ErrDrawFailed             = errors.New("randomness source unavailable")
	ErrSnapshotDisabled       = errors.New("snapshot store is not configured")
)
