// Package roles ranks users by role and decides who may see the
// administration surface. The priority table below is the only place role
// ordering is defined.
package roles

import (
	"slices"

	"github.com/dmitrijs2005/schoolconnect/internal/client/models"
)

// Level is the closed set of role ranks. Its numeric value is the priority.
type Level int

const (
	LevelUnknown Level = iota
	LevelStandard
	LevelAdministrator
	LevelElevatedOwner
)

var levels = map[models.Role]Level{
	models.RoleOwner: LevelElevatedOwner,
	models.RoleAdmin: LevelAdministrator,
	models.RoleUser:  LevelStandard,
}

func (l Level) String() string {
	switch l {
	case LevelElevatedOwner:
		return "elevated-owner"
	case LevelAdministrator:
		return "administrator"
	case LevelStandard:
		return "standard"
	default:
		return "unknown"
	}
}

// LevelOf maps a wire role to its rank; unrecognised roles are LevelUnknown.
func LevelOf(role models.Role) Level {
	return levels[role]
}

// PriorityOf returns the ordinal priority of role, 0 for unknown roles.
func PriorityOf(role models.Role) int {
	return int(LevelOf(role))
}

// SortByPriorityDescending returns a copy of users ordered from the highest
// priority down. Users of equal priority keep their input order.
func SortByPriorityDescending(users []models.User) []models.User {
	sorted := slices.Clone(users)
	slices.SortStableFunc(sorted, func(a, b models.User) int {
		return PriorityOf(b.Role) - PriorityOf(a.Role)
	})
	return sorted
}

// IsElevatedOwner reports whether u may use the administration surface.
// It is the single gate for privileged views.
func IsElevatedOwner(u *models.User) bool {
	return u != nil && LevelOf(u.Role) == LevelElevatedOwner
}
