package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownRole is returned for role values outside the closed MovieRole set.
var ErrUnknownRole = errors.New("unknown movie role")

// Role is a row of the fixed 'roles' lookup table. Rows are seeded once at
// schema creation from SeedRoles and are never created at runtime.
type Role struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"not null;uniqueIndex"`
}

// TableName explicitly sets the table name for GORM.
func (Role) TableName() string {
	return "roles"
}

// MovieRole is the part a person played in making a movie.
type MovieRole int

const (
	RoleLeadActor MovieRole = 1
	RoleDirector  MovieRole = 2
	RoleWriter    MovieRole = 3
)

// AllMovieRoles lists the closed role set in id order.
var AllMovieRoles = []MovieRole{RoleLeadActor, RoleDirector, RoleWriter}

var movieRoleWireNames = map[MovieRole]string{
	RoleLeadActor: "LEADACTOR",
	RoleDirector:  "DIRECTOR",
	RoleWriter:    "WRITER",
}

var movieRoleRowNames = map[MovieRole]string{
	RoleLeadActor: "LeadActor",
	RoleDirector:  "Director",
	RoleWriter:    "Writer",
}

// SeedRoles returns the lookup rows that back MovieRole.
func SeedRoles() []Role {
	rows := make([]Role, 0, len(AllMovieRoles))
	for _, r := range AllMovieRoles {
		rows = append(rows, Role{ID: uint(r), Name: movieRoleRowNames[r]})
	}
	return rows
}

// Valid reports whether r belongs to the closed role set.
func (r MovieRole) Valid() bool {
	_, ok := movieRoleWireNames[r]
	return ok
}

// String returns the wire name, or the number for unknown values.
func (r MovieRole) String() string {
	if name, ok := movieRoleWireNames[r]; ok {
		return name
	}
	return strconv.Itoa(int(r))
}

// ParseMovieRole accepts a wire name (case-insensitive) or a numeric id.
// Numeric ids are returned even when unknown; callers check Valid.
func ParseMovieRole(s string) (MovieRole, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return MovieRole(n), nil
	}
	for role, name := range movieRoleWireNames {
		if strings.EqualFold(name, s) {
			return role, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

func (r MovieRole) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *MovieRole) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*r = MovieRole(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("movie role must be a name or number: %w", err)
	}
	parsed, err := ParseMovieRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
