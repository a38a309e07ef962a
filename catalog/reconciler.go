package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/camden-git/moviearchive/models"
	"github.com/shopspring/decimal"
)

// Store is the lookup side of the record store used during reconciliation.
// Lookups return ErrNotFound when nothing matches. Implementations are bound
// to the transaction the resulting aggregate will be saved in.
type Store interface {
	FindGenreByName(ctx context.Context, name string) (*models.Genre, error)
	FindPersonByName(ctx context.Context, firstName, lastName string) (*models.Person, error)
	FindRole(ctx context.Context, role models.MovieRole) (*models.Role, error)
}

type personName struct {
	first, last string
}

type personRole struct {
	person *models.Person
	role   models.MovieRole
}

// reconciler holds the per-submission identity maps. It is not reused across submissions.
type reconciler struct {
	store  Store
	genres map[string]*models.Genre
	people map[personName]*models.Person
	roles  map[models.MovieRole]*models.Role
}

// Reconcile validates sub and turns it into an unsaved movie aggregate.
// Existing genres and people are reused; missing ones are staged as rows with
// a zero ID that the store inserts when saving. Genres and people that appear
// more than once in sub resolve to the same row, and each person gets one
// association per distinct role.
func Reconcile(ctx context.Context, store Store, sub Submission) (*models.Movie, error) {
	if err := sub.Validate(); err != nil {
		return nil, err
	}

	movie := &models.Movie{
		Title:       strings.TrimSpace(sub.Title),
		Rating:      sub.Rating,
		ReleaseDate: *sub.ReleaseDate,
		AgeRating:   *sub.AgeRating,
		Plot:        sub.Plot,
		Runtime:     sub.Runtime,
	}
	if sub.Budget != nil {
		movie.Budget = decimal.NewNullDecimal(*sub.Budget)
	}

	r := &reconciler{
		store:  store,
		genres: make(map[string]*models.Genre),
		people: make(map[personName]*models.Person),
		roles:  make(map[models.MovieRole]*models.Role),
	}

	linkedGenres := make(map[*models.Genre]bool)
	for _, g := range sub.Genres {
		genre, err := r.genre(ctx, g.Name)
		if err != nil {
			return nil, err
		}
		if linkedGenres[genre] {
			continue
		}
		linkedGenres[genre] = true
		movie.MovieGenres = append(movie.MovieGenres, models.MovieGenre{
			GenreID: genre.ID,
			Genre:   genre,
		})
	}

	linkedRoles := make(map[personRole]bool)
	for _, inv := range sub.Involvements {
		person, err := r.person(ctx, inv.FirstName, inv.LastName)
		if err != nil {
			return nil, err
		}
		for _, role := range inv.Roles {
			key := personRole{person: person, role: role}
			if linkedRoles[key] {
				continue
			}
			row, err := r.role(ctx, role)
			if err != nil {
				return nil, err
			}
			linkedRoles[key] = true
			movie.MovieRoles = append(movie.MovieRoles, models.PersonMovieRole{
				PersonID: person.ID,
				RoleID:   row.ID,
				Person:   person,
				Role:     row,
			})
		}
	}

	return movie, nil
}

// genre matches names exactly, without trimming or case folding.
func (r *reconciler) genre(ctx context.Context, name string) (*models.Genre, error) {
	if g, ok := r.genres[name]; ok {
		return g, nil
	}
	g, err := r.store.FindGenreByName(ctx, name)
	switch {
	case errors.Is(err, ErrNotFound):
		g = &models.Genre{Name: name}
	case err != nil:
		return nil, fmt.Errorf("looking up genre %q: %w", name, err)
	}
	r.genres[name] = g
	return g, nil
}

func (r *reconciler) person(ctx context.Context, first, last string) (*models.Person, error) {
	key := personName{first: first, last: last}
	if p, ok := r.people[key]; ok {
		return p, nil
	}
	p, err := r.store.FindPersonByName(ctx, first, last)
	switch {
	case errors.Is(err, ErrNotFound):
		p = &models.Person{FirstName: first, LastName: last}
	case err != nil:
		return nil, fmt.Errorf("looking up person %q %q: %w", first, last, err)
	}
	r.people[key] = p
	return p, nil
}

func (r *reconciler) role(ctx context.Context, role models.MovieRole) (*models.Role, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRole, role)
	}
	if row, ok := r.roles[role]; ok {
		return row, nil
	}
	row, err := r.store.FindRole(ctx, role)
	switch {
	case errors.Is(err, ErrNotFound):
		return nil, fmt.Errorf("%w: %s has no lookup row", ErrUnknownRole, role)
	case err != nil:
		return nil, fmt.Errorf("looking up role %s: %w", role, err)
	}
	r.roles[role] = row
	return row, nil
}
