package catalog

import (
	"context"
	"fmt"

	"github.com/camden-git/moviearchive/database"
	"github.com/camden-git/moviearchive/models"
	"github.com/hashicorp/go-hclog"
)

// AutocompleteLimit caps the number of autocomplete suggestions.
const AutocompleteLimit = 10

// Repository is the record store behind the catalog.
//
// CreateMovie opens one transaction, hands build a Store bound to it, and
// saves the aggregate build returns together with any staged genres and
// people. If build fails or the save is rejected nothing is persisted.
// Unique violations surface as ErrConflict and other constraint violations
// as ErrConstraint. Single-movie getters return ErrNotFound.
type Repository interface {
	CreateMovie(ctx context.Context, build func(Store) (*models.Movie, error)) (*models.Movie, error)
	GetByID(ctx context.Context, id uint) (*models.Movie, error)
	GetByNormalizedTitle(ctx context.Context, normalizedTitle string) (*models.Movie, error)
	ListAll(ctx context.Context, sortOrder string) ([]models.Movie, error)
	ListByPersonRole(ctx context.Context, personID uint, role models.MovieRole) ([]models.Movie, error)
	ListByGenre(ctx context.Context, genreID uint) ([]models.Movie, error)
	SearchByTitle(ctx context.Context, normalizedFragment string, limit int) ([]models.Movie, error)
}

// Service registers movies and answers catalog queries.
type Service struct {
	repo Repository
	log  hclog.Logger
}

func NewService(repo Repository, log hclog.Logger) *Service {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Service{repo: repo, log: log}
}

// CreateMovie validates sub, reconciles it against the store and saves it in
// a single transaction. Validation runs before the transaction is opened.
func (s *Service) CreateMovie(ctx context.Context, sub Submission) (MovieView, error) {
	if err := sub.Validate(); err != nil {
		s.log.Debug("rejected submission", "title", sub.Title, "error", err)
		return MovieView{}, err
	}

	movie, err := s.repo.CreateMovie(ctx, func(store Store) (*models.Movie, error) {
		return Reconcile(ctx, store, sub)
	})
	if err != nil {
		return MovieView{}, fmt.Errorf("creating movie %q: %w", sub.Title, err)
	}

	s.log.Info("movie created", "id", movie.ID, "title", movie.Title, "release_date", movie.ReleaseDate.String())
	return Project(movie), nil
}

func (s *Service) Movie(ctx context.Context, id uint) (MovieView, error) {
	movie, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return MovieView{}, err
	}
	return Project(movie), nil
}

// MovieByTitle finds a movie by title, ignoring case and whitespace.
func (s *Service) MovieByTitle(ctx context.Context, title string) (MovieView, error) {
	normalized := models.NormalizeTitle(title)
	if normalized == "" {
		return MovieView{}, ErrEmptyQuery
	}
	movie, err := s.repo.GetByNormalizedTitle(ctx, normalized)
	if err != nil {
		return MovieView{}, err
	}
	return Project(movie), nil
}

// Movies lists every movie. An empty sortOrder lists by id.
func (s *Service) Movies(ctx context.Context, sortOrder string) ([]MovieView, error) {
	if sortOrder == "" {
		sortOrder = database.DefaultSortOrder
	}
	if !database.IsValidSortOrder(sortOrder) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSortOrder, sortOrder)
	}
	movies, err := s.repo.ListAll(ctx, sortOrder)
	if err != nil {
		return nil, err
	}
	return ProjectAll(movies), nil
}

// MoviesByPersonRole lists movies where the person held role. No match is an
// empty list, not an error.
func (s *Service) MoviesByPersonRole(ctx context.Context, personID uint, role models.MovieRole) ([]MovieView, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRole, role)
	}
	movies, err := s.repo.ListByPersonRole(ctx, personID, role)
	if err != nil {
		return nil, err
	}
	return ProjectAll(movies), nil
}

func (s *Service) MoviesByGenre(ctx context.Context, genreID uint) ([]MovieView, error) {
	movies, err := s.repo.ListByGenre(ctx, genreID)
	if err != nil {
		return nil, err
	}
	return ProjectAll(movies), nil
}

// Autocomplete returns up to AutocompleteLimit movies whose normalized title
// contains the normalized query, ordered by title.
func (s *Service) Autocomplete(ctx context.Context, query string) ([]MovieView, error) {
	fragment := models.NormalizeTitle(query)
	if fragment == "" {
		return nil, ErrEmptyQuery
	}
	movies, err := s.repo.SearchByTitle(ctx, fragment, AutocompleteLimit)
	if err != nil {
		return nil, err
	}
	return ProjectAll(movies), nil
}
